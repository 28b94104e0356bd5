package action

import (
	"context"

	"github.com/chaimleib/antares/engine/object"
	"github.com/chaimleib/antares/observe"
	"github.com/chaimleib/antares/types"
)

// QueueLength is the number of deferred batches that can wait at once.
const QueueLength = 120

type entry struct {
	// actions is nil for a free slot.
	actions   []types.Action
	countdown types.Ticks
	subject   object.Handle
	object    object.Handle
	offset    types.Point

	// next is one more than the index of the following entry; 0 ends the
	// list.
	next int
}

// Queue holds deferred action batches ordered by remaining countdown. The
// zero Queue is empty.
type Queue struct {
	entries [QueueLength]entry
	head    int
	dropped int
}

// Pending describes one waiting batch.
type Pending struct {
	Countdown types.Ticks
	Verb      types.Verb
	Records   int
}

// Reset empties the queue.
func (q *Queue) Reset() { *q = Queue{} }

// Len returns the number of waiting batches.
func (q *Queue) Len() int {
	n := 0
	for i := q.head; i != 0; i = q.entries[i-1].next {
		n++
	}
	return n
}

// Dropped returns how many batches were discarded because the queue was
// full.
func (q *Queue) Dropped() int { return q.dropped }

// Pending lists the waiting batches in firing order.
func (q *Queue) Pending() []Pending {
	var out []Pending
	for i := q.head; i != 0; i = q.entries[i-1].next {
		e := &q.entries[i-1]
		out = append(out, Pending{
			Countdown: e.countdown,
			Verb:      e.actions[0].Verb(),
			Records:   len(e.actions),
		})
	}
	return out
}

// add stores a batch in the first free slot and links it after every entry
// whose countdown is not greater. It reports false when no slot is free.
func (q *Queue) add(actions []types.Action, delay types.Ticks, subject, obj *object.SpaceObject, offset *types.Point) bool {
	slot := -1
	for i := range q.entries {
		if q.entries[i].actions == nil {
			slot = i
			break
		}
	}
	if slot < 0 {
		q.dropped++
		return false
	}

	e := &q.entries[slot]
	*e = entry{
		actions:   actions,
		countdown: delay,
		subject:   subject.Handle(),
		object:    obj.Handle(),
	}
	if offset != nil {
		e.offset = *offset
	}

	link := &q.head
	for *link != 0 && q.entries[*link-1].countdown <= delay {
		link = &q.entries[*link-1].next
	}
	e.next = *link
	*link = slot + 1
	return true
}

func (c *Context) schedule(actions []types.Action, delay types.Ticks, subject, obj *object.SpaceObject, offset *types.Point) {
	ctx := context.Background()
	if !c.Queue.add(actions, delay, subject, obj, offset) {
		c.Metrics.QueueDropped.Add(ctx, 1)
		c.Logger.Debug("action queue full, dropping batch",
			"verb", actions[0].Verb(), "delay", delay)
		return
	}
	c.Metrics.QueueScheduled.Add(ctx, 1)
}

// ExecuteQueue advances every waiting batch by elapsed ticks, then replays
// each batch whose countdown has run out, earliest first.
//
// A captured subject or object that has died or whose slot has been reused
// since the batch was scheduled is passed as nil.
func (c *Context) ExecuteQueue(elapsed types.Ticks) {
	q := &c.Queue
	for i := range q.entries {
		if q.entries[i].actions != nil {
			q.entries[i].countdown -= elapsed
		}
	}

	ctx := context.Background()
	for q.head != 0 {
		e := &q.entries[q.head-1]
		if e.countdown > 0 {
			break
		}
		actions, offset := e.actions, e.offset
		subject := c.resolve(e.subject, "subject")
		obj := c.resolve(e.object, "object")

		q.head = e.next
		*e = entry{}

		c.Metrics.QueueFired.Add(ctx, 1)
		c.Execute(actions, subject, obj, &offset, false)
	}
}

func (c *Context) resolve(h object.Handle, side string) *object.SpaceObject {
	if h == object.NoHandle {
		return nil
	}
	o := c.Pool.Get(h)
	if o == nil {
		c.Metrics.QueueStale.Add(context.Background(), 1, observe.Side(side))
	}
	return o
}

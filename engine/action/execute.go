package action

import (
	"context"

	"github.com/chaimleib/antares/engine/object"
	"github.com/chaimleib/antares/observe"
	"github.com/chaimleib/antares/types"
)

// Execute runs actions in order with the given subject and direct object,
// either of which may be nil.
//
// A record with VerbNone ends the slice. The first record with a positive
// delay, while allowDelay holds, defers itself and every record after it as
// one queued batch and returns. With allowDelay false every record runs
// now, so a batch replayed from the queue never defers again.
//
// If a change_score or display_message record ran, conditions are checked
// once after the slice completes.
func (c *Context) Execute(actions []types.Action, subject, direct *object.SpaceObject, offset *types.Point, allowDelay bool) {
	checkConditions := false

	for i := range actions {
		a := &actions[i]
		verb := a.Verb()
		if verb == types.VerbNone {
			break
		}

		subj := subject
		if a.SubjectOverride != types.NoInitial {
			subj = c.InitialObject(a.SubjectOverride)
		}
		obj := direct
		if a.DirectOverride != types.NoInitial {
			obj = c.InitialObject(a.DirectOverride)
		}

		if a.Delay > 0 && allowDelay {
			c.schedule(actions[i:], a.Delay, subj, obj, offset)
			return
		}

		c.resetZero()
		focus := obj
		if a.Reflexive || focus == nil {
			focus = subj
		}
		if obj == nil {
			obj = &c.zero
		}
		if subj == nil {
			subj = &c.zero
		}
		if focus == nil {
			focus = &c.zero
		} else if !ownerApplies(a.Owner, subj, obj) || !AppliesTo(a, obj) {
			continue
		}

		c.dispatch(a, focus, subj, obj, offset)
		c.Metrics.ActionsExecuted.Add(context.Background(), 1, observe.Verb(verb.String()))

		if verb == types.VerbChangeScore || verb == types.VerbDisplayMessage {
			checkConditions = true
		}
	}

	if checkConditions {
		c.Conditions.Check()
	}
}

func ownerApplies(owner int8, subject, obj *object.SpaceObject) bool {
	switch owner {
	case types.OwnerAny:
		return true
	case types.OwnerSame:
		return obj.Owner == subject.Owner
	case types.OwnerDifferent:
		return obj.Owner != subject.Owner
	}
	return false
}

// AppliesTo reports whether a's filter accepts target. A tag filter matches
// on the target's level tag; otherwise every inclusive attribute bit must
// be set on the target.
func AppliesTo(a *types.Action, target *object.SpaceObject) bool {
	if a.ExclusiveFilter == types.TagFilter {
		return target.Base != nil && a.LevelTag == target.Base.LevelTag
	}
	return a.InclusiveFilter&target.Attributes == a.InclusiveFilter
}

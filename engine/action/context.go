// Package action interprets action slices against live objects and owns
// the deferred action queue.
//
// Execution is single-threaded. Handlers mutate objects in the pool in
// place; objects captured by deferred batches are revalidated by handle
// when the batch fires.
package action

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/chaimleib/antares/engine/admiral"
	"github.com/chaimleib/antares/engine/object"
	"github.com/chaimleib/antares/observe"
	"github.com/chaimleib/antares/types"
)

// Sound plays sounds. at is nil for sounds played at absolute volume.
type Sound interface {
	Play(id, volume int32, persistence types.Ticks, priority int32, at *object.SpaceObject)
}

// Messages shows paged messages and the status line.
type Messages interface {
	Start(first, last int32)
	SetStatus(text string)
}

// Screen draws transient effects.
type Screen interface {
	Flash(length types.Ticks, hue types.Hue, shade int32)
	Sparks(count, speed int32, velocityRange types.Fixed, hue types.Hue, at types.Point)
}

// Conditions is the level's condition set.
type Conditions interface {
	Check()
	SetTrueYet(id types.ConditionID, trueYet bool)
}

// Winner records a declared winner.
type Winner struct {
	Admiral   types.AdmiralID
	NextLevel int32
	Text      string
}

// Globals is the level-wide state actions can change.
type Globals struct {
	KeyMask     uint32
	Zoom        types.Zoom
	Screen      types.Screen
	Line        int32
	MessageID   int32
	MessagePage int32
	Status      string
	Winner      *Winner

	ControlObject object.Handle
	TargetObject  object.Handle
}

// Context is one running simulation: the static scenario, the live object
// pool, the admirals and the deferred queue.
type Context struct {
	Scenario *types.Scenario
	Pool     *object.Pool
	Admirals *admiral.Table
	Queue    Queue
	Globals  Globals
	Rand     object.Random

	// Initials maps each initial to the live object created for it.
	Initials []object.Handle

	Sound      Sound
	Messages   Messages
	Screen     Screen
	Conditions Conditions
	Logger     *log.Logger
	Metrics    *observe.Metrics

	zero     object.SpaceObject
	zeroBase types.BaseObject
}

// New returns a context over s with no-op collaborators.
func New(s *types.Scenario, pool *object.Pool, admirals *admiral.Table) *Context {
	initials := make([]object.Handle, len(s.Level.Initials))
	for i := range initials {
		initials[i] = object.NoHandle
	}
	c := &Context{
		Scenario:   s,
		Pool:       pool,
		Admirals:   admirals,
		Initials:   initials,
		Sound:      nopSound{},
		Messages:   nopMessages{},
		Screen:     nopScreen{},
		Conditions: nopConditions{},
		Logger:     log.New(io.Discard),
		Metrics:    observe.Discard(),
		Globals: Globals{
			ControlObject: object.NoHandle,
			TargetObject:  object.NoHandle,
		},
	}
	c.resetZero()
	return c
}

// resetZero restores the inert stand-in for a missing subject or object.
func (c *Context) resetZero() {
	c.zeroBase = types.BaseObject{}
	c.zero = object.SpaceObject{
		Index:      -1,
		ID:         -1,
		Base:       &c.zeroBase,
		BaseID:     types.NoBase,
		Target:     object.NoHandle,
		LastTarget: object.NoHandle,
		Dest:       object.NoHandle,
	}
}

func (c *Context) isZero(o *object.SpaceObject) bool { return o == &c.zero }

// Base returns the base object for id, or nil.
func (c *Context) Base(id types.BaseID) *types.BaseObject {
	return c.Scenario.Base(id)
}

// InitialObject returns the live object created for initial i, or nil if
// there is none or it has since died.
func (c *Context) InitialObject(i types.InitialID) *object.SpaceObject {
	if i < 0 || int(i) >= len(c.Initials) {
		return nil
	}
	return c.Pool.Get(c.Initials[i])
}

type nopSound struct{}

func (nopSound) Play(int32, int32, types.Ticks, int32, *object.SpaceObject) {}

type nopMessages struct{}

func (nopMessages) Start(int32, int32) {}
func (nopMessages) SetStatus(string)   {}

type nopScreen struct{}

func (nopScreen) Flash(types.Ticks, types.Hue, int32)                          {}
func (nopScreen) Sparks(int32, int32, types.Fixed, types.Hue, types.Point) {}

type nopConditions struct{}

func (nopConditions) Check()                              {}
func (nopConditions) SetTrueYet(types.ConditionID, bool) {}

// Package engine provides the tick driver that wires a loaded scenario,
// its live objects, admirals, deferred action queue and conditions into
// one running level.
package engine

import (
	"github.com/charmbracelet/log"

	"github.com/chaimleib/antares/engine/action"
	"github.com/chaimleib/antares/engine/admiral"
	"github.com/chaimleib/antares/engine/object"
	"github.com/chaimleib/antares/engine/rules"
	"github.com/chaimleib/antares/observe"
	"github.com/chaimleib/antares/types"
)

// PoolSize is the number of live objects a level can hold at once.
const PoolSize = 250

// Engine holds the static scenario and the running level state.
type Engine struct {
	Scenario *types.Scenario
	Ctx      *action.Context
	Rules    *rules.Checker
	Seed     int64

	// Now is the level clock. It starts at the level's start time.
	Now types.Ticks

	// Elapsed counts the ticks advanced since Start.
	Elapsed types.Ticks

	started bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used by the engine and its actions.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.Ctx.Logger = l }
}

// WithMetrics sets the instruments the engine records into.
func WithMetrics(m *observe.Metrics) Option {
	return func(e *Engine) { e.Ctx.Metrics = m }
}

// WithSeed seeds the level's random stream.
func WithSeed(seed int64) Option {
	return func(e *Engine) { e.Seed = seed }
}

// WithSound sets the sound collaborator.
func WithSound(s action.Sound) Option {
	return func(e *Engine) { e.Ctx.Sound = s }
}

// WithMessages sets the message and status line collaborator.
func WithMessages(m action.Messages) Option {
	return func(e *Engine) { e.Ctx.Messages = m }
}

// WithScreen sets the screen effects collaborator.
func WithScreen(s action.Screen) Option {
	return func(e *Engine) { e.Ctx.Screen = s }
}

// New creates an engine for s. The level does not run until Start.
func New(s *types.Scenario, opts ...Option) *Engine {
	ctx := action.New(s, object.NewPool(PoolSize), admiral.New(s.Level.Players))
	e := &Engine{Scenario: s, Ctx: ctx}
	for _, opt := range opts {
		opt(e)
	}
	ctx.Rand = object.NewRandom(e.Seed)
	e.Rules = rules.New(ctx)
	ctx.Conditions = e.Rules
	return e
}

// Start creates every initial that is not hidden, gives the first admiral
// control of its flagship, and runs the first condition check. Calling
// Start again does nothing.
func (e *Engine) Start() {
	if e.started {
		return
	}
	e.started = true
	e.Now = e.Scenario.Level.StartTime
	e.Rules.Now = e.Now

	for i, in := range e.Scenario.Level.Initials {
		if in.Attributes&types.InitialHidden != 0 {
			continue
		}
		if e.Ctx.CreateInitial(types.InitialID(i)) == nil {
			e.Ctx.Logger.Warn("initial not created", "initial", i, "name", in.Name)
		}
	}
	if a := e.Ctx.Admirals.Get(0); a != nil {
		e.Ctx.Globals.ControlObject = a.Flagship
	}
	e.Ctx.Logger.Debug("level started", "title", e.Scenario.Level.Title,
		"objects", e.Ctx.Pool.Len(), "conditions", e.Rules.Len())
	e.Rules.Check()
}

// Over reports whether a winner has been declared.
func (e *Engine) Over() bool { return e.Ctx.Globals.Winner != nil }

// Tick advances the level by elapsed ticks: objects age and expire, weapons
// recharge, periodic objects activate, due deferred actions replay, and
// conditions are checked. A finished level does not advance.
func (e *Engine) Tick(elapsed types.Ticks) {
	e.Start()
	if elapsed <= 0 || e.Over() {
		return
	}
	e.Now += elapsed
	e.Elapsed += elapsed
	e.Rules.Now = e.Now
	ctx := e.Ctx

	var expired, activated []*object.SpaceObject
	ctx.Pool.Each(func(o *object.SpaceObject) {
		if o.State != object.Alive {
			return
		}
		for _, w := range []*object.Weapon{&o.Pulse, &o.Beam, &o.Special} {
			if w.Time -= elapsed; w.Time < 0 {
				w.Time = 0
			}
		}
		if o.Age >= 0 {
			if o.Age -= elapsed; o.Age <= 0 {
				expired = append(expired, o)
			}
		}
		if period := o.Base.ActivatePeriod; period.End > 0 {
			if o.ActivateTimer -= elapsed; o.ActivateTimer <= 0 {
				activated = append(activated, o)
			}
		}
	})

	for _, o := range expired {
		o.Age = -1
		ctx.ExpireObject(o)
	}
	ctx.Reap()

	for _, o := range activated {
		if o.State != object.Alive {
			continue
		}
		period := o.Base.ActivatePeriod
		o.ActivateTimer = period.Begin + types.Ticks(o.Random.Next(int32(period.End-period.Begin)))
		ctx.Execute(o.Base.OnActivate, o, nil, nil, true)
	}

	ctx.ExecuteQueue(elapsed)
	e.Rules.Check()
	ctx.Reap()
}

// Collide runs a's on-collide actions against b, then b's against a.
func (e *Engine) Collide(a, b *object.SpaceObject) {
	if !a.Live() || !b.Live() {
		return
	}
	e.Ctx.Execute(a.Base.OnCollide, a, b, nil, true)
	if b.State == object.Alive {
		e.Ctx.Execute(b.Base.OnCollide, b, a, nil, true)
	}
}

// Arrive marks o as having reached its destination and runs its on-arrive
// actions against the destination object.
func (e *Engine) Arrive(o *object.SpaceObject) {
	if !o.Live() || o.Arrived {
		return
	}
	o.Arrived = true
	e.Ctx.Execute(o.Base.OnArrive, o, e.Ctx.Pool.Get(o.Dest), nil, true)
}

// AdmiralResult is one admiral's standing.
type AdmiralResult struct {
	Name   string
	Score  [admiral.ScoreCount]int32
	Kills  int32
	Losses int32
	Cash   types.Fixed
}

// Result summarizes the level as it stands.
type Result struct {
	Title    string
	Chapter  int64
	Seed     int64
	Elapsed  types.Ticks
	Winner   types.AdmiralID
	Text     string
	Dropped  int
	Admirals []AdmiralResult
}

// Result returns the current standings. Winner is NoAdmiral until one is
// declared.
func (e *Engine) Result() Result {
	r := Result{
		Title:   e.Scenario.Level.Title,
		Chapter: e.Scenario.Level.Chapter,
		Seed:    e.Seed,
		Elapsed: e.Elapsed,
		Winner:  types.NoAdmiral,
		Dropped: e.Ctx.Queue.Dropped(),
	}
	if w := e.Ctx.Globals.Winner; w != nil {
		r.Winner, r.Text = w.Admiral, w.Text
	}
	for i := 0; i < e.Ctx.Admirals.Len(); i++ {
		a := e.Ctx.Admirals.Get(types.AdmiralID(i))
		r.Admirals = append(r.Admirals, AdmiralResult{
			Name:   a.Name,
			Score:  a.Score,
			Kills:  a.Kills,
			Losses: a.Losses,
			Cash:   a.Cash,
		})
	}
	return r
}

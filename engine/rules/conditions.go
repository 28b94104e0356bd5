// Package rules evaluates a level's conditions and fires their actions.
package rules

import (
	"cmp"
	"math"

	"github.com/chaimleib/antares/engine/action"
	"github.com/chaimleib/antares/engine/object"
	"github.com/chaimleib/antares/types"
)

// maxPasses bounds how many times one Check re-evaluates the condition list
// when fired actions ask for another check.
const maxPasses = 8

// Checker tracks which of a level's conditions are still armed.
type Checker struct {
	ctx        *action.Context
	conditions []types.Condition
	enabled    []bool

	// Now is the level time conditions compare against.
	Now types.Ticks

	checking bool
	again    bool
	fired    []bool
}

// New arms every condition of the context's level that is not initially
// disabled.
func New(ctx *action.Context) *Checker {
	conds := ctx.Scenario.Level.Conditions
	ch := &Checker{
		ctx:        ctx,
		conditions: conds,
		enabled:    make([]bool, len(conds)),
	}
	for i, c := range conds {
		ch.enabled[i] = !c.InitiallyDisabled
	}
	return ch
}

// Len returns the number of conditions.
func (ch *Checker) Len() int { return len(ch.conditions) }

// TrueYet reports whether condition id has fired or been disarmed.
func (ch *Checker) TrueYet(id types.ConditionID) bool {
	if id < 0 || int(id) >= len(ch.enabled) {
		return false
	}
	return !ch.enabled[id]
}

// SetTrueYet disarms condition id, or re-arms it when trueYet is false.
func (ch *Checker) SetTrueYet(id types.ConditionID, trueYet bool) {
	if id < 0 || int(id) >= len(ch.enabled) {
		return
	}
	ch.enabled[id] = !trueYet
}

// Check fires every armed condition that holds, in level order. A
// non-persistent condition disarms itself when it fires. A Check requested
// by fired actions re-runs the pass instead of recursing; conditions that
// already fired during this Check are skipped by later passes.
func (ch *Checker) Check() {
	if ch.checking {
		ch.again = true
		return
	}
	ch.checking = true
	ch.fired = make([]bool, len(ch.conditions))
	defer func() { ch.checking = false }()

	for pass := 0; pass < maxPasses; pass++ {
		ch.again = false
		ch.pass()
		if !ch.again {
			return
		}
	}
	ch.ctx.Logger.Debug("condition check did not settle", "passes", maxPasses)
}

func (ch *Checker) pass() {
	for i := range ch.conditions {
		if !ch.enabled[i] || ch.fired[i] {
			continue
		}
		c := &ch.conditions[i]
		subject := ch.ctx.InitialObject(c.Subject)
		obj := ch.ctx.InitialObject(c.Object)
		if !ch.Holds(c, subject, obj) {
			continue
		}
		if !c.Persistent {
			ch.enabled[i] = false
		}
		ch.fired[i] = true
		ch.ctx.Logger.Debug("condition fired", "condition", c.Name, "index", i)
		ch.ctx.Execute(c.Action, subject, obj, nil, true)
	}
}

// Holds evaluates c's test with the given subject and object, either of
// which may be nil.
func (ch *Checker) Holds(c *types.Condition, subject, obj *object.SpaceObject) bool {
	ctx := ch.ctx
	g := &ctx.Globals

	switch t := c.Test.(type) {
	case types.AutopilotCondition:
		return subject != nil && compareBool(c.Op, subject.Attributes&types.OnAutoPilot != 0, t.Value)

	case types.BuildingCondition:
		if subject == nil {
			return false
		}
		a := ctx.Admirals.Get(subject.Owner)
		return a != nil && compareBool(c.Op, a.Building, t.Value)

	case types.ComputerCondition:
		match := g.Screen == t.Screen && (t.Line < 0 || int64(g.Line) == t.Line)
		return compareBool(c.Op, match, true)

	case types.CounterCondition:
		return compare(c.Op, int64(ctx.Admirals.Score(t.Player, int32(t.Counter))), t.Value)

	case types.DestroyedCondition:
		return compareBool(c.Op, ctx.InitialObject(t.Initial) == nil, t.Value)

	case types.DistanceCondition:
		if subject == nil || obj == nil {
			return false
		}
		dx := int64(subject.Location.X) - int64(obj.Location.X)
		dy := int64(subject.Location.Y) - int64(obj.Location.Y)
		return compare(c.Op, dx*dx+dy*dy, t.Value*t.Value)

	case types.FalseCondition:
		return false

	case types.HealthCondition:
		if subject == nil || subject.Base.Health <= 0 {
			return false
		}
		return compare(c.Op, float64(subject.Health)/float64(subject.Base.Health), t.Value)

	case types.MessageCondition:
		match := int64(g.MessageID) == t.ID && int64(g.MessagePage) == t.Page
		return compareBool(c.Op, match, true)

	case types.OrderedCondition:
		return subject != nil && obj != nil && subject.Dest == obj.Handle()

	case types.OwnerCondition:
		return subject != nil && compare(c.Op, subject.Owner, t.Player)

	case types.ShipsCondition:
		return compare(c.Op, int64(ch.ships(t.Player)), t.Value)

	case types.SpeedCondition:
		if subject == nil {
			return false
		}
		v := subject.Velocity
		speed := types.FixedFromFloat(math.Hypot(v.X.Float(), v.Y.Float()))
		return compare(c.Op, speed, t.Value)

	case types.SubjectCondition:
		if subject == nil {
			return false
		}
		var want object.Handle
		switch t.Value {
		case types.SubjectControl:
			want = g.ControlObject
		case types.SubjectTarget:
			want = g.TargetObject
		case types.SubjectPlayer:
			if a := ctx.Admirals.Get(0); a != nil {
				want = a.Flagship
			}
		}
		return compareBool(c.Op, subject.Handle() == want, true)

	case types.TimeCondition:
		return compare(c.Op, ch.Now, t.Value)

	case types.ZoomCondition:
		return compare(c.Op, g.Zoom, t.Value)
	}
	return false
}

// ships counts the live engageable non-destination objects owned by player.
func (ch *Checker) ships(player types.AdmiralID) int {
	n := 0
	ch.ctx.Pool.Each(func(o *object.SpaceObject) {
		if o.State == object.Alive && o.Owner == player &&
			o.Attributes&types.CanBeEngaged != 0 && o.Attributes&types.IsDestination == 0 {
			n++
		}
	})
	return n
}

func compare[T cmp.Ordered](op types.Op, a, b T) bool {
	switch op {
	case types.OpEq:
		return a == b
	case types.OpNe:
		return a != b
	case types.OpLt:
		return a < b
	case types.OpGt:
		return a > b
	case types.OpLe:
		return a <= b
	case types.OpGe:
		return a >= b
	}
	return false
}

// compareBool supports only eq and ne.
func compareBool(op types.Op, a, b bool) bool {
	switch op {
	case types.OpEq:
		return a == b
	case types.OpNe:
		return a != b
	}
	return false
}

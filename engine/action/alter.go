package action

import (
	"github.com/chaimleib/antares/engine/object"
	"github.com/chaimleib/antares/types"
)

func (c *Context) alter(a *types.Action, args types.Alter, focus, subject, obj *object.SpaceObject) {
	min, rng := args.Minimum, args.Range
	switch args.Kind {
	case types.AlterDamage:
		c.AlterHealth(focus, int64(min))

	case types.AlterEnergy:
		c.AlterEnergy(focus, int64(min))

	case types.AlterHidden:
		for i := min; i <= min+rng; i++ {
			c.CreateInitial(types.InitialID(i))
		}

	case types.AlterCloak:
		focus.Cloaked = true

	case types.AlterSpin:
		if focus.Attributes&types.CanTurn == 0 {
			return
		}
		rate := defaultTurnRate
		if r, ok := focus.Base.Frame.(types.RotationFrame); ok && focus.Attributes&types.ShapeFromDirection != 0 {
			rate = r.TurnRate
		}
		f := rate.Mul(types.Fixed(min + focus.Random.Next(rng)))
		focus.TurnVelocity = perMass(f, focus.Base.Mass)

	case types.AlterOffline:
		f := types.Fixed(min + focus.Random.Next(rng))
		focus.OfflineTime = perMass(f, focus.Base.Mass).Int()

	case types.AlterVelocity:
		c.alterVelocity(a, args, focus, subject, obj)

	case types.AlterMaxVelocity:
		if min < 0 {
			focus.MaxVelocity = focus.Base.MaxVelocity
		} else {
			focus.MaxVelocity = types.Fixed(min)
		}

	case types.AlterThrust:
		f := types.Fixed(min + focus.Random.Next(rng))
		if args.Relative {
			focus.Thrust += f
		} else {
			focus.Thrust = f
		}

	case types.AlterBaseType:
		if a.Reflexive || !c.isZero(obj) {
			c.ChangeBaseType(focus, types.BaseID(min), args.Relative)
		}

	case types.AlterOwner:
		switch {
		case !args.Relative:
			c.AlterOwner(focus, types.AdmiralID(min), false)
		case a.Reflexive && !c.isZero(obj):
			c.AlterOwner(focus, obj.Owner, true)
		default:
			c.AlterOwner(focus, subject.Owner, true)
		}

	case types.AlterConditionTrueYet:
		last := min
		if rng > 0 {
			last = min + rng
		}
		for i := min; i <= last; i++ {
			c.Conditions.SetTrueYet(types.ConditionID(i), args.Relative)
		}

	case types.AlterOccupation:
		c.AlterOccupation(focus, subject.Owner, min)

	case types.AlterAbsoluteCash:
		if args.Relative {
			if !c.isZero(focus) {
				c.Admirals.PayAbsolute(focus.Owner, types.Fixed(min))
			}
		} else {
			c.Admirals.PayAbsolute(types.AdmiralID(rng), types.Fixed(min))
		}

	case types.AlterAge:
		t := types.Ticks(min + focus.Random.Next(rng))
		if !args.Relative {
			focus.Age = t
			return
		}
		if focus.Age >= 0 {
			focus.Age += t
			if focus.Age < 0 {
				focus.Age = 0
			}
		} else {
			focus.Age += t
		}

	case types.AlterLocation:
		var at types.Point
		if args.Relative {
			if !c.isZero(obj) {
				at = subject.Location
			} else {
				at = obj.Location
			}
		}
		at.X += focus.Random.Next(min<<1) - min
		at.Y += focus.Random.Next(min<<1) - min
		focus.Location = at

	case types.AlterAbsoluteLocation:
		if args.Relative {
			focus.Location.X += min
			focus.Location.Y += rng
		} else {
			focus.Location = types.Point{X: min, Y: rng}
		}

	case types.AlterWeapon1:
		c.SetWeapon(focus, &focus.Pulse, types.BaseID(min))
	case types.AlterWeapon2:
		c.SetWeapon(focus, &focus.Beam, types.BaseID(min))
	case types.AlterSpecial:
		c.SetWeapon(focus, &focus.Special, types.BaseID(min))

	case types.AlterLevelTag:
	}
}

// defaultTurnRate is the raw turn rate of objects without rotation frames.
const defaultTurnRate types.Fixed = 2

// perMass divides f by mass; a massless object gets -1.
func perMass(f, mass types.Fixed) types.Fixed {
	if mass == 0 {
		return -1
	}
	return f.Div(mass)
}

func (c *Context) alterVelocity(a *types.Action, args types.Alter, focus, subject, obj *object.SpaceObject) {
	min := types.Fixed(args.Minimum)

	if c.isZero(obj) {
		r := rotation(focus.Direction)
		v := types.FixedPoint{X: min.Mul(r.X), Y: min.Mul(r.Y)}
		if args.Relative {
			focus.Velocity.X += v.X
			focus.Velocity.Y += v.Y
		} else {
			focus.Velocity = v
		}
		return
	}

	if !args.Relative {
		r := rotation(subject.Direction)
		focus.Velocity = types.FixedPoint{X: min.Mul(r.X), Y: min.Mul(r.Y)}
		return
	}

	if obj.Base.Mass <= 0 || obj.MaxVelocity <= 0 {
		return
	}
	if min >= 0 {
		// Push the object along the subject's relative motion.
		mass := int32(obj.Base.Mass)
		obj.Velocity.X += types.Fixed((int32(subject.Velocity.X-obj.Velocity.X) / mass) << 6)
		obj.Velocity.Y += types.Fixed((int32(subject.Velocity.Y-obj.Velocity.Y) / mass) << 6)
	} else {
		obj.Velocity.X += obj.Velocity.X.Mul(min)
		obj.Velocity.Y += obj.Velocity.Y.Mul(min)
	}
	clampVelocity(obj)
}

// clampVelocity limits each component of o's velocity to the projection
// of its max velocity along its current heading.
func clampVelocity(o *object.SpaceObject) {
	r := rotation(heading(o.Velocity))
	limX := abs(o.MaxVelocity.Mul(r.X))
	limY := abs(o.MaxVelocity.Mul(r.Y))
	o.Velocity.X = clamp(o.Velocity.X, -limX, limX)
	o.Velocity.Y = clamp(o.Velocity.Y, -limY, limY)
}

func abs(f types.Fixed) types.Fixed {
	if f < 0 {
		return -f
	}
	return f
}

func clamp(f, lo, hi types.Fixed) types.Fixed {
	switch {
	case f < lo:
		return lo
	case f > hi:
		return hi
	}
	return f
}

package action

import (
	"context"
	"math"

	"github.com/chaimleib/antares/engine/object"
	"github.com/chaimleib/antares/types"
)

// CreateObject allocates an object of base id and runs its on-create
// actions. It returns nil if the base is unknown or the pool is full.
func (c *Context) CreateObject(id types.BaseID, velocity types.FixedPoint, at types.Point, direction int32, owner types.AdmiralID) *object.SpaceObject {
	base := c.Base(id)
	if base == nil {
		return nil
	}
	o := c.Pool.Alloc()
	if o == nil {
		c.Logger.Debug("object pool full", "base", base.Name)
		return nil
	}

	o.BaseID = id
	o.Base = base
	o.Name = base.Name
	o.Attributes = base.Attributes
	o.Owner = owner
	o.Random = object.NewRandom(c.Rand.Int63())
	o.Location = at
	o.Health = base.Health
	o.Energy = base.Energy
	o.MaxVelocity = base.MaxVelocity
	o.Thrust = base.MaxThrust

	o.Direction = normalizeAngle(direction + int32(base.InitialDirection.Begin) +
		o.Random.Next(int32(base.InitialDirection.End-base.InitialDirection.Begin)))

	o.Velocity = velocity
	if speed := base.InitialVelocity.Begin + types.Fixed(o.Random.Next(int32(base.InitialVelocity.End-base.InitialVelocity.Begin))); speed != 0 {
		r := rotation(o.Direction)
		o.Velocity.X += speed.Mul(r.X)
		o.Velocity.Y += speed.Mul(r.Y)
	}

	if base.InitialAge.Begin >= 0 {
		o.Age = base.InitialAge.Begin + types.Ticks(o.Random.Next(int32(base.InitialAge.End-base.InitialAge.Begin)))
	}
	if base.ActivatePeriod.End > 0 {
		o.ActivateTimer = base.ActivatePeriod.Begin + types.Ticks(o.Random.Next(int32(base.ActivatePeriod.End-base.ActivatePeriod.Begin)))
	}

	c.resetWeapons(o)
	c.Metrics.ObjectsLive.Add(context.Background(), 1)

	c.Execute(base.OnCreate, o, nil, nil, true)
	return o
}

// CreateInitial creates the object for initial i if it does not already
// exist and returns it.
func (c *Context) CreateInitial(i types.InitialID) *object.SpaceObject {
	if i < 0 || int(i) >= len(c.Scenario.Level.Initials) {
		return nil
	}
	if o := c.InitialObject(i); o != nil {
		return o
	}
	init := &c.Scenario.Level.Initials[i]
	o := c.CreateObject(init.Base, types.FixedPoint{}, init.At, 0, init.Owner)
	if o == nil {
		return nil
	}
	c.Initials[i] = o.Handle()

	if init.Rename != "" {
		o.Name = init.Rename
	}
	if init.Attributes&types.InitialIsPlayerShip != 0 {
		o.Attributes |= types.IsPlayerShip
		if a := c.Admirals.Get(init.Owner); a != nil && c.Pool.Get(a.Flagship) == nil {
			a.Flagship = o.Handle()
		}
	}
	if init.Attributes&types.InitialStaticDestination != 0 {
		o.Attributes |= types.StaticDestination
	}
	if t := c.InitialObject(init.Target); t != nil {
		o.Target = t.Handle()
	}
	c.Admirals.AddBuildable(init.Owner, init.Build...)
	if init.Earning != 0 {
		if a := c.Admirals.Get(init.Owner); a != nil {
			a.EarningPower += init.Earning
		}
	}
	return o
}

// DestroyObject runs o's on-destroy actions and marks it for freeing
// unless its base says it survives.
func (c *Context) DestroyObject(o *object.SpaceObject) {
	if !o.Live() || o.State == object.ToBeFreed {
		return
	}
	if o.Attributes&types.NeutralDeath != 0 {
		o.Owner = types.NoAdmiral
	}
	if a := c.Admirals.Get(o.Owner); a != nil && o.Attributes&types.CanBeEngaged != 0 {
		a.Losses++
	}
	c.Execute(o.Base.OnDestroy, o, nil, nil, true)
	if !o.Base.DestroyDontDie {
		o.State = object.ToBeFreed
	}
}

// ExpireObject runs o's on-expire actions and marks it for freeing unless
// its base says it survives.
func (c *Context) ExpireObject(o *object.SpaceObject) {
	if !o.Live() || o.State == object.ToBeFreed {
		return
	}
	c.Execute(o.Base.OnExpire, o, nil, nil, true)
	if !o.Base.ExpireDontDie {
		o.State = object.ToBeFreed
	}
}

// Reap frees every object marked for freeing and returns how many were
// freed.
func (c *Context) Reap() int {
	var dead []*object.SpaceObject
	c.Pool.Each(func(o *object.SpaceObject) {
		if o.State == object.ToBeFreed {
			dead = append(dead, o)
		}
	})
	for _, o := range dead {
		c.Pool.Free(o)
	}
	if len(dead) > 0 {
		c.Metrics.ObjectsLive.Add(context.Background(), -int64(len(dead)))
	}
	return len(dead)
}

// AlterHealth adds amount to o's health, capped at its base health.
// Health falling below zero destroys the object.
func (c *Context) AlterHealth(o *object.SpaceObject, amount int64) {
	o.Health += amount
	if amount > 0 && o.Health > o.Base.Health {
		o.Health = o.Base.Health
	}
	if o.Health < 0 {
		c.DestroyObject(o)
	}
}

// AlterEnergy adds amount to o's energy, clamped to [0, base energy].
func (c *Context) AlterEnergy(o *object.SpaceObject, amount int64) {
	o.Energy += amount
	switch {
	case o.Energy < 0:
		o.Energy = 0
	case o.Energy > o.Base.Energy:
		o.Energy = o.Base.Energy
	}
}

// AlterOwner hands o to owner. With announce set the status line reports
// the capture.
func (c *Context) AlterOwner(o *object.SpaceObject, owner types.AdmiralID, announce bool) {
	if o.Owner == owner {
		return
	}
	o.Owner = owner
	o.Target = object.NoHandle
	o.LastTarget = object.NoHandle
	if announce && o.Live() {
		name := "nobody"
		if a := c.Admirals.Get(owner); a != nil {
			name = a.Name
		}
		c.setStatus(o.Name + " captured by " + name)
	}
}

// AlterOccupation adds amount toward owner capturing o. Reaching the base's
// occupy count transfers ownership.
func (c *Context) AlterOccupation(o *object.SpaceObject, owner types.AdmiralID, amount int32) {
	if o.Base.OccupyCount <= 0 {
		return
	}
	if o.Occupier != owner {
		o.Occupier = owner
		o.Occupation = 0
	}
	o.Occupation += amount
	if int64(o.Occupation) >= o.Base.OccupyCount {
		c.AlterOwner(o, owner, true)
		o.Occupation = 0
	}
}

// ChangeBaseType turns o into an object of base id. Unless keepState is
// set, health and energy are refilled from the new base.
func (c *Context) ChangeBaseType(o *object.SpaceObject, id types.BaseID, keepState bool) {
	base := c.Base(id)
	if base == nil {
		return
	}
	kept := o.Attributes & (types.IsPlayerShip | types.RemoteOrHuman | types.OnAutoPilot | types.StaticDestination)
	o.BaseID = id
	o.Base = base
	o.Attributes = base.Attributes | kept
	o.MaxVelocity = base.MaxVelocity
	o.Thrust = base.MaxThrust
	if !keepState {
		o.Health = base.Health
		o.Energy = base.Energy
	}
	c.resetWeapons(o)
}

// SetDestination sends o toward target.
func (c *Context) SetDestination(o, target *object.SpaceObject) {
	o.Dest = target.Handle()
	o.Arrived = false
}

// SetWeapon mounts base id in w, or empties it for NoBase.
func (c *Context) SetWeapon(o *object.SpaceObject, w *object.Weapon, id types.BaseID) {
	*w = object.Weapon{Base: types.NoBase}
	if base := c.Base(id); base != nil {
		w.Base = id
		if d, ok := base.Frame.(types.DeviceFrame); ok {
			w.Ammo = d.Ammo
		}
	}
	c.weaponRanges(o)
}

// CreateFloatingBody leaves a body behind for a player-controlled o and
// passes control to it.
func (c *Context) CreateFloatingBody(o *object.SpaceObject) *object.SpaceObject {
	body := c.CreateObject(c.Scenario.Info.PlayerBody, o.Velocity, o.Location, o.Direction, o.Owner)
	if body == nil {
		return nil
	}
	moved := o.Attributes & (types.IsPlayerShip | types.RemoteOrHuman)
	body.Attributes |= moved
	o.Attributes &^= moved
	if a := c.Admirals.Get(o.Owner); a != nil && a.Flagship == o.Handle() {
		a.Flagship = body.Handle()
	}
	if c.Globals.ControlObject == o.Handle() {
		c.Globals.ControlObject = body.Handle()
	}
	return body
}

// ActivateSpecial fires o's special weapon if it is loaded, charged and
// ready.
func (c *Context) ActivateSpecial(o *object.SpaceObject) {
	w := &o.Special
	base := c.Base(w.Base)
	if base == nil || w.Time > 0 {
		return
	}
	if d, ok := base.Frame.(types.DeviceFrame); ok {
		if w.Ammo == 0 || o.Energy < int64(d.EnergyCost) {
			return
		}
		o.Energy -= int64(d.EnergyCost)
		if w.Ammo > 0 {
			w.Ammo--
		}
		w.Time = d.FireTime
	}
	c.Execute(base.OnActivate, o, nil, nil, true)
}

func (c *Context) resetWeapons(o *object.SpaceObject) {
	mount := func(w *object.Weapon, spec *types.Weapon) {
		*w = object.Weapon{Base: types.NoBase}
		if spec == nil {
			return
		}
		if base := c.Base(spec.Base); base != nil {
			w.Base = spec.Base
			if d, ok := base.Frame.(types.DeviceFrame); ok {
				w.Ammo = d.Ammo
			}
		}
	}
	mount(&o.Pulse, o.Base.Weapons.Pulse)
	mount(&o.Beam, o.Base.Weapons.Beam)
	mount(&o.Special, o.Base.Weapons.Special)
	c.weaponRanges(o)
}

// weaponRanges recomputes the longest and shortest ranges over o's
// attacking weapons.
func (c *Context) weaponRanges(o *object.SpaceObject) {
	o.LongestWeaponRange, o.ShortestWeaponRange = 0, 0
	for _, w := range []*object.Weapon{&o.Pulse, &o.Beam, &o.Special} {
		base := c.Base(w.Base)
		if base == nil {
			continue
		}
		d, ok := base.Frame.(types.DeviceFrame)
		if !ok || d.Usage&usageAttacking == 0 {
			continue
		}
		if d.Range > o.LongestWeaponRange {
			o.LongestWeaponRange = d.Range
		}
		if o.ShortestWeaponRange == 0 || d.Range < o.ShortestWeaponRange {
			o.ShortestWeaponRange = d.Range
		}
	}
}

// usageAttacking is the "attacking" bit of a device's usage flags.
const usageAttacking = 1 << 1

func (c *Context) setStatus(text string) {
	c.Globals.Status = text
	c.Messages.SetStatus(text)
}

// rotation returns the unit vector for a heading in degrees.
func rotation(angle int32) types.FixedPoint {
	rad := float64(angle) * math.Pi / 180
	return types.FixedPoint{
		X: types.FixedFromFloat(math.Cos(rad)),
		Y: types.FixedFromFloat(math.Sin(rad)),
	}
}

// heading returns the angle of v in degrees, in [0, 360).
func heading(v types.FixedPoint) int32 {
	deg := math.Atan2(v.Y.Float(), v.X.Float()) * 180 / math.Pi
	return normalizeAngle(int32(math.Round(deg)))
}

func normalizeAngle(a int32) int32 {
	a %= 360
	if a < 0 {
		a += 360
	}
	return a
}

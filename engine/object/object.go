// Package object holds live space objects in a fixed-size arena. Slots are
// reused; each reuse bumps the slot's generation so that a Handle captured
// before the reuse no longer resolves.
package object

import "github.com/chaimleib/antares/types"

// State is a slot's lifecycle state.
type State int

const (
	Free State = iota
	Alive
	ToBeFreed
)

// Presence is how an object currently exists in space.
type Presence int

const (
	PresenceNormal Presence = iota
	PresenceLanding
	PresenceWarpIn
	PresenceWarping
	PresenceWarpOut
)

// Handle identifies a live object by slot and generation.
type Handle struct {
	Index int
	ID    int32
}

// NoHandle never resolves.
var NoHandle = Handle{Index: -1, ID: -1}

// Weapon is the live state of one weapon slot.
type Weapon struct {
	Base     types.BaseID
	Ammo     int32
	Time     types.Ticks
	Position int
}

// SpaceObject is one live object.
type SpaceObject struct {
	Index int
	ID    int32
	State State

	BaseID     types.BaseID
	Base       *types.BaseObject
	Attributes uint32
	Owner      types.AdmiralID
	Name       string

	Location     types.Point
	Velocity     types.FixedPoint
	Direction    int32
	TargetAngle  int32
	TurnVelocity types.Fixed
	MaxVelocity  types.Fixed
	Thrust       types.Fixed
	OfflineTime  int32
	Health       int64
	Energy       int64
	Cloaked      bool

	// Age counts down to expiry; negative means the object never expires.
	Age           types.Ticks
	ActivateTimer types.Ticks

	Target     Handle
	LastTarget Handle
	Dest       Handle
	Arrived    bool

	Presence     Presence
	PresenceData int64

	// Occupation counts toward Occupier capturing the object.
	Occupier   types.AdmiralID
	Occupation int32

	Pulse   Weapon
	Beam    Weapon
	Special Weapon

	LongestWeaponRange  int32
	ShortestWeaponRange int32

	Random Random
}

// Handle returns o's handle, or NoHandle for objects outside the pool.
func (o *SpaceObject) Handle() Handle {
	if o == nil || o.Index < 0 {
		return NoHandle
	}
	return Handle{Index: o.Index, ID: o.ID}
}

// Live reports whether o occupies a pool slot.
func (o *SpaceObject) Live() bool {
	return o != nil && o.Index >= 0 && o.State != Free
}

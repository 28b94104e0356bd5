package types

// Object attribute bits.
const (
	CanTurn              uint32 = 0x00000001
	CanBeEngaged         uint32 = 0x00000002
	HasDirectionGoal     uint32 = 0x00000004
	IsRemote             uint32 = 0x00000008
	IsHumanControlled    uint32 = 0x00000010
	IsBeam               uint32 = 0x00000020
	DoesBounce           uint32 = 0x00000040
	IsSelfAnimated       uint32 = 0x00000080
	ShapeFromDirection   uint32 = 0x00000100
	IsPlayerShip         uint32 = 0x00000200
	CanBeDestination     uint32 = 0x00000400
	CanEngage            uint32 = 0x00000800
	CanEvade             uint32 = 0x00001000
	CanAcceptMessages    uint32 = 0x00002000
	CanAcceptBuild       uint32 = 0x00004000
	CanAcceptDestination uint32 = 0x00008000
	AutoTarget           uint32 = 0x00010000
	AnimationCycle       uint32 = 0x00020000
	CanCollide           uint32 = 0x00040000
	CanBeHit             uint32 = 0x00080000
	IsDestination        uint32 = 0x00100000
	HideEffect           uint32 = 0x00200000
	ReleaseEnergyOnDeath uint32 = 0x00400000
	Hated                uint32 = 0x00800000
	OccupiesSpace        uint32 = 0x01000000
	StaticDestination    uint32 = 0x02000000
	CanBeEvaded          uint32 = 0x04000000
	NeutralDeath         uint32 = 0x08000000
	IsGuided             uint32 = 0x10000000
	AppearOnRadar        uint32 = 0x20000000
	OnAutoPilot          uint32 = 0x80000000

	IsVector      = IsBeam
	RemoteOrHuman = IsRemote | IsHumanControlled
)

// AttributeNames lists attribute flag keys in bit order.
var AttributeNames = []string{
	"can_turn", "can_be_engaged", "has_direction_goal", "is_remote",
	"is_human_controlled", "is_beam", "does_bounce", "is_self_animated",
	"shape_from_direction", "is_player_ship", "can_be_destination", "can_engage",
	"can_evade", "can_accept_messages", "can_accept_build", "can_accept_destination",
	"auto_target", "animation_cycle", "can_collide", "can_be_hit",
	"is_destination", "hide_effect", "release_energy_on_death", "hated",
	"occupies_space", "static_destination", "can_be_evaded", "neutral_death",
	"is_guided", "appear_on_radar", "bit31", "on_autopilot",
}

// OrderFlagNames lists order flag keys in bit order.
var OrderFlagNames = []string{
	"stronger_than_target", "base", "not_base", "local",
	"remote", "only_escort_not_base", "friend", "foe",
	"bit09", "bit10", "bit11", "bit12", "bit13", "bit14", "bit15", "bit16",
	"bit17", "bit18", "hard_matching_friend", "hard_matching_foe",
	"hard_friendly_escort_only", "hard_no_friendly_escort", "hard_remote", "hard_local",
	"hard_foe", "hard_friend", "hard_not_base", "hard_base",
}

// BuildFlagNames lists build flag keys in bit order.
var BuildFlagNames = []string{
	"uncaptured_base_exists", "sufficient_escorts_exist", "this_base_needs_protection", "friend_up_trend",
	"friend_down_trend", "foe_up_trend", "foe_down_trend", "matching_foe_exists",
	"bit09", "bit10", "bit11", "bit12", "bit13", "bit14", "bit15", "bit16",
	"bit17", "bit18", "bit19", "bit20", "bit21", "bit22", "only_engaged_by", "can_only_engage",
}

// UsageNames lists device usage keys in bit order.
var UsageNames = []string{"transportation", "attacking", "defense"}

// BaseObject is the static template for a kind of space object.
type BaseObject struct {
	Name      string
	ShortName string
	Portrait  string

	Attributes uint32
	BuildFlags uint32
	OrderFlags uint32

	Price                int64
	DestinationClass     int64
	WarpOutDistance      int64
	Health               int64
	Damage               int64
	Energy               int64
	SkillNum             int64
	SkillDen             int64
	OccupyCount          int64
	ArriveActionDistance int64

	Offense       Fixed
	MaxVelocity   Fixed
	WarpSpeed     Fixed
	Mass          Fixed
	MaxThrust     Fixed
	FriendDeficit Fixed
	BuildRatio    Fixed

	BuildTime   Ticks
	ShieldColor *Color

	InitialVelocity  Range[Fixed]
	InitialAge       Range[Ticks]
	InitialDirection Range[int64]

	OnDestroy  []Action
	OnExpire   []Action
	OnCreate   []Action
	OnCollide  []Action
	OnActivate []Action
	OnArrive   []Action

	Icon    Icon
	Weapons Loadout
	Frame   Frame

	DestroyDontDie bool
	ExpireDontDie  bool
	ActivatePeriod Range[Ticks]

	LevelTag  string
	EngageTag string
	OrderTag  string
}

// IconShape is the radar icon shape.
type IconShape int

const (
	IconSquare IconShape = iota
	IconTriangle
	IconDiamond
	IconPlus
	IconFramedSquare
)

// Icon describes how an object is drawn on the scanner.
type Icon struct {
	Shape IconShape
	Size  int64
}

// Weapon is one mounted weapon in a loadout.
type Weapon struct {
	Base      BaseID
	Positions []FixedPoint
}

// Loadout is the set of optional weapons an object carries.
type Loadout struct {
	Pulse   *Weapon
	Beam    *Weapon
	Special *Weapon
}

// Frame is the closed set of frame kinds. The kind is selected by the
// owning object's attribute bits.
type Frame interface {
	frame()
}

// RotationFrame is a sprite with one image per facing.
type RotationFrame struct {
	Sprite   string
	Layer    int64
	Scale    int32
	Frames   Range[int64]
	TurnRate Fixed
}

// ScaleOne is the sprite scale of an object drawn at actual size.
const ScaleOne = 4096

// NaturalScale returns the sprite scale of b's frame, or ScaleOne for frames
// that carry none.
func (b *BaseObject) NaturalScale() int32 {
	switch f := b.Frame.(type) {
	case RotationFrame:
		return f.Scale
	case AnimationFrame:
		return f.Scale
	}
	return ScaleOne
}

// AnimationDirection is the playback direction of a self-animated frame.
type AnimationDirection int

const (
	AnimationNone AnimationDirection = iota
	AnimationMinus
	AnimationPlus
	AnimationRandom
)

// AnimationFrame is a self-animated sprite.
type AnimationFrame struct {
	Sprite    string
	Layer     int64
	Scale     int32
	Frames    Range[Fixed]
	Direction AnimationDirection
	Speed     Fixed
	First     Range[Fixed]
}

// VectorKind selects how a vector frame is drawn.
type VectorKind int

const (
	VectorKinetic VectorKind = iota
	VectorStaticObject
	VectorStaticTo
	VectorBoltObject
	VectorBoltTo
	VectorBolt
)

// VectorFrame is a beam or bolt.
type VectorFrame struct {
	Kind      VectorKind
	Accuracy  int64
	Range     int64
	Visible   bool
	BoltColor Color
	BeamHue   Hue
}

// DeviceFrame is a weapon or device.
type DeviceFrame struct {
	Usage        uint32
	EnergyCost   int32
	FireTime     Ticks
	Ammo         int32
	Range        int32
	InverseSpeed Fixed
	RestockCost  int32
}

func (RotationFrame) frame()  {}
func (AnimationFrame) frame() {}
func (VectorFrame) frame()    {}
func (DeviceFrame) frame()    {}

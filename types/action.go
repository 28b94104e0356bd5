package types

// Owner relations an action can require between its subject and object.
const (
	OwnerAny       int8 = 0
	OwnerSame      int8 = 1
	OwnerDifferent int8 = -1
)

// TagFilter in ExclusiveFilter selects level-tag matching.
const TagFilter uint32 = 0xffffffff

// Action is one record in an action slice. The zero Action has no Args
// and terminates the slice it appears in.
type Action struct {
	Reflexive bool
	Owner     int8
	Delay     Ticks

	InclusiveFilter uint32
	ExclusiveFilter uint32
	LevelTag        string

	SubjectOverride InitialID
	DirectOverride  InitialID

	Args ActionArgs
}

// Verb names the record's kind.
func (a *Action) Verb() Verb {
	if a.Args == nil {
		return VerbNone
	}
	return a.Args.Verb()
}

// Verb is the discriminant of an action record.
type Verb int

const (
	VerbNone Verb = iota
	VerbCreateObject
	VerbPlaySound
	VerbMakeSparks
	VerbDie
	VerbNilTarget
	VerbAlter
	VerbLandAt
	VerbEnterWarp
	VerbChangeScore
	VerbDeclareWinner
	VerbDisplayMessage
	VerbSetDestination
	VerbActivateSpecial
	VerbColorFlash
	VerbEnableKeys
	VerbDisableKeys
	VerbSetZoom
	VerbComputerSelect
	VerbAssumeInitial
)

var verbNames = [...]string{
	"none", "create", "sound", "spark", "die", "nil_target", "alter",
	"land", "warp", "score", "win", "message", "move", "activate",
	"flash", "enable_keys", "disable_keys", "zoom", "select", "assume",
}

func (v Verb) String() string {
	if v < 0 || int(v) >= len(verbNames) {
		return "unknown"
	}
	return verbNames[v]
}

// ActionArgs is the verb-specific payload of an action.
type ActionArgs interface {
	Verb() Verb
}

// CreateObject creates CountMin plus a random [0, CountRange) objects of Base
// around the subject, aimed by the focus.
type CreateObject struct {
	Base              BaseID
	CountMin          int32
	CountRange        int32
	VelocityRelative  bool
	DirectionRelative bool
	RandomDistance    int32
	SetDest           bool
}

// PlaySound plays a sound chosen from [IDMin, IDMin+IDRange].
type PlaySound struct {
	IDMin       int32
	IDRange     int32
	Volume      int32
	Persistence Ticks
	Priority    int32
	Absolute    bool
}

// MakeSparks emits a spark burst at the focus.
type MakeSparks struct {
	Count         int32
	Speed         int32
	VelocityRange Fixed
	Hue           Hue
}

// DieKind selects which object dies and how.
type DieKind int

const (
	DieNone DieKind = iota
	DieExpire
	DieDestroy
)

// Die removes the focus, or the subject for the expire and destroy kinds.
type Die struct {
	Kind DieKind
}

// NilTarget clears the focus's target.
type NilTarget struct{}

// AlterKind selects the property an Alter action changes.
type AlterKind int

const (
	AlterDamage AlterKind = iota
	AlterEnergy
	AlterHidden
	AlterCloak
	AlterSpin
	AlterOffline
	AlterVelocity
	AlterMaxVelocity
	AlterThrust
	AlterBaseType
	AlterOwner
	AlterConditionTrueYet
	AlterOccupation
	AlterAbsoluteCash
	AlterAge
	AlterLocation
	AlterAbsoluteLocation
	AlterWeapon1
	AlterWeapon2
	AlterSpecial
	AlterLevelTag
)

// Alter changes one property of the focus. The meaning of Minimum and
// Range depends on Kind; fixed-point kinds hold raw 16.16 values.
type Alter struct {
	Kind     AlterKind
	Minimum  int32
	Range    int32
	Relative bool
}

// LandAt makes the subject land on the focus.
type LandAt struct {
	Speed int32
}

// EnterWarp makes the subject warp in.
type EnterWarp struct{}

// ChangeScore adds Amount to one of an admiral's scores. Player -1 means
// the focus's owner.
type ChangeScore struct {
	Player AdmiralID
	Which  int32
	Amount int32
}

// DeclareWinner ends the level.
type DeclareWinner struct {
	Player    AdmiralID
	NextLevel int32
	Text      string
}

// DisplayMessage starts a paged message.
type DisplayMessage struct {
	ID    int32
	Pages int32
}

// SetDestination orders the subject to the focus.
type SetDestination struct{}

// ActivateSpecial fires the subject's special weapon.
type ActivateSpecial struct{}

// ColorFlash flashes the screen.
type ColorFlash struct {
	Length Ticks
	Hue    Hue
	Shade  int32
}

// EnableKeys unmasks keys.
type EnableKeys struct {
	Mask uint32
}

// DisableKeys masks keys.
type DisableKeys struct {
	Mask uint32
}

// SetZoom changes the scanner zoom.
type SetZoom struct {
	Zoom Zoom
}

// ComputerSelect moves the mini-computer cursor.
type ComputerSelect struct {
	Screen Screen
	Line   int32
}

// AssumeInitial rebinds an initial to the focus.
type AssumeInitial struct {
	Which int32
}

func (CreateObject) Verb() Verb    { return VerbCreateObject }
func (PlaySound) Verb() Verb       { return VerbPlaySound }
func (MakeSparks) Verb() Verb      { return VerbMakeSparks }
func (Die) Verb() Verb             { return VerbDie }
func (NilTarget) Verb() Verb       { return VerbNilTarget }
func (Alter) Verb() Verb           { return VerbAlter }
func (LandAt) Verb() Verb          { return VerbLandAt }
func (EnterWarp) Verb() Verb       { return VerbEnterWarp }
func (ChangeScore) Verb() Verb     { return VerbChangeScore }
func (DeclareWinner) Verb() Verb   { return VerbDeclareWinner }
func (DisplayMessage) Verb() Verb  { return VerbDisplayMessage }
func (SetDestination) Verb() Verb  { return VerbSetDestination }
func (ActivateSpecial) Verb() Verb { return VerbActivateSpecial }
func (ColorFlash) Verb() Verb      { return VerbColorFlash }
func (EnableKeys) Verb() Verb      { return VerbEnableKeys }
func (DisableKeys) Verb() Verb     { return VerbDisableKeys }
func (SetZoom) Verb() Verb         { return VerbSetZoom }
func (ComputerSelect) Verb() Verb  { return VerbComputerSelect }
func (AssumeInitial) Verb() Verb   { return VerbAssumeInitial }

// KeyNames lists key mask keys in bit order.
var KeyNames = []string{
	"up", "down", "left", "right", "fire_1", "fire_2", "fire_s", "warp",
	"select_friend", "select_foe", "select_base", "target", "order", "transfer",
	"comp_up", "comp_down", "comp_accept", "comp_cancel", "zoom_in", "zoom_out",
	"zoom_1", "zoom_2", "zoom_3", "zoom_4", "zoom_5", "zoom_6", "zoom_7", "zoom_8",
	"message_next", "help", "volume_down", "volume_up",
}

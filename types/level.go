package types

// LevelType is the kind of level.
type LevelType int

const (
	LevelDemo LevelType = iota
	LevelSolo
	LevelNet
)

func (t LevelType) String() string {
	switch t {
	case LevelDemo:
		return "demo"
	case LevelSolo:
		return "solo"
	case LevelNet:
		return "net"
	}
	return "unknown"
}

// PlayerType is who controls an admiral.
type PlayerType int

const (
	PlayerHuman PlayerType = iota
	PlayerCPU
)

// MaxTypeBaseCanBuild bounds an initial's build list.
const MaxTypeBaseCanBuild = 12

// Level is the root scenario definition.
type Level struct {
	Type    LevelType
	Chapter int64
	Title   string

	Players    []Player
	Initials   []Initial
	Conditions []Condition
	Briefings  []Briefing

	StarMap      Point
	Song         int64
	ScoreStrings []string
	StartTime    Ticks
	IsTraining   bool
	Angle        int64
	ParTime      Ticks
	ParKills     int64
	ParLosses    int64

	// Solo and net text.
	NoShips     string
	Prologue    string
	Epilogue    string
	OwnNoShips  string
	FoeNoShips  string
	Description string
}

// Player is one admiral slot in a level.
type Player struct {
	Name         string
	Type         PlayerType
	Race         RaceID
	EarningPower Fixed
}

// Initial attribute bits.
const (
	InitialFixedRace         uint32 = 0x01
	InitialHidden            uint32 = 0x02
	InitialIsPlayerShip      uint32 = 0x04
	InitialStaticDestination uint32 = 0x08
)

// InitialAttributeNames lists initial attribute keys in bit order.
var InitialAttributeNames = []string{"fixed_race", "initially_hidden", "is_player_ship", "static_destination"}

// Initial is a level-authored object placement.
type Initial struct {
	Name           string
	Base           BaseID
	Owner          AdmiralID
	At             Point
	Earning        Fixed
	Rename         string
	SpriteOverride int64
	Target         InitialID
	Attributes     uint32
	Build          []BaseID
}

// Briefing is one page of the pre-level briefing.
type Briefing struct {
	Object  InitialID
	Title   string
	Content string
}

// Op is a condition comparison operator.
type Op int

const (
	OpEq Op = iota
	OpNe
	OpLt
	OpGt
	OpLe
	OpGe
)

// SubjectValue names the objects a subject condition can compare against.
type SubjectValue int

const (
	SubjectControl SubjectValue = iota
	SubjectTarget
	SubjectPlayer
)

// Condition is a level trigger. When Test first holds, Action runs with the
// resolved Subject and Object.
type Condition struct {
	Name              string
	Op                Op
	Persistent        bool
	InitiallyDisabled bool
	Subject           InitialID
	Object            InitialID
	Action            []Action
	Test              ConditionTest
}

// ConditionTest is the closed set of condition predicates.
type ConditionTest interface {
	conditionTest()
}

type (
	AutopilotCondition struct{ Value bool }
	BuildingCondition  struct{ Value bool }
	ComputerCondition  struct {
		Screen Screen
		Line   int64
	}
	CounterCondition struct {
		Player  AdmiralID
		Counter int64
		Value   int64
	}
	DestroyedCondition struct {
		Initial InitialID
		Value   bool
	}
	DistanceCondition struct{ Value int64 }
	FalseCondition    struct{}
	HealthCondition   struct{ Value float64 }
	MessageCondition  struct {
		ID   int64
		Page int64
	}
	OrderedCondition struct{}
	OwnerCondition   struct{ Player AdmiralID }
	ShipsCondition   struct {
		Player AdmiralID
		Value  int64
	}
	SpeedCondition   struct{ Value Fixed }
	SubjectCondition struct{ Value SubjectValue }
	TimeCondition    struct{ Value Ticks }
	ZoomCondition    struct{ Value Zoom }
)

func (AutopilotCondition) conditionTest() {}
func (BuildingCondition) conditionTest()  {}
func (ComputerCondition) conditionTest()  {}
func (CounterCondition) conditionTest()   {}
func (DestroyedCondition) conditionTest() {}
func (DistanceCondition) conditionTest()  {}
func (FalseCondition) conditionTest()     {}
func (HealthCondition) conditionTest()    {}
func (MessageCondition) conditionTest()   {}
func (OrderedCondition) conditionTest()   {}
func (OwnerCondition) conditionTest()     {}
func (ShipsCondition) conditionTest()     {}
func (SpeedCondition) conditionTest()     {}
func (SubjectCondition) conditionTest()   {}
func (TimeCondition) conditionTest()      {}
func (ZoomCondition) conditionTest()      {}

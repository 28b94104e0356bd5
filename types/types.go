// Package types defines the shared data structures for the Antares scenario
// engine: the static scenario model produced by the loader and the units it
// is expressed in. Apart from unit arithmetic this package holds no logic.
package types

import (
	"fmt"
	"math"
	"strconv"
)

// Fixed is a 16.16 signed fixed-point number.
type Fixed int32

// FixedOne is 1.0 in fixed-point.
const FixedOne Fixed = 1 << 16

// FixedFromInt converts an integer to fixed-point.
func FixedFromInt(n int32) Fixed { return Fixed(n << 16) }

// FixedFromFloat converts a float to the nearest fixed-point value.
func FixedFromFloat(f float64) Fixed { return Fixed(math.Round(f * 65536)) }

// Int truncates toward negative infinity.
func (f Fixed) Int() int32 { return int32(f) >> 16 }

// Float returns f as a float64.
func (f Fixed) Float() float64 { return float64(f) / 65536 }

// Mul multiplies two fixed-point numbers.
func (f Fixed) Mul(g Fixed) Fixed { return Fixed((int64(f) * int64(g)) >> 16) }

// Div divides f by g. Division by zero yields zero.
func (f Fixed) Div(g Fixed) Fixed {
	if g == 0 {
		return 0
	}
	return Fixed((int64(f) << 16) / int64(g))
}

func (f Fixed) String() string {
	return strconv.FormatFloat(f.Float(), 'f', -1, 64)
}

// Ticks counts simulation ticks. There are TicksPerSecond ticks in a second.
type Ticks int64

// TicksPerSecond is the simulation rate.
const TicksPerSecond = 60

func (t Ticks) String() string { return fmt.Sprintf("%dt", int64(t)) }

// Point is an integer location in scenario space.
type Point struct {
	X, Y int32
}

// FixedPoint is a vector in fixed-point, used for velocities and weapon mounts.
type FixedPoint struct {
	X, Y Fixed
}

// Rect is an integer rectangle; Right and Bottom are exclusive.
type Rect struct {
	Left, Top, Right, Bottom int32
}

// Range is a half-open interval [Begin, End).
type Range[T any] struct {
	Begin, End T
}

// Color is an RGB triple.
type Color struct {
	R, G, B uint8
}

// Hue indexes the sixteen-entry shade palette.
type Hue int

const (
	HueRed Hue = iota
	HueOrange
	HueYellow
	HueBlue
	HueGreen
	HuePurple
	HueIndigo
	HueSalmon
	HueGold
	HueAqua
	HuePink
	HuePaleGreen
	HuePalePurple
	HueSkyBlue
	HueTan
	HueGray
)

// Zoom is a scanner zoom setting.
type Zoom int

const (
	ZoomDouble Zoom = iota
	ZoomActual
	ZoomHalf
	ZoomQuarter
	ZoomSixteenth
	ZoomFoe
	ZoomObject
	ZoomAll
)

// Screen is a mini-computer screen.
type Screen int

const (
	ScreenMain Screen = iota
	ScreenBuild
	ScreenSpecial
	ScreenMessage
	ScreenStatus
)

// Handles into the static scenario tables. The zero handle is valid;
// -1 means none.
type (
	AdmiralID   int
	BaseID      int
	InitialID   int
	ConditionID int
	RaceID      int
)

const (
	NoAdmiral   AdmiralID   = -1
	NoBase      BaseID      = -1
	NoInitial   InitialID   = -1
	NoCondition ConditionID = -1
	NoRace      RaceID      = -1
)

// Info describes the plugin a scenario belongs to.
type Info struct {
	Title        string
	Author       string
	Version      string
	WarpInFlare  BaseID
	WarpOutFlare BaseID
	PlayerBody   BaseID
	EnergyBlob   BaseID
}

// Race is a playable faction.
type Race struct {
	Name      string
	Adjective string
	Advantage Fixed
}

// Scenario is the fully loaded, read-only definition of one level and the
// object types it uses.
type Scenario struct {
	Info      Info
	Level     Level
	Bases     []BaseObject
	BaseNames []string
	Races     []Race
}

// Base returns the base object for id, or nil if id is out of range.
func (s *Scenario) Base(id BaseID) *BaseObject {
	if id < 0 || int(id) >= len(s.Bases) {
		return nil
	}
	return &s.Bases[id]
}

// Package admiral tracks the per-player state that actions and conditions
// read and write: cash, scores, kills and the build list shown on the
// mini-computer.
package admiral

import (
	"github.com/chaimleib/antares/engine/object"
	"github.com/chaimleib/antares/types"
)

// ScoreCount is the number of score slots per admiral.
const ScoreCount = 3

// MaxCash caps an admiral's cash.
var MaxCash = types.FixedFromInt(30000)

// Admiral is one player's live state.
type Admiral struct {
	Name         string
	Type         types.PlayerType
	Race         types.RaceID
	Cash         types.Fixed
	EarningPower types.Fixed
	Score        [ScoreCount]int32
	Kills        int32
	Losses       int32
	ShipsLeft    int32
	Flagship     object.Handle

	// Building is set while a build is in progress.
	Building   bool
	BuildQueue []types.BaseID
	CanBuild   []types.BaseID
}

// Table is the admirals of one level, indexed by AdmiralID.
type Table struct {
	admirals []Admiral
}

// New creates one admiral per player.
func New(players []types.Player) *Table {
	t := &Table{admirals: make([]Admiral, len(players))}
	for i, p := range players {
		t.admirals[i] = Admiral{
			Name:         p.Name,
			Type:         p.Type,
			Race:         p.Race,
			EarningPower: p.EarningPower,
			Flagship:     object.NoHandle,
		}
	}
	return t
}

// Len returns the number of admirals.
func (t *Table) Len() int { return len(t.admirals) }

// Get returns the admiral for id, or nil.
func (t *Table) Get(id types.AdmiralID) *Admiral {
	if id < 0 || int(id) >= len(t.admirals) {
		return nil
	}
	return &t.admirals[id]
}

// Pay credits amount scaled by the admiral's earning power.
func (t *Table) Pay(id types.AdmiralID, amount types.Fixed) {
	if a := t.Get(id); a != nil {
		t.PayAbsolute(id, amount.Mul(a.EarningPower))
	}
}

// PayAbsolute credits amount as is, clamping the balance to [0, MaxCash].
func (t *Table) PayAbsolute(id types.AdmiralID, amount types.Fixed) {
	a := t.Get(id)
	if a == nil {
		return
	}
	cash := int64(a.Cash) + int64(amount)
	switch {
	case cash < 0:
		cash = 0
	case cash > int64(MaxCash):
		cash = int64(MaxCash)
	}
	a.Cash = types.Fixed(cash)
}

// AlterScore adds amount to score slot which.
func (t *Table) AlterScore(id types.AdmiralID, which, amount int32) {
	a := t.Get(id)
	if a == nil || which < 0 || which >= ScoreCount {
		return
	}
	a.Score[which] += amount
}

// Score returns score slot which, or 0.
func (t *Table) Score(id types.AdmiralID, which int32) int32 {
	a := t.Get(id)
	if a == nil || which < 0 || which >= ScoreCount {
		return 0
	}
	return a.Score[which]
}

// AddBuildable records that id can build each of bases.
func (t *Table) AddBuildable(id types.AdmiralID, bases ...types.BaseID) {
	a := t.Get(id)
	if a == nil {
		return
	}
	for _, b := range bases {
		if b < 0 || contains(a.CanBuild, b) {
			continue
		}
		a.CanBuild = append(a.CanBuild, b)
	}
}

func contains(ids []types.BaseID, id types.BaseID) bool {
	for _, x := range ids {
		if x == id {
			return true
		}
	}
	return false
}

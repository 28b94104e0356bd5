// Package save implements JSON serialization of level results.
package save

import (
	"encoding/json"
	"fmt"

	"github.com/chaimleib/antares/engine"
	"github.com/chaimleib/antares/types"
)

// Version is the record format written by Save.
const Version = 1

// Record is the JSON-serializable result of one level run.
type Record struct {
	Version    int       `json:"version"`
	Level      string    `json:"level"`
	Chapter    int64     `json:"chapter"`
	Seed       int64     `json:"seed"`
	Ticks      int64     `json:"ticks"`
	Winner     int       `json:"winner"`
	WinnerName string    `json:"winner_name,omitempty"`
	Text       string    `json:"text,omitempty"`
	Dropped    int       `json:"dropped,omitempty"`
	Admirals   []Admiral `json:"admirals"`
}

// Admiral is one admiral's standing in a Record.
type Admiral struct {
	Name   string   `json:"name"`
	Score  [3]int32 `json:"score"`
	Kills  int32    `json:"kills"`
	Losses int32    `json:"losses"`
	Cash   float64  `json:"cash"`
}

// Finished reports whether the run ended with a declared winner.
func (r *Record) Finished() bool { return r.Winner >= 0 }

// FromResult converts an engine result to a Record.
func FromResult(res engine.Result) Record {
	r := Record{
		Version:  Version,
		Level:    res.Title,
		Chapter:  res.Chapter,
		Seed:     res.Seed,
		Ticks:    int64(res.Elapsed),
		Winner:   int(res.Winner),
		Text:     res.Text,
		Dropped:  res.Dropped,
		Admirals: []Admiral{},
	}
	for i, a := range res.Admirals {
		if types.AdmiralID(i) == res.Winner {
			r.WinnerName = a.Name
		}
		r.Admirals = append(r.Admirals, Admiral{
			Name:   a.Name,
			Score:  a.Score,
			Kills:  a.Kills,
			Losses: a.Losses,
			Cash:   a.Cash.Float(),
		})
	}
	return r
}

// Save serializes an engine result to JSON bytes.
func Save(res engine.Result) ([]byte, error) {
	return Encode(FromResult(res))
}

// Encode serializes a record to JSON bytes.
func Encode(r Record) ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Load deserializes JSON bytes into a Record.
func Load(data []byte) (*Record, error) {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, err
	}
	if r.Version != Version {
		return nil, fmt.Errorf("unsupported record version %d", r.Version)
	}
	// Ensure the admiral list is never nil after load.
	if r.Admirals == nil {
		r.Admirals = []Admiral{}
	}
	return &r, nil
}

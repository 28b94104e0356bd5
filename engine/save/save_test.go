package save

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/chaimleib/antares/engine"
	"github.com/chaimleib/antares/types"
)

func testResult() engine.Result {
	return engine.Result{
		Title:   "Skirmish",
		Chapter: 3,
		Seed:    42,
		Elapsed: 600,
		Winner:  1,
		Text:    "Victory.",
		Dropped: 2,
		Admirals: []engine.AdmiralResult{
			{Name: "Hera", Score: [3]int32{1, 2, 3}, Losses: 4, Cash: types.FixedFromInt(100)},
			{Name: "Ozy", Kills: 4, Cash: types.FixedFromFloat(2.5)},
		},
	}
}

func TestRoundTrip(t *testing.T) {
	data, err := Save(testResult())
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	r, err := Load(data)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if r.Version != Version {
		t.Errorf("Version = %d, want %d", r.Version, Version)
	}
	if r.Level != "Skirmish" || r.Chapter != 3 || r.Seed != 42 || r.Ticks != 600 {
		t.Errorf("header = %+v", r)
	}
	if r.Winner != 1 || r.WinnerName != "Ozy" || !r.Finished() {
		t.Errorf("winner = %d %q", r.Winner, r.WinnerName)
	}
	if len(r.Admirals) != 2 {
		t.Fatalf("Admirals = %d, want 2", len(r.Admirals))
	}
	if r.Admirals[0].Score != [3]int32{1, 2, 3} || r.Admirals[0].Losses != 4 {
		t.Errorf("Admirals[0] = %+v", r.Admirals[0])
	}
	if r.Admirals[1].Cash != 2.5 || r.Admirals[1].Kills != 4 {
		t.Errorf("Admirals[1] = %+v", r.Admirals[1])
	}
}

func TestSave_ValidJSON(t *testing.T) {
	data, err := Save(testResult())
	if err != nil {
		t.Fatal(err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	for _, key := range []string{"version", "level", "seed", "ticks", "winner", "admirals"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}
}

func TestUnfinishedRun(t *testing.T) {
	res := testResult()
	res.Winner = types.NoAdmiral
	res.Text = ""
	r := FromResult(res)
	if r.Finished() || r.WinnerName != "" {
		t.Errorf("record = %+v, want unfinished", r)
	}
}

func TestLoad_NilAdmirals(t *testing.T) {
	r, err := Load([]byte(`{"version":1,"level":"x","winner":-1}`))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if r.Admirals == nil {
		t.Error("Admirals should be an empty slice, not nil")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{"bad json", `{`, "unexpected end"},
		{"wrong version", `{"version":9}`, "unsupported record version 9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.data))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want %q", err, tt.want)
			}
		})
	}
}

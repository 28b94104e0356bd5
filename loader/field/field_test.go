package field

import (
	"errors"
	"testing"

	"github.com/chaimleib/antares/types"
)

type player struct {
	Name string
	Race types.RaceID
}

var playerFields = Fields[player]{
	Bind("name", func(p *player) *string { return &p.Name }, String),
	Bind("race", func(p *player) *types.RaceID { return &p.Race }, Race),
}

type roster struct {
	Players []player
}

var rosterFields = Fields[roster]{
	Bind("players", func(r *roster) *[]player { return &r.Players }, Array(StructOf(playerFields))),
}

func testNames() *Names {
	n := NewNames()
	n.Races.Bind("human", 0)
	n.Races.Bind("cantharan", 1)
	return n
}

func TestPath(t *testing.T) {
	root := Root(map[string]any{}, nil)
	tests := []struct {
		v    Value
		want string
	}{
		{root, ""},
		{root.Get("players"), "players"},
		{root.Get("players").Index(2), "players[2]"},
		{root.Get("players").Index(2).Get("race"), "players[2].race"},
		{root.Index(0).Index(1), "[0][1]"},
	}
	for _, tt := range tests {
		if got := tt.v.Path(); got != tt.want {
			t.Errorf("Path() = %q, want %q", got, tt.want)
		}
	}
}

func TestMissingChildIsNull(t *testing.T) {
	root := Root(map[string]any{"a": int64(1)}, nil)
	if !root.Get("b").IsNull() {
		t.Error("missing key should read as null")
	}
	if !root.Get("a").Get("c").IsNull() {
		t.Error("key of a scalar should read as null")
	}
	if !root.Get("a").Index(3).IsNull() {
		t.Error("index of a scalar should read as null")
	}
}

func TestNestedErrorPath(t *testing.T) {
	doc := map[string]any{
		"players": []any{
			map[string]any{"name": "A", "race": "human"},
			map[string]any{"name": "B", "race": "human"},
			map[string]any{"name": "C", "race": true},
		},
	}
	_, err := Struct(Root(doc, testNames()), rosterFields)
	var fe *Error
	if !errors.As(err, &fe) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if fe.Path != "players[2].race" {
		t.Errorf("Path = %q, want %q", fe.Path, "players[2].race")
	}
	if got := err.Error(); got != "players[2].race: must be integer or name" {
		t.Errorf("Error() = %q", got)
	}
}

func TestUnknownField(t *testing.T) {
	doc := map[string]any{
		"players": []any{
			map[string]any{"name": "A", "race": "human", "color": "red"},
		},
	}
	_, err := Struct(Root(doc, testNames()), rosterFields)
	var fe *Error
	if !errors.As(err, &fe) {
		t.Fatalf("error = %v, want *Error", err)
	}
	if fe.Path != "players[0].color" || fe.Msg != "unknown field" {
		t.Errorf("got %q, want players[0].color: unknown field", err)
	}

	delete(doc["players"].([]any)[0].(map[string]any), "color")
	r, err := Struct(Root(doc, testNames()), rosterFields)
	if err != nil {
		t.Fatalf("after removing key: %v", err)
	}
	if len(r.Players) != 1 || r.Players[0].Name != "A" {
		t.Errorf("Players = %+v", r.Players)
	}
}

func TestUnknownFieldAtRoot(t *testing.T) {
	_, err := Struct(Root(map[string]any{"players": []any{}, "zz": int64(1)}, nil), rosterFields)
	if err == nil || err.Error() != "zz: unknown field" {
		t.Errorf("error = %v, want zz: unknown field", err)
	}
}

func TestUnknownFieldsReportedInSortedOrder(t *testing.T) {
	doc := map[string]any{"name": "A", "race": int64(0), "b": int64(1), "a": int64(1)}
	_, err := Struct(Root(doc, nil), playerFields)
	if err == nil || err.Error() != "a: unknown field" {
		t.Errorf("error = %v, want a: unknown field", err)
	}
}

func TestFieldsApplyInTableOrder(t *testing.T) {
	var order []string
	record := func(key string) Field[struct{}] {
		return Set(key, func(*struct{}, Value) error {
			order = append(order, key)
			return nil
		})
	}
	fields := Fields[struct{}]{record("z"), record("a"), record("m")}
	if _, err := Struct(Root(map[string]any{"a": int64(1), "m": int64(2), "z": int64(3)}, nil), fields); err != nil {
		t.Fatal(err)
	}
	if len(order) != 3 || order[0] != "z" || order[1] != "a" || order[2] != "m" {
		t.Errorf("order = %v, want [z a m]", order)
	}
}

func TestOptionalStruct(t *testing.T) {
	p, err := OptionalStruct(Root(nil, nil), playerFields)
	if err != nil || p != nil {
		t.Errorf("null: got %v, %v; want nil, nil", p, err)
	}

	doc := map[string]any{"name": "A", "race": "cantharan"}
	p, err = OptionalStruct(Root(doc, testNames()), playerFields)
	if err != nil {
		t.Fatal(err)
	}
	want, _ := Struct(Root(doc, testNames()), playerFields)
	if *p != want {
		t.Errorf("OptionalStruct = %+v, want %+v", *p, want)
	}

	_, err = OptionalStruct(Root(int64(3), nil), playerFields)
	if err == nil || err.Error() != "must be null or map" {
		t.Errorf("error = %v", err)
	}
}

func TestArrays(t *testing.T) {
	got, err := OptionalArray(Int)(Root(nil, nil))
	if err != nil || len(got) != 0 {
		t.Errorf("OptionalArray(null) = %v, %v", got, err)
	}
	if _, err := Array(Int)(Root(nil, nil)); err == nil || err.Error() != "must be array" {
		t.Errorf("Array(null) error = %v", err)
	}
	if _, err := OptionalArray(Int)(Root("x", nil)); err == nil || err.Error() != "must be null or array" {
		t.Errorf("OptionalArray(string) error = %v", err)
	}
	got, err = Array(Int)(Root([]any{int64(1), int64(2)}, nil))
	if err != nil || len(got) != 2 || got[1] != 2 {
		t.Errorf("Array = %v, %v", got, err)
	}
}

func TestIntIn(t *testing.T) {
	r := IntIn(0, 4, 10, 12)
	tests := []struct {
		in      any
		want    int64
		wantErr string
	}{
		{int64(0), 0, ""},
		{int64(3), 3, ""},
		{int64(11), 11, ""},
		{int64(4), 0, "must be in [0, 4) or [10, 12)"},
		{int64(12), 0, "must be in [0, 4) or [10, 12)"},
		{"3", 0, "must be integer"},
	}
	for _, tt := range tests {
		got, err := r(Root(tt.in, nil))
		if tt.wantErr != "" {
			if err == nil || err.Error() != tt.wantErr {
				t.Errorf("IntIn(%v) error = %v, want %q", tt.in, err, tt.wantErr)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("IntIn(%v) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
	}
}

func TestEnum(t *testing.T) {
	r := Enum(Symbol[int]{"eq", 0}, Symbol[int]{"ne", 1}, Symbol[int]{"lt", 2})
	got, err := r(Root("ne", nil))
	if err != nil || got != 1 {
		t.Errorf("Enum(ne) = %d, %v", got, err)
	}
	_, err = r(Root(map[string]any{"op": "ge"}, nil).Get("op"))
	if err == nil || err.Error() != "op: must be one of [eq, ne, lt]" {
		t.Errorf("Enum(ge) error = %v", err)
	}
}

func TestOptionalDefault(t *testing.T) {
	got, err := Optional(Int, 7)(Root(nil, nil))
	if err != nil || got != 7 {
		t.Errorf("Optional(null) = %d, %v; want 7", got, err)
	}
	got, err = Optional(Int, 7)(Root(int64(2), nil))
	if err != nil || got != 2 {
		t.Errorf("Optional(2) = %d, %v; want 2", got, err)
	}
	if _, err := Optional(Int, 7)(Root(true, nil)); err == nil {
		t.Error("Optional should still reject a wrong kind")
	}
}

func TestFixed(t *testing.T) {
	tests := []struct {
		in   any
		want types.Fixed
	}{
		{int64(1), types.FixedOne},
		{0.5, types.FixedOne / 2},
		{-2.25, -(types.FixedOne*2 + types.FixedOne/4)},
	}
	for _, tt := range tests {
		got, err := Fixed(Root(tt.in, nil))
		if err != nil || got != tt.want {
			t.Errorf("Fixed(%v) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestTicks(t *testing.T) {
	tests := []struct {
		r    Reader[types.Ticks]
		in   any
		want types.Ticks
	}{
		{Ticks, int64(30), 30},
		{Ticks, "1.5s", 90},
		{Ticks, "500ms", 30},
		{Secs, int64(2), 120},
		{Secs, "1m", 3600},
	}
	for _, tt := range tests {
		got, err := tt.r(Root(tt.in, nil))
		if err != nil || got != tt.want {
			t.Errorf("ticks(%v) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
	}
}

func TestRanges(t *testing.T) {
	r, err := IntRange(Root(int64(5), nil))
	if err != nil || r.Begin != 5 || r.End != 6 {
		t.Errorf("IntRange(5) = %+v, %v", r, err)
	}
	r, err = IntRange(Root(map[string]any{"begin": int64(1), "end": int64(9)}, nil))
	if err != nil || r.Begin != 1 || r.End != 9 {
		t.Errorf("IntRange(map) = %+v, %v", r, err)
	}
	_, err = IntRange(Root(map[string]any{"begin": int64(1), "end": int64(9), "step": int64(2)}, nil))
	if err == nil || err.Error() != "step: unknown field" {
		t.Errorf("IntRange(step) error = %v", err)
	}
}

func TestPointAndRect(t *testing.T) {
	p, err := Point(Root(map[string]any{"x": int64(-3), "y": int64(4)}, nil))
	if err != nil || p != (types.Point{X: -3, Y: 4}) {
		t.Errorf("Point = %+v, %v", p, err)
	}
	_, err = Point(Root(map[string]any{"x": int64(1)}, nil))
	if err == nil || err.Error() != "y: must be integer" {
		t.Errorf("Point missing y error = %v", err)
	}
	r, err := Rect(Root(map[string]any{"left": int64(1), "top": int64(2), "right": int64(3), "bottom": int64(4)}, nil))
	if err != nil || r != (types.Rect{Left: 1, Top: 2, Right: 3, Bottom: 4}) {
		t.Errorf("Rect = %+v, %v", r, err)
	}
}

func TestFlags(t *testing.T) {
	r := Flags([]string{"a", "b", "c"})
	got, err := r(Root(map[string]any{"a": true, "c": true, "b": false}, nil))
	if err != nil || got != 0b101 {
		t.Errorf("Flags = %b, %v; want 101", got, err)
	}
	got, err = r(Root(nil, nil))
	if err != nil || got != 0 {
		t.Errorf("Flags(null) = %b, %v", got, err)
	}
	_, err = r(Root(map[string]any{"d": true}, nil))
	if err == nil || err.Error() != "d: unknown field" {
		t.Errorf("Flags(d) error = %v", err)
	}
}

func TestHandles(t *testing.T) {
	names := testNames()
	names.Initials.Reserve(2)
	names.Initials.Bind("home", 1)

	tests := []struct {
		in   any
		want types.InitialID
	}{
		{int64(0), 0},
		{"home", 1},
		{"elsewhere", 2},
		{"elsewhere", 2},
		{"further", 3},
	}
	for _, tt := range tests {
		got, err := Initial(Root(tt.in, names))
		if err != nil || got != tt.want {
			t.Errorf("Initial(%v) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
	}
	if d := names.Initials.Dangling(2); len(d) != 2 || d[0] != "elsewhere" || d[1] != "further" {
		t.Errorf("Dangling = %v", d)
	}
	if _, err := Initial(Root(int64(5), names)); err != nil {
		t.Fatal(err)
	}
	if d := names.Initials.Dangling(2); len(d) != 3 || d[0] != "5" {
		t.Errorf("Dangling after numeric ref = %v", d)
	}
	if _, err := Initial(Root(int64(-1), names)); err == nil {
		t.Error("negative handle should fail")
	}
	if _, err := Race(Root("human", nil)); err == nil {
		t.Error("names without a registry should fail")
	}
}

func TestVariant(t *testing.T) {
	type header struct{ Kind string }
	type body struct{ N int64 }
	hf := Fields[header]{Bind("type", func(h *header) *string { return &h.Kind }, String)}
	bf := Fields[body]{Bind("n", func(b *body) *int64 { return &b.N }, Int)}

	var h header
	b, err := Variant(Root(map[string]any{"type": "x", "n": int64(4)}, nil), hf, &h, bf)
	if err != nil || h.Kind != "x" || b.N != 4 {
		t.Errorf("Variant = %+v %+v, %v", h, b, err)
	}
	_, err = Variant(Root(map[string]any{"type": "x", "n": int64(4), "m": int64(1)}, nil), hf, &h, bf)
	if err == nil || err.Error() != "m: unknown field" {
		t.Errorf("Variant extra key error = %v", err)
	}
}

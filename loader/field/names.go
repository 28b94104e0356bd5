package field

import (
	"fmt"
	"sort"
	"sync"

	"github.com/chaimleib/antares/types"
)

// NameTable maps symbolic names of one kind to integer handles.
//
// Definitions are bound to their index up front. A name that is referenced
// but never bound is interned at the next free index past every bound one,
// so reading never fails on it; the loader reports it when it validates
// references. A table is safe for concurrent use.
type NameTable struct {
	mu    sync.Mutex
	kind  string
	index map[string]int
	next  int
	refs  map[int]bool
}

func newNameTable(kind string) *NameTable {
	return &NameTable{kind: kind, index: map[string]int{}, refs: map[int]bool{}}
}

// Kind names what the table holds, e.g. "initial".
func (t *NameTable) Kind() string { return t.kind }

// Reserve makes sure indices below n are never handed out by Intern.
func (t *NameTable) Reserve(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.reserve(n)
}

func (t *NameTable) reserve(n int) {
	if n > t.next {
		t.next = n
	}
}

// Bind assigns name to index i.
func (t *NameTable) Bind(name string, i int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if j, ok := t.index[name]; ok && j != i {
		return fmt.Errorf("duplicate %s name %q", t.kind, name)
	}
	t.index[name] = i
	t.reserve(i + 1)
	return nil
}

// Intern returns the index bound to name, allocating one if needed.
func (t *NameTable) Intern(name string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if i, ok := t.index[name]; ok {
		return i
	}
	i := t.next
	t.next++
	t.index[name] = i
	return i
}

// Lookup returns the index bound to name.
func (t *NameTable) Lookup(name string) (int, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	i, ok := t.index[name]
	return i, ok
}

// Name returns a name bound to index i.
func (t *NameTable) Name(i int) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for name, j := range t.index {
		if j == i {
			return name, true
		}
	}
	return "", false
}

// Ref records a numeric reference to index i.
func (t *NameTable) Ref(i int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.refs[i] = true
}

// Dangling returns the names, and the numeric references written as
// decimal strings, whose index is not below defined, sorted.
func (t *NameTable) Dangling(defined int) []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []string
	for name, i := range t.index {
		if i >= defined {
			out = append(out, name)
		}
	}
	for i := range t.refs {
		if i >= defined {
			out = append(out, fmt.Sprint(i))
		}
	}
	sort.Strings(out)
	return out
}

// Names holds one table per handle kind.
type Names struct {
	Admirals   *NameTable
	Bases      *NameTable
	Initials   *NameTable
	Conditions *NameTable
	Races      *NameTable
}

// NewNames returns empty tables.
func NewNames() *Names {
	return &Names{
		Admirals:   newNameTable("admiral"),
		Bases:      newNameTable("base"),
		Initials:   newNameTable("initial"),
		Conditions: newNameTable("condition"),
		Races:      newNameTable("race"),
	}
}

func handle(v Value, table func(*Names) *NameTable) (int, error) {
	switch n := v.node.(type) {
	case int64:
		if n < 0 || n > 1<<31-1 {
			return 0, Errorf(v, "must be non-negative")
		}
		if v.names != nil {
			table(v.names).Ref(int(n))
		}
		return int(n), nil
	case string:
		if v.names == nil {
			return 0, Errorf(v, "must be integer")
		}
		return table(v.names).Intern(n), nil
	}
	return 0, Errorf(v, "must be integer or name")
}

func Admiral(v Value) (types.AdmiralID, error) {
	i, err := handle(v, func(n *Names) *NameTable { return n.Admirals })
	return types.AdmiralID(i), err
}

func Base(v Value) (types.BaseID, error) {
	i, err := handle(v, func(n *Names) *NameTable { return n.Bases })
	return types.BaseID(i), err
}

func Initial(v Value) (types.InitialID, error) {
	i, err := handle(v, func(n *Names) *NameTable { return n.Initials })
	return types.InitialID(i), err
}

func Condition(v Value) (types.ConditionID, error) {
	i, err := handle(v, func(n *Names) *NameTable { return n.Conditions })
	return types.ConditionID(i), err
}

func Race(v Value) (types.RaceID, error) {
	i, err := handle(v, func(n *Names) *NameTable { return n.Races })
	return types.RaceID(i), err
}

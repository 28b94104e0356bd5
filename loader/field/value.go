// Package field reads decoded scenario data into typed Go values.
//
// A decoded document is a tree of nil, bool, int64, float64, string, []any
// and map[string]any. Value wraps one node of that tree together with the
// chain of keys and indices that led to it, so that every read error can
// name the exact path of the offending node, e.g. "players[2].race".
//
// Readers have the shape func(Value) (T, error). Structs are read with an
// ordered table of named fields; any input key the table does not declare
// is rejected.
package field

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

type step int

const (
	stepRoot step = iota
	stepKey
	stepIndex
)

// Value is a read-only view of one node in a decoded tree.
type Value struct {
	parent *Value
	step   step
	key    string
	index  int
	node   any
	names  *Names
}

// Root wraps the root of a decoded tree. names resolves symbolic handles and
// may be nil, in which case only numeric handles can be read.
func Root(node any, names *Names) Value {
	return Value{step: stepRoot, node: node, names: names}
}

// Node returns the underlying node.
func (v Value) Node() any { return v.node }

// Names returns the name registry handle readers resolve against.
func (v Value) Names() *Names { return v.names }

// Get returns the child at key. A missing key, or a non-map parent, yields
// a null view; reading never fails until a typed reader is applied.
func (v Value) Get(key string) Value {
	var child any
	if m, ok := v.node.(map[string]any); ok {
		child = m[key]
	}
	parent := v
	return Value{parent: &parent, step: stepKey, key: key, node: child, names: v.names}
}

// Index returns the i'th element. Out-of-range indices yield a null view.
func (v Value) Index(i int) Value {
	var child any
	if a, ok := v.node.([]any); ok && i >= 0 && i < len(a) {
		child = a[i]
	}
	parent := v
	return Value{parent: &parent, step: stepIndex, index: i, node: child, names: v.names}
}

// Len returns the number of elements of an array node, or 0.
func (v Value) Len() int {
	a, _ := v.node.([]any)
	return len(a)
}

// Keys returns a map node's keys in sorted order.
func (v Value) Keys() []string {
	m, _ := v.node.(map[string]any)
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (v Value) IsNull() bool { return v.node == nil }

func (v Value) IsMap() bool {
	_, ok := v.node.(map[string]any)
	return ok
}

func (v Value) IsArray() bool {
	_, ok := v.node.([]any)
	return ok
}

// Path renders the key and index chain from the root, e.g. "players[2].race".
// The root's path is empty.
func (v Value) Path() string {
	var b strings.Builder
	v.writePath(&b)
	return b.String()
}

func (v Value) writePath(b *strings.Builder) {
	switch v.step {
	case stepRoot:
		return
	case stepKey:
		v.parent.writePath(b)
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(v.key)
	case stepIndex:
		v.parent.writePath(b)
		b.WriteByte('[')
		b.WriteString(strconv.Itoa(v.index))
		b.WriteByte(']')
	}
}

// Error is a read failure at a path.
type Error struct {
	Path string
	Msg  string
}

func (e *Error) Error() string {
	if e.Path == "" {
		return e.Msg
	}
	return e.Path + ": " + e.Msg
}

// Errorf returns an *Error for v.
func Errorf(v Value, format string, args ...any) error {
	return &Error{Path: v.Path(), Msg: fmt.Sprintf(format, args...)}
}

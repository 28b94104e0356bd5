package field

// Func assigns a value read from v into t.
type Func[T any] func(t *T, v Value) error

// Field binds one input key to a setter.
type Field[T any] struct {
	Name string
	Set  Func[T]
}

// Fields is an ordered field table. Fields are applied in table order,
// never input order.
type Fields[T any] []Field[T]

// Bind returns a field that reads key with r and stores the result in the
// member dst selects.
func Bind[T, F any](key string, dst func(*T) *F, r Reader[F]) Field[T] {
	return Field[T]{Name: key, Set: func(t *T, v Value) error {
		f, err := r(v)
		if err != nil {
			return err
		}
		*dst(t) = f
		return nil
	}}
}

// Set returns a field with a custom setter.
func Set[T any](key string, fn Func[T]) Field[T] {
	return Field[T]{Name: key, Set: fn}
}

// Ignore accepts key without reading it.
func Ignore[T any](key string) Field[T] {
	return Field[T]{Name: key, Set: func(*T, Value) error { return nil }}
}

// Names returns the declared keys in table order.
func (fs Fields[T]) Names() []string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.Name
	}
	return names
}

// Apply runs every setter against the matching child of v. It does not
// check for undeclared keys.
func (fs Fields[T]) Apply(v Value, t *T) error {
	for _, f := range fs {
		if err := f.Set(t, v.Get(f.Name)); err != nil {
			return err
		}
	}
	return nil
}

// Known fails on the first key of map v, in sorted order, that is not in
// any of the declared key sets.
func Known(v Value, declared ...[]string) error {
	for _, k := range v.Keys() {
		if !declaredKey(k, declared) {
			return Errorf(v.Get(k), "unknown field")
		}
	}
	return nil
}

func declaredKey(k string, declared [][]string) bool {
	for _, names := range declared {
		for _, n := range names {
			if n == k {
				return true
			}
		}
	}
	return false
}

// Struct reads a map into a new T using fields.
func Struct[T any](v Value, fields Fields[T]) (T, error) {
	var t T
	if !v.IsMap() {
		return t, Errorf(v, "must be map")
	}
	if err := fields.Apply(v, &t); err != nil {
		return t, err
	}
	if err := Known(v, fields.Names()); err != nil {
		return t, err
	}
	return t, nil
}

// OptionalStruct reads null as nil and a map as Struct does.
func OptionalStruct[T any](v Value, fields Fields[T]) (*T, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsMap() {
		return nil, Errorf(v, "must be null or map")
	}
	t, err := Struct(v, fields)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// StructOf adapts a field table to a Reader.
func StructOf[T any](fields Fields[T]) Reader[T] {
	return func(v Value) (T, error) { return Struct(v, fields) }
}

// Variant reads one member of a tagged union stored in a single map: the
// shared header fields into h and the member's own fields into a new B.
// Keys declared by neither table are rejected.
func Variant[H, B any](v Value, header Fields[H], h *H, body Fields[B]) (B, error) {
	var b B
	if !v.IsMap() {
		return b, Errorf(v, "must be map")
	}
	if err := header.Apply(v, h); err != nil {
		return b, err
	}
	if err := body.Apply(v, &b); err != nil {
		return b, err
	}
	if err := Known(v, header.Names(), body.Names()); err != nil {
		return b, err
	}
	return b, nil
}

// Array reads every element of an array with r.
func Array[T any](r Reader[T]) Reader[[]T] {
	return func(v Value) ([]T, error) {
		if !v.IsArray() {
			return nil, Errorf(v, "must be array")
		}
		return elements(v, r)
	}
}

// OptionalArray reads null as an empty slice and otherwise behaves as Array.
func OptionalArray[T any](r Reader[T]) Reader[[]T] {
	return func(v Value) ([]T, error) {
		if v.IsNull() {
			return nil, nil
		}
		if !v.IsArray() {
			return nil, Errorf(v, "must be null or array")
		}
		return elements(v, r)
	}
}

func elements[T any](v Value, r Reader[T]) ([]T, error) {
	out := make([]T, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		t, err := r(v.Index(i))
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

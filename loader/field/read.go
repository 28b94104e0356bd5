package field

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/chaimleib/antares/types"
)

// Reader reads a T from a value.
type Reader[T any] func(Value) (T, error)

// Optional returns def for a null value and otherwise applies r.
func Optional[T any](r Reader[T], def T) Reader[T] {
	return func(v Value) (T, error) {
		if v.IsNull() {
			return def, nil
		}
		return r(v)
	}
}

// Maybe returns nil for a null value and otherwise a pointer to r's result.
func Maybe[T any](r Reader[T]) Reader[*T] {
	return func(v Value) (*T, error) {
		if v.IsNull() {
			return nil, nil
		}
		t, err := r(v)
		if err != nil {
			return nil, err
		}
		return &t, nil
	}
}

func Bool(v Value) (bool, error) {
	if b, ok := v.node.(bool); ok {
		return b, nil
	}
	return false, Errorf(v, "must be bool")
}

func Int(v Value) (int64, error) {
	if i, ok := v.node.(int64); ok {
		return i, nil
	}
	return 0, Errorf(v, "must be integer")
}

// IntIn reads an integer that lies in one of the half-open ranges given as
// begin, end pairs.
func IntIn(bounds ...int64) Reader[int64] {
	return func(v Value) (int64, error) {
		i, err := Int(v)
		if err != nil {
			return 0, err
		}
		for j := 0; j+1 < len(bounds); j += 2 {
			if bounds[j] <= i && i < bounds[j+1] {
				return i, nil
			}
		}
		var rs []string
		for j := 0; j+1 < len(bounds); j += 2 {
			rs = append(rs, fmt.Sprintf("[%d, %d)", bounds[j], bounds[j+1]))
		}
		return 0, Errorf(v, "must be in %s", strings.Join(rs, " or "))
	}
}

var int32Reader = IntIn(math.MinInt32, math.MaxInt32+1)

func Int32(v Value) (int32, error) {
	i, err := int32Reader(v)
	return int32(i), err
}

func Double(v Value) (float64, error) {
	switch n := v.node.(type) {
	case int64:
		return float64(n), nil
	case float64:
		return n, nil
	}
	return 0, Errorf(v, "must be number")
}

func Fixed(v Value) (types.Fixed, error) {
	f, err := Double(v)
	if err != nil {
		return 0, err
	}
	if f <= -32768 || f >= 32768 {
		return 0, Errorf(v, "must be in (-32768, 32768)")
	}
	return types.FixedFromFloat(f), nil
}

func String(v Value) (string, error) {
	if s, ok := v.node.(string); ok {
		return s, nil
	}
	return "", Errorf(v, "must be string")
}

// Ticks reads a tick count, or a duration string such as "1.5s".
func Ticks(v Value) (types.Ticks, error) {
	return duration(v, 1)
}

// Secs reads a whole number of seconds, or a duration string.
func Secs(v Value) (types.Ticks, error) {
	return duration(v, types.TicksPerSecond)
}

func duration(v Value, unit int64) (types.Ticks, error) {
	switch n := v.node.(type) {
	case int64:
		return types.Ticks(n * unit), nil
	case string:
		d, err := time.ParseDuration(n)
		if err != nil {
			return 0, Errorf(v, "must be duration: %v", err)
		}
		return types.Ticks(int64(d) * types.TicksPerSecond / int64(time.Second)), nil
	}
	return 0, Errorf(v, "must be integer or duration")
}

// Symbol binds a wire name to a value.
type Symbol[T any] struct {
	Name  string
	Value T
}

// Enum reads a string that must name one of symbols.
func Enum[T any](symbols ...Symbol[T]) Reader[T] {
	return func(v Value) (T, error) {
		if s, ok := v.node.(string); ok {
			for _, sym := range symbols {
				if sym.Name == s {
					return sym.Value, nil
				}
			}
		}
		names := make([]string, len(symbols))
		for i, sym := range symbols {
			names[i] = sym.Name
		}
		var zero T
		return zero, Errorf(v, "must be one of [%s]", strings.Join(names, ", "))
	}
}

// Flags reads a map of booleans into a bitmask; names[i] sets bit i. Null
// reads as 0.
func Flags(names []string) Reader[uint32] {
	return func(v Value) (uint32, error) {
		if v.IsNull() {
			return 0, nil
		}
		if !v.IsMap() {
			return 0, Errorf(v, "must be null or map")
		}
		var result uint32
		for i, name := range names {
			set, err := Optional(Bool, false)(v.Get(name))
			if err != nil {
				return 0, err
			}
			if set {
				result |= 1 << uint(i)
			}
		}
		if err := Known(v, names); err != nil {
			return 0, err
		}
		return result, nil
	}
}

var pointFields = Fields[types.Point]{
	Bind("x", func(p *types.Point) *int32 { return &p.X }, Int32),
	Bind("y", func(p *types.Point) *int32 { return &p.Y }, Int32),
}

func Point(v Value) (types.Point, error) { return Struct(v, pointFields) }

var fixedPointFields = Fields[types.FixedPoint]{
	Bind("x", func(p *types.FixedPoint) *types.Fixed { return &p.X }, Fixed),
	Bind("y", func(p *types.FixedPoint) *types.Fixed { return &p.Y }, Fixed),
}

func FixedPoint(v Value) (types.FixedPoint, error) { return Struct(v, fixedPointFields) }

var rectFields = Fields[types.Rect]{
	Bind("left", func(r *types.Rect) *int32 { return &r.Left }, Int32),
	Bind("top", func(r *types.Rect) *int32 { return &r.Top }, Int32),
	Bind("right", func(r *types.Rect) *int32 { return &r.Right }, Int32),
	Bind("bottom", func(r *types.Rect) *int32 { return &r.Bottom }, Int32),
}

func Rect(v Value) (types.Rect, error) { return Struct(v, rectFields) }

var channel = IntIn(0, 256)

func channelOf(get func(*types.Color) *uint8) Func[types.Color] {
	return func(c *types.Color, v Value) error {
		n, err := channel(v)
		if err != nil {
			return err
		}
		*get(c) = uint8(n)
		return nil
	}
}

var colorFields = Fields[types.Color]{
	Set("r", channelOf(func(c *types.Color) *uint8 { return &c.R })),
	Set("g", channelOf(func(c *types.Color) *uint8 { return &c.G })),
	Set("b", channelOf(func(c *types.Color) *uint8 { return &c.B })),
}

func Color(v Value) (types.Color, error) { return Struct(v, colorFields) }

// rangeOf reads either a scalar, widened by single, or a {begin, end} map.
func rangeOf[T any](r Reader[T], single func(T) types.Range[T]) Reader[types.Range[T]] {
	fields := Fields[types.Range[T]]{
		Bind("begin", func(x *types.Range[T]) *T { return &x.Begin }, r),
		Bind("end", func(x *types.Range[T]) *T { return &x.End }, r),
	}
	return func(v Value) (types.Range[T], error) {
		if v.IsMap() {
			return Struct(v, fields)
		}
		t, err := r(v)
		if err != nil {
			return types.Range[T]{}, err
		}
		return single(t), nil
	}
}

// IntRange reads n as [n, n+1).
var IntRange = rangeOf(Int, func(n int64) types.Range[int64] {
	return types.Range[int64]{Begin: n, End: n + 1}
})

// FixedRange reads f as [f, f].
var FixedRange = rangeOf(Fixed, func(f types.Fixed) types.Range[types.Fixed] {
	return types.Range[types.Fixed]{Begin: f, End: f}
})

// TicksRange reads t as [t, t].
var TicksRange = rangeOf(Ticks, func(t types.Ticks) types.Range[types.Ticks] {
	return types.Range[types.Ticks]{Begin: t, End: t}
})

package loader

import (
	"github.com/chaimleib/antares/loader/field"
	"github.com/chaimleib/antares/types"
)

var readIconShape = field.Enum(
	sym("square", types.IconSquare),
	sym("triangle", types.IconTriangle),
	sym("diamond", types.IconDiamond),
	sym("plus", types.IconPlus),
	sym("framed_square", types.IconFramedSquare),
)

var readAnimationDirection = field.Enum(
	sym("none", types.AnimationNone),
	sym("minus", types.AnimationMinus),
	sym("plus", types.AnimationPlus),
	sym("random", types.AnimationRandom),
)

var readVectorKind = field.Enum(
	sym("kinetic", types.VectorKinetic),
	sym("static_object", types.VectorStaticObject),
	sym("static_to", types.VectorStaticTo),
	sym("bolt_object", types.VectorBoltObject),
	sym("bolt_to", types.VectorBoltTo),
	sym("bolt", types.VectorBolt),
)

var readLayer = field.Optional(field.IntIn(1, 4), 0)

// readScale reads a fixed scale factor into sprite scale units, where 4096
// is actual size.
var readScale = field.Optional(func(v field.Value) (int32, error) {
	f, err := field.Fixed(v)
	return int32(f) >> 4, err
}, 4096)

var readRotation = field.StructOf(field.Fields[types.RotationFrame]{
	field.Bind("sprite", func(f *types.RotationFrame) *string { return &f.Sprite }, field.String),
	field.Bind("layer", func(f *types.RotationFrame) *int64 { return &f.Layer }, readLayer),
	field.Bind("scale", func(f *types.RotationFrame) *int32 { return &f.Scale }, readScale),
	field.Bind("frames", func(f *types.RotationFrame) *types.Range[int64] { return &f.Frames }, field.IntRange),
	field.Bind("turn_rate", func(f *types.RotationFrame) *types.Fixed { return &f.TurnRate }, field.Optional(field.Fixed, 0)),
})

var firstFrames = types.Range[types.Fixed]{Begin: 0, End: 1}

var readAnimation = field.StructOf(field.Fields[types.AnimationFrame]{
	field.Bind("sprite", func(f *types.AnimationFrame) *string { return &f.Sprite }, field.String),
	field.Bind("layer", func(f *types.AnimationFrame) *int64 { return &f.Layer }, readLayer),
	field.Bind("scale", func(f *types.AnimationFrame) *int32 { return &f.Scale }, readScale),
	field.Bind("frames", func(f *types.AnimationFrame) *types.Range[types.Fixed] { return &f.Frames }, field.Optional(field.FixedRange, firstFrames)),
	field.Bind("direction", func(f *types.AnimationFrame) *types.AnimationDirection { return &f.Direction }, field.Optional(readAnimationDirection, types.AnimationNone)),
	field.Bind("speed", func(f *types.AnimationFrame) *types.Fixed { return &f.Speed }, field.Optional(field.Fixed, 0)),
	field.Bind("first", func(f *types.AnimationFrame) *types.Range[types.Fixed] { return &f.First }, field.Optional(field.FixedRange, firstFrames)),
})

// vectorSource is the wire shape of a vector frame. Bolts are drawn in
// color and beams in hue, and a frame with neither is invisible.
type vectorSource struct {
	kind     types.VectorKind
	accuracy int64
	rng      int64
	color    *types.Color
	hue      *types.Hue
}

var vectorFields = field.Fields[vectorSource]{
	field.Bind("kind", func(s *vectorSource) *types.VectorKind { return &s.kind }, readVectorKind),
	field.Bind("accuracy", func(s *vectorSource) *int64 { return &s.accuracy }, field.Int),
	field.Bind("range", func(s *vectorSource) *int64 { return &s.rng }, field.Int),
	field.Bind("color", func(s *vectorSource) **types.Color { return &s.color }, field.Maybe(field.Color)),
	field.Bind("hue", func(s *vectorSource) **types.Hue { return &s.hue }, field.Maybe(readHue)),
}

func readVector(v field.Value) (types.VectorFrame, error) {
	s, err := field.Struct(v, vectorFields)
	if err != nil {
		return types.VectorFrame{}, err
	}
	f := types.VectorFrame{Kind: s.kind, Accuracy: s.accuracy, Range: s.rng, BeamHue: types.HueGray}
	if s.kind == types.VectorBolt {
		f.Visible = s.color != nil
		if s.color != nil {
			f.BoltColor = *s.color
		}
	} else {
		f.Visible = s.hue != nil
		if s.hue != nil {
			f.BeamHue = *s.hue
		}
	}
	return f, nil
}

var readDevice = field.StructOf(field.Fields[types.DeviceFrame]{
	field.Bind("usage", func(f *types.DeviceFrame) *uint32 { return &f.Usage }, field.Flags(types.UsageNames)),
	field.Bind("energy_cost", func(f *types.DeviceFrame) *int32 { return &f.EnergyCost }, field.Optional(field.Int32, 0)),
	field.Bind("fire_time", func(f *types.DeviceFrame) *types.Ticks { return &f.FireTime }, field.Ticks),
	field.Bind("ammo", func(f *types.DeviceFrame) *int32 { return &f.Ammo }, field.Optional(field.Int32, -1)),
	field.Bind("range", func(f *types.DeviceFrame) *int32 { return &f.Range }, field.Int32),
	field.Bind("inverse_speed", func(f *types.DeviceFrame) *types.Fixed { return &f.InverseSpeed }, field.Optional(field.Fixed, 0)),
	field.Bind("restock_cost", func(f *types.DeviceFrame) *int32 { return &f.RestockCost }, field.Optional(field.Int32, -1)),
})

var readWeapon = field.Maybe(field.StructOf(field.Fields[types.Weapon]{
	field.Bind("base", func(w *types.Weapon) *types.BaseID { return &w.Base }, field.Base),
	field.Bind("positions", func(w *types.Weapon) *[]types.FixedPoint { return &w.Positions }, field.OptionalArray(field.FixedPoint)),
}))

var loadoutFields = field.Fields[types.Loadout]{
	field.Bind("pulse", func(l *types.Loadout) **types.Weapon { return &l.Pulse }, readWeapon),
	field.Bind("beam", func(l *types.Loadout) **types.Weapon { return &l.Beam }, readWeapon),
	field.Bind("special", func(l *types.Loadout) **types.Weapon { return &l.Special }, readWeapon),
}

func readLoadout(v field.Value) (types.Loadout, error) {
	l, err := field.OptionalStruct(v, loadoutFields)
	if err != nil || l == nil {
		return types.Loadout{}, err
	}
	return *l, nil
}

var iconFields = field.Fields[types.Icon]{
	field.Bind("shape", func(i *types.Icon) *types.IconShape { return &i.Shape }, readIconShape),
	field.Bind("size", func(i *types.Icon) *int64 { return &i.Size }, field.Int),
}

func readIcon(v field.Value) (types.Icon, error) {
	i, err := field.OptionalStruct(v, iconFields)
	if err != nil || i == nil {
		return types.Icon{Shape: types.IconSquare}, err
	}
	return *i, nil
}

// frameField reads key as the object's frame when selected reports that
// the object's attributes choose it. Other frame keys are accepted and
// left unread.
func frameField[F types.Frame](key string, selected func(attr uint32) bool, r field.Reader[F]) field.Field[types.BaseObject] {
	return field.Set(key, func(o *types.BaseObject, v field.Value) error {
		if o.Frame != nil || !selected(o.Attributes) {
			return nil
		}
		f, err := r(v)
		if err != nil {
			return err
		}
		o.Frame = f
		return nil
	})
}

func has(bit uint32) func(uint32) bool {
	return func(attr uint32) bool { return attr&bit != 0 }
}

// The device frame is the fallback for objects with no other frame, and
// may be left out entirely.
func readOptionalDevice(v field.Value) (types.Frame, error) {
	if v.IsNull() {
		return nil, nil
	}
	return readDevice(v)
}

func optInt(key string, dst func(*types.BaseObject) *int64, def int64) field.Field[types.BaseObject] {
	return field.Bind(key, dst, field.Optional(field.Int, def))
}

func optFixed(key string, dst func(*types.BaseObject) *types.Fixed) field.Field[types.BaseObject] {
	return field.Bind(key, dst, field.Optional(field.Fixed, 0))
}

func optString(key string, dst func(*types.BaseObject) *string) field.Field[types.BaseObject] {
	return field.Bind(key, dst, field.Optional(field.String, ""))
}

func optActions(key string, dst func(*types.BaseObject) *[]types.Action) field.Field[types.BaseObject] {
	return field.Bind(key, dst, readActions)
}

// baseObjectFields is applied in order, so attributes are known before the
// frame keys are read.
var baseObjectFields = field.Fields[types.BaseObject]{
	field.Bind("attributes", func(o *types.BaseObject) *uint32 { return &o.Attributes }, field.Flags(types.AttributeNames)),
	field.Bind("build_flags", func(o *types.BaseObject) *uint32 { return &o.BuildFlags }, field.Flags(types.BuildFlagNames)),
	field.Bind("order_flags", func(o *types.BaseObject) *uint32 { return &o.OrderFlags }, field.Flags(types.OrderFlagNames)),

	field.Bind("long_name", func(o *types.BaseObject) *string { return &o.Name }, field.String),
	field.Bind("short_name", func(o *types.BaseObject) *string { return &o.ShortName }, field.String),
	optString("portrait", func(o *types.BaseObject) *string { return &o.Portrait }),

	optInt("price", func(o *types.BaseObject) *int64 { return &o.Price }, 0),
	optInt("destination_class", func(o *types.BaseObject) *int64 { return &o.DestinationClass }, 0),
	optInt("warp_out_distance", func(o *types.BaseObject) *int64 { return &o.WarpOutDistance }, 0),
	optInt("health", func(o *types.BaseObject) *int64 { return &o.Health }, 0),
	optInt("damage", func(o *types.BaseObject) *int64 { return &o.Damage }, 0),
	optInt("energy", func(o *types.BaseObject) *int64 { return &o.Energy }, 0),
	optInt("skill_num", func(o *types.BaseObject) *int64 { return &o.SkillNum }, 0),
	optInt("skill_den", func(o *types.BaseObject) *int64 { return &o.SkillDen }, 0),
	optInt("occupy_count", func(o *types.BaseObject) *int64 { return &o.OccupyCount }, -1),
	optInt("arrive_action_distance", func(o *types.BaseObject) *int64 { return &o.ArriveActionDistance }, 0),

	optFixed("offense", func(o *types.BaseObject) *types.Fixed { return &o.Offense }),
	optFixed("max_velocity", func(o *types.BaseObject) *types.Fixed { return &o.MaxVelocity }),
	optFixed("warp_speed", func(o *types.BaseObject) *types.Fixed { return &o.WarpSpeed }),
	optFixed("mass", func(o *types.BaseObject) *types.Fixed { return &o.Mass }),
	optFixed("max_thrust", func(o *types.BaseObject) *types.Fixed { return &o.MaxThrust }),
	optFixed("friend_deficit", func(o *types.BaseObject) *types.Fixed { return &o.FriendDeficit }),
	optFixed("build_ratio", func(o *types.BaseObject) *types.Fixed { return &o.BuildRatio }),

	field.Bind("build_time", func(o *types.BaseObject) *types.Ticks { return &o.BuildTime }, field.Optional(field.Ticks, 0)),
	field.Bind("shield_color", func(o *types.BaseObject) **types.Color { return &o.ShieldColor }, field.Maybe(field.Color)),

	field.Bind("initial_velocity", func(o *types.BaseObject) *types.Range[types.Fixed] { return &o.InitialVelocity },
		field.Optional(field.FixedRange, types.Range[types.Fixed]{})),
	field.Bind("initial_age", func(o *types.BaseObject) *types.Range[types.Ticks] { return &o.InitialAge },
		field.Optional(field.TicksRange, types.Range[types.Ticks]{Begin: -1, End: -1})),
	field.Bind("initial_direction", func(o *types.BaseObject) *types.Range[int64] { return &o.InitialDirection },
		field.Optional(field.IntRange, types.Range[int64]{})),

	optActions("on_destroy", func(o *types.BaseObject) *[]types.Action { return &o.OnDestroy }),
	optActions("on_expire", func(o *types.BaseObject) *[]types.Action { return &o.OnExpire }),
	optActions("on_create", func(o *types.BaseObject) *[]types.Action { return &o.OnCreate }),
	optActions("on_collide", func(o *types.BaseObject) *[]types.Action { return &o.OnCollide }),
	optActions("on_activate", func(o *types.BaseObject) *[]types.Action { return &o.OnActivate }),
	optActions("on_arrive", func(o *types.BaseObject) *[]types.Action { return &o.OnArrive }),

	field.Bind("icon", func(o *types.BaseObject) *types.Icon { return &o.Icon }, readIcon),
	field.Bind("weapons", func(o *types.BaseObject) *types.Loadout { return &o.Weapons }, readLoadout),

	frameField("rotation", has(types.ShapeFromDirection), readRotation),
	frameField("animation", has(types.IsSelfAnimated), readAnimation),
	frameField("vector", has(types.IsVector), readVector),
	frameField("device", func(uint32) bool { return true }, readOptionalDevice),

	field.Bind("destroy_dont_die", func(o *types.BaseObject) *bool { return &o.DestroyDontDie }, field.Optional(field.Bool, false)),
	field.Bind("expire_dont_die", func(o *types.BaseObject) *bool { return &o.ExpireDontDie }, field.Optional(field.Bool, false)),
	field.Bind("activate_period", func(o *types.BaseObject) *types.Range[types.Ticks] { return &o.ActivatePeriod },
		field.Optional(field.TicksRange, types.Range[types.Ticks]{})),

	optString("level_tag", func(o *types.BaseObject) *string { return &o.LevelTag }),
	optString("engage_tag", func(o *types.BaseObject) *string { return &o.EngageTag }),
	optString("order_tag", func(o *types.BaseObject) *string { return &o.OrderTag }),
}

// ReadBaseObject reads one object type definition.
func ReadBaseObject(v field.Value) (types.BaseObject, error) {
	return field.Struct(v, baseObjectFields)
}

package loader

import (
	"github.com/chaimleib/antares/loader/field"
	"github.com/chaimleib/antares/types"
)

type override struct {
	Subject types.InitialID
	Object  types.InitialID
}

var overrideFields = field.Fields[override]{
	field.Bind("subject", func(o *override) *types.InitialID { return &o.Subject }, field.Optional(field.Initial, types.NoInitial)),
	field.Bind("object", func(o *override) *types.InitialID { return &o.Object }, field.Optional(field.Initial, types.NoInitial)),
}

// actionHeader holds the keys every action accepts. "type" selects the
// payload and is read separately.
var actionHeader = field.Fields[types.Action]{
	field.Ignore[types.Action]("type"),
	field.Bind("reflexive", func(a *types.Action) *bool { return &a.Reflexive }, field.Optional(field.Bool, false)),
	field.Bind("owner", func(a *types.Action) *int8 { return &a.Owner }, field.Optional(readOwnerRelation, types.OwnerAny)),
	field.Bind("delay", func(a *types.Action) *types.Ticks { return &a.Delay }, field.Optional(field.Ticks, 0)),
	field.Bind("inclusive_filter", func(a *types.Action) *uint32 { return &a.InclusiveFilter }, field.Flags(types.AttributeNames)),
	field.Set("level_tag", func(a *types.Action, v field.Value) error {
		tag, err := field.Optional(field.String, "")(v)
		if err != nil || v.IsNull() {
			return err
		}
		a.ExclusiveFilter = types.TagFilter
		a.LevelTag = tag
		return nil
	}),
	field.Set("override", func(a *types.Action, v field.Value) error {
		o, err := field.OptionalStruct(v, overrideFields)
		if err != nil {
			return err
		}
		a.SubjectOverride, a.DirectOverride = types.NoInitial, types.NoInitial
		if o != nil {
			a.SubjectOverride, a.DirectOverride = o.Subject, o.Object
		}
		return nil
	}),
}

// payload returns a reader for one action type whose own keys are fields.
func payload[B types.ActionArgs](fields field.Fields[B]) func(field.Value, *types.Action) error {
	return func(v field.Value, a *types.Action) error {
		b, err := field.Variant(v, actionHeader, a, fields)
		if err != nil {
			return err
		}
		a.Args = b
		return nil
	}
}

type actionKind struct {
	name string
	read func(field.Value, *types.Action) error
}

var actionKinds = []actionKind{
	{"create", payload(field.Fields[types.CreateObject]{
		field.Bind("base", func(c *types.CreateObject) *types.BaseID { return &c.Base }, field.Base),
		field.Set("count", func(c *types.CreateObject, v field.Value) error {
			r, err := field.Optional(field.IntRange, types.Range[int64]{Begin: 1, End: 2})(v)
			if err != nil {
				return err
			}
			c.CountMin, c.CountRange = int32(r.Begin), int32(r.End-r.Begin)
			return nil
		}),
		field.Bind("relative_velocity", func(c *types.CreateObject) *bool { return &c.VelocityRelative }, field.Optional(field.Bool, false)),
		field.Bind("relative_direction", func(c *types.CreateObject) *bool { return &c.DirectionRelative }, field.Optional(field.Bool, false)),
		field.Bind("distance", func(c *types.CreateObject) *int32 { return &c.RandomDistance }, field.Optional(field.Int32, 0)),
		field.Bind("inherit_destination", func(c *types.CreateObject) *bool { return &c.SetDest }, field.Optional(field.Bool, false)),
	})},
	{"sound", payload(field.Fields[types.PlaySound]{
		field.Set("id", func(s *types.PlaySound, v field.Value) error {
			r, err := field.IntRange(v)
			if err != nil {
				return err
			}
			s.IDMin, s.IDRange = int32(r.Begin), int32(r.End-r.Begin-1)
			return nil
		}),
		field.Bind("volume", func(s *types.PlaySound) *int32 { return &s.Volume }, field.Optional(field.Int32, 255)),
		field.Bind("persistence", func(s *types.PlaySound) *types.Ticks { return &s.Persistence }, field.Optional(field.Ticks, 0)),
		field.Bind("priority", func(s *types.PlaySound) *int32 { return &s.Priority }, field.Optional(field.Int32, 0)),
		field.Bind("absolute", func(s *types.PlaySound) *bool { return &s.Absolute }, field.Optional(field.Bool, false)),
	})},
	{"spark", payload(field.Fields[types.MakeSparks]{
		field.Bind("count", func(s *types.MakeSparks) *int32 { return &s.Count }, field.Int32),
		field.Bind("speed", func(s *types.MakeSparks) *int32 { return &s.Speed }, field.Int32),
		field.Bind("velocity_range", func(s *types.MakeSparks) *types.Fixed { return &s.VelocityRange }, field.Optional(field.Fixed, 0)),
		field.Bind("hue", func(s *types.MakeSparks) *types.Hue { return &s.Hue }, field.Optional(readHue, types.HueGray)),
	})},
	{"die", payload(field.Fields[types.Die]{
		field.Bind("how", func(d *types.Die) *types.DieKind { return &d.Kind }, field.Optional(field.Enum(
			sym("plain", types.DieNone),
			sym("expire", types.DieExpire),
			sym("destroy", types.DieDestroy),
		), types.DieNone)),
	})},
	{"nil_target", payload(field.Fields[types.NilTarget]{})},
	{"alter", readAlter},
	{"land", payload(field.Fields[types.LandAt]{
		field.Bind("speed", func(l *types.LandAt) *int32 { return &l.Speed }, field.Int32),
	})},
	{"warp", payload(field.Fields[types.EnterWarp]{})},
	{"score", payload(field.Fields[types.ChangeScore]{
		field.Bind("player", func(s *types.ChangeScore) *types.AdmiralID { return &s.Player }, field.Optional(field.Admiral, types.NoAdmiral)),
		field.Set("which", func(s *types.ChangeScore, v field.Value) error {
			n, err := field.IntIn(0, 3)(v)
			s.Which = int32(n)
			return err
		}),
		field.Bind("value", func(s *types.ChangeScore) *int32 { return &s.Amount }, field.Int32),
	})},
	{"win", payload(field.Fields[types.DeclareWinner]{
		field.Bind("player", func(w *types.DeclareWinner) *types.AdmiralID { return &w.Player }, field.Optional(field.Admiral, types.NoAdmiral)),
		field.Bind("next", func(w *types.DeclareWinner) *int32 { return &w.NextLevel }, field.Optional(field.Int32, -1)),
		field.Bind("text", func(w *types.DeclareWinner) *string { return &w.Text }, field.Optional(field.String, "")),
	})},
	{"message", payload(field.Fields[types.DisplayMessage]{
		field.Bind("id", func(m *types.DisplayMessage) *int32 { return &m.ID }, field.Int32),
		field.Bind("pages", func(m *types.DisplayMessage) *int32 { return &m.Pages }, field.Optional(field.Int32, 1)),
	})},
	{"move", payload(field.Fields[types.SetDestination]{})},
	{"activate", payload(field.Fields[types.ActivateSpecial]{})},
	{"flash", payload(field.Fields[types.ColorFlash]{
		field.Bind("length", func(f *types.ColorFlash) *types.Ticks { return &f.Length }, field.Ticks),
		field.Bind("hue", func(f *types.ColorFlash) *types.Hue { return &f.Hue }, readHue),
		field.Bind("shade", func(f *types.ColorFlash) *int32 { return &f.Shade }, field.Optional(field.Int32, 0)),
	})},
	{"enable_keys", payload(field.Fields[types.EnableKeys]{
		field.Bind("keys", func(k *types.EnableKeys) *uint32 { return &k.Mask }, field.Flags(types.KeyNames)),
	})},
	{"disable_keys", payload(field.Fields[types.DisableKeys]{
		field.Bind("keys", func(k *types.DisableKeys) *uint32 { return &k.Mask }, field.Flags(types.KeyNames)),
	})},
	{"zoom", payload(field.Fields[types.SetZoom]{
		field.Bind("value", func(z *types.SetZoom) *types.Zoom { return &z.Zoom }, readZoom),
	})},
	{"select", payload(field.Fields[types.ComputerSelect]{
		field.Bind("screen", func(s *types.ComputerSelect) *types.Screen { return &s.Screen }, readScreen),
		field.Bind("line", func(s *types.ComputerSelect) *int32 { return &s.Line }, field.Optional(field.Int32, 0)),
	})},
	{"assume", payload(field.Fields[types.AssumeInitial]{
		field.Bind("which", func(a *types.AssumeInitial) *int32 { return &a.Which }, field.Int32),
	})},
}

var readActionType = func() field.Reader[int] {
	syms := make([]field.Symbol[int], len(actionKinds))
	for i, k := range actionKinds {
		syms[i] = sym(k.name, i)
	}
	return field.Enum(syms...)
}()

// readAction reads one action record.
func readAction(v field.Value) (types.Action, error) {
	a := types.Action{SubjectOverride: types.NoInitial, DirectOverride: types.NoInitial}
	if !v.IsMap() {
		return a, field.Errorf(v, "must be map")
	}
	kind, err := readActionType(v.Get("type"))
	if err != nil {
		return a, err
	}
	if err := actionKinds[kind].read(v, &a); err != nil {
		return a, err
	}
	return a, nil
}

var readActions = field.OptionalArray(readAction)

// alterKinds maps each alter kind to the keys it accepts besides the
// action header and "alter" itself.
var alterKinds = []struct {
	name   string
	kind   types.AlterKind
	fields field.Fields[types.Alter]
}{
	{"damage", types.AlterDamage, field.Fields[types.Alter]{alterInt("value")}},
	{"energy", types.AlterEnergy, field.Fields[types.Alter]{alterInt("value")}},
	{"hidden", types.AlterHidden, field.Fields[types.Alter]{
		alterHandle("first", field.Initial),
		alterCount,
	}},
	{"cloak", types.AlterCloak, nil},
	{"spin", types.AlterSpin, field.Fields[types.Alter]{alterFixedRange}},
	{"offline", types.AlterOffline, field.Fields[types.Alter]{alterFixedRange}},
	{"velocity", types.AlterVelocity, field.Fields[types.Alter]{alterFixed, alterRelative}},
	{"max_velocity", types.AlterMaxVelocity, field.Fields[types.Alter]{
		field.Set("value", func(a *types.Alter, v field.Value) error {
			f, err := field.Optional(field.Fixed, -1)(v)
			a.Minimum = int32(f)
			return err
		}),
	}},
	{"thrust", types.AlterThrust, field.Fields[types.Alter]{alterFixedRange, alterRelative}},
	{"base_type", types.AlterBaseType, field.Fields[types.Alter]{
		alterHandle("base", field.Base),
		field.Bind("keep_state", func(a *types.Alter) *bool { return &a.Relative }, field.Optional(field.Bool, false)),
	}},
	{"owner", types.AlterOwner, field.Fields[types.Alter]{
		field.Set("player", func(a *types.Alter, v field.Value) error {
			p, err := field.Maybe(field.Admiral)(v)
			if err != nil {
				return err
			}
			a.Relative = p == nil
			if p != nil {
				a.Minimum = int32(*p)
			}
			return nil
		}),
	}},
	{"conditions", types.AlterConditionTrueYet, field.Fields[types.Alter]{
		alterHandle("first", field.Condition),
		alterCount,
		field.Bind("value", func(a *types.Alter) *bool { return &a.Relative }, field.Bool),
	}},
	{"occupation", types.AlterOccupation, field.Fields[types.Alter]{alterInt("value")}},
	{"cash", types.AlterAbsoluteCash, field.Fields[types.Alter]{
		alterFixed,
		field.Set("player", func(a *types.Alter, v field.Value) error {
			p, err := field.Maybe(field.Admiral)(v)
			if err != nil {
				return err
			}
			a.Relative = p == nil
			if p != nil {
				a.Range = int32(*p)
			}
			return nil
		}),
	}},
	{"age", types.AlterAge, field.Fields[types.Alter]{
		field.Set("value", func(a *types.Alter, v field.Value) error {
			r, err := field.TicksRange(v)
			a.Minimum, a.Range = int32(r.Begin), int32(r.End-r.Begin)
			return err
		}),
		alterRelative,
	}},
	{"location", types.AlterLocation, field.Fields[types.Alter]{alterInt("distance"), alterRelative}},
	{"absolute_location", types.AlterAbsoluteLocation, field.Fields[types.Alter]{
		field.Set("at", func(a *types.Alter, v field.Value) error {
			p, err := field.Point(v)
			a.Minimum, a.Range = p.X, p.Y
			return err
		}),
		alterRelative,
	}},
	{"pulse", types.AlterWeapon1, field.Fields[types.Alter]{alterWeapon}},
	{"beam", types.AlterWeapon2, field.Fields[types.Alter]{alterWeapon}},
	{"special", types.AlterSpecial, field.Fields[types.Alter]{alterWeapon}},
	{"level_tag", types.AlterLevelTag, field.Fields[types.Alter]{field.Ignore[types.Alter]("tag")}},
}

var readAlterKind = func() field.Reader[int] {
	syms := make([]field.Symbol[int], len(alterKinds))
	for i, k := range alterKinds {
		syms[i] = sym(k.name, i)
	}
	return field.Enum(syms...)
}()

func readAlter(v field.Value, a *types.Action) error {
	i, err := readAlterKind(v.Get("alter"))
	if err != nil {
		return err
	}
	k := alterKinds[i]
	fields := append(field.Fields[types.Alter]{field.Ignore[types.Alter]("alter")}, k.fields...)
	alter, err := field.Variant(v, actionHeader, a, fields)
	if err != nil {
		return err
	}
	alter.Kind = k.kind
	a.Args = alter
	return nil
}

func alterInt(key string) field.Field[types.Alter] {
	return field.Bind(key, func(a *types.Alter) *int32 { return &a.Minimum }, field.Int32)
}

func alterHandle[H ~int](key string, r field.Reader[H]) field.Field[types.Alter] {
	return field.Set(key, func(a *types.Alter, v field.Value) error {
		h, err := r(v)
		a.Minimum = int32(h)
		return err
	})
}

var (
	alterRelative = field.Bind("relative", func(a *types.Alter) *bool { return &a.Relative }, field.Optional(field.Bool, false))

	alterFixed = field.Set("value", func(a *types.Alter, v field.Value) error {
		f, err := field.Fixed(v)
		a.Minimum = int32(f)
		return err
	})

	alterFixedRange = field.Set("value", func(a *types.Alter, v field.Value) error {
		r, err := field.FixedRange(v)
		a.Minimum, a.Range = int32(r.Begin), int32(r.End-r.Begin)
		return err
	})

	alterCount = field.Set("count", func(a *types.Alter, v field.Value) error {
		n, err := field.Optional(field.IntIn(1, 1<<16), 1)(v)
		a.Range = int32(n - 1)
		return err
	})

	alterWeapon = field.Set("base", func(a *types.Alter, v field.Value) error {
		b, err := field.Optional(field.Base, types.NoBase)(v)
		a.Minimum = int32(b)
		return err
	})
)

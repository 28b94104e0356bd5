package loader

import (
	"github.com/chaimleib/antares/loader/field"
	"github.com/chaimleib/antares/types"
)

var conditionHeader = field.Fields[types.Condition]{
	field.Ignore[types.Condition]("type"),
	field.Bind("name", func(c *types.Condition) *string { return &c.Name }, field.Optional(field.String, "")),
	field.Bind("op", func(c *types.Condition) *types.Op { return &c.Op }, readOp),
	field.Bind("persistent", func(c *types.Condition) *bool { return &c.Persistent }, field.Optional(field.Bool, false)),
	field.Bind("initially_disabled", func(c *types.Condition) *bool { return &c.InitiallyDisabled }, field.Optional(field.Bool, false)),
	field.Bind("subject", func(c *types.Condition) *types.InitialID { return &c.Subject }, field.Optional(field.Initial, types.NoInitial)),
	field.Bind("object", func(c *types.Condition) *types.InitialID { return &c.Object }, field.Optional(field.Initial, types.NoInitial)),
	field.Bind("action", func(c *types.Condition) *[]types.Action { return &c.Action }, field.Array(readAction)),
}

func test[B types.ConditionTest](fields field.Fields[B]) func(field.Value, *types.Condition) error {
	return func(v field.Value, c *types.Condition) error {
		b, err := field.Variant(v, conditionHeader, c, fields)
		if err != nil {
			return err
		}
		c.Test = b
		return nil
	}
}

var conditionKinds = []struct {
	name string
	read func(field.Value, *types.Condition) error
}{
	{"autopilot", test(field.Fields[types.AutopilotCondition]{
		field.Bind("value", func(c *types.AutopilotCondition) *bool { return &c.Value }, field.Bool),
	})},
	{"building", test(field.Fields[types.BuildingCondition]{
		field.Bind("value", func(c *types.BuildingCondition) *bool { return &c.Value }, field.Bool),
	})},
	{"computer", test(field.Fields[types.ComputerCondition]{
		field.Bind("screen", func(c *types.ComputerCondition) *types.Screen { return &c.Screen }, readScreen),
		field.Bind("line", func(c *types.ComputerCondition) *int64 { return &c.Line }, field.Optional(field.Int, -1)),
	})},
	{"counter", test(field.Fields[types.CounterCondition]{
		field.Bind("player", func(c *types.CounterCondition) *types.AdmiralID { return &c.Player }, field.Admiral),
		field.Bind("counter", func(c *types.CounterCondition) *int64 { return &c.Counter }, field.IntIn(0, 3)),
		field.Bind("value", func(c *types.CounterCondition) *int64 { return &c.Value }, field.Int),
	})},
	{"destroyed", test(field.Fields[types.DestroyedCondition]{
		field.Bind("initial", func(c *types.DestroyedCondition) *types.InitialID { return &c.Initial }, field.Initial),
		field.Bind("value", func(c *types.DestroyedCondition) *bool { return &c.Value }, field.Bool),
	})},
	{"distance", test(field.Fields[types.DistanceCondition]{
		field.Bind("value", func(c *types.DistanceCondition) *int64 { return &c.Value }, field.Int),
	})},
	{"false", test(field.Fields[types.FalseCondition]{})},
	{"health", test(field.Fields[types.HealthCondition]{
		field.Bind("value", func(c *types.HealthCondition) *float64 { return &c.Value }, field.Double),
	})},
	{"message", test(field.Fields[types.MessageCondition]{
		field.Bind("id", func(c *types.MessageCondition) *int64 { return &c.ID }, field.Int),
		field.Bind("page", func(c *types.MessageCondition) *int64 { return &c.Page }, field.Int),
	})},
	{"ordered", test(field.Fields[types.OrderedCondition]{})},
	{"owner", test(field.Fields[types.OwnerCondition]{
		field.Bind("player", func(c *types.OwnerCondition) *types.AdmiralID { return &c.Player }, field.Admiral),
	})},
	{"ships", test(field.Fields[types.ShipsCondition]{
		field.Bind("player", func(c *types.ShipsCondition) *types.AdmiralID { return &c.Player }, field.Admiral),
		field.Bind("value", func(c *types.ShipsCondition) *int64 { return &c.Value }, field.Int),
	})},
	{"speed", test(field.Fields[types.SpeedCondition]{
		field.Bind("value", func(c *types.SpeedCondition) *types.Fixed { return &c.Value }, field.Fixed),
	})},
	{"subject", test(field.Fields[types.SubjectCondition]{
		field.Bind("value", func(c *types.SubjectCondition) *types.SubjectValue { return &c.Value }, field.Enum(
			sym("control", types.SubjectControl),
			sym("target", types.SubjectTarget),
			sym("player", types.SubjectPlayer),
		)),
	})},
	{"time", test(field.Fields[types.TimeCondition]{
		field.Bind("value", func(c *types.TimeCondition) *types.Ticks { return &c.Value }, field.Ticks),
	})},
	{"zoom", test(field.Fields[types.ZoomCondition]{
		field.Bind("value", func(c *types.ZoomCondition) *types.Zoom { return &c.Value }, readZoom),
	})},
}

var readConditionType = func() field.Reader[int] {
	syms := make([]field.Symbol[int], len(conditionKinds))
	for i, k := range conditionKinds {
		syms[i] = sym(k.name, i)
	}
	return field.Enum(syms...)
}()

func readCondition(v field.Value) (types.Condition, error) {
	var c types.Condition
	if !v.IsMap() {
		return c, field.Errorf(v, "must be map")
	}
	kind, err := readConditionType(v.Get("type"))
	if err != nil {
		return c, err
	}
	if err := conditionKinds[kind].read(v, &c); err != nil {
		return c, err
	}
	return c, nil
}

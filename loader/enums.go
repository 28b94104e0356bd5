package loader

import (
	"github.com/chaimleib/antares/loader/field"
	"github.com/chaimleib/antares/types"
)

func sym[T any](name string, v T) field.Symbol[T] {
	return field.Symbol[T]{Name: name, Value: v}
}

var readHue = field.Enum(
	sym("red", types.HueRed),
	sym("orange", types.HueOrange),
	sym("yellow", types.HueYellow),
	sym("blue", types.HueBlue),
	sym("green", types.HueGreen),
	sym("purple", types.HuePurple),
	sym("indigo", types.HueIndigo),
	sym("salmon", types.HueSalmon),
	sym("gold", types.HueGold),
	sym("aqua", types.HueAqua),
	sym("pink", types.HuePink),
	sym("pale_green", types.HuePaleGreen),
	sym("pale_purple", types.HuePalePurple),
	sym("sky_blue", types.HueSkyBlue),
	sym("tan", types.HueTan),
	sym("gray", types.HueGray),
)

var readZoom = field.Enum(
	sym("2:1", types.ZoomDouble),
	sym("1:1", types.ZoomActual),
	sym("1:2", types.ZoomHalf),
	sym("1:4", types.ZoomQuarter),
	sym("1:16", types.ZoomSixteenth),
	sym("foe", types.ZoomFoe),
	sym("object", types.ZoomObject),
	sym("all", types.ZoomAll),
)

var readScreen = field.Enum(
	sym("main", types.ScreenMain),
	sym("build", types.ScreenBuild),
	sym("special", types.ScreenSpecial),
	sym("message", types.ScreenMessage),
	sym("status", types.ScreenStatus),
)

var readOwnerRelation = field.Enum(
	sym("any", types.OwnerAny),
	sym("same", types.OwnerSame),
	sym("different", types.OwnerDifferent),
)

var readOp = field.Enum(
	sym("eq", types.OpEq),
	sym("ne", types.OpNe),
	sym("lt", types.OpLt),
	sym("gt", types.OpGt),
	sym("le", types.OpLe),
	sym("ge", types.OpGe),
)

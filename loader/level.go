package loader

import (
	"github.com/chaimleib/antares/loader/field"
	"github.com/chaimleib/antares/types"
)

var readLevelType = field.Enum(
	sym("demo", types.LevelDemo),
	sym("solo", types.LevelSolo),
	sym("net", types.LevelNet),
)

var readPlayerType = field.Enum(
	sym("human", types.PlayerHuman),
	sym("cpu", types.PlayerCPU),
)

var (
	playerName = field.Bind("name", func(p *types.Player) *string { return &p.Name }, field.String)
	playerType = field.Bind("type", func(p *types.Player) *types.PlayerType { return &p.Type }, readPlayerType)
	playerRace = field.Bind("race", func(p *types.Player) *types.RaceID { return &p.Race }, field.Race)
	playerEarn = field.Bind("earning_power", func(p *types.Player) *types.Fixed { return &p.EarningPower }, field.Optional(field.Fixed, types.FixedOne))
)

func readDemoPlayer(v field.Value) (types.Player, error) {
	p, err := field.Struct(v, field.Fields[types.Player]{playerName, playerRace, playerEarn})
	p.Type = types.PlayerCPU
	return p, err
}

func readNetPlayer(v field.Value) (types.Player, error) {
	p, err := field.Struct(v, field.Fields[types.Player]{playerType, playerEarn})
	p.Race = types.NoRace
	return p, err
}

var readSoloPlayer = field.StructOf(field.Fields[types.Player]{playerType, playerName, playerRace, playerEarn})

var readBuildList = func() field.Reader[[]types.BaseID] {
	list := field.OptionalArray(field.Base)
	return func(v field.Value) ([]types.BaseID, error) {
		if v.Len() > types.MaxTypeBaseCanBuild {
			return nil, field.Errorf(v, "has %d elements, more than max of %d", v.Len(), types.MaxTypeBaseCanBuild)
		}
		return list(v)
	}
}()

var readInitial = field.StructOf(field.Fields[types.Initial]{
	field.Bind("name", func(i *types.Initial) *string { return &i.Name }, field.Optional(field.String, "")),
	field.Bind("base", func(i *types.Initial) *types.BaseID { return &i.Base }, field.Base),
	field.Bind("owner", func(i *types.Initial) *types.AdmiralID { return &i.Owner }, field.Optional(field.Admiral, types.NoAdmiral)),
	field.Bind("at", func(i *types.Initial) *types.Point { return &i.At }, field.Point),
	field.Bind("earning", func(i *types.Initial) *types.Fixed { return &i.Earning }, field.Optional(field.Fixed, 0)),
	field.Bind("rename", func(i *types.Initial) *string { return &i.Rename }, field.Optional(field.String, "")),
	field.Bind("sprite_override", func(i *types.Initial) *int64 { return &i.SpriteOverride }, field.Optional(field.Int, -1)),
	field.Bind("target", func(i *types.Initial) *types.InitialID { return &i.Target }, field.Optional(field.Initial, types.NoInitial)),
	field.Bind("attributes", func(i *types.Initial) *uint32 { return &i.Attributes }, field.Flags(types.InitialAttributeNames)),
	field.Bind("build", func(i *types.Initial) *[]types.BaseID { return &i.Build }, readBuildList),
})

var readBriefing = field.StructOf(field.Fields[types.Briefing]{
	field.Bind("object", func(b *types.Briefing) *types.InitialID { return &b.Object }, field.Optional(field.Initial, types.NoInitial)),
	field.Bind("title", func(b *types.Briefing) *string { return &b.Title }, field.String),
	field.Bind("content", func(b *types.Briefing) *string { return &b.Content }, field.String),
})

func levelString(key string, dst func(*types.Level) *string, required bool) field.Field[types.Level] {
	r := field.Reader[string](field.String)
	if !required {
		r = field.Optional(r, "")
	}
	return field.Bind(key, dst, r)
}

// levelCommon holds the keys every level type accepts, in read order.
var levelCommon = field.Fields[types.Level]{
	field.Ignore[types.Level]("type"),
	field.Bind("chapter", func(l *types.Level) *int64 { return &l.Chapter }, field.Int),
	levelString("title", func(l *types.Level) *string { return &l.Title }, true),
	field.Bind("initials", func(l *types.Level) *[]types.Initial { return &l.Initials }, field.OptionalArray(readInitial)),
	field.Bind("conditions", func(l *types.Level) *[]types.Condition { return &l.Conditions }, field.OptionalArray(readCondition)),
	field.Bind("briefings", func(l *types.Level) *[]types.Briefing { return &l.Briefings }, field.OptionalArray(readBriefing)),
	field.Bind("starmap", func(l *types.Level) *types.Point { return &l.StarMap }, field.Optional(field.Point, types.Point{})),
	field.Bind("song", func(l *types.Level) *int64 { return &l.Song }, field.Int),
	field.Bind("score_strings", func(l *types.Level) *[]string { return &l.ScoreStrings }, field.OptionalArray(field.String)),
	field.Bind("start_time", func(l *types.Level) *types.Ticks { return &l.StartTime }, field.Optional(field.Secs, 0)),
	field.Bind("is_training", func(l *types.Level) *bool { return &l.IsTraining }, field.Optional(field.Bool, false)),
	field.Bind("angle", func(l *types.Level) *int64 { return &l.Angle }, field.Optional(field.Int, -1)),
	field.Bind("par_time", func(l *types.Level) *types.Ticks { return &l.ParTime }, field.Optional(field.Secs, 0)),
	field.Bind("par_kills", func(l *types.Level) *int64 { return &l.ParKills }, field.Optional(field.Int, 0)),
	field.Bind("par_losses", func(l *types.Level) *int64 { return &l.ParLosses }, field.Optional(field.Int, 0)),
}

func levelFields(players field.Reader[types.Player], extra ...field.Field[types.Level]) field.Fields[types.Level] {
	fs := append(field.Fields[types.Level]{}, levelCommon...)
	fs = append(fs, field.Bind("players", func(l *types.Level) *[]types.Player { return &l.Players }, field.Array(players)))
	return append(fs, extra...)
}

var levelTables = map[types.LevelType]field.Fields[types.Level]{
	types.LevelDemo: levelFields(readDemoPlayer),
	types.LevelSolo: levelFields(readSoloPlayer,
		levelString("no_ships", func(l *types.Level) *string { return &l.NoShips }, false),
		levelString("prologue", func(l *types.Level) *string { return &l.Prologue }, false),
		levelString("epilogue", func(l *types.Level) *string { return &l.Epilogue }, false),
	),
	types.LevelNet: levelFields(readNetPlayer,
		levelString("own_no_ships", func(l *types.Level) *string { return &l.OwnNoShips }, true),
		levelString("foe_no_ships", func(l *types.Level) *string { return &l.FoeNoShips }, true),
		levelString("description", func(l *types.Level) *string { return &l.Description }, true),
	),
}

// ReadLevel reads a level. The accepted keys depend on its "type".
func ReadLevel(v field.Value) (types.Level, error) {
	if !v.IsMap() {
		return types.Level{}, field.Errorf(v, "must be map")
	}
	t, err := readLevelType(v.Get("type"))
	if err != nil {
		return types.Level{}, err
	}
	l, err := field.Struct(v, levelTables[t])
	l.Type = t
	return l, err
}

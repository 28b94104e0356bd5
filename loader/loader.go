// Package loader reads a scenario directory (level, info and object files
// in JSON, YAML or Lua) into a types.Scenario, binding names to handles.
package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/chaimleib/antares/loader/field"
	"github.com/chaimleib/antares/types"
)

// ObjectsDir holds one file per base object, named after the object.
const ObjectsDir = "objects"

// DefaultRaces are bound before any file is read, so levels may name them.
var DefaultRaces = []types.Race{
	{Name: "human", Adjective: "Ishiman", Advantage: types.FixedOne},
	{Name: "cantharan", Adjective: "Cantharan", Advantage: types.FixedOne},
	{Name: "salrilian", Adjective: "Salrilian", Advantage: types.FixedOne},
	{Name: "gaitori", Adjective: "Gaitori", Advantage: types.FixedOne},
	{Name: "obish", Adjective: "Obish", Advantage: types.FixedOne},
	{Name: "audemedon", Adjective: "Audemedon", Advantage: types.FixedOne},
	{Name: "elejeetian", Adjective: "Elejeetian", Advantage: types.FixedOne},
	{Name: "bazidanese", Adjective: "Bazidanese", Advantage: types.FixedOne},
}

type options struct {
	logger *log.Logger
}

// Option configures a load.
type Option func(*options)

// WithLogger sets the logger that receives validation warnings.
func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// LoadDir loads the scenario in dir. See LoadFS.
func LoadDir(dir string, opts ...Option) (*types.Scenario, error) {
	return LoadFS(os.DirFS(dir), opts...)
}

// LoadFS reads level.{json,yaml,yml,lua}, an optional info file and every
// file under objects/, resolves names to handles, and validates
// references. Object files are decoded and read concurrently; base handles
// follow sorted file name order.
func LoadFS(fsys fs.FS, opts ...Option) (*types.Scenario, error) {
	o := options{logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(&o)
	}

	levelFile, err := findSource(fsys, "level")
	if err != nil {
		return nil, err
	}
	if levelFile == "" {
		return nil, fmt.Errorf("no level file found")
	}
	levelSrc, err := decodeFile(fsys, levelFile)
	if err != nil {
		return nil, err
	}
	levelNode := levelSrc.root(levelSrc.level)
	if levelNode == nil {
		return nil, fmt.Errorf("%s: no level defined", levelFile)
	}

	infoFile, err := findSource(fsys, "info")
	if err != nil {
		return nil, err
	}
	infoNode := levelSrc.info
	if infoFile != "" {
		src, err := decodeFile(fsys, infoFile)
		if err != nil {
			return nil, err
		}
		if infoNode = src.root(src.info); infoNode == nil {
			return nil, fmt.Errorf("%s: no info defined", infoFile)
		}
	}

	objects, err := decodeObjects(fsys)
	if err != nil {
		return nil, err
	}
	if levelSrc.tree == nil {
		objects = append(objects, levelSrc.objects...)
	}

	names := field.NewNames()
	s := &types.Scenario{
		Races:     DefaultRaces,
		Bases:     make([]types.BaseObject, len(objects)),
		BaseNames: make([]string, len(objects)),
	}
	for i, r := range s.Races {
		if err := names.Races.Bind(r.Name, i); err != nil {
			return nil, err
		}
	}
	for i, obj := range objects {
		if err := names.Bases.Bind(obj.name, i); err != nil {
			return nil, fmt.Errorf("%s: %w", obj.file, err)
		}
		s.BaseNames[i] = obj.name
	}
	if err := bindLevelNames(field.Root(levelNode, names)); err != nil {
		return nil, fmt.Errorf("%s: %w", levelFile, err)
	}

	var g errgroup.Group
	g.Go(func() error {
		lvl, err := ReadLevel(field.Root(levelNode, names))
		if err != nil {
			return fmt.Errorf("%s: %w", levelFile, err)
		}
		s.Level = lvl
		return nil
	})
	g.Go(func() error {
		info, err := readInfo(field.Root(infoNode, names))
		if err != nil {
			return fmt.Errorf("%s: %w", infoFile, err)
		}
		s.Info = info
		return nil
	})
	for i, obj := range objects {
		g.Go(func() error {
			b, err := ReadBaseObject(field.Root(obj.node, names))
			if err != nil {
				return fmt.Errorf("%s: %s: %w", obj.file, obj.name, err)
			}
			s.Bases[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if s.Info.Title == "" {
		s.Info.Title = s.Level.Title
	}

	if err := validate(s, names, o.logger); err != nil {
		return nil, err
	}
	o.logger.Debug("scenario loaded", "title", s.Level.Title, "objects", len(s.Bases),
		"initials", len(s.Level.Initials), "conditions", len(s.Level.Conditions))
	return s, nil
}

var infoFields = field.Fields[types.Info]{
	field.Bind("title", func(i *types.Info) *string { return &i.Title }, field.Optional(field.String, "")),
	field.Bind("author", func(i *types.Info) *string { return &i.Author }, field.Optional(field.String, "")),
	field.Bind("version", func(i *types.Info) *string { return &i.Version }, field.Optional(field.String, "")),
	field.Bind("warp_in_flare", func(i *types.Info) *types.BaseID { return &i.WarpInFlare }, field.Optional(field.Base, types.NoBase)),
	field.Bind("warp_out_flare", func(i *types.Info) *types.BaseID { return &i.WarpOutFlare }, field.Optional(field.Base, types.NoBase)),
	field.Bind("player_body", func(i *types.Info) *types.BaseID { return &i.PlayerBody }, field.Optional(field.Base, types.NoBase)),
	field.Bind("energy_blob", func(i *types.Info) *types.BaseID { return &i.EnergyBlob }, field.Optional(field.Base, types.NoBase)),
}

// readInfo reads plugin info. A missing info file reads as defaults.
func readInfo(v field.Value) (types.Info, error) {
	if v.IsNull() {
		return types.Info{WarpInFlare: types.NoBase, WarpOutFlare: types.NoBase, PlayerBody: types.NoBase, EnergyBlob: types.NoBase}, nil
	}
	return field.Struct(v, infoFields)
}

// bindLevelNames binds the names declared by players, initials and
// conditions to their indices, so references may precede definitions.
func bindLevelNames(root field.Value) error {
	if !root.IsMap() {
		return field.Errorf(root, "must be map")
	}
	names := root.Names()
	tables := []struct {
		key   string
		table *field.NameTable
	}{
		{"players", names.Admirals},
		{"initials", names.Initials},
		{"conditions", names.Conditions},
	}
	for _, t := range tables {
		list := root.Get(t.key)
		if !list.IsArray() {
			continue
		}
		t.table.Reserve(list.Len())
		for i := 0; i < list.Len(); i++ {
			v := list.Index(i).Get("name")
			name, ok := v.Node().(string)
			if !ok {
				continue
			}
			if err := t.table.Bind(name, i); err != nil {
				return field.Errorf(v, "duplicate %s name %q", t.table.Kind(), name)
			}
		}
	}
	return nil
}

// decoded is what one source file defines. JSON and YAML files hold a
// single tree; Lua files call constructors for each role.
type decoded struct {
	tree    any
	info    any
	level   any
	objects []sourceObject
}

// root returns the single tree of a JSON or YAML file, or else the Lua
// definition given.
func (d *decoded) root(def any) any {
	if d.tree != nil {
		return d.tree
	}
	return def
}

type sourceObject struct {
	file string
	name string
	node any
}

// findSource returns the one file named stem with a known extension, or ""
// if there is none.
func findSource(fsys fs.FS, stem string) (string, error) {
	var found []string
	for _, ext := range []string{".json", ".yaml", ".yml", ".lua"} {
		name := stem + ext
		if _, err := fs.Stat(fsys, name); err == nil {
			found = append(found, name)
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
	}
	switch len(found) {
	case 0:
		return "", nil
	case 1:
		return found[0], nil
	}
	return "", fmt.Errorf("more than one %s file: %s", stem, strings.Join(found, ", "))
}

// decodeFile decodes one source file. Objects defined without a name take
// the file's.
func decodeFile(fsys fs.FS, name string) (*decoded, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	stem := strings.TrimSuffix(path.Base(name), path.Ext(name))

	var node any
	switch formatOf(name) {
	case FormatJSON:
		node, err = DecodeJSON(data)
	case FormatYAML:
		node, err = DecodeYAML(data)
	case FormatLua:
		defs, err := runLua(name, data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		d := &decoded{info: defs.info, level: defs.level}
		for _, o := range defs.objects {
			n := o.name
			if n == "" {
				n = stem
			}
			d.objects = append(d.objects, sourceObject{file: name, name: n, node: o.node})
		}
		return d, nil
	default:
		return nil, fmt.Errorf("%s: unknown source format", name)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	d := &decoded{tree: node}
	if node != nil {
		d.objects = []sourceObject{{file: name, name: stem, node: node}}
	}
	return d, nil
}

// decodeObjects decodes every object file concurrently and returns the
// definitions in sorted file order.
func decodeObjects(fsys fs.FS) ([]sourceObject, error) {
	entries, err := fs.ReadDir(fsys, ObjectsDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", ObjectsDir, err)
	}

	var files []string
	for _, e := range entries {
		if !e.IsDir() && formatOf(e.Name()) != "" {
			files = append(files, path.Join(ObjectsDir, e.Name()))
		}
	}
	sort.Strings(files)

	results := make([][]sourceObject, len(files))
	var g errgroup.Group
	for i, f := range files {
		g.Go(func() error {
			d, err := decodeFile(fsys, f)
			if err != nil {
				return err
			}
			results[i] = d.objects
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []sourceObject
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

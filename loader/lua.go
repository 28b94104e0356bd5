package loader

import (
	"bytes"
	"fmt"
	"math"

	lua "github.com/yuin/gopher-lua"
)

// maxLuaDepth bounds table nesting, so self-referencing tables fail instead
// of recursing forever.
const maxLuaDepth = 64

// namedNode is one decoded object definition. An empty name means the
// definition takes its name from the file.
type namedNode struct {
	name string
	node any
}

// collector accumulates Lua definitions during file execution.
type collector struct {
	info    *lua.LTable
	level   *lua.LTable
	objects []luaObject
}

type luaObject struct {
	name  string
	table *lua.LTable
}

// luaDefs is what one Lua source defines, converted to value trees.
type luaDefs struct {
	info    any
	level   any
	objects []namedNode
}

// runLua executes a Lua source in a fresh sandboxed VM. The VM is discarded
// once its definitions are converted.
func runLua(name string, src []byte) (*luaDefs, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	coll := &collector{}
	registerAPI(L, coll)

	fn, err := L.Load(bytes.NewReader(src), name)
	if err != nil {
		return nil, err
	}
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return nil, err
	}

	defs := &luaDefs{}
	if coll.info != nil {
		if defs.info, err = toGoValue(coll.info, 0); err != nil {
			return nil, fmt.Errorf("Info: %w", err)
		}
	}
	if coll.level != nil {
		if defs.level, err = toGoValue(coll.level, 0); err != nil {
			return nil, fmt.Errorf("Level: %w", err)
		}
	}
	for _, o := range coll.objects {
		node, err := toGoValue(o.table, 0)
		if err != nil {
			return nil, fmt.Errorf("Object %q: %w", o.name, err)
		}
		defs.objects = append(defs.objects, namedNode{name: o.name, node: node})
	}
	return defs, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// sandbox removes dangerous globals and functions.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "print",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}

	// Loading must be deterministic.
	if tbl, ok := L.GetGlobal("math").(*lua.LTable); ok {
		tbl.RawSetString("random", lua.LNil)
		tbl.RawSetString("randomseed", lua.LNil)
	}
}

// registerAPI registers the scenario constructors as globals:
//
//	Info { title = "...", ... }
//	Level { type = "solo", ... }
//	Object "name" { long_name = "...", ... }
//	Object { ... }    -- named after the file
func registerAPI(L *lua.LState, coll *collector) {
	L.SetGlobal("Info", L.NewFunction(func(L *lua.LState) int {
		if coll.info != nil {
			L.RaiseError("Info defined twice")
		}
		coll.info = L.CheckTable(1)
		return 0
	}))

	L.SetGlobal("Level", L.NewFunction(func(L *lua.LState) int {
		if coll.level != nil {
			L.RaiseError("Level defined twice")
		}
		coll.level = L.CheckTable(1)
		return 0
	}))

	L.SetGlobal("Object", L.NewFunction(func(L *lua.LState) int {
		if tbl, ok := L.Get(1).(*lua.LTable); ok {
			coll.objects = append(coll.objects, luaObject{table: tbl})
			return 0
		}
		name := L.CheckString(1)
		L.Push(L.NewFunction(func(L *lua.LState) int {
			coll.objects = append(coll.objects, luaObject{name: name, table: L.CheckTable(1)})
			return 0
		}))
		return 1
	}))
}

// toGoValue converts a Lua value into the loader's value tree. Integral
// numbers become int64. A table with only keys 1..n becomes an array, an
// empty table becomes null, and any other table must have string keys.
func toGoValue(lv lua.LValue, depth int) (any, error) {
	if depth > maxLuaDepth {
		return nil, fmt.Errorf("tables nested deeper than %d", maxLuaDepth)
	}
	switch v := lv.(type) {
	case *lua.LNilType:
		return nil, nil
	case lua.LBool:
		return bool(v), nil
	case lua.LString:
		return string(v), nil
	case lua.LNumber:
		f := float64(v)
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int64(f), nil
		}
		return f, nil
	case *lua.LTable:
		return tableToGo(v, depth)
	}
	return nil, fmt.Errorf("unsupported Lua value of type %s", lv.Type())
}

func tableToGo(t *lua.LTable, depth int) (any, error) {
	count := 0
	t.ForEach(func(lua.LValue, lua.LValue) { count++ })
	if count == 0 {
		return nil, nil
	}

	if n := t.MaxN(); n == count {
		out := make([]any, n)
		for i := 1; i <= n; i++ {
			e, err := toGoValue(t.RawGetInt(i), depth+1)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i-1, err)
			}
			out[i-1] = e
		}
		return out, nil
	}

	out := make(map[string]any, count)
	var err error
	t.ForEach(func(k, e lua.LValue) {
		if err != nil {
			return
		}
		ks, ok := k.(lua.LString)
		if !ok {
			err = fmt.Errorf("table key %s is not a string", k.String())
			return
		}
		var x any
		if x, err = toGoValue(e, depth+1); err != nil {
			err = fmt.Errorf("%s: %w", string(ks), err)
			return
		}
		out[string(ks)] = x
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

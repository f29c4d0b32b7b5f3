package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/saveutils/engine/savefile"
)

// registerAPI installs the global "save" table.
func registerAPI(L *lua.LState, s *savefile.SaveFile, report *Report) {
	api := L.NewTable()

	// save.get("key") -> value, or nil when absent
	api.RawSetString("get", L.NewFunction(func(L *lua.LState) int {
		key := L.CheckString(1)
		v, ok := s.Lookup(key)
		if !ok {
			L.Push(lua.LNil)
			return 1
		}
		L.Push(fromValue(L, v))
		return 1
	}))

	// save.has("key") -> bool
	api.RawSetString("has", L.NewFunction(func(L *lua.LState) int {
		_, ok := s.Lookup(L.CheckString(1))
		L.Push(lua.LBool(ok))
		return 1
	}))

	// save.set("key", value)
	api.RawSetString("set", L.NewFunction(func(L *lua.LState) int {
		key := L.CheckString(1)
		v, err := toValue(L.CheckAny(2))
		if err != nil {
			L.ArgError(2, err.Error())
			return 0
		}
		s.Set(key, v)
		report.Writes = append(report.Writes, key)
		return 0
	}))

	// save.safe_set("key", value) -> true, or false plus a message when the
	// value would change the stored type
	api.RawSetString("safe_set", L.NewFunction(func(L *lua.LState) int {
		key := L.CheckString(1)
		v, err := toValue(L.CheckAny(2))
		if err != nil {
			L.ArgError(2, err.Error())
			return 0
		}
		if err := s.SafeSet(key, v); err != nil {
			L.Push(lua.LFalse)
			L.Push(lua.LString(err.Error()))
			return 2
		}
		report.Writes = append(report.Writes, key)
		L.Push(lua.LTrue)
		return 1
	}))

	// save.keys() -> { "key1", "key2", ... } in document order
	api.RawSetString("keys", L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		for _, k := range s.Keys() {
			tbl.Append(lua.LString(k))
		}
		L.Push(tbl)
		return 1
	}))

	L.SetGlobal("save", api)
}

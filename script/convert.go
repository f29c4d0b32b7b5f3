package script

import (
	"fmt"
	"math"
	"sort"

	lua "github.com/yuin/gopher-lua"

	"github.com/nathoo/saveutils/types"
)

// toValue converts a Lua value to a document value recursively. Tables
// whose keys are exactly 1..n become arrays, an empty table becomes an
// empty array, and any other table becomes an object with sorted keys.
func toValue(v lua.LValue) (types.Value, error) {
	switch val := v.(type) {
	case *lua.LNilType:
		return types.Null, nil
	case lua.LBool:
		return types.Bool(bool(val)), nil
	case lua.LNumber:
		f := float64(val)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return types.Null, fmt.Errorf("number %v cannot be stored", f)
		}
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return types.Int(int64(f)), nil
		}
		return types.Float(f), nil
	case lua.LString:
		return types.String(string(val)), nil
	case *lua.LTable:
		return tableToValue(val)
	default:
		return types.Null, fmt.Errorf("%s values cannot be stored", v.Type())
	}
}

func tableToValue(tbl *lua.LTable) (types.Value, error) {
	count := 0
	tbl.ForEach(func(_, _ lua.LValue) { count++ })

	maxN := tbl.MaxN()
	if count == maxN {
		items := make([]types.Value, 0, maxN)
		for i := 1; i <= maxN; i++ {
			item, err := toValue(tbl.RawGetInt(i))
			if err != nil {
				return types.Null, fmt.Errorf("[%d]: %w", i, err)
			}
			items = append(items, item)
		}
		return types.Array(items...), nil
	}

	fields := map[string]lua.LValue{}
	var keyErr error
	tbl.ForEach(func(k, v lua.LValue) {
		switch k.(type) {
		case lua.LString, lua.LNumber:
			fields[k.String()] = v
		default:
			if keyErr == nil {
				keyErr = fmt.Errorf("%s keys cannot be stored", k.Type())
			}
		}
	})
	if keyErr != nil {
		return types.Null, keyErr
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	obj := types.NewObject()
	for _, k := range keys {
		item, err := toValue(fields[k])
		if err != nil {
			return types.Null, fmt.Errorf("%s: %w", k, err)
		}
		obj.Set(k, item)
	}
	return types.FromObject(obj), nil
}

// fromValue converts a document value to Lua. Null array elements become
// nil holes.
func fromValue(L *lua.LState, v types.Value) lua.LValue {
	switch v.Kind() {
	case types.KindBool:
		b, _ := v.AsBool()
		return lua.LBool(b)
	case types.KindNumber:
		f, _ := v.Float64()
		return lua.LNumber(f)
	case types.KindString:
		s, _ := v.AsString()
		return lua.LString(s)
	case types.KindArray:
		tbl := L.NewTable()
		for i, item := range v.Items() {
			tbl.RawSetInt(i+1, fromValue(L, item))
		}
		return tbl
	case types.KindObject:
		tbl := L.NewTable()
		obj := v.Object()
		for _, k := range obj.Keys() {
			item, _ := obj.Get(k)
			tbl.RawSetString(k, fromValue(L, item))
		}
		return tbl
	default:
		return lua.LNil
	}
}

// Package script runs Lua scripts against an open save document. Scripts
// execute in a sandboxed VM and reach the document only through the global
// "save" table.
package script

import (
	"fmt"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/nathoo/saveutils/engine/savefile"
)

// Report describes what a script did to the document.
type Report struct {
	Writes []string // keys written, in call order
}

// Changed reports whether the script wrote anything.
func (r Report) Changed() bool { return len(r.Writes) > 0 }

// Run executes the Lua file at path against s. The VM is discarded
// afterwards. A failing script may leave s partially modified; callers
// persist only when Run succeeds.
func Run(s *savefile.SaveFile, path string) (Report, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return Report{}, fmt.Errorf("reading script %s: %w", path, err)
	}
	return run(s, path, string(src))
}

// RunString executes Lua source against s.
func RunString(s *savefile.SaveFile, src string) (Report, error) {
	return run(s, "<string>", src)
}

func run(s *savefile.SaveFile, name, src string) (Report, error) {
	// Create sandboxed VM.
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	defer L.Close()

	openSafeLibs(L)
	sandbox(L)

	var report Report
	registerAPI(L, s, &report)

	zap.L().Debug("Running script", zap.String("script", name))
	fn, err := L.Load(strings.NewReader(src), name)
	if err != nil {
		return report, fmt.Errorf("compiling %s: %w", name, err)
	}
	L.Push(fn)
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		return report, fmt.Errorf("executing %s: %w", name, err)
	}

	zap.L().Info("Script finished", zap.String("script", name), zap.Strings("writes", report.Writes))
	return report, nil
}

// openSafeLibs opens only the safe subset of Lua standard libraries.
func openSafeLibs(L *lua.LState) {
	// Base library (print, type, tostring, tonumber, pairs, ipairs, etc.)
	lua.OpenBase(L)
	// Table library (table.insert, table.sort, etc.)
	lua.OpenTable(L)
	// String library (string.format, string.sub, etc.)
	lua.OpenString(L)
	// Math library (math.floor, math.max, etc.)
	lua.OpenMath(L)
}

// sandbox removes globals that reach outside the VM.
func sandbox(L *lua.LState) {
	dangerous := []string{
		"dofile", "loadfile", "load", "loadstring",
		"rawset", "rawget", "rawequal",
		"collectgarbage", "module", "require",
	}
	for _, name := range dangerous {
		L.SetGlobal(name, lua.LNil)
	}
}

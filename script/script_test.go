package script

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nathoo/saveutils/engine/savefile"
	"github.com/nathoo/saveutils/types"
)

func newSave(t *testing.T) *savefile.SaveFile {
	t.Helper()
	s, err := savefile.FromString(`{"money":1000,"health":0.5,"playerFirstName":"Test","apartmentsOwned":[500,600],"skin":{"r":1}}`)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestRunString_ReadAndWrite(t *testing.T) {
	s := newSave(t)
	report, err := RunString(s, `
		local money = save.get("money")
		save.set("money", money + 500)
		save.set("playerFirstName", save.get("playerFirstName") .. "!")
	`)
	if err != nil {
		t.Fatalf("RunString: %v", err)
	}
	if money, _ := s.Money(); money != 1500 {
		t.Errorf("money = %d, want 1500", money)
	}
	if name, _ := s.PlayerFirstName(); name != "Test!" {
		t.Errorf("name = %q", name)
	}
	if !report.Changed() || len(report.Writes) != 2 || report.Writes[0] != "money" {
		t.Errorf("Writes = %v", report.Writes)
	}
}

func TestRunString_HasAndKeys(t *testing.T) {
	s := newSave(t)
	_, err := RunString(s, `
		assert(save.has("money"))
		assert(not save.has("nothing"))
		assert(save.get("nothing") == nil)
		local keys = save.keys()
		assert(#keys == 5, "got " .. #keys .. " keys")
		assert(keys[1] == "money")
		assert(keys[5] == "skin")
	`)
	if err != nil {
		t.Fatalf("RunString: %v", err)
	}
}

func TestRunString_ReadsNestedValues(t *testing.T) {
	s := newSave(t)
	_, err := RunString(s, `
		local owned = save.get("apartmentsOwned")
		assert(#owned == 2 and owned[1] == 500 and owned[2] == 600)
		assert(save.get("skin").r == 1)
	`)
	if err != nil {
		t.Fatalf("RunString: %v", err)
	}
}

func TestRunString_SafeSet(t *testing.T) {
	s := newSave(t)
	_, err := RunString(s, `
		local ok, msg = save.safe_set("money", "lots")
		assert(ok == false, "string over number must be refused")
		assert(string.find(msg, "money"), msg)
		assert(save.safe_set("money", 42) == true)
		assert(save.safe_set("brandNew", {1, 2}) == true)
	`)
	if err != nil {
		t.Fatalf("RunString: %v", err)
	}
	if money, _ := s.Money(); money != 42 {
		t.Errorf("money = %d, want 42", money)
	}
	v, _ := s.Get("brandNew")
	if !v.Equal(types.Ints(1, 2)) {
		t.Errorf("brandNew = %v", v)
	}
}

func TestRunString_TableConversion(t *testing.T) {
	s := newSave(t)
	_, err := RunString(s, `
		save.set("list", {"a", "b"})
		save.set("empty", {})
		save.set("obj", {z = 1, a = true, m = 1.5})
		save.set("gap", {[1] = "x", [3] = "y"})
		save.set("nothing", nil)
	`)
	if err != nil {
		t.Fatalf("RunString: %v", err)
	}

	tests := []struct {
		key  string
		want string
	}{
		{"list", `["a","b"]`},
		{"empty", `[]`},
		{"obj", `{"a":true,"m":1.5,"z":1}`},
		{"gap", `{"1":"x","3":"y"}`},
		{"nothing", `null`},
	}
	for _, tt := range tests {
		v, err := s.Get(tt.key)
		if err != nil {
			t.Fatalf("%s: %v", tt.key, err)
		}
		raw, err := v.MarshalJSON()
		if err != nil {
			t.Fatal(err)
		}
		if string(raw) != tt.want {
			t.Errorf("%s = %s, want %s", tt.key, raw, tt.want)
		}
	}
}

func TestRunString_RejectsUnstorableValues(t *testing.T) {
	s := newSave(t)
	_, err := RunString(s, `save.set("f", function() end)`)
	if err == nil {
		t.Fatal("expected error storing a function")
	}
	if _, ok := s.Lookup("f"); ok {
		t.Error("function value must not be stored")
	}

	_, err = RunString(s, `save.set("inf", math.huge)`)
	if err == nil {
		t.Fatal("expected error storing infinity")
	}
}

func TestRunString_Sandbox(t *testing.T) {
	s := newSave(t)
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "rawset", "rawget", "collectgarbage", "require", "os", "io"} {
		_, err := RunString(s, `assert(`+name+` == nil, "`+name+` is reachable")`)
		if err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestRunString_Errors(t *testing.T) {
	s := newSave(t)

	_, err := RunString(s, `this is not lua`)
	if err == nil || !strings.Contains(err.Error(), "compiling") {
		t.Errorf("syntax error = %v", err)
	}

	report, err := RunString(s, `save.set("money", 1) error("boom")`)
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("runtime error = %v", err)
	}
	// Writes before the failure are reported.
	if len(report.Writes) != 1 {
		t.Errorf("Writes = %v", report.Writes)
	}
}

func TestRun_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rich.lua")
	if err := os.WriteFile(path, []byte(`save.set("money", 999999)`), 0o644); err != nil {
		t.Fatal(err)
	}
	s := newSave(t)
	if _, err := Run(s, path); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if money, _ := s.Money(); money != 999999 {
		t.Errorf("money = %d", money)
	}

	_, err := Run(s, filepath.Join(t.TempDir(), "missing.lua"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}
}

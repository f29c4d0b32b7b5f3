package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nathoo/saveutils/engine"
	"github.com/nathoo/saveutils/engine/savefile"
)

const testSave = `{"playerFirstName":"Test","playerSurname":"Tester","money":1000,"health":0.5,"residence":500,"apartmentsOwned":[500,600]}`

func newTestCLI(t *testing.T, input string) (*CLI, *bytes.Buffer) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.sod")
	if err := os.WriteFile(path, []byte(testSave), 0o644); err != nil {
		t.Fatal(err)
	}
	s, err := savefile.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	var out bytes.Buffer
	c := &CLI{
		Engine: engine.New(s, engine.DefaultConfig()),
		In:     strings.NewReader(input),
		Out:    &out,
	}
	return c, &out
}

func TestCLI_Banner(t *testing.T) {
	c, out := newTestCLI(t, "/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Editing ") {
		t.Error("expected banner in output")
	}
	if !strings.Contains(output, "Test Tester") {
		t.Error("expected player summary in output")
	}
}

func TestCLI_BasicCommand(t *testing.T) {
	c, out := newTestCLI(t, "money\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "money: 1000") {
		t.Error("expected money output")
	}
}

func TestCLI_HelpCommand(t *testing.T) {
	c, out := newTestCLI(t, "/help\n/quit\n")
	c.Run()

	output := out.String()
	for _, want := range []string{"/save", "/quit", "residence set", "sizeanalysis"} {
		if !strings.Contains(output, want) {
			t.Errorf("expected %q in help output", want)
		}
	}
}

func TestCLI_Save(t *testing.T) {
	c, out := newTestCLI(t, "money set 5\n/save\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Saved to ") {
		t.Fatalf("expected save confirmation, got:\n%s", out.String())
	}
	reloaded, err := savefile.Load(c.Engine.Save.Path)
	if err != nil {
		t.Fatal(err)
	}
	if money, _ := reloaded.Money(); money != 5 {
		t.Errorf("saved money = %d, want 5", money)
	}
	backup, err := os.ReadFile(c.Engine.Save.Path + savefile.BackupSuffix)
	if err != nil {
		t.Fatal(err)
	}
	if string(backup) != testSave {
		t.Error("backup should hold the original content")
	}
}

func TestCLI_SaveAs(t *testing.T) {
	c, _ := newTestCLI(t, "")
	original := c.Engine.Save.Path
	other := filepath.Join(t.TempDir(), "copy.sod")
	c.In = strings.NewReader("money add 1\n/save " + other + "\n/quit\n")
	c.Run()

	copied, err := savefile.Load(other)
	if err != nil {
		t.Fatal(err)
	}
	if money, _ := copied.Money(); money != 1001 {
		t.Errorf("money = %d, want 1001", money)
	}
	untouched, _ := os.ReadFile(original)
	if string(untouched) != testSave {
		t.Error("the original file should be untouched by save-as")
	}
}

func TestCLI_QuitWithUnsavedChanges(t *testing.T) {
	c, out := newTestCLI(t, "money add 1\n/quit\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "unsaved changes") {
		t.Error("expected unsaved changes warning")
	}
	if !strings.Contains(output, "Goodbye.") {
		t.Error("second /quit should exit")
	}
	data, _ := os.ReadFile(c.Engine.Save.Path)
	if string(data) != testSave {
		t.Error("discarded changes must not be written")
	}
}

func TestCLI_QuitWarningResetsAfterCommand(t *testing.T) {
	c, out := newTestCLI(t, "money add 1\n/quit\nmoney\n/quit\n")
	c.Run()

	if strings.Count(out.String(), "unsaved changes") != 2 {
		t.Errorf("expected the warning twice, got:\n%s", out.String())
	}
	if strings.Contains(out.String(), "Goodbye.") {
		t.Error("should not have exited")
	}
}

func TestCLI_UnknownMetaCommand(t *testing.T) {
	c, out := newTestCLI(t, "/bogus\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Unknown command") {
		t.Error("expected unknown command message")
	}
}

func TestCLI_TraceToggle(t *testing.T) {
	c, out := newTestCLI(t, "/trace\nmoney add 1\n/trace\n/quit !\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Trace output enabled") {
		t.Error("expected trace enabled message")
	}
	if !strings.Contains(output, "[trace] Touched: money") {
		t.Error("expected touched keys in trace")
	}
	if !strings.Contains(output, "Trace output disabled") {
		t.Error("expected trace disabled message")
	}
}

func TestCLI_StateCommand(t *testing.T) {
	c, out := newTestCLI(t, "/state\n/quit\n")
	c.Run()

	output := out.String()
	if !strings.Contains(output, "Keys: 6") {
		t.Error("expected key count in state output")
	}
	if !strings.Contains(output, "Unsaved changes: false") {
		t.Error("expected dirty flag in state output")
	}
}

func TestCLI_EmptyInput(t *testing.T) {
	c, out := newTestCLI(t, "\n\n/quit\n")
	c.Run()

	// Empty lines should be skipped (no "What do you want to do?" spam).
	if strings.Contains(out.String(), "What do you want to do?") {
		t.Error("empty lines should be silently skipped by CLI")
	}
}

func TestCLI_Again_RepeatsLastCommand(t *testing.T) {
	c, out := newTestCLI(t, "money add 10\nagain\ng\n/quit !\n")
	c.Run()

	if !strings.Contains(out.String(), "money is now 1030.") {
		t.Errorf("expected three additions, got:\n%s", out.String())
	}
}

func TestCLI_Again_NothingToRepeat(t *testing.T) {
	c, out := newTestCLI(t, "again\n/quit\n")
	c.Run()

	if !strings.Contains(out.String(), "Nothing to repeat") {
		t.Error("expected 'Nothing to repeat' when no prior command")
	}
}

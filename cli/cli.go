// Package cli provides the line-oriented shell over an open save file:
// terminal I/O, output formatting, and meta-command dispatch.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nathoo/saveutils/engine"
	"github.com/nathoo/saveutils/types"
)

// CLI handles terminal interaction with the user.
type CLI struct {
	Engine      *engine.Engine
	In          io.Reader
	Out         io.Writer
	Trace       bool
	EchoInput   bool   // echo each input line after the prompt (for script playback)
	lastCmd     string // for "again"/"g" repeat
	quitPending bool   // /quit was refused once because of unsaved changes
}

// New creates a CLI wired to the given engine.
func New(eng *engine.Engine) *CLI {
	return &CLI{
		Engine: eng,
		In:     os.Stdin,
		Out:    os.Stdout,
	}
}

// Run starts the shell loop. It summarizes the save, then loops:
// prompt → input → dispatch → output.
func (c *CLI) Run() {
	c.printLine(fmt.Sprintf("Editing %s. Type /help for commands.", c.Engine.Save.Path))
	c.printLines(c.Engine.Stats())

	scanner := bufio.NewScanner(c.In)
	// Large values are pasted on one line.
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}
		// Skip comment lines (for script files).
		if strings.HasPrefix(input, "#") {
			continue
		}
		if c.EchoInput {
			c.printLine(input)
		}

		// Meta-commands start with '/'.
		if strings.HasPrefix(input, "/") {
			if c.handleMeta(input) {
				return // /quit
			}
			continue
		}
		c.quitPending = false

		// "again" / "g" repeats the last command.
		lower := strings.ToLower(input)
		if lower == "again" || lower == "g" {
			if c.lastCmd == "" {
				c.printLine("Nothing to repeat.")
				continue
			}
			input = c.lastCmd
		} else {
			c.lastCmd = input
		}

		result := c.Engine.Step(input)
		c.printLines(result.Output)

		if c.Trace {
			c.printTrace(result)
		}
	}
}

// handleMeta dispatches meta-commands. Returns true if the shell should exit.
func (c *CLI) handleMeta(input string) bool {
	parts := strings.Fields(input)
	cmd := parts[0]
	var arg string
	if len(parts) > 1 {
		arg = strings.Join(parts[1:], " ")
	}

	if cmd != "/quit" && cmd != "/exit" {
		c.quitPending = false
	}

	switch cmd {
	case "/quit", "/exit":
		if c.Engine.Dirty && !c.quitPending && arg != "!" {
			c.quitPending = true
			c.printSystem("There are unsaved changes. /save first, or /quit again to discard them.")
			return false
		}
		c.printSystem("Goodbye.")
		return true

	case "/save":
		c.cmdSave(arg)

	case "/help":
		c.cmdHelp()

	case "/state":
		c.cmdState()

	case "/trace":
		c.Trace = !c.Trace
		if c.Trace {
			c.printSystem("Trace output enabled.")
		} else {
			c.printSystem("Trace output disabled.")
		}

	default:
		c.printSystem(fmt.Sprintf("Unknown command: %s. Type /help for available commands.", cmd))
	}

	return false
}

// cmdSave persists to the origin path, or to path when given; saving
// elsewhere makes path the new origin.
func (c *CLI) cmdSave(path string) {
	if path != "" {
		c.Engine.Save.Path = path
	}
	if err := c.Engine.Persist(); err != nil {
		c.printSystem(fmt.Sprintf("Save failed: %v", err))
		return
	}
	c.printSystem(fmt.Sprintf("Saved to %s (backup in %s.bak).", c.Engine.Save.Path, c.Engine.Save.Path))
}

func (c *CLI) cmdHelp() {
	help := []string{
		"System:",
		"  /save [path]   Write the save (default: the file that was opened)",
		"  /quit          Exit (asks once if there are unsaved changes)",
		"  /help          Show this help",
		"  /state         Debug: dump session state",
		"  /trace         Toggle debug trace output",
		"",
		"Commands:",
		"  money (m) [print|set|add|remove] [n]   Show or change money",
		"  health (hp) [print|set|add|remove] [n]  Show or change health",
		"  residence (res) [list]                  List owned apartments",
		"  residence set <id> [cost]               Move to an owned apartment",
		"  sizeanalysis (size) [cutoff]            Size of each top-level key",
		"  get <key>                               Print a raw value",
		"  keys                                    List top-level keys",
		"  stats                                   Player summary",
		"  again (g)                               Repeat your last command",
	}
	c.printLines(help)
}

func (c *CLI) cmdState() {
	e := c.Engine
	c.printSystem(fmt.Sprintf("File: %s", e.Save.Path))
	c.printSystem(fmt.Sprintf("Keys: %d", e.Save.Len()))
	c.printSystem(fmt.Sprintf("Parse time: %s", e.Save.ParseTime))
	c.printSystem(fmt.Sprintf("Commands: %d", len(e.CommandLog)))
	c.printSystem(fmt.Sprintf("Unsaved changes: %v", e.Dirty))
	c.printSystem(fmt.Sprintf("Locked: %v", e.Save.Locked()))
}

func (c *CLI) printTrace(result types.Result) {
	c.printSystem(fmt.Sprintf("[trace] Changed: %v", result.Changed))
	if len(result.Touched) > 0 {
		c.printSystem(fmt.Sprintf("[trace] Touched: %s", strings.Join(result.Touched, ", ")))
	}
	if result.Err != nil {
		c.printSystem(fmt.Sprintf("[trace] Error: %v", result.Err))
	}
}

func (c *CLI) printLines(lines []string) {
	for _, line := range lines {
		c.printLine(line)
	}
}

func (c *CLI) printLine(text string) {
	fmt.Fprintln(c.Out, text)
}

func (c *CLI) print(text string) {
	fmt.Fprint(c.Out, text)
}

func (c *CLI) printSystem(text string) {
	fmt.Fprintf(c.Out, "[%s]\n", text)
}

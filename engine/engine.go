// Package engine provides the Step() orchestrator that parses a shell
// command and dispatches it to the save editing tools.
package engine

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/nathoo/saveutils/engine/cheats"
	"github.com/nathoo/saveutils/engine/parser"
	"github.com/nathoo/saveutils/engine/residence"
	"github.com/nathoo/saveutils/engine/savefile"
	"github.com/nathoo/saveutils/engine/sizeanalysis"
	"github.com/nathoo/saveutils/types"
)

// maxValueOutput caps how much of a value "get" prints.
const maxValueOutput = 2000

// Config holds the tool defaults the shell applies when a command leaves
// them out.
type Config struct {
	Locale        string
	ResidenceCost int64
	SizeCutoff    float64
	RawSizeFactor float64
}

// DefaultConfig returns the built-in tool defaults.
func DefaultConfig() Config {
	return Config{
		Locale:        "en-US",
		ResidenceCost: residence.DefaultCost,
		SizeCutoff:    sizeanalysis.DefaultCutoff,
		RawSizeFactor: 1,
	}
}

// Engine holds the open save document and the session state.
type Engine struct {
	Save       *savefile.SaveFile
	Config     Config
	CommandLog []string
	Dirty      bool // mutated since the last successful Persist
}

// New creates an engine over an open document.
func New(s *savefile.SaveFile, cfg Config) *Engine {
	return &Engine{Save: s, Config: cfg}
}

// Step processes one shell command and returns the result.
func (e *Engine) Step(input string) types.Result {
	var result types.Result

	// 1. Parse input.
	intent := parser.Parse(input)

	// 2. Log the command.
	e.CommandLog = append(e.CommandLog, input)

	// 3. Empty input.
	if intent.Verb == "" {
		result.Output = append(result.Output, "What do you want to do?")
		return result
	}

	// 4. Dispatch.
	switch intent.Verb {
	case "money", "health":
		e.stepStat(cheats.Stats[intent.Verb], intent, &result)
	case "residence":
		e.stepResidence(intent, &result)
	case "sizeanalysis":
		e.stepSizeAnalysis(intent, &result)
	case "get":
		e.stepGet(intent, &result)
	case "keys":
		e.stepKeys(&result)
	case "stats":
		result.Output = append(result.Output, e.Stats()...)
	default:
		result.Output = append(result.Output,
			fmt.Sprintf("I don't know how to %q. Type /help for available commands.", intent.Verb))
	}

	if result.Err != nil {
		zap.L().Debug("Command failed", zap.String("input", input), zap.Error(result.Err))
		result.Output = append(result.Output, "Error: "+result.Err.Error())
	}
	if result.Changed {
		e.Dirty = true
	}
	return result
}

// Persist writes the document back to its origin path.
func (e *Engine) Persist() error {
	if err := e.Save.Persist(""); err != nil {
		return err
	}
	e.Dirty = false
	return nil
}

func (e *Engine) stepStat(st cheats.Stat, intent types.Intent, result *types.Result) {
	action := intent.Object
	if action == "" {
		action = "print"
	}

	if action == "print" {
		v, err := cheats.Print(e.Save, st)
		if err != nil {
			result.Err = err
			return
		}
		result.Output = append(result.Output, fmt.Sprintf("%s: %s", st.Name, formatStat(st, v)))
		return
	}

	if intent.Target == "" {
		result.Output = append(result.Output, fmt.Sprintf("Usage: %s %s <amount>", st.Name, action))
		return
	}
	amount, err := strconv.ParseFloat(intent.Target, 64)
	if err != nil {
		result.Err = fmt.Errorf("%q is not a number", intent.Target)
		return
	}

	var v float64
	switch action {
	case "set":
		err = cheats.Set(e.Save, st, amount)
		v = amount
	case "add":
		v, err = cheats.Add(e.Save, st, amount)
	case "remove":
		v, err = cheats.Remove(e.Save, st, amount)
	default:
		result.Output = append(result.Output,
			fmt.Sprintf("Unknown %s action %q. Use print, set, add or remove.", st.Name, action))
		return
	}
	if err != nil {
		result.Err = err
		return
	}

	result.Changed = true
	result.Touched = append(result.Touched, st.Key)
	result.Output = append(result.Output, fmt.Sprintf("%s is now %s.", st.Name, formatStat(st, v)))
}

func formatStat(st cheats.Stat, v float64) string {
	if st.Integer {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (e *Engine) stepResidence(intent types.Intent, result *types.Result) {
	switch intent.Object {
	case "", "list":
		listing, err := residence.ListResidences(e.Save)
		if err != nil {
			result.Err = err
			return
		}
		result.Output = append(result.Output, fmt.Sprintf("Current residence: %d", listing.Current))
		if len(listing.Owned) == 0 {
			result.Output = append(result.Output, "Owned apartments: None")
			return
		}
		owned := make([]string, len(listing.Owned))
		for i, id := range listing.Owned {
			owned[i] = strconv.FormatInt(id, 10)
		}
		result.Output = append(result.Output, "Owned apartments: "+strings.Join(owned, ", "))

	case "set":
		id, err := strconv.ParseInt(intent.Target, 10, 64)
		if err != nil {
			result.Output = append(result.Output, "Usage: residence set <apartment id> [cost]")
			return
		}
		cost := e.Config.ResidenceCost
		if intent.Extra != "" {
			if cost, err = strconv.ParseInt(intent.Extra, 10, 64); err != nil {
				result.Err = fmt.Errorf("cost %q is not a whole number", intent.Extra)
				return
			}
		}
		rej, err := residence.ChangeResidence(e.Save, id, cost, residence.Options{SkipSave: true})
		if err != nil {
			result.Err = err
			return
		}
		if rej != nil {
			result.Output = append(result.Output, rej.Message)
			return
		}
		result.Changed = true
		result.Touched = append(result.Touched, savefile.KeyResidence, savefile.KeyMoney)
		result.Output = append(result.Output, fmt.Sprintf("Residence changed to apartment %d for %d.", id, cost))

	default:
		result.Output = append(result.Output,
			fmt.Sprintf("Unknown residence action %q. Use list or set.", intent.Object))
	}
}

func (e *Engine) stepSizeAnalysis(intent types.Intent, result *types.Result) {
	cutoff := e.Config.SizeCutoff
	if intent.Target != "" {
		c, err := strconv.ParseFloat(intent.Target, 64)
		if err != nil || c < 0 || math.IsNaN(c) {
			result.Err = fmt.Errorf("cutoff %q is not a valid percentage", intent.Target)
			return
		}
		cutoff = c
	}

	a, err := sizeanalysis.Analyze(e.Save, sizeanalysis.Options{RawSizeFactor: e.Config.RawSizeFactor})
	if err != nil {
		result.Err = err
		return
	}
	text := sizeanalysis.RenderText(a.Aggregate(cutoff), a.Total, e.Config.Locale)
	result.Output = append(result.Output, strings.Split(strings.TrimRight(text, "\n"), "\n")...)
}

func (e *Engine) stepGet(intent types.Intent, result *types.Result) {
	if intent.Object == "" {
		result.Output = append(result.Output, "Usage: get <key>")
		return
	}

	key := intent.Object
	if def, ok := savefile.LookupField(key); ok {
		key = def.Key
	}
	v, err := e.Save.Get(key)
	if err != nil {
		result.Err = err
		return
	}
	raw, err := v.MarshalJSON()
	if err != nil {
		result.Err = fmt.Errorf("%w: %w", savefile.ErrSerialize, err)
		return
	}
	text := string(raw)
	if len(text) > maxValueOutput {
		text = fmt.Sprintf("%s... (%d bytes, %d elements)", text[:maxValueOutput], len(raw), v.Len())
	}
	result.Output = append(result.Output, fmt.Sprintf("%s = %s", key, text))
}

func (e *Engine) stepKeys(result *types.Result) {
	for _, key := range e.Save.Keys() {
		v, _ := e.Save.Lookup(key)
		result.Output = append(result.Output, fmt.Sprintf("%s (%s)", key, v.Kind()))
	}
}

// Stats summarizes the player. Fields missing from the document are shown
// as "?".
func (e *Engine) Stats() []string {
	s := e.Save
	show := func(v any, err error) string {
		if err != nil {
			return "?"
		}
		return fmt.Sprint(v)
	}
	count := func(vs []types.Value, err error) string {
		if err != nil {
			return "?"
		}
		return strconv.Itoa(len(vs))
	}

	first, errFirst := s.PlayerFirstName()
	last, errLast := s.PlayerSurname()
	name := "?"
	if err := errors.Join(errFirst, errLast); err == nil {
		name = strings.TrimSpace(first + " " + last)
	}
	birthday := "?"
	if b, err := s.PlayerBirthday(); err == nil {
		birthday = fmt.Sprintf("%02d/%02d/%d", b[0], b[1], b[2])
	}
	saved := "?"
	if t, err := s.SaveTime(); err == nil {
		saved = t.Format("2006-01-02 15:04:05")
	}

	return []string{
		"Player:     " + name,
		"Born:       " + birthday,
		"Build:      " + show(s.Build()),
		"Saved:      " + saved,
		"Money:      " + show(s.Money()),
		"Health:     " + show(s.Health()),
		"Lockpicks:  " + show(s.Lockpicks()),
		"Residence:  " + show(s.Residence()),
		"Apartments: " + show(s.ApartmentsOwned()),
		"Items:      " + count(s.Items()),
		"Murders:    " + count(s.Murders()),
		"Citizens:   " + count(s.Citizens()),
	}
}

// Package cheats edits the player's numeric stats. Every function is a
// stateless operation on the document passed in; all writes go through
// SafeSet so a stat never changes type.
package cheats

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/nathoo/saveutils/engine/savefile"
	"github.com/nathoo/saveutils/types"
)

// Stat names an editable numeric field.
type Stat struct {
	Name    string
	Key     string
	Integer bool // values are stored as whole numbers
}

var (
	Money  = Stat{Name: "money", Key: savefile.KeyMoney, Integer: true}
	Health = Stat{Name: "health", Key: savefile.KeyHealth}
)

// Stats lists the editable stats by name.
var Stats = map[string]Stat{
	Money.Name:  Money,
	Health.Name: Health,
}

func (st Stat) value(amount float64) (types.Value, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return types.Null, fmt.Errorf("%s: %v is not a finite number", st.Name, amount)
	}
	if st.Integer {
		if amount != math.Trunc(amount) {
			return types.Null, fmt.Errorf("%s must be a whole number, got %v", st.Name, amount)
		}
		return types.Int(int64(amount)), nil
	}
	return types.Float(amount), nil
}

// Get returns the current value of stat.
func Get(s *savefile.SaveFile, st Stat) (float64, error) {
	return s.FloatField(st.Key)
}

// Set overwrites stat with amount.
func Set(s *savefile.SaveFile, st Stat, amount float64) error {
	v, err := st.value(amount)
	if err != nil {
		return err
	}
	if err := s.SafeSet(st.Key, v); err != nil {
		return fmt.Errorf("setting %s: %w", st.Name, err)
	}
	zap.L().Info("Set "+st.Name, zap.Float64("amount", amount))
	return nil
}

// Add increases stat by amount and returns the new value.
func Add(s *savefile.SaveFile, st Stat, amount float64) (float64, error) {
	current, err := Get(s, st)
	if err != nil {
		return 0, err
	}
	if err := Set(s, st, current+amount); err != nil {
		return 0, err
	}
	zap.L().Info("Added to "+st.Name, zap.Float64("amount", amount), zap.Float64("current", current+amount))
	return current + amount, nil
}

// Remove decreases stat by amount and returns the new value.
func Remove(s *savefile.SaveFile, st Stat, amount float64) (float64, error) {
	current, err := Get(s, st)
	if err != nil {
		return 0, err
	}
	if err := Set(s, st, current-amount); err != nil {
		return 0, err
	}
	zap.L().Info("Removed from "+st.Name, zap.Float64("amount", amount), zap.Float64("current", current-amount))
	return current - amount, nil
}

// Print logs the current value of stat and returns it.
func Print(s *savefile.SaveFile, st Stat) (float64, error) {
	current, err := Get(s, st)
	if err != nil {
		return 0, err
	}
	zap.L().Info("Current "+st.Name, zap.Float64("current", current))
	return current, nil
}

// SetMoney overwrites the player's money.
func SetMoney(s *savefile.SaveFile, amount int64) error {
	return Set(s, Money, float64(amount))
}

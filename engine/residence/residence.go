// Package residence changes the player's primary residence to another
// apartment they own, charging a City Hall fee.
package residence

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/nathoo/saveutils/engine/savefile"
	"github.com/nathoo/saveutils/types"
)

// DefaultCost is the fee City Hall charges for a change of residence.
const DefaultCost = 20

// Reason identifies why a residence change was refused.
type Reason string

const (
	ReasonNotOwned          Reason = "not owned"
	ReasonNegativeCost      Reason = "negative cost"
	ReasonAlreadyResident   Reason = "already resident"
	ReasonInsufficientFunds Reason = "insufficient funds"
)

// Rejection is a refused residence change. It is an expected outcome, not
// a fault: the document is left unchanged.
type Rejection struct {
	Reason  Reason
	Message string
}

func (r *Rejection) String() string { return r.Message }

// Options tune ChangeResidence.
type Options struct {
	SkipSave bool // do not persist the document after a successful change
}

// Listing is the player's current residence and every apartment they own.
type Listing struct {
	Current int64
	Owned   []int64
}

// ListResidences reports the current residence and owned apartments
// without modifying the document.
func ListResidences(s *savefile.SaveFile) (Listing, error) {
	release := s.Lock()
	defer release()

	zap.L().Info("Looking up player owned residences...")

	current, err := s.Residence()
	if err != nil {
		return Listing{}, err
	}
	owned, err := s.ApartmentsOwned()
	if err != nil {
		return Listing{}, err
	}

	zap.L().Info("Current residence", zap.Int64("residence", current))
	zap.L().Info("Player owned apartments", zap.String("apartments", formatOwned(owned)))
	return Listing{Current: current, Owned: owned}, nil
}

// ChangeResidence moves the player's residence to newResidence and deducts
// cost from their money. A refused change returns a non-nil *Rejection and
// a nil error; errors are reserved for unreadable fields and failed
// persistence.
func ChangeResidence(s *savefile.SaveFile, newResidence, cost int64, opts Options) (*Rejection, error) {
	release := s.Lock()
	defer release()

	zap.L().Info("Looking up player owned residences...")

	money, err := s.Money()
	if err != nil {
		return nil, err
	}
	current, err := s.Residence()
	if err != nil {
		return nil, err
	}
	owned, err := s.ApartmentsOwned()
	if err != nil {
		return nil, err
	}

	zap.L().Info("Residence change requested",
		zap.Int64("money", money),
		zap.Int64("cost", cost),
		zap.Int64("current", current),
		zap.Int64("new", newResidence),
		zap.String("owned", formatOwned(owned)))

	if rej := validate(money, current, owned, newResidence, cost); rej != nil {
		zap.L().Error(rej.Message, zap.String("reason", string(rej.Reason)))
		return rej, nil
	}

	if err := s.SafeSet(savefile.KeyResidence, types.Int(newResidence)); err != nil {
		return nil, err
	}
	zap.L().Info("Residence changed.")
	if err := s.SafeSet(savefile.KeyMoney, types.Int(money-cost)); err != nil {
		// Keep the change all-or-nothing.
		s.Set(savefile.KeyResidence, types.Int(current))
		return nil, err
	}
	zap.L().Info("Fee processed.")

	release()
	if opts.SkipSave {
		return nil, nil
	}
	if err := s.Persist(""); err != nil {
		return nil, fmt.Errorf("saving residence change: %w", err)
	}
	zap.L().Info("File saved.")
	return nil, nil
}

// validate runs the guards in order and returns the first failure.
func validate(money, current int64, owned []int64, newResidence, cost int64) *Rejection {
	if !slices.Contains(owned, newResidence) {
		return &Rejection{ReasonNotOwned,
			fmt.Sprintf("Attempting to switch residency to apartment %d NOT owned by player.", newResidence)}
	}
	if cost < 0 {
		return &Rejection{ReasonNegativeCost,
			fmt.Sprintf("Cost override is negative (%d). City Hall will not pay you to switch residencies.", cost)}
	}
	if current == newResidence {
		return &Rejection{ReasonAlreadyResident,
			fmt.Sprintf("You already live in apartment %d as your primary residency. You don't need to switch.", current)}
	}
	if cost > money {
		return &Rejection{ReasonInsufficientFunds,
			fmt.Sprintf("You don't have enough money to pay the fee. Balance: %d. Cost: %d. Run the command again with the -c switch to override the cost.", money, cost)}
	}
	return nil
}

func formatOwned(owned []int64) string {
	if len(owned) == 0 {
		return "None"
	}
	return fmt.Sprint(owned)
}

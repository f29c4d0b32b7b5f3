// Package migration moves a player's identity, stats and inventory from one
// save into another, renumbering carried interactables so that they never
// collide with the identifiers already used by the target city.
package migration

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/nathoo/saveutils/engine/cheats"
	"github.com/nathoo/saveutils/engine/savefile"
	"github.com/nathoo/saveutils/types"
)

const (
	// DefaultTravelExpenses is the New Game Plus fare.
	DefaultTravelExpenses = 20000
	// ApartmentSaleValue is the flat price each owned apartment sells for
	// when the player leaves the city.
	ApartmentSaleValue = 2000

	// idStep is added to the highest known interactable ID to allocate a
	// replacement for a colliding one.
	idStep = 10
	// noInteractable marks a carried item not backed by a world object.
	noInteractable = -1

	keyInteractableID = "interactableID"
	keyID             = "id"
)

var (
	ErrNoInteractables       = errors.New("target save has no interactables")
	ErrInteractableNotFound  = errors.New("carried item has no matching interactable")
	ErrAmbiguousInteractable = errors.New("carried item matches more than one interactable")
)

// bundleKeys are copied verbatim from source to target.
var bundleKeys = []string{
	savefile.KeyPlayerFirstName,
	savefile.KeyPlayerSurname,
	savefile.KeyPlayerGender,
	savefile.KeyPlayerSkinColour,
	savefile.KeyPlayerBirthDay,
	savefile.KeyPlayerBirthMonth,
	savefile.KeyPlayerBirthYear,
	savefile.KeyMoney,
	savefile.KeyLockpicks,
	savefile.KeySocialCredit,
	savefile.KeyHealth,
	savefile.KeyUpgrades,
	savefile.KeyBooksRead,
	savefile.KeyJobDifficulty,
}

type bundleEntry struct {
	key   string
	value types.Value
}

// MigratePlayer copies the player from source into target and persists
// target. Nothing is written to target unless every field could be read
// and type-checked, so a failed migration leaves it untouched.
func MigratePlayer(source, target *savefile.SaveFile) error {
	release := source.Lock()
	defer release()

	zap.L().Info("Migrating player...")

	// 1. Stage the character fields.
	bundle := make([]bundleEntry, 0, len(bundleKeys)+2)
	for _, key := range bundleKeys {
		v, err := source.Get(key)
		if err != nil {
			return fmt.Errorf("reading source: %w", err)
		}
		bundle = append(bundle, bundleEntry{key: key, value: v.Clone()})
	}

	// 2. Stage the inventory and the interactables backing it.
	items, interactables, err := remapInventory(source, target)
	if err != nil {
		return err
	}
	bundle = append(bundle,
		bundleEntry{key: savefile.KeyItems, value: items},
		bundleEntry{key: savefile.KeyInteractables, value: interactables},
	)

	// 3. Check every write before applying any of them.
	for _, e := range bundle {
		if err := target.CheckSafeSet(e.key, e.value); err != nil {
			return fmt.Errorf("migrating %s: %w", e.key, err)
		}
	}
	for _, e := range bundle {
		if err := target.SafeSet(e.key, e.value); err != nil {
			return fmt.Errorf("migrating %s: %w", e.key, err)
		}
	}

	// 4. Save the target.
	if err := target.Persist(""); err != nil {
		return fmt.Errorf("saving target: %w", err)
	}

	zap.L().Info("Migration complete!", zap.Int("items", len(items.Items())))
	return nil
}

// remapInventory returns the source's carried items and the target's
// interactables merged with the ones those items reference. Referenced
// interactables whose ID is already taken get a fresh ID above the highest
// one seen so far, and the item pointing at them is updated to match.
func remapInventory(source, target *savefile.SaveFile) (items, interactables types.Value, err error) {
	existing, err := target.Interactables()
	if err != nil {
		return types.Null, types.Null, fmt.Errorf("reading target: %w", err)
	}
	if len(existing) == 0 {
		return types.Null, types.Null, ErrNoInteractables
	}

	used := make(map[int64]bool, len(existing))
	var maxID int64
	for i, rec := range existing {
		id, err := intProp(rec, keyID)
		if err != nil {
			return types.Null, types.Null, fmt.Errorf("target interactable %d: %w", i, err)
		}
		used[id] = true
		if i == 0 || id > maxID {
			maxID = id
		}
	}

	carried, err := source.Items()
	if err != nil {
		return types.Null, types.Null, fmt.Errorf("reading source: %w", err)
	}
	items = types.Array(carried...).Clone()

	var index map[int64][]types.Value
	var migrated []types.Value
	for i, item := range items.Items() {
		ref, err := intProp(item, keyInteractableID)
		if err != nil {
			return types.Null, types.Null, fmt.Errorf("carried item %d: %w", i, err)
		}
		if ref == noInteractable {
			continue
		}

		if index == nil {
			if index, err = indexInteractables(source); err != nil {
				return types.Null, types.Null, err
			}
		}
		matches := index[ref]
		switch {
		case len(matches) == 0:
			return types.Null, types.Null, fmt.Errorf("%w: interactableID %d", ErrInteractableNotFound, ref)
		case len(matches) > 1:
			return types.Null, types.Null, fmt.Errorf("%w: interactableID %d", ErrAmbiguousInteractable, ref)
		}
		rec := matches[0].Clone()

		id := ref
		if used[id] {
			id = maxID + idStep
			for used[id] {
				id += idStep
			}
			item.Object().Set(keyInteractableID, types.Int(id))
			rec.Object().Set(keyID, types.Int(id))
			zap.L().Debug("Renumbered colliding interactable", zap.Int64("from", ref), zap.Int64("to", id))
		}
		if id > maxID {
			maxID = id
		}
		used[id] = true
		migrated = append(migrated, rec)
	}

	merged := make([]types.Value, 0, len(existing)+len(migrated))
	merged = append(merged, existing...)
	merged = append(merged, migrated...)
	return items, types.Array(merged...), nil
}

func indexInteractables(s *savefile.SaveFile) (map[int64][]types.Value, error) {
	recs, err := s.Interactables()
	if err != nil {
		return nil, fmt.Errorf("reading source: %w", err)
	}
	index := make(map[int64][]types.Value, len(recs))
	for i, rec := range recs {
		id, err := intProp(rec, keyID)
		if err != nil {
			return nil, fmt.Errorf("source interactable %d: %w", i, err)
		}
		index[id] = append(index[id], rec)
	}
	return index, nil
}

func intProp(v types.Value, key string) (int64, error) {
	obj := v.Object()
	if obj == nil {
		return 0, fmt.Errorf("%w: expected object, got %s", savefile.ErrFormat, v.Kind())
	}
	prop, ok := obj.Get(key)
	if !ok {
		return 0, fmt.Errorf("%w: %q", savefile.ErrKey, key)
	}
	n, ok := prop.Int64()
	if !ok {
		return 0, fmt.Errorf("%w: %q is %s, not an integer", savefile.ErrFormat, key, prop.Kind())
	}
	return n, nil
}

// MigrateAsNewGamePlus migrates the player only if they can pay
// travelExpenses out of their money plus the sale of every apartment they
// own. The target receives the money left after the fare; the source's
// money is restored afterwards. It reports whether a migration happened.
func MigrateAsNewGamePlus(source, target *savefile.SaveFile, travelExpenses int64) (bool, error) {
	zap.L().Info("Migrating to new game plus...")

	money, err := source.Money()
	if err != nil {
		return false, err
	}
	apartments, err := source.ApartmentsOwned()
	if err != nil {
		return false, err
	}

	totalWorth := money + int64(len(apartments))*ApartmentSaleValue
	if totalWorth < travelExpenses {
		zap.L().Info("Player cannot afford travel expenses",
			zap.Int64("required", travelExpenses),
			zap.Int64("available", totalWorth))
		return false, nil
	}

	newMoney := totalWorth - travelExpenses
	zap.L().Info("Player can afford travel expenses",
		zap.Int64("required", travelExpenses),
		zap.Int64("available", totalWorth),
		zap.Int64("new_money", newMoney))

	if err := cheats.SetMoney(source, newMoney); err != nil {
		return false, err
	}
	migrateErr := MigratePlayer(source, target)
	if err := cheats.SetMoney(source, money); err != nil {
		return false, errors.Join(migrateErr, fmt.Errorf("restoring source money: %w", err))
	}
	if migrateErr != nil {
		return false, migrateErr
	}
	return true, nil
}

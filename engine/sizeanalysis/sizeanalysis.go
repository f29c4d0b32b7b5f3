// Package sizeanalysis reports how much of a save file each top-level key
// accounts for.
package sizeanalysis

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"go.uber.org/zap"

	"github.com/nathoo/saveutils/engine/savefile"
)

const (
	// SignificantFigures is the precision sizes are truncated to.
	SignificantFigures = 3
	// RemainderKey labels the bucket that entries under the cutoff fold into.
	RemainderKey = "(other)"
	// DefaultCutoff is the percentage under which entries are aggregated.
	DefaultCutoff = 1.0
)

// Options tune Analyze.
type Options struct {
	// RawSizeFactor divides every encoded length. Zero means 1.
	RawSizeFactor float64
}

// Entry is the share of one top-level key.
type Entry struct {
	Key        string
	Size       int64
	Percentage float64
}

// Analysis holds one entry per top-level key, in document order.
type Analysis struct {
	Entries []Entry
	Total   int64
}

// Analyze measures the encoded size of every top-level value.
func Analyze(s *savefile.SaveFile, opts Options) (Analysis, error) {
	factor := opts.RawSizeFactor
	if factor == 0 {
		factor = 1
	}
	if factor < 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return Analysis{}, fmt.Errorf("invalid raw size factor %v", opts.RawSizeFactor)
	}

	zap.L().Info("Analysing save file size...")

	root := s.Root()
	a := Analysis{Entries: make([]Entry, 0, root.Len())}
	for _, key := range root.Keys() {
		v, _ := root.Get(key)
		raw, err := v.MarshalJSON()
		if err != nil {
			return Analysis{}, fmt.Errorf("%w: %q: %w", savefile.ErrSerialize, key, err)
		}
		size := TrimToSignificantFigures(int64(float64(len(raw))/factor), SignificantFigures)
		a.Entries = append(a.Entries, Entry{Key: key, Size: size})
		a.Total += size
	}
	for i := range a.Entries {
		a.Entries[i].Percentage = percentage(a.Entries[i].Size, a.Total)
	}

	zap.L().Info("Total save file size", zap.Int64("bytes", a.Total))
	return a, nil
}

func percentage(size, total int64) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(size) / float64(total)
}

// TrimToSignificantFigures truncates size toward zero so that at most
// figures leading digits remain.
func TrimToSignificantFigures(size int64, figures int) int64 {
	if size == 0 || figures <= 0 {
		return size
	}
	n := size
	if n < 0 {
		n = -n
	}
	digits := 0
	for m := n; m > 0; m /= 10 {
		digits++
	}
	if digits <= figures {
		return size
	}
	pow := int64(1)
	for i := 0; i < digits-figures; i++ {
		pow *= 10
	}
	return size / pow * pow
}

// Sorted returns the entries by descending size, ties broken by key.
func (a Analysis) Sorted() []Entry {
	out := slices.Clone(a.Entries)
	slices.SortStableFunc(out, func(x, y Entry) int {
		if c := cmp.Compare(y.Size, x.Size); c != 0 {
			return c
		}
		return cmp.Compare(x.Key, y.Key)
	})
	return out
}

// Aggregate returns the sorted entries with every entry below cutoff
// percent folded into a single RemainderKey entry at the end.
func (a Analysis) Aggregate(cutoff float64) []Entry {
	sorted := a.Sorted()
	out := make([]Entry, 0, len(sorted))
	rest := Entry{Key: RemainderKey}
	folded := 0
	for _, e := range sorted {
		if e.Percentage < cutoff {
			rest.Size += e.Size
			rest.Percentage += e.Percentage
			folded++
			continue
		}
		out = append(out, e)
	}
	if folded > 0 {
		out = append(out, rest)
	}
	return out
}

package sizeanalysis

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/saveutils/engine/savefile"
)

func TestTrimToSignificantFigures(t *testing.T) {
	tests := []struct {
		size    int64
		figures int
		want    int64
	}{
		{123456, 3, 123000},
		{42, 3, 42},
		{999, 3, 999},
		{1000, 3, 1000},
		{1999, 3, 1990},
		{100000, 3, 100000},
		{0, 3, 0},
		{-98765, 2, -98000},
		{123, 0, 123},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TrimToSignificantFigures(tt.size, tt.figures), "trim(%d, %d)", tt.size, tt.figures)
	}
}

func load(t *testing.T, text string) *savefile.SaveFile {
	t.Helper()
	s, err := savefile.FromString(text)
	require.NoError(t, err)
	return s
}

func TestAnalyze(t *testing.T) {
	// Encoded lengths: "a" -> 1, "bb" -> "\"xx\"" 4, "c" -> [1,2,3] 7.
	s := load(t, `{"a":1,"bb":"xx","c":[1,2,3]}`)

	a, err := Analyze(s, Options{})
	require.NoError(t, err)
	require.Len(t, a.Entries, 3)
	assert.Equal(t, int64(12), a.Total)

	assert.Equal(t, "a", a.Entries[0].Key)
	assert.Equal(t, int64(1), a.Entries[0].Size)
	assert.Equal(t, int64(4), a.Entries[1].Size)
	assert.Equal(t, int64(7), a.Entries[2].Size)

	var sum float64
	for _, e := range a.Entries {
		sum += e.Percentage
	}
	assert.InDelta(t, 100, sum, 1e-9)
	assert.InDelta(t, 100*7/12.0, a.Entries[2].Percentage, 1e-9)
}

func TestAnalyze_RawSizeFactor(t *testing.T) {
	s := load(t, `{"s":"0123456789"}`) // 12 bytes encoded

	a, err := Analyze(s, Options{RawSizeFactor: 4})
	require.NoError(t, err)
	assert.Equal(t, int64(3), a.Entries[0].Size)

	_, err = Analyze(s, Options{RawSizeFactor: -1})
	assert.Error(t, err)
}

func TestAnalyze_EmptyDocument(t *testing.T) {
	a, err := Analyze(load(t, `{}`), Options{})
	require.NoError(t, err)
	assert.Empty(t, a.Entries)
	assert.Zero(t, a.Total)
}

func TestAnalyze_DoesNotModify(t *testing.T) {
	const text = `{"b":[1,2],"a":{"x":null}}`
	s := load(t, text)

	_, err := Analyze(s, Options{})
	require.NoError(t, err)

	out, err := s.Serialize()
	require.NoError(t, err)
	assert.Equal(t, text, string(out))
}

func TestSortedAndAggregate(t *testing.T) {
	a := Analysis{Entries: []Entry{
		{"small", 1, 0.5},
		{"big", 150, 75},
		{"mid", 48, 24},
		{"tiny", 1, 0.5},
	}, Total: 200}

	sorted := a.Sorted()
	keys := make([]string, len(sorted))
	for i, e := range sorted {
		keys[i] = e.Key
	}
	assert.Equal(t, []string{"big", "mid", "small", "tiny"}, keys)

	agg := a.Aggregate(1)
	require.Len(t, agg, 3)
	assert.Equal(t, RemainderKey, agg[2].Key)
	assert.Equal(t, int64(2), agg[2].Size)
	assert.InDelta(t, 1.0, agg[2].Percentage, 1e-9)

	assert.Len(t, a.Aggregate(0), 4, "nothing folds under a zero cutoff")
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	rows := []Entry{{"<script>", 1200, 60}, {"money", 800, 40}}
	require.NoError(t, WriteHTML(&buf, rows))

	out := buf.String()
	assert.Contains(t, out, "<td>money</td><td>800</td><td>40.00%</td>")
	assert.Contains(t, out, "&lt;script&gt;")
	assert.NotContains(t, out, "<td><script>")
}

func TestRenderText(t *testing.T) {
	rows := []Entry{{"citizens", 1234000, 98.5}, {"money", 12, 1.5}}

	en := RenderText(rows, 1234012, "en-US")
	assert.Contains(t, en, "Total save file size: 1,234,012 bytes")
	assert.Contains(t, en, "1,234,000")
	assert.Contains(t, en, "98.50%")
	assert.Contains(t, en, "citizens")

	de := RenderText(rows, 1234012, "de-DE")
	assert.Contains(t, de, "1.234.000")

	fallback := RenderText(rows, 1234012, "not a locale!")
	assert.Contains(t, fallback, "1,234,000")
}

func TestWriteReport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteReport(&buf, []Entry{{"money", 12, 50}, {"health", 12, 50}}, 24))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{
		"Total save file size: 24 bytes",
		"money: 12 bytes (50.00%)",
		"health: 12 bytes (50.00%)",
	}, lines)
}

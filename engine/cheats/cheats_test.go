package cheats

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/saveutils/engine/savefile"
)

func newSave(t *testing.T) *savefile.SaveFile {
	t.Helper()
	s, err := savefile.FromString(`{"money":1000,"health":0.5,"name":"x"}`)
	require.NoError(t, err)
	return s
}

func TestMoney(t *testing.T) {
	s := newSave(t)

	require.NoError(t, Set(s, Money, 250))
	money, _ := s.Money()
	assert.Equal(t, int64(250), money)

	got, err := Add(s, Money, 100)
	require.NoError(t, err)
	assert.Equal(t, float64(350), got)

	got, err = Remove(s, Money, 400)
	require.NoError(t, err)
	assert.Equal(t, float64(-50), got)

	money, _ = s.Money()
	assert.Equal(t, int64(-50), money)

	printed, err := Print(s, Money)
	require.NoError(t, err)
	assert.Equal(t, float64(-50), printed)
}

func TestMoney_RejectsFractions(t *testing.T) {
	s := newSave(t)
	assert.Error(t, Set(s, Money, 1.5))

	money, _ := s.Money()
	assert.Equal(t, int64(1000), money)
}

func TestHealth(t *testing.T) {
	s := newSave(t)

	got, err := Add(s, Health, 0.25)
	require.NoError(t, err)
	assert.InDelta(t, 0.75, got, 1e-9)

	got, err = Remove(s, Health, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.25, got, 1e-9)
}

func TestSetMoney(t *testing.T) {
	s := newSave(t)
	require.NoError(t, SetMoney(s, 20000))
	money, _ := s.Money()
	assert.Equal(t, int64(20000), money)
}

func TestMissingStat(t *testing.T) {
	s, err := savefile.FromString(`{}`)
	require.NoError(t, err)

	_, err = Add(s, Money, 10)
	assert.True(t, errors.Is(err, savefile.ErrKey))
}

func TestWrongTypeStat(t *testing.T) {
	s, err := savefile.FromString(`{"money":"plenty"}`)
	require.NoError(t, err)

	err = Set(s, Money, 10)
	assert.True(t, errors.Is(err, savefile.ErrTypeMismatch))
}

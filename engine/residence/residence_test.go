package residence

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nathoo/saveutils/engine/savefile"
	"github.com/nathoo/saveutils/types"
)

const (
	defaultMoney       = 1000
	costExcessive      = defaultMoney + 1000
	costNegative       = -500
	costFree           = 0
	costCustom         = 50
	originalApartment  = 500
	nonplayerApartment = 444
	newApartment       = 600
)

func newSave(t *testing.T) *savefile.SaveFile {
	t.Helper()
	s, err := savefile.FromString(`{"residence":0,"apartmentsOwned":[],"money":0}`)
	require.NoError(t, err)
	s.Set("residence", types.Int(originalApartment))
	s.Set("apartmentsOwned", types.Ints(500, 600, 700, 800))
	s.Set("money", types.Int(defaultMoney))
	return s
}

func assertUnchanged(t *testing.T, s *savefile.SaveFile) {
	t.Helper()
	res, _ := s.Residence()
	assert.Equal(t, int64(originalApartment), res)
	money, _ := s.Money()
	assert.Equal(t, int64(defaultMoney), money)
}

func TestDefaults(t *testing.T) {
	assert.Less(t, DefaultCost, defaultMoney)
	assert.Greater(t, costExcessive, defaultMoney)
}

func TestChangeResidence_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		apartment int64
		cost      int64
		want      Reason
	}{
		{"cost excessive", newApartment, costExcessive, ReasonInsufficientFunds},
		{"cost negative", newApartment, costNegative, ReasonNegativeCost},
		{"non-player apartment", nonplayerApartment, DefaultCost, ReasonNotOwned},
		{"already resident", originalApartment, DefaultCost, ReasonAlreadyResident},
		{"already resident even when free", originalApartment, costFree, ReasonAlreadyResident},
		{"not owned checked before cost", nonplayerApartment, costNegative, ReasonNotOwned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSave(t)

			rej, err := ChangeResidence(s, tt.apartment, tt.cost, Options{SkipSave: true})
			require.NoError(t, err)
			require.NotNil(t, rej)
			assert.Equal(t, tt.want, rej.Reason)
			assert.NotEmpty(t, rej.Message)
			assertUnchanged(t, s)
			assert.False(t, s.Locked())
		})
	}
}

func TestChangeResidence_InsufficientFunds(t *testing.T) {
	s, err := savefile.FromString(`{"residence":500,"apartmentsOwned":[500,600],"money":1000}`)
	require.NoError(t, err)

	rej, err := ChangeResidence(s, 600, 2000, Options{SkipSave: true})
	require.NoError(t, err)
	require.NotNil(t, rej)
	assert.Equal(t, ReasonInsufficientFunds, rej.Reason)
	assertUnchanged(t, s)
}

func TestChangeResidence_Success(t *testing.T) {
	tests := []struct {
		name      string
		cost      int64
		wantMoney int64
	}{
		{"default fee", DefaultCost, defaultMoney - DefaultCost},
		{"waived fee", costFree, defaultMoney},
		{"custom fee", costCustom, defaultMoney - costCustom},
		{"all money", defaultMoney, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSave(t)

			rej, err := ChangeResidence(s, newApartment, tt.cost, Options{SkipSave: true})
			require.NoError(t, err)
			assert.Nil(t, rej)

			res, _ := s.Residence()
			assert.Equal(t, int64(newApartment), res)
			money, _ := s.Money()
			assert.Equal(t, tt.wantMoney, money)
			assert.False(t, s.Locked())
		})
	}
}

func TestChangeResidence_Persists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.sod")
	original := `{"residence":500,"apartmentsOwned":[500,600],"money":1000}`
	require.NoError(t, os.WriteFile(path, []byte(original), 0o644))
	s, err := savefile.Load(path)
	require.NoError(t, err)

	rej, err := ChangeResidence(s, 600, DefaultCost, Options{})
	require.NoError(t, err)
	require.Nil(t, rej)

	reloaded, err := savefile.Load(path)
	require.NoError(t, err)
	res, _ := reloaded.Residence()
	assert.Equal(t, int64(600), res)
	money, _ := reloaded.Money()
	assert.Equal(t, int64(980), money)

	backup, err := os.ReadFile(path + savefile.BackupSuffix)
	require.NoError(t, err)
	assert.Equal(t, original, string(backup))
}

func TestChangeResidence_RejectionDoesNotPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "save.sod")
	require.NoError(t, os.WriteFile(path, []byte(`{"residence":500,"apartmentsOwned":[500,600],"money":1000}`), 0o644))
	s, err := savefile.Load(path)
	require.NoError(t, err)

	rej, err := ChangeResidence(s, 500, DefaultCost, Options{})
	require.NoError(t, err)
	require.NotNil(t, rej)

	_, statErr := os.Stat(path + savefile.BackupSuffix)
	assert.True(t, os.IsNotExist(statErr))
}

func TestChangeResidence_MissingField(t *testing.T) {
	s, err := savefile.FromString(`{"residence":500,"money":1000}`)
	require.NoError(t, err)

	rej, err := ChangeResidence(s, 600, DefaultCost, Options{SkipSave: true})
	assert.Nil(t, rej)
	assert.ErrorIs(t, err, savefile.ErrKey)
	assert.False(t, s.Locked())
}

func TestListResidences(t *testing.T) {
	s := newSave(t)

	listing, err := ListResidences(s)
	require.NoError(t, err)
	assert.Equal(t, int64(originalApartment), listing.Current)
	assert.Equal(t, []int64{500, 600, 700, 800}, listing.Owned)
	assertUnchanged(t, s)
	assert.False(t, s.Locked())
}

func TestFormatOwned(t *testing.T) {
	assert.Equal(t, "None", formatOwned(nil))
	assert.Equal(t, "[500 600]", formatOwned([]int64{500, 600}))
}

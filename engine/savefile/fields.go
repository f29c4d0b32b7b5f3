package savefile

import (
	"fmt"
	"time"

	"github.com/nathoo/saveutils/types"
)

// Document keys of the well-known fields.
const (
	KeyBuild            = "build"
	KeyCityShare        = "cityShare"
	KeySaveTime         = "saveTime"
	KeyPlayerFirstName  = "playerFirstName"
	KeyPlayerSurname    = "playerSurname"
	KeyPlayerGender     = "playerGender"
	KeyPlayerSkinColour = "playerSkinColour"
	KeyPlayerBirthDay   = "playerBirthDay"
	KeyPlayerBirthMonth = "playerBirthMonth"
	KeyPlayerBirthYear  = "playerBirthYear"
	KeyCrouched         = "crouched"
	KeyMoney            = "money"
	KeyLockpicks        = "lockpicks"
	KeySocialCredit     = "socCredit"
	KeyHealth           = "health"
	KeyUpgrades         = "upgrades"
	KeyBooksRead        = "booksRead"
	KeyResidence        = "residence"
	KeyApartmentsOwned  = "apartmentsOwned"
	KeyActiveCases      = "activeCases"
	KeyMurders          = "murders"
	KeyCitizens         = "citizens"
	KeyItems            = "firstPersonItems"
	KeyInteractables    = "interactables"
	KeyJobDifficulty    = "jobDiffLevel"
)

// SaveTimeLayout is the Go layout of the save timestamp,
// YYYY-DD-MM-HH-mm-ss.ffffff (day before month).
const SaveTimeLayout = "2006-02-01-15-04-05.000000"

// FieldDef describes one typed field of the save document.
type FieldDef struct {
	Name        string
	Key         string
	Kind        types.Kind
	Description string
}

// Fields is the catalog of well-known fields.
var Fields = []FieldDef{
	{"Build", KeyBuild, types.KindString, "game build the save was written by"},
	{"CityShare", KeyCityShare, types.KindString, "city share code"},
	{"SaveTime", KeySaveTime, types.KindString, "save timestamp"},
	{"PlayerFirstName", KeyPlayerFirstName, types.KindString, "player first name"},
	{"PlayerSurname", KeyPlayerSurname, types.KindString, "player surname"},
	{"PlayerGender", KeyPlayerGender, types.KindNumber, "player gender"},
	{"PlayerSkinColour", KeyPlayerSkinColour, types.KindObject, "player skin colour"},
	{"PlayerBirthDay", KeyPlayerBirthDay, types.KindNumber, "player birth day"},
	{"PlayerBirthMonth", KeyPlayerBirthMonth, types.KindNumber, "player birth month"},
	{"PlayerBirthYear", KeyPlayerBirthYear, types.KindNumber, "player birth year"},
	{"Crouched", KeyCrouched, types.KindBool, "whether the player is crouched"},
	{"Money", KeyMoney, types.KindNumber, "money"},
	{"Lockpicks", KeyLockpicks, types.KindNumber, "lockpick count"},
	{"SocialCredit", KeySocialCredit, types.KindNumber, "social credit"},
	{"Health", KeyHealth, types.KindNumber, "health"},
	{"Upgrades", KeyUpgrades, types.KindArray, "sync-disk upgrades"},
	{"BooksRead", KeyBooksRead, types.KindArray, "books read"},
	{"Residence", KeyResidence, types.KindNumber, "primary residence address id"},
	{"ApartmentsOwned", KeyApartmentsOwned, types.KindArray, "owned apartment ids"},
	{"ActiveCases", KeyActiveCases, types.KindArray, "active cases"},
	{"Murders", KeyMurders, types.KindArray, "murders"},
	{"Citizens", KeyCitizens, types.KindArray, "citizens"},
	{"Items", KeyItems, types.KindArray, "first person inventory"},
	{"Interactables", KeyInteractables, types.KindArray, "world interactables"},
	{"JobDifficulty", KeyJobDifficulty, types.KindNumber, "job difficulty level"},
}

// LookupField returns the catalog entry with the given name or key.
func LookupField(nameOrKey string) (FieldDef, bool) {
	for _, f := range Fields {
		if f.Name == nameOrKey || f.Key == nameOrKey {
			return f, true
		}
	}
	return FieldDef{}, false
}

func (s *SaveFile) typed(key string, want types.Kind) (types.Value, error) {
	v, err := s.Get(key)
	if err != nil {
		return types.Null, err
	}
	if v.Kind() != want {
		return types.Null, &TypeMismatchError{Key: key, Existing: v.Kind(), Incoming: want}
	}
	return v, nil
}

// StringField returns the string stored under key.
func (s *SaveFile) StringField(key string) (string, error) {
	v, err := s.typed(key, types.KindString)
	if err != nil {
		return "", err
	}
	str, _ := v.AsString()
	return str, nil
}

// IntField returns the integer stored under key.
func (s *SaveFile) IntField(key string) (int64, error) {
	v, err := s.typed(key, types.KindNumber)
	if err != nil {
		return 0, err
	}
	n, ok := v.Int64()
	if !ok {
		return 0, fmt.Errorf("%w: %q is %s, not an integer", ErrFormat, key, v.Literal())
	}
	return n, nil
}

// FloatField returns the number stored under key.
func (s *SaveFile) FloatField(key string) (float64, error) {
	v, err := s.typed(key, types.KindNumber)
	if err != nil {
		return 0, err
	}
	f, ok := v.Float64()
	if !ok {
		return 0, fmt.Errorf("%w: %q is %s, not a number", ErrFormat, key, v.Literal())
	}
	return f, nil
}

// BoolField returns the boolean stored under key.
func (s *SaveFile) BoolField(key string) (bool, error) {
	v, err := s.typed(key, types.KindBool)
	if err != nil {
		return false, err
	}
	b, _ := v.AsBool()
	return b, nil
}

// ListField returns the elements of the array stored under key. The
// elements are shared with the document.
func (s *SaveFile) ListField(key string) ([]types.Value, error) {
	v, err := s.typed(key, types.KindArray)
	if err != nil {
		return nil, err
	}
	return v.Items(), nil
}

// IntListField returns the array stored under key as integers.
func (s *SaveFile) IntListField(key string) ([]int64, error) {
	items, err := s.ListField(key)
	if err != nil {
		return nil, err
	}
	out := make([]int64, 0, len(items))
	for i, item := range items {
		n, ok := item.Int64()
		if !ok {
			return nil, fmt.Errorf("%w: %s[%d] is %s, not an integer", ErrFormat, key, i, item.Kind())
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *SaveFile) Build() (string, error)     { return s.StringField(KeyBuild) }
func (s *SaveFile) CityShare() (string, error) { return s.StringField(KeyCityShare) }

// Seed returns the city generation seed, which is the city share code.
func (s *SaveFile) Seed() (string, error) { return s.CityShare() }

// SaveTime parses the save timestamp.
func (s *SaveFile) SaveTime() (time.Time, error) {
	raw, err := s.StringField(KeySaveTime)
	if err != nil {
		return time.Time{}, err
	}
	return ParseSaveTime(raw)
}

// ParseSaveTime parses a YYYY-DD-MM-HH-mm-ss.ffffff timestamp.
func ParseSaveTime(raw string) (time.Time, error) {
	t, err := time.Parse(SaveTimeLayout, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: save time %q: %w", ErrFormat, raw, err)
	}
	return t, nil
}

func (s *SaveFile) PlayerFirstName() (string, error) { return s.StringField(KeyPlayerFirstName) }
func (s *SaveFile) PlayerSurname() (string, error)   { return s.StringField(KeyPlayerSurname) }
func (s *SaveFile) PlayerGender() (int64, error)     { return s.IntField(KeyPlayerGender) }

// PlayerBirthday returns day, month and year of birth.
func (s *SaveFile) PlayerBirthday() ([3]int64, error) {
	var out [3]int64
	for i, key := range []string{KeyPlayerBirthDay, KeyPlayerBirthMonth, KeyPlayerBirthYear} {
		n, err := s.IntField(key)
		if err != nil {
			return out, err
		}
		out[i] = n
	}
	return out, nil
}

func (s *SaveFile) Crouched() (bool, error)       { return s.BoolField(KeyCrouched) }
func (s *SaveFile) Money() (int64, error)         { return s.IntField(KeyMoney) }
func (s *SaveFile) Lockpicks() (int64, error)     { return s.IntField(KeyLockpicks) }
func (s *SaveFile) SocialCredit() (int64, error)  { return s.IntField(KeySocialCredit) }
func (s *SaveFile) Health() (float64, error)      { return s.FloatField(KeyHealth) }
func (s *SaveFile) Residence() (int64, error)     { return s.IntField(KeyResidence) }
func (s *SaveFile) JobDifficulty() (int64, error) { return s.IntField(KeyJobDifficulty) }

func (s *SaveFile) ApartmentsOwned() ([]int64, error) { return s.IntListField(KeyApartmentsOwned) }

func (s *SaveFile) Upgrades() ([]types.Value, error)      { return s.ListField(KeyUpgrades) }
func (s *SaveFile) BooksRead() ([]types.Value, error)     { return s.ListField(KeyBooksRead) }
func (s *SaveFile) ActiveCases() ([]types.Value, error)   { return s.ListField(KeyActiveCases) }
func (s *SaveFile) Murders() ([]types.Value, error)       { return s.ListField(KeyMurders) }
func (s *SaveFile) Citizens() ([]types.Value, error)      { return s.ListField(KeyCitizens) }
func (s *SaveFile) Items() ([]types.Value, error)         { return s.ListField(KeyItems) }
func (s *SaveFile) Interactables() ([]types.Value, error) { return s.ListField(KeyInteractables) }

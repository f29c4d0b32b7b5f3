package savefile

import (
	"errors"
	"fmt"

	"github.com/nathoo/saveutils/types"
)

// Error kinds. Callers test for them with errors.Is.
var (
	ErrNotFound     = errors.New("save file not found")
	ErrParse        = errors.New("save file is not valid JSON")
	ErrSerialize    = errors.New("save document cannot be serialized")
	ErrIO           = errors.New("save file I/O failed")
	ErrKey          = errors.New("key not found")
	ErrTypeMismatch = errors.New("type mismatch")
	ErrFormat       = errors.New("malformed field value")
	ErrLocked       = errors.New("save document is locked")
)

// TypeMismatchError is returned by SafeSet when the incoming value's kind
// differs from the kind already stored under Key.
type TypeMismatchError struct {
	Key      string
	Existing types.Kind
	Incoming types.Kind
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch for %q: existing %s, incoming %s", e.Key, e.Existing, e.Incoming)
}

func (e *TypeMismatchError) Unwrap() error { return ErrTypeMismatch }

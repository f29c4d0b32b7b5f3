// Package savefile owns a parsed save document: loading and parsing,
// generic and type-guarded access by key, persistence with a backup copy,
// and the typed accessors for well-known fields.
package savefile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/nathoo/saveutils/types"
)

// BackupSuffix is appended to a save path to name its backup copy.
const BackupSuffix = ".bak"

// SaveFile is an in-memory save document. It is not safe for concurrent
// use; at most one mutation may be in flight per document.
type SaveFile struct {
	Path      string        // origin path, empty for documents built from text
	ParseTime time.Duration // time spent parsing the document

	root   *types.Object
	locked bool
}

// Load reads and parses the save file at path.
func Load(path string) (*SaveFile, error) {
	zap.L().Debug("Parsing save file", zap.String("path", path))

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("%w: reading %s: %w", ErrIO, path, err)
	}

	s, err := parse(data)
	if err != nil {
		zap.L().Error("Failed to parse save file", zap.String("path", path), zap.Error(err))
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	s.Path = path
	return s, nil
}

// FromFile is an alias of Load.
func FromFile(path string) (*SaveFile, error) { return Load(path) }

// FromString parses a save document from text without touching the
// filesystem.
func FromString(text string) (*SaveFile, error) {
	return parse([]byte(text))
}

func parse(data []byte) (*SaveFile, error) {
	start := time.Now()
	v, err := types.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	if v.Kind() != types.KindObject {
		return nil, fmt.Errorf("%w: top-level value is %s, not an object", ErrParse, v.Kind())
	}
	s := &SaveFile{root: v.Object(), ParseTime: time.Since(start)}
	zap.L().Debug("Parsed save document", zap.Duration("parse_time", s.ParseTime), zap.Int("keys", s.root.Len()))
	return s, nil
}

// Serialize renders the document back to compact JSON in its original key
// order.
func (s *SaveFile) Serialize() ([]byte, error) {
	data, err := types.FromObject(s.root).MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
	}
	return data, nil
}

// Persist writes the document to path, or to the origin path when path is
// empty. An existing file at the target is first copied byte for byte to
// target+BackupSuffix; if that copy fails nothing is written.
func (s *SaveFile) Persist(path string) error {
	if s.locked {
		return ErrLocked
	}
	if path == "" {
		path = s.Path
	}
	if path == "" {
		return fmt.Errorf("%w: document has no origin path", ErrIO)
	}

	data, err := s.Serialize()
	if err != nil {
		return err
	}

	perm, err := backup(path)
	if err != nil {
		return err
	}
	if err := writeAtomic(path, data, perm); err != nil {
		return err
	}

	zap.L().Info("Saved file", zap.String("path", path), zap.Int("bytes", len(data)))
	return nil
}

// backup copies the current content of path to path+BackupSuffix and
// returns the permissions the replacement should carry.
func backup(path string) (fs.FileMode, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0o644, nil
	}
	if err != nil {
		return 0, fmt.Errorf("%w: stat %s: %w", ErrIO, path, err)
	}

	original, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("%w: reading %s for backup: %w", ErrIO, path, err)
	}
	backupPath := path + BackupSuffix
	if err := os.WriteFile(backupPath, original, info.Mode().Perm()); err != nil {
		return 0, fmt.Errorf("%w: writing backup %s: %w", ErrIO, backupPath, err)
	}

	zap.L().Debug("Created backup", zap.String("path", backupPath))
	return info.Mode().Perm(), nil
}

// writeAtomic writes data to a temp file next to path and renames it into
// place, so a failed write never leaves a truncated save behind.
func writeAtomic(path string, data []byte, perm fs.FileMode) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	tmp, err := os.CreateTemp(dir, base+".tmp-*")
	if err != nil {
		return fmt.Errorf("%w: creating temp file: %w", ErrIO, err)
	}
	tmpName := tmp.Name()
	cleanup := func() { os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return fmt.Errorf("%w: writing %s: %w", ErrIO, tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return fmt.Errorf("%w: closing %s: %w", ErrIO, tmpName, err)
	}
	if err := os.Chmod(tmpName, perm); err != nil {
		cleanup()
		return fmt.Errorf("%w: chmod %s: %w", ErrIO, tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return fmt.Errorf("%w: replacing %s: %w", ErrIO, path, err)
	}
	return nil
}

// Get returns the value stored under key, or ErrKey.
func (s *SaveFile) Get(key string) (types.Value, error) {
	v, ok := s.root.Get(key)
	if !ok {
		return types.Null, fmt.Errorf("%w: %q", ErrKey, key)
	}
	return v, nil
}

// Lookup returns the value stored under key and whether it exists.
func (s *SaveFile) Lookup(key string) (types.Value, bool) {
	return s.root.Get(key)
}

// GetOr returns the value stored under key, or fallback when absent.
func (s *SaveFile) GetOr(key string, fallback types.Value) types.Value {
	if v, ok := s.root.Get(key); ok {
		return v
	}
	return fallback
}

// Set stores value under key without any type check.
func (s *SaveFile) Set(key string, value types.Value) {
	s.root.Set(key, value)
}

// CheckSafeSet reports whether SafeSet(key, value) would succeed.
func (s *SaveFile) CheckSafeSet(key string, value types.Value) error {
	existing, ok := s.root.Get(key)
	if !ok || existing.IsNull() || value.IsNull() {
		return nil
	}
	if existing.Kind() != value.Kind() {
		return &TypeMismatchError{Key: key, Existing: existing.Kind(), Incoming: value.Kind()}
	}
	return nil
}

// SafeSet stores value under key only if the key is absent or null, the
// value is null, or the value has the same kind as the one it replaces.
// Otherwise the document is left unchanged and a *TypeMismatchError is
// returned.
func (s *SaveFile) SafeSet(key string, value types.Value) error {
	if err := s.CheckSafeSet(key, value); err != nil {
		zap.L().Warn("Rejected type-changing write", zap.String("key", key), zap.Error(err))
		return err
	}
	s.root.Set(key, value)
	return nil
}

// Keys returns the top-level keys in document order.
func (s *SaveFile) Keys() []string { return s.root.Keys() }

// Len returns the number of top-level keys.
func (s *SaveFile) Len() int { return s.root.Len() }

// Root returns the document tree. Callers must not retain it beyond the
// lifetime of s.
func (s *SaveFile) Root() *types.Object { return s.root }

// Locked reports whether a tool currently holds the advisory lock.
func (s *SaveFile) Locked() bool { return s.locked }

// Lock marks the document as in use and returns a function restoring the
// previous lock state. The release function is idempotent, so it can be
// both deferred and called early.
func (s *SaveFile) Lock() (release func()) {
	prev := s.locked
	s.locked = true
	released := false
	return func() {
		if released {
			return
		}
		released = true
		s.locked = prev
	}
}

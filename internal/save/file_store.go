package save

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"idlerpg/internal/progression"
)

// FileStore keeps the state as indented JSON in <dataDir>/save.json.
type FileStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

func NewFileStore(dataDir string) (*FileStore, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &FileStore{
		path: filepath.Join(dataDir, fileName),
		now:  time.Now,
	}, nil
}

func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Load(ctx context.Context) (*progression.GameState, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	b, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNoSave
		}
		return nil, err
	}

	s, err := decode(b)
	if err == nil {
		return s, nil
	}
	if !rejected(err) {
		return nil, err
	}
	backup, mvErr := f.moveAsideLocked()
	if mvErr != nil {
		return nil, errors.Join(err, mvErr)
	}
	return nil, fmt.Errorf("%w (kept as %s)", err, filepath.Base(backup))
}

// Save writes through a temp file in the same directory and renames it over
// the old save, so a crash mid-write leaves the previous save intact.
func (f *FileStore) Save(ctx context.Context, s *progression.GameState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := encode(s)
	if err != nil {
		return fmt.Errorf("encode save: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(f.path), fileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp save: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write temp save: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("sync temp save: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close temp save: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace save: %w", err)
	}
	return nil
}

func (f *FileStore) Discard(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, err := os.Stat(f.path); err != nil {
		if os.IsNotExist(err) {
			return "", ErrNoSave
		}
		return "", err
	}
	return f.moveAsideLocked()
}

func (f *FileStore) moveAsideLocked() (string, error) {
	backup := f.path + ".bak-" + stamp(f.now())
	if _, err := os.Stat(backup); err == nil {
		backup = fmt.Sprintf("%s.%d", backup, f.now().UnixNano())
	}
	if err := os.Rename(f.path, backup); err != nil {
		return "", fmt.Errorf("move save aside: %w", err)
	}
	return backup, nil
}

func (f *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)

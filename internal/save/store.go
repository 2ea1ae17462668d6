// Package save persists the game state between sessions. Every backend
// decodes through the same path, so a save that is unreadable, from another
// layout version, or numerically impossible is moved aside and reported as
// ErrCorrupt or ErrVersionMismatch rather than handed to the engine.
package save

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"idlerpg/internal/progression"
)

var (
	ErrNoSave          = errors.New("no save")
	ErrCorrupt         = errors.New("save is corrupt")
	ErrVersionMismatch = errors.New("save version mismatch")
)

type Store interface {
	// Load returns the persisted state, or ErrNoSave, ErrCorrupt or
	// ErrVersionMismatch. A rejected save has already been moved aside.
	Load(ctx context.Context) (*progression.GameState, error)
	Save(ctx context.Context, s *progression.GameState) error
	// Discard moves the current save aside and reports where it went.
	Discard(ctx context.Context) (string, error)
	Close() error
}

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"

	fileName   = "save.json"
	dbFileName = "save.db"

	backupStamp = "20060102T150405"
)

// Open returns the store for backend rooted at dataDir.
func Open(backend, dataDir string) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "", BackendJSON:
		return NewFileStore(dataDir)
	case BackendSQLite:
		return OpenSQLite(filepath.Join(dataDir, dbFileName))
	case BackendMemory:
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown save backend %q", backend)
}

// LoadOrNew loads the saved state or starts a new one when there is nothing
// usable on disk. Only I/O failures are returned as errors.
func LoadOrNew(ctx context.Context, st Store, base progression.BaseStats, logger *log.Logger) (*progression.GameState, error) {
	if logger == nil {
		logger = log.Default()
	}
	s, err := st.Load(ctx)
	switch {
	case err == nil:
		logger.Printf("save: loaded level %d, gold %d, rebirths %d", s.Level, s.Gold, int(s.Rebirth.Value))
		return s, nil
	case errors.Is(err, ErrNoSave):
		logger.Printf("save: none found, starting a new game")
	case errors.Is(err, ErrCorrupt), errors.Is(err, ErrVersionMismatch):
		logger.Printf("save: discarded: %v", err)
	default:
		return nil, fmt.Errorf("load save: %w", err)
	}
	return progression.NewGameState(base), nil
}

type versionProbe struct {
	Version int `json:"version"`
}

func encode(s *progression.GameState) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

func decode(b []byte) (*progression.GameState, error) {
	var probe versionProbe
	if err := json.Unmarshal(b, &probe); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if probe.Version != progression.SaveVersion {
		return nil, fmt.Errorf("%w: have %d, want %d", ErrVersionMismatch, probe.Version, progression.SaveVersion)
	}

	var s progression.GameState
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	s.Normalize()
	return &s, nil
}

func rejected(err error) bool {
	return errors.Is(err, ErrCorrupt) || errors.Is(err, ErrVersionMismatch)
}

func reason(err error) string {
	if errors.Is(err, ErrVersionMismatch) {
		return "version"
	}
	return "corrupt"
}

func stamp(t time.Time) string {
	return t.UTC().Format(backupStamp)
}

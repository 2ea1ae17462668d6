package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
)

// Settings are the process-level knobs read from the environment.
type Settings struct {
	DataDir     string        `env:"IDLERPG_DATA_DIR"`
	SaveBackend string        `env:"IDLERPG_SAVE_BACKEND" envDefault:"json"`
	Tick        time.Duration `env:"IDLERPG_TICK" envDefault:"100ms"`
	Frame       time.Duration `env:"IDLERPG_FRAME" envDefault:"100ms"`
	Autosave    time.Duration `env:"IDLERPG_AUTOSAVE" envDefault:"60s"`
	BalanceFile string        `env:"IDLERPG_BALANCE_FILE"`
	Difficulty  string        `env:"IDLERPG_DIFFICULTY" envDefault:"normal"`
}

// LoadSettings parses Settings from the environment. An empty data dir
// resolves to the platform user config directory.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := env.Parse(&s); err != nil {
		return Settings{}, fmt.Errorf("parse env: %w", err)
	}
	if s.DataDir == "" {
		dir, err := DefaultDataDir()
		if err != nil {
			return Settings{}, err
		}
		s.DataDir = dir
	}
	if s.Tick <= 0 {
		return Settings{}, fmt.Errorf("IDLERPG_TICK must be positive, got %s", s.Tick)
	}
	if s.Frame <= 0 {
		return Settings{}, fmt.Errorf("IDLERPG_FRAME must be positive, got %s", s.Frame)
	}
	return s, nil
}

// DefaultDataDir is <user config dir>/idlerpg.
func DefaultDataDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, "idlerpg"), nil
}

// Balance resolves the balance to play with: an explicit file wins over the
// difficulty preset.
func (s Settings) Balance() (Balance, error) {
	if s.BalanceFile != "" {
		return Load(s.BalanceFile)
	}
	return Preset(s.Difficulty)
}

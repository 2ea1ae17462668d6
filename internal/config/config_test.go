package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	for name, b := range map[string]Balance{"default": Default(), "casual": Casual(), "hard": Hard()} {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, b.Validate())
		})
	}
}

func TestLoad_PartialFileFallsBackToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.yml")
	yml := `
damage:
  cost: 7
  cost_growth: 1.1
rebirth:
  gold_multiplier_bonus: 0.5
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	b, err := Load(path)
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, int64(7), b.Damage.Cost)
	assert.Equal(t, 1.1, b.Damage.CostGrowth)
	assert.Equal(t, def.Damage.Base, b.Damage.Base)
	assert.Equal(t, 0.5, b.Rebirth.GoldMultiplierBonus)
	assert.Equal(t, def.Rebirth.Cost, b.Rebirth.Cost)
	assert.Equal(t, def.Enemy, b.Enemy)
}

func TestLoad_RejectsShrinkingCosts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.yml")
	require.NoError(t, os.WriteFile(path, []byte("attack_rate:\n  cost_growth: 0.5\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "attack_rate.cost_growth")
}

func TestLoad_RejectsRunawayAttackRate(t *testing.T) {
	cases := map[string]string{
		"base over cap":   "attack_rate:\n  base: 1e20\n",
		"cap over limit":  "max_attack_rate: 1e20\n",
		"floor too low":   "min_attack_rate: 1e-9\n",
		"cap under floor": "min_attack_rate: 5\nmax_attack_rate: 2\n",
	}
	for name, yml := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "balance.yml")
			require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "attack_rate")
		})
	}
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "balance.yml")
	require.NoError(t, os.WriteFile(path, []byte("damage: [oops"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestPreset(t *testing.T) {
	b, err := Preset("HARD")
	require.NoError(t, err)
	assert.Equal(t, Hard(), b)

	b, err = Preset("")
	require.NoError(t, err)
	assert.Equal(t, Default(), b)

	_, err = Preset("nightmare")
	assert.Error(t, err)
}

func TestLoadSettings_FromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("IDLERPG_DATA_DIR", dir)
	t.Setenv("IDLERPG_SAVE_BACKEND", "sqlite")
	t.Setenv("IDLERPG_TICK", "50ms")
	t.Setenv("IDLERPG_AUTOSAVE", "2m")
	t.Setenv("IDLERPG_DIFFICULTY", "casual")

	s, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, dir, s.DataDir)
	assert.Equal(t, "sqlite", s.SaveBackend)
	assert.Equal(t, 50*time.Millisecond, s.Tick)
	assert.Equal(t, 100*time.Millisecond, s.Frame)
	assert.Equal(t, 2*time.Minute, s.Autosave)

	b, err := s.Balance()
	require.NoError(t, err)
	assert.Equal(t, Casual(), b)
}

func TestLoadSettings_RejectsZeroTick(t *testing.T) {
	t.Setenv("IDLERPG_DATA_DIR", t.TempDir())
	t.Setenv("IDLERPG_TICK", "0s")

	_, err := LoadSettings()
	assert.Error(t, err)
}

func TestLoad_ShippedBalanceMatchesDefault(t *testing.T) {
	b, err := Load(filepath.Join("..", "..", "idlerpg_balance.yml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), b)
}

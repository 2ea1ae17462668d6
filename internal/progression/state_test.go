package progression

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"idlerpg/internal/config"
)

func TestNewGameState(t *testing.T) {
	base := NewBaseStats(config.Default())
	s := NewGameState(base)

	assert.Equal(t, SaveVersion, s.Version)
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, base.EnemyHealth(1), s.MaxHealth)
	assert.Equal(t, s.MaxHealth, s.Health)
	assert.Equal(t, 1, s.Stats.HighestLevel)
	assert.Equal(t, s.DPS(), s.Stats.HighestDPS)
	assert.Equal(t, base.GoldMultiplier, s.GoldMultiplier)
	assert.NotNil(t, s.Perks)
	require.NoError(t, s.Validate())
}

func TestEnemyHealth(t *testing.T) {
	base := NewBaseStats(config.Default())
	assert.Equal(t, 5.0, base.EnemyHealth(1))
	assert.InDelta(t, math.Pow(10, 1.2)*5, base.EnemyHealth(10), 1e-9)
}

func TestClone_IsDeep(t *testing.T) {
	s := NewGameState(NewBaseStats(config.Default()))
	s.Perks[PerkRebirth] = 1

	c := s.Clone()
	c.Perks[PerkEvolve] = 1
	c.Damage.Value = 99

	assert.False(t, s.HasPerk(PerkEvolve))
	assert.NotEqual(t, 99.0, s.Damage.Value)
}

func TestNormalize_RepairsDecodedState(t *testing.T) {
	s := &GameState{
		Base:        NewBaseStats(config.Default()),
		AttackRate:  Upgrade{Value: 0, Cost: 10, CostGrowth: 1.25},
		AttackTimer: -3,
	}
	s.Base.MinAttackRate = 0

	s.Normalize()

	assert.NotNil(t, s.Perks)
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, config.Default().MinAttackRate, s.AttackRate.Value)
	assert.Equal(t, config.Default().MaxAttackRate, s.Base.MaxAttackRate)
	assert.Equal(t, s.Base.EnemyHealth(1), s.MaxHealth)
	assert.Zero(t, s.AttackTimer)
}

func TestValidate(t *testing.T) {
	base := NewBaseStats(config.Default())

	tests := []struct {
		name   string
		mutate func(s *GameState)
	}{
		{"nan damage", func(s *GameState) { s.Damage.Value = math.NaN() }},
		{"infinite health", func(s *GameState) { s.Health = math.Inf(1) }},
		{"negative gold", func(s *GameState) { s.Gold = -1 }},
		{"zero growth", func(s *GameState) { s.Rebirth.CostGrowth = 0 }},
		{"no health multiplier", func(s *GameState) { s.Base.HealthMultiplier = 0 }},
		{"unknown perk", func(s *GameState) { s.Perks["telekinesis"] = 1 }},
		{"perk over max", func(s *GameState) { s.Perks[PerkWhetstone] = 4 }},
		{"attack rate over cap", func(s *GameState) { s.AttackRate.Value = 1e20 }},
		{"cap over hard limit", func(s *GameState) {
			s.Base.MaxAttackRate = 1e30
			s.AttackRate.Value = 1e20
		}},
		{"floor under hard limit", func(s *GameState) { s.Base.MinAttackRate = 1e-30 }},
		{"attack timer past longest period", func(s *GameState) { s.AttackTimer = 1e20 }},
		{"zero cost multiplier", func(s *GameState) { s.Base.CostMultiplier = 0 }},
		{"cost multiplier over one", func(s *GameState) { s.Base.CostMultiplier = 1.5 }},
		{"bad base increase track", func(s *GameState) { s.Base.DamageIncrease.CostGrowth = 0 }},
		{"bad base rebirth track", func(s *GameState) { s.Base.Rebirth.Cost = -1 }},
		{"bad base evolve track", func(s *GameState) { s.Base.Evolve.Value = math.Inf(1) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewGameState(base)
			tt.mutate(s)
			assert.Error(t, s.Validate())
		})
	}
}

func TestValidate_AcceptsPlayedStates(t *testing.T) {
	s := NewGameState(NewBaseStats(config.Default()))
	s.AttackRate.Value = s.Base.MaxAttackRate
	s.AttackTimer = 0.5
	s.Base.CostMultiplier = 0.95 * 0.95
	assert.NoError(t, s.Validate())

	// Saves written before the cap existed.
	s.Base.MaxAttackRate = 0
	assert.NoError(t, s.Validate())
}

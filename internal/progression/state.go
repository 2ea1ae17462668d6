package progression

import (
	"errors"
	"fmt"
	"math"

	"idlerpg/internal/config"
)

// SaveVersion tags persisted states. Bump when the layout changes; older saves
// are discarded on load.
const SaveVersion = 1

// GameState is the complete mutable progression snapshot.
type GameState struct {
	Version int `json:"version"`

	Base  BaseStats    `json:"base"`
	Bonus RebirthBonus `json:"bonus"`

	Damage             Upgrade `json:"damage"`
	DamageIncrease     Upgrade `json:"damage_increase"`
	AttackRate         Upgrade `json:"attack_rate"`
	AttackRateIncrease Upgrade `json:"attack_rate_increase"`
	Rebirth            Upgrade `json:"rebirth"`
	Evolve             Upgrade `json:"evolve"`

	// Gold is whole currency; fractional rewards are truncated when granted.
	Gold           int64   `json:"gold"`
	GoldMultiplier float64 `json:"gold_multiplier"`

	Level       int     `json:"level"`
	Health      float64 `json:"health"`
	MaxHealth   float64 `json:"max_health"`
	AttackTimer float64 `json:"attack_timer"`
	// RunTime is play time since the last reset of any tier.
	RunTime float64 `json:"run_time"`

	Perks map[PerkID]int `json:"perks"`
	Stats Stats          `json:"stats"`
}

// NewGameState returns a fresh state built from base with no perks.
func NewGameState(base BaseStats) *GameState {
	s := newRun(base, RebirthBonus{})
	s.GoldMultiplier = base.GoldMultiplier
	s.Rebirth = base.Rebirth
	s.Evolve = base.Evolve
	s.Stats.HighestLevel = s.Level
	s.Stats.HighestDPS = s.DPS()
	return s
}

// newRun derives every run-scoped field from base and bonus. Fields owned by
// a higher tier (perks, stats, tracks, gold multiplier) are left zero for the
// caller to fill.
func newRun(base BaseStats, bonus RebirthBonus) *GameState {
	s := &GameState{
		Version:            SaveVersion,
		Base:               base,
		Bonus:              bonus,
		Damage:             base.live(base.Damage),
		DamageIncrease:     base.live(base.DamageIncrease),
		AttackRate:         base.live(base.AttackRate),
		AttackRateIncrease: base.live(base.AttackRateIncrease),
		Level:              1,
		Perks:              map[PerkID]int{},
	}
	s.DamageIncrease.Value += bonus.DamageIncrease
	s.AttackRateIncrease.Value += bonus.AttackRateIncrease
	s.clampAttackRate()
	s.spawnEnemy()
	return s
}

func (s *GameState) clampAttackRate() {
	lo, hi := s.Base.attackRateBounds()
	s.AttackRate.Value = math.Min(math.Max(s.AttackRate.Value, lo), hi)
}

func (s *GameState) spawnEnemy() {
	s.MaxHealth = s.Base.EnemyHealth(s.Level)
	s.Health = s.MaxHealth
}

// DPS is damage per second at the current attack rate.
func (s *GameState) DPS() float64 {
	return s.Damage.Value * s.AttackRate.Value
}

// Rank returns how many ranks of a perk are owned.
func (s *GameState) Rank(id PerkID) int {
	return s.Perks[id]
}

func (s *GameState) HasPerk(id PerkID) bool {
	return s.Perks[id] > 0
}

// Clone returns a deep copy.
func (s *GameState) Clone() *GameState {
	out := *s
	out.Perks = clonePerks(s.Perks)
	return &out
}

func clonePerks(src map[PerkID]int) map[PerkID]int {
	out := make(map[PerkID]int, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

// Normalize repairs a decoded state so the engine invariants hold: a perk
// map, level >= 1, a live enemy and an attack rate within its bounds.
func (s *GameState) Normalize() {
	if s.Perks == nil {
		s.Perks = map[PerkID]int{}
	}
	if s.Level < 1 {
		s.Level = 1
	}
	s.Base.MinAttackRate, s.Base.MaxAttackRate = s.Base.attackRateBounds()
	s.clampAttackRate()
	if s.MaxHealth <= 0 {
		s.spawnEnemy()
	}
	if s.AttackTimer < 0 {
		s.AttackTimer = 0
	}
}

// Validate rejects decoded states that no engine operation could have
// produced. Loaders treat a failure as a corrupt save.
func (s *GameState) Validate() error {
	var errs []error
	finite := func(name string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Errorf("%s is not finite", name))
		}
	}
	track := func(name string, u Upgrade) {
		finite(name+".value", u.Value)
		finite(name+".cost_growth", u.CostGrowth)
		if u.Cost < 0 {
			errs = append(errs, fmt.Errorf("%s.cost is negative", name))
		}
		if u.CostGrowth <= 0 {
			errs = append(errs, fmt.Errorf("%s.cost_growth must be positive", name))
		}
	}

	track("damage", s.Damage)
	track("damage_increase", s.DamageIncrease)
	track("attack_rate", s.AttackRate)
	track("attack_rate_increase", s.AttackRateIncrease)
	track("rebirth", s.Rebirth)
	track("evolve", s.Evolve)
	track("base.damage", s.Base.Damage)
	track("base.damage_increase", s.Base.DamageIncrease)
	track("base.attack_rate", s.Base.AttackRate)
	track("base.attack_rate_increase", s.Base.AttackRateIncrease)
	track("base.rebirth", s.Base.Rebirth)
	track("base.evolve", s.Base.Evolve)

	finite("gold_multiplier", s.GoldMultiplier)
	finite("health", s.Health)
	finite("max_health", s.MaxHealth)
	finite("attack_timer", s.AttackTimer)
	finite("base.health_exponent", s.Base.HealthExponent)
	finite("base.health_multiplier", s.Base.HealthMultiplier)

	if s.Gold < 0 {
		errs = append(errs, errors.New("gold is negative"))
	}
	if s.Base.HealthMultiplier <= 0 {
		errs = append(errs, errors.New("base.health_multiplier must be positive"))
	}
	if !(s.Base.CostMultiplier > 0 && s.Base.CostMultiplier <= 1) {
		errs = append(errs, errors.New("base.cost_multiplier must be in (0, 1]"))
	}

	// A bounded attack period keeps Advance finite.
	bound := func(name string, v float64) {
		if v != 0 && !(v >= config.LowestAttackRate && v <= config.HighestAttackRate) {
			errs = append(errs, fmt.Errorf("%s must be between %g and %g", name, config.LowestAttackRate, config.HighestAttackRate))
		}
	}
	bound("base.min_attack_rate", s.Base.MinAttackRate)
	bound("base.max_attack_rate", s.Base.MaxAttackRate)
	lo, hi := s.Base.attackRateBounds()
	if lo > hi {
		errs = append(errs, errors.New("base.min_attack_rate exceeds base.max_attack_rate"))
	}
	if s.AttackRate.Value > hi {
		errs = append(errs, fmt.Errorf("attack_rate.value %g exceeds the cap %g", s.AttackRate.Value, hi))
	}
	if s.AttackTimer > 1/lo {
		errs = append(errs, fmt.Errorf("attack_timer %g exceeds the longest attack period", s.AttackTimer))
	}
	for id, rank := range s.Perks {
		p, ok := PerkByID(id)
		if !ok {
			errs = append(errs, fmt.Errorf("unknown perk %q", id))
			continue
		}
		if rank < 0 || rank > p.MaxRank {
			errs = append(errs, fmt.Errorf("perk %q rank %d out of range", id, rank))
		}
	}
	return errors.Join(errs...)
}

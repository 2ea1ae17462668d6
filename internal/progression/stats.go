package progression

import (
	"math"

	"idlerpg/internal/config"
)

// BaseStats is the permanent foundation the live upgrades are rebuilt from
// after every reset. Evolve raises it; soft reset rebuilds it from balance.
type BaseStats struct {
	Damage             Upgrade `json:"damage"`
	DamageIncrease     Upgrade `json:"damage_increase"`
	AttackRate         Upgrade `json:"attack_rate"`
	AttackRateIncrease Upgrade `json:"attack_rate_increase"`
	Rebirth            Upgrade `json:"rebirth"`
	Evolve             Upgrade `json:"evolve"`

	DamageIncreaseStep     float64 `json:"damage_increase_step"`
	AttackRateIncreaseStep float64 `json:"attack_rate_increase_step"`

	GoldMultiplier float64 `json:"gold_multiplier"`
	// CostMultiplier scales every starting upgrade price (perk discounts).
	CostMultiplier   float64 `json:"cost_multiplier"`
	HealthExponent   float64 `json:"health_exponent"`
	HealthMultiplier float64 `json:"health_multiplier"`
	MinAttackRate    float64 `json:"min_attack_rate"`
	MaxAttackRate    float64 `json:"max_attack_rate"`
}

// NewBaseStats builds the pristine base table for a balance.
func NewBaseStats(b config.Balance) BaseStats {
	track := func(u config.UpgradeBalance) Upgrade {
		return Upgrade{Value: u.Base, Cost: u.Cost, CostGrowth: u.CostGrowth}
	}
	return BaseStats{
		Damage:                 track(b.Damage),
		DamageIncrease:         track(b.DamageIncrease),
		AttackRate:             track(b.AttackRate),
		AttackRateIncrease:     track(b.AttackRateIncrease),
		Rebirth:                Upgrade{Cost: b.Rebirth.Cost, CostGrowth: b.Rebirth.CostGrowth},
		Evolve:                 Upgrade{Cost: b.Evolve.Cost, CostGrowth: b.Evolve.CostGrowth},
		DamageIncreaseStep:     b.DamageIncrease.Step,
		AttackRateIncreaseStep: b.AttackRateIncrease.Step,
		GoldMultiplier:         b.GoldMultiplier,
		CostMultiplier:         1,
		HealthExponent:         b.Enemy.HealthExponent,
		HealthMultiplier:       b.Enemy.HealthMultiplier,
		MinAttackRate:          b.MinAttackRate,
		MaxAttackRate:          b.MaxAttackRate,
	}
}

// EnemyHealth is the max health of the enemy at level.
func (b BaseStats) EnemyHealth(level int) float64 {
	return math.Pow(float64(level), b.HealthExponent) * b.HealthMultiplier
}

// attackRateBounds returns the attack rate floor and cap, using the default
// balance for states saved without them.
func (b BaseStats) attackRateBounds() (lo, hi float64) {
	def := config.Default()
	lo, hi = b.MinAttackRate, b.MaxAttackRate
	if lo <= 0 {
		lo = def.MinAttackRate
	}
	if hi <= 0 {
		hi = def.MaxAttackRate
	}
	return lo, hi
}

// live returns the starting live copy of a base track, with the cost multiplier applied.
func (b BaseStats) live(u Upgrade) Upgrade {
	if b.CostMultiplier != 1 {
		u.Scale(b.CostMultiplier)
	}
	return u
}

// RebirthBonus holds the permanent increments chosen at rebirth.
type RebirthBonus struct {
	DamageIncrease     float64 `json:"damage_increase"`
	AttackRateIncrease float64 `json:"attack_rate_increase"`
}

// Stats are the cumulative counters. They survive every reset tier.
type Stats struct {
	HighestLevel    int     `json:"highest_level"`
	HighestDPS      float64 `json:"highest_dps"`
	HighestRebirth  int     `json:"highest_rebirth"`
	HighestEvolve   int     `json:"highest_evolve"`
	TimePlayed      float64 `json:"time_played"`
	TotalKills      int64   `json:"total_kills"`
	TotalGoldEarned int64   `json:"total_gold_earned"`
	SoftResets      int     `json:"soft_resets"`
}

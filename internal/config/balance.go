package config

// Hard limits for the attack rate bounds of any balance or save.
const (
	LowestAttackRate  = 0.001
	HighestAttackRate = 1e6
)

// UpgradeBalance describes one purchasable track.
type UpgradeBalance struct {
	// Base is the starting value of the track after a reset.
	Base       float64 `yaml:"base" json:"base"`
	Cost       int64   `yaml:"cost" json:"cost"`
	CostGrowth float64 `yaml:"cost_growth" json:"cost_growth"`
	// Step is how much one purchase adds. Only the *-increase tracks use it;
	// damage and attack rate grow by the value of their increase track.
	Step float64 `yaml:"step,omitempty" json:"step,omitempty"`
}

// EnemyBalance shapes the enemy health curve: level^HealthExponent * HealthMultiplier.
type EnemyBalance struct {
	HealthExponent   float64 `yaml:"health_exponent" json:"health_exponent"`
	HealthMultiplier float64 `yaml:"health_multiplier" json:"health_multiplier"`
}

// RebirthBalance prices rebirths (in gold) and sizes each permanent choice.
type RebirthBalance struct {
	Cost                    int64   `yaml:"cost" json:"cost"`
	CostGrowth              float64 `yaml:"cost_growth" json:"cost_growth"`
	DamageIncreaseBonus     float64 `yaml:"damage_increase_bonus" json:"damage_increase_bonus"`
	AttackRateIncreaseBonus float64 `yaml:"attack_rate_increase_bonus" json:"attack_rate_increase_bonus"`
	GoldMultiplierBonus     float64 `yaml:"gold_multiplier_bonus" json:"gold_multiplier_bonus"`
}

// EvolveBalance prices evolutions (in rebirths) and sizes each base-stat raise.
type EvolveBalance struct {
	Cost            int64   `yaml:"cost" json:"cost"`
	CostGrowth      float64 `yaml:"cost_growth" json:"cost_growth"`
	DamageBonus     float64 `yaml:"damage_bonus" json:"damage_bonus"`
	AttackRateBonus float64 `yaml:"attack_rate_bonus" json:"attack_rate_bonus"`
}

// Balance holds gameplay balance configuration
type Balance struct {
	Damage             UpgradeBalance `yaml:"damage" json:"damage"`
	DamageIncrease     UpgradeBalance `yaml:"damage_increase" json:"damage_increase"`
	AttackRate         UpgradeBalance `yaml:"attack_rate" json:"attack_rate"`
	AttackRateIncrease UpgradeBalance `yaml:"attack_rate_increase" json:"attack_rate_increase"`

	GoldMultiplier float64 `yaml:"gold_multiplier" json:"gold_multiplier"`
	// MinAttackRate is the floor every attack rate is clamped to.
	MinAttackRate float64 `yaml:"min_attack_rate" json:"min_attack_rate"`
	// MaxAttackRate caps the attack rate so an attack period never vanishes
	// next to a frame.
	MaxAttackRate float64 `yaml:"max_attack_rate" json:"max_attack_rate"`

	Enemy   EnemyBalance   `yaml:"enemy" json:"enemy"`
	Rebirth RebirthBalance `yaml:"rebirth" json:"rebirth"`
	Evolve  EvolveBalance  `yaml:"evolve" json:"evolve"`
}

// Default returns the default balance configuration
func Default() Balance {
	return Balance{
		Damage:             UpgradeBalance{Base: 1, Cost: 5, CostGrowth: 1.2},
		DamageIncrease:     UpgradeBalance{Base: 1, Cost: 50, CostGrowth: 1.5, Step: 0.5},
		AttackRate:         UpgradeBalance{Base: 1, Cost: 10, CostGrowth: 1.25},
		AttackRateIncrease: UpgradeBalance{Base: 0.1, Cost: 100, CostGrowth: 1.6, Step: 0.05},
		GoldMultiplier:     1,
		MinAttackRate:      0.01,
		MaxAttackRate:      1000,
		Enemy: EnemyBalance{
			HealthExponent:   1.2,
			HealthMultiplier: 5,
		},
		Rebirth: RebirthBalance{
			Cost:                    1000,
			CostGrowth:              2,
			DamageIncreaseBonus:     0.5,
			AttackRateIncreaseBonus: 0.05,
			GoldMultiplierBonus:     0.25,
		},
		Evolve: EvolveBalance{
			Cost:            3,
			CostGrowth:      2,
			DamageBonus:     1,
			AttackRateBonus: 0.25,
		},
	}
}

// Casual returns easier balance for casual difficulty
func Casual() Balance {
	cfg := Default()
	cfg.Damage.CostGrowth = 1.15
	cfg.AttackRate.CostGrowth = 1.2
	cfg.GoldMultiplier = 1.5
	cfg.Enemy.HealthExponent = 1.1
	cfg.Rebirth.Cost = 750
	cfg.Evolve.Cost = 2
	return cfg
}

// Hard returns harder balance for experienced players
func Hard() Balance {
	cfg := Default()
	cfg.Damage.CostGrowth = 1.3
	cfg.DamageIncrease.CostGrowth = 1.7
	cfg.AttackRate.CostGrowth = 1.35
	cfg.Enemy.HealthExponent = 1.35
	cfg.Rebirth.Cost = 2000
	cfg.Rebirth.CostGrowth = 2.5
	cfg.Evolve.Cost = 4
	return cfg
}

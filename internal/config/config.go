package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

func (u *UpgradeBalance) applyDefaults(def UpgradeBalance) {
	if u.Base == 0 {
		u.Base = def.Base
	}
	if u.Cost == 0 {
		u.Cost = def.Cost
	}
	if u.CostGrowth == 0 {
		u.CostGrowth = def.CostGrowth
	}
	if u.Step == 0 {
		u.Step = def.Step
	}
}

// ApplyDefaults fills every zero field from Default.
func (b *Balance) ApplyDefaults() {
	def := Default()
	b.Damage.applyDefaults(def.Damage)
	b.DamageIncrease.applyDefaults(def.DamageIncrease)
	b.AttackRate.applyDefaults(def.AttackRate)
	b.AttackRateIncrease.applyDefaults(def.AttackRateIncrease)

	if b.GoldMultiplier == 0 {
		b.GoldMultiplier = def.GoldMultiplier
	}
	if b.MinAttackRate == 0 {
		b.MinAttackRate = def.MinAttackRate
	}
	if b.MaxAttackRate == 0 {
		b.MaxAttackRate = def.MaxAttackRate
	}
	if b.Enemy.HealthExponent == 0 {
		b.Enemy.HealthExponent = def.Enemy.HealthExponent
	}
	if b.Enemy.HealthMultiplier == 0 {
		b.Enemy.HealthMultiplier = def.Enemy.HealthMultiplier
	}

	if b.Rebirth.Cost == 0 {
		b.Rebirth.Cost = def.Rebirth.Cost
	}
	if b.Rebirth.CostGrowth == 0 {
		b.Rebirth.CostGrowth = def.Rebirth.CostGrowth
	}
	if b.Rebirth.DamageIncreaseBonus == 0 {
		b.Rebirth.DamageIncreaseBonus = def.Rebirth.DamageIncreaseBonus
	}
	if b.Rebirth.AttackRateIncreaseBonus == 0 {
		b.Rebirth.AttackRateIncreaseBonus = def.Rebirth.AttackRateIncreaseBonus
	}
	if b.Rebirth.GoldMultiplierBonus == 0 {
		b.Rebirth.GoldMultiplierBonus = def.Rebirth.GoldMultiplierBonus
	}

	if b.Evolve.Cost == 0 {
		b.Evolve.Cost = def.Evolve.Cost
	}
	if b.Evolve.CostGrowth == 0 {
		b.Evolve.CostGrowth = def.Evolve.CostGrowth
	}
	if b.Evolve.DamageBonus == 0 {
		b.Evolve.DamageBonus = def.Evolve.DamageBonus
	}
	if b.Evolve.AttackRateBonus == 0 {
		b.Evolve.AttackRateBonus = def.Evolve.AttackRateBonus
	}
}

func (u UpgradeBalance) validate(name string) []error {
	var errs []error
	if u.Cost <= 0 {
		errs = append(errs, fmt.Errorf("%s.cost must be positive", name))
	}
	if u.CostGrowth < 1 {
		errs = append(errs, fmt.Errorf("%s.cost_growth must be >= 1", name))
	}
	if u.Base < 0 {
		errs = append(errs, fmt.Errorf("%s.base must not be negative", name))
	}
	if u.Step < 0 {
		errs = append(errs, fmt.Errorf("%s.step must not be negative", name))
	}
	return errs
}

// Validate reports every balance value the engine cannot run with.
func (b Balance) Validate() error {
	var errs []error
	errs = append(errs, b.Damage.validate("damage")...)
	errs = append(errs, b.DamageIncrease.validate("damage_increase")...)
	errs = append(errs, b.AttackRate.validate("attack_rate")...)
	errs = append(errs, b.AttackRateIncrease.validate("attack_rate_increase")...)

	if !(b.MinAttackRate >= LowestAttackRate) {
		errs = append(errs, fmt.Errorf("min_attack_rate must be >= %g", LowestAttackRate))
	}
	if !(b.MaxAttackRate >= b.MinAttackRate && b.MaxAttackRate <= HighestAttackRate) {
		errs = append(errs, fmt.Errorf("max_attack_rate must be between min_attack_rate and %g", HighestAttackRate))
	}
	if !(b.AttackRate.Base <= b.MaxAttackRate) {
		errs = append(errs, errors.New("attack_rate.base must not exceed max_attack_rate"))
	}
	if b.GoldMultiplier <= 0 {
		errs = append(errs, errors.New("gold_multiplier must be positive"))
	}
	if b.Enemy.HealthMultiplier <= 0 {
		errs = append(errs, errors.New("enemy.health_multiplier must be positive"))
	}
	if b.Rebirth.Cost <= 0 || b.Rebirth.CostGrowth < 1 {
		errs = append(errs, errors.New("rebirth.cost must be positive and rebirth.cost_growth >= 1"))
	}
	if b.Evolve.Cost <= 0 || b.Evolve.CostGrowth < 1 {
		errs = append(errs, errors.New("evolve.cost must be positive and evolve.cost_growth >= 1"))
	}
	return errors.Join(errs...)
}

// Load reads a yaml balance file. Missing fields fall back to Default.
func Load(path string) (Balance, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Balance{}, err
	}
	var r Balance
	if err := yaml.Unmarshal(b, &r); err != nil {
		return Balance{}, fmt.Errorf("parse balance %s: %w", path, err)
	}
	r.ApplyDefaults()
	if err := r.Validate(); err != nil {
		return Balance{}, fmt.Errorf("invalid balance %s: %w", path, err)
	}
	return r, nil
}

// Preset returns the named difficulty preset.
func Preset(name string) (Balance, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "normal", "default":
		return Default(), nil
	case "casual":
		return Casual(), nil
	case "hard":
		return Hard(), nil
	}
	return Balance{}, fmt.Errorf("unknown difficulty %q", name)
}

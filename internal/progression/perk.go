package progression

// PerkID identifies a perk in the registry and in saves.
type PerkID string

const (
	PerkDamageIncrease     PerkID = "can-upgrade-damage-increase"
	PerkAttackRateIncrease PerkID = "can-upgrade-attack-rate-increase"
	PerkRebirth            PerkID = "can-rebirth"
	PerkEvolve             PerkID = "can-evolve"
	PerkBargain            PerkID = "bargain"
	PerkWhetstone          PerkID = "whetstone"
)

// Requirement gates a perk. Level is checked against the highest level ever
// reached so perks stay reachable right after a reset.
type Requirement struct {
	Level    int `json:"level,omitempty"`
	Rebirths int `json:"rebirths,omitempty"`
	Evolves  int `json:"evolves,omitempty"`
}

// Met reports whether s satisfies the requirement.
func (r Requirement) Met(s *GameState) bool {
	return s.Stats.HighestLevel >= r.Level &&
		int(s.Rebirth.Value) >= r.Rebirths &&
		int(s.Evolve.Value) >= r.Evolves
}

// Perk is a rank-based permanent unlock bought with gold.
type Perk struct {
	ID          PerkID
	Name        string
	Description string
	MaxRank     int
	Cost        int64
	CostGrowth  float64
	Requires    Requirement

	// Base adjusts the base table for one rank. It runs on purchase and again,
	// once per owned rank, whenever the table is rebuilt from balance.
	Base func(b *BaseStats)
	// Live adjusts the running state for one rank on purchase.
	Live func(s *GameState)
}

// CostAt is the price of the next rank when rank ranks are owned.
func (p Perk) CostAt(rank int) int64 {
	c := p.Cost
	for i := 0; i < rank; i++ {
		c = truncPrice(float64(c) * p.CostGrowth)
	}
	return c
}

const bargainFactor = 0.95

var registry = []Perk{
	{
		ID:          PerkDamageIncrease,
		Name:        "Sharpening",
		Description: "Unlocks damage increase upgrades",
		MaxRank:     1,
		Cost:        100,
		CostGrowth:  1,
		Requires:    Requirement{Level: 10},
	},
	{
		ID:          PerkAttackRateIncrease,
		Name:        "Footwork",
		Description: "Unlocks attack rate increase upgrades",
		MaxRank:     1,
		Cost:        250,
		CostGrowth:  1,
		Requires:    Requirement{Level: 15},
	},
	{
		ID:          PerkRebirth,
		Name:        "Rebirth",
		Description: "Unlocks rebirth",
		MaxRank:     1,
		Cost:        500,
		CostGrowth:  1,
		Requires:    Requirement{Level: 25},
	},
	{
		ID:          PerkEvolve,
		Name:        "Evolution",
		Description: "Unlocks evolve",
		MaxRank:     1,
		Cost:        5000,
		CostGrowth:  1,
		Requires:    Requirement{Rebirths: 3},
	},
	{
		ID:          PerkBargain,
		Name:        "Bargain",
		Description: "Upgrades cost 5% less per rank",
		MaxRank:     5,
		Cost:        1000,
		CostGrowth:  2.5,
		Requires:    Requirement{Rebirths: 1},
		Base: func(b *BaseStats) {
			b.CostMultiplier *= bargainFactor
		},
		Live: func(s *GameState) {
			s.Damage.Scale(bargainFactor)
			s.DamageIncrease.Scale(bargainFactor)
			s.AttackRate.Scale(bargainFactor)
			s.AttackRateIncrease.Scale(bargainFactor)
		},
	},
	{
		ID:          PerkWhetstone,
		Name:        "Whetstone",
		Description: "+1 base damage per rank",
		MaxRank:     3,
		Cost:        300,
		CostGrowth:  3,
		Requires:    Requirement{Level: 20},
		Base: func(b *BaseStats) {
			b.Damage.Value++
		},
		Live: func(s *GameState) {
			s.Damage.Value++
		},
	},
}

// Perks returns the registry in display order.
func Perks() []Perk {
	out := make([]Perk, len(registry))
	copy(out, registry)
	return out
}

// PerkByID looks a perk up in the registry.
func PerkByID(id PerkID) (Perk, bool) {
	for _, p := range registry {
		if p.ID == id {
			return p, true
		}
	}
	return Perk{}, false
}

// applyPerkBases replays the Base hook of every owned rank onto b.
func applyPerkBases(b *BaseStats, perks map[PerkID]int) {
	for _, p := range registry {
		if p.Base == nil {
			continue
		}
		for i := 0; i < perks[p.ID]; i++ {
			p.Base(b)
		}
	}
}

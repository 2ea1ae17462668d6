package progression

import "fmt"

// ResetTier is one level of the reset hierarchy. Each tier retains a strict
// superset of the fields retained by the tier below it.
type ResetTier int

const (
	TierSoft ResetTier = iota + 1
	TierRebirth
	TierEvolve
)

func (t ResetTier) String() string {
	switch t {
	case TierSoft:
		return "soft-reset"
	case TierRebirth:
		return "rebirth"
	case TierEvolve:
		return "evolve"
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// GameState field names carried over by each tier.
var (
	softRetained    = []string{"Perks", "Stats", "GoldMultiplier"}
	rebirthRetained = append(append([]string{}, softRetained...), "Base", "Bonus", "Rebirth", "Evolve")
	evolveRetained  = append(append([]string{}, rebirthRetained...), "Gold")
)

// RetainedFields lists the GameState fields a reset of tier t carries over.
func RetainedFields(t ResetTier) []string {
	var src []string
	switch t {
	case TierSoft:
		src = softRetained
	case TierRebirth:
		src = rebirthRetained
	case TierEvolve:
		src = evolveRetained
	}
	return append([]string{}, src...)
}

// Fresh builds the state a reset of tier t starts from, before any field is
// carried over. pristine is the balance base table with no perks or evolutions.
func Fresh(t ResetTier, old *GameState, pristine BaseStats) *GameState {
	if t == TierSoft {
		base := pristine
		applyPerkBases(&base, old.Perks)
		s := newRun(base, RebirthBonus{})
		s.Rebirth = base.Rebirth
		s.Evolve = base.Evolve
		return s
	}
	return newRun(old.Base, old.Bonus)
}

// Project applies a reset of tier t to old and returns the new state. old is
// not modified.
func Project(t ResetTier, old *GameState, pristine BaseStats) *GameState {
	out := Fresh(t, old, pristine)
	switch t {
	case TierSoft:
		keepSoft(out, old)
	case TierRebirth:
		keepSoft(out, old)
		keepRebirth(out, old)
	case TierEvolve:
		keepSoft(out, old)
		keepRebirth(out, old)
		keepEvolve(out, old)
	}
	return out
}

func keepSoft(dst, src *GameState) {
	dst.Perks = clonePerks(src.Perks)
	dst.Stats = src.Stats
	dst.GoldMultiplier = src.GoldMultiplier
}

func keepRebirth(dst, src *GameState) {
	dst.Base = src.Base
	dst.Bonus = src.Bonus
	dst.Rebirth = src.Rebirth
	dst.Evolve = src.Evolve
}

// Evolve is paid in rebirths, so the gold pouch survives it.
func keepEvolve(dst, src *GameState) {
	dst.Gold = src.Gold
}

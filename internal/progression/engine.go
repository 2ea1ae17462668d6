// Package progression is the numeric state machine of the game: combat ticks,
// rewards, upgrade purchases, perks and the soft reset / rebirth / evolve
// hierarchy. It does no I/O; a loop drives it and a renderer reads it.
package progression

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"idlerpg/internal/config"
	"idlerpg/internal/telemetry"
)

// Recorder receives gameplay events. telemetry.MemoryRepository satisfies it.
type Recorder interface {
	RecordEvent(eventType telemetry.EventType, metadata telemetry.EventMetadata) error
}

type RebirthChoice int

const (
	RebirthDamageIncrease RebirthChoice = iota + 1
	RebirthAttackRateIncrease
	RebirthGoldMultiplier
)

func (c RebirthChoice) String() string {
	switch c {
	case RebirthDamageIncrease:
		return "damage-increase"
	case RebirthAttackRateIncrease:
		return "attack-rate-increase"
	case RebirthGoldMultiplier:
		return "gold-multiplier"
	}
	return fmt.Sprintf("rebirth-choice(%d)", int(c))
}

type EvolveChoice int

const (
	EvolveDamage EvolveChoice = iota + 1
	EvolveAttackRate
)

func (c EvolveChoice) String() string {
	switch c {
	case EvolveDamage:
		return "damage"
	case EvolveAttackRate:
		return "attack-rate"
	}
	return fmt.Sprintf("evolve-choice(%d)", int(c))
}

type Options struct {
	Balance  config.Balance
	Printer  *message.Printer
	Recorder Recorder
}

// Engine owns the current GameState and every operation that mutates it.
// It is not safe for concurrent use.
type Engine struct {
	state    *GameState
	balance  config.Balance
	pristine BaseStats
	printer  *message.Printer
	recorder Recorder
	status   string
}

// New returns an engine over state. A nil state starts a new game.
func New(state *GameState, opts Options) *Engine {
	if opts.Printer == nil {
		opts.Printer = message.NewPrinter(language.English)
	}
	e := &Engine{
		balance:  opts.Balance,
		pristine: NewBaseStats(opts.Balance),
		printer:  opts.Printer,
		recorder: opts.Recorder,
	}
	if state == nil {
		state = NewGameState(e.pristine)
	}
	e.state = state
	return e
}

// State is the live state. Callers must treat it as read-only.
func (e *Engine) State() *GameState { return e.state }

// Message is the status line set by the last reward, purchase or reset.
func (e *Engine) Message() string { return e.status }

func (e *Engine) Balance() config.Balance { return e.balance }

// Pristine is the balance base table with no perks or evolutions applied.
func (e *Engine) Pristine() BaseStats { return e.pristine }

// Replace swaps in a state, e.g. one loaded from disk.
func (e *Engine) Replace(s *GameState) {
	e.state = s
	e.status = ""
}

func (e *Engine) record(t telemetry.EventType, md telemetry.EventMetadata) {
	if e.recorder == nil {
		return
	}
	_ = e.recorder.RecordEvent(t, md)
}

func (e *Engine) say(format string, args ...any) {
	e.status = e.printer.Sprintf(format, args...)
}

// attackEpsilon absorbs the rounding of summed decimal steps: ten 0.1s steps
// add up to 0.99999999999999989, which must still land a 1s attack.
const attackEpsilon = 1e-9

// Advance moves the simulation forward by dt seconds. Every attack period that
// fits in the accumulated timer lands, so one long step equals many short ones.
func (e *Engine) Advance(dt float64) {
	s := e.state
	s.Stats.TimePlayed += dt
	s.RunTime += dt
	s.AttackTimer += dt

	period := 1 / s.AttackRate.Value
	for s.AttackTimer+attackEpsilon >= period {
		s.AttackTimer -= period
		s.Health -= s.Damage.Value
		e.resolveHealthThreshold()
	}
	if s.AttackTimer < 0 {
		s.AttackTimer = 0
	}
}

func (e *Engine) resolveHealthThreshold() {
	s := e.state
	if s.Health > 0 {
		return
	}
	reward := truncReward(float64(s.Level) * s.GoldMultiplier)
	s.Gold += reward
	s.Stats.TotalGoldEarned += reward
	s.Stats.TotalKills++
	e.record(telemetry.EventKill, telemetry.EventMetadata{"level": s.Level, "reward": reward})

	s.Level++
	if s.Level > s.Stats.HighestLevel {
		s.Stats.HighestLevel = s.Level
	}
	s.spawnEnemy()
	e.say("You earned %d gold!", reward)
}

// PurchaseUpgrade buys one step of target for amount if gold covers its cost.
// target must point into the engine's state. On failure nothing changes.
func (e *Engine) PurchaseUpgrade(target *Upgrade, amount float64) bool {
	s := e.state
	if s.Gold < target.Cost {
		return false
	}
	s.Gold -= target.Cost
	target.Buy(amount)
	s.clampAttackRate()
	e.trackDPS()
	return true
}

func (e *Engine) buy(name string, target *Upgrade, amount float64) bool {
	cost := target.Cost
	if !e.PurchaseUpgrade(target, amount) {
		e.say("Not enough gold: %s costs %d", name, cost)
		return false
	}
	e.record(telemetry.EventUpgradeBought, telemetry.EventMetadata{"upgrade": name, "cost": cost})
	e.say("%s upgraded to %.2f", name, target.Value)
	return true
}

// BuyDamage adds the damage-increase value to damage.
func (e *Engine) BuyDamage() bool {
	s := e.state
	return e.buy("Damage", &s.Damage, s.DamageIncrease.Value)
}

// BuyAttackRate adds the attack-rate-increase value to the attack rate, up to
// the base cap.
func (e *Engine) BuyAttackRate() bool {
	s := e.state
	if _, hi := s.Base.attackRateBounds(); s.AttackRate.Value >= hi {
		e.say("Attack rate is at its maximum")
		return false
	}
	return e.buy("Attack rate", &s.AttackRate, s.AttackRateIncrease.Value)
}

// BuyDamageIncrease needs PerkDamageIncrease.
func (e *Engine) BuyDamageIncrease() bool {
	s := e.state
	if !s.HasPerk(PerkDamageIncrease) {
		e.say("Damage increase upgrades are locked")
		return false
	}
	return e.buy("Damage increase", &s.DamageIncrease, s.Base.DamageIncreaseStep)
}

// BuyAttackRateIncrease needs PerkAttackRateIncrease.
func (e *Engine) BuyAttackRateIncrease() bool {
	s := e.state
	if !s.HasPerk(PerkAttackRateIncrease) {
		e.say("Attack rate increase upgrades are locked")
		return false
	}
	return e.buy("Attack rate increase", &s.AttackRateIncrease, s.Base.AttackRateIncreaseStep)
}

// CanRebirth reports whether Rebirth would succeed for any valid choice.
func (e *Engine) CanRebirth() bool {
	s := e.state
	return s.HasPerk(PerkRebirth) && s.Gold >= s.Rebirth.Cost
}

// PrepareRebirth is CanRebirth that explains a refusal in the status message.
func (e *Engine) PrepareRebirth() bool {
	s := e.state
	if !s.HasPerk(PerkRebirth) {
		e.say("Rebirth is locked")
		return false
	}
	if s.Gold < s.Rebirth.Cost {
		e.say("Not enough gold: rebirth costs %d", s.Rebirth.Cost)
		return false
	}
	return true
}

// Rebirth applies a permanent increment, buys one rebirth and resets the run
// from the base table. Returns false with no state change when the perk or
// gold is missing or the choice is unknown.
func (e *Engine) Rebirth(choice RebirthChoice) bool {
	if !e.PrepareRebirth() {
		return false
	}

	old := e.state.Clone()
	rb := e.balance.Rebirth
	switch choice {
	case RebirthDamageIncrease:
		old.Bonus.DamageIncrease += rb.DamageIncreaseBonus
	case RebirthAttackRateIncrease:
		old.Bonus.AttackRateIncrease += rb.AttackRateIncreaseBonus
	case RebirthGoldMultiplier:
		old.GoldMultiplier += rb.GoldMultiplierBonus
	default:
		e.say("Unknown rebirth choice")
		return false
	}
	old.Rebirth.Buy(1)
	if n := int(old.Rebirth.Value); n > old.Stats.HighestRebirth {
		old.Stats.HighestRebirth = n
	}

	e.state = Project(TierRebirth, old, e.pristine)
	e.trackDPS()
	e.record(telemetry.EventRebirth, telemetry.EventMetadata{"choice": choice.String(), "rebirths": int(old.Rebirth.Value)})
	e.say("Reborn! (%s) Rebirths: %d", choice, int(old.Rebirth.Value))
	return true
}

// CanEvolve reports whether Evolve would succeed for any valid choice.
func (e *Engine) CanEvolve() bool {
	s := e.state
	return s.HasPerk(PerkEvolve) && s.Rebirth.Value >= float64(s.Evolve.Cost)
}

// PrepareEvolve is CanEvolve that explains a refusal in the status message.
func (e *Engine) PrepareEvolve() bool {
	s := e.state
	if !s.HasPerk(PerkEvolve) {
		e.say("Evolve is locked")
		return false
	}
	if s.Rebirth.Value < float64(s.Evolve.Cost) {
		e.say("Evolving needs %d rebirths", s.Evolve.Cost)
		return false
	}
	return true
}

// Evolve permanently raises a base stat, buys one evolution and resets the
// run. Returns false with no state change when the perk or rebirth count is
// missing or the choice is unknown.
func (e *Engine) Evolve(choice EvolveChoice) bool {
	if !e.PrepareEvolve() {
		return false
	}

	old := e.state.Clone()
	ev := e.balance.Evolve
	switch choice {
	case EvolveDamage:
		old.Base.Damage.Value += ev.DamageBonus
	case EvolveAttackRate:
		old.Base.AttackRate.Value += ev.AttackRateBonus
	default:
		e.say("Unknown evolve choice")
		return false
	}
	old.Evolve.Buy(1)
	if n := int(old.Evolve.Value); n > old.Stats.HighestEvolve {
		old.Stats.HighestEvolve = n
	}

	e.state = Project(TierEvolve, old, e.pristine)
	e.trackDPS()
	e.record(telemetry.EventEvolve, telemetry.EventMetadata{"choice": choice.String(), "evolves": int(old.Evolve.Value)})
	e.say("Evolved! (%s) Evolutions: %d", choice, int(old.Evolve.Value))
	return true
}

// PurchasePerk buys the next rank of a perk. Returns false with no state
// change when the perk is unknown or maxed, prerequisites are unmet, or gold
// is short.
func (e *Engine) PurchasePerk(id PerkID) bool {
	s := e.state
	p, ok := PerkByID(id)
	if !ok {
		e.say("Unknown perk")
		return false
	}
	rank := s.Rank(id)
	if rank >= p.MaxRank {
		e.say("%s is already at max rank", p.Name)
		return false
	}
	if !p.Requires.Met(s) {
		e.say("%s needs level %d, %d rebirths, %d evolutions", p.Name, p.Requires.Level, p.Requires.Rebirths, p.Requires.Evolves)
		return false
	}
	cost := p.CostAt(rank)
	if s.Gold < cost {
		e.say("Not enough gold: %s costs %d", p.Name, cost)
		return false
	}

	s.Gold -= cost
	s.Perks[id] = rank + 1
	if p.Base != nil {
		p.Base(&s.Base)
	}
	if p.Live != nil {
		p.Live(s)
	}
	e.trackDPS()
	e.record(telemetry.EventPerkBought, telemetry.EventMetadata{"perk": string(id), "rank": rank + 1, "cost": cost})
	e.say("Bought %s (rank %d)", p.Name, rank+1)
	return true
}

// SoftReset discards everything except perks, counters and the gold multiplier.
func (e *Engine) SoftReset() bool {
	old := e.state.Clone()
	old.Stats.SoftResets++
	e.state = Project(TierSoft, old, e.pristine)
	e.record(telemetry.EventSoftReset, nil)
	e.say("Progress reset. Perks kept.")
	return true
}

// NewGame replaces the state with a brand new one.
func (e *Engine) NewGame() {
	e.state = NewGameState(e.pristine)
	e.record(telemetry.EventNewGame, nil)
	e.say("New game started")
}

func (e *Engine) trackDPS() {
	s := e.state
	if dps := s.DPS(); dps > s.Stats.HighestDPS {
		s.Stats.HighestDPS = dps
	}
}

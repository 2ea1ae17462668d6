package command

import (
	"log"

	"idlerpg/internal/progression"
)

type Mode string

const (
	ModePlay             Mode = "play"
	ModeRebirth          Mode = "rebirth"
	ModeEvolve           Mode = "evolve"
	ModePerks            Mode = "perks"
	ModeConfirmSoftReset Mode = "confirm-soft-reset"
	ModeConfirmNewGame   Mode = "confirm-new-game"
)

// Menu entries in slot order.
var (
	RebirthChoices = []progression.RebirthChoice{
		progression.RebirthDamageIncrease,
		progression.RebirthAttackRateIncrease,
		progression.RebirthGoldMultiplier,
	}
	EvolveChoices = []progression.EvolveChoice{
		progression.EvolveDamage,
		progression.EvolveAttackRate,
	}
)

// Result tells the loop what to do after a token.
type Result struct {
	Quit bool
	// Save asks for an immediate save: after a reset, a new game or on request.
	Save bool
}

type Controller struct {
	engine *progression.Engine
	mode   Mode
	logger *log.Logger
}

func NewController(engine *progression.Engine, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{engine: engine, mode: ModePlay, logger: logger}
}

func (c *Controller) Mode() Mode { return c.mode }

// Prompt is the instruction line for the current mode.
func (c *Controller) Prompt() string {
	switch c.mode {
	case ModeRebirth:
		return "Rebirth: pick a permanent bonus (1-3), x to cancel"
	case ModeEvolve:
		return "Evolve: pick a base stat (1-2), x to cancel"
	case ModePerks:
		return "Perks: pick a perk to buy (1-9), x to close"
	case ModeConfirmSoftReset:
		return "Soft reset keeps only perks and counters. Continue? y/n"
	case ModeConfirmNewGame:
		return "Start a new game and lose everything? y/n"
	}
	return "d damage  a attack rate  D/A increases  p perks  r rebirth  e evolve  s soft reset  n new game  w save  q quit"
}

// Handle applies one token. Quit is honored in every mode; the other tokens
// are ignored when they make no sense in the current mode.
func (c *Controller) Handle(tok Token) Result {
	switch tok.Kind {
	case KindQuit:
		return Result{Quit: true}
	case KindCancel:
		c.mode = ModePlay
		return Result{}
	case KindConfirmRebirth:
		return c.rebirth(tok.Rebirth)
	case KindConfirmEvolve:
		return c.evolve(tok.Evolve)
	case KindBuyPerk:
		c.engine.PurchasePerk(tok.Perk)
		return Result{}
	}

	switch c.mode {
	case ModePlay:
		return c.play(tok)
	case ModeRebirth:
		if tok.Kind == KindSelect && tok.Slot >= 1 && tok.Slot <= len(RebirthChoices) {
			return c.rebirth(RebirthChoices[tok.Slot-1])
		}
	case ModeEvolve:
		if tok.Kind == KindSelect && tok.Slot >= 1 && tok.Slot <= len(EvolveChoices) {
			return c.evolve(EvolveChoices[tok.Slot-1])
		}
	case ModePerks:
		if tok.Kind == KindOpenPerks {
			c.mode = ModePlay
			return Result{}
		}
		perks := progression.Perks()
		if tok.Kind == KindSelect && tok.Slot >= 1 && tok.Slot <= len(perks) {
			c.engine.PurchasePerk(perks[tok.Slot-1].ID)
		}
	case ModeConfirmSoftReset:
		return c.confirm(tok, func() Result {
			c.engine.SoftReset()
			c.logger.Printf("reset: %s at level %d", progression.TierSoft, c.engine.State().Stats.HighestLevel)
			return Result{Save: true}
		})
	case ModeConfirmNewGame:
		return c.confirm(tok, func() Result {
			c.engine.NewGame()
			c.logger.Printf("reset: new game")
			return Result{Save: true}
		})
	}
	return Result{}
}

func (c *Controller) play(tok Token) Result {
	switch tok.Kind {
	case KindBuyDamage:
		c.engine.BuyDamage()
	case KindBuyDamageIncrease:
		c.engine.BuyDamageIncrease()
	case KindBuyAttackRate:
		c.engine.BuyAttackRate()
	case KindBuyAttackRateIncrease:
		c.engine.BuyAttackRateIncrease()
	case KindStartRebirth:
		if c.engine.PrepareRebirth() {
			c.mode = ModeRebirth
		}
	case KindStartEvolve:
		if c.engine.PrepareEvolve() {
			c.mode = ModeEvolve
		}
	case KindOpenPerks:
		c.mode = ModePerks
	case KindSoftReset:
		c.mode = ModeConfirmSoftReset
	case KindNewGame:
		c.mode = ModeConfirmNewGame
	case KindSave:
		return Result{Save: true}
	}
	return Result{}
}

func (c *Controller) confirm(tok Token, do func() Result) Result {
	switch tok.Kind {
	case KindConfirm:
		c.mode = ModePlay
		return do()
	case KindSelect:
		return Result{}
	}
	c.mode = ModePlay
	return Result{}
}

func (c *Controller) rebirth(choice progression.RebirthChoice) Result {
	c.mode = ModePlay
	if !c.engine.Rebirth(choice) {
		return Result{}
	}
	s := c.engine.State()
	c.logger.Printf("reset: %s (%s), rebirths %d", progression.TierRebirth, choice, int(s.Rebirth.Value))
	return Result{Save: true}
}

func (c *Controller) evolve(choice progression.EvolveChoice) Result {
	c.mode = ModePlay
	if !c.engine.Evolve(choice) {
		return Result{}
	}
	s := c.engine.State()
	c.logger.Printf("reset: %s (%s), evolutions %d", progression.TierEvolve, choice, int(s.Evolve.Value))
	return Result{Save: true}
}

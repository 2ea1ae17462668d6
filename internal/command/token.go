// Package command turns player input tokens into engine operations. The
// Controller owns the modal menus (rebirth and evolve choices, the perk shop,
// reset confirmations) so the engine only ever sees complete requests.
package command

import (
	"fmt"

	"idlerpg/internal/progression"
)

type Kind string

const (
	KindBuyDamage             Kind = "buy-damage"
	KindBuyDamageIncrease     Kind = "buy-damage-increase"
	KindBuyAttackRate         Kind = "buy-attack-rate"
	KindBuyAttackRateIncrease Kind = "buy-attack-rate-increase"
	KindStartRebirth          Kind = "start-rebirth"
	KindConfirmRebirth        Kind = "confirm-rebirth"
	KindStartEvolve           Kind = "start-evolve"
	KindConfirmEvolve         Kind = "confirm-evolve"
	KindOpenPerks             Kind = "open-perks"
	KindBuyPerk               Kind = "buy-perk"
	KindSoftReset             Kind = "soft-reset"
	KindNewGame               Kind = "new-game"
	KindSave                  Kind = "save"
	KindSelect                Kind = "select"
	KindConfirm               Kind = "confirm"
	KindCancel                Kind = "cancel"
	KindQuit                  Kind = "quit"
)

// Token is one decoded player command. Only the payload field matching Kind
// is meaningful.
type Token struct {
	Kind    Kind
	Rebirth progression.RebirthChoice
	Evolve  progression.EvolveChoice
	Perk    progression.PerkID
	// Slot is the 1-based menu entry of a KindSelect token.
	Slot int
}

func (t Token) String() string {
	switch t.Kind {
	case KindConfirmRebirth:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Rebirth)
	case KindConfirmEvolve:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Evolve)
	case KindBuyPerk:
		return fmt.Sprintf("%s(%s)", t.Kind, t.Perk)
	case KindSelect:
		return fmt.Sprintf("%s(%d)", t.Kind, t.Slot)
	}
	return string(t.Kind)
}

func Of(k Kind) Token { return Token{Kind: k} }

func ConfirmRebirth(c progression.RebirthChoice) Token {
	return Token{Kind: KindConfirmRebirth, Rebirth: c}
}

func ConfirmEvolve(c progression.EvolveChoice) Token {
	return Token{Kind: KindConfirmEvolve, Evolve: c}
}

func BuyPerk(id progression.PerkID) Token {
	return Token{Kind: KindBuyPerk, Perk: id}
}

func Select(slot int) Token {
	return Token{Kind: KindSelect, Slot: slot}
}

// Package ui is the terminal front end: raw key decoding and a full-screen
// text frame redrawn on every loop tick.
package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"idlerpg/internal/command"
	"idlerpg/internal/progression"
)

const clearScreen = "\x1b[H\x1b[2J"

type Renderer struct {
	w       io.Writer
	printer *message.Printer
	// Clear homes the cursor and clears before each frame.
	Clear bool
}

func NewRenderer(w io.Writer, p *message.Printer) *Renderer {
	if p == nil {
		p = message.NewPrinter(language.English)
	}
	return &Renderer{w: w, printer: p, Clear: true}
}

// frame collects lines; raw mode needs explicit carriage returns.
type frame struct {
	b strings.Builder
	p *message.Printer
}

func (f *frame) line(format string, args ...any) {
	f.b.WriteString(f.p.Sprintf(format, args...))
	f.b.WriteString("\r\n")
}

func (f *frame) blank() { f.b.WriteString("\r\n") }

func (r *Renderer) Render(e *progression.Engine, c *command.Controller) error {
	f := &frame{p: r.printer}
	if r.Clear {
		f.b.WriteString(clearScreen)
	}
	s := e.State()

	f.line("Level %d   Enemy %.1f / %.1f HP", s.Level, max(s.Health, 0), s.MaxHealth)
	f.line("Gold %d   (x%.2f per kill)", s.Gold, s.GoldMultiplier)
	f.blank()
	f.line("[d] Damage            %.2f   +%.2f for %d gold", s.Damage.Value, s.DamageIncrease.Value, s.Damage.Cost)
	f.line("[a] Attack rate       %.2f/s +%.2f for %d gold", s.AttackRate.Value, s.AttackRateIncrease.Value, s.AttackRate.Cost)
	r.increaseLine(f, "[D] Damage increase  ", s, progression.PerkDamageIncrease, s.DamageIncrease, s.Base.DamageIncreaseStep)
	r.increaseLine(f, "[A] Attack rate incr.", s, progression.PerkAttackRateIncrease, s.AttackRateIncrease, s.Base.AttackRateIncreaseStep)
	f.line("DPS %.2f   best %.2f", s.DPS(), s.Stats.HighestDPS)
	f.blank()
	f.line("Rebirths %d (next costs %d gold)   Evolutions %d (next needs %d rebirths)",
		int(s.Rebirth.Value), s.Rebirth.Cost, int(s.Evolve.Value), s.Evolve.Cost)
	f.line("Kills %d   Highest level %d   Played %s", s.Stats.TotalKills, s.Stats.HighestLevel, playTime(s.Stats.TimePlayed))
	f.blank()

	r.menu(f, e, c.Mode())

	if msg := e.Message(); msg != "" {
		f.line("> %s", msg)
	} else {
		f.blank()
	}
	f.line("%s", c.Prompt())

	_, err := io.WriteString(r.w, f.b.String())
	return err
}

func (r *Renderer) increaseLine(f *frame, label string, s *progression.GameState, id progression.PerkID, u progression.Upgrade, step float64) {
	if !s.HasPerk(id) {
		p, _ := progression.PerkByID(id)
		f.line("%s %.2f   (locked: perk %s)", label, u.Value, p.Name)
		return
	}
	f.line("%s %.2f   +%.2f for %d gold", label, u.Value, step, u.Cost)
}

func (r *Renderer) menu(f *frame, e *progression.Engine, mode command.Mode) {
	bal := e.Balance()
	s := e.State()
	switch mode {
	case command.ModeRebirth:
		for i, choice := range command.RebirthChoices {
			var detail string
			switch choice {
			case progression.RebirthDamageIncrease:
				detail = f.p.Sprintf("+%.2f damage increase", bal.Rebirth.DamageIncreaseBonus)
			case progression.RebirthAttackRateIncrease:
				detail = f.p.Sprintf("+%.2f attack rate increase", bal.Rebirth.AttackRateIncreaseBonus)
			case progression.RebirthGoldMultiplier:
				detail = f.p.Sprintf("+%.2f gold multiplier", bal.Rebirth.GoldMultiplierBonus)
			}
			f.line("  %d. %s", i+1, detail)
		}
		f.blank()
	case command.ModeEvolve:
		for i, choice := range command.EvolveChoices {
			var detail string
			switch choice {
			case progression.EvolveDamage:
				detail = f.p.Sprintf("+%.2f base damage", bal.Evolve.DamageBonus)
			case progression.EvolveAttackRate:
				detail = f.p.Sprintf("+%.2f base attack rate", bal.Evolve.AttackRateBonus)
			}
			f.line("  %d. %s", i+1, detail)
		}
		f.blank()
	case command.ModePerks:
		for i, p := range progression.Perks() {
			rank := s.Rank(p.ID)
			price := "maxed"
			if rank < p.MaxRank {
				price = f.p.Sprintf("%d gold", p.CostAt(rank))
			}
			f.line("  %d. %-11s %d/%d  %-10s %s%s", i+1, p.Name, rank, p.MaxRank, price, p.Description, requirement(f.p, p.Requires, s))
		}
		f.blank()
	}
}

func requirement(p *message.Printer, req progression.Requirement, s *progression.GameState) string {
	if req.Met(s) {
		return ""
	}
	var parts []string
	if req.Level > 0 {
		parts = append(parts, p.Sprintf("level %d", req.Level))
	}
	if req.Rebirths > 0 {
		parts = append(parts, p.Sprintf("%d rebirths", req.Rebirths))
	}
	if req.Evolves > 0 {
		parts = append(parts, p.Sprintf("%d evolutions", req.Evolves))
	}
	return fmt.Sprintf(" (needs %s)", strings.Join(parts, ", "))
}

func playTime(seconds float64) string {
	return time.Duration(seconds * float64(time.Second)).Round(time.Second).String()
}

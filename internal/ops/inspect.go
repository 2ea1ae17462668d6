package ops

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"golang.org/x/text/message"

	"idlerpg/internal/progression"
	"idlerpg/internal/save"
)

// Summary is the human-facing digest of a save.
type Summary struct {
	Version        int
	Level          int
	Gold           int64
	GoldMultiplier float64
	Damage         float64
	AttackRate     float64
	Rebirths       int
	Evolves        int
	Perks          map[progression.PerkID]int
	Stats          progression.Stats
}

func Summarize(s *progression.GameState) Summary {
	perks := make(map[progression.PerkID]int, len(s.Perks))
	for id, rank := range s.Perks {
		perks[id] = rank
	}
	return Summary{
		Version:        s.Version,
		Level:          s.Level,
		Gold:           s.Gold,
		GoldMultiplier: s.GoldMultiplier,
		Damage:         s.Damage.Value,
		AttackRate:     s.AttackRate.Value,
		Rebirths:       int(s.Rebirth.Value),
		Evolves:        int(s.Evolve.Value),
		Perks:          perks,
		Stats:          s.Stats,
	}
}

// Inspect loads the save through st. A corrupt or mismatched save is moved
// aside by the store exactly as the game would on start.
func Inspect(ctx context.Context, st save.Store) (Summary, error) {
	s, err := st.Load(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(s), nil
}

func (s Summary) Write(w io.Writer, p *message.Printer) error {
	ids := make([]string, 0, len(s.Perks))
	for id := range s.Perks {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)

	lines := []string{
		p.Sprintf("version:        %d", s.Version),
		p.Sprintf("level:          %d (highest %d)", s.Level, s.Stats.HighestLevel),
		p.Sprintf("gold:           %d (x%.2f)", s.Gold, s.GoldMultiplier),
		p.Sprintf("damage:         %.2f", s.Damage),
		p.Sprintf("attack rate:    %.2f/s", s.AttackRate),
		p.Sprintf("rebirths:       %d", s.Rebirths),
		p.Sprintf("evolutions:     %d", s.Evolves),
		p.Sprintf("kills:          %d", s.Stats.TotalKills),
		p.Sprintf("gold earned:    %d", s.Stats.TotalGoldEarned),
		p.Sprintf("soft resets:    %d", s.Stats.SoftResets),
		p.Sprintf("played:         %s", time.Duration(s.Stats.TimePlayed*float64(time.Second)).Round(time.Second)),
	}
	for _, id := range ids {
		lines = append(lines, p.Sprintf("perk:           %s rank %d", id, s.Perks[progression.PerkID(id)]))
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

// Wipe moves the current save aside so the next start begins a new game.
func Wipe(ctx context.Context, st save.Store) (string, error) {
	return st.Discard(ctx)
}

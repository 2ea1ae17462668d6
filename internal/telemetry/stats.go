package telemetry

import (
	"encoding/json"
	"time"
)

// Stats summarises one play session.
type Stats struct {
	Since          time.Time         `json:"since"`
	EventCounts    map[EventType]int `json:"event_counts"`
	Kills          int               `json:"kills"`
	GoldEarned     int64             `json:"gold_earned"`
	GoldSpent      int64             `json:"gold_spent"`
	UpgradesByName map[string]int    `json:"upgrades_by_name"`
	PerksBought    map[string]int    `json:"perks_bought"`
	Rebirths       int               `json:"rebirths"`
	Evolves        int               `json:"evolves"`
	Saves          int               `json:"saves"`
	SaveFailures   int               `json:"save_failures"`
	KillsPerMinute float64           `json:"kills_per_minute"`
}

// CalculateStats computes session stats from events
func CalculateStats(events []Event, since, until time.Time) (Stats, error) {
	stats := Stats{
		Since:          since,
		EventCounts:    make(map[EventType]int),
		UpgradesByName: make(map[string]int),
		PerksBought:    make(map[string]int),
	}

	for _, event := range events {
		stats.EventCounts[event.Type]++

		var metadata EventMetadata
		if err := json.Unmarshal([]byte(event.Metadata), &metadata); err != nil {
			continue
		}

		switch event.Type {
		case EventKill:
			stats.Kills++
			stats.GoldEarned += metaInt(metadata, "reward")
		case EventUpgradeBought:
			if name, ok := metadata["upgrade"].(string); ok {
				stats.UpgradesByName[name]++
			}
			stats.GoldSpent += metaInt(metadata, "cost")
		case EventPerkBought:
			if id, ok := metadata["perk"].(string); ok {
				stats.PerksBought[id]++
			}
			stats.GoldSpent += metaInt(metadata, "cost")
		case EventRebirth:
			stats.Rebirths++
		case EventEvolve:
			stats.Evolves++
		case EventSaved:
			stats.Saves++
		case EventSaveFailed:
			stats.SaveFailures++
		}
	}

	if minutes := until.Sub(since).Minutes(); minutes > 0 {
		stats.KillsPerMinute = float64(stats.Kills) / minutes
	}

	return stats, nil
}

// json numbers decode as float64
func metaInt(m EventMetadata, key string) int64 {
	if v, ok := m[key].(float64); ok {
		return int64(v)
	}
	return 0
}

package telemetry

import "time"

type EventType string

const (
	EventKill          EventType = "kill"
	EventUpgradeBought EventType = "upgrade_bought"
	EventPerkBought    EventType = "perk_bought"
	EventRebirth       EventType = "rebirth"
	EventEvolve        EventType = "evolve"
	EventSoftReset     EventType = "soft_reset"
	EventNewGame       EventType = "new_game"
	EventSaved         EventType = "saved"
	EventSaveFailed    EventType = "save_failed"
)

type Event struct {
	ID        int       `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Metadata  string    `json:"metadata"`
}

type EventMetadata map[string]interface{}

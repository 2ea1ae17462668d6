package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_DropsOldestAtCapacity(t *testing.T) {
	repo := NewMemoryRepository(3)
	for i := 0; i < 5; i++ {
		require.NoError(t, repo.RecordEvent(EventKill, EventMetadata{"level": i}))
	}

	events, err := repo.GetEvents(time.Time{}, nil)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, 3, events[0].ID)
	assert.Equal(t, 5, events[2].ID)
}

func TestMemoryRepository_WrapsManyTimes(t *testing.T) {
	repo := NewMemoryRepository(4)
	for i := 0; i < 11; i++ {
		require.NoError(t, repo.RecordEvent(EventKill, nil))
	}

	events, err := repo.GetEvents(time.Time{}, nil)
	require.NoError(t, err)
	ids := make([]int, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []int{8, 9, 10, 11}, ids)

	require.NoError(t, repo.Clear())
	require.NoError(t, repo.RecordEvent(EventRebirth, nil))
	events, err = repo.GetEvents(time.Time{}, nil)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, 1, events[0].ID)
}

func TestMemoryRepository_FiltersByType(t *testing.T) {
	repo := NewMemoryRepository(0)
	require.NoError(t, repo.RecordEvent(EventKill, nil))
	require.NoError(t, repo.RecordEvent(EventRebirth, nil))
	require.NoError(t, repo.RecordEvent(EventKill, nil))

	events, err := repo.GetEvents(time.Time{}, []EventType{EventRebirth})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventRebirth, events[0].Type)

	require.NoError(t, repo.Clear())
	events, err = repo.GetEvents(time.Time{}, nil)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestCalculateStats(t *testing.T) {
	start := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	repo := NewMemoryRepository(0)
	repo.now = func() time.Time { return start }

	require.NoError(t, repo.RecordEvent(EventKill, EventMetadata{"reward": 3}))
	require.NoError(t, repo.RecordEvent(EventKill, EventMetadata{"reward": 4}))
	require.NoError(t, repo.RecordEvent(EventUpgradeBought, EventMetadata{"upgrade": "damage", "cost": 5}))
	require.NoError(t, repo.RecordEvent(EventPerkBought, EventMetadata{"perk": "can-rebirth", "cost": 500}))
	require.NoError(t, repo.RecordEvent(EventRebirth, EventMetadata{"choice": "gold-multiplier"}))
	require.NoError(t, repo.RecordEvent(EventSaved, nil))

	events, err := repo.GetEvents(start, nil)
	require.NoError(t, err)

	stats, err := CalculateStats(events, start, start.Add(2*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Kills)
	assert.Equal(t, int64(7), stats.GoldEarned)
	assert.Equal(t, int64(505), stats.GoldSpent)
	assert.Equal(t, 1, stats.UpgradesByName["damage"])
	assert.Equal(t, 1, stats.PerksBought["can-rebirth"])
	assert.Equal(t, 1, stats.Rebirths)
	assert.Equal(t, 1, stats.Saves)
	assert.InDelta(t, 1.0, stats.KillsPerMinute, 1e-9)
}

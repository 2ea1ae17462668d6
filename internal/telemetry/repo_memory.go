package telemetry

import (
	"encoding/json"
	"sync"
	"time"
)

// DefaultCapacity bounds a session log; kills alone can reach thousands per minute.
const DefaultCapacity = 10000

// Repository stores telemetry events
type Repository interface {
	RecordEvent(eventType EventType, metadata EventMetadata) error
	GetEvents(since time.Time, eventTypes []EventType) ([]Event, error)
	Clear() error
}

// MemoryRepository keeps the most recent events of the session in memory.
// Once full it overwrites the oldest event in place.
type MemoryRepository struct {
	mu       sync.RWMutex
	events   []Event
	head     int // index of the oldest event once the ring is full
	nextID   int
	capacity int
	now      func() time.Time
}

func NewMemoryRepository(capacity int) *MemoryRepository {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryRepository{
		events:   make([]Event, 0),
		nextID:   1,
		capacity: capacity,
		now:      time.Now,
	}
}

func (r *MemoryRepository) RecordEvent(eventType EventType, metadata EventMetadata) error {
	metadataJSON, err := json.Marshal(metadata)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	event := Event{
		ID:        r.nextID,
		Type:      eventType,
		Timestamp: r.now(),
		Metadata:  string(metadataJSON),
	}

	if len(r.events) < r.capacity {
		r.events = append(r.events, event)
	} else {
		r.events[r.head] = event
		r.head = (r.head + 1) % r.capacity
	}
	r.nextID++

	return nil
}

func (r *MemoryRepository) GetEvents(since time.Time, eventTypes []EventType) ([]Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	typeFilter := make(map[EventType]bool)
	for _, t := range eventTypes {
		typeFilter[t] = true
	}

	result := make([]Event, 0)
	for i := range r.events {
		event := r.events[(r.head+i)%len(r.events)]
		if event.Timestamp.Before(since) {
			continue
		}
		if len(eventTypes) > 0 && !typeFilter[event.Type] {
			continue
		}
		result = append(result, event)
	}

	return result, nil
}

func (r *MemoryRepository) Clear() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = make([]Event, 0)
	r.head = 0
	r.nextID = 1

	return nil
}

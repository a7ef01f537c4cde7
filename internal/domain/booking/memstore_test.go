package booking

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"trainer-manager/internal/timeutil"
)

// memStore is an in-memory Store for tests. It mirrors the Firestore repo's
// semantics: deterministic slot IDs, conflict check and write under one lock.
type memStore struct {
	mu         sync.Mutex
	slots      map[string]Slot
	patterns   map[string]Pattern
	patternSeq int
}

func newMemStore() *memStore {
	return &memStore{
		slots:    map[string]Slot{},
		patterns: map[string]Pattern{},
	}
}

func (m *memStore) BookSlot(_ context.Context, slot Slot) (*Slot, error) {
	startMin, err := timeutil.ToMinutes(slot.StartTime)
	if err != nil {
		return nil, err
	}
	endMin, err := timeutil.ToMinutes(slot.EndTime)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var booked []Slot
	for _, s := range m.slots {
		if s.Date == slot.Date && s.Status == StatusBooked {
			booked = append(booked, s)
		}
	}
	if conflicts := Overlapping(startMin, endMin, booked); len(conflicts) > 0 {
		return nil, &ConflictError{Conflicts: conflicts}
	}

	slot.ID = slot.DocID()
	m.slots[slot.ID] = slot
	return &slot, nil
}

func (m *memStore) CreateSlots(_ context.Context, _ string, slots []Slot) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	created := 0
	for _, slot := range slots {
		id := slot.DocID()
		if _, exists := m.slots[id]; exists {
			continue
		}
		slot.ID = id
		m.slots[id] = slot
		created++
	}
	return created, nil
}

func (m *memStore) GetSlot(_ context.Context, _ string, slotID string) (*Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	slot, ok := m.slots[slotID]
	if !ok {
		return nil, fmt.Errorf("%w: slot not found", ErrNotFound)
	}
	return &slot, nil
}

func (m *memStore) UpdateSlot(_ context.Context, _ string, slotID string, updates map[string]interface{}) (*Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	slot, ok := m.slots[slotID]
	if !ok {
		return nil, fmt.Errorf("%w: slot not found", ErrNotFound)
	}
	for k, v := range updates {
		switch k {
		case "status":
			slot.Status = Status(v.(string))
		case "cancelReason":
			slot.CancelReason = v.(string)
		case "cancelledAt":
			t := v.(time.Time)
			slot.CancelledAt = &t
		case "updatedAt":
			slot.UpdatedAt = v.(time.Time)
		}
	}
	m.slots[slotID] = slot
	return &slot, nil
}

func (m *memStore) ListSlots(_ context.Context, _ string, input ListSlotsInput) ([]Slot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []Slot{}
	for _, s := range m.slots {
		if input.Date != "" && s.Date != input.Date {
			continue
		}
		if input.FromDate != "" && s.Date < input.FromDate {
			continue
		}
		if input.ToDate != "" && s.Date > input.ToDate {
			continue
		}
		if input.Status != "" && s.Status != input.Status {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Date != out[j].Date {
			return out[i].Date < out[j].Date
		}
		return out[i].StartTime < out[j].StartTime
	})
	return out, nil
}

func (m *memStore) ListBookedByDate(ctx context.Context, trainerID, date string) ([]Slot, error) {
	return m.ListSlots(ctx, trainerID, ListSlotsInput{Date: date, Status: StatusBooked})
}

func (m *memStore) ListByDateRange(ctx context.Context, trainerID, from, to string) ([]Slot, error) {
	return m.ListSlots(ctx, trainerID, ListSlotsInput{FromDate: from, ToDate: to})
}

func (m *memStore) CreatePattern(_ context.Context, trainerID string, p Pattern) (*Pattern, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.ID == "" {
		m.patternSeq++
		p.ID = fmt.Sprintf("pattern-%d", m.patternSeq)
	}
	p.TrainerID = trainerID
	m.patterns[p.ID] = p
	return &p, nil
}

func (m *memStore) GetPattern(_ context.Context, _ string, patternID string) (*Pattern, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.patterns[patternID]
	if !ok {
		return nil, fmt.Errorf("%w: recurring pattern not found", ErrNotFound)
	}
	return &p, nil
}

func (m *memStore) UpdatePattern(_ context.Context, _ string, patternID string, updates map[string]interface{}) (*Pattern, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.patterns[patternID]
	if !ok {
		return nil, fmt.Errorf("%w: recurring pattern not found", ErrNotFound)
	}
	for k, v := range updates {
		switch k {
		case "isActive":
			p.IsActive = v.(bool)
		case "generatedSlotIds":
			p.GeneratedSlotIDs = v.([]string)
		case "nextGeneration":
			p.NextGeneration = v.(string)
		case "updatedAt":
			p.UpdatedAt = v.(time.Time)
		}
	}
	m.patterns[patternID] = p
	return &p, nil
}

func (m *memStore) ListPatterns(_ context.Context, _ string, activeOnly bool) ([]Pattern, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []Pattern{}
	for _, p := range m.patterns {
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

package booking

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"trainer-manager/internal/timeutil"
)

// Repo persists slots and recurring patterns under a trainer's document.
type Repo struct {
	fs *firestore.Client
}

func NewRepo(fs *firestore.Client) *Repo {
	return &Repo{fs: fs}
}

func (r *Repo) slotsCol(trainerID string) *firestore.CollectionRef {
	return r.fs.Collection("trainers").Doc(trainerID).Collection("slots")
}

func (r *Repo) patternsCol(trainerID string) *firestore.CollectionRef {
	return r.fs.Collection("trainers").Doc(trainerID).Collection("recurringBookings")
}

// BookSlot writes a booked slot. The conflict check and the write run inside
// one Firestore transaction, so two racing requests for overlapping windows
// cannot both commit. On overlap the transaction aborts with a ConflictError
// carrying the offending slots.
func (r *Repo) BookSlot(ctx context.Context, slot Slot) (*Slot, error) {
	startMin, err := timeutil.ToMinutes(slot.StartTime)
	if err != nil {
		return nil, err
	}
	endMin, err := timeutil.ToMinutes(slot.EndTime)
	if err != nil {
		return nil, err
	}

	ref := r.slotsCol(slot.TrainerID).Doc(slot.DocID())
	slot.ID = ref.ID

	err = r.fs.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		q := r.slotsCol(slot.TrainerID).
			Where("date", "==", slot.Date).
			Where("status", "==", string(StatusBooked))

		docs, err := tx.Documents(q).GetAll()
		if err != nil {
			return fmt.Errorf("failed to read booked slots: %w", err)
		}

		var booked []Slot
		for _, doc := range docs {
			var s Slot
			if err := doc.DataTo(&s); err != nil {
				continue
			}
			s.ID = doc.Ref.ID
			booked = append(booked, s)
		}

		if conflicts := Overlapping(startMin, endMin, booked); len(conflicts) > 0 {
			return &ConflictError{Conflicts: conflicts}
		}

		// A generated available slot may already hold this document ID;
		// booking claims it. Otherwise the create is conditional on the ID
		// being free.
		if snap, _ := tx.Get(ref); snap != nil && snap.Exists() {
			return tx.Set(ref, slot)
		}
		return tx.Create(ref, slot)
	})
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

// CreateSlots writes generated slots in one atomic batch, skipping dates
// already covered by an existing document. The writes are conditional
// creates: a booking that lands on one of the IDs between the existence
// check and the commit fails the batch instead of being overwritten.
// Generation is idempotent, so the caller can simply retry. Returns the
// number created.
func (r *Repo) CreateSlots(ctx context.Context, trainerID string, slots []Slot) (int, error) {
	batch := r.fs.Batch()
	created := 0

	for _, slot := range slots {
		ref := r.slotsCol(trainerID).Doc(slot.DocID())
		if snap, _ := ref.Get(ctx); snap != nil && snap.Exists() {
			continue
		}
		slot.ID = ref.ID
		batch.Create(ref, slot)
		created++
	}

	if created == 0 {
		return 0, nil
	}
	if _, err := batch.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to write generated slots: %w", err)
	}
	return created, nil
}

// GetSlot retrieves a slot by ID.
func (r *Repo) GetSlot(ctx context.Context, trainerID, slotID string) (*Slot, error) {
	doc, err := r.slotsCol(trainerID).Doc(slotID).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: slot not found", ErrNotFound)
	}

	var slot Slot
	if err := doc.DataTo(&slot); err != nil {
		return nil, fmt.Errorf("failed to parse slot: %w", err)
	}
	slot.ID = doc.Ref.ID
	slot.TrainerID = trainerID
	return &slot, nil
}

// UpdateSlot applies a partial update and returns the fresh document.
func (r *Repo) UpdateSlot(ctx context.Context, trainerID, slotID string, updates map[string]interface{}) (*Slot, error) {
	ref := r.slotsCol(trainerID).Doc(slotID)
	if _, err := ref.Set(ctx, updates, firestore.MergeAll); err != nil {
		return nil, fmt.Errorf("failed to update slot: %w", err)
	}
	return r.GetSlot(ctx, trainerID, slotID)
}

// ListSlots lists slots with optional date/status filters.
func (r *Repo) ListSlots(ctx context.Context, trainerID string, input ListSlotsInput) ([]Slot, error) {
	q := r.slotsCol(trainerID).Query

	if input.Date != "" {
		q = q.Where("date", "==", input.Date)
	}
	if input.FromDate != "" {
		q = q.Where("date", ">=", input.FromDate)
	}
	if input.ToDate != "" {
		q = q.Where("date", "<=", input.ToDate)
	}
	if input.Status != "" {
		q = q.Where("status", "==", string(input.Status))
	}

	limit := input.Limit
	if limit <= 0 || limit > 500 {
		limit = 200
	}
	q = q.OrderBy("date", firestore.Asc).OrderBy("startTime", firestore.Asc).Limit(limit)

	return r.collectSlots(trainerID, q.Documents(ctx))
}

// ListBookedByDate returns the trainer's booked slots for one date.
func (r *Repo) ListBookedByDate(ctx context.Context, trainerID, date string) ([]Slot, error) {
	q := r.slotsCol(trainerID).
		Where("date", "==", date).
		Where("status", "==", string(StatusBooked))

	return r.collectSlots(trainerID, q.Documents(ctx))
}

// ListByDateRange returns all slots dated within [from, to].
func (r *Repo) ListByDateRange(ctx context.Context, trainerID, from, to string) ([]Slot, error) {
	q := r.slotsCol(trainerID).
		Where("date", ">=", from).
		Where("date", "<=", to).
		OrderBy("date", firestore.Asc)

	return r.collectSlots(trainerID, q.Documents(ctx))
}

func (r *Repo) collectSlots(trainerID string, iter *firestore.DocumentIterator) ([]Slot, error) {
	defer iter.Stop()

	slots := []Slot{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate slots: %w", err)
		}

		var slot Slot
		if err := doc.DataTo(&slot); err != nil {
			continue
		}
		slot.ID = doc.Ref.ID
		slot.TrainerID = trainerID
		slots = append(slots, slot)
	}
	return slots, nil
}

// CreatePattern persists a new recurring booking pattern.
func (r *Repo) CreatePattern(ctx context.Context, trainerID string, p Pattern) (*Pattern, error) {
	ref := r.patternsCol(trainerID).Doc(p.ID)
	if p.ID == "" {
		ref = r.patternsCol(trainerID).NewDoc()
		p.ID = ref.ID
	}
	p.TrainerID = trainerID

	if _, err := ref.Set(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create recurring pattern: %w", err)
	}
	return &p, nil
}

// GetPattern retrieves a pattern by ID.
func (r *Repo) GetPattern(ctx context.Context, trainerID, patternID string) (*Pattern, error) {
	doc, err := r.patternsCol(trainerID).Doc(patternID).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: recurring pattern not found", ErrNotFound)
	}

	var p Pattern
	if err := doc.DataTo(&p); err != nil {
		return nil, fmt.Errorf("failed to parse recurring pattern: %w", err)
	}
	p.ID = doc.Ref.ID
	p.TrainerID = trainerID
	return &p, nil
}

// UpdatePattern applies a partial update and returns the fresh document.
func (r *Repo) UpdatePattern(ctx context.Context, trainerID, patternID string, updates map[string]interface{}) (*Pattern, error) {
	ref := r.patternsCol(trainerID).Doc(patternID)
	if _, err := ref.Set(ctx, updates, firestore.MergeAll); err != nil {
		return nil, fmt.Errorf("failed to update recurring pattern: %w", err)
	}
	return r.GetPattern(ctx, trainerID, patternID)
}

// ListPatterns lists the trainer's recurring patterns.
func (r *Repo) ListPatterns(ctx context.Context, trainerID string, activeOnly bool) ([]Pattern, error) {
	q := r.patternsCol(trainerID).Query
	if activeOnly {
		q = q.Where("isActive", "==", true)
	}

	iter := q.Documents(ctx)
	defer iter.Stop()

	patterns := []Pattern{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate recurring patterns: %w", err)
		}

		var p Pattern
		if err := doc.DataTo(&p); err != nil {
			continue
		}
		p.ID = doc.Ref.ID
		p.TrainerID = trainerID
		patterns = append(patterns, p)
	}
	return patterns, nil
}

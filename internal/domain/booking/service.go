package booking

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"trainer-manager/internal/domain/availability"
	"trainer-manager/internal/timeutil"
)

// Store is the persistence boundary for slots and recurring patterns. *Repo
// is the Firestore implementation; tests substitute an in-memory fake.
type Store interface {
	BookSlot(ctx context.Context, slot Slot) (*Slot, error)
	CreateSlots(ctx context.Context, trainerID string, slots []Slot) (int, error)
	GetSlot(ctx context.Context, trainerID, slotID string) (*Slot, error)
	UpdateSlot(ctx context.Context, trainerID, slotID string, updates map[string]interface{}) (*Slot, error)
	ListSlots(ctx context.Context, trainerID string, input ListSlotsInput) ([]Slot, error)
	ListBookedByDate(ctx context.Context, trainerID, date string) ([]Slot, error)
	CreatePattern(ctx context.Context, trainerID string, p Pattern) (*Pattern, error)
	GetPattern(ctx context.Context, trainerID, patternID string) (*Pattern, error)
	UpdatePattern(ctx context.Context, trainerID, patternID string, updates map[string]interface{}) (*Pattern, error)
	ListPatterns(ctx context.Context, trainerID string, activeOnly bool) ([]Pattern, error)
}

type Service struct {
	store        Store
	horizonWeeks int
	now          func() time.Time
}

func NewService(store Store, horizonWeeks int) *Service {
	if horizonWeeks <= 0 {
		horizonWeeks = DefaultHorizonWeeks
	}
	return &Service{store: store, horizonWeeks: horizonWeeks, now: time.Now}
}

// SetNowFunc overrides the time source, for tests.
func (s *Service) SetNowFunc(now func() time.Time) {
	s.now = now
}

// GenerateForRule materializes available slots for a rule over the forward
// horizon. Slot documents are keyed on (date, startTime), so re-running
// generation never duplicates dates already covered, and the batch write is
// atomic. Implements availability.SlotGenerator.
func (s *Service) GenerateForRule(ctx context.Context, rule availability.Rule) (int, error) {
	slots, err := SlotsForRule(rule, s.now().UTC(), s.horizonWeeks)
	if err != nil {
		return 0, err
	}
	if len(slots) == 0 {
		return 0, nil
	}
	return s.store.CreateSlots(ctx, rule.TrainerID, slots)
}

// FindConflicts returns every booked slot that overlaps the proposed window.
// Pure query; booking itself re-checks inside the store transaction.
func (s *Service) FindConflicts(ctx context.Context, trainerID, date, startTime string, duration int) ([]Slot, error) {
	if trainerID == "" {
		return nil, fmt.Errorf("%w: trainerId is required", ErrBadRequest)
	}
	if _, err := time.Parse(dateLayout, date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrBadRequest)
	}
	startMin, err := timeutil.ToMinutes(startTime)
	if err != nil {
		return nil, err
	}
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", timeutil.ErrInvalidRange)
	}
	// Same boundary as Book: a session ending exactly at midnight is out.
	endMin := startMin + duration
	if endMin >= timeutil.MinutesPerDay {
		return nil, fmt.Errorf("%w: session may not cross midnight", timeutil.ErrInvalidRange)
	}

	booked, err := s.store.ListBookedByDate(ctx, trainerID, date)
	if err != nil {
		return nil, err
	}
	return Overlapping(startMin, endMin, booked), nil
}

// Book turns a validated booking request into a booked slot. The overlap
// check and the write are atomic in the store, so a race between two
// requests for the same window cannot double-book. A recurrence option
// additionally creates a standing pattern; that follow-up is best-effort and
// its failure does not unwind the booking.
func (s *Service) Book(ctx context.Context, trainerID string, in BookSlotInput) (*Slot, error) {
	if trainerID == "" {
		return nil, fmt.Errorf("%w: trainerId is required", ErrBadRequest)
	}
	if in.TraineeID == "" {
		return nil, fmt.Errorf("%w: traineeId is required", ErrBadRequest)
	}
	if _, err := time.Parse(dateLayout, in.Date); err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrBadRequest)
	}
	if _, err := timeutil.ToMinutes(in.StartTime); err != nil {
		return nil, err
	}
	if in.Duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", timeutil.ErrInvalidRange)
	}
	endTime, overflow, err := timeutil.AddMinutes(in.StartTime, in.Duration)
	if err != nil {
		return nil, err
	}
	if overflow {
		return nil, fmt.Errorf("%w: session may not cross midnight", timeutil.ErrInvalidRange)
	}
	if in.Recurrence != nil {
		if err := validateRecurrence(*in.Recurrence); err != nil {
			return nil, err
		}
	}

	now := s.now().UTC()
	slot := Slot{
		TrainerID:   trainerID,
		TraineeID:   in.TraineeID,
		Date:        in.Date,
		StartTime:   in.StartTime,
		EndTime:     endTime,
		Duration:    in.Duration,
		Status:      StatusBooked,
		SessionType: in.SessionType,
		Price:       in.Price,
		Currency:    in.Currency,
		Location:    in.Location,
		IsRemote:    in.IsRemote,
		Notes:       in.Notes,
		BookedAt:    &now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	var patternID string
	if in.Recurrence != nil {
		patternID = uuid.NewString()
		slot.RecurringID = patternID
	}

	booked, err := s.store.BookSlot(ctx, slot)
	if err != nil {
		return nil, err
	}

	if in.Recurrence != nil {
		if _, err := s.createPattern(ctx, trainerID, *in.Recurrence, booked, patternID); err != nil {
			log.Printf("booking %s: recurring pattern creation failed: %v", booked.ID, err)
		}
	}
	return booked, nil
}

// Cancel marks a booked slot cancelled. Cancelling an already-cancelled slot
// is a no-op, so retries are safe. The row is never deleted.
func (s *Service) Cancel(ctx context.Context, trainerID, slotID, reason string) (*Slot, error) {
	slot, err := s.getSlot(ctx, trainerID, slotID)
	if err != nil {
		return nil, err
	}
	if slot.Status == StatusCancelled {
		return slot, nil
	}
	if !CanTransition(slot.Status, StatusCancelled) {
		return nil, fmt.Errorf("%w: cannot cancel a %s slot", ErrBadRequest, slot.Status)
	}

	now := s.now().UTC()
	return s.store.UpdateSlot(ctx, trainerID, slotID, map[string]interface{}{
		"status":       string(StatusCancelled),
		"cancelReason": reason,
		"cancelledAt":  now,
		"updatedAt":    now,
	})
}

// Complete marks a booked slot completed.
func (s *Service) Complete(ctx context.Context, trainerID, slotID string) (*Slot, error) {
	return s.transition(ctx, trainerID, slotID, StatusCompleted)
}

// Block takes an open slot off the market.
func (s *Service) Block(ctx context.Context, trainerID, slotID string) (*Slot, error) {
	return s.transition(ctx, trainerID, slotID, StatusBlocked)
}

// Unblock reopens a blocked slot.
func (s *Service) Unblock(ctx context.Context, trainerID, slotID string) (*Slot, error) {
	return s.transition(ctx, trainerID, slotID, StatusAvailable)
}

func (s *Service) transition(ctx context.Context, trainerID, slotID string, to Status) (*Slot, error) {
	slot, err := s.getSlot(ctx, trainerID, slotID)
	if err != nil {
		return nil, err
	}
	if !CanTransition(slot.Status, to) {
		return nil, fmt.Errorf("%w: cannot move a %s slot to %s", ErrBadRequest, slot.Status, to)
	}
	return s.store.UpdateSlot(ctx, trainerID, slotID, map[string]interface{}{
		"status":    string(to),
		"updatedAt": s.now().UTC(),
	})
}

func (s *Service) getSlot(ctx context.Context, trainerID, slotID string) (*Slot, error) {
	if trainerID == "" || slotID == "" {
		return nil, fmt.Errorf("%w: trainerId and slotId are required", ErrBadRequest)
	}
	return s.store.GetSlot(ctx, trainerID, slotID)
}

// ListSlots lists the trainer's slots with optional filters.
func (s *Service) ListSlots(ctx context.Context, trainerID string, input ListSlotsInput) ([]Slot, error) {
	if trainerID == "" {
		return nil, fmt.Errorf("%w: trainerId is required", ErrBadRequest)
	}
	if input.Status != "" && !input.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrBadRequest, input.Status)
	}
	return s.store.ListSlots(ctx, trainerID, input)
}

// ListPatterns lists the trainer's recurring booking patterns.
func (s *Service) ListPatterns(ctx context.Context, trainerID string, activeOnly bool) ([]Pattern, error) {
	if trainerID == "" {
		return nil, fmt.Errorf("%w: trainerId is required", ErrBadRequest)
	}
	return s.store.ListPatterns(ctx, trainerID, activeOnly)
}

// CancelPattern deactivates a recurring series and cancels its not-yet-held
// booked slots. Deactivating an inactive pattern is a no-op.
func (s *Service) CancelPattern(ctx context.Context, trainerID, patternID string) (*Pattern, error) {
	if trainerID == "" || patternID == "" {
		return nil, fmt.Errorf("%w: trainerId and patternId are required", ErrBadRequest)
	}
	pattern, err := s.store.GetPattern(ctx, trainerID, patternID)
	if err != nil {
		return nil, err
	}
	if !pattern.IsActive {
		return pattern, nil
	}

	today := s.now().UTC().Format(dateLayout)
	for _, slotID := range pattern.GeneratedSlotIDs {
		slot, err := s.store.GetSlot(ctx, trainerID, slotID)
		if err != nil {
			continue
		}
		if slot.Date >= today && slot.Status == StatusBooked {
			if _, err := s.Cancel(ctx, trainerID, slotID, "recurring series cancelled"); err != nil {
				log.Printf("pattern %s: failed to cancel slot %s: %v", patternID, slotID, err)
			}
		}
	}

	return s.store.UpdatePattern(ctx, trainerID, patternID, map[string]interface{}{
		"isActive":  false,
		"updatedAt": s.now().UTC(),
	})
}

// AdvancePatterns materializes booked slots for every active pattern up to
// the forward horizon. Occurrences that would conflict with an existing
// booking are skipped. Exhausted patterns are deactivated. Returns the number
// of slots created. Intended to be invoked on demand (route or cron); there
// is no in-process background scheduler.
func (s *Service) AdvancePatterns(ctx context.Context, trainerID string) (int, error) {
	if trainerID == "" {
		return 0, fmt.Errorf("%w: trainerId is required", ErrBadRequest)
	}

	patterns, err := s.store.ListPatterns(ctx, trainerID, true)
	if err != nil {
		return 0, err
	}

	now := s.now().UTC()
	today := now.Format(dateLayout)
	horizonEnd := now.AddDate(0, 0, s.horizonWeeks*7).Format(dateLayout)

	total := 0
	for _, p := range patterns {
		if p.Exhausted(today) {
			if _, err := s.store.UpdatePattern(ctx, trainerID, p.ID, map[string]interface{}{
				"isActive":  false,
				"updatedAt": now,
			}); err != nil {
				log.Printf("pattern %s: failed to deactivate: %v", p.ID, err)
			}
			continue
		}

		from := p.NextGeneration
		if from == "" || from < today {
			from = today
		}

		generated := append([]string{}, p.GeneratedSlotIDs...)
		for _, date := range PatternDates(p, from, horizonEnd) {
			if p.MaxOccurrences > 0 && len(generated) >= p.MaxOccurrences {
				break
			}

			slot := Slot{
				TrainerID:   trainerID,
				TraineeID:   p.TraineeID,
				Date:        date,
				StartTime:   p.StartTime,
				EndTime:     p.EndTime,
				Duration:    p.Duration,
				Status:      StatusBooked,
				SessionType: p.SessionType,
				RecurringID: p.ID,
				BookedAt:    &now,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			created, err := s.store.BookSlot(ctx, slot)
			if err != nil {
				if IsErrSlotConflict(err) {
					log.Printf("pattern %s: skipping %s %s, window already booked", p.ID, date, p.StartTime)
					continue
				}
				return total, err
			}
			generated = append(generated, created.ID)
			total++
		}

		next := dayAfter(horizonEnd)
		if _, err := s.store.UpdatePattern(ctx, trainerID, p.ID, map[string]interface{}{
			"generatedSlotIds": generated,
			"nextGeneration":   next,
			"updatedAt":        now,
		}); err != nil {
			return total, err
		}
	}
	return total, nil
}

func (s *Service) createPattern(ctx context.Context, trainerID string, rec RecurrenceInput, first *Slot, patternID string) (*Pattern, error) {
	now := s.now().UTC()

	interval := rec.Interval
	if interval <= 0 {
		interval = 1
	}
	days := rec.DaysOfWeek
	if len(days) == 0 {
		d, err := time.Parse(dateLayout, first.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: bad first booking date", ErrBadRequest)
		}
		days = []int{int(d.Weekday())}
	}

	pattern := Pattern{
		ID:               patternID,
		TrainerID:        trainerID,
		TraineeID:        first.TraineeID,
		Frequency:        rec.Frequency,
		Interval:         interval,
		DaysOfWeek:       days,
		StartTime:        first.StartTime,
		EndTime:          first.EndTime,
		Duration:         first.Duration,
		SessionType:      first.SessionType,
		StartDate:        first.Date,
		EndDate:          rec.EndDate,
		MaxOccurrences:   rec.MaxOccurrences,
		GeneratedSlotIDs: []string{first.ID},
		NextGeneration:   dayAfter(first.Date),
		IsActive:         true,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	return s.store.CreatePattern(ctx, trainerID, pattern)
}

func validateRecurrence(rec RecurrenceInput) error {
	if !IsValidFrequency(rec.Frequency) {
		return fmt.Errorf("%w: frequency must be one of: daily, weekly, biweekly, monthly", ErrBadRequest)
	}
	if rec.EndDate != "" && rec.MaxOccurrences > 0 {
		return fmt.Errorf("%w: set endDate or maxOccurrences, not both", ErrBadRequest)
	}
	if rec.EndDate != "" {
		if _, err := time.Parse(dateLayout, rec.EndDate); err != nil {
			return fmt.Errorf("%w: endDate must be YYYY-MM-DD", ErrBadRequest)
		}
	}
	for _, d := range rec.DaysOfWeek {
		if d < 0 || d > 6 {
			return fmt.Errorf("%w: daysOfWeek values must be 0-6", ErrBadRequest)
		}
	}
	return nil
}

func dayAfter(date string) string {
	d, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	return d.AddDate(0, 0, 1).Format(dateLayout)
}

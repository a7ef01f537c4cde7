package availability

import (
	"context"
	"fmt"
	"time"

	"trainer-manager/internal/timeutil"
)

// Store is the persistence boundary for availability rules. *Repo is the
// Firestore implementation; tests substitute an in-memory fake.
type Store interface {
	Create(ctx context.Context, trainerID string, rule Rule) (*Rule, error)
	Get(ctx context.Context, trainerID, ruleID string) (*Rule, error)
	Update(ctx context.Context, trainerID, ruleID string, updates map[string]interface{}) (*Rule, error)
	ListActive(ctx context.Context, trainerID string) ([]Rule, error)
	ListByDay(ctx context.Context, trainerID string, dayOfWeek int) ([]Rule, error)
}

// SlotGenerator materializes concrete bookable slots from a rule. Implemented
// by the booking service; injected after construction to avoid a dependency
// cycle (booking already depends on availability for the Rule type).
type SlotGenerator interface {
	GenerateForRule(ctx context.Context, rule Rule) (int, error)
}

type Service struct {
	store Store
	gen   SlotGenerator
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// SetSlotGenerator wires the slot generator used after rule creation.
func (s *Service) SetSlotGenerator(gen SlotGenerator) {
	s.gen = gen
}

// SetNowFunc overrides the time source, for tests.
func (s *Service) SetNowFunc(now func() time.Time) {
	s.now = now
}

// Create validates and persists a new rule, then generates bookable slots
// for the forward horizon.
func (s *Service) Create(ctx context.Context, trainerID string, in CreateRuleInput) (*Rule, error) {
	if trainerID == "" {
		return nil, fmt.Errorf("%w: trainerId is required", ErrBadRequest)
	}
	if err := s.validateCreateInput(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	recurrence := in.Recurrence
	if recurrence == "" {
		recurrence = RecurrenceWeekly
	}

	rule := Rule{
		TrainerID:     trainerID,
		DayOfWeek:     in.DayOfWeek,
		StartTime:     in.StartTime,
		EndTime:       in.EndTime,
		SessionTypes:  in.SessionTypes,
		Recurrence:    recurrence,
		RecurrenceEnd: in.RecurrenceEnd,
		MaxBookings:   in.MaxBookings,
		Location:      in.Location,
		IsRemote:      in.IsRemote,
		IsAvailable:   true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	created, err := s.store.Create(ctx, trainerID, rule)
	if err != nil {
		return nil, err
	}

	if s.gen != nil {
		if _, err := s.gen.GenerateForRule(ctx, *created); err != nil {
			return nil, fmt.Errorf("rule %s created but slot generation failed: %w", created.ID, err)
		}
	}
	return created, nil
}

// Get retrieves one rule.
func (s *Service) Get(ctx context.Context, trainerID, ruleID string) (*Rule, error) {
	if trainerID == "" || ruleID == "" {
		return nil, fmt.Errorf("%w: trainerId and ruleId are required", ErrBadRequest)
	}
	return s.store.Get(ctx, trainerID, ruleID)
}

// ListForTrainer returns the trainer's active rules ordered by
// (dayOfWeek, startTime).
func (s *Service) ListForTrainer(ctx context.Context, trainerID string) ([]Rule, error) {
	if trainerID == "" {
		return nil, fmt.Errorf("%w: trainerId is required", ErrBadRequest)
	}
	return s.store.ListActive(ctx, trainerID)
}

// ListByDay returns the trainer's active rules for one weekday.
func (s *Service) ListByDay(ctx context.Context, trainerID string, dayOfWeek int) ([]Rule, error) {
	if trainerID == "" {
		return nil, fmt.Errorf("%w: trainerId is required", ErrBadRequest)
	}
	if dayOfWeek < 0 || dayOfWeek > 6 {
		return nil, fmt.Errorf("%w: dayOfWeek must be 0-6", ErrBadRequest)
	}
	return s.store.ListByDay(ctx, trainerID, dayOfWeek)
}

// Update applies a partial update to a rule. Setting isAvailable=false
// soft-disables the rule; history referencing it stays intact.
func (s *Service) Update(ctx context.Context, trainerID, ruleID string, in UpdateRuleInput) (*Rule, error) {
	if trainerID == "" || ruleID == "" {
		return nil, fmt.Errorf("%w: trainerId and ruleId are required", ErrBadRequest)
	}

	current, err := s.store.Get(ctx, trainerID, ruleID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"updatedAt": s.now().UTC(),
	}

	start := current.StartTime
	end := current.EndTime
	if in.StartTime != nil {
		if _, err := timeutil.ToMinutes(*in.StartTime); err != nil {
			return nil, fmt.Errorf("startTime: %w", err)
		}
		start = *in.StartTime
		updates["startTime"] = start
	}
	if in.EndTime != nil {
		if _, err := timeutil.ToMinutes(*in.EndTime); err != nil {
			return nil, fmt.Errorf("endTime: %w", err)
		}
		end = *in.EndTime
		updates["endTime"] = end
	}
	if _, err := timeutil.Duration(start, end); err != nil {
		return nil, err
	}

	if in.DayOfWeek != nil {
		if *in.DayOfWeek < 0 || *in.DayOfWeek > 6 {
			return nil, fmt.Errorf("%w: dayOfWeek must be 0-6", ErrBadRequest)
		}
		updates["dayOfWeek"] = *in.DayOfWeek
	}
	if in.SessionTypes != nil {
		if len(*in.SessionTypes) == 0 {
			return nil, fmt.Errorf("%w: sessionTypes cannot be empty", ErrBadRequest)
		}
		updates["sessionTypes"] = *in.SessionTypes
	}
	if in.Recurrence != nil {
		if !IsValidRecurrence(*in.Recurrence) {
			return nil, fmt.Errorf("%w: recurrence must be one of: weekly, biweekly, monthly, custom", ErrBadRequest)
		}
		updates["recurrence"] = *in.Recurrence
	}
	if in.RecurrenceEnd != nil {
		if *in.RecurrenceEnd != "" {
			if _, err := time.Parse("2006-01-02", *in.RecurrenceEnd); err != nil {
				return nil, fmt.Errorf("%w: recurrenceEnd must be YYYY-MM-DD", ErrBadRequest)
			}
		}
		updates["recurrenceEnd"] = *in.RecurrenceEnd
	}
	if in.MaxBookings != nil {
		updates["maxBookings"] = *in.MaxBookings
	}
	if in.Location != nil {
		updates["location"] = *in.Location
	}
	if in.IsRemote != nil {
		updates["isRemote"] = *in.IsRemote
	}
	if in.IsAvailable != nil {
		updates["isAvailable"] = *in.IsAvailable
	}
	if in.Exceptions != nil {
		for _, ex := range *in.Exceptions {
			if err := validateException(ex); err != nil {
				return nil, err
			}
		}
		updates["exceptions"] = *in.Exceptions
	}

	return s.store.Update(ctx, trainerID, ruleID, updates)
}

// Regenerate re-runs slot generation for one rule. Generation is idempotent:
// dates already covered by an existing slot are left alone.
func (s *Service) Regenerate(ctx context.Context, trainerID, ruleID string) (int, error) {
	if s.gen == nil {
		return 0, fmt.Errorf("%w: slot generation is not configured", ErrBadRequest)
	}
	rule, err := s.Get(ctx, trainerID, ruleID)
	if err != nil {
		return 0, err
	}
	if !rule.IsAvailable {
		return 0, fmt.Errorf("%w: rule is disabled", ErrBadRequest)
	}
	return s.gen.GenerateForRule(ctx, *rule)
}

func (s *Service) validateCreateInput(in CreateRuleInput) error {
	if in.DayOfWeek < 0 || in.DayOfWeek > 6 {
		return fmt.Errorf("%w: dayOfWeek must be 0-6 (0=Sunday)", ErrBadRequest)
	}
	if _, err := timeutil.ToMinutes(in.StartTime); err != nil {
		return fmt.Errorf("startTime: %w", err)
	}
	if _, err := timeutil.ToMinutes(in.EndTime); err != nil {
		return fmt.Errorf("endTime: %w", err)
	}
	if _, err := timeutil.Duration(in.StartTime, in.EndTime); err != nil {
		return err
	}
	if len(in.SessionTypes) == 0 {
		return fmt.Errorf("%w: at least one session type is required", ErrBadRequest)
	}
	if !IsValidRecurrence(in.Recurrence) {
		return fmt.Errorf("%w: recurrence must be one of: weekly, biweekly, monthly, custom", ErrBadRequest)
	}
	if in.RecurrenceEnd != "" {
		endDate, err := time.Parse("2006-01-02", in.RecurrenceEnd)
		if err != nil {
			return fmt.Errorf("%w: recurrenceEnd must be YYYY-MM-DD", ErrBadRequest)
		}
		today := s.now().UTC().Format("2006-01-02")
		if endDate.Format("2006-01-02") < today {
			return fmt.Errorf("%w: recurrenceEnd must not be in the past", ErrBadRequest)
		}
	}
	return nil
}

func validateException(ex Exception) error {
	if _, err := time.Parse("2006-01-02", ex.Date); err != nil {
		return fmt.Errorf("%w: exception date must be YYYY-MM-DD", ErrBadRequest)
	}
	switch ex.Kind {
	case ExceptionUnavailable, ExceptionAvailable:
		return nil
	case ExceptionModified:
		if ex.StartTime == "" || ex.EndTime == "" {
			return fmt.Errorf("%w: modified exception requires startTime and endTime", ErrBadRequest)
		}
		if _, err := timeutil.Duration(ex.StartTime, ex.EndTime); err != nil {
			return err
		}
		return nil
	default:
		return fmt.Errorf("%w: exception kind must be one of: unavailable, available, modified", ErrBadRequest)
	}
}

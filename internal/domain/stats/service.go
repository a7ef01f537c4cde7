package stats

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"trainer-manager/internal/domain/availability"
	"trainer-manager/internal/domain/booking"
	"trainer-manager/internal/timeutil"
)

var ErrBadRequest = errors.New("bad request")

func IsErrBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

// AvailabilityReader is the slice of the availability store the aggregator
// needs.
type AvailabilityReader interface {
	ListActive(ctx context.Context, trainerID string) ([]availability.Rule, error)
}

// SlotReader is the slice of the booking store the aggregator needs.
type SlotReader interface {
	ListByDateRange(ctx context.Context, trainerID, from, to string) ([]booking.Slot, error)
}

type Service struct {
	rules AvailabilityReader
	slots SlotReader
	now   func() time.Time
}

func NewService(rules AvailabilityReader, slots SlotReader) *Service {
	return &Service{rules: rules, slots: slots, now: time.Now}
}

// SetNowFunc overrides the time source, for tests.
func (s *Service) SetNowFunc(now func() time.Time) {
	s.now = now
}

// ForTrainer summarizes the trainer's schedule over the period ending today.
func (s *Service) ForTrainer(ctx context.Context, trainerID, period string) (*ScheduleStats, error) {
	if trainerID == "" {
		return nil, fmt.Errorf("%w: trainerId is required", ErrBadRequest)
	}
	switch period {
	case "":
		period = PeriodWeek
	case PeriodWeek, PeriodMonth, PeriodQuarter:
	default:
		return nil, fmt.Errorf("%w: period must be one of: week, month, quarter", ErrBadRequest)
	}

	now := s.now().UTC()
	end := now.Format("2006-01-02")
	start := now.AddDate(0, 0, -periodWeeks(period)*7).Format("2006-01-02")

	rules, err := s.rules.ListActive(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	slots, err := s.slots.ListByDateRange(ctx, trainerID, start, end)
	if err != nil {
		return nil, err
	}

	out := Compute(period, rules, slots)
	out.StartDate = start
	out.EndDate = end
	return out, nil
}

// Compute derives the summary from raw rules and slots. Available hours are
// the sum of rule spans times the period's constant week multiplier.
// Utilization is 0, not an error, when there are no available hours.
func Compute(period string, rules []availability.Rule, slots []booking.Slot) *ScheduleStats {
	weeks := periodWeeks(period)

	availableMinutes := 0
	for _, rule := range rules {
		d, err := timeutil.Duration(rule.StartTime, rule.EndTime)
		if err != nil {
			continue
		}
		availableMinutes += d * weeks
	}

	out := &ScheduleStats{
		Period:         period,
		AvailableHours: float64(availableMinutes) / 60,
		SlotsByStatus:  map[string]int{},
		Revenue:        map[string]float64{},
	}

	bookedMinutes := 0
	for _, slot := range slots {
		out.SlotsByStatus[string(slot.Status)]++

		switch slot.Status {
		case booking.StatusBooked, booking.StatusCompleted:
			bookedMinutes += slot.Duration
			if slot.Price > 0 {
				currency := slot.Currency
				if currency == "" {
					currency = "USD"
				}
				out.Revenue[currency] += slot.Price
			}
		}
		if slot.Status == booking.StatusCompleted {
			out.SessionsHeld++
		}
	}
	out.BookedHours = float64(bookedMinutes) / 60

	if out.AvailableHours > 0 {
		rate := out.BookedHours / out.AvailableHours * 100
		out.UtilizationRate = math.Round(rate*10) / 10
	}
	return out
}

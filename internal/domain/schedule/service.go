package schedule

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"trainer-manager/internal/domain/availability"
	"trainer-manager/internal/domain/booking"
	"trainer-manager/internal/timeutil"
)

var ErrBadRequest = errors.New("bad request")

func IsErrBadRequest(err error) bool {
	return errors.Is(err, ErrBadRequest)
}

// AvailabilityReader is the slice of the availability store the builder needs.
type AvailabilityReader interface {
	ListByDay(ctx context.Context, trainerID string, dayOfWeek int) ([]availability.Rule, error)
}

// SlotReader is the slice of the booking store the builder needs.
type SlotReader interface {
	ListBookedByDate(ctx context.Context, trainerID, date string) ([]booking.Slot, error)
}

type Service struct {
	rules AvailabilityReader
	slots SlotReader
}

func NewService(rules AvailabilityReader, slots SlotReader) *Service {
	return &Service{rules: rules, slots: slots}
}

// Day assembles the trainer's schedule for one date.
func (s *Service) Day(ctx context.Context, trainerID, date string) (*DaySchedule, error) {
	if trainerID == "" {
		return nil, fmt.Errorf("%w: trainerId is required", ErrBadRequest)
	}
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, fmt.Errorf("%w: date must be YYYY-MM-DD", ErrBadRequest)
	}
	dayOfWeek := int(day.Weekday())

	rules, err := s.rules.ListByDay(ctx, trainerID, dayOfWeek)
	if err != nil {
		return nil, err
	}
	booked, err := s.slots.ListBookedByDate(ctx, trainerID, date)
	if err != nil {
		return nil, err
	}

	return Build(trainerID, date, dayOfWeek, rules, booked), nil
}

// Build slices each rule's window for the date into 30-minute ticks and marks
// every tick whose start falls inside a booked slot. Pure; recomputed per
// call.
func Build(trainerID, date string, dayOfWeek int, rules []availability.Rule, booked []booking.Slot) *DaySchedule {
	out := &DaySchedule{
		TrainerID: trainerID,
		Date:      date,
		DayOfWeek: dayOfWeek,
		Ticks:     []Tick{},
	}

	type span struct {
		start, end int
		slot       *booking.Slot
	}
	spans := make([]span, 0, len(booked))
	for i := range booked {
		s, err := timeutil.ToMinutes(booked[i].StartTime)
		if err != nil {
			continue
		}
		e, err := timeutil.ToMinutes(booked[i].EndTime)
		if err != nil {
			continue
		}
		spans = append(spans, span{start: s, end: e, slot: &booked[i]})
	}

	for _, rule := range rules {
		winStart, winEnd, ok := rule.WindowFor(date)
		if !ok {
			continue
		}
		startMin, err := timeutil.ToMinutes(winStart)
		if err != nil {
			continue
		}
		endMin, err := timeutil.ToMinutes(winEnd)
		if err != nil {
			continue
		}

		// Ticks anchor to the rule's own start minute and stop once the next
		// tick would run past the rule's end.
		for t := startMin; t+TickMinutes <= endMin; t += TickMinutes {
			tick := Tick{
				StartTime: timeutil.FromMinutes(t),
				EndTime:   timeutil.FromMinutes(t + TickMinutes),
				Available: true,
			}
			for _, sp := range spans {
				if t >= sp.start && t < sp.end {
					tick.Available = false
					tick.SessionType = sp.slot.SessionType
					tick.TraineeID = sp.slot.TraineeID
					tick.BookingID = sp.slot.ID
					break
				}
			}
			out.Ticks = append(out.Ticks, tick)
		}
	}

	sort.Slice(out.Ticks, func(i, j int) bool {
		return out.Ticks[i].StartTime < out.Ticks[j].StartTime
	})

	for _, tick := range out.Ticks {
		if tick.Available {
			out.AvailableCount++
			if out.FirstAvailable == "" {
				out.FirstAvailable = tick.StartTime
			}
			out.LastAvailable = tick.StartTime
		} else {
			out.BookedCount++
		}
	}
	return out
}

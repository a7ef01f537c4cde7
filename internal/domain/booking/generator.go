package booking

import (
	"fmt"
	"time"

	"trainer-manager/internal/domain/availability"
	"trainer-manager/internal/timeutil"
)

// DefaultHorizonWeeks is how far ahead slots are materialized.
const DefaultHorizonWeeks = 8

const dateLayout = "2006-01-02"

// recurrenceStepDays maps a rule's recurrence kind to the distance between
// occurrences. Monthly uses a weekday-preserving four-week step; custom rules
// fall back to weekly.
func recurrenceStepDays(recurrence string) int {
	switch recurrence {
	case availability.RecurrenceBiweekly:
		return 14
	case availability.RecurrenceMonthly:
		return 28
	default:
		return 7
	}
}

// OccurrenceDates lists the dates, on or after from, on which the rule
// produces a slot within the horizon. Dates carrying an "unavailable"
// exception are skipped; a recurrence end date truncates the horizon.
func OccurrenceDates(rule availability.Rule, from time.Time, horizonWeeks int) []string {
	if horizonWeeks <= 0 {
		horizonWeeks = DefaultHorizonWeeks
	}

	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	// First date on/after from whose weekday matches the rule.
	offset := (rule.DayOfWeek - int(day.Weekday()) + 7) % 7
	first := day.AddDate(0, 0, offset)

	// horizonWeeks whole weeks from today: a weekly rule yields exactly one
	// slot per week.
	horizonEnd := day.AddDate(0, 0, horizonWeeks*7-1)
	step := recurrenceStepDays(rule.Recurrence)

	var dates []string
	for d := first; !d.After(horizonEnd); d = d.AddDate(0, 0, step) {
		date := d.Format(dateLayout)
		if rule.RecurrenceEnd != "" && date > rule.RecurrenceEnd {
			break
		}
		if ex := rule.ExceptionFor(date); ex != nil && ex.Kind == availability.ExceptionUnavailable {
			continue
		}
		dates = append(dates, date)
	}
	return dates
}

// SlotsForRule expands an availability rule into concrete available slots
// covering the forward horizon, one per occurrence date, each spanning the
// rule's full window. The window is not subdivided here; the day schedule
// builder slices it for display.
func SlotsForRule(rule availability.Rule, from time.Time, horizonWeeks int) ([]Slot, error) {
	if len(rule.SessionTypes) == 0 {
		return nil, fmt.Errorf("%w: rule %s has no session types", ErrBadRequest, rule.ID)
	}

	now := from.UTC()
	var slots []Slot
	for _, date := range OccurrenceDates(rule, from, horizonWeeks) {
		start, end, ok := rule.WindowFor(date)
		if !ok {
			continue
		}
		duration, err := timeutil.Duration(start, end)
		if err != nil {
			return nil, fmt.Errorf("rule %s window on %s: %w", rule.ID, date, err)
		}

		slots = append(slots, Slot{
			TrainerID:   rule.TrainerID,
			Date:        date,
			StartTime:   start,
			EndTime:     end,
			Duration:    duration,
			Status:      StatusAvailable,
			SessionType: rule.SessionTypes[0],
			RuleID:      rule.ID,
			Location:    rule.Location,
			IsRemote:    rule.IsRemote,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return slots, nil
}

// PatternDates lists the dates in [from, horizonEnd] on which the pattern
// falls, honouring its start anchor, interval and end date. Dates are
// "YYYY-MM-DD" strings.
func PatternDates(p Pattern, from, horizonEnd string) []string {
	start, err := time.Parse(dateLayout, p.StartDate)
	if err != nil {
		return nil
	}
	cursor, err := time.Parse(dateLayout, from)
	if err != nil {
		return nil
	}
	end, err := time.Parse(dateLayout, horizonEnd)
	if err != nil {
		return nil
	}
	if cursor.Before(start) {
		cursor = start
	}

	interval := p.Interval
	if interval <= 0 {
		interval = 1
	}

	var dates []string
	for d := cursor; !d.After(end); d = d.AddDate(0, 0, 1) {
		date := d.Format(dateLayout)
		if p.EndDate != "" && date > p.EndDate {
			break
		}
		daysSince := int(d.Sub(start).Hours() / 24)

		switch p.Frequency {
		case FrequencyDaily:
			if daysSince%interval == 0 {
				dates = append(dates, date)
			}
		default:
			if !containsDay(p.DaysOfWeek, int(d.Weekday())) {
				continue
			}
			stepWeeks := interval
			if p.Frequency == FrequencyBiweekly {
				stepWeeks = interval * 2
			} else if p.Frequency == FrequencyMonthly {
				stepWeeks = interval * 4
			}
			if (daysSince/7)%stepWeeks == 0 {
				dates = append(dates, date)
			}
		}
	}
	return dates
}

func containsDay(days []int, day int) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}

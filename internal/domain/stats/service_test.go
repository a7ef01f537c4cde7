package stats

import (
	"context"
	"testing"
	"time"

	"trainer-manager/internal/domain/availability"
	"trainer-manager/internal/domain/booking"
)

// 2026-08-31 is a Monday.
var testNow = time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

func weekdayRule(day int, start, end string) availability.Rule {
	return availability.Rule{
		TrainerID:    "trainer-1",
		DayOfWeek:    day,
		StartTime:    start,
		EndTime:      end,
		SessionTypes: []string{"personal"},
		IsAvailable:  true,
	}
}

func TestCompute(t *testing.T) {
	// Two rules, four hours a week each.
	rules := []availability.Rule{
		weekdayRule(1, "09:00", "13:00"),
		weekdayRule(3, "14:00", "18:00"),
	}
	slots := []booking.Slot{
		{Status: booking.StatusCompleted, Duration: 60, Price: 50, Currency: "USD"},
		{Status: booking.StatusCompleted, Duration: 60, Price: 45, Currency: "EUR"},
		{Status: booking.StatusBooked, Duration: 120, Price: 100},
		{Status: booking.StatusCancelled, Duration: 60, Price: 50},
		{Status: booking.StatusAvailable, Duration: 60},
	}

	got := Compute(PeriodWeek, rules, slots)

	if got.AvailableHours != 8 {
		t.Errorf("availableHours = %v, want 8", got.AvailableHours)
	}
	// Cancelled and open slots contribute no booked time.
	if got.BookedHours != 4 {
		t.Errorf("bookedHours = %v, want 4", got.BookedHours)
	}
	if got.UtilizationRate != 50 {
		t.Errorf("utilizationRate = %v, want 50", got.UtilizationRate)
	}
	if got.SessionsHeld != 2 {
		t.Errorf("sessionsHeld = %d, want 2", got.SessionsHeld)
	}
	// Currencyless price defaults to USD; cancelled revenue is excluded.
	if got.Revenue["USD"] != 150 || got.Revenue["EUR"] != 45 {
		t.Errorf("revenue = %v, want USD 150 / EUR 45", got.Revenue)
	}
	if got.SlotsByStatus["completed"] != 2 || got.SlotsByStatus["booked"] != 1 ||
		got.SlotsByStatus["cancelled"] != 1 || got.SlotsByStatus["available"] != 1 {
		t.Errorf("slotsByStatus = %v", got.SlotsByStatus)
	}
}

func TestComputeMonthMultiplier(t *testing.T) {
	rules := []availability.Rule{weekdayRule(1, "09:00", "13:00")}

	got := Compute(PeriodMonth, rules, nil)
	if got.AvailableHours != 16 {
		t.Errorf("availableHours = %v, want 16", got.AvailableHours)
	}

	got = Compute(PeriodQuarter, rules, nil)
	if got.AvailableHours != 48 {
		t.Errorf("availableHours = %v, want 48", got.AvailableHours)
	}
}

func TestComputeNoAvailability(t *testing.T) {
	slots := []booking.Slot{{Status: booking.StatusBooked, Duration: 60}}

	got := Compute(PeriodWeek, nil, slots)
	if got.UtilizationRate != 0 {
		t.Fatalf("utilizationRate = %v, want 0 when no hours are offered", got.UtilizationRate)
	}
	if got.BookedHours != 1 {
		t.Fatalf("bookedHours = %v, want 1", got.BookedHours)
	}
}

func TestComputeRoundsUtilization(t *testing.T) {
	rules := []availability.Rule{weekdayRule(1, "09:00", "12:00")}
	slots := []booking.Slot{{Status: booking.StatusBooked, Duration: 60}}

	// 1h of 3h is 33.333...%, rounded to one decimal.
	got := Compute(PeriodWeek, rules, slots)
	if got.UtilizationRate != 33.3 {
		t.Fatalf("utilizationRate = %v, want 33.3", got.UtilizationRate)
	}
}

type fakeRules struct{ rules []availability.Rule }

func (f *fakeRules) ListActive(_ context.Context, _ string) ([]availability.Rule, error) {
	return f.rules, nil
}

type fakeSlots struct {
	slots    []booking.Slot
	from, to string
}

func (f *fakeSlots) ListByDateRange(_ context.Context, _ string, from, to string) ([]booking.Slot, error) {
	f.from, f.to = from, to
	return f.slots, nil
}

func TestForTrainer(t *testing.T) {
	slotReader := &fakeSlots{slots: []booking.Slot{
		{Status: booking.StatusCompleted, Duration: 60, Price: 50},
	}}
	svc := NewService(&fakeRules{rules: []availability.Rule{weekdayRule(1, "09:00", "13:00")}}, slotReader)
	svc.SetNowFunc(func() time.Time { return testNow })

	got, err := svc.ForTrainer(context.Background(), "trainer-1", "")
	if err != nil {
		t.Fatalf("ForTrainer() error: %v", err)
	}
	if got.Period != PeriodWeek {
		t.Errorf("period = %q, want default week", got.Period)
	}
	if got.StartDate != "2026-08-24" || got.EndDate != "2026-08-31" {
		t.Errorf("range = %s..%s, want 2026-08-24..2026-08-31", got.StartDate, got.EndDate)
	}
	if slotReader.from != "2026-08-24" || slotReader.to != "2026-08-31" {
		t.Errorf("store queried for %s..%s", slotReader.from, slotReader.to)
	}
	if got.SessionsHeld != 1 {
		t.Errorf("sessionsHeld = %d, want 1", got.SessionsHeld)
	}

	if _, err := svc.ForTrainer(context.Background(), "trainer-1", "year"); !IsErrBadRequest(err) {
		t.Fatalf("ForTrainer(year) error = %v, want bad request", err)
	}
	if _, err := svc.ForTrainer(context.Background(), "", PeriodWeek); !IsErrBadRequest(err) {
		t.Fatalf("ForTrainer with empty trainer: error = %v, want bad request", err)
	}
}

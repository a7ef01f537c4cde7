package schedule

import (
	"context"
	"testing"

	"trainer-manager/internal/domain/availability"
	"trainer-manager/internal/domain/booking"
)

func mondayRule(start, end string) availability.Rule {
	return availability.Rule{
		ID:           "rule-1",
		TrainerID:    "trainer-1",
		DayOfWeek:    1,
		StartTime:    start,
		EndTime:      end,
		SessionTypes: []string{"personal"},
		IsAvailable:  true,
	}
}

func TestBuild(t *testing.T) {
	rules := []availability.Rule{mondayRule("09:00", "11:00")}
	booked := []booking.Slot{{
		ID:          "2026-08-31_0930",
		TraineeID:   "trainee-1",
		Date:        "2026-08-31",
		StartTime:   "09:30",
		EndTime:     "10:30",
		Status:      booking.StatusBooked,
		SessionType: "personal",
	}}

	got := Build("trainer-1", "2026-08-31", 1, rules, booked)

	if len(got.Ticks) != 4 {
		t.Fatalf("len(Ticks) = %d, want 4", len(got.Ticks))
	}
	wantAvail := []bool{true, false, false, true}
	for i, tick := range got.Ticks {
		if tick.Available != wantAvail[i] {
			t.Errorf("tick %s available = %v, want %v", tick.StartTime, tick.Available, wantAvail[i])
		}
	}
	if got.Ticks[1].TraineeID != "trainee-1" || got.Ticks[1].BookingID != "2026-08-31_0930" {
		t.Errorf("booked tick: %+v", got.Ticks[1])
	}
	if got.AvailableCount != 2 || got.BookedCount != 2 {
		t.Errorf("counts = %d/%d, want 2/2", got.AvailableCount, got.BookedCount)
	}
	if got.FirstAvailable != "09:00" || got.LastAvailable != "10:30" {
		t.Errorf("first/last = %s/%s, want 09:00/10:30", got.FirstAvailable, got.LastAvailable)
	}
}

func TestBuildTicksAnchorToRuleStart(t *testing.T) {
	rules := []availability.Rule{mondayRule("09:15", "10:45")}

	got := Build("trainer-1", "2026-08-31", 1, rules, nil)

	want := []string{"09:15", "09:45", "10:15"}
	if len(got.Ticks) != len(want) {
		t.Fatalf("len(Ticks) = %d, want %d", len(got.Ticks), len(want))
	}
	for i, tick := range got.Ticks {
		if tick.StartTime != want[i] {
			t.Errorf("tick %d start = %s, want %s", i, tick.StartTime, want[i])
		}
	}
}

func TestBuildPartialTrailingWindowDropped(t *testing.T) {
	// 09:00-09:45 fits one full tick; the trailing 15 minutes are not shown.
	rules := []availability.Rule{mondayRule("09:00", "09:45")}

	got := Build("trainer-1", "2026-08-31", 1, rules, nil)
	if len(got.Ticks) != 1 {
		t.Fatalf("len(Ticks) = %d, want 1", len(got.Ticks))
	}
}

func TestBuildMergesRules(t *testing.T) {
	rules := []availability.Rule{
		mondayRule("14:00", "15:00"),
		mondayRule("09:00", "10:00"),
	}

	got := Build("trainer-1", "2026-08-31", 1, rules, nil)

	want := []string{"09:00", "09:30", "14:00", "14:30"}
	if len(got.Ticks) != len(want) {
		t.Fatalf("len(Ticks) = %d, want %d", len(got.Ticks), len(want))
	}
	for i, tick := range got.Ticks {
		if tick.StartTime != want[i] {
			t.Errorf("tick %d start = %s, want %s (ticks not sorted)", i, tick.StartTime, want[i])
		}
	}
}

func TestBuildHonoursUnavailableException(t *testing.T) {
	rule := mondayRule("09:00", "11:00")
	rule.Exceptions = []availability.Exception{
		{Date: "2026-08-31", Kind: availability.ExceptionUnavailable},
	}

	got := Build("trainer-1", "2026-08-31", 1, []availability.Rule{rule}, nil)
	if len(got.Ticks) != 0 {
		t.Fatalf("ticks produced for an unavailable date: %v", got.Ticks)
	}
}

type fakeRules struct{ rules []availability.Rule }

func (f *fakeRules) ListByDay(_ context.Context, _ string, dayOfWeek int) ([]availability.Rule, error) {
	out := []availability.Rule{}
	for _, r := range f.rules {
		if r.DayOfWeek == dayOfWeek {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeSlots struct{ slots []booking.Slot }

func (f *fakeSlots) ListBookedByDate(_ context.Context, _ string, date string) ([]booking.Slot, error) {
	out := []booking.Slot{}
	for _, s := range f.slots {
		if s.Date == date && s.Status == booking.StatusBooked {
			out = append(out, s)
		}
	}
	return out, nil
}

func TestDay(t *testing.T) {
	svc := NewService(
		&fakeRules{rules: []availability.Rule{mondayRule("09:00", "10:00")}},
		&fakeSlots{},
	)

	// 2026-08-31 is a Monday.
	got, err := svc.Day(context.Background(), "trainer-1", "2026-08-31")
	if err != nil {
		t.Fatalf("Day() error: %v", err)
	}
	if got.DayOfWeek != 1 || len(got.Ticks) != 2 {
		t.Fatalf("Day() = %+v", got)
	}

	// Tuesday has no rule.
	got, err = svc.Day(context.Background(), "trainer-1", "2026-09-01")
	if err != nil {
		t.Fatalf("Day() error: %v", err)
	}
	if len(got.Ticks) != 0 {
		t.Fatalf("ticks on a day with no rules: %v", got.Ticks)
	}

	if _, err := svc.Day(context.Background(), "trainer-1", "31-08-2026"); !IsErrBadRequest(err) {
		t.Fatalf("Day() error = %v, want bad request", err)
	}
}

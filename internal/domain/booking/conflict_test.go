package booking

import "testing"

func TestOverlapping(t *testing.T) {
	slots := []Slot{
		{ID: "a", StartTime: "09:00", EndTime: "10:00"},
		{ID: "b", StartTime: "10:00", EndTime: "11:00"},
		{ID: "c", StartTime: "10:30", EndTime: "11:30"},
		{ID: "d", StartTime: "bad", EndTime: "12:00"},
	}

	// 10:30-11:00 overlaps b and c, touches neither a nor the bad slot.
	conflicts := Overlapping(630, 660, slots)
	if len(conflicts) != 2 {
		t.Fatalf("Overlapping() returned %d conflicts, want 2", len(conflicts))
	}
	if conflicts[0].ID != "b" || conflicts[1].ID != "c" {
		t.Fatalf("Overlapping() = [%s %s], want [b c]", conflicts[0].ID, conflicts[1].ID)
	}
}

func TestOverlappingTouchingEndpoints(t *testing.T) {
	slots := []Slot{{ID: "a", StartTime: "09:00", EndTime: "10:00"}}

	if got := Overlapping(600, 660, slots); len(got) != 0 {
		t.Fatalf("back-to-back windows reported as conflict: %v", got)
	}
	if got := Overlapping(480, 540, slots); len(got) != 0 {
		t.Fatalf("preceding back-to-back window reported as conflict: %v", got)
	}
}

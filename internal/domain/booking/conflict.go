package booking

import "trainer-manager/internal/timeutil"

// Overlapping returns every slot whose [start, end) window intersects the
// proposed [startMin, endMin) window, in minutes since midnight. Slots with
// unparseable times are skipped rather than failing the whole check.
func Overlapping(startMin, endMin int, slots []Slot) []Slot {
	var conflicts []Slot
	for _, slot := range slots {
		s, err := timeutil.ToMinutes(slot.StartTime)
		if err != nil {
			continue
		}
		e, err := timeutil.ToMinutes(slot.EndTime)
		if err != nil {
			continue
		}
		if timeutil.Overlaps(startMin, endMin, s, e) {
			conflicts = append(conflicts, slot)
		}
	}
	return conflicts
}

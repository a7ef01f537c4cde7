package schedule

// TickMinutes is the display granularity of a day schedule.
const TickMinutes = 30

// Tick is one fixed-size slice of a day schedule. Ticks are anchored to the
// originating rule's start time, not to a global :00/:30 grid.
type Tick struct {
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Available   bool   `json:"available"`
	SessionType string `json:"sessionType,omitempty"`
	TraineeID   string `json:"traineeId,omitempty"`
	BookingID   string `json:"bookingId,omitempty"`
}

// DaySchedule is a derived, per-date view of a trainer's calendar. It is
// recomputed on every request and never cached.
type DaySchedule struct {
	TrainerID      string `json:"trainerId"`
	Date           string `json:"date"`
	DayOfWeek      int    `json:"dayOfWeek"`
	Ticks          []Tick `json:"ticks"`
	AvailableCount int    `json:"availableCount"`
	BookedCount    int    `json:"bookedCount"`
	FirstAvailable string `json:"firstAvailable,omitempty"`
	LastAvailable  string `json:"lastAvailable,omitempty"`
}

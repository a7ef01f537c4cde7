package stats

// Periods a summary can cover.
const (
	PeriodWeek    = "week"
	PeriodMonth   = "month"
	PeriodQuarter = "quarter"
)

// periodWeeks approximates each period as a constant week count. Good enough
// for a dashboard metric, not for billing.
func periodWeeks(period string) int {
	switch period {
	case PeriodMonth:
		return 4
	case PeriodQuarter:
		return 12
	default:
		return 1
	}
}

// ScheduleStats summarizes a trainer's utilization and revenue over a period.
type ScheduleStats struct {
	Period          string             `json:"period"`
	StartDate       string             `json:"startDate"`
	EndDate         string             `json:"endDate"`
	AvailableHours  float64            `json:"availableHours"`
	BookedHours     float64            `json:"bookedHours"`
	UtilizationRate float64            `json:"utilizationRate"` // percent
	SlotsByStatus   map[string]int     `json:"slotsByStatus"`
	SessionsHeld    int                `json:"sessionsHeld"`
	Revenue         map[string]float64 `json:"revenue,omitempty"` // by currency
}

package booking

import (
	"fmt"
	"strings"
	"time"
)

// Status is the closed set of states a slot moves through.
type Status string

const (
	StatusAvailable Status = "available"
	StatusBooked    Status = "booked"
	StatusBlocked   Status = "blocked"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusAvailable, StatusBooked, StatusBlocked, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// CanTransition reports whether a slot may move from one status to another.
// Cancelled and completed are terminal; blocking only applies to open slots.
func CanTransition(from, to Status) bool {
	switch from {
	case StatusAvailable:
		return to == StatusBooked || to == StatusBlocked
	case StatusBooked:
		return to == StatusCompleted || to == StatusCancelled
	case StatusBlocked:
		return to == StatusAvailable
	default:
		return false
	}
}

// Slot is a single concrete, dated unit of trainer time.
type Slot struct {
	ID           string     `firestore:"id" json:"id"`
	TrainerID    string     `firestore:"trainerId" json:"trainerId"`
	TraineeID    string     `firestore:"traineeId,omitempty" json:"traineeId,omitempty"` // empty = open
	Date         string     `firestore:"date" json:"date"`           // "YYYY-MM-DD"
	StartTime    string     `firestore:"startTime" json:"startTime"` // "HH:MM"
	EndTime      string     `firestore:"endTime" json:"endTime"`     // "HH:MM"
	Duration     int        `firestore:"duration" json:"duration"`   // minutes
	Status       Status     `firestore:"status" json:"status"`
	SessionType  string     `firestore:"sessionType,omitempty" json:"sessionType,omitempty"`
	RuleID       string     `firestore:"ruleId,omitempty" json:"ruleId,omitempty"`           // originating availability rule
	RecurringID  string     `firestore:"recurringId,omitempty" json:"recurringId,omitempty"` // originating recurring pattern
	Price        float64    `firestore:"price,omitempty" json:"price,omitempty"`
	Currency     string     `firestore:"currency,omitempty" json:"currency,omitempty"`
	Location     string     `firestore:"location,omitempty" json:"location,omitempty"`
	IsRemote     bool       `firestore:"isRemote" json:"isRemote"`
	Notes        string     `firestore:"notes,omitempty" json:"notes,omitempty"`
	CancelReason string     `firestore:"cancelReason,omitempty" json:"cancelReason,omitempty"`
	BookedAt     *time.Time `firestore:"bookedAt,omitempty" json:"bookedAt,omitempty"`
	CancelledAt  *time.Time `firestore:"cancelledAt,omitempty" json:"cancelledAt,omitempty"`
	CreatedAt    time.Time  `firestore:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time  `firestore:"updatedAt" json:"updatedAt"`
}

// DocID is the deterministic document ID for a slot, keyed on date and start
// time. Keying slots this way makes generation idempotent and lets the
// booking transaction claim a window with a conditional create.
func (s *Slot) DocID() string {
	return SlotDocID(s.Date, s.StartTime)
}

func SlotDocID(date, startTime string) string {
	return fmt.Sprintf("%s_%s", date, strings.ReplaceAll(startTime, ":", ""))
}

// Recurring pattern frequencies.
const (
	FrequencyDaily    = "daily"
	FrequencyWeekly   = "weekly"
	FrequencyBiweekly = "biweekly"
	FrequencyMonthly  = "monthly"
)

func IsValidFrequency(f string) bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyBiweekly, FrequencyMonthly:
		return true
	}
	return false
}

// Pattern is a trainee's standing repeat reservation.
type Pattern struct {
	ID               string    `firestore:"id" json:"id"`
	TrainerID        string    `firestore:"trainerId" json:"trainerId"`
	TraineeID        string    `firestore:"traineeId" json:"traineeId"`
	Frequency        string    `firestore:"frequency" json:"frequency"`
	Interval         int       `firestore:"interval" json:"interval"` // every n-th occurrence
	DaysOfWeek       []int     `firestore:"daysOfWeek" json:"daysOfWeek"`
	StartTime        string    `firestore:"startTime" json:"startTime"`
	EndTime          string    `firestore:"endTime" json:"endTime"`
	Duration         int       `firestore:"duration" json:"duration"`
	SessionType      string    `firestore:"sessionType,omitempty" json:"sessionType,omitempty"`
	StartDate        string    `firestore:"startDate" json:"startDate"`
	EndDate          string    `firestore:"endDate,omitempty" json:"endDate,omitempty"`
	MaxOccurrences   int       `firestore:"maxOccurrences,omitempty" json:"maxOccurrences,omitempty"`
	GeneratedSlotIDs []string  `firestore:"generatedSlotIds" json:"generatedSlotIds"`
	NextGeneration   string    `firestore:"nextGeneration" json:"nextGeneration"` // first date not yet materialized
	IsActive         bool      `firestore:"isActive" json:"isActive"`
	CreatedAt        time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// Exhausted reports whether the pattern has reached its end date or its
// occurrence cap as of the given date.
func (p *Pattern) Exhausted(today string) bool {
	if p.EndDate != "" && p.EndDate < today {
		return true
	}
	if p.MaxOccurrences > 0 && len(p.GeneratedSlotIDs) >= p.MaxOccurrences {
		return true
	}
	return false
}

// RecurrenceInput describes the optional standing reservation attached to a
// booking request.
type RecurrenceInput struct {
	Frequency      string `json:"frequency"`
	Interval       int    `json:"interval,omitempty"`
	DaysOfWeek     []int  `json:"daysOfWeek,omitempty"`
	EndDate        string `json:"endDate,omitempty"`
	MaxOccurrences int    `json:"maxOccurrences,omitempty"`
}

// BookSlotInput is the payload for booking a window of trainer time.
type BookSlotInput struct {
	TraineeID   string           `json:"traineeId"`
	Date        string           `json:"date"`      // "YYYY-MM-DD"
	StartTime   string           `json:"startTime"` // "HH:MM"
	Duration    int              `json:"duration"`  // minutes
	SessionType string           `json:"sessionType,omitempty"`
	Notes       string           `json:"notes,omitempty"`
	Price       float64          `json:"price,omitempty"`
	Currency    string           `json:"currency,omitempty"`
	Location    string           `json:"location,omitempty"`
	IsRemote    bool             `json:"isRemote,omitempty"`
	Recurrence  *RecurrenceInput `json:"recurrence,omitempty"`
}

func (in *BookSlotInput) Trim() {
	in.TraineeID = strings.TrimSpace(in.TraineeID)
	in.Date = strings.TrimSpace(in.Date)
	in.StartTime = strings.TrimSpace(in.StartTime)
	in.SessionType = strings.TrimSpace(in.SessionType)
	in.Notes = strings.TrimSpace(in.Notes)
	in.Currency = strings.TrimSpace(in.Currency)
	in.Location = strings.TrimSpace(in.Location)
}

// ListSlotsInput filters slot listings.
type ListSlotsInput struct {
	Date     string `json:"date,omitempty"`
	FromDate string `json:"fromDate,omitempty"`
	ToDate   string `json:"toDate,omitempty"`
	Status   Status `json:"status,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

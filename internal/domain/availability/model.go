package availability

import (
	"strings"
	"time"
)

// Recurrence kinds for a rule.
const (
	RecurrenceWeekly   = "weekly"
	RecurrenceBiweekly = "biweekly"
	RecurrenceMonthly  = "monthly"
	RecurrenceCustom   = "custom"
)

func IsValidRecurrence(r string) bool {
	switch r {
	case "", RecurrenceWeekly, RecurrenceBiweekly, RecurrenceMonthly, RecurrenceCustom:
		return true
	}
	return false
}

// Exception kinds for date-specific overrides on a rule.
const (
	ExceptionUnavailable = "unavailable"
	ExceptionAvailable   = "available"
	ExceptionModified    = "modified"
)

// Exception overrides a rule for one concrete date.
type Exception struct {
	Date      string `firestore:"date" json:"date"` // "YYYY-MM-DD"
	Kind      string `firestore:"kind" json:"kind"` // unavailable / available / modified
	StartTime string `firestore:"startTime,omitempty" json:"startTime,omitempty"`
	EndTime   string `firestore:"endTime,omitempty" json:"endTime,omitempty"`
}

// Rule is a trainer's recurring weekly offer of bookable time.
type Rule struct {
	ID            string      `firestore:"id" json:"id"`
	TrainerID     string      `firestore:"trainerId" json:"trainerId"`
	DayOfWeek     int         `firestore:"dayOfWeek" json:"dayOfWeek"` // 0=Sunday .. 6=Saturday
	StartTime     string      `firestore:"startTime" json:"startTime"` // "HH:MM"
	EndTime       string      `firestore:"endTime" json:"endTime"`     // "HH:MM"
	SessionTypes  []string    `firestore:"sessionTypes" json:"sessionTypes"`
	Recurrence    string      `firestore:"recurrence" json:"recurrence"`
	RecurrenceEnd string      `firestore:"recurrenceEnd,omitempty" json:"recurrenceEnd,omitempty"` // "YYYY-MM-DD"
	MaxBookings   int         `firestore:"maxBookings,omitempty" json:"maxBookings,omitempty"`
	Location      string      `firestore:"location,omitempty" json:"location,omitempty"`
	IsRemote      bool        `firestore:"isRemote" json:"isRemote"`
	IsAvailable   bool        `firestore:"isAvailable" json:"isAvailable"`
	Exceptions    []Exception `firestore:"exceptions,omitempty" json:"exceptions,omitempty"`
	CreatedAt     time.Time   `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time   `firestore:"updatedAt" json:"updatedAt"`
}

// ExceptionFor returns the exception covering date, if any.
func (r *Rule) ExceptionFor(date string) *Exception {
	for i := range r.Exceptions {
		if r.Exceptions[i].Date == date {
			return &r.Exceptions[i]
		}
	}
	return nil
}

// WindowFor returns the effective start/end window for date, honouring a
// modified exception. The second return value is false when the rule does not
// apply on that date at all.
func (r *Rule) WindowFor(date string) (start, end string, ok bool) {
	ex := r.ExceptionFor(date)
	if ex == nil {
		return r.StartTime, r.EndTime, true
	}
	switch ex.Kind {
	case ExceptionUnavailable:
		return "", "", false
	case ExceptionModified:
		if ex.StartTime != "" && ex.EndTime != "" {
			return ex.StartTime, ex.EndTime, true
		}
		return r.StartTime, r.EndTime, true
	default:
		return r.StartTime, r.EndTime, true
	}
}

// CreateRuleInput is the payload for creating a rule.
type CreateRuleInput struct {
	DayOfWeek     int      `json:"dayOfWeek"`
	StartTime     string   `json:"startTime"`
	EndTime       string   `json:"endTime"`
	SessionTypes  []string `json:"sessionTypes"`
	Recurrence    string   `json:"recurrence,omitempty"`
	RecurrenceEnd string   `json:"recurrenceEnd,omitempty"`
	MaxBookings   int      `json:"maxBookings,omitempty"`
	Location      string   `json:"location,omitempty"`
	IsRemote      bool     `json:"isRemote,omitempty"`
}

func (in *CreateRuleInput) Trim() {
	in.StartTime = strings.TrimSpace(in.StartTime)
	in.EndTime = strings.TrimSpace(in.EndTime)
	in.Recurrence = strings.TrimSpace(in.Recurrence)
	in.RecurrenceEnd = strings.TrimSpace(in.RecurrenceEnd)
	in.Location = strings.TrimSpace(in.Location)
	types := in.SessionTypes[:0]
	for _, st := range in.SessionTypes {
		if st = strings.TrimSpace(st); st != "" {
			types = append(types, st)
		}
	}
	in.SessionTypes = types
}

// UpdateRuleInput is the payload for partially updating a rule.
type UpdateRuleInput struct {
	DayOfWeek     *int        `json:"dayOfWeek,omitempty"`
	StartTime     *string     `json:"startTime,omitempty"`
	EndTime       *string     `json:"endTime,omitempty"`
	SessionTypes  *[]string   `json:"sessionTypes,omitempty"`
	Recurrence    *string     `json:"recurrence,omitempty"`
	RecurrenceEnd *string     `json:"recurrenceEnd,omitempty"`
	MaxBookings   *int        `json:"maxBookings,omitempty"`
	Location      *string     `json:"location,omitempty"`
	IsRemote      *bool       `json:"isRemote,omitempty"`
	IsAvailable   *bool       `json:"isAvailable,omitempty"`
	Exceptions    *[]Exception `json:"exceptions,omitempty"`
}

func (in *UpdateRuleInput) Trim() {
	if in.StartTime != nil {
		*in.StartTime = strings.TrimSpace(*in.StartTime)
	}
	if in.EndTime != nil {
		*in.EndTime = strings.TrimSpace(*in.EndTime)
	}
	if in.Recurrence != nil {
		*in.Recurrence = strings.TrimSpace(*in.Recurrence)
	}
	if in.RecurrenceEnd != nil {
		*in.RecurrenceEnd = strings.TrimSpace(*in.RecurrenceEnd)
	}
	if in.Location != nil {
		*in.Location = strings.TrimSpace(*in.Location)
	}
}

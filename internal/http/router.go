package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/go-chi/chi/v5"

	"trainer-manager/internal/config"
	"trainer-manager/internal/domain/availability"
	"trainer-manager/internal/domain/booking"
	"trainer-manager/internal/domain/schedule"
	"trainer-manager/internal/domain/stats"
	"trainer-manager/internal/domain/trainee"
	"trainer-manager/internal/middleware"
	"trainer-manager/internal/timeutil"
)

type RouterDeps struct {
	Cfg             config.Config
	AuthClient      *auth.Client
	AvailabilitySvc *availability.Service
	BookingSvc      *booking.Service
	ScheduleSvc     *schedule.Service
	StatsSvc        *stats.Service
	TraineeSvc      *trainee.Service
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(d.Cfg.AllowedOrigins))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, 200, map[string]any{"ok": true, "ts": time.Now().UTC().Format(time.RFC3339)})
	})

	// Protected routes
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.WithAuth(d.AuthClient))

		pr.Get("/v1/me", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			WriteJSON(w, 200, map[string]any{
				"uid":    au.UID,
				"email":  au.Email,
				"claims": au.Claims,
			})
		})

		// ===== Availability rules =====
		pr.Post("/v1/trainers/{trainerID}/availability", func(w http.ResponseWriter, r *http.Request) {
			trainerID := chi.URLParam(r, "trainerID")
			if !callerOwnsTrainer(r, trainerID) {
				Fail(w, 403, "only the trainer can manage availability")
				return
			}

			var in availability.CreateRuleInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}
			in.Trim()

			out, err := d.AvailabilitySvc.Create(r.Context(), trainerID, in)
			if err != nil {
				status, msg := mapAvailabilityError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, out)
		})

		pr.Get("/v1/trainers/{trainerID}/availability", func(w http.ResponseWriter, r *http.Request) {
			trainerID := chi.URLParam(r, "trainerID")
			out, err := d.AvailabilitySvc.ListForTrainer(r.Context(), trainerID)
			if err != nil {
				status, msg := mapAvailabilityError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Patch("/v1/trainers/{trainerID}/availability/{ruleID}", func(w http.ResponseWriter, r *http.Request) {
			trainerID := chi.URLParam(r, "trainerID")
			if !callerOwnsTrainer(r, trainerID) {
				Fail(w, 403, "only the trainer can manage availability")
				return
			}

			var in availability.UpdateRuleInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}
			in.Trim()

			out, err := d.AvailabilitySvc.Update(r.Context(), trainerID, chi.URLParam(r, "ruleID"), in)
			if err != nil {
				status, msg := mapAvailabilityError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Post("/v1/trainers/{trainerID}/availability/{ruleID}/regenerate", func(w http.ResponseWriter, r *http.Request) {
			trainerID := chi.URLParam(r, "trainerID")
			if !callerOwnsTrainer(r, trainerID) {
				Fail(w, 403, "only the trainer can manage availability")
				return
			}

			created, err := d.AvailabilitySvc.Regenerate(r.Context(), trainerID, chi.URLParam(r, "ruleID"))
			if err != nil {
				status, msg := mapAvailabilityError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"created": created})
		})

		// ===== Slots & bookings =====
		pr.Get("/v1/trainers/{trainerID}/slots", func(w http.ResponseWriter, r *http.Request) {
			trainerID := chi.URLParam(r, "trainerID")
			q := r.URL.Query()

			input := booking.ListSlotsInput{
				Date:     strings.TrimSpace(q.Get("date")),
				FromDate: strings.TrimSpace(q.Get("from")),
				ToDate:   strings.TrimSpace(q.Get("to")),
				Status:   booking.Status(strings.TrimSpace(q.Get("status"))),
			}
			if v := q.Get("limit"); v != "" {
				if n, err := strconv.Atoi(v); err == nil {
					input.Limit = n
				}
			}

			out, err := d.BookingSvc.ListSlots(r.Context(), trainerID, input)
			if err != nil {
				status, msg := mapBookingError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Get("/v1/trainers/{trainerID}/conflicts", func(w http.ResponseWriter, r *http.Request) {
			trainerID := chi.URLParam(r, "trainerID")
			q := r.URL.Query()

			duration, _ := strconv.Atoi(q.Get("duration"))
			out, err := d.BookingSvc.FindConflicts(r.Context(), trainerID, q.Get("date"), q.Get("startTime"), duration)
			if err != nil {
				status, msg := mapBookingError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"conflicts": out})
		})

		pr.Post("/v1/trainers/{trainerID}/bookings", func(w http.ResponseWriter, r *http.Request) {
			trainerID := chi.URLParam(r, "trainerID")
			if !callerOwnsTrainer(r, trainerID) {
				Fail(w, 403, "only the trainer can book their slots")
				return
			}

			var in booking.BookSlotInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}
			in.Trim()

			out, err := d.BookingSvc.Book(r.Context(), trainerID, in)
			if err != nil {
				if booking.IsErrSlotConflict(err) {
					WriteJSON(w, 409, map[string]any{
						"message":   err.Error(),
						"conflicts": booking.ConflictsFrom(err),
					})
					return
				}
				status, msg := mapBookingError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, out)
		})

		pr.Post("/v1/trainers/{trainerID}/bookings/{slotID}/cancel", func(w http.ResponseWriter, r *http.Request) {
			trainerID := chi.URLParam(r, "trainerID")
			if !callerOwnsTrainer(r, trainerID) {
				Fail(w, 403, "only the trainer can cancel bookings")
				return
			}

			var in struct {
				Reason string `json:"reason,omitempty"`
			}
			_ = json.NewDecoder(r.Body).Decode(&in)

			out, err := d.BookingSvc.Cancel(r.Context(), trainerID, chi.URLParam(r, "slotID"), strings.TrimSpace(in.Reason))
			if err != nil {
				status, msg := mapBookingError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Post("/v1/trainers/{trainerID}/bookings/{slotID}/complete", func(w http.ResponseWriter, r *http.Request) {
			trainerID := chi.URLParam(r, "trainerID")
			if !callerOwnsTrainer(r, trainerID) {
				Fail(w, 403, "only the trainer can complete bookings")
				return
			}

			out, err := d.BookingSvc.Complete(r.Context(), trainerID, chi.URLParam(r, "slotID"))
			if err != nil {
				status, msg := mapBookingError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Post("/v1/trainers/{trainerID}/slots/{slotID}/block", func(w http.ResponseWriter, r *http.Request) {
			trainerID := chi.URLParam(r, "trainerID")
			if !callerOwnsTrainer(r, trainerID) {
				Fail(w, 403, "only the trainer can block slots")
				return
			}

			out, err := d.BookingSvc.Block(r.Context(), trainerID, chi.URLParam(r, "slotID"))
			if err != nil {
				status, msg := mapBookingError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Post("/v1/trainers/{trainerID}/slots/{slotID}/unblock", func(w http.ResponseWriter, r *http.Request) {
			trainerID := chi.URLParam(r, "trainerID")
			if !callerOwnsTrainer(r, trainerID) {
				Fail(w, 403, "only the trainer can unblock slots")
				return
			}

			out, err := d.BookingSvc.Unblock(r.Context(), trainerID, chi.URLParam(r, "slotID"))
			if err != nil {
				status, msg := mapBookingError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		// ===== Recurring bookings =====
		pr.Get("/v1/trainers/{trainerID}/recurring", func(w http.ResponseWriter, r *http.Request) {
			trainerID := chi.URLParam(r, "trainerID")
			activeOnly := r.URL.Query().Get("all") == ""

			out, err := d.BookingSvc.ListPatterns(r.Context(), trainerID, activeOnly)
			if err != nil {
				status, msg := mapBookingError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Post("/v1/trainers/{trainerID}/recurring/{patternID}/cancel", func(w http.ResponseWriter, r *http.Request) {
			trainerID := chi.URLParam(r, "trainerID")
			if !callerOwnsTrainer(r, trainerID) {
				Fail(w, 403, "only the trainer can cancel a series")
				return
			}

			out, err := d.BookingSvc.CancelPattern(r.Context(), trainerID, chi.URLParam(r, "patternID"))
			if err != nil {
				status, msg := mapBookingError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Post("/v1/trainers/{trainerID}/recurring/advance", func(w http.ResponseWriter, r *http.Request) {
			trainerID := chi.URLParam(r, "trainerID")
			if !callerOwnsTrainer(r, trainerID) {
				Fail(w, 403, "only the trainer can advance their series")
				return
			}

			created, err := d.BookingSvc.AdvancePatterns(r.Context(), trainerID)
			if err != nil {
				status, msg := mapBookingError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"created": created})
		})

		// ===== Day schedule =====
		pr.Get("/v1/trainers/{trainerID}/schedule/day", func(w http.ResponseWriter, r *http.Request) {
			trainerID := chi.URLParam(r, "trainerID")
			date := strings.TrimSpace(r.URL.Query().Get("date"))

			out, err := d.ScheduleSvc.Day(r.Context(), trainerID, date)
			if err != nil {
				status, msg := mapScheduleError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		// ===== Stats =====
		pr.Get("/v1/trainers/{trainerID}/stats", func(w http.ResponseWriter, r *http.Request) {
			trainerID := chi.URLParam(r, "trainerID")
			period := strings.TrimSpace(r.URL.Query().Get("period"))

			out, err := d.StatsSvc.ForTrainer(r.Context(), trainerID, period)
			if err != nil {
				status, msg := mapStatsError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		// ===== Trainee directory =====
		pr.Post("/v1/trainers/{trainerID}/trainees", func(w http.ResponseWriter, r *http.Request) {
			trainerID := chi.URLParam(r, "trainerID")
			if !callerOwnsTrainer(r, trainerID) {
				Fail(w, 403, "only the trainer can manage trainees")
				return
			}

			var in trainee.CreateTraineeInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}
			in.Trim()

			out, err := d.TraineeSvc.Create(r.Context(), trainerID, in)
			if err != nil {
				status, msg := mapTraineeError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, out)
		})

		pr.Get("/v1/trainers/{trainerID}/trainees", func(w http.ResponseWriter, r *http.Request) {
			trainerID := chi.URLParam(r, "trainerID")
			limit := 0
			if v := r.URL.Query().Get("limit"); v != "" {
				limit, _ = strconv.Atoi(v)
			}

			out, err := d.TraineeSvc.List(r.Context(), trainerID, limit)
			if err != nil {
				status, msg := mapTraineeError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Get("/v1/trainers/{trainerID}/trainees/search", func(w http.ResponseWriter, r *http.Request) {
			trainerID := chi.URLParam(r, "trainerID")
			q := strings.TrimSpace(r.URL.Query().Get("q"))

			out, err := d.TraineeSvc.Search(r.Context(), trainerID, q, 20)
			if err != nil {
				status, msg := mapTraineeError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})
	})

	return r
}

// callerOwnsTrainer reports whether the authenticated user is the trainer in
// the path. Callers are never allowed to mutate another trainer's schedule.
func callerOwnsTrainer(r *http.Request, trainerID string) bool {
	au, ok := middleware.GetAuthUser(r.Context())
	return ok && trainerID != "" && au.UID == trainerID
}

func mapAvailabilityError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case timeutil.IsErrInvalidTimeFormat(err), timeutil.IsErrInvalidRange(err):
		return 400, err.Error()
	case availability.IsErrUnauthorized(err):
		return 403, err.Error()
	case availability.IsErrNotFound(err):
		return 404, err.Error()
	case availability.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapBookingError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case booking.IsErrSlotConflict(err):
		return 409, err.Error()
	case timeutil.IsErrInvalidTimeFormat(err), timeutil.IsErrInvalidRange(err):
		return 400, err.Error()
	case booking.IsErrUnauthorized(err):
		return 403, err.Error()
	case booking.IsErrNotFound(err):
		return 404, err.Error()
	case booking.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapScheduleError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case schedule.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapStatsError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case stats.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapTraineeError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case trainee.IsErrNotFound(err):
		return 404, err.Error()
	case trainee.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

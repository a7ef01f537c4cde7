package trainee

import (
	"context"
	"fmt"
	"time"

	"trainer-manager/internal/utils"
)

// Store is the persistence boundary for trainee records.
type Store interface {
	Create(ctx context.Context, trainerID string, t Trainee) (*Trainee, error)
	Get(ctx context.Context, trainerID, traineeID string) (*Trainee, error)
	List(ctx context.Context, trainerID string, limit int) ([]Trainee, error)
	Search(ctx context.Context, trainerID, token string, limit int) ([]Trainee, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

// Create adds a trainee to the trainer's directory, deriving the search
// keywords from the normalized name.
func (s *Service) Create(ctx context.Context, trainerID string, in CreateTraineeInput) (*Trainee, error) {
	if trainerID == "" {
		return nil, fmt.Errorf("%w: trainerId is required", ErrBadRequest)
	}
	if in.FullName == "" {
		return nil, fmt.Errorf("%w: fullName is required", ErrBadRequest)
	}

	now := s.now().UTC()
	nameLower := utils.NormalizeNameLower(in.FullName)

	t := Trainee{
		TrainerID: trainerID,
		FullName:  utils.TrimMax(in.FullName, 120),
		NameLower: nameLower,
		Keywords:  utils.KeywordsFromName(nameLower, utils.Slugify(in.FullName)),
		Email:     in.Email,
		Phone:     in.Phone,
		Goals:     utils.TrimMax(in.Goals, 500),
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return s.store.Create(ctx, trainerID, t)
}

// Get retrieves one trainee.
func (s *Service) Get(ctx context.Context, trainerID, traineeID string) (*Trainee, error) {
	if trainerID == "" || traineeID == "" {
		return nil, fmt.Errorf("%w: trainerId and traineeId are required", ErrBadRequest)
	}
	return s.store.Get(ctx, trainerID, traineeID)
}

// List returns the trainer's active trainees.
func (s *Service) List(ctx context.Context, trainerID string, limit int) ([]Trainee, error) {
	if trainerID == "" {
		return nil, fmt.Errorf("%w: trainerId is required", ErrBadRequest)
	}
	return s.store.List(ctx, trainerID, limit)
}

// Search finds trainees by a name fragment.
func (s *Service) Search(ctx context.Context, trainerID, query string, limit int) ([]Trainee, error) {
	if trainerID == "" {
		return nil, fmt.Errorf("%w: trainerId is required", ErrBadRequest)
	}
	token := utils.NormalizeToken(query)
	if token == "" {
		return []Trainee{}, nil
	}
	return s.store.Search(ctx, trainerID, token, limit)
}

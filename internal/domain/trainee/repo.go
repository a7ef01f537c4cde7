package trainee

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

type Repo struct {
	fs *firestore.Client
}

func NewRepo(fs *firestore.Client) *Repo {
	return &Repo{fs: fs}
}

func (r *Repo) traineesCol(trainerID string) *firestore.CollectionRef {
	return r.fs.Collection("trainers").Doc(trainerID).Collection("trainees")
}

// Create persists a new trainee record.
func (r *Repo) Create(ctx context.Context, trainerID string, t Trainee) (*Trainee, error) {
	ref := r.traineesCol(trainerID).NewDoc()
	t.ID = ref.ID
	t.TrainerID = trainerID

	if _, err := ref.Set(ctx, t); err != nil {
		return nil, fmt.Errorf("failed to create trainee: %w", err)
	}
	return &t, nil
}

// Get retrieves a trainee by ID.
func (r *Repo) Get(ctx context.Context, trainerID, traineeID string) (*Trainee, error) {
	doc, err := r.traineesCol(trainerID).Doc(traineeID).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: trainee not found", ErrNotFound)
	}

	var t Trainee
	if err := doc.DataTo(&t); err != nil {
		return nil, fmt.Errorf("failed to parse trainee: %w", err)
	}
	t.ID = doc.Ref.ID
	t.TrainerID = trainerID
	return &t, nil
}

// List returns the trainer's active trainees ordered by name.
func (r *Repo) List(ctx context.Context, trainerID string, limit int) ([]Trainee, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}
	q := r.traineesCol(trainerID).
		Where("isActive", "==", true).
		OrderBy("nameLower", firestore.Asc).
		Limit(limit)

	return r.collect(ctx, trainerID, q.Documents(ctx))
}

// Search matches trainees whose keyword set contains the query token.
func (r *Repo) Search(ctx context.Context, trainerID, token string, limit int) ([]Trainee, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	q := r.traineesCol(trainerID).
		Where("keywords", "array-contains", token).
		Limit(limit)

	return r.collect(ctx, trainerID, q.Documents(ctx))
}

func (r *Repo) collect(ctx context.Context, trainerID string, iter *firestore.DocumentIterator) ([]Trainee, error) {
	defer iter.Stop()

	trainees := []Trainee{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate trainees: %w", err)
		}

		var t Trainee
		if err := doc.DataTo(&t); err != nil {
			continue
		}
		t.ID = doc.Ref.ID
		t.TrainerID = trainerID
		trainees = append(trainees, t)
	}
	return trainees, nil
}

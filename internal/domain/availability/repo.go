package availability

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
)

// Repo persists rules in the availability subcollection of a trainer.
type Repo struct {
	fs *firestore.Client
}

func NewRepo(fs *firestore.Client) *Repo {
	return &Repo{fs: fs}
}

func (r *Repo) rulesCol(trainerID string) *firestore.CollectionRef {
	return r.fs.Collection("trainers").Doc(trainerID).Collection("availability")
}

// Create persists a new rule and returns it with its generated ID.
func (r *Repo) Create(ctx context.Context, trainerID string, rule Rule) (*Rule, error) {
	ref := r.rulesCol(trainerID).NewDoc()
	rule.ID = ref.ID
	rule.TrainerID = trainerID

	if _, err := ref.Set(ctx, rule); err != nil {
		return nil, fmt.Errorf("failed to create availability rule: %w", err)
	}
	return &rule, nil
}

// Get retrieves a rule by ID.
func (r *Repo) Get(ctx context.Context, trainerID, ruleID string) (*Rule, error) {
	doc, err := r.rulesCol(trainerID).Doc(ruleID).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: availability rule not found", ErrNotFound)
	}

	var rule Rule
	if err := doc.DataTo(&rule); err != nil {
		return nil, fmt.Errorf("failed to parse availability rule: %w", err)
	}
	rule.ID = doc.Ref.ID
	rule.TrainerID = trainerID
	return &rule, nil
}

// Update applies a partial update and returns the fresh document.
func (r *Repo) Update(ctx context.Context, trainerID, ruleID string, updates map[string]interface{}) (*Rule, error) {
	ref := r.rulesCol(trainerID).Doc(ruleID)
	if _, err := ref.Set(ctx, updates, firestore.MergeAll); err != nil {
		return nil, fmt.Errorf("failed to update availability rule: %w", err)
	}
	return r.Get(ctx, trainerID, ruleID)
}

// ListActive returns the trainer's available rules ordered by day then start.
func (r *Repo) ListActive(ctx context.Context, trainerID string) ([]Rule, error) {
	q := r.rulesCol(trainerID).
		Where("isAvailable", "==", true).
		OrderBy("dayOfWeek", firestore.Asc).
		OrderBy("startTime", firestore.Asc)

	return r.collect(ctx, trainerID, q.Documents(ctx))
}

// ListByDay returns the trainer's available rules for one weekday.
func (r *Repo) ListByDay(ctx context.Context, trainerID string, dayOfWeek int) ([]Rule, error) {
	q := r.rulesCol(trainerID).
		Where("isAvailable", "==", true).
		Where("dayOfWeek", "==", dayOfWeek).
		OrderBy("startTime", firestore.Asc)

	return r.collect(ctx, trainerID, q.Documents(ctx))
}

func (r *Repo) collect(ctx context.Context, trainerID string, iter *firestore.DocumentIterator) ([]Rule, error) {
	defer iter.Stop()

	rules := []Rule{}
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate availability rules: %w", err)
		}

		var rule Rule
		if err := doc.DataTo(&rule); err != nil {
			continue
		}
		rule.ID = doc.Ref.ID
		rule.TrainerID = trainerID
		rules = append(rules, rule)
	}
	return rules, nil
}

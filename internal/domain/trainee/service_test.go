package trainee

import (
	"context"
	"fmt"
	"testing"
)

type memStore struct {
	trainees map[string]Trainee
	seq      int
}

func newMemStore() *memStore {
	return &memStore{trainees: map[string]Trainee{}}
}

func (m *memStore) Create(_ context.Context, trainerID string, t Trainee) (*Trainee, error) {
	m.seq++
	t.ID = fmt.Sprintf("trainee-%d", m.seq)
	t.TrainerID = trainerID
	m.trainees[t.ID] = t
	return &t, nil
}

func (m *memStore) Get(_ context.Context, _ string, traineeID string) (*Trainee, error) {
	t, ok := m.trainees[traineeID]
	if !ok {
		return nil, fmt.Errorf("%w: trainee not found", ErrNotFound)
	}
	return &t, nil
}

func (m *memStore) List(_ context.Context, _ string, _ int) ([]Trainee, error) {
	out := []Trainee{}
	for _, t := range m.trainees {
		out = append(out, t)
	}
	return out, nil
}

func (m *memStore) Search(_ context.Context, _ string, token string, _ int) ([]Trainee, error) {
	out := []Trainee{}
	for _, t := range m.trainees {
		for _, kw := range t.Keywords {
			if kw == token {
				out = append(out, t)
				break
			}
		}
	}
	return out, nil
}

func TestCreateDerivesKeywords(t *testing.T) {
	svc := NewService(newMemStore())

	got, err := svc.Create(context.Background(), "trainer-1", CreateTraineeInput{
		FullName: "Jane Doe",
		Email:    "jane@example.com",
	})
	if err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if got.NameLower != "jane doe" {
		t.Errorf("nameLower = %q, want %q", got.NameLower, "jane doe")
	}
	if !got.IsActive {
		t.Error("new trainee not active")
	}
	want := map[string]bool{"jane": true, "doe": true, "jane doe": true, "jane-doe": true}
	if len(got.Keywords) != len(want) {
		t.Fatalf("keywords = %v", got.Keywords)
	}
	for _, kw := range got.Keywords {
		if !want[kw] {
			t.Errorf("unexpected keyword %q", kw)
		}
	}
}

func TestCreateValidation(t *testing.T) {
	svc := NewService(newMemStore())

	if _, err := svc.Create(context.Background(), "", CreateTraineeInput{FullName: "Jane"}); !IsErrBadRequest(err) {
		t.Fatalf("error = %v, want bad request", err)
	}
	if _, err := svc.Create(context.Background(), "trainer-1", CreateTraineeInput{}); !IsErrBadRequest(err) {
		t.Fatalf("error = %v, want bad request", err)
	}
}

func TestSearch(t *testing.T) {
	svc := NewService(newMemStore())
	ctx := context.Background()

	if _, err := svc.Create(ctx, "trainer-1", CreateTraineeInput{FullName: "Jane Doe"}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}
	if _, err := svc.Create(ctx, "trainer-1", CreateTraineeInput{FullName: "John Smith"}); err != nil {
		t.Fatalf("Create() error: %v", err)
	}

	got, err := svc.Search(ctx, "trainer-1", "  Doe ", 10)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(got) != 1 || got[0].FullName != "Jane Doe" {
		t.Fatalf("Search(doe) = %v", got)
	}

	got, err = svc.Search(ctx, "trainer-1", "   ", 10)
	if err != nil {
		t.Fatalf("Search() error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("blank query returned %v", got)
	}
}

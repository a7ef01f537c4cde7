package trainee

import (
	"strings"
	"time"
)

// Trainee is a client record in a trainer's directory. Identity and auth for
// trainees live elsewhere; this is only what the trainer sees when picking
// someone to book.
type Trainee struct {
	ID        string    `firestore:"id" json:"id"`
	TrainerID string    `firestore:"trainerId" json:"trainerId"`
	FullName  string    `firestore:"fullName" json:"fullName"`
	NameLower string    `firestore:"nameLower" json:"-"`
	Keywords  []string  `firestore:"keywords" json:"-"`
	Email     string    `firestore:"email,omitempty" json:"email,omitempty"`
	Phone     string    `firestore:"phone,omitempty" json:"phone,omitempty"`
	Goals     string    `firestore:"goals,omitempty" json:"goals,omitempty"`
	IsActive  bool      `firestore:"isActive" json:"isActive"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// CreateTraineeInput is the payload for adding a trainee.
type CreateTraineeInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Goals    string `json:"goals,omitempty"`
}

func (in *CreateTraineeInput) Trim() {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Goals = strings.TrimSpace(in.Goals)
}

package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type CaseStatus string

const (
	CaseOpen   CaseStatus = "Open"
	CaseClosed CaseStatus = "Closed"
	CaseUrgent CaseStatus = "Urgent"
)

// CollaborationCase is a cross-doctor discussion around one patient record.
// The case id doubles as the realtime room id for its comment thread.
type CollaborationCase struct {
	ID            uuid.UUID      `json:"id" db:"case_id"`
	Title         string         `json:"title" db:"title"`
	PatientID     string         `json:"patient_id" db:"patient_id"`
	RecordID      *string        `json:"record_id,omitempty" db:"record_id"`
	Description   *string        `json:"description,omitempty" db:"description"`
	Status        CaseStatus     `json:"status" db:"status"`
	CreatedBy     uuid.UUID      `json:"created_by" db:"created_by"`
	Collaborators pq.StringArray `json:"collaborators" db:"collaborators"`
	FinalDecision *FinalDecision `json:"final_decision,omitempty" db:"-"`
	CreatedAt     time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at" db:"updated_at"`
	ClosedAt      *time.Time     `json:"closed_at,omitempty" db:"closed_at"`
}

// FinalDecision is recorded once when a case is closed; a closed case accepts
// no further comments.
type FinalDecision struct {
	DoctorID string `json:"doctor_id" db:"decision_doctor_id"`
	Content  string `json:"content" db:"decision_content"`
}

type CreateCaseInput struct {
	Title         string   `json:"title" validate:"required,min=3,max=200"`
	PatientID     string   `json:"patient_id" validate:"required"`
	RecordID      *string  `json:"record_id,omitempty"`
	Description   *string  `json:"description,omitempty"`
	Collaborators []string `json:"collaborators,omitempty"`
	Urgent        bool     `json:"urgent,omitempty"`
}

type CloseCaseInput struct {
	Decision string `json:"decision" validate:"required,min=1"`
}

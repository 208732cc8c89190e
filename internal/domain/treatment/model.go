package treatment

import (
	"time"

	"github.com/google/uuid"
)

// TreatmentPlan maps to the treatment_plan table.
type TreatmentPlan struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	PatientID   uuid.UUID  `db:"patient_id" json:"patient_id"`
	Title       string     `db:"title" json:"title"`
	Description *string    `db:"description" json:"description,omitempty"`
	Status      string     `db:"status" json:"status"`
	AuthoredBy  *string    `db:"authored_by" json:"authored_by,omitempty"`
	ActivatedAt *time.Time `db:"activated_at" json:"activated_at,omitempty"`
	EndedAt     *time.Time `db:"ended_at" json:"ended_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// Plan statuses.
const (
	StatusDraft     = "draft"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusRevoked   = "revoked"
)

var validTransitions = map[string][]string{
	StatusDraft:  {StatusActive, StatusRevoked},
	StatusActive: {StatusCompleted, StatusRevoked},
}

// CanTransition reports whether a plan may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Goal maps to the plan_goal table.
type Goal struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	PlanID      uuid.UUID  `db:"plan_id" json:"plan_id"`
	Description string     `db:"description" json:"description"`
	TargetDate  *time.Time `db:"target_date" json:"target_date,omitempty"`
	Achieved    bool       `db:"achieved" json:"achieved"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// PlanActivity maps to the plan_activity table.
type PlanActivity struct {
	ID        uuid.UUID `db:"id" json:"id"`
	PlanID    uuid.UUID `db:"plan_id" json:"plan_id"`
	Kind      string    `db:"kind" json:"kind"`
	Schedule  string    `db:"schedule" json:"schedule"`
	Completed bool      `db:"completed" json:"completed"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

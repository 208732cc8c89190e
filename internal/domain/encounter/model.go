package encounter

import (
	"time"

	"github.com/google/uuid"
)

// Encounter maps to the encounter table. It records one hospital admission
// or attendance episode for a patient.
type Encounter struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	PatientID   uuid.UUID  `db:"patient_id" json:"patient_id"`
	Status      string     `db:"status" json:"status"`
	Class       string     `db:"class" json:"class"`
	Location    *string    `db:"location" json:"location,omitempty"`
	AttendingID *uuid.UUID `db:"attending_id" json:"attending_id,omitempty"`
	ReasonText  *string    `db:"reason_text" json:"reason_text,omitempty"`
	StartTime   *time.Time `db:"start_time" json:"start_time,omitempty"`
	EndTime     *time.Time `db:"end_time" json:"end_time,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// Encounter statuses.
const (
	StatusPlanned    = "planned"
	StatusInProgress = "in-progress"
	StatusDischarged = "discharged"
	StatusCancelled  = "cancelled"
)

// validTransitions defines the admission workflow. Discharged and cancelled
// are terminal.
var validTransitions = map[string][]string{
	StatusPlanned:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusDischarged, StatusCancelled},
}

// CanTransition reports whether an encounter may move from one status to
// another.
func CanTransition(from, to string) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

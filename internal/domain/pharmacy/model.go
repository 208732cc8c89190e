package pharmacy

import (
	"time"

	"github.com/google/uuid"
)

// Medication maps to the medication table: the formulary catalog.
type Medication struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	Form      string    `db:"form" json:"form"`
	Strength  string    `db:"strength" json:"strength"`
	Active    bool      `db:"active" json:"active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// MedicationOrder maps to the medication_order table.
type MedicationOrder struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	PatientID    uuid.UUID  `db:"patient_id" json:"patient_id"`
	EncounterID  *uuid.UUID `db:"encounter_id" json:"encounter_id,omitempty"`
	MedicationID uuid.UUID  `db:"medication_id" json:"medication_id"`
	Dose         string     `db:"dose" json:"dose"`
	Route        string     `db:"route" json:"route"`
	Frequency    string     `db:"frequency" json:"frequency"`
	Status       string     `db:"status" json:"status"`
	PRN          bool       `db:"prn" json:"prn"`
	OrderedBy    *string    `db:"ordered_by" json:"ordered_by,omitempty"`
	StartAt      time.Time  `db:"start_at" json:"start_at"`
	EndAt        *time.Time `db:"end_at" json:"end_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Medication order statuses.
const (
	StatusActive    = "active"
	StatusOnHold    = "on-hold"
	StatusCompleted = "completed"
	StatusStopped   = "stopped"
)

var validTransitions = map[string][]string{
	StatusActive: {StatusOnHold, StatusCompleted, StatusStopped},
	StatusOnHold: {StatusActive, StatusStopped},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Administration maps to the administration table: one MAR entry.
type Administration struct {
	ID        uuid.UUID `db:"id" json:"id"`
	OrderID   uuid.UUID `db:"order_id" json:"order_id"`
	Given     bool      `db:"given" json:"given"`
	Reason    *string   `db:"reason" json:"reason,omitempty"`
	At        time.Time `db:"at" json:"at"`
	GivenBy   *string   `db:"given_by" json:"given_by,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

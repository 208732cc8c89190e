package woundcare

import (
	"time"

	"github.com/google/uuid"
)

// WoundAssessment maps to the wound_assessment table: one bedside review of
// a wound site.
type WoundAssessment struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	BurnCaseID     *uuid.UUID `db:"burn_case_id" json:"burn_case_id,omitempty"`
	Site           string     `db:"site" json:"site"`
	Appearance     string     `db:"appearance" json:"appearance"`
	ExudateAmount  string     `db:"exudate_amount" json:"exudate_amount"`
	ExudateType    *string    `db:"exudate_type" json:"exudate_type,omitempty"`
	InfectionSigns bool       `db:"infection_signs" json:"infection_signs"`
	PainScore      int        `db:"pain_score" json:"pain_score"`
	PhotoDocID     *uuid.UUID `db:"photo_doc_id" json:"photo_doc_id,omitempty"`
	AssessedBy     *string    `db:"assessed_by" json:"assessed_by,omitempty"`
	AssessedAt     time.Time  `db:"assessed_at" json:"assessed_at"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// Exudate amounts.
const (
	ExudateNone     = "none"
	ExudateLow      = "low"
	ExudateModerate = "moderate"
	ExudateHigh     = "high"
)

// DressingChange maps to the dressing_change table. NextReviewAt defaults to
// 48 hours after the change unless the clinician overrides it.
type DressingChange struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	AssessmentID *uuid.UUID `db:"assessment_id" json:"assessment_id,omitempty"`
	PatientID    uuid.UUID  `db:"patient_id" json:"patient_id"`
	Site         string     `db:"site" json:"site"`
	Products     string     `db:"products" json:"products"`
	ChangedAt    time.Time  `db:"changed_at" json:"changed_at"`
	NextReviewAt time.Time  `db:"next_review_at" json:"next_review_at"`
	ChangedBy    *string    `db:"changed_by" json:"changed_by,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// DefaultReviewInterval is the period after a dressing change when the wound
// should be reviewed again.
const DefaultReviewInterval = 48 * time.Hour

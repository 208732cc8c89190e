package documents

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Clinical note statuses. A note is freely editable while draft; finalization
// locks it, after which only amendment can change the body.
const (
	StatusDraft   = "draft"
	StatusFinal   = "final"
	StatusAmended = "amended"
)

// Note types.
const (
	NoteProgress  = "progress"
	NoteWardRound = "ward-round"
	NoteOperative = "operative"
	NoteDischarge = "discharge"
	NoteNursing   = "nursing"
)

// ClinicalNote maps to the clinical_note table.
type ClinicalNote struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	PatientID   uuid.UUID  `db:"patient_id" json:"patient_id"`
	EncounterID *uuid.UUID `db:"encounter_id" json:"encounter_id,omitempty"`
	Author      string     `db:"author" json:"author"`
	Type        string     `db:"type" json:"type"`
	Title       string     `db:"title" json:"title"`
	Body        string     `db:"body" json:"body"`
	Status      string     `db:"status" json:"status"`
	Version     int        `db:"version" json:"version"`
	PriorBody   *string    `db:"prior_body" json:"prior_body,omitempty"`
	AmendReason *string    `db:"amend_reason" json:"amend_reason,omitempty"`
	FinalizedAt *time.Time `db:"finalized_at" json:"finalized_at,omitempty"`
	AmendedAt   *time.Time `db:"amended_at" json:"amended_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

var validNoteTransitions = map[string][]string{
	StatusDraft:   {StatusFinal},
	StatusFinal:   {StatusAmended},
	StatusAmended: {StatusAmended},
}

func CanTransition(from, to string) bool {
	for _, s := range validNoteTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Template kinds.
const (
	KindDischargeSummary = "discharge-summary"
	KindBurnSummary      = "burn-assessment-summary"
)

// DocumentTemplate maps to the document_template table. Body is Go
// text/template source rendered against case data.
type DocumentTemplate struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Kind      string    `db:"kind" json:"kind"`
	Body      string    `db:"body" json:"body"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// RenderedDocument maps to the rendered_document table. Context keeps the
// structured data the template was executed against, Text the plain output.
type RenderedDocument struct {
	ID         uuid.UUID       `db:"id" json:"id"`
	TemplateID uuid.UUID       `db:"template_id" json:"template_id"`
	PatientID  uuid.UUID       `db:"patient_id" json:"patient_id"`
	CaseID     *uuid.UUID      `db:"case_id" json:"case_id,omitempty"`
	Kind       string          `db:"kind" json:"kind"`
	Context    json.RawMessage `db:"context" json:"context"`
	Text       string          `db:"text" json:"text"`
	RenderedBy *string         `db:"rendered_by" json:"rendered_by,omitempty"`
	RenderedAt time.Time       `db:"rendered_at" json:"rendered_at"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}

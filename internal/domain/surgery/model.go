package surgery

import (
	"time"

	"github.com/google/uuid"
)

// Theatre maps to the theatre table.
type Theatre struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Room      string    `db:"room" json:"room"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Theatre statuses.
const (
	TheatreAvailable = "available"
	TheatreInUse     = "in-use"
	TheatreTurnover  = "turnover"
	TheatreBlocked   = "blocked"
)

// TheatreCase maps to the theatre_case table: one planned or performed
// operative session, usually grafting or debridement on a burn case.
type TheatreCase struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	PatientID      uuid.UUID  `db:"patient_id" json:"patient_id"`
	BurnCaseID     *uuid.UUID `db:"burn_case_id" json:"burn_case_id,omitempty"`
	SurgeonID      *uuid.UUID `db:"surgeon_id" json:"surgeon_id,omitempty"`
	TheatreID      *uuid.UUID `db:"theatre_id" json:"theatre_id,omitempty"`
	Procedure      string     `db:"procedure" json:"procedure"`
	Status         string     `db:"status" json:"status"`
	ScheduledStart time.Time  `db:"scheduled_start" json:"scheduled_start"`
	ScheduledEnd   time.Time  `db:"scheduled_end" json:"scheduled_end"`
	ActualStart    *time.Time `db:"actual_start" json:"actual_start,omitempty"`
	ActualEnd      *time.Time `db:"actual_end" json:"actual_end,omitempty"`
	Notes          *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// Theatre case statuses.
const (
	StatusScheduled = "scheduled"
	StatusPreOp     = "pre-op"
	StatusInTheatre = "in-theatre"
	StatusRecovery  = "recovery"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

var validTransitions = map[string][]string{
	StatusScheduled: {StatusPreOp, StatusCancelled},
	StatusPreOp:     {StatusInTheatre, StatusCancelled},
	StatusInTheatre: {StatusRecovery},
	StatusRecovery:  {StatusCompleted},
}

// CanTransition reports whether a theatre case may move from one status to
// another.
func CanTransition(from, to string) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// GraftProcedure maps to the graft_procedure table: one excision or graft
// performed within a theatre case.
type GraftProcedure struct {
	ID             uuid.UUID `db:"id" json:"id"`
	CaseID         uuid.UUID `db:"case_id" json:"case_id"`
	Type           string    `db:"type" json:"type"`
	Site           string    `db:"site" json:"site"`
	DonorSite      *string   `db:"donor_site" json:"donor_site,omitempty"`
	ExcisedAreaCm2 float64   `db:"excised_area_cm2" json:"excised_area_cm2"`
	MeshRatio      *string   `db:"mesh_ratio" json:"mesh_ratio,omitempty"`
	PerformedAt    time.Time `db:"performed_at" json:"performed_at"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// Graft procedure types.
const (
	GraftExcision    = "excision"
	GraftSplit       = "split-thickness-graft"
	GraftFull        = "full-thickness-graft"
	GraftDebridement = "debridement"
)

// CaseEvent maps to the case_event table: the intra-operative timeline.
type CaseEvent struct {
	ID         uuid.UUID `db:"id" json:"id"`
	CaseID     uuid.UUID `db:"case_id" json:"case_id"`
	Kind       string    `db:"kind" json:"kind"`
	At         time.Time `db:"at" json:"at"`
	RecordedBy *string   `db:"recorded_by" json:"recorded_by,omitempty"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Case event kinds.
const (
	EventAnaesthesiaStart = "anaesthesia-start"
	EventIncision         = "incision"
	EventClosure          = "closure"
	EventOutOfTheatre     = "out-of-theatre"
)

// SwabCount maps to the swab_count table. Correct is derived, never stored
// from client input.
type SwabCount struct {
	ID        uuid.UUID `db:"id" json:"id"`
	CaseID    uuid.UUID `db:"case_id" json:"case_id"`
	Item      string    `db:"item" json:"item"`
	Expected  int       `db:"expected" json:"expected"`
	Actual    int       `db:"actual" json:"actual"`
	Correct   bool      `db:"correct" json:"correct"`
	CountedAt time.Time `db:"counted_at" json:"counted_at"`
	CountedBy *string   `db:"counted_by" json:"counted_by,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

package lab

import (
	"time"

	"github.com/google/uuid"
)

// LabOrder maps to the lab_order table.
type LabOrder struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	PatientID   uuid.UUID  `db:"patient_id" json:"patient_id"`
	EncounterID *uuid.UUID `db:"encounter_id" json:"encounter_id,omitempty"`
	PanelCode   string     `db:"panel_code" json:"panel_code"`
	Priority    string     `db:"priority" json:"priority"`
	Status      string     `db:"status" json:"status"`
	OrderedBy   *string    `db:"ordered_by" json:"ordered_by,omitempty"`
	OrderedAt   time.Time  `db:"ordered_at" json:"ordered_at"`
	CollectedAt *time.Time `db:"collected_at" json:"collected_at,omitempty"`
	ResultedAt  *time.Time `db:"resulted_at" json:"resulted_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// Lab order statuses.
const (
	StatusOrdered   = "ordered"
	StatusCollected = "collected"
	StatusResulted  = "resulted"
	StatusCancelled = "cancelled"
)

// Priorities.
const (
	PriorityRoutine = "routine"
	PriorityUrgent  = "urgent"
)

var validTransitions = map[string][]string{
	StatusOrdered:   {StatusCollected, StatusCancelled},
	StatusCollected: {StatusResulted, StatusCancelled},
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

// LabResult maps to the lab_result table. Flag is derived from the value
// against the reference range, never taken from the client.
type LabResult struct {
	ID         uuid.UUID `db:"id" json:"id"`
	OrderID    uuid.UUID `db:"order_id" json:"order_id"`
	Analyte    string    `db:"analyte" json:"analyte"`
	Value      float64   `db:"value" json:"value"`
	Unit       string    `db:"unit" json:"unit"`
	RefLow     *float64  `db:"ref_low" json:"ref_low,omitempty"`
	RefHigh    *float64  `db:"ref_high" json:"ref_high,omitempty"`
	Flag       string    `db:"flag" json:"flag"`
	ResultedAt time.Time `db:"resulted_at" json:"resulted_at"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Result flags.
const (
	FlagNormal       = "normal"
	FlagLow          = "low"
	FlagHigh         = "high"
	FlagCriticalLow  = "critical-low"
	FlagCriticalHigh = "critical-high"
)

// ReferenceRange bounds one analyte.
type ReferenceRange struct {
	Low  float64
	High float64
	Unit string
}

// burnPanel holds default reference ranges for the analytes the unit orders
// most. Used when a submitted result carries no bounds of its own.
var burnPanel = map[string]ReferenceRange{
	"hb":         {Low: 130, High: 175, Unit: "g/L"},
	"wcc":        {Low: 4.0, High: 11.0, Unit: "10^9/L"},
	"plt":        {Low: 150, High: 400, Unit: "10^9/L"},
	"na":         {Low: 135, High: 145, Unit: "mmol/L"},
	"k":          {Low: 3.5, High: 5.2, Unit: "mmol/L"},
	"urea":       {Low: 2.5, High: 7.8, Unit: "mmol/L"},
	"creatinine": {Low: 60, High: 110, Unit: "umol/L"},
	"albumin":    {Low: 35, High: 50, Unit: "g/L"},
	"lactate":    {Low: 0.5, High: 2.0, Unit: "mmol/L"},
	"crp":        {Low: 0, High: 5, Unit: "mg/L"},
	"glucose":    {Low: 4.0, High: 7.8, Unit: "mmol/L"},
}

// DefaultRange returns the built-in burn-panel range for an analyte code.
func DefaultRange(analyte string) (ReferenceRange, bool) {
	r, ok := burnPanel[analyte]
	return r, ok
}

// criticalMargin widens the reference range for critical flagging: values
// more than 20% beyond a bound are critical.
const criticalMargin = 0.2

// DeriveFlag classifies a value against the range bounds.
func DeriveFlag(value, low, high float64) string {
	switch {
	case value < low*(1-criticalMargin):
		return FlagCriticalLow
	case value < low:
		return FlagLow
	case value > high*(1+criticalMargin):
		return FlagCriticalHigh
	case value > high:
		return FlagHigh
	default:
		return FlagNormal
	}
}

package burns

import (
	"time"

	"github.com/google/uuid"

	"github.com/burnunit/emr/pkg/burnscore"
)

// BurnCase maps to the burn_case table. It is the anchor record for one
// burn injury episode: the region map, vitals, and fluid records hang off it,
// and the TBSA snapshot is recomputed whenever the region map changes.
type BurnCase struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	PatientID        uuid.UUID  `db:"patient_id" json:"patient_id"`
	EncounterID      *uuid.UUID `db:"encounter_id" json:"encounter_id,omitempty"`
	InjuryTime       time.Time  `db:"injury_time" json:"injury_time"`
	Mechanism        string     `db:"mechanism" json:"mechanism"`
	InhalationInjury bool       `db:"inhalation_injury" json:"inhalation_injury"`
	WeightKg         float64    `db:"weight_kg" json:"weight_kg"`
	TBSAPct          float64    `db:"tbsa_pct" json:"tbsa_pct"`
	Status           string     `db:"status" json:"status"`
	Notes            *string    `db:"notes" json:"notes,omitempty"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// Burn case statuses.
const (
	StatusActive = "active"
	StatusClosed = "closed"
)

// RegionRecord maps to the burn_region table: one row per burned region
// entry on a case.
type RegionRecord struct {
	ID       uuid.UUID        `db:"id" json:"id"`
	CaseID   uuid.UUID        `db:"case_id" json:"case_id"`
	Region   burnscore.Region `db:"region" json:"region"`
	Depth    burnscore.Depth  `db:"depth" json:"depth"`
	Fraction float64          `db:"fraction" json:"fraction"`
}

// VitalsRecord maps to the burn_vitals table. UrineOutputML is the volume
// collected over IntervalHours ending at RecordedAt.
type VitalsRecord struct {
	ID            uuid.UUID `db:"id" json:"id"`
	CaseID        uuid.UUID `db:"case_id" json:"case_id"`
	RecordedAt    time.Time `db:"recorded_at" json:"recorded_at"`
	HeartRate     int       `db:"heart_rate" json:"heart_rate"`
	SystolicBP    int       `db:"systolic_bp" json:"systolic_bp"`
	DiastolicBP   int       `db:"diastolic_bp" json:"diastolic_bp"`
	SpO2          int       `db:"spo2" json:"spo2"`
	TempC         float64   `db:"temp_c" json:"temp_c"`
	UrineOutputML float64   `db:"urine_output_ml" json:"urine_output_ml"`
	IntervalHours float64   `db:"interval_hours" json:"interval_hours"`
	RecordedBy    *string   `db:"recorded_by" json:"recorded_by,omitempty"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// Sample converts the stored record to the engine's input type.
func (v *VitalsRecord) Sample() burnscore.VitalsSample {
	return burnscore.VitalsSample{
		Time:          v.RecordedAt,
		HeartRate:     v.HeartRate,
		SystolicBP:    v.SystolicBP,
		DiastolicBP:   v.DiastolicBP,
		SpO2:          v.SpO2,
		TempC:         v.TempC,
		UrineOutputML: v.UrineOutputML,
		IntervalHours: v.IntervalHours,
	}
}

// FluidRecord maps to the burn_fluid table: one administered crystalloid
// volume over a period.
type FluidRecord struct {
	ID          uuid.UUID `db:"id" json:"id"`
	CaseID      uuid.UUID `db:"case_id" json:"case_id"`
	VolumeML    float64   `db:"volume_ml" json:"volume_ml"`
	FluidType   string    `db:"fluid_type" json:"fluid_type"`
	PeriodStart time.Time `db:"period_start" json:"period_start"`
	PeriodEnd   time.Time `db:"period_end" json:"period_end"`
	RecordedBy  *string   `db:"recorded_by" json:"recorded_by,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// overlapML returns the share of the record's volume that falls inside the
// window [start, end), assuming uniform administration over the period.
func (f *FluidRecord) overlapML(start, end time.Time) float64 {
	if !f.PeriodEnd.After(f.PeriodStart) {
		return 0
	}
	s := f.PeriodStart
	if start.After(s) {
		s = start
	}
	e := f.PeriodEnd
	if end.Before(e) {
		e = end
	}
	if !e.After(s) {
		return 0
	}
	return f.VolumeML * e.Sub(s).Hours() / f.PeriodEnd.Sub(f.PeriodStart).Hours()
}

package burns

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/burnunit/emr/internal/domain/patient"
	"github.com/burnunit/emr/pkg/burnscore"
)

// PatientLookup is the slice of the patient repository the burns service needs
// for age and sex lookups.
type PatientLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

type Service struct {
	cases    Repository
	patients PatientLookup
}

func NewService(cases Repository, patients PatientLookup) *Service {
	return &Service{cases: cases, patients: patients}
}

var validMechanisms = map[string]bool{
	"flame": true, "scald": true, "contact": true, "electrical": true,
	"chemical": true, "radiation": true, "friction": true,
}

func (s *Service) CreateCase(ctx context.Context, bc *BurnCase) error {
	if bc.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if _, err := s.patients.GetByID(ctx, bc.PatientID); err != nil {
		return fmt.Errorf("patient not found: %w", err)
	}
	if bc.InjuryTime.IsZero() {
		return fmt.Errorf("injury_time is required")
	}
	if bc.InjuryTime.After(time.Now()) {
		return fmt.Errorf("injury_time cannot be in the future")
	}
	if bc.Mechanism == "" {
		return fmt.Errorf("mechanism is required")
	}
	if !validMechanisms[bc.Mechanism] {
		return fmt.Errorf("invalid mechanism: %s", bc.Mechanism)
	}
	if bc.WeightKg < 0 {
		return fmt.Errorf("weight_kg cannot be negative")
	}
	if bc.Status == "" {
		bc.Status = StatusActive
	}
	if bc.Status != StatusActive && bc.Status != StatusClosed {
		return fmt.Errorf("invalid status: %s", bc.Status)
	}
	return s.cases.Create(ctx, bc)
}

func (s *Service) GetCase(ctx context.Context, id uuid.UUID) (*BurnCase, error) {
	return s.cases.GetByID(ctx, id)
}

func (s *Service) UpdateCase(ctx context.Context, bc *BurnCase) error {
	existing, err := s.cases.GetByID(ctx, bc.ID)
	if err != nil {
		return fmt.Errorf("burn case not found: %w", err)
	}
	if existing.Status == StatusClosed && bc.Status != StatusActive {
		return fmt.Errorf("burn case is closed")
	}
	if bc.InjuryTime.IsZero() {
		return fmt.Errorf("injury_time is required")
	}
	if !validMechanisms[bc.Mechanism] {
		return fmt.Errorf("invalid mechanism: %s", bc.Mechanism)
	}
	if bc.WeightKg < 0 {
		return fmt.Errorf("weight_kg cannot be negative")
	}
	if bc.Status == "" {
		bc.Status = existing.Status
	}
	if bc.Status != StatusActive && bc.Status != StatusClosed {
		return fmt.Errorf("invalid status: %s", bc.Status)
	}
	// TBSA snapshot only moves through region replacement.
	bc.TBSAPct = existing.TBSAPct
	return s.cases.Update(ctx, bc)
}

func (s *Service) CloseCase(ctx context.Context, id uuid.UUID) (*BurnCase, error) {
	bc, err := s.cases.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("burn case not found: %w", err)
	}
	bc.Status = StatusClosed
	if err := s.cases.Update(ctx, bc); err != nil {
		return nil, err
	}
	return bc, nil
}

func (s *Service) DeleteCase(ctx context.Context, id uuid.UUID) error {
	return s.cases.Delete(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*BurnCase, int, error) {
	return s.cases.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*BurnCase, int, error) {
	return s.cases.Search(ctx, params, limit, offset)
}

// ReplaceRegions swaps the case's region map and recomputes the TBSA snapshot
// from the patient's age at injury time. Each region may appear once and its
// fraction must be in (0,1].
func (s *Service) ReplaceRegions(ctx context.Context, caseID uuid.UUID, regions []*RegionRecord) (*BurnCase, error) {
	bc, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("burn case not found: %w", err)
	}
	if bc.Status == StatusClosed {
		return nil, fmt.Errorf("burn case is closed")
	}

	seen := make(map[burnscore.Region]bool)
	burnsIn := make([]burnscore.RegionBurn, 0, len(regions))
	for _, reg := range regions {
		if !burnscore.ValidRegion(reg.Region) {
			return nil, fmt.Errorf("unknown region: %s", reg.Region)
		}
		if !burnscore.ValidDepth(reg.Depth) {
			return nil, fmt.Errorf("unknown depth: %s", reg.Depth)
		}
		if reg.Fraction <= 0 || reg.Fraction > 1 {
			return nil, fmt.Errorf("region %s: fraction must be in (0,1], got %.2f", reg.Region, reg.Fraction)
		}
		if seen[reg.Region] {
			return nil, fmt.Errorf("region %s listed more than once", reg.Region)
		}
		seen[reg.Region] = true
		burnsIn = append(burnsIn, burnscore.RegionBurn{Region: reg.Region, Depth: reg.Depth, Fraction: reg.Fraction})
	}

	p, err := s.patients.GetByID(ctx, bc.PatientID)
	if err != nil {
		return nil, fmt.Errorf("patient not found: %w", err)
	}
	tbsa, err := burnscore.TBSA(burnsIn, p.AgeYearsAt(bc.InjuryTime))
	if err != nil {
		return nil, err
	}

	if err := s.cases.ReplaceRegions(ctx, caseID, regions, tbsa); err != nil {
		return nil, err
	}
	bc.TBSAPct = tbsa
	return bc, nil
}

func (s *Service) GetRegions(ctx context.Context, caseID uuid.UUID) ([]*RegionRecord, error) {
	if _, err := s.cases.GetByID(ctx, caseID); err != nil {
		return nil, fmt.Errorf("burn case not found: %w", err)
	}
	return s.cases.GetRegions(ctx, caseID)
}

// AssessmentResult bundles the severity scores computed from the current
// region map and case record.
type AssessmentResult struct {
	CaseID           uuid.UUID            `json:"case_id"`
	TBSAPct          float64              `json:"tbsa_pct"`
	Baux             float64              `json:"baux"`
	RevisedBaux      float64              `json:"revised_baux"`
	ABSI             burnscore.ABSIResult `json:"absi"`
	CurreriKcalDay   float64              `json:"curreri_kcal_day"`
	FullThickness    bool                 `json:"full_thickness"`
	AgeYearsAtInjury int                  `json:"age_years_at_injury"`
}

func (s *Service) Assessment(ctx context.Context, caseID uuid.UUID) (*AssessmentResult, error) {
	bc, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("burn case not found: %w", err)
	}
	p, err := s.patients.GetByID(ctx, bc.PatientID)
	if err != nil {
		return nil, fmt.Errorf("patient not found: %w", err)
	}
	regions, err := s.cases.GetRegions(ctx, caseID)
	if err != nil {
		return nil, err
	}

	burnsIn := make([]burnscore.RegionBurn, 0, len(regions))
	for _, reg := range regions {
		burnsIn = append(burnsIn, burnscore.RegionBurn{Region: reg.Region, Depth: reg.Depth, Fraction: reg.Fraction})
	}
	age := p.AgeYearsAt(bc.InjuryTime)
	tbsa, err := burnscore.TBSA(burnsIn, age)
	if err != nil {
		return nil, err
	}

	res := &AssessmentResult{
		CaseID:           caseID,
		TBSAPct:          tbsa,
		Baux:             burnscore.Baux(age, tbsa),
		RevisedBaux:      burnscore.RevisedBaux(age, tbsa, bc.InhalationInjury),
		FullThickness:    burnscore.HasFullThickness(burnsIn),
		AgeYearsAtInjury: age,
	}

	female := strings.EqualFold(p.Gender, "female")
	absi, err := burnscore.ABSI(age, female, tbsa, bc.InhalationInjury, res.FullThickness)
	if err != nil {
		return nil, err
	}
	res.ABSI = absi

	if bc.WeightKg > 0 {
		kcal, err := burnscore.CurreriCalories(bc.WeightKg, tbsa)
		if err != nil {
			return nil, err
		}
		res.CurreriKcalDay = kcal
	}
	return res, nil
}

// FluidPlanResult is a Parkland plan plus adherence derived from the
// administered fluid records.
type FluidPlanResult struct {
	burnscore.FluidPlan
	CaseID         uuid.UUID `json:"case_id"`
	GivenPhase1ML  float64   `json:"given_phase1_ml"`
	GivenTotalML   float64   `json:"given_total_ml"`
	ExpectedToDate float64   `json:"expected_to_date_ml"`
	AdherencePct   float64   `json:"adherence_pct"`
	AdherenceBand  string    `json:"adherence_band"`
}

// Adherence bands. Within 10% of the expected volume is on track, within 20%
// warrants review, beyond that the rate needs titration.
const (
	AdherenceOnTrack  = "on-track"
	AdherenceReview   = "review"
	AdherenceOffTrack = "off-track"
)

func adherenceBand(pct float64) string {
	dev := pct - 100
	if dev < 0 {
		dev = -dev
	}
	switch {
	case dev <= 10:
		return AdherenceOnTrack
	case dev <= 20:
		return AdherenceReview
	default:
		return AdherenceOffTrack
	}
}

// FluidPlan evaluates the Parkland plan at the given time. Administered
// volumes are pro-rated into the phase windows from the fluid records;
// adherence compares the volume given so far against the volume the plan
// expects by now.
func (s *Service) FluidPlan(ctx context.Context, caseID uuid.UUID, now time.Time) (*FluidPlanResult, error) {
	bc, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("burn case not found: %w", err)
	}
	if bc.WeightKg <= 0 {
		return nil, fmt.Errorf("weight_kg must be recorded before a fluid plan can be produced")
	}
	if bc.InjuryTime.IsZero() {
		return nil, fmt.Errorf("injury_time must be recorded before a fluid plan can be produced")
	}
	p, err := s.patients.GetByID(ctx, bc.PatientID)
	if err != nil {
		return nil, fmt.Errorf("patient not found: %w", err)
	}
	fluids, err := s.cases.ListFluids(ctx, caseID)
	if err != nil {
		return nil, err
	}

	phase1End := bc.InjuryTime.Add(8 * time.Hour)
	var givenPhase1, givenTotal float64
	for _, f := range fluids {
		givenPhase1 += f.overlapML(bc.InjuryTime, phase1End)
		givenTotal += f.overlapML(bc.InjuryTime, now)
	}

	plan, err := burnscore.ParklandPlan(bc.WeightKg, bc.TBSAPct, p.AgeYearsAt(bc.InjuryTime), bc.InjuryTime, now, givenPhase1)
	if err != nil {
		return nil, err
	}

	res := &FluidPlanResult{
		FluidPlan:     plan,
		CaseID:        caseID,
		GivenPhase1ML: givenPhase1,
		GivenTotalML:  givenTotal,
	}
	res.ExpectedToDate = expectedToDate(plan, bc.InjuryTime, now)
	if res.ExpectedToDate > 0 {
		res.AdherencePct = 100 * givenTotal / res.ExpectedToDate
		res.AdherenceBand = adherenceBand(res.AdherencePct)
	}
	return res, nil
}

// expectedToDate integrates the ideal plan rates from injury to now: phase 1
// volume spread over 8 hours, phase 2 over the following 16.
func expectedToDate(plan burnscore.FluidPlan, injuryTime, now time.Time) float64 {
	if !plan.Indicated {
		return 0
	}
	elapsed := now.Sub(injuryTime).Hours()
	switch {
	case elapsed <= 0:
		return 0
	case elapsed < 8:
		return plan.Phase1ML * elapsed / 8
	case elapsed < 24:
		return plan.Phase1ML + plan.Phase2ML*(elapsed-8)/16
	default:
		return plan.TotalML
	}
}

func (s *Service) AddVitals(ctx context.Context, v *VitalsRecord) error {
	bc, err := s.cases.GetByID(ctx, v.CaseID)
	if err != nil {
		return fmt.Errorf("burn case not found: %w", err)
	}
	if bc.Status == StatusClosed {
		return fmt.Errorf("burn case is closed")
	}
	if v.RecordedAt.IsZero() {
		return fmt.Errorf("recorded_at is required")
	}
	if v.RecordedAt.Before(bc.InjuryTime) {
		return fmt.Errorf("recorded_at precedes injury_time")
	}
	if v.UrineOutputML > 0 && v.IntervalHours <= 0 {
		return fmt.Errorf("interval_hours is required with urine_output_ml")
	}
	return s.cases.AddVitals(ctx, v)
}

func (s *Service) ListVitals(ctx context.Context, caseID uuid.UUID) ([]*VitalsRecord, error) {
	if _, err := s.cases.GetByID(ctx, caseID); err != nil {
		return nil, fmt.Errorf("burn case not found: %w", err)
	}
	return s.cases.ListVitals(ctx, caseID)
}

func (s *Service) AddFluid(ctx context.Context, f *FluidRecord) error {
	bc, err := s.cases.GetByID(ctx, f.CaseID)
	if err != nil {
		return fmt.Errorf("burn case not found: %w", err)
	}
	if bc.Status == StatusClosed {
		return fmt.Errorf("burn case is closed")
	}
	if f.VolumeML <= 0 {
		return fmt.Errorf("volume_ml must be positive")
	}
	if f.PeriodStart.IsZero() || f.PeriodEnd.IsZero() {
		return fmt.Errorf("period_start and period_end are required")
	}
	if !f.PeriodEnd.After(f.PeriodStart) {
		return fmt.Errorf("period_end must be after period_start")
	}
	if f.FluidType == "" {
		f.FluidType = "lactated-ringers"
	}
	return s.cases.AddFluid(ctx, f)
}

func (s *Service) ListFluids(ctx context.Context, caseID uuid.UUID) ([]*FluidRecord, error) {
	if _, err := s.cases.GetByID(ctx, caseID); err != nil {
		return nil, fmt.Errorf("burn case not found: %w", err)
	}
	return s.cases.ListFluids(ctx, caseID)
}

// Alerts runs threshold evaluation over the case's stored vitals series.
func (s *Service) Alerts(ctx context.Context, caseID uuid.UUID) ([]burnscore.Alert, error) {
	bc, err := s.cases.GetByID(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("burn case not found: %w", err)
	}
	p, err := s.patients.GetByID(ctx, bc.PatientID)
	if err != nil {
		return nil, fmt.Errorf("patient not found: %w", err)
	}
	records, err := s.cases.ListVitals(ctx, caseID)
	if err != nil {
		return nil, err
	}
	samples := make([]burnscore.VitalsSample, 0, len(records))
	for _, v := range records {
		samples = append(samples, v.Sample())
	}
	return burnscore.EvaluateVitals(samples, bc.WeightKg, p.AgeYearsAt(bc.InjuryTime)), nil
}

package nutrition

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/burnunit/emr/internal/domain/burns"
	"github.com/burnunit/emr/internal/domain/patient"
)

type mockRepo struct{ store map[uuid.UUID]*NutritionAssessment }

func newMockRepo() *mockRepo { return &mockRepo{store: make(map[uuid.UUID]*NutritionAssessment)} }

func (m *mockRepo) Create(_ context.Context, na *NutritionAssessment) error {
	na.ID = uuid.New(); m.store[na.ID] = na; return nil
}
func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*NutritionAssessment, error) {
	na, ok := m.store[id]; if !ok { return nil, fmt.Errorf("not found") }; cp := *na; return &cp, nil
}
func (m *mockRepo) ListByPatient(_ context.Context, pid uuid.UUID) ([]*NutritionAssessment, error) {
	var r []*NutritionAssessment; for _, na := range m.store { if na.PatientID == pid { r = append(r, na) } }; return r, nil
}
func (m *mockRepo) Search(_ context.Context, params map[string]string, limit, offset int) ([]*NutritionAssessment, int, error) {
	var r []*NutritionAssessment; for _, na := range m.store { r = append(r, na) }; return r, len(r), nil
}
func (m *mockRepo) ListDueScreens(_ context.Context, before time.Time, limit, offset int) ([]*NutritionAssessment, int, error) {
	var r []*NutritionAssessment
	for _, na := range m.store {
		if !na.NextScreenDue.After(before) { r = append(r, na) }
	}
	return r, len(r), nil
}

type mockPatients struct{ store map[uuid.UUID]*patient.Patient }

func (m *mockPatients) GetByID(_ context.Context, id uuid.UUID) (*patient.Patient, error) {
	p, ok := m.store[id]; if !ok { return nil, fmt.Errorf("not found") }; return p, nil
}

type mockCases struct{ store map[uuid.UUID]*burns.BurnCase }

func (m *mockCases) GetByID(_ context.Context, id uuid.UUID) (*burns.BurnCase, error) {
	bc, ok := m.store[id]; if !ok { return nil, fmt.Errorf("not found") }; cp := *bc; return &cp, nil
}

func newTestService() (*Service, *patient.Patient, *mockCases) {
	p := &patient.Patient{
		ID:        uuid.New(),
		MRN:       "MRN-2001",
		BirthDate: time.Date(1979, 8, 2, 0, 0, 0, 0, time.UTC),
		Gender:    "female",
	}
	patients := &mockPatients{store: map[uuid.UUID]*patient.Patient{p.ID: p}}
	cases := &mockCases{store: make(map[uuid.UUID]*burns.BurnCase)}
	return NewService(newMockRepo(), patients, cases), p, cases
}

func TestCreateAssessment_Baseline(t *testing.T) {
	svc, p, _ := newTestService()
	na := &NutritionAssessment{PatientID: p.ID, HeightCm: 175, WeightKg: 70}
	if err := svc.CreateAssessment(context.Background(), na); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if na.BMI != 22.9 {
		t.Errorf("expected BMI 22.9, got %.1f", na.BMI)
	}
	if na.MUSTScore != 0 || na.RiskBand != "low" {
		t.Errorf("expected MUST 0/low, got %d/%s", na.MUSTScore, na.RiskBand)
	}
	if na.CalorieTarget != 1750 {
		t.Errorf("expected 25 kcal/kg baseline 1750, got %.0f", na.CalorieTarget)
	}
	want := na.AssessedAt.Add(14 * 24 * time.Hour)
	if !na.NextScreenDue.Equal(want) {
		t.Errorf("expected next screen %v, got %v", want, na.NextScreenDue)
	}
}

func TestCreateAssessment_CurreriWithBurnCase(t *testing.T) {
	svc, p, cases := newTestService()
	bc := &burns.BurnCase{ID: uuid.New(), PatientID: p.ID, TBSAPct: 26}
	cases.store[bc.ID] = bc
	na := &NutritionAssessment{PatientID: p.ID, BurnCaseID: &bc.ID, HeightCm: 175, WeightKg: 70}
	if err := svc.CreateAssessment(context.Background(), na); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if na.CalorieTarget != 25*70+40*26 {
		t.Errorf("expected Curreri target 2790, got %.0f", na.CalorieTarget)
	}
}

func TestCreateAssessment_CaseOwnershipChecked(t *testing.T) {
	svc, p, cases := newTestService()
	bc := &burns.BurnCase{ID: uuid.New(), PatientID: uuid.New(), TBSAPct: 10}
	cases.store[bc.ID] = bc
	na := &NutritionAssessment{PatientID: p.ID, BurnCaseID: &bc.ID, HeightCm: 175, WeightKg: 70}
	if err := svc.CreateAssessment(context.Background(), na); err == nil {
		t.Fatal("expected error: case belongs to another patient")
	}
}

func TestCreateAssessment_RiskCadence(t *testing.T) {
	tests := []struct {
		name     string
		weightKg float64
		lossPct  float64
		ill      bool
		wantRisk string
		wantDue  time.Duration
	}{
		{"high risk weekly", 52, 12, false, "high", 7 * 24 * time.Hour},
		{"medium risk three days", 58.2, 0, false, "medium", 3 * 24 * time.Hour},
		{"acutely ill is high", 70, 0, true, "high", 7 * 24 * time.Hour},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, p, _ := newTestService()
			na := &NutritionAssessment{PatientID: p.ID, HeightCm: 175, WeightKg: tt.weightKg, WeightLossPct: tt.lossPct, AcutelyIll: tt.ill}
			if err := svc.CreateAssessment(context.Background(), na); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if na.RiskBand != tt.wantRisk {
				t.Errorf("expected risk %s, got %s", tt.wantRisk, na.RiskBand)
			}
			want := na.AssessedAt.Add(tt.wantDue)
			if !na.NextScreenDue.Equal(want) {
				t.Errorf("expected next screen %v, got %v", want, na.NextScreenDue)
			}
		})
	}
}

func TestCreateAssessment_Validation(t *testing.T) {
	svc, p, _ := newTestService()
	bad := "mystery"
	tests := []struct {
		name string
		na   *NutritionAssessment
	}{
		{"missing patient", &NutritionAssessment{HeightCm: 175, WeightKg: 70}},
		{"unknown patient", &NutritionAssessment{PatientID: uuid.New(), HeightCm: 175, WeightKg: 70}},
		{"zero height", &NutritionAssessment{PatientID: p.ID, WeightKg: 70}},
		{"zero weight", &NutritionAssessment{PatientID: p.ID, HeightCm: 175}},
		{"loss over 100", &NutritionAssessment{PatientID: p.ID, HeightCm: 175, WeightKg: 70, WeightLossPct: 120}},
		{"bad feeding route", &NutritionAssessment{PatientID: p.ID, HeightCm: 175, WeightKg: 70, FeedingRoute: &bad}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := svc.CreateAssessment(context.Background(), tt.na); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestDueScreens(t *testing.T) {
	svc, p, _ := newTestService()
	at := time.Date(2026, 7, 1, 9, 0, 0, 0, time.UTC)
	na := &NutritionAssessment{PatientID: p.ID, HeightCm: 175, WeightKg: 70, AssessedAt: at}
	if err := svc.CreateAssessment(context.Background(), na); err != nil {
		t.Fatalf("create: %v", err)
	}
	items, total, err := svc.DueScreens(context.Background(), at.Add(15*24*time.Hour), 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 1 || len(items) != 1 {
		t.Fatalf("expected one due screen, got %d", total)
	}
	if _, total, _ := svc.DueScreens(context.Background(), at.Add(24*time.Hour), 20, 0); total != 0 {
		t.Errorf("expected nothing due a day in, got %d", total)
	}
}

func TestRescreenInterval(t *testing.T) {
	tests := []struct {
		risk string
		want time.Duration
	}{
		{"high", 7 * 24 * time.Hour},
		{"medium", 3 * 24 * time.Hour},
		{"low", 14 * 24 * time.Hour},
	}
	for _, tt := range tests {
		if got := RescreenInterval(tt.risk); got != tt.want {
			t.Errorf("RescreenInterval(%s) = %v, want %v", tt.risk, got, tt.want)
		}
	}
}

package patient

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockPatientRepo struct{ store map[uuid.UUID]*Patient }

func newMockPatientRepo() *mockPatientRepo { return &mockPatientRepo{store: make(map[uuid.UUID]*Patient)} }
func (m *mockPatientRepo) Create(_ context.Context, p *Patient) error {
	p.ID = uuid.New(); m.store[p.ID] = p; return nil
}
func (m *mockPatientRepo) GetByID(_ context.Context, id uuid.UUID) (*Patient, error) {
	p, ok := m.store[id]; if !ok { return nil, fmt.Errorf("not found") }; return p, nil
}
func (m *mockPatientRepo) GetByMRN(_ context.Context, mrn string) (*Patient, error) {
	for _, p := range m.store { if p.MRN == mrn { return p, nil } }; return nil, fmt.Errorf("not found")
}
func (m *mockPatientRepo) Update(_ context.Context, p *Patient) error {
	if _, ok := m.store[p.ID]; !ok { return fmt.Errorf("not found") }; m.store[p.ID] = p; return nil
}
func (m *mockPatientRepo) Delete(_ context.Context, id uuid.UUID) error { delete(m.store, id); return nil }
func (m *mockPatientRepo) List(_ context.Context, limit, offset int) ([]*Patient, int, error) {
	var r []*Patient; for _, p := range m.store { r = append(r, p) }; return r, len(r), nil
}
func (m *mockPatientRepo) Search(_ context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	var r []*Patient; for _, p := range m.store { r = append(r, p) }; return r, len(r), nil
}

type mockPractitionerRepo struct{ store map[uuid.UUID]*Practitioner }

func newMockPractitionerRepo() *mockPractitionerRepo {
	return &mockPractitionerRepo{store: make(map[uuid.UUID]*Practitioner)}
}
func (m *mockPractitionerRepo) Create(_ context.Context, p *Practitioner) error {
	p.ID = uuid.New(); m.store[p.ID] = p; return nil
}
func (m *mockPractitionerRepo) GetByID(_ context.Context, id uuid.UUID) (*Practitioner, error) {
	p, ok := m.store[id]; if !ok { return nil, fmt.Errorf("not found") }; return p, nil
}
func (m *mockPractitionerRepo) Update(_ context.Context, p *Practitioner) error {
	if _, ok := m.store[p.ID]; !ok { return fmt.Errorf("not found") }; m.store[p.ID] = p; return nil
}
func (m *mockPractitionerRepo) Delete(_ context.Context, id uuid.UUID) error { delete(m.store, id); return nil }
func (m *mockPractitionerRepo) List(_ context.Context, limit, offset int) ([]*Practitioner, int, error) {
	var r []*Practitioner; for _, p := range m.store { r = append(r, p) }; return r, len(r), nil
}
func (m *mockPractitionerRepo) Search(_ context.Context, params map[string]string, limit, offset int) ([]*Practitioner, int, error) {
	var r []*Practitioner; for _, p := range m.store { r = append(r, p) }; return r, len(r), nil
}

func newTestService() *Service { return NewService(newMockPatientRepo(), newMockPractitionerRepo()) }

func validPatient() *Patient {
	return &Patient{MRN: "MRN-001", GivenName: "Jo", FamilyName: "Bloggs", BirthDate: time.Date(1990, 6, 1, 0, 0, 0, 0, time.UTC), Gender: "female"}
}

func TestCreatePatient_Success(t *testing.T) {
	svc := newTestService()
	p := validPatient()
	if err := svc.CreatePatient(context.Background(), p); err != nil { t.Fatalf("unexpected error: %v", err) }
	if !p.Active { t.Error("expected new patient to be active") }
}

func TestCreatePatient_MissingMRN(t *testing.T) {
	svc := newTestService()
	p := validPatient(); p.MRN = ""
	if err := svc.CreatePatient(context.Background(), p); err == nil { t.Fatal("expected error") }
}

func TestCreatePatient_MissingFamilyName(t *testing.T) {
	svc := newTestService()
	p := validPatient(); p.FamilyName = ""
	if err := svc.CreatePatient(context.Background(), p); err == nil { t.Fatal("expected error") }
}

func TestCreatePatient_FutureBirthDate(t *testing.T) {
	svc := newTestService()
	p := validPatient(); p.BirthDate = time.Now().Add(48 * time.Hour)
	if err := svc.CreatePatient(context.Background(), p); err == nil { t.Fatal("expected error") }
}

func TestCreatePatient_DefaultGender(t *testing.T) {
	svc := newTestService()
	p := validPatient(); p.Gender = ""
	if err := svc.CreatePatient(context.Background(), p); err != nil { t.Fatalf("unexpected error: %v", err) }
	if p.Gender != "unknown" { t.Errorf("expected gender 'unknown', got %q", p.Gender) }
}

func TestCreatePatient_InvalidGender(t *testing.T) {
	svc := newTestService()
	p := validPatient(); p.Gender = "bogus"
	if err := svc.CreatePatient(context.Background(), p); err == nil { t.Fatal("expected error") }
}

func TestCreatePatient_DuplicateMRN(t *testing.T) {
	svc := newTestService()
	if err := svc.CreatePatient(context.Background(), validPatient()); err != nil { t.Fatalf("unexpected error: %v", err) }
	if err := svc.CreatePatient(context.Background(), validPatient()); err == nil { t.Fatal("expected duplicate MRN error") }
}

func TestGetPatient_NotFound(t *testing.T) {
	svc := newTestService()
	if _, err := svc.GetPatient(context.Background(), uuid.New()); err == nil { t.Fatal("expected error") }
}

func TestUpdatePatient_InvalidGender(t *testing.T) {
	svc := newTestService()
	p := validPatient()
	svc.CreatePatient(context.Background(), p)
	p.Gender = "bogus"
	if err := svc.UpdatePatient(context.Background(), p); err == nil { t.Fatal("expected error") }
}

func TestDeletePatient(t *testing.T) {
	svc := newTestService()
	p := validPatient()
	svc.CreatePatient(context.Background(), p)
	if err := svc.DeletePatient(context.Background(), p.ID); err != nil { t.Fatalf("unexpected error: %v", err) }
	if _, err := svc.GetPatient(context.Background(), p.ID); err == nil { t.Fatal("expected error after delete") }
}

func TestAgeYearsAt(t *testing.T) {
	p := &Patient{BirthDate: time.Date(2000, 6, 15, 0, 0, 0, 0, time.UTC)}
	tests := []struct {
		at   time.Time
		want int
	}{
		{time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC), 23},
		{time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), 24},
		{time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), 24},
		{time.Date(2000, 7, 1, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC), 0},
	}
	for _, tt := range tests {
		if got := p.AgeYearsAt(tt.at); got != tt.want {
			t.Errorf("AgeYearsAt(%s) = %d, want %d", tt.at.Format("2006-01-02"), got, tt.want)
		}
	}
}

func TestCreatePractitioner_Success(t *testing.T) {
	svc := newTestService()
	p := &Practitioner{GivenName: "Sam", FamilyName: "Reyes", Role: "surgeon"}
	if err := svc.CreatePractitioner(context.Background(), p); err != nil { t.Fatalf("unexpected error: %v", err) }
	if !p.Active { t.Error("expected new practitioner to be active") }
}

func TestCreatePractitioner_InvalidRole(t *testing.T) {
	svc := newTestService()
	if err := svc.CreatePractitioner(context.Background(), &Practitioner{FamilyName: "Reyes", Role: "wizard"}); err == nil { t.Fatal("expected error") }
}

func TestCreatePractitioner_MissingRole(t *testing.T) {
	svc := newTestService()
	if err := svc.CreatePractitioner(context.Background(), &Practitioner{FamilyName: "Reyes"}); err == nil { t.Fatal("expected error") }
}

package patient

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	patients      Repository
	practitioners PractitionerRepository
}

func NewService(p Repository, pr PractitionerRepository) *Service {
	return &Service{patients: p, practitioners: pr}
}

// -- Patient --

var validGenders = map[string]bool{
	"male": true, "female": true, "other": true, "unknown": true,
}

func (s *Service) CreatePatient(ctx context.Context, p *Patient) error {
	if p.MRN == "" {
		return fmt.Errorf("mrn is required")
	}
	if p.FamilyName == "" {
		return fmt.Errorf("family_name is required")
	}
	if p.BirthDate.IsZero() {
		return fmt.Errorf("birth_date is required")
	}
	if p.BirthDate.After(time.Now()) {
		return fmt.Errorf("birth_date must not be in the future")
	}
	if p.Gender == "" {
		p.Gender = "unknown"
	}
	if !validGenders[p.Gender] {
		return fmt.Errorf("invalid gender: %s", p.Gender)
	}
	if existing, err := s.patients.GetByMRN(ctx, p.MRN); err == nil && existing != nil {
		return fmt.Errorf("mrn %s is already registered", p.MRN)
	}
	p.Active = true
	return s.patients.Create(ctx, p)
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

func (s *Service) GetPatientByMRN(ctx context.Context, mrn string) (*Patient, error) {
	return s.patients.GetByMRN(ctx, mrn)
}

func (s *Service) UpdatePatient(ctx context.Context, p *Patient) error {
	if p.Gender != "" && !validGenders[p.Gender] {
		return fmt.Errorf("invalid gender: %s", p.Gender)
	}
	if !p.BirthDate.IsZero() && p.BirthDate.After(time.Now()) {
		return fmt.Errorf("birth_date must not be in the future")
	}
	return s.patients.Update(ctx, p)
}

func (s *Service) DeletePatient(ctx context.Context, id uuid.UUID) error {
	return s.patients.Delete(ctx, id)
}

func (s *Service) SearchPatients(ctx context.Context, params map[string]string, limit, offset int) ([]*Patient, int, error) {
	return s.patients.Search(ctx, params, limit, offset)
}

// -- Practitioner --

var validPractitionerRoles = map[string]bool{
	"physician": true, "surgeon": true, "nurse": true,
	"pharmacist": true, "dietitian": true,
}

func (s *Service) CreatePractitioner(ctx context.Context, p *Practitioner) error {
	if p.FamilyName == "" {
		return fmt.Errorf("family_name is required")
	}
	if p.Role == "" {
		return fmt.Errorf("role is required")
	}
	if !validPractitionerRoles[p.Role] {
		return fmt.Errorf("invalid role: %s", p.Role)
	}
	p.Active = true
	return s.practitioners.Create(ctx, p)
}

func (s *Service) GetPractitioner(ctx context.Context, id uuid.UUID) (*Practitioner, error) {
	return s.practitioners.GetByID(ctx, id)
}

func (s *Service) UpdatePractitioner(ctx context.Context, p *Practitioner) error {
	if p.Role != "" && !validPractitionerRoles[p.Role] {
		return fmt.Errorf("invalid role: %s", p.Role)
	}
	return s.practitioners.Update(ctx, p)
}

func (s *Service) DeletePractitioner(ctx context.Context, id uuid.UUID) error {
	return s.practitioners.Delete(ctx, id)
}

func (s *Service) SearchPractitioners(ctx context.Context, params map[string]string, limit, offset int) ([]*Practitioner, int, error) {
	return s.practitioners.Search(ctx, params, limit, offset)
}

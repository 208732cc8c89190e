package encounter

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	encounters Repository
}

func NewService(r Repository) *Service {
	return &Service{encounters: r}
}

var validClasses = map[string]bool{
	"emergency": true, "inpatient": true, "outpatient": true,
}

var validStatuses = map[string]bool{
	StatusPlanned: true, StatusInProgress: true,
	StatusDischarged: true, StatusCancelled: true,
}

func (s *Service) Create(ctx context.Context, e *Encounter) error {
	if e.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if e.Class == "" {
		return fmt.Errorf("class is required")
	}
	if !validClasses[e.Class] {
		return fmt.Errorf("invalid class: %s", e.Class)
	}
	if e.Status == "" {
		e.Status = StatusPlanned
	}
	if !validStatuses[e.Status] {
		return fmt.Errorf("invalid status: %s", e.Status)
	}
	if e.Status == StatusInProgress && e.StartTime == nil {
		now := time.Now()
		e.StartTime = &now
	}
	return s.encounters.Create(ctx, e)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Encounter, error) {
	return s.encounters.GetByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, e *Encounter) error {
	existing, err := s.encounters.GetByID(ctx, e.ID)
	if err != nil {
		return fmt.Errorf("encounter not found: %w", err)
	}
	if e.Status != "" && e.Status != existing.Status {
		if err := s.validateTransition(existing, e); err != nil {
			return err
		}
	} else {
		e.Status = existing.Status
	}
	return s.encounters.Update(ctx, e)
}

// Transition moves the encounter through the admission workflow. Discharge
// requires an end time; starting an encounter stamps the start time if the
// caller has not.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, to string, at time.Time) (*Encounter, error) {
	e, err := s.encounters.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("encounter not found: %w", err)
	}
	if !validStatuses[to] {
		return nil, fmt.Errorf("invalid status: %s", to)
	}
	if !CanTransition(e.Status, to) {
		return nil, fmt.Errorf("cannot transition encounter from %s to %s", e.Status, to)
	}
	e.Status = to
	switch to {
	case StatusInProgress:
		if e.StartTime == nil {
			e.StartTime = &at
		}
	case StatusDischarged, StatusCancelled:
		if e.EndTime == nil {
			e.EndTime = &at
		}
	}
	if err := s.encounters.Update(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) validateTransition(existing, updated *Encounter) error {
	if !validStatuses[updated.Status] {
		return fmt.Errorf("invalid status: %s", updated.Status)
	}
	if !CanTransition(existing.Status, updated.Status) {
		return fmt.Errorf("cannot transition encounter from %s to %s", existing.Status, updated.Status)
	}
	if updated.Status == StatusDischarged && updated.EndTime == nil {
		return fmt.Errorf("discharge requires an end_time")
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.encounters.Delete(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Encounter, int, error) {
	return s.encounters.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*Encounter, int, error) {
	return s.encounters.Search(ctx, params, limit, offset)
}

package pharmacy

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	medications MedicationRepository
	orders      OrderRepository
}

func NewService(medications MedicationRepository, orders OrderRepository) *Service {
	return &Service{medications: medications, orders: orders}
}

var validStatuses = map[string]bool{
	StatusActive: true, StatusOnHold: true, StatusCompleted: true, StatusStopped: true,
}

var validRoutes = map[string]bool{
	"oral": true, "iv": true, "im": true, "sc": true, "topical": true,
	"inhaled": true, "ng": true,
}

func (s *Service) CreateMedication(ctx context.Context, m *Medication) error {
	if m.Code == "" {
		return fmt.Errorf("code is required")
	}
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if existing, err := s.medications.GetByCode(ctx, m.Code); err == nil && existing != nil {
		return fmt.Errorf("medication with code %s already exists", m.Code)
	}
	m.Active = true
	return s.medications.Create(ctx, m)
}

func (s *Service) GetMedication(ctx context.Context, id uuid.UUID) (*Medication, error) {
	return s.medications.GetByID(ctx, id)
}

func (s *Service) UpdateMedication(ctx context.Context, m *Medication) error {
	if m.Code == "" || m.Name == "" {
		return fmt.Errorf("code and name are required")
	}
	return s.medications.Update(ctx, m)
}

func (s *Service) ListMedications(ctx context.Context, limit, offset int) ([]*Medication, int, error) {
	return s.medications.List(ctx, limit, offset)
}

func (s *Service) CreateOrder(ctx context.Context, o *MedicationOrder) error {
	if o.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if o.MedicationID == uuid.Nil {
		return fmt.Errorf("medication_id is required")
	}
	med, err := s.medications.GetByID(ctx, o.MedicationID)
	if err != nil {
		return fmt.Errorf("medication not found: %w", err)
	}
	if !med.Active {
		return fmt.Errorf("medication %s is inactive", med.Code)
	}
	if o.Dose == "" {
		return fmt.Errorf("dose is required")
	}
	if o.Route == "" {
		return fmt.Errorf("route is required")
	}
	if !validRoutes[o.Route] {
		return fmt.Errorf("invalid route: %s", o.Route)
	}
	if o.Frequency == "" && !o.PRN {
		return fmt.Errorf("frequency is required for scheduled orders")
	}
	if o.Status == "" {
		o.Status = StatusActive
	}
	if o.Status != StatusActive {
		return fmt.Errorf("new orders start active")
	}
	if o.StartAt.IsZero() {
		o.StartAt = time.Now()
	}
	existing, err := s.orders.ListActiveByPatientMedication(ctx, o.PatientID, o.MedicationID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return fmt.Errorf("an active order for %s already exists for this patient", med.Code)
	}
	return s.orders.Create(ctx, o)
}

func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*MedicationOrder, error) {
	return s.orders.GetByID(ctx, id)
}

func (s *Service) SearchOrders(ctx context.Context, params map[string]string, limit, offset int) ([]*MedicationOrder, int, error) {
	return s.orders.Search(ctx, params, limit, offset)
}

// Transition moves an order between active, on-hold, and the terminal
// statuses. Stopping or completing stamps the end time.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, to string, at time.Time) (*MedicationOrder, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("medication order not found: %w", err)
	}
	if !validStatuses[to] {
		return nil, fmt.Errorf("invalid status: %s", to)
	}
	if !CanTransition(o.Status, to) {
		return nil, fmt.Errorf("cannot transition medication order from %s to %s", o.Status, to)
	}
	o.Status = to
	if (to == StatusCompleted || to == StatusStopped) && o.EndAt == nil {
		o.EndAt = &at
	}
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// RecordAdministration writes a MAR entry. Only active orders accept
// administrations; a withheld dose requires a reason.
func (s *Service) RecordAdministration(ctx context.Context, a *Administration) error {
	o, err := s.orders.GetByID(ctx, a.OrderID)
	if err != nil {
		return fmt.Errorf("medication order not found: %w", err)
	}
	if o.Status != StatusActive {
		return fmt.Errorf("administration requires an active order, status is %s", o.Status)
	}
	if !a.Given && (a.Reason == nil || *a.Reason == "") {
		return fmt.Errorf("a withheld dose requires a reason")
	}
	if a.At.IsZero() {
		a.At = time.Now()
	}
	return s.orders.AddAdministration(ctx, a)
}

func (s *Service) ListAdministrations(ctx context.Context, orderID uuid.UUID) ([]*Administration, error) {
	if _, err := s.orders.GetByID(ctx, orderID); err != nil {
		return nil, fmt.Errorf("medication order not found: %w", err)
	}
	return s.orders.ListAdministrations(ctx, orderID)
}

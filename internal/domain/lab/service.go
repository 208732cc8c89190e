package lab

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	orders Repository
}

func NewService(orders Repository) *Service {
	return &Service{orders: orders}
}

var validStatuses = map[string]bool{
	StatusOrdered: true, StatusCollected: true, StatusResulted: true, StatusCancelled: true,
}

var validPriorities = map[string]bool{
	PriorityRoutine: true, PriorityUrgent: true,
}

func (s *Service) CreateOrder(ctx context.Context, o *LabOrder) error {
	if o.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if o.PanelCode == "" {
		return fmt.Errorf("panel_code is required")
	}
	if o.Priority == "" {
		o.Priority = PriorityRoutine
	}
	if !validPriorities[o.Priority] {
		return fmt.Errorf("invalid priority: %s", o.Priority)
	}
	if o.Status == "" {
		o.Status = StatusOrdered
	}
	if o.Status != StatusOrdered {
		return fmt.Errorf("new orders start in ordered status")
	}
	if o.OrderedAt.IsZero() {
		o.OrderedAt = time.Now()
	}
	return s.orders.CreateOrder(ctx, o)
}

func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*LabOrder, error) {
	return s.orders.GetOrder(ctx, id)
}

func (s *Service) SearchOrders(ctx context.Context, params map[string]string, limit, offset int) ([]*LabOrder, int, error) {
	return s.orders.SearchOrders(ctx, params, limit, offset)
}

// Transition moves an order through collection and resulting, stamping the
// relevant timestamps.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, to string, at time.Time) (*LabOrder, error) {
	o, err := s.orders.GetOrder(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("lab order not found: %w", err)
	}
	if !validStatuses[to] {
		return nil, fmt.Errorf("invalid status: %s", to)
	}
	if !CanTransition(o.Status, to) {
		return nil, fmt.Errorf("cannot transition lab order from %s to %s", o.Status, to)
	}
	o.Status = to
	switch to {
	case StatusCollected:
		if o.CollectedAt == nil {
			o.CollectedAt = &at
		}
	case StatusResulted:
		if o.ResultedAt == nil {
			o.ResultedAt = &at
		}
	}
	if err := s.orders.UpdateOrder(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// AddResult stores a result against a collected order, filling reference
// bounds from the built-in burn panel when the caller omits them and deriving
// the flag. The order moves to resulted on its first result.
func (s *Service) AddResult(ctx context.Context, res *LabResult) error {
	o, err := s.orders.GetOrder(ctx, res.OrderID)
	if err != nil {
		return fmt.Errorf("lab order not found: %w", err)
	}
	if o.Status != StatusCollected && o.Status != StatusResulted {
		return fmt.Errorf("results require a collected order, status is %s", o.Status)
	}
	if res.Analyte == "" {
		return fmt.Errorf("analyte is required")
	}

	if res.RefLow == nil || res.RefHigh == nil {
		if rr, ok := DefaultRange(res.Analyte); ok {
			if res.RefLow == nil {
				res.RefLow = &rr.Low
			}
			if res.RefHigh == nil {
				res.RefHigh = &rr.High
			}
			if res.Unit == "" {
				res.Unit = rr.Unit
			}
		}
	}
	if res.RefLow != nil && res.RefHigh != nil {
		if *res.RefHigh <= *res.RefLow {
			return fmt.Errorf("ref_high must exceed ref_low")
		}
		res.Flag = DeriveFlag(res.Value, *res.RefLow, *res.RefHigh)
	} else {
		res.Flag = FlagNormal
	}
	if res.ResultedAt.IsZero() {
		res.ResultedAt = time.Now()
	}

	if err := s.orders.AddResult(ctx, res); err != nil {
		return err
	}
	if o.Status == StatusCollected {
		if _, err := s.Transition(ctx, o.ID, StatusResulted, res.ResultedAt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) ListResults(ctx context.Context, orderID uuid.UUID) ([]*LabResult, error) {
	if _, err := s.orders.GetOrder(ctx, orderID); err != nil {
		return nil, fmt.Errorf("lab order not found: %w", err)
	}
	return s.orders.ListResults(ctx, orderID)
}

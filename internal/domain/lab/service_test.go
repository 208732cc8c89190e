package lab

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
)

type mockRepo struct {
	orders  map[uuid.UUID]*LabOrder
	results map[uuid.UUID][]*LabResult
}

func newMockRepo() *mockRepo {
	return &mockRepo{orders: make(map[uuid.UUID]*LabOrder), results: make(map[uuid.UUID][]*LabResult)}
}

func (m *mockRepo) CreateOrder(_ context.Context, o *LabOrder) error {
	o.ID = uuid.New(); m.orders[o.ID] = o; return nil
}
func (m *mockRepo) GetOrder(_ context.Context, id uuid.UUID) (*LabOrder, error) {
	o, ok := m.orders[id]; if !ok { return nil, fmt.Errorf("not found") }; cp := *o; return &cp, nil
}
func (m *mockRepo) UpdateOrder(_ context.Context, o *LabOrder) error {
	if _, ok := m.orders[o.ID]; !ok { return fmt.Errorf("not found") }; m.orders[o.ID] = o; return nil
}
func (m *mockRepo) SearchOrders(_ context.Context, params map[string]string, limit, offset int) ([]*LabOrder, int, error) {
	var r []*LabOrder; for _, o := range m.orders { r = append(r, o) }; return r, len(r), nil
}
func (m *mockRepo) AddResult(_ context.Context, res *LabResult) error {
	res.ID = uuid.New(); m.results[res.OrderID] = append(m.results[res.OrderID], res); return nil
}
func (m *mockRepo) ListResults(_ context.Context, orderID uuid.UUID) ([]*LabResult, error) {
	return m.results[orderID], nil
}

func newTestService() *Service { return NewService(newMockRepo()) }

func newCollectedOrder(t *testing.T, svc *Service) *LabOrder {
	t.Helper()
	o := &LabOrder{PatientID: uuid.New(), PanelCode: "burn-panel"}
	if err := svc.CreateOrder(context.Background(), o); err != nil { t.Fatalf("create order: %v", err) }
	got, err := svc.Transition(context.Background(), o.ID, StatusCollected, time.Now())
	if err != nil { t.Fatalf("collect: %v", err) }
	return got
}

func TestCreateOrder_Defaults(t *testing.T) {
	svc := newTestService()
	o := &LabOrder{PatientID: uuid.New(), PanelCode: "burn-panel"}
	if err := svc.CreateOrder(context.Background(), o); err != nil { t.Fatalf("unexpected error: %v", err) }
	if o.Status != StatusOrdered { t.Errorf("expected ordered, got %q", o.Status) }
	if o.Priority != PriorityRoutine { t.Errorf("expected routine, got %q", o.Priority) }
	if o.OrderedAt.IsZero() { t.Error("expected ordered_at stamped") }
}

func TestCreateOrder_Validation(t *testing.T) {
	svc := newTestService()
	if err := svc.CreateOrder(context.Background(), &LabOrder{PanelCode: "burn-panel"}); err == nil { t.Error("expected error: missing patient") }
	if err := svc.CreateOrder(context.Background(), &LabOrder{PatientID: uuid.New()}); err == nil { t.Error("expected error: missing panel") }
	if err := svc.CreateOrder(context.Background(), &LabOrder{PatientID: uuid.New(), PanelCode: "x", Priority: "stat"}); err == nil { t.Error("expected error: bad priority") }
}

func TestTransition_Workflow(t *testing.T) {
	svc := newTestService()
	o := newCollectedOrder(t, svc)
	if o.CollectedAt == nil { t.Error("expected collected_at stamped") }
	got, err := svc.Transition(context.Background(), o.ID, StatusResulted, time.Now())
	if err != nil { t.Fatalf("unexpected error: %v", err) }
	if got.ResultedAt == nil { t.Error("expected resulted_at stamped") }
}

func TestTransition_SkipCollectionRejected(t *testing.T) {
	svc := newTestService()
	o := &LabOrder{PatientID: uuid.New(), PanelCode: "burn-panel"}
	svc.CreateOrder(context.Background(), o)
	if _, err := svc.Transition(context.Background(), o.ID, StatusResulted, time.Now()); err == nil {
		t.Fatal("expected error: ordered cannot jump to resulted")
	}
}

func TestAddResult_RequiresCollection(t *testing.T) {
	svc := newTestService()
	o := &LabOrder{PatientID: uuid.New(), PanelCode: "burn-panel"}
	svc.CreateOrder(context.Background(), o)
	res := &LabResult{OrderID: o.ID, Analyte: "na", Value: 140}
	if err := svc.AddResult(context.Background(), res); err == nil {
		t.Fatal("expected error: order not collected")
	}
}

func TestAddResult_SeedsBurnPanelRange(t *testing.T) {
	svc := newTestService()
	o := newCollectedOrder(t, svc)
	res := &LabResult{OrderID: o.ID, Analyte: "na", Value: 140}
	if err := svc.AddResult(context.Background(), res); err != nil { t.Fatalf("unexpected error: %v", err) }
	if res.RefLow == nil || *res.RefLow != 135 { t.Error("expected seeded ref_low 135") }
	if res.RefHigh == nil || *res.RefHigh != 145 { t.Error("expected seeded ref_high 145") }
	if res.Unit != "mmol/L" { t.Errorf("expected seeded unit, got %q", res.Unit) }
	if res.Flag != FlagNormal { t.Errorf("expected normal flag, got %q", res.Flag) }
}

func TestAddResult_MovesOrderToResulted(t *testing.T) {
	svc := newTestService()
	o := newCollectedOrder(t, svc)
	if err := svc.AddResult(context.Background(), &LabResult{OrderID: o.ID, Analyte: "k", Value: 4.1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got, _ := svc.GetOrder(context.Background(), o.ID)
	if got.Status != StatusResulted { t.Errorf("expected resulted, got %q", got.Status) }
}

func TestAddResult_ExplicitBoundsOverridePanel(t *testing.T) {
	svc := newTestService()
	o := newCollectedOrder(t, svc)
	low, high := 100.0, 120.0
	res := &LabResult{OrderID: o.ID, Analyte: "na", Value: 140, RefLow: &low, RefHigh: &high}
	if err := svc.AddResult(context.Background(), res); err != nil { t.Fatalf("unexpected error: %v", err) }
	if res.Flag != FlagCriticalHigh { t.Errorf("140 against [100,120] should be critical-high, got %q", res.Flag) }
}

func TestAddResult_UnknownAnalyteWithoutBounds(t *testing.T) {
	svc := newTestService()
	o := newCollectedOrder(t, svc)
	res := &LabResult{OrderID: o.ID, Analyte: "procalcitonin", Value: 2.5}
	if err := svc.AddResult(context.Background(), res); err != nil { t.Fatalf("unexpected error: %v", err) }
	if res.Flag != FlagNormal { t.Errorf("no bounds means no flagging, got %q", res.Flag) }
}

func TestDeriveFlag(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		want  string
	}{
		{"normal", 140, FlagNormal},
		{"at low bound", 135, FlagNormal},
		{"low", 130, FlagLow},
		{"critical low", 105, FlagCriticalLow},
		{"high", 150, FlagHigh},
		{"critical high", 175, FlagCriticalHigh},
	}
	for _, tt := range tests {
		if got := DeriveFlag(tt.value, 135, 145); got != tt.want {
			t.Errorf("%s: DeriveFlag(%.0f) = %q, want %q", tt.name, tt.value, got, tt.want)
		}
	}
}

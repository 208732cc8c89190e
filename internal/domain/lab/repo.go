package lab

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CreateOrder(ctx context.Context, o *LabOrder) error
	GetOrder(ctx context.Context, id uuid.UUID) (*LabOrder, error)
	UpdateOrder(ctx context.Context, o *LabOrder) error
	SearchOrders(ctx context.Context, params map[string]string, limit, offset int) ([]*LabOrder, int, error)

	AddResult(ctx context.Context, r *LabResult) error
	ListResults(ctx context.Context, orderID uuid.UUID) ([]*LabResult, error)
}

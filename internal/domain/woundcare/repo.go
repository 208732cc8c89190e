package woundcare

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	CreateAssessment(ctx context.Context, wa *WoundAssessment) error
	GetAssessment(ctx context.Context, id uuid.UUID) (*WoundAssessment, error)
	SearchAssessments(ctx context.Context, params map[string]string, limit, offset int) ([]*WoundAssessment, int, error)

	CreateDressingChange(ctx context.Context, dc *DressingChange) error
	ListDressingChanges(ctx context.Context, patientID uuid.UUID) ([]*DressingChange, error)
	ListDueReviews(ctx context.Context, before time.Time, limit, offset int) ([]*DressingChange, int, error)
}

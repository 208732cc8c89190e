package nutrition

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, na *NutritionAssessment) error
	GetByID(ctx context.Context, id uuid.UUID) (*NutritionAssessment, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*NutritionAssessment, error)
	Search(ctx context.Context, params map[string]string, limit, offset int) ([]*NutritionAssessment, int, error)

	// ListDueScreens returns the latest assessment per patient whose
	// next_screen_due falls on or before the cutoff.
	ListDueScreens(ctx context.Context, before time.Time, limit, offset int) ([]*NutritionAssessment, int, error)
}

package treatment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	CreatePlan(ctx context.Context, p *TreatmentPlan) error
	GetPlan(ctx context.Context, id uuid.UUID) (*TreatmentPlan, error)
	UpdatePlan(ctx context.Context, p *TreatmentPlan) error
	DeletePlan(ctx context.Context, id uuid.UUID) error
	SearchPlans(ctx context.Context, params map[string]string, limit, offset int) ([]*TreatmentPlan, int, error)

	AddGoal(ctx context.Context, g *Goal) error
	UpdateGoal(ctx context.Context, g *Goal) error
	ListGoals(ctx context.Context, planID uuid.UUID) ([]*Goal, error)

	AddActivity(ctx context.Context, a *PlanActivity) error
	UpdateActivity(ctx context.Context, a *PlanActivity) error
	ListActivities(ctx context.Context, planID uuid.UUID) ([]*PlanActivity, error)
}

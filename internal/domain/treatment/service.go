package treatment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	plans Repository
}

func NewService(plans Repository) *Service {
	return &Service{plans: plans}
}

var validStatuses = map[string]bool{
	StatusDraft: true, StatusActive: true, StatusCompleted: true, StatusRevoked: true,
}

func (s *Service) CreatePlan(ctx context.Context, p *TreatmentPlan) error {
	if p.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if p.Title == "" {
		return fmt.Errorf("title is required")
	}
	if p.Status == "" {
		p.Status = StatusDraft
	}
	if p.Status != StatusDraft {
		return fmt.Errorf("new plans start in draft")
	}
	return s.plans.CreatePlan(ctx, p)
}

func (s *Service) GetPlan(ctx context.Context, id uuid.UUID) (*TreatmentPlan, error) {
	return s.plans.GetPlan(ctx, id)
}

func (s *Service) UpdatePlan(ctx context.Context, p *TreatmentPlan) error {
	existing, err := s.plans.GetPlan(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("treatment plan not found: %w", err)
	}
	if existing.Status != StatusDraft {
		return fmt.Errorf("only draft plans can be edited, status is %s", existing.Status)
	}
	if p.Title == "" {
		return fmt.Errorf("title is required")
	}
	p.Status = existing.Status
	return s.plans.UpdatePlan(ctx, p)
}

func (s *Service) DeletePlan(ctx context.Context, id uuid.UUID) error {
	p, err := s.plans.GetPlan(ctx, id)
	if err != nil {
		return fmt.Errorf("treatment plan not found: %w", err)
	}
	if p.Status != StatusDraft {
		return fmt.Errorf("only draft plans can be deleted")
	}
	return s.plans.DeletePlan(ctx, id)
}

func (s *Service) SearchPlans(ctx context.Context, params map[string]string, limit, offset int) ([]*TreatmentPlan, int, error) {
	return s.plans.SearchPlans(ctx, params, limit, offset)
}

// Transition moves a plan through its lifecycle. Activation requires at least
// one activity on the plan.
func (s *Service) Transition(ctx context.Context, id uuid.UUID, to string, at time.Time) (*TreatmentPlan, error) {
	p, err := s.plans.GetPlan(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("treatment plan not found: %w", err)
	}
	if !validStatuses[to] {
		return nil, fmt.Errorf("invalid status: %s", to)
	}
	if !CanTransition(p.Status, to) {
		return nil, fmt.Errorf("cannot transition treatment plan from %s to %s", p.Status, to)
	}
	if to == StatusActive {
		activities, err := s.plans.ListActivities(ctx, id)
		if err != nil {
			return nil, err
		}
		if len(activities) == 0 {
			return nil, fmt.Errorf("a plan needs at least one activity before activation")
		}
		if p.ActivatedAt == nil {
			p.ActivatedAt = &at
		}
	}
	if to == StatusCompleted || to == StatusRevoked {
		if p.EndedAt == nil {
			p.EndedAt = &at
		}
	}
	p.Status = to
	if err := s.plans.UpdatePlan(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Service) AddGoal(ctx context.Context, g *Goal) error {
	p, err := s.plans.GetPlan(ctx, g.PlanID)
	if err != nil {
		return fmt.Errorf("treatment plan not found: %w", err)
	}
	if p.Status == StatusCompleted || p.Status == StatusRevoked {
		return fmt.Errorf("plan is %s", p.Status)
	}
	if g.Description == "" {
		return fmt.Errorf("description is required")
	}
	return s.plans.AddGoal(ctx, g)
}

func (s *Service) AchieveGoal(ctx context.Context, planID, goalID uuid.UUID) (*Goal, error) {
	goals, err := s.plans.ListGoals(ctx, planID)
	if err != nil {
		return nil, err
	}
	for _, g := range goals {
		if g.ID == goalID {
			g.Achieved = true
			if err := s.plans.UpdateGoal(ctx, g); err != nil {
				return nil, err
			}
			return g, nil
		}
	}
	return nil, fmt.Errorf("goal not found on plan")
}

func (s *Service) ListGoals(ctx context.Context, planID uuid.UUID) ([]*Goal, error) {
	return s.plans.ListGoals(ctx, planID)
}

func (s *Service) AddActivity(ctx context.Context, a *PlanActivity) error {
	p, err := s.plans.GetPlan(ctx, a.PlanID)
	if err != nil {
		return fmt.Errorf("treatment plan not found: %w", err)
	}
	if p.Status == StatusCompleted || p.Status == StatusRevoked {
		return fmt.Errorf("plan is %s", p.Status)
	}
	if a.Kind == "" {
		return fmt.Errorf("kind is required")
	}
	return s.plans.AddActivity(ctx, a)
}

func (s *Service) CompleteActivity(ctx context.Context, planID, activityID uuid.UUID) (*PlanActivity, error) {
	activities, err := s.plans.ListActivities(ctx, planID)
	if err != nil {
		return nil, err
	}
	for _, a := range activities {
		if a.ID == activityID {
			a.Completed = true
			if err := s.plans.UpdateActivity(ctx, a); err != nil {
				return nil, err
			}
			return a, nil
		}
	}
	return nil, fmt.Errorf("activity not found on plan")
}

func (s *Service) ListActivities(ctx context.Context, planID uuid.UUID) ([]*PlanActivity, error) {
	return s.plans.ListActivities(ctx, planID)
}

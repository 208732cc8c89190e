package woundcare

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	wounds Repository
}

func NewService(wounds Repository) *Service {
	return &Service{wounds: wounds}
}

var validExudateAmounts = map[string]bool{
	ExudateNone: true, ExudateLow: true, ExudateModerate: true, ExudateHigh: true,
}

func (s *Service) CreateAssessment(ctx context.Context, wa *WoundAssessment) error {
	if wa.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if wa.Site == "" {
		return fmt.Errorf("site is required")
	}
	if wa.ExudateAmount == "" {
		wa.ExudateAmount = ExudateNone
	}
	if !validExudateAmounts[wa.ExudateAmount] {
		return fmt.Errorf("invalid exudate_amount: %s", wa.ExudateAmount)
	}
	if wa.PainScore < 0 || wa.PainScore > 10 {
		return fmt.Errorf("pain_score must be within [0,10], got %d", wa.PainScore)
	}
	if wa.AssessedAt.IsZero() {
		wa.AssessedAt = time.Now()
	}
	return s.wounds.CreateAssessment(ctx, wa)
}

func (s *Service) GetAssessment(ctx context.Context, id uuid.UUID) (*WoundAssessment, error) {
	return s.wounds.GetAssessment(ctx, id)
}

func (s *Service) SearchAssessments(ctx context.Context, params map[string]string, limit, offset int) ([]*WoundAssessment, int, error) {
	return s.wounds.SearchAssessments(ctx, params, limit, offset)
}

// RecordDressingChange stores a change and derives the next review time when
// the clinician does not set one.
func (s *Service) RecordDressingChange(ctx context.Context, dc *DressingChange) error {
	if dc.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if dc.Site == "" {
		return fmt.Errorf("site is required")
	}
	if dc.Products == "" {
		return fmt.Errorf("products is required")
	}
	if dc.AssessmentID != nil {
		if _, err := s.wounds.GetAssessment(ctx, *dc.AssessmentID); err != nil {
			return fmt.Errorf("wound assessment not found: %w", err)
		}
	}
	if dc.ChangedAt.IsZero() {
		dc.ChangedAt = time.Now()
	}
	if dc.NextReviewAt.IsZero() {
		dc.NextReviewAt = dc.ChangedAt.Add(DefaultReviewInterval)
	}
	if !dc.NextReviewAt.After(dc.ChangedAt) {
		return fmt.Errorf("next_review_at must be after changed_at")
	}
	return s.wounds.CreateDressingChange(ctx, dc)
}

func (s *Service) ListDressingChanges(ctx context.Context, patientID uuid.UUID) ([]*DressingChange, error) {
	return s.wounds.ListDressingChanges(ctx, patientID)
}

// DueReviews lists dressing changes whose review time has passed.
func (s *Service) DueReviews(ctx context.Context, before time.Time, limit, offset int) ([]*DressingChange, int, error) {
	return s.wounds.ListDueReviews(ctx, before, limit, offset)
}

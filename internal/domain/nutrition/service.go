package nutrition

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/burnunit/emr/internal/domain/burns"
	"github.com/burnunit/emr/internal/domain/patient"
	"github.com/burnunit/emr/pkg/burnscore"
)

// PatientLookup is the slice of the patient repository the service needs.
type PatientLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*patient.Patient, error)
}

// CaseLookup resolves a linked burn case for the calorie target.
type CaseLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*burns.BurnCase, error)
}

type Service struct {
	assessments Repository
	patients    PatientLookup
	cases       CaseLookup
}

func NewService(assessments Repository, patients PatientLookup, cases CaseLookup) *Service {
	return &Service{assessments: assessments, patients: patients, cases: cases}
}

var validRoutes = map[string]bool{
	"oral": true, "ng": true, "nj": true, "peg": true, "parenteral": true,
}

// CreateAssessment derives BMI, the MUST score and risk band, the calorie
// target, and the next screening due date, then persists the assessment.
// When a burn case is linked the target comes from the Curreri formula,
// otherwise from a 25 kcal/kg/day baseline.
func (s *Service) CreateAssessment(ctx context.Context, na *NutritionAssessment) error {
	if na.PatientID == uuid.Nil {
		return fmt.Errorf("patient_id is required")
	}
	if _, err := s.patients.GetByID(ctx, na.PatientID); err != nil {
		return fmt.Errorf("patient not found: %w", err)
	}
	if na.HeightCm <= 0 {
		return fmt.Errorf("height_cm must be positive")
	}
	if na.WeightKg <= 0 {
		return fmt.Errorf("weight_kg must be positive")
	}
	if na.WeightLossPct < 0 || na.WeightLossPct > 100 {
		return fmt.Errorf("weight_loss_pct must be within [0,100]")
	}
	if na.FeedingRoute != nil && !validRoutes[*na.FeedingRoute] {
		return fmt.Errorf("invalid feeding route: %s", *na.FeedingRoute)
	}

	heightM := na.HeightCm / 100
	na.BMI = math.Round(na.WeightKg/(heightM*heightM)*10) / 10

	res, err := burnscore.MUST(na.BMI, na.WeightLossPct, na.AcutelyIll)
	if err != nil {
		return err
	}
	na.MUSTScore = res.Score
	na.RiskBand = res.Risk

	if na.BurnCaseID != nil {
		bc, err := s.cases.GetByID(ctx, *na.BurnCaseID)
		if err != nil {
			return fmt.Errorf("burn case not found: %w", err)
		}
		if bc.PatientID != na.PatientID {
			return fmt.Errorf("burn case belongs to a different patient")
		}
		kcal, err := burnscore.CurreriCalories(na.WeightKg, bc.TBSAPct)
		if err != nil {
			return err
		}
		na.CalorieTarget = kcal
	} else {
		na.CalorieTarget = 25 * na.WeightKg
	}

	if na.AssessedAt.IsZero() {
		na.AssessedAt = time.Now()
	}
	na.NextScreenDue = na.AssessedAt.Add(RescreenInterval(na.RiskBand))
	return s.assessments.Create(ctx, na)
}

func (s *Service) GetAssessment(ctx context.Context, id uuid.UUID) (*NutritionAssessment, error) {
	return s.assessments.GetByID(ctx, id)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID) ([]*NutritionAssessment, error) {
	return s.assessments.ListByPatient(ctx, patientID)
}

func (s *Service) Search(ctx context.Context, params map[string]string, limit, offset int) ([]*NutritionAssessment, int, error) {
	return s.assessments.Search(ctx, params, limit, offset)
}

func (s *Service) DueScreens(ctx context.Context, before time.Time, limit, offset int) ([]*NutritionAssessment, int, error) {
	return s.assessments.ListDueScreens(ctx, before, limit, offset)
}

package nutrition

import (
	"time"

	"github.com/google/uuid"
)

// NutritionAssessment maps to the nutrition_assessment table. BMI, the MUST
// score, the risk band, the calorie target, and the next screening due date
// are all derived in the service.
type NutritionAssessment struct {
	ID            uuid.UUID  `db:"id" json:"id"`
	PatientID     uuid.UUID  `db:"patient_id" json:"patient_id"`
	BurnCaseID    *uuid.UUID `db:"burn_case_id" json:"burn_case_id,omitempty"`
	HeightCm      float64    `db:"height_cm" json:"height_cm"`
	WeightKg      float64    `db:"weight_kg" json:"weight_kg"`
	BMI           float64    `db:"bmi" json:"bmi"`
	WeightLossPct float64    `db:"weight_loss_pct" json:"weight_loss_pct"`
	AcutelyIll    bool       `db:"acutely_ill" json:"acutely_ill"`
	MUSTScore     int        `db:"must_score" json:"must_score"`
	RiskBand      string     `db:"risk_band" json:"risk_band"`
	CalorieTarget float64    `db:"calorie_target" json:"calorie_target"`
	FeedingRoute  *string    `db:"feeding_route" json:"feeding_route,omitempty"`
	AssessedBy    *string    `db:"assessed_by" json:"assessed_by,omitempty"`
	AssessedAt    time.Time  `db:"assessed_at" json:"assessed_at"`
	NextScreenDue time.Time  `db:"next_screen_due" json:"next_screen_due"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
}

// Re-screening intervals by MUST risk band.
const (
	rescreenHigh   = 7 * 24 * time.Hour
	rescreenMedium = 3 * 24 * time.Hour
	rescreenLow    = 14 * 24 * time.Hour
)

// RescreenInterval returns how long after an assessment the next screen
// falls due for a risk band.
func RescreenInterval(risk string) time.Duration {
	switch risk {
	case "high":
		return rescreenHigh
	case "medium":
		return rescreenMedium
	default:
		return rescreenLow
	}
}

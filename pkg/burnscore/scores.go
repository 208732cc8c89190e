package burnscore

import (
	"fmt"
	"math"
)

// Baux returns the classic Baux mortality score: age + TBSA%.
func Baux(ageYears int, tbsa float64) float64 {
	return float64(ageYears) + tbsa
}

// RevisedBaux adds 17 points for inhalation injury per Osler et al.
func RevisedBaux(ageYears int, tbsa float64, inhalation bool) float64 {
	score := Baux(ageYears, tbsa)
	if inhalation {
		score += 17
	}
	return score
}

// ABSIResult holds the Abbreviated Burn Severity Index score and its
// threat-to-life band.
type ABSIResult struct {
	Score int    `json:"score"`
	Band  string `json:"band"`
}

// ABSI computes the Abbreviated Burn Severity Index from the published
// point table: sex (female +1), age band, inhalation injury (+1),
// full-thickness burn present (+1), and one point per started decade of TBSA.
func ABSI(ageYears int, female bool, tbsa float64, inhalation, fullThickness bool) (ABSIResult, error) {
	if ageYears < 0 {
		return ABSIResult{}, fmt.Errorf("age must not be negative, got %d", ageYears)
	}
	if tbsa < 0 || tbsa > 100 {
		return ABSIResult{}, fmt.Errorf("tbsa must be within [0,100], got %.1f", tbsa)
	}

	score := 0
	if female {
		score++
	}
	switch {
	case ageYears <= 20:
		score += 1
	case ageYears <= 40:
		score += 2
	case ageYears <= 60:
		score += 3
	case ageYears <= 80:
		score += 4
	default:
		score += 5
	}
	if inhalation {
		score++
	}
	if fullThickness {
		score++
	}
	if tbsa > 0 {
		score += int(math.Ceil(tbsa / 10))
	}

	return ABSIResult{Score: score, Band: absiBand(score)}, nil
}

func absiBand(score int) string {
	switch {
	case score <= 3:
		return "very low"
	case score <= 5:
		return "moderate"
	case score <= 7:
		return "moderately severe"
	case score <= 9:
		return "serious"
	case score <= 11:
		return "severe"
	default:
		return "maximum"
	}
}

// CurreriCalories returns the adult daily calorie target for burn patients:
// 25 kcal/kg plus 40 kcal per TBSA percentage point.
func CurreriCalories(weightKg, tbsa float64) (float64, error) {
	if weightKg <= 0 {
		return 0, fmt.Errorf("weight must be positive, got %.1f", weightKg)
	}
	if tbsa < 0 || tbsa > 100 {
		return 0, fmt.Errorf("tbsa must be within [0,100], got %.1f", tbsa)
	}
	return 25*weightKg + 40*tbsa, nil
}

// MUSTResult holds the Malnutrition Universal Screening Tool score and band.
type MUSTResult struct {
	Score int    `json:"score"`
	Risk  string `json:"risk"`
}

// MUST computes the Malnutrition Universal Screening Tool score from BMI,
// unplanned weight loss over 3-6 months (percent), and acute illness with no
// nutritional intake for more than five days.
func MUST(bmi, weightLossPct float64, acutelyIll bool) (MUSTResult, error) {
	if bmi <= 0 {
		return MUSTResult{}, fmt.Errorf("bmi must be positive, got %.1f", bmi)
	}

	score := 0
	switch {
	case bmi < 18.5:
		score += 2
	case bmi < 20:
		score += 1
	}
	switch {
	case weightLossPct > 10:
		score += 2
	case weightLossPct >= 5:
		score += 1
	}
	if acutelyIll {
		score += 2
	}

	risk := "low"
	switch {
	case score >= 2:
		risk = "high"
	case score == 1:
		risk = "medium"
	}
	return MUSTResult{Score: score, Risk: risk}, nil
}

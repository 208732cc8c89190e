package burnscore

import (
	"fmt"
	"time"
)

// FluidPhase identifies where the current time falls in the 24-hour
// Parkland resuscitation window.
type FluidPhase string

const (
	PhaseFirst8h  FluidPhase = "first-8h"  // 0-8h post injury, first half of volume
	PhaseNext16h  FluidPhase = "next-16h"  // 8-24h post injury, second half
	PhaseComplete FluidPhase = "complete"  // beyond 24h post injury
)

// PediatricAgeCutoff is the age in years below which pediatric resuscitation
// thresholds apply.
const PediatricAgeCutoff = 16

// FluidPlan is a Parkland-formula resuscitation plan evaluated at a point in
// time. Volumes are crystalloid in millilitres.
type FluidPlan struct {
	Indicated         bool       `json:"indicated"`
	TotalML           float64    `json:"total_ml"`
	Phase1ML          float64    `json:"phase1_ml"`
	Phase2ML          float64    `json:"phase2_ml"`
	Phase1End         time.Time  `json:"phase1_end"`
	Phase2End         time.Time  `json:"phase2_end"`
	Phase             FluidPhase `json:"phase"`
	TargetRateMLPerHr float64    `json:"target_rate_ml_per_hr"`
}

// ResuscitationIndicated applies the TBSA thresholds for formal fluid
// resuscitation: 15% in adults, 10% under the pediatric cutoff.
func ResuscitationIndicated(tbsa float64, ageYears int) bool {
	if ageYears < PediatricAgeCutoff {
		return tbsa >= 10
	}
	return tbsa >= 15
}

// ParklandPlan computes the Parkland resuscitation plan: 4 mL x weight (kg) x
// TBSA%, half in the first 8 hours post injury and half over the following 16.
//
// givenPhase1ML is the crystalloid volume already administered inside phase 1;
// during phase 1 the remaining phase-1 volume is spread over the remaining
// phase-1 hours, which handles delayed presentation. During phase 2 the target
// rate is the flat phase-2 rate. Beyond 24 hours the plan reports a zero rate;
// maintenance fluids are outside the formula.
func ParklandPlan(weightKg, tbsa float64, ageYears int, injuryTime, now time.Time, givenPhase1ML float64) (FluidPlan, error) {
	if weightKg <= 0 {
		return FluidPlan{}, fmt.Errorf("weight must be positive, got %.1f", weightKg)
	}
	if tbsa < 0 || tbsa > 100 {
		return FluidPlan{}, fmt.Errorf("tbsa must be within [0,100], got %.1f", tbsa)
	}
	if injuryTime.IsZero() {
		return FluidPlan{}, fmt.Errorf("injury time is required")
	}
	if now.Before(injuryTime) {
		return FluidPlan{}, fmt.Errorf("evaluation time %s precedes injury time %s", now.Format(time.RFC3339), injuryTime.Format(time.RFC3339))
	}

	plan := FluidPlan{
		Phase1End: injuryTime.Add(8 * time.Hour),
		Phase2End: injuryTime.Add(24 * time.Hour),
	}

	if !ResuscitationIndicated(tbsa, ageYears) {
		plan.Phase = currentPhase(plan, now)
		return plan, nil
	}

	plan.Indicated = true
	plan.TotalML = 4 * weightKg * tbsa
	plan.Phase1ML = plan.TotalML / 2
	plan.Phase2ML = plan.TotalML / 2
	plan.Phase = currentPhase(plan, now)

	switch plan.Phase {
	case PhaseFirst8h:
		remainingML := plan.Phase1ML - givenPhase1ML
		if remainingML < 0 {
			remainingML = 0
		}
		remainingHrs := plan.Phase1End.Sub(now).Hours()
		if remainingHrs > 0 {
			plan.TargetRateMLPerHr = remainingML / remainingHrs
		}
	case PhaseNext16h:
		plan.TargetRateMLPerHr = plan.Phase2ML / 16
	}

	return plan, nil
}

func currentPhase(plan FluidPlan, now time.Time) FluidPhase {
	switch {
	case now.Before(plan.Phase1End):
		return PhaseFirst8h
	case now.Before(plan.Phase2End):
		return PhaseNext16h
	default:
		return PhaseComplete
	}
}

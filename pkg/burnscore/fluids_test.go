package burnscore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var injury = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

func TestParklandPlanAtInjury(t *testing.T) {
	plan, err := ParklandPlan(70, 40, 30, injury, injury, 0)
	require.NoError(t, err)

	assert.True(t, plan.Indicated)
	assert.Equal(t, 11200.0, plan.TotalML) // 4 x 70 x 40
	assert.Equal(t, 5600.0, plan.Phase1ML)
	assert.Equal(t, 5600.0, plan.Phase2ML)
	assert.Equal(t, PhaseFirst8h, plan.Phase)
	assert.InDelta(t, 700.0, plan.TargetRateMLPerHr, 0.001) // 5600 over 8h
	assert.Equal(t, injury.Add(8*time.Hour), plan.Phase1End)
	assert.Equal(t, injury.Add(24*time.Hour), plan.Phase2End)
}

func TestParklandPlanDelayedPresentation(t *testing.T) {
	// Presenting 4h post injury with 2000 mL already given: the remaining
	// 3600 mL of phase 1 is spread over the remaining 4 hours.
	now := injury.Add(4 * time.Hour)
	plan, err := ParklandPlan(70, 40, 30, injury, now, 2000)
	require.NoError(t, err)

	assert.Equal(t, PhaseFirst8h, plan.Phase)
	assert.InDelta(t, 900.0, plan.TargetRateMLPerHr, 0.001)
}

func TestParklandPlanPhase1Overdelivery(t *testing.T) {
	now := injury.Add(4 * time.Hour)
	plan, err := ParklandPlan(70, 40, 30, injury, now, 6000)
	require.NoError(t, err)
	assert.Equal(t, 0.0, plan.TargetRateMLPerHr)
}

func TestParklandPlanPhase2(t *testing.T) {
	now := injury.Add(10 * time.Hour)
	plan, err := ParklandPlan(70, 40, 30, injury, now, 5600)
	require.NoError(t, err)

	assert.Equal(t, PhaseNext16h, plan.Phase)
	assert.InDelta(t, 350.0, plan.TargetRateMLPerHr, 0.001) // 5600 over 16h
}

func TestParklandPlanComplete(t *testing.T) {
	now := injury.Add(30 * time.Hour)
	plan, err := ParklandPlan(70, 40, 30, injury, now, 11200)
	require.NoError(t, err)

	assert.Equal(t, PhaseComplete, plan.Phase)
	assert.Equal(t, 0.0, plan.TargetRateMLPerHr)
}

func TestParklandPlanNotIndicatedBelowThreshold(t *testing.T) {
	plan, err := ParklandPlan(70, 10, 30, injury, injury, 0)
	require.NoError(t, err)

	assert.False(t, plan.Indicated)
	assert.Equal(t, 0.0, plan.TotalML)
	assert.Equal(t, 0.0, plan.TargetRateMLPerHr)
}

func TestParklandPlanPediatricThreshold(t *testing.T) {
	// 12% TBSA: below the adult threshold but above the pediatric one.
	adult, err := ParklandPlan(70, 12, 30, injury, injury, 0)
	require.NoError(t, err)
	assert.False(t, adult.Indicated)

	child, err := ParklandPlan(30, 12, 10, injury, injury, 0)
	require.NoError(t, err)
	assert.True(t, child.Indicated)
	assert.Equal(t, 1440.0, child.TotalML) // 4 x 30 x 12
}

func TestParklandPlanErrors(t *testing.T) {
	_, err := ParklandPlan(0, 40, 30, injury, injury, 0)
	assert.Error(t, err)

	_, err = ParklandPlan(70, 101, 30, injury, injury, 0)
	assert.Error(t, err)

	_, err = ParklandPlan(70, 40, 30, time.Time{}, injury, 0)
	assert.Error(t, err)

	_, err = ParklandPlan(70, 40, 30, injury, injury.Add(-time.Hour), 0)
	assert.Error(t, err)
}

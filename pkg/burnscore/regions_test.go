package burnscore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegionPercentAgeBands(t *testing.T) {
	tests := []struct {
		region Region
		age    int
		want   float64
	}{
		{RegionHead, 0, 19},
		{RegionHead, 3, 17},
		{RegionHead, 7, 13},
		{RegionHead, 12, 11},
		{RegionHead, 16, 9},
		{RegionHead, 30, 7},
		{RegionRightThigh, 0, 5.5},
		{RegionRightThigh, 30, 9.5},
		{RegionLeftLeg, 6, 5.5},
		{RegionLeftLeg, 40, 7},
		{RegionNeck, 0, 2},
		{RegionNeck, 80, 2},
		{RegionRightHand, 10, 2.5},
	}
	for _, tt := range tests {
		got, err := RegionPercent(tt.region, tt.age)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "region %s age %d", tt.region, tt.age)
	}
}

func TestRegionPercentWholeBodySumsTo100(t *testing.T) {
	regions := []Region{
		RegionHead, RegionNeck, RegionAnteriorTrunk, RegionPosteriorTrunk,
		RegionRightButtock, RegionLeftButtock, RegionGenitalia,
		RegionRightUpperArm, RegionLeftUpperArm, RegionRightForearm, RegionLeftForearm,
		RegionRightHand, RegionLeftHand, RegionRightThigh, RegionLeftThigh,
		RegionRightLeg, RegionLeftLeg, RegionRightFoot, RegionLeftFoot,
	}
	for _, age := range []int{0, 1, 5, 10, 15, 40} {
		sum := 0.0
		for _, r := range regions {
			pct, err := RegionPercent(r, age)
			require.NoError(t, err)
			sum += pct
		}
		assert.InDelta(t, 100, sum, 0.001, "age %d", age)
	}
}

func TestRegionPercentErrors(t *testing.T) {
	_, err := RegionPercent(Region("torso"), 30)
	assert.Error(t, err)

	_, err = RegionPercent(RegionHead, -1)
	assert.Error(t, err)
}

func TestTBSA(t *testing.T) {
	burns := []RegionBurn{
		{Region: RegionHead, Depth: DepthFull, Fraction: 1},
		{Region: RegionAnteriorTrunk, Depth: DepthSuperficialPartial, Fraction: 0.5},
		{Region: RegionRightHand, Depth: DepthDeepPartial, Fraction: 1},
	}
	got, err := TBSA(burns, 30)
	require.NoError(t, err)
	assert.InDelta(t, 16.0, got, 0.001) // 7 + 6.5 + 2.5
}

func TestTBSAExcludesSuperficial(t *testing.T) {
	burns := []RegionBurn{
		{Region: RegionAnteriorTrunk, Depth: DepthSuperficial, Fraction: 1},
		{Region: RegionNeck, Depth: DepthDeepPartial, Fraction: 1},
	}
	got, err := TBSA(burns, 25)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got, 0.001)
}

func TestTBSAClampsFractionAndTotal(t *testing.T) {
	got, err := TBSA([]RegionBurn{
		{Region: RegionPosteriorTrunk, Depth: DepthFull, Fraction: 1.8},
	}, 30)
	require.NoError(t, err)
	assert.InDelta(t, 13.0, got, 0.001)

	// Duplicate full-body entries cannot exceed 100.
	var burns []RegionBurn
	for i := 0; i < 3; i++ {
		burns = append(burns,
			RegionBurn{Region: RegionAnteriorTrunk, Depth: DepthFull, Fraction: 1},
			RegionBurn{Region: RegionPosteriorTrunk, Depth: DepthFull, Fraction: 1},
			RegionBurn{Region: RegionHead, Depth: DepthFull, Fraction: 1},
			RegionBurn{Region: RegionRightThigh, Depth: DepthFull, Fraction: 1},
			RegionBurn{Region: RegionLeftThigh, Depth: DepthFull, Fraction: 1},
		)
	}
	got, err = TBSA(burns, 30)
	require.NoError(t, err)
	assert.Equal(t, 100.0, got)
}

func TestTBSAAgeDependence(t *testing.T) {
	burns := []RegionBurn{{Region: RegionHead, Depth: DepthDeepPartial, Fraction: 1}}

	infant, err := TBSA(burns, 0)
	require.NoError(t, err)
	adult, err := TBSA(burns, 30)
	require.NoError(t, err)

	assert.Equal(t, 19.0, infant)
	assert.Equal(t, 7.0, adult)
}

func TestTBSAErrors(t *testing.T) {
	_, err := TBSA([]RegionBurn{{Region: Region("arm"), Depth: DepthFull, Fraction: 1}}, 30)
	assert.Error(t, err)

	_, err = TBSA([]RegionBurn{{Region: RegionHead, Depth: Depth("charred"), Fraction: 1}}, 30)
	assert.Error(t, err)
}

func TestHasFullThickness(t *testing.T) {
	assert.False(t, HasFullThickness([]RegionBurn{
		{Region: RegionHead, Depth: DepthDeepPartial, Fraction: 0.5},
		{Region: RegionNeck, Depth: DepthFull, Fraction: 0},
	}))
	assert.True(t, HasFullThickness([]RegionBurn{
		{Region: RegionNeck, Depth: DepthFull, Fraction: 0.1},
	}))
}

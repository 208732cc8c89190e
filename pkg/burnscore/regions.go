// Package burnscore implements the burn assessment calculations used by the
// burns domain: Lund-Browder TBSA estimation, Baux/revised Baux and ABSI
// severity scores, Parkland fluid resuscitation planning, Curreri nutrition
// targets, MUST screening, and threshold alerting over vital-sign series.
//
// Everything in this package is pure: no I/O, no clock reads. Callers pass
// times explicitly so results are reproducible.
package burnscore

import (
	"fmt"
)

// Region identifies a Lund-Browder body region.
type Region string

const (
	RegionHead           Region = "head"
	RegionNeck           Region = "neck"
	RegionAnteriorTrunk  Region = "anterior_trunk"
	RegionPosteriorTrunk Region = "posterior_trunk"
	RegionRightButtock   Region = "right_buttock"
	RegionLeftButtock    Region = "left_buttock"
	RegionGenitalia      Region = "genitalia"
	RegionRightUpperArm  Region = "right_upper_arm"
	RegionLeftUpperArm   Region = "left_upper_arm"
	RegionRightForearm   Region = "right_forearm"
	RegionLeftForearm    Region = "left_forearm"
	RegionRightHand      Region = "right_hand"
	RegionLeftHand       Region = "left_hand"
	RegionRightThigh     Region = "right_thigh"
	RegionLeftThigh      Region = "left_thigh"
	RegionRightLeg       Region = "right_leg"
	RegionLeftLeg        Region = "left_leg"
	RegionRightFoot      Region = "right_foot"
	RegionLeftFoot       Region = "left_foot"
)

// Depth classifies burn depth for a region.
type Depth string

const (
	DepthSuperficial        Depth = "superficial"         // first degree, excluded from TBSA
	DepthSuperficialPartial Depth = "superficial_partial" // second degree, superficial
	DepthDeepPartial        Depth = "deep_partial"        // second degree, deep
	DepthFull               Depth = "full"                // third degree
)

// RegionBurn records the burned fraction (0..1) of a single region at a depth.
type RegionBurn struct {
	Region   Region  `json:"region"`
	Depth    Depth   `json:"depth"`
	Fraction float64 `json:"fraction"`
}

// ageBands are the lower bounds of the Lund-Browder age bands in years.
var ageBands = []int{0, 1, 5, 10, 15, 18}

// lundBrowder holds per-region TBSA percentages for each age band.
// Index corresponds to ageBands. Regions absent from this map do not vary
// with age and are listed in fixedPercent.
var lundBrowder = map[Region][6]float64{
	RegionHead:       {19, 17, 13, 11, 9, 7},
	RegionRightThigh: {5.5, 6.5, 8, 8.5, 9, 9.5},
	RegionLeftThigh:  {5.5, 6.5, 8, 8.5, 9, 9.5},
	RegionRightLeg:   {5, 5, 5.5, 6, 6.5, 7},
	RegionLeftLeg:    {5, 5, 5.5, 6, 6.5, 7},
}

var fixedPercent = map[Region]float64{
	RegionNeck:           2,
	RegionAnteriorTrunk:  13,
	RegionPosteriorTrunk: 13,
	RegionRightButtock:   2.5,
	RegionLeftButtock:    2.5,
	RegionGenitalia:      1,
	RegionRightUpperArm:  4,
	RegionLeftUpperArm:   4,
	RegionRightForearm:   3,
	RegionLeftForearm:    3,
	RegionRightHand:      2.5,
	RegionLeftHand:       2.5,
	RegionRightFoot:      3.5,
	RegionLeftFoot:       3.5,
}

// ValidRegion reports whether r is a known Lund-Browder region.
func ValidRegion(r Region) bool {
	if _, ok := fixedPercent[r]; ok {
		return true
	}
	_, ok := lundBrowder[r]
	return ok
}

// ValidDepth reports whether d is a recognised depth classification.
func ValidDepth(d Depth) bool {
	switch d {
	case DepthSuperficial, DepthSuperficialPartial, DepthDeepPartial, DepthFull:
		return true
	}
	return false
}

// ageBandIndex selects the nearest band at or below the given age.
func ageBandIndex(ageYears int) int {
	idx := 0
	for i, lower := range ageBands {
		if ageYears >= lower {
			idx = i
		}
	}
	return idx
}

// RegionPercent returns the Lund-Browder TBSA percentage contributed by a
// fully burned region at the given age.
func RegionPercent(r Region, ageYears int) (float64, error) {
	if ageYears < 0 {
		return 0, fmt.Errorf("age must not be negative, got %d", ageYears)
	}
	if pct, ok := fixedPercent[r]; ok {
		return pct, nil
	}
	if banded, ok := lundBrowder[r]; ok {
		return banded[ageBandIndex(ageYears)], nil
	}
	return 0, fmt.Errorf("unknown body region: %q", r)
}

// TBSA computes total body surface area burned as a percentage using the
// Lund-Browder method. Superficial (first-degree) entries are excluded by
// convention. Fractions outside [0,1] are clamped. The result is clamped to
// [0,100] so that duplicate region entries cannot produce an impossible total.
func TBSA(burns []RegionBurn, ageYears int) (float64, error) {
	if ageYears < 0 {
		return 0, fmt.Errorf("age must not be negative, got %d", ageYears)
	}
	total := 0.0
	for _, b := range burns {
		if !ValidDepth(b.Depth) {
			return 0, fmt.Errorf("unknown burn depth: %q", b.Depth)
		}
		if b.Depth == DepthSuperficial {
			continue
		}
		pct, err := RegionPercent(b.Region, ageYears)
		if err != nil {
			return 0, err
		}
		frac := b.Fraction
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
		total += pct * frac
	}
	if total > 100 {
		total = 100
	}
	return total, nil
}

// HasFullThickness reports whether any entry records a full-thickness burn.
func HasFullThickness(burns []RegionBurn) bool {
	for _, b := range burns {
		if b.Depth == DepthFull && b.Fraction > 0 {
			return true
		}
	}
	return false
}

// Package scoring implements the investment heuristics computed when a
// property is ingested: an estimated monthly rent and a 0-100 profitability
// score. Both are pure functions of the listing attributes; results are
// stored on the property row and never recomputed on read.
package scoring

import (
	"math"
	"strings"
	"time"
)

// NationalAvgPricePerSqft is the baseline used by the price-per-square-foot
// score component.
const NationalAvgPricePerSqft = 200.0

// typeScores maps normalized property types to their score contribution.
// Unrecognized types fall back to defaultTypeScore.
var typeScores = map[string]float64{
	"single_family": 15,
	"townhouse":     12,
	"multi_family":  13,
	"condo":         10,
	"land":          5,
}

const defaultTypeScore = 8.0

// EstimateMonthlyRent estimates monthly rent from price, size, and bedroom
// count using the 1% rule as a baseline with size and bedroom adjustments.
// The result is rounded to two decimal places.
func EstimateMonthlyRent(price float64, sizeSqft int, bedrooms int) float64 {
	base := price * 0.01

	// Size adjustment: premium above 2000 sqft, discount below 1000
	if sizeSqft > 2000 {
		base *= 1.10
	} else if sizeSqft < 1000 {
		base *= 0.95
	}

	// Bedroom adjustment
	if bedrooms >= 4 {
		base *= 1.05
	} else if bedrooms <= 1 {
		base *= 0.95
	}

	return math.Round(base*100) / 100
}

// CalculateProfitabilityScore rates a property's investment attractiveness
// on a 0-100 scale from four additive components:
//
//  1. price-to-rent ratio (max 40) - lower ratios indicate stronger yield
//  2. price per square foot vs. the national average (max 30)
//  3. property age (max 15)
//  4. property type (max 15)
//
// estimatedRent and yearBuilt are optional; absent values receive the
// component's neutral score. The final sum is clamped to [0,100].
func CalculateProfitabilityScore(price float64, sizeSqft int, estimatedRent *float64, yearBuilt *int, propertyType string) float64 {
	score := ratioScore(price, estimatedRent) +
		pricePerSqftScore(price, sizeSqft) +
		ageScore(yearBuilt) +
		typeScore(propertyType)

	return math.Max(0, math.Min(100, score))
}

// ratioScore awards up to 40 points based on the price-to-rent ratio.
// A ratio of 100x monthly rent or less is the strongest signal; value decays
// linearly to 0 at 200x. Missing or zero rent gets the neutral 20.
func ratioScore(price float64, estimatedRent *float64) float64 {
	if estimatedRent == nil || *estimatedRent <= 0 {
		return 20
	}

	ratio := price / *estimatedRent
	switch {
	case ratio <= 100:
		return 40
	case ratio <= 150:
		return 40 - (ratio-100)/50*20
	case ratio <= 200:
		return 20 - (ratio-150)/50*20
	default:
		return 0
	}
}

// pricePerSqftScore awards up to 30 points by comparing price per square foot
// against the national average: full marks at 70% of average or below,
// decaying to 0 at 130% of average.
func pricePerSqftScore(price float64, sizeSqft int) float64 {
	ppsf := price / float64(sizeSqft)

	switch {
	case ppsf <= NationalAvgPricePerSqft*0.7:
		return 30
	case ppsf <= NationalAvgPricePerSqft:
		return 30 - (ppsf-NationalAvgPricePerSqft*0.7)/(NationalAvgPricePerSqft*0.3)*10
	case ppsf <= NationalAvgPricePerSqft*1.3:
		return 20 - (ppsf-NationalAvgPricePerSqft)/(NationalAvgPricePerSqft*0.3)*20
	default:
		return 0
	}
}

// ageScore awards up to 15 points by property age, measured against the
// current calendar year. Unknown construction year gets the neutral 10.
func ageScore(yearBuilt *int) float64 {
	if yearBuilt == nil {
		return 10
	}

	age := float64(time.Now().Year() - *yearBuilt)
	switch {
	case age <= 10:
		return 15
	case age <= 30:
		return 15 - (age-10)/20*5
	case age <= 50:
		return 10 - (age-30)/20*5
	default:
		return 5
	}
}

// typeScore awards up to 15 points from the property type table. Lookup is
// case-insensitive with spaces normalized to underscores.
func typeScore(propertyType string) float64 {
	normalized := strings.ReplaceAll(strings.ToLower(propertyType), " ", "_")
	if s, ok := typeScores[normalized]; ok {
		return s
	}
	return defaultTypeScore
}

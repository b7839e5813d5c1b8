// Package scoring computes the heuristic lead-quality score for a completed
// intake record. The score is deterministic: identical records always yield
// identical scores, and it is computed exactly once, when the record becomes
// complete.
package scoring

import (
	"strconv"

	"hashlife_backend/internal/chat/domain"
)

const (
	// Prime insurable age range earns the full demographic weight.
	primeAgeMin = 25
	primeAgeMax = 55

	agePrimePoints   = 30
	agePresentPoints = 10

	smokerNoPoints     = 25
	smokerFormerPoints = 15

	coverageChosenPoints  = 25
	coverageUnsurePoints  = 10
	contactCompletePoints = 20

	maxScore = 100
)

// Quality bands derived from the numeric score, used in analytics labels and
// the operator notification.
const (
	QualityHigh   = "High"
	QualityMedium = "Medium"
	QualityLow    = "Low"
)

// Score returns the lead-quality score in [0,100] for the given record.
func Score(rec domain.LeadRecord) int {
	score := 0

	if age, err := strconv.Atoi(rec.Age); err == nil {
		if age >= primeAgeMin && age <= primeAgeMax {
			score += agePrimePoints
		} else {
			score += agePresentPoints
		}
	}

	switch rec.Smoker {
	case domain.SmokerNo:
		score += smokerNoPoints
	case domain.SmokerFormer:
		score += smokerFormerPoints
	}

	if rec.CoverageAmount != "" && rec.CoverageAmount != domain.CoverageNotSure {
		score += coverageChosenPoints
	} else {
		score += coverageUnsurePoints
	}

	if rec.Email != "" && rec.Phone != "" {
		score += contactCompletePoints
	}

	if score > maxScore {
		score = maxScore
	}
	return score
}

// QualityBand maps a score to a coarse High/Medium/Low label.
func QualityBand(score int) string {
	switch {
	case score >= 75:
		return QualityHigh
	case score >= 50:
		return QualityMedium
	default:
		return QualityLow
	}
}

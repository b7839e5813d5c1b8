// Package submission hands completed lead records to persistence. It consumes
// the lead-captured event and never reports failures back to the conversation.
package submission

import (
	"strconv"
	"strings"
	"time"

	"hashlife_backend/internal/chat/domain"
	"hashlife_backend/platform/phone"
)

const sourceChatbot = "chatbot"

// QuoteRequest is the persistence shape of a captured lead. Birth date is
// derived from the stated age, so only the year carries information; month and
// day stay null. Coverage is null when the visitor picked "Not sure".
type QuoteRequest struct {
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	InsuranceType string    `json:"insurance_type"`
	Gender        string    `json:"gender"`
	Smoker        bool      `json:"smoker"`
	BirthYear     int       `json:"birth_year"`
	BirthMonth    *int      `json:"birth_month"`
	BirthDay      *int      `json:"birth_day"`
	CoverageLevel *int64    `json:"coverage_level"`
	Score         int       `json:"score"`
	Quality       string    `json:"quality"`
	Source        string    `json:"source"`
	CreatedAt     time.Time `json:"created_at"`
}

// BuildQuoteRequest maps a completed dialogue record onto the storage shape.
// The record's age was validated during the dialogue; a parse failure here
// would be a programmer error, so a zero birth year is simply stored as such.
func BuildQuoteRequest(rec domain.LeadRecord, score int, quality string, now time.Time) QuoteRequest {
	req := QuoteRequest{
		FirstName:     rec.FirstName,
		LastName:      rec.LastName,
		Email:         rec.Email,
		Phone:         phone.Digits(rec.Phone),
		InsuranceType: rec.InsuranceType,
		Gender:        strings.ToLower(rec.Gender),
		Smoker:        rec.Smoker == domain.SmokerYes,
		Score:         score,
		Quality:       quality,
		Source:        sourceChatbot,
		CreatedAt:     now.UTC(),
	}

	if age, err := strconv.Atoi(rec.Age); err == nil && age > 0 {
		req.BirthYear = now.Year() - age
	}

	if amount, ok := coverageLevel(rec.CoverageAmount); ok {
		req.CoverageLevel = &amount
	}

	return req
}

// coverageLevel extracts the numeric part of a coverage quick-reply label
// like "$500K". "Not sure" and anything else without digits yields no amount.
func coverageLevel(label string) (int64, bool) {
	var digits strings.Builder
	for _, r := range label {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	if digits.Len() == 0 {
		return 0, false
	}
	amount, err := strconv.ParseInt(digits.String(), 10, 64)
	if err != nil {
		return 0, false
	}
	return amount, true
}

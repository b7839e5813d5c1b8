// Package validate provides pure, side-effect-free normalization and
// validation for each interview answer. Malformed visitor input is a normal
// outcome: every function reports pass/fail instead of returning an error,
// and the controller answers failures with a corrective re-prompt.
package validate

import (
	"strconv"
	"strings"

	"hashlife_backend/platform/phone"
	"hashlife_backend/platform/sanitize"
	"hashlife_backend/platform/validator"
)

const (
	// maxAnswerLength bounds what a single free-text answer can carry into
	// the record and storage.
	maxAnswerLength = 200

	minAge = 18
	maxAge = 100

	minPhoneDigits = 10
)

var val = validator.New()

// Result carries the normalized value of a passing answer. Display is set
// when a canonical presentation form differs from the stored value (phone
// numbers); the stored value always preserves what the visitor meant.
type Result struct {
	Value   string
	Display string
}

// FreeText validates a required free-text answer (names): trimmed, markup
// stripped, length capped.
func FreeText(input string) (Result, bool) {
	cleaned := sanitize.Truncate(sanitize.Text(input), maxAnswerLength)
	if cleaned == "" {
		return Result{}, false
	}
	return Result{Value: cleaned}, true
}

// Age validates an integer age within the insurable range.
func Age(input string) (Result, bool) {
	cleaned := strings.TrimSpace(input)
	age, err := strconv.Atoi(cleaned)
	if err != nil || age < minAge || age > maxAge {
		return Result{}, false
	}
	return Result{Value: strconv.Itoa(age)}, true
}

// Email validates an email address shape.
func Email(input string) (Result, bool) {
	cleaned := sanitize.Truncate(sanitize.Text(input), maxAnswerLength)
	if err := val.Var(cleaned, "required,email"); err != nil {
		return Result{}, false
	}
	return Result{Value: cleaned}, true
}

// Phone requires at least ten digits and produces a canonical display form
// while keeping the visitor's original answer as the stored value.
func Phone(input string) (Result, bool) {
	cleaned := sanitize.Truncate(sanitize.Text(input), maxAnswerLength)
	digits := phone.Digits(cleaned)
	if len(digits) < minPhoneDigits {
		return Result{}, false
	}
	return Result{Value: cleaned, Display: phone.Display(cleaned)}, true
}

// Option accepts only one of the offered quick-reply options. Typed answers
// match case-insensitively; the stored value is the canonical option text.
func Option(input string, options []string) (Result, bool) {
	cleaned := strings.TrimSpace(sanitize.Text(input))
	for _, opt := range options {
		if strings.EqualFold(cleaned, opt) {
			return Result{Value: opt}, true
		}
	}
	return Result{}, false
}

// Package domain provides the core conversation model for the intake agent:
// the dialogue step machine, the lead record, and the message history.
package domain

// Step is the current position of a conversation. Every sub-question is its
// own step, so an in-between or ambiguous position is unrepresentable; the
// controller never infers position from which record fields happen to be set.
type Step int

const (
	StepWelcome Step = iota
	StepName
	StepInsuranceType
	StepGender
	StepAge
	StepSmoker
	StepCoverage
	StepLastName
	StepEmail
	StepPhone
	StepConfirmation
)

// stepOrder is the single linear path through the interview.
var stepOrder = []Step{
	StepWelcome,
	StepName,
	StepInsuranceType,
	StepGender,
	StepAge,
	StepSmoker,
	StepCoverage,
	StepLastName,
	StepEmail,
	StepPhone,
	StepConfirmation,
}

var stepNames = map[Step]string{
	StepWelcome:       "welcome",
	StepName:          "name",
	StepInsuranceType: "insurance_type",
	StepGender:        "gender",
	StepAge:           "age",
	StepSmoker:        "smoker",
	StepCoverage:      "coverage_amount",
	StepLastName:      "last_name",
	StepEmail:         "email",
	StepPhone:         "phone",
	StepConfirmation:  "confirmation",
}

// String returns the stable identifier used in analytics and logs.
func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// Next returns the successor step. ok is false for the terminal step and for
// values outside the table, which callers must treat as a programmer error.
func (s Step) Next() (Step, bool) {
	for i, step := range stepOrder {
		if step == s {
			if i+1 < len(stepOrder) {
				return stepOrder[i+1], true
			}
			return s, false
		}
	}
	return s, false
}

// Terminal reports whether data collection has ended.
func (s Step) Terminal() bool {
	return s == StepConfirmation
}

// Order returns all steps in interview order. Used by funnel analytics.
func Order() []Step {
	out := make([]Step, len(stepOrder))
	copy(out, stepOrder)
	return out
}

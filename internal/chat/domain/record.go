package domain

// Answer option sets offered as quick replies. Free-text input on these steps
// must match one of the offered options verbatim.
const (
	SmokerNo     = "No"
	SmokerYes    = "Yes"
	SmokerFormer = "Former smoker (quit 1+ years ago)"

	GenderMale   = "Male"
	GenderFemale = "Female"
	GenderUndecl = "Prefer not to say"

	CoverageNotSure = "Not sure"

	InsuranceLife     = "Life Insurance"
	InsuranceTravel   = "Travel Insurance"
	InsuranceCritical = "Critical Illness"
	InsuranceNotSure  = "Not Sure"
)

// LeadRecord is the structured intake data accumulated across the dialogue.
// All fields are optional until written; a field, once set, is never
// overwritten except by a full Reset. Age is kept as the visitor's validated
// string answer; downstream consumers parse it where a number is needed.
type LeadRecord struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	InsuranceType  string `json:"insuranceType"`
	Gender         string `json:"gender"`
	Age            string `json:"age"`
	Smoker         string `json:"smoker"`
	CoverageAmount string `json:"coverageAmount"`

	// submitted guards the one-shot handoff to persistence. It lives on the
	// record, not the controller call site, so a stray duplicate entry into
	// the terminal step is harmless.
	submitted bool
}

// Apply writes the validated value for the field collected at the given step.
// Returns false when the step collects no field or the field is already set.
func (r *LeadRecord) Apply(step Step, value string) bool {
	var dst *string
	switch step {
	case StepName:
		dst = &r.FirstName
	case StepInsuranceType:
		dst = &r.InsuranceType
	case StepGender:
		dst = &r.Gender
	case StepAge:
		dst = &r.Age
	case StepSmoker:
		dst = &r.Smoker
	case StepCoverage:
		dst = &r.CoverageAmount
	case StepLastName:
		dst = &r.LastName
	case StepEmail:
		dst = &r.Email
	case StepPhone:
		dst = &r.Phone
	default:
		return false
	}

	if *dst != "" {
		return false
	}
	*dst = value
	return true
}

// Complete reports whether every field the interview collects is set.
func (r *LeadRecord) Complete() bool {
	return r.FirstName != "" &&
		r.LastName != "" &&
		r.Email != "" &&
		r.Phone != "" &&
		r.InsuranceType != "" &&
		r.Gender != "" &&
		r.Age != "" &&
		r.Smoker != "" &&
		r.CoverageAmount != ""
}

// MarkSubmitted flips the one-shot submission guard. Returns false when the
// record was already handed off, so the caller must not dispatch again.
func (r *LeadRecord) MarkSubmitted() bool {
	if r.submitted {
		return false
	}
	r.submitted = true
	return true
}

// Submitted reports whether the record was handed off to persistence.
func (r *LeadRecord) Submitted() bool {
	return r.submitted
}

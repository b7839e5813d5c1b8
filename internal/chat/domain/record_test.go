package domain

import "testing"

func TestApplyRefusesOverwrite(t *testing.T) {
	rec := &LeadRecord{}

	if !rec.Apply(StepName, "Alice") {
		t.Fatalf("expected first write to succeed")
	}
	if rec.Apply(StepName, "Bob") {
		t.Fatalf("expected second write to the same field to be refused")
	}
	if rec.FirstName != "Alice" {
		t.Fatalf("expected first value to survive, got %q", rec.FirstName)
	}
}

func TestApplyIgnoresNonCollectingSteps(t *testing.T) {
	rec := &LeadRecord{}

	if rec.Apply(StepWelcome, "anything") {
		t.Fatalf("expected welcome step to collect no field")
	}
	if rec.Apply(StepConfirmation, "anything") {
		t.Fatalf("expected confirmation step to collect no field")
	}
}

func TestComplete(t *testing.T) {
	rec := &LeadRecord{}
	if rec.Complete() {
		t.Fatalf("expected empty record to be incomplete")
	}

	rec.FirstName = "Alice"
	rec.LastName = "Nguyen"
	rec.Email = "alice@example.com"
	rec.Phone = "416-555-0101"
	rec.InsuranceType = InsuranceLife
	rec.Gender = GenderFemale
	rec.Age = "34"
	rec.Smoker = SmokerNo

	if rec.Complete() {
		t.Fatalf("expected record without coverage to be incomplete")
	}

	rec.CoverageAmount = "$500K"
	if !rec.Complete() {
		t.Fatalf("expected fully populated record to be complete")
	}
}

func TestMarkSubmittedIsOneShot(t *testing.T) {
	rec := &LeadRecord{}

	if rec.Submitted() {
		t.Fatalf("expected fresh record to be unsubmitted")
	}
	if !rec.MarkSubmitted() {
		t.Fatalf("expected first submission mark to succeed")
	}
	if rec.MarkSubmitted() {
		t.Fatalf("expected second submission mark to fail")
	}
	if !rec.Submitted() {
		t.Fatalf("expected record to report submitted")
	}
}

package scoring

import (
	"testing"

	"hashlife_backend/internal/chat/domain"
)

func baseRecord() domain.LeadRecord {
	return domain.LeadRecord{
		FirstName:      "Alice",
		LastName:       "Nguyen",
		Email:          "alice@example.com",
		Phone:          "4165550101",
		InsuranceType:  domain.InsuranceLife,
		Gender:         domain.GenderFemale,
		Age:            "34",
		Smoker:         domain.SmokerNo,
		CoverageAmount: "$500K",
	}
}

func TestScoreBestCase(t *testing.T) {
	// Prime age, non-smoker, explicit coverage, full contact details.
	if got := Score(baseRecord()); got != 100 {
		t.Fatalf("expected best-case record to score 100, got %d", got)
	}
}

func TestScoreComponents(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.LeadRecord)
		want   int
	}{
		{"age outside prime range", func(r *domain.LeadRecord) { r.Age = "72" }, 80},
		{"age at prime lower bound", func(r *domain.LeadRecord) { r.Age = "25" }, 100},
		{"age at prime upper bound", func(r *domain.LeadRecord) { r.Age = "55" }, 100},
		{"age just above prime", func(r *domain.LeadRecord) { r.Age = "56" }, 80},
		{"former smoker", func(r *domain.LeadRecord) { r.Smoker = domain.SmokerFormer }, 90},
		{"current smoker", func(r *domain.LeadRecord) { r.Smoker = domain.SmokerYes }, 75},
		{"coverage undecided", func(r *domain.LeadRecord) { r.CoverageAmount = domain.CoverageNotSure }, 85},
		{"missing phone", func(r *domain.LeadRecord) { r.Phone = "" }, 80},
		{"missing email", func(r *domain.LeadRecord) { r.Email = "" }, 80},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := baseRecord()
			tt.mutate(&rec)
			if got := Score(rec); got != tt.want {
				t.Fatalf("expected score %d, got %d", tt.want, got)
			}
		})
	}
}

func TestScoreBounds(t *testing.T) {
	if got := Score(domain.LeadRecord{}); got < 0 || got > 100 {
		t.Fatalf("expected empty record score within [0,100], got %d", got)
	}
	// Empty record still earns the undecided-coverage floor.
	if got := Score(domain.LeadRecord{}); got != 10 {
		t.Fatalf("expected empty record to score 10, got %d", got)
	}
}

func TestScoreIsDeterministic(t *testing.T) {
	rec := baseRecord()
	first := Score(rec)
	for i := 0; i < 10; i++ {
		if got := Score(rec); got != first {
			t.Fatalf("expected repeated scoring to be stable, got %d then %d", first, got)
		}
	}
}

func TestQualityBand(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, QualityHigh},
		{75, QualityHigh},
		{74, QualityMedium},
		{50, QualityMedium},
		{49, QualityLow},
		{0, QualityLow},
	}

	for _, tt := range tests {
		if got := QualityBand(tt.score); got != tt.want {
			t.Errorf("QualityBand(%d): expected %q, got %q", tt.score, tt.want, got)
		}
	}
}

package validation

import (
	"strings"
	"testing"

	"UniRecommender/internal/domain"
)

func TestValidateStructAcceptsKnownBudgets(t *testing.T) {
	t.Parallel()

	for _, budget := range []string{"", "self-funded", "full-funding", "partial-funding", "no-preference"} {
		profile := domain.StudentProfile{BudgetPreference: budget}
		if err := ValidateStruct(&profile); err != nil {
			t.Fatalf("budget %q rejected: %v", budget, err)
		}
	}
}

func TestValidateStructReportsJSONFieldNames(t *testing.T) {
	t.Parallel()

	profile := domain.StudentProfile{BudgetPreference: "lottery"}
	err := ValidateStruct(&profile)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if len(err.Fields) != 1 {
		t.Fatalf("expected one field error, got %d", len(err.Fields))
	}
	if err.Fields[0].Field != "budget_preference" {
		t.Fatalf("unexpected field name %q", err.Fields[0].Field)
	}
	if !strings.Contains(err.Error(), "must be one of") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestValidateStructLengthLimits(t *testing.T) {
	t.Parallel()

	profile := domain.StudentProfile{CareerGoal: strings.Repeat("x", 2001)}
	err := ValidateStruct(&profile)
	if err == nil || err.Fields[0].Tag != "max" {
		t.Fatalf("expected max violation, got %v", err)
	}
}

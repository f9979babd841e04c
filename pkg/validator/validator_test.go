package validator

import (
	"testing"
)

type createPayload struct {
	UserID string `json:"user_id" validate:"required"`
	Type   string `json:"type" validate:"required"`
	Title  string `json:"title" validate:"required"`
	Limit  int    `json:"limit" validate:"gte=0"`
}

func TestValidateStructSuccess(t *testing.T) {
	payload := createPayload{
		UserID: "user-1",
		Type:   "lab_result",
		Title:  "New Lab Result Available",
	}

	if err := ValidateStruct(payload); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateStructReportsJSONFieldNames(t *testing.T) {
	payload := createPayload{Type: "lab_result", Limit: -1}

	err := ValidateStruct(payload)
	if err == nil {
		t.Fatal("expected validation failure")
	}

	failures, ok := err.(ValidationErrors)
	if !ok {
		t.Fatalf("expected ValidationErrors, got %T", err)
	}
	if len(failures) != 3 {
		t.Fatalf("expected 3 failures, got %d: %v", len(failures), failures)
	}

	fields := map[string]bool{}
	for _, failure := range failures {
		fields[failure.Field] = true
	}
	for _, want := range []string{"user_id", "title", "limit"} {
		if !fields[want] {
			t.Fatalf("expected failure for %q, got %v", want, failures)
		}
	}
}

package api

import (
	"strings"
	"testing"
)

func TestValidationResult_AddError(t *testing.T) {
	result := &ValidationResult{Valid: true}

	result.AddError("field1", "error message")

	if result.Valid {
		t.Error("Expected Valid to be false after adding error")
	}

	if len(result.Errors) != 1 {
		t.Errorf("Expected 1 error, got %d", len(result.Errors))
	}

	if result.Errors[0].Field != "field1" {
		t.Errorf("Expected field 'field1', got '%s'", result.Errors[0].Field)
	}

	if result.Errors[0].Message != "error message" {
		t.Errorf("Expected message 'error message', got '%s'", result.Errors[0].Message)
	}
}

func TestValidationResult_HasErrors(t *testing.T) {
	result := &ValidationResult{Valid: true}

	if result.HasErrors() {
		t.Error("Expected HasErrors to be false for empty result")
	}

	result.AddError("field", "message")

	if !result.HasErrors() {
		t.Error("Expected HasErrors to be true after adding error")
	}
}

func TestValidateQueryParam(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		wantValid bool
	}{
		{
			name:      "valid value",
			value:     "Dune",
			wantValid: true,
		},
		{
			name:      "empty value",
			value:     "",
			wantValid: false,
		},
		{
			name:      "whitespace only",
			value:     "   ",
			wantValid: false,
		},
		{
			name:      "at maximum length",
			value:     strings.Repeat("a", 200),
			wantValid: true,
		},
		{
			name:      "over maximum length",
			value:     strings.Repeat("a", 201),
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateQueryParam("q", tt.value)
			if result.HasErrors() == tt.wantValid {
				t.Errorf("ValidateQueryParam(%q) valid = %v, want %v", tt.value, !result.HasErrors(), tt.wantValid)
			}
		})
	}
}

func TestValidateCountParam(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantCount int
		wantValid bool
	}{
		{
			name:      "absent uses default",
			raw:       "",
			wantCount: 12,
			wantValid: true,
		},
		{
			name:      "explicit value",
			raw:       "5",
			wantCount: 5,
			wantValid: true,
		},
		{
			name:      "clamped to maximum",
			raw:       "500",
			wantCount: 100,
			wantValid: true,
		},
		{
			name:      "non-numeric",
			raw:       "abc",
			wantValid: false,
		},
		{
			name:      "zero",
			raw:       "0",
			wantValid: false,
		},
		{
			name:      "negative",
			raw:       "-3",
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, result := ValidateCountParam("n", tt.raw, 12)
			if result.HasErrors() == tt.wantValid {
				t.Fatalf("ValidateCountParam(%q) valid = %v, want %v", tt.raw, !result.HasErrors(), tt.wantValid)
			}
			if tt.wantValid && count != tt.wantCount {
				t.Errorf("ValidateCountParam(%q) = %d, want %d", tt.raw, count, tt.wantCount)
			}
		})
	}
}

package validation

import (
	"strings"
	"testing"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"alice@example.com", true},
		{"bob.smith+tag@mail.example.org", true},
		{"bob1234567@guerrillamail.com", true},

		// Invalid cases
		{"alice", false},
		{"alice@", false},
		{"@example.com", false},
		{"alice@example", false}, // No dot in domain
		{"alice bob@example.com", false},
		{"", false},
		{"a@b." + strings.Repeat("x", 260), false}, // Over length bound
	}

	for _, tc := range tests {
		result := IsValidEmail(tc.email)
		if result != tc.valid {
			t.Errorf("IsValidEmail(%q) = %v, want %v", tc.email, result, tc.valid)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"hello", 10, "hello"},
		{"  hello  ", 10, "hello"},
		{"hello world", 5, "hello"},
		{"hello\x00world", 20, "helloworld"},
	}

	for _, tc := range tests {
		result := SanitizeString(tc.input, tc.maxLen)
		if result != tc.expected {
			t.Errorf("SanitizeString(%q, %d) = %q, want %q", tc.input, tc.maxLen, result, tc.expected)
		}
	}
}

func TestValidate(t *testing.T) {
	// Test valid input
	errors := Validate(
		Required("name", "John"),
		ValidEmail("email", "john@example.com"),
		PositiveID("customer_id", 1001),
	)
	if len(errors) != 0 {
		t.Errorf("Expected no errors, got %v", errors)
	}

	// Test invalid input
	errors = Validate(
		Required("name", ""),
		ValidEmail("email", "not-an-email"),
		PositiveID("customer_id", 0),
	)
	if len(errors) != 3 {
		t.Errorf("Expected 3 errors, got %d", len(errors))
	}
}

func TestValidEmail_EmptyIsSkipped(t *testing.T) {
	// Empty values pass; Required handles presence separately
	if err := ValidEmail("email", "")(); err != nil {
		t.Errorf("Expected no error for empty email, got %v", err)
	}
}

func TestPositiveID(t *testing.T) {
	if err := PositiveID("customer_id", 1001)(); err != nil {
		t.Errorf("Expected no error for positive ID, got %v", err)
	}
	if err := PositiveID("customer_id", -5)(); err == nil {
		t.Error("Expected error for negative ID")
	}
}

func TestMaxLength(t *testing.T) {
	// Under limit
	err := MaxLength("field", "hello", 10)()
	if err != nil {
		t.Error("Expected no error for string under limit")
	}

	// At limit
	err = MaxLength("field", "hello", 5)()
	if err != nil {
		t.Error("Expected no error for string at limit")
	}

	// Over limit
	err = MaxLength("field", "hello world", 5)()
	if err == nil {
		t.Error("Expected error for string over limit")
	}
}

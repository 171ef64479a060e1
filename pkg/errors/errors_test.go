package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeValidation, "operation %d: %s", 2, "missing componentId")

	if err.Code != ErrCodeValidation {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeValidation)
	}

	if err.Message != "operation 2: missing componentId" {
		t.Errorf("Message = %v, want %v", err.Message, "operation 2: missing componentId")
	}

	expected := "VALIDATION_FAILED: operation 2: missing componentId"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := Wrap(ErrCodeSessionStore, cause, "update session")

	if err.Code != ErrCodeSessionStore {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeSessionStore)
	}

	if err.Cause != cause {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}

	// Test Unwrap
	unwrapped := errors.Unwrap(err)
	if unwrapped != cause {
		t.Errorf("Unwrap() = %v, want %v", unwrapped, cause)
	}

	// Test errors.Is with wrapped error
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeValidation, "test"),
			code:     ErrCodeValidation,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeValidation, "test"),
			code:     ErrCodeExecution,
			expected: false,
		},
		{
			name:     "wrapped error",
			err:      Wrap(ErrCodeProposer, New(ErrCodeProposerParse, "inner"), "outer"),
			code:     ErrCodeProposer,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeValidation,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeValidation,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeSessionNotFound, "test"),
			expected: ErrCodeSessionNotFound,
		},
		{
			name:     "plain error",
			err:      errors.New("plain"),
			expected: "",
		},
		{
			name:     "nil",
			err:      nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "Error type",
			err:      New(ErrCodeValidation, "friendly message"),
			expected: "friendly message",
		},
		{
			name:     "wrapped Error keeps outer message",
			err:      Wrap(ErrCodeExecution, errors.New("cause"), "batch failed"),
			expected: "batch failed",
		},
		{
			name:     "plain error",
			err:      errors.New("plain message"),
			expected: "plain message",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.expected {
				t.Errorf("UserMessage() = %v, want %v", got, tt.expected)
			}
		})
	}
}

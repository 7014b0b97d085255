package errors

import (
	"errors"
	"net/http"
	"testing"
)

func TestWrap(t *testing.T) {
	originalErr := errors.New("connection reset")
	wrapped := Wrap(originalErr, CodeInternal, "store failure", http.StatusInternalServerError)

	if wrapped.Err != originalErr {
		t.Errorf("expected wrapped error to contain original error")
	}
	if wrapped.Code != CodeInternal {
		t.Errorf("expected code %s, got %s", CodeInternal, wrapped.Code)
	}
	if errors.Unwrap(wrapped) != originalErr {
		t.Errorf("Unwrap() should return original error")
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "resource not found",
			},
			expected: "NOT_FOUND: resource not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("connection reset"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: connection reset)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appErr.Error()
			if got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestSlotConflict(t *testing.T) {
	err := SlotConflict("requested time overlaps an existing booking")

	if err.Code != CodeConflict {
		t.Errorf("expected code %s, got %s", CodeConflict, err.Code)
	}
	// Slot conflicts are a client-side problem with the requested time,
	// not a resource-version conflict.
	if err.StatusCode() != http.StatusBadRequest {
		t.Errorf("StatusCode() = %d, want %d", err.StatusCode(), http.StatusBadRequest)
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Pet", "66b1f0a2c9e77a0012345678")

	if err.StatusCode() != http.StatusNotFound {
		t.Errorf("StatusCode() = %d, want %d", err.StatusCode(), http.StatusNotFound)
	}
	if err.Details["id"] != "66b1f0a2c9e77a0012345678" {
		t.Errorf("expected id detail, got %v", err.Details["id"])
	}
}

func TestAsAppError(t *testing.T) {
	appErr := InvalidInput("bad time")
	if got := AsAppError(appErr); got != appErr {
		t.Errorf("AsAppError should return the same *AppError")
	}

	plain := errors.New("boom")
	got := AsAppError(plain)
	if got.Code != CodeInternal {
		t.Errorf("expected plain errors to map to %s, got %s", CodeInternal, got.Code)
	}
	if errors.Unwrap(got) != plain {
		t.Errorf("expected original error to be preserved")
	}
}

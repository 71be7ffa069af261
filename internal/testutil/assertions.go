package testutil

import (
	"errors"
	"slices"
	"testing"

	apperrors "spendtrack/internal/errors"
)

// AssertAppError checks that err is an *AppError with the expected error code.
func AssertAppError(t *testing.T, err error, expectedCode string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected AppError with code %q, got nil", expectedCode)
	}

	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		t.Fatalf("expected *AppError, got %T: %v", err, err)
	}

	if appErr.Code != expectedCode {
		t.Errorf("expected error code %q, got %q (message: %s)", expectedCode, appErr.Code, appErr.Message)
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// AssertContainsID fails the test unless ids contains id.
func AssertContainsID(t *testing.T, ids []string, id string) {
	t.Helper()

	if !slices.Contains(ids, id) {
		t.Errorf("expected %v to contain %s", ids, id)
	}
}

// AssertNotContainsID fails the test if ids contains id.
func AssertNotContainsID(t *testing.T, ids []string, id string) {
	t.Helper()

	if slices.Contains(ids, id) {
		t.Errorf("expected %v not to contain %s", ids, id)
	}
}

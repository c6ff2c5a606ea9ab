package apperror

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("file", "abc123"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("username", "username is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Conflict wraps ErrConflict",
			err:       Conflict("email", "Email already registered"),
			target:    ErrConflict,
			wantMatch: true,
		},
		{
			name:      "Forbidden wraps ErrForbidden",
			err:       Forbidden("Permission denied"),
			target:    ErrForbidden,
			wantMatch: true,
		},
		{
			name:      "Unauthenticated wraps ErrUnauthenticated",
			err:       Unauthenticated("Invalid username or password"),
			target:    ErrUnauthenticated,
			wantMatch: true,
		},
		{
			name:      "MissingObject wraps ErrMissingObject",
			err:       MissingObject("a1b2.png"),
			target:    ErrMissingObject,
			wantMatch: true,
		},
		{
			name:      "Storage wraps ErrStorage",
			err:       Storage("Error while saving file", errors.New("disk full")),
			target:    ErrStorage,
			wantMatch: true,
		},
		{
			name:      "Storage keeps its cause in the chain",
			err:       Storage("Error while saving file", ErrNotFound),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrForbidden",
			err:       NotFound("file", "abc123"),
			target:    ErrForbidden,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.Is(tt.err, tt.target); got != tt.wantMatch {
				t.Errorf("errors.Is() = %v, want %v", got, tt.wantMatch)
			}
		})
	}
}

func TestErrorsIs_SurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("deleting file: %w", Forbidden("Permission denied"))

	if !errors.Is(err, ErrForbidden) {
		t.Error("errors.Is() should find ErrForbidden through fmt.Errorf wrapping")
	}
}

func TestErrorsAs_ExtractsAppError(t *testing.T) {
	err := fmt.Errorf("registering: %w", Conflict("username", "Username already exists"))

	var appErr *AppError
	if !errors.As(err, &appErr) {
		t.Fatal("errors.As() should extract *AppError from the chain")
	}
	if appErr.Message != "Username already exists" {
		t.Errorf("Message = %q, want %q", appErr.Message, "Username already exists")
	}
	if appErr.Field != "username" {
		t.Errorf("Field = %q, want %q", appErr.Field, "username")
	}
}

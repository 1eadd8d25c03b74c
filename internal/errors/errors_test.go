package errors

import (
	stderrors "errors"
	"net/http"
	"testing"
)

func TestIsMatchesByCode(t *testing.T) {
	err := Conflict("email already in use")
	if !Is(err, ErrConflict) {
		t.Error("expected Conflict error to match ErrConflict")
	}
	if Is(err, ErrNotFound) {
		t.Error("Conflict error should not match ErrNotFound")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stderrors.New("disk full")
	err := StorageWrap(cause, "update book")

	if !Is(err, ErrStorage) {
		t.Error("wrapped error should match ErrStorage")
	}
	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
	if err.Error() != "update book: disk full" {
		t.Errorf("Error(): got %q", err.Error())
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		code Code
		want int
	}{
		{CodeNotFound, http.StatusNotFound},
		{CodeValidation, http.StatusBadRequest},
		{CodeConflict, http.StatusConflict},
		{CodeStorage, http.StatusServiceUnavailable},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeInternal, http.StatusInternalServerError},
		{Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := tc.code.HTTPStatus(); got != tc.want {
			t.Errorf("%s: got %d, want %d", tc.code, got, tc.want)
		}
	}
}

func TestFieldErrors(t *testing.T) {
	fields := map[string]string{"email": "must be a valid email address"}
	err := ValidationWithFields("validation failed", fields)

	got := err.FieldErrors()
	if got["email"] != fields["email"] {
		t.Errorf("FieldErrors: got %v", got)
	}

	plain := Validation("rating out of range")
	if plain.FieldErrors() != nil {
		t.Error("expected nil field map for plain validation error")
	}
}

func TestAsExtractsDomainError(t *testing.T) {
	var domainErr *Error
	err := NotFoundf("user %s not found", "user-1")
	if !As(err, &domainErr) {
		t.Fatal("As should extract *Error")
	}
	if domainErr.Code != CodeNotFound {
		t.Errorf("Code: got %s", domainErr.Code)
	}
}

package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad id %q", "x"), http.StatusBadRequest},
		{"unauthenticated", Unauthenticated("no token"), http.StatusUnauthorized},
		{"forbidden", Forbidden("denied"), http.StatusForbidden},
		{"not found", NotFound("missing"), http.StatusNotFound},
		{"conflict", Conflict("dup"), http.StatusConflict},
		{"wrapped", fmt.Errorf("update: %w", NotFound("article not found")), http.StatusNotFound},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatus(tt.err); got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestErrorMessageAndUnwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{Kind: KindConflict, Err: fmt.Errorf("email already in use: %w", cause)}

	if err.Error() != "email already in use: root cause" {
		t.Errorf("Unexpected message: %s", err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to reach the cause")
	}
	if !Is(err, KindConflict) {
		t.Error("Expected conflict kind")
	}
	if Is(nil, KindConflict) {
		t.Error("nil must not match any kind")
	}
}

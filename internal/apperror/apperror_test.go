package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusUnwrapsWrappedErrors(t *testing.T) {
	err := fmt.Errorf("start quiz: %w", NotFound("No questions found"))
	if got := Status(err); got != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", got, http.StatusNotFound)
	}
}

func TestStatusDefaultsToInternal(t *testing.T) {
	if got := Status(errors.New("redis: connection refused")); got != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", got, http.StatusInternalServerError)
	}
}

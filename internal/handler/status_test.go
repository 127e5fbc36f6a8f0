package handler

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/hanbit/makerspace-reservation/internal/engine"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unauthenticated", engine.ErrUnauthenticated, http.StatusUnauthorized},
		{"permission denied", engine.ErrPermissionDenied, http.StatusForbidden},
		{"invalid request", engine.ErrInvalidRequest, http.StatusBadRequest},
		{"not found", engine.ErrNotFound, http.StatusNotFound},
		{"conflict", engine.ErrConflict, http.StatusConflict},
		{"internal", engine.ErrInternal, http.StatusInternalServerError},
		{"untagged error", fmt.Errorf("boom"), http.StatusInternalServerError},
		{"wrapped tag", fmt.Errorf("allocate: %w", engine.ErrInvalidRequest), http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := httpStatus(tc.err); got != tc.want {
				t.Errorf("httpStatus(%v) = %d, want %d", tc.err, got, tc.want)
			}
		})
	}
}

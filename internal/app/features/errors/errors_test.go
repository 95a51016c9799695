package errors_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	uierrors "github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/features/errors"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/apperr"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/docstore"
	"go.uber.org/zap"
)

func TestRespond_StatusAndSafeMessage(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{"validation", apperr.New(apperr.Validation, "Invalid category"), http.StatusBadRequest, "Invalid category"},
		{"auth", apperr.New(apperr.Auth, "Invalid email or password."), http.StatusUnauthorized, "Invalid email or password."},
		{"not found", apperr.New(apperr.NotFound, "Task not found."), http.StatusNotFound, "Task not found."},
		{"permission", apperr.FromStore(fmt.Errorf("rules: %w", docstore.ErrPermissionDenied), "x"), http.StatusForbidden, "You do not have permission to perform this action."},
		{"provisioning", apperr.New(apperr.Provisioning, "Failed to create user profile. Please try again."), http.StatusInternalServerError, "Failed to create user profile. Please try again."},
		{"raw", fmt.Errorf("mongo: connection refused"), http.StatusInternalServerError, apperr.GenericMessage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			uierrors.Respond(rec, httptest.NewRequest("GET", "/x", nil), zap.NewNop(), tt.err)

			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			var body struct{ Error, Kind string }
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Error != tt.message {
				t.Errorf("message = %q, want %q", body.Error, tt.message)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	var v struct{ Name string }
	req := httptest.NewRequest("POST", "/", strings.NewReader(`{"name":"x"}`))
	if err := uierrors.Decode(req, &v); err != nil || v.Name != "x" {
		t.Fatalf("Decode = %v, %+v", err, v)
	}
	req = httptest.NewRequest("POST", "/", strings.NewReader(`{`))
	if err := uierrors.Decode(req, &v); apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("bad body err = %v", err)
	}
}

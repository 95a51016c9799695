// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/apperr"
	"go.uber.org/zap"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

var (
	ErrBadBody   = apperr.New(apperr.Validation, "Invalid request body.")
	ErrSignedOut = apperr.New(apperr.Auth, "Please sign in to continue.")
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// StatusFor maps an error kind to an HTTP status.
func StatusFor(k apperr.Kind) int {
	switch k {
	case apperr.Auth:
		return http.StatusUnauthorized
	case apperr.Permission:
		return http.StatusForbidden
	case apperr.Validation:
		return http.StatusBadRequest
	case apperr.NotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// Respond writes err as a JSON error. Only the user-safe message is sent;
// provisioning and internal failures are logged with their cause.
func Respond(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	kind := apperr.KindOf(err)
	status := StatusFor(kind)
	if status >= http.StatusInternalServerError && log != nil {
		log.Error("request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("kind", kind.String()),
			zap.Error(err))
	}
	JSON(w, status, errorBody{Error: apperr.Message(err), Kind: kind.String()})
}

// Decode reads a JSON request body into v.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return apperr.With(ErrBadBody, err)
	}
	return nil
}

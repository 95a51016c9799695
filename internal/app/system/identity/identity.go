// Package identity issues and verifies user credentials.
//
// Provider is the seam the profile service and the HTTP layer depend on.
// Local is the built-in implementation: password identities hashed with
// bcrypt plus external (Google) identities, stored as documents under
// identities/{id}.
package identity

import (
	"context"
	"time"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/apperr"
)

// Provider names stored on identities.
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

// MinPasswordLength is the shortest password Create accepts.
const MinPasswordLength = 6

var (
	ErrInvalidCredentials = apperr.New(apperr.Auth, "Invalid email or password.")
	ErrEmailExists        = apperr.New(apperr.Auth, "An account with this email already exists.")
	ErrWeakPassword       = apperr.New(apperr.Validation, "Password must be at least 6 characters.")
	ErrInvalidEmail       = apperr.New(apperr.Validation, "Please enter a valid email address.")
	ErrNotFound           = apperr.New(apperr.NotFound, "Account not found.")
	ErrUnavailable        = apperr.New(apperr.Auth, "Authentication is temporarily unavailable. Please try again.")
)

// Identity is an authenticated principal. ID doubles as the profile ID.
type Identity struct {
	ID          string
	Email       string
	DisplayName string
	PhotoURL    string
	Provider    string
	CreatedAt   time.Time
}

// ExternalProfile is what a federated sign-in learns about the user.
type ExternalProfile struct {
	Provider    string
	Subject     string
	Email       string
	DisplayName string
	PhotoURL    string
}

// Listener observes identity changes: the signed-in identity after a
// successful sign-in, nil after a sign-out. A listener error aborts the
// sign-in that triggered it.
type Listener func(ctx context.Context, id *Identity) error

// Provider is the identity service consumed by the application.
type Provider interface {
	Create(ctx context.Context, email, password, displayName string) (*Identity, error)
	Delete(ctx context.Context, id string) error
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	SignInExternal(ctx context.Context, p ExternalProfile) (*Identity, error)
	SignOut(ctx context.Context, id string) error
	Lookup(ctx context.Context, id string) (*Identity, error)
	OnIdentityChanged(l Listener) (unsubscribe func())
}

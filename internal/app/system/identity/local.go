package identity

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/store/paths"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/apperr"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/docstore"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/normalize"
	"github.com/badoux/checkmail"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used for new password hashes.
const DefaultBcryptCost = 12

type record struct {
	ID           string     `bson:"_id"`
	Email        string     `bson:"email"`
	DisplayName  string     `bson:"display_name"`
	PhotoURL     string     `bson:"photo_url"`
	Provider     string     `bson:"provider"`
	Subject      string     `bson:"subject"`
	PasswordHash string     `bson:"password_hash"`
	CreatedAt    time.Time  `bson:"created_at"`
	LastSignInAt *time.Time `bson:"last_sign_in_at"`
}

func (r record) identity() *Identity {
	return &Identity{
		ID:          r.ID,
		Email:       r.Email,
		DisplayName: r.DisplayName,
		PhotoURL:    r.PhotoURL,
		Provider:    r.Provider,
		CreatedAt:   r.CreatedAt,
	}
}

// Local is a Provider backed by the document store.
type Local struct {
	store docstore.Store
	log   *zap.Logger
	cost  int

	mu        sync.RWMutex
	listeners map[int]Listener
	nextID    int

	// compared against when an email is unknown so both paths cost a hash
	dummyHash []byte
}

// Option configures Local.
type Option func(*Local)

// WithBcryptCost overrides the hash cost; tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(l *Local) { l.cost = cost }
}

// NewLocal returns a Provider storing identities in store.
func NewLocal(store docstore.Store, logger *zap.Logger, opts ...Option) *Local {
	l := &Local{
		store:     store,
		log:       logger,
		cost:      DefaultBcryptCost,
		listeners: make(map[int]Listener),
	}
	for _, o := range opts {
		o(l)
	}
	l.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), l.cost)
	return l
}

// Create registers a password identity. It does not sign the user in.
func (l *Local) Create(ctx context.Context, email, password, displayName string) (*Identity, error) {
	email = normalize.Email(email)
	if err := checkmail.ValidateFormat(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(password) < MinPasswordLength {
		return nil, ErrWeakPassword
	}

	existing, err := l.findPassword(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), l.cost)
	if err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to create account.", err)
	}

	id := docstore.NewID()
	err = l.store.Set(ctx, paths.Identity(id), docstore.Fields{
		"email":         email,
		"display_name":  normalize.Name(displayName),
		"provider":      ProviderPassword,
		"password_hash": string(hash),
		"created_at":    docstore.ServerTimestamp,
	})
	if errors.Is(err, docstore.ErrAlreadyExists) {
		// lost a race with a concurrent signup for the same email
		return nil, ErrEmailExists
	}
	if err != nil {
		l.log.Error("identity create failed", zap.Error(err))
		return nil, apperr.With(ErrUnavailable, err)
	}
	return l.Lookup(ctx, id)
}

// Delete removes an identity. Deleting an unknown identity is a no-op.
func (l *Local) Delete(ctx context.Context, id string) error {
	p := paths.Identity(id)
	if p == "" {
		return ErrNotFound
	}
	if err := l.store.Delete(ctx, p); err != nil {
		return apperr.With(ErrUnavailable, err)
	}
	return nil
}

// SignIn verifies a password and notifies listeners.
func (l *Local) SignIn(ctx context.Context, email, password string) (*Identity, error) {
	rec, err := l.findPassword(ctx, normalize.Email(email))
	if err != nil {
		return nil, err
	}
	if rec == nil {
		_ = bcrypt.CompareHashAndPassword(l.dummyHash, []byte(password))
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return l.completeSignIn(ctx, rec)
}

// SignInExternal finds or creates the identity for a federated account and
// notifies listeners. Display name and photo are refreshed on every sign-in.
func (l *Local) SignInExternal(ctx context.Context, p ExternalProfile) (*Identity, error) {
	if p.Provider == "" || p.Subject == "" {
		return nil, ErrInvalidCredentials
	}
	snaps, err := l.store.Query(ctx, docstore.From(paths.Identities()).
		Where("provider", docstore.Eq, p.Provider).
		Where("subject", docstore.Eq, p.Subject).
		WithLimit(1))
	if err != nil {
		return nil, apperr.With(ErrUnavailable, err)
	}

	fields := docstore.Fields{"email": normalize.Email(p.Email)}
	if name := normalize.Name(p.DisplayName); name != "" {
		fields["display_name"] = name
	}
	if p.PhotoURL != "" {
		fields["photo_url"] = p.PhotoURL
	}

	var id string
	if len(snaps) == 0 {
		id = docstore.NewID()
		fields["provider"] = p.Provider
		fields["subject"] = p.Subject
		fields["created_at"] = docstore.ServerTimestamp
		if err := l.store.Set(ctx, paths.Identity(id), fields); err != nil {
			return nil, apperr.With(ErrUnavailable, err)
		}
	} else {
		id = snaps[0].ID()
		if err := l.store.Update(ctx, paths.Identity(id), fields); err != nil {
			return nil, apperr.With(ErrUnavailable, err)
		}
	}

	rec, err := l.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return l.completeSignIn(ctx, rec)
}

// SignOut notifies listeners with a nil identity.
func (l *Local) SignOut(ctx context.Context, id string) error {
	return l.notify(ctx, nil)
}

// Lookup loads an identity by ID.
func (l *Local) Lookup(ctx context.Context, id string) (*Identity, error) {
	rec, err := l.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return rec.identity(), nil
}

// OnIdentityChanged registers fn and returns a func removing it.
func (l *Local) OnIdentityChanged(fn Listener) func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := l.nextID
	l.nextID++
	l.listeners[id] = fn
	return func() {
		l.mu.Lock()
		delete(l.listeners, id)
		l.mu.Unlock()
	}
}

func (l *Local) completeSignIn(ctx context.Context, rec *record) (*Identity, error) {
	if err := l.store.Update(ctx, paths.Identity(rec.ID), docstore.Fields{
		"last_sign_in_at": docstore.ServerTimestamp,
	}); err != nil {
		// not fatal: the credential check already passed
		l.log.Warn("failed to record sign-in time", zap.String("identity_id", rec.ID), zap.Error(err))
	}
	id := rec.identity()
	if err := l.notify(ctx, id); err != nil {
		return nil, err
	}
	return id, nil
}

func (l *Local) notify(ctx context.Context, id *Identity) error {
	l.mu.RLock()
	fns := make([]Listener, 0, len(l.listeners))
	for _, fn := range l.listeners {
		fns = append(fns, fn)
	}
	l.mu.RUnlock()

	for _, fn := range fns {
		if err := fn(ctx, id); err != nil {
			return fmt.Errorf("identity listener: %w", err)
		}
	}
	return nil
}

func (l *Local) findPassword(ctx context.Context, email string) (*record, error) {
	snaps, err := l.store.Query(ctx, docstore.From(paths.Identities()).
		Where("email", docstore.Eq, email).
		Where("provider", docstore.Eq, ProviderPassword).
		WithLimit(1))
	if err != nil {
		l.log.Error("identity lookup failed", zap.Error(err))
		return nil, apperr.With(ErrUnavailable, err)
	}
	if len(snaps) == 0 {
		return nil, nil
	}
	var rec record
	if err := snaps[0].DataTo(&rec); err != nil {
		return nil, apperr.With(ErrUnavailable, err)
	}
	return &rec, nil
}

func (l *Local) load(ctx context.Context, id string) (*record, error) {
	p := paths.Identity(id)
	if p == "" {
		return nil, ErrNotFound
	}
	snap, err := l.store.Get(ctx, p)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperr.With(ErrUnavailable, err)
	}
	var rec record
	if err := snap.DataTo(&rec); err != nil {
		return nil, apperr.With(ErrUnavailable, err)
	}
	return &rec, nil
}

// Package profiles provisions and maintains the per-user profile document
// at users/{uid}.
//
// A profile and the default categories are always written in one batch.
// Signup compensates a failed batch by deleting the identity it just
// created, so no identity is left without a profile. Reconcile covers
// identities that reach sign-in without a profile (external sign-in, or a
// profile lost to an earlier failure).
package profiles

import (
	"context"
	"errors"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/services/categories"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/store/paths"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/apperr"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/auth"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/docstore"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/identity"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/metrics"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/normalize"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/domain/models"
	"go.uber.org/zap"
)

// MinNameLength is the shortest display name Signup accepts.
const MinNameLength = 2

var (
	ErrNameTooShort     = apperr.New(apperr.Validation, "Name must be at least 2 characters.")
	ErrPasswordMismatch = apperr.New(apperr.Validation, "Passwords do not match.")
	ErrProvisioning     = apperr.New(apperr.Provisioning, "Failed to create user profile. Please try again.")
	ErrUnableToCreate   = apperr.New(apperr.Permission, "Unable to create account")
	ErrNotFound         = apperr.New(apperr.NotFound, "Profile not found.")
	ErrInvalidCurrency  = apperr.New(apperr.Validation, "Currency must be a 3-letter code.")
	ErrInvalidLanguage  = apperr.New(apperr.Validation, "Please choose a valid language.")
	ErrInvalidTheme     = apperr.New(apperr.Validation, "Theme must be light or dark.")
)

// SignupInput is the signup form. Confirm is checked only when non-empty.
type SignupInput struct {
	Email    string
	Password string
	Confirm  string
	Name     string
}

// SignupResult is the new identity and its profile.
type SignupResult struct {
	Identity *identity.Identity
	Profile  *models.Profile
}

// SettingsUpdate carries the settings to change; nil means unchanged.
type SettingsUpdate struct {
	Currency *string
	Language *string
	Theme    *string
}

type Service struct {
	ds  docstore.Store
	ids identity.Provider
	log *zap.Logger
	m   *metrics.Metrics
}

func New(ds docstore.Store, ids identity.Provider, logger *zap.Logger, m *metrics.Metrics) *Service {
	return &Service{ds: ds, ids: ids, log: logger, m: m}
}

// Signup creates an identity, then the profile and default categories in
// one batch. If the batch fails the identity is deleted again.
func (s *Service) Signup(ctx context.Context, in SignupInput) (*SignupResult, error) {
	name := normalize.Name(in.Name)
	if len([]rune(name)) < MinNameLength {
		s.m.Signup(metrics.OutcomeInvalid)
		return nil, ErrNameTooShort
	}
	if len(in.Password) < identity.MinPasswordLength {
		s.m.Signup(metrics.OutcomeInvalid)
		return nil, identity.ErrWeakPassword
	}
	if in.Confirm != "" && in.Confirm != in.Password {
		s.m.Signup(metrics.OutcomeInvalid)
		return nil, ErrPasswordMismatch
	}
	email := normalize.Email(in.Email)

	id, err := s.ids.Create(ctx, email, in.Password, name)
	if err != nil {
		if apperr.KindOf(err) == apperr.Validation {
			s.m.Signup(metrics.OutcomeInvalid)
		} else {
			s.m.Signup(metrics.OutcomeAuth)
		}
		return nil, err
	}

	b := s.ds.Batch()
	provision(b, id.ID, name, email, "")
	if err := b.Commit(ctx); err != nil {
		return nil, s.compensate(ctx, id, err)
	}

	prof, err := s.Get(ctx, id.ID)
	if err != nil {
		return nil, err
	}
	s.m.Signup(metrics.OutcomeOK)
	s.log.Info("user signed up", zap.String("user_id", id.ID))
	return &SignupResult{Identity: id, Profile: prof}, nil
}

// compensate deletes the identity created for a signup whose profile
// batch failed and returns the error to report.
func (s *Service) compensate(ctx context.Context, id *identity.Identity, cause error) error {
	s.log.Error("profile batch failed, deleting identity",
		zap.String("user_id", id.ID), zap.Error(cause))
	if err := s.ids.Delete(ctx, id.ID); err != nil && !errors.Is(err, identity.ErrNotFound) {
		s.log.Error("identity compensation failed",
			zap.String("user_id", id.ID), zap.Error(err))
	}
	if errors.Is(cause, docstore.ErrPermissionDenied) {
		s.m.Signup(metrics.OutcomeDenied)
		return apperr.With(ErrUnableToCreate, cause)
	}
	s.m.Signup(metrics.OutcomeCompensated)
	return apperr.With(ErrProvisioning, cause)
}

// provision queues the profile merge-set and the default categories.
// Blank name, email or avatar are left out so they never overwrite.
// Defaults go to fixed document IDs, so concurrent first sign-ins that
// both pass Reconcile's existence check converge on a single set.
func provision(b docstore.Batch, uid, name, email, avatar string) {
	def := models.DefaultSettings()
	f := docstore.Fields{
		"role":       models.RoleUser,
		"status":     models.StatusActive,
		"auth_id":    uid,
		"is_active":  true,
		"created_at": docstore.ServerTimestamp,
		"updated_at": docstore.ServerTimestamp,
		"settings": docstore.Fields{
			"currency": def.Currency,
			"language": def.Language,
			"theme":    string(def.Theme),
		},
	}
	if name != "" {
		f["name"] = name
	}
	if email != "" {
		f["email"] = email
	}
	if avatar != "" {
		f["avatar_url"] = avatar
	}
	b.Set(paths.Profile(uid), f, docstore.WithMerge())
	for _, d := range categories.Defaults {
		b.Set(paths.Category(uid, d.ID), categories.Fields(d.Name, d.Type, d.Icon, ""))
	}
}

// Reconcile makes sure a signed-in identity has a profile. It is a no-op
// when the profile exists and ignores a nil identity (sign-out).
func (s *Service) Reconcile(ctx context.Context, id *identity.Identity) error {
	if id == nil {
		return nil
	}
	_, err := s.ds.Get(ctx, paths.Profile(id.ID))
	if err == nil {
		s.m.Reconcile(metrics.OutcomeExisting)
		return nil
	}
	if !errors.Is(err, docstore.ErrNotFound) {
		s.m.Reconcile(metrics.OutcomeError)
		s.log.Error("profile lookup failed", zap.String("user_id", id.ID), zap.Error(err))
		return apperr.FromStore(err, ErrProvisioning.Msg)
	}

	b := s.ds.Batch()
	provision(b, id.ID, normalize.Name(id.DisplayName), normalize.Email(id.Email), id.PhotoURL)
	if err := b.Commit(ctx); err != nil {
		s.m.Reconcile(metrics.OutcomeError)
		s.log.Error("profile reconcile failed", zap.String("user_id", id.ID), zap.Error(err))
		if errors.Is(err, docstore.ErrPermissionDenied) {
			return apperr.FromStore(err, "")
		}
		return apperr.With(ErrProvisioning, err)
	}
	s.m.Reconcile(metrics.OutcomeCreated)
	s.log.Info("profile created on sign-in", zap.String("user_id", id.ID))
	return nil
}

// Watch registers Reconcile as an identity change listener.
func (s *Service) Watch(p identity.Provider) (unsubscribe func()) {
	return p.OnIdentityChanged(s.Reconcile)
}

// Get loads the owner's profile.
func (s *Service) Get(ctx context.Context, ownerID string) (*models.Profile, error) {
	p := paths.Profile(ownerID)
	if !p.IsDoc() {
		return nil, ErrNotFound
	}
	snap, err := s.ds.Get(ctx, p)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.log.Error("get profile failed", zap.String("user_id", ownerID), zap.Error(err))
		return nil, apperr.FromStore(err, "Failed to load profile.")
	}
	var prof models.Profile
	if err := snap.DataTo(&prof); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to load profile.", err)
	}
	return &prof, nil
}

// UpdateSettings merges the supplied settings into the profile.
func (s *Service) UpdateSettings(ctx context.Context, ownerID string, up SettingsUpdate) (*models.Profile, error) {
	f := docstore.Fields{"updated_at": docstore.ServerTimestamp}
	if up.Currency != nil {
		c := normalize.Currency(*up.Currency)
		if !isCurrency(c) {
			return nil, ErrInvalidCurrency
		}
		f["settings.currency"] = c
	}
	if up.Language != nil {
		l := normalize.Language(*up.Language)
		if len(l) < 2 || len(l) > 5 {
			return nil, ErrInvalidLanguage
		}
		f["settings.language"] = l
	}
	if up.Theme != nil {
		th := models.Theme(normalize.Token(*up.Theme))
		if !th.IsValid() {
			return nil, ErrInvalidTheme
		}
		f["settings.theme"] = string(th)
	}

	err := s.ds.Update(ctx, paths.Profile(ownerID), f)
	s.m.Write("profile", "settings", err)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.log.Error("update settings failed", zap.String("user_id", ownerID), zap.Error(err))
		return nil, apperr.FromStore(err, "Failed to update settings.")
	}
	return s.Get(ctx, ownerID)
}

func isCurrency(c string) bool {
	if len(c) != 3 {
		return false
	}
	for _, r := range c {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// DeleteAccount removes the profile and everything under it in one batch,
// then deletes the identity.
func (s *Service) DeleteAccount(ctx context.Context, ownerID string) error {
	if _, err := s.Get(ctx, ownerID); err != nil {
		return err
	}

	b := s.ds.Batch()
	for _, coll := range paths.OwnedCollections(ownerID) {
		snaps, err := s.ds.Query(ctx, docstore.From(coll))
		if err != nil {
			return apperr.FromStore(err, "Failed to delete account.")
		}
		for _, sn := range snaps {
			if coll == paths.Todos(ownerID) {
				hist, err := s.ds.Query(ctx, docstore.From(paths.TodoHistory(ownerID, sn.ID())))
				if err != nil {
					return apperr.FromStore(err, "Failed to delete account.")
				}
				for _, h := range hist {
					b.Delete(h.Path)
				}
			}
			b.Delete(sn.Path)
		}
	}
	b.Delete(paths.Profile(ownerID))
	err := b.Commit(ctx)
	s.m.Write("profile", "delete", err)
	if err != nil {
		s.log.Error("delete account failed", zap.String("user_id", ownerID), zap.Error(err))
		return apperr.FromStore(err, "Failed to delete account.")
	}

	if err := s.ids.Delete(ctx, ownerID); err != nil && !errors.Is(err, identity.ErrNotFound) {
		s.log.Error("identity delete failed after account removal", zap.String("user_id", ownerID), zap.Error(err))
		return apperr.Wrap(apperr.Internal, "Failed to delete account.", err)
	}
	s.log.Info("account deleted", zap.String("user_id", ownerID))
	return nil
}

// NewFetcher resolves session users from profiles. A missing profile ends
// the session.
func (s *Service) NewFetcher() auth.UserFetcher {
	return func(ctx context.Context, userID string) (*auth.SessionUser, error) {
		prof, err := s.Get(ctx, userID)
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &auth.SessionUser{ID: prof.ID, Name: prof.Name, Email: prof.Email, Role: prof.Role}, nil
	}
}

// internal/app/store/oauthstate/store.go
package oauthstate

import (
	"context"
	"errors"
	"time"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/store/paths"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/docstore"
)

// State is an OAuth2 state token stored at oauth_states/{state} for CSRF
// protection. The Mongo backend expires documents through a TTL index on
// expires_at.
type State struct {
	State     string    `bson:"_id"`
	ReturnURL string    `bson:"return_url,omitempty"`
	ExpiresAt time.Time `bson:"expires_at"`
	CreatedAt time.Time `bson:"created_at"`
}

// Store manages OAuth2 state tokens.
type Store struct {
	ds  docstore.Store
	now func() time.Time
}

// New creates a new OAuth state Store.
func New(ds docstore.Store) *Store {
	return &Store{ds: ds, now: time.Now}
}

// Save stores a state token with the given expiration time.
func (s *Store) Save(ctx context.Context, state, returnURL string, expiresAt time.Time) error {
	p := paths.OAuthState(state)
	if !p.IsDoc() {
		return docstore.ErrInvalidPath
	}
	f := docstore.Fields{
		"expires_at": expiresAt.UTC(),
		"created_at": docstore.ServerTimestamp,
	}
	if returnURL != "" {
		f["return_url"] = returnURL
	}
	return s.ds.Set(ctx, p, f)
}

// Validate consumes a state token. It reports false for unknown or expired
// tokens; a token is deleted on first use either way.
func (s *Store) Validate(ctx context.Context, state string) (returnURL string, valid bool, err error) {
	p := paths.OAuthState(state)
	if !p.IsDoc() {
		return "", false, nil
	}
	snap, err := s.ds.Get(ctx, p)
	if errors.Is(err, docstore.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	var st State
	if err := snap.DataTo(&st); err != nil {
		return "", false, err
	}
	if err := s.ds.Delete(ctx, p); err != nil {
		return "", false, err
	}
	if !st.ExpiresAt.After(s.now()) {
		return "", false, nil
	}
	return st.ReturnURL, true, nil
}

// CleanupExpired removes every expired state token and reports how many
// were deleted. Mongo's TTL monitor runs about once a minute, and the
// memory backend has none, so a periodic job calls this.
func (s *Store) CleanupExpired(ctx context.Context) (int64, error) {
	snaps, err := s.ds.Query(ctx, docstore.From(paths.OAuthStates()))
	if err != nil {
		return 0, err
	}
	now := s.now()
	var n int64
	for _, sn := range snaps {
		var st State
		if err := sn.DataTo(&st); err != nil {
			return n, err
		}
		if st.ExpiresAt.After(now) {
			continue
		}
		if err := s.ds.Delete(ctx, sn.Path); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

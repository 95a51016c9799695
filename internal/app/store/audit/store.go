// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/store/paths"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/docstore"
)

// Event categories
const (
	CategoryAuth    = "auth"
	CategoryAccount = "account"
)

// Auth event types
const (
	EventSignupSuccess          = "signup_success"
	EventSignupFailed           = "signup_failed"
	EventLoginSuccess           = "login_success"
	EventLoginFailedCredentials = "login_failed_credentials"
	EventLoginFailedRateLimit   = "login_failed_rate_limit"
	EventLoginFailedProfile     = "login_failed_profile"
	EventLogout                 = "logout"
)

// Account event types
const (
	EventSettingsUpdated = "settings_updated"
	EventAccountDeleted  = "account_deleted"
)

// Event is one audit record at audit_events/{id}.
type Event struct {
	ID        string    `bson:"_id,omitempty"`
	Timestamp time.Time `bson:"timestamp"`

	Category  string `bson:"category"`
	EventType string `bson:"event_type"`

	UserID string `bson:"user_id,omitempty"`
	Email  string `bson:"email,omitempty"`
	Method string `bson:"method,omitempty"` // password | google

	IP        string `bson:"ip"`
	UserAgent string `bson:"user_agent,omitempty"`

	Success       bool   `bson:"success"`
	FailureReason string `bson:"failure_reason,omitempty"`

	Details map[string]string `bson:"details,omitempty"`
}

// Store persists audit events through the document store.
type Store struct {
	ds docstore.Store
}

// New creates a new audit Store.
func New(ds docstore.Store) *Store {
	return &Store{ds: ds}
}

// Log inserts an event. The timestamp is assigned by the store clock.
func (s *Store) Log(ctx context.Context, e Event) error {
	f := docstore.Fields{
		"timestamp":  docstore.ServerTimestamp,
		"category":   e.Category,
		"event_type": e.EventType,
		"ip":         e.IP,
		"success":    e.Success,
	}
	if e.UserID != "" {
		f["user_id"] = e.UserID
	}
	if e.Email != "" {
		f["email"] = e.Email
	}
	if e.Method != "" {
		f["method"] = e.Method
	}
	if e.UserAgent != "" {
		f["user_agent"] = e.UserAgent
	}
	if e.FailureReason != "" {
		f["failure_reason"] = e.FailureReason
	}
	if len(e.Details) > 0 {
		f["details"] = e.Details
	}
	_, err := s.ds.Add(ctx, paths.AuditEvents(), f)
	return err
}

// GetByUser returns a user's most recent events, newest first.
func (s *Store) GetByUser(ctx context.Context, userID string, limit int) ([]Event, error) {
	snaps, err := s.ds.Query(ctx, docstore.From(paths.AuditEvents()).
		Where("user_id", docstore.Eq, userID).
		OrderBy("timestamp", docstore.Desc).
		WithLimit(limit))
	if err != nil {
		return nil, err
	}
	out := make([]Event, 0, len(snaps))
	for _, sn := range snaps {
		var e Event
		if err := sn.DataTo(&e); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

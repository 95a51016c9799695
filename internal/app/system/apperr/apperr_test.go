package apperr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/apperr"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/docstore"
)

var errSentinel = apperr.New(apperr.Validation, "Invalid category")

func TestSentinelMatchesAfterWrap(t *testing.T) {
	err := fmt.Errorf("add: %w", apperr.With(errSentinel, errors.New("lookup failed")))
	if !errors.Is(err, errSentinel) {
		t.Fatal("errors.Is should match the sentinel")
	}
	if apperr.KindOf(err) != apperr.Validation {
		t.Fatalf("KindOf = %v", apperr.KindOf(err))
	}
	if apperr.Message(err) != "Invalid category" {
		t.Fatalf("Message = %q", apperr.Message(err))
	}
}

func TestKindOfPlainError(t *testing.T) {
	err := errors.New("boom")
	if apperr.KindOf(err) != apperr.Internal {
		t.Fatalf("KindOf = %v", apperr.KindOf(err))
	}
	if apperr.Message(err) != apperr.GenericMessage {
		t.Fatalf("Message = %q", apperr.Message(err))
	}
}

func TestFromStore(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind apperr.Kind
	}{
		{"permission", fmt.Errorf("write: %w", docstore.ErrPermissionDenied), apperr.Permission},
		{"not found", docstore.ErrNotFound, apperr.NotFound},
		{"other", errors.New("socket closed"), apperr.Internal},
		{"already classified", apperr.New(apperr.Auth, "x"), apperr.Auth},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apperr.FromStore(tt.err, "Failed to load")
			if apperr.KindOf(got) != tt.kind {
				t.Fatalf("kind = %v, want %v", apperr.KindOf(got), tt.kind)
			}
		})
	}

	got := apperr.FromStore(errors.New("raw backend text"), "Failed to load")
	if apperr.Message(got) != "Failed to load" {
		t.Fatalf("message leaked cause: %q", apperr.Message(got))
	}
	if apperr.FromStore(nil, "x") != nil {
		t.Fatal("nil in, nil out")
	}
}

package auditlog_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/store/audit"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/store/memdoc"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/auditlog"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_NilLogger(t *testing.T) {
	var logger *auditlog.Logger
	ctx := context.Background()
	req := httptest.NewRequest("GET", "/", nil)

	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.LoginSuccess(ctx, req, "u1", "password")
	logger.Logout(ctx, req, "u1")
}

func TestLogger_Modes(t *testing.T) {
	tests := []struct {
		mode      string
		wantDB    int
		wantLines int
	}{
		{auditlog.ModeAll, 1, 1},
		{auditlog.ModeDB, 1, 0},
		{auditlog.ModeLog, 0, 1},
		{auditlog.ModeOff, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			ctx := context.Background()
			store := audit.New(memdoc.New())
			core, logs := observer.New(zap.InfoLevel)
			logger := auditlog.New(store, zap.New(core), auditlog.Config{Auth: tt.mode})

			logger.LoginSuccess(ctx, httptest.NewRequest("POST", "/login", nil), "u1", "password")

			events, err := store.GetByUser(ctx, "u1", 10)
			if err != nil {
				t.Fatalf("GetByUser failed: %v", err)
			}
			if len(events) != tt.wantDB {
				t.Errorf("stored events = %d, want %d", len(events), tt.wantDB)
			}
			if logs.Len() != tt.wantLines {
				t.Errorf("log lines = %d, want %d", logs.Len(), tt.wantLines)
			}
		})
	}
}

func TestLogger_LoginSuccessFields(t *testing.T) {
	ctx := context.Background()
	store := audit.New(memdoc.New())
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: auditlog.ModeDB})

	req := httptest.NewRequest("POST", "/login", nil)
	req.Header.Set("X-Forwarded-For", "10.0.0.7")
	req.Header.Set("User-Agent", "TestBrowser/1.0")
	logger.LoginSuccess(ctx, req, "u1", "google")

	events, err := store.GetByUser(ctx, "u1", 10)
	if err != nil || len(events) != 1 {
		t.Fatalf("events = %v, err = %v", events, err)
	}
	e := events[0]
	if e.Category != audit.CategoryAuth || e.EventType != audit.EventLoginSuccess {
		t.Errorf("classification = %s/%s", e.Category, e.EventType)
	}
	if e.IP != "10.0.0.7" || e.UserAgent != "TestBrowser/1.0" || e.Method != "google" || !e.Success {
		t.Errorf("event = %+v", e)
	}
}

func TestLogger_AccountCategoryIndependent(t *testing.T) {
	ctx := context.Background()
	store := audit.New(memdoc.New())
	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: auditlog.ModeOff, Account: auditlog.ModeDB})

	logger.LoginSuccess(ctx, nil, "u1", "password")
	logger.AccountDeleted(ctx, nil, "u1")

	events, err := store.GetByUser(ctx, "u1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].EventType != audit.EventAccountDeleted {
		t.Fatalf("events = %+v", events)
	}
}

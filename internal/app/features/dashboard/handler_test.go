package dashboard_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/features/dashboard"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/domain/models"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/testutil"
	"go.uber.org/zap"
)

type response struct {
	Summary      models.Summary       `json:"summary"`
	Recent       []models.Transaction `json:"recent_transactions"`
	OpenTasks    int                  `json:"open_tasks"`
	TasksByState map[string]int       `json:"tasks_by_status"`
}

func TestServeDashboard(t *testing.T) {
	fx := testutil.NewFixtures(t)
	ctx := context.Background()
	u := fx.CreateUser(ctx, "Ann Lee", "ann@example.com")
	food := fx.CreateCategory(ctx, u, "Groceries", models.TypeExpense)
	pay := fx.CreateCategory(ctx, u, "Bonus", models.TypeIncome)

	fx.CreateTransaction(ctx, u, pay.ID, models.TypeIncome, "1000", "2024-01-01")
	for _, d := range []string{"2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05", "2024-01-06", "2024-01-07"} {
		fx.CreateTransaction(ctx, u, food.ID, models.TypeExpense, "10", d)
	}
	done := fx.CreateTask(ctx, u, "File taxes")
	fx.CreateTask(ctx, u, "Call bank")
	if err := fx.Tasks.UpdateStatus(ctx, u.ID, done.ID, "pending", "finished"); err != nil {
		t.Fatal(err)
	}

	h := dashboard.NewHandler(fx.Transactions, fx.Tasks, zap.NewNop())
	rec := testutil.NewRecorder()
	h.ServeDashboard(rec, testutil.NewAuthenticatedRequest("GET", "/dashboard", u))
	rec.AssertStatus(t, http.StatusOK)

	var got response
	rec.DecodeJSON(t, &got)
	want := models.Summary{Income: 1000, Expenses: 60, Balance: 940, Count: 7}
	if got.Summary != want {
		t.Errorf("summary = %+v, want %+v", got.Summary, want)
	}
	if len(got.Recent) != dashboard.RecentLimit {
		t.Fatalf("recent = %d, want %d", len(got.Recent), dashboard.RecentLimit)
	}
	if got.Recent[0].Date.Format("2006-01-02") != "2024-01-07" {
		t.Errorf("most recent = %v", got.Recent[0].Date)
	}
	if got.OpenTasks != 1 || got.TasksByState["finished"] != 1 || got.TasksByState["pending"] != 1 {
		t.Errorf("tasks = %d %+v", got.OpenTasks, got.TasksByState)
	}
}

func TestServeDashboard_Empty(t *testing.T) {
	fx := testutil.NewFixtures(t)
	u := fx.CreateUser(context.Background(), "Ann Lee", "ann@example.com")

	h := dashboard.NewHandler(fx.Transactions, fx.Tasks, zap.NewNop())
	rec := testutil.NewRecorder()
	h.ServeDashboard(rec, testutil.NewAuthenticatedRequest("GET", "/dashboard", u))
	rec.AssertStatus(t, http.StatusOK)

	var got response
	rec.DecodeJSON(t, &got)
	if got.Summary.Count != 0 || len(got.Recent) != 0 || got.OpenTasks != 0 {
		t.Errorf("got %+v", got)
	}
}

func TestRoutes_RequireSignedIn(t *testing.T) {
	fx := testutil.NewFixtures(t)
	sm := testutil.NewSessionManager(t)
	h := dashboard.NewHandler(fx.Transactions, fx.Tasks, zap.NewNop())

	rec := testutil.NewRecorder()
	dashboard.Routes(h, sm).ServeHTTP(rec, testutil.NewRequest("GET", "/"))
	rec.AssertStatus(t, http.StatusUnauthorized)
}

package transactions_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/features/transactions"
	txsvc "github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/services/transactions"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/domain/models"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/testutil"
	"go.uber.org/zap"
)

func setup(t *testing.T) (http.Handler, *testutil.Fixtures, testutil.TestUser, models.Category) {
	t.Helper()
	fx := testutil.NewFixtures(t)
	ctx := context.Background()
	u := fx.CreateUser(ctx, "Ann Lee", "ann@example.com")
	cat := fx.CreateCategory(ctx, u, "Groceries", models.TypeExpense)
	h := transactions.NewHandler(fx.Transactions, zap.NewNop())
	return transactions.Routes(h, testutil.NewSessionManager(t)), fx, u, cat
}

func serve(router http.Handler, req *http.Request) *testutil.ResponseRecorder {
	rec := testutil.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreate_NumberOrString(t *testing.T) {
	router, _, u, cat := setup(t)

	for _, amount := range []any{42.5, "42.50"} {
		rec := serve(router, testutil.WithUser(testutil.NewJSONRequest(t, "POST", "/", map[string]any{
			"amount":      amount,
			"type":        "expense",
			"category_id": cat.ID,
			"date":        "2024-03-15",
			"description": "Weekly shop",
		}), u))
		rec.AssertStatus(t, http.StatusCreated)

		var tx models.Transaction
		rec.DecodeJSON(t, &tx)
		if tx.Amount != 42.5 || tx.PaymentMethod != models.PaymentCash || tx.CategoryID != cat.ID {
			t.Errorf("amount %v: created = %+v", amount, tx)
		}
	}
}

func TestCreate_Validation(t *testing.T) {
	router, fx, u, cat := setup(t)
	ctx := context.Background()
	salary, err := fx.Categories.ListActive(ctx, u.ID, "income")
	if err != nil || len(salary) == 0 {
		t.Fatalf("income categories = %v, %v", salary, err)
	}

	tests := []struct {
		name string
		body map[string]any
		want string
	}{
		{"zero amount", map[string]any{"amount": 0, "type": "expense", "category_id": cat.ID, "date": "2024-01-01"}, txsvc.ErrInvalidAmount.Msg},
		{"bad date", map[string]any{"amount": 5, "type": "expense", "category_id": cat.ID, "date": "yesterday"}, txsvc.ErrInvalidDate.Msg},
		{"type mismatch", map[string]any{"amount": 5, "type": "expense", "category_id": salary[0].ID, "date": "2024-01-01"}, txsvc.ErrInvalidCategory.Msg},
		{"unknown category", map[string]any{"amount": 5, "type": "expense", "category_id": "nope", "date": "2024-01-01"}, txsvc.ErrInvalidCategory.Msg},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, testutil.WithUser(testutil.NewJSONRequest(t, "POST", "/", tt.body), u))
			rec.AssertStatus(t, http.StatusBadRequest)
			rec.AssertContains(t, tt.want)
		})
	}

	list, _ := fx.Transactions.List(ctx, u.ID)
	if len(list) != 0 {
		t.Errorf("transactions written = %d, want 0", len(list))
	}
}

func TestListAndDelete(t *testing.T) {
	router, fx, u, cat := setup(t)
	ctx := context.Background()
	older := fx.CreateTransaction(ctx, u, cat.ID, models.TypeExpense, "10", "2024-01-01")
	newer := fx.CreateTransaction(ctx, u, cat.ID, models.TypeExpense, "20", "2024-02-01")

	rec := serve(router, testutil.NewAuthenticatedRequest("GET", "/", u))
	rec.AssertStatus(t, http.StatusOK)
	var list []models.Transaction
	rec.DecodeJSON(t, &list)
	if len(list) != 2 || list[0].ID != newer.ID {
		t.Fatalf("list = %+v", list)
	}

	serve(router, testutil.NewAuthenticatedRequest("DELETE", "/"+older.ID, u)).AssertStatus(t, http.StatusNoContent)
	serve(router, testutil.NewAuthenticatedRequest("DELETE", "/"+older.ID, u)).AssertStatus(t, http.StatusNotFound)
}

func TestDelete_OtherOwner(t *testing.T) {
	router, fx, _, _ := setup(t)
	ctx := context.Background()
	bob := fx.CreateUser(ctx, "Bob Stone", "bob@example.com")
	bobCat := fx.CreateCategory(ctx, bob, "Groceries", models.TypeExpense)
	tx := fx.CreateTransaction(ctx, bob, bobCat.ID, models.TypeExpense, "5", "2024-01-01")

	ann := testutil.TestUser{ID: "someone-else"}
	serve(router, testutil.NewAuthenticatedRequest("DELETE", "/"+tx.ID, ann)).AssertStatus(t, http.StatusNotFound)

	list, _ := fx.Transactions.List(ctx, bob.ID)
	if len(list) != 1 {
		t.Errorf("bob's transactions = %d, want 1", len(list))
	}
}

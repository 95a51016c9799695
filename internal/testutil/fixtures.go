package testutil

import (
	"context"
	"net/http"
	"testing"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/services/categories"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/services/profiles"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/services/tasks"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/services/transactions"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/store/memdoc"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/identity"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures wires every service to one in-memory document store.
type Fixtures struct {
	t *testing.T

	Store        *memdoc.Store
	Identity     *identity.Local
	Profiles     *profiles.Service
	Categories   *categories.Service
	Transactions *transactions.Service
	Tasks        *tasks.Service
}

// NewFixtures builds services over a fresh memdoc store. Passwords are
// hashed at the minimum bcrypt cost.
func NewFixtures(t *testing.T) *Fixtures {
	t.Helper()
	ds := memdoc.New()
	log := zap.NewNop()
	ids := identity.NewLocal(ds, log, identity.WithBcryptCost(bcrypt.MinCost))
	return &Fixtures{
		t:            t,
		Store:        ds,
		Identity:     ids,
		Profiles:     profiles.New(ds, ids, log, nil),
		Categories:   categories.New(ds, log, nil),
		Transactions: transactions.New(ds, log, nil),
		Tasks:        tasks.New(ds, log, nil),
	}
}

// CreateUser signs up a user with password "secret1" and returns it as a
// TestUser. The profile comes with the default categories.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string) TestUser {
	f.t.Helper()
	res, err := f.Profiles.Signup(ctx, profiles.SignupInput{Email: email, Password: "secret1", Name: name})
	if err != nil {
		f.t.Fatalf("CreateUser(%q): %v", email, err)
	}
	return TestUser{ID: res.Identity.ID, Name: res.Profile.Name, Email: res.Profile.Email, Role: res.Profile.Role}
}

// CreateCategory adds an active category for owner.
func (f *Fixtures) CreateCategory(ctx context.Context, owner TestUser, name string, t models.CategoryType) models.Category {
	f.t.Helper()
	c, err := f.Categories.Add(ctx, owner.ID, categories.NewCategory{Name: name, Type: string(t)})
	if err != nil {
		f.t.Fatalf("CreateCategory(%q): %v", name, err)
	}
	return *c
}

// CreateTransaction records a transaction against categoryID.
func (f *Fixtures) CreateTransaction(ctx context.Context, owner TestUser, categoryID string, t models.CategoryType, amount, date string) models.Transaction {
	f.t.Helper()
	tx, err := f.Transactions.Add(ctx, owner.ID, transactions.NewTransaction{
		Amount: amount, Type: string(t), CategoryID: categoryID, Date: date,
	})
	if err != nil {
		f.t.Fatalf("CreateTransaction: %v", err)
	}
	return *tx
}

// CreateTask adds a pending task.
func (f *Fixtures) CreateTask(ctx context.Context, owner TestUser, title string) models.Task {
	f.t.Helper()
	task, err := f.Tasks.Add(ctx, owner.ID, tasks.NewTask{Title: title})
	if err != nil {
		f.t.Fatalf("CreateTask(%q): %v", title, err)
	}
	return *task
}

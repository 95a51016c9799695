package dashboard

import (
	"context"
	"net/http"

	uierrors "github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/features/errors"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/services/tasks"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/services/transactions"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/auth"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/timeouts"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/domain/models"
	"go.uber.org/zap"
)

// RecentLimit is how many transactions the dashboard lists.
const RecentLimit = 5

type Handler struct {
	Log          *zap.Logger
	Transactions *transactions.Service
	Tasks        *tasks.Service
}

func NewHandler(txs *transactions.Service, ts *tasks.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Log:          logger,
		Transactions: txs,
		Tasks:        ts,
	}
}

// dashboardData is the GET /dashboard response.
type dashboardData struct {
	Summary      models.Summary            `json:"summary"`
	Recent       []models.Transaction      `json:"recent_transactions"`
	OpenTasks    int                       `json:"open_tasks"`
	TasksByState map[models.TaskStatus]int `json:"tasks_by_status"`
}

// ServeDashboard handles GET /dashboard: totals over every transaction, the
// most recent ones and task counts.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		uierrors.Respond(w, r, h.Log, uierrors.ErrSignedOut)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	list, err := h.Transactions.List(ctx, u.ID)
	if err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}
	todo, err := h.Tasks.List(ctx, u.ID)
	if err != nil {
		uierrors.Respond(w, r, h.Log, err)
		return
	}

	data := dashboardData{
		Summary: transactions.Totals(list),
		Recent:  list[:min(len(list), RecentLimit)],
		TasksByState: map[models.TaskStatus]int{
			models.TaskPending:    0,
			models.TaskProcessing: 0,
			models.TaskFinished:   0,
		},
	}
	for _, t := range todo {
		data.TasksByState[t.Status]++
		if t.Status != models.TaskFinished {
			data.OpenTasks++
		}
	}
	uierrors.JSON(w, http.StatusOK, data)
}

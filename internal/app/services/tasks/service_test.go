package tasks_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/services/tasks"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/store/memdoc"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/apperr"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/docstore"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/domain/models"
	"go.uber.org/zap"
)

func newService() (*tasks.Service, *memdoc.Store) {
	ds := memdoc.New()
	return tasks.New(ds, zap.NewNop(), nil), ds
}

func TestAdd_DefaultsAndCreationHistory(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	due := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	task, err := svc.Add(ctx, "u1", tasks.NewTask{Title: " Pay rent ", Notes: " by card & cash ", DueDate: &due})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if task.Title != "Pay rent" || task.Notes != "by card & cash" {
		t.Errorf("task = %+v", task)
	}
	if task.Status != models.TaskPending || task.Priority != models.PriorityMedium {
		t.Errorf("status/priority = %s/%s", task.Status, task.Priority)
	}
	if task.ReminderAt == nil || !task.ReminderAt.Equal(due) {
		t.Errorf("reminder_at = %v, want %v", task.ReminderAt, due)
	}

	hist, err := svc.History(ctx, "u1", task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != 1 || hist[0].FromStatus != nil || hist[0].ToStatus != models.TaskPending {
		t.Fatalf("history = %+v", hist)
	}
}

func TestAdd_NoDueDateNoReminder(t *testing.T) {
	svc, _ := newService()
	task, err := svc.Add(context.Background(), "u1", tasks.NewTask{Title: "Call bank", Priority: "HIGH"})
	if err != nil {
		t.Fatal(err)
	}
	if task.DueDate != nil || task.ReminderAt != nil {
		t.Errorf("due/reminder = %v/%v", task.DueDate, task.ReminderAt)
	}
	if task.Priority != models.PriorityHigh {
		t.Errorf("priority = %s", task.Priority)
	}
}

func TestAdd_Validation(t *testing.T) {
	svc, ds := newService()
	ctx := context.Background()

	if _, err := svc.Add(ctx, "u1", tasks.NewTask{Title: "  "}); !errors.Is(err, tasks.ErrTitleRequired) {
		t.Errorf("empty title err = %v", err)
	}
	if _, err := svc.Add(ctx, "u1", tasks.NewTask{Title: "x", Priority: "urgent"}); !errors.Is(err, tasks.ErrInvalidPriority) {
		t.Errorf("bad priority err = %v", err)
	}
	if ds.Len() != 0 {
		t.Errorf("store has %d docs, want 0", ds.Len())
	}
}

func TestAdd_TextKeptAsEnteredOrRefused(t *testing.T) {
	svc, ds := newService()
	ctx := context.Background()

	if _, err := svc.Add(ctx, "u1", tasks.NewTask{Title: "a<b and c>d"}); !errors.Is(err, tasks.ErrTitleText) {
		t.Errorf("title err = %v, want ErrTitleText", err)
	}
	if _, err := svc.Add(ctx, "u1", tasks.NewTask{Title: "Pay bills", Notes: "rent<utilities"}); !errors.Is(err, tasks.ErrNotesText) {
		t.Errorf("notes err = %v, want ErrNotesText", err)
	}
	if ds.Len() != 0 {
		t.Fatalf("store has %d docs after refused input, want 0", ds.Len())
	}

	task, err := svc.Add(ctx, "u1", tasks.NewTask{Title: "Budget x <3 y", Notes: "keep spend<500"})
	if err != nil {
		t.Fatalf("Add: %v", err)
	}
	if task.Title != "Budget x <3 y" || task.Notes != "keep spend<500" {
		t.Errorf("task = %q / %q, want text as entered", task.Title, task.Notes)
	}
}

func TestUpdateStatus_HistoryIsAppendOnlyInCallOrder(t *testing.T) {
	svc, _ := newService()
	ctx := context.Background()
	task, _ := svc.Add(ctx, "u1", tasks.NewTask{Title: "Budget review"})

	steps := [][2]string{
		{"pending", "processing"},
		{"processing", "finished"},
		{"finished", "pending"},
		{"pending", "finished"},
	}
	for _, st := range steps {
		if err := svc.UpdateStatus(ctx, "u1", task.ID, st[0], st[1]); err != nil {
			t.Fatalf("UpdateStatus %v: %v", st, err)
		}
	}

	hist, err := svc.History(ctx, "u1", task.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(hist) != len(steps)+1 {
		t.Fatalf("history len = %d, want %d", len(hist), len(steps)+1)
	}
	for i, st := range steps {
		h := hist[i+1]
		if h.FromStatus == nil || string(*h.FromStatus) != st[0] || string(h.ToStatus) != st[1] {
			t.Errorf("history[%d] = %v -> %v, want %v", i+1, h.FromStatus, h.ToStatus, st)
		}
		if !h.ChangedAt.After(hist[i].ChangedAt) {
			t.Errorf("history[%d] not after previous", i+1)
		}
	}

	got, _ := svc.Get(ctx, "u1", task.ID)
	if got.Status != models.TaskFinished {
		t.Errorf("status = %s, want finished", got.Status)
	}
}

func TestUpdateStatus_Errors(t *testing.T) {
	svc, ds := newService()
	ctx := context.Background()
	task, _ := svc.Add(ctx, "u1", tasks.NewTask{Title: "x"})

	if err := svc.UpdateStatus(ctx, "u1", task.ID, "pending", "done"); !errors.Is(err, tasks.ErrInvalidStatus) {
		t.Errorf("bad status err = %v", err)
	}
	if err := svc.UpdateStatus(ctx, "u1", "missing", "pending", "finished"); !errors.Is(err, tasks.ErrNotFound) {
		t.Errorf("missing task err = %v", err)
	}

	ds.InjectFault(func(op memdoc.Op, p docstore.Path) error {
		if op == memdoc.OpCommit {
			return docstore.ErrPermissionDenied
		}
		return nil
	})
	err := svc.UpdateStatus(ctx, "u1", task.ID, "pending", "finished")
	if apperr.KindOf(err) != apperr.Permission {
		t.Fatalf("err = %v, want permission", err)
	}
	ds.InjectFault(nil)

	hist, _ := svc.History(ctx, "u1", task.ID)
	got, _ := svc.Get(ctx, "u1", task.ID)
	if len(hist) != 1 || got.Status != models.TaskPending {
		t.Errorf("failed batch left partial state: history=%d status=%s", len(hist), got.Status)
	}
}

func TestListAndDelete(t *testing.T) {
	svc, ds := newService()
	ctx := context.Background()

	first, _ := svc.Add(ctx, "u1", tasks.NewTask{Title: "first"})
	second, _ := svc.Add(ctx, "u1", tasks.NewTask{Title: "second"})
	_ = svc.UpdateStatus(ctx, "u1", first.ID, "pending", "processing")

	list, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 2 || list[0].ID != second.ID {
		t.Fatalf("List = %+v", list)
	}

	before := ds.Len()
	if err := svc.Delete(ctx, "u1", first.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	// task + two history records
	if ds.Len() != before-3 {
		t.Errorf("docs = %d, want %d", ds.Len(), before-3)
	}
	if _, err := svc.Get(ctx, "u1", first.ID); !errors.Is(err, tasks.ErrNotFound) {
		t.Errorf("Get after delete err = %v", err)
	}
	hist, _ := svc.History(ctx, "u1", first.ID)
	if len(hist) != 0 {
		t.Errorf("history survived delete: %d", len(hist))
	}
}

// Package tasks manages a user's to-do list under users/{uid}/todos and
// the append-only status history kept beneath each task.
package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/store/paths"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/apperr"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/docstore"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/htmlsanitize"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/metrics"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/normalize"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/domain/models"
	"go.uber.org/zap"
)

var (
	ErrTitleRequired   = apperr.New(apperr.Validation, "Task title is required.")
	ErrInvalidPriority = apperr.New(apperr.Validation, "Please choose a valid priority.")
	ErrInvalidStatus   = apperr.New(apperr.Validation, "Please choose a valid status.")
	ErrTitleText       = apperr.New(apperr.Validation, "Task title cannot contain text between < and >.")
	ErrNotesText       = apperr.New(apperr.Validation, "Task notes cannot contain text between < and >.")
	ErrNotFound        = apperr.New(apperr.NotFound, "Task not found.")
)

// NewTask is the input to Add.
type NewTask struct {
	Title    string
	Notes    string
	DueDate  *time.Time
	Priority string
}

type Service struct {
	ds  docstore.Store
	log *zap.Logger
	m   *metrics.Metrics
}

func New(ds docstore.Store, logger *zap.Logger, m *metrics.Metrics) *Service {
	return &Service{ds: ds, log: logger, m: m}
}

// Add creates a pending task and its first history record in one batch.
// The reminder defaults to the due date.
func (s *Service) Add(ctx context.Context, ownerID string, in NewTask) (*models.Task, error) {
	title, err := htmlsanitize.Check(in.Title)
	if err != nil {
		return nil, ErrTitleText
	}
	title = normalize.Name(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	notes, err := htmlsanitize.Check(in.Notes)
	if err != nil {
		return nil, ErrNotesText
	}
	priority := models.PriorityMedium
	if v := normalize.Token(in.Priority); v != "" {
		priority = models.TaskPriority(v)
		if !priority.IsValid() {
			return nil, ErrInvalidPriority
		}
	}

	f := docstore.Fields{
		"title":      title,
		"priority":   string(priority),
		"status":     string(models.TaskPending),
		"created_at": docstore.ServerTimestamp,
		"updated_at": docstore.ServerTimestamp,
	}
	if notes != "" {
		f["notes"] = notes
	}
	if in.DueDate != nil {
		due := in.DueDate.UTC()
		f["due_date"] = due
		f["reminder_at"] = due
	}

	b := s.ds.Batch()
	taskPath := b.Add(paths.Todos(ownerID), f)
	b.Add(paths.TodoHistory(ownerID, taskPath.ID()), historyFields(nil, models.TaskPending))
	err = b.Commit(ctx)
	s.m.Write("task", "add", err)
	if err != nil {
		s.log.Error("add task failed", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, apperr.FromStore(err, "Failed to add task.")
	}
	return s.Get(ctx, ownerID, taskPath.ID())
}

func historyFields(from *models.TaskStatus, to models.TaskStatus) docstore.Fields {
	var fromVal any
	if from != nil {
		fromVal = string(*from)
	}
	return docstore.Fields{
		"from_status": fromVal,
		"to_status":   string(to),
		"changed_at":  docstore.ServerTimestamp,
	}
}

// List returns the owner's tasks, newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]models.Task, error) {
	snaps, err := s.ds.Query(ctx, docstore.From(paths.Todos(ownerID)).OrderBy("created_at", docstore.Desc))
	if err != nil {
		s.log.Error("list tasks failed", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, apperr.FromStore(err, "Failed to load tasks.")
	}
	out := make([]models.Task, 0, len(snaps))
	for _, sn := range snaps {
		var t models.Task
		if err := sn.DataTo(&t); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "Failed to load tasks.", err)
		}
		out = append(out, t)
	}
	return out, nil
}

// Get loads one task.
func (s *Service) Get(ctx context.Context, ownerID, taskID string) (*models.Task, error) {
	p := paths.Todo(ownerID, taskID)
	if !p.IsDoc() {
		return nil, ErrNotFound
	}
	snap, err := s.ds.Get(ctx, p)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.log.Error("get task failed", zap.String("owner_id", ownerID), zap.String("task_id", taskID), zap.Error(err))
		return nil, apperr.FromStore(err, "Failed to load task.")
	}
	var t models.Task
	if err := snap.DataTo(&t); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to load task.", err)
	}
	return &t, nil
}

// UpdateStatus sets the task's status and appends a history record in one
// batch. from is recorded as given; any transition is allowed.
func (s *Service) UpdateStatus(ctx context.Context, ownerID, taskID, from, to string) error {
	fromSt := models.TaskStatus(normalize.Token(from))
	toSt := models.TaskStatus(normalize.Token(to))
	if !fromSt.IsValid() || !toSt.IsValid() {
		return ErrInvalidStatus
	}
	if _, err := s.Get(ctx, ownerID, taskID); err != nil {
		return err
	}

	b := s.ds.Batch()
	b.Update(paths.Todo(ownerID, taskID), docstore.Fields{
		"status":     string(toSt),
		"updated_at": docstore.ServerTimestamp,
	})
	b.Add(paths.TodoHistory(ownerID, taskID), historyFields(&fromSt, toSt))
	err := b.Commit(ctx)
	s.m.Write("task", "status", err)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		s.log.Error("update task status failed",
			zap.String("owner_id", ownerID),
			zap.String("task_id", taskID),
			zap.String("to", string(toSt)),
			zap.Error(err))
		return apperr.FromStore(err, "Failed to update task status.")
	}
	return nil
}

// History returns the task's status changes, oldest first.
func (s *Service) History(ctx context.Context, ownerID, taskID string) ([]models.StatusChange, error) {
	coll := paths.TodoHistory(ownerID, taskID)
	if !coll.IsCollection() {
		return nil, ErrNotFound
	}
	snaps, err := s.ds.Query(ctx, docstore.From(coll).OrderBy("changed_at", docstore.Asc))
	if err != nil {
		s.log.Error("load task history failed", zap.String("owner_id", ownerID), zap.String("task_id", taskID), zap.Error(err))
		return nil, apperr.FromStore(err, "Failed to load task history.")
	}
	out := make([]models.StatusChange, 0, len(snaps))
	for _, sn := range snaps {
		var c models.StatusChange
		if err := sn.DataTo(&c); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "Failed to load task history.", err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Delete removes the task and its history in one batch.
func (s *Service) Delete(ctx context.Context, ownerID, taskID string) error {
	if _, err := s.Get(ctx, ownerID, taskID); err != nil {
		return err
	}
	history, err := s.ds.Query(ctx, docstore.From(paths.TodoHistory(ownerID, taskID)))
	if err != nil {
		return apperr.FromStore(err, "Failed to delete task.")
	}

	b := s.ds.Batch()
	for _, h := range history {
		b.Delete(h.Path)
	}
	b.Delete(paths.Todo(ownerID, taskID))
	err = b.Commit(ctx)
	s.m.Write("task", "delete", err)
	if err != nil {
		s.log.Error("delete task failed", zap.String("owner_id", ownerID), zap.String("task_id", taskID), zap.Error(err))
		return apperr.FromStore(err, "Failed to delete task.")
	}
	return nil
}

// Package categories manages a user's income and expense categories under
// users/{uid}/categories.
package categories

import (
	"context"
	"errors"

	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/store/paths"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/apperr"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/docstore"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/metrics"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/system/normalize"
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.uber.org/zap"
)

var (
	ErrNameRequired = apperr.New(apperr.Validation, "Category name is required.")
	ErrInvalidType  = apperr.New(apperr.Validation, "Please choose a valid category type.")
	ErrInvalidState = apperr.New(apperr.Validation, "Please choose a valid category status.")
	ErrDuplicate    = apperr.New(apperr.Validation, "A category with this name already exists.")
	ErrNotFound     = apperr.New(apperr.NotFound, "Category not found.")
)

// Default is a category seeded for every new profile. ID is fixed so
// that provisioning the same owner twice rewrites one set instead of
// adding a second.
type Default struct {
	ID   string
	Name string
	Type models.CategoryType
	Icon models.Icon
}

// Defaults are written in the same batch as a new profile.
var Defaults = []Default{
	{ID: "default-food", Name: "Food", Type: models.TypeExpense, Icon: models.IconFood},
	{ID: "default-transport", Name: "Transport", Type: models.TypeExpense, Icon: models.IconTransport},
	{ID: "default-salary", Name: "Salary", Type: models.TypeIncome, Icon: models.IconSalary},
}

// Fields returns the stored document for a new active category.
func Fields(name string, t models.CategoryType, icon models.Icon, color models.Color) docstore.Fields {
	if color == "" {
		color = models.ColorDefault
	}
	return docstore.Fields{
		"name":       name,
		"name_ci":    text.Fold(name),
		"type":       string(t),
		"icon":       string(icon),
		"color":      string(color),
		"status":     string(models.CategoryActive),
		"created_at": docstore.ServerTimestamp,
		"updated_at": docstore.ServerTimestamp,
	}
}

// NewCategory is the input to Add.
type NewCategory struct {
	Name  string
	Type  string
	Icon  string
	Color string
}

// CategoryUpdate carries the fields to change; nil means unchanged.
type CategoryUpdate struct {
	Name   *string
	Type   *string
	Icon   *string
	Color  *string
	Status *string
}

type Service struct {
	ds  docstore.Store
	log *zap.Logger
	m   *metrics.Metrics
}

func New(ds docstore.Store, logger *zap.Logger, m *metrics.Metrics) *Service {
	return &Service{ds: ds, log: logger, m: m}
}

// Add inserts an active category after checking that no active category
// of the owner already uses the name. The check and the insert are not
// isolated from concurrent adds.
func (s *Service) Add(ctx context.Context, ownerID string, in NewCategory) (*models.Category, error) {
	name := normalize.Name(in.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	t, ok := models.ParseCategoryType(in.Type)
	if !ok {
		return nil, ErrInvalidType
	}

	taken, err := s.nameTaken(ctx, ownerID, name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrDuplicate
	}

	icon := models.ParseIcon(in.Icon)
	color := models.ParseColor(in.Color)
	id, err := s.ds.Add(ctx, paths.Categories(ownerID), Fields(name, t, icon, color))
	s.m.Write("category", "add", err)
	if err != nil {
		s.log.Error("add category failed", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, apperr.FromStore(err, "Failed to add category.")
	}
	return s.Get(ctx, ownerID, id)
}

// nameTaken reports whether an active category other than exceptID is
// named name.
func (s *Service) nameTaken(ctx context.Context, ownerID, name, exceptID string) (bool, error) {
	snaps, err := s.ds.Query(ctx, docstore.From(paths.Categories(ownerID)).
		Where("name", docstore.Eq, name).
		Where("status", docstore.Eq, string(models.CategoryActive)))
	if err != nil {
		s.log.Error("category name lookup failed", zap.String("owner_id", ownerID), zap.Error(err))
		return false, apperr.FromStore(err, "Failed to check category name.")
	}
	for _, sn := range snaps {
		if sn.ID() != exceptID {
			return true, nil
		}
	}
	return false, nil
}

// List returns every category of the owner, active and inactive.
func (s *Service) List(ctx context.Context, ownerID string) ([]models.Category, error) {
	return s.query(ctx, ownerID, docstore.From(paths.Categories(ownerID)).OrderBy("name_ci", docstore.Asc))
}

// ListActive returns the owner's active categories of type t, the choices
// offered when recording a transaction.
func (s *Service) ListActive(ctx context.Context, ownerID, t string) ([]models.Category, error) {
	ct, ok := models.ParseCategoryType(t)
	if !ok {
		return nil, ErrInvalidType
	}
	return s.query(ctx, ownerID, docstore.From(paths.Categories(ownerID)).
		Where("status", docstore.Eq, string(models.CategoryActive)).
		Where("type", docstore.Eq, string(ct)).
		OrderBy("name_ci", docstore.Asc))
}

func (s *Service) query(ctx context.Context, ownerID string, q docstore.Query) ([]models.Category, error) {
	snaps, err := s.ds.Query(ctx, q)
	if err != nil {
		s.log.Error("list categories failed", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, apperr.FromStore(err, "Failed to load categories.")
	}
	out := make([]models.Category, 0, len(snaps))
	for _, sn := range snaps {
		var c models.Category
		if err := sn.DataTo(&c); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "Failed to load categories.", err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Get loads one category of the owner.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*models.Category, error) {
	p := paths.Category(ownerID, id)
	if id == "" || !p.IsDoc() {
		return nil, ErrNotFound
	}
	snap, err := s.ds.Get(ctx, p)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.log.Error("get category failed", zap.String("owner_id", ownerID), zap.String("category_id", id), zap.Error(err))
		return nil, apperr.FromStore(err, "Failed to load category.")
	}
	var c models.Category
	if err := snap.DataTo(&c); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to load category.", err)
	}
	return &c, nil
}

// Update changes the supplied fields. Renaming an active category, or
// re-activating one, must not collide with another active name.
func (s *Service) Update(ctx context.Context, ownerID, id string, up CategoryUpdate) (*models.Category, error) {
	cur, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	f := docstore.Fields{"updated_at": docstore.ServerTimestamp}
	name, status := cur.Name, cur.Status
	if up.Name != nil {
		name = normalize.Name(*up.Name)
		if name == "" {
			return nil, ErrNameRequired
		}
		f["name"] = name
		f["name_ci"] = text.Fold(name)
	}
	if up.Type != nil {
		t, ok := models.ParseCategoryType(*up.Type)
		if !ok {
			return nil, ErrInvalidType
		}
		f["type"] = string(t)
	}
	if up.Icon != nil {
		f["icon"] = string(models.ParseIcon(*up.Icon))
	}
	if up.Color != nil {
		f["color"] = string(models.ParseColor(*up.Color))
	}
	if up.Status != nil {
		st := models.CategoryStatus(normalize.Token(*up.Status))
		if !st.IsValid() {
			return nil, ErrInvalidState
		}
		status = st
		f["status"] = string(st)
	}

	renamed := name != cur.Name
	reactivated := status == models.CategoryActive && !cur.Active()
	if status == models.CategoryActive && (renamed || reactivated) {
		taken, err := s.nameTaken(ctx, ownerID, name, id)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, ErrDuplicate
		}
	}

	err = s.ds.Update(ctx, paths.Category(ownerID, id), f)
	s.m.Write("category", "update", err)
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		s.log.Error("update category failed", zap.String("owner_id", ownerID), zap.String("category_id", id), zap.Error(err))
		return nil, apperr.FromStore(err, "Failed to update category.")
	}
	return s.Get(ctx, ownerID, id)
}

// Deactivate soft-deletes a category. Existing transactions keep their
// reference and the name becomes available again.
func (s *Service) Deactivate(ctx context.Context, ownerID, id string) error {
	inactive := string(models.CategoryInactive)
	_, err := s.Update(ctx, ownerID, id, CategoryUpdate{Status: &inactive})
	return err
}

// Delete removes the category document.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	err := s.ds.Delete(ctx, paths.Category(ownerID, id))
	s.m.Write("category", "delete", err)
	if err != nil {
		s.log.Error("delete category failed", zap.String("owner_id", ownerID), zap.String("category_id", id), zap.Error(err))
		return apperr.FromStore(err, "Failed to delete category.")
	}
	return nil
}

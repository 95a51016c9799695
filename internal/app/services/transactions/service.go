// Package transactions records money movements under
// users/{uid}/transactions. Every transaction references an active
// category of the same owner and type.
package transactions

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
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
	ErrInvalidAmount   = apperr.New(apperr.Validation, "Please enter a valid amount.")
	ErrInvalidDate     = apperr.New(apperr.Validation, "Please enter a valid date.")
	ErrInvalidType     = apperr.New(apperr.Validation, "Please choose a valid transaction type.")
	ErrInvalidCategory = apperr.New(apperr.Validation, "Invalid category")
	ErrInvalidPayment  = apperr.New(apperr.Validation, "Please choose a valid payment method.")
	ErrDescriptionText = apperr.New(apperr.Validation, "Description cannot contain text between < and >.")
	ErrNotFound        = apperr.New(apperr.NotFound, "Transaction not found.")
)

// NewTransaction is the input to Add. Amount and Date arrive as text.
type NewTransaction struct {
	Amount        string
	Type          string
	CategoryID    string
	Description   string
	PaymentMethod string
	Date          string
}

type Service struct {
	ds  docstore.Store
	log *zap.Logger
	m   *metrics.Metrics
}

func New(ds docstore.Store, logger *zap.Logger, m *metrics.Metrics) *Service {
	return &Service{ds: ds, log: logger, m: m}
}

// ParseAmount converts user text such as "42.50" or "1,250.00" to a
// positive finite number.
func ParseAmount(s string) (float64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// ParseDate accepts YYYY-MM-DD (midnight UTC) or RFC 3339.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, ErrInvalidDate
}

// Add validates the input and the category reference, then writes the
// transaction. Nothing is written when validation fails.
func (s *Service) Add(ctx context.Context, ownerID string, in NewTransaction) (*models.Transaction, error) {
	amount, err := ParseAmount(in.Amount)
	if err != nil {
		return nil, err
	}
	date, err := ParseDate(in.Date)
	if err != nil {
		return nil, err
	}
	t, ok := models.ParseCategoryType(in.Type)
	if !ok {
		return nil, ErrInvalidType
	}
	pm := models.PaymentCash
	if v := normalize.Token(in.PaymentMethod); v != "" {
		pm = models.PaymentMethod(v)
		if !pm.IsValid() {
			return nil, ErrInvalidPayment
		}
	}

	desc, err := htmlsanitize.Check(in.Description)
	if err != nil {
		return nil, ErrDescriptionText
	}

	if err := s.checkCategory(ctx, ownerID, strings.TrimSpace(in.CategoryID), t); err != nil {
		return nil, err
	}

	id, err := s.ds.Add(ctx, paths.Transactions(ownerID), docstore.Fields{
		"amount":         amount,
		"type":           string(t),
		"category_id":    strings.TrimSpace(in.CategoryID),
		"description":    desc,
		"payment_method": string(pm),
		"date":           date,
		"created_at":     docstore.ServerTimestamp,
		"updated_at":     docstore.ServerTimestamp,
	})
	s.m.Write("transaction", "add", err)
	if err != nil {
		s.log.Error("add transaction failed", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, apperr.FromStore(err, "Failed to add transaction.")
	}
	return s.get(ctx, ownerID, id)
}

// checkCategory requires categoryID to name an active category of the
// owner whose type matches the transaction type.
func (s *Service) checkCategory(ctx context.Context, ownerID, categoryID string, t models.CategoryType) error {
	p := paths.Category(ownerID, categoryID)
	if !p.IsDoc() {
		return ErrInvalidCategory
	}
	snap, err := s.ds.Get(ctx, p)
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrInvalidCategory
	}
	if err != nil {
		s.log.Error("category lookup failed", zap.String("owner_id", ownerID), zap.String("category_id", categoryID), zap.Error(err))
		return apperr.FromStore(err, "Failed to add transaction.")
	}
	var c models.Category
	if err := snap.DataTo(&c); err != nil {
		return apperr.Wrap(apperr.Internal, "Failed to add transaction.", err)
	}
	if !c.Active() || c.Type != t {
		return ErrInvalidCategory
	}
	return nil
}

func (s *Service) get(ctx context.Context, ownerID, id string) (*models.Transaction, error) {
	snap, err := s.ds.Get(ctx, paths.Transaction(ownerID, id))
	if errors.Is(err, docstore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, apperr.FromStore(err, "Failed to load transaction.")
	}
	var tx models.Transaction
	if err := snap.DataTo(&tx); err != nil {
		return nil, apperr.Wrap(apperr.Internal, "Failed to load transaction.", err)
	}
	return &tx, nil
}

// List returns the owner's transactions, most recent date first.
func (s *Service) List(ctx context.Context, ownerID string) ([]models.Transaction, error) {
	snaps, err := s.ds.Query(ctx, docstore.From(paths.Transactions(ownerID)).
		OrderBy("date", docstore.Desc).
		OrderBy("created_at", docstore.Desc))
	if err != nil {
		s.log.Error("list transactions failed", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, apperr.FromStore(err, "Failed to load transactions.")
	}
	out := make([]models.Transaction, 0, len(snaps))
	for _, sn := range snaps {
		var tx models.Transaction
		if err := sn.DataTo(&tx); err != nil {
			return nil, apperr.Wrap(apperr.Internal, "Failed to load transactions.", err)
		}
		out = append(out, tx)
	}
	return out, nil
}

// Delete removes one transaction.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	p := paths.Transaction(ownerID, id)
	if !p.IsDoc() {
		return ErrNotFound
	}
	if _, err := s.get(ctx, ownerID, id); err != nil {
		return err
	}
	err := s.ds.Delete(ctx, p)
	s.m.Write("transaction", "delete", err)
	if err != nil {
		s.log.Error("delete transaction failed", zap.String("owner_id", ownerID), zap.String("transaction_id", id), zap.Error(err))
		return apperr.FromStore(err, "Failed to delete transaction.")
	}
	return nil
}

// Summarize totals the owner's transactions by type. Balance is income
// minus expenses.
func (s *Service) Summarize(ctx context.Context, ownerID string) (models.Summary, error) {
	list, err := s.List(ctx, ownerID)
	if err != nil {
		return models.Summary{}, err
	}
	return Totals(list), nil
}

// Totals folds transactions into a Summary.
func Totals(list []models.Transaction) models.Summary {
	var sum models.Summary
	for _, tx := range list {
		switch tx.Type {
		case models.TypeIncome:
			sum.Income += tx.Amount
		case models.TypeExpense:
			sum.Expenses += tx.Amount
		case models.TypeInvestment:
			sum.Investments += tx.Amount
		case models.TypeSavings:
			sum.Savings += tx.Amount
		}
		sum.Count++
	}
	sum.Balance = sum.Income - sum.Expenses
	return sum
}

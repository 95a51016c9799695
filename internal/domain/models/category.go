// internal/domain/models/category.go
package models

import (
	"strings"
	"time"
)

// CategoryType is the kind of money flow a category classifies.
type CategoryType string

const (
	TypeExpense    CategoryType = "expense"
	TypeIncome     CategoryType = "income"
	TypeInvestment CategoryType = "investment"
	TypeSavings    CategoryType = "savings"
)

// CategoryTypes lists every valid type in display order.
var CategoryTypes = []CategoryType{TypeExpense, TypeIncome, TypeInvestment, TypeSavings}

func (t CategoryType) IsValid() bool {
	switch t {
	case TypeExpense, TypeIncome, TypeInvestment, TypeSavings:
		return true
	}
	return false
}

// ParseCategoryType trims and lower-cases s and reports whether it names a type.
func ParseCategoryType(s string) (CategoryType, bool) {
	t := CategoryType(strings.ToLower(strings.TrimSpace(s)))
	return t, t.IsValid()
}

// CategoryStatus marks soft deletion.
type CategoryStatus string

const (
	CategoryActive   CategoryStatus = "active"
	CategoryInactive CategoryStatus = "inactive"
)

func (s CategoryStatus) IsValid() bool {
	return s == CategoryActive || s == CategoryInactive
}

// Category lives at users/{uid}/categories/{id}.
type Category struct {
	ID        string         `bson:"_id" json:"id"`
	Name      string         `bson:"name" json:"name"`
	NameCI    string         `bson:"name_ci" json:"-"`
	Type      CategoryType   `bson:"type" json:"type"`
	Icon      Icon           `bson:"icon" json:"icon"`
	Color     Color          `bson:"color,omitempty" json:"color,omitempty"`
	Status    CategoryStatus `bson:"status" json:"status"`
	CreatedAt time.Time      `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time      `bson:"updated_at" json:"updated_at"`
}

// Active reports whether the category can be picked for new transactions.
func (c Category) Active() bool { return c.Status == CategoryActive }

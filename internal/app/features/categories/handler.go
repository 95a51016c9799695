// internal/app/features/categories/handler.go
package categories

import (
	"github.com/DeveloperTest007/monthly-money-tracker-web-app/internal/app/services/categories"
	"go.uber.org/zap"
)

// Handler owns the category endpoints of the signed-in user.
type Handler struct {
	Log        *zap.Logger
	Categories *categories.Service
}

func NewHandler(svc *categories.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		Categories: svc,
	}
}

// categoryRequest is the body of POST and PATCH. PATCH treats absent
// fields as unchanged.
type categoryRequest struct {
	Name   *string `json:"name"`
	Type   *string `json:"type"`
	Icon   *string `json:"icon"`
	Color  *string `json:"color"`
	Status *string `json:"status"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

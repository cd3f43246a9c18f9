package handler

import (
	"net/http"

	"github.com/iho/gotracker/internal/adapter/http/dto"
	"github.com/iho/gotracker/internal/domain"
)

// CategoryHandler serves the fixed category catalog.
type CategoryHandler struct {
	categories []dto.CategoryResponse
}

// NewCategoryHandler creates a new CategoryHandler.
func NewCategoryHandler() *CategoryHandler {
	return &CategoryHandler{categories: dto.CategoriesFromDomain(domain.Categories)}
}

// List returns the catalog in display order.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.categories)
}

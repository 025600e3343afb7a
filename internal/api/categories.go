package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/boardcamp/internal/db"
	"github.com/erazemk/boardcamp/internal/model"
	"github.com/erazemk/boardcamp/internal/store"
)

// CategoriesHandler handles category endpoints.
type CategoriesHandler struct {
	DB *db.Conn
}

type createCategoryRequest struct {
	Name string `json:"name" validate:"notblank"`
}

// List handles GET /categories.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	opts, err := listOptions(r.URL.Query())
	if err != nil {
		writeError(w, r, err, "list categories")
		return
	}

	categories, err := store.ListCategories(r.Context(), h.DB, opts)
	if err != nil {
		writeError(w, r, err, "list categories")
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	jsonResponse(w, http.StatusOK, categories)
}

// Create handles POST /categories. It answers 201 without a body.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err, "create category")
		return
	}

	category, err := store.CreateCategory(r.Context(), h.DB, req.Name)
	if err != nil {
		writeError(w, r, err, "create category")
		return
	}

	slog.Info("category created", "id", category.ID, "name", category.Name)
	w.WriteHeader(http.StatusCreated)
}

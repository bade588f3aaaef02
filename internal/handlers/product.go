package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/julioamancio/capone-orders/httpx"
	"github.com/julioamancio/capone-orders/internal/models"
	"github.com/julioamancio/capone-orders/internal/services"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

func NewProductHandler(catalog *services.CatalogService) *ProductHandler {
	return &ProductHandler{Catalog: catalog}
}

// List serves the menu. `q` filters by name/category substring and
// `available=1` hides unavailable items (the public storefront view).
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.Catalog.List()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_products", nil)
		return
	}
	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	onlyAvailable := r.URL.Query().Get("available") == "1"
	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if onlyAvailable && !p.Available {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Name), query) &&
			!strings.Contains(strings.ToLower(p.Category), query) {
			continue
		}
		filtered = append(filtered, p)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": filtered, "total": len(filtered)})
}

func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var draft models.Product
	if err := httpx.DecodeJSON(r, &draft); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	created, violations, err := h.Catalog.Create(draft)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "product_create_failed", nil)
		return
	}
	if !violations.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", violations)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodPut && r.Method != http.MethodPatch {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var p models.Product
	if err := httpx.DecodeJSON(r, &p); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	violations, err := h.Catalog.Update(p)
	if errors.Is(err, services.ErrProductNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "update_failed", nil)
		return
	}
	if !violations.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", violations)
		return
	}
	httpx.JSON(w, http.StatusOK, p)
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id := r.URL.Query().Get("id")
	if id == "" {
		id = r.FormValue("id")
	}
	if id == "" {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	err := h.Catalog.Delete(id)
	if errors.Is(err, services.ErrProductNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "delete_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"deleted": id})
}

// Reset restores the demo catalog. Local only; the remote copy keeps
// whatever it had.
func (h *ProductHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	products, err := h.Catalog.ResetToDefaults()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "reset_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": products, "total": len(products)})
}

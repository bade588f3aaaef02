package handlers

import (
	"net/http"

	"github.com/julioamancio/capone-orders/httpx"
	"github.com/julioamancio/capone-orders/internal/services"
)

// DeliveryFee is the flat checkout fee (R$). Display only: it is added on
// top of the cart total at checkout but never persisted into order totals.
const DeliveryFee = 5.00

type CartHandler struct {
	Cart    *services.CartService
	Catalog *services.CatalogService
}

func NewCartHandler(cart *services.CartService, catalog *services.CatalogService) *CartHandler {
	return &CartHandler{Cart: cart, Catalog: catalog}
}

// Get returns the cart with its derived totals and the checkout display
// amounts.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	lines, err := h.Cart.Lines()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_read_cart", nil)
		return
	}
	total, _ := h.Cart.Total()
	count, _ := h.Cart.Count()
	httpx.JSON(w, http.StatusOK, map[string]any{
		"items":       lines,
		"total":       total,
		"count":       count,
		"deliveryFee": DeliveryFee,
		"grandTotal":  total + DeliveryFee,
	})
}

// AddItem adds the identified product to the cart, merging on product id.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var input struct {
		ProductID string `json:"productId"`
	}
	if err := httpx.DecodeJSON(r, &input); err != nil || input.ProductID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	products, err := h.Catalog.List()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_products", nil)
		return
	}
	for _, p := range products {
		if p.ID == input.ProductID {
			lines, err := h.Cart.Add(p)
			if err != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "cart_write_failed", nil)
				return
			}
			httpx.JSON(w, http.StatusOK, map[string]any{"items": lines})
			return
		}
	}
	httpx.JSONError(w, http.StatusNotFound, "product_not_found", nil)
}

// RemoveItem drops the line identified by cart_id (query or form).
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	cartID := r.URL.Query().Get("cart_id")
	if cartID == "" {
		cartID = r.FormValue("cart_id")
	}
	if cartID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_cart_id", nil)
		return
	}
	lines, err := h.Cart.Remove(cartID)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "cart_write_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": lines})
}

// Clear empties the cart.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	if err := h.Cart.Clear(); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "cart_write_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

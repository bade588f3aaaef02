package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/julioamancio/capone-orders/auth"
	"github.com/julioamancio/capone-orders/httpx"
	"github.com/julioamancio/capone-orders/internal/models"
	"github.com/julioamancio/capone-orders/internal/services"
)

type OrderHandler struct {
	Orders *services.OrderService
}

func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{Orders: orders}
}

// Place turns the current cart into a pending order for the session user.
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	session, _ := auth.FromContext(r.Context())
	var input struct {
		Address       string `json:"address"`
		PaymentMethod string `json:"paymentMethod"`
	}
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if input.Address == "" {
		input.Address = "Endereço Padrão do Cliente"
	}
	if input.PaymentMethod == "" {
		input.PaymentMethod = "Cartão de Crédito"
	}
	user := models.User{ID: session.UserID, Name: session.Name, Email: session.Email, Role: session.Role}
	order, err := h.Orders.Place(user, input.Address, input.PaymentMethod)
	if errors.Is(err, services.ErrEmptyCart) {
		httpx.JSONError(w, http.StatusBadRequest, "cart_empty", nil)
		return
	}
	if err != nil {
		// The order may still exist in memory; report the persistence problem.
		httpx.JSONError(w, http.StatusInternalServerError, "order_persist_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

// List returns the session user's orders; admins can pass all=1 for the
// full list.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.FromContext(r.Context())
	var (
		orders []models.Order
		err    error
	)
	if session.Role == auth.RoleAdmin && r.URL.Query().Get("all") == "1" {
		orders, err = h.Orders.List()
	} else {
		orders, err = h.Orders.ListForUser(session.UserID)
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_orders", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": orders, "total": len(orders)})
}

// Board returns the kanban columns of non-archived orders.
func (h *OrderHandler) Board(w http.ResponseWriter, r *http.Request) {
	board, err := h.Orders.Board()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_orders", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, board)
}

// Move steps an order one status forward or back.
func (h *OrderHandler) Move(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var input struct {
		ID        string `json:"id"`
		Direction string `json:"direction"` // next | prev
	}
	if err := httpx.DecodeJSON(r, &input); err != nil || input.ID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if input.Direction != "next" && input.Direction != "prev" {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_direction", nil)
		return
	}
	order, err := h.Orders.Move(input.ID, input.Direction == "next")
	if errors.Is(err, services.ErrOrderNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "order_persist_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

// Cancel moves an order to the terminal cancelled state.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var input struct {
		ID string `json:"id"`
	}
	if err := httpx.DecodeJSON(r, &input); err != nil || input.ID == "" {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	order, err := h.Orders.Cancel(input.ID)
	if errors.Is(err, services.ErrOrderNotFound) {
		httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
		return
	}
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "order_persist_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

// Archive flags all completed orders as archived.
func (h *OrderHandler) Archive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	count, err := h.Orders.ArchiveCompleted()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "order_persist_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]int{"archived": count})
}

// History returns archived orders inside the requested time window with
// their aggregate revenue.
func (h *OrderHandler) History(w http.ResponseWriter, r *http.Request) {
	filter, ok := services.ParseHistoryFilter(r.URL.Query().Get("filter"))
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_filter", nil)
		return
	}
	orders, total, err := h.Orders.History(filter, time.Now())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_orders", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": orders, "count": len(orders), "revenue": total, "filter": string(filter)})
}

package services

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julioamancio/capone-orders/internal/models"
	"github.com/julioamancio/capone-orders/internal/store"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrEmptyCart     = errors.New("cart is empty")
)

// HistoryFilter selects the time window of the sales history.
type HistoryFilter string

const (
	FilterToday HistoryFilter = "today"
	FilterWeek  HistoryFilter = "week"
	FilterMonth HistoryFilter = "month"
	FilterAll   HistoryFilter = "all"
)

func ParseHistoryFilter(s string) (HistoryFilter, bool) {
	switch HistoryFilter(s) {
	case FilterToday, FilterWeek, FilterMonth, FilterAll:
		return HistoryFilter(s), true
	case "":
		return FilterAll, true
	}
	return "", false
}

// OrderService owns the list of placed orders and their lifecycle.
type OrderService struct {
	Store *store.Store
	Cart  *CartService

	// mu serializes order mutations. Lock order is orders then cart;
	// cart methods never take the orders lock.
	mu sync.Mutex
}

func NewOrderService(s *store.Store, cart *CartService) *OrderService {
	return &OrderService{Store: s, Cart: cart}
}

// List returns all orders, most recent first (storage order).
func (o *OrderService) List() ([]models.Order, error) {
	var orders []models.Order
	if err := o.Store.Read(store.KeyOrders, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// ListForUser returns the given user's orders.
func (o *OrderService) ListForUser(userID string) ([]models.Order, error) {
	orders, err := o.List()
	if err != nil {
		return nil, err
	}
	mine := make([]models.Order, 0, len(orders))
	for _, ord := range orders {
		if ord.UserID == userID {
			mine = append(mine, ord)
		}
	}
	return mine, nil
}

// Place snapshots the cart into a new pending order, prepends it, persists
// and clears the cart. The total is the cart total at this instant; the
// delivery fee shown at checkout is not part of it.
func (o *OrderService) Place(user models.User, address, paymentMethod string) (models.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	// Hold the cart lock too, so a concurrent add cannot land between the
	// snapshot and the clear.
	o.Cart.mu.Lock()
	defer o.Cart.mu.Unlock()
	lines, err := o.Cart.lines()
	if err != nil {
		return models.Order{}, err
	}
	if len(lines) == 0 {
		return models.Order{}, ErrEmptyCart
	}
	items := make([]models.CartLine, len(lines))
	copy(items, lines)
	order := models.Order{
		ID:            newOrderID(),
		UserID:        user.ID,
		UserName:      user.Name,
		Items:         items,
		Total:         models.CartTotal(items),
		Status:        models.StatusPending,
		CreatedAt:     time.Now(),
		Address:       address,
		PaymentMethod: paymentMethod,
	}
	orders, err := o.List()
	if err != nil {
		return models.Order{}, err
	}
	next := append([]models.Order{order}, orders...)
	if err := o.Store.Write(store.KeyOrders, next); err != nil {
		return models.Order{}, err
	}
	if err := o.Cart.clear(); err != nil {
		return order, err
	}
	return order, nil
}

// Move steps the order one status forward or back along the flow, clamped
// at both ends. Cancelled orders are outside the flow and stay put.
func (o *OrderService) Move(orderID string, forward bool) (models.Order, error) {
	return o.mutate(orderID, func(ord *models.Order) {
		if forward {
			ord.Status = ord.Status.Next()
		} else {
			ord.Status = ord.Status.Prev()
		}
	})
}

// Cancel puts the order into the terminal cancelled state. This is the only
// way in; the board stepping never reaches it.
func (o *OrderService) Cancel(orderID string) (models.Order, error) {
	return o.mutate(orderID, func(ord *models.Order) {
		ord.Status = models.StatusCancelled
	})
}

func (o *OrderService) mutate(orderID string, fn func(*models.Order)) (models.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	orders, err := o.List()
	if err != nil {
		return models.Order{}, err
	}
	for i := range orders {
		if orders[i].ID == orderID {
			fn(&orders[i])
			if werr := o.Store.Write(store.KeyOrders, orders); werr != nil {
				return orders[i], werr
			}
			return orders[i], nil
		}
	}
	return models.Order{}, ErrOrderNotFound
}

// ArchiveCompleted flags every completed order as archived ("fechar dia").
// Idempotent; other statuses are untouched.
func (o *OrderService) ArchiveCompleted() (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	orders, err := o.List()
	if err != nil {
		return 0, err
	}
	archived := 0
	for i := range orders {
		if orders[i].Status == models.StatusCompleted && !orders[i].Archived {
			orders[i].Archived = true
			archived++
		}
	}
	if archived == 0 {
		return 0, nil
	}
	if err := o.Store.Write(store.KeyOrders, orders); err != nil {
		return archived, err
	}
	return archived, nil
}

// Board groups non-archived orders per active status column.
func (o *OrderService) Board() (map[models.OrderStatus][]models.Order, error) {
	orders, err := o.List()
	if err != nil {
		return nil, err
	}
	board := make(map[models.OrderStatus][]models.Order, 4)
	for _, st := range models.ActiveStatuses() {
		board[st] = []models.Order{}
	}
	for _, ord := range orders {
		if ord.Archived {
			continue
		}
		if _, ok := board[ord.Status]; ok {
			board[ord.Status] = append(board[ord.Status], ord)
		}
	}
	return board, nil
}

// History returns archived orders inside the window relative to now, plus
// their aggregate revenue.
func (o *OrderService) History(filter HistoryFilter, now time.Time) ([]models.Order, float64, error) {
	orders, err := o.List()
	if err != nil {
		return nil, 0, err
	}
	matched := make([]models.Order, 0, len(orders))
	var total float64
	for _, ord := range orders {
		if !ord.Archived {
			continue
		}
		if !inWindow(ord.CreatedAt, filter, now) {
			continue
		}
		matched = append(matched, ord)
		total += ord.Total
	}
	return matched, total, nil
}

func inWindow(created time.Time, filter HistoryFilter, now time.Time) bool {
	switch filter {
	case FilterToday:
		y1, m1, d1 := created.Date()
		y2, m2, d2 := now.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	case FilterWeek:
		return !created.Before(now.Add(-7 * 24 * time.Hour))
	case FilterMonth:
		return created.Month() == now.Month() && created.Year() == now.Year()
	default:
		return true
	}
}

// newOrderID builds a short human-readable id like ORD-3F7A21.
func newOrderID() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return "ORD-" + raw[:6]
}

package models

import "time"

type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusDelivery  OrderStatus = "delivery"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// statusFlow is the forward sequence the board stepping moves along.
// Cancelled sits outside the flow and is only reachable by an explicit
// cancel action.
var statusFlow = []OrderStatus{StatusPending, StatusPreparing, StatusDelivery, StatusCompleted}

// ActiveStatuses returns the board columns in display order.
func ActiveStatuses() []OrderStatus {
	flow := make([]OrderStatus, len(statusFlow))
	copy(flow, statusFlow)
	return flow
}

// Valid reports whether s is a known status value.
func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPending, StatusPreparing, StatusDelivery, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Next advances one step along the flow, clamped at completed.
// A status outside the flow (cancelled) is returned unchanged.
func (s OrderStatus) Next() OrderStatus {
	return s.step(1)
}

// Prev moves one step back along the flow, clamped at pending.
func (s OrderStatus) Prev() OrderStatus {
	return s.step(-1)
}

func (s OrderStatus) step(delta int) OrderStatus {
	idx := -1
	for i, st := range statusFlow {
		if st == s {
			idx = i
			break
		}
	}
	if idx < 0 {
		return s
	}
	idx += delta
	if idx < 0 {
		idx = 0
	}
	if idx >= len(statusFlow) {
		idx = len(statusFlow) - 1
	}
	return statusFlow[idx]
}

// Order is an immutable record of a placed cart. After placement only the
// status and the archived flag ever change; orders are never deleted.
type Order struct {
	ID            string      `json:"id"`
	UserID        string      `json:"userId"`
	UserName      string      `json:"userName"`
	Items         []CartLine  `json:"items"`
	Total         float64     `json:"total"`
	Status        OrderStatus `json:"status"`
	CreatedAt     time.Time   `json:"createdAt"`
	Address       string      `json:"address"`
	PaymentMethod string      `json:"paymentMethod"`
	Archived      bool        `json:"archived"`
}

package services

import (
	"sync"

	"github.com/google/uuid"

	"github.com/julioamancio/capone-orders/internal/models"
	"github.com/julioamancio/capone-orders/internal/store"
)

// CartService owns the selected lines. One cart per process, matching the
// single-session store it persists to.
type CartService struct {
	Store *store.Store

	// mu serializes the read-modify-write cycles; handlers run concurrently.
	mu sync.Mutex
}

func NewCartService(s *store.Store) *CartService { return &CartService{Store: s} }

// Lines returns the current cart contents.
func (c *CartService) Lines() ([]models.CartLine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lines()
}

func (c *CartService) lines() ([]models.CartLine, error) {
	var lines []models.CartLine
	if err := c.Store.Read(store.KeyCart, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Add merges on product id: an existing line gains quantity 1, otherwise a
// new line with a fresh cart id is appended.
func (c *CartService) Add(p models.Product) ([]models.CartLine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines, err := c.lines()
	if err != nil {
		return nil, err
	}
	merged := false
	for i := range lines {
		if lines[i].ID == p.ID {
			lines[i].Quantity++
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, models.CartLine{Product: p, CartID: uuid.NewString(), Quantity: 1})
	}
	if err := c.Store.Write(store.KeyCart, lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Remove drops the line with the given cart id; absent ids are a no-op.
func (c *CartService) Remove(cartID string) ([]models.CartLine, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines, err := c.lines()
	if err != nil {
		return nil, err
	}
	next := make([]models.CartLine, 0, len(lines))
	for _, l := range lines {
		if l.CartID == cartID {
			continue
		}
		next = append(next, l)
	}
	if err := c.Store.Write(store.KeyCart, next); err != nil {
		return nil, err
	}
	return next, nil
}

// Clear empties the cart (logout and successful order placement).
func (c *CartService) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clear()
}

func (c *CartService) clear() error {
	return c.Store.Write(store.KeyCart, []models.CartLine{})
}

// Total is the sum of line price times quantity, recomputed on every read.
func (c *CartService) Total() (float64, error) {
	lines, err := c.Lines()
	if err != nil {
		return 0, err
	}
	return models.CartTotal(lines), nil
}

// Count is the sum of quantities.
func (c *CartService) Count() (int, error) {
	lines, err := c.Lines()
	if err != nil {
		return 0, err
	}
	return models.CartCount(lines), nil
}

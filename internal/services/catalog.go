package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julioamancio/capone-orders/internal/models"
	"github.com/julioamancio/capone-orders/internal/store"
	"github.com/julioamancio/capone-orders/validation"
)

var ErrProductNotFound = errors.New("product not found")

// CatalogSyncer pushes the full next catalog to the remote copy. Failures
// are logged and swallowed: the local write already succeeded.
type CatalogSyncer interface {
	Sync(ctx context.Context, products []models.Product) error
}

// CatalogService owns the list of sellable items.
type CatalogService struct {
	Store  *store.Store
	Syncer CatalogSyncer

	// SyncTimeout bounds each fire-and-forget sync call.
	SyncTimeout time.Duration

	// mu serializes catalog mutations.
	mu sync.Mutex
}

func NewCatalogService(s *store.Store, syncer CatalogSyncer) *CatalogService {
	return &CatalogService{Store: s, Syncer: syncer, SyncTimeout: 30 * time.Second}
}

// List returns the current catalog, seeding defaults when nothing is stored.
func (c *CatalogService) List() ([]models.Product, error) {
	var products []models.Product
	if err := c.Store.Read(store.KeyProducts, &products); err != nil {
		return nil, err
	}
	if products == nil {
		products = models.DefaultProducts()
	}
	return products, nil
}

// Create validates the draft, assigns a fresh id, appends, persists and
// kicks off a best-effort remote sync.
func (c *CatalogService) Create(draft models.Product) (models.Product, validation.Violations, error) {
	v := validation.Violations{}
	validation.Required("name", draft.Name, v)
	validation.PositiveFloat("price", draft.Price, v)
	if !v.Empty() {
		return models.Product{}, v, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	products, err := c.List()
	if err != nil {
		return models.Product{}, nil, err
	}
	draft.ID = uuid.NewString()
	next := append(products, draft)
	if err := c.Store.Write(store.KeyProducts, next); err != nil {
		return models.Product{}, nil, err
	}
	c.syncRemote(next)
	return draft, nil, nil
}

// Update replaces the product with the matching id in place.
func (c *CatalogService) Update(p models.Product) (validation.Violations, error) {
	v := validation.Violations{}
	validation.Required("id", p.ID, v)
	validation.Required("name", p.Name, v)
	validation.PositiveFloat("price", p.Price, v)
	if !v.Empty() {
		return v, nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	products, err := c.List()
	if err != nil {
		return nil, err
	}
	found := false
	for i := range products {
		if products[i].ID == p.ID {
			products[i] = p
			found = true
			break
		}
	}
	if !found {
		return nil, ErrProductNotFound
	}
	if err := c.Store.Write(store.KeyProducts, products); err != nil {
		return nil, err
	}
	c.syncRemote(products)
	return nil, nil
}

// Delete removes the product with the given id. Confirmation is the
// caller's concern.
func (c *CatalogService) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	products, err := c.List()
	if err != nil {
		return err
	}
	next := make([]models.Product, 0, len(products))
	found := false
	for _, p := range products {
		if p.ID == id {
			found = true
			continue
		}
		next = append(next, p)
	}
	if !found {
		return ErrProductNotFound
	}
	if err := c.Store.Write(store.KeyProducts, next); err != nil {
		return err
	}
	c.syncRemote(next)
	return nil
}

// ResetToDefaults replaces the catalog with the demo seed. Local only: the
// remote copy is deliberately not touched.
func (c *CatalogService) ResetToDefaults() ([]models.Product, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	defaults := models.DefaultProducts()
	if err := c.Store.Write(store.KeyProducts, defaults); err != nil {
		return nil, err
	}
	return defaults, nil
}

// syncRemote pushes the catalog in its own goroutine. Overlapping syncs run
// independently; the remote ends up with whichever response lands last.
func (c *CatalogService) syncRemote(products []models.Product) {
	if c.Syncer == nil {
		return
	}
	snapshot := make([]models.Product, len(products))
	copy(snapshot, products)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), c.SyncTimeout)
		defer cancel()
		if err := c.Syncer.Sync(ctx, snapshot); err != nil {
			log.Printf("[catalog] remote sync failed: %v", err)
		}
	}()
}

package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/julioamancio/capone-orders/internal/models"
	"github.com/julioamancio/capone-orders/internal/store"
)

// RestoreResult is the structured outcome of an import.
type RestoreResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// BackupService snapshots every persisted collection into one versioned
// document and reconstitutes them from one. It never touches files itself;
// the caller decides where the document goes.
type BackupService struct {
	Store *store.Store
}

func NewBackupService(s *store.Store) *BackupService { return &BackupService{Store: s} }

// Export reads the current state of all collections and wraps it with a
// timestamp and the fixed format version.
func (b *BackupService) Export(now time.Time) (models.BackupDocument, error) {
	doc := models.BackupDocument{
		Timestamp: now.UTC().Format(time.RFC3339),
		Version:   models.BackupVersion,
	}
	doc.Data.Products = []models.Product{}
	doc.Data.Orders = []models.Order{}
	doc.Data.HeroImages = []string{}
	doc.Data.Cart = []models.CartLine{}
	if err := b.Store.Read(store.KeyProducts, &doc.Data.Products); err != nil {
		return doc, err
	}
	if err := b.Store.Read(store.KeyOrders, &doc.Data.Orders); err != nil {
		return doc, err
	}
	if err := b.Store.Read(store.KeyHeroImages, &doc.Data.HeroImages); err != nil {
		return doc, err
	}
	if err := b.Store.Read(store.KeyCart, &doc.Data.Cart); err != nil {
		return doc, err
	}
	if logo, ok := b.Store.ReadString(store.KeyLogo); ok {
		doc.Data.Logo = &logo
	}
	return doc, nil
}

// FileName names the downloadable export, e.g. capone_backup_2026-08-29T12-00-00.json.
func (b *BackupService) FileName(now time.Time) string {
	stamp := now.UTC().Format("2006-01-02T15-04-05")
	return "capone_backup_" + stamp + ".json"
}

// importShape keeps collection payloads raw so they can be validated and
// staged before any store write happens.
type importShape struct {
	Data *struct {
		Products   json.RawMessage `json:"products"`
		Orders     json.RawMessage `json:"orders"`
		HeroImages json.RawMessage `json:"heroImages"`
		Cart       json.RawMessage `json:"cart"`
		Logo       *string         `json:"logo"`
	} `json:"data"`
}

// Import validates the document and overwrites the stores with its values.
// Validation failures report a reason and perform zero writes. Commit is
// per key; the first storage failure is surfaced as a partial restore.
func (b *BackupService) Import(raw []byte) RestoreResult {
	var doc importShape
	if err := json.Unmarshal(raw, &doc); err != nil {
		return RestoreResult{Success: false, Message: "invalid backup file: not valid JSON"}
	}
	if doc.Data == nil {
		return RestoreResult{Success: false, Message: "invalid backup file: missing data payload"}
	}
	if !isJSONArray(doc.Data.Products) {
		return RestoreResult{Success: false, Message: "invalid backup file: products must be an array"}
	}

	// Stage every collection before the first write.
	var products []models.Product
	if err := json.Unmarshal(doc.Data.Products, &products); err != nil {
		return RestoreResult{Success: false, Message: "invalid backup file: malformed products"}
	}
	orders := []models.Order{}
	if len(doc.Data.Orders) > 0 {
		if err := json.Unmarshal(doc.Data.Orders, &orders); err != nil {
			return RestoreResult{Success: false, Message: "invalid backup file: malformed orders"}
		}
	}
	heroImages := []string{}
	if len(doc.Data.HeroImages) > 0 {
		if err := json.Unmarshal(doc.Data.HeroImages, &heroImages); err != nil {
			return RestoreResult{Success: false, Message: "invalid backup file: malformed hero images"}
		}
	}
	cart := []models.CartLine{}
	if len(doc.Data.Cart) > 0 {
		if err := json.Unmarshal(doc.Data.Cart, &cart); err != nil {
			return RestoreResult{Success: false, Message: "invalid backup file: malformed cart"}
		}
	}

	commits := []struct {
		key   string
		value any
	}{
		{store.KeyProducts, products},
		{store.KeyOrders, orders},
		{store.KeyHeroImages, heroImages},
		{store.KeyCart, cart},
	}
	for _, c := range commits {
		if err := b.Store.Write(c.key, c.value); err != nil {
			return RestoreResult{Success: false, Message: fmt.Sprintf("restore incomplete: failed writing %s: %v", c.key, err)}
		}
	}
	if doc.Data.Logo != nil && *doc.Data.Logo != "" {
		if err := b.Store.WriteString(store.KeyLogo, *doc.Data.Logo); err != nil {
			return RestoreResult{Success: false, Message: fmt.Sprintf("restore incomplete: failed writing logo: %v", err)}
		}
	}
	return RestoreResult{Success: true, Message: "data restored; reload the application to pick up the new state"}
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == '['
}

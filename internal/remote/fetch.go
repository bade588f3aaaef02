// Package remote performs the one-shot startup fetches: the app config
// (version/logo/banners) and the published catalog. Every failure here is
// logged and skipped; local state always wins until a fetch succeeds.
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/julioamancio/capone-orders/internal/media"
	"github.com/julioamancio/capone-orders/internal/models"
	"github.com/julioamancio/capone-orders/internal/store"
)

type Fetcher struct {
	Client *http.Client
	Store  *store.Store
}

func NewFetcher(s *store.Store) *Fetcher {
	return &Fetcher{Client: &http.Client{Timeout: 15 * time.Second}, Store: s}
}

// remoteConfig is the recognized shape of the well-known config resource.
// Version may arrive as a string or a number.
type remoteConfig struct {
	Version json.RawMessage `json:"version"`
	Logo    string          `json:"logo"`
	Banners []string        `json:"banners"`
}

// FetchConfig applies the remote config: a changed version invalidates the
// local catalog cache, logo and banners overwrite the stored branding.
func (f *Fetcher) FetchConfig(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	var cfg remoteConfig
	if err := f.getJSON(ctx, url, &cfg); err != nil {
		return err
	}
	if version := versionString(cfg.Version); version != "" {
		prev, _ := f.Store.ReadString(store.KeyConfigVersion)
		if prev != version {
			if err := f.Store.Delete(store.KeyProducts); err != nil {
				log.Printf("[remote] invalidating catalog cache: %v", err)
			}
			if err := f.Store.WriteString(store.KeyConfigVersion, version); err != nil {
				return err
			}
		}
	}
	if cfg.Logo != "" {
		if err := f.Store.WriteString(store.KeyLogo, media.NormalizeURL(cfg.Logo)); err != nil {
			return err
		}
	}
	if len(cfg.Banners) > 0 {
		if err := f.Store.Write(store.KeyHeroImages, cfg.Banners); err != nil {
			return err
		}
	}
	return nil
}

// FetchCatalog replaces the stored catalog with the published one when the
// remote list is non-empty.
func (f *Fetcher) FetchCatalog(ctx context.Context, url string) error {
	if url == "" {
		return nil
	}
	var products []models.Product
	if err := f.getJSON(ctx, url, &products); err != nil {
		return err
	}
	if len(products) == 0 {
		return nil
	}
	return f.Store.Write(store.KeyProducts, products)
}

func (f *Fetcher) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Cache-Control", "no-store")
	resp, err := f.Client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch %s: %s", url, resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// versionString renders a JSON string or number version marker as a string.
func versionString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

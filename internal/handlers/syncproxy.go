package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julioamancio/capone-orders/httpx"
	"github.com/julioamancio/capone-orders/internal/models"
	"github.com/julioamancio/capone-orders/internal/services"
	ghsync "github.com/julioamancio/capone-orders/internal/sync"
)

// SyncProxyHandler is the server side of the catalog sync: it accepts the
// full next catalog and writes it to the remote file. Response shapes match
// the serverless endpoint the storefront originally called.
type SyncProxyHandler struct {
	Syncer services.CatalogSyncer
}

func NewSyncProxyHandler(syncer services.CatalogSyncer) *SyncProxyHandler {
	return &SyncProxyHandler{Syncer: syncer}
}

func (h *SyncProxyHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "Method not allowed", nil)
		return
	}
	var input struct {
		Products json.RawMessage `json:"products"`
	}
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid products payload", nil)
		return
	}
	trimmed := bytes.TrimLeft(input.Products, " \t\r\n")
	if len(trimmed) == 0 || trimmed[0] != '[' {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid products payload", nil)
		return
	}
	var products []models.Product
	if err := json.Unmarshal(input.Products, &products); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "Invalid products payload", nil)
		return
	}
	if err := h.Syncer.Sync(r.Context(), products); err != nil {
		if errors.Is(err, ghsync.ErrNotConfigured) {
			httpx.JSONError(w, http.StatusInternalServerError, "Missing GITHUB_TOKEN env", nil)
			return
		}
		httpx.JSONError(w, http.StatusInternalServerError, "GitHub update failed", err.Error())
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/julioamancio/capone-orders/httpx"
	"github.com/julioamancio/capone-orders/internal/media"
	"github.com/julioamancio/capone-orders/internal/services"
)

type SettingsHandler struct {
	Settings *services.SettingsService
}

func NewSettingsHandler(settings *services.SettingsService) *SettingsHandler {
	return &SettingsHandler{Settings: settings}
}

// bannerItem carries the media kind so the rotation can pick <video> or
// <img> without inspecting the URL itself.
type bannerItem struct {
	URL   string `json:"url"`
	Video bool   `json:"video"`
}

func bannerItems(urls []string) []bannerItem {
	items := make([]bannerItem, 0, len(urls))
	for _, u := range urls {
		items = append(items, bannerItem{URL: u, Video: media.IsVideo(u)})
	}
	return items
}

// Logo handles GET (current logo), PUT/POST (set by URL) and DELETE (reset).
func (h *SettingsHandler) Logo(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		httpx.JSON(w, http.StatusOK, map[string]string{"logo": h.Settings.Logo()})
	case http.MethodPut, http.MethodPost:
		var input struct {
			URL string `json:"url"`
		}
		if err := httpx.DecodeJSON(r, &input); err != nil || input.URL == "" {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		if err := h.Settings.SetLogo(input.URL); err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "logo_save_failed", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"logo": h.Settings.Logo()})
	case http.MethodDelete:
		if err := h.Settings.ResetLogo(); err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "logo_reset_failed", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"logo": h.Settings.Logo()})
	default:
		w.Header().Set("Allow", "GET,POST,PUT,DELETE")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

// Banners handles GET (list), POST (add) and DELETE ?index=N (remove).
func (h *SettingsHandler) Banners(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		images, err := h.Settings.HeroImages()
		if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "failed_to_list_banners", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"items": bannerItems(images)})
	case http.MethodPost:
		var input struct {
			URL string `json:"url"`
		}
		if err := httpx.DecodeJSON(r, &input); err != nil || input.URL == "" {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		images, err := h.Settings.AddHeroImage(input.URL)
		if err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "banner_save_failed", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"items": bannerItems(images)})
	case http.MethodDelete:
		index, err := strconv.Atoi(r.URL.Query().Get("index"))
		if err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_index", nil)
			return
		}
		images, rerr := h.Settings.RemoveHeroImage(index)
		if errors.Is(rerr, services.ErrBannerIndexOutOfRange) {
			httpx.JSONError(w, http.StatusBadRequest, "index_out_of_range", nil)
			return
		}
		if rerr != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "banner_save_failed", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]any{"items": bannerItems(images)})
	default:
		w.Header().Set("Allow", "GET,POST,DELETE")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

// ResetBanners restores the stock rotation.
func (h *SettingsHandler) ResetBanners(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	images, err := h.Settings.ResetHeroImages()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "banner_save_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"items": bannerItems(images)})
}

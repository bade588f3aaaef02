package handlers

import (
	"net/http"

	"github.com/julioamancio/capone-orders/auth"
	"github.com/julioamancio/capone-orders/httpx"
	"github.com/julioamancio/capone-orders/internal/models"
	"github.com/julioamancio/capone-orders/internal/services"
)

type ProfileHandler struct {
	Profiles *services.ProfileService
}

func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{Profiles: profiles}
}

// Handle serves GET (current user with merged profile) and PUT (save name,
// phone and addresses).
func (h *ProfileHandler) Handle(w http.ResponseWriter, r *http.Request) {
	session, _ := auth.FromContext(r.Context())
	base := models.User{ID: session.UserID, Name: session.Name, Email: session.Email, Role: session.Role}
	switch r.Method {
	case http.MethodGet:
		httpx.JSON(w, http.StatusOK, h.Profiles.LoadInto(base))
	case http.MethodPut, http.MethodPost:
		var input struct {
			Name      string           `json:"name"`
			Phone     string           `json:"phone"`
			Addresses []models.Address `json:"addresses"`
		}
		if err := httpx.DecodeJSON(r, &input); err != nil {
			httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
			return
		}
		user := h.Profiles.LoadInto(base)
		if input.Name != "" {
			user.Name = input.Name
		}
		if input.Phone != "" {
			user.Phone = input.Phone
		}
		if input.Addresses != nil {
			user.Addresses = input.Addresses
		}
		if err := h.Profiles.Save(user); err != nil {
			httpx.JSONError(w, http.StatusInternalServerError, "profile_save_failed", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, user)
	default:
		w.Header().Set("Allow", "GET,POST,PUT")
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	}
}

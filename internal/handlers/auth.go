package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/julioamancio/capone-orders/auth"
	"github.com/julioamancio/capone-orders/httpx"
	"github.com/julioamancio/capone-orders/internal/models"
	"github.com/julioamancio/capone-orders/internal/services"
)

// adminPasswords mirrors the demo admin access of the storefront.
var adminPasswords = []string{"admin123", "admin", "123456"}

type AuthHandler struct {
	Profiles *services.ProfileService
	Cart     *services.CartService
}

func NewAuthHandler(profiles *services.ProfileService, cart *services.CartService) *AuthHandler {
	return &AuthHandler{Profiles: profiles, Cart: cart}
}

// Login authenticates with the demo rules: an email containing "admin" plus
// a known admin password grants the admin role; any email with "@" and a
// password of 6+ chars grants the client role.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var input struct {
		Email      string `json:"email"`
		Password   string `json:"password"`
		RememberMe bool   `json:"rememberMe"`
	}
	if err := httpx.DecodeJSON(r, &input); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}

	var user models.User
	if strings.Contains(strings.ToLower(input.Email), "admin") {
		if !isAdminPassword(input.Password) {
			httpx.JSONError(w, http.StatusUnauthorized, "invalid_admin_password", nil)
			return
		}
		user = models.User{ID: "admin-1", Name: "Al Capone Admin", Email: input.Email, Role: auth.RoleAdmin}
	} else {
		if !strings.Contains(input.Email, "@") || len(input.Password) < 6 {
			httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
			return
		}
		user = models.User{ID: input.Email, Name: "Cliente", Email: input.Email, Role: auth.RoleClient}
	}

	user = h.Profiles.LoadInto(user)
	if err := auth.CreateSession(w, auth.Session{UserID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "session_failed", nil)
		return
	}

	// Remember-me is never honored for admin sessions.
	if input.RememberMe && user.Role != auth.RoleAdmin {
		if err := h.Profiles.RememberCredentials(user.Email, input.Password); err != nil {
			log.Printf("[auth] remembering credentials: %v", err)
		}
	} else {
		if err := h.Profiles.ForgetCredentials(); err != nil {
			log.Printf("[auth] forgetting credentials: %v", err)
		}
	}
	httpx.JSON(w, http.StatusOK, user)
}

// LoginGoogle accepts a Google ID token from the sign-in widget and opens a
// client session from its claims.
func (h *AuthHandler) LoginGoogle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var input struct {
		Credential string `json:"credential"`
	}
	if err := httpx.DecodeJSON(r, &input); err != nil || input.Credential == "" {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	claims, err := auth.DecodeGoogleCredential(input.Credential)
	if err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credential", nil)
		return
	}
	user := models.User{ID: claims.Sub, Name: claims.Name, Email: claims.Email, Role: auth.RoleClient, Avatar: claims.Picture}
	user = h.Profiles.LoadInto(user)
	if err := auth.CreateSession(w, auth.Session{UserID: user.ID, Name: user.Name, Email: user.Email, Role: user.Role}); err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "session_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

// Logout clears the session and empties the cart, as the storefront did.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	auth.ClearSession(w)
	if err := h.Cart.Clear(); err != nil {
		log.Printf("[auth] clearing cart on logout: %v", err)
	}
	httpx.JSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// RememberedCredentials exposes the saved email/password pair so the login
// form can prefill, mirroring the storefront behavior.
func (h *AuthHandler) RememberedCredentials(w http.ResponseWriter, r *http.Request) {
	email, password, ok := h.Profiles.RememberedCredentials()
	if !ok {
		httpx.JSON(w, http.StatusOK, map[string]any{"remembered": false})
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"remembered": true, "email": email, "password": password})
}

func isAdminPassword(p string) bool {
	for _, candidate := range adminPasswords {
		if p == candidate {
			return true
		}
	}
	return false
}

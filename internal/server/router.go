package server

import (
	"log"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/julioamancio/capone-orders/auth"
	"github.com/julioamancio/capone-orders/httpx"
	"github.com/julioamancio/capone-orders/internal/handlers"
	"github.com/julioamancio/capone-orders/internal/services"
	"github.com/julioamancio/capone-orders/internal/store"
)

// Deps bundles the service layer the router wires handlers to.
type Deps struct {
	DB       *gorm.DB
	Store    *store.Store
	Catalog  *services.CatalogService
	Cart     *services.CartService
	Orders   *services.OrderService
	Backup   *services.BackupService
	Settings *services.SettingsService
	Profiles *services.ProfileService
	Syncer   services.CatalogSyncer
}

// New constructs the root http.Handler with all routes and middlewares applied.
func New(d Deps) http.Handler {
	mux := http.NewServeMux()

	// --- Health endpoints ---
	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		if err := d.DB.Exec("SELECT 1").Error; err != nil {
			httpx.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Auth
	ah := handlers.NewAuthHandler(d.Profiles, d.Cart)
	mux.HandleFunc("/login", ah.Login)
	mux.HandleFunc("/login/google", ah.LoginGoogle)
	mux.HandleFunc("/login/remembered", ah.RememberedCredentials)
	mux.HandleFunc("/logout", ah.Logout)

	// Profile (any authenticated user)
	ph := handlers.NewProfileHandler(d.Profiles)
	mux.Handle("/profile", auth.RequireAuth(http.HandlerFunc(ph.Handle)))

	// Products. The menu itself is public; mutations are admin-only.
	prod := handlers.NewProductHandler(d.Catalog)
	mux.Handle("/products", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			prod.List(w, r)
		case http.MethodPost:
			auth.RequireAdmin(http.HandlerFunc(prod.Create)).ServeHTTP(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	}))
	mux.Handle("/products/update", auth.RequireAdmin(http.HandlerFunc(prod.Update)))
	mux.Handle("/products/delete", auth.RequireAdmin(http.HandlerFunc(prod.Delete)))
	mux.Handle("/products/reset", auth.RequireAdmin(http.HandlerFunc(prod.Reset)))

	// Cart
	cart := handlers.NewCartHandler(d.Cart, d.Catalog)
	mux.Handle("/cart", auth.RequireAuth(http.HandlerFunc(cart.Get)))
	mux.Handle("/cart/items", auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPost:
			cart.AddItem(w, r)
		case http.MethodDelete:
			cart.RemoveItem(w, r)
		default:
			w.Header().Set("Allow", "POST,DELETE")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	})))
	mux.Handle("/cart/clear", auth.RequireAuth(http.HandlerFunc(cart.Clear)))

	// Orders
	oh := handlers.NewOrderHandler(d.Orders)
	mux.Handle("/orders", auth.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			oh.List(w, r)
		case http.MethodPost:
			oh.Place(w, r)
		default:
			w.Header().Set("Allow", "GET,POST")
			httpx.JSONError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		}
	})))
	mux.Handle("/orders/board", auth.RequireAdmin(http.HandlerFunc(oh.Board)))
	mux.Handle("/orders/move", auth.RequireAdmin(http.HandlerFunc(oh.Move)))
	mux.Handle("/orders/cancel", auth.RequireAdmin(http.HandlerFunc(oh.Cancel)))
	mux.Handle("/orders/archive", auth.RequireAdmin(http.HandlerFunc(oh.Archive)))
	mux.Handle("/orders/history", auth.RequireAdmin(http.HandlerFunc(oh.History)))

	// Backup / restore
	bh := handlers.NewBackupHandler(d.Backup)
	mux.Handle("/backup/export", auth.RequireAdmin(http.HandlerFunc(bh.Export)))
	mux.Handle("/backup/import", auth.RequireAdmin(http.HandlerFunc(bh.Import)))

	// Branding / banners
	sh := handlers.NewSettingsHandler(d.Settings)
	mux.HandleFunc("/settings/logo", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			sh.Logo(w, r)
			return
		}
		auth.RequireAdmin(http.HandlerFunc(sh.Logo)).ServeHTTP(w, r)
	})
	mux.HandleFunc("/settings/banners", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			sh.Banners(w, r)
			return
		}
		auth.RequireAdmin(http.HandlerFunc(sh.Banners)).ServeHTTP(w, r)
	})
	mux.Handle("/settings/banners/reset", auth.RequireAdmin(http.HandlerFunc(sh.ResetBanners)))

	// Catalog sync proxy (the old serverless endpoint, served in-process)
	if d.Syncer != nil {
		sp := handlers.NewSyncProxyHandler(d.Syncer)
		mux.Handle("/api/products", auth.RequireAdmin(http.HandlerFunc(sp.Handle)))
	}

	// Root placeholder
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			httpx.JSONError(w, http.StatusNotFound, "not_found", nil)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if _, werr := w.Write([]byte("Capone Orders API")); werr != nil {
			_ = werr
		}
	})

	return auth.Middleware(withRecover(withLogging(mux)))
}

// Simple middleware logging & recovery kept private to this package to avoid duplication.
func withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

func withRecover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
			}
		}()
		next.ServeHTTP(w, r)
	})
}

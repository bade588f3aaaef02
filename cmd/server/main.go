package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/julioamancio/capone-orders/internal/config"
	"github.com/julioamancio/capone-orders/internal/db"
	"github.com/julioamancio/capone-orders/internal/models"
	"github.com/julioamancio/capone-orders/internal/remote"
	"github.com/julioamancio/capone-orders/internal/server"
	"github.com/julioamancio/capone-orders/internal/services"
	"github.com/julioamancio/capone-orders/internal/store"
	ghsync "github.com/julioamancio/capone-orders/internal/sync"
)

var migrateOnlyFlag = flag.Bool("migrate-only", false, "Run DB migrations and exit")

func main() {
	flag.Parse()
	_ = godotenv.Load()
	cfg := config.Load()

	if migrateOnlyFlag != nil && *migrateOnlyFlag {
		if _, err := db.ConnectAndMigrate(cfg.DatabaseDSN); err != nil {
			log.Fatalf("migrate-only failed: %v", err)
		}
		log.Println("migrations completed; exiting as requested")
		return
	}

	dbConn, err := db.ConnectAndMigrate(cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	log.Printf("Starting server env=%s port=%s", cfg.Env, cfg.Port)

	st := store.New(dbConn)
	if config.ParseBool("DB_SEED", true) {
		seed(st)
	}

	var syncer services.CatalogSyncer
	if gh := ghsync.NewGitHubSyncer(cfg); gh.Token != "" {
		syncer = gh
	} else {
		log.Println("GITHUB_TOKEN not set; remote catalog sync disabled")
	}

	cartSvc := services.NewCartService(st)
	deps := server.Deps{
		DB:       dbConn,
		Store:    st,
		Catalog:  services.NewCatalogService(st, syncer),
		Cart:     cartSvc,
		Orders:   services.NewOrderService(st, cartSvc),
		Backup:   services.NewBackupService(st),
		Settings: services.NewSettingsService(st),
		Profiles: services.NewProfileService(st),
		Syncer:   syncer,
	}

	// One-shot startup fetches: remote config then published catalog.
	// Both are best-effort; the local store always remains usable.
	go func() {
		fetcher := remote.NewFetcher(st)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := fetcher.FetchConfig(ctx, cfg.ConfigURL); err != nil {
			log.Printf("remote config fetch skipped: %v", err)
		}
		if err := fetcher.FetchCatalog(ctx, cfg.CatalogURL); err != nil {
			log.Printf("remote catalog fetch skipped: %v", err)
		}
	}()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: server.New(deps)}
	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// seed writes the demo catalog and banner rotation on first start only.
func seed(st *store.Store) {
	if !st.Has(store.KeyProducts) {
		if err := st.Write(store.KeyProducts, models.DefaultProducts()); err != nil {
			log.Printf("seeding products: %v", err)
		}
	}
	if !st.Has(store.KeyHeroImages) {
		if err := st.Write(store.KeyHeroImages, models.DefaultHeroImages()); err != nil {
			log.Printf("seeding hero images: %v", err)
		}
	}
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/georgemunganga/shophub/internal/config"
	"github.com/georgemunganga/shophub/internal/events"
	"github.com/georgemunganga/shophub/internal/logger"
	"github.com/georgemunganga/shophub/internal/modules/cart"
	"github.com/georgemunganga/shophub/internal/modules/catalog"
	"github.com/georgemunganga/shophub/internal/modules/checkout"
	"github.com/georgemunganga/shophub/internal/modules/registry"
	"github.com/georgemunganga/shophub/internal/server"
	"github.com/georgemunganga/shophub/internal/session"
	"github.com/georgemunganga/shophub/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(config.LogConfig{}).WithError(err).Fatal("could not load config")
	}
	log := logger.New(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Storage & events ─────────────────────────────────────
	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		log.WithError(err).Fatal("could not open snapshot store")
	}
	defer store.Close()
	log.WithField("driver", cfg.Storage.Driver).Info("snapshot store ready")

	publisher, err := events.Open(cfg.Events, log)
	if err != nil {
		log.WithError(err).Fatal("could not open event publisher")
	}
	defer publisher.Close()

	// ── Modules ──────────────────────────────────────────────
	cache := session.CacheConfig{Size: cfg.Session.CacheSize, TTL: cfg.Session.CacheTTL}
	cartService := cart.NewService(store, cache, log)
	registryService := registry.NewService(store, registry.NewValidator(), cartService, cache, log)

	remote := catalog.NewRemoteClient(cfg.Catalog.BaseURL, cfg.Catalog.Timeout)
	catalogService := catalog.NewService(remote, registryService, cache, log)

	gateway := checkout.NewDemoGateway(cfg.Checkout.Delay)
	checkoutService := checkout.NewService(cartService, gateway, publisher, cfg.Events.OrdersTopic, log)

	// ── Router ───────────────────────────────────────────────
	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router, err := server.NewRouter(server.Deps{
		Log:      log,
		Sessions: session.NewCodec(cfg.Session.Secret, cfg.Session.TTL, cfg.Session.SecureCookie),
		Registry: promRegistry,
	},
		catalog.NewHandler(catalogService),
		cart.NewHandler(cartService, catalogService),
		registry.NewHandler(registryService),
		checkout.NewHandler(checkoutService),
	)
	if err != nil {
		log.WithError(err).Fatal("could not build router")
	}

	// ── Start Server ─────────────────────────────────────────
	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.WithField("addr", srv.Addr).Info("ShopHub API server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
	log.Info("server stopped")
}

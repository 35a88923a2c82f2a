package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/gadgetry/storefront/internal/catalog"
	"github.com/gadgetry/storefront/internal/checkout"
	"github.com/gadgetry/storefront/internal/config"
	"github.com/gadgetry/storefront/internal/db"
	"github.com/gadgetry/storefront/internal/events"
	httpapi "github.com/gadgetry/storefront/internal/http"
	"github.com/gadgetry/storefront/internal/order"
	"github.com/gadgetry/storefront/internal/pricing"
)

func main() {
	logger := log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds)
	cfg := config.Load(logger)

	// --- DB (lazy: the first request decides connected vs fallback) ---
	var opts []db.Option
	if cfg.RunMigrations {
		opts = append(opts, db.WithOnConnect(func(dsn string) error {
			return db.RunMigrations(dsn, logger)
		}))
	}
	lazy := db.NewLazy(cfg.DSN(), logger, opts...)
	defer lazy.Close()

	// --- AMQP (optional) ---
	var publisher checkout.Publisher
	if cfg.AMQPURL != "" {
		conn, err := amqp.Dial(cfg.AMQPURL)
		if err != nil {
			logger.Printf("warning: amqp connection failed, order events disabled: %v", err)
		} else {
			defer conn.Close()
			pub, err := events.NewPublisher(conn)
			if err != nil {
				logger.Printf("warning: amqp channel failed, order events disabled: %v", err)
			} else {
				defer pub.Close()
				publisher = pub
			}
		}
	}

	// --- wiring ---
	catalogStore := catalog.NewStore(lazy)
	resolver := pricing.NewResolver(catalogStore)
	orderStore := order.NewStore(lazy, logger)
	checkoutSvc := checkout.NewService(resolver, orderStore, publisher, logger)

	h := httpapi.NewHandler(catalogStore, checkoutSvc, lazy)
	r := httpapi.NewRouter(h, cfg.PublicDir)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)

	go func() {
		logger.Printf("http listening on %s", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// --- graceful shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Printf("shutdown signal: %s", sig)
	case err := <-errCh:
		logger.Printf("fatal error: %v", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = httpServer.Shutdown(shutdownCtx)

	logger.Printf("shutdown complete")
}

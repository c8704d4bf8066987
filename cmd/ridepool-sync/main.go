// README: Entry point; loads config, wires the engine, starts the API server and pollers.
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"ridepool/internal/config"
	"ridepool/internal/gateway"
	httptransport "ridepool/internal/http"
	"ridepool/internal/infra"
	"ridepool/internal/logging"
	"ridepool/internal/maps"
	"ridepool/internal/modules/notify"
	"ridepool/internal/modules/pricing"
	"ridepool/internal/modules/sync"
	"ridepool/internal/types"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := logging.NewLogger(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gw := gateway.NewClient(cfg.Gateway.BaseURL, cfg.Gateway.Token, cfg.GatewayTimeout(), logger)

	var kv notify.KV
	if cfg.Journal.DSN != "" {
		dbPool, err := infra.NewDB(ctx, cfg.Journal.DSN)
		if err != nil {
			log.Fatalf("journal db: %v", err)
		}
		defer dbPool.Close()
		kv = notify.NewPostgresKV(dbPool)
	} else {
		kv = notify.NewRedisKV(infra.NewRedis(cfg.Redis.Addr))
	}
	journal := notify.NewJournal(kv, cfg.Journal.Key, cfg.Journal.Retention(), logger)

	enricher := pricing.NewEnricher(gw, logger)
	engine := sync.NewEngine(gw, enricher, journal, types.ID(cfg.User.ID),
		cfg.Sync.StatusTick(), cfg.Sync.ElapsedTick(), logger)

	var places httptransport.Places
	if cfg.Maps.APIKey != "" {
		svc, err := maps.NewPlacesService(cfg.Maps.APIKey)
		if err != nil {
			log.Fatalf("places init: %v", err)
		}
		places = svc
	}

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Engine:  engine,
		Gateway: gw,
		Journal: journal,
		Places:  places,
		Viewer:  types.ID(cfg.User.ID),
		Log:     logger,
	})

	engine.Start(ctx)
	defer engine.Stop()

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}
	go func() {
		<-ctx.Done()
		_ = server.Shutdown(context.Background())
	}()

	logger.Info("ridepool-sync listening", "addr", cfg.HTTP.Addr, "user", cfg.User.ID)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

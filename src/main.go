package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/only1thor/autobank/src/api"
	"github.com/only1thor/autobank/src/audit"
	"github.com/only1thor/autobank/src/bank"
	"github.com/only1thor/autobank/src/config"
	"github.com/only1thor/autobank/src/db"
	"github.com/only1thor/autobank/src/engine"
	"github.com/only1thor/autobank/src/logger"
)

func main() {
	cfg := config.Load()
	logger.InitLogger(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database
	pool, err := db.Connect(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer pool.Close()

	applied, err := db.Migrate(ctx, pool)
	if err != nil {
		log.Fatalf("DB migration failed: %v", err)
	}

	auditLog := audit.NewLogger(pool)
	for _, version := range applied {
		auditLog.Log(ctx, audit.EventDatabaseMigrated, audit.ActorSystem, map[string]any{"version": version})
	}

	// Bank client
	var bankClient bank.Client
	if cfg.DemoMode {
		logger.L.Info("Demo mode: using seeded demo bank client, transfers are simulated")
		bankClient = bank.NewDemoClient()
	} else {
		client, err := bank.NewSpareBank1Client(cfg)
		if err != nil {
			log.Fatalf("Bank client init failed: %v", err)
		}
		bankClient = client
	}

	accountsCache, err := db.NewAccountsCache(30 * time.Second)
	if err != nil {
		log.Fatalf("Cache init failed: %v", err)
	}

	// Engine
	executor := engine.NewExecutor(pool, bankClient, auditLog, accountsCache)
	poller := engine.NewPoller(pool, bankClient, auditLog, executor)
	scheduler := engine.NewScheduler(poller, auditLog, cfg.PollInterval, true)

	schedulerDone := make(chan struct{})
	go func() {
		defer close(schedulerDone)
		scheduler.Run(ctx)
	}()

	// HTTP server
	router := api.NewRouter(pool, bankClient, scheduler, auditLog, cfg.DemoMode)
	server := &http.Server{Addr: ":" + cfg.Port, Handler: router}

	auditLog.Log(ctx, audit.EventServerStarted, audit.ActorSystem, map[string]any{"port": cfg.Port})
	log.Println("API server running on port", cfg.Port)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("ERROR: HTTP server failed: %v", err)
		}
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("ERROR: HTTP server shutdown: %v", err)
	}

	<-schedulerDone
	auditLog.Log(context.Background(), audit.EventServerStopped, audit.ActorSystem, map[string]any{})
	log.Println("Server shutdown complete")
}

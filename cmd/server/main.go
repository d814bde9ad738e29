package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"notekeeper/internal/app/server/api"
	"notekeeper/internal/app/server/config"
	"notekeeper/internal/app/server/reaper"
	"notekeeper/internal/domain/sweep"
	"notekeeper/internal/infrastructure/storage/postgres"
	"notekeeper/internal/utils/logger"
)

func main() {
	conf := config.Load()
	log := logger.New(conf.Env)

	storage, err := postgres.New(conf)
	if err != nil {
		log.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer storage.Close()

	mux := api.New(storage, conf, log)

	noteRepo := postgres.NewNoteRepository(storage.Pool(), log)
	shareRepo := postgres.NewShareRepository(storage.Pool(), log)
	rp := reaper.New(noteRepo, shareRepo, sweep.NewService(log), log)
	if err := rp.Start(conf.Reaper.Schedule); err != nil {
		log.Error("failed to start reaper", "error", err)
		os.Exit(1)
	}
	defer rp.Stop()

	srv := &http.Server{
		Addr:    conf.Server.RunAddress,
		Handler: mux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("server listening", "address", conf.Server.RunAddress)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown failed", "error", err)
	}
}

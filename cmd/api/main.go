package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskdeck.org/internal/auth"
	"taskdeck.org/internal/config"
	"taskdeck.org/internal/httpapi"
	"taskdeck.org/internal/obs"
	"taskdeck.org/internal/store/pg"
	"taskdeck.org/internal/task"
)

var (
	version = "0.3.0"
	commit  = "dev"
)

func main() {
	obs.Init()
	obs.InitBuildInfo(version, commit)

	// Refuse to start without a signing secret rather than fall back to a
	// predictable key.
	if err := auth.EnsureSecret(); err != nil {
		log.Fatalf("auth: %v (set TASKDECK_AUTH_SECRET)", err)
	}

	cfg := config.Load()

	var (
		userStore  auth.UserStore
		taskStore  task.Store
		readyProbe httpapi.ReadyProbe
		closeStore func() error
	)
	if cfg.PostgresDSN != "" {
		store, err := pg.Open(cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("open db: %v", err)
		}
		userStore = store
		taskStore = store
		readyProbe = httpapi.ReadyProbe{DB: store.DB()}
		closeStore = store.Close
	} else {
		log.Println("TASKDECK_PG_DSN not set; using in-memory stores")
		userStore = auth.NewInMemoryUsers()
		taskStore = task.NewInMemory()
		closeStore = func() error { return nil }
	}

	authSvc := auth.NewService(userStore, auth.WithTokenTTL(cfg.TokenTTL))
	taskSvc := task.NewService(taskStore)

	api := httpapi.New(readyProbe, version, authSvc, taskSvc)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           api.Handler(),
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting taskdeck-api %s on %s", version, srv.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	_ = closeStore()
	log.Println("Stopped")
}

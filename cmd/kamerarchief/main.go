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

	"github.com/kamerdata/kamerarchief/internal/archive"
	"github.com/kamerdata/kamerarchief/internal/config"
	"github.com/kamerdata/kamerarchief/internal/database"
	"github.com/kamerdata/kamerarchief/internal/ingest"
	"github.com/kamerdata/kamerarchief/internal/logging"
	"github.com/kamerdata/kamerarchief/internal/server"
	"github.com/kamerdata/kamerarchief/internal/store"
	"github.com/kamerdata/kamerarchief/internal/watcher"
	ws "github.com/kamerdata/kamerarchief/internal/websocket"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default "+config.DefaultFile+" when present)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.Setup(cfg.LogLevel)

	db, err := database.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	memberStore := store.NewMemberStore(db)
	appointmentStore := store.NewAppointmentStore(db)
	loadStore := store.NewLoadStore(db)
	archiveStore := store.NewArchiveStore(db)

	ing := ingest.New(cfg.DataDir, memberStore, appointmentStore, loadStore, logger.With("component", "ingest"))

	hub := ws.NewHub(logger.With("component", "websocket"))

	archiveMgr := archive.NewManager(cfg.Archive, cfg.DataDir, archiveStore, func(s archive.Status) {
		hub.Broadcast(ws.Message{
			Type: ws.EventArchiveStatus,
			Extra: map[string]any{
				"state":       string(s.State),
				"in_progress": s.InProgress,
				"error":       s.Error,
			},
		})
	}, logger.With("component", "archive"))

	srv := server.New(db, ing, archiveMgr, hub, cfg.RateLimit, logger)

	// Index the CSVs before accepting traffic. A dirty dataset is still
	// served; only a structurally broken file aborts startup with an
	// empty index.
	res, err := ing.Run()
	if err != nil {
		log.Fatalf("initial dataset load failed: %v", err)
	}
	srv.DatasetHandler().SetResult(res)
	logger.Info("dataset loaded",
		"member_rows", res.MemberRows,
		"appointment_rows", res.AppointmentRows,
		"currently_serving", res.Report.Summary.CurrentlyServing)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Watch {
		w := watcher.New(cfg.DataDir, func() error {
			res, err := ing.Run()
			if err != nil {
				return err
			}
			srv.DatasetHandler().SetResult(res)
			hub.Broadcast(ws.Message{
				Type: ws.EventDatasetReloaded,
				Extra: map[string]any{
					"member_rows":      res.MemberRows,
					"appointment_rows": res.AppointmentRows,
				},
			})
			return nil
		}, logger.With("component", "watcher"))
		if err := w.Start(ctx); err != nil {
			log.Fatalf("failed to watch data directory: %v", err)
		}
	}

	archiveMgr.Start(ctx)
	defer archiveMgr.Stop()

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				srv.RateLimiter().Cleanup()
			}
		}
	}()

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Router(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("kamerarchief listening", "addr", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("shutdown error: %v", err)
	}
}

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

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"siminfod/internal/config"
	"siminfod/internal/handler"
	"siminfod/internal/hub"
	"siminfod/internal/registry"
	"siminfod/internal/siminfo"
	"siminfod/internal/storage"
	"siminfod/internal/watcher"
)

func main() {
	// Command line flags override the config file
	addr := flag.String("addr", "", "HTTP listen address")
	dbPath := flag.String("db", "", "SQLite cache database path")
	configPath := flag.String("config", "", "config file path")
	flag.Parse()

	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting siminfod...")

	// Load configuration
	var (
		cfg        *config.Config
		loadedFrom string
		err        error
	)
	if *configPath != "" {
		cfg, loadedFrom, err = config.LoadFromPath(*configPath)
	} else {
		cfg, loadedFrom, err = config.Load()
	}
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if loadedFrom != "" {
		log.Printf("Config loaded from %s", loadedFrom)
	} else {
		log.Println("No config file found, using defaults")
	}
	if *addr != "" {
		cfg.Listen = *addr
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	log.Println(cfg.Summary())

	// Open the identity cache
	store, err := storage.NewSQLite(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()
	log.Printf("Database opened: %s", cfg.Database.Path)

	// Initialize SSE hub
	sseHub := hub.New()
	go sseHub.Run()

	// Build the slot registry; change notifications fan out over SSE
	reg := registry.New(store)
	reg.SetChangeFunc(func(slot string, kind siminfo.ChangeKind) {
		sseHub.Broadcast(hub.ChangeEvent{Slot: slot, Kind: kind.String()})
	})
	for _, slot := range cfg.Slots {
		if err := reg.Add(slot); err != nil {
			log.Fatalf("Failed to add slot %s: %v", slot, err)
		}
		log.Printf("Slot registered: %s", slot)
	}
	defer reg.Close()

	// Reload the slot list when the config file changes. Slots are only
	// ever added; removing one requires a restart.
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if loadedFrom != "" {
		w := watcher.New(loadedFrom, func() {
			newCfg, _, err := config.LoadFromPath(loadedFrom)
			if err != nil {
				log.Printf("Config reload failed: %v", err)
				return
			}
			for _, slot := range newCfg.Slots {
				if err := reg.Add(slot); err != nil {
					log.Printf("Failed to add slot %s: %v", slot, err)
				}
			}
		})
		go func() {
			if err := w.Watch(watchCtx); err != nil && err != context.Canceled {
				log.Printf("Config watcher stopped: %v", err)
			}
		}()
	}

	// Setup routes
	slotHandler := handler.NewSlotHandler(reg)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/slots", slotHandler.ListSlots)
	mux.HandleFunc("GET /api/slots/{slot}", slotHandler.GetSlot)
	mux.HandleFunc("POST /api/slots/{slot}/observations", slotHandler.PostObservation)
	mux.Handle("GET /events", sseHub)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Apply middleware
	finalHandler := handler.Chain(mux,
		handler.Recover,
		handler.Logger,
	)

	server := &http.Server{
		Addr:         cfg.Listen,
		Handler:      finalHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // SSE connections stay open
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Listen)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	watchCancel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

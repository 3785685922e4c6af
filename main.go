package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"quote-shorts-pipeline/config"
	"quote-shorts-pipeline/trigger"

	"github.com/joho/godotenv"
)

func main() {
	// Load .env for local dev; CI injects secrets directly.
	_ = godotenv.Load()

	cfgPath := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	for _, dir := range []string{cfg.Paths.Output, cfg.Paths.Work} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Fatalf("Failed to create dir %s: %v", dir, err)
		}
	}

	pipe := NewPipeline(cfg)
	gate := trigger.NewGate(pipe.Run)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// One-shot mode for cron-style environments.
	if os.Getenv("RUN_ONCE") == "1" {
		if err := pipe.Run(ctx); err != nil {
			log.Fatalf("Run failed: %v", err)
		}
		return
	}

	if !triggersConfigured(cfg) {
		log.Println("⚠️ No schedule times and HTTP server disabled - nothing will trigger runs (set RUN_ONCE=1 for one-shot mode)")
	}

	if len(cfg.Schedule.Times) > 0 {
		sched, err := trigger.NewScheduler(cfg, gate)
		if err != nil {
			log.Fatalf("Failed to build scheduler: %v", err)
		}
		go sched.Start(ctx)
	}

	if cfg.Server.Enabled {
		srv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: trigger.NewRouter(gate)}
		go func() {
			log.Printf("HTTP trigger listening on :%s", cfg.Server.Port)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Fatalf("HTTP server: %v", err)
			}
		}()
		go func() {
			<-ctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	<-ctx.Done()
	log.Println("Shutting down")
}

// triggersConfigured reports whether at least one trigger surface (scheduler
// or HTTP server) is active.
func triggersConfigured(cfg *config.Config) bool {
	return len(cfg.Schedule.Times) > 0 || cfg.Server.Enabled
}

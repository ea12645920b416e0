package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/jortegar/agroscout/internal/config"
	"github.com/jortegar/agroscout/internal/database"
	"github.com/jortegar/agroscout/internal/grid"
	"github.com/jortegar/agroscout/internal/handler"
	"github.com/jortegar/agroscout/internal/inventory"
	"github.com/jortegar/agroscout/internal/middleware"
	"github.com/jortegar/agroscout/internal/queue"
	"github.com/jortegar/agroscout/internal/router"
	queue_publisher "github.com/jortegar/agroscout/internal/service"
	"github.com/jortegar/agroscout/internal/store"
)

func main() {
	// Populate the environment from a local .env when present.  Absence is
	// fine; production deployments inject real variables.
	_ = godotenv.Load()

	cfg := config.Load()

	// Redis serves the rate limiter and, when selected, the snapshot store.
	// A nil client only disables throttling unless Redis is the backend.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting disabled")
	}

	var snapshots store.SnapshotStore
	switch cfg.Backend {
	case config.BackendMySQL:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		db, err := database.Open(ctx, cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
		if err != nil {
			log.Fatalf("database connection failed: %v", err)
		}
		ms := store.NewMySQLStore(db)
		if err := ms.EnsureSchema(ctx); err != nil {
			log.Fatalf("snapshot schema setup failed: %v", err)
		}
		cancel()
		snapshots = ms
	case config.BackendRedis:
		if rdb == nil {
			log.Fatal("SNAPSHOT_BACKEND=redis but redis is unreachable")
		}
		snapshots = store.NewRedisStore(rdb, "agroscout:snap:")
	case config.BackendMemory:
		snapshots = store.NewMemoryStore()
	default:
		log.Fatalf("unknown SNAPSHOT_BACKEND: %q", cfg.Backend)
	}

	geom := grid.Geometry{
		Rows:        cfg.GridRows,
		Positions:   cfg.GridPositions,
		Subsections: cfg.GridSubsections,
	}
	if err := geom.Validate(); err != nil {
		log.Fatalf("invalid grid geometry: %v", err)
	}

	gridSvc := grid.NewService(snapshots, cfg.SnapshotKey, geom, queue_publisher.Auditor{})
	invSvc := inventory.New(snapshots, cfg.BcryptCost)

	e := echo.New()
	router.RegisterRoutes(e)
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	router.RegisterAPI(e, handler.NewGridHandler(gridSvc), handler.NewInventoryHandler(invSvc), cfg.JWTSecret, limiter)

	// The audit consumer drains scouting.audit into the log trail.  It
	// reconnects on its own; a missing broker must not block the API.
	go func() {
		if err := queue.StartAuditConsumer(); err != nil {
			log.Printf("audit consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, backend=%s)", addr, cfg.Env, cfg.Backend)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}

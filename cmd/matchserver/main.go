// cmd/matchserver is the local/CI-drivable HTTP transport for the
// matchmaking core: load config, construct dependencies, register
// routes, listen, and shut down gracefully on signal.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"

	"turn-matchmaking-coordinator/handlers"
	"turn-matchmaking-coordinator/internal/config"
	"turn-matchmaking-coordinator/internal/kvstore"
	"turn-matchmaking-coordinator/internal/simqueue"
	"turn-matchmaking-coordinator/middleware"
	"turn-matchmaking-coordinator/workers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := kvstore.NewDDBStore(ctx, kvstore.DDBStoreConfig{
		TableName:             cfg.TableName,
		PartitionKeyAttribute: cfg.PartitionKeyAttribute,
		SortKeyAttribute:      cfg.SortKeyAttribute,
		Region:                cfg.Region,
		Endpoint:              cfg.DynamoDBEndpoint,
	})
	if err != nil {
		log.Fatal("failed to initialize DynamoDB store:", err)
	}

	var enqueuer simqueue.Enqueuer = simqueue.NoopEnqueuer{}
	if cfg.SimulationQueueURL != "" {
		sqsEnqueuer, err := simqueue.NewSQSEnqueuer(ctx, cfg.SimulationQueueURL, cfg.Region)
		if err != nil {
			log.Fatal("failed to initialize simulation queue:", err)
		}
		enqueuer = sqsEnqueuer
	}

	worker := workers.NewMatchmakingWorker(store, enqueuer)

	if cfg.TurnDurationSeconds > 0 {
		currentTurn := func() uint32 {
			elapsed := time.Now().Unix() - cfg.TurnEpochUnix
			if elapsed < 0 {
				return 0
			}
			return uint32(elapsed / cfg.TurnDurationSeconds)
		}
		janitor := workers.NewJanitor(store, currentTurn, 50)
		if err := janitor.Start(ctx, 5*time.Minute); err != nil {
			log.Printf("⚠️  failed to start janitor: %v", err)
		} else {
			log.Println("✅ janitor running (every 5m)")
		}
	}

	app := fiber.New()
	app.Use(cors.New())

	h := handlers.NewMatchmakingHandler(store, worker)
	handlers.SetupMatchmakingRoutes(app, h, middleware.ServiceAuth(cfg.ServiceToken))

	go func() {
		if err := app.Listen(cfg.ListenAddr); err != nil {
			log.Printf("server error: %v", err)
		}
	}()

	log.Printf("✅ matchmaking server running on %s", cfg.ListenAddr)

	<-ctx.Done()
	log.Println("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during server shutdown: %v", err)
	}
	log.Println("server shutdown complete")
}

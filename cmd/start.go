package cmd

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"messenger-core/core/config"
	"messenger-core/core/loader"
	"messenger-core/core/logger"
	"messenger-core/core/middleware/auth"
	"messenger-core/core/middleware/rayid"
	"messenger-core/core/persistence"
	"messenger-core/core/remote"
	"messenger-core/feature/session"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the messenger core server",
	Long:  `Connects to the messaging service, restores session state and serves the HTTP API.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		// 1. Load Configuration
		cfg, err := config.LoadConfig(".")
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		// 2. Initialize Logger
		logg, err := logger.New(&cfg.Log)
		if err != nil {
			log.Fatalf("Failed to initialize logger: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		// 3. Persistence
		store, release, err := openStore(ctx, cfg, logg)
		if err != nil {
			logg.Fatal("Failed to open persistence backend", zap.Error(err))
		}
		defer release()
		queue := persistence.NewQueue(store, logg)

		// 4. Remote service
		client, err := remote.Dial(ctx, cfg.Remote, logg)
		if err != nil {
			logg.Fatal("Failed to connect to messaging service", zap.Error(err))
		}

		// 5. Session
		sess := session.New(cfg.Session, client, queue, logg)
		client.OnPush(func(p remote.Push) {
			if err := sess.HandlePush(ctx, p); err != nil {
				logg.Warn("Failed to apply pushed updates", zap.Error(err))
			}
		})
		if err := sess.Start(ctx); err != nil {
			logg.Fatal("Failed to restore session", zap.Error(err))
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true, // We will log our own startup message
		})

		// Middleware Registration
		// 1. RayID (Must be first to trace everything)
		app.Use(rayid.New())

		// 2. Logging Middleware (Custom to use Zap + RayID)
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// 3. Auth (Protect API)
		app.Use(auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))

		// 6. Load Features
		mgr := loader.NewManager()
		for _, f := range sess.Features(logg) {
			mgr.Register(f)
		}
		if err := mgr.LoadAll(app); err != nil {
			logg.Fatal("Failed to load features", zap.Error(err))
		}

		// 7. Start Server
		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		// 8. Graceful Shutdown
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
		if err := sess.Close(); err != nil {
			logg.Warn("Failed to close session", zap.Error(err))
		}

		flushCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := queue.Flush(flushCtx); err != nil {
			logg.Warn("Failed to flush pending writes", zap.Error(err))
		}
		queue.Close()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}

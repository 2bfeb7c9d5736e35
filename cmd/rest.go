package cmd

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/basicauth"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/playlytics/cachecore/core/config"
	domainCache "github.com/playlytics/cachecore/domains/cache"
	"github.com/playlytics/cachecore/infrastructure/valkey"
	"github.com/playlytics/cachecore/repository"
	"github.com/playlytics/cachecore/ui/rest"
	"github.com/playlytics/cachecore/ui/rest/middleware"
	"github.com/playlytics/cachecore/usecase"
)

var restCmd = &cobra.Command{
	Use:   "rest",
	Short: "Serve the cache admin API over http",
	Run:   restServer,
}

func init() {
	rootCmd.AddCommand(restCmd)
}

func restServer(_ *cobra.Command, _ []string) {
	cfg := config.Global

	store, cleanup := buildStore(cfg)
	defer cleanup()

	policy := domainCache.NewTTLPolicy()
	cacheUsecase := usecase.NewCacheService(store, policy)
	invalidationUsecase := usecase.NewInvalidationService(store)

	app := fiber.New(fiber.Config{
		Network:               "tcp",
		AppName:               "Cachecore Analytics Cache",
		DisableStartupMessage: false,
	})

	app.Use(middleware.Recovery())
	app.Use(requestid.New(requestid.Config{
		Generator: func() string { return uuid.NewString() },
	}))
	app.Use(cors.New())
	app.Use(logger.New())

	if len(cfg.App.BasicAuth) > 0 {
		users := make(map[string]string)
		for _, credential := range cfg.App.BasicAuth {
			user, pass, found := strings.Cut(credential, ":")
			if !found {
				logrus.Fatalf("invalid basic auth credential: %s", credential)
			}
			users[user] = pass
		}
		app.Use(basicauth.New(basicauth.Config{Users: users}))
	}

	var router fiber.Router = app
	if cfg.App.BasePath != "" {
		router = app.Group(cfg.App.BasePath)
	}
	rest.InitRestCache(router, cacheUsecase, invalidationUsecase)

	go func() {
		if err := app.Listen(":" + cfg.App.Port); err != nil {
			logrus.Fatalln("Failed to start server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}
}

// buildStore selects the Valkey-backed store or the in-memory fallback.
// A Valkey connection failure at startup is fatal.
func buildStore(cfg *config.Config) (repository.Store, func()) {
	if !cfg.Valkey.Enabled {
		logrus.Warn("Valkey disabled, using in-memory store (data is not shared across instances)")
		return repository.NewMemoryStore(), func() {}
	}

	client, err := valkey.NewClient(valkey.Config{
		Address:        cfg.Valkey.Address,
		Password:       cfg.Valkey.Password,
		DB:             cfg.Valkey.DB,
		KeyPrefix:      cfg.Valkey.KeyPrefix,
		ConnectTimeout: cfg.Valkey.ConnectTimeout,
	})
	if err != nil {
		logrus.Fatalf("failed to connect to valkey: %v", err)
	}

	logrus.WithField("address", cfg.Valkey.Address).Info("connected to valkey")
	return repository.NewValkeyStore(client), client.Close
}

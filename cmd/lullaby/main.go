package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/terraincognita07/lullaby/internal/api"
	lullabycli "github.com/terraincognita07/lullaby/internal/cli"
	"github.com/terraincognita07/lullaby/internal/config"
	"github.com/terraincognita07/lullaby/internal/db"
	"github.com/terraincognita07/lullaby/internal/i18n"
	"github.com/terraincognita07/lullaby/internal/logging"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand().Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:  "lullaby",
		Usage: "Baby sleep tracker backend",
		Commands: []*cli.Command{
			serveCommand(),
			tokenCommand(),
			exportCommand(),
		},
		Action: func(ctx context.Context, _ *cli.Command) error {
			return runServe(ctx)
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Action: func(ctx context.Context, _ *cli.Command) error {
			return runServe(ctx)
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Issue a bearer token for a device",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "device", Value: "device", Usage: "device name stored in the token"},
			&cli.DurationFlag{Name: "ttl", Usage: "token lifetime (defaults to TOKEN_TTL)"},
		},
		Action: func(_ context.Context, c *cli.Command) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			ttl := cfg.TokenTTL
			if c.IsSet("ttl") {
				ttl = c.Duration("ttl")
			}
			return lullabycli.RunIssueTokenCommand(os.Stdout, cfg.SecretKey, c.String("device"), ttl, time.Now())
		},
	}
}

func exportCommand() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Write a JSON backup of all children and sessions",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Value: "-", Usage: "output file, - for stdout"},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			appLogger, err := logging.New(cfg.LogLevel, cfg.LogFormat, "lullaby")
			if err != nil {
				return fmt.Errorf("logger init failed: %w", err)
			}
			defer func() { _ = appLogger.Sync() }()

			return lullabycli.RunExportCommand(ctx, cfg.DBPath, c.String("out"), cfg.Location, os.Stdout, appLogger)
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	time.Local = cfg.Location

	appLogger, err := logging.New(cfg.LogLevel, cfg.LogFormat, "lullaby")
	if err != nil {
		return fmt.Errorf("logger init failed: %w", err)
	}
	defer func() { _ = appLogger.Sync() }()

	database, err := db.OpenSQLite(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}

	i18nManager, err := i18n.NewManager(cfg.DefaultLanguage)
	if err != nil {
		return fmt.Errorf("i18n init failed: %w", err)
	}

	handler, err := api.NewHandler(database, cfg.SecretKey, cfg.Location, i18nManager, appLogger)
	if err != nil {
		return fmt.Errorf("handler init failed: %w", err)
	}
	app := newFiberApp(handler)

	sigCtx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			appLogger.Error("server shutdown failed", zap.Error(err))
		}
	}()

	appLogger.Info("lullaby listening",
		zap.String("port", cfg.Port),
		zap.String("db", cfg.DBPath),
		zap.String("tz", cfg.Location.String()),
	)
	if err := app.Listen(":" + cfg.Port); err != nil {
		return fmt.Errorf("server exited: %w", err)
	}
	return nil
}

func newFiberApp(handler *api.Handler) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Lullaby",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())
	api.RegisterRoutes(app, handler)
	return app
}

package main

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	httpapi "github.com/Alfiya-Anjum/Weather-Data-Pipeline/internal/api/http"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read-only query API",
	Long: `Expose the stored observations over HTTP: latest per city, windowed
history, windowed statistics, and pipeline status. The server never mutates
data; collection runs separately via "collect" or "run".`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&servePort, "port", "", "listen port (default: from configuration)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer a.close()

	app := fiber.New(fiber.Config{
		AppName:               "weather-pipeline",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-pipeline",
		})
	})

	// API routes.
	httpapi.RegisterRoutes(app, a.storage, a.pipeline)

	port := servePort
	if port == "" {
		port = a.cfg.Port
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			slog.Error("fiber server stopped", "error", err)
		}
	}()
	slog.Info("serving query API", "port", port)

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("error during shutdown", "error", err)
	}
	return nil
}

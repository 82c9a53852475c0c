package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abraxas-365/cauth/pkg/config"
	"github.com/Abraxas-365/cauth/pkg/iam/auth"
	"github.com/Abraxas-365/cauth/pkg/iam/issuance/issuanceapi"
	"github.com/Abraxas-365/cauth/pkg/logx"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logx.New(logx.DefaultConfig()).WithError(err).Error("invalid configuration")
		os.Exit(1)
	}
	log := logx.New(cfg.Log)
	log.WithField("version", cfg.Server.AppVersion).Info("starting cross auth server")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	container, err := NewContainer(ctx, cfg, log)
	if err != nil {
		log.WithError(err).Error("failed to initialize container")
		os.Exit(1)
	}
	defer container.Cleanup()

	app := newApp(container)
	if err := serve(ctx, app, cfg.Server, log); err != nil {
		log.WithError(err).Error("server error")
	}
}

func newApp(container *Container) *fiber.App {
	cfg := container.Config

	app := fiber.New(fiber.Config{
		AppName:               "Cross Auth",
		DisableStartupMessage: true,
		ErrorHandler:          issuanceapi.ErrorHandler(container.Logger, cfg.Server.Debug),
		BodyLimit:             1 * 1024 * 1024,
		IdleTimeout:           120 * time.Second,
	})

	app.Use(recover.New(recover.Config{EnableStackTrace: cfg.Server.Debug}))
	app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))
	app.Use(requestContext)
	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.Server.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization, X-Request-ID",
		AllowMethods:  "GET, POST, PATCH, DELETE, OPTIONS",
		ExposeHeaders: "X-Request-ID",
	}))
	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path} | ${ip} | ${respHeader:X-Request-ID}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Get("/health", healthCheckHandler(container))
	app.Get("/", infoHandler(cfg.Server.AppVersion))

	container.IAM.Handlers.RegisterRoutes(app, container.IAM.AuthMiddleware)

	app.Use(issuanceapi.NotFound)
	return app
}

// requestContext carries the request id into the context seen by
// services, so their log lines can be correlated.
func requestContext(c *fiber.Ctx) error {
	if id := c.GetRespHeader(fiber.HeaderXRequestID); id != "" {
		c.SetUserContext(context.WithValue(c.UserContext(), logx.RequestIDKey, id))
	}
	return c.Next()
}

func healthCheckHandler(container *Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), container.Config.Auth.StoreTimeout)
		defer cancel()

		health := fiber.Map{
			"status":  "healthy",
			"service": "cauth",
			"version": container.Config.Server.AppVersion,
		}
		status := fiber.StatusOK
		for name, err := range container.Ping(ctx) {
			if err != nil {
				health[name] = "unhealthy"
				health["status"] = "degraded"
				status = fiber.StatusServiceUnavailable
				container.Logger.WithField("store", name).WithError(err).Warn("health check failed")
				continue
			}
			health[name] = "healthy"
		}
		return c.Status(status).JSON(health)
	}
}

func infoHandler(version string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "Cross Auth",
			"version": version,
			"token": fiber.Map{
				"issuer":         auth.DefaultIssuer,
				"version_header": auth.VersionHeader,
				"version":        auth.Version,
			},
			"endpoints": fiber.Map{
				"services": issuanceapi.ServicesPath,
				"auth":     issuanceapi.PublicAuth,
				"apps":     issuanceapi.AppsPath,
				"health":   "/health",
			},
		})
	}
}

// serve blocks until ctx is cancelled, then shuts the server down.
func serve(ctx context.Context, app *fiber.App, cfg config.ServerConfig, log *logx.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Port).Info("server listening")
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down gracefully")
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		return err
	}
	log.Info("server exited")
	return nil
}

package http

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/config"
	"github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/internal/observability"
	apperrors "github.com/evertongirao-cloud/sistema-manutencao-sesc-guara/pkg/util/errorutil"
)

// NewApp builds the fiber application with the global middlewares attached.
func NewApp(cfg config.AppConfig, logger *zap.Logger, metrics *observability.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               cfg.Name,
		BodyLimit:             cfg.BodyLimitBytes,
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler(logger, metrics),
		// Params and body strings reach the memory store as map keys.
		Immutable: true,
	})
	RegisterMiddlewares(app, logger, metrics, cfg.RequestTimeout())
	return app
}

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	app.Use(observability.RequestLogger(logger, metrics))
	app.Use(errorHandlingMiddleware(logger, metrics))
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	render := errorHandler(logger, metrics)
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(fmt.Errorf("panic: %v", r))
			}
			if err != nil {
				err = render(c, err)
			}
		}()
		return c.Next()
	}
}

// errorHandler renders err in the {"error": {...}} envelope.
func errorHandler(logger *zap.Logger, metrics *observability.Metrics) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		domainErr := apperrors.ToDomainError(err)
		metrics.RecordError(c.Route().Path, c.Method(), domainErr.Code)

		body := fiber.Map{
			"code":    domainErr.Code,
			"message": domainErr.Message,
		}
		if len(domainErr.Details) > 0 {
			body["details"] = domainErr.Details
		}
		if domainErr.HTTPStatus >= fiber.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("request_id", observability.RequestID(c)),
				zap.String("path", c.Path()),
				zap.Error(domainErr))
		}
		return c.Status(domainErr.HTTPStatus).JSON(fiber.Map{"error": body})
	}
}

// Package http is the thin REST wrapper over the dispatch service: a fiber
// app exposing POST /api/v1/verify/{name}[/async], GET /api/v1/jobs/{id},
// GET /api/v1/verifiers[/{name}], and GET /health.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/steveyegge/argcheck/internal/verify"
	"github.com/steveyegge/argcheck/internal/verify/dispatch"
)

// ErrorBody is the documented shape of every non-2xx response.
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// Server wraps a fiber.App around a dispatch.Service.
type Server struct {
	App *fiber.App

	svc    *dispatch.Service
	logger *slog.Logger
}

// NewServer builds a Server with every route registered.
func NewServer(svc *dispatch.Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{svc: svc, logger: logger}
	s.App = fiber.New(fiber.Config{
		AppName:      "argcheckd",
		ErrorHandler: s.errorHandler,
	})
	s.routes()
	return s
}

func (s *Server) routes() {
	api := s.App.Group("/api/v1")
	api.Post("/verify/:name", s.handleVerifySync)
	api.Post("/verify/:name/async", s.handleVerifyAsync)
	api.Get("/jobs/:id", s.handleGetJob)
	api.Get("/verifiers", s.handleListVerifiers)
	api.Get("/verifiers/:name", s.handleGetVerifier)
	s.App.Get("/health", s.handleHealth)
}

// Start binds and serves on addr, blocking until the listener stops.
func (s *Server) Start(addr string) error {
	s.logger.Info("http transport listening", "addr", addr)
	return s.App.Listen(addr)
}

// Stop gracefully drains in-flight requests before returning.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Warn("http transport shutting down")
	return s.App.ShutdownWithContext(ctx)
}

// errorHandler maps the verify/registry/dispatch error taxonomy onto the
// status codes the HTTP surface documents: 404 unknown verifier, 422
// invalid config/filter roles, 400 verification execution errors, 500
// everything else.
func (s *Server) errorHandler(c *fiber.Ctx, err error) error {
	var notFound *verify.VerifierNotFoundError
	var invalidConfig *verify.InvalidConfigError
	var invalidFilter *verify.InvalidFilterError
	var timeout *verify.TimeoutError
	var queueFull *verify.QueueFullError
	var fiberErr *fiber.Error

	switch {
	case errors.As(err, &notFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorBody{
			Error: "verifier_not_found", Message: err.Error(),
			Detail: fmt.Sprintf("available: %v", notFound.Available),
		})
	case errors.As(err, &invalidConfig):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorBody{
			Error: "invalid_config", Message: err.Error(),
			Detail: fmt.Sprintf("invalid options: %v", invalidConfig.InvalidOptions),
		})
	case errors.As(err, &invalidFilter):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(ErrorBody{
			Error: "invalid_filter", Message: err.Error(),
			Detail: fmt.Sprintf("invalid roles: %v", invalidFilter.InvalidRoles),
		})
	case errors.As(err, &timeout):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorBody{
			Error: "timeout", Message: err.Error(),
		})
	case errors.As(err, &queueFull):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorBody{
			Error: "queue_full", Message: err.Error(),
		})
	case errors.As(err, &fiberErr):
		return c.Status(fiberErr.Code).JSON(ErrorBody{
			Error: "request_error", Message: fiberErr.Message,
		})
	default:
		s.logger.Error("unhandled request error", "err", err)
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorBody{
			Error: "internal_error", Message: "an internal error occurred",
		})
	}
}

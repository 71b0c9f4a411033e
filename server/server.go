// Package server exposes dream analysis over a single HTTP endpoint.
package server

import (
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/papercomputeco/dreamlens/pkg/dream"
)

// Plain-text notices for rejected requests.
const (
	msgMethodNotAllowed = "Please use POST method"
	msgMissingPrompt    = "Missing dreamPrompt in request body"
)

// Server answers POST requests on any path with an analysis of the posted
// dream. It keeps no state between requests.
type Server struct {
	config   Config
	analyzer *dream.Analyzer
	logger   *zap.Logger
	server   *fiber.App
}

// New creates a new Server.
func New(config Config, analyzer *dream.Analyzer, logger *zap.Logger) *Server {
	if config.AllowedOrigins == "" {
		config.AllowedOrigins = "*"
	}

	s := &Server{
		config:   config,
		analyzer: analyzer,
		logger:   logger,
	}

	app := fiber.New(fiber.Config{
		// Disable startup message for cleaner logs
		DisableStartupMessage: true,
		BodyLimit:             config.BodyLimit,
		ErrorHandler:          s.handleError,
	})

	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: config.AllowedOrigins,
		AllowMethods: "POST,OPTIONS",
		AllowHeaders: fiber.HeaderContentType,
		MaxAge:       86400,
	}))
	if config.AllowedOrigins == "*" {
		app.Use(allowAnyOrigin)
	}

	// Every path and method lands here; the handler does its own method check.
	app.Use(s.handleAnalyze)

	s.server = app
	return s
}

// Run starts the server on the configured listening address.
func (s *Server) Run() error {
	s.logger.Info("starting dream analysis server",
		zap.String("listen", s.config.ListenAddr),
	)

	return s.server.Listen(s.config.ListenAddr)
}

// RunWithListener serves on an existing listener.
func (s *Server) RunWithListener(ln net.Listener) error {
	s.logger.Info("starting dream analysis server",
		zap.String("listen", ln.Addr().String()),
	)

	return s.server.Listener(ln)
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown() error {
	return s.server.Shutdown()
}

// Handler returns the server as a net/http handler, for mounting under
// another mux or an httptest.Server.
func (s *Server) Handler() http.HandlerFunc {
	return adaptor.FiberApp(s.server)
}

// handleAnalyze validates the request, delegates to the analyzer, and
// relays its result as {"analysis": ...}. Failures other than the 405 and
// 400 guards are returned to handleError.
func (s *Server) handleAnalyze(c *fiber.Ctx) error {
	startTime := time.Now()

	if c.Method() != fiber.MethodPost {
		return sendText(c, fiber.StatusMethodNotAllowed, msgMethodNotAllowed)
	}

	prompt, err := dream.ParsePrompt(c.Body())
	if errors.Is(err, dream.ErrMissingPrompt) {
		return sendText(c, fiber.StatusBadRequest, msgMissingPrompt)
	}
	if err != nil {
		return err
	}

	requestID := c.GetRespHeader(fiber.HeaderXRequestID)
	s.logger.Debug("received dream",
		zap.String("request_id", requestID),
		zap.Int("prompt_length", len(prompt)),
	)

	analysis, err := s.analyzer.Analyze(c.UserContext(), prompt)
	if err != nil {
		return err
	}

	s.logger.Info("dream analyzed",
		zap.String("request_id", requestID),
		zap.Duration("duration", time.Since(startTime)),
	)

	return c.JSON(dream.Response{Analysis: analysis})
}

// handleError turns any failure into a plain-text response carrying the
// raw error message. Errors without a fiber status are 500s.
func (s *Server) handleError(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	s.logger.Error("dream analysis failed",
		zap.String("request_id", c.GetRespHeader(fiber.HeaderXRequestID)),
		zap.Int("status", code),
		zap.Error(err),
	)

	return sendText(c, code, "Error: "+err.Error())
}

// allowAnyOrigin marks responses to requests without an Origin header as
// readable from any origin; the cors middleware only answers CORS requests.
func allowAnyOrigin(c *fiber.Ctx) error {
	if c.GetRespHeader(fiber.HeaderAccessControlAllowOrigin) == "" {
		c.Set(fiber.HeaderAccessControlAllowOrigin, "*")
	}
	return c.Next()
}

func sendText(c *fiber.Ctx, status int, msg string) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(status).SendString(msg)
}

package server

import (
	"ctchen222/terminal-tic-tac-toe/internal/api/controller"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("server")

type Server struct {
	engine *gin.Engine
}

// NewServer wires the engine routes onto a gin engine.
func NewServer(engineController *controller.EngineController) *Server {
	r := gin.New()
	r.Use(gin.Recovery(), traceRequests())

	v1 := r.Group("/v1")
	{
		v1.POST("/status", engineController.Status)
		v1.POST("/move", engineController.Move)
		v1.GET("/history", engineController.History)
	}

	return &Server{engine: r}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// traceRequests opens a span per request and logs the outcome.
func traceRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, span := tracer.Start(c.Request.Context(), "server."+c.Request.Method+" "+c.FullPath(), trace.WithAttributes(
			attribute.String("http.url", c.Request.URL.String()),
			attribute.String("http.method", c.Request.Method),
		))
		defer span.End()
		c.Request = c.Request.WithContext(ctx)

		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= 500 {
			span.SetStatus(codes.Error, "Request failed")
		}
		slog.InfoContext(ctx, "request handled",
			"http.method", c.Request.Method,
			"http.path", c.Request.URL.Path,
			"http.status_code", status,
			"http.duration_ms", time.Since(start).Milliseconds(),
		)
	}
}

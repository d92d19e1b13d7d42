package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"cgmview/viewer/defs"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Websocket events.
const (
	EventAPI    = "api"
	EventCharts = "charts"
)

// Source serves the raw snapshot and the rendered charts.
type Source interface {
	Snapshot(ctx context.Context) (*defs.Snapshot, error)
	Charts(ctx context.Context) (any, error)
}

type Request struct {
	Event string `json:"event"`
}

type Response struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
}

type HttpServer struct {
	Source Source
	Logger *zap.Logger

	// StaticDir holds the page assets; empty disables static serving.
	StaticDir string
	// Metrics serves GET /metrics when set.
	Metrics http.Handler
	Timeout time.Duration

	router   *gin.Engine
	upgrader websocket.Upgrader
}

func New(src Source, staticDir string, metrics http.Handler, logger *zap.Logger) *HttpServer {
	hs := &HttpServer{
		Source:    src,
		Logger:    logger,
		StaticDir: staticDir,
		Metrics:   metrics,
		Timeout:   defs.FetchTimeout,
		// The zero Upgrader only accepts requests without an Origin header or
		// from the page's own host.
		upgrader: websocket.Upgrader{},
	}
	hs.router = hs.routes()
	return hs
}

func (s *HttpServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.logRequests())

	api := r.Group("/api")
	api.GET("/snapshot", func(c *gin.Context) {
		s.respond(c, func(ctx context.Context) (any, error) { return s.Source.Snapshot(ctx) })
	})
	api.GET("/charts", func(c *gin.Context) {
		s.respond(c, s.Source.Charts)
	})

	r.GET("/ws", s.serveWebsocket)

	if s.Metrics != nil {
		r.GET("/metrics", gin.WrapH(s.Metrics))
	}

	if s.StaticDir != "" {
		r.NoRoute(gin.WrapH(http.FileServer(http.Dir(s.StaticDir))))
	}
	return r
}

func (s *HttpServer) logRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Logger.Debug(
			"handled request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

func (s *HttpServer) respond(c *gin.Context, get func(ctx context.Context) (any, error)) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), s.Timeout)
	defer cancel()

	data, err := get(ctx)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, data)
}

func statusFor(err error) int {
	if errors.Is(err, defs.ErrUpstreamFetch) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func (s *HttpServer) serveWebsocket(c *gin.Context) {
	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.Logger.Debug("unable to upgrade connection", zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		var req Request
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.Logger.Debug("websocket closed", zap.Error(err))
			}
			return
		}

		if err := conn.WriteJSON(s.handleEvent(c.Request.Context(), req)); err != nil {
			s.Logger.Debug("unable to write reply", zap.String("event", req.Event), zap.Error(err))
			return
		}
	}
}

func (s *HttpServer) handleEvent(ctx context.Context, req Request) Response {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	var (
		data any
		err  error
	)
	switch req.Event {
	case EventAPI:
		data, err = s.Source.Snapshot(ctx)
	case EventCharts:
		data, err = s.Source.Charts(ctx)
	default:
		return Response{Event: req.Event, Error: "unknown event " + req.Event}
	}

	if err != nil {
		s.Logger.Debug("unable to serve event", zap.String("event", req.Event), zap.Error(err))
		return Response{Event: req.Event, Error: err.Error()}
	}
	return Response{Event: req.Event, Data: data}
}

func (s *HttpServer) Handler() http.Handler {
	return s.router
}

func (s *HttpServer) Run(addr string) error {
	s.Logger.Info("serving", zap.String("addr", addr), zap.String("static", s.StaticDir))
	return s.router.Run(addr)
}

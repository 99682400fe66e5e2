// Package server exposes reports over HTTP.
package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/levelcast/internal/logger"
	"github.com/abhisek/levelcast/internal/pace"
	"github.com/abhisek/levelcast/internal/session"
	"github.com/abhisek/levelcast/internal/source"
)

// SourceFactory opens the source for one learner's API token.
type SourceFactory func(token string) (source.Source, error)

type Server struct {
	factory SourceFactory
	opts    session.Options
	clock   source.Clock
	log     *logger.Logger
}

func New(factory SourceFactory, opts session.Options, clock source.Clock, log *logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	if clock == nil {
		clock = source.SystemClock{}
	}
	return &Server{factory: factory, opts: opts, clock: clock, log: log.With("component", "server")}
}

// Router builds the gin engine.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", healthCheck)

	v1 := r.Group("/v1")
	v1.Use(requireToken())
	v1.GET("/report", s.report)

	return r
}

type apiError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type errorEnvelope struct {
	Error apiError `json:"error"`
}

func respondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, errorEnvelope{Error: apiError{Message: msg, Code: code}})
}

func healthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

const tokenKey = "levelcast.token"

func requireToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if len(h) <= 7 || !strings.EqualFold(h[:7], "Bearer ") {
			respondError(c, http.StatusUnauthorized, "missing_token", errors.New("missing bearer token"))
			return
		}
		c.Set(tokenKey, strings.TrimSpace(h[7:]))
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}

type reportResponse struct {
	*session.Report
	Selected *pace.Projection `json:"selected,omitempty"`
}

func (s *Server) report(c *gin.Context) {
	scenario, err := pace.ParseScenario(c.Query("scenario"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "bad_scenario", err)
		return
	}

	src, err := s.factory(c.GetString(tokenKey))
	if err != nil {
		respondError(c, http.StatusBadRequest, "bad_source", err)
		return
	}

	svc := session.NewService(src, s.clock, s.opts, s.log)
	rep, err := svc.Build(c.Request.Context())
	if err != nil {
		status, code := classify(err)
		if status >= http.StatusInternalServerError {
			s.log.Error("build report", "error", err)
		}
		respondError(c, status, code, err)
		return
	}

	resp := reportResponse{Report: rep}
	if c.Query("scenario") != "" {
		if p, ok := rep.Projection(scenario); ok {
			resp.Selected = &p
		}
	}
	c.JSON(http.StatusOK, resp)
}

func classify(err error) (int, string) {
	var unauth *source.ErrUnauthorized
	if errors.As(err, &unauth) {
		return http.StatusUnauthorized, "unauthorized"
	}
	var unavail *source.ErrSourceUnavailable
	if errors.As(err, &unavail) {
		return http.StatusBadGateway, "source_unavailable"
	}
	return http.StatusInternalServerError, "internal"
}

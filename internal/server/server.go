package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/analysis"
	"github.com/spigell/resume-analyzer/internal/matching"
)

const (
	DefaultAddr     = ":8000"
	shutdownTimeout = 5 * time.Second
)

// DefaultAllowedOrigins is the CORS allow-list used when none is configured.
var DefaultAllowedOrigins = []string{"http://localhost:5173"}

// Analyzer is the analysis service served over HTTP.
type Analyzer interface {
	Analyze(ctx context.Context, raw string) (*analysis.Analysis, error)
	MatchSkills(candidateSkills []string, jobDescription string) matching.Result
}

// Config holds the HTTP surface settings.
type Config struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed-origins"`
}

type RouterDeps struct {
	Analyzer Analyzer
	Logger   *zap.Logger
	Config   Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	origins := deps.Config.AllowedOrigins
	if len(origins) == 0 {
		origins = DefaultAllowedOrigins
	}

	r := gin.New()

	r.Use(CORS(origins))
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(AccessLog(logger))

	h := &handler{analyzer: deps.Analyzer, logger: logger}

	r.GET("/", h.root)
	r.POST("/analyze/", h.analyze)
	r.POST("/match/", h.match)

	return r
}

// Run serves handler on addr until ctx is cancelled, then shuts the server
// down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, logger *zap.Logger) error {
	if addr == "" {
		addr = DefaultAddr
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen on %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	return nil
}

// Package server exposes export runs over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"followexport/core"
)

const shutdownTimeout = 10 * time.Second

type Runner interface {
	Run(ctx context.Context, username string) core.Outcome
}

type ExportRequest struct {
	Username string `json:"username"`
}

type ExportResponse struct {
	Outcome string `json:"outcome"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
	Count   int    `json:"count"`
}

func NewRouter(runner Runner, source string, metrics *Metrics, logger *zap.SugaredLogger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})))

	r.POST("/export", func(c *gin.Context) {
		var req ExportRequest

		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body: " + err.Error()})
			return
		}

		outcome := runner.Run(c.Request.Context(), req.Username)
		metrics.Observe(source, outcome)

		logger.Debugw("export request handled", "username", req.Username, "outcome", outcome.Kind.String())

		c.JSON(statusFor(outcome.Kind), ExportResponse{
			Outcome: outcome.Kind.String(),
			Message: outcome.Message,
			Path:    outcome.Path,
			Count:   outcome.Count,
		})
	})

	return r
}

func statusFor(kind core.OutcomeKind) int {
	switch kind {
	case core.OutcomeExported:
		return http.StatusOK
	case core.OutcomeEmptyInput, core.OutcomeInvalidUsername:
		return http.StatusBadRequest
	case core.OutcomeNotFound:
		return http.StatusNotFound
	case core.OutcomeSuspended, core.OutcomePrivate:
		return http.StatusForbidden
	case core.OutcomeValidationFailed, core.OutcomeFetchFailed:
		return http.StatusBadGateway
	case core.OutcomeNoFollowings:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Serve blocks until ctx is done, then shuts the server down.
func Serve(ctx context.Context, listen string, handler http.Handler, logger *zap.SugaredLogger) error {
	srv := &http.Server{
		Addr:              listen,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Listening on %s", listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

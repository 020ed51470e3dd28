// Package main provides the substitution plan server entry point.
package main

import (
	stderrors "errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hhgyloh/untisplan-go/internal/config"
	domerrors "github.com/hhgyloh/untisplan-go/internal/errors"
	"github.com/hhgyloh/untisplan-go/internal/logger"
	"github.com/hhgyloh/untisplan-go/internal/plan"
	"github.com/hhgyloh/untisplan-go/internal/storage"
)

// api bundles the handlers' collaborators.
type api struct {
	svc *plan.Service
	db  *storage.DB
	cfg *config.Config
	log *logger.Logger
}

func newAPI(svc *plan.Service, db *storage.DB, cfg *config.Config, log *logger.Logger) *api {
	return &api{svc: svc, db: db, cfg: cfg, log: log.WithModule("api")}
}

// setupRoutes configures all HTTP routes
func setupRoutes(router *gin.Engine, a *api, db *storage.DB, registry *prometheus.Registry, cfg *config.Config) {
	// Health check endpoints
	// Liveness Probe - checks if the application is alive (minimal check)
	// This should NEVER check dependencies - only that the process is running
	healthHandler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
	router.GET("/healthz", healthHandler)
	router.HEAD("/healthz", healthHandler)

	// Readiness Probe - checks if the application is ready to serve traffic
	readyHandler := func(c *gin.Context) {
		if err := db.Ready(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
				"reason": err.Error(),
			})
			return
		}

		planCount, _ := db.CountPlans(c.Request.Context())

		c.JSON(http.StatusOK, gin.H{
			"status":   "ready",
			"database": "connected",
			"archive": gin.H{
				"plans": planCount,
			},
		})
	}
	router.GET("/ready", readyHandler)
	router.HEAD("/ready", readyHandler)

	// Plan API
	v1 := router.Group("/api/v1")
	v1.GET("/plan/:date", a.getPlan)
	v1.GET("/plans", a.getPlans)
	v1.GET("/archive", a.getArchive)

	// Prometheus metrics endpoint (Basic Auth when a password is configured)
	metricsHandler := gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	if cfg.MetricsPassword != "" {
		authorized := router.Group("/", gin.BasicAuth(gin.Accounts{
			cfg.MetricsUsername: cfg.MetricsPassword,
		}))
		authorized.GET("/metrics", metricsHandler)
	} else {
		router.GET("/metrics", metricsHandler)
	}
}

const dateParamFormat = "2006-01-02"

// parseDateParam accepts an ISO date or the literal "today".
func parseDateParam(raw string) (time.Time, error) {
	if raw == "today" {
		return plan.DayStart(time.Now().UTC()), nil
	}
	return time.Parse(dateParamFormat, raw)
}

// getPlan serves GET /api/v1/plan/:date
func (a *api) getPlan(c *gin.Context) {
	date, err := parseDateParam(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid date, expected YYYY-MM-DD or \"today\"",
		})
		return
	}

	p, err := a.svc.GetPlan(c.Request.Context(), date)
	if err != nil {
		a.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// getPlans serves GET /api/v1/plans?start=YYYY-MM-DD&count=N
func (a *api) getPlans(c *gin.Context) {
	start := plan.DayStart(time.Now().UTC())
	if raw := c.Query("start"); raw != "" {
		var err error
		start, err = parseDateParam(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "invalid start date, expected YYYY-MM-DD or \"today\"",
			})
			return
		}
	}

	count := a.cfg.MaxPlansPerRequest
	if raw := c.Query("count"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid count"})
			return
		}
		count = parsed
	}
	if count > a.cfg.MaxPlansPerRequest {
		count = a.cfg.MaxPlansPerRequest
	}

	plans, err := a.svc.GetPlans(c.Request.Context(), start, count)
	if err != nil {
		// Plans fetched before the failure are still worth returning.
		if len(plans) > 0 {
			c.JSON(http.StatusOK, gin.H{
				"plans":   plans,
				"partial": true,
				"error":   err.Error(),
			})
			return
		}
		a.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// getArchive serves GET /api/v1/archive?limit=N
func (a *api) getArchive(c *gin.Context) {
	limit := 7
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}
	if limit > 100 {
		limit = 100
	}

	plans, err := a.db.ListRecent(c.Request.Context(), limit)
	if err != nil {
		a.log.WithError(err).Error("Failed to list archived plans")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "archive unavailable"})
		return
	}
	if plans == nil {
		plans = []*storage.ArchivedPlan{}
	}
	c.JSON(http.StatusOK, gin.H{"plans": plans})
}

// renderError maps domain errors onto HTTP statuses.
func (a *api) renderError(c *gin.Context, err error) {
	var notFound *domerrors.PlanNotFoundError
	if stderrors.As(err, &notFound) {
		body := gin.H{
			"error":     "plan not found",
			"requested": notFound.Requested.Format(dateParamFormat),
		}
		if !notFound.Got.IsZero() {
			body["got"] = notFound.Got.Format(dateParamFormat)
		}
		c.JSON(http.StatusNotFound, body)
		return
	}

	var remoteErr *domerrors.RemoteError
	if stderrors.As(err, &remoteErr) {
		c.JSON(http.StatusBadGateway, gin.H{
			"error": "monitor rejected the request",
			"code":  remoteErr.Code,
		})
		return
	}

	var parseErr *domerrors.ParsingError
	if stderrors.As(err, &parseErr) {
		a.log.WithError(err).Error("Failed to normalize monitor payload")
		c.JSON(http.StatusBadGateway, gin.H{"error": "monitor payload not understood"})
		return
	}

	var commErr *domerrors.CommunicationError
	if stderrors.As(err, &commErr) {
		c.JSON(http.StatusBadGateway, gin.H{"error": "monitor unreachable"})
		return
	}

	a.log.WithError(err).Error("Unexpected error")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

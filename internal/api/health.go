// Copyright (c) 2026 Contactio. All rights reserved.
// Author: d.kovalov.dev@gmail.com

// Health check handlers for liveness, readiness, and the legacy
// database-probing healthchecker endpoint.
package api

import (
	"log/slog"
	"net/http"

	"github.com/dkovalov/contactio/internal/platform/respond"
)

// HealthDependencies holds the injectable dependency checkers for the probes.
type HealthDependencies struct {
	// CheckDatabase pings the PostgreSQL pool.
	CheckDatabase func() error

	// CheckCache pings the Redis client.
	CheckCache func() error

	// QueryDatabase runs a trivial real query, proving the database
	// answers SQL and not just pings.
	QueryDatabase func() error
}

type healthHandler struct {
	dependencies HealthDependencies
	logger       *slog.Logger
}

// NewHealthHandlers creates the /health, /ready, and /api/healthchecker
// http.HandlerFuncs.
func NewHealthHandlers(deps HealthDependencies, logger *slog.Logger) (liveness, readiness, healthchecker http.HandlerFunc) {
	handler := &healthHandler{dependencies: deps, logger: logger}
	return handler.liveness, handler.readiness, handler.healthchecker
}

// liveness handles GET /health (Liveness probe).
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{"status": "ok"})
}

// readiness handles GET /ready (Readiness probe).
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	type checkResult struct {
		Name  string `json:"name"`
		IsOK  bool   `json:"ok"`
		Error string `json:"error,omitempty"`
	}

	results := make([]checkResult, 0, 2)
	isSystemReady := true

	// Check PostgreSQL
	if handler.dependencies.CheckDatabase != nil {
		result := checkResult{Name: "postgres", IsOK: true}
		if err := handler.dependencies.CheckDatabase(); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			isSystemReady = false
			handler.logger.Error("readiness_check_failed", slog.String("dependency", "postgres"), slog.Any("error", err))
		}
		results = append(results, result)
	}

	// Check Redis
	if handler.dependencies.CheckCache != nil {
		result := checkResult{Name: "redis", IsOK: true}
		if err := handler.dependencies.CheckCache(); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			isSystemReady = false
			handler.logger.Error("readiness_check_failed", slog.String("dependency", "redis"), slog.Any("error", err))
		}
		results = append(results, result)
	}

	responseStatus := "ready"
	statusCode := http.StatusOK

	if !isSystemReady {
		responseStatus = "degraded"
		statusCode = http.StatusServiceUnavailable
	}

	respond.JSON(writer, statusCode, map[string]any{
		"status": responseStatus,
		"checks": results,
	})
}

// healthchecker handles GET /api/healthchecker.
//
// Unlike the pool ping behind /ready, this endpoint executes an actual
// query, catching the case where connections exist but SQL fails.
func (handler *healthHandler) healthchecker(writer http.ResponseWriter, request *http.Request) {
	if handler.dependencies.QueryDatabase != nil {
		if err := handler.dependencies.QueryDatabase(); err != nil {
			handler.logger.Error("healthchecker_failed", slog.Any("error", err))
			respond.JSON(writer, http.StatusInternalServerError, map[string]string{
				"detail": "Error connecting to the database",
			})
			return
		}
	}

	respond.OK(writer, map[string]string{
		"message": "Welcome to Contactio API",
	})
}

// Package server exposes the turn handler over HTTP.
package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"interrogation/internal/game"
	"interrogation/internal/turn"
)

const requestIDHeader = "X-Request-ID"

// NewRouter wires the API routes. gatherer may be nil to leave out /metrics.
func NewRouter(h *turn.Handler, gatherer prometheus.Gatherer, logger *slog.Logger) *gin.Engine {
	if logger == nil {
		logger = slog.Default()
	}
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")
	{
		api.GET("/interrogate", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "API Online"})
		})
		api.POST("/interrogate", HandleTurn(h, logger))
		api.GET("/scenario", HandleScenario(h))
	}
	return router
}

// HandleTurn decodes a turn request, runs it and maps failures onto HTTP
// statuses.
func HandleTurn(h *turn.Handler, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req turn.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
			return
		}
		if req.APIKey == "" {
			req.APIKey = bearerToken(c)
		}

		resp, err := h.Handle(c.Request.Context(), req)
		if err != nil {
			status := statusFor(err)
			if status == http.StatusInternalServerError {
				logger.Error("turn failed", "request_id", c.GetString(requestIDHeader), "error", err)
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// publicCharacter is what a client may show before questioning starts.
type publicCharacter struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Role             game.Role `json:"role"`
	Personality      string    `json:"personality"`
	RelationToVictim string    `json:"relationToVictim"`
	Alibi            string    `json:"alibi"`
}

// HandleScenario returns the victim and the roster, never the solution or
// what each character knows.
func HandleScenario(h *turn.Handler) gin.HandlerFunc {
	return func(c *gin.Context) {
		engine, err := h.Engine(c.Request.Context())
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		s := engine.Scenario()
		roster := make([]publicCharacter, 0, len(s.Characters))
		for _, ch := range s.Characters {
			roster = append(roster, publicCharacter{
				ID:               ch.ID,
				Name:             ch.Name,
				Role:             ch.Role,
				Personality:      ch.Personality,
				RelationToVictim: ch.RelationToVictim,
				Alibi:            ch.Alibi,
			})
		}
		c.JSON(http.StatusOK, gin.H{
			"id":         s.ID,
			"victim":     s.Truth.Victim,
			"characters": roster,
		})
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, turn.ErrMissingCredential):
		return http.StatusUnauthorized
	case errors.Is(err, turn.ErrMissingMessage), errors.Is(err, turn.ErrInvalidAction),
		errors.Is(err, game.ErrInvalidState):
		return http.StatusBadRequest
	case errors.Is(err, turn.ErrCharacterNotFound):
		return http.StatusNotFound
	default:
		// Includes scenario load failures.
		return http.StatusInternalServerError
	}
}

// bearerToken reads "Authorization: Bearer <token>"; the scheme is
// case-insensitive.
func bearerToken(c *gin.Context) string {
	parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDHeader, id)
		c.Header(requestIDHeader, id)

		start := time.Now()
		c.Next()

		logger.Info("request",
			"request_id", id,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}

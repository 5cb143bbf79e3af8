// Package api exposes the disease queries and loading over HTTP.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hetio-cli/backend/internal/app"
	"hetio-cli/backend/internal/ingest"
	apperrors "hetio-cli/backend/pkg/errors"
)

const defaultStatsLimit = 5

// NewRouter builds the gin engine serving backend
func NewRouter(backend app.Backend, log *zap.Logger, production bool) *gin.Engine {
	if production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())
	router.Use(cors())

	h := &handlers{backend: backend, log: log}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.GET("/diseases/:id/summary", h.summary)
		api.GET("/diseases/:id/treatments", h.treatments)
		api.POST("/load", h.load)
		api.GET("/stats", h.stats)
	}
	return router
}

type handlers struct {
	backend app.Backend
	log     *zap.Logger
}

func (h *handlers) summary(c *gin.Context) {
	s, err := h.backend.DiseaseSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, "Failed to summarize disease", err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *handlers) treatments(c *gin.Context) {
	id := c.Param("id")
	candidates, err := h.backend.InferTreatments(c.Request.Context(), id)
	if err != nil {
		h.fail(c, "Failed to infer treatments", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"disease_id": id,
		"candidates": candidates,
	})
}

func (h *handlers) load(c *gin.Context) {
	var req struct {
		Reset bool `json:"reset"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	report, err := h.backend.Load(c.Request.Context(), ingest.LoadOptions{Reset: req.Reset})
	if err != nil {
		h.fail(c, "Failed to load tables", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"report":   report,
		"warnings": report.WarningMessages(),
	})
}

func (h *handlers) stats(c *gin.Context) {
	st, err := h.backend.Stats(c.Request.Context(), defaultStatsLimit)
	if err != nil {
		h.fail(c, "Failed to compute statistics", err)
		return
	}
	c.JSON(http.StatusOK, st)
}

// fail maps typed errors to status codes: bad identifiers are the client's
// fault, warnings mean nothing matched
func (h *handlers) fail(c *gin.Context, msg string, err error) {
	var invalid *apperrors.InvalidIdentifierError
	switch {
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case apperrors.IsWarning(err):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.log.Error(msg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

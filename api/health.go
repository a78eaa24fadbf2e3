package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler answers the registry's liveness probe. It pings the
// service's own store: a service that cannot reach its store should drop
// out of discovery.
type HealthHandler struct {
	service string
	ping    func(ctx context.Context) error
}

func NewHealthHandler(service string, ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{service: service, ping: ping}
}

func (h *HealthHandler) Register(router gin.IRoutes) {
	router.GET("/health", h.check)
}

func (h *HealthHandler) check(c *gin.Context) {
	if h.ping != nil {
		if err := h.ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "service": h.service})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "service": h.service})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"task-manager/internal/models"
)

func (h *Handler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		h.log.Error("health check failed", "err", err)
		c.JSON(http.StatusInternalServerError, models.HealthResponse{OK: false, Message: "Database unavailable"})
		return
	}
	c.JSON(http.StatusOK, models.HealthResponse{OK: true})
}

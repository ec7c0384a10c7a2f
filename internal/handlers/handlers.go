package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"task-manager/internal/auth"
	"task-manager/internal/middleware"
	"task-manager/internal/models"
	"task-manager/internal/store"
)

type Handler struct {
	store  store.Store
	tokens *auth.Service
	log    *log.Logger
}

func New(s store.Store, tokens *auth.Service, logger *log.Logger) *Handler {
	return &Handler{store: s, tokens: tokens, log: logger}
}

func parseId(id string) (uuid.UUID, error) {
	return uuid.Parse(id)
}

// bindJSON decodes the request body into dst. An empty body leaves dst at
// its zero value. On failure the response is already written.
func bindJSON(c *gin.Context, dst any, invalidMessage string) bool {
	err := c.ShouldBindBodyWithJSON(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return true
	}
	if middleware.IsBodyTooLarge(err) {
		middleware.AbortBodyTooLarge(c)
		return false
	}
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: invalidMessage})
	return false
}

func (h *Handler) fail(c *gin.Context, status int, message string, err error) {
	h.log.Error(message, "err", err, "path", c.Request.URL.Path)
	c.JSON(status, models.ErrorResponse{Message: message})
}

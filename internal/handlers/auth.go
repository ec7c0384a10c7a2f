package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"task-manager/internal/auth"
	"task-manager/internal/middleware"
	"task-manager/internal/models"
	"task-manager/internal/store"
)

const (
	msgRegisterFields     = "Name, email, and password are required"
	msgLoginFields        = "Email and password are required"
	msgInvalidCredentials = "Invalid credentials"
)

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (h *Handler) Register(c *gin.Context) {
	request := models.RegisterRequest{}
	if !bindJSON(c, &request, msgRegisterFields) {
		return
	}

	user := models.User{
		Name:  strings.TrimSpace(request.Name),
		Email: normalizeEmail(request.Email),
	}
	if user.Name == "" || user.Email == "" || request.Password == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: msgRegisterFields})
		return
	}

	hashed, err := auth.HashPassword(request.Password)
	if errors.Is(err, auth.ErrPasswordTooLong) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: "Password is too long"})
		return
	}
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "Failed to register", err)
		return
	}
	user.PasswordHash = hashed

	err = h.store.CreateUser(c.Request.Context(), &user)
	if errors.Is(err, store.ErrEmailTaken) {
		c.JSON(http.StatusConflict, models.ErrorResponse{Message: "Email already registered"})
		return
	}
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "Failed to register", err)
		return
	}

	token, err := h.tokens.IssueToken(identityOf(user))
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "Failed to register", err)
		return
	}

	c.JSON(http.StatusCreated, models.AuthResponse{User: user, Token: token})
}

func (h *Handler) Login(c *gin.Context) {
	request := models.LoginRequest{}
	if !bindJSON(c, &request, msgLoginFields) {
		return
	}

	email := normalizeEmail(request.Email)
	if email == "" || request.Password == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Message: msgLoginFields})
		return
	}

	user, err := h.store.FindUserByEmail(c.Request.Context(), email)
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: msgInvalidCredentials})
		return
	}
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "Failed to login", err)
		return
	}

	if !auth.CheckPassword(user.PasswordHash, request.Password) {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: msgInvalidCredentials})
		return
	}

	token, err := h.tokens.IssueToken(identityOf(*user))
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "Failed to login", err)
		return
	}

	c.JSON(http.StatusOK, models.AuthResponse{User: *user, Token: token})
}

func (h *Handler) Me(c *gin.Context) {
	id, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Message: "Missing auth token"})
		return
	}

	c.JSON(http.StatusOK, models.UserResponse{User: models.User{ID: id.ID, Name: id.Name, Email: id.Email}})
}

func identityOf(user models.User) auth.Identity {
	return auth.Identity{ID: user.ID, Email: user.Email, Name: user.Name}
}

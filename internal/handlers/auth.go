package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/daily-planner-api/internal/dto"
	apierrors "github.com/yukikurage/daily-planner-api/internal/errors"
	"github.com/yukikurage/daily-planner-api/internal/middleware"
	"github.com/yukikurage/daily-planner-api/internal/models"
	"github.com/yukikurage/daily-planner-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register creates an account and signs the user in.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		LoginKey string `json:"loginKey" binding:"required"`
		Password string `json:"password" binding:"required"`
		Name     string `json:"name"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "loginKey and password are required")
		return
	}

	user, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		LoginKey: req.LoginKey,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondSession(c, http.StatusCreated, user)
}

// Login checks credentials and returns a fresh token.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		LoginKey string `json:"loginKey" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "loginKey and password are required")
		return
	}

	user, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		LoginKey: req.LoginKey,
		Password: req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.respondSession(c, http.StatusOK, user)
}

// GetCurrentUser returns the authenticated user.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthenticated(c, "")
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToUserDTO(*user))
}

func (h *AuthHandler) respondSession(c *gin.Context, status int, user *models.User) {
	session, err := h.authService.IssueSession(user)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, dto.ToAuthResponse(session.Token, session.ExpiresIn, *session.User))
}

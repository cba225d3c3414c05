package handlers

import (
	"log/slog"
	"net/http"

	portssvc "github.com/bizbook/bizbook_backend/internal/core/ports/services"
	"github.com/bizbook/bizbook_backend/internal/dto"
	"github.com/bizbook/bizbook_backend/internal/middleware"
	"github.com/bizbook/bizbook_backend/internal/platform/config"
	"github.com/bizbook/bizbook_backend/internal/utils"
	"github.com/gin-gonic/gin"
)

// authHandler handles registration and login.
type authHandler struct {
	cfg     *config.Config
	userSvc portssvc.UserSvcFacade
}

func newAuthHandler(cfg *config.Config, userSvc portssvc.UserSvcFacade) *authHandler {
	return &authHandler{cfg: cfg, userSvc: userSvc}
}

// registerAuthRoutes registers the public authentication routes.
func registerAuthRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := newAuthHandler(cfg, services.User)

	auth := r.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
	}
}

// register godoc
// @Summary Register a new business owner
// @Description Creates an owner account. All business data is scoped to this account.
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   user body dto.RegisterUserRequest true "Registration details"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 409 {object} map[string]string "Email already registered"
// @Router /auth/register [post]
func (h *authHandler) register(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.RegisterUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Register", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.userSvc.Register(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, logger, err)
		return
	}

	logger.Info("User registered", slog.String("user_id", user.UserID))
	c.JSON(http.StatusCreated, gin.H{"userID": user.UserID, "name": user.Name, "email": user.Email})
}

// login godoc
// @Summary Log in
// @Description Verifies credentials and issues an access token
// @Tags auth
// @Accept  json
// @Produce  json
// @Param   credentials body dto.LoginRequest true "Login credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Invalid credentials"
// @Router /auth/login [post]
func (h *authHandler) login(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Login", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	user, err := h.userSvc.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// A uniform 401 regardless of which credential was wrong.
		logger.Warn("Authentication failed", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := utils.CreateAccessToken(h.cfg, user.UserID)
	if err != nil {
		logger.Error("Failed to create access token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue token"})
		return
	}

	logger.Info("User logged in", slog.String("user_id", user.UserID))
	c.JSON(http.StatusOK, dto.LoginResponse{
		UserID:      user.UserID,
		Name:        user.Name,
		AccessToken: token,
	})
}

// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/empdesk/internal/app/models/dto"
	"github.com/yigit/empdesk/internal/app/services"
	"github.com/yigit/empdesk/internal/middleware"
)

// AuthController handles authentication related operations
type AuthController struct {
	authService *services.AuthService
	logger      zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(authService *services.AuthService, logger zerolog.Logger) *AuthController {
	return &AuthController{
		authService: authService,
		logger:      logger,
	}
}

// Register handles administrator registration
// @Summary Register a new administrator
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Credentials"
// @Success 201 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse "Missing fields, password mismatch or username taken"
// @Router /api/auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req dto.RegisterRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.logger.Debug().Err(err).Msg("Unreadable registration payload")
	}

	if _, err := c.authService.Register(ctx.Request.Context(), req.Username, req.Password, req.ConfirmPassword); err != nil {
		middleware.HandleAPIError(ctx, err, "Internal server error")
		return
	}

	ctx.JSON(http.StatusCreated, dto.SuccessResponse{Message: "User registered successfully"})
}

// Login handles user login
// @Summary Log in
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse
// @Failure 400 {object} dto.ErrorResponse "Missing fields or invalid credentials"
// @Router /api/auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBind(&req); err != nil {
		c.logger.Debug().Err(err).Msg("Unreadable login payload")
	}

	token, expiresIn, err := c.authService.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		middleware.HandleAPIError(ctx, err, "Internal server error")
		return
	}

	ctx.JSON(http.StatusOK, dto.AuthResponse{
		Message:   "Login successful",
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: expiresIn,
	})
}

// Logout acknowledges a logout; the client discards its token.
// @Summary Log out
// @Tags auth
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Router /api/auth/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: c.authService.Logout()})
}

// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/examseating/internal/app/auth"
	"github.com/yigit/examseating/internal/app/models"
	"github.com/yigit/examseating/internal/app/models/dto"
	"github.com/yigit/examseating/internal/middleware"
	"github.com/yigit/examseating/internal/pkg/apperrors"
)

// Login failures
var (
	ErrEmailRequired = apperrors.NewBadRequestError("Email required")
	ErrFacultyOnly   = apperrors.NewForbiddenError("Access denied. Only faculty can log in.")
)

// AuthController handles login and logout
type AuthController struct {
	classifier *auth.Classifier
	logger     zerolog.Logger
}

// NewAuthController creates a new AuthController
func NewAuthController(classifier *auth.Classifier, logger zerolog.Logger) *AuthController {
	return &AuthController{
		classifier: classifier,
		logger:     logger,
	}
}

// Login starts a faculty session
// @Summary Log in
// @Description Starts a session for a faculty email. Student and unknown emails are refused.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login email"
// @Success 200 {object} dto.APIResponse{data=dto.LoginResponse} "Login successful"
// @Failure 400 {object} dto.ErrorResponse "Email required"
// @Failure 403 {object} dto.ErrorResponse "Only faculty can log in"
// @Router /login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req dto.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		c.logger.Debug().Err(err).Msg("Unreadable login payload")
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		middleware.HandleAPIError(ctx, ErrEmailRequired)
		return
	}

	role := c.classifier.Classify(email)
	if role != models.RoleFaculty {
		c.logger.Warn().Str("email", email).Str("role", string(role)).Msg("Login refused")
		middleware.HandleAPIError(ctx, ErrFacultyOnly)
		return
	}

	session := sessions.Default(ctx)
	session.Set(middleware.SessionKeyEmail, email)
	session.Set(middleware.SessionKeyRole, string(models.RoleFaculty))
	if err := session.Save(); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("email", email).Msg("Faculty logged in")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.LoginResponse{
		Email: email,
		Role:  models.RoleFaculty,
	}, "Login successful"))
}

// Logout clears the session
// @Summary Log out
// @Tags auth
// @Produce json
// @Success 200 {object} dto.APIResponse "Logged out successfully"
// @Failure 403 {object} dto.ErrorResponse "Invalid credentials"
// @Router /logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	session := sessions.Default(ctx)
	email := ctx.GetString(middleware.ContextKeyEmail)

	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	c.logger.Info().Str("email", email).Msg("Faculty logged out")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Logged out successfully"))
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"portfolio_admin/internal/appErrors"
	"portfolio_admin/internal/services"
	"portfolio_admin/internal/services/dto"
	"portfolio_admin/internal/validator"
)

type AuthHandler struct {
	authService services.AuthService
	validator   *validator.Validator
	db          *gorm.DB
}

func NewAuthHandler(authService services.AuthService, v *validator.Validator, db *gorm.DB) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validator:   v,
		db:          db,
	}
}

func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	auth := r.Group("/auth")
	{
		auth.POST("/login", h.Login)
	}
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		var vErr *validator.ValidationError
		if appErrors.As(err, &vErr) {
			respondError(c, appErrors.ValidationError(vErr.Errors))
			return
		}
		respondError(c, appErrors.InternalError(err))
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), h.db, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

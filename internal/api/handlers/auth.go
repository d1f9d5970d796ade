package handlers

import (
	"net/http"

	"wall-service/internal/api/middleware"
	"wall-service/internal/models"
	"wall-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService AuthService
}

func NewAuthHandler(authService AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login godoc
// @Summary User login
// @Description Authenticate with mail and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body models.LoginRequest true "User login credentials (username carries the mail)"
// @Success 200 {object} models.LoginResponse "Login successful - returns JWT token and user data"
// @Failure 400 {object} models.ErrorResponse "Bad request - invalid input data"
// @Failure 401 {object} models.ErrorResponse "Unauthorized - invalid credentials"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "", "username and password are required")
		return
	}

	loginResponse, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		errorMapper.Abort(c, err)
		return
	}

	c.JSON(http.StatusOK, loginResponse)
}

// Logout godoc
// @Summary User logout
// @Description Clear the caller's presence. The token stays valid until it expires.
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.SuccessResponse "Logged out"
// @Failure 401 {object} models.ErrorResponse "Unauthorized - invalid or missing token"
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	if err := h.authService.Logout(c.Request.Context(), userID); err != nil {
		errorMapper.Abort(c, err)
		return
	}
	response.Success(c, "Logged out")
}

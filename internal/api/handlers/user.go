package handlers

import (
	"net/http"
	"strconv"

	"wall-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type UserHandler struct {
	userService UserService
}

func NewUserHandler(userService UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetUser godoc
// @Summary Get user profile
// @Description Get the public profile of a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.UserResponse "User profile"
// @Failure 400 {object} models.ErrorResponse "Invalid user ID"
// @Failure 401 {object} models.ErrorResponse "Unauthorized - invalid or missing token"
// @Failure 404 {object} models.ErrorResponse "User not found"
// @Router /user/{id} [get]
func (h *UserHandler) GetUser(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid user ID", "")
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), uint(id))
	if err != nil {
		errorMapper.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ConnectedUsers godoc
// @Summary Connected users
// @Description List the users currently connected to the wall
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.UserResponse "Connected users"
// @Failure 401 {object} models.ErrorResponse "Unauthorized - invalid or missing token"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /connected-users [get]
func (h *UserHandler) ConnectedUsers(c *gin.Context) {
	users, err := h.userService.ConnectedUsers(c.Request.Context())
	if err != nil {
		errorMapper.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

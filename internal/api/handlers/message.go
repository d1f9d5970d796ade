package handlers

import (
	"net/http"
	"strconv"

	"wall-service/internal/api/middleware"
	"wall-service/internal/models"
	"wall-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageService MessageService
}

func NewMessageHandler(messageService MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// ListMessages godoc
// @Summary List wall messages
// @Description Paginated wall with sorting and owner/hashtag filters
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Page size, 1 to 50 (default 5)"
// @Param sortBy query string false "date, date-asc, likes or comments"
// @Param filterOwner query bool false "true for the caller's messages, false for everyone else's"
// @Param filterHashtag query string false "Hashtag, with or without '#'"
// @Success 200 {object} models.MessagePage "Page of messages"
// @Failure 400 {object} models.ErrorResponse "Invalid query parameter"
// @Failure 401 {object} models.ErrorResponse "Unauthorized - invalid or missing token"
// @Failure 500 {object} models.ErrorResponse "Internal server error"
// @Router /messages [get]
func (h *MessageHandler) ListMessages(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	q := models.MessageQuery{
		SortBy:        c.Query("sortBy"),
		FilterHashtag: c.Query("filterHashtag"),
		UserID:        userID,
	}

	var err error
	if q.Page, err = intQuery(c, "page"); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid page", err.Error())
		return
	}
	if q.Limit, err = intQuery(c, "limit"); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid limit", err.Error())
		return
	}
	if v := c.Query("filterOwner"); v != "" {
		mine, err := strconv.ParseBool(v)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "Invalid filterOwner", err.Error())
			return
		}
		q.FilterOwner = &mine
	}

	page, err := h.messageService.List(c.Request.Context(), q)
	if err != nil {
		errorMapper.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

// intQuery parses an optional integer parameter, 0 when absent
func intQuery(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}

// LikeMessage godoc
// @Summary Like a message
// @Description Add the caller's like. Each user likes a message at most once.
// @Tags messages
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Success 200 {object} models.Message "Updated message"
// @Failure 400 {object} models.ErrorResponse "Invalid message ID"
// @Failure 404 {object} models.ErrorResponse "Message not found"
// @Failure 409 {object} models.ErrorResponse "Message already liked"
// @Router /messages/{id}/like [post]
func (h *MessageHandler) LikeMessage(c *gin.Context) {
	userID, _ := middleware.UserID(c)
	msg, err := h.messageService.Like(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		errorMapper.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, msg)
}

// CommentMessage godoc
// @Summary Comment on a message
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Param request body models.CommentRequest true "Comment"
// @Success 201 {object} models.Comment "Created comment"
// @Failure 400 {object} models.ErrorResponse "Invalid message ID or empty text"
// @Failure 404 {object} models.ErrorResponse "Message not found"
// @Router /messages/{id}/comment [post]
func (h *MessageHandler) CommentMessage(c *gin.Context) {
	var req models.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Comment text is required", "")
		return
	}

	userID, _ := middleware.UserID(c)
	comment, err := h.messageService.Comment(c.Request.Context(), c.Param("id"), userID, req.Text)
	if err != nil {
		errorMapper.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// ShareMessage godoc
// @Summary Share a message
// @Description Create a new message by the caller that references the original
// @Tags messages
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Message ID"
// @Param request body models.ShareRequest false "Optional body"
// @Success 201 {object} models.Message "Shared message"
// @Failure 400 {object} models.ErrorResponse "Invalid message ID"
// @Failure 404 {object} models.ErrorResponse "Message not found"
// @Router /messages/{id}/share [post]
func (h *MessageHandler) ShareMessage(c *gin.Context) {
	var req models.ShareRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "", err.Error())
			return
		}
	}

	userID, _ := middleware.UserID(c)
	msg, err := h.messageService.Share(c.Request.Context(), c.Param("id"), userID, req.Body)
	if err != nil {
		errorMapper.Abort(c, err)
		return
	}
	c.JSON(http.StatusCreated, msg)
}

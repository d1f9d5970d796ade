package handlers

import (
	"net/http"
	"strconv"

	"wall-service/internal/models"
	"wall-service/pkg/response"

	"github.com/gin-gonic/gin"
)

type HashtagHandler struct {
	hashtagService HashtagService
}

func NewHashtagHandler(hashtagService HashtagService) *HashtagHandler {
	return &HashtagHandler{hashtagService: hashtagService}
}

// ListHashtags godoc
// @Summary List hashtags
// @Tags hashtags
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Hashtag
// @Router /hashtags [get]
func (h *HashtagHandler) ListHashtags(c *gin.Context) {
	hashtags, err := h.hashtagService.List(c.Request.Context())
	if err != nil {
		errorMapper.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, hashtags)
}

// PopularHashtags godoc
// @Summary Most used hashtags
// @Tags hashtags
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of hashtags (default 10)"
// @Success 200 {array} models.Hashtag
// @Failure 400 {object} models.ErrorResponse "Invalid limit"
// @Router /hashtags/popular [get]
func (h *HashtagHandler) PopularHashtags(c *gin.Context) {
	limit, err := intQuery(c, "limit")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid limit", err.Error())
		return
	}

	hashtags, err := h.hashtagService.Popular(c.Request.Context(), limit)
	if err != nil {
		errorMapper.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, hashtags)
}

// GetHashtag godoc
// @Summary Get a hashtag
// @Tags hashtags
// @Produce json
// @Security BearerAuth
// @Param id path string true "Hashtag ID"
// @Success 200 {object} models.Hashtag
// @Failure 400 {object} models.ErrorResponse "Invalid hashtag ID"
// @Failure 404 {object} models.ErrorResponse "Hashtag not found"
// @Router /hashtags/{id} [get]
func (h *HashtagHandler) GetHashtag(c *gin.Context) {
	hashtag, err := h.hashtagService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		errorMapper.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, hashtag)
}

// CreateHashtag godoc
// @Summary Create a hashtag
// @Description Creates the hashtag, or adds the usage count to an existing one with the same name
// @Tags hashtags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.HashtagRequest true "Hashtag"
// @Success 201 {object} models.Hashtag "Created"
// @Success 200 {object} models.Hashtag "Merged into an existing hashtag"
// @Failure 400 {object} models.ErrorResponse "Invalid hashtag"
// @Router /hashtags [post]
func (h *HashtagHandler) CreateHashtag(c *gin.Context) {
	var req models.HashtagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "", err.Error())
		return
	}

	hashtag, created, err := h.hashtagService.Create(c.Request.Context(), &req)
	if err != nil {
		errorMapper.Abort(c, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, hashtag)
}

// UpdateHashtag godoc
// @Summary Update a hashtag
// @Tags hashtags
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Hashtag ID"
// @Param request body models.HashtagRequest true "Hashtag"
// @Success 200 {object} models.Hashtag
// @Failure 400 {object} models.ErrorResponse "Invalid hashtag"
// @Failure 404 {object} models.ErrorResponse "Hashtag not found"
// @Router /hashtags/{id} [put]
func (h *HashtagHandler) UpdateHashtag(c *gin.Context) {
	var req models.HashtagRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "", err.Error())
		return
	}

	hashtag, err := h.hashtagService.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		errorMapper.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, hashtag)
}

// DeleteHashtag godoc
// @Summary Delete a hashtag
// @Tags hashtags
// @Produce json
// @Security BearerAuth
// @Param id path string true "Hashtag ID"
// @Success 200 {object} models.SuccessResponse
// @Failure 404 {object} models.ErrorResponse "Hashtag not found"
// @Router /hashtags/{id} [delete]
func (h *HashtagHandler) DeleteHashtag(c *gin.Context) {
	if err := h.hashtagService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		errorMapper.Abort(c, err)
		return
	}
	response.Success(c, "Hashtag deleted")
}

// WordPosition godoc
// @Summary Position of a word in a hashtag
// @Description Case-insensitive index of word in the hashtag name, -1 when absent
// @Tags hashtags
// @Produce json
// @Security BearerAuth
// @Param id path string true "Hashtag ID"
// @Param word path string true "Word"
// @Success 200 {object} models.WordPositionResponse
// @Failure 404 {object} models.ErrorResponse "Hashtag not found"
// @Router /hashtags/{id}/position/{word} [get]
func (h *HashtagHandler) WordPosition(c *gin.Context) {
	pos, err := h.hashtagService.WordPosition(c.Request.Context(), c.Param("id"), c.Param("word"))
	if err != nil {
		errorMapper.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, models.WordPositionResponse{Position: pos})
}

// SyncHashtags godoc
// @Summary Recount hashtags
// @Description Rebuild every usage counter from the messages collection
// @Tags hashtags
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.SuccessResponse
// @Router /hashtags/sync [post]
func (h *HashtagHandler) SyncHashtags(c *gin.Context) {
	n, err := h.hashtagService.Sync(c.Request.Context())
	if err != nil {
		errorMapper.Abort(c, err)
		return
	}
	response.Success(c, "Synchronised "+strconv.Itoa(n)+" hashtags")
}

// MessagesByHashtag godoc
// @Summary Messages with a hashtag
// @Tags hashtags
// @Produce json
// @Security BearerAuth
// @Param hashtag path string true "Hashtag without '#'"
// @Success 200 {array} models.Message
// @Router /hashtags/messages/{hashtag} [get]
func (h *HashtagHandler) MessagesByHashtag(c *gin.Context) {
	messages, err := h.hashtagService.MessagesByHashtag(c.Request.Context(), c.Param("hashtag"))
	if err != nil {
		errorMapper.Abort(c, err)
		return
	}
	c.JSON(http.StatusOK, messages)
}

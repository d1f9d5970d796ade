package handlers

import (
	"context"
	"net/http"

	"wall-service/internal/models"
	"wall-service/internal/services"
	"wall-service/pkg/response"
)

// Service contracts the handlers depend on, implemented by package services

type AuthService interface {
	Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error)
	Logout(ctx context.Context, userID uint) error
}

type UserService interface {
	GetProfile(ctx context.Context, userID uint) (*models.UserResponse, error)
	ConnectedUsers(ctx context.Context) ([]models.UserResponse, error)
}

type MessageService interface {
	List(ctx context.Context, q models.MessageQuery) (*models.MessagePage, error)
	Like(ctx context.Context, messageID string, userID uint) (*models.Message, error)
	Comment(ctx context.Context, messageID string, userID uint, text string) (*models.Comment, error)
	Share(ctx context.Context, messageID string, userID uint, body string) (*models.Message, error)
}

type HashtagService interface {
	List(ctx context.Context) ([]models.Hashtag, error)
	Popular(ctx context.Context, limit int) ([]models.Hashtag, error)
	Get(ctx context.Context, id string) (*models.Hashtag, error)
	Create(ctx context.Context, req *models.HashtagRequest) (*models.Hashtag, bool, error)
	Update(ctx context.Context, id string, req *models.HashtagRequest) (*models.Hashtag, error)
	Delete(ctx context.Context, id string) error
	WordPosition(ctx context.Context, id, word string) (int, error)
	Sync(ctx context.Context) (int, error)
	MessagesByHashtag(ctx context.Context, hashtag string) ([]models.Message, error)
}

var errorMapper = response.NewMapper(
	response.Mapping{Err: services.ErrInvalidRequest, Status: http.StatusBadRequest, Message: response.MsgInvalidInput},
	response.Mapping{Err: services.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: response.MsgUnauthorized},
	response.Mapping{Err: services.ErrUserNotFound, Status: http.StatusNotFound, Message: "User not found"},
	response.Mapping{Err: services.ErrInvalidMessageID, Status: http.StatusBadRequest, Message: "Invalid message ID"},
	response.Mapping{Err: services.ErrMessageNotFound, Status: http.StatusNotFound, Message: "Message not found"},
	response.Mapping{Err: services.ErrAlreadyLiked, Status: http.StatusConflict, Message: "Message already liked"},
	response.Mapping{Err: services.ErrEmptyComment, Status: http.StatusBadRequest, Message: "Comment text is required"},
	response.Mapping{Err: services.ErrCommentTooLong, Status: http.StatusBadRequest, Message: "Comment text is too long"},
	response.Mapping{Err: services.ErrInvalidHashtagID, Status: http.StatusBadRequest, Message: "Invalid hashtag ID"},
	response.Mapping{Err: services.ErrInvalidHashtag, Status: http.StatusBadRequest, Message: "Invalid hashtag"},
	response.Mapping{Err: services.ErrHashtagNotFound, Status: http.StatusNotFound, Message: "Hashtag not found"},
)

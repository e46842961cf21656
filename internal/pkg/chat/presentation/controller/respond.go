package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	chat "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/domain"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/usecase"
)

// respondOK writes the standard success envelope.
func respondOK(c *gin.Context, status int, message string, data any) {
	c.JSON(status, gin.H{"success": true, "message": message, "data": data})
}

// respondError writes the standard failure envelope.
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// respondUseCaseError maps domain and use-case sentinels onto HTTP statuses.
func respondUseCaseError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, chat.ErrNotParticipant):
		respondError(c, http.StatusForbidden, "you are not a participant in this conversation")
	case errors.Is(err, chat.ErrUserNotFound):
		respondError(c, http.StatusNotFound, "user not found")
	case errors.Is(err, chat.ErrConversationNotFound):
		respondError(c, http.StatusNotFound, "conversation not found")
	case errors.Is(err, chat.ErrSelfConversation),
		errors.Is(err, chat.ErrInvalidMessage),
		errors.Is(err, chat.ErrEmptyMessage),
		errors.Is(err, chat.ErrMessageTooLong):
		respondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, usecase.ErrPersistence):
		respondError(c, http.StatusInternalServerError, "unexpected persistence error")
	default:
		respondError(c, http.StatusBadRequest, err.Error())
	}
}

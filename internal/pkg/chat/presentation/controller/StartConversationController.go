package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/middleware"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/usecase"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/persistence/repository/adapter"
)

// StartConversationController handles the find-or-create conversation endpoint
// One controller per endpoint

type StartConversationController struct {
	UC *usecase.StartConversationUseCase
}

func NewStartConversationController(pool *pgxpool.Pool) *StartConversationController {
	repo := adapter.NewPgChatRepository(pool)
	return &StartConversationController{UC: usecase.NewStartConversationUseCase(repo)}
}

type startConversationRequest struct {
	UserID string `json:"userId" binding:"required"`
}

func (h *StartConversationController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.Identity(c)
		if claims == nil {
			respondError(c, http.StatusUnauthorized, "authentication required")
			return
		}

		var req startConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		conv, err := h.UC.Execute(ctx, usecase.StartConversationInput{
			UserID:      claims.UserID(),
			OtherUserID: req.UserID,
		})
		if err != nil {
			respondUseCaseError(c, err)
			return
		}

		respondOK(c, http.StatusOK, "Conversation ready", conv)
	}
}

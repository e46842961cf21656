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

// ListConversationsController handles the conversation inbox endpoint
type ListConversationsController struct {
	UC *usecase.ListConversationsUseCase
}

func NewListConversationsController(pool *pgxpool.Pool) *ListConversationsController {
	repo := adapter.NewPgChatRepository(pool)
	return &ListConversationsController{UC: usecase.NewListConversationsUseCase(repo)}
}

func (h *ListConversationsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.Identity(c)
		if claims == nil {
			respondError(c, http.StatusUnauthorized, "authentication required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		summaries, err := h.UC.Execute(ctx, claims.UserID())
		if err != nil {
			respondUseCaseError(c, err)
			return
		}

		respondOK(c, http.StatusOK, "Conversations retrieved", summaries)
	}
}

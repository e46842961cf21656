package controller

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/middleware"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/usecase"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/persistence/repository/adapter"
)

// GetMessagesController handles the paginated message history endpoint
type GetMessagesController struct {
	UC *usecase.GetMessagesUseCase
}

func NewGetMessagesController(pool *pgxpool.Pool) *GetMessagesController {
	repo := adapter.NewPgChatRepository(pool)
	return &GetMessagesController{UC: usecase.NewGetMessagesUseCase(repo)}
}

func (h *GetMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.Identity(c)
		if claims == nil {
			respondError(c, http.StatusUnauthorized, "authentication required")
			return
		}

		conversationID := c.Param("id")
		if conversationID == "" {
			respondError(c, http.StatusBadRequest, "conversation id is required")
			return
		}

		page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
		limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		result, err := h.UC.Execute(ctx, usecase.GetMessagesInput{
			UserID:         claims.UserID(),
			ConversationID: conversationID,
			Page:           page,
			PageSize:       limit,
		})
		if err != nil {
			respondUseCaseError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Messages retrieved",
			"data":    result.Messages,
			"meta":    result.Meta,
		})
	}
}

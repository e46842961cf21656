package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	cport "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/infrastructure/cache/port"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/middleware"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/usecase"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/persistence/repository/adapter"
)

// UnreadCountController handles the total-unread-count endpoint
type UnreadCountController struct {
	UC *usecase.UnreadCountUseCase
}

func NewUnreadCountController(pool *pgxpool.Pool, cache cport.Cache) *UnreadCountController {
	repo := adapter.NewPgChatRepository(pool)
	return &UnreadCountController{UC: usecase.NewUnreadCountUseCase(repo, cache)}
}

func (h *UnreadCountController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := middleware.Identity(c)
		if claims == nil {
			respondError(c, http.StatusUnauthorized, "authentication required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		count, err := h.UC.Execute(ctx, claims.UserID())
		if err != nil {
			respondUseCaseError(c, err)
			return
		}

		respondOK(c, http.StatusOK, "Unread count retrieved", gin.H{"unreadCount": count})
	}
}

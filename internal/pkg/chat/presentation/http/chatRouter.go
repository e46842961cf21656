package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	cport "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/infrastructure/cache/port"
	qport "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/infrastructure/queue/port"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/infrastructure/realtime"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/middleware"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/application/usecase"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/persistence/repository/adapter"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/presentation/controller"
)

// Deps carries the shared infrastructure the chat endpoints are built on.
type Deps struct {
	Pool      *pgxpool.Pool
	Cache     cport.Cache
	Queue     qport.Client
	Hub       *realtime.Hub
	JWTSecret string
	Logger    *zap.Logger
}

// RegisterRoutes registers chat-related HTTP endpoints under the given router group
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, deps Deps) {
	repo := adapter.NewPgChatRepository(deps.Pool)
	dispatcher := usecase.NewMessageDispatcher(
		usecase.NewSendMessageUseCase(repo),
		repo,
		deps.Hub,
		deps.Queue,
		deps.Cache,
		deps.Logger,
	)

	startCtl := controller.NewStartConversationController(deps.Pool)
	listCtl := controller.NewListConversationsController(deps.Pool)
	messagesCtl := controller.NewGetMessagesController(deps.Pool)
	unreadCtl := controller.NewUnreadCountController(deps.Pool, deps.Cache)
	socketCtl := controller.NewChatSocketController(
		deps.Hub,
		dispatcher,
		usecase.NewJoinConversationUseCase(repo),
		usecase.NewMarkReadUseCase(repo, deps.Cache, deps.Logger),
		deps.JWTSecret,
		deps.Logger,
	)

	authed := g.Group("", middleware.RequireAuth(deps.JWTSecret))

	// POST /api/v1/conversations -> find or create direct conversation
	authed.POST("/conversations", startCtl.Handle())

	// GET /api/v1/conversations -> list caller's conversations
	authed.GET("/conversations", listCtl.Handle())

	// GET /api/v1/conversations/:id/messages -> paginated history
	authed.GET("/conversations/:id/messages", messagesCtl.Handle())

	// GET /api/v1/unread-count -> total unread across conversations
	authed.GET("/unread-count", unreadCtl.Handle())

	// GET /api/v1/chat/ws -> websocket endpoint, authenticates before upgrade
	g.GET("/chat/ws", socketCtl.Handle())
}

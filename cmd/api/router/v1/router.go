package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/config"
	cport "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/infrastructure/cache/port"
	qport "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/infrastructure/queue/port"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/infrastructure/realtime"
	"github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/auth"
	chathttp "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/pkg/chat/presentation/http"
	userAdapter "github.com/Emtiaz-ahmed-13/purrfecthub-server/internal/repository/adapter"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	pool *pgxpool.Pool,
	cache cport.Cache,
	queue qport.Client,
	hub *realtime.Hub,
	logger *zap.Logger,
) {
	v1 := r.Group("/api/v1")

	users := userAdapter.NewPgUserRepository(pool)
	loginCtl := auth.NewLoginController(auth.NewLoginUseCase(users, cfg.JWTSecret, cfg.JWTExpiration))
	v1.POST("/auth/login", loginCtl.Handle())

	chathttp.RegisterRoutes(v1, chathttp.Deps{
		Pool:      pool,
		Cache:     cache,
		Queue:     queue,
		Hub:       hub,
		JWTSecret: cfg.JWTSecret,
		Logger:    logger,
	})
}

package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/14kear/online-polls/internal/handlers"
	"github.com/14kear/online-polls/internal/routes"
)

type App struct {
	log    *slog.Logger
	engine *gin.Engine
	server *http.Server
	port   int
}

// NewApp builds the gin engine: CORS, the authenticated /api group and /ping.
func NewApp(
	log *slog.Logger,
	port int,
	allowOrigins []string,
	handler *handlers.VotingHandler,
	authMiddleware gin.HandlerFunc,
) *App {
	r := gin.New()
	r.Use(gin.Recovery())

	if len(allowOrigins) == 0 {
		allowOrigins = []string{"http://localhost:5173", "http://localhost:4200"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	api := r.Group("/api", authMiddleware)
	{
		routes.RegisterVoterRoutes(api, handler)
		routes.RegisterAdminRoutes(api, handler)
	}

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	return &App{
		log:    log,
		engine: r,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		},
		port: port,
	}
}

func (a *App) Run() error {
	a.log.Info("HTTP server is running", slog.String("addr", a.server.Addr))
	return a.server.ListenAndServe()
}

func (a *App) Stop(ctx context.Context) error {
	a.log.Info("HTTP server is stopping")
	return a.server.Shutdown(ctx)
}

func (a *App) Engine() *gin.Engine {
	return a.engine
}

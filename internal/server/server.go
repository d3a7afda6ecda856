package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"

	"github.com/kavia-common/tic-tac-toe-classic/internal/api/controller"
	"github.com/kavia-common/tic-tac-toe-classic/internal/session"
)

var tracer = otel.Tracer("server")

// Server wires the gin engine: REST surface for the presentation layer plus
// the websocket push channel.
type Server struct {
	engine   *gin.Engine
	manager  *session.Manager
	upgrader websocket.Upgrader
}

// NewServer builds the engine and registers all routes.
func NewServer(manager *session.Manager, sessions *controller.SessionController) *Server {
	s := &Server{
		engine:  gin.New(),
		manager: manager,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}

	s.engine.Use(gin.Recovery())

	api := s.engine.Group("/api")
	{
		api.GET("/info", sessions.Info)
		api.POST("/sessions", sessions.Create)
		api.GET("/sessions/:id", sessions.Get)
		api.POST("/sessions/:id/moves", sessions.Move)
		api.POST("/sessions/:id/reset", sessions.Reset)
		api.POST("/sessions/:id/scores/reset", sessions.ResetScores)
		api.PUT("/sessions/:id/mode", sessions.SetMode)
	}

	s.engine.GET("/ws", func(c *gin.Context) {
		s.handleWebSocket(c.Writer, c.Request)
	})

	return s
}

// Engine exposes the underlying gin engine for http.Server and tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

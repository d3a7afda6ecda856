package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kavia-common/tic-tac-toe-classic/internal/api/models"
	"github.com/kavia-common/tic-tac-toe-classic/internal/api/response"
	"github.com/kavia-common/tic-tac-toe-classic/internal/config"
	"github.com/kavia-common/tic-tac-toe-classic/internal/session"
)

// SessionController handles the REST surface over game sessions.
type SessionController struct {
	manager *session.Manager
	cfg     *config.Config
}

// NewSessionController creates a new SessionController.
func NewSessionController(manager *session.Manager, cfg *config.Config) *SessionController {
	return &SessionController{
		manager: manager,
		cfg:     cfg,
	}
}

// Create handles session creation. An omitted mode means two-player.
func (sc *SessionController) Create(c *gin.Context) {
	var req models.CreateSessionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.ErrorResponse(c, http.StatusBadRequest, err.Error())
			return
		}
	}

	mode := session.ModeTwoPlayer
	if session.IsValidMode(req.Mode) {
		mode = session.Mode(req.Mode)
	}

	s := sc.manager.Create(mode)
	response.SuccessResponse(c, models.CreateSessionResponse{SessionID: s.ID})
}

// Get returns the session snapshot.
func (sc *SessionController) Get(c *gin.Context) {
	s, ok := sc.manager.Get(c.Param("id"))
	if !ok {
		response.ErrorResponse(c, http.StatusNotFound, "session not found")
		return
	}
	response.SuccessResponse(c, s.Snapshot())
}

// Move applies a move intent. An engine-rejected move is not an HTTP error:
// the engine no-ops and the handler returns the unchanged snapshot.
func (sc *SessionController) Move(c *gin.Context) {
	s, ok := sc.manager.Get(c.Param("id"))
	if !ok {
		response.ErrorResponse(c, http.StatusNotFound, "session not found")
		return
	}

	var req models.MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	s.SubmitMove(c.Request.Context(), *req.Cell)
	response.SuccessResponse(c, s.Snapshot())
}

// Reset clears the board; the scoreboard survives.
func (sc *SessionController) Reset(c *gin.Context) {
	s, ok := sc.manager.Get(c.Param("id"))
	if !ok {
		response.ErrorResponse(c, http.StatusNotFound, "session not found")
		return
	}

	s.ResetBoard(c.Request.Context())
	response.SuccessResponse(c, s.Snapshot())
}

// ResetScores zeroes the scoreboard; the board survives.
func (sc *SessionController) ResetScores(c *gin.Context) {
	s, ok := sc.manager.Get(c.Param("id"))
	if !ok {
		response.ErrorResponse(c, http.StatusNotFound, "session not found")
		return
	}

	s.ResetScores(c.Request.Context())
	response.SuccessResponse(c, s.Snapshot())
}

// SetMode switches the play mode, resetting the board.
func (sc *SessionController) SetMode(c *gin.Context) {
	s, ok := sc.manager.Get(c.Param("id"))
	if !ok {
		response.ErrorResponse(c, http.StatusNotFound, "session not found")
		return
	}

	var req models.SetModeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	s.SetMode(c.Request.Context(), session.Mode(req.Mode))
	response.SuccessResponse(c, s.Snapshot())
}

// Info returns the cosmetic environment label and display port.
func (sc *SessionController) Info(c *gin.Context) {
	response.SuccessResponse(c, models.InfoResponse{
		Environment: sc.cfg.EnvLabel,
		Port:        sc.cfg.Port,
	})
}

package proto

import "github.com/kavia-common/tic-tac-toe-classic/internal/session"

// Intent types accepted from the client.
const (
	IntentMove        = "move"
	IntentReset       = "reset"
	IntentResetScores = "reset_scores"
	IntentSetMode     = "set_mode"
)

// ClientToServerMessage represents a message from the client to the server.
type ClientToServerMessage struct {
	Type string `json:"type" validate:"required,oneof=move reset reset_scores set_mode"`
	Cell *int   `json:"cell,omitempty" validate:"required_if=Type move,omitempty,cell"`
	Mode string `json:"mode,omitempty" validate:"required_if=Type set_mode,omitempty,oneof=two_player vs_computer"`
}

// ServerToClientMessage represents a message from the server to the client.
type ServerToClientMessage struct {
	Type      string            `json:"type"`
	SessionID string            `json:"sessionId,omitempty"`
	Snapshot  *session.Snapshot `json:"snapshot,omitempty"`
}

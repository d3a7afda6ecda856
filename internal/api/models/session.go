package models

// CreateSessionRequest selects the initial play mode; defaults to two-player.
type CreateSessionRequest struct {
	Mode string `json:"mode" binding:"omitempty,oneof=two_player vs_computer"`
}

// CreateSessionResponse carries the id of a freshly created session.
type CreateSessionResponse struct {
	SessionID string `json:"sessionId"`
}

// MoveRequest is a move intent for a cell index, 0-8 row-major. The pointer
// keeps cell 0 distinguishable from an absent field.
type MoveRequest struct {
	Cell *int `json:"cell" binding:"required,gte=0,lte=8"`
}

// SetModeRequest switches the play mode; the board resets, scores persist.
type SetModeRequest struct {
	Mode string `json:"mode" binding:"required,oneof=two_player vs_computer"`
}

// InfoResponse is the cosmetic deployment info shown by the presentation
// layer. Neither field changes engine behavior.
type InfoResponse struct {
	Environment string `json:"environment"`
	Port        int    `json:"port"`
}

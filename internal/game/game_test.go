package game

import (
	"testing"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name     string
		board    Board
		want     Status
		winner   Mark
		wantLine Line
	}{
		{
			name:  "Ongoing - empty board",
			board: Board{},
			want:  StatusOngoing,
		},
		{
			name: "Ongoing - partial board",
			board: Board{
				PlayerX, None, None,
				None, PlayerO, None,
				None, None, None,
			},
			want: StatusOngoing,
		},
		{
			name: "X wins - first row",
			board: Board{
				PlayerX, PlayerX, PlayerX,
				None, PlayerO, None,
				None, None, PlayerO,
			},
			want:     StatusWon,
			winner:   PlayerX,
			wantLine: Line{0, 1, 2},
		},
		{
			name: "O wins - second column",
			board: Board{
				PlayerX, PlayerO, None,
				PlayerX, PlayerO, None,
				None, PlayerO, None,
			},
			want:     StatusWon,
			winner:   PlayerO,
			wantLine: Line{1, 4, 7},
		},
		{
			name: "X wins - main diagonal",
			board: Board{
				PlayerX, None, None,
				None, PlayerX, None,
				None, None, PlayerX,
			},
			want:     StatusWon,
			winner:   PlayerX,
			wantLine: Line{0, 4, 8},
		},
		{
			name: "O wins - anti-diagonal",
			board: Board{
				None, None, PlayerO,
				None, PlayerO, None,
				PlayerO, None, None,
			},
			want:     StatusWon,
			winner:   PlayerO,
			wantLine: Line{2, 4, 6},
		},
		{
			name: "Draw - full board with no line",
			board: Board{
				PlayerX, PlayerO, PlayerX,
				PlayerX, PlayerO, PlayerO,
				PlayerO, PlayerX, PlayerX,
			},
			want: StatusDraw,
		},
		{
			name: "Win on full board beats draw",
			board: Board{
				PlayerX, PlayerX, PlayerX,
				PlayerO, PlayerO, PlayerX,
				PlayerO, PlayerX, PlayerO,
			},
			want:     StatusWon,
			winner:   PlayerX,
			wantLine: Line{0, 1, 2},
		},
		{
			// Unreachable via legal play; documents the deterministic tie-break.
			name: "Two winning lines - first in scan order reported",
			board: Board{
				PlayerX, PlayerX, PlayerX,
				PlayerX, PlayerO, PlayerO,
				PlayerX, PlayerO, PlayerO,
			},
			want:     StatusWon,
			winner:   PlayerX,
			wantLine: Line{0, 1, 2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.board)
			if got.Status != tt.want {
				t.Fatalf("Evaluate() status = %v, want %v", got.Status, tt.want)
			}
			if got.Status == StatusWon {
				if got.Winner != tt.winner {
					t.Errorf("Evaluate() winner = %v, want %v", got.Winner, tt.winner)
				}
				if got.WinningLine != tt.wantLine {
					t.Errorf("Evaluate() line = %v, want %v", got.WinningLine, tt.wantLine)
				}
			}
		})
	}
}

func TestPlaceDoesNotMutate(t *testing.T) {
	original := Board{}
	placed := original.Place(4, PlayerX)

	if original[4] != None {
		t.Errorf("Place mutated the original board: %v", original)
	}
	if placed[4] != PlayerX {
		t.Errorf("Place did not set the cell on the copy: %v", placed)
	}
}

func TestIsFull(t *testing.T) {
	tests := []struct {
		name  string
		board Board
		want  bool
	}{
		{
			name:  "Empty board is not full",
			board: Board{},
			want:  false,
		},
		{
			name: "Partial board is not full",
			board: Board{
				PlayerX, None, None,
				None, PlayerO, None,
				None, None, None,
			},
			want: false,
		},
		{
			name: "Full board is full",
			board: Board{
				PlayerX, PlayerO, PlayerX,
				PlayerX, PlayerO, PlayerO,
				PlayerO, PlayerX, PlayerX,
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.board.IsFull(); got != tt.want {
				t.Errorf("IsFull() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsEmpty(t *testing.T) {
	b := Board{}.Place(0, PlayerX)

	if b.IsEmpty(0) {
		t.Error("IsEmpty(0) = true for an occupied cell")
	}
	if !b.IsEmpty(1) {
		t.Error("IsEmpty(1) = false for an unoccupied cell")
	}
	if b.IsEmpty(-1) || b.IsEmpty(Cells) {
		t.Error("IsEmpty accepted an out-of-range index")
	}
}

func TestOther(t *testing.T) {
	if Other(PlayerX) != PlayerO {
		t.Errorf("Other(X) = %v, want O", Other(PlayerX))
	}
	if Other(PlayerO) != PlayerX {
		t.Errorf("Other(O) = %v, want X", Other(PlayerO))
	}
}

package bot

import (
	"math/rand/v2"

	"github.com/kavia-common/tic-tac-toe-classic/internal/game"
)

//go:generate mockgen -source=strategy.go -destination=mocks/strategy_mock.go -package=mocks

// Strategy selects a move for the side holding self. The second return value
// is false only when the board has no empty cell.
type Strategy interface {
	SelectMove(b game.Board, self, opp game.Mark) (int, bool)
}

// Rand is the slice of math/rand/v2 used for tie-breaks. Injectable so tests
// can pin corner and side picks to a fixed sequence.
type Rand interface {
	IntN(n int) int
}

type pkgRand struct{}

func (pkgRand) IntN(n int) int { return rand.IntN(n) }

var (
	corners = [4]int{0, 2, 6, 8}
	sides   = [4]int{1, 3, 5, 7}
)

// Heuristic is the computer opponent: win if possible, block the opponent's
// win, take the center, then a random corner, then a random side. It does not
// look for forks; that gap keeps the opponent beatable and is intentional.
type Heuristic struct {
	rng Rand
}

// NewHeuristic creates the opponent strategy. A nil rng falls back to the
// shared math/rand/v2 source.
func NewHeuristic(rng Rand) *Heuristic {
	if rng == nil {
		rng = pkgRand{}
	}
	return &Heuristic{rng: rng}
}

// SelectMove walks the priority tiers in order, exhausting each before
// falling through to the next.
func (h *Heuristic) SelectMove(b game.Board, self, opp game.Mark) (int, bool) {
	// 1. Win: complete one of our own lines
	if cell, ok := winningCell(b, self); ok {
		return cell, true
	}

	// 2. Block: deny the opponent's win on their next move
	if cell, ok := winningCell(b, opp); ok {
		return cell, true
	}

	// 3. Center
	if b.IsEmpty(game.Center) {
		return game.Center, true
	}

	// 4. Corners: take an available corner randomly
	if cell, ok := h.pickRandom(b, corners); ok {
		return cell, true
	}

	// 5. Sides: take an available side randomly
	if cell, ok := h.pickRandom(b, sides); ok {
		return cell, true
	}

	// Board full. Unreachable when the caller checks for a terminal board
	// first, but handled rather than returning an out-of-range index.
	return -1, false
}

// winningCell probes every empty cell in ascending order with a hypothetical
// placement and reports the first one that completes a line for mark.
func winningCell(b game.Board, mark game.Mark) (int, bool) {
	for cell := 0; cell < game.Cells; cell++ {
		if !b.IsEmpty(cell) {
			continue
		}
		out := game.Evaluate(b.Place(cell, mark))
		if out.Status == game.StatusWon && out.Winner == mark {
			return cell, true
		}
	}
	return -1, false
}

func (h *Heuristic) pickRandom(b game.Board, candidates [4]int) (int, bool) {
	available := make([]int, 0, len(candidates))
	for _, cell := range candidates {
		if b.IsEmpty(cell) {
			available = append(available, cell)
		}
	}
	if len(available) == 0 {
		return -1, false
	}
	return available[h.rng.IntN(len(available))], true
}

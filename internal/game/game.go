package game

// Mark represents the symbol occupying a cell (X, O) or an empty cell.
type Mark string

// Status represents the terminal status of a board.
type Status string

const (
	// Player marks
	None    Mark = ""
	PlayerX Mark = "X"
	PlayerO Mark = "O"

	// Board statuses
	StatusOngoing Status = "ongoing"
	StatusWon     Status = "won"
	StatusDraw    Status = "draw"

	// Cells is the number of cells on the board.
	Cells = 9

	// Center is the middle cell index.
	Center = 4
)

// Line is one of the eight index triples that constitutes a win condition.
type Line [3]int

// Lines holds every winning triple in fixed scan order: rows, columns, diagonals.
// Evaluate reports the first matching entry, so the order is part of the contract.
var Lines = [8]Line{
	{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
	{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
	{0, 4, 8}, {2, 4, 6},
}

// Board is a 3x3 grid stored row-major: cells 0-2 form the first row,
// 3-5 the second, 6-8 the third.
type Board [Cells]Mark

// Place returns a copy of the board with mark set at cell. Boards are values:
// callers probe hypothetical positions without touching the original.
func (b Board) Place(cell int, mark Mark) Board {
	b[cell] = mark
	return b
}

// InRange reports whether cell is a valid board index.
func InRange(cell int) bool {
	return cell >= 0 && cell < Cells
}

// IsEmpty reports whether the cell is unoccupied.
func (b Board) IsEmpty(cell int) bool {
	return InRange(cell) && b[cell] == None
}

// IsFull reports whether every cell is occupied.
func (b Board) IsFull() bool {
	for _, m := range b {
		if m == None {
			return false
		}
	}
	return true
}

// Count returns the number of cells holding mark.
func (b Board) Count(mark Mark) int {
	n := 0
	for _, m := range b {
		if m == mark {
			n++
		}
	}
	return n
}

// Other returns the opposing mark.
func Other(m Mark) Mark {
	if m == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// Outcome is the terminal status of a board. Winner and WinningLine are
// meaningful only when Status is StatusWon.
type Outcome struct {
	Status      Status
	Winner      Mark
	WinningLine Line
}

// Evaluate computes the outcome of a board. It scans Lines in order and
// returns the first uniform non-empty line as a win; with no win, a full
// board is a draw, anything else is ongoing. Pure function over a board
// value, safe to call on hypothetical look-ahead positions.
func Evaluate(b Board) Outcome {
	for _, line := range Lines {
		m := b[line[0]]
		if m != None && m == b[line[1]] && m == b[line[2]] {
			return Outcome{Status: StatusWon, Winner: m, WinningLine: line}
		}
	}
	if b.IsFull() {
		return Outcome{Status: StatusDraw}
	}
	return Outcome{Status: StatusOngoing}
}

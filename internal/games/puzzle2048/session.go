package puzzle2048

import (
	"github.com/lab1702/minigames-server/internal/apperrors"
	"github.com/lab1702/minigames-server/internal/ids"
)

// RNG is the minimal random surface this package needs.
type RNG interface {
	Intn(int) int
	Chance(p float64) bool
}

// CreateSession builds an empty board and spawns the two starting tiles.
func CreateSession(player ids.PlayerId, settings Settings, r RNG) *State {
	board := make([][]int, settings.Size)
	for i := range board {
		board[i] = make([]int, settings.Size)
	}
	s := &State{Settings: settings, Player: player, Board: board}
	spawnTile(s, r)
	spawnTile(s, r)
	return s
}

func emptyCells(s *State) [][2]int {
	var out [][2]int
	for r := 0; r < s.Settings.Size; r++ {
		for c := 0; c < s.Settings.Size; c++ {
			if s.Board[r][c] == 0 {
				out = append(out, [2]int{r, c})
			}
		}
	}
	return out
}

func spawnTile(s *State, r RNG) {
	empties := emptyCells(s)
	if len(empties) == 0 {
		return
	}
	cell := empties[r.Intn(len(empties))]
	value := 2
	if !r.Chance(0.9) {
		value = 4
	}
	s.Board[cell[0]][cell[1]] = value
}

// ApplyCommand slides the board in the requested direction, merging equal
// adjacent tiles once per tile per move, then spawns a tile if the board
// actually changed (spec.md 4.7.4: a no-op move neither mutates nor
// spawns).
func ApplyCommand(s *State, sender ids.PlayerId, cmd Command, r RNG) (modified bool, err error) {
	if s.Player != sender {
		return false, apperrors.New(apperrors.NotYourTurn, "player %s is not in this session", sender)
	}
	if s.Status != InProgress {
		return false, apperrors.New(apperrors.InvalidCommand, "game is not in progress")
	}

	before := cloneBoard(s.Board)
	gained := slide(s, cmd.Direction)
	if boardsEqual(before, s.Board) {
		return false, nil
	}
	s.Score += gained
	s.MoveCount++
	spawnTile(s, r)

	if bestTile(s) >= s.Settings.TargetValue {
		s.Status = Won
	} else if !anyMovePossible(s) {
		s.Status = Lost
	}
	return true, nil
}

// slide moves and merges every row toward `dir`, returning the score gained
// from merges. It operates by transposing/reversing the board so every
// direction reuses the same left-slide primitive.
func slide(s *State, dir Direction) int {
	n := s.Settings.Size
	get := func(i, j int) int { return s.Board[i][j] }
	set := func(i, j, v int) { s.Board[i][j] = v }

	lineAt := func(i int) (read func(j int) int, write func(j int, v int)) {
		switch dir {
		case Left:
			return func(j int) int { return get(i, j) }, func(j, v int) { set(i, j, v) }
		case Right:
			return func(j int) int { return get(i, n-1-j) }, func(j, v int) { set(i, n-1-j, v) }
		case Up:
			return func(j int) int { return get(j, i) }, func(j, v int) { set(j, i, v) }
		default: // Down
			return func(j int) int { return get(n-1-j, i) }, func(j, v int) { set(n-1-j, i, v) }
		}
	}

	gained := 0
	for i := 0; i < n; i++ {
		read, write := lineAt(i)
		vals := make([]int, 0, n)
		for j := 0; j < n; j++ {
			if v := read(j); v != 0 {
				vals = append(vals, v)
			}
		}
		merged := make([]int, 0, n)
		for j := 0; j < len(vals); j++ {
			if j+1 < len(vals) && vals[j] == vals[j+1] {
				merged = append(merged, vals[j]*2)
				gained += vals[j] * 2
				j++
			} else {
				merged = append(merged, vals[j])
			}
		}
		for j := 0; j < n; j++ {
			if j < len(merged) {
				write(j, merged[j])
			} else {
				write(j, 0)
			}
		}
	}
	return gained
}

func bestTile(s *State) int {
	best := 0
	for _, row := range s.Board {
		for _, v := range row {
			if v > best {
				best = v
			}
		}
	}
	return best
}

// anyMovePossible reports whether some direction would change the board:
// an empty cell exists, or two orthogonally adjacent cells share a value.
func anyMovePossible(s *State) bool {
	n := s.Settings.Size
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			v := s.Board[r][c]
			if v == 0 {
				return true
			}
			if c+1 < n && s.Board[r][c+1] == v {
				return true
			}
			if r+1 < n && s.Board[r+1][c] == v {
				return true
			}
		}
	}
	return false
}

func cloneBoard(b [][]int) [][]int {
	out := make([][]int, len(b))
	for i, row := range b {
		out[i] = append([]int(nil), row...)
	}
	return out
}

func boardsEqual(a, b [][]int) bool {
	for i := range a {
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

// Disconnect ends the (single-player) match immediately.
func Disconnect(s *State, pid ids.PlayerId) {
	if s.Player == pid && s.Status == InProgress {
		s.Status = Lost
	}
}

// IsTerminal reports whether the match has concluded.
func IsTerminal(s *State) bool { return s.Status != InProgress }

// ScoreEntry is the lone player's final score.
type ScoreEntry struct {
	PlayerID ids.PlayerId
	Score    int
}

// GameOver computes the score, winner (set iff Won), and end-info payload.
func GameOver(s *State) ([]ScoreEntry, *ids.PlayerId, EndInfo) {
	scores := []ScoreEntry{{PlayerID: s.Player, Score: s.Score}}
	var winner *ids.PlayerId
	if s.Status == Won {
		w := s.Player
		winner = &w
	}
	return scores, winner, EndInfo{MoveCount: s.MoveCount, BestTile: bestTile(s)}
}

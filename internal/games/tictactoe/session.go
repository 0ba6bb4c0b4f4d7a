package tictactoe

import (
	"github.com/lab1702/minigames-server/internal/apperrors"
	"github.com/lab1702/minigames-server/internal/ids"
)

// RNG is the minimal random surface this package needs from a session's
// seeded source (only used for FirstPlayerRandom selection).
type RNG interface {
	Bool() bool
}

// CreateSession builds the initial state. roster must have exactly two
// entries; creator is used to resolve FirstPlayerHost.
func CreateSession(roster []ids.PlayerId, creator ids.PlayerId, settings Settings, r RNG) *State {
	board := make([][]Mark, settings.Height)
	for i := range board {
		board[i] = make([]Mark, settings.Width)
	}

	p0, p1 := roster[0], roster[1]
	var x, o ids.PlayerId
	switch settings.FirstPlay {
	case FirstPlayerRandom:
		if r.Bool() {
			x, o = p0, p1
		} else {
			x, o = p1, p0
		}
	default: // FirstPlayerHost
		if creator == p0 {
			x, o = p0, p1
		} else {
			x, o = p1, p0
		}
	}

	return &State{
		Settings: settings,
		Board:    board,
		Turn:     MarkX,
		Status:   InProgress,
		PlayerX:  x,
		PlayerO:  o,
		LastRow:  -1,
		LastCol:  -1,
	}
}

func (s *State) markFor(pid ids.PlayerId) Mark {
	switch pid {
	case s.PlayerX:
		return MarkX
	case s.PlayerO:
		return MarkO
	default:
		return Empty
	}
}

func (s *State) PlayerForMark(m Mark) ids.PlayerId {
	if m == MarkX {
		return s.PlayerX
	}
	return s.PlayerO
}

// ApplyCommand places a mark per spec.md 4.7.2's rejection list: game not
// in progress, wrong turn, out of bounds, cell occupied.
func ApplyCommand(s *State, sender ids.PlayerId, cmd Command) (modified bool, err error) {
	if s.Status != InProgress {
		return false, apperrors.New(apperrors.InvalidCommand, "game is not in progress")
	}
	mark := s.markFor(sender)
	if mark == Empty {
		return false, apperrors.New(apperrors.NotYourTurn, "player %s is not in this game", sender)
	}
	if mark != s.Turn {
		return false, apperrors.New(apperrors.NotYourTurn, "it is not player %s's turn", sender)
	}
	if cmd.Row < 0 || cmd.Row >= s.Settings.Height || cmd.Col < 0 || cmd.Col >= s.Settings.Width {
		return false, apperrors.New(apperrors.InvalidCommand, "cell (%d,%d) is out of bounds", cmd.Row, cmd.Col)
	}
	if s.Board[cmd.Row][cmd.Col] != Empty {
		return false, apperrors.New(apperrors.InvalidCommand, "cell (%d,%d) is already occupied", cmd.Row, cmd.Col)
	}

	s.Board[cmd.Row][cmd.Col] = mark
	s.LastRow, s.LastCol = cmd.Row, cmd.Col

	if line, ok := winningLine(s, cmd.Row, cmd.Col, mark); ok {
		if mark == MarkX {
			s.Status = XWon
		} else {
			s.Status = OWon
		}
		s.lastLine = line
	} else if boardFull(s) {
		s.Status = Draw
	} else {
		if s.Turn == MarkX {
			s.Turn = MarkO
		} else {
			s.Turn = MarkX
		}
	}
	return true, nil
}

func boardFull(s *State) bool {
	for _, row := range s.Board {
		for _, c := range row {
			if c == Empty {
				return false
			}
		}
	}
	return true
}

var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// winningLine checks, for each of the four axes, whether a run of
// WinCount cells of mark passes through (row, col).
func winningLine(s *State, row, col int, mark Mark) ([]Cell, bool) {
	for _, d := range directions {
		line := []Cell{{row, col}}
		r, c := row+d[0], col+d[1]
		for inBounds(s, r, c) && s.Board[r][c] == mark {
			line = append(line, Cell{r, c})
			r += d[0]
			c += d[1]
		}
		r, c = row-d[0], col-d[1]
		for inBounds(s, r, c) && s.Board[r][c] == mark {
			line = append([]Cell{{r, c}}, line...)
			r -= d[0]
			c -= d[1]
		}
		if len(line) >= s.Settings.WinCount {
			return trimLine(line, s.Settings.WinCount), true
		}
	}
	return nil, false
}

// trimLine returns the winCount-length contiguous sub-run containing the
// start of the matched line; any run >= winCount already contains one.
func trimLine(line []Cell, winCount int) []Cell {
	return line[:winCount]
}

func inBounds(s *State, r, c int) bool {
	return r >= 0 && r < s.Settings.Height && c >= 0 && c < s.Settings.Width
}

// Disconnect ends the match immediately in favor of the remaining player,
// since TicTacToe has no solo-continuation mode.
func Disconnect(s *State, pid ids.PlayerId) {
	if s.Status != InProgress {
		return
	}
	switch pid {
	case s.PlayerX:
		s.Status = OWon
	case s.PlayerO:
		s.Status = XWon
	}
}

// IsTerminal reports whether the match has concluded.
func IsTerminal(s *State) bool { return s.Status != InProgress }

// ScoreEntry is one player's final score: 1 for a win, 0 for a loss or draw.
type ScoreEntry struct {
	PlayerID ids.PlayerId
	Score    int
}

// GameOver computes scores, winner and end-info.
func GameOver(s *State) ([]ScoreEntry, *ids.PlayerId, EndInfo) {
	scores := []ScoreEntry{{PlayerID: s.PlayerX, Score: 0}, {PlayerID: s.PlayerO, Score: 0}}
	var winner *ids.PlayerId
	switch s.Status {
	case XWon:
		scores[0].Score = 1
		w := s.PlayerX
		winner = &w
	case OWon:
		scores[1].Score = 1
		w := s.PlayerO
		winner = &w
	}
	return scores, winner, EndInfo{WinningLine: s.lastLine}
}

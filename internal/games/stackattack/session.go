package stackattack

import (
	"github.com/lab1702/minigames-server/internal/apperrors"
	"github.com/lab1702/minigames-server/internal/ids"
)

// RNG is the minimal random surface this package needs (crane pattern
// selection).
type RNG interface {
	Intn(int) int
}

// CreateSession spawns one worker per roster entry, evenly spread along the
// floor row, with an empty field.
func CreateSession(roster []ids.PlayerId, isBot []bool, settings Settings) *State {
	s := &State{Settings: settings}
	n := len(roster)
	spacing := FieldWidth / (n + 1)
	if spacing < 1 {
		spacing = 1
	}
	for i, pid := range roster {
		col := spacing * (i + 1)
		if col >= FieldWidth {
			col = FieldWidth - 1
		}
		s.Workers = append(s.Workers, &Worker{
			PlayerID: pid,
			IsBot:    isBot[i],
			Row:      FieldHeight - 1,
			Col:      col,
			State:    Grounded,
			Alive:    true,
		})
	}
	return s
}

func (s *State) findWorker(pid ids.PlayerId) *Worker {
	for _, w := range s.Workers {
		if w.PlayerID == pid {
			return w
		}
	}
	return nil
}

func inField(row, col int) bool {
	return row >= 0 && row < FieldHeight && col >= 0 && col < FieldWidth
}

// ApplyCommand validates and applies a worker control input. Movement and
// jump both take effect immediately; gravity and crush/ceiling detection
// run once per tick in Tick, not here, matching the tick-driven contract
// (spec.md 4.6).
func ApplyCommand(s *State, sender ids.PlayerId, cmd Command) (modified bool, err error) {
	w := s.findWorker(sender)
	if w == nil {
		return false, apperrors.New(apperrors.NotYourTurn, "player %s is not in this session", sender)
	}
	if !w.Alive {
		return false, apperrors.New(apperrors.InvalidCommand, "player %s's worker is not active", sender)
	}

	switch cmd.Kind {
	case CmdJump:
		if w.State != Grounded {
			return false, nil
		}
		w.State = Jumping
		return true, nil
	default:
		return applyMove(s, w, cmd.Direction)
	}
}

func applyMove(s *State, w *Worker, dir Move) (bool, error) {
	d := -1
	if dir == MoveRight {
		d = 1
	}
	target := w.Col + d
	if !inField(w.Row, target) {
		return false, nil
	}
	if !s.Field[w.Row][target].Present {
		w.Col = target
		return true, nil
	}
	// The next cell holds a block; push it one further if clear.
	beyond := target + d
	if !inField(w.Row, beyond) || s.Field[w.Row][beyond].Present {
		return false, nil
	}
	s.Field[w.Row][beyond] = s.Field[w.Row][target]
	s.Field[w.Row][target] = Block{}
	w.Col = target
	return true, nil
}

// Disconnect marks a worker inactive. For a single-player match this ends
// the session immediately (spec.md 4.7.5).
func Disconnect(s *State, pid ids.PlayerId) {
	w := s.findWorker(pid)
	if w == nil || !w.Alive {
		return
	}
	w.Alive = false
	if len(s.Workers) == 1 {
		s.Terminal = SoleWorkerDisconnected
	}
}

// IsTerminal reports whether the match has reached a terminal state.
func IsTerminal(s *State) bool { return s.Terminal != NoTerminal }

// ScoreEntry is one player's final score (lines are not attributed to
// individual workers; every worker is credited with the session's total
// lines cleared).
type ScoreEntry struct {
	PlayerID ids.PlayerId
	Score    int
}

// GameOver computes final scores, winner (the first surviving worker in
// roster order; none if all crushed/disconnected, or if the sole worker
// disconnected), and the StackAttack end-info payload.
func GameOver(s *State, linesCleared int) ([]ScoreEntry, *ids.PlayerId, EndInfo) {
	scores := make([]ScoreEntry, 0, len(s.Workers))
	var winner *ids.PlayerId
	for _, w := range s.Workers {
		scores = append(scores, ScoreEntry{PlayerID: w.PlayerID, Score: linesCleared})
		if w.Alive && !w.Crushed && winner == nil {
			pid := w.PlayerID
			winner = &pid
		}
	}
	reason := "unknown"
	switch s.Terminal {
	case WorkerCrushed:
		reason = "worker_crushed"
	case CeilingReached:
		reason = "ceiling_reached"
	case SoleWorkerDisconnected:
		reason = "sole_worker_disconnected"
		winner = nil
	}
	return scores, winner, EndInfo{Reason: reason, LinesCleared: linesCleared, TicksPlayed: s.Tick}
}

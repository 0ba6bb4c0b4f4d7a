package snake

import (
	"github.com/lab1702/minigames-server/internal/apperrors"
	"github.com/lab1702/minigames-server/internal/ids"
	"github.com/lab1702/minigames-server/internal/rng"
)

// CreateSession builds the initial game state for a fresh Snake match. Each
// player is given a length-3 body and a starting facing so that a
// single-player game starts at the center of the grid, matching spec.md 8's
// boundary scenario (10x10 board, single player at (5,5) facing Right).
func CreateSession(roster []ids.PlayerId, isBot []bool, settings Settings) *State {
	st := &State{
		Settings: settings,
		Food:     make(map[Cell]bool),
	}

	n := len(roster)
	cy := settings.Height / 2
	spacing := settings.Width / (n + 1)
	if spacing < 1 {
		spacing = 1
	}

	for i, pid := range roster {
		cx := spacing * (i + 1)
		if cx < 2 {
			cx = 2
		}
		if cx > settings.Width-1 {
			cx = settings.Width - 1
		}
		dir := Right
		body := []Cell{
			{X: cx, Y: cy},
			{X: cx - 1, Y: cy},
			{X: cx - 2, Y: cy},
		}
		st.Snakes = append(st.Snakes, &Snake{
			PlayerID: pid,
			IsBot:    isBot[i],
			Body:     body,
			Dir:      dir,
			Alive:    true,
		})
	}
	return st
}

// findSnake returns the living or dead snake belonging to pid, or nil.
func (s *State) findSnake(pid ids.PlayerId) *Snake {
	for _, sn := range s.Snakes {
		if sn.PlayerID == pid {
			return sn
		}
	}
	return nil
}

// ApplyCommand validates and applies a direction-change request. It returns
// whether the request modified state (and so must be recorded into the
// replay) plus an error when the sender is not a living participant.
func ApplyCommand(s *State, sender ids.PlayerId, cmd Command) (modified bool, err error) {
	sn := s.findSnake(sender)
	if sn == nil {
		return false, apperrors.New(apperrors.NotYourTurn, "player %s is not in this snake session", sender)
	}
	if !sn.Alive {
		return false, apperrors.New(apperrors.InvalidCommand, "player %s's snake is dead", sender)
	}
	if cmd.Direction == sn.Dir.opposite() {
		// A reversal request is accepted but has no effect; nothing to record.
		return false, nil
	}
	d := cmd.Direction
	sn.Pending = &d
	return true, nil
}

// Disconnect marks a player's snake as dead due to disconnection.
func Disconnect(s *State, pid ids.PlayerId) {
	sn := s.findSnake(pid)
	if sn == nil || !sn.Alive {
		return
	}
	sn.Alive = false
	sn.DeathReason = Disconnected
}

// IsTerminal reports whether the match has reached a terminal state, per
// the DeadSnakeBehavior policy.
func IsTerminal(s *State) bool {
	alive := aliveCount(s)
	if alive == 0 {
		return true
	}
	if s.Settings.DeadSnakeBehavior == EndWhenOneRemains && len(s.Snakes) > 1 && alive <= 1 {
		return true
	}
	return false
}

func aliveCount(s *State) int {
	n := 0
	for _, sn := range s.Snakes {
		if sn.Alive {
			n++
		}
	}
	return n
}

// ScoreEntry is one player's final score.
type ScoreEntry struct {
	PlayerID ids.PlayerId
	Score    int
}

// GameOver computes final scores, the winner (the highest-scoring living
// snake; nil when no snake is alive), and the Snake end-info payload.
func GameOver(s *State, ticksPlayed uint64) ([]ScoreEntry, *ids.PlayerId, EndInfo) {
	scores := make([]ScoreEntry, 0, len(s.Snakes))
	var winner *ids.PlayerId
	best := -1
	for _, sn := range s.Snakes {
		sc := sn.Score()
		scores = append(scores, ScoreEntry{PlayerID: sn.PlayerID, Score: sc})
		if sn.Alive && sc > best {
			best = sc
			pid := sn.PlayerID
			winner = &pid
		}
	}
	reason := "all_dead"
	if s.Settings.DeadSnakeBehavior == EndWhenOneRemains && aliveCount(s) == 1 {
		reason = "last_snake_standing"
	}
	return scores, winner, EndInfo{Reason: reason, TicksPlayed: ticksPlayed}
}

// RNG is a tiny seam so tick.go and bot.go share the same RNG type
// without importing rng in types.go.
type RNG interface {
	Float64() float64
	Intn(int) int
	Bool() bool
}

var _ RNG = (*rng.Source)(nil)

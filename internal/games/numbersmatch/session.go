package numbersmatch

import (
	"github.com/lab1702/minigames-server/internal/apperrors"
	"github.com/lab1702/minigames-server/internal/ids"
)

// RNG is the minimal random surface this package needs.
type RNG interface {
	Intn(int) int
}

// CreateSession deals InitialActiveCells digits in 1..9 onto a fresh board.
func CreateSession(player ids.PlayerId, isBot bool, settings Settings, r RNG) *State {
	rows := (InitialActiveCells + Width - 1) / Width
	cells := make([]Cell, rows*Width)
	for i := range cells {
		if i < InitialActiveCells {
			cells[i] = Cell{Value: r.Intn(9) + 1}
		} else {
			cells[i] = Cell{Removed: true}
		}
	}
	return &State{
		Settings:       settings,
		Player:         player,
		IsBot:          isBot,
		Cells:          cells,
		RefillsAllowed: settings.DefaultRefills,
	}
}

// activeSequence returns the indices of non-removed cells in row-major scan
// order -- the sequence used by the adjacency predicate.
func activeSequence(s *State) []int {
	var out []int
	for i, c := range s.Cells {
		if !c.Removed {
			out = append(out, i)
		}
	}
	return out
}

// adjacent implements spec.md 4.7.3's legal-adjacency predicate: the two
// indices are neighbors in the active-cell scan order, or they sit in the
// same board row with only removed cells between them.
func adjacent(s *State, a, b int) bool {
	seq := activeSequence(s)
	posA, posB := -1, -1
	for i, idx := range seq {
		if idx == a {
			posA = i
		}
		if idx == b {
			posB = i
		}
	}
	if posA >= 0 && posB >= 0 {
		if posA-posB == 1 || posB-posA == 1 {
			return true
		}
	}

	rowA, rowB := a/Width, b/Width
	if rowA != rowB {
		return false
	}
	lo, hi := a, b
	if lo > hi {
		lo, hi = hi, lo
	}
	for i := lo + 1; i < hi; i++ {
		if !s.Cells[i].Removed {
			return false
		}
	}
	return true
}

// ApplyCommand removes a legal pair or performs a refill.
func ApplyCommand(s *State, sender ids.PlayerId, cmd Command) (modified bool, err error) {
	if s.Player != sender {
		return false, apperrors.New(apperrors.NotYourTurn, "player %s is not in this session", sender)
	}
	if s.Status != InProgress {
		return false, apperrors.New(apperrors.InvalidCommand, "game is not in progress")
	}

	switch cmd.Kind {
	case Refill:
		if s.RefillsUsed >= s.RefillsAllowed {
			return false, apperrors.New(apperrors.InvalidCommand, "no refills remaining")
		}
		doRefill(s)
		return true, nil
	default:
		return applyRemovePair(s, cmd)
	}
}

func applyRemovePair(s *State, cmd Command) (bool, error) {
	a, b := cmd.IndexA, cmd.IndexB
	if a < 0 || a >= len(s.Cells) || b < 0 || b >= len(s.Cells) || a == b {
		return false, apperrors.New(apperrors.InvalidCommand, "indices %d,%d out of bounds", a, b)
	}
	ca, cb := s.Cells[a], s.Cells[b]
	if ca.Removed || cb.Removed {
		return false, apperrors.New(apperrors.InvalidCommand, "cell %d or %d already removed", a, b)
	}
	if ca.Value+cb.Value != 10 && ca.Value != cb.Value {
		return false, apperrors.New(apperrors.InvalidCommand, "cells %d,%d do not match", a, b)
	}
	if !adjacent(s, a, b) {
		return false, apperrors.New(apperrors.InvalidCommand, "cells %d,%d are not adjacent", a, b)
	}

	s.Cells[a].Removed = true
	s.Cells[b].Removed = true
	s.MovesMade++

	if len(activeSequence(s)) == 0 {
		s.Status = Won
	} else if !hasLegalMove(s) && s.RefillsUsed >= s.RefillsAllowed {
		s.Status = Lost
	}
	return true, nil
}

// doRefill appends a compacted copy of the remaining active cells as new
// rows and, under HintLimited, grants one hint.
func doRefill(s *State) {
	seq := activeSequence(s)
	appended := make([]Cell, 0, len(seq))
	for _, idx := range seq {
		appended = append(appended, Cell{Value: s.Cells[idx].Value})
	}
	s.Cells = append(s.Cells, appended...)
	pad := len(appended) % Width
	if pad != 0 {
		for i := 0; i < Width-pad; i++ {
			s.Cells = append(s.Cells, Cell{Removed: true})
		}
	}
	s.RefillsUsed++
	if s.Settings.HintMode == HintLimited {
		s.Hints++
	}
	if !hasLegalMove(s) && s.RefillsUsed >= s.RefillsAllowed {
		s.Status = Lost
	}
}

// hasLegalMove scans every pair of active cells for one satisfying the
// value predicate and the adjacency predicate.
func hasLegalMove(s *State) bool {
	seq := activeSequence(s)
	for i := 0; i < len(seq); i++ {
		for j := i + 1; j < len(seq); j++ {
			a, b := seq[i], seq[j]
			v1, v2 := s.Cells[a].Value, s.Cells[b].Value
			if v1 != v2 && v1+v2 != 10 {
				continue
			}
			if adjacent(s, a, b) {
				return true
			}
		}
	}
	return false
}

// Disconnect ends the (single-player) match immediately.
func Disconnect(s *State, pid ids.PlayerId) {
	if s.Player == pid && s.Status == InProgress {
		s.Status = Lost
	}
}

// IsTerminal reports whether the match has concluded.
func IsTerminal(s *State) bool { return s.Status != InProgress }

// ScoreEntry is the lone player's final score: pairs removed.
type ScoreEntry struct {
	PlayerID ids.PlayerId
	Score    int
}

// GameOver computes the score (pairs removed), the winner (the lone player,
// set iff Won), and the end-info payload.
func GameOver(s *State) ([]ScoreEntry, *ids.PlayerId, EndInfo) {
	scores := []ScoreEntry{{PlayerID: s.Player, Score: s.MovesMade}}
	var winner *ids.PlayerId
	if s.Status == Won {
		w := s.Player
		winner = &w
	}
	return scores, winner, EndInfo{RefillsUsed: s.RefillsUsed, MovesMade: s.MovesMade}
}

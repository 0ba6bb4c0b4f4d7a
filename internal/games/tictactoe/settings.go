package tictactoe

import "github.com/lab1702/minigames-server/internal/apperrors"

// PlayerCount is fixed: TicTacToe is always exactly two players.
const PlayerCount = 2

// ValidateSettings enforces spec.md 4.7.2: board w x h in 3..=20, win count
// in 3..=min(w,h), and exactly two players.
func ValidateSettings(s Settings, playerCount int) error {
	if s.Width < 3 || s.Width > 20 || s.Height < 3 || s.Height > 20 {
		return apperrors.New(apperrors.InvalidSettings, "tictactoe board must be 3..=20, got %dx%d", s.Width, s.Height)
	}
	minDim := s.Width
	if s.Height < minDim {
		minDim = s.Height
	}
	if s.WinCount < 3 || s.WinCount > minDim {
		return apperrors.New(apperrors.InvalidSettings, "tictactoe win_count must be in 3..=%d, got %d", minDim, s.WinCount)
	}
	if playerCount != PlayerCount {
		return apperrors.New(apperrors.InvalidSettings, "tictactoe requires exactly %d players, got %d", PlayerCount, playerCount)
	}
	return nil
}

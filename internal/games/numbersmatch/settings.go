package numbersmatch

import "github.com/lab1702/minigames-server/internal/apperrors"

// PlayerCount is fixed: NumbersMatch is always exactly one player.
const PlayerCount = 1

// ValidateSettings enforces spec.md 4.7.3: exactly one player, a
// non-negative refill budget.
func ValidateSettings(s Settings, playerCount int) error {
	if playerCount != PlayerCount {
		return apperrors.New(apperrors.InvalidSettings, "numbers_match requires exactly %d player, got %d", PlayerCount, playerCount)
	}
	if s.DefaultRefills < 0 {
		return apperrors.New(apperrors.InvalidSettings, "numbers_match default_refills must be >= 0, got %d", s.DefaultRefills)
	}
	return nil
}

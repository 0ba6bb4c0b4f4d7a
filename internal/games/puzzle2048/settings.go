package puzzle2048

import "github.com/lab1702/minigames-server/internal/apperrors"

// PlayerCount is fixed: 2048 is always exactly one player.
const PlayerCount = 1

// ValidateSettings enforces spec.md 4.7.4: a 2..=10 square board, exactly
// one player.
func ValidateSettings(s Settings, playerCount int) error {
	if s.Size < 2 || s.Size > 10 {
		return apperrors.New(apperrors.InvalidSettings, "puzzle2048 size must be in 2..=10, got %d", s.Size)
	}
	if s.TargetValue < 2 {
		return apperrors.New(apperrors.InvalidSettings, "puzzle2048 target_value must be >= 2, got %d", s.TargetValue)
	}
	if playerCount != PlayerCount {
		return apperrors.New(apperrors.InvalidSettings, "puzzle2048 requires exactly %d player, got %d", PlayerCount, playerCount)
	}
	return nil
}

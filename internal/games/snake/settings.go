package snake

import "github.com/lab1702/minigames-server/internal/apperrors"

// MinPlayers and MaxPlayers bound the per-game lobby player count
// (spec.md 4.7.1: Snake 1..=10).
const (
	MinPlayers = 1
	MaxPlayers = 10
)

// ValidateSettings enforces the grid, food and tick-interval bounds named
// in spec.md 4.7.1 and rejects a lobby size outside the Snake bound.
func ValidateSettings(s Settings, playerCount int) error {
	if s.Width < 10 || s.Width > 100 || s.Height < 10 || s.Height > 100 {
		return apperrors.New(apperrors.InvalidSettings, "snake grid dimensions must be in 10..=100, got %dx%d", s.Width, s.Height)
	}
	if s.MaxFoodCount < 0 {
		return apperrors.New(apperrors.InvalidSettings, "snake max_food_count must be >= 0, got %d", s.MaxFoodCount)
	}
	if s.FoodSpawnProbability < 0 || s.FoodSpawnProbability > 1 {
		return apperrors.New(apperrors.InvalidSettings, "snake food_spawn_probability must be in 0..=1, got %f", s.FoodSpawnProbability)
	}
	if s.TickIntervalMs < 50 || s.TickIntervalMs > 5000 {
		return apperrors.New(apperrors.InvalidSettings, "snake tick_interval_ms must be in 50..=5000, got %d", s.TickIntervalMs)
	}
	if playerCount < MinPlayers || playerCount > MaxPlayers {
		return apperrors.New(apperrors.InvalidSettings, "snake supports %d..=%d players, got %d", MinPlayers, MaxPlayers, playerCount)
	}
	return nil
}

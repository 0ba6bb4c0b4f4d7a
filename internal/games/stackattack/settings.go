package stackattack

import "github.com/lab1702/minigames-server/internal/apperrors"

// MinPlayers and MaxPlayers bound the per-game lobby player count
// (spec.md 4.7.5: StackAttack 1..=4).
const (
	MinPlayers = 1
	MaxPlayers = 4
)

// ValidateSettings enforces the tick-interval bound and the per-game player
// count (spec.md 5: "200ms fixed for StackAttack").
func ValidateSettings(s Settings, playerCount int) error {
	if s.TickIntervalMs != 200 {
		return apperrors.New(apperrors.InvalidSettings, "stack_attack tick_interval_ms is fixed at 200, got %d", s.TickIntervalMs)
	}
	if s.CraneIntervalTk < 1 {
		return apperrors.New(apperrors.InvalidSettings, "stack_attack crane_interval_ticks must be >= 1, got %d", s.CraneIntervalTk)
	}
	if playerCount < MinPlayers || playerCount > MaxPlayers {
		return apperrors.New(apperrors.InvalidSettings, "stack_attack supports %d..=%d players, got %d", MinPlayers, MaxPlayers, playerCount)
	}
	return nil
}

package engine

import (
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/lab1702/minigames-server/internal/apperrors"
	"github.com/lab1702/minigames-server/internal/ids"
	"github.com/lab1702/minigames-server/internal/lobby"
	"github.com/lab1702/minigames-server/internal/replay"
	"github.com/lab1702/minigames-server/internal/rng"
	"github.com/lab1702/minigames-server/internal/session"
)

// Reconstruction is what a replay session needs to step through a recorded
// action stream: the rebuilt Hooks, whether the game is tick-driven, its
// tick interval (if any), and a way to resolve a roster index back to a
// PlayerId (replay.PlayerAction addresses players by roster index, not id).
type Reconstruction struct {
	Hooks        session.Hooks
	TickDriven   bool
	TickInterval time.Duration
	PlayerAt     func(index int32) (ids.PlayerId, bool)
}

// Rebuild recreates the session state a recorded game started from, using
// the same per-game hooks a live session uses (spec.md 4.11: "recreating
// the game state from seed + settings and applying recorded actions in
// order"). Bot seats are restored with the exact policy persisted in their
// roster entry (see buildRosterEntries/botPolicyValue), and the rebuilt
// hooks are told not to run their own bot AI: every bot move the original
// session made is already present in the recorded action stream and is
// replayed verbatim, same as a human command. The header records no
// creator; the first human roster entry stands in for it (it decides
// TicTacToe's X under FirstPlayerHost).
func Rebuild(r replay.Replay) (Reconstruction, error) {
	var settings lobby.Settings
	if err := json.Unmarshal(r.Header.LobbySettings, &settings); err != nil {
		return Reconstruction{}, apperrors.Wrap(apperrors.ReplayCorrupt, err, "decoding replay settings")
	}

	roster := Roster{LobbySettings: settings, Bots: make(map[ids.BotId]lobby.BotType)}
	playerAt := make(map[int32]ids.PlayerId, len(r.Header.Roster))
	for i, entry := range r.Header.Roster {
		playerAt[int32(i)] = entry.PlayerID
		if entry.IsBot {
			roster.Bots[ids.BotId(entry.PlayerID)] = botTypeFromPolicy(settings.Kind, entry.BotPolicy)
		} else {
			if roster.Creator == "" {
				roster.Creator = entry.PlayerID
			}
			roster.Players = append(roster.Players, entry.PlayerID)
		}
	}

	seed := rng.FromSeed(r.Header.Seed)
	hooks, tickDriven, interval, _, err := buildHooks(roster, seed, zerolog.Nop(), nil, false)
	if err != nil {
		return Reconstruction{}, err
	}

	return Reconstruction{
		Hooks:        hooks,
		TickDriven:   tickDriven,
		TickInterval: interval,
		PlayerAt: func(index int32) (ids.PlayerId, bool) {
			pid, ok := playerAt[index]
			return pid, ok
		},
	}, nil
}

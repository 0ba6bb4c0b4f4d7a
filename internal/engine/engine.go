// Package engine wires each per-game rule module into the uniform
// session.Hooks contract and owns the session driver's lifecycle: seeding,
// optional replay recording, and game-over delivery (spec.md 4.6, 4.7).
package engine

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/lab1702/minigames-server/internal/apperrors"
	"github.com/lab1702/minigames-server/internal/broadcast"
	"github.com/lab1702/minigames-server/internal/games/snake"
	"github.com/lab1702/minigames-server/internal/games/tictactoe"
	"github.com/lab1702/minigames-server/internal/ids"
	"github.com/lab1702/minigames-server/internal/lobby"
	"github.com/lab1702/minigames-server/internal/replay"
	"github.com/lab1702/minigames-server/internal/rng"
	"github.com/lab1702/minigames-server/internal/session"
	"github.com/lab1702/minigames-server/internal/wire"
)

// Roster is the stable, ordered participant list a session is created
// from: humans (in seating order), observers, and bots, each carrying
// enough identity to build both the session.Config and the replay roster.
type Roster struct {
	Players       []ids.PlayerId
	Observers     []ids.PlayerId
	ClientOf      map[ids.PlayerId]ids.ClientId
	Bots          map[ids.BotId]lobby.BotType
	Creator       ids.PlayerId
	LobbySettings lobby.Settings
}

// Handle is what the message handler retains to forward in-game commands
// and learn of termination; it never touches game state directly
// (spec.md 3: "the handler retains a handle only for command forwarding").
type Handle struct {
	SessionID ids.SessionId
	Commands  chan<- session.Command
	Done      <-chan session.Result
	Recorder  *replay.Recorder
}

// ScoreRow is the wire shape of one ScoreEntry, common across every game.
type ScoreRow struct {
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
}

func scoreRows[T any](entries []T, playerID func(T) ids.PlayerId, score func(T) int) json.RawMessage {
	rows := make([]ScoreRow, len(entries))
	for i, e := range entries {
		rows[i] = ScoreRow{PlayerID: string(playerID(e)), Score: score(e)}
	}
	b, _ := json.Marshal(rows)
	return b
}

func winnerStr(pid *ids.PlayerId) *string {
	if pid == nil {
		return nil
	}
	s := string(*pid)
	return &s
}

// Start creates the session state for r's game kind, spawns its driver
// goroutine, and returns a Handle the handler forwards commands through.
// cmdBuffer bounds the point-to-point command channel (spec.md 4.6:
// "lossless" -- sized generously so normal traffic never blocks the
// sender; overflow would indicate a misbehaving client, not a protocol
// case this engine needs to model).
func Start(ctx context.Context, log zerolog.Logger, r Roster, startedAt time.Time, recordReplay bool) (*Handle, error) {
	const cmdBuffer = 256

	sessionID := ids.NewSessionId()
	seed := rng.FromEntropy()
	cfg := session.Config{
		SessionID: sessionID,
		Players:   r.Players,
		Observers: r.Observers,
		ClientOf:  r.ClientOf,
		Bots:      make(map[ids.BotId]bool, len(r.Bots)),
	}
	for id := range r.Bots {
		cfg.Bots[id] = true
	}

	gameType, roster := buildRosterEntries(r)
	var recorder *replay.Recorder
	if recordReplay {
		settingsSnapshot, _ := json.Marshal(r.LobbySettings)
		recorder = replay.New(gameType, seed.Seed(), startedAt.UnixMilli(), settingsSnapshot, roster)
	}

	hooks, tickDriven, interval, tickFn, err := buildHooks(r, seed, log, recorder, true)
	if err != nil {
		return nil, err
	}

	cmdCh := make(chan session.Command, cmdBuffer)
	done := make(chan session.Result, 1)

	record := func(player ids.PlayerId, payload json.RawMessage, disconnect bool) {
		if recorder == nil {
			return
		}
		idx, ok := recorder.FindPlayerIndex(player)
		if !ok {
			return
		}
		tick := tickFn()
		if disconnect {
			recorder.RecordDisconnect(tick, idx)
		} else {
			recorder.RecordCommand(tick, idx, payload)
		}
	}

	go func() {
		var result session.Result
		if tickDriven {
			hooks.TickDriven = true
			hooks.TickInterval = interval
			result = session.RunTickDriven(ctx, log, cfg, hooks, broadcasterFrom(ctx), cmdCh, record)
		} else {
			result = session.RunEventDriven(ctx, cfg, hooks, broadcasterFrom(ctx), cmdCh, record)
		}
		done <- result
		close(done)
	}()

	return &Handle{SessionID: sessionID, Commands: cmdCh, Done: done, Recorder: recorder}, nil
}

func broadcasterFrom(ctx context.Context) *broadcast.Broadcaster {
	b, _ := ctx.Value(broadcasterKey{}).(*broadcast.Broadcaster)
	return b
}

// broadcasterKey is the context key the handler uses to thread the
// process-wide Broadcaster into a session's context without a global.
type broadcasterKey struct{}

// WithBroadcaster attaches b to ctx for Start to retrieve.
func WithBroadcaster(ctx context.Context, b *broadcast.Broadcaster) context.Context {
	return context.WithValue(ctx, broadcasterKey{}, b)
}

func buildRosterEntries(r Roster) (replay.GameType, []replay.RosterEntry) {
	gameType := gameTypeOf(r.LobbySettings.Kind)
	entries := make([]replay.RosterEntry, 0, len(r.Players)+len(r.Bots))
	for _, p := range r.Players {
		entries = append(entries, replay.RosterEntry{PlayerID: p})
	}
	for id, bt := range r.Bots {
		entries = append(entries, replay.RosterEntry{
			PlayerID:  ids.AsPlayerId(id),
			IsBot:     true,
			BotPolicy: botPolicyValue(r.LobbySettings.Kind, bt),
		})
	}
	return gameType, entries
}

// botPolicyValue extracts the field of BotType the given game kind actually
// reads, so the roster persists the policy the bot really played under
// instead of the zero value (spec.md 8 testable property 2).
func botPolicyValue(kind lobby.GameKind, bt lobby.BotType) int32 {
	switch kind {
	case lobby.KindSnake:
		return int32(bt.SnakePolicy)
	case lobby.KindTicTacToe:
		return int32(bt.TicTacToePolicy)
	default:
		return 0
	}
}

// botTypeFromPolicy is botPolicyValue's inverse, used by Rebuild to restore
// a roster entry's persisted policy into the field the session actually
// reads for this game kind.
func botTypeFromPolicy(kind lobby.GameKind, policy int32) lobby.BotType {
	switch kind {
	case lobby.KindSnake:
		return lobby.BotType{SnakePolicy: snake.BotPolicy(policy)}
	case lobby.KindTicTacToe:
		return lobby.BotType{TicTacToePolicy: tictactoe.BotPolicy(policy)}
	default:
		return lobby.BotType{}
	}
}

// recordBotCommand records an adapter-internal bot move through the same
// recorder a human command would go through, so replay reconstruction
// replays the bot's actual move instead of recomputing one (spec.md 8
// testable property 2). No-op when recorder is nil (recording disabled) or
// pid has no roster slot.
func recordBotCommand(recorder *replay.Recorder, tick int64, pid ids.PlayerId, cmd any) {
	if recorder == nil {
		return
	}
	idx, ok := recorder.FindPlayerIndex(pid)
	if !ok {
		return
	}
	payload, err := json.Marshal(cmd)
	if err != nil {
		return
	}
	recorder.RecordCommand(tick, idx, payload)
}

func gameTypeOf(k lobby.GameKind) replay.GameType {
	switch k {
	case lobby.KindSnake:
		return replay.GameSnake
	case lobby.KindTicTacToe:
		return replay.GameTicTacToe
	case lobby.KindNumbersMatch:
		return replay.GameNumbersMatch
	case lobby.KindStackAttack:
		return replay.GameStackAttack
	default:
		return replay.GamePuzzle2048
	}
}

// buildHooks dispatches to the per-game adapter. recorder is the session's
// replay recorder (nil when not recording, as during Rebuild); computeBots
// tells the adapter whether to run its own bot AI (true for a live session)
// or to leave bot turns to the caller replaying recorded actions (false
// during replay reconstruction, where every bot move already appears in the
// action stream -- see Rebuild).
func buildHooks(r Roster, seed *rng.Source, log zerolog.Logger, recorder *replay.Recorder, computeBots bool) (session.Hooks, bool, time.Duration, func() int64, error) {
	switch r.LobbySettings.Kind {
	case lobby.KindSnake:
		return newSnakeHooks(r, seed, recorder, computeBots)
	case lobby.KindTicTacToe:
		return newTicTacToeHooks(r, seed, recorder, computeBots)
	case lobby.KindNumbersMatch:
		return newNumbersMatchHooks(r, seed, recorder, computeBots)
	case lobby.KindStackAttack:
		return newStackAttackHooks(r, seed, recorder, computeBots)
	case lobby.KindPuzzle2048:
		return newPuzzle2048Hooks(r, seed, recorder, computeBots)
	default:
		return session.Hooks{}, false, 0, nil, apperrors.New(apperrors.InvalidSettings, "unknown game kind %d", r.LobbySettings.Kind)
	}
}

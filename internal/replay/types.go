// Package replay captures and replays (tick, player_index, command) action
// streams with header metadata (spec.md 4.2, 4.3). The recorder is owned
// exclusively by one session driver; it is never shared across tasks.
package replay

import "github.com/lab1702/minigames-server/internal/ids"

// EngineVersion is embedded in every replay header and bumped whenever the
// wire schema changes in a way that breaks old replay files.
const EngineVersion = "1.0.0"

// FormatVersion is the leading byte of every .minigamesreplay file.
const FormatVersion byte = 1

// GameType tags which per-game module produced a session.
type GameType int32

const (
	GameSnake GameType = iota
	GameTicTacToe
	GameNumbersMatch
	GameStackAttack
	GamePuzzle2048
)

func (g GameType) String() string {
	switch g {
	case GameSnake:
		return "SNAKE"
	case GameTicTacToe:
		return "TICTACTOE"
	case GameNumbersMatch:
		return "NUMBERS_MATCH"
	case GameStackAttack:
		return "STACK_ATTACK"
	case GamePuzzle2048:
		return "PUZZLE_2048"
	default:
		return "UNKNOWN"
	}
}

// RosterEntry is one seat in a session's stable roster, the index space
// PlayerAction.PlayerIndex refers into.
type RosterEntry struct {
	PlayerID ids.PlayerId
	IsBot    bool
	// BotPolicy is the opaque wire value of the seat's per-game BotPolicy
	// enum (snake.BotPolicy, tictactoe.BotPolicy, ...); meaningful only
	// when IsBot. Persisting it lets Rebuild recreate the exact bot that
	// played, instead of falling back to a default policy.
	BotPolicy int32
}

// Header carries everything needed to reconstruct a session deterministically.
type Header struct {
	EngineVersion    string
	StartTimestampMs int64
	Game             GameType
	Seed             uint64
	LobbySettings    []byte // opaque, game-specific settings snapshot
	Roster           []RosterEntry
}

// PlayerAction is one recorded event: either a command or a disconnect
// notice, tagged with the tick it was observed at and the roster index of
// the player that produced it.
type PlayerAction struct {
	Tick           int64
	PlayerIndex    int32
	Disconnected   bool
	CommandPayload []byte // opaque, game-specific encoded command; nil when Disconnected
}

// Replay is the full, versioned (header, actions) container.
type Replay struct {
	Header  Header
	Actions []PlayerAction
}

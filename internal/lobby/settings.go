// Package lobby implements lobby membership, readiness, bots, play-again
// and inactivity tracking (spec.md 4.4), plus the thread-safe
// LobbyManager registry (spec.md 4.5).
package lobby

import (
	"encoding/json"

	"github.com/lab1702/minigames-server/internal/apperrors"
	"github.com/lab1702/minigames-server/internal/games/numbersmatch"
	"github.com/lab1702/minigames-server/internal/games/puzzle2048"
	"github.com/lab1702/minigames-server/internal/games/snake"
	"github.com/lab1702/minigames-server/internal/games/stackattack"
	"github.com/lab1702/minigames-server/internal/games/tictactoe"
)

// GameKind tags the lobby settings variant (spec.md 3: "tagged variant").
type GameKind int

const (
	KindSnake GameKind = iota
	KindTicTacToe
	KindNumbersMatch
	KindStackAttack
	KindPuzzle2048
)

// Settings is the tagged union of every per-game settings record. Only the
// field matching Kind is meaningful.
type Settings struct {
	Kind         GameKind
	Snake        snake.Settings
	TicTacToe    tictactoe.Settings
	NumbersMatch numbersmatch.Settings
	StackAttack  stackattack.Settings
	Puzzle2048   puzzle2048.Settings
}

// Validate dispatches to the owning game's settings validator (spec.md 4.7).
func (s Settings) Validate(playerCount int) error {
	switch s.Kind {
	case KindSnake:
		return snake.ValidateSettings(s.Snake, playerCount)
	case KindTicTacToe:
		return tictactoe.ValidateSettings(s.TicTacToe, playerCount)
	case KindNumbersMatch:
		return numbersmatch.ValidateSettings(s.NumbersMatch, playerCount)
	case KindStackAttack:
		return stackattack.ValidateSettings(s.StackAttack, playerCount)
	case KindPuzzle2048:
		return puzzle2048.ValidateSettings(s.Puzzle2048, playerCount)
	default:
		return apperrors.New(apperrors.InvalidSettings, "unknown game kind %d", s.Kind)
	}
}

// PlayerCountBounds returns the min/max humans+bots this game kind accepts,
// used by Lobby.Create to clamp MaxPlayers (spec.md 3) and by
// Lobby.AllReady to check the seat count.
func (s Settings) PlayerCountBounds() (min, max int) {
	switch s.Kind {
	case KindSnake:
		return snake.MinPlayers, snake.MaxPlayers
	case KindTicTacToe:
		return tictactoe.PlayerCount, tictactoe.PlayerCount
	case KindNumbersMatch:
		return numbersmatch.PlayerCount, numbersmatch.PlayerCount
	case KindStackAttack:
		return stackattack.MinPlayers, stackattack.MaxPlayers
	case KindPuzzle2048:
		return puzzle2048.PlayerCount, puzzle2048.PlayerCount
	default:
		return 1, 1
	}
}

// kindName/parseKindName translate GameKind to/from the wire's string tag
// (spec.md 6's CreateLobby/UpdateSettings settings payload).
func (k GameKind) kindName() string {
	switch k {
	case KindSnake:
		return "snake"
	case KindTicTacToe:
		return "tictactoe"
	case KindNumbersMatch:
		return "numbersMatch"
	case KindStackAttack:
		return "stackAttack"
	default:
		return "puzzle2048"
	}
}

func parseKindName(name string) (GameKind, error) {
	switch name {
	case "snake":
		return KindSnake, nil
	case "tictactoe":
		return KindTicTacToe, nil
	case "numbersMatch":
		return KindNumbersMatch, nil
	case "stackAttack":
		return KindStackAttack, nil
	case "puzzle2048":
		return KindPuzzle2048, nil
	default:
		return 0, apperrors.New(apperrors.InvalidSettings, "unknown game kind %q", name)
	}
}

// wireSettings is the JSON wire shape of Settings: a string discriminator
// plus the one sub-object it selects, mirroring the tagged-union encoding
// the rest of the wire package uses for per-game payloads.
type wireSettings struct {
	Kind         string                   `json:"kind"`
	Snake        *snake.Settings          `json:"snake,omitempty"`
	TicTacToe    *tictactoe.Settings      `json:"tictactoe,omitempty"`
	NumbersMatch *numbersmatch.Settings   `json:"numbersMatch,omitempty"`
	StackAttack  *stackattack.Settings    `json:"stackAttack,omitempty"`
	Puzzle2048   *puzzle2048.Settings     `json:"puzzle2048,omitempty"`
}

// MarshalJSON encodes only the Kind-selected sub-object.
func (s Settings) MarshalJSON() ([]byte, error) {
	w := wireSettings{Kind: s.Kind.kindName()}
	switch s.Kind {
	case KindSnake:
		w.Snake = &s.Snake
	case KindTicTacToe:
		w.TicTacToe = &s.TicTacToe
	case KindNumbersMatch:
		w.NumbersMatch = &s.NumbersMatch
	case KindStackAttack:
		w.StackAttack = &s.StackAttack
	case KindPuzzle2048:
		w.Puzzle2048 = &s.Puzzle2048
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes the Kind tag and its matching sub-object.
func (s *Settings) UnmarshalJSON(data []byte) error {
	var w wireSettings
	if err := json.Unmarshal(data, &w); err != nil {
		return apperrors.Wrap(apperrors.DecodeFailure, err, "decoding lobby settings")
	}
	kind, err := parseKindName(w.Kind)
	if err != nil {
		return err
	}
	out := Settings{Kind: kind}
	switch kind {
	case KindSnake:
		if w.Snake == nil {
			return apperrors.New(apperrors.InvalidSettings, "missing snake settings")
		}
		out.Snake = *w.Snake
	case KindTicTacToe:
		if w.TicTacToe == nil {
			return apperrors.New(apperrors.InvalidSettings, "missing tictactoe settings")
		}
		out.TicTacToe = *w.TicTacToe
	case KindNumbersMatch:
		if w.NumbersMatch == nil {
			return apperrors.New(apperrors.InvalidSettings, "missing numbersMatch settings")
		}
		out.NumbersMatch = *w.NumbersMatch
	case KindStackAttack:
		if w.StackAttack == nil {
			return apperrors.New(apperrors.InvalidSettings, "missing stackAttack settings")
		}
		out.StackAttack = *w.StackAttack
	case KindPuzzle2048:
		if w.Puzzle2048 == nil {
			return apperrors.New(apperrors.InvalidSettings, "missing puzzle2048 settings")
		}
		out.Puzzle2048 = *w.Puzzle2048
	}
	*s = out
	return nil
}

// BotType carries enough of the bot's policy to dispatch in whichever game
// the lobby turns out to run; only the field matching the lobby's Kind is
// read.
type BotType struct {
	SnakePolicy     snake.BotPolicy
	TicTacToePolicy tictactoe.BotPolicy
}

// Package snake implements the Snake game module: settings validation,
// session state, tick stepping and bot policies (spec.md 4.7.1).
package snake

import "github.com/lab1702/minigames-server/internal/ids"

// Direction is one of the four cardinal movement directions.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

func (d Direction) opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	default:
		return Left
	}
}

func (d Direction) delta() (dx, dy int) {
	switch d {
	case Up:
		return 0, -1
	case Down:
		return 0, 1
	case Left:
		return -1, 0
	default:
		return 1, 0
	}
}

// WallPolicy controls what happens when a snake's head crosses the edge of
// the grid.
type WallPolicy int

const (
	WallDeath WallPolicy = iota
	WallWrapAround
)

// DeadSnakeBehavior resolves the open question of when a multiplayer match
// ends: as soon as every snake is dead, or as soon as at most one remains
// (last snake standing).
type DeadSnakeBehavior int

const (
	EndWhenAllDead DeadSnakeBehavior = iota
	EndWhenOneRemains
)

// BotPolicy selects a Snake bot's decision procedure.
type BotPolicy int

const (
	BotRandom BotPolicy = iota
	BotEfficient
)

// Cell is a grid coordinate.
type Cell struct{ X, Y int }

// DeathReason records why a snake died, surfaced in the game-over end-info.
type DeathReason int

const (
	NoDeath DeathReason = iota
	WallCollision
	SelfCollision
	OtherSnakeCollision
	Disconnected
)

// Settings are the per-lobby configurable parameters (spec.md 4.7.1).
type Settings struct {
	Width                int
	Height               int
	WallPolicy           WallPolicy
	MaxFoodCount         int
	FoodSpawnProbability float64
	TickIntervalMs       int
	DeadSnakeBehavior    DeadSnakeBehavior
}

// Snake is one player's living (or recently dead) body.
type Snake struct {
	PlayerID    ids.PlayerId
	IsBot       bool
	Body        []Cell // head at index 0
	Dir         Direction
	Pending     *Direction
	Alive       bool
	DeathReason DeathReason
	KilledBy    ids.PlayerId // zero value if none
}

// Score is body length minus the initial length of 3.
func (s *Snake) Score() int {
	if len(s.Body) < 3 {
		return 0
	}
	return len(s.Body) - 3
}

// State is the full per-session Snake game state, owned exclusively by the
// session driver and accessed by the handler only through ApplyCommand.
type State struct {
	Settings Settings
	Snakes   []*Snake // stable roster order
	Food     map[Cell]bool
}

// Command is the single Snake in-game command: request a direction change.
type Command struct {
	Direction Direction
}

// EndInfo is the Snake-specific game-over payload.
type EndInfo struct {
	Reason      string
	TicksPlayed uint64
}

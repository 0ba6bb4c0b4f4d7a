// Package puzzle2048 implements the single-player 2048 module
// (spec.md 4.7.4): sliding, merging tiles on a square board with a
// deterministic RNG-driven tile spawn after every effective move.
package puzzle2048

import "github.com/lab1702/minigames-server/internal/ids"

// Direction is the slide direction of a move.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Status is the match outcome so far.
type Status int

const (
	InProgress Status = iota
	Won
	Lost
)

// Settings are the per-lobby configurable parameters.
type Settings struct {
	Size        int
	TargetValue int
}

// Command requests a slide in one direction.
type Command struct {
	Direction Direction
}

// State is the full 2048 game state.
type State struct {
	Settings  Settings
	Player    ids.PlayerId
	Board     [][]int // [row][col], 0 = empty
	Score     int
	MoveCount int
	Status    Status
}

// EndInfo is the 2048-specific game-over payload.
type EndInfo struct {
	MoveCount int
	BestTile  int
}

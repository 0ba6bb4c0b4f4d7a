// Package numbersmatch implements the single-player NumbersMatch module
// (spec.md 4.7.3): a 9-wide board of digit cells where matching pairs are
// removed and the board refills from the remaining active cells.
package numbersmatch

import "github.com/lab1702/minigames-server/internal/ids"

// Width is the fixed board width; rows grow as refills are appended.
const Width = 9

// InitialActiveCells is the number of digits dealt at session start.
const InitialActiveCells = 42

// HintMode selects how refills interact with the hint counter.
type HintMode int

const (
	HintLimited HintMode = iota
	HintUnlimited
	HintDisabled
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
	DefaultRefills int
	HintMode       HintMode
}

// Cell is one board position holding a digit, or removed.
type Cell struct {
	Value   int
	Removed bool
}

// CommandKind distinguishes the two player actions.
type CommandKind int

const (
	RemovePair CommandKind = iota
	Refill
)

// Command either removes the pair at the two given board indices
// (row-major, RemovePair) or requests a refill (Refill; indices ignored).
type Command struct {
	Kind           CommandKind
	IndexA, IndexB int
}

// State is the full NumbersMatch game state.
type State struct {
	Settings        Settings
	Player          ids.PlayerId
	IsBot           bool
	Cells           []Cell // row-major, Width columns; grows on refill
	RefillsUsed     int
	RefillsAllowed  int
	Hints           int
	Status          Status
	MovesMade       int
}

// EndInfo is the NumbersMatch-specific game-over payload.
type EndInfo struct {
	RefillsUsed int
	MovesMade   int
}

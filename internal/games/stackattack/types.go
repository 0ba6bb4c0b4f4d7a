// Package stackattack implements the StackAttack module (spec.md 4.7.5):
// a fixed 15x10 field where a crane drops gravity-obeying blocks and
// player-controlled workers push, jump, and clear full lines.
package stackattack

import "github.com/lab1702/minigames-server/internal/ids"

// FieldWidth and FieldHeight are fixed by the game rules (spec.md 4.7.5);
// row 0 is the ceiling row, row FieldHeight-1 is the floor.
const (
	FieldWidth  = 15
	FieldHeight = 10
)

// WorkerState is a worker's vertical motion phase.
type WorkerState int

const (
	Grounded WorkerState = iota
	Jumping
	Falling
)

// Move is the horizontal direction of a worker move command.
type Move int

const (
	MoveLeft Move = iota
	MoveRight
)

// CommandKind is the player action this tick.
type CommandKind int

const (
	CmdMove CommandKind = iota
	CmdJump
)

// Command is a single worker control input.
type Command struct {
	Kind      CommandKind
	Direction Move
}

// Block is a single falling-or-settled field cell payload.
type Block struct {
	Present  bool
	Falling  bool
	PatternID int
}

// Worker is a player-controlled, height-2 entity. It occupies (Row,Col) for
// its feet and (Row-1,Col) for its head.
type Worker struct {
	PlayerID ids.PlayerId
	IsBot    bool
	Row, Col int
	State    WorkerState
	Alive    bool
	Crushed  bool
}

// TerminalReason names why the match ended.
type TerminalReason int

const (
	NoTerminal TerminalReason = iota
	WorkerCrushed
	CeilingReached
	SoleWorkerDisconnected
)

// Settings are the per-lobby configurable parameters.
type Settings struct {
	TickIntervalMs  int
	CraneIntervalTk int // crane drops a new block every N ticks
}

// State is the full StackAttack game state.
type State struct {
	Settings Settings
	Field    [FieldHeight][FieldWidth]Block
	Workers  []*Worker // stable roster order
	CraneCol int
	Tick     uint64
	Terminal TerminalReason
	CrushedBy ids.PlayerId
}

// EndInfo is the StackAttack-specific game-over payload.
type EndInfo struct {
	Reason      string
	LinesCleared int
	TicksPlayed  uint64
}

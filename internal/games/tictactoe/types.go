// Package tictactoe implements the TicTacToe game module (spec.md 4.7.2).
package tictactoe

import "github.com/lab1702/minigames-server/internal/ids"

// Mark is a placed piece.
type Mark int

const (
	Empty Mark = iota
	MarkX
	MarkO
)

// FirstPlayerSelection chooses who plays X (spec.md 4.7.2).
type FirstPlayerSelection int

const (
	FirstPlayerHost FirstPlayerSelection = iota
	FirstPlayerRandom
)

// BotPolicy selects a TicTacToe bot's decision procedure.
type BotPolicy int

const (
	BotRandom BotPolicy = iota
	BotWinBlock
	BotMinimax
)

// Status is the match outcome so far.
type Status int

const (
	InProgress Status = iota
	XWon
	OWon
	Draw
)

// Settings are the per-lobby configurable parameters.
type Settings struct {
	Width      int
	Height     int
	WinCount   int
	FirstPlay  FirstPlayerSelection
}

// Command places a mark at (Row, Col).
type Command struct {
	Row, Col int
}

// State is the full TicTacToe game state.
type State struct {
	Settings Settings
	Board    [][]Mark // [row][col]
	Turn     Mark
	Status   Status
	PlayerX  ids.PlayerId
	PlayerO  ids.PlayerId
	LastRow  int
	LastCol  int
	lastLine []Cell
}

// EndInfo is the TicTacToe-specific game-over payload.
type EndInfo struct {
	WinningLine []Cell
}

// Cell is a board coordinate.
type Cell struct{ Row, Col int }

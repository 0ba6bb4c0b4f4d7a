// Package session implements the central per-session driver algorithm
// (spec.md 4.6): tick-driven and event-driven cooperative loops, command
// intake with cancellation, broadcast fan-out, and the single
// game-over emission a driver must produce.
package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/lab1702/minigames-server/internal/broadcast"
	"github.com/lab1702/minigames-server/internal/ids"
	"github.com/lab1702/minigames-server/internal/wire"
)

// Command is one inbound in-game message addressed to a session, tagged
// with the sending client. Disconnect carries no Payload.
type Command struct {
	Client       ids.ClientId
	Player       ids.PlayerId
	Payload      json.RawMessage
	IsDisconnect bool
}

// Config is the session's fixed recipient-set derivation input
// (spec.md 3: "Derives the recipient set ... pure function of
// SessionConfig ... never grows after creation").
type Config struct {
	SessionID ids.SessionId
	Players   []ids.PlayerId // stable seating order, humans only
	Observers []ids.PlayerId
	ClientOf  map[ids.PlayerId]ids.ClientId // humans + observers
	Bots      map[ids.BotId]bool
}

// Recipients returns the union of human-player and observer client ids.
// Bots are never included.
func (c Config) Recipients() []broadcast.Recipient {
	out := make([]broadcast.Recipient, 0, len(c.Players)+len(c.Observers))
	for _, p := range c.Players {
		out = append(out, broadcast.Recipient{Client: c.ClientOf[p]})
	}
	for _, p := range c.Observers {
		out = append(out, broadcast.Recipient{Client: c.ClientOf[p]})
	}
	return out
}

// Hooks is the uniform, closed contract a per-game adapter supplies to
// drive one session, replacing trait-object polymorphism with a flat
// struct of closures dispatched once at session creation (spec.md 9).
type Hooks struct {
	// TickDriven selects the §4.6 loop shape; TickInterval is only read
	// when true.
	TickDriven   bool
	TickInterval time.Duration

	// ApplyCommand validates sender-is-participant, applies the decoded
	// command, and reports whether state changed (and so must be
	// recorded).
	ApplyCommand func(sender ids.PlayerId, payload json.RawMessage) (modified bool, err error)

	// Tick advances tick-driven games by one discrete step, including bot
	// moves for any bot whose turn it is.
	Tick func()

	// Disconnect applies the game's dead-entity / termination policy for a
	// departed participant.
	Disconnect func(pid ids.PlayerId)

	IsTerminal func() bool

	// Snapshot renders the current state as the ServerMessage to
	// broadcast after a tick or an accepted event-driven command.
	Snapshot func() wire.ServerMessage

	// GameOver computes the final scores/winner/end-info once IsTerminal
	// is true.
	GameOver func() wire.GameOverPayload
}

// Result is what a driver returns when its loop exits.
type Result struct {
	GameOver wire.ServerMessage
}

// RunTickDriven implements the §4.6 tick-driven loop (Snake, StackAttack).
// A prioritized select ensures that when both the ticker and a queued
// command are ready, the timer branch wins (spec.md 9's cadence-under-load
// requirement): commands are only ever drained at the top of a tick.
func RunTickDriven(ctx context.Context, log zerolog.Logger, cfg Config, hooks Hooks, b *broadcast.Broadcaster, cmdCh <-chan Command, record func(player ids.PlayerId, payload json.RawMessage, disconnect bool)) Result {
	ticker := time.NewTicker(hooks.TickInterval)
	defer ticker.Stop()

	recipients := cfg.Recipients()
	var pending []Command

	for {
		select {
		case <-ticker.C:
			if res, done := stepTick(log, hooks, b, recipients, pending, record); done {
				return res
			}
			pending = pending[:0]
			continue
		default:
		}

		select {
		case <-ctx.Done():
			return Result{}
		case <-ticker.C:
			if res, done := stepTick(log, hooks, b, recipients, pending, record); done {
				return res
			}
			pending = pending[:0]
		case cmd, ok := <-cmdCh:
			if !ok {
				return Result{}
			}
			pending = append(pending, cmd)
		}
	}
}

func stepTick(log zerolog.Logger, hooks Hooks, b *broadcast.Broadcaster, recipients []broadcast.Recipient, pending []Command, record func(ids.PlayerId, json.RawMessage, bool)) (Result, bool) {
	for _, cmd := range pending {
		if cmd.IsDisconnect {
			hooks.Disconnect(cmd.Player)
			record(cmd.Player, nil, true)
			continue
		}
		modified, err := hooks.ApplyCommand(cmd.Player, cmd.Payload)
		if err != nil {
			b.Send(cmd.Client, wire.ServerMessage{Type: wire.TypeError, Data: wire.ErrorPayload{Message: err.Error()}})
			continue
		}
		if modified {
			record(cmd.Player, cmd.Payload, false)
		}
	}
	hooks.Tick()
	b.BroadcastToLobby(recipients, hooks.Snapshot())
	if hooks.IsTerminal() {
		over := wire.ServerMessage{Type: wire.TypeGameOver, Data: hooks.GameOver()}
		b.BroadcastToLobby(recipients, over)
		return Result{GameOver: over}, true
	}
	return Result{}, false
}

// RunEventDriven implements the §4.6 event-driven loop (TicTacToe,
// NumbersMatch, 2048): no wall-clock ticks, the loop simply blocks on the
// command channel and reacts to each accepted command.
func RunEventDriven(ctx context.Context, cfg Config, hooks Hooks, b *broadcast.Broadcaster, cmdCh <-chan Command, record func(player ids.PlayerId, payload json.RawMessage, disconnect bool)) Result {
	recipients := cfg.Recipients()
	for {
		select {
		case <-ctx.Done():
			return Result{}
		case cmd, ok := <-cmdCh:
			if !ok {
				return Result{}
			}
			if cmd.IsDisconnect {
				hooks.Disconnect(cmd.Player)
				record(cmd.Player, nil, true)
			} else {
				modified, err := hooks.ApplyCommand(cmd.Player, cmd.Payload)
				if err != nil {
					b.Send(cmd.Client, wire.ServerMessage{Type: wire.TypeError, Data: wire.ErrorPayload{Message: err.Error()}})
					continue
				}
				if !modified {
					continue
				}
				record(cmd.Player, cmd.Payload, false)
			}
			if hooks.IsTerminal() {
				b.BroadcastToLobby(recipients, hooks.Snapshot())
				over := wire.ServerMessage{Type: wire.TypeGameOver, Data: hooks.GameOver()}
				b.BroadcastToLobby(recipients, over)
				return Result{GameOver: over}
			}
			b.BroadcastToLobby(recipients, hooks.Snapshot())
		}
	}
}

// Package broadcast implements the fan-out contract of spec.md 4.9: a
// per-client registry of outbound senders, bot-filtered recipient
// resolution, and best-effort delivery that never blocks on or propagates
// from a single slow client.
package broadcast

import (
	"sync"

	"github.com/rs/zerolog"

	"github.com/lab1702/minigames-server/internal/ids"
	"github.com/lab1702/minigames-server/internal/wire"
)

// outboxCapacity bounds each client's pending-send queue (spec.md 4.9:
// "finite bound ... on overflow the client is considered lost").
const outboxCapacity = 64

// LostHandler is invoked when a client's outbox overflows; the caller
// (the message handler) schedules that client for disconnect.
type LostHandler func(client ids.ClientId)

// Broadcaster fans server messages out to registered clients.
type Broadcaster struct {
	mu      sync.RWMutex
	clients map[ids.ClientId]chan wire.ServerMessage
	log     zerolog.Logger
	onLost  LostHandler
}

// New builds an empty broadcaster. onLost may be nil.
func New(log zerolog.Logger, onLost LostHandler) *Broadcaster {
	return &Broadcaster{
		clients: make(map[ids.ClientId]chan wire.ServerMessage),
		log:     log,
		onLost:  onLost,
	}
}

// Register associates client with its outbound channel. The caller (the
// per-client writer task) drains the returned channel and pushes frames to
// the transport.
func (b *Broadcaster) Register(client ids.ClientId) <-chan wire.ServerMessage {
	b.mu.Lock()
	defer b.mu.Unlock()
	ch := make(chan wire.ServerMessage, outboxCapacity)
	b.clients[client] = ch
	return ch
}

// SetLostHandler installs the callback invoked when a client's outbox
// overflows, once the caller (main) has constructed the component that
// owns disconnect handling. Breaks the broadcaster -> handler
// construction cycle (spec.md 9): the broadcaster never references the
// handler directly, only this late-bound callback.
func (b *Broadcaster) SetLostHandler(fn LostHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onLost = fn
}

// Unregister removes and closes a client's outbound channel.
func (b *Broadcaster) Unregister(client ids.ClientId) {
	b.mu.Lock()
	ch, ok := b.clients[client]
	delete(b.clients, client)
	b.mu.Unlock()
	if ok {
		close(ch)
	}
}

// Send delivers msg to a single client. Overflow or absence is logged and
// otherwise ignored; it never blocks and never returns an error to the
// caller (spec.md 4.9: "Send failures are logged and ignored").
func (b *Broadcaster) Send(client ids.ClientId, msg wire.ServerMessage) {
	b.mu.RLock()
	ch, ok := b.clients[client]
	b.mu.RUnlock()
	if !ok {
		return
	}
	select {
	case ch <- msg:
	default:
		b.log.Warn().Str("client_id", string(client)).Msg("outbound queue full, dropping client")
		if b.onLost != nil {
			b.onLost(client)
		}
	}
}

// Broadcast delivers msg to every id in clients.
func (b *Broadcaster) Broadcast(clients []ids.ClientId, msg wire.ServerMessage) {
	for _, c := range clients {
		b.Send(c, msg)
	}
}

// Recipient pairs a client id with whether that seat is bot-controlled;
// callers building a lobby/session recipient set use this to let Broadcast
// filter bots out in one place (spec.md 4.9: "Bots never recipients").
type Recipient struct {
	Client ids.ClientId
	IsBot  bool
}

// BroadcastToLobby delivers msg to every non-bot recipient except any
// listed in except.
func (b *Broadcaster) BroadcastToLobby(recipients []Recipient, msg wire.ServerMessage, except ...ids.ClientId) {
	skip := make(map[ids.ClientId]bool, len(except))
	for _, c := range except {
		skip[c] = true
	}
	for _, r := range recipients {
		if r.IsBot || skip[r.Client] {
			continue
		}
		b.Send(r.Client, msg)
	}
}

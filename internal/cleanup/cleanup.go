// Package cleanup implements the periodic eviction task of spec.md 4.10: a
// single long-lived task, grounded the way the teacher structures its own
// background loops (a ticker-driven goroutine bounded by a context),
// generalized from netrek's galaxy-reset timer to lobby/client inactivity
// eviction.
package cleanup

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/lab1702/minigames-server/internal/broadcast"
	"github.com/lab1702/minigames-server/internal/conntrack"
	"github.com/lab1702/minigames-server/internal/lobby"
	"github.com/lab1702/minigames-server/internal/wire"
)

// Config bounds the cleanup task's cadence and idle timeout (spec.md 4.10's
// defaults: 5 minute cadence, 1 hour timeout).
type Config struct {
	Interval time.Duration
	Timeout  time.Duration
}

// DefaultConfig returns spec.md 4.10's stated defaults.
func DefaultConfig() Config {
	return Config{Interval: 5 * time.Minute, Timeout: time.Hour}
}

// Task periodically evicts idle lobbies and disconnects idle clients.
type Task struct {
	log     zerolog.Logger
	cfg     Config
	lobbies *lobby.Manager
	conns   *conntrack.Tracker
	bcast   *broadcast.Broadcaster
}

// New builds a cleanup Task.
func New(log zerolog.Logger, cfg Config, lobbies *lobby.Manager, conns *conntrack.Tracker, bcast *broadcast.Broadcaster) *Task {
	return &Task{log: log, cfg: cfg, lobbies: lobbies, conns: conns, bcast: bcast}
}

// Run blocks, sweeping every cfg.Interval until ctx is cancelled.
func (t *Task) Run(ctx context.Context) {
	ticker := time.NewTicker(t.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.sweep()
		}
	}
}

func (t *Task) sweep() {
	for _, l := range t.lobbies.GetInactiveLobbies(t.cfg.Timeout) {
		affected := t.lobbies.EvictLobby(l.ID)
		for _, client := range affected {
			t.bcast.Send(client, wire.ServerMessage{Type: wire.TypeKicked, Data: wire.KickedPayload{Reason: wire.KickLobbyInactivity}})
		}
		t.log.Info().Str("lobby_id", string(l.ID)).Int("clients", len(affected)).Msg("evicted inactive lobby")
	}

	for _, client := range t.conns.GetInactiveClients(t.cfg.Timeout) {
		t.bcast.Send(client, wire.ServerMessage{Type: wire.TypeKicked, Data: wire.KickedPayload{Reason: wire.KickPlayerInactivity}})
		if l, _, err := t.lobbies.Leave(client); err == nil {
			t.bcast.Broadcast(l.ClientIDs(), wire.ServerMessage{Type: wire.TypeLobbyDetails, Data: l.ToDetails()})
		}
		t.bcast.Unregister(client)
		t.conns.Disconnect(client)
		t.log.Info().Str("client_id", string(client)).Msg("disconnected inactive client")
	}
}

package replay

import (
	"sort"
	"sync"

	"github.com/lab1702/minigames-server/internal/ids"
)

// Recorder accumulates PlayerAction records for one session. It is created
// once per session by the driver and never shared with another task; the
// mutex exists only because command intake and disconnect notices can race
// on the recorder from the driver's own goroutine-adjacent call sites
// (spec.md 4.2: "may be called from multiple tasks").
type Recorder struct {
	mu      sync.Mutex
	header  Header
	actions []PlayerAction
}

// New builds a recorder with a fixed header; actions accumulate afterward.
func New(game GameType, seed uint64, startTimestampMs int64, lobbySettingsSnapshot []byte, roster []RosterEntry) *Recorder {
	return &Recorder{
		header: Header{
			EngineVersion:    EngineVersion,
			StartTimestampMs: startTimestampMs,
			Game:             game,
			Seed:             seed,
			LobbySettings:    lobbySettingsSnapshot,
			Roster:           roster,
		},
	}
}

// RecordCommand appends an accepted, state-modifying command at the given
// tick. payload is the game-specific command already encoded to bytes by
// the caller (the driver, which owns the concrete Command type).
func (r *Recorder) RecordCommand(tick int64, playerIndex int32, payload []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, PlayerAction{
		Tick:           tick,
		PlayerIndex:    playerIndex,
		CommandPayload: payload,
	})
}

// RecordDisconnect appends a disconnect notice at the given tick.
func (r *Recorder) RecordDisconnect(tick int64, playerIndex int32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.actions = append(r.actions, PlayerAction{
		Tick:         tick,
		PlayerIndex:  playerIndex,
		Disconnected: true,
	})
}

// FindPlayerIndex resolves a PlayerId to its roster index, if present.
func (r *Recorder) FindPlayerIndex(pid ids.PlayerId) (int32, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, entry := range r.header.Roster {
		if entry.PlayerID == pid {
			return int32(i), true
		}
	}
	return 0, false
}

// Finalize returns the accumulated Replay with actions sorted ascending by
// tick, ties broken by insertion (recording) order.
func (r *Recorder) Finalize() Replay {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]PlayerAction, len(r.actions))
	copy(out, r.actions)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Tick < out[j].Tick })
	return Replay{Header: r.header, Actions: out}
}

// Package replaysession implements interactive replay playback
// (spec.md 4.11): recreating a recorded session's state from its header and
// stepping through its recorded actions under Pause/Resume/SetSpeed/
// StepForward/Restart control, broadcasting both the reconstructed
// game-state and a control-state notification after every step.
package replaysession

import (
	"context"
	"sync"
	"time"

	"github.com/lab1702/minigames-server/internal/broadcast"
	"github.com/lab1702/minigames-server/internal/engine"
	"github.com/lab1702/minigames-server/internal/ids"
	"github.com/lab1702/minigames-server/internal/replay"
	"github.com/lab1702/minigames-server/internal/wire"
)

// minSpeed and maxSpeed clamp SetSpeed (spec.md 4.11).
const (
	minSpeed = 0.25
	maxSpeed = 4.0

	// defaultStepInterval paces event-driven replays, which carry no real
	// tick cadence of their own (spec.md 4.11 does not name one; one action
	// per half second is a readable default for a turn-based game).
	defaultStepInterval = 500 * time.Millisecond
)

// Session drives one interactive replay viewing. It is used by a single
// controller at a time; concurrent control commands are serialized by mu
// the same way a live session serializes state behind its own lock.
type Session struct {
	bcast      *broadcast.Broadcaster
	recipients []ids.ClientId
	r          replay.Replay

	mu       sync.Mutex
	recon    engine.Reconstruction
	cursor   int
	tick     int64
	paused   bool
	speed    float64
	finished bool
}

// New rebuilds the initial game state from r and returns a Session ready to
// Run. recipients are the clients watching this replay.
func New(bcast *broadcast.Broadcaster, recipients []ids.ClientId, r replay.Replay) (*Session, error) {
	recon, err := engine.Rebuild(r)
	if err != nil {
		return nil, err
	}
	return &Session{
		bcast:      bcast,
		recipients: recipients,
		r:          r,
		recon:      recon,
		paused:     true,
		speed:      1.0,
	}, nil
}

// Run drives playback until ctx is cancelled or Stop is implied by the
// caller abandoning the session. Broadcasts the initial state immediately.
func (s *Session) Run(ctx context.Context) {
	s.broadcastState()
	s.broadcastControl()

	for {
		s.mu.Lock()
		interval := s.stepInterval()
		paused := s.paused
		s.mu.Unlock()

		if paused {
			select {
			case <-ctx.Done():
				return
			case <-time.After(50 * time.Millisecond):
				continue
			}
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(interval):
			s.mu.Lock()
			s.step()
			s.mu.Unlock()
			s.broadcastState()
			s.broadcastControl()
		}
	}
}

func (s *Session) stepInterval() time.Duration {
	base := s.recon.TickInterval
	if !s.recon.TickDriven || base <= 0 {
		base = defaultStepInterval
	}
	d := time.Duration(float64(base) / s.speed)
	if d <= 0 {
		d = time.Millisecond
	}
	return d
}

// step applies every recorded action due at the current tick, advances the
// underlying game by one tick (tick-driven) or by one action (event-driven),
// and marks the replay finished once the game reports terminal or, for an
// event-driven game, the action stream is exhausted. Caller must hold mu.
func (s *Session) step() {
	if s.finished {
		return
	}
	if s.recon.TickDriven {
		for s.cursor < len(s.r.Actions) && s.r.Actions[s.cursor].Tick == s.tick {
			s.applyAction(s.r.Actions[s.cursor])
			s.cursor++
		}
		s.recon.Hooks.Tick()
		s.tick++
	} else if s.cursor < len(s.r.Actions) {
		s.applyAction(s.r.Actions[s.cursor])
		s.cursor++
	}

	if s.recon.Hooks.IsTerminal() || (s.cursor >= len(s.r.Actions) && !s.recon.TickDriven) {
		s.finished = true
		s.paused = true
	}
}

func (s *Session) applyAction(a replay.PlayerAction) {
	pid, ok := s.recon.PlayerAt(a.PlayerIndex)
	if !ok {
		return
	}
	if a.Disconnected {
		s.recon.Hooks.Disconnect(pid)
		return
	}
	_, _ = s.recon.Hooks.ApplyCommand(pid, a.CommandPayload)
}

func (s *Session) broadcastState() {
	s.mu.Lock()
	msg := s.recon.Hooks.Snapshot()
	s.mu.Unlock()
	s.bcast.Broadcast(s.recipients, msg)
}

func (s *Session) broadcastControl() {
	s.mu.Lock()
	payload := wire.ReplayStatePayload{
		IsPaused:        s.paused,
		CurrentAction:   s.cursor,
		TotalActions:    len(s.r.Actions),
		Speed:           s.speed,
		IsFinished:      s.finished,
		HostOnlyControl: true,
	}
	s.mu.Unlock()
	s.bcast.Broadcast(s.recipients, wire.ServerMessage{Type: wire.TypeReplayState, Data: payload})
}

// Pause suspends automatic playback.
func (s *Session) Pause() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
	s.broadcastControl()
}

// Resume continues automatic playback from the current position, unless
// the replay has already finished.
func (s *Session) Resume() {
	s.mu.Lock()
	if !s.finished {
		s.paused = false
	}
	s.mu.Unlock()
	s.broadcastControl()
}

// SetSpeed clamps and applies a new playback speed multiplier.
func (s *Session) SetSpeed(speed float64) {
	if speed < minSpeed {
		speed = minSpeed
	}
	if speed > maxSpeed {
		speed = maxSpeed
	}
	s.mu.Lock()
	s.speed = speed
	s.mu.Unlock()
	s.broadcastControl()
}

// StepForward advances exactly one step. Only legal while paused
// (spec.md 4.11).
func (s *Session) StepForward() {
	s.mu.Lock()
	if !s.paused {
		s.mu.Unlock()
		return
	}
	s.step()
	s.mu.Unlock()
	s.broadcastState()
	s.broadcastControl()
}

// Restart rebuilds the game state from scratch and rewinds to the first
// action, remaining paused (spec.md 4.11: "remains alive waiting for
// Restart or Stop").
func (s *Session) Restart() error {
	recon, err := engine.Rebuild(s.r)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.recon = recon
	s.cursor = 0
	s.tick = 0
	s.finished = false
	s.paused = true
	s.mu.Unlock()
	s.broadcastState()
	s.broadcastControl()
	return nil
}

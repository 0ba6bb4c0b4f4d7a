package lobby

import (
	"sync"
	"time"

	"github.com/lab1702/minigames-server/internal/apperrors"
	"github.com/lab1702/minigames-server/internal/ids"
)

// Manager is the thread-safe registry of lobbies keyed by LobbyId plus a
// secondary ClientId->LobbyId index (spec.md 4.5). A single coarse mutex
// guards both maps together so a client's membership and the lobby's
// member list are always mutually consistent at lock release.
type Manager struct {
	mu         sync.Mutex
	lobbies    map[ids.LobbyId]*Lobby
	clientLobby map[ids.ClientId]ids.LobbyId
}

// NewManager builds an empty registry.
func NewManager() *Manager {
	return &Manager{
		lobbies:     make(map[ids.LobbyId]*Lobby),
		clientLobby: make(map[ids.ClientId]ids.LobbyId),
	}
}

// Create registers a new lobby and seats its creator.
func (m *Manager) Create(name string, creator ids.ClientId, maxPlayers int, settings Settings) (*Lobby, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, already := m.clientLobby[creator]; already {
		return nil, apperrors.New(apperrors.InvalidCommand, "client %s is already in a lobby", creator)
	}
	minSeats, _ := settings.PlayerCountBounds()
	if err := settings.Validate(minSeats); err != nil {
		return nil, err
	}
	l := Create(ids.NewLobbyId(), name, creator, maxPlayers, settings)
	m.lobbies[l.ID] = l
	m.clientLobby[creator] = l.ID
	return l, nil
}

// Get returns the lobby for id.
func (m *Manager) Get(id ids.LobbyId) (*Lobby, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lobbies[id]
	if !ok {
		return nil, apperrors.New(apperrors.LobbyNotFound, "lobby %s not found", id)
	}
	return l, nil
}

// LobbyOf returns the lobby a client currently belongs to, if any.
func (m *Manager) LobbyOf(client ids.ClientId) (*Lobby, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.clientLobby[client]
	if !ok {
		return nil, false
	}
	return m.lobbies[id], true
}

// Join seats client as a player in lobby id.
func (m *Manager) Join(id ids.LobbyId, client ids.ClientId) (*Lobby, ids.PlayerId, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, already := m.clientLobby[client]; already {
		return nil, "", apperrors.New(apperrors.InvalidCommand, "client %s is already in a lobby", client)
	}
	l, ok := m.lobbies[id]
	if !ok {
		return nil, "", apperrors.New(apperrors.LobbyNotFound, "lobby %s not found", id)
	}
	pid, outcome := l.AddPlayer(client)
	if outcome == Full {
		return nil, "", apperrors.New(apperrors.LobbyFull, "lobby %s is full", id)
	}
	m.clientLobby[client] = id
	l.Touch()
	return l, pid, nil
}

// Leave removes client from whatever lobby it belongs to, dissolving the
// lobby if it was the last human.
func (m *Manager) Leave(client ids.ClientId) (*Lobby, LeaveOutcome, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.clientLobby[client]
	if !ok {
		return nil, LeaveOutcome{}, apperrors.New(apperrors.NotInLobby, "client %s is not in a lobby", client)
	}
	l := m.lobbies[id]
	outcome := l.RemovePlayer(client)
	delete(m.clientLobby, client)
	l.Touch()
	if outcome.Kind == LobbyEmpty {
		delete(m.lobbies, id)
	}
	return l, outcome, nil
}

// List returns a public snapshot of every registered lobby, whatever its
// status or occupancy.
func (m *Manager) List() []Info {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Info, 0, len(m.lobbies))
	for _, l := range m.lobbies {
		out = append(out, l.ToInfo())
	}
	return out
}

// Mutate runs fn against the lobby under the manager's lock, bumping its
// activity timestamp afterward. Used for every lobby-mutating operation
// that does not also need to change the ClientId->LobbyId index
// (AddBot, KickBot, MarkReady, BecomeObserver/Player, settings updates,
// PlayAgain toggles, GameOver transitions).
func (m *Manager) Mutate(id ids.LobbyId, fn func(*Lobby) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lobbies[id]
	if !ok {
		return apperrors.New(apperrors.LobbyNotFound, "lobby %s not found", id)
	}
	if err := fn(l); err != nil {
		return err
	}
	l.Touch()
	return nil
}

// TouchClient bumps a lobby's activity timestamp in response to any
// accepted message from one of its members, without otherwise mutating it.
func (m *Manager) TouchClient(client ids.ClientId) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.clientLobby[client]; ok {
		if l, ok := m.lobbies[id]; ok {
			l.Touch()
		}
	}
}

// GetInactiveLobbies returns lobbies idle past timeout and not InGame.
func (m *Manager) GetInactiveLobbies(timeout time.Duration) []*Lobby {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now()
	var out []*Lobby
	for _, l := range m.lobbies {
		if l.Status == InGame {
			continue
		}
		if now.Sub(l.LastActivity) > timeout {
			out = append(out, l)
		}
	}
	return out
}

// EvictLobby removes a lobby and every client index entry pointing at it.
func (m *Manager) EvictLobby(id ids.LobbyId) []ids.ClientId {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.lobbies[id]
	if !ok {
		return nil
	}
	var affected []ids.ClientId
	for client, lid := range m.clientLobby {
		if lid == id {
			affected = append(affected, client)
			delete(m.clientLobby, client)
		}
	}
	_ = l
	delete(m.lobbies, id)
	return affected
}

package lobby

import (
	"time"

	"github.com/lab1702/minigames-server/internal/ids"
)

// Status is the lobby's coarse lifecycle state (spec.md 3).
type Status int

const (
	Waiting Status = iota
	InGame
	GameOver
)

// AddOutcome is the result of AddPlayer.
type AddOutcome int

const (
	Added AddOutcome = iota
	Full
	AlreadyPresent
)

// RemoveOutcome is the result of RemoveBot.
type RemoveOutcome int

const (
	Removed RemoveOutcome = iota
	NotFound
)

// LeaveOutcomeKind distinguishes the three shapes RemovePlayer can return.
type LeaveOutcomeKind int

const (
	LobbyEmpty LeaveOutcomeKind = iota
	HostChanged
	PlayerRemoved
)

// LeaveOutcome is the result of RemovePlayer.
type LeaveOutcome struct {
	Kind       LeaveOutcomeKind
	NewCreator ids.ClientId // set iff Kind == HostChanged
}

// PlayAgain is the post-GameOver restart negotiation state (spec.md 4.4).
type PlayAgain struct {
	Ready   map[ids.PlayerId]bool
	Pending map[ids.PlayerId]bool
}

// Eligible reports whether every finisher has opted in (pending is empty
// and at least one finisher is ready).
func (p *PlayAgain) Eligible() bool {
	return p != nil && len(p.Pending) == 0 && len(p.Ready) > 0
}

// Lobby holds membership, readiness, bots, play-again state and activity
// tracking for one lobby (spec.md 3). It carries no internal mutex: the
// LobbyManager serializes every mutation with its own coarse lock
// (spec.md 4.5), matching the "players/lobby member list always mutually
// consistent at lock release" ordering requirement.
type Lobby struct {
	ID       ids.LobbyId
	Name     string
	Creator  ids.ClientId
	MaxPlayers int
	Settings Settings
	Status   Status

	PlayerOrder    []ids.PlayerId // stable seating order, players only
	Ready          map[ids.PlayerId]bool
	ClientByPlayer map[ids.PlayerId]ids.ClientId
	PlayerByClient map[ids.ClientId]ids.PlayerId

	Observers map[ids.PlayerId]bool // player ids currently spectating

	Bots map[ids.BotId]BotType

	PlayAgainState *PlayAgain

	LastActivity time.Time
}

// Create initializes an empty lobby with the given creator seated as the
// first (and, for now, only) player. maxPlayers is clamped to [1,16] and
// then to the game's player-count bounds.
func Create(id ids.LobbyId, name string, creator ids.ClientId, maxPlayers int, settings Settings) *Lobby {
	if maxPlayers < 1 {
		maxPlayers = 1
	}
	if maxPlayers > 16 {
		maxPlayers = 16
	}
	if lo, hi := settings.PlayerCountBounds(); maxPlayers < lo {
		maxPlayers = lo
	} else if maxPlayers > hi {
		maxPlayers = hi
	}
	l := &Lobby{
		ID:             id,
		Name:           name,
		Creator:        creator,
		MaxPlayers:     maxPlayers,
		Settings:       settings,
		Status:         Waiting,
		Ready:          make(map[ids.PlayerId]bool),
		ClientByPlayer: make(map[ids.PlayerId]ids.ClientId),
		PlayerByClient: make(map[ids.ClientId]ids.PlayerId),
		Observers:      make(map[ids.PlayerId]bool),
		Bots:           make(map[ids.BotId]BotType),
		LastActivity:   time.Now(),
	}
	creatorPlayer := ids.NewPlayerId()
	l.PlayerOrder = append(l.PlayerOrder, creatorPlayer)
	l.ClientByPlayer[creatorPlayer] = creator
	l.PlayerByClient[creator] = creatorPlayer
	return l
}

func (l *Lobby) seatCount() int {
	return len(l.PlayerOrder) + len(l.Bots)
}

// SeatCount exposes seatCount for settings re-validation on UpdateSettings.
func (l *Lobby) SeatCount() int { return l.seatCount() }

// AddPlayer seats a new human participant as a player.
func (l *Lobby) AddPlayer(client ids.ClientId) (ids.PlayerId, AddOutcome) {
	if pid, ok := l.PlayerByClient[client]; ok {
		return pid, AlreadyPresent
	}
	if l.seatCount() >= l.MaxPlayers {
		return "", Full
	}
	pid := ids.NewPlayerId()
	l.PlayerOrder = append(l.PlayerOrder, pid)
	l.ClientByPlayer[pid] = client
	l.PlayerByClient[client] = pid
	return pid, Added
}

// RemovePlayer removes a client's player/observer seat entirely (used when
// a client leaves the lobby). Host reassignment goes to the
// earliest-joined remaining human.
func (l *Lobby) RemovePlayer(client ids.ClientId) LeaveOutcome {
	pid, ok := l.PlayerByClient[client]
	if !ok {
		return LeaveOutcome{Kind: PlayerRemoved}
	}
	delete(l.PlayerByClient, client)
	delete(l.ClientByPlayer, pid)
	delete(l.Ready, pid)
	delete(l.Observers, pid)
	l.PlayerOrder = removePid(l.PlayerOrder, pid)

	if len(l.PlayerOrder) == 0 {
		return LeaveOutcome{Kind: LobbyEmpty}
	}
	if client == l.Creator {
		newCreatorPid := l.PlayerOrder[0]
		l.Creator = l.ClientByPlayer[newCreatorPid]
		return LeaveOutcome{Kind: HostChanged, NewCreator: l.Creator}
	}
	return LeaveOutcome{Kind: PlayerRemoved}
}

func removePid(s []ids.PlayerId, target ids.PlayerId) []ids.PlayerId {
	out := s[:0]
	for _, p := range s {
		if p != target {
			out = append(out, p)
		}
	}
	return out
}

// AddBot seats a bot with the given policy, or reports Full.
func (l *Lobby) AddBot(botType BotType) (ids.BotId, AddOutcome) {
	if l.seatCount() >= l.MaxPlayers {
		return "", Full
	}
	id := ids.NewBotId()
	l.Bots[id] = botType
	return id, Added
}

// RemoveBot evicts a bot seat.
func (l *Lobby) RemoveBot(id ids.BotId) RemoveOutcome {
	if _, ok := l.Bots[id]; !ok {
		return NotFound
	}
	delete(l.Bots, id)
	return Removed
}

// SetReady updates a player's ready flag. It is a no-op if the player is
// absent. If the all-ready condition was met and this call invalidates it,
// a GameOver lobby reverts to Waiting (spec.md 4.4).
func (l *Lobby) SetReady(pid ids.PlayerId, ready bool) {
	if _, ok := l.ClientByPlayer[pid]; !ok {
		return
	}
	l.Ready[pid] = ready
	if !ready && l.Status == GameOver {
		l.Status = Waiting
		l.PlayAgainState = nil
	}
}

// PlayerToObserver moves a current player to the observer set. Only legal
// while Waiting.
func (l *Lobby) PlayerToObserver(pid ids.PlayerId) bool {
	if l.Status != Waiting {
		return false
	}
	if _, ok := l.ClientByPlayer[pid]; !ok {
		return false
	}
	if l.Observers[pid] {
		return false
	}
	l.PlayerOrder = removePid(l.PlayerOrder, pid)
	delete(l.Ready, pid)
	l.Observers[pid] = true
	return true
}

// ObserverToPlayer moves a current observer back to the player set. Only
// legal while Waiting and while a seat is free.
func (l *Lobby) ObserverToPlayer(pid ids.PlayerId) bool {
	if l.Status != Waiting {
		return false
	}
	if !l.Observers[pid] {
		return false
	}
	if l.seatCount() >= l.MaxPlayers {
		return false
	}
	delete(l.Observers, pid)
	l.PlayerOrder = append(l.PlayerOrder, pid)
	return true
}

// AllReady reports whether every player is ready and the resulting
// player+bot count satisfies this game's bounds.
func (l *Lobby) AllReady() bool {
	if len(l.PlayerOrder) == 0 {
		return false
	}
	for _, pid := range l.PlayerOrder {
		if !l.Ready[pid] {
			return false
		}
	}
	min, max := l.Settings.PlayerCountBounds()
	n := l.seatCount()
	return n >= min && n <= max
}

// EnterGameOver transitions the lobby into GameOver and seeds the
// play-again negotiation with every human finisher pending.
func (l *Lobby) EnterGameOver() {
	l.Status = GameOver
	pa := &PlayAgain{Ready: make(map[ids.PlayerId]bool), Pending: make(map[ids.PlayerId]bool)}
	for _, pid := range l.PlayerOrder {
		pa.Pending[pid] = true
	}
	l.PlayAgainState = pa
}

// TogglePlayAgain moves a finisher between the PlayAgain ready/pending sets.
func (l *Lobby) TogglePlayAgain(pid ids.PlayerId, ready bool) {
	if l.PlayAgainState == nil {
		return
	}
	if _, known := l.PlayAgainState.Pending[pid]; !known {
		if _, known2 := l.PlayAgainState.Ready[pid]; !known2 {
			return
		}
	}
	if ready {
		delete(l.PlayAgainState.Pending, pid)
		l.PlayAgainState.Ready[pid] = true
	} else {
		delete(l.PlayAgainState.Ready, pid)
		l.PlayAgainState.Pending[pid] = true
	}
}

// BackToWaiting resets lifecycle state after a session ends without an
// immediate restart, or just before a PlayAgain-triggered restart clears
// the negotiation state.
func (l *Lobby) BackToWaiting() {
	l.Status = Waiting
	l.PlayAgainState = nil
	for pid := range l.Ready {
		l.Ready[pid] = false
	}
}

// Touch bumps the last-activity timestamp; every mutating LobbyManager
// operation calls this (spec.md 4.5).
func (l *Lobby) Touch() { l.LastActivity = time.Now() }

// ClientIDs returns every client currently attached to this lobby, players
// and observers alike -- the broadcast recipient set for lobby-level
// (not in-game) messages.
func (l *Lobby) ClientIDs() []ids.ClientId {
	out := make([]ids.ClientId, 0, len(l.ClientByPlayer))
	for _, c := range l.ClientByPlayer {
		out = append(out, c)
	}
	return out
}

// Details is the full membership snapshot returned to lobby members.
type Details struct {
	ID         ids.LobbyId
	Name       string
	Creator    ids.ClientId
	MaxPlayers int
	Settings   Settings
	Status     Status
	Players    []PlayerView
	Observers  []ids.PlayerId
	Bots       map[ids.BotId]BotType
}

// PlayerView is one player's membership row in a Details snapshot.
type PlayerView struct {
	PlayerID ids.PlayerId
	Ready    bool
}

// ToDetails snapshots the full membership view (spec.md 4.4).
func (l *Lobby) ToDetails() Details {
	players := make([]PlayerView, 0, len(l.PlayerOrder))
	for _, pid := range l.PlayerOrder {
		players = append(players, PlayerView{PlayerID: pid, Ready: l.Ready[pid]})
	}
	observers := make([]ids.PlayerId, 0, len(l.Observers))
	for pid := range l.Observers {
		observers = append(observers, pid)
	}
	bots := make(map[ids.BotId]BotType, len(l.Bots))
	for id, bt := range l.Bots {
		bots[id] = bt
	}
	return Details{
		ID:         l.ID,
		Name:       l.Name,
		Creator:    l.Creator,
		MaxPlayers: l.MaxPlayers,
		Settings:   l.Settings,
		Status:     l.Status,
		Players:    players,
		Observers:  observers,
		Bots:       bots,
	}
}

// Info is the lightweight projection used in public lobby listings.
type Info struct {
	ID         ids.LobbyId
	Name       string
	Kind       GameKind
	PlayerCount int
	MaxPlayers int
	Status     Status
}

// ToInfo snapshots the public listing view (spec.md 4.4).
func (l *Lobby) ToInfo() Info {
	return Info{
		ID:          l.ID,
		Name:        l.Name,
		Kind:        l.Settings.Kind,
		PlayerCount: l.seatCount(),
		MaxPlayers:  l.MaxPlayers,
		Status:      l.Status,
	}
}

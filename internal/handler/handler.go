// Package handler implements the message-handler contract of spec.md 4.8:
// demultiplexing ClientMessage by tag against the lobby manager, the
// broadcaster, the connection tracker and the session engine. It is the
// one place that knows how all of those collaborators compose, mirroring
// the teacher's server.Server (server/websocket.go) generalized from a
// single netrek galaxy to many concurrent per-lobby sessions.
package handler

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/lab1702/minigames-server/internal/apperrors"
	"github.com/lab1702/minigames-server/internal/broadcast"
	"github.com/lab1702/minigames-server/internal/config"
	"github.com/lab1702/minigames-server/internal/conntrack"
	"github.com/lab1702/minigames-server/internal/engine"
	"github.com/lab1702/minigames-server/internal/games/snake"
	"github.com/lab1702/minigames-server/internal/games/tictactoe"
	"github.com/lab1702/minigames-server/internal/ids"
	"github.com/lab1702/minigames-server/internal/lobby"
	"github.com/lab1702/minigames-server/internal/replay"
	"github.com/lab1702/minigames-server/internal/replaysession"
	"github.com/lab1702/minigames-server/internal/session"
	"github.com/lab1702/minigames-server/internal/wire"
)

// activeSession is what the handler retains about one running game beyond
// engine.Handle: the lobby it belongs to and the client<->player mapping
// needed to validate InGameCommand senders and to route disconnect notices.
type activeSession struct {
	handle   *engine.Handle
	lobbyID  ids.LobbyId
	playerOf map[ids.ClientId]ids.PlayerId
}

// activeReplay is one interactive replay viewing in progress, owned by the
// client that opened it (spec.md 4.11's host-only control model).
type activeReplay struct {
	session *replaysession.Session
	cancel  context.CancelFunc
	owner   ids.ClientId
}

// Handler is the process-wide demultiplexer. One Handler serves every
// connected client; per-connection state lives in conns/bcast, keyed by
// ClientId.
type Handler struct {
	log     zerolog.Logger
	cfg     config.Config
	lobbies *lobby.Manager
	bcast   *broadcast.Broadcaster
	conns   *conntrack.Tracker

	baseCtx context.Context

	mu             sync.Mutex
	sessions       map[ids.SessionId]*activeSession
	sessionOfLobby map[ids.LobbyId]ids.SessionId
	replays        map[ids.SessionId]*activeReplay
}

// New builds a Handler. ctx bounds the lifetime of every session driver it
// spawns; cancelling it tears down every running game.
func New(ctx context.Context, log zerolog.Logger, cfg config.Config, lobbies *lobby.Manager, bcast *broadcast.Broadcaster, conns *conntrack.Tracker) *Handler {
	return &Handler{
		log:            log,
		cfg:            cfg,
		lobbies:        lobbies,
		bcast:          bcast,
		conns:          conns,
		baseCtx:        ctx,
		sessions:       make(map[ids.SessionId]*activeSession),
		sessionOfLobby: make(map[ids.LobbyId]ids.SessionId),
		replays:        make(map[ids.SessionId]*activeReplay),
	}
}

// Connect registers a fresh client attachment and returns the channel the
// transport's writer task should drain (spec.md 4.8: "Connect{client_id}:
// registers sender in broadcaster; rejects duplicate client_id").
func (h *Handler) Connect(client ids.ClientId) (<-chan wire.ServerMessage, error) {
	if err := h.conns.Connect(client); err != nil {
		return nil, err
	}
	ch := h.bcast.Register(client)
	h.bcast.Send(client, wire.ServerMessage{Type: wire.TypeConnectResponse, Data: map[string]string{"clientId": string(client)}})
	return ch, nil
}

// Disconnect tears down a client's attachment: notifies any session it was
// playing in, leaves its lobby, and unregisters from the broadcaster
// (spec.md 4.8: "Disconnect or stream-end").
func (h *Handler) Disconnect(client ids.ClientId) {
	h.notifySessionsOfDisconnect(client)

	if l, _, err := h.lobbies.Leave(client); err == nil {
		h.broadcastLobbyDetails(l)
	}

	h.bcast.Unregister(client)
	h.conns.Disconnect(client)
}

func (h *Handler) notifySessionsOfDisconnect(client ids.ClientId) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, as := range h.sessions {
		if pid, ok := as.playerOf[client]; ok {
			select {
			case as.handle.Commands <- session.Command{Client: client, Player: pid, IsDisconnect: true}:
			default:
				h.log.Warn().Str("client_id", string(client)).Msg("session command queue full, dropping disconnect notice")
			}
		}
	}
}

// Handle demultiplexes one inbound ClientMessage (spec.md 4.8). client is
// the transport-authenticated sender; msg.ClientId is not trusted.
func (h *Handler) Handle(client ids.ClientId, msg wire.ClientMessage) {
	h.conns.Touch(client)
	h.lobbies.TouchClient(client)

	switch msg.Type {
	case wire.TypeConnect:
		// A no-op here: the transport already called Handler.Connect before
		// any message could be dispatched through Handle. A client-sent
		// Connect on an already-registered stream is redundant, not an error.
	case wire.TypeDisconnect:
		h.Disconnect(client)
	case wire.TypeListLobbies:
		h.handleListLobbies(client)
	case wire.TypeCreateLobby:
		h.handleCreateLobby(client, msg.Data)
	case wire.TypeJoinLobby:
		h.handleJoinLobby(client, msg.Data)
	case wire.TypeLeaveLobby:
		h.handleLeaveLobby(client)
	case wire.TypeAddBot:
		h.handleAddBot(client, msg.Data)
	case wire.TypeKickFromLobby:
		h.handleKickFromLobby(client, msg.Data)
	case wire.TypeKickBot:
		h.handleKickBot(client, msg.Data)
	case wire.TypeMarkReady:
		h.handleMarkReady(client, msg.Data)
	case wire.TypeBecomeObserver:
		h.handleBecomeObserver(client)
	case wire.TypeBecomePlayer:
		h.handleBecomePlayer(client)
	case wire.TypeUpdateSettings:
		h.handleUpdateSettings(client, msg.Data)
	case wire.TypeStartGame:
		h.handleStartGame(client)
	case wire.TypePlayAgain:
		h.handlePlayAgain(client, msg.Data)
	case wire.TypeInGameCommand:
		h.handleInGameCommand(client, msg.Data)
	case wire.TypeWatchReplay:
		h.handleWatchReplay(client, msg.Data)
	case wire.TypeInReplayCommand:
		h.handleInReplayCommand(client, msg.Data)
	default:
		h.sendError(client, apperrors.New(apperrors.InvalidCommand, "unknown message type %q", msg.Type))
	}
}

func (h *Handler) sendError(client ids.ClientId, err error) {
	h.bcast.Send(client, wire.ServerMessage{
		Type: wire.TypeError,
		Data: wire.ErrorPayload{Message: err.Error(), Code: apperrors.KindOf(err).String()},
	})
}

func (h *Handler) broadcastLobbyDetails(l *lobby.Lobby) {
	msg := wire.ServerMessage{Type: wire.TypeLobbyDetails, Data: l.ToDetails()}
	h.bcast.Broadcast(l.ClientIDs(), msg)
}

func (h *Handler) handleListLobbies(client ids.ClientId) {
	h.bcast.Send(client, wire.ServerMessage{Type: wire.TypeLobbyList, Data: h.lobbies.List()})
}

func (h *Handler) handleCreateLobby(client ids.ClientId, data json.RawMessage) {
	var payload wire.CreateLobbyPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		h.sendError(client, apperrors.Wrap(apperrors.DecodeFailure, err, "decoding createLobby payload"))
		return
	}
	var settings lobby.Settings
	if err := json.Unmarshal(payload.Settings, &settings); err != nil {
		h.sendError(client, err)
		return
	}
	l, err := h.lobbies.Create(payload.Name, client, payload.MaxPlayers, settings)
	if err != nil {
		h.sendError(client, err)
		return
	}
	h.bcast.Send(client, wire.ServerMessage{Type: wire.TypeJoinedLobby, Data: l.ToDetails()})
}

func (h *Handler) handleJoinLobby(client ids.ClientId, data json.RawMessage) {
	var payload wire.JoinLobbyPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		h.sendError(client, apperrors.Wrap(apperrors.DecodeFailure, err, "decoding joinLobby payload"))
		return
	}
	l, _, err := h.lobbies.Join(ids.LobbyId(payload.LobbyId), client)
	if err != nil {
		h.sendError(client, err)
		return
	}
	h.bcast.Send(client, wire.ServerMessage{Type: wire.TypeJoinedLobby, Data: l.ToDetails()})
	h.broadcastLobbyDetails(l)
}

func (h *Handler) handleLeaveLobby(client ids.ClientId) {
	h.notifySessionsOfDisconnect(client)
	l, _, err := h.lobbies.Leave(client)
	if err != nil {
		h.sendError(client, err)
		return
	}
	h.broadcastLobbyDetails(l)
}

// requireCreator looks up client's lobby and rejects the caller if it is
// not the current host. Lobby mutation commands that affect every member
// (kicks, settings, start) are host-only; not specified explicitly by
// spec.md 4.8 but a necessary precondition decision, recorded in DESIGN.md.
func (h *Handler) requireCreator(client ids.ClientId) (*lobby.Lobby, error) {
	l, ok := h.lobbies.LobbyOf(client)
	if !ok {
		return nil, apperrors.New(apperrors.NotInLobby, "client %s is not in a lobby", client)
	}
	if l.Creator != client {
		return nil, apperrors.New(apperrors.InvalidCommand, "only the lobby host may perform this action")
	}
	return l, nil
}

func (h *Handler) handleAddBot(client ids.ClientId, data json.RawMessage) {
	l, ok := h.lobbies.LobbyOf(client)
	if !ok {
		h.sendError(client, apperrors.New(apperrors.NotInLobby, "client %s is not in a lobby", client))
		return
	}
	bt, err := decodeBotType(l.Settings.Kind, data)
	if err != nil {
		h.sendError(client, err)
		return
	}
	err = h.lobbies.Mutate(l.ID, func(l *lobby.Lobby) error {
		_, outcome := l.AddBot(bt)
		if outcome == lobby.Full {
			return apperrors.New(apperrors.LobbyFull, "lobby %s is full", l.ID)
		}
		return nil
	})
	if err != nil {
		h.sendError(client, err)
		return
	}
	h.broadcastLobbyDetails(l)
}

// botTypePayload is the wire shape of AddBotPayload.BotType: a string policy
// name interpreted against the lobby's game kind.
type botTypePayload struct {
	Policy string `json:"policy"`
}

func decodeBotType(kind lobby.GameKind, data json.RawMessage) (lobby.BotType, error) {
	var payload wire.AddBotPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return lobby.BotType{}, apperrors.Wrap(apperrors.DecodeFailure, err, "decoding addBot payload")
	}
	var p botTypePayload
	if err := json.Unmarshal(payload.BotType, &p); err != nil {
		return lobby.BotType{}, apperrors.Wrap(apperrors.DecodeFailure, err, "decoding bot policy")
	}
	switch kind {
	case lobby.KindSnake:
		switch p.Policy {
		case "efficient":
			return lobby.BotType{SnakePolicy: snake.BotEfficient}, nil
		default:
			return lobby.BotType{SnakePolicy: snake.BotRandom}, nil
		}
	case lobby.KindTicTacToe:
		switch p.Policy {
		case "winBlock":
			return lobby.BotType{TicTacToePolicy: tictactoe.BotWinBlock}, nil
		case "minimax":
			return lobby.BotType{TicTacToePolicy: tictactoe.BotMinimax}, nil
		default:
			return lobby.BotType{TicTacToePolicy: tictactoe.BotRandom}, nil
		}
	default:
		return lobby.BotType{}, apperrors.New(apperrors.InvalidCommand, "game kind %d does not support bots", kind)
	}
}

func (h *Handler) handleKickFromLobby(client ids.ClientId, data json.RawMessage) {
	l, err := h.requireCreator(client)
	if err != nil {
		h.sendError(client, err)
		return
	}
	var payload wire.KickFromLobbyPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		h.sendError(client, apperrors.Wrap(apperrors.DecodeFailure, err, "decoding kickFromLobby payload"))
		return
	}
	target := ids.PlayerId(payload.PlayerId)
	targetClient, ok := l.ClientByPlayer[target]
	if !ok {
		h.sendError(client, apperrors.New(apperrors.InvalidCommand, "player %s is not in this lobby", target))
		return
	}
	h.notifySessionsOfDisconnect(targetClient)
	if _, _, err := h.lobbies.Leave(targetClient); err != nil {
		h.sendError(client, err)
		return
	}
	h.bcast.Send(targetClient, wire.ServerMessage{Type: wire.TypeKicked, Data: wire.KickedPayload{Reason: wire.KickHostRemoved}})
	h.broadcastLobbyDetails(l)
}

func (h *Handler) handleKickBot(client ids.ClientId, data json.RawMessage) {
	l, err := h.requireCreator(client)
	if err != nil {
		h.sendError(client, err)
		return
	}
	var payload wire.KickBotPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		h.sendError(client, apperrors.Wrap(apperrors.DecodeFailure, err, "decoding kickBot payload"))
		return
	}
	err = h.lobbies.Mutate(l.ID, func(l *lobby.Lobby) error {
		if outcome := l.RemoveBot(ids.BotId(payload.BotId)); outcome == lobby.NotFound {
			return apperrors.New(apperrors.InvalidCommand, "bot %s is not in this lobby", payload.BotId)
		}
		return nil
	})
	if err != nil {
		h.sendError(client, err)
		return
	}
	h.broadcastLobbyDetails(l)
}

func (h *Handler) handleMarkReady(client ids.ClientId, data json.RawMessage) {
	l, ok := h.lobbies.LobbyOf(client)
	if !ok {
		h.sendError(client, apperrors.New(apperrors.NotInLobby, "client %s is not in a lobby", client))
		return
	}
	var payload wire.MarkReadyPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		h.sendError(client, apperrors.Wrap(apperrors.DecodeFailure, err, "decoding markReady payload"))
		return
	}
	pid, ok := l.PlayerByClient[client]
	if !ok {
		h.sendError(client, apperrors.New(apperrors.InvalidCommand, "observers cannot mark ready"))
		return
	}
	_ = h.lobbies.Mutate(l.ID, func(l *lobby.Lobby) error {
		l.SetReady(pid, payload.Ready)
		return nil
	})
	h.broadcastLobbyDetails(l)
}

func (h *Handler) handleBecomeObserver(client ids.ClientId) {
	l, ok := h.lobbies.LobbyOf(client)
	if !ok {
		h.sendError(client, apperrors.New(apperrors.NotInLobby, "client %s is not in a lobby", client))
		return
	}
	pid, ok := l.PlayerByClient[client]
	if !ok {
		h.sendError(client, apperrors.New(apperrors.InvalidCommand, "client %s has no player seat", client))
		return
	}
	err := h.lobbies.Mutate(l.ID, func(l *lobby.Lobby) error {
		if !l.PlayerToObserver(pid) {
			return apperrors.New(apperrors.InvalidCommand, "cannot become an observer right now")
		}
		return nil
	})
	if err != nil {
		h.sendError(client, err)
		return
	}
	h.broadcastLobbyDetails(l)
}

func (h *Handler) handleBecomePlayer(client ids.ClientId) {
	l, ok := h.lobbies.LobbyOf(client)
	if !ok {
		h.sendError(client, apperrors.New(apperrors.NotInLobby, "client %s is not in a lobby", client))
		return
	}
	pid, ok := l.PlayerByClient[client]
	if !ok {
		h.sendError(client, apperrors.New(apperrors.InvalidCommand, "client %s has no player seat", client))
		return
	}
	err := h.lobbies.Mutate(l.ID, func(l *lobby.Lobby) error {
		if !l.ObserverToPlayer(pid) {
			return apperrors.New(apperrors.InvalidCommand, "cannot become a player right now")
		}
		return nil
	})
	if err != nil {
		h.sendError(client, err)
		return
	}
	h.broadcastLobbyDetails(l)
}

func (h *Handler) handleUpdateSettings(client ids.ClientId, data json.RawMessage) {
	l, err := h.requireCreator(client)
	if err != nil {
		h.sendError(client, err)
		return
	}
	var payload wire.UpdateSettingsPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		h.sendError(client, apperrors.Wrap(apperrors.DecodeFailure, err, "decoding updateSettings payload"))
		return
	}
	var settings lobby.Settings
	if err := json.Unmarshal(payload.Settings, &settings); err != nil {
		h.sendError(client, err)
		return
	}
	err = h.lobbies.Mutate(l.ID, func(l *lobby.Lobby) error {
		if l.Status != lobby.Waiting {
			return apperrors.New(apperrors.InvalidCommand, "cannot change settings while lobby is %v", l.Status)
		}
		if err := settings.Validate(l.SeatCount()); err != nil {
			return err
		}
		l.Settings = settings
		return nil
	})
	if err != nil {
		h.sendError(client, err)
		return
	}
	h.broadcastLobbyDetails(l)
}

func (h *Handler) handleStartGame(client ids.ClientId) {
	l, err := h.requireCreator(client)
	if err != nil {
		h.sendError(client, err)
		return
	}
	if err := h.startGame(l); err != nil {
		h.sendError(client, err)
	}
}

// startGame validates preconditions, builds the session roster, starts the
// engine, and transitions the lobby to InGame (spec.md 4.8: "requires
// all-ready and valid player count").
func (h *Handler) startGame(l *lobby.Lobby) error {
	if l.Status != lobby.Waiting {
		return apperrors.New(apperrors.InvalidCommand, "lobby %s is not waiting to start", l.ID)
	}
	if !l.AllReady() {
		return apperrors.New(apperrors.InvalidCommand, "not every player is ready, or player count is out of bounds")
	}
	if err := l.Settings.Validate(l.SeatCount()); err != nil {
		return err
	}

	roster := engine.Roster{
		Players:       append([]ids.PlayerId(nil), l.PlayerOrder...),
		ClientOf:      make(map[ids.PlayerId]ids.ClientId, len(l.ClientByPlayer)),
		Bots:          l.Bots,
		Creator:       l.PlayerByClient[l.Creator],
		LobbySettings: l.Settings,
	}
	for pid, c := range l.ClientByPlayer {
		roster.ClientOf[pid] = c
	}
	for pid := range l.Observers {
		roster.Observers = append(roster.Observers, pid)
	}

	saveReplays := h.cfg.Replays.Save
	handle, err := engine.Start(engine.WithBroadcaster(h.baseCtx, h.bcast), h.log, roster, time.Now(), saveReplays)
	if err != nil {
		return err
	}

	playerOf := make(map[ids.ClientId]ids.PlayerId, len(l.ClientByPlayer))
	for pid, c := range l.ClientByPlayer {
		playerOf[c] = pid
	}

	h.mu.Lock()
	h.sessions[handle.SessionID] = &activeSession{handle: handle, lobbyID: l.ID, playerOf: playerOf}
	h.sessionOfLobby[l.ID] = handle.SessionID
	h.mu.Unlock()

	if err := h.lobbies.Mutate(l.ID, func(l *lobby.Lobby) error {
		l.Status = lobby.InGame
		return nil
	}); err != nil {
		h.log.Warn().Err(err).Msg("lobby vanished right after session start")
	}
	h.broadcastLobbyDetails(l)

	go h.awaitSessionEnd(l.ID, handle, saveReplays)
	return nil
}

func (h *Handler) awaitSessionEnd(lobbyID ids.LobbyId, handle *engine.Handle, saveReplays bool) {
	<-handle.Done

	h.mu.Lock()
	delete(h.sessions, handle.SessionID)
	delete(h.sessionOfLobby, lobbyID)
	h.mu.Unlock()

	if saveReplays && handle.Recorder != nil {
		r := handle.Recorder.Finalize()
		if _, err := replay.Save(h.cfg.Replays.Location, time.Now(), r); err != nil {
			h.log.Warn().Err(err).Msg("failed to save replay")
		}
	}

	if err := h.lobbies.Mutate(lobbyID, func(l *lobby.Lobby) error {
		l.EnterGameOver()
		return nil
	}); err != nil {
		return
	}
	if l, err := h.lobbies.Get(lobbyID); err == nil {
		h.broadcastLobbyDetails(l)
	}
}

func (h *Handler) handlePlayAgain(client ids.ClientId, data json.RawMessage) {
	l, ok := h.lobbies.LobbyOf(client)
	if !ok {
		h.sendError(client, apperrors.New(apperrors.NotInLobby, "client %s is not in a lobby", client))
		return
	}
	var payload wire.PlayAgainPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		h.sendError(client, apperrors.Wrap(apperrors.DecodeFailure, err, "decoding playAgain payload"))
		return
	}
	pid, ok := l.PlayerByClient[client]
	if !ok {
		h.sendError(client, apperrors.New(apperrors.InvalidCommand, "client %s has no player seat", client))
		return
	}
	eligible := false
	err := h.lobbies.Mutate(l.ID, func(l *lobby.Lobby) error {
		if l.Status != lobby.GameOver {
			return apperrors.New(apperrors.InvalidCommand, "lobby %s is not in game-over state", l.ID)
		}
		l.TogglePlayAgain(pid, payload.Ready)
		eligible = l.PlayAgainState.Eligible()
		if eligible {
			l.BackToWaiting()
			for _, p := range l.PlayerOrder {
				l.Ready[p] = true
			}
		}
		return nil
	})
	if err != nil {
		h.sendError(client, err)
		return
	}
	h.broadcastLobbyDetails(l)
	if eligible {
		if err := h.startGame(l); err != nil {
			h.sendError(client, err)
		}
	}
}

func (h *Handler) handleInGameCommand(client ids.ClientId, data json.RawMessage) {
	var payload wire.InGameCommandPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		h.sendError(client, apperrors.Wrap(apperrors.DecodeFailure, err, "decoding inGameCommand payload"))
		return
	}
	h.mu.Lock()
	as, ok := h.sessions[ids.SessionId(payload.SessionId)]
	h.mu.Unlock()
	if !ok {
		// Silently dropped: spec.md 4.8 says forwarded "if and only if
		// sender is a participant of that session"; an unknown session is
		// the same non-membership case.
		return
	}
	pid, ok := as.playerOf[client]
	if !ok {
		return
	}
	cmd := session.Command{Client: client, Player: pid, Payload: payload.Payload}
	select {
	case as.handle.Commands <- cmd:
	default:
		h.log.Warn().Str("client_id", string(client)).Msg("session command queue full, dropping command")
	}
}

// handleWatchReplay loads a saved replay file and starts an interactive
// replaysession.Session for the requesting client (spec.md 4.11). The
// requester becomes the replay's host and its only controller (spec.md
// 4.11's "host-only control" mode -- DESIGN.md records that this server
// always opens replays in host-only mode, since the wire protocol has no
// separate "shared control" request shape).
func (h *Handler) handleWatchReplay(client ids.ClientId, data json.RawMessage) {
	var payload wire.WatchReplayPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		h.sendError(client, apperrors.Wrap(apperrors.DecodeFailure, err, "decoding watchReplay payload"))
		return
	}
	path := filepath.Join(h.cfg.Replays.Location, filepath.Base(payload.Filename))
	r, err := replay.Load(path)
	if err != nil {
		h.sendError(client, err)
		return
	}
	rs, err := replaysession.New(h.bcast, []ids.ClientId{client}, r)
	if err != nil {
		h.sendError(client, apperrors.Wrap(apperrors.ReplayCorrupt, err, "rebuilding replay %s", payload.Filename))
		return
	}

	sessionID := ids.NewSessionId()
	ctx, cancel := context.WithCancel(h.baseCtx)

	h.mu.Lock()
	h.replays[sessionID] = &activeReplay{session: rs, cancel: cancel, owner: client}
	h.mu.Unlock()

	go func() {
		rs.Run(ctx)
		h.mu.Lock()
		delete(h.replays, sessionID)
		h.mu.Unlock()
	}()

	h.bcast.Send(client, wire.ServerMessage{Type: wire.TypeReplayStarted, Data: wire.ReplayStartedPayload{SessionId: string(sessionID)}})
}

// handleInReplayCommand dispatches a playback control command to an open
// replaysession.Session, rejecting every sender but the session's owner
// (spec.md 4.11's host-only control).
func (h *Handler) handleInReplayCommand(client ids.ClientId, data json.RawMessage) {
	var payload wire.InReplayCommandPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		h.sendError(client, apperrors.Wrap(apperrors.DecodeFailure, err, "decoding inReplayCommand payload"))
		return
	}
	h.mu.Lock()
	ar, ok := h.replays[ids.SessionId(payload.SessionId)]
	h.mu.Unlock()
	if !ok {
		return
	}
	if ar.owner != client {
		h.sendError(client, apperrors.New(apperrors.InvalidCommand, "only the replay's host may control playback"))
		return
	}

	switch payload.Kind {
	case wire.ReplayPause:
		ar.session.Pause()
	case wire.ReplayResume:
		ar.session.Resume()
	case wire.ReplaySetSpeed:
		ar.session.SetSpeed(payload.Speed)
	case wire.ReplayStepForward:
		ar.session.StepForward()
	case wire.ReplayRestart:
		if err := ar.session.Restart(); err != nil {
			h.sendError(client, err)
		}
	default:
		h.sendError(client, apperrors.New(apperrors.InvalidCommand, "unknown replay command %q", payload.Kind))
	}
}

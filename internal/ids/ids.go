// Package ids defines the opaque, value-typed identifier wrappers used
// throughout the runtime: ClientId, PlayerId, BotId, LobbyId and SessionId.
// Each is a thin string wrapper so values are comparable, hashable as map
// keys, and cannot be mixed up across identifier kinds by the compiler.
package ids

import "github.com/google/uuid"

// ClientId identifies a single transport-level connection.
type ClientId string

// PlayerId identifies a seat at a lobby/session, human or bot-backed.
type PlayerId string

// BotId identifies a bot occupying a player seat. BotId -> PlayerId is a
// total, injective mapping: every bot has exactly one player identity and
// no two bots share one.
type BotId string

// LobbyId identifies a lobby.
type LobbyId string

// SessionId identifies a running game session.
type SessionId string

// NewClientId mints a fresh random client identifier.
func NewClientId() ClientId { return ClientId(uuid.NewString()) }

// NewPlayerId mints a fresh random player identifier.
func NewPlayerId() PlayerId { return PlayerId(uuid.NewString()) }

// NewBotId mints a fresh random bot identifier.
func NewBotId() BotId { return BotId(uuid.NewString()) }

// NewLobbyId mints a fresh random lobby identifier.
func NewLobbyId() LobbyId { return LobbyId(uuid.NewString()) }

// NewSessionId mints a fresh random session identifier.
func NewSessionId() SessionId { return SessionId(uuid.NewString()) }

// AsPlayerId reinterprets a BotId as the PlayerId of the seat it occupies.
// Bot player identities are minted as regular PlayerIds when the bot is
// added to a lobby; this helper documents the relationship at call sites
// that bridge the two spaces.
func AsPlayerId(id BotId) PlayerId { return PlayerId(id) }

// Package wire encodes and decodes the Replay container to the wire format
// named in spec.md 4.3: a protocol-buffer-encoded message, hand-assembled
// with google.golang.org/protobuf's low-level protowire primitives so the
// repository stays on the real protobuf module without requiring a protoc
// code-generation step for a schema this small.
//
// Field layout (proto3 semantics, all fields implicit-presence):
//
//	Header:
//	  1 string  engine_version
//	  2 int64   start_timestamp_ms
//	  3 int32   game
//	  4 uint64  seed
//	  5 bytes   lobby_settings
//	  6 repeated RosterEntry roster
//	RosterEntry:
//	  1 string player_id
//	  2 bool   is_bot
//	  3 int32  bot_policy
//	Replay:
//	  1 Header header
//	  2 repeated PlayerAction actions
//	PlayerAction:
//	  1 int64  tick
//	  2 int32  player_index
//	  3 bool   disconnected
//	  4 bytes  command_payload
package wire

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/lab1702/minigames-server/internal/ids"
	"github.com/lab1702/minigames-server/internal/replay"
)

// Marshal encodes a Replay to its protobuf wire bytes (without the leading
// file-format version byte; see the replay package for that).
func Marshal(r replay.Replay) []byte {
	var b []byte
	b = appendEmbedded(b, 1, marshalHeader(r.Header))
	for _, a := range r.Actions {
		b = appendEmbedded(b, 2, marshalAction(a))
	}
	return b
}

func marshalHeader(h replay.Header) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, h.EngineVersion)
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(h.StartTimestampMs))
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(h.Game))
	b = protowire.AppendTag(b, 4, protowire.VarintType)
	b = protowire.AppendVarint(b, h.Seed)
	b = protowire.AppendTag(b, 5, protowire.BytesType)
	b = protowire.AppendBytes(b, h.LobbySettings)
	for _, entry := range h.Roster {
		b = appendEmbedded(b, 6, marshalRosterEntry(entry))
	}
	return b
}

func marshalRosterEntry(e replay.RosterEntry) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendString(b, string(e.PlayerID))
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, boolVarint(e.IsBot))
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(uint32(e.BotPolicy)))
	return b
}

func marshalAction(a replay.PlayerAction) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(a.Tick))
	b = protowire.AppendTag(b, 2, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(uint32(a.PlayerIndex)))
	b = protowire.AppendTag(b, 3, protowire.VarintType)
	b = protowire.AppendVarint(b, boolVarint(a.Disconnected))
	if len(a.CommandPayload) > 0 {
		b = protowire.AppendTag(b, 4, protowire.BytesType)
		b = protowire.AppendBytes(b, a.CommandPayload)
	}
	return b
}

func appendEmbedded(b []byte, field protowire.Number, payload []byte) []byte {
	b = protowire.AppendTag(b, field, protowire.BytesType)
	return protowire.AppendBytes(b, payload)
}

func boolVarint(v bool) uint64 {
	if v {
		return 1
	}
	return 0
}

// Unmarshal decodes protobuf wire bytes (sans the leading format version
// byte) into a Replay.
func Unmarshal(data []byte) (replay.Replay, error) {
	var out replay.Replay
	var sawHeader bool
	b := data
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return out, fmt.Errorf("replay/wire: bad tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			payload, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, fmt.Errorf("replay/wire: bad header bytes: %w", protowire.ParseError(m))
			}
			b = b[m:]
			h, err := unmarshalHeader(payload)
			if err != nil {
				return out, err
			}
			out.Header = h
			sawHeader = true
		case num == 2 && typ == protowire.BytesType:
			payload, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return out, fmt.Errorf("replay/wire: bad action bytes: %w", protowire.ParseError(m))
			}
			b = b[m:]
			a, err := unmarshalAction(payload)
			if err != nil {
				return out, err
			}
			out.Actions = append(out.Actions, a)
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return out, fmt.Errorf("replay/wire: bad field: %w", protowire.ParseError(m))
			}
			b = b[m:]
		}
	}
	if !sawHeader {
		return out, fmt.Errorf("replay/wire: missing header")
	}
	return out, nil
}

func unmarshalHeader(data []byte) (replay.Header, error) {
	var h replay.Header
	b := data
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return h, fmt.Errorf("replay/wire: bad header tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return h, fmt.Errorf("replay/wire: bad engine_version: %w", protowire.ParseError(m))
			}
			h.EngineVersion = v
			b = b[m:]
		case num == 2 && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return h, fmt.Errorf("replay/wire: bad start_timestamp_ms: %w", protowire.ParseError(m))
			}
			h.StartTimestampMs = int64(v)
			b = b[m:]
		case num == 3 && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return h, fmt.Errorf("replay/wire: bad game: %w", protowire.ParseError(m))
			}
			h.Game = replay.GameType(v)
			b = b[m:]
		case num == 4 && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return h, fmt.Errorf("replay/wire: bad seed: %w", protowire.ParseError(m))
			}
			h.Seed = v
			b = b[m:]
		case num == 5 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return h, fmt.Errorf("replay/wire: bad lobby_settings: %w", protowire.ParseError(m))
			}
			h.LobbySettings = append([]byte(nil), v...)
			b = b[m:]
		case num == 6 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return h, fmt.Errorf("replay/wire: bad roster entry: %w", protowire.ParseError(m))
			}
			entry, err := unmarshalRosterEntry(v)
			if err != nil {
				return h, err
			}
			h.Roster = append(h.Roster, entry)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return h, fmt.Errorf("replay/wire: bad header field: %w", protowire.ParseError(m))
			}
			b = b[m:]
		}
	}
	return h, nil
}

func unmarshalRosterEntry(data []byte) (replay.RosterEntry, error) {
	var e replay.RosterEntry
	b := data
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return e, fmt.Errorf("replay/wire: bad roster tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.BytesType:
			v, m := protowire.ConsumeString(b)
			if m < 0 {
				return e, fmt.Errorf("replay/wire: bad player_id: %w", protowire.ParseError(m))
			}
			e.PlayerID = ids.PlayerId(v)
			b = b[m:]
		case num == 2 && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return e, fmt.Errorf("replay/wire: bad is_bot: %w", protowire.ParseError(m))
			}
			e.IsBot = v != 0
			b = b[m:]
		case num == 3 && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return e, fmt.Errorf("replay/wire: bad bot_policy: %w", protowire.ParseError(m))
			}
			e.BotPolicy = int32(uint32(v))
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return e, fmt.Errorf("replay/wire: bad roster field: %w", protowire.ParseError(m))
			}
			b = b[m:]
		}
	}
	return e, nil
}

func unmarshalAction(data []byte) (replay.PlayerAction, error) {
	var a replay.PlayerAction
	b := data
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return a, fmt.Errorf("replay/wire: bad action tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		switch {
		case num == 1 && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return a, fmt.Errorf("replay/wire: bad tick: %w", protowire.ParseError(m))
			}
			a.Tick = int64(v)
			b = b[m:]
		case num == 2 && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return a, fmt.Errorf("replay/wire: bad player_index: %w", protowire.ParseError(m))
			}
			a.PlayerIndex = int32(uint32(v))
			b = b[m:]
		case num == 3 && typ == protowire.VarintType:
			v, m := protowire.ConsumeVarint(b)
			if m < 0 {
				return a, fmt.Errorf("replay/wire: bad disconnected: %w", protowire.ParseError(m))
			}
			a.Disconnected = v != 0
			b = b[m:]
		case num == 4 && typ == protowire.BytesType:
			v, m := protowire.ConsumeBytes(b)
			if m < 0 {
				return a, fmt.Errorf("replay/wire: bad command_payload: %w", protowire.ParseError(m))
			}
			a.CommandPayload = append([]byte(nil), v...)
			b = b[m:]
		default:
			m := protowire.ConsumeFieldValue(num, typ, b)
			if m < 0 {
				return a, fmt.Errorf("replay/wire: bad action field: %w", protowire.ParseError(m))
			}
			b = b[m:]
		}
	}
	return a, nil
}

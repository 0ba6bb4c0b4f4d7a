// Package apperrors defines the error kinds shared across the runtime
// (spec.md 7) and a typed wrapper that the message handler maps onto wire
// ServerMessage error codes without resorting to string matching.
package apperrors

import (
	"errors"
	"fmt"
)

// Kind enumerates the error taxonomy from spec.md 7.
type Kind int

const (
	Internal Kind = iota
	TransportClosed
	DecodeFailure
	DuplicateClient
	LobbyNotFound
	LobbyFull
	NotInLobby
	NotYourTurn
	InvalidCommand
	InvalidSettings
	SessionNotFound
	ReplayCorrupt
	ReplayUnsupportedVersion
	IoFailure
)

func (k Kind) String() string {
	switch k {
	case TransportClosed:
		return "TransportClosed"
	case DecodeFailure:
		return "DecodeFailure"
	case DuplicateClient:
		return "DuplicateClient"
	case LobbyNotFound:
		return "LobbyNotFound"
	case LobbyFull:
		return "LobbyFull"
	case NotInLobby:
		return "NotInLobby"
	case NotYourTurn:
		return "NotYourTurn"
	case InvalidCommand:
		return "InvalidCommand"
	case InvalidSettings:
		return "InvalidSettings"
	case SessionNotFound:
		return "SessionNotFound"
	case ReplayCorrupt:
		return "ReplayCorrupt"
	case ReplayUnsupportedVersion:
		return "ReplayUnsupportedVersion"
	case IoFailure:
		return "IoFailure"
	default:
		return "Internal"
	}
}

// Error is the concrete error type raised across package boundaries. It
// carries a Kind for classification plus an optional wrapped cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// New builds an *Error of the given Kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an *Error of the given Kind around an existing cause.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// KindOf extracts the Kind of err if it is (or wraps) an *Error, defaulting
// to Internal otherwise.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

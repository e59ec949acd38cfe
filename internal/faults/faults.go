// Package faults defines the failure categories surfaced by the transfer
// pipeline. Every component returns one of these kinds so that callers can
// distinguish a bad configuration from a flaky node from a user abort
// without string matching.
package faults

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a pipeline failure.
type Kind uint8

const (
	// Unknown is the zero value and never set explicitly.
	Unknown Kind = iota

	// Configuration covers unknown chains and tokens unavailable on a
	// chain. Detected before any network call.
	Configuration

	// Network covers any RPC failure (nonce, gas, estimate, broadcast).
	Network

	// Validation covers malformed addresses, non-positive amounts,
	// self-transfers and insufficient balance. Detected before a signing
	// hash is ever computed.
	Validation

	// Cryptographic covers signature failures such as no matching
	// recovery id. Always fatal to the current attempt.
	Cryptographic

	// Cancelled covers a user or caller aborting the card interaction.
	// A normal abort, not a system fault.
	Cancelled
)

func (k Kind) String() string {
	switch k {
	case Configuration:
		return "configuration"
	case Network:
		return "network"
	case Validation:
		return "validation"
	case Cryptographic:
		return "cryptographic"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Error carries the failure kind together with the operation that produced
// it and the underlying cause.
type Error struct {
	Kind Kind
	Op   string // originating operation, e.g. "node.PendingNonce"
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E wraps err with a kind and the originating operation. A nil err yields nil.
func E(kind Kind, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Op: op, Err: err}
}

// Errorf builds a new classified error from a format string.
func Errorf(kind Kind, op string, format string, args ...interface{}) error {
	return &Error{Kind: kind, Op: op, Err: errors.Errorf(format, args...)}
}

// KindOf reports the kind of the outermost classified error in err's chain,
// or Unknown if none is present.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return Unknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

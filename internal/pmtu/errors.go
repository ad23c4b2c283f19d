package pmtu

import (
	"errors"
	"fmt"
)

// Kind classifies why a discovery attempt failed.
type Kind int

const (
	KindUnknown Kind = iota
	KindArgument
	KindPacketBuild
	KindTransportOpen
	KindSend
	KindReceive
	KindLoopLimit
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindArgument:
		return "invalid argument"
	case KindPacketBuild:
		return "packet build error"
	case KindTransportOpen:
		return "transport open error"
	case KindSend:
		return "send error"
	case KindReceive:
		return "receive error"
	case KindLoopLimit:
		return "loop limit exceeded"
	default:
		return "unknown error"
	}
}

// Error is the error returned by every failing operation in this package.
// All kinds are terminal; none of them is retried.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

// Sentinels for use with errors.Is.
var (
	ErrArgument      = &Error{Kind: KindArgument}
	ErrPacketBuild   = &Error{Kind: KindPacketBuild}
	ErrTransportOpen = &Error{Kind: KindTransportOpen}
	ErrSend          = &Error{Kind: KindSend}
	ErrReceive       = &Error{Kind: KindReceive}
	ErrLoopLimit     = &Error{Kind: KindLoopLimit}
)

// errNoReply is reported when the transport returns without a datagram.
var errNoReply = errors.New("no ICMP datagram received")

func (e *Error) Error() string {
	if e.Err == nil {
		if e.Op == "" {
			return e.Kind.String()
		}
		return fmt.Sprintf("failed to %s: %s", e.Op, e.Kind)
	}
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches sentinels by kind only.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Op != "" || t.Err != nil {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

func newError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

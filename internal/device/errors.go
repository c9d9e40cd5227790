package device

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a device failure.
type ErrorKind int

const (
	// KindNative means the accelerator runtime reported a failure.
	KindNative ErrorKind = iota
	// KindUnsupported means the compiled backend has no such capability.
	KindUnsupported
	// KindUnavailable means no accelerator backend is compiled in.
	KindUnavailable
)

func (k ErrorKind) String() string {
	switch k {
	case KindNative:
		return "native"
	case KindUnsupported:
		return "unsupported"
	case KindUnavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

var (
	ErrNative       = errors.New("device runtime error")
	ErrUnsupported  = errors.New("unsupported function for backend")
	ErrNotAvailable = errors.New("device support not available")
	ErrNilQueue     = errors.New("queue is nil")
)

// Error is the single failure type returned by every device operation.
type Error struct {
	Op      string
	Backend string
	Kind    ErrorKind
	// Code is the native status for KindNative errors.
	Code Status
	Msg  string
}

func (e *Error) Error() string {
	if e.Kind == KindNative {
		return fmt.Sprintf("%s: %s (%s status %d)", e.Op, e.Msg, e.Backend, int(e.Code))
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Msg)
}

// Is matches the package sentinels by kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNative:
		return e.Kind == KindNative
	case ErrUnsupported:
		return e.Kind == KindUnsupported
	case ErrNotAvailable:
		return e.Kind == KindUnavailable
	}
	return false
}

// KindOf reports the kind of a device error. ok is false when err does not
// wrap an *Error.
func KindOf(err error) (kind ErrorKind, ok bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}

func unsupported(backend, op string) error {
	return &Error{
		Op:      op,
		Backend: backend,
		Kind:    KindUnsupported,
		Msg:     fmt.Sprintf("unsupported function for %s backend", backend),
	}
}

func unavailable(op, msg string) error {
	return &Error{Op: op, Backend: noneName, Kind: KindUnavailable, Msg: msg}
}

// statusReporter is the part of a runtime binding needed to describe a status.
type statusReporter interface {
	Name() string
	ErrorString(Status) string
}

// checkStatus turns the result of a just-completed native call into an error.
func checkStatus(rt statusReporter, op string, st Status) error {
	if st == StatusSuccess {
		return nil
	}
	return &Error{
		Op:      op,
		Backend: rt.Name(),
		Kind:    KindNative,
		Code:    st,
		Msg:     rt.ErrorString(st),
	}
}

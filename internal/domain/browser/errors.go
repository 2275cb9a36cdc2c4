package browser

import (
	"errors"
	"fmt"
)

var (
	ErrConnectionFailure = errors.New("browser connection failed")
	ErrNoActiveSession   = errors.New("browser not connected")
	ErrUnknownSite       = errors.New("unsupported AI site")
	ErrInputNotFound     = errors.New("could not find input element")
	ErrAlreadyConnected  = errors.New("browser already connected")
)

// Kind classifies a failure so callers can branch without string matching.
type Kind int

const (
	KindTransport Kind = iota
	KindConnection
	KindNoActiveSession
	KindUnknownSite
	KindInputNotFound
	KindAlreadyConnected
)

// String returns the wire name of the kind.
func (k Kind) String() string {
	switch k {
	case KindConnection:
		return "connection_failure"
	case KindNoActiveSession:
		return "no_active_session"
	case KindUnknownSite:
		return "unknown_site"
	case KindInputNotFound:
		return "input_not_found"
	case KindAlreadyConnected:
		return "already_connected"
	default:
		return "transport"
	}
}

// ClientError reports whether the kind is caused by the caller rather than
// by the browser or the target site.
func (k Kind) ClientError() bool {
	return k == KindNoActiveSession || k == KindUnknownSite || k == KindAlreadyConnected
}

func (k Kind) sentinel() error {
	switch k {
	case KindConnection:
		return ErrConnectionFailure
	case KindNoActiveSession:
		return ErrNoActiveSession
	case KindUnknownSite:
		return ErrUnknownSite
	case KindInputNotFound:
		return ErrInputNotFound
	case KindAlreadyConnected:
		return ErrAlreadyConnected
	}
	return nil
}

// Error carries the failure kind together with the operation and site involved.
type Error struct {
	Kind Kind
	Op   string
	Site string
	Err  error
}

// NewError wraps err with kind and operation context.
func NewError(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	msg := e.Op
	if e.Site != "" {
		msg += " " + e.Site
	}
	if s := e.Kind.sentinel(); s != nil && (e.Err == nil || !errors.Is(e.Err, s)) {
		msg += ": " + s.Error()
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the sentinel that corresponds to the error's kind.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// WithSite returns a copy of the error annotated with a site id.
func (e *Error) WithSite(site string) *Error {
	c := *e
	c.Site = site
	return &c
}

// KindOf returns the kind of err. Unclassified errors are KindTransport.
func KindOf(err error) Kind {
	if err == nil {
		return KindTransport
	}
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	switch {
	case errors.Is(err, ErrConnectionFailure):
		return KindConnection
	case errors.Is(err, ErrNoActiveSession):
		return KindNoActiveSession
	case errors.Is(err, ErrUnknownSite):
		return KindUnknownSite
	case errors.Is(err, ErrInputNotFound):
		return KindInputNotFound
	case errors.Is(err, ErrAlreadyConnected):
		return KindAlreadyConnected
	}
	return KindTransport
}

// UnknownSite builds the error returned for a site id missing from the registry.
func UnknownSite(op, site string) *Error {
	return &Error{Kind: KindUnknownSite, Op: op, Site: site}
}

// NoActiveSession builds the error returned when no session is connected.
func NoActiveSession(op string) *Error {
	return &Error{Kind: KindNoActiveSession, Op: op}
}

// Errorf wraps a formatted transport error with op context.
func Errorf(op string, format string, args ...interface{}) *Error {
	return &Error{Kind: KindTransport, Op: op, Err: fmt.Errorf(format, args...)}
}

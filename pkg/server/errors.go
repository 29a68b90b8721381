package server

import (
	stderrors "errors"
	"net/http"

	"github.com/vango-dev/vtree/internal/errors"
)

var (
	ErrSessionNotFound = stderrors.New("session not found")
	ErrSessionClosed   = stderrors.New("session closed")
	ErrSessionExists   = stderrors.New("session id already in use")
)

// opError ties a failure to the session and the operation that hit it.
type opError struct {
	session string
	op      string
	err     error
}

func opFailed(session, op string, err error) error {
	return &opError{session: session, op: op, err: err}
}

func (e *opError) Error() string {
	if e.session == "" {
		return e.op + ": " + e.err.Error()
	}
	return e.op + " " + e.session + ": " + e.err.Error()
}

func (e *opError) Unwrap() error { return e.err }

// statusFor maps an error from a session or request path to the HTTP
// status it is served with.
func statusFor(err error) int {
	switch {
	case stderrors.Is(err, ErrSessionNotFound):
		return http.StatusNotFound
	case stderrors.Is(err, ErrSessionExists):
		return http.StatusConflict
	case stderrors.Is(err, ErrSessionClosed):
		return http.StatusGone
	case stderrors.Is(err, errors.New("E161")):
		return http.StatusRequestEntityTooLarge
	case stderrors.Is(err, errors.New("E100")),
		stderrors.Is(err, errors.New("E101")),
		stderrors.Is(err, errors.New("E160")):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// internal/app/features/errors/logger.go
package errors

import (
	"context"
	stderrors "errors"
	"net/http"

	"github.com/dalemusser/pujahub/internal/app/docstore"
	"github.com/dalemusser/pujahub/internal/app/policy/pujapolicy"
	clubstore "github.com/dalemusser/pujahub/internal/app/store/clubs"
	memberstore "github.com/dalemusser/pujahub/internal/app/store/members"
	recordstore "github.com/dalemusser/pujahub/internal/app/store/records"
	registrationstore "github.com/dalemusser/pujahub/internal/app/store/registrations"
	"github.com/dalemusser/pujahub/internal/app/system/inputval"
	"go.uber.org/zap"
)

// ErrorLogger logs a failure and writes the matching JSON response in one
// call.
type ErrorLogger struct {
	Log *zap.Logger
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// LogServerError logs err at error level and writes a 500 with userMsg.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.Log.Error(msg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
	WriteError(w, http.StatusInternalServerError, userMsg)
}

// LogBadRequest logs err at warn level and writes a 400 with userMsg.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.Log.Warn(msg,
		zap.Error(err),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
	WriteError(w, http.StatusBadRequest, userMsg)
}

// conflicts are domain refusals whose message is safe to show as is.
var conflicts = []error{
	memberstore.ErrDuplicateEmail,
	memberstore.ErrDuplicateContact,
	clubstore.ErrDuplicateEmail,
	registrationstore.ErrAlreadyMember,
	registrationstore.ErrAlreadyPending,
	registrationstore.ErrNotPending,
	pujapolicy.ErrInvalidTransition,
}

// Respond maps err to a status. Validation failures carry their field
// messages; anything unrecognised is logged and reported as
// "Failed to <action>".
func (e *ErrorLogger) Respond(w http.ResponseWriter, r *http.Request, action string, err error) {
	var verr *inputval.Error
	switch {
	case stderrors.As(err, &verr):
		WriteJSON(w, http.StatusBadRequest, map[string]any{
			"error":  verr.First(),
			"fields": verr.Map(),
		})
		return
	case stderrors.Is(err, docstore.ErrNotFound):
		WriteError(w, http.StatusNotFound, "Not found")
		return
	case stderrors.Is(err, pujapolicy.ErrForbidden):
		WriteError(w, http.StatusForbidden, err.Error())
		return
	case stderrors.Is(err, pujapolicy.ErrInvalidStatus),
		stderrors.Is(err, recordstore.ErrNoPuja),
		stderrors.Is(err, docstore.ErrBadCollection):
		WriteError(w, http.StatusBadRequest, err.Error())
		return
	case stderrors.Is(err, memberstore.ErrInvalidCredentials),
		stderrors.Is(err, clubstore.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, err.Error())
		return
	case stderrors.Is(err, context.DeadlineExceeded):
		e.Log.Warn("request timed out", zap.String("action", action), zap.String("path", r.URL.Path))
		WriteError(w, http.StatusGatewayTimeout, "Failed to "+action+": timed out")
		return
	}
	for _, c := range conflicts {
		if stderrors.Is(err, c) {
			WriteError(w, http.StatusConflict, c.Error())
			return
		}
	}
	e.LogServerError(w, r, action+" failed", err, "Failed to "+action)
}

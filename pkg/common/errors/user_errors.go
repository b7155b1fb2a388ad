// pkg/common/errors/user_errors.go

/*
  - Usage
    Errors of ErrorTypePublic carry a message that may be shown to the end user
    verbatim (the registration wizard banner does exactly that). Everything else
    is private and must be replaced by a generic message before leaving the server.

    if msg, ok := errors.PublicMessage(err); ok {
    // safe to render msg
    }
*/
package errors

import (
	"errors"
	"strings"

	hzte "github.com/cloudwego/hertz/pkg/common/errors"

	"workbuddy-store/pkg/common/i18n"
)

// Storage level errors, never shown to users.
var (
	ErrUserNotFound     = hzte.New(errors.New("user not found"), hzte.ErrorTypePrivate, nil)
	ErrDuplicateEntry   = hzte.New(errors.New("duplicate user entry"), hzte.ErrorTypePrivate, nil)
	ErrDatabaseInternal = hzte.New(errors.New("database internal error"), hzte.ErrorTypePrivate, nil)
)

// User facing errors.
var (
	ErrEmailTaken         = newPublic(i18n.EmailTaken)
	ErrAccountNotVerified = newPublic(i18n.AccountNotVerified)
	ErrCodeMismatch       = newPublic(i18n.CodeMismatch)
	ErrCodeExpired        = newPublic(i18n.CodeExpired)
	ErrTooManyAttempts    = newPublic(i18n.TooManyAttempts)
	ErrInvalidCredentials = newPublic(i18n.InvalidCredentials)
	ErrInvalidInput       = newPublic(i18n.InvalidInput)
)

func newPublic(key i18n.Key) *hzte.Error {
	return hzte.New(errors.New(i18n.Default.T(key)), hzte.ErrorTypePublic, key)
}

// NewUserNotFound attaches lookup metadata to ErrUserNotFound.
func NewUserNotFound(meta interface{}) *hzte.Error {
	return hzte.New(ErrUserNotFound, hzte.ErrorTypePrivate, meta)
}

// NewDuplicateEntry attaches metadata to ErrDuplicateEntry.
func NewDuplicateEntry(meta interface{}) *hzte.Error {
	return hzte.New(ErrDuplicateEntry, hzte.ErrorTypePrivate, meta)
}

// NewInvalidInput reports rejected input fields. The message lists the
// field names so API clients can point at them.
func NewInvalidInput(fields ...string) *hzte.Error {
	msg := ErrInvalidInput.Error()
	if len(fields) > 0 {
		msg += ": " + strings.Join(fields, ", ")
	}
	return hzte.New(&invalidInput{msg: msg}, hzte.ErrorTypePublic, fields)
}

type invalidInput struct{ msg string }

func (e *invalidInput) Error() string { return e.msg }

func (e *invalidInput) Is(target error) bool { return target == ErrInvalidInput }

// publicMessager is implemented by collaborator errors that carry their own
// user-facing text, for example errors decoded from a remote identity API.
type publicMessager interface {
	PublicMessage() string
}

// PublicMessage extracts the user-facing message of err, if it has one.
func PublicMessage(err error) (string, bool) {
	if err == nil {
		return "", false
	}
	var pm publicMessager
	if errors.As(err, &pm) {
		if msg := pm.PublicMessage(); msg != "" {
			return msg, true
		}
	}
	var herr *hzte.Error
	if errors.As(err, &herr) && herr.IsType(hzte.ErrorTypePublic) {
		if msg := herr.Error(); msg != "" {
			return msg, true
		}
	}
	return "", false
}

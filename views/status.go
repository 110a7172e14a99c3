// Package views holds the view-models behind the tmsctl commands: login and registration,
// the tenant dashboard and the account page. Each action reports a Status scoped to the
// section that triggered it, so one failing section never blocks another.
package views

import (
	"fmt"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog"
)

type StatusKind string

const (
	StatusInfo    StatusKind = "info"
	StatusSuccess StatusKind = "success"
	StatusError   StatusKind = "error"
)

// Status is a dismissable inline banner. The zero value shows nothing.
type Status struct {
	Kind    StatusKind `json:"kind,omitempty"`
	Message string     `json:"message,omitempty"`
}

func Info(format string, args ...any) Status {
	return Status{Kind: StatusInfo, Message: fmt.Sprintf(format, args...)}
}

func Success(format string, args ...any) Status {
	return Status{Kind: StatusSuccess, Message: fmt.Sprintf(format, args...)}
}

// Failure shows the innermost message of err; the wrapping context goes to the log.
func Failure(err error) Status {
	if err == nil {
		return Status{}
	}
	return Status{Kind: StatusError, Message: pkgerrors.Cause(err).Error()}
}

func (s Status) IsError() bool {
	return s.Kind == StatusError
}

func (s Status) Empty() bool {
	return s.Kind == "" && s.Message == ""
}

func (s Status) String() string {
	if s.Empty() {
		return ""
	}
	return fmt.Sprintf("[%s] %s", s.Kind, s.Message)
}

type base struct {
	log zerolog.Logger
}

// Option configures any view.
type Option func(*base)

func WithLogger(log zerolog.Logger) Option {
	return func(b *base) {
		b.log = log
	}
}

func newBase(options []Option) base {
	b := base{log: zerolog.Nop()}
	for _, opt := range options {
		opt(&b)
	}
	return b
}

// fail logs err with its context and turns it into a banner.
func (b base) fail(err error, action string) Status {
	b.log.Debug().Err(err).Str("action", action).Msg("view action failed")
	return Failure(err)
}

// Package faults carries the user-facing error taxonomy: every error that may
// cross the orchestration boundary is classified as a rejection, configuration,
// formatting, or persistence fault. The user message is safe to display;
// internal detail stays in logs.
package faults

import (
	"errors"
	"log/slog"
)

type Kind string

const (
	KindRejection     Kind = "rejection"
	KindConfiguration Kind = "configuration"
	KindFormatting    Kind = "formatting"
	KindPersistence   Kind = "persistence"
)

// Fault pairs a display-safe message with internal diagnostic detail.
type Fault struct {
	Kind        Kind
	UserMessage string
	Detail      string
	Err         error
}

func (f *Fault) Error() string {
	return f.UserMessage
}

func (f *Fault) Unwrap() error {
	return f.Err
}

// LogValue encodes the fault as structured fields, detail included.
func (f *Fault) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("kind", string(f.Kind)),
		slog.String("user_message", f.UserMessage),
	}
	if f.Detail != "" {
		attrs = append(attrs, slog.String("detail", f.Detail))
	}
	if f.Err != nil {
		attrs = append(attrs, slog.String("cause", f.Err.Error()))
	}
	return slog.GroupValue(attrs...)
}

func Rejection(userMessage string) error {
	return &Fault{Kind: KindRejection, UserMessage: userMessage}
}

func Configuration(userMessage string) error {
	return &Fault{Kind: KindConfiguration, UserMessage: userMessage}
}

func Formatting(userMessage string, detail string, err error) error {
	return &Fault{Kind: KindFormatting, UserMessage: userMessage, Detail: detail, Err: err}
}

func Persistence(userMessage string, detail string, err error) error {
	return &Fault{Kind: KindPersistence, UserMessage: userMessage, Detail: detail, Err: err}
}

// KindOf reports the fault kind, if err carries one.
func KindOf(err error) (Kind, bool) {
	var f *Fault
	if errors.As(err, &f) {
		return f.Kind, true
	}
	return "", false
}

// UserMessage returns the display-safe message for err, falling back to a
// generic retry suggestion for unclassified errors.
func UserMessage(err error) string {
	var f *Fault
	if errors.As(err, &f) {
		return f.UserMessage
	}
	return "Something went wrong. Please try again."
}

// Detail returns the internal diagnostic text, empty when none was recorded.
func Detail(err error) string {
	var f *Fault
	if errors.As(err, &f) {
		return f.Detail
	}
	return ""
}

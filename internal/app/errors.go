package app

import (
	"errors"
	"fmt"
)

// Kind labels the pipeline stage an error escaped from.
type Kind string

const (
	KindConfig     Kind = "config"
	KindFetch      Kind = "fetch"
	KindClassify   Kind = "classify"
	KindSynthesize Kind = "synthesize"
	KindRender     Kind = "render"
)

// Error wraps a stage failure so callers can tell which part of the
// pipeline gave up without parsing messages.
type Error struct {
	Kind  Kind
	Stage string
	Err   error
}

func (e *Error) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Stage, e.Err)
	}
	return fmt.Sprintf("[%s] %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, stage string, err error) *Error {
	return &Error{Kind: kind, Stage: stage, Err: err}
}

func ConfigError(stage string, err error) *Error     { return newError(KindConfig, stage, err) }
func FetchError(stage string, err error) *Error      { return newError(KindFetch, stage, err) }
func ClassifyError(stage string, err error) *Error   { return newError(KindClassify, stage, err) }
func SynthesizeError(stage string, err error) *Error { return newError(KindSynthesize, stage, err) }
func RenderError(stage string, err error) *Error     { return newError(KindRender, stage, err) }

// KindOf extracts the stage kind from an error chain, empty for untyped
// errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

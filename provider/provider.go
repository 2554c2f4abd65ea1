// Package provider abstracts the external translation service. One
// request carries everything a single (document, target locale) unit
// needs; the result is applied atomically or not at all — a failed call
// reports a single error and never a partial translation.
package provider

import (
	"context"
	"fmt"
)

// FieldPair is one translatable front matter field. Order matters: the
// service returns values matched by key, but prompts present fields in
// document order.
type FieldPair struct {
	Key   string
	Value string
}

// Request is one translation unit of work.
type Request struct {
	// SourceLang and TargetLang are locale codes.
	SourceLang string
	TargetLang string
	// Fields are the translatable front matter fields in document order.
	Fields []FieldPair
	// Body is the Markdown body text.
	Body string
	// Instruction, if non-empty, overrides the default system prompt.
	Instruction string
}

// Result is a completed translation. Fields holds the translated subset
// keyed by field name; keys the service did not return keep their source
// value at the call site.
type Result struct {
	Fields map[string]string `json:"fields"`
	Body   string            `json:"body"`
}

// Provider is a translation backend.
type Provider interface {
	Translate(ctx context.Context, req Request) (Result, error)
}

// Error is a provider failure. Retryable marks transient conditions
// (rate limits, timeouts, 5xx) that a bounded backoff may recover from.
type Error struct {
	Message   string
	Cause     error
	Retryable bool
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("provider: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("provider: %s", e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

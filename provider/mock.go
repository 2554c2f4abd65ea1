package provider

import (
	"context"
	"fmt"
	"sync"
)

// Mock is a deterministic in-process Provider for tests. Unless an exact
// translation is registered, values come back bracketed with the target
// locale ("[ru] Hello"), which makes assertions on routing trivial.
type Mock struct {
	mu sync.Mutex
	// Translations maps source text to a fixed translation.
	Translations map[string]string
	// Err, if set, is returned from every call.
	Err error
	// Calls counts Translate invocations.
	Calls int
	// Last is the most recent request.
	Last Request
}

// Translate returns mock translations for every field and the body.
func (m *Mock) Translate(_ context.Context, req Request) (Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.Last = req
	if m.Err != nil {
		return Result{}, m.Err
	}
	res := Result{Fields: make(map[string]string, len(req.Fields))}
	for _, f := range req.Fields {
		res.Fields[f.Key] = m.render(req.TargetLang, f.Value)
	}
	res.Body = m.render(req.TargetLang, req.Body)
	return res, nil
}

func (m *Mock) render(lang, text string) string {
	if t, ok := m.Translations[text]; ok {
		return t
	}
	return fmt.Sprintf("[%s] %s", lang, text)
}

var _ Provider = (*Mock)(nil)

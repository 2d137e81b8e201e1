// Package translate maps transcript segments between languages using a
// multilingual translation model served over HTTP, with per-segment failure
// isolation and graceful degradation when the model is unavailable.
package translate

import "context"

// Engine is the (text, source, target) -> text contract of the translation
// model. An empty target asks the model to decode unconstrained, without
// forcing an output language.
type Engine interface {
	// Translate converts a single piece of text from source to target.
	Translate(ctx context.Context, text, source, target string) (string, error)

	// Supports reports whether the model knows the given language code.
	Supports(code string) bool
}

// EngineFunc adapts a plain function into an Engine that supports every
// language. Used by tests.
type EngineFunc func(ctx context.Context, text, source, target string) (string, error)

func (f EngineFunc) Translate(ctx context.Context, text, source, target string) (string, error) {
	return f(ctx, text, source, target)
}

func (f EngineFunc) Supports(string) bool { return true }

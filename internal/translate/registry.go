package translate

import "sync"

// Factory constructs a translation engine. Construction is expensive (the
// backing server loads the model on first contact), so it runs at most once
// per process.
type Factory func() (Engine, error)

// Registry is a thread-safe, memoized holder for the process-wide
// translation engine. Concurrent first access never constructs duplicate
// instances; a construction failure is remembered and reported to every
// caller without retrying.
type Registry struct {
	factory Factory

	once   sync.Once
	engine Engine
	err    error
}

// NewRegistry creates a registry around the given factory.
func NewRegistry(factory Factory) *Registry {
	return &Registry{factory: factory}
}

// GetOrInit returns the engine, constructing it on first call.
func (r *Registry) GetOrInit() (Engine, error) {
	r.once.Do(func() {
		r.engine, r.err = r.factory()
	})
	return r.engine, r.err
}

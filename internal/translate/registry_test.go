package translate

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryConstructsOnce(t *testing.T) {
	var constructions int32

	registry := NewRegistry(func() (Engine, error) {
		atomic.AddInt32(&constructions, 1)
		return EngineFunc(func(ctx context.Context, text, source, target string) (string, error) {
			return text, nil
		}), nil
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			engine, err := registry.GetOrInit()
			assert.NoError(t, err)
			assert.NotNil(t, engine)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&constructions))
}

func TestRegistryRemembersFailure(t *testing.T) {
	var constructions int32

	registry := NewRegistry(func() (Engine, error) {
		atomic.AddInt32(&constructions, 1)
		return nil, errors.New("no model weights")
	})

	for i := 0; i < 3; i++ {
		_, err := registry.GetOrInit()
		require.Error(t, err)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(&constructions), "failed construction must not be retried")
}

package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitter(t *testing.T) {
	t.Run("zero value emits to nobody", func(t *testing.T) {
		var e Emitter[int]
		assert.False(t, e.HasSubscribers())
		e.Emit(1)
	})

	t.Run("broadcast in subscription order", func(t *testing.T) {
		var e Emitter[string]

		var got []string
		e.Subscribe(func(v string) {
			got = append(got, "first: "+v)
		})
		e.Subscribe(func(v string) {
			got = append(got, "second: "+v)
		})
		require.True(t, e.HasSubscribers())

		e.Emit("a")
		e.Emit("b")

		assert.Equal(t, []string{
			"first: a",
			"second: a",
			"first: b",
			"second: b",
		}, got)
	})

	t.Run("nil handler is ignored", func(t *testing.T) {
		var e Emitter[int]
		e.Subscribe(nil)
		assert.False(t, e.HasSubscribers())
		e.Emit(1)
	})

	t.Run("handlers may subscribe re-entrantly", func(t *testing.T) {
		var e Emitter[int]

		var calls int
		e.Subscribe(func(int) {
			calls++
			e.Subscribe(func(int) {
				calls++
			})
		})

		// The re-entrant subscriber only sees the next emission
		e.Emit(1)
		assert.Equal(t, 1, calls)
		e.Emit(2)
		assert.Equal(t, 3, calls)
	})

	t.Run("concurrent subscribe and emit", func(t *testing.T) {
		var e Emitter[int]

		var mu sync.Mutex
		var received int
		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(2)
			go func() {
				defer wg.Done()
				e.Subscribe(func(int) {
					mu.Lock()
					received++
					mu.Unlock()
				})
			}()
			go func() {
				defer wg.Done()
				e.Emit(1)
			}()
		}
		wg.Wait()

		require.True(t, e.HasSubscribers())
	})
}

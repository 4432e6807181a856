package gate

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGate_StartsArmed(t *testing.T) {
	g := New()

	assert.Equal(t, StateArmed, g.State())
	assert.False(t, g.Interacted())
}

func TestGate_FirstTriggerLatches(t *testing.T) {
	g := New()

	assert.True(t, g.Trigger())
	assert.Equal(t, StateTriggered, g.State())
	assert.True(t, g.Interacted())
}

func TestGate_SecondTriggerIsNoop(t *testing.T) {
	g := New()

	assert.True(t, g.Trigger())
	assert.False(t, g.Trigger())
	assert.False(t, g.Trigger())
	assert.True(t, g.Interacted())
}

func TestGate_ConcurrentTriggersLatchOnce(t *testing.T) {
	g := New()

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		fired int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.Trigger() {
				mu.Lock()
				fired++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, fired)
	assert.True(t, g.Interacted())
}

package neat

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivationFunctions(t *testing.T) {
	assert.Equal(t, 0.0, ReLU(-3))
	assert.Equal(t, 2.5, ReLU(2.5))
	assert.Equal(t, -7.0, Identity(-7))
	assert.Equal(t, 0.5, Sigmoid(0))
	assert.Equal(t, 0.0, Tanh(0))
	assert.Equal(t, 1.0, Clamped(4))
	assert.Equal(t, -1.0, Clamped(-4))

	for name := range ActivationFunctions {
		fn, err := GetActivation(name)
		require.NoError(t, err)
		assert.NotNil(t, fn)
	}
	_, err := GetActivation("softplus")
	assert.Error(t, err)
}

func TestGenomeIndexer(t *testing.T) {
	idx := NewGenomeIndexer(1)
	assert.Equal(t, 1, idx.Peek())
	assert.Equal(t, 1, idx.Next())
	assert.Equal(t, 2, idx.Next())
	assert.Equal(t, 3, idx.Peek())

	resumed := NewGenomeIndexer(40)
	assert.Equal(t, 40, resumed.Next())
}

func TestGenomeIndexerConcurrentIDsAreUnique(t *testing.T) {
	idx := NewGenomeIndexer(1)
	const workers, perWorker = 8, 100

	var mu sync.Mutex
	seen := make(map[int]bool)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				id := idx.Next()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, workers*perWorker)
	assert.Equal(t, workers*perWorker+1, idx.Peek())
}

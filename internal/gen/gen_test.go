package gen

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresKey(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	_, err := NewClient(ClientConfig{})
	require.Error(t, err)

	c, err := NewClient(ClientConfig{APIKey: "sk-test"})
	require.NoError(t, err)
	assert.NotEmpty(t, c.Model())
}

func TestTokenTrackerConcurrent(t *testing.T) {
	tr := NewTokenTracker()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tr.Add(100, 50)
		}()
	}
	wg.Wait()

	in, out := tr.Total()
	assert.Equal(t, int64(2000), in)
	assert.Equal(t, int64(1000), out)
	assert.Equal(t, 20, tr.Calls())
}

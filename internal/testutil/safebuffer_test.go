package testutil

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSafeBuffer_ConcurrentWrites(t *testing.T) {
	var buf SafeBuffer
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			fmt.Fprintf(&buf, "line %d\n", i)
		}(i)
	}
	wg.Wait()

	assert.Len(t, buf.Lines(), 20)
}

func TestSafeBuffer_LinesSkipsBlank(t *testing.T) {
	var buf SafeBuffer
	buf.Write([]byte("a\n\n  \nb\n"))
	assert.Equal(t, []string{"a", "b"}, buf.Lines())
}

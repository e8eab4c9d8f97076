package workerpool

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tomb "gopkg.in/tomb.v2"
)

func TestPoolProcessesEveryTask(t *testing.T) {
	p := New(4, 0, zerolog.Nop())
	var processed atomic.Int32

	tb := &tomb.Tomb{}
	tb.Go(func() error {
		p.Run(tb, func(t *tomb.Tomb, task any) error {
			processed.Add(1)
			return nil
		})
		return nil
	})

	const n = 20
	for i := 0; i < n; i++ {
		p.AddTask(i)
	}

	require.Eventually(t, func() bool {
		return processed.Load() == n
	}, time.Second, time.Millisecond)

	tb.Kill(nil)
	_ = tb.Wait()
}

func TestPoolDiesOnHandlerError(t *testing.T) {
	p := New(2, 0, zerolog.Nop())
	tb := &tomb.Tomb{}
	tb.Go(func() error {
		p.Run(tb, func(t *tomb.Tomb, task any) error {
			return assert.AnError
		})
		return nil
	})

	p.AddTask("boom")
	err := tb.Wait()
	assert.Error(t, err)
}

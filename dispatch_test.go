package beepscope_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/faiface/beepscope"
	"github.com/faiface/beepscope/voice"
)

func TestDispatcherForwardsInOrder(t *testing.T) {
	defer goleak.VerifyNone(t)

	e := newEngine(t, func(o *beepscope.Options) { o.EventCapacity = 64 })
	d := beepscope.NewDispatcher(e, 8)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	for _, n := range []uint8{60, 62, 64} {
		require.NoError(t, d.Send(ctx, voice.NoteOn(n)))
	}
	require.Eventually(t, func() bool {
		return e.Stats().EventsPending == 3
	}, time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	e.Render(make([]float32, 4), 4, 1, 48000)
	assert.Equal(t, voice.Frequency(64), e.Stats().Frequency)
}

func TestDispatcherManySources(t *testing.T) {
	defer goleak.VerifyNone(t)

	e := newEngine(t, func(o *beepscope.Options) { o.EventCapacity = 1024 })
	d := beepscope.NewDispatcher(e, 0)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	var wg sync.WaitGroup
	for s := 0; s < 4; s++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				assert.NoError(t, d.Send(ctx, voice.NoteOn(60)))
			}
		}()
	}
	wg.Wait()
	cancel()
	require.NoError(t, <-done)

	e.Render(make([]float32, 1), 1, 1, 48000)
	assert.Equal(t, uint64(400), e.Stats().EventsApplied)
}

func TestDispatcherSendCanceled(t *testing.T) {
	e := newEngine(t, nil)
	d := beepscope.NewDispatcher(e, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := d.Send(ctx, voice.NoteOff())
	assert.ErrorIs(t, err, context.Canceled)
}

package scope_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/faiface/beepscope"
	"github.com/faiface/beepscope/scope"
	"github.com/faiface/beepscope/spsc"
	"github.com/faiface/beepscope/voice"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestDrainInOrder(t *testing.T) {
	r, err := spsc.New[float32](8)
	require.NoError(t, err)
	c := scope.NewConsumer(r, 8)

	assert.Empty(t, c.Drain())

	for i := 0; i < 10; i++ {
		r.TryPush(float32(i))
	}
	assert.Equal(t, []float32{0, 1, 2, 3, 4, 5, 6, 7}, c.Drain())
	assert.Empty(t, c.Drain())

	r.TryPush(42)
	assert.Equal(t, []float32{42}, c.Drain())
}

func TestDrainEngineTelemetry(t *testing.T) {
	opts := beepscope.DefaultOptions()
	e, err := beepscope.New(opts)
	require.NoError(t, err)
	e.Initialize(48000)
	e.Send(voice.NoteOn(69))

	out := make([]float32, 2*800)
	e.Render(out, 800, 2, 48000)

	c := scope.NewConsumer(e.Telemetry(), opts.TelemetryCapacity)
	got := c.Drain()
	require.Len(t, got, opts.TelemetryCapacity)
	for i, v := range got {
		require.Equal(t, out[2*i], v)
	}
}

func TestRunDrawsEveryTick(t *testing.T) {
	r, err := spsc.New[float32](512)
	require.NoError(t, err)
	c := scope.NewConsumer(r, 512)

	var (
		mu    sync.Mutex
		seen  []float32
		ticks int
	)
	sink := scope.SinkFunc(func(samples []float32) {
		mu.Lock()
		defer mu.Unlock()
		ticks++
		seen = append(seen, samples...)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx, time.Millisecond, sink) }()

	// producer on this goroutine, consumer on Run's
	for i := 0; i < 1000; {
		if r.TryPush(float32(i)) {
			i++
		}
	}
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(seen) == 1000
	}, 5*time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-done)

	mu.Lock()
	defer mu.Unlock()
	assert.Greater(t, ticks, 1)
	for i, v := range seen {
		require.Equal(t, float32(i), v)
	}
}

func TestRunInvalidInterval(t *testing.T) {
	r, err := spsc.New[float32](1)
	require.NoError(t, err)
	c := scope.NewConsumer(r, 1)
	assert.Error(t, c.Run(context.Background(), 0, scope.SinkFunc(func([]float32) {})))
}

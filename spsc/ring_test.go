package spsc_test

import (
	"runtime"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/faiface/beepscope/spsc"
)

func drain(r *spsc.Ring[float32]) []float32 {
	var out []float32
	for {
		v, ok := r.TryPop()
		if !ok {
			return out
		}
		out = append(out, v)
	}
}

func TestNewInvalidCapacity(t *testing.T) {
	for _, c := range []int{0, -1, -512} {
		r, err := spsc.New[float32](c)
		assert.Error(t, err)
		assert.Nil(t, r)
	}
}

func TestDropNewestWhenFull(t *testing.T) {
	const capacity = 512
	for _, k := range []int{1, 2, 100, capacity, 3 * capacity} {
		r, err := spsc.New[float32](capacity)
		require.NoError(t, err)

		accepted := 0
		for i := 0; i < capacity+k; i++ {
			if r.TryPush(float32(i)) {
				accepted++
			}
		}
		assert.Equal(t, capacity, accepted)
		assert.Equal(t, capacity, r.Len())

		got := drain(r)
		require.Len(t, got, capacity)
		for i, v := range got {
			require.Equal(t, float32(i), v, "sample %d out of order", i)
		}
		assert.Zero(t, r.Len())
	}
}

func TestEmptyPop(t *testing.T) {
	r, err := spsc.New[int](4)
	require.NoError(t, err)
	v, ok := r.TryPop()
	assert.False(t, ok)
	assert.Zero(t, v)
	assert.Equal(t, 4, r.Cap())
}

func TestWrapAround(t *testing.T) {
	r, err := spsc.New[int](3)
	require.NoError(t, err)

	next, want := 0, 0
	for round := 0; round < 50; round++ {
		for i := 0; i < 2; i++ {
			require.True(t, r.TryPush(next))
			next++
		}
		for i := 0; i < 2; i++ {
			v, ok := r.TryPop()
			require.True(t, ok)
			require.Equal(t, want, v)
			want++
		}
	}
}

func TestRoomFreedByPop(t *testing.T) {
	r, err := spsc.New[int](2)
	require.NoError(t, err)
	assert.True(t, r.TryPush(1))
	assert.True(t, r.TryPush(2))
	assert.False(t, r.TryPush(3))

	v, ok := r.TryPop()
	require.True(t, ok)
	assert.Equal(t, 1, v)
	assert.True(t, r.TryPush(4))

	assert.Equal(t, []int{2, 4}, []int{mustPop(t, r), mustPop(t, r)})
}

func mustPop(t *testing.T, r *spsc.Ring[int]) int {
	t.Helper()
	v, ok := r.TryPop()
	require.True(t, ok)
	return v
}

// The consumer must see every accepted value exactly once, in order, while both sides run at full
// speed on different goroutines.
func TestConcurrentOrder(t *testing.T) {
	const total = 200000
	r, err := spsc.New[uint32](64)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := uint32(0); i < total; {
			if r.TryPush(i) {
				i++
			} else {
				runtime.Gosched()
			}
		}
	}()

	var want uint32
	for want < total {
		v, ok := r.TryPop()
		if !ok {
			runtime.Gosched()
			continue
		}
		if v != want {
			t.Fatalf("got %d, want %d", v, want)
		}
		want++
	}
	wg.Wait()
	_, ok := r.TryPop()
	assert.False(t, ok)
}

func TestPushPopDoNotAllocate(t *testing.T) {
	r, err := spsc.New[float32](512)
	require.NoError(t, err)
	allocs := testing.AllocsPerRun(100, func() {
		for i := 0; i < 600; i++ {
			r.TryPush(float32(i))
		}
		for {
			if _, ok := r.TryPop(); !ok {
				break
			}
		}
	})
	assert.Zero(t, allocs)
}

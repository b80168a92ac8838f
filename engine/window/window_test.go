package window

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-bubble/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameQueue_RunsOncePerIteration(t *testing.T) {
	q := newFrameQueue()
	var got []float64
	var again func(ts float64)
	again = func(ts float64) {
		got = append(got, ts)
		q.request(again)
	}
	q.request(again)

	assert.Equal(t, 1, q.run(16))
	assert.Equal(t, 1, q.run(33))
	assert.Equal(t, []float64{16, 33}, got)
	assert.Equal(t, 1, q.len())
}

func TestFrameQueue_Cancel(t *testing.T) {
	q := newFrameQueue()
	ran := 0
	a := q.request(func(float64) { ran++ })
	b := q.request(func(float64) { ran += 10 })
	assert.NotEqual(t, a, b)

	q.cancel(a)
	q.cancel(a)
	require.Equal(t, 1, q.len())
	q.run(0)
	assert.Equal(t, 10, ran)
	assert.Zero(t, q.len())
}

func TestFrameQueue_Clear(t *testing.T) {
	q := newFrameQueue()
	q.request(func(float64) { t.Fatal("cleared frame ran") })
	q.clear()
	assert.Zero(t, q.run(0))
}

func TestDispatchKey(t *testing.T) {
	w := newEngineWindow()
	clicks := 0
	var keys []uint32
	w.SetClickCallback(func() { clicks++ })
	w.SetKeyDownCallback(func(k uint32) { keys = append(keys, k) })

	w.dispatchKey(common.KeySpace)
	w.dispatchKey(common.KeyEnter)
	w.dispatchKey(common.KeyEsc)

	assert.Equal(t, 1, clicks)
	assert.Equal(t, []uint32{common.KeySpace, common.KeyEnter, common.KeyEsc}, keys)
	assert.False(t, w.IsRunning())
}

func TestResized_IgnoresMinimise(t *testing.T) {
	w := newEngineWindow(WithSize(640, 480))
	var sizes [][2]int
	w.SetResizeCallback(func(width, height int) { sizes = append(sizes, [2]int{width, height}) })

	w.resized(0, 0)
	w.resized(1024, 768)

	assert.Equal(t, [][2]int{{1024, 768}}, sizes)
	assert.Equal(t, 1024, w.Width())
	assert.Equal(t, 768, w.Height())
}

func TestUnspawnedWindow(t *testing.T) {
	w := newEngineWindow(WithTitle("t"), WithSize(-1, 10))
	assert.Equal(t, 800, w.Width())
	assert.Nil(t, w.SurfaceDescriptor())
	assert.False(t, w.IsRunning())
	assert.Error(t, w.Close())
}

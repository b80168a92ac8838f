package profiler

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTickReportsOncePerInterval(t *testing.T) {
	var buf bytes.Buffer
	now := time.Unix(0, 0)
	p := NewProfiler(
		WithLogger(slog.New(slog.NewTextHandler(&buf, nil))),
		WithClock(func() time.Time { return now }),
		WithInterval(time.Second),
	)

	for i := 0; i < 9; i++ {
		now = now.Add(100 * time.Millisecond)
		assert.False(t, p.Tick())
	}
	now = now.Add(100 * time.Millisecond)
	assert.True(t, p.Tick())
	assert.InDelta(t, 10, p.FPS(), 1e-9)
	assert.Contains(t, buf.String(), "fps=")

	assert.False(t, p.Tick())
}

func TestDefaults(t *testing.T) {
	p := NewProfiler(WithInterval(-1))
	assert.Equal(t, time.Second, p.Interval())
	assert.Zero(t, p.FPS())
}

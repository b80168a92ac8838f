package bind_group_provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBindGroupProvider(t *testing.T) {
	p := NewBindGroupProvider("film", WithBufferSize(1, 256))
	assert.Equal(t, "film", p.Label())
	assert.Zero(t, p.ResourceCount())

	size, ok := p.BufferSize(1)
	assert.True(t, ok)
	assert.Equal(t, uint64(256), size)
	_, ok = p.BufferSize(0)
	assert.False(t, ok)
}

func TestReleaseEmpty(t *testing.T) {
	p := NewBindGroupProvider("empty")
	p.SetBuffer(0, nil)
	p.SetSampler(0, nil)
	p.SetTexture(0, nil, nil)
	p.SetIndexCount(6)

	assert.Zero(t, p.ResourceCount())
	assert.Zero(t, p.Release())
	assert.Zero(t, p.Release())
	assert.Zero(t, p.IndexCount())
}

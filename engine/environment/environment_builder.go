package environment

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/anthonynsimon/bild/blur"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
)

// gradientStop is one colour stop of the face gradient, offset in [0, 1] from centre to edge.
type gradientStop struct {
	offset float64
	color  colorful.Color
}

// builder is the implementation of the Builder interface.
type builder struct {
	faceSize       int
	mipLevels      int
	workers        int
	highlightAlpha float64
	logger         *slog.Logger
}

// Builder renders the reflection map faces and filters them into a mip chain.
type Builder interface {
	// Build renders all six faces in parallel and filters the mip chain.
	//
	// Returns:
	//   - *Map: the filtered map
	//   - error: ErrInvalidConfig (wrapped) if the configuration cannot produce a map
	Build() (*Map, error)

	// FaceSize returns the configured level 0 edge length.
	//
	// Returns:
	//   - int: edge length in pixels
	FaceSize() int

	// MipLevels returns the number of levels Build will produce.
	//
	// Returns:
	//   - int: the level count
	MipLevels() int
}

var _ Builder = &builder{}

// NewBuilder creates a Builder for 64px faces filtered into 5 levels.
//
// Parameters:
//   - opts: functional options
//
// Returns:
//   - Builder: the builder
func NewBuilder(opts ...BuilderOption) Builder {
	b := &builder{
		faceSize:       64,
		mipLevels:      5,
		workers:        FaceCount,
		highlightAlpha: 0.18,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *builder) FaceSize() int {
	return b.faceSize
}

func (b *builder) MipLevels() int {
	return b.mipLevels
}

func (b *builder) Build() (*Map, error) {
	if b.faceSize < 1 || b.mipLevels < 1 {
		return nil, fmt.Errorf("face size %d, %d levels: %w", b.faceSize, b.mipLevels, ErrInvalidConfig)
	}
	if maxLevels := bitLen(b.faceSize); b.mipLevels > maxLevels {
		return nil, fmt.Errorf("%d levels exceed %d for %dpx faces: %w", b.mipLevels, maxLevels, b.faceSize, ErrInvalidConfig)
	}

	start := time.Now()
	levels := make([][FaceCount]*image.RGBA, b.mipLevels)
	pool := worker.NewDynamicWorkerPool(b.workers, FaceCount, time.Second)

	// Each face owns its own column of the level table, so workers never share an image.
	var wg sync.WaitGroup
	for i := range FaceCount {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				img := b.renderFace(i)
				levels[0][i] = img
				for level := 1; level < b.mipLevels; level++ {
					img = filterLevel(img, level)
					levels[level][i] = img
				}
				return nil, nil
			},
		})
	}
	wg.Wait()

	b.logger.Debug("environment map built",
		"face_size", b.faceSize,
		"levels", b.mipLevels,
		"elapsed", time.Since(start))
	return &Map{Levels: levels}, nil
}

// renderFace draws face i: a radial gradient from the centre to half the edge length, with
// the hue rotated 60° per face, under a translucent white disc one third of the edge in radius.
func (b *builder) renderFace(i int) *image.RGBA {
	size := b.faceSize
	stops := faceStops(float64(i) * 60)
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	centre := float64(size) / 2
	discRadius := float64(size) / 3
	white := colorful.Color{R: 1, G: 1, B: 1}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx := float64(x) + 0.5 - centre
			dy := float64(y) + 0.5 - centre
			dist := math.Hypot(dx, dy)

			c := sampleGradient(stops, dist/centre)
			if dist <= discRadius {
				c = c.BlendRgb(white, b.highlightAlpha)
			}
			r, g, bl := c.Clamped().RGB255()
			img.SetRGBA(x, y, color.RGBA{R: r, G: g, B: bl, A: 255})
		}
	}
	return img
}

// faceStops returns the three gradient stops for a face with base hue h in degrees.
func faceStops(h float64) []gradientStop {
	return []gradientStop{
		{0, colorful.Hsl(math.Mod(h+200, 360), 0.7, 0.9)},
		{0.7, colorful.Hsl(math.Mod(h+220, 360), 0.6, 0.8)},
		{1, colorful.Hsl(math.Mod(h+240, 360), 0.5, 0.65)},
	}
}

// sampleGradient interpolates the stops at t, clamping outside [0, 1].
func sampleGradient(stops []gradientStop, t float64) colorful.Color {
	if t <= stops[0].offset {
		return stops[0].color
	}
	for i := 1; i < len(stops); i++ {
		if t <= stops[i].offset {
			prev := stops[i-1]
			f := (t - prev.offset) / (stops[i].offset - prev.offset)
			return prev.color.BlendRgb(stops[i].color, f)
		}
	}
	return stops[len(stops)-1].color
}

// filterLevel halves src and blurs it with a radius equal to the level index.
func filterLevel(src *image.RGBA, level int) *image.RGBA {
	size := max(1, src.Bounds().Dx()/2)
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return blur.Gaussian(dst, float64(level))
}

// bitLen returns the number of times n can be halved down to 1, plus one.
func bitLen(n int) int {
	levels := 1
	for n > 1 {
		n /= 2
		levels++
	}
	return levels
}

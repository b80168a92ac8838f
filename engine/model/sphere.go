package model

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-bubble/common"
	"github.com/chewxy/math32"
)

const (
	// PrimaryRadius is the radius of the full-size bubble.
	PrimaryRadius = 1.7
	// MiniatureRadius is the radius of the decorative bubble.
	MiniatureRadius = 1.0
	// SphereSegments is the width and height segment count of both bubble meshes.
	SphereSegments = 192
	// MaxSphereSegments bounds each segment count so vertex indices fit in uint32.
	MaxSphereSegments = 4096
)

// NewSphere generates a UV sphere centred on the origin. Rows run from the north pole
// (v = 0) to the south pole, each row holding widthSegments+1 vertices so the seam has
// duplicated positions with distinct UVs. Pole rows emit one triangle per quad.
//
// Parameters:
//   - name: the model name
//   - radius: sphere radius
//   - widthSegments: segments around the equator, 3 to MaxSphereSegments
//   - heightSegments: segments from pole to pole, 2 to MaxSphereSegments
//
// Returns:
//   - Model: the sphere mesh
//   - error: if the segment counts are out of range or radius is not positive
func NewSphere(name string, radius float32, widthSegments, heightSegments int) (Model, error) {
	if widthSegments < 3 || heightSegments < 2 {
		return nil, fmt.Errorf("sphere %s: need at least 3x2 segments, got %dx%d", name, widthSegments, heightSegments)
	}
	if widthSegments > MaxSphereSegments || heightSegments > MaxSphereSegments {
		return nil, fmt.Errorf("sphere %s: at most %d segments per axis, got %dx%d", name, MaxSphereSegments, widthSegments, heightSegments)
	}
	if radius <= 0 {
		return nil, fmt.Errorf("sphere %s: radius must be positive, got %v", name, radius)
	}

	rowLen := widthSegments + 1
	vertices := make([]GPUVertex, 0, rowLen*(heightSegments+1))
	for iy := 0; iy <= heightSegments; iy++ {
		v := float32(iy) / float32(heightSegments)

		// Shift pole UVs to the middle of their quad.
		var uOffset float32
		switch iy {
		case 0:
			uOffset = 0.5 / float32(widthSegments)
		case heightSegments:
			uOffset = -0.5 / float32(widthSegments)
		}

		sinTheta, cosTheta := math32.Sincos(v * math32.Pi)
		for ix := 0; ix <= widthSegments; ix++ {
			u := float32(ix) / float32(widthSegments)
			sinPhi, cosPhi := math32.Sincos(u * 2 * math32.Pi)

			p := [3]float32{
				-radius * cosPhi * sinTheta,
				radius * cosTheta,
				radius * sinPhi * sinTheta,
			}
			vertices = append(vertices, GPUVertex{
				Position: p,
				Normal:   common.Normalize3(p),
				TexCoord: [2]float32{u + uOffset, 1 - v},
			})
		}
	}

	indices := make([]uint32, 0, 6*widthSegments*(heightSegments-1))
	for iy := 0; iy < heightSegments; iy++ {
		for ix := 0; ix < widthSegments; ix++ {
			a := uint32(iy*rowLen + ix + 1)
			b := uint32(iy*rowLen + ix)
			c := uint32((iy+1)*rowLen + ix)
			d := uint32((iy+1)*rowLen + ix + 1)
			if iy != 0 {
				indices = append(indices, a, b, d)
			}
			if iy != heightSegments-1 {
				indices = append(indices, b, c, d)
			}
		}
	}

	return NewModel(
		WithName(name),
		WithMesh(vertices, indices),
		WithBoundingRadius(radius),
	), nil
}

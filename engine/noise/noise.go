// Package noise provides the 3-D simplex gradient noise that drives film thickness banding and
// surface wobble. The CPU function and the embedded WGSL snippet compute the same field, so GPU
// output can be checked against CPU reference values.
package noise

import (
	_ "embed"

	"github.com/chewxy/math32"
)

// SimplexWGSL holds the WGSL definition of snoise3, matching Simplex3.
// Shader templates pull it in with //@oxy:include noise.
//
//go:embed assets/simplex.wgsl
var SimplexWGSL string

// IncludeName is the include key the shader pre-processor resolves to SimplexWGSL.
const IncludeName = "noise"

const (
	skew   = float32(1.0 / 3.0)
	unskew = float32(1.0 / 6.0)
	inv7   = float32(0.142857142857)
)

// Simplex3 samples 3-D simplex noise at (x, y, z). The result lies in approximately [-1, 1]
// and is a smooth, deterministic function of its input.
//
// Parameters:
//   - x, y, z: sample coordinates
//
// Returns:
//   - float32: the noise value
func Simplex3(x, y, z float32) float32 {
	s := (x + y + z) * skew
	i := [3]float32{math32.Floor(x + s), math32.Floor(y + s), math32.Floor(z + s)}
	t := (i[0] + i[1] + i[2]) * unskew
	x0 := [3]float32{x - i[0] + t, y - i[1] + t, z - i[2] + t}

	// rank the components of x0 to find which simplex we are in
	g := [3]float32{step(x0[1], x0[0]), step(x0[2], x0[1]), step(x0[0], x0[2])}
	l := [3]float32{1 - g[0], 1 - g[1], 1 - g[2]}
	i1 := [3]float32{min(g[0], l[2]), min(g[1], l[0]), min(g[2], l[1])}
	i2 := [3]float32{max(g[0], l[2]), max(g[1], l[0]), max(g[2], l[1])}

	corners := [4][3]float32{
		x0,
		{x0[0] - i1[0] + unskew, x0[1] - i1[1] + unskew, x0[2] - i1[2] + unskew},
		{x0[0] - i2[0] + skew, x0[1] - i2[1] + skew, x0[2] - i2[2] + skew},
		{x0[0] - 0.5, x0[1] - 0.5, x0[2] - 0.5},
	}
	offsets := [4][3]float32{{}, i1, i2, {1, 1, 1}}

	i = [3]float32{mod289(i[0]), mod289(i[1]), mod289(i[2])}

	var sum float32
	for c := 0; c < 4; c++ {
		p := permute(i[2] + offsets[c][2])
		p = permute(p + i[1] + offsets[c][1])
		p = permute(p + i[0] + offsets[c][0])

		d := corners[c]
		m := max(0.6-dot3(d, d), 0)
		if m == 0 {
			continue
		}
		m *= m
		grad := gradient(p)
		sum += m * m * dot3(grad, d)
	}
	return 42 * sum
}

// ThicknessSample samples the slow film-thickness schedule at a world position.
//
// Parameters:
//   - worldPos: world-space fragment position
//   - time: elapsed animation time in seconds
//
// Returns:
//   - float32: the noise value
func ThicknessSample(worldPos [3]float32, time float32) float32 {
	return Simplex3(worldPos[0]*8, worldPos[1]*8, time*0.5)
}

// WobbleSample samples the faster vertex-wobble schedule, with position scaled higher and
// time scaled lower than ThicknessSample.
//
// Parameters:
//   - pos: object-space vertex position
//   - time: elapsed animation time in seconds
//
// Returns:
//   - float32: the noise value
func WobbleSample(pos [3]float32, time float32) float32 {
	return Simplex3(pos[0]*12, pos[1]*12, time*0.15)
}

// gradient maps a permutation value onto the unit octahedron and normalizes it.
func gradient(p float32) [3]float32 {
	nsx := 2 * inv7
	nsy := 0.5*inv7 - 1
	j := p - 49*math32.Floor(p*inv7*inv7)
	xi := math32.Floor(j * inv7)
	yi := math32.Floor(j - 7*xi)

	gx := xi*nsx + nsy
	gy := yi*nsx + nsy
	h := 1 - math32.Abs(gx) - math32.Abs(gy)
	if h <= 0 {
		gx -= math32.Floor(gx)*2 + 1
		gy -= math32.Floor(gy)*2 + 1
	}
	grad := [3]float32{gx, gy, h}
	n := taylorInvSqrt(dot3(grad, grad))
	return [3]float32{gx * n, gy * n, h * n}
}

func mod289(x float32) float32 {
	return x - math32.Floor(x*(1.0/289.0))*289
}

func permute(x float32) float32 {
	return mod289((x*34 + 1) * x)
}

func taylorInvSqrt(r float32) float32 {
	return 1.79284291400159 - 0.85373472095314*r
}

// step returns 0 when x < edge, else 1.
func step(edge, x float32) float32 {
	if x < edge {
		return 0
	}
	return 1
}

func dot3(a, b [3]float32) float32 {
	return a[0]*b[0] + a[1]*b[1] + a[2]*b[2]
}

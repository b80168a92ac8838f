package material

import (
	"github.com/Carmen-Shannon/oxy-bubble/common"
	"github.com/Carmen-Shannon/oxy-bubble/engine/noise"
	"github.com/chewxy/math32"
)

// FragmentInput is one shaded surface point.
type FragmentInput struct {
	Normal        [3]float32 // unit surface normal
	View          [3]float32 // unit vector from the surface toward the eye
	WorldPosition [3]float32
	Time          float32
}

// ShadeFilm evaluates the film colour function on the CPU. It mirrors fragment_color in the
// film program and is used to check shader changes against reference values.
//
// Parameters:
//   - in: the fragment inputs
//
// Returns:
//   - [3]float32: the film colour before environment and lights
//   - float32: the film alpha, never below 0.1
func ShadeFilm(in FragmentInput) ([3]float32, float32) {
	ndv := max(common.Dot3(in.Normal, in.View), 0)

	thickness := 0.3 + 0.15*noise.ThicknessSample(in.WorldPosition, in.Time)
	interference := 0.5 + 0.5*math32.Sin(thickness*25+in.Time*0.1)
	fresnel := 0.04 + 0.96*(1-ndv)*(1-ndv)
	edgeGlow := math32.Pow(1-ndv, 1.5)

	tint := [3]float32{0.8, 0.9, 1.0}
	glow := [3]float32{0.7, 0.8, 1.0}
	var rgb [3]float32
	for i := range rgb {
		rgb[i] = tint[i]*interference*0.6*0.8 + glow[i]*edgeGlow*0.4
	}
	alpha := max(0.1, 0.15+fresnel*0.25+edgeGlow*0.2)
	return rgb, alpha
}

// Displacement returns the distance a vertex at model-space pos moves along its normal.
//
// Parameters:
//   - pos: model-space vertex position
//   - time: elapsed seconds
//   - amp: the variant's wobble amplitude
//
// Returns:
//   - float32: signed offset along the normal
func Displacement(pos [3]float32, time, amp float32) float32 {
	return amp * math32.Sin(pos[1]*8+time*1.6) * math32.Cos(pos[0]*7+time*1.3)
}

// ThinFilmTint returns the per-channel interference tint that modulates environment
// reflections, mirroring thin_film_tint in the film program.
//
// Parameters:
//   - worldPos: world-space surface position
//   - time: elapsed seconds
//   - p: the film's optical parameters
//
// Returns:
//   - [3]float32: tint in [0, 1] per channel
func ThinFilmTint(worldPos [3]float32, time float32, p PhysicalParams) [3]float32 {
	w := noise.WobbleSample(worldPos, time)
	d := p.ThicknessRange[0] + (p.ThicknessRange[1]-p.ThicknessRange[0])*(0.5+0.5*w)
	wavelengths := [3]float32{650, 510, 475}

	var out [3]float32
	for i, lambda := range wavelengths {
		t := 0.5 + 0.5*math32.Cos(2*math32.Pi*2*p.IridescenceIOR*d/lambda)
		out[i] = 1 + (t-1)*p.Iridescence
	}
	return out
}

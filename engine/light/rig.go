package light

// Rig is the fixed set of lights around the bubble. Nil members contribute nothing, so the
// zero Rig packs an all-zero block.
type Rig struct {
	Key     Light
	Fill    Light
	Ambient Light
}

// NewPrimaryRig returns the full-size bubble lighting: a white key light from (5, 5, 5) at
// 1.2, a 0x88aaff fill from (-3, 2, -4) at 0.6 and a 0x404050 ambient at 0.4.
//
// Returns:
//   - *Rig: the light rig
func NewPrimaryRig() *Rig {
	return &Rig{
		Key: NewLight(LightTypeDirectional,
			WithPosition(5, 5, 5),
			WithHexColor(0xffffff),
			WithIntensity(1.2),
		),
		Fill: NewLight(LightTypeDirectional,
			WithPosition(-3, 2, -4),
			WithHexColor(0x88aaff),
			WithIntensity(0.6),
		),
		Ambient: NewLight(LightTypeAmbient,
			WithHexColor(0x404050),
			WithIntensity(0.4),
		),
	}
}

// Block packs the rig for upload.
//
// Returns:
//   - GPULightBlock: the packed lights, zero for missing or disabled members
func (r *Rig) Block() GPULightBlock {
	var b GPULightBlock
	if r == nil {
		return b
	}
	if on(r.Key) {
		b.KeyDirection = r.Key.Direction()
		b.KeyIntensity = r.Key.Intensity()
		c := r.Key.Color()
		b.KeyColor = [4]float32{c[0], c[1], c[2], 1}
	}
	if on(r.Fill) {
		b.FillDirection = r.Fill.Direction()
		b.FillIntensity = r.Fill.Intensity()
		c := r.Fill.Color()
		b.FillColor = [4]float32{c[0], c[1], c[2], 1}
	}
	if on(r.Ambient) {
		b.Ambient = r.Ambient.Color()
		b.AmbientLevel = r.Ambient.Intensity()
	}
	return b
}

func on(l Light) bool {
	return l != nil && l.Enabled()
}

package material

import "fmt"

// Variant selects between the full-size interactive bubble and the small decorative one.
type Variant int

const (
	// VariantPrimary is the full-size interactive bubble.
	VariantPrimary Variant = iota
	// VariantMiniature is the small decorative bubble.
	VariantMiniature
)

// String returns the variant name used in configuration.
func (v Variant) String() string {
	switch v {
	case VariantPrimary:
		return "primary"
	case VariantMiniature:
		return "miniature"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// ParseVariant maps a configuration name to a Variant.
//
// Parameters:
//   - name: "primary" or "miniature"
//
// Returns:
//   - Variant: the parsed variant
//   - error: if the name is unknown
func ParseVariant(name string) (Variant, error) {
	switch name {
	case "primary", "":
		return VariantPrimary, nil
	case "miniature":
		return VariantMiniature, nil
	default:
		return VariantPrimary, fmt.Errorf("material: unknown variant %q", name)
	}
}

// WobbleAmplitude returns the vertex displacement amplitude for the variant.
func (v Variant) WobbleAmplitude() float32 {
	if v == VariantMiniature {
		return 0.01
	}
	return 0.012
}

// Kind distinguishes the two bubble surfaces.
type Kind int

const (
	// KindFilm is the iridescent outer skin.
	KindFilm Kind = iota
	// KindCarrier is the faint inner sphere.
	KindCarrier
)

// String returns the surface name.
func (k Kind) String() string {
	if k == KindCarrier {
		return "carrier"
	}
	return "film"
}

// PhysicalParams is the static optical configuration of a surface. None of it animates.
type PhysicalParams struct {
	Transmission       float32
	Roughness          float32
	Thickness          float32
	Iridescence        float32
	IridescenceIOR     float32
	ThicknessRange     [2]float32 // nm
	EnvMapIntensity    float32
	Clearcoat          float32
	ClearcoatRoughness float32
}

// FilmParams is the optical configuration of the outer film in both variants.
var FilmParams = PhysicalParams{
	Transmission:       1,
	Roughness:          0,
	Thickness:          0.0004,
	Iridescence:        1,
	IridescenceIOR:     1.3,
	ThicknessRange:     [2]float32{50, 800},
	EnvMapIntensity:    1.25,
	Clearcoat:          1,
	ClearcoatRoughness: 0.02,
}

// CarrierParams configures the inner sphere as an unlit, untextured surface.
var CarrierParams = PhysicalParams{
	Roughness: 1,
}

// CarrierOpacity is the resting opacity of the inner sphere.
const CarrierOpacity = 0.03

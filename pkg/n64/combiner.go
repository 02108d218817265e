package n64

import "fmt"

// Well-known input names.
const (
	SourceZero       = "0"
	SourceOne        = "1"
	SourceShadeAlpha = "Shade Alpha"
	SourceFogLevel   = "Fog Level"
	SourceOneMinusA  = "One Minus A"
)

var rgbA = []string{
	"Combined Color", "Texel 0 Color", "Texel 1 Color", "Primitive Color",
	"Shade Color", "Env Color", "1", "Noise",
}

var rgbB = []string{
	"Combined Color", "Texel 0 Color", "Texel 1 Color", "Primitive Color",
	"Shade Color", "Env Color", "Key Center", "Convert K4",
}

var rgbC = []string{
	"Combined Color", "Texel 0 Color", "Texel 1 Color", "Primitive Color",
	"Shade Color", "Env Color", "Key Scale", "Combined Alpha",
	"Texel 0 Alpha", "Texel 1 Alpha", "Primitive Alpha", "Shade Alpha",
	"Env Alpha", "LOD Fraction", "Primitive LOD Fraction", "Convert K5",
}

var rgbD = []string{
	"Combined Color", "Texel 0 Color", "Texel 1 Color", "Primitive Color",
	"Shade Color", "Env Color", "1", "0",
}

var alphaABD = []string{
	"Combined Alpha", "Texel 0 Alpha", "Texel 1 Alpha", "Primitive Alpha",
	"Shade Alpha", "Env Alpha", "1", "0",
}

var alphaC = []string{
	"LOD Fraction", "Texel 0 Alpha", "Texel 1 Alpha", "Primitive Alpha",
	"Shade Alpha", "Env Alpha", "Primitive LOD Fraction", "0",
}

// lookup maps a mux field to its input name; unlisted values select zero.
func lookup(table []string, v uint64) string {
	if v < uint64(len(table)) {
		return table[v]
	}
	return SourceZero
}

// CombinerCycle is one cycle of the colour combiner, (a - b) * c + d for both
// the RGB and the alpha equation.
type CombinerCycle struct {
	RGB   [4]string `yaml:"rgb"`
	Alpha [4]string `yaml:"alpha"`
}

// DecodeCombiner splits the 64-bit combiner mux into its two cycles.
func DecodeCombiner(mux uint64) [2]CombinerCycle {
	field := func(shift, mask uint64) uint64 { return (mux >> shift) & mask }

	return [2]CombinerCycle{
		{
			RGB: [4]string{
				lookup(rgbA, field(52, 0xF)),
				lookup(rgbB, field(28, 0xF)),
				lookup(rgbC, field(47, 0x1F)),
				lookup(rgbD, field(15, 0x7)),
			},
			Alpha: [4]string{
				lookup(alphaABD, field(44, 0x7)),
				lookup(alphaABD, field(12, 0x7)),
				lookup(alphaC, field(41, 0x7)),
				lookup(alphaABD, field(9, 0x7)),
			},
		},
		{
			RGB: [4]string{
				lookup(rgbA, field(37, 0xF)),
				lookup(rgbB, field(24, 0xF)),
				lookup(rgbC, field(32, 0x1F)),
				lookup(rgbD, field(6, 0x7)),
			},
			Alpha: [4]string{
				lookup(alphaABD, field(21, 0x7)),
				lookup(alphaABD, field(3, 0x7)),
				lookup(alphaC, field(18, 0x7)),
				lookup(alphaABD, field(0, 0x7)),
			},
		},
	}
}

// Replace returns a copy with every occurrence of input old swapped for new.
func (c CombinerCycle) Replace(old, new string) CombinerCycle {
	for i := range c.RGB {
		if c.RGB[i] == old {
			c.RGB[i] = new
		}
		if c.Alpha[i] == old {
			c.Alpha[i] = new
		}
	}
	return c
}

// RGBFormula renders the RGB equation in readable form.
func (c CombinerCycle) RGBFormula() string {
	return combinerFormula(c.RGB[0], c.RGB[1], c.RGB[2], c.RGB[3])
}

// AlphaFormula renders the alpha equation in readable form.
func (c CombinerCycle) AlphaFormula() string {
	return combinerFormula(c.Alpha[0], c.Alpha[1], c.Alpha[2], c.Alpha[3])
}

func combinerFormula(a, b, c, d string) string {
	var sub string
	switch {
	case a == b:
		sub = SourceZero
	case b == SourceZero:
		sub = a
	case a == SourceZero:
		sub = "- " + b
	default:
		sub = fmt.Sprintf("(%s - %s)", a, b)
	}

	var mul string
	switch {
	case sub == SourceZero, c == SourceZero:
		mul = SourceZero
	case sub == SourceOne:
		mul = c
	case c == SourceOne:
		mul = sub
	default:
		mul = fmt.Sprintf("%s × %s", sub, c)
	}

	switch {
	case mul == SourceZero:
		return d
	case d == SourceZero:
		return mul
	default:
		return fmt.Sprintf("%s + %s", mul, d)
	}
}

package n64

import "fmt"

// SourceFramebufferColor is the blender input that reads back the color buffer.
const SourceFramebufferColor = "Framebuffer Color"

var blenderPM = []string{"Combined Color", SourceFramebufferColor, "Blend Color", "Fog Color"}
var blenderA = []string{"Combined Alpha", "Fog Alpha", "Shade Alpha", "0"}
var blenderB = []string{SourceOneMinusA, "Framebuffer Alpha", "1", "0"}

// BlenderCycle is one cycle of the blender, (p * a + m * b) / (a + b).
type BlenderCycle struct {
	P string `yaml:"p"`
	A string `yaml:"a"`
	M string `yaml:"m"`
	B string `yaml:"b"`
}

// DecodeBlender extracts both blender cycles from the other mode word.
func DecodeBlender(otherMode uint64) [2]BlenderCycle {
	field := func(shift uint64) uint64 { return (otherMode >> shift) & 0x3 }

	return [2]BlenderCycle{
		{P: blenderPM[field(30)], A: blenderA[field(26)], M: blenderPM[field(22)], B: blenderB[field(18)]},
		{P: blenderPM[field(28)], A: blenderA[field(24)], M: blenderPM[field(20)], B: blenderB[field(16)]},
	}
}

// UsesAlpha reports whether any of the given cycles mixes with the
// framebuffer color, which makes the surface translucent.
func UsesAlpha(cycles []BlenderCycle) bool {
	for _, c := range cycles {
		if c.P == SourceFramebufferColor || c.M == SourceFramebufferColor {
			return true
		}
	}
	return false
}

// Replace returns a copy with every occurrence of input old swapped for new.
func (b BlenderCycle) Replace(old, new string) BlenderCycle {
	for _, s := range []*string{&b.P, &b.A, &b.M, &b.B} {
		if *s == old {
			*s = new
		}
	}
	return b
}

// Formula renders the blender equation in readable form.
func (b BlenderCycle) Formula() string {
	pa := SourceZero
	if b.A != SourceZero {
		pa = fmt.Sprintf("%s × %s", b.P, b.A)
	}

	var mb string
	switch b.B {
	case SourceZero:
		mb = SourceZero
	case SourceOne:
		mb = b.M
	default:
		mb = fmt.Sprintf("%s × %s", b.M, b.B)
	}

	var num string
	switch {
	case pa == SourceZero:
		num = mb
	case mb == SourceZero:
		num = pa
	default:
		num = fmt.Sprintf("(%s + %s)", pa, mb)
	}

	var den string
	switch {
	case b.A == SourceZero:
		den = b.B
	case b.B == SourceZero:
		den = b.A
	case b.B == SourceOneMinusA:
		den = SourceOne
	default:
		den = fmt.Sprintf("(%s + %s)", b.A, b.B)
	}

	switch {
	case den == SourceOne:
		return num
	case num == SourceZero:
		return SourceZero
	case num == den:
		return SourceOne
	default:
		return fmt.Sprintf("%s / %s", num, den)
	}
}

// Package n64 decodes the N64 RDP render state captured with each ripped
// triangle: colour combiner and blender inputs, texture sampling modes, and
// microcode-dependent geometry flags.
package n64

import "fmt"

// Microcode identifies the graphics microcode (GBI variant) a game used.
type Microcode uint32

// Microcode ids as reported by the ripper.
const (
	F3D           Microcode = 0
	F3DEX         Microcode = 1
	F3DEX2        Microcode = 2
	L3D           Microcode = 3
	L3DEX         Microcode = 4
	L3DEX2        Microcode = 5
	S2DEX         Microcode = 6
	S2DEX2        Microcode = 7
	F3DEX2CBFD    Microcode = 13
	F3DZEX2OOT    Microcode = 17
	F3DZEX2MM     Microcode = 18
	F3DEX2ACCLAIM Microcode = 21
)

var microcodeNames = map[Microcode]string{
	F3D:           "F3D",
	F3DEX:         "F3DEX",
	F3DEX2:        "F3DEX2",
	L3D:           "L3D",
	L3DEX:         "L3DEX",
	L3DEX2:        "L3DEX2",
	S2DEX:         "S2DEX",
	S2DEX2:        "S2DEX2",
	F3DEX2CBFD:    "F3DEX2CBFD",
	F3DZEX2OOT:    "F3DZEX2OOT",
	F3DZEX2MM:     "F3DZEX2MM",
	F3DEX2ACCLAIM: "F3DEX2ACCLAIM",
}

// String returns the microcode name.
func (m Microcode) String() string {
	if name, ok := microcodeNames[m]; ok {
		return name
	}
	return fmt.Sprintf("Microcode(%d)", uint32(m))
}

// IsF3DEX2Family reports whether the microcode uses the F3DEX2 geometry
// mode bit layout.
func (m Microcode) IsF3DEX2Family() bool {
	switch m {
	case F3DEX2, L3DEX2, S2DEX2, F3DEX2CBFD, F3DZEX2OOT, F3DZEX2MM, F3DEX2ACCLAIM:
		return true
	}
	return false
}

// Geometry mode bits.
const (
	GeometryFog uint32 = 0x10000

	geometryCullBackF3D    uint32 = 0x2000
	geometryCullBackF3DEX2 uint32 = 0x0400
)

// CullBackMask returns the G_CULL_BACK bit for the microcode.
// Families other than F3DEX2 are assumed to follow F3D.
func CullBackMask(m Microcode) uint32 {
	if m.IsF3DEX2Family() {
		return geometryCullBackF3DEX2
	}
	return geometryCullBackF3D
}

// BackfaceCulling reports whether back faces were culled.
func BackfaceCulling(geometryMode uint32, m Microcode) bool {
	return geometryMode&CullBackMask(m) != 0
}

// FogEnabled reports whether G_FOG is set, in which case shade alpha carries
// the per-vertex fog level.
func FogEnabled(geometryMode uint32) bool {
	return geometryMode&GeometryFog != 0
}

// CycleType is the RDP pipeline mode.
type CycleType uint8

// Cycle types.
const (
	Cycle1 CycleType = iota
	Cycle2
	CycleCopy
	CycleFill
)

// String returns the G_CYC_* name.
func (c CycleType) String() string {
	switch c {
	case Cycle1:
		return "1CYCLE"
	case Cycle2:
		return "2CYCLE"
	case CycleCopy:
		return "COPY"
	default:
		return "FILL"
	}
}

// GetCycleType extracts the cycle type from the other mode word.
func GetCycleType(otherMode uint64) CycleType {
	return CycleType((otherMode >> 52) & 0x3)
}

// TextureFilter is the sampling mode of the texture unit.
type TextureFilter uint8

// Texture filters. The RDP's box and bilinear filters both map to Linear.
const (
	FilterClosest TextureFilter = iota
	FilterLinear
)

// String returns the filter name.
func (f TextureFilter) String() string {
	if f == FilterClosest {
		return "Closest"
	}
	return "Linear"
}

// GetTextureFilter extracts the texture filter from the other mode word.
func GetTextureFilter(otherMode uint64) TextureFilter {
	// 0 = point, 1 = invalid, 2 = average, 3 = bilerp
	if (otherMode>>44)&0x3 == 0 {
		return FilterClosest
	}
	return FilterLinear
}

// WrapMode is a texture tile's addressing mode along one axis.
type WrapMode uint8

// Wrap modes.
const (
	WrapRepeat WrapMode = iota
	WrapMirror
	WrapClamp
)

// String returns the wrap mode name.
func (w WrapMode) String() string {
	switch w {
	case WrapRepeat:
		return "Repeat"
	case WrapMirror:
		return "Mirror"
	default:
		return "Clamp"
	}
}

// GetWrapMode converts a tile cm value (bit 0 mirror, bit 1 clamp).
func GetWrapMode(cm uint8) WrapMode {
	switch cm {
	case 0:
		return WrapRepeat
	case 1:
		return WrapMirror
	default:
		return WrapClamp
	}
}

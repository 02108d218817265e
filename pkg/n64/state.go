package n64

// State is the decoded render state of one material.
type State struct {
	Cycle        CycleType       `yaml:"cycle"`
	Combiner     []CombinerCycle `yaml:"combiner"` // One entry per active cycle
	Blender      []BlenderCycle  `yaml:"blender"`
	Filter       TextureFilter   `yaml:"filter"`
	Fog          bool            `yaml:"fog"`
	CullBackface bool            `yaml:"cull_backface"`
	UsesAlpha    bool            `yaml:"uses_alpha"`
}

// Decode interprets the raw mode words of a triangle.
// With fog enabled the shade alpha input is the fog level, so every
// reference to it is renamed. Only the first cycle is kept in 1-cycle mode,
// and only the kept blender cycles decide whether the surface uses alpha.
func Decode(combinerMux, otherMode uint64, geometryMode uint32, m Microcode) State {
	s := State{
		Cycle:        GetCycleType(otherMode),
		Filter:       GetTextureFilter(otherMode),
		Fog:          FogEnabled(geometryMode),
		CullBackface: BackfaceCulling(geometryMode, m),
	}

	combiner := DecodeCombiner(combinerMux)
	blender := DecodeBlender(otherMode)
	if s.Fog {
		for i := range combiner {
			combiner[i] = combiner[i].Replace(SourceShadeAlpha, SourceFogLevel)
			blender[i] = blender[i].Replace(SourceShadeAlpha, SourceFogLevel)
		}
	}

	cycles := 1
	if s.Cycle == Cycle2 {
		cycles = 2
	}
	s.Combiner = append([]CombinerCycle(nil), combiner[:cycles]...)
	s.Blender = append([]BlenderCycle(nil), blender[:cycles]...)
	s.UsesAlpha = UsesAlpha(s.Blender)
	return s
}

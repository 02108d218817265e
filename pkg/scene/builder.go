package scene

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"iter"

	"go.uber.org/zap"

	"github.com/Faultbox/glrimport/pkg/formats"
	"github.com/Faultbox/glrimport/pkg/math"
	"github.com/Faultbox/glrimport/pkg/n64"
	"github.com/Faultbox/glrimport/pkg/texture"
)

// MaterialPrefix starts every material name.
const MaterialPrefix = "N64 Shader "

// Options controls scene assembly.
type Options struct {
	Name               string // Source base name, used in group names
	Filter             Filter
	EnableFog          bool
	EnableTransparency bool
	BackfaceCulling    bool
	KeepSourceAxes     bool // Skip the Y-up to Z-up conversion
	Transform          TransformHint
	Textures           *texture.Resolver // Nil names textures by CRC only
	ProbeTextures      bool              // Read image dimensions from Textures.Dir
	Logger             *zap.Logger
}

// Builder assembles a Description from a record stream.
type Builder struct {
	opts Options
	log  *zap.Logger
	desc *Description

	group    *MeshGroup
	groupIdx int
	up       formats.UpAxis

	// Object-local staging. Vertices are only copied into the group once a
	// kept triangle references them.
	staged     []formats.GLRVertex
	remap      []int32
	materials  map[MaterialKey]int
	materialOf []int
	dropped    int

	fog *formats.GLRFogRecord
	mat *formats.GLRMaterialRecord
	tex *formats.GLRTextureRecord
}

// NewBuilder returns a builder with no groups.
func NewBuilder(opts Options) *Builder {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Builder{
		opts:     opts,
		log:      log,
		desc:     &Description{Source: opts.Name, Transform: opts.Transform},
		groupIdx: -1,
	}
}

// Build consumes records until the sequence ends or fails.
func Build(records iter.Seq2[formats.GLRRecord, error], opts Options) (*Description, error) {
	b := NewBuilder(opts)
	for rec, err := range records {
		if err != nil {
			return nil, err
		}
		if err := b.Add(rec); err != nil {
			return nil, err
		}
	}
	return b.Finish()
}

// Add feeds one record to the builder.
func (b *Builder) Add(rec formats.GLRRecord) error {
	if rec.Kind() != formats.GLRRecordObject && b.group == nil {
		return b.assemblyError(rec, -1, "object record", rec.Kind().String())
	}

	switch r := rec.(type) {
	case formats.GLRObjectRecord:
		b.finishGroup()
		b.startGroup(r)
	case formats.GLRTransformRecord:
		b.up = r.Up
	case formats.GLRVertexRecord:
		if int(r.Index) != len(b.staged) {
			return b.assemblyError(rec, -1, fmt.Sprintf("vertex %d", len(b.staged)), fmt.Sprintf("vertex %d", r.Index))
		}
		b.staged = append(b.staged, r.Vertex)
		b.remap = append(b.remap, -1)
	case formats.GLRFogRecord:
		b.fog = &r
	case formats.GLRMaterialRecord:
		b.mat = &r
	case formats.GLRTextureRecord:
		b.tex = &r
	case formats.GLRTriangleRecord:
		return b.addTriangle(r)
	default:
		return b.assemblyError(rec, -1, "known record", fmt.Sprintf("%T", rec))
	}
	return nil
}

// Finish closes the last group and validates the result.
func (b *Builder) Finish() (*Description, error) {
	b.finishGroup()
	if err := Validate(b.desc); err != nil {
		return nil, err
	}
	return b.desc, nil
}

func (b *Builder) startGroup(r formats.GLRObjectRecord) {
	b.groupIdx++
	name := r.Header.ROMName
	if b.opts.Name != "" {
		name = fmt.Sprintf("%s (%s)", r.Header.ROMName, b.opts.Name)
	}
	if b.groupIdx > 0 {
		name = fmt.Sprintf("%s [%d]", name, b.groupIdx)
	}

	b.group = &MeshGroup{
		Name:      name,
		ROMName:   r.Header.ROMName,
		Microcode: n64.Microcode(r.Header.Microcode),
	}
	b.up = formats.UpAxisY
	b.staged = b.staged[:0]
	b.remap = b.remap[:0]
	b.materials = make(map[MaterialKey]int)
	b.materialOf = b.materialOf[:0]
	b.dropped = 0
	b.fog, b.mat, b.tex = nil, nil, nil

	b.log.Debug("object started",
		zap.Int("index", r.Index),
		zap.String("rom", r.Header.ROMName),
		zap.Stringer("microcode", b.group.Microcode),
		zap.Uint32("triangles", r.Header.TriangleCount))
}

func (b *Builder) finishGroup() {
	g := b.group
	if g == nil {
		return
	}
	g.Rebind(b.materialOf)
	b.desc.Groups = append(b.desc.Groups, g)
	b.group = nil

	b.log.Debug("object assembled",
		zap.String("name", g.Name),
		zap.Int("vertices", len(g.Vertices)),
		zap.Int("triangles", len(g.Triangles)),
		zap.Int("dropped", b.dropped),
		zap.Int("materials", len(g.Materials)),
		zap.Int("bindings", len(g.Bindings)))
}

func (b *Builder) addTriangle(r formats.GLRTriangleRecord) error {
	switch {
	case b.fog == nil:
		return b.assemblyError(r, int(r.Index), "fog record", "triangle")
	case b.mat == nil:
		return b.assemblyError(r, int(r.Index), "material record", "triangle")
	case b.tex == nil:
		return b.assemblyError(r, int(r.Index), "texture record", "triangle")
	}
	fog, mat, tex := b.fog.Fog, b.mat.Material, b.tex.Textures
	b.fog, b.mat, b.tex = nil, nil, nil

	for _, idx := range r.Vertices {
		if int(idx) >= len(b.staged) {
			return &AssemblyError{
				Group:    b.groupIdx,
				Triangle: int(r.Index),
				Offset:   r.Offset(),
				Record:   formats.GLRRecordTriangle,
				Expected: fmt.Sprintf("index < %d", len(b.staged)),
				Actual:   fmt.Sprintf("%d", idx),
				Err:      ErrDanglingIndex,
			}
		}
	}

	name := b.opts.Textures.Name(tex[0].CRC)
	if !b.opts.Filter.Keep(name, texture.CRCName(tex[0].CRC)) {
		b.dropped++
		return nil
	}

	matIdx, err := b.material(mat, tex)
	if err != nil {
		return err
	}
	fogOn := b.group.Materials[matIdx].Fog
	if fogOn && b.desc.Fog == nil {
		b.desc.Fog = &Fog{Color: fog.Color, Multiplier: fog.Multiplier, Offset: fog.Offset}
	}

	tri := Triangle{Colors: FaceColors{Prim: mat.Prim, Env: mat.Env, Blend: mat.Blend}}
	if fogOn {
		tri.Colors.Fog = fog.Color
	}
	for i, idx := range r.Vertices {
		tri.Indices[i] = b.emitVertex(idx, fogOn)
	}
	b.group.Triangles = append(b.group.Triangles, tri)
	b.materialOf = append(b.materialOf, matIdx)
	return nil
}

func (b *Builder) emitVertex(idx uint32, fogOn bool) uint32 {
	if out := b.remap[idx]; out >= 0 {
		return uint32(out)
	}
	src := &b.staged[idx]
	pos := math.Vec3{X: src.Position[0], Y: src.Position[1], Z: src.Position[2]}
	if b.up == formats.UpAxisY && !b.opts.KeepSourceAxes {
		pos = pos.YUpToZUp()
	}
	v := Vertex{
		Position: pos,
		Color:    src.Color,
		UV0:      math.Vec2{X: src.UV0[0], Y: src.UV0[1]},
		UV1:      math.Vec2{X: src.UV1[0], Y: src.UV1[1]},
	}
	if fogOn {
		v.FogLevel = src.Color[3]
		if v.FogLevel != 0 {
			b.group.HasFogLevel = true
		}
	}

	out := len(b.group.Vertices)
	b.group.Vertices = append(b.group.Vertices, v)
	b.remap[idx] = int32(out)
	return uint32(out)
}

// material returns the index of the group material for the triangle state,
// creating it on first use.
func (b *Builder) material(m formats.GLRMaterial, tex [2]formats.GLRTextureRef) (int, error) {
	key := MaterialKey{
		CombinerMux:  m.CombinerMux,
		OtherMode:    m.OtherMode,
		GeometryMode: m.GeometryMode,
		Tex0:         TextureKey{CRC: tex[0].CRC, WrapS: tex[0].WrapS, WrapT: tex[0].WrapT},
		Tex1:         TextureKey{CRC: tex[1].CRC, WrapS: tex[1].WrapS, WrapT: tex[1].WrapT},
	}
	if idx, ok := b.materials[key]; ok {
		return idx, nil
	}

	state := n64.Decode(m.CombinerMux, m.OtherMode, m.GeometryMode, b.group.Microcode)
	mat := Material{
		Key:          key,
		State:        state,
		CullBackface: state.CullBackface && b.opts.BackfaceCulling,
		Transparent:  state.UsesAlpha && b.opts.EnableTransparency,
		Fog:          state.Fog && b.opts.EnableFog,
	}
	for i, ref := range tex {
		slot := TextureSlot{
			Name:   b.opts.Textures.Name(ref.CRC),
			CRC:    ref.CRC,
			Filter: state.Filter,
			WrapS:  n64.GetWrapMode(ref.WrapS),
			WrapT:  n64.GetWrapMode(ref.WrapT),
			MaskS:  ref.MaskS,
			MaskT:  ref.MaskT,
			UVMap:  fmt.Sprintf("UV%d", i),
		}
		if b.opts.ProbeTextures && b.opts.Textures != nil {
			info, err := b.opts.Textures.Probe(ref.CRC)
			if err != nil {
				return 0, fmt.Errorf("probing texture %s: %w", slot.Name, err)
			}
			slot.File = &info
		}
		mat.Textures[i] = slot
	}
	mat.Name = MaterialPrefix + materialHash(&mat)

	idx := len(b.group.Materials)
	b.group.Materials = append(b.group.Materials, mat)
	b.materials[key] = idx
	return idx, nil
}

// materialHash fingerprints everything that affects how a material renders,
// so equal states share a name across imports.
func materialHash(m *Material) string {
	h := sha256.New()
	fmt.Fprintf(h, "%v|%v|%v|%v|%v", m.State.Combiner, m.State.Blender, m.State.Fog, m.CullBackface, m.Transparent)
	for _, t := range m.Textures {
		fmt.Fprintf(h, "|%016X:%v:%v:%v", t.CRC, t.Filter, t.WrapS, t.WrapT)
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

func (b *Builder) assemblyError(rec formats.GLRRecord, tri int, expected, actual string) error {
	return &AssemblyError{
		Group:    b.groupIdx,
		Triangle: tri,
		Offset:   rec.Offset(),
		Record:   rec.Kind(),
		Expected: expected,
		Actual:   actual,
		Err:      ErrSceneAssembly,
	}
}

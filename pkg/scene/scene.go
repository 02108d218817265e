// Package scene assembles decoded GLR records into a neutral scene
// description: mesh groups with vertex and triangle pools, de-duplicated
// materials, and texture bindings covering runs of triangles.
package scene

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/glrimport/pkg/math"
	"github.com/Faultbox/glrimport/pkg/n64"
	"github.com/Faultbox/glrimport/pkg/texture"
)

// Vertex is one output vertex.
type Vertex struct {
	Position math.Vec3  `yaml:"position,flow"`
	Color    [4]float32 `yaml:"color,flow"` // Shade RGBA
	UV0      math.Vec2  `yaml:"uv0,flow"`
	UV1      math.Vec2  `yaml:"uv1,flow"`
	FogLevel float32    `yaml:"fog_level"`
}

// SameAttributes reports whether every non-positional attribute of v and o
// has an identical bit pattern.
func (v Vertex) SameAttributes(o Vertex) bool {
	if !v.UV0.BitsEqual(o.UV0) || !v.UV1.BitsEqual(o.UV1) {
		return false
	}
	for i := range v.Color {
		if math32.Float32bits(v.Color[i]) != math32.Float32bits(o.Color[i]) {
			return false
		}
	}
	return math32.Float32bits(v.FogLevel) == math32.Float32bits(o.FogLevel)
}

// FaceColors are the per-triangle RDP colour registers.
type FaceColors struct {
	Prim  [4]float32 `yaml:"prim,flow"`
	Env   [4]float32 `yaml:"env,flow"`
	Blend [4]float32 `yaml:"blend,flow"`
	Fog   [4]float32 `yaml:"fog,flow"` // Zero unless fog is enabled
}

// Triangle references three vertices of its group.
type Triangle struct {
	Indices [3]uint32  `yaml:"indices,flow"`
	Colors  FaceColors `yaml:"colors"`
}

// Degenerate reports whether two corners share a vertex.
func (t Triangle) Degenerate() bool {
	i := t.Indices
	return i[0] == i[1] || i[1] == i[2] || i[0] == i[2]
}

// TextureKey identifies a texture tile within a material key.
type TextureKey struct {
	CRC   uint64
	WrapS uint8
	WrapT uint8
}

// MaterialKey is the captured state that distinguishes one material from
// another.
type MaterialKey struct {
	CombinerMux  uint64
	OtherMode    uint64
	GeometryMode uint32
	Tex0, Tex1   TextureKey
}

// TextureSlot describes one of the two texture units of a material.
type TextureSlot struct {
	Name   string            `yaml:"name"`
	CRC    uint64            `yaml:"crc"`
	Filter n64.TextureFilter `yaml:"filter"`
	WrapS  n64.WrapMode      `yaml:"wrap_s"`
	WrapT  n64.WrapMode      `yaml:"wrap_t"`
	MaskS  uint8             `yaml:"mask_s"`
	MaskT  uint8             `yaml:"mask_t"`
	UVMap  string            `yaml:"uv_map"`
	File   *texture.Info     `yaml:"file,omitempty"`
}

// Material is the decoded render state shared by a set of triangles.
type Material struct {
	Name         string         `yaml:"name"` // "N64 Shader <hash>", stable across imports
	Key          MaterialKey    `yaml:"-"`
	State        n64.State      `yaml:"state"`
	Textures     [2]TextureSlot `yaml:"textures"`
	CullBackface bool           `yaml:"cull_backface"`
	Transparent  bool           `yaml:"transparent"`
	Fog          bool           `yaml:"fog"`
}

// TextureBinding assigns a material to a contiguous run of triangles.
type TextureBinding struct {
	Name            string `yaml:"name"` // Texture 0 name, extension-free
	Material        int    `yaml:"material"`
	Start           int    `yaml:"start"`
	Count           int    `yaml:"count"`
	Transparent     bool   `yaml:"transparent"`
	BackfaceCulling bool   `yaml:"backface_culling"`
	Fog             bool   `yaml:"fog"`
}

// End returns the index one past the last triangle of the run.
func (b TextureBinding) End() int {
	return b.Start + b.Count
}

// MeshGroup is the geometry of one imported object.
type MeshGroup struct {
	Name        string           `yaml:"name"`
	ROMName     string           `yaml:"rom_name"`
	Microcode   n64.Microcode    `yaml:"microcode"`
	Vertices    []Vertex         `yaml:"vertices"`
	Triangles   []Triangle       `yaml:"triangles"`
	Bindings    []TextureBinding `yaml:"bindings"`
	Materials   []Material       `yaml:"materials"`
	HasFogLevel bool             `yaml:"has_fog_level"`
}

// Clone returns a deep copy of the group.
func (g *MeshGroup) Clone() *MeshGroup {
	c := *g
	c.Vertices = append([]Vertex(nil), g.Vertices...)
	c.Triangles = append([]Triangle(nil), g.Triangles...)
	c.Bindings = append([]TextureBinding(nil), g.Bindings...)
	c.Materials = append([]Material(nil), g.Materials...)
	return &c
}

// TriangleMaterials expands the bindings into one material index per triangle.
func (g *MeshGroup) TriangleMaterials() []int {
	out := make([]int, len(g.Triangles))
	for _, b := range g.Bindings {
		for i := b.Start; i < b.End() && i < len(out); i++ {
			out[i] = b.Material
		}
	}
	return out
}

// Rebind replaces the bindings with runs built from one material index per
// triangle. Consecutive triangles sharing a material form a single run.
func (g *MeshGroup) Rebind(materialOf []int) {
	g.Bindings = g.Bindings[:0]
	for i, m := range materialOf {
		if n := len(g.Bindings); n > 0 && g.Bindings[n-1].Material == m {
			g.Bindings[n-1].Count++
			continue
		}
		mat := &g.Materials[m]
		g.Bindings = append(g.Bindings, TextureBinding{
			Name:            mat.Textures[0].Name,
			Material:        m,
			Start:           i,
			Count:           1,
			Transparent:     mat.Transparent,
			BackfaceCulling: mat.CullBackface,
			Fog:             mat.Fog,
		})
	}
}

// BindingNames returns the distinct texture names bound in the group, in
// first-use order.
func (g *MeshGroup) BindingNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, b := range g.Bindings {
		if !seen[b.Name] {
			seen[b.Name] = true
			names = append(names, b.Name)
		}
	}
	return names
}

// Fog holds the scene-wide fog parameters.
type Fog struct {
	Color      [4]float32 `yaml:"color,flow"`
	Multiplier float32    `yaml:"multiplier"`
	Offset     float32    `yaml:"offset"`
}

// Description is the complete result of an import.
type Description struct {
	Source    string        `yaml:"source,omitempty"`
	Groups    []*MeshGroup  `yaml:"groups"`
	Fog       *Fog          `yaml:"fog,omitempty"`
	Transform TransformHint `yaml:"transform"`
}

// VertexCount returns the number of vertices across all groups.
func (d *Description) VertexCount() int {
	total := 0
	for _, g := range d.Groups {
		total += len(g.Vertices)
	}
	return total
}

// TriangleCount returns the number of triangles across all groups.
func (d *Description) TriangleCount() int {
	total := 0
	for _, g := range d.Groups {
		total += len(g.Triangles)
	}
	return total
}

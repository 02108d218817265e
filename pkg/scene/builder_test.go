package scene

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/glrimport/pkg/formats"
	"github.com/Faultbox/glrimport/pkg/math"
	"github.com/Faultbox/glrimport/pkg/n64"
)

func TestBuildSingleObject(t *testing.T) {
	d := mustBuild(t, Options{Name: "level", Textures: lavaResolver()},
		testTriangle(crcRock, 0), testTriangle(crcRock, 2))

	g := d.Groups[0]
	assert.Equal(t, "TEST GAME (level)", g.Name)
	assert.Equal(t, "TEST GAME", g.ROMName)
	assert.Equal(t, n64.F3DEX2, g.Microcode)
	assert.Len(t, g.Vertices, 6)
	assert.Len(t, g.Triangles, 2)
	assert.Equal(t, [3]uint32{3, 4, 5}, g.Triangles[1].Indices)
	assert.Equal(t, [4]float32{0.1, 0.2, 0.3, 1}, g.Triangles[0].Colors.Prim)

	require.Len(t, g.Materials, 1)
	assert.True(t, strings.HasPrefix(g.Materials[0].Name, MaterialPrefix))
	assert.Len(t, g.Materials[0].Name, len(MaterialPrefix)+16)
	assert.Equal(t, "rock", g.Materials[0].Textures[0].Name)
	assert.Equal(t, "NO_TEXTURE", g.Materials[0].Textures[1].Name)
	assert.Equal(t, "UV1", g.Materials[0].Textures[1].UVMap)

	require.Len(t, g.Bindings, 1)
	assert.Equal(t, TextureBinding{Name: "rock", Material: 0, Start: 0, Count: 2}, g.Bindings[0])
	assert.Equal(t, 6, d.VertexCount())
	assert.Equal(t, 2, d.TriangleCount())
}

func TestBuildAxisConversion(t *testing.T) {
	tri := testTriangle(crcRock, 0)
	tri.Vertices[0].Position = [3]float32{1, 2, 3}

	d := mustBuild(t, Options{}, tri)
	assert.Equal(t, math.Vec3{X: 1, Y: -3, Z: 2}, d.Groups[0].Vertices[0].Position)

	d = mustBuild(t, Options{KeepSourceAxes: true}, tri)
	assert.Equal(t, math.Vec3{X: 1, Y: 2, Z: 3}, d.Groups[0].Vertices[0].Position)
}

func TestBuildLavaFilter(t *testing.T) {
	tris := []formats.GLRTriangle{
		testTriangle(crcRock, 0),
		testTriangle(crcLava, 2),
		testTriangle(crcRock, 4),
	}

	t.Run("blacklist", func(t *testing.T) {
		d := mustBuild(t, Options{Textures: lavaResolver(), Filter: NewFilter(Blacklist, []string{"lava"}, false)}, tris...)
		g := d.Groups[0]
		assert.Len(t, g.Triangles, 2)
		assert.Len(t, g.Vertices, 6)
		assert.Equal(t, []string{"rock"}, g.BindingNames())
		// The surviving rock triangles are adjacent once lava is gone.
		require.Len(t, g.Bindings, 1)
		assert.Equal(t, 2, g.Bindings[0].Count)
		assert.Equal(t, float32(4), g.Vertices[3].Position.X)
	})

	t.Run("whitelist", func(t *testing.T) {
		d := mustBuild(t, Options{Textures: lavaResolver(), Filter: NewFilter(Whitelist, []string{"lava"}, false)}, tris...)
		g := d.Groups[0]
		assert.Len(t, g.Triangles, 1)
		assert.Len(t, g.Vertices, 3)
		assert.Equal(t, []string{"lava"}, g.BindingNames())
		assert.Equal(t, [3]uint32{0, 1, 2}, g.Triangles[0].Indices)
	})

	t.Run("by crc name", func(t *testing.T) {
		d := mustBuild(t, Options{Textures: lavaResolver(), Filter: NewFilter(Blacklist, []string{"00000000000000AB.png"}, false)}, tris...)
		assert.Len(t, d.Groups[0].Triangles, 2)
	})

	t.Run("case", func(t *testing.T) {
		d := mustBuild(t, Options{Textures: lavaResolver(), Filter: NewFilter(Blacklist, []string{"LAVA"}, false)}, tris...)
		assert.Len(t, d.Groups[0].Triangles, 3)

		d = mustBuild(t, Options{Textures: lavaResolver(), Filter: NewFilter(Blacklist, []string{"LAVA"}, true)}, tris...)
		assert.Len(t, d.Groups[0].Triangles, 2)
	})
}

func TestBuildFilterComplementary(t *testing.T) {
	tris := []formats.GLRTriangle{
		testTriangle(crcRock, 0),
		testTriangle(crcLava, 1),
		testTriangle(crcWater, 2),
		testTriangle(0, 3),
		testTriangle(crcLava, 4),
	}
	lists := [][]string{
		nil,
		{"lava"},
		{"rock", "water"},
		{"NO_TEXTURE"},
		{"rock", "lava", "water", "NO_TEXTURE"},
		{"missing"},
	}

	for _, names := range lists {
		black := mustBuild(t, Options{Textures: lavaResolver(), Filter: NewFilter(Blacklist, names, false)}, tris...)
		white := mustBuild(t, Options{Textures: lavaResolver(), Filter: NewFilter(Whitelist, names, false)}, tris...)
		assert.Equal(t, len(tris), black.TriangleCount()+white.TriangleCount(), "names %v", names)
		assert.Equal(t, 3*len(tris), black.VertexCount()+white.VertexCount(), "names %v", names)
	}
}

func TestBuildMaterials(t *testing.T) {
	a := testTriangle(crcRock, 0)
	b := testTriangle(crcRock, 1)
	b.Material.CombinerMux = 0x00127E03_FFFFF3F8
	c := testTriangle(crcRock, 2)

	d := mustBuild(t, Options{}, a, b, c)
	g := d.Groups[0]
	require.Len(t, g.Materials, 2)
	assert.NotEqual(t, g.Materials[0].Name, g.Materials[1].Name)

	require.Len(t, g.Bindings, 3)
	assert.Equal(t, []int{0, 1, 0}, g.TriangleMaterials())
	for i, bnd := range g.Bindings {
		assert.Equal(t, i, bnd.Start)
		assert.Equal(t, 1, bnd.Count)
	}

	// Same state, same name, across builds.
	again := mustBuild(t, Options{}, c)
	assert.Equal(t, g.Materials[0].Name, again.Groups[0].Materials[0].Name)
}

func TestBuildMaterialFlags(t *testing.T) {
	tri := testTriangle(crcRock, 0)
	tri.Material.GeometryMode = 0x0400
	tri.Material.OtherMode = uint64(1) << 22 // blender M1 = framebuffer color

	d := mustBuild(t, Options{BackfaceCulling: true, EnableTransparency: true}, tri)
	m := d.Groups[0].Materials[0]
	assert.True(t, m.State.CullBackface)
	assert.True(t, m.CullBackface)
	assert.True(t, m.Transparent)
	assert.True(t, d.Groups[0].Bindings[0].BackfaceCulling)
	assert.True(t, d.Groups[0].Bindings[0].Transparent)

	d = mustBuild(t, Options{}, tri)
	m = d.Groups[0].Materials[0]
	assert.True(t, m.State.CullBackface)
	assert.False(t, m.CullBackface)
	assert.False(t, m.Transparent)

	// Alpha compare alone keeps an opaque blender.
	tested := testTriangle(crcRock, 0)
	tested.Material.OtherMode = 0x1
	d = mustBuild(t, Options{EnableTransparency: true}, tested)
	assert.False(t, d.Groups[0].Materials[0].Transparent)
	assert.False(t, d.Groups[0].Bindings[0].Transparent)
}

func TestBuildFog(t *testing.T) {
	tri := testTriangle(crcRock, 0)
	tri.Material.GeometryMode = n64.GeometryFog
	tri.Fog = formats.GLRFog{Color: [4]float32{0.5, 0.5, 0.5, 1}, Multiplier: 2, Offset: -1}
	plain := testTriangle(crcRock, 2)

	t.Run("enabled", func(t *testing.T) {
		d := mustBuild(t, Options{EnableFog: true}, plain, tri)
		g := d.Groups[0]
		require.NotNil(t, d.Fog)
		assert.Equal(t, Fog{Color: [4]float32{0.5, 0.5, 0.5, 1}, Multiplier: 2, Offset: -1}, *d.Fog)
		assert.True(t, g.HasFogLevel)
		assert.Equal(t, float32(0), g.Vertices[0].FogLevel)
		assert.Equal(t, float32(0.75), g.Vertices[3].FogLevel)
		assert.Equal(t, [4]float32{0.5, 0.5, 0.5, 1}, g.Triangles[1].Colors.Fog)
		assert.True(t, g.Materials[1].Fog)
		assert.Equal(t, n64.SourceFogLevel, g.Materials[1].State.Combiner[0].Alpha[3])
	})

	t.Run("disabled", func(t *testing.T) {
		d := mustBuild(t, Options{}, plain, tri)
		g := d.Groups[0]
		assert.Nil(t, d.Fog)
		assert.False(t, g.HasFogLevel)
		for _, v := range g.Vertices {
			assert.Zero(t, v.FogLevel)
		}
		assert.Zero(t, g.Triangles[1].Colors.Fog)
		assert.False(t, g.Bindings[1].Fog)
	})

	t.Run("zero levels", func(t *testing.T) {
		faded := tri
		for i := range faded.Vertices {
			faded.Vertices[i].Color[3] = 0
		}
		d := mustBuild(t, Options{EnableFog: true}, faded)
		g := d.Groups[0]
		require.NotNil(t, d.Fog)
		assert.False(t, g.HasFogLevel)
		assert.True(t, g.Materials[0].Fog)
	})
}

func TestBuildMultipleObjects(t *testing.T) {
	data := encodeObjects(testObject(testTriangle(crcRock, 0)), testObject(testTriangle(crcLava, 0), testTriangle(crcLava, 1)))
	d, err := buildBytes(t, data, Options{Name: "rip"})
	require.NoError(t, err)
	require.Len(t, d.Groups, 2)
	assert.Equal(t, "TEST GAME (rip)", d.Groups[0].Name)
	assert.Equal(t, "TEST GAME (rip) [1]", d.Groups[1].Name)
	assert.Len(t, d.Groups[1].Vertices, 6)
	assert.Equal(t, [3]uint32{0, 1, 2}, d.Groups[1].Triangles[0].Indices)
}

func TestBuildTransformHint(t *testing.T) {
	hint := TransformHint{Translation: math.Vec3{X: 5}, Scale: math.Vec3{X: 2, Y: 2, Z: 2}}
	tri := testTriangle(crcRock, 0)
	tri.Vertices[1].Position = [3]float32{1, 0, 0}

	d := mustBuild(t, Options{Transform: hint}, tri)
	assert.Equal(t, hint, d.Transform)
	// The hint is not applied to geometry.
	assert.Equal(t, float32(1), d.Groups[0].Vertices[1].Position.X)
}

func TestBuildEmpty(t *testing.T) {
	d, err := buildBytes(t, nil, Options{})
	require.NoError(t, err)
	assert.Empty(t, d.Groups)

	d = mustBuild(t, Options{})
	assert.Empty(t, d.Groups[0].Triangles)
	assert.Empty(t, d.Groups[0].Bindings)
}

func TestBuildDecodeErrorPassesThrough(t *testing.T) {
	data := encodeObjects(testObject(testTriangle(crcRock, 0)))
	_, err := buildBytes(t, data[:len(data)-1], Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, formats.ErrTruncatedData)

	var decErr *formats.DecodeError
	assert.ErrorAs(t, err, &decErr)
}

// feed pushes hand-made records through a builder, stopping at the first error.
func feed(b *Builder, records ...formats.GLRRecord) error {
	for _, rec := range records {
		if err := b.Add(rec); err != nil {
			return err
		}
	}
	return nil
}

func TestBuildDanglingIndex(t *testing.T) {
	b := NewBuilder(Options{})
	err := feed(b,
		formats.GLRObjectRecord{Header: formats.GLRHeader{ROMName: "X"}},
		formats.GLRTransformRecord{},
		formats.GLRVertexRecord{Index: 0},
		formats.GLRVertexRecord{Index: 1},
		formats.GLRVertexRecord{Index: 2},
		formats.GLRFogRecord{},
		formats.GLRMaterialRecord{},
		formats.GLRTextureRecord{},
		formats.GLRTriangleRecord{Vertices: [3]uint32{0, 1, 7}},
	)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDanglingIndex)

	var asmErr *AssemblyError
	require.ErrorAs(t, err, &asmErr)
	assert.Equal(t, 0, asmErr.Group)
	assert.Equal(t, "7", asmErr.Actual)
	assert.Equal(t, "index < 3", asmErr.Expected)
}

func TestBuildAssemblyErrors(t *testing.T) {
	obj := formats.GLRObjectRecord{Header: formats.GLRHeader{ROMName: "X"}}

	tests := []struct {
		name    string
		records []formats.GLRRecord
	}{
		{"vertex before object", []formats.GLRRecord{formats.GLRVertexRecord{}}},
		{"out of order vertex", []formats.GLRRecord{obj, formats.GLRVertexRecord{Index: 1}}},
		{"triangle without state", []formats.GLRRecord{obj,
			formats.GLRVertexRecord{Index: 0},
			formats.GLRTriangleRecord{},
		}},
		{"triangle without texture", []formats.GLRRecord{obj,
			formats.GLRVertexRecord{Index: 0},
			formats.GLRFogRecord{},
			formats.GLRMaterialRecord{},
			formats.GLRTriangleRecord{},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := feed(NewBuilder(Options{}), tt.records...)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSceneAssembly), "got %v", err)
		})
	}
}

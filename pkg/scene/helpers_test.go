package scene

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/glrimport/pkg/formats"
	"github.com/Faultbox/glrimport/pkg/texture"
)

const (
	crcRock  uint64 = 0x00000000000000AA
	crcLava  uint64 = 0x00000000000000AB
	crcWater uint64 = 0x00000000000000AC

	muxShade uint64 = 0x00FFFFFF_FFFE793C
)

// testTriangle returns a triangle at x offset dx bound to texture crc.
func testTriangle(crc uint64, dx float32) formats.GLRTriangle {
	var tri formats.GLRTriangle
	corners := [3][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	for i, c := range corners {
		tri.Vertices[i] = formats.GLRVertex{
			Position: [3]float32{c[0] + dx, c[1], c[2]},
			Color:    [4]float32{1, 0.5, 0.25, 0.75},
			UV0:      [2]float32{c[0], c[1]},
		}
	}
	tri.Material.CombinerMux = muxShade
	tri.Material.Prim = [4]float32{0.1, 0.2, 0.3, 1}
	tri.Textures[0].CRC = crc
	return tri
}

func encodeObjects(objects ...formats.GLRObject) []byte {
	return formats.EncodeGLR(&formats.GLR{Objects: objects})
}

func testObject(tris ...formats.GLRTriangle) formats.GLRObject {
	return formats.GLRObject{
		Header:    formats.GLRHeader{ROMName: "TEST GAME", Microcode: uint32(2)},
		Triangles: tris,
	}
}

func buildBytes(t *testing.T, data []byte, opts Options) (*Description, error) {
	t.Helper()
	return Build(formats.NewGLRReader(bytes.NewReader(data)).Records(), opts)
}

func mustBuild(t *testing.T, opts Options, tris ...formats.GLRTriangle) *Description {
	t.Helper()
	d, err := buildBytes(t, encodeObjects(testObject(tris...)), opts)
	require.NoError(t, err)
	require.Len(t, d.Groups, 1)
	return d
}

// lavaResolver names the test textures by alias.
func lavaResolver() *texture.Resolver {
	r := texture.NewResolver("")
	r.Aliases = map[string]string{
		texture.CRCName(crcRock):  "rock",
		texture.CRCName(crcLava):  "lava",
		texture.CRCName(crcWater): "water",
	}
	return r
}

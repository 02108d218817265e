package texture

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewNRGBA(image.Rect(0, 0, w, h))))
}

func TestCRCName(t *testing.T) {
	assert.Equal(t, NoTexture, CRCName(0))
	assert.Equal(t, "0123456789ABCDEF", CRCName(0x0123456789ABCDEF))
	assert.Equal(t, "00000000000000FF", CRCName(0xFF))
}

func TestParseCRC(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{"NO_TEXTURE", 0, false},
		{"0123456789ABCDEF", 0x0123456789ABCDEF, false},
		{"0123456789abcdef.png", 0x0123456789ABCDEF, false},
		{" FF ", 0xFF, false},
		{"lava", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCRC(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidName)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStripExtension(t *testing.T) {
	assert.Equal(t, "lava", StripExtension("lava.png"))
	assert.Equal(t, "lava", StripExtension("lava"))
	assert.Equal(t, "archive.tar", StripExtension("archive.tar.gz"))
}

func TestResolverName(t *testing.T) {
	r := &Resolver{Aliases: map[string]string{"0123456789ABCDEF": "lava"}}

	assert.Equal(t, "lava", r.Name(0x0123456789ABCDEF))
	assert.Equal(t, "00000000000000FF", r.Name(0xFF))
	assert.Equal(t, NoTexture, r.Name(0))

	var nilResolver *Resolver
	assert.Equal(t, "00000000000000FF", nilResolver.Name(0xFF))
}

func TestResolverProbe(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "0123456789ABCDEF.png"), 32, 16)

	r := NewResolver(dir)

	info, err := r.Probe(0x0123456789ABCDEF)
	require.NoError(t, err)
	assert.False(t, info.Missing)
	assert.Equal(t, "png", info.Format)
	assert.Equal(t, 32, info.Width)
	assert.Equal(t, 16, info.Height)
	assert.Equal(t, filepath.Join(dir, "0123456789ABCDEF.png"), info.Path)

	missing, err := r.Probe(0xFF)
	require.NoError(t, err)
	assert.True(t, missing.Missing)
	assert.Empty(t, missing.Path)

	none, err := r.Probe(0)
	require.NoError(t, err)
	assert.True(t, none.Missing)
	assert.Equal(t, NoTexture, none.Name)
}

func TestResolverProbeCorruptImage(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "00000000000000AA.png"), []byte("not an image"), 0644))

	_, err := NewResolver(dir).Probe(0xAA)
	assert.Error(t, err)
}

func TestResolverProbeCaches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "00000000000000AA.png")
	writePNG(t, path, 8, 8)

	r := NewResolver(dir)
	first, err := r.Probe(0xAA)
	require.NoError(t, err)

	require.NoError(t, os.Remove(path))
	second, err := r.Probe(0xAA)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestLoadAliases(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "aliases.yaml")
	content := "0123456789abcdef: lava\nFF.png: water\nNO_TEXTURE: flat\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	aliases, err := LoadAliases(path)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"0123456789ABCDEF": "lava",
		"00000000000000FF": "water",
		NoTexture:          "flat",
	}, aliases)
}

func TestLoadAliasesInvalid(t *testing.T) {
	dir := t.TempDir()

	badKey := filepath.Join(dir, "bad_key.yaml")
	require.NoError(t, os.WriteFile(badKey, []byte("lava: lava\n"), 0644))
	_, err := LoadAliases(badKey)
	assert.ErrorIs(t, err, ErrInvalidName)

	badYAML := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(badYAML, []byte("- not\n- a map\n"), 0644))
	_, err = LoadAliases(badYAML)
	assert.Error(t, err)

	_, err = LoadAliases(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestResolverProbeExtensionOrder(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "00000000000000BB.png"), 4, 4)

	r := &Resolver{Dir: dir, Extensions: []string{".tga", ".PNG"}}
	info, err := r.Probe(0xBB)
	require.NoError(t, err)
	assert.Equal(t, "png", info.Format)
	assert.Equal(t, 4, info.Width)

	_, err = (&Resolver{Dir: dir, Extensions: []string{".gif"}}).Probe(0xBB)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

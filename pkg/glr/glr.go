// Package glr imports GLR scene rips: it decodes the file, assembles the
// scene with texture filtering, welds duplicate vertices, and validates the
// result before handing it back.
package glr

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/glrimport/pkg/formats"
	"github.com/Faultbox/glrimport/pkg/scene"
	"github.com/Faultbox/glrimport/pkg/texture"
	"github.com/Faultbox/glrimport/pkg/weld"
)

// Options is the import configuration.
type Options struct {
	Name               string // Source name for group naming; ImportFile defaults it to the file's base name
	Filter             scene.Filter
	EnableFog          bool
	MergeTriangles     bool
	MergeDistance      float32
	EnableTransparency bool
	BackfaceCulling    bool
	ConvertAxes        bool
	Transform          scene.TransformHint
	Textures           *texture.Resolver
	ProbeTextures      bool
	Logger             *zap.Logger
}

// DefaultOptions returns the stock import settings: fog and transparency on,
// culling off, an empty blacklist, and welding at weld.DefaultDistance.
func DefaultOptions() Options {
	return Options{
		EnableFog:          true,
		MergeTriangles:     true,
		MergeDistance:      weld.DefaultDistance,
		EnableTransparency: true,
		ConvertAxes:        true,
		Transform:          scene.IdentityTransform(),
	}
}

// Import reads one GLR stream and returns its scene. Nothing is returned
// unless every stage succeeds.
func Import(r io.Reader, opts Options) (*scene.Description, error) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if opts.MergeDistance < 0 {
		return nil, fmt.Errorf("glr: merge distance must not be negative, got %v", opts.MergeDistance)
	}

	reader := formats.NewGLRReader(r)
	desc, err := scene.Build(reader.Records(), scene.Options{
		Name:               opts.Name,
		Filter:             opts.Filter,
		EnableFog:          opts.EnableFog,
		EnableTransparency: opts.EnableTransparency,
		BackfaceCulling:    opts.BackfaceCulling,
		KeepSourceAxes:     !opts.ConvertAxes,
		Transform:          opts.Transform,
		Textures:           opts.Textures,
		ProbeTextures:      opts.ProbeTextures,
		Logger:             log.Named("scene"),
	})
	if err != nil {
		return nil, err
	}
	triangles := desc.TriangleCount()

	desc, stats := weld.WeldScene(desc, weld.Options{
		Enabled:  opts.MergeTriangles,
		Distance: opts.MergeDistance,
		Logger:   log.Named("weld"),
	})
	if err := scene.Validate(desc); err != nil {
		return nil, err
	}

	log.Info("imported scene",
		zap.String("name", opts.Name),
		zap.Int("groups", len(desc.Groups)),
		zap.Int64("bytes", reader.Pos()),
		zap.Int("triangles", triangles),
		zap.Int("merged_vertices", stats.Merged()),
		zap.Int("degenerate_triangles", stats.Degenerate()),
		zap.Bool("fog", desc.Fog != nil))
	return desc, nil
}

// ImportFile imports a GLR file from disk.
func ImportFile(path string, opts Options) (*scene.Description, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening GLR file: %w", err)
	}
	defer f.Close()

	if opts.Name == "" {
		opts.Name = SourceName(path)
	}
	return Import(bufio.NewReader(f), opts)
}

// SourceName returns the file name of path without directory or extension.
func SourceName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

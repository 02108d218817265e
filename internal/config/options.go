package config

import (
	"fmt"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/glrimport/pkg/glr"
	"github.com/Faultbox/glrimport/pkg/math"
	"github.com/Faultbox/glrimport/pkg/scene"
	"github.com/Faultbox/glrimport/pkg/texture"
)

// Filter returns the texture filter described by the import settings.
func (c ImportConfig) Filter() scene.Filter {
	mode := scene.Whitelist
	if c.Blacklist {
		mode = scene.Blacklist
	}
	return scene.NewFilter(mode, c.TextureFilter, c.FoldCase)
}

// TransformHint converts the transform settings, turning degrees into radians.
func (c TransformConfig) TransformHint() scene.TransformHint {
	rad := func(deg float32) float32 { return deg * math32.Pi / 180 }
	return scene.TransformHint{
		Translation: math.Vec3{X: c.Translation[0], Y: c.Translation[1], Z: c.Translation[2]},
		Rotation:    math.Vec3{X: rad(c.Rotation[0]), Y: rad(c.Rotation[1]), Z: rad(c.Rotation[2])},
		Scale:       math.Vec3{X: c.Scale[0], Y: c.Scale[1], Z: c.Scale[2]},
	}
}

// Resolver builds the texture resolver, loading the alias file if one is set.
// It returns nil when no texture directory or aliases are configured.
func (c TexturesConfig) Resolver() (*texture.Resolver, error) {
	if c.Dir == "" && c.Aliases == "" {
		return nil, nil
	}
	r := texture.NewResolver(c.Dir)
	r.Extensions = c.Extensions
	if c.Aliases != "" {
		aliases, err := texture.LoadAliases(c.Aliases)
		if err != nil {
			return nil, fmt.Errorf("loading texture aliases: %w", err)
		}
		r.Aliases = aliases
	}
	return r, nil
}

// ImportOptions turns the configuration into pipeline options.
func (c *Config) ImportOptions(log *zap.Logger) (glr.Options, error) {
	if err := c.Import.Validate(); err != nil {
		return glr.Options{}, err
	}
	resolver, err := c.Textures.Resolver()
	if err != nil {
		return glr.Options{}, err
	}

	return glr.Options{
		Filter:             c.Import.Filter(),
		EnableFog:          c.Import.EnableFog,
		MergeTriangles:     c.Import.MergeTriangles,
		MergeDistance:      c.Import.MergeDistance,
		EnableTransparency: c.Import.EnableTransparency,
		BackfaceCulling:    c.Import.BackfaceCulling,
		ConvertAxes:        c.Import.ConvertAxes,
		Transform:          c.Import.Transform.TransformHint(),
		Textures:           resolver,
		ProbeTextures:      c.Textures.Probe && resolver != nil && c.Textures.Dir != "",
		Logger:             log,
	}, nil
}

// Package config handles importer configuration loading and management.
package config

import (
	"fmt"

	"github.com/Faultbox/glrimport/pkg/weld"
)

// Config holds all importer settings.
type Config struct {
	Import   ImportConfig   `yaml:"import"`
	Textures TexturesConfig `yaml:"textures"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// TransformConfig is the placement handed to the host for imported objects.
type TransformConfig struct {
	Translation [3]float32 `yaml:"translation,flow"`
	Rotation    [3]float32 `yaml:"rotation,flow"` // Euler XYZ, degrees
	Scale       [3]float32 `yaml:"scale,flow"`
}

// ImportConfig holds the import settings.
type ImportConfig struct {
	Transform             TransformConfig `yaml:"transform"`
	MergeTriangles        bool            `yaml:"merge_triangles"`
	MergeDistance         float32         `yaml:"merge_distance"`
	ModifyColorManagement bool            `yaml:"modify_color_management"` // Host hint only
	EnableTransparency    bool            `yaml:"enable_transparency"`
	BackfaceCulling       bool            `yaml:"backface_culling"`
	EnableFog             bool            `yaml:"enable_fog"`
	ConvertAxes           bool            `yaml:"convert_axes"`
	Blacklist             bool            `yaml:"blacklist"` // false selects whitelist mode
	TextureFilter         []string        `yaml:"texture_filter"`
	FoldCase              bool            `yaml:"fold_case"`
}

// TexturesConfig holds texture lookup settings.
type TexturesConfig struct {
	Dir        string   `yaml:"dir"`        // Directory of ripped <CRC>.png files
	Aliases    string   `yaml:"aliases"`    // YAML file mapping CRC names to friendly names
	Extensions []string `yaml:"extensions"` // Empty uses the built-in list
	Probe      bool     `yaml:"probe"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Import: ImportConfig{
			Transform: TransformConfig{
				Scale: [3]float32{1, 1, 1},
			},
			MergeTriangles:        true,
			MergeDistance:         weld.DefaultDistance,
			ModifyColorManagement: true,
			EnableTransparency:    true,
			BackfaceCulling:       false,
			EnableFog:             true,
			ConvertAxes:           true,
			Blacklist:             true,
		},
		Textures: TexturesConfig{
			Probe: true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks the import settings.
func (c ImportConfig) Validate() error {
	if c.MergeDistance < 0 {
		return fmt.Errorf("merge_distance must not be negative, got %v", c.MergeDistance)
	}
	if c.Transform.Scale == [3]float32{} {
		return fmt.Errorf("transform scale must not be zero")
	}
	return nil
}

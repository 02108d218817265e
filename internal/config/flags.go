package config

import (
	"flag"

	"github.com/Faultbox/glrimport/pkg/scene"
)

var (
	flagConfig        = flag.String("config", "", "Path to config file")
	flagDebug         = flag.Bool("debug", false, "Enable debug logging")
	flagTextures      = flag.String("textures", "", "Directory of ripped textures")
	flagAliases       = flag.String("aliases", "", "YAML file mapping texture CRCs to names")
	flagFilter        = flag.String("filter", "", "Comma-separated texture names to filter")
	flagWhitelist     = flag.Bool("whitelist", false, "Keep only filtered textures instead of dropping them")
	flagNoMerge       = flag.Bool("no-merge", false, "Disable vertex welding")
	flagMergeDistance = flag.Float64("merge-distance", 0, "Vertex weld distance")
	flagNoFog         = flag.Bool("no-fog", false, "Ignore fog")
	flagCull          = flag.Bool("cull", false, "Enable backface culling")
	flagFoldCase      = flag.Bool("fold-case", false, "Match filter names case-insensitively")
)

// ParseFlags parses command-line flags and returns the remaining arguments.
func ParseFlags(args []string) []string {
	_ = flag.CommandLine.Parse(args) // ExitOnError
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// passedFlags returns the names of the flags set on the command line.
func passedFlags() map[string]bool {
	passed := make(map[string]bool)
	flag.CommandLine.Visit(func(f *flag.Flag) {
		passed[f.Name] = true
	})
	return passed
}

// applyFlags applies CLI flag overrides to the config. Flags without a
// disabled zero value only apply when named in passed.
func applyFlags(cfg *Config, passed map[string]bool) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagTextures != "" {
		cfg.Textures.Dir = *flagTextures
	}
	if *flagAliases != "" {
		cfg.Textures.Aliases = *flagAliases
	}
	if *flagFilter != "" {
		cfg.Import.TextureFilter = scene.ParseFilterList(*flagFilter)
	}
	if *flagWhitelist {
		cfg.Import.Blacklist = false
	}
	if *flagNoMerge {
		cfg.Import.MergeTriangles = false
	}
	if passed["merge-distance"] {
		cfg.Import.MergeDistance = float32(*flagMergeDistance)
	}
	if *flagNoFog {
		cfg.Import.EnableFog = false
	}
	if *flagCull {
		cfg.Import.BackfaceCulling = true
	}
	if *flagFoldCase {
		cfg.Import.FoldCase = true
	}
}

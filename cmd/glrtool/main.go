// glrtool is a CLI utility for inspecting and importing GLR scene rips.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/glrimport/internal/config"
	"github.com/Faultbox/glrimport/internal/logger"
	"github.com/Faultbox/glrimport/pkg/formats"
	"github.com/Faultbox/glrimport/pkg/glr"
	"github.com/Faultbox/glrimport/pkg/n64"
	"github.com/Faultbox/glrimport/pkg/scene"
	"github.com/Faultbox/glrimport/pkg/texture"
)

var flagOutput = flag.String("o", "", "Write the scene as YAML to this file (- for stdout)")

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "textures", "tex":
		cmdTextures(args)
	case "import":
		cmdImport(args)
	case "filter":
		cmdFilter(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`glrtool - GLR scene rip utility

Usage:
  glrtool <command> [options]

Commands:
  info <file.glr>                      Show object headers and counts
  textures <file.glr>                  List referenced textures by use
  import [options] <file.glr>          Import and summarize the scene
  filter [options] <in.glr> <out.glr>  Write a copy without filtered textures
  config [options] [-o <file>]         Write the effective import config

Import options:
  -config <file>         Config file (default ./glrimport.yaml)
  -textures <dir>        Directory of ripped textures
  -aliases <file>        YAML file mapping texture CRCs to names
  -filter <a,b,...>      Texture names to filter
  -whitelist             Keep only filtered textures
  -no-merge              Disable vertex welding
  -merge-distance <d>    Vertex weld distance
  -no-fog                Ignore fog
  -cull                  Enable backface culling
  -fold-case             Match filter names case-insensitively
  -debug                 Enable debug logging
  -o <file>              Write the scene as YAML (- for stdout);
                         with config, the config file to write

Examples:
  glrtool info castle.glr
  glrtool textures -textures ./textures castle.glr
  glrtool import -filter lava -o castle.yaml castle.glr
  glrtool filter -filter 00000000DEADBEEF castle.glr clean.glr
  glrtool config -textures ./textures -fold-case`)
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: glrtool info <file.glr>")
		os.Exit(1)
	}

	g, err := formats.ParseGLRFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("File:      %s\n", args[0])
	fmt.Printf("Objects:   %d\n", len(g.Objects))
	fmt.Printf("Triangles: %d\n", g.GetTotalTriangleCount())
	for i, obj := range g.Objects {
		textures := make(map[uint64]bool)
		for _, tri := range obj.Triangles {
			textures[tri.Textures[0].CRC] = true
		}
		fmt.Println()
		fmt.Printf("Object %d:\n", i)
		fmt.Printf("  ROM:       %s\n", obj.Header.ROMName)
		fmt.Printf("  Version:   %d\n", obj.Header.Version)
		fmt.Printf("  Microcode: %s\n", n64.Microcode(obj.Header.Microcode))
		fmt.Printf("  Triangles: %d\n", len(obj.Triangles))
		fmt.Printf("  Textures:  %d\n", len(textures))
	}
}

func cmdTextures(args []string) {
	fs := flag.NewFlagSet("textures", flag.ExitOnError)
	dir := fs.String("textures", "", "Directory of ripped textures")
	aliases := fs.String("aliases", "", "YAML file mapping texture CRCs to names")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: glrtool textures [-textures dir] [-aliases file] <file.glr>")
		os.Exit(1)
	}

	resolver := texture.NewResolver(*dir)
	if *aliases != "" {
		m, err := texture.LoadAliases(*aliases)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		resolver.Aliases = m
	}

	g, err := formats.ParseGLRFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	uses := make(map[uint64]int)
	for _, obj := range g.Objects {
		for _, tri := range obj.Triangles {
			uses[tri.Textures[0].CRC]++
		}
	}

	// Sort by count
	type texStat struct {
		crc   uint64
		count int
	}
	var stats []texStat
	for crc, count := range uses {
		stats = append(stats, texStat{crc, count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].count != stats[j].count {
			return stats[i].count > stats[j].count
		}
		return stats[i].crc < stats[j].crc
	})

	for _, s := range stats {
		name := resolver.Name(s.crc)
		detail := ""
		if *dir != "" {
			info, err := resolver.Probe(s.crc)
			switch {
			case err != nil:
				detail = fmt.Sprintf("error: %v", err)
			case info.Missing:
				detail = "missing"
			default:
				detail = fmt.Sprintf("%dx%d %s", info.Width, info.Height, info.Format)
			}
		}
		fmt.Printf("  %-18s %-20s %6d  %s\n", texture.CRCName(s.crc), name, s.count, detail)
	}
}

func cmdImport(args []string) {
	rest := config.ParseFlags(args)
	if len(rest) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: glrtool import [options] <file.glr>")
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	opts, err := cfg.ImportOptions(logger.Named("glr"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	desc, err := glr.ImportFile(rest[0], opts)
	if err != nil {
		logger.Error("import failed", zap.String("file", rest[0]), zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *flagOutput != "" {
		if err := writeScene(*flagOutput, desc); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if *flagOutput == "-" {
			return
		}
	}
	printSummary(desc)
}

func printSummary(desc *scene.Description) {
	fmt.Printf("Source:    %s\n", desc.Source)
	fmt.Printf("Groups:    %d\n", len(desc.Groups))
	fmt.Printf("Vertices:  %d\n", desc.VertexCount())
	fmt.Printf("Triangles: %d\n", desc.TriangleCount())
	if desc.Fog != nil {
		fmt.Printf("Fog:       color %v, multiplier %g, offset %g\n", desc.Fog.Color, desc.Fog.Multiplier, desc.Fog.Offset)
	}
	for _, g := range desc.Groups {
		fmt.Println()
		fmt.Printf("%s\n", g.Name)
		fmt.Printf("  Microcode: %s\n", g.Microcode)
		fmt.Printf("  Vertices:  %d\n", len(g.Vertices))
		fmt.Printf("  Triangles: %d\n", len(g.Triangles))
		fmt.Printf("  Materials: %d\n", len(g.Materials))
		fmt.Printf("  Bindings:  %d\n", len(g.Bindings))
	}
}

func writeScene(path string, desc *scene.Description) error {
	var w io.Writer = os.Stdout
	if path != "-" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating scene file: %w", err)
		}
		defer f.Close()
		w = f
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(desc); err != nil {
		return fmt.Errorf("encoding scene: %w", err)
	}
	return enc.Close()
}

func cmdFilter(args []string) {
	fs := flag.NewFlagSet("filter", flag.ExitOnError)
	names := fs.String("filter", "", "Comma-separated texture names to filter")
	whitelist := fs.Bool("whitelist", false, "Keep only filtered textures")
	foldCase := fs.Bool("fold-case", false, "Match names case-insensitively")
	aliases := fs.String("aliases", "", "YAML file mapping texture CRCs to names")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fmt.Fprintln(os.Stderr, "Usage: glrtool filter -filter <a,b,...> [-whitelist] <in.glr> <out.glr>")
		os.Exit(1)
	}

	resolver := texture.NewResolver("")
	if *aliases != "" {
		m, err := texture.LoadAliases(*aliases)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		resolver.Aliases = m
	}

	mode := scene.Blacklist
	if *whitelist {
		mode = scene.Whitelist
	}
	filter := scene.NewFilter(mode, scene.ParseFilterList(*names), *foldCase)

	g, err := formats.ParseGLRFile(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	kept, dropped := filterGLR(g, filter, resolver)
	if err := formats.WriteGLRFile(fs.Arg(1), g); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Kept %d triangles, dropped %d\n", kept, dropped)
}

// filterGLR removes filtered triangles from every object in place.
func filterGLR(g *formats.GLR, filter scene.Filter, resolver *texture.Resolver) (kept, dropped int) {
	for i := range g.Objects {
		obj := &g.Objects[i]
		out := obj.Triangles[:0]
		for _, tri := range obj.Triangles {
			crc := tri.Textures[0].CRC
			if filter.Keep(resolver.Name(crc), texture.CRCName(crc)) {
				out = append(out, tri)
			}
		}
		dropped += len(obj.Triangles) - len(out)
		kept += len(out)
		obj.Triangles = out
	}
	return kept, dropped
}

func cmdConfig(args []string) {
	config.ParseFlags(args)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	path, err := writeConfig(cfg, *flagOutput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if path != "-" {
		fmt.Printf("Wrote %s\n", path)
	}
}

// writeConfig saves cfg to path, to stdout for "-", or to the user's
// config directory when path is empty. It returns where the config went.
func writeConfig(cfg *config.Config, path string) (string, error) {
	switch path {
	case "":
		return cfg.Save()
	case "-":
		data, err := cfg.Marshal()
		if err != nil {
			return "", err
		}
		_, err = os.Stdout.Write(data)
		return path, err
	default:
		return path, cfg.SaveTo(path)
	}
}

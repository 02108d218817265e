// Package texture names ripped textures and locates their image files.
//
// The ripper writes each texture next to the .glr file as <CRC>.png, where
// CRC is the 64-bit texture checksum in 16 upper-case hex digits. Triangles
// reference textures by that checksum; CRC 0 means untextured.
package texture

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ftrvxmtrx/tga"
	"golang.org/x/image/bmp"
	"golang.org/x/image/webp"
	"gopkg.in/yaml.v3"
)

// NoTexture is the name used for triangles without a texture.
const NoTexture = "NO_TEXTURE"

// DefaultExtensions are tried in order when locating a texture file.
var DefaultExtensions = []string{".png", ".tga", ".bmp", ".webp"}

// TGA has no magic number, so formats are chosen by extension rather than
// through image.DecodeConfig sniffing.
var configDecoders = map[string]func(io.Reader) (image.Config, error){
	".png":  png.DecodeConfig,
	".tga":  tga.DecodeConfig,
	".bmp":  bmp.DecodeConfig,
	".webp": webp.DecodeConfig,
}

// ErrUnsupportedFormat is returned for extensions with no known decoder.
var ErrUnsupportedFormat = errors.New("unsupported texture format")

// ErrInvalidName is returned when a name is neither NO_TEXTURE nor a CRC.
var ErrInvalidName = errors.New("invalid texture name")

// CRCName returns the canonical name of a texture CRC.
func CRCName(crc uint64) string {
	if crc == 0 {
		return NoTexture
	}
	return fmt.Sprintf("%016X", crc)
}

// ParseCRC parses a canonical texture name back to its CRC.
// Hex digits are accepted in either case and an extension is ignored.
func ParseCRC(name string) (uint64, error) {
	name = StripExtension(strings.TrimSpace(name))
	if name == NoTexture {
		return 0, nil
	}
	crc, err := strconv.ParseUint(name, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return crc, nil
}

// StripExtension removes a trailing file extension, if any.
func StripExtension(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// Info describes a located texture file.
type Info struct {
	Name    string `yaml:"name"`
	Path    string `yaml:"path,omitempty"`
	Format  string `yaml:"format,omitempty"`
	Width   int    `yaml:"width,omitempty"`
	Height  int    `yaml:"height,omitempty"`
	Missing bool   `yaml:"missing,omitempty"`
}

// Resolver maps CRCs to display names and image files.
type Resolver struct {
	Dir        string            // Directory holding the ripped images
	Extensions []string          // Nil means DefaultExtensions
	Aliases    map[string]string // CRC name -> friendly name

	cache map[uint64]Info
}

// NewResolver returns a resolver for textures stored in dir.
func NewResolver(dir string) *Resolver {
	return &Resolver{Dir: dir}
}

// Name returns the binding name for crc: its alias when one is configured,
// otherwise CRCName.
func (r *Resolver) Name(crc uint64) string {
	name := CRCName(crc)
	if r == nil {
		return name
	}
	if alias, ok := r.Aliases[name]; ok && alias != "" {
		return alias
	}
	return name
}

// Probe locates the image for crc and reads its dimensions.
// A texture with no file on disk is reported with Missing set, not as an
// error; the ripper does not always dump every texture it hashes.
func (r *Resolver) Probe(crc uint64) (Info, error) {
	if info, ok := r.cache[crc]; ok {
		return info, nil
	}

	info := Info{Name: CRCName(crc), Missing: true}
	if crc != 0 && r.Dir != "" {
		found, err := r.probe(info.Name)
		if err != nil {
			return Info{}, err
		}
		if found != nil {
			info = *found
		}
	}

	if r.cache == nil {
		r.cache = make(map[uint64]Info)
	}
	r.cache[crc] = info
	return info, nil
}

func (r *Resolver) probe(name string) (*Info, error) {
	exts := r.Extensions
	if exts == nil {
		exts = DefaultExtensions
	}

	for _, ext := range exts {
		ext = strings.ToLower(ext)
		decodeConfig, ok := configDecoders[ext]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
		}

		path := filepath.Join(r.Dir, name+ext)
		f, err := os.Open(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("opening texture %s: %w", path, err)
		}

		cfg, err := decodeConfig(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("decoding texture %s: %w", path, err)
		}
		return &Info{
			Name:   name,
			Path:   path,
			Format: strings.TrimPrefix(ext, "."),
			Width:  cfg.Width,
			Height: cfg.Height,
		}, nil
	}
	return nil, nil
}

// LoadAliases reads a YAML mapping of texture names to friendly names:
//
//	0123456789ABCDEF: lava
//	FEDCBA9876543210: water
//
// Keys are normalised to canonical CRC names.
func LoadAliases(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading texture aliases: %w", err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing texture aliases %s: %w", path, err)
	}

	aliases := make(map[string]string, len(raw))
	for key, alias := range raw {
		crc, err := ParseCRC(key)
		if err != nil {
			return nil, fmt.Errorf("texture aliases %s: %w", path, err)
		}
		aliases[CRCName(crc)] = alias
	}
	return aliases, nil
}

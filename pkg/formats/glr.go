// GLR (GL64R scene rip) format reader for triangles captured from emulated
// N64 rendering.

package formats

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"iter"
	"math"
	"os"

	"github.com/Faultbox/glrimport/pkg/encoding"
)

// GLR format errors.
var (
	ErrInvalidGLRMagic       = fmt.Errorf("%w: invalid GLR magic: expected 'GL64R\\x00'", ErrInvalidFormat)
	ErrOutdatedGLRVersion    = fmt.Errorf("%w: outdated GLR version", ErrInvalidFormat)
	ErrUnsupportedGLRVersion = fmt.Errorf("%w: unsupported GLR version", ErrInvalidFormat)
	ErrTruncatedGLRData      = fmt.Errorf("%w: truncated GLR data", ErrTruncatedData)
)

// GLR layout constants.
const (
	GLRMagic   = "GL64R\x00"
	GLRVersion = 3

	GLRROMNameSize       = 20
	GLRHeaderSize        = 6 + 2 + GLRROMNameSize + 4 + 4
	GLRVertexSize        = 11 * 4
	GLRTriangleBlockSize = 132
	GLRTriangleSize      = 3*GLRVertexSize + GLRTriangleBlockSize
)

// GLRRecordKind identifies the type of a decoded record.
type GLRRecordKind uint8

// Record kinds, in the order they appear for each object and triangle.
const (
	GLRRecordObject GLRRecordKind = iota
	GLRRecordTransform
	GLRRecordVertex
	GLRRecordFog
	GLRRecordMaterial
	GLRRecordTexture
	GLRRecordTriangle
)

// String returns a human-readable record kind name.
func (k GLRRecordKind) String() string {
	switch k {
	case GLRRecordObject:
		return "Object"
	case GLRRecordTransform:
		return "Transform"
	case GLRRecordVertex:
		return "Vertex"
	case GLRRecordFog:
		return "Fog"
	case GLRRecordMaterial:
		return "Material"
	case GLRRecordTexture:
		return "Texture"
	case GLRRecordTriangle:
		return "Triangle"
	default:
		return fmt.Sprintf("Unknown(%d)", k)
	}
}

// GLRHeader is the fixed header at the start of every object section.
type GLRHeader struct {
	Version       uint16
	RawROMName    [GLRROMNameSize]byte // As stored, NUL-padded
	ROMName       string               // Decoded game name
	TriangleCount uint32
	Microcode     uint32 // GBI microcode id
}

// GLRVertex is a single captured vertex.
type GLRVertex struct {
	Position [3]float32 // Y-up model space
	Color    [4]float32 // Shade RGBA; alpha doubles as fog level when fog is on
	UV0      [2]float32 // Tile 0 S, T
	UV1      [2]float32 // Tile 1 S, T
}

// GLRFog holds the fog state captured with a triangle.
type GLRFog struct {
	Color      [4]float32
	Multiplier float32
	Offset     float32
}

// GLRMaterial holds the RDP colour registers and mode words of a triangle.
type GLRMaterial struct {
	Blend        [4]float32
	Env          [4]float32
	Prim         [4]float32
	PrimLODFrac  float32
	PrimMinLevel float32
	K4, K5       int32
	CombinerMux  uint64
	OtherMode    uint64
	GeometryMode uint32
}

// GLRTextureRef references a ripped texture by CRC with its tile settings.
type GLRTextureRef struct {
	CRC   uint64 // 0 = no texture
	MaskS uint8
	MaskT uint8
	WrapS uint8
	WrapT uint8
}

// GLRTriangle is one fully decoded triangle record.
type GLRTriangle struct {
	Vertices [3]GLRVertex
	Fog      GLRFog
	Material GLRMaterial
	Textures [2]GLRTextureRef
}

// GLRRecord is one raw record of the decode stream.
type GLRRecord interface {
	Kind() GLRRecordKind
	Offset() int64
}

type glrRecordBase struct {
	offset int64
}

// Offset returns the byte offset the record was decoded from.
func (b glrRecordBase) Offset() int64 { return b.offset }

// GLRObjectRecord starts a new object; its header follows.
type GLRObjectRecord struct {
	glrRecordBase
	Index  int // Object number within the stream
	Header GLRHeader
}

// UpAxis names the vertical axis of a coordinate basis.
type UpAxis uint8

// Supported bases.
const (
	UpAxisY UpAxis = iota
	UpAxisZ
)

// GLRTransformRecord carries the coordinate basis of the object's vertices.
type GLRTransformRecord struct {
	glrRecordBase
	Up UpAxis
}

// GLRVertexRecord is one vertex, indexed within its object.
type GLRVertexRecord struct {
	glrRecordBase
	Index  uint32
	Vertex GLRVertex
}

// GLRFogRecord is the fog state of the triangle that follows.
type GLRFogRecord struct {
	glrRecordBase
	Fog GLRFog
}

// GLRMaterialRecord is the render state of the triangle that follows.
type GLRMaterialRecord struct {
	glrRecordBase
	Material GLRMaterial
}

// GLRTextureRecord holds the texture references of the triangle that follows.
type GLRTextureRecord struct {
	glrRecordBase
	Textures [2]GLRTextureRef
}

// GLRTriangleRecord closes a triangle. Vertices are object-local vertex indices.
type GLRTriangleRecord struct {
	glrRecordBase
	Index    uint32
	Vertices [3]uint32
}

func (GLRObjectRecord) Kind() GLRRecordKind    { return GLRRecordObject }
func (GLRTransformRecord) Kind() GLRRecordKind { return GLRRecordTransform }
func (GLRVertexRecord) Kind() GLRRecordKind    { return GLRRecordVertex }
func (GLRFogRecord) Kind() GLRRecordKind       { return GLRRecordFog }
func (GLRMaterialRecord) Kind() GLRRecordKind  { return GLRRecordMaterial }
func (GLRTextureRecord) Kind() GLRRecordKind   { return GLRRecordTexture }
func (GLRTriangleRecord) Kind() GLRRecordKind  { return GLRRecordTriangle }

// GLRReader decodes a GLR stream into records, one at a time.
// It is not restartable: once Next returns an error, every later call
// returns the same error.
type GLRReader struct {
	r   io.Reader
	pos int64
	err error

	objects   int
	header    GLRHeader
	remaining uint32
	triangle  uint32

	pending []GLRRecord
	buf     [GLRTriangleSize]byte
}

// NewGLRReader returns a reader decoding from r.
func NewGLRReader(r io.Reader) *GLRReader {
	return &GLRReader{r: r}
}

// Header returns the header of the object currently being decoded.
func (r *GLRReader) Header() GLRHeader {
	return r.header
}

// Pos returns the number of bytes consumed so far.
func (r *GLRReader) Pos() int64 {
	return r.pos
}

// Next returns the next record, or io.EOF after the last one.
func (r *GLRReader) Next() (GLRRecord, error) {
	if r.err != nil {
		return nil, r.err
	}
	if len(r.pending) == 0 {
		if err := r.fill(); err != nil {
			r.err = err
			return nil, err
		}
	}
	rec := r.pending[0]
	r.pending = r.pending[1:]
	return rec, nil
}

// Records returns the remaining records as an iterator. Iteration stops after
// the first error, which is yielded with a nil record; io.EOF is not yielded.
func (r *GLRReader) Records() iter.Seq2[GLRRecord, error] {
	return func(yield func(GLRRecord, error) bool) {
		for {
			rec, err := r.Next()
			if err == io.EOF {
				return
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// fill decodes the next header or triangle into the pending queue.
func (r *GLRReader) fill() error {
	r.pending = r.pending[:0]
	if r.objects > 0 && r.remaining > 0 {
		return r.readTriangle()
	}
	return r.readHeader()
}

func (r *GLRReader) readHeader() error {
	start := r.pos
	buf := r.buf[:GLRHeaderSize]

	n, err := io.ReadFull(r.r, buf[:len(GLRMagic)])
	r.pos += int64(n)
	switch {
	case n == 0 && err == io.EOF && r.objects > 0:
		return io.EOF
	case err != nil && err != io.EOF && err != io.ErrUnexpectedEOF:
		return fmt.Errorf("glr: reading header at offset %d: %w", start, err)
	case n < len(GLRMagic) && n > 0 && bytes.HasPrefix([]byte(GLRMagic), buf[:n]):
		return r.truncated(start, GLRRecordObject, GLRHeaderSize, n)
	case n < len(GLRMagic) || string(buf[:len(GLRMagic)]) != GLRMagic:
		return &DecodeError{
			Offset:   start,
			Record:   GLRRecordObject,
			Expected: fmt.Sprintf("%q", GLRMagic),
			Actual:   fmt.Sprintf("%q", buf[:n]),
			Err:      ErrInvalidGLRMagic,
		}
	}

	n, err = io.ReadFull(r.r, buf[len(GLRMagic):])
	r.pos += int64(n)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return r.truncated(start, GLRRecordObject, GLRHeaderSize, len(GLRMagic)+n)
		}
		return fmt.Errorf("glr: reading header at offset %d: %w", start, err)
	}

	c := glrCursor{b: buf, off: len(GLRMagic)}
	h := GLRHeader{Version: c.u16()}
	copy(h.RawROMName[:], c.bytes(GLRROMNameSize))
	h.ROMName = encoding.ROMName(h.RawROMName[:])
	h.TriangleCount = c.u32()
	h.Microcode = c.u32()

	if h.Version > 0 && h.Version < GLRVersion {
		return &DecodeError{
			Offset:   start + int64(len(GLRMagic)),
			Record:   GLRRecordObject,
			Expected: fmt.Sprintf("version %d", GLRVersion),
			Actual:   fmt.Sprintf("version %d", h.Version),
			Err:      ErrOutdatedGLRVersion,
		}
	}
	if h.Version != GLRVersion {
		return &DecodeError{
			Offset:   start + int64(len(GLRMagic)),
			Record:   GLRRecordObject,
			Expected: fmt.Sprintf("version %d", GLRVersion),
			Actual:   fmt.Sprintf("version %d", h.Version),
			Err:      ErrUnsupportedGLRVersion,
		}
	}

	r.header = h
	r.remaining = h.TriangleCount
	r.triangle = 0
	r.pending = append(r.pending,
		GLRObjectRecord{glrRecordBase: glrRecordBase{start}, Index: r.objects, Header: h},
		GLRTransformRecord{glrRecordBase: glrRecordBase{start}, Up: UpAxisY},
	)
	r.objects++
	return nil
}

func (r *GLRReader) readTriangle() error {
	start := r.pos
	n, err := io.ReadFull(r.r, r.buf[:])
	r.pos += int64(n)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			kind := GLRRecordVertex
			if n >= 3*GLRVertexSize {
				kind = GLRRecordFog
			}
			return r.truncated(start, kind, GLRTriangleSize, n)
		}
		return fmt.Errorf("glr: reading triangle %d at offset %d: %w", r.triangle, start, err)
	}

	tri := decodeGLRTriangle(r.buf[:])
	base := r.triangle * 3
	for i := range tri.Vertices {
		r.pending = append(r.pending, GLRVertexRecord{
			glrRecordBase: glrRecordBase{start + int64(i*GLRVertexSize)},
			Index:         base + uint32(i),
			Vertex:        tri.Vertices[i],
		})
	}

	block := start + 3*GLRVertexSize
	r.pending = append(r.pending,
		GLRFogRecord{glrRecordBase: glrRecordBase{block}, Fog: tri.Fog},
		GLRMaterialRecord{glrRecordBase: glrRecordBase{block + 16}, Material: tri.Material},
		GLRTextureRecord{glrRecordBase: glrRecordBase{block + 108}, Textures: tri.Textures},
		GLRTriangleRecord{
			glrRecordBase: glrRecordBase{start},
			Index:         r.triangle,
			Vertices:      [3]uint32{base, base + 1, base + 2},
		},
	)

	r.triangle++
	r.remaining--
	return nil
}

func (r *GLRReader) truncated(offset int64, kind GLRRecordKind, want, got int) error {
	return &DecodeError{
		Offset:   offset,
		Record:   kind,
		Expected: fmt.Sprintf("%d bytes", want),
		Actual:   fmt.Sprintf("%d bytes", got),
		Err:      ErrTruncatedGLRData,
	}
}

// decodeGLRTriangle decodes a GLRTriangleSize byte record.
func decodeGLRTriangle(b []byte) GLRTriangle {
	c := glrCursor{b: b}
	var tri GLRTriangle

	for i := range tri.Vertices {
		v := &tri.Vertices[i]
		v.Position = [3]float32{c.f32(), c.f32(), c.f32()}
		v.Color = c.vec4()
		v.UV0 = [2]float32{c.f32(), c.f32()}
		v.UV1 = [2]float32{c.f32(), c.f32()}
	}

	tri.Fog.Color = c.vec4()
	m := &tri.Material
	m.Blend = c.vec4()
	m.Env = c.vec4()
	m.Prim = c.vec4()
	m.PrimLODFrac = c.f32()
	m.PrimMinLevel = c.f32()
	tri.Fog.Multiplier = c.f32()
	tri.Fog.Offset = c.f32()
	m.K4 = int32(c.u32())
	m.K5 = int32(c.u32())
	m.CombinerMux = c.u64()
	m.OtherMode = c.u64()
	m.GeometryMode = c.u32()

	for i := range tri.Textures {
		t := &tri.Textures[i]
		t.CRC = c.u64()
		t.MaskS = c.u8()
		t.MaskT = c.u8()
		t.WrapS = c.u8()
		t.WrapT = c.u8()
	}
	return tri
}

// glrCursor walks a fully buffered record. Callers guarantee the length.
type glrCursor struct {
	b   []byte
	off int
}

func (c *glrCursor) bytes(n int) []byte {
	v := c.b[c.off : c.off+n]
	c.off += n
	return v
}

func (c *glrCursor) u8() uint8 {
	v := c.b[c.off]
	c.off++
	return v
}

func (c *glrCursor) u16() uint16 {
	return binary.LittleEndian.Uint16(c.bytes(2))
}

func (c *glrCursor) u32() uint32 {
	return binary.LittleEndian.Uint32(c.bytes(4))
}

func (c *glrCursor) u64() uint64 {
	return binary.LittleEndian.Uint64(c.bytes(8))
}

func (c *glrCursor) f32() float32 {
	return math.Float32frombits(c.u32())
}

func (c *glrCursor) vec4() [4]float32 {
	return [4]float32{c.f32(), c.f32(), c.f32(), c.f32()}
}

// GLRObject is one decoded object section.
type GLRObject struct {
	Header    GLRHeader
	Triangles []GLRTriangle
}

// GLR represents a fully parsed GLR file.
type GLR struct {
	Objects []GLRObject
}

// ParseGLR parses GLR data from a byte slice.
func ParseGLR(data []byte) (*GLR, error) {
	return ReadGLR(bytes.NewReader(data))
}

// ReadGLR decodes a whole GLR stream into memory.
func ReadGLR(rd io.Reader) (*GLR, error) {
	r := NewGLRReader(rd)
	glr := &GLR{}
	var cur *GLRObject
	var tri GLRTriangle

	for rec, err := range r.Records() {
		if err != nil {
			return nil, err
		}
		switch rec := rec.(type) {
		case GLRObjectRecord:
			glr.Objects = append(glr.Objects, GLRObject{
				Header:    rec.Header,
				Triangles: make([]GLRTriangle, 0, min(rec.Header.TriangleCount, 1<<16)),
			})
			cur = &glr.Objects[len(glr.Objects)-1]
		case GLRVertexRecord:
			tri.Vertices[rec.Index%3] = rec.Vertex
		case GLRFogRecord:
			tri.Fog = rec.Fog
		case GLRMaterialRecord:
			tri.Material = rec.Material
		case GLRTextureRecord:
			tri.Textures = rec.Textures
		case GLRTriangleRecord:
			cur.Triangles = append(cur.Triangles, tri)
		}
	}
	return glr, nil
}

// ParseGLRFile parses a GLR file from disk.
func ParseGLRFile(path string) (*GLR, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening GLR file: %w", err)
	}
	defer f.Close()
	return ReadGLR(bufio.NewReader(f))
}

// GetTotalTriangleCount returns the number of triangles across all objects.
func (g *GLR) GetTotalTriangleCount() int {
	total := 0
	for _, obj := range g.Objects {
		total += len(obj.Triangles)
	}
	return total
}

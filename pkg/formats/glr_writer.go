package formats

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/Faultbox/glrimport/pkg/encoding"
)

// WriteGLR encodes g in the GLR layout. Each object's triangle count is taken
// from its Triangles slice; a zero header version is written as GLRVersion.
func WriteGLR(w io.Writer, g *GLR) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, GLRTriangleSize)

	for i := range g.Objects {
		obj := &g.Objects[i]
		buf = appendGLRHeader(buf[:0], obj.Header, uint32(len(obj.Triangles)))
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("writing object %d header: %w", i, err)
		}
		for j := range obj.Triangles {
			buf = appendGLRTriangle(buf[:0], &obj.Triangles[j])
			if _, err := bw.Write(buf); err != nil {
				return fmt.Errorf("writing object %d triangle %d: %w", i, j, err)
			}
		}
	}
	return bw.Flush()
}

// EncodeGLR returns the encoded bytes of g.
func EncodeGLR(g *GLR) []byte {
	var buf bytes.Buffer
	_ = WriteGLR(&buf, g) // bytes.Buffer writes do not fail
	return buf.Bytes()
}

// WriteGLRFile writes g to a file on disk.
func WriteGLRFile(path string, g *GLR) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating GLR file: %w", err)
	}
	if err := WriteGLR(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func appendGLRHeader(b []byte, h GLRHeader, triangles uint32) []byte {
	version := h.Version
	if version == 0 {
		version = GLRVersion
	}
	name := h.RawROMName[:]
	if h.RawROMName == [GLRROMNameSize]byte{} && h.ROMName != "" {
		name = encoding.FixedString(h.ROMName, GLRROMNameSize)
	}

	b = append(b, GLRMagic...)
	b = binary.LittleEndian.AppendUint16(b, version)
	b = append(b, name...)
	b = binary.LittleEndian.AppendUint32(b, triangles)
	b = binary.LittleEndian.AppendUint32(b, h.Microcode)
	return b
}

func appendGLRTriangle(b []byte, t *GLRTriangle) []byte {
	for _, v := range t.Vertices {
		b = appendF32s(b, v.Position[:]...)
		b = appendF32s(b, v.Color[:]...)
		b = appendF32s(b, v.UV0[:]...)
		b = appendF32s(b, v.UV1[:]...)
	}

	m := &t.Material
	b = appendF32s(b, t.Fog.Color[:]...)
	b = appendF32s(b, m.Blend[:]...)
	b = appendF32s(b, m.Env[:]...)
	b = appendF32s(b, m.Prim[:]...)
	b = appendF32s(b, m.PrimLODFrac, m.PrimMinLevel, t.Fog.Multiplier, t.Fog.Offset)
	b = binary.LittleEndian.AppendUint32(b, uint32(m.K4))
	b = binary.LittleEndian.AppendUint32(b, uint32(m.K5))
	b = binary.LittleEndian.AppendUint64(b, m.CombinerMux)
	b = binary.LittleEndian.AppendUint64(b, m.OtherMode)
	b = binary.LittleEndian.AppendUint32(b, m.GeometryMode)

	for _, tex := range t.Textures {
		b = binary.LittleEndian.AppendUint64(b, tex.CRC)
		b = append(b, tex.MaskS, tex.MaskT, tex.WrapS, tex.WrapT)
	}
	return b
}

func appendF32s(b []byte, vals ...float32) []byte {
	for _, v := range vals {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(v))
	}
	return b
}

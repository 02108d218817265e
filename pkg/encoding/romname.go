// Package encoding provides text decoding helpers for N64 ROM header strings.
package encoding

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"
)

// UnknownGame is returned by ROMName when the header name is blank.
const UnknownGame = "Unknown N64 Game"

// ShiftJISToUTF8 converts Shift-JIS encoded bytes to a UTF-8 string.
// Invalid sequences decode to U+FFFD.
func ShiftJISToUTF8(data []byte) string {
	decoder := japanese.ShiftJIS.NewDecoder()
	result, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return strings.ToValidUTF8(string(data), string(utf8.RuneError))
	}
	return string(result)
}

// TrimNullBytes removes trailing null bytes from a byte slice.
func TrimNullBytes(data []byte) []byte {
	return bytes.TrimRight(data, "\x00")
}

// ROMName decodes the fixed-size game name from a ROM header.
// ASCII names pass through unchanged; anything else is decoded as Shift-JIS,
// which Japanese cartridges use. Embedded NULs are dropped and surrounding
// whitespace trimmed. A blank name yields UnknownGame.
func ROMName(raw []byte) string {
	raw = bytes.ReplaceAll(raw, []byte{0}, nil)

	var name string
	if isASCII(raw) {
		name = string(raw)
	} else {
		name = ShiftJISToUTF8(raw)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return UnknownGame
	}
	return name
}

// FixedString encodes s into a NUL-padded field of the given size.
// Strings longer than size are truncated.
func FixedString(s string, size int) []byte {
	out := make([]byte, size)
	copy(out, s)
	return out
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

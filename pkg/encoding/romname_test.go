package encoding

import (
	"testing"
)

func TestROMName(t *testing.T) {
	tests := []struct {
		name string
		raw  []byte
		want string
	}{
		{"ascii padded", []byte("SUPER MARIO 64      "), "SUPER MARIO 64"},
		{"nul padded", append([]byte("ZELDA MAJORA'S MASK"), 0), "ZELDA MAJORA'S MASK"},
		{"blank", make([]byte, 20), UnknownGame},
		{"spaces only", []byte("                    "), UnknownGame},
		// "ゼルダ" in Shift-JIS
		{"shift-jis", []byte{0x83, 0x5b, 0x83, 0x8b, 0x83, 0x5f, 0x00, 0x00}, "ゼルダ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ROMName(tt.raw); got != tt.want {
				t.Errorf("ROMName(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestFixedString(t *testing.T) {
	got := FixedString("ABC", 6)
	want := []byte{'A', 'B', 'C', 0, 0, 0}
	if string(got) != string(want) {
		t.Errorf("FixedString = %v, want %v", got, want)
	}

	if got := FixedString("ABCDEFGH", 4); string(got) != "ABCD" {
		t.Errorf("FixedString truncation = %q, want %q", got, "ABCD")
	}
}

func TestTrimNullBytes(t *testing.T) {
	if got := TrimNullBytes([]byte("abc\x00\x00")); string(got) != "abc" {
		t.Errorf("TrimNullBytes = %q, want %q", got, "abc")
	}
}

package richtext

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf {
			return false
		}
	}
	return true
}

// Number of user-perceived characters (extended grapheme clusters). This is what post length limits count.
func GraphemeLen(s string) int {
	if isASCII(s) {
		return len(s)
	}
	return uniseg.GraphemeClusterCount(s)
}

// Byte length of the UTF-8 encoding. Go strings are already UTF-8, so this is len(s); it exists to make byte-limit checks read clearly next to [GraphemeLen].
func UTF8Length(s string) int {
	return len(s)
}

// Number of UTF-16 code units, as counted by JavaScript clients.
func UTF16Length(s string) int {
	if isASCII(s) {
		return len(s)
	}
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// Converts a UTF-16 code unit offset in to a UTF-8 byte offset in `s`. Offsets past the end clamp to len(s); an offset in the middle of a surrogate pair rounds up to the end of that rune.
func UTF16ToByteOffset(s string, offset int) int {
	if offset <= 0 {
		return 0
	}
	units := 0
	for i, r := range s {
		if units >= offset {
			return i
		}
		units += utf16.RuneLen(r)
	}
	return len(s)
}

// Decodes UTF-16 code units. Unpaired surrogates become U+FFFD.
func UTF16ToString(units []uint16) string {
	return string(utf16.Decode(units))
}

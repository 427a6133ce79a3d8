package hub

import (
	"bytes"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

// escapeNonASCII renders text the way the signing side serializes it:
// ASCII characters verbatim, every UTF-16 code unit above 0x7F as a
// 4-digit lowercase \uXXXX escape. Supplementary code points become their
// surrogate-pair escapes.
func escapeNonASCII(s string) []byte {
	var buf bytes.Buffer
	buf.Grow(len(s))

	for _, r := range s {
		if r < utf8.RuneSelf {
			buf.WriteByte(byte(r))
			continue
		}
		if r > 0xFFFF {
			hi, lo := utf16.EncodeRune(r)
			fmt.Fprintf(&buf, `\u%04x\u%04x`, hi, lo)
			continue
		}
		fmt.Fprintf(&buf, `\u%04x`, r)
	}

	return buf.Bytes()
}

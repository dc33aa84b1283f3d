package lexer

import (
	"bytes"

	"golang.org/x/text/unicode/norm"
)

// bomUTF8 is the UTF-8 Byte Order Mark.
var bomUTF8 = []byte{0xEF, 0xBB, 0xBF}

// Normalize performs input normalization at the registry's source
// ingestion boundary:
//  1. Strips a UTF-8 BOM if present.
//  2. Applies Unicode NFC normalization.
//
// This ensures that lexically equivalent WGSL source produces
// identical token streams regardless of how an editor encoded
// combining characters in identifiers.
func Normalize(src []byte) []byte {
	src = bytes.TrimPrefix(src, bomUTF8)
	if !norm.NFC.IsNormal(src) {
		src = norm.NFC.Bytes(src)
	}
	return src
}

// NormalizeString is a convenience wrapper around Normalize for string
// inputs, which is how the registry receives module sources.
func NormalizeString(src string) string {
	return string(Normalize([]byte(src)))
}

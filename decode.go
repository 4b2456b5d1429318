package mojibake

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Supported source encodings, in detection order.
const (
	EncodingUTF8        = "utf-8"
	EncodingWindows1252 = "windows-1252"
	EncodingISO8859_1   = "iso-8859-1"
)

// ErrUndecodable marks a file whose bytes could not be decoded by any
// supported encoding. Callers skip such files with a warning instead of
// failing the run.
var ErrUndecodable = errors.New("content is not decodable as utf-8, windows-1252 or iso-8859-1")

// Windows-1252 leaves these byte values undefined. A strict decode must
// reject them so detection can fall through to ISO-8859-1.
var cp1252Undefined = [256]bool{
	0x81: true, 0x8D: true, 0x8F: true, 0x90: true, 0x9D: true,
}

// DecodeBytes decodes file content using the first encoding that accepts
// every byte: strict UTF-8, then Windows-1252, then ISO-8859-1. It returns
// the decoded text and the name of the encoding that won.
func DecodeBytes(data []byte) (string, string, error) {
	if utf8.Valid(data) {
		return string(data), EncodingUTF8, nil
	}

	if cp1252Strict(data) {
		text, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err == nil {
			return string(text), EncodingWindows1252, nil
		}
	}

	// ISO-8859-1 maps every byte 1:1 to codepoints 0-255, so this only
	// fails if the decoder itself errors.
	text, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrUndecodable, err)
	}
	return string(text), EncodingISO8859_1, nil
}

func cp1252Strict(data []byte) bool {
	for _, b := range data {
		if cp1252Undefined[b] {
			return false
		}
	}
	return true
}

package content

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
)

// DefaultEncoding is assumed when a caller does not name one.
const DefaultEncoding = "utf-8"

// Decode converts raw bytes to a string using the named encoding. An empty
// label means utf-8; "auto" detects the charset from the data first. With
// lossy set, invalid utf-8 sequences become replacement runes instead of
// failing the decode.
func Decode(data []byte, label string, lossy bool) (string, error) {
	label = strings.ToLower(strings.TrimSpace(label))
	switch label {
	case "", "utf-8", "utf8":
		return decodeUTF8(data, lossy)
	case "auto":
		detected := DetectCharset(data)
		if detected == "utf-8" || detected == "utf8" {
			return decodeUTF8(data, lossy)
		}
		return decodeCharset(data, detected)
	default:
		return decodeCharset(data, label)
	}
}

func decodeUTF8(data []byte, lossy bool) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}
	if !lossy {
		return "", fmt.Errorf("invalid utf-8 byte sequence")
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError)), nil
}

// decodeCharset decodes via a named charset. The underlying decoders
// substitute replacement runes for undecodable bytes, so a known charset
// always yields text; only unknown labels fail.
func decodeCharset(data []byte, label string) (string, error) {
	enc, name := charset.Lookup(label)
	if enc == nil {
		return "", fmt.Errorf("unsupported encoding %q", label)
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decoding as %s: %w", name, err)
	}
	return string(out), nil
}

// DetectCharset guesses the charset of data, falling back to utf-8 when
// detection is inconclusive.
func DetectCharset(data []byte) string {
	if len(data) == 0 {
		return DefaultEncoding
	}
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil || result.Charset == "" {
		return DefaultEncoding
	}
	return strings.ToLower(result.Charset)
}

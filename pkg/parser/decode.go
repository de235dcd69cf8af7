package parser

import (
	"fmt"
	"strings"
	"unicode"

	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/ekaya-inc/ekaya-tabular/pkg/apperrors"
)

// Decode converts raw file bytes to text. A UTF-8 or UTF-16 byte order mark
// selects the encoding and is stripped; input without a BOM is read as UTF-8,
// with invalid sequences replaced by U+FFFD.
func Decode(data []byte) (string, error) {
	decoder := xunicode.BOMOverride(xunicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(decoder, data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrUnsupportedEncoding, err)
	}
	return string(out), nil
}

// NormalizeHeader canonicalizes a header field: NFC composition, control
// characters removed, surrounding whitespace trimmed. Names from different
// files then compare equal when they render the same.
func NormalizeHeader(name string) string {
	name = norm.NFC.String(name)
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, name)
	return strings.TrimSpace(name)
}

// Package fetch: body decoding.
package fetch

import (
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"
)

// decodeBody converts raw to UTF-8. Content-Type, BOM and <meta> declarations
// win; otherwise chardet guesses. Undecodable input is returned as-is.
func decodeBody(raw []byte, contentType string) string {
	if isASCII(raw) {
		return string(raw)
	}

	enc, name, certain := charset.DetermineEncoding(raw, contentType)
	if !certain && name != "utf-8" {
		if detected := detectCharset(raw); detected != "" {
			if e, err := htmlindex.Get(detected); err == nil {
				enc = e
			}
		}
	}

	decoded, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}

// detectCharset returns chardet's best guess, lowercased, or "".
func detectCharset(raw []byte) string {
	result, err := chardet.NewHtmlDetector().DetectBest(raw)
	if err != nil || result == nil {
		return ""
	}
	return strings.ToLower(result.Charset)
}

func isASCII(raw []byte) bool {
	for _, b := range raw {
		if b >= 0x80 {
			return false
		}
	}
	return true
}

package validation

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/username/interestledger/backend/src/logger"
)

// AllowedClientContentTypes is a map for quick lookup of allowed client-declared MIME types.
var AllowedClientContentTypes = map[string]bool{
	"text/csv":                 true,
	"application/csv":          true,
	"text/plain":               true, // CSVs are often plain text
	"application/vnd.ms-excel": true, // Often used for CSV by older Excel
	"application/pdf":          true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"application/octet-stream": true, // Browsers fall back to this for XLSX
}

// ValidateClientContentType checks the Content-Type header provided by the client.
func ValidateClientContentType(contentType string) error {
	normalized := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	if normalized == "" {
		return nil // Some clients omit the part Content-Type entirely
	}
	if !AllowedClientContentTypes[normalized] {
		logger.L.Warn("Disallowed client-declared Content-Type", "contentType", contentType)
		return fmt.Errorf("client-declared file type '%s' is not allowed for statement upload", contentType)
	}
	return nil
}

var (
	pdfMagic = []byte("%PDF")
	zipMagic = []byte("PK\x03\x04") // XLSX is a zip container
)

// contentSniffLimit is how many leading bytes are inspected for the content
// signature check.
const contentSniffLimit = 1024

// isTextContent checks whether a buffer looks like a text-based export (CSV).
func isTextContent(buf []byte) bool {
	if bytes.IndexByte(buf, 0) != -1 {
		return false
	}
	return utf8.Valid(buf)
}

// trimPartialRune drops a multibyte rune cut in half by the sniff boundary.
// Genuinely invalid byte sequences are left alone for utf8.Valid to reject.
func trimPartialRune(buf []byte) []byte {
	for i := 0; i < utf8.UTFMax && i < len(buf); i++ {
		end := len(buf) - i
		if !utf8.RuneStart(buf[end-1]) {
			continue
		}
		if r, size := utf8.DecodeRune(buf[end-1:]); r == utf8.RuneError && size <= 1 && buf[end-1] >= 0xC0 {
			// Start byte of a multibyte rune whose tail was cut off
			return buf[:end-1]
		}
		return buf
	}
	return buf
}

// ValidateStatementContent checks the actual content signature of an uploaded
// statement. Accepted shapes are PDF, XLSX (zip container) and text (CSV).
// Returns the detected content type for logging.
func ValidateStatementContent(data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("file is empty")
	}

	head := data
	if len(head) > contentSniffLimit {
		head = trimPartialRune(head[:contentSniffLimit])
	}

	switch {
	case bytes.HasPrefix(head, pdfMagic):
		return "application/pdf", nil
	case bytes.HasPrefix(head, zipMagic):
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", nil
	case isTextContent(head):
		detected := strings.ToLower(strings.Split(http.DetectContentType(head), ";")[0])
		return detected, nil
	}

	logger.L.Warn("File rejected: content is neither PDF, XLSX nor text")
	return "application/octet-stream", fmt.Errorf("file content is not a recognized statement format (PDF, XLSX or CSV)")
}

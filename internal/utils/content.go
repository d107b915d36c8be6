package utils

import (
	"bytes"
	"net/http"
	"unicode/utf8"
)

// sniffLength is the number of leading bytes inspected when detecting content types.
const sniffLength = 512

// IsBinary reports whether data cannot be written as text: it is not valid
// UTF-8 or it contains a NUL byte. Empty data is text.
func IsBinary(data []byte) bool {
	return !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0
}

// DetectMimeType returns the MIME type sniffed from the leading bytes of data.
func DetectMimeType(data []byte) string {
	if len(data) > sniffLength {
		data = data[:sniffLength]
	}
	return http.DetectContentType(data)
}

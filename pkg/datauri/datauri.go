// Package datauri encodes and decodes base64 data: URIs.
package datauri

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

const defaultMIMEType = "image/jpeg"

// ErrMalformed is returned for strings that are not base64 data URIs.
var ErrMalformed = errors.New("malformed data URI")

// Payload is the decoded content of a data URI.
type Payload struct {
	MIMEType string
	Data     []byte
}

// IsDataURI reports whether s looks like a data: URI.
func IsDataURI(s string) bool {
	return len(s) > 5 && strings.EqualFold(s[:5], "data:")
}

// Encode builds a base64 data URI.
func Encode(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// Decode splits a data URI into its media type and bytes.
// A missing media type defaults to image/jpeg.
func Decode(uri string) (Payload, error) {
	if !IsDataURI(uri) {
		return Payload{}, ErrMalformed
	}
	header, body, ok := strings.Cut(uri[5:], ",")
	if !ok {
		return Payload{}, fmt.Errorf("%w: missing comma", ErrMalformed)
	}

	params := strings.Split(header, ";")
	mimeType := strings.TrimSpace(params[0])
	if mimeType == "" {
		mimeType = defaultMIMEType
	}
	isBase64 := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isBase64 = true
		}
	}
	if !isBase64 {
		return Payload{}, fmt.Errorf("%w: only base64 payloads are supported", ErrMalformed)
	}

	data, err := base64.StdEncoding.DecodeString(strings.TrimSpace(body))
	if err != nil {
		// Some encoders drop the padding.
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(strings.TrimSpace(body), "="))
		if err != nil {
			return Payload{}, fmt.Errorf("decode base64: %w", err)
		}
	}
	return Payload{MIMEType: mimeType, Data: data}, nil
}

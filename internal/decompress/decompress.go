// Package decompress turns gzip payloads posted by workflow-automation tools
// into XML text.
package decompress

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/klauspost/compress/gzip"
)

var (
	ErrUnknownFormat = errors.New("no valid data format found")
	ErrNotGzip       = errors.New("payload is not gzip data")
	ErrTooLarge      = errors.New("decompressed payload exceeds size limit")
)

// GzipHeader is the magic prefix plus the deflate method byte.
var GzipHeader = []byte{0x1f, 0x8b, 0x08}

// nodeBuffer is the serialized Buffer object n8n emits for binary data.
type nodeBuffer struct {
	Handle *struct {
		Buffer *struct {
			Data []int `json:"data"`
		} `json:"buffer"`
	} `json:"_handle"`
}

func (b *nodeBuffer) bytes() ([]byte, bool, error) {
	if b == nil || b.Handle == nil || b.Handle.Buffer == nil {
		return nil, false, nil
	}
	out := make([]byte, len(b.Handle.Buffer.Data))
	for i, v := range b.Handle.Buffer.Data {
		if v < 0 || v > 255 {
			return nil, true, fmt.Errorf("byte %d out of range: %d", i, v)
		}
		out[i] = byte(v)
	}
	return out, true, nil
}

// Extract pulls the raw bytes out of a request body. Accepted shapes, in
// order of precedence:
//
//	{"base64": "..."}
//	{"data": {"_handle": {"buffer": {"data": [...]}}}}
//	{"_handle": {"buffer": {"data": [...]}}}
func Extract(body map[string]json.RawMessage) ([]byte, error) {
	if raw, ok := body["base64"]; ok {
		var s string
		if err := json.Unmarshal(raw, &s); err == nil && s != "" {
			buf, err := base64.StdEncoding.DecodeString(s)
			if err != nil {
				return nil, fmt.Errorf("decode base64: %w", err)
			}
			return buf, nil
		}
	}

	if raw, ok := body["data"]; ok {
		var nb nodeBuffer
		if err := json.Unmarshal(raw, &nb); err == nil {
			if buf, found, err := nb.bytes(); found {
				return buf, err
			}
		}
	}

	if raw, ok := body["_handle"]; ok {
		nb := nodeBuffer{}
		if err := json.Unmarshal([]byte(`{"_handle":`+string(raw)+`}`), &nb); err == nil {
			if buf, found, err := nb.bytes(); found {
				return buf, err
			}
		}
	}

	return nil, ErrUnknownFormat
}

// IsGzip reports whether buf starts with the gzip magic bytes.
func IsGzip(buf []byte) bool {
	return len(buf) >= 2 && buf[0] == GzipHeader[0] && buf[1] == GzipHeader[1]
}

// LooksLikeXML reports whether buf is already an XML or SOAP document.
func LooksLikeXML(buf []byte) bool {
	return bytes.Contains(buf, []byte("<?xml")) || bytes.Contains(buf, []byte("<s:Envelope"))
}

// ToXML gunzips buf, returning at most maxBytes of output. Payloads that are
// already XML pass through unchanged.
func ToXML(buf []byte, maxBytes int64) ([]byte, error) {
	if !IsGzip(buf) {
		if LooksLikeXML(buf) {
			return buf, nil
		}
		return nil, ErrNotGzip
	}

	zr, err := gzip.NewReader(bytes.NewReader(buf))
	if err != nil {
		return nil, fmt.Errorf("open gzip stream: %w", err)
	}
	defer zr.Close()

	out, err := io.ReadAll(io.LimitReader(zr, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("gunzip: %w", err)
	}
	if int64(len(out)) > maxBytes {
		return nil, ErrTooLarge
	}
	return out, nil
}

// FirstBytes returns up to n leading bytes as ints, for error hints.
func FirstBytes(buf []byte, n int) []int {
	if len(buf) < n {
		n = len(buf)
	}
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = int(buf[i])
	}
	return out
}

// Keys returns the sorted top-level keys of a request body.
func Keys(body map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

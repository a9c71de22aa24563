package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Harshitk-cp/leaddesk/internal/decompress"
	"go.uber.org/zap"
)

type DecompressHandler struct {
	maxBytes int64
	logger   *zap.Logger
}

func NewDecompressHandler(maxBytes int64, logger *zap.Logger) *DecompressHandler {
	return &DecompressHandler{maxBytes: maxBytes, logger: logger}
}

type unknownFormatResponse struct {
	Error        string   `json:"error"`
	ReceivedKeys []string `json:"received_keys"`
	Hint         string   `json:"hint"`
}

type notGzipResponse struct {
	Error              string `json:"error"`
	FirstBytes         []int  `json:"first_bytes"`
	ExpectedGzipHeader []int  `json:"expected_gzip_header"`
}

// Decompress accepts a gzip payload in one of the supported JSON envelopes
// and answers with the decompressed XML document.
func (h *DecompressHandler) Decompress(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBytes)).Decode(&body); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	buf, err := decompress.Extract(body)
	if err != nil {
		if errors.Is(err, decompress.ErrUnknownFormat) {
			writeJSON(w, http.StatusBadRequest, unknownFormatResponse{
				Error:        err.Error(),
				ReceivedKeys: decompress.Keys(body),
				Hint:         `expected {"base64": "..."} or a buffer object`,
			})
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	xml, err := decompress.ToXML(buf, h.maxBytes)
	if err != nil {
		switch {
		case errors.Is(err, decompress.ErrNotGzip):
			writeJSON(w, http.StatusBadRequest, notGzipResponse{
				Error:              err.Error(),
				FirstBytes:         decompress.FirstBytes(buf, 3),
				ExpectedGzipHeader: decompress.FirstBytes(decompress.GzipHeader, 3),
			})
		case errors.Is(err, decompress.ErrTooLarge):
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
		default:
			h.logger.Error("decompress payload", zap.Int("payload_bytes", len(buf)), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "decompression failed")
		}
		return
	}

	h.logger.Debug("payload decompressed", zap.Int("payload_bytes", len(buf)), zap.Int("xml_bytes", len(xml)))
	w.Header().Set("Content-Type", "text/xml; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(xml)
}

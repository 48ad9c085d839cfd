// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/okian/rlcoach/internal/adapters/mq/queue"
	"github.com/okian/rlcoach/pkg/metrics"
)

// MatchesHandler handles match upload requests.
type MatchesHandler struct {
	deps     Dependencies
	maxBytes int64
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps Dependencies, maxBytes int64) *MatchesHandler {
	return &MatchesHandler{deps: deps, maxBytes: maxBytes}
}

// HandleUploadMatch handles POST /players/{id}/matches requests.
//
// The payload is either the raw match record itself, or a
// multipart/form-data body with the record under the match_file field.
// Malformed records are still accepted: extraction degrades them to a
// zero metrics tuple rather than rejecting the upload.
func (h *MatchesHandler) HandleUploadMatch(w http.ResponseWriter, r *http.Request, playerID string) {
	const op = "api.upload_match"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	raw, err := h.readPayload(r)
	if err != nil {
		metrics.RecordUploadRejected()
		status := http.StatusBadRequest
		code := "bad_request"
		if errors.Is(err, ErrTooLarge) {
			status = http.StatusRequestEntityTooLarge
			code = "too_large"
		}
		writeError(w, status, code, WrapKind(op, ErrBadRequest, err))
		return
	}

	// Idempotency on payload content: resubmitting the same bytes for
	// the same player is acknowledged without reprocessing.
	uploadID := contentHash(playerID, raw)
	if h.deps.SeenAndRecord(r.Context(), uploadID) {
		writeJSON(w, http.StatusOK, ackResponse{Status: "duplicate", Duplicate: true})
		return
	}

	matchID, err := h.deps.Ingest(r.Context(), playerID, raw)
	if err != nil {
		// Roll back the seen status so the client may retry.
		h.deps.Unrecord(r.Context(), uploadID)
		if errors.Is(err, queue.ErrFull) {
			writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}

	writeJSON(w, http.StatusAccepted, ackResponse{Status: "accepted", MatchID: matchID, Duplicate: false})
}

// readPayload extracts the raw record bytes from the request body,
// honoring the configured size cap.
func (h *MatchesHandler) readPayload(r *http.Request) ([]byte, error) {
	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(h.maxBytes); err != nil {
			return nil, err
		}
		file, _, err := r.FormFile("match_file")
		if err != nil {
			return nil, errors.New("missing match_file field")
		}
		defer file.Close()
		return readCapped(file, h.maxBytes)
	}
	return readCapped(r.Body, h.maxBytes)
}

// readCapped reads at most max bytes, failing when the payload exceeds
// the cap, and rejecting empty payloads.
func readCapped(r io.Reader, max int64) ([]byte, error) {
	raw, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(raw)) > max {
		return nil, ErrTooLarge
	}
	if len(raw) == 0 {
		return nil, errors.New("empty payload")
	}
	return raw, nil
}

// contentHash derives the idempotency key for an upload.
func contentHash(playerID string, raw []byte) string {
	sum := sha256.New()
	sum.Write([]byte(playerID))
	sum.Write([]byte{0})
	sum.Write(raw)
	return hex.EncodeToString(sum.Sum(nil))
}

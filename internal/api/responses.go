package api

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	orchestration "github.com/alpacavoice/agent/core"
)

type errorResponse struct {
	Error string `json:"error"`
}

// degradedResponse is the uniform JSON shape for degraded pipeline results.
// AudioBase64 is null when even the fallback synthesis failed.
type degradedResponse struct {
	Error       string  `json:"error"`
	Text        string  `json:"text"`
	AudioBase64 *string `json:"audio_base64"`
}

func newDegradedResponse(result orchestration.Result) degradedResponse {
	return degradedResponse{
		Error:       result.ErrorSummary,
		Text:        result.Text,
		AudioBase64: encodeAudio(result.Audio),
	}
}

func encodeAudio(audio []byte) *string {
	if len(audio) == 0 {
		return nil
	}
	encoded := base64.StdEncoding.EncodeToString(audio)
	return &encoded
}

func encodeAudioString(audio []byte) string {
	return base64.StdEncoding.EncodeToString(audio)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func decodeJSONBody(w http.ResponseWriter, r *http.Request, maxBytes int64, dst any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBytes)).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

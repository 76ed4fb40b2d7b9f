package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	orchestration "github.com/alpacavoice/agent/core"
	"github.com/alpacavoice/agent/core/conversations"
	"github.com/alpacavoice/agent/core/texttospeech"
	"github.com/alpacavoice/agent/internal/config"
)

// Pipeline is the orchestrator surface the handlers depend on.
type Pipeline interface {
	SynthesizeSpeech(ctx context.Context, text string, voice texttospeech.Voice) orchestration.Result
	Transcribe(ctx context.Context, audio []byte) (string, error)
	Echo(ctx context.Context, audio []byte) orchestration.Result
	Query(ctx context.Context, audio []byte) orchestration.Result
	Chat(ctx context.Context, sessionID string, audio []byte) orchestration.Result
}

type Handler struct {
	Pipeline      Pipeline
	Conversations *conversations.Store
	Config        config.Config
	Logger        *slog.Logger
}

type generateAudioRequest struct {
	Text    string `json:"text"`
	VoiceID string `json:"voice_id"`
}

type generateAudioResponse struct {
	AudioBase64 string `json:"audio_base64"`
}

func (h *Handler) GenerateAudio(w http.ResponseWriter, r *http.Request) {
	var req generateAudioRequest
	if !decodeJSONBody(w, r, h.Config.MaxBodyBytes, &req) {
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}

	voice := texttospeech.Voice(req.VoiceID)
	if voice == "" {
		voice = texttospeech.DefaultVoice
	}

	result := h.Pipeline.SynthesizeSpeech(r.Context(), req.Text, voice)
	if result.Degraded {
		writeJSON(w, http.StatusOK, newDegradedResponse(result))
		return
	}
	writeJSON(w, http.StatusOK, generateAudioResponse{AudioBase64: encodeAudioString(result.Audio)})
}

type transcriptionResponse struct {
	Error         string `json:"error,omitempty"`
	Transcription string `json:"transcription"`
}

// TranscribeAudio is the one pure-text endpoint: backend errors are surfaced
// in a structured field instead of being converted into fallback audio.
func (h *Handler) TranscribeAudio(w http.ResponseWriter, r *http.Request) {
	audio, ok := readAudioBody(w, r, h.Config.MaxBodyBytes)
	if !ok {
		return
	}

	transcription, err := h.Pipeline.Transcribe(r.Context(), audio)
	if err != nil {
		writeJSON(w, http.StatusOK, transcriptionResponse{Error: err.Error(), Transcription: ""})
		return
	}
	writeJSON(w, http.StatusOK, transcriptionResponse{Transcription: transcription})
}

// Echo streams the synthesized speech back as raw bytes on success, but
// degrades to the same JSON payload as the other pipelines on failure. The
// asymmetry is part of the existing contract.
func (h *Handler) Echo(w http.ResponseWriter, r *http.Request) {
	audio, ok := readAudioBody(w, r, h.Config.MaxBodyBytes)
	if !ok {
		return
	}

	result := h.Pipeline.Echo(r.Context(), audio)
	if result.Degraded {
		writeJSON(w, http.StatusOK, newDegradedResponse(result))
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Audio)
}

type queryResponse struct {
	Text        string `json:"text"`
	AudioBase64 string `json:"audio_base64"`
}

func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	audio, ok := readAudioBody(w, r, h.Config.MaxBodyBytes)
	if !ok {
		return
	}

	result := h.Pipeline.Query(r.Context(), audio)
	if result.Degraded {
		writeJSON(w, http.StatusOK, newDegradedResponse(result))
		return
	}
	writeJSON(w, http.StatusOK, queryResponse{
		Text:        result.Text,
		AudioBase64: encodeAudioString(result.Audio),
	})
}

type chatResponse struct {
	Transcription string `json:"transcription"`
	Text          string `json:"text"`
	AudioBase64   string `json:"audio_base64"`
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	audio, ok := readAudioBody(w, r, h.Config.MaxBodyBytes)
	if !ok {
		return
	}

	result := h.Pipeline.Chat(r.Context(), r.PathValue("sessionId"), audio)
	if result.Degraded {
		writeJSON(w, http.StatusOK, newDegradedResponse(result))
		return
	}
	writeJSON(w, http.StatusOK, chatResponse{
		Transcription: result.Transcription,
		Text:          result.Text,
		AudioBase64:   encodeAudioString(result.Audio),
	})
}

type chatHistoryResponse struct {
	SessionID string               `json:"session_id"`
	Messages  []conversations.Turn `json:"messages"`
}

func (h *Handler) ChatHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionId")
	writeJSON(w, http.StatusOK, chatHistoryResponse{
		SessionID: sessionID,
		Messages:  h.Conversations.Read(sessionID),
	})
}

func (h *Handler) ClearChat(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("sessionId")
	h.Conversations.Clear(sessionID)
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("Chat history cleared for session %s", sessionID),
	})
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "healthy",
		"services": map[string]string{
			"stt": "operational",
			"tts": "operational",
			"llm": "operational",
		},
	})
}

type uploadResponse struct {
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// UploadAudio persists the raw body under the upload dir. It is a plain file
// sink, not a pipeline operation, so failures are ordinary HTTP errors.
func (h *Handler) UploadAudio(w http.ResponseWriter, r *http.Request) {
	audio, ok := readAudioBody(w, r, h.Config.MaxBodyBytes)
	if !ok {
		return
	}

	name := uuid.NewString()
	if base := filepath.Base(r.URL.Query().Get("filename")); base != "." && base != "/" && base != "" {
		name += "_" + base
	}

	path := filepath.Join(h.Config.UploadDir, name)
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		h.Logger.Error("failed to store uploaded audio", "error", err, "path", path)
		writeError(w, http.StatusInternalServerError, "failed to store upload")
		return
	}

	writeJSON(w, http.StatusOK, uploadResponse{Filename: name, Size: int64(len(audio))})
}

func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	http.ServeFile(w, r, filepath.Join(h.Config.StaticDir, "index.html"))
}

func readAudioBody(w http.ResponseWriter, r *http.Request, maxBytes int64) ([]byte, bool) {
	audio, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBytes))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, "audio upload too large")
		} else {
			writeError(w, http.StatusBadRequest, "failed to read audio upload")
		}
		return nil, false
	}
	if len(audio) == 0 {
		writeError(w, http.StatusBadRequest, "empty audio upload")
		return nil, false
	}
	return audio, true
}

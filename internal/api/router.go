package api

import (
	"net/http"
)

func NewRouter(h *Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /generate-audio", h.GenerateAudio)
	mux.HandleFunc("POST /transcribe", h.TranscribeAudio)
	mux.HandleFunc("POST /tts-echo", h.Echo)
	mux.HandleFunc("POST /llm-query", h.Query)
	mux.HandleFunc("POST /chat/{sessionId}", h.Chat)
	mux.HandleFunc("GET /chat/{sessionId}", h.ChatHistory)
	mux.HandleFunc("DELETE /chat/{sessionId}", h.ClearChat)
	mux.HandleFunc("GET /health", h.Health)
	mux.HandleFunc("POST /upload-audio", h.UploadAudio)

	if h.Config.StaticDir != "" {
		mux.Handle("GET /static/", http.StripPrefix("/static/",
			http.FileServer(http.Dir(h.Config.StaticDir))))
		mux.HandleFunc("GET /{$}", h.Index)
	}

	return mux
}

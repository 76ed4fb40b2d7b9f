package orchestration

import (
	"context"
	"time"

	"github.com/alpacavoice/agent/core/conversations"
	"github.com/alpacavoice/agent/core/texttospeech"
)

// Transcriber converts one complete audio utterance into text. It returns an
// empty string, not an error, when no speech is detected.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte) (string, error)
}

// Replier produces a conversational reply for a prompt. It returns an empty
// string when the backend yields no usable content.
type Replier interface {
	Reply(ctx context.Context, prompt string) (string, error)
}

// Synthesizer converts text into playable audio using the given voice.
type Synthesizer interface {
	Synthesize(ctx context.Context, text string, voice texttospeech.Voice) ([]byte, error)
}

type OrchestratorOption func(*Orchestrator)

func WithTranscriber(client Transcriber) OrchestratorOption {
	return func(o *Orchestrator) {
		o.transcriber = client
	}
}

func WithReplier(client Replier) OrchestratorOption {
	return func(o *Orchestrator) {
		o.replier = client
	}
}

func WithSynthesizer(client Synthesizer) OrchestratorOption {
	return func(o *Orchestrator) {
		o.synthesizer = client
	}
}

func WithConversationStore(store *conversations.Store) OrchestratorOption {
	return func(o *Orchestrator) {
		if store != nil {
			o.store = store
		}
	}
}

// WithDefaultVoice sets the voice used for echo replies, chat replies and all
// fallback synthesis.
func WithDefaultVoice(voice texttospeech.Voice) OrchestratorOption {
	return func(o *Orchestrator) {
		if voice != "" {
			o.defaultVoice = voice
		}
	}
}

// WithStageTimeout bounds each capability-port call. A timed-out stage is
// treated the same as a failed one. Zero disables the bound.
func WithStageTimeout(timeout time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		o.stageTimeout = timeout
	}
}

// WithPromptTokenBudget caps the serialized conversation context sent to the
// replier, dropping the oldest turns first. Zero disables the cap. Stored
// transcripts are never trimmed.
func WithPromptTokenBudget(budget int) OrchestratorOption {
	return func(o *Orchestrator) {
		o.prompter = newPromptBuilder(budget)
	}
}

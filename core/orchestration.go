package orchestration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alpacavoice/agent/core/conversations"
	"github.com/alpacavoice/agent/core/texttospeech"
)

const defaultStageTimeout = 30 * time.Second

// Orchestrator sequences the three capability ports into whole-request voice
// pipelines and converts any stage failure into the fallback policy's output.
// It holds no cross-request state of its own; the conversation store is the
// only shared resource.
type Orchestrator struct {
	transcriber Transcriber
	replier     Replier
	synthesizer Synthesizer
	store       *conversations.Store

	defaultVoice texttospeech.Voice
	stageTimeout time.Duration
	prompter     *promptBuilder
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		store:        conversations.NewStore(),
		defaultVoice: texttospeech.DefaultVoice,
		stageTimeout: defaultStageTimeout,
		prompter:     newPromptBuilder(defaultPromptTokenBudget),
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

// Conversations exposes the session store backing Chat, for transcript reads
// and session clearing.
func (o *Orchestrator) Conversations() *conversations.Store {
	return o.store
}

func (o *Orchestrator) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if o.stageTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, o.stageTimeout)
}

func (o *Orchestrator) transcribe(ctx context.Context, audio []byte) (string, error) {
	if o.transcriber == nil {
		return "", fmt.Errorf("transcription failed: no transcriber configured")
	}

	stageCtx, cancel := o.stageContext(ctx)
	defer cancel()

	transcript, err := o.transcriber.Transcribe(stageCtx, audio)
	if err != nil {
		return "", fmt.Errorf("transcription failed: %w", err)
	}
	return strings.TrimSpace(transcript), nil
}

func (o *Orchestrator) transcribeNonEmpty(ctx context.Context, audio []byte) (string, error) {
	transcript, err := o.transcribe(ctx, audio)
	if err != nil {
		return "", err
	}
	if transcript == "" {
		return "", ErrEmptyTranscription
	}
	return transcript, nil
}

func (o *Orchestrator) reply(ctx context.Context, prompt string) (string, error) {
	if o.replier == nil {
		return "", fmt.Errorf("reply generation failed: no replier configured")
	}

	stageCtx, cancel := o.stageContext(ctx)
	defer cancel()

	reply, err := o.replier.Reply(stageCtx, prompt)
	if err != nil {
		return "", fmt.Errorf("reply generation failed: %w", err)
	}
	if strings.TrimSpace(reply) == "" {
		return "", ErrEmptyGeneration
	}
	return strings.TrimSpace(reply), nil
}

func (o *Orchestrator) synthesize(ctx context.Context, text string, voice texttospeech.Voice) ([]byte, error) {
	if o.synthesizer == nil {
		return nil, fmt.Errorf("speech synthesis failed: no synthesizer configured")
	}
	if voice == "" {
		voice = o.defaultVoice
	}

	stageCtx, cancel := o.stageContext(ctx)
	defer cancel()

	audio, err := o.synthesizer.Synthesize(stageCtx, text, voice)
	if err != nil {
		return nil, fmt.Errorf("speech synthesis failed: %w", err)
	}
	return audio, nil
}

package orchestration

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/alpacavoice/agent/core/conversations"
	"github.com/alpacavoice/agent/core/texttospeech"
)

// Apologies served by the fallback policy, one per request kind.
const (
	synthesisApology = "I'm having trouble connecting right now."
	echoApology      = "I'm having trouble processing that."
	queryApology     = "I couldn't process that just now."
	chatApology      = "I'm having trouble connecting right now. Let's try again later."
)

// SynthesizeSpeech converts text straight to speech with the requested voice.
// A synthesis failure degrades to the fallback output.
func (o *Orchestrator) SynthesizeSpeech(ctx context.Context, text string, voice texttospeech.Voice) Result {
	ctx, span := tracer.Start(ctx, "synthesize speech")
	defer span.End()

	audio, err := o.synthesize(ctx, text, voice)
	if err != nil {
		return o.degrade(ctx, synthesisApology, err)
	}
	return Result{Text: text, Audio: audio}
}

// Transcribe converts audio to text without applying the fallback policy.
// Silence yields ("", nil); callers that need non-empty input treat that as
// ErrEmptyTranscription through the higher-level operations.
func (o *Orchestrator) Transcribe(ctx context.Context, audio []byte) (string, error) {
	ctx, span := tracer.Start(ctx, "transcribe audio")
	defer span.End()

	transcript, err := o.transcribe(ctx, audio)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return transcript, nil
}

// Echo speaks the caller's own words back: transcribe, then synthesize the
// transcript with the default voice.
func (o *Orchestrator) Echo(ctx context.Context, audio []byte) Result {
	ctx, span := tracer.Start(ctx, "tts echo")
	defer span.End()

	transcript, err := o.transcribeNonEmpty(ctx, audio)
	if err != nil {
		return o.degrade(ctx, echoApology, err)
	}

	spoken, err := o.synthesize(ctx, transcript, o.defaultVoice)
	if err != nil {
		return o.degrade(ctx, echoApology, err)
	}

	return Result{Transcription: transcript, Text: transcript, Audio: spoken}
}

// Query runs the sessionless pipeline: transcribe, generate a reply, speak it.
func (o *Orchestrator) Query(ctx context.Context, audio []byte) Result {
	ctx, span := tracer.Start(ctx, "llm query")
	defer span.End()

	transcript, err := o.transcribeNonEmpty(ctx, audio)
	if err != nil {
		return o.degrade(ctx, queryApology, err)
	}

	reply, err := o.reply(ctx, transcript)
	if err != nil {
		return o.degrade(ctx, queryApology, err)
	}

	spoken, err := o.synthesize(ctx, reply, o.defaultVoice)
	if err != nil {
		return o.degrade(ctx, queryApology, err)
	}

	return Result{Transcription: transcript, Text: reply, Audio: spoken}
}

// Chat runs the session-aware pipeline. Exchanges on the same session key are
// serialized so concurrent chats observe each other's turns before building
// their prompt. The user turn is committed before the reply stage and stays
// committed when that stage fails.
func (o *Orchestrator) Chat(ctx context.Context, sessionID string, audio []byte) Result {
	ctx, span := tracer.Start(ctx, "agent chat",
		trace.WithAttributes(attribute.String("session.id", sessionID)))
	defer span.End()

	transcript, err := o.transcribeNonEmpty(ctx, audio)
	if err != nil {
		// The session has not been touched yet.
		return o.degrade(ctx, chatApology, err)
	}

	session := o.store.GetOrCreate(sessionID)
	session.Lock()
	defer session.Unlock()

	session.Append(conversations.Turn{Role: conversations.RoleUser, Content: transcript})

	prompt := o.prompter.Build(session.Snapshot())
	reply, err := o.reply(ctx, prompt)
	if err != nil {
		return o.degrade(ctx, chatApology, err)
	}

	session.Append(conversations.Turn{Role: conversations.RoleAssistant, Content: reply})

	spoken, err := o.synthesize(ctx, reply, o.defaultVoice)
	if err != nil {
		return o.degrade(ctx, chatApology, err)
	}

	return Result{Transcription: transcript, Text: reply, Audio: spoken}
}

package orchestration

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/alpacavoice/agent/core/conversations"
	"github.com/alpacavoice/agent/core/texttospeech"
)

type transcriberStub struct {
	transcribe func(ctx context.Context, audio []byte) (string, error)
}

func (s *transcriberStub) Transcribe(ctx context.Context, audio []byte) (string, error) {
	return s.transcribe(ctx, audio)
}

type replierStub struct {
	reply func(ctx context.Context, prompt string) (string, error)
}

func (s *replierStub) Reply(ctx context.Context, prompt string) (string, error) {
	return s.reply(ctx, prompt)
}

type synthesizerStub struct {
	synthesize func(ctx context.Context, text string, voice texttospeech.Voice) ([]byte, error)
}

func (s *synthesizerStub) Synthesize(ctx context.Context, text string, voice texttospeech.Voice) ([]byte, error) {
	return s.synthesize(ctx, text, voice)
}

func fixedTranscriber(transcript string) *transcriberStub {
	return &transcriberStub{transcribe: func(context.Context, []byte) (string, error) {
		return transcript, nil
	}}
}

func fixedReplier(reply string) *replierStub {
	return &replierStub{reply: func(context.Context, string) (string, error) {
		return reply, nil
	}}
}

func workingSynthesizer() *synthesizerStub {
	return &synthesizerStub{synthesize: func(_ context.Context, text string, _ texttospeech.Voice) ([]byte, error) {
		return []byte("audio:" + text), nil
	}}
}

func newTestOrchestrator(transcriber Transcriber, replier Replier, synthesizer Synthesizer) *Orchestrator {
	return NewOrchestrator(
		WithTranscriber(transcriber),
		WithReplier(replier),
		WithSynthesizer(synthesizer),
		WithPromptTokenBudget(0),
	)
}

func TestChatFirstExchange(t *testing.T) {
	o := newTestOrchestrator(fixedTranscriber("hello"), fixedReplier("hi there"), workingSynthesizer())

	result := o.Chat(context.Background(), "s1", []byte("pcm"))

	if result.Degraded {
		t.Fatalf("expected success, got degraded result: %s", result.ErrorSummary)
	}
	if result.Transcription != "hello" || result.Text != "hi there" {
		t.Fatalf("unexpected result text, got transcription %q, text %q", result.Transcription, result.Text)
	}
	if len(result.Audio) == 0 {
		t.Fatalf("expected non-empty audio")
	}

	turns := o.Conversations().Read("s1")
	if len(turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(turns))
	}
	if turns[0].Role != conversations.RoleUser || turns[0].Content != "hello" {
		t.Fatalf("unexpected first turn: %+v", turns[0])
	}
	if turns[1].Role != conversations.RoleAssistant || turns[1].Content != "hi there" {
		t.Fatalf("unexpected second turn: %+v", turns[1])
	}
}

func TestChatSerializesFullTranscriptIntoPrompt(t *testing.T) {
	prompts := []string{}
	replies := []string{"hi there", "goodbye"}
	replier := &replierStub{reply: func(_ context.Context, prompt string) (string, error) {
		prompts = append(prompts, prompt)
		reply := replies[0]
		replies = replies[1:]
		return reply, nil
	}}

	transcripts := []string{"hello", "bye"}
	transcriber := &transcriberStub{transcribe: func(context.Context, []byte) (string, error) {
		transcript := transcripts[0]
		transcripts = transcripts[1:]
		return transcript, nil
	}}

	o := newTestOrchestrator(transcriber, replier, workingSynthesizer())

	if result := o.Chat(context.Background(), "s1", []byte("a")); result.Degraded {
		t.Fatalf("expected first exchange to succeed, got %s", result.ErrorSummary)
	}
	if result := o.Chat(context.Background(), "s1", []byte("b")); result.Degraded {
		t.Fatalf("expected second exchange to succeed, got %s", result.ErrorSummary)
	}

	if len(prompts) != 2 {
		t.Fatalf("expected 2 prompts, got %d", len(prompts))
	}
	want := "user: hello\nassistant: hi there\nuser: bye"
	if prompts[1] != want {
		t.Fatalf("expected serialized prompt %q, got %q", want, prompts[1])
	}
}

func TestChatEmptyTranscriptionShortCircuits(t *testing.T) {
	replierCalled := false
	replier := &replierStub{reply: func(context.Context, string) (string, error) {
		replierCalled = true
		return "should not happen", nil
	}}

	synthesized := []string{}
	synthesizer := &synthesizerStub{synthesize: func(_ context.Context, text string, _ texttospeech.Voice) ([]byte, error) {
		synthesized = append(synthesized, text)
		return []byte("apology audio"), nil
	}}

	o := newTestOrchestrator(fixedTranscriber(""), replier, synthesizer)

	result := o.Chat(context.Background(), "s1", []byte("silence"))

	if !result.Degraded {
		t.Fatalf("expected degraded result for empty transcription")
	}
	if !strings.Contains(result.ErrorSummary, ErrEmptyTranscription.Error()) {
		t.Fatalf("expected error summary to mention empty transcription, got %q", result.ErrorSummary)
	}
	if replierCalled {
		t.Fatalf("expected replier not to be called")
	}
	for _, text := range synthesized {
		if text != chatApology {
			t.Fatalf("expected synthesizer to only see the apology, got %q", text)
		}
	}
	if turns := o.Conversations().Read("s1"); len(turns) != 0 {
		t.Fatalf("expected session to stay untouched, got %d turns", len(turns))
	}
}

func TestChatReplyFailureKeepsUserTurnCommitted(t *testing.T) {
	replier := &replierStub{reply: func(context.Context, string) (string, error) {
		return "", errors.New("backend unavailable")
	}}

	o := newTestOrchestrator(fixedTranscriber("hello"), replier, workingSynthesizer())

	result := o.Chat(context.Background(), "s1", []byte("pcm"))

	if !result.Degraded {
		t.Fatalf("expected degraded result")
	}
	if result.Text != chatApology {
		t.Fatalf("expected apology text %q, got %q", chatApology, result.Text)
	}

	turns := o.Conversations().Read("s1")
	if len(turns) != 1 {
		t.Fatalf("expected the user turn to stay committed, got %d turns", len(turns))
	}
	if turns[0].Role != conversations.RoleUser || turns[0].Content != "hello" {
		t.Fatalf("unexpected committed turn: %+v", turns[0])
	}
}

func TestChatTranscriptAlternatesAcrossExchanges(t *testing.T) {
	exchange := 0
	transcriber := &transcriberStub{transcribe: func(context.Context, []byte) (string, error) {
		return fmt.Sprintf("question %d", exchange), nil
	}}
	replier := &replierStub{reply: func(context.Context, string) (string, error) {
		return fmt.Sprintf("answer %d", exchange), nil
	}}

	o := newTestOrchestrator(transcriber, replier, workingSynthesizer())

	for exchange = 1; exchange <= 3; exchange++ {
		if result := o.Chat(context.Background(), "s1", []byte("pcm")); result.Degraded {
			t.Fatalf("exchange %d unexpectedly degraded: %s", exchange, result.ErrorSummary)
		}
	}

	turns := o.Conversations().Read("s1")
	if len(turns) != 6 {
		t.Fatalf("expected 6 turns after 3 exchanges, got %d", len(turns))
	}
	for i, turn := range turns {
		want := conversations.RoleUser
		if i%2 == 1 {
			want = conversations.RoleAssistant
		}
		if turn.Role != want {
			t.Fatalf("expected turn %d to have role %q, got %q", i, want, turn.Role)
		}
	}
}

func TestQuerySuccess(t *testing.T) {
	o := newTestOrchestrator(fixedTranscriber("what time is it"), fixedReplier("noon"), workingSynthesizer())

	result := o.Query(context.Background(), []byte("pcm"))

	if result.Degraded {
		t.Fatalf("expected success, got degraded result: %s", result.ErrorSummary)
	}
	if result.Transcription != "what time is it" || result.Text != "noon" {
		t.Fatalf("unexpected result, got transcription %q, text %q", result.Transcription, result.Text)
	}
	if string(result.Audio) != "audio:noon" {
		t.Fatalf("expected the reply to be synthesized, got %q", result.Audio)
	}
}

func TestQueryEmptyReplyDegrades(t *testing.T) {
	o := newTestOrchestrator(fixedTranscriber("hello"), fixedReplier(""), workingSynthesizer())

	result := o.Query(context.Background(), []byte("pcm"))

	if !result.Degraded {
		t.Fatalf("expected degraded result for empty reply")
	}
	if result.ErrorSummary != ErrEmptyGeneration.Error() {
		t.Fatalf("expected error summary %q, got %q", ErrEmptyGeneration.Error(), result.ErrorSummary)
	}
	if result.Text != queryApology {
		t.Fatalf("expected apology %q, got %q", queryApology, result.Text)
	}
}

func TestEchoSpeaksTranscriptBack(t *testing.T) {
	o := newTestOrchestrator(fixedTranscriber("testing one two"), nil, workingSynthesizer())

	result := o.Echo(context.Background(), []byte("pcm"))

	if result.Degraded {
		t.Fatalf("expected success, got degraded result: %s", result.ErrorSummary)
	}
	if result.Text != "testing one two" {
		t.Fatalf("expected echoed transcript, got %q", result.Text)
	}
	if string(result.Audio) != "audio:testing one two" {
		t.Fatalf("expected synthesized transcript, got %q", result.Audio)
	}
}

func TestSynthesizeSpeechFallsBackOnFailure(t *testing.T) {
	synthesizer := &synthesizerStub{synthesize: func(_ context.Context, text string, _ texttospeech.Voice) ([]byte, error) {
		if text == synthesisApology {
			return []byte("apology audio"), nil
		}
		return nil, errors.New("voice rejected")
	}}

	o := newTestOrchestrator(nil, nil, synthesizer)

	result := o.SynthesizeSpeech(context.Background(), "hello world", texttospeech.DefaultVoice)

	if !result.Degraded {
		t.Fatalf("expected degraded result")
	}
	if result.Text != synthesisApology {
		t.Fatalf("expected apology text, got %q", result.Text)
	}
	if string(result.Audio) != "apology audio" {
		t.Fatalf("expected fallback audio, got %q", result.Audio)
	}
	if !strings.Contains(result.ErrorSummary, "voice rejected") {
		t.Fatalf("expected original error preserved, got %q", result.ErrorSummary)
	}
}

func TestFallbackTotalityWhenEveryPortFails(t *testing.T) {
	transcriber := &transcriberStub{transcribe: func(context.Context, []byte) (string, error) {
		return "", errors.New("stt down")
	}}
	replier := &replierStub{reply: func(context.Context, string) (string, error) {
		return "", errors.New("llm down")
	}}
	synthesizer := &synthesizerStub{synthesize: func(context.Context, string, texttospeech.Voice) ([]byte, error) {
		return nil, errors.New("tts down")
	}}

	o := newTestOrchestrator(transcriber, replier, synthesizer)

	operations := map[string]func() Result{
		"synthesize": func() Result { return o.SynthesizeSpeech(context.Background(), "hi", "") },
		"echo":       func() Result { return o.Echo(context.Background(), []byte("pcm")) },
		"query":      func() Result { return o.Query(context.Background(), []byte("pcm")) },
		"chat":       func() Result { return o.Chat(context.Background(), "s1", []byte("pcm")) },
	}

	for name, operation := range operations {
		result := operation()
		if !result.Degraded {
			t.Fatalf("%s: expected degraded result", name)
		}
		if result.Text == "" {
			t.Fatalf("%s: expected non-empty apology text", name)
		}
		if result.Audio != nil {
			t.Fatalf("%s: expected text-only degradation when fallback synthesis fails", name)
		}
		if result.ErrorSummary == "" {
			t.Fatalf("%s: expected diagnostic error summary", name)
		}
	}
}

func TestTranscribeDoesNotApplyFallback(t *testing.T) {
	o := newTestOrchestrator(&transcriberStub{transcribe: func(context.Context, []byte) (string, error) {
		return "", errors.New("stt down")
	}}, nil, workingSynthesizer())

	if _, err := o.Transcribe(context.Background(), []byte("pcm")); err == nil {
		t.Fatalf("expected transcription error to surface")
	}

	silent := newTestOrchestrator(fixedTranscriber(""), nil, workingSynthesizer())
	transcript, err := silent.Transcribe(context.Background(), []byte("pcm"))
	if err != nil {
		t.Fatalf("expected silence to yield no error, got %v", err)
	}
	if transcript != "" {
		t.Fatalf("expected empty transcript for silence, got %q", transcript)
	}
}

package orchestration

import (
	"context"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Fallback converts an apology into a safe (text, audio) pair by synthesizing
// the apology with the default voice. It is the last line of defense: when
// that synthesis fails too, it degrades to text-only output and never returns
// an error.
func (o *Orchestrator) Fallback(ctx context.Context, apology string) (string, []byte) {
	audio, err := o.synthesize(ctx, apology, o.defaultVoice)
	if err != nil {
		logger.WarnContext(ctx, "fallback synthesis failed, degrading to text only", "error", err)
		return apology, nil
	}
	return apology, audio
}

// degrade records the failed stage on the current span and builds the degraded
// result for it from the fallback policy's output.
func (o *Orchestrator) degrade(ctx context.Context, apology string, cause error) Result {
	span := trace.SpanFromContext(ctx)
	span.RecordError(cause)
	span.SetStatus(codes.Error, cause.Error())
	logger.ErrorContext(ctx, "pipeline stage failed, serving fallback", "error", cause)

	text, audio := o.Fallback(ctx, apology)
	return Result{
		Text:         text,
		Audio:        audio,
		Degraded:     true,
		ErrorSummary: cause.Error(),
	}
}

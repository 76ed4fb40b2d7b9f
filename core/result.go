package orchestration

// Result is the outcome of one orchestrated pipeline request. Audio-producing
// operations always return a Result: stage failures are converted into a
// degraded result carrying the fallback policy's output, never surfaced as a
// raw error to the transport layer.
type Result struct {
	// Transcription is what the user said, when the operation transcribed
	// inbound audio.
	Transcription string
	// Text is the spoken reply on success, or the apology on degradation.
	Text string
	// Audio is the synthesized speech for Text. Nil only when a degraded
	// result's fallback synthesis also failed.
	Audio []byte

	Degraded bool
	// ErrorSummary preserves the failed stage's error as a diagnostic string
	// on degraded results.
	ErrorSummary string
}

package orchestration

import "errors"

var (
	// ErrEmptyTranscription marks audio in which the transcriber detected no
	// speech. It is distinct from a transcription backend failure.
	ErrEmptyTranscription = errors.New("no transcription produced")
	// ErrEmptyGeneration marks a reply backend that returned no usable content.
	ErrEmptyGeneration = errors.New("no reply generated")
)

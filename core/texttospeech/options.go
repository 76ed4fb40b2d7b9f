package texttospeech

type SynthesisOptions struct {
	// Encoding of the produced audio. Backends default to mp3.
	Encoding string
	// SampleRate in Hz. Zero leaves the backend default in place; mp3 output
	// ignores it entirely.
	SampleRate int
}

type SynthesisOption func(*SynthesisOptions)

func WithEncoding(encoding string) SynthesisOption {
	return func(o *SynthesisOptions) {
		if encoding != "" {
			o.Encoding = encoding
		}
	}
}

func WithSampleRate(sampleRate int) SynthesisOption {
	return func(o *SynthesisOptions) {
		if sampleRate > 0 {
			o.SampleRate = sampleRate
		}
	}
}

package speechtotext

type TranscriptionOptions struct {
	Model       string
	Language    string
	SmartFormat bool
}

type TranscriptionOption func(*TranscriptionOptions)

func WithModel(model string) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		if model != "" {
			o.Model = model
		}
	}
}

func WithLanguage(language string) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		if language != "" {
			o.Language = language
		}
	}
}

func WithSmartFormat(smartFormat bool) TranscriptionOption {
	return func(o *TranscriptionOptions) {
		o.SmartFormat = smartFormat
	}
}

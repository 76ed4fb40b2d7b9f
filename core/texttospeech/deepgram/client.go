package deepgram

import (
	"context"
	"fmt"
	"os"
	"slices"

	speakapi "github.com/deepgram/deepgram-go-sdk/pkg/api/speak/v1/rest"
	interfaces "github.com/deepgram/deepgram-go-sdk/pkg/client/interfaces"
	speak "github.com/deepgram/deepgram-go-sdk/pkg/client/speak"

	"github.com/alpacavoice/agent/core/texttospeech"
)

// TextToSpeechClient synthesizes speech through Deepgram's speak REST API and
// returns the audio bytes inline.
type TextToSpeechClient struct {
	client  *speakapi.Client
	options texttospeech.SynthesisOptions
}

func NewTextToSpeechClient(apiKey string, opts ...texttospeech.SynthesisOption) (*TextToSpeechClient, error) {
	if apiKey == "" {
		var ok bool
		if apiKey, ok = os.LookupEnv("DEEPGRAM_API_KEY"); !ok {
			return nil, fmt.Errorf("deepgram api key not found")
		}
	}

	options := texttospeech.SynthesisOptions{Encoding: "mp3"}
	for _, opt := range opts {
		opt(&options)
	}

	rest := speak.NewREST(apiKey, &interfaces.ClientOptions{})
	return &TextToSpeechClient{client: speakapi.New(rest), options: options}, nil
}

func (c *TextToSpeechClient) Synthesize(ctx context.Context, text string, voice texttospeech.Voice) ([]byte, error) {
	if !slices.Contains(texttospeech.AvailableVoices(), voice) {
		return nil, fmt.Errorf("invalid voice %q", voice)
	}

	options := &interfaces.SpeakOptions{
		Model:    string(voice),
		Encoding: c.options.Encoding,
	}
	if c.options.SampleRate > 0 {
		options.SampleRate = c.options.SampleRate
	}

	buffer := &interfaces.RawResponse{}
	if _, err := c.client.ToStream(ctx, text, options, buffer); err != nil {
		return nil, fmt.Errorf("failed to synthesize speech through deepgram: %w", err)
	}
	if buffer.Len() == 0 {
		return nil, fmt.Errorf("no audio returned from deepgram")
	}

	return buffer.Bytes(), nil
}

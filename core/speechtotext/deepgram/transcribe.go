package deepgram

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"

	listenapi "github.com/deepgram/deepgram-go-sdk/pkg/api/listen/v1/rest"
	interfaces "github.com/deepgram/deepgram-go-sdk/pkg/client/interfaces"
	listen "github.com/deepgram/deepgram-go-sdk/pkg/client/listen"

	"github.com/alpacavoice/agent/core/speechtotext"
)

// TranscriptionClient transcribes whole prerecorded utterances through
// Deepgram's listen REST API.
type TranscriptionClient struct {
	client  *listenapi.Client
	options speechtotext.TranscriptionOptions
}

func NewTranscriptionClient(apiKey string, opts ...speechtotext.TranscriptionOption) (*TranscriptionClient, error) {
	if apiKey == "" {
		var ok bool
		if apiKey, ok = os.LookupEnv("DEEPGRAM_API_KEY"); !ok {
			return nil, fmt.Errorf("deepgram api key not found")
		}
	}

	options := speechtotext.TranscriptionOptions{
		Model:       "nova-3",
		Language:    "en-US",
		SmartFormat: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	rest := listen.NewREST(apiKey, &interfaces.ClientOptions{})
	return &TranscriptionClient{client: listenapi.New(rest), options: options}, nil
}

// Transcribe sends the audio to Deepgram and returns the transcript of the
// first channel's best alternative. Audio without detected speech yields an
// empty string, not an error.
func (c *TranscriptionClient) Transcribe(ctx context.Context, audio []byte) (string, error) {
	response, err := c.client.FromStream(ctx, bytes.NewReader(audio), &interfaces.PreRecordedTranscriptionOptions{
		Model:       c.options.Model,
		Language:    c.options.Language,
		SmartFormat: c.options.SmartFormat,
	})
	if err != nil {
		return "", fmt.Errorf("failed to transcribe audio through deepgram: %w", err)
	}

	if response == nil || response.Results == nil ||
		len(response.Results.Channels) == 0 ||
		len(response.Results.Channels[0].Alternatives) == 0 {
		return "", nil
	}

	return strings.TrimSpace(response.Results.Channels[0].Alternatives[0].Transcript), nil
}

// Package genai adapts the Gemini API to the clients.ModelStreamer port.
package genai

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"google.golang.org/genai"

	"github.com/SscSPs/dailybalance/internal/apperrors"
	"github.com/SscSPs/dailybalance/internal/core/ports/clients"
)

// DefaultModelName is used when no model is configured.
const DefaultModelName = "gemini-2.5-flash"

// contentStreamer is the part of *genai.Models the adapter needs.
type contentStreamer interface {
	GenerateContentStream(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) iter.Seq2[*genai.GenerateContentResponse, error]
}

// Streamer streams chat replies from a Gemini model.
type Streamer struct {
	models contentStreamer
	model  string
}

var _ clients.ModelStreamer = (*Streamer)(nil)

// NewStreamer creates a Gemini client for apiKey.
func NewStreamer(ctx context.Context, apiKey, model string) (*Streamer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}
	return newStreamer(client.Models, model), nil
}

func newStreamer(models contentStreamer, model string) *Streamer {
	if model == "" {
		model = DefaultModelName
	}
	return &Streamer{models: models, model: model}
}

func (s *Streamer) Stream(ctx context.Context, req clients.StreamRequest, onDelta func(delta string) error) (string, error) {
	contents, config := buildContents(req)

	var full strings.Builder
	for resp, err := range s.models.GenerateContentStream(ctx, s.model, contents, config) {
		if err != nil {
			return full.String(), toStatusError(err)
		}
		if resp == nil {
			continue
		}
		delta := resp.Text()
		if delta == "" {
			continue
		}
		full.WriteString(delta)
		if err := onDelta(delta); err != nil {
			return full.String(), err
		}
	}
	return full.String(), nil
}

// buildContents turns history and the new message into alternating user/model turns.
func buildContents(req clients.StreamRequest) ([]*genai.Content, *genai.GenerateContentConfig) {
	contents := make([]*genai.Content, 0, len(req.History)+1)
	for _, msg := range req.History {
		if strings.TrimSpace(msg.Text) == "" {
			continue
		}
		role := string(genai.RoleUser)
		if msg.Role == clients.RoleModel {
			role = string(genai.RoleModel)
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Text}},
		})
	}
	contents = append(contents, &genai.Content{
		Role:  string(genai.RoleUser),
		Parts: []*genai.Part{{Text: req.Message}},
	})

	var config *genai.GenerateContentConfig
	if req.SystemPrompt != "" {
		config = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: req.SystemPrompt}}},
		}
	}
	return contents, config
}

// toStatusError exposes the HTTP status of an API failure so it can be classified.
func toStatusError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code > 0 {
		return &apperrors.StatusError{StatusCode: apiErr.Code, Message: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil && apiErrPtr.Code > 0 {
		return &apperrors.StatusError{StatusCode: apiErrPtr.Code, Message: apiErrPtr.Message}
	}
	return fmt.Errorf("model stream failed: %w", err)
}

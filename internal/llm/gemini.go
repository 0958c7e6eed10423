package llm

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/genai"

	"portfolio-backend/internal/session"
)

// Model call policy. These are deliberately not request parameters.
const (
	temperature     = 0.2
	maxOutputTokens = 1024
	callTimeout     = 50 * time.Second
)

// ChatModel is the single outbound call this service makes: run one chat turn
// against a hosted model, given optional prior turns, returning plain text.
type ChatModel interface {
	Generate(ctx context.Context, history []session.Message, message string) (string, error)
}

// Gemini calls the hosted Gemini API with a fixed system instruction and
// safety policy.
type Gemini struct {
	client       *genai.Client
	model        string
	systemPrompt string
}

func NewGemini(ctx context.Context, apiKey, model, systemPrompt string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("could not create gemini client: %w", err)
	}

	return &Gemini{client: client, model: model, systemPrompt: systemPrompt}, nil
}

func (g *Gemini) Generate(ctx context.Context, history []session.Message, message string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, callTimeout)
	defer cancel()

	contents := make([]*genai.Content, 0, len(history)+1)
	for _, msg := range history {
		var role genai.Role = genai.RoleUser
		if msg.Role == session.RoleModel {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(msg.Content, role))
	}
	contents = append(contents, genai.NewContentFromText(message, genai.RoleUser))

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(g.systemPrompt, genai.RoleUser),
		Temperature:       genai.Ptr[float32](temperature),
		MaxOutputTokens:   maxOutputTokens,
		SafetySettings: []*genai.SafetySetting{
			{
				Category:  genai.HarmCategoryHateSpeech,
				Threshold: genai.HarmBlockThresholdBlockLowAndAbove,
			},
		},
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	return resp.Text(), nil
}

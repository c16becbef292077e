package insights

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = `You are a warm, concise household assistant. Given a JSON
summary of a family's day (finances, meals, tasks, mood), write a short
friendly insight (2-4 sentences) for the household dashboard. Do not
invent numbers that are not in the summary.`

// OpenAIGenerator calls the OpenAI chat API to produce narrative insights.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
}

// NewOpenAI creates a generator with the given API key and model.
func NewOpenAI(apiKey, model string) *OpenAIGenerator {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIGenerator{client: openai.NewClient(apiKey), model: model}
}

// Generate forwards the context as JSON and returns the model's text.
func (g *OpenAIGenerator) Generate(ctx context.Context, ic Context) (string, error) {
	payload, err := json.Marshal(ic)
	if err != nil {
		return "", fmt.Errorf("insights: marshal context: %w", err)
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: string(payload)},
		},
		MaxTokens: 300,
	})
	if err != nil {
		return "", fmt.Errorf("insights: completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("insights: empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}

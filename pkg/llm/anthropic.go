package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const digestSystemPrompt = `You are a travel editor. Given a traveler's question and a list of scraped reviews about a destination, write a grounded digest.

Rules for the paragraph:
- Single paragraph, concise and neutral
- Answer the question using only the reviews provided
- Do not invent places that the reviews never mention

Rules for highlights:
- 3 to 5 bullet points
- Each bullet names a specific place or activity from the reviews
- One sentence per bullet

Output as JSON only, no other text:
{
  "paragraph": "digest paragraph",
  "highlights": ["highlight 1", "highlight 2", "highlight 3"]
}`

type AnthropicClient struct {
	client    *anthropic.Client
	model     anthropic.Model
	modelName string
}

func NewAnthropicClient(apiKey string) *AnthropicClient {
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &AnthropicClient{
		client:    &client,
		model:     anthropic.ModelClaudeHaiku4_5,
		modelName: "claude-4.5-haiku",
	}
}

func (c *AnthropicClient) SummarizeReviews(destination, query string, reviews []ReviewInput) (*SummaryResult, error) {
	resp, err := c.client.Messages.New(context.Background(), anthropic.MessageNewParams{
		Model:     c.model,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: digestSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(formatReviewsPrompt(destination, query, reviews))),
		},
	})

	if err != nil {
		return nil, fmt.Errorf("anthropic API error: %w", err)
	}

	if len(resp.Content) == 0 {
		return nil, fmt.Errorf("no response from anthropic")
	}

	content := cleanJSONResponse(resp.Content[0].Text)

	var parsed struct {
		Paragraph  string   `json:"paragraph"`
		Highlights []string `json:"highlights"`
	}

	err = json.Unmarshal([]byte(content), &parsed)
	if err != nil {
		return nil, fmt.Errorf("failed to parse response: %w, content: %s", err, content)
	}

	return &SummaryResult{
		Paragraph:  parsed.Paragraph,
		Highlights: parsed.Highlights,
		ModelUsed:  c.modelName,
	}, nil
}

func formatReviewsPrompt(destination, query string, reviews []ReviewInput) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Destination: %s\nQuestion: %s\n\nReviews:\n", destination, query)
	for i, r := range reviews {
		fmt.Fprintf(&sb, "%d. [%s] %s: %s\n\n", i+1, r.Type, r.PlaceName, r.Text)
	}
	return sb.String()
}

func cleanJSONResponse(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	// Some model responses include extra prose around JSON.
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}

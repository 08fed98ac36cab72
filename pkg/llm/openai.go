package llm

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// EmbeddingDim is the width of vectors produced by the embedding model.
const EmbeddingDim = 1536

const embeddingBatchSize = 100

type OpenAIEmbedder struct {
	client *openai.Client
	model  openai.EmbeddingModel
}

func NewOpenAIEmbedder(apiKey string) *OpenAIEmbedder {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &OpenAIEmbedder{
		client: &client,
		model:  openai.EmbeddingModelTextEmbedding3Small,
	}
}

// EmbedTexts embeds texts in batches of 100 per API call, preserving input
// order across batches.
func (e *OpenAIEmbedder) EmbedTexts(texts []string) ([][]float32, error) {
	all := make([][]float32, 0, len(texts))

	for _, batch := range splitBatches(texts, embeddingBatchSize) {
		resp, err := e.client.Embeddings.New(context.Background(), openai.EmbeddingNewParams{
			Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: batch},
			Model: e.model,
		})
		if err != nil {
			return nil, fmt.Errorf("openai API error: %w", err)
		}
		if len(resp.Data) != len(batch) {
			return nil, fmt.Errorf("expected %d embeddings, got %d", len(batch), len(resp.Data))
		}

		for _, d := range resp.Data {
			vec := make([]float32, len(d.Embedding))
			for i, v := range d.Embedding {
				vec[i] = float32(v)
			}
			all = append(all, vec)
		}
	}

	return all, nil
}

func splitBatches(texts []string, size int) [][]string {
	var batches [][]string
	for start := 0; start < len(texts); start += size {
		end := start + size
		if end > len(texts) {
			end = len(texts)
		}
		batches = append(batches, texts[start:end])
	}
	return batches
}

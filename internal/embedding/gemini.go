package embedding

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const DefaultGeminiModel = "text-embedding-004"

// GeminiEncoder embeds texts with a Gemini embedding model in one batch call.
type GeminiEncoder struct {
	client *genai.Client
	model  *genai.EmbeddingModel
}

func NewGeminiEncoder(ctx context.Context, apiKey, model string) (*GeminiEncoder, error) {
	if apiKey == "" {
		return nil, errors.New("embedding: gemini API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("embedding: create gemini client: %w", err)
	}
	em := client.EmbeddingModel(model)
	em.TaskType = genai.TaskTypeSemanticSimilarity
	return &GeminiEncoder{client: client, model: em}, nil
}

func (g *GeminiEncoder) Encode(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}
	batch := g.model.NewBatch()
	for _, t := range texts {
		batch.AddContent(genai.Text(t))
	}
	res, err := g.model.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("embedding: gemini batch embed: %w", err)
	}
	if len(res.Embeddings) != len(texts) {
		return nil, fmt.Errorf("embedding: gemini returned %d vectors for %d inputs", len(res.Embeddings), len(texts))
	}
	out := make([][]float32, len(texts))
	for i, e := range res.Embeddings {
		if e == nil {
			return nil, fmt.Errorf("embedding: gemini returned empty vector at %d", i)
		}
		v := make([]float32, len(e.Values))
		copy(v, e.Values)
		out[i] = Unit(v)
	}
	return out, nil
}

func (g *GeminiEncoder) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

var _ Encoder = (*GeminiEncoder)(nil)

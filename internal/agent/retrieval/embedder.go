package retrieval

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/embedding"
	lru "github.com/hashicorp/golang-lru/v2"
	"google.golang.org/genai"

	logx "github.com/Chative-core-poc-v1/policy-advisor/pkg/logger"
)

// Gemini embedding task types.
const (
	TaskRetrievalDocument = "RETRIEVAL_DOCUMENT"
	TaskRetrievalQuery    = "RETRIEVAL_QUERY"
)

// MaxEmbedBatch is the most texts sent in one batchEmbedContents request.
const MaxEmbedBatch = 100

type embedOptions struct {
	TaskType string
}

// WithTaskType sets the Gemini task type for an embedding call.
func WithTaskType(t string) embedding.Option {
	return embedding.WrapImplSpecificOptFn(func(o *embedOptions) {
		o.TaskType = t
	})
}

// GeminiEmbedder implements embedding.Embedder over the Gemini API with an
// LRU cache keyed by task type and text.
type GeminiEmbedder struct {
	client *genai.Client
	model  string
	cache  *lru.Cache[string, []float64]
}

var _ embedding.Embedder = (*GeminiEmbedder)(nil)

// NewGeminiEmbedder creates an embedder. cacheSize <= 0 disables caching.
func NewGeminiEmbedder(client *genai.Client, model string, cacheSize int) (*GeminiEmbedder, error) {
	if client == nil {
		return nil, fmt.Errorf("gemini client is nil")
	}
	e := &GeminiEmbedder{client: client, model: model}
	if cacheSize > 0 {
		c, err := lru.New[string, []float64](cacheSize)
		if err != nil {
			return nil, fmt.Errorf("create embedding cache: %w", err)
		}
		e.cache = c
	}
	return e, nil
}

func (e *GeminiEmbedder) EmbedStrings(ctx context.Context, texts []string, opts ...embedding.Option) ([][]float64, error) {
	o := embedding.GetImplSpecificOptions(&embedOptions{TaskType: TaskRetrievalQuery}, opts...)
	model := e.model
	if common := embedding.GetCommonOptions(&embedding.Options{}, opts...); common.Model != nil && *common.Model != "" {
		model = *common.Model
	}

	out := make([][]float64, len(texts))
	var (
		missIdx  []int
		contents []*genai.Content
	)
	for i, t := range texts {
		if v, ok := e.lookup(o.TaskType, t); ok {
			out[i] = v
			continue
		}
		missIdx = append(missIdx, i)
		contents = append(contents, genai.NewContentFromText(t, genai.RoleUser))
	}
	if len(missIdx) == 0 {
		return out, nil
	}

	for start := 0; start < len(missIdx); start += MaxEmbedBatch {
		end := min(start+MaxEmbedBatch, len(missIdx))
		vectors, err := e.embedBatch(ctx, model, o.TaskType, contents[start:end])
		if err != nil {
			return nil, err
		}
		for j, v := range vectors {
			i := missIdx[start+j]
			out[i] = v
			e.store(o.TaskType, texts[i], v)
		}
	}
	logx.Debug().Str("model", model).Int("requested", len(texts)).Int("embedded", len(missIdx)).Msg("Embeddings computed")
	return out, nil
}

func (e *GeminiEmbedder) embedBatch(ctx context.Context, model, task string, contents []*genai.Content) ([][]float64, error) {
	resp, err := e.client.Models.EmbedContent(ctx, model, contents, &genai.EmbedContentConfig{TaskType: task})
	if err != nil {
		return nil, fmt.Errorf("gemini embed: %w", err)
	}
	if resp == nil || len(resp.Embeddings) != len(contents) {
		return nil, fmt.Errorf("gemini embed: expected %d embeddings", len(contents))
	}
	out := make([][]float64, len(contents))
	for j, emb := range resp.Embeddings {
		if emb == nil {
			return nil, fmt.Errorf("gemini embed: nil embedding at %d", j)
		}
		out[j] = toFloat64(emb.Values)
	}
	return out, nil
}

func (e *GeminiEmbedder) lookup(task, text string) ([]float64, bool) {
	if e.cache == nil {
		return nil, false
	}
	return e.cache.Get(task + "\x00" + text)
}

func (e *GeminiEmbedder) store(task, text string, v []float64) {
	if e.cache == nil {
		return
	}
	e.cache.Add(task+"\x00"+text, v)
}

func toFloat64(in []float32) []float64 {
	out := make([]float64, len(in))
	for i, f := range in {
		out[i] = float64(f)
	}
	return out
}

// Package retrievaltest provides deterministic embedders and retrievers for tests.
package retrievaltest

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"
)

const dims = 1024

// HashEmbedder embeds text as a bag of hashed lower-case words.
type HashEmbedder struct {
	mu    sync.Mutex
	Calls int
	Err   error
}

func (h *HashEmbedder) EmbedStrings(_ context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	h.mu.Lock()
	h.Calls++
	err := h.Err
	h.mu.Unlock()
	if err != nil {
		return nil, err
	}
	out := make([][]float64, len(texts))
	for i, t := range texts {
		v := make([]float64, dims)
		for _, w := range strings.Fields(strings.ToLower(t)) {
			f := fnv.New32a()
			_, _ = f.Write([]byte(strings.Trim(w, ".,:;!?")))
			v[f.Sum32()%dims]++
		}
		out[i] = v
	}
	return out, nil
}

// CallCount returns Calls under the lock.
func (h *HashEmbedder) CallCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Calls
}

// Query records one Retrieve call.
type Query struct {
	Text       string
	TopK       int
	Categories []string
}

// FuncRetriever delegates to Fn and records every call.
type FuncRetriever struct {
	mu      sync.Mutex
	Fn      func(q Query) ([]*schema.Document, error)
	queries []Query
	// CategoriesOf extracts the category filter from options.
	CategoriesOf func(opts ...retriever.Option) []string
}

func (r *FuncRetriever) Retrieve(_ context.Context, query string, opts ...retriever.Option) ([]*schema.Document, error) {
	common := retriever.GetCommonOptions(&retriever.Options{}, opts...)
	q := Query{Text: query}
	if common.TopK != nil {
		q.TopK = *common.TopK
	}
	if r.CategoriesOf != nil {
		q.Categories = r.CategoriesOf(opts...)
	}
	r.mu.Lock()
	r.queries = append(r.queries, q)
	r.mu.Unlock()
	if r.Fn == nil {
		return nil, nil
	}
	return r.Fn(q)
}

// Queries returns the recorded calls.
func (r *FuncRetriever) Queries() []Query {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Query(nil), r.queries...)
}

// Doc builds a document with source and category metadata.
func Doc(source, category, content string) *schema.Document {
	return &schema.Document{
		ID:       source,
		Content:  content,
		MetaData: map[string]any{"source": source, "category": category},
	}
}

package retrieval

import (
	"context"
	"fmt"
	"math"
	"slices"
	"sort"
	"sync"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/indexer"
	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"

	errx "github.com/Chative-core-poc-v1/policy-advisor/internal/core/error"
)

const defaultTopK = 4

type entry struct {
	doc    *schema.Document
	vector []float64
}

// MemoryStore is an in-process vector store with cosine ranking and
// category filtering. Safe for concurrent use.
type MemoryStore struct {
	embedder embedding.Embedder

	mu       sync.RWMutex
	entries  map[string]entry
	bySource map[string][]string
	seq      int
}

// NewMemoryStore creates an empty store that embeds through e.
func NewMemoryStore(e embedding.Embedder) *MemoryStore {
	return &MemoryStore{
		embedder: e,
		entries:  make(map[string]entry),
		bySource: make(map[string][]string),
	}
}

var (
	_ retriever.Retriever = (*MemoryStore)(nil)
	_ indexer.Indexer     = (*MemoryStore)(nil)
)

// Store embeds and indexes docs. Documents without an ID get one assigned.
func (s *MemoryStore) Store(ctx context.Context, docs []*schema.Document, _ ...indexer.Option) ([]string, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	vectors, err := s.embed(ctx, docs)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(docs, vectors), nil
}

// ReplaceSource swaps every chunk of source for docs in one step, so
// readers see either the old or the new version. Embedding happens before
// the swap; on error the old chunks stay.
func (s *MemoryStore) ReplaceSource(ctx context.Context, source string, docs []*schema.Document) error {
	vectors, err := s.embed(ctx, docs)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range s.bySource[source] {
		delete(s.entries, id)
	}
	delete(s.bySource, source)
	s.insertLocked(docs, vectors)
	return nil
}

func (s *MemoryStore) embed(ctx context.Context, docs []*schema.Document) ([][]float64, error) {
	if len(docs) == 0 {
		return nil, nil
	}
	texts := make([]string, len(docs))
	for i, d := range docs {
		texts[i] = d.Content
	}
	vectors, err := s.embedder.EmbedStrings(ctx, texts, WithTaskType(TaskRetrievalDocument))
	if err != nil {
		return nil, errx.WrapRetriever(fmt.Errorf("embed documents: %w", err))
	}
	if len(vectors) != len(docs) {
		return nil, errx.WrapRetriever(fmt.Errorf("embed documents: got %d vectors for %d docs", len(vectors), len(docs)))
	}
	return vectors, nil
}

func (s *MemoryStore) insertLocked(docs []*schema.Document, vectors [][]float64) []string {
	ids := make([]string, len(docs))
	for i, d := range docs {
		if d.ID == "" {
			s.seq++
			d.ID = fmt.Sprintf("doc-%d", s.seq)
		}
		if old, ok := s.entries[d.ID]; ok {
			s.unlinkSource(Source(old.doc), d.ID)
		}
		s.entries[d.ID] = entry{doc: d, vector: vectors[i]}
		src := Source(d)
		s.bySource[src] = append(s.bySource[src], d.ID)
		ids[i] = d.ID
	}
	return ids
}

// Retrieve ranks stored documents by cosine similarity to query.
func (s *MemoryStore) Retrieve(ctx context.Context, query string, opts ...retriever.Option) ([]*schema.Document, error) {
	common := retriever.GetCommonOptions(&retriever.Options{TopK: ptr(defaultTopK)}, opts...)
	topK := defaultTopK
	if common.TopK != nil && *common.TopK > 0 {
		topK = *common.TopK
	}
	cats := CategoriesFrom(opts...)

	vectors, err := s.embedder.EmbedStrings(ctx, []string{query}, WithTaskType(TaskRetrievalQuery))
	if err != nil {
		return nil, errx.WrapRetriever(fmt.Errorf("embed query: %w", err))
	}
	if len(vectors) != 1 {
		return nil, errx.WrapRetriever(fmt.Errorf("embed query: got %d vectors", len(vectors)))
	}
	q := vectors[0]

	type scored struct {
		doc   *schema.Document
		score float64
	}

	s.mu.RLock()
	results := make([]scored, 0, len(s.entries))
	for _, e := range s.entries {
		if len(cats) > 0 && !slices.Contains(cats, Category(e.doc)) {
			continue
		}
		results = append(results, scored{doc: e.doc, score: cosineSimilarity(q, e.vector)})
	}
	s.mu.RUnlock()

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].score == results[j].score {
			return results[i].doc.ID < results[j].doc.ID
		}
		return results[i].score > results[j].score
	})
	if common.ScoreThreshold != nil {
		kept := results[:0]
		for _, r := range results {
			if r.score >= *common.ScoreThreshold {
				kept = append(kept, r)
			}
		}
		results = kept
	}
	if len(results) > topK {
		results = results[:topK]
	}

	out := make([]*schema.Document, len(results))
	for i, r := range results {
		out[i] = copyDoc(r.doc).WithScore(r.score)
	}
	return out, nil
}

// DeleteSource drops every chunk indexed from source.
func (s *MemoryStore) DeleteSource(source string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.bySource[source]
	for _, id := range ids {
		delete(s.entries, id)
	}
	delete(s.bySource, source)
	return len(ids)
}

// Len returns the number of indexed chunks.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Sources lists the indexed source identifiers in sorted order.
func (s *MemoryStore) Sources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.bySource))
	for src := range s.bySource {
		out = append(out, src)
	}
	sort.Strings(out)
	return out
}

func (s *MemoryStore) unlinkSource(source, id string) {
	ids := slices.DeleteFunc(s.bySource[source], func(x string) bool { return x == id })
	if len(ids) == 0 {
		delete(s.bySource, source)
		return
	}
	s.bySource[source] = ids
}

func copyDoc(d *schema.Document) *schema.Document {
	meta := make(map[string]any, len(d.MetaData))
	for k, v := range d.MetaData {
		meta[k] = v
	}
	return &schema.Document{ID: d.ID, Content: d.Content, MetaData: meta}
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func ptr[T any](v T) *T { return &v }

package retrieval

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/cloudwego/eino/components/indexer"
	"github.com/cloudwego/eino/schema"

	logx "github.com/Chative-core-poc-v1/policy-advisor/pkg/logger"
)

// categoryLine captures the rest of the line after "Category:", "Type -" and
// similar, so tags such as "Animal - Pet Insurance" stay whole.
var categoryLine = regexp.MustCompile(`(?i)\b(?:Category|Type|Class)[ \t]*[:\-][ \t]*([^\r\n]+)`)

// SupportedExtensions lists the file types the loader reads.
var SupportedExtensions = []string{".txt", ".md"}

// Chunking controls how documents are split before indexing.
type Chunking struct {
	Size    int
	Overlap int
}

// DefaultChunking matches the policy folder conventions.
var DefaultChunking = Chunking{Size: 1000, Overlap: 100}

// DetectCategory returns the first "Category: X" style tag in text, or DefaultCategory.
func DetectCategory(text string) string {
	m := categoryLine.FindStringSubmatch(text)
	if len(m) < 2 {
		return DefaultCategory
	}
	cat := strings.TrimSpace(m[1])
	if cat == "" {
		return DefaultCategory
	}
	return cat
}

// LoadFile reads one policy file and splits it into tagged chunks.
func LoadFile(path string, c Chunking) ([]*schema.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	text := string(raw)
	source := filepath.Base(path)
	category := DetectCategory(text)

	chunks := SplitText(text, c)
	docs := make([]*schema.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = &schema.Document{
			ID:      fmt.Sprintf("%s#%d", source, i),
			Content: chunk,
			MetaData: map[string]any{
				MetaSource:   source,
				MetaCategory: category,
			},
		}
	}
	return docs, nil
}

// LoadDir reads every supported file directly under dir. Files that fail
// to load are logged and skipped.
func LoadDir(dir string, c Chunking) ([]*schema.Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read policy folder %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !isSupported(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var docs []*schema.Document
	for _, name := range names {
		fileDocs, err := LoadFile(filepath.Join(dir, name), c)
		if err != nil {
			logx.Warn().Err(err).Str("file", name).Msg("Skipping policy file")
			continue
		}
		if len(fileDocs) > 0 {
			logx.Debug().Str("file", name).Str("category", Category(fileDocs[0])).Int("chunks", len(fileDocs)).Msg("Policy file loaded")
		}
		docs = append(docs, fileDocs...)
	}
	return docs, nil
}

// Seed loads dir and stores its chunks through idx. It returns the number
// of files indexed.
func Seed(ctx context.Context, idx indexer.Indexer, dir string, c Chunking) (int, error) {
	docs, err := LoadDir(dir, c)
	if err != nil {
		return 0, err
	}
	if len(docs) == 0 {
		return 0, nil
	}
	if _, err := idx.Store(ctx, docs); err != nil {
		return 0, fmt.Errorf("index policy folder: %w", err)
	}
	files := map[string]struct{}{}
	for _, d := range docs {
		files[Source(d)] = struct{}{}
	}
	return len(files), nil
}

// SplitText cuts text into windows of c.Size runes overlapping by
// c.Overlap, preferring to break at whitespace.
func SplitText(text string, c Chunking) []string {
	if c.Size <= 0 {
		c = DefaultChunking
	}
	if c.Overlap < 0 || c.Overlap >= c.Size {
		c.Overlap = 0
	}
	runes := []rune(strings.TrimSpace(text))
	if len(runes) == 0 {
		return nil
	}

	var chunks []string
	start := 0
	for start < len(runes) {
		end := min(start+c.Size, len(runes))
		if end < len(runes) {
			if cut := lastSpace(runes[start:end]); cut > c.Overlap {
				end = start + cut
			}
		}
		if chunk := strings.TrimSpace(string(runes[start:end])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		if end >= len(runes) {
			break
		}
		next := end - c.Overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

func lastSpace(rs []rune) int {
	for i := len(rs) - 1; i > 0; i-- {
		switch rs[i] {
		case ' ', '\n', '\t':
			return i
		}
	}
	return -1
}

func isSupported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Package retrieval provides the policy document store behind the Eino
// retriever and indexer interfaces, plus folder seeding.
package retrieval

import (
	"errors"

	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"
)

// Document metadata keys.
const (
	MetaSource   = "source"
	MetaCategory = "category"
)

// DefaultCategory tags documents with no detectable category line.
const DefaultCategory = "General"

// ErrFilterUnsupported is returned by stores that cannot apply a category filter.
var ErrFilterUnsupported = errors.New("retrieval: category filter not supported")

type options struct {
	Categories []string
}

// WithCategories restricts results to documents whose category is one of cats.
// An empty list means no filtering.
func WithCategories(cats ...string) retriever.Option {
	return retriever.WrapImplSpecificOptFn(func(o *options) {
		o.Categories = append([]string(nil), cats...)
	})
}

// CategoriesFrom extracts the category filter from retriever options.
func CategoriesFrom(opts ...retriever.Option) []string {
	return retriever.GetImplSpecificOptions(&options{}, opts...).Categories
}

// Source returns the document's source identifier, or "Unknown".
func Source(doc *schema.Document) string {
	if s := metaString(doc, MetaSource); s != "" {
		return s
	}
	return "Unknown"
}

// Category returns the document's category tag, or DefaultCategory.
func Category(doc *schema.Document) string {
	if c := metaString(doc, MetaCategory); c != "" {
		return c
	}
	return DefaultCategory
}

func metaString(doc *schema.Document, key string) string {
	if doc == nil || doc.MetaData == nil {
		return ""
	}
	s, _ := doc.MetaData[key].(string)
	return s
}

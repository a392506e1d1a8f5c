// Package pricing holds the per-document premium computation rules.
package pricing

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	logx "github.com/Chative-core-poc-v1/policy-advisor/pkg/logger"
)

// Rule is one entry of the rules file.
type Rule struct {
	RuleText string `json:"rule_text"`
}

// Store maps a document source to its pricing rule text. It is read-only
// after construction.
type Store struct {
	rules map[string]Rule
}

// NewStore builds a store from an in-memory map.
func NewStore(rules map[string]Rule) *Store {
	cp := make(map[string]Rule, len(rules))
	for k, v := range rules {
		cp[k] = v
	}
	return &Store{rules: cp}
}

// Load reads a rules file of the form {"<filename>": {"rule_text": "..."}}.
// A missing file yields an empty store.
func Load(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logx.Warn().Str("path", path).Msg("pricing rules file not found, premiums cannot be computed")
		return NewStore(nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read pricing rules: %w", err)
	}
	var rules map[string]Rule
	if err := json.Unmarshal(raw, &rules); err != nil {
		return nil, fmt.Errorf("decode pricing rules %s: %w", path, err)
	}
	logx.Info().Str("path", path).Int("rules", len(rules)).Msg("pricing rules loaded")
	return &Store{rules: rules}, nil
}

// Lookup finds the rule for source by exact key, then by base file name.
// found is false when neither matches or the rule text is blank.
func (s *Store) Lookup(source string) (text string, found bool) {
	if s == nil {
		return "", false
	}
	if r, ok := s.rules[source]; ok && strings.TrimSpace(r.RuleText) != "" {
		return r.RuleText, true
	}
	if r, ok := s.rules[filepath.Base(source)]; ok && strings.TrimSpace(r.RuleText) != "" {
		return r.RuleText, true
	}
	return "", false
}

// Len returns the number of rules.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.rules)
}

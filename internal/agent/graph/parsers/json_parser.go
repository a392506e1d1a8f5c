package parsers

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Chative-core-poc-v1/policy-advisor/internal/agent/model"
	logx "github.com/Chative-core-poc-v1/policy-advisor/pkg/logger"
)

// basic safety limits to avoid pathological inputs
const (
	maxContentLen = 128 * 1024 // 128KB
	maxFields     = 200        // extracted_data entries kept
	maxValueLen   = 2 * 1024   // per extracted value
	maxErrSnippet = 200        // limit error snippet size
)

var fenceRe = regexp.MustCompile("(?i)```(?:json)?")

// ParseJSONObject strips markdown fences and decodes the span from the
// first '{' to the last '}'. Any failure yields an empty, non-nil map.
func ParseJSONObject(content string) (out map[string]any) {
	out = map[string]any{}
	defer func() {
		if r := recover(); r != nil {
			logx.Error().Str("component", "json_parser").Msgf("panic recovered: %v", r)
			out = map[string]any{}
		}
	}()

	if len(content) > maxContentLen {
		logx.Warn().
			Str("component", "json_parser").
			Int("max_len", maxContentLen).
			Int("orig_len", len(content)).
			Msg("content truncated due to size limit")
		content = content[:maxContentLen]
	}

	text := fenceRe.ReplaceAllString(content, "")
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		logx.Warn().Str("component", "json_parser").Str("text", safeSnippet(content)).Msg("no json object found")
		return out
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(text[start:end+1]), &m); err != nil {
		logx.Warn().Str("component", "json_parser").Err(err).Str("text", safeSnippet(content)).Msg("json parsing error")
		return out
	}
	if m == nil {
		return out
	}
	return m
}

// ParseExtraction converts an oracle reply into a typed ExtractionResult.
// Unknown keys are ignored and wrongly typed values are treated as absent.
func ParseExtraction(content string) model.ExtractionResult {
	raw := ParseJSONObject(content)
	res := model.ExtractionResult{ExtractedData: map[string]string{}}

	if b, ok := asBool(raw["confirmed"]); ok {
		res.Confirmed = &b
	}
	if b, ok := asBool(raw["switch_detected"]); ok {
		res.SwitchDetected = &b
	}
	if s, ok := asScalar(raw["new_category"]); ok && !isNullWord(s) {
		res.NewCategory = s
	}

	data, _ := raw["extracted_data"].(map[string]any)
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if len(res.ExtractedData) >= maxFields {
			logx.Warn().Str("component", "json_parser").Int("max_fields", maxFields).Msg("extracted_data capped")
			break
		}
		v, ok := asScalar(data[k])
		if !ok || isNullWord(v) {
			continue
		}
		v = truncateUTF8(v, maxValueLen)
		res.ExtractedData[k] = v
	}
	return res
}

// --- helpers ---

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func asBool(v any) (bool, bool) {
	switch x := v.(type) {
	case bool:
		return x, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(x))
		if err != nil {
			return false, false
		}
		return b, true
	default:
		return false, false
	}
}

// asScalar renders JSON scalars as trimmed strings; objects, arrays and
// null are rejected except arrays of scalars, which are comma-joined.
func asScalar(v any) (string, bool) {
	switch x := v.(type) {
	case string:
		s := strings.TrimSpace(x)
		return s, s != ""
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(x), true
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			if s, ok := asScalar(item); ok {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", "), len(parts) > 0
	default:
		return "", false
	}
}

func isNullWord(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "null", "none", "nil", "n/a":
		return true
	}
	return false
}

func safeSnippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= maxErrSnippet {
		return s
	}
	return fmt.Sprintf("%s...", s[:maxErrSnippet])
}

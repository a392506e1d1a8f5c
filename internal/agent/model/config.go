package model

// ================ Config ================
type SessionConfig struct {
	TTL          string `envconfig:"SESSION_TTL" default:"24h"`
	MaxReentries int    `envconfig:"ROUTER_MAX_REENTRIES" default:"1"`
}

type OracleModelConfig struct {
	Model       string  `envconfig:"ORACLE_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"ORACLE_MAX_TOKENS" default:"4000"`
	Temperature float32 `envconfig:"ORACLE_TEMPERATURE" default:"0.7"`
}

type EmbeddingConfig struct {
	Model     string `envconfig:"EMBEDDING_MODEL" default:"text-embedding-004"`
	CacheSize int    `envconfig:"EMBEDDING_CACHE_SIZE" default:"1024"`
}

type PolicyConfig struct {
	Dir          string `envconfig:"POLICIES_DIR" default:"policies"`
	RulesFile    string `envconfig:"POLICY_RULES_FILE" default:"policy_rules.json"`
	ChunkSize    int    `envconfig:"POLICY_CHUNK_SIZE" default:"1000"`
	ChunkOverlap int    `envconfig:"POLICY_CHUNK_OVERLAP" default:"100"`
}

type AnalystConfig struct {
	TopK           int `envconfig:"ANALYST_TOP_K" default:"10"`
	SupplementTopK int `envconfig:"ANALYST_SUPPLEMENT_TOP_K" default:"5"`
	MaxOptions     int `envconfig:"ANALYST_MAX_OPTIONS" default:"3"`
	ContentWindow  int `envconfig:"ANALYST_CONTENT_WINDOW" default:"1500"`
}

// DefaultAnalystConfig mirrors the envconfig defaults for callers that
// construct stages directly.
func DefaultAnalystConfig() AnalystConfig {
	return AnalystConfig{TopK: 10, SupplementTopK: 5, MaxOptions: 3, ContentWindow: 1500}
}

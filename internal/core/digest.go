package core

import "time"

// DigestStats tracks the funnel from fetched stories to final articles.
// Invariant: Fetched >= Filtered >= Final.
type DigestStats struct {
	Fetched          int   `json:"fetched"`            // Stories fetched from HN
	Filtered         int   `json:"filtered"`           // Articles with extractable content
	Final            int   `json:"final"`              // Articles in the final digest
	Errors           int   `json:"errors"`             // Errors accumulated during generation
	GenerationTimeMS int64 `json:"generation_time_ms"` // Wall-clock pipeline time
}

// Digest is the final ranked, size-limited article list returned to a
// caller, plus generation statistics. Created once per pipeline run.
type Digest struct {
	ID        string          `json:"id"`        // Unique identifier for the digest
	Articles  []ScoredArticle `json:"articles"`  // Ranked articles, at most max_articles
	Timestamp time.Time       `json:"timestamp"` // Generation timestamp (UTC)
	Stats     DigestStats     `json:"stats"`     // Generation statistics
}

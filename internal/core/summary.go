package core

import (
	"fmt"
	"strings"
)

// SummarizationStatus tracks the outcome of summarizing an article.
type SummarizationStatus string

const (
	SummarizationSuccess    SummarizationStatus = "success"     // Summary generated
	SummarizationNoContent  SummarizationStatus = "no_content"  // Nothing to summarize
	SummarizationAPIError   SummarizationStatus = "api_error"   // Summarizer call failed
	SummarizationParseError SummarizationStatus = "parse_error" // Response could not be mapped
	SummarizationCached     SummarizationStatus = "cached"      // Summary served from cache
)

const (
	minSummaryLength = 20
	maxSummaryLength = 500
	maxKeyPoints     = 5
	maxTags          = 10
)

// Summary is the structured output of the external summarizer for one
// article: a short summary, a handful of key points, and normalized
// lowercase topic tags.
type Summary struct {
	Summary   string   `json:"summary"`    // 2-3 sentence summary (20-500 chars)
	KeyPoints []string `json:"key_points"` // 1-5 key takeaways
	Tags      []string `json:"tags"`       // Up to 10 lowercase topic tags
}

// Validate normalizes the summary in place and reports whether it meets
// the structural contract. Tags are lowercased and blank entries dropped.
func (s *Summary) Validate() error {
	s.Summary = strings.TrimSpace(s.Summary)
	if len(s.Summary) < minSummaryLength || len(s.Summary) > maxSummaryLength {
		return fmt.Errorf("summary must be %d-%d characters, got %d", minSummaryLength, maxSummaryLength, len(s.Summary))
	}

	points := make([]string, 0, len(s.KeyPoints))
	for _, p := range s.KeyPoints {
		if p = strings.TrimSpace(p); p != "" {
			points = append(points, p)
		}
	}
	if len(points) == 0 {
		return fmt.Errorf("summary must have at least one key point")
	}
	if len(points) > maxKeyPoints {
		points = points[:maxKeyPoints]
	}
	s.KeyPoints = points

	tags := make([]string, 0, len(s.Tags))
	for _, t := range s.Tags {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			tags = append(tags, t)
		}
	}
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}
	s.Tags = tags

	return nil
}

// SummarizedArticle pairs an Article with its summarization result.
// Invariant: Summary is non-nil iff Status is success or cached.
type SummarizedArticle struct {
	Article      Article             `json:"article"`
	Summary      *Summary            `json:"summary,omitempty"`
	Status       SummarizationStatus `json:"status"`
	ErrorMessage string              `json:"error_message,omitempty"`
}

// HasSummary reports whether a usable summary is attached.
func (s SummarizedArticle) HasSummary() bool {
	return s.Summary != nil && (s.Status == SummarizationSuccess || s.Status == SummarizationCached)
}

// DisplayTags returns the summary's tags, or nil when no summary exists.
func (s SummarizedArticle) DisplayTags() []string {
	if s.Summary == nil {
		return nil
	}
	return s.Summary.Tags
}

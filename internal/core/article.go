package core

// ExtractionStatus tracks the outcome of extracting content from a story URL.
type ExtractionStatus string

const (
	ExtractionSuccess   ExtractionStatus = "success"   // Content extracted successfully
	ExtractionSkipped   ExtractionStatus = "skipped"   // Domain or URL type not supported
	ExtractionFailed    ExtractionStatus = "failed"    // Network or parsing error
	ExtractionPaywalled ExtractionStatus = "paywalled" // Content behind a paywall
	ExtractionNoURL     ExtractionStatus = "no_url"    // Story has no external URL (Ask HN, jobs)
	ExtractionEmpty     ExtractionStatus = "empty"     // Page loaded but no usable text
)

// Article is the extraction result for a single Story. It carries a copy
// of the story metadata so downstream stages do not need the Story itself.
// Invariant: Content is non-empty only when Status is ExtractionSuccess.
// Articles are created exactly once by the extraction coordinator and are
// immutable afterwards.
type Article struct {
	StoryID    int    `json:"story_id"`    // HN story ID reference
	Title      string `json:"title"`       // Story title from HN
	URL        string `json:"url"`         // Original article URL (empty for Ask HN)
	HNURL      string `json:"hn_url"`      // HN discussion URL
	HNScore    int    `json:"hn_score"`    // HN upvote score
	HNComments int    `json:"hn_comments"` // HN comment count
	Author     string `json:"author"`      // HN story author username

	Content   string `json:"content,omitempty"` // Extracted article text
	WordCount int    `json:"word_count"`        // Word count of extracted content

	Status       ExtractionStatus `json:"status"`                  // Extraction outcome
	ErrorMessage string           `json:"error_message,omitempty"` // Detail when extraction failed
	Domain       string           `json:"domain,omitempty"`        // Registrable domain of URL

	HNText string `json:"hn_text,omitempty"` // Self-text for Ask HN/jobs
}

// HasContent reports whether the article has anything to summarize:
// either extracted content or the story's own text body.
func (a Article) HasContent() bool {
	return a.Content != "" || a.HNText != ""
}

// DisplayContent returns the text to feed the summarizer, preferring
// extracted article content over the HN self-text.
func (a Article) DisplayContent() string {
	if a.Content != "" {
		return a.Content
	}
	return a.HNText
}

package core

import "fmt"

// StoryType identifies which HackerNews listing to pull story IDs from.
type StoryType string

const (
	StoryTypeTop  StoryType = "top"
	StoryTypeNew  StoryType = "new"
	StoryTypeBest StoryType = "best"
	StoryTypeAsk  StoryType = "ask"
	StoryTypeShow StoryType = "show"
	StoryTypeJob  StoryType = "job"
)

// Endpoint returns the HN API path serving IDs for this story type.
func (t StoryType) Endpoint() string {
	return fmt.Sprintf("/%sstories.json", t)
}

// Valid reports whether t is one of the supported listing types.
func (t StoryType) Valid() bool {
	switch t {
	case StoryTypeTop, StoryTypeNew, StoryTypeBest, StoryTypeAsk, StoryTypeShow, StoryTypeJob:
		return true
	}
	return false
}

// Story is a HackerNews submission as returned by the Firebase API.
// Stories are created once per fetch and never mutated afterwards.
type Story struct {
	ID          int    `json:"id"`          // Unique story ID from HackerNews
	Title       string `json:"title"`       // Story title
	URL         string `json:"url"`         // External article URL (empty for Ask HN, jobs)
	Score       int    `json:"score"`       // HN upvote score (>= 0)
	By          string `json:"by"`          // Author username
	Time        int64  `json:"time"`        // Unix timestamp of creation
	Descendants int    `json:"descendants"` // Total comment count
	Type        string `json:"type"`        // Item type from HN API (usually "story")
	Text        string `json:"text"`        // HTML text body for Ask HN/jobs
	Dead        bool   `json:"dead"`        // True if killed by moderators
	Deleted     bool   `json:"deleted"`     // True if deleted by author
}

// HNURL returns the HackerNews discussion URL for this story.
func (s Story) HNURL() string {
	return fmt.Sprintf("https://news.ycombinator.com/item?id=%d", s.ID)
}

// HasExternalURL reports whether the story links to an external article.
func (s Story) HasExternalURL() bool {
	return s.URL != ""
}

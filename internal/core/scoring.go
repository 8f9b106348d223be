package core

// RelevanceScore is the result of matching an article's tags against a
// user's interests. Pure computation output: no external dependency, no
// randomness.
type RelevanceScore struct {
	Score                  float64  `json:"score"`                    // 0 (irrelevant) to 1 (highly relevant)
	Reason                 string   `json:"reason"`                   // Human-readable explanation
	MatchedInterestTags    []string `json:"matched_interest_tags"`    // Interest tags found in article
	MatchedDisinterestTags []string `json:"matched_disinterest_tags"` // Disinterest tags found in article
}

// HasInterestMatches reports whether any interest tag matched.
func (r RelevanceScore) HasInterestMatches() bool {
	return len(r.MatchedInterestTags) > 0
}

// HasDisinterestMatches reports whether any disinterest tag matched.
func (r RelevanceScore) HasDisinterestMatches() bool {
	return len(r.MatchedDisinterestTags) > 0
}

// ScoredArticle pairs a SummarizedArticle with its relevance, normalized
// popularity, and composite final score. All three scores are in [0, 1].
type ScoredArticle struct {
	Article         SummarizedArticle `json:"article"`
	Relevance       RelevanceScore    `json:"relevance"`
	PopularityScore float64           `json:"popularity_score"`
	FinalScore      float64           `json:"final_score"`
}

// StoryID returns the HN story ID of the underlying article.
func (s ScoredArticle) StoryID() int {
	return s.Article.Article.StoryID
}

// Title returns the title of the underlying article.
func (s ScoredArticle) Title() string {
	return s.Article.Article.Title
}

// RelevanceReason returns the human-readable relevance explanation.
func (s ScoredArticle) RelevanceReason() string {
	return s.Relevance.Reason
}

// Below reports whether the article falls under a minimum score threshold.
func (s ScoredArticle) Below(minScore float64) bool {
	return s.FinalScore < minScore
}

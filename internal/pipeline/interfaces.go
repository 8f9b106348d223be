package pipeline

import (
	"context"

	"hnherald/internal/core"
)

// StorySource provides story listings from Hacker News.
type StorySource interface {
	// FetchStories returns up to limit stories of the given type, best
	// first, filtered to score >= minScore when minScore > 0.
	FetchStories(ctx context.Context, storyType core.StoryType, limit, minScore int) ([]core.Story, error)
}

// ArticleExtractor turns one story into an article with extracted
// readable text. Extraction never fails the pipeline: problems are
// reported through the article's status.
type ArticleExtractor interface {
	ExtractArticle(ctx context.Context, story core.Story) core.Article
}

// Summarizer produces one summarization result per input article, in
// input order.
type Summarizer interface {
	SummarizeBatch(ctx context.Context, articles []core.Article) []core.SummarizedArticle
}

// Scorer ranks summarized articles against the user profile.
type Scorer interface {
	ScoreArticles(articles []core.SummarizedArticle, filterBelowMin bool) []core.ScoredArticle
}

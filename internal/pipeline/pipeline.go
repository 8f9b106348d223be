package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"hnherald/internal/core"
	"hnherald/internal/logger"
)

// SourceError marks the story source as unreachable or broken. It is
// the only fatal failure kind: everything downstream degrades to
// accumulated diagnostics instead.
type SourceError struct {
	Err error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("story source failure: %v", e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// State is the accumulating record threaded through every stage. Most
// fields are written by exactly one stage; Articles and Errors are
// additive — stages and fan-out branches only ever append to them.
type State struct {
	Profile core.UserProfile

	Stories    []core.Story
	Articles   []core.Article
	Filtered   []core.Article
	Summarized []core.SummarizedArticle
	Scored     []core.ScoredArticle

	Errors []string

	StartTime time.Time
}

// Result is a completed run: the digest plus the full diagnostic error
// list. Stats carry only the error count; the strings are for
// operators.
type Result struct {
	Digest *core.Digest
	Errors []string
}

// Pipeline runs the digest flow:
// fetch stories → extract articles (fan-out) → filter → summarize →
// score → rank → format.
type Pipeline struct {
	source     StorySource
	extractor  ArticleExtractor
	summarizer Summarizer
	newScorer  func(profile core.UserProfile) (Scorer, error)
	log        *slog.Logger
}

// NewPipeline creates a pipeline from its collaborators. newScorer is
// called once per run because the scorer is bound to the run's profile.
func NewPipeline(source StorySource, extractor ArticleExtractor, summarizer Summarizer, newScorer func(core.UserProfile) (Scorer, error)) *Pipeline {
	return &Pipeline{
		source:     source,
		extractor:  extractor,
		summarizer: summarizer,
		newScorer:  newScorer,
		log:        logger.Get(),
	}
}

// Generate runs the full pipeline for one profile. It returns a
// well-formed digest (possibly with zero articles) unless the story
// source itself fails, in which case the error is a *SourceError.
func (p *Pipeline) Generate(ctx context.Context, profile core.UserProfile) (*Result, error) {
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile: %w", err)
	}

	state := &State{
		Profile:   profile,
		StartTime: time.Now(),
	}

	if err := p.fetchStories(ctx, state); err != nil {
		return nil, err
	}
	p.extractArticles(ctx, state)
	p.filterArticles(state)
	p.summarizeArticles(ctx, state)
	if err := p.scoreAndRank(state); err != nil {
		return nil, err
	}
	digest := p.format(state)

	p.log.Info("Digest generated",
		"digest_id", digest.ID,
		"fetched", digest.Stats.Fetched,
		"filtered", digest.Stats.Filtered,
		"final", digest.Stats.Final,
		"errors", digest.Stats.Errors,
		"duration_ms", digest.Stats.GenerationTimeMS,
	)

	return &Result{Digest: digest, Errors: state.Errors}, nil
}

// fetchStories pulls the story list. A source failure is fatal; an
// empty result is only a diagnostic.
func (p *Pipeline) fetchStories(ctx context.Context, state *State) error {
	stories, err := p.source.FetchStories(ctx, state.Profile.FetchType, state.Profile.FetchCount, int(state.Profile.MinScore))
	if err != nil {
		return &SourceError{Err: err}
	}

	if len(stories) == 0 {
		p.log.Warn("No stories returned from source", "fetch_type", string(state.Profile.FetchType))
		state.Errors = append(state.Errors, "no stories returned from source")
	}

	state.Stories = stories
	return nil
}

// extractArticles fans out one extraction per story. Results merge back
// by input position so article order matches story order regardless of
// completion order. A panic in a branch becomes a failed article, never
// a crashed run.
func (p *Pipeline) extractArticles(ctx context.Context, state *State) {
	if len(state.Stories) == 0 {
		return
	}

	articles := make([]core.Article, len(state.Stories))
	var wg sync.WaitGroup

	for i, story := range state.Stories {
		wg.Add(1)
		go func(i int, story core.Story) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					articles[i] = core.Article{
						StoryID:      story.ID,
						Title:        story.Title,
						URL:          story.URL,
						HNURL:        story.HNURL(),
						HNScore:      story.Score,
						HNComments:   story.Descendants,
						Author:       story.By,
						Status:       core.ExtractionFailed,
						ErrorMessage: fmt.Sprintf("extraction panic: %v", r),
					}
				}
			}()
			articles[i] = p.extractor.ExtractArticle(ctx, story)
		}(i, story)
	}
	wg.Wait()

	for _, article := range articles {
		state.Articles = append(state.Articles, article)
		if article.Status == core.ExtractionFailed {
			state.Errors = append(state.Errors, fmt.Sprintf("extraction failed for story %d: %s", article.StoryID, article.ErrorMessage))
		}
	}
}

// filterArticles keeps extractable articles: successful outcome with
// content to summarize. Running it twice changes nothing.
func (p *Pipeline) filterArticles(state *State) {
	for _, article := range state.Articles {
		if article.Status == core.ExtractionSuccess && article.HasContent() {
			state.Filtered = append(state.Filtered, article)
		}
	}
	p.log.Info("Filtered articles", "before", len(state.Articles), "after", len(state.Filtered))
}

// summarizeArticles batches the filtered articles through the
// summarizer and records one diagnostic per failed article.
func (p *Pipeline) summarizeArticles(ctx context.Context, state *State) {
	if len(state.Filtered) == 0 {
		state.Errors = append(state.Errors, "no articles survived filtering")
		return
	}

	state.Summarized = p.summarizer.SummarizeBatch(ctx, state.Filtered)

	for _, sa := range state.Summarized {
		if sa.Status != core.SummarizationSuccess && sa.Status != core.SummarizationCached {
			state.Errors = append(state.Errors, fmt.Sprintf("summarization failed for story %d: %s", sa.Article.StoryID, sa.ErrorMessage))
		}
	}
}

// scoreAndRank scores the summarized articles against the profile and
// sorts them by final score descending (the scorer's stable ordering).
func (p *Pipeline) scoreAndRank(state *State) error {
	scorer, err := p.newScorer(state.Profile)
	if err != nil {
		return fmt.Errorf("failed to build scorer: %w", err)
	}
	state.Scored = scorer.ScoreArticles(state.Summarized, state.Profile.MinScore > 0)
	return nil
}

// format truncates to the profile's article cap and assembles the
// digest with stats collected across the run.
func (p *Pipeline) format(state *State) *core.Digest {
	final := state.Scored
	if len(final) > state.Profile.MaxArticles {
		final = final[:state.Profile.MaxArticles]
	}

	return &core.Digest{
		ID:        uuid.New().String(),
		Articles:  final,
		Timestamp: time.Now().UTC(),
		Stats: core.DigestStats{
			Fetched:          len(state.Stories),
			Filtered:         len(state.Filtered),
			Final:            len(final),
			Errors:           len(state.Errors),
			GenerationTimeMS: time.Since(state.StartTime).Milliseconds(),
		},
	}
}

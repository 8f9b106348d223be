package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"hnherald/internal/core"
	"hnherald/internal/llm"
	"hnherald/internal/logger"
)

// DefaultBatchSize bounds how many articles go into one summarizer call,
// keeping responses within the model's output limits.
const DefaultBatchSize = 5

// ParseError marks a summarizer response that came back but could not be
// decoded into structured summaries.
type ParseError struct {
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse summarizer response: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Backend is the external summarizer boundary: one call summarizes one
// chunk of articles and returns summaries in submission order. A
// *ParseError distinguishes undecodable responses from call failures.
type Backend interface {
	SummarizeChunk(ctx context.Context, articles []core.Article) ([]core.Summary, error)
}

// Service batches articles through a Backend. Failures are contained to
// one chunk at a time: a failed call marks at most batchSize articles,
// never the whole run.
type Service struct {
	backend   Backend
	batchSize int
	log       *slog.Logger
}

// NewService creates a summarization service.
func NewService(backend Backend, batchSize int) *Service {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	return &Service{
		backend:   backend,
		batchSize: batchSize,
		log:       logger.Get(),
	}
}

// SummarizeBatch summarizes all articles, returning exactly one result
// per input article in input order. Articles without content are tagged
// no_content without touching the backend. A chunk-level call failure
// tags every article in that chunk api_error; a decodable-but-short
// response tags the unmapped tail parse_error.
func (s *Service) SummarizeBatch(ctx context.Context, articles []core.Article) []core.SummarizedArticle {
	if len(articles) == 0 {
		return nil
	}

	results := make([]core.SummarizedArticle, len(articles))

	// Short-circuit articles with nothing to summarize and collect the
	// indexes of the rest.
	var pending []int
	for i, article := range articles {
		if !article.HasContent() {
			results[i] = core.SummarizedArticle{
				Article: article,
				Status:  core.SummarizationNoContent,
			}
			continue
		}
		pending = append(pending, i)
	}

	for start := 0; start < len(pending); start += s.batchSize {
		end := start + s.batchSize
		if end > len(pending) {
			end = len(pending)
		}
		s.summarizeChunk(ctx, articles, pending[start:end], results)
	}

	successful := 0
	for _, r := range results {
		if r.HasSummary() {
			successful++
		}
	}
	s.log.Info("Summarized articles",
		"total", len(articles),
		"successful", successful,
		"failed", len(articles)-successful,
	)

	return results
}

// summarizeChunk runs one backend call for the articles at the given
// indexes and maps the returned summaries back positionally.
func (s *Service) summarizeChunk(ctx context.Context, articles []core.Article, indexes []int, results []core.SummarizedArticle) {
	chunk := make([]core.Article, len(indexes))
	for i, idx := range indexes {
		chunk[i] = articles[idx]
	}

	summaries, err := s.backend.SummarizeChunk(ctx, chunk)
	if err != nil {
		status := core.SummarizationAPIError
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			status = core.SummarizationParseError
		}
		s.log.Warn("Chunk summarization failed", "size", len(chunk), "status", string(status), "error", err.Error())
		for _, idx := range indexes {
			results[idx] = core.SummarizedArticle{
				Article:      articles[idx],
				Status:       status,
				ErrorMessage: err.Error(),
			}
		}
		return
	}

	for i, idx := range indexes {
		if i >= len(summaries) {
			results[idx] = core.SummarizedArticle{
				Article:      articles[idx],
				Status:       core.SummarizationParseError,
				ErrorMessage: "missing summary in batch response",
			}
			continue
		}

		summary := summaries[i]
		if err := summary.Validate(); err != nil {
			results[idx] = core.SummarizedArticle{
				Article:      articles[idx],
				Status:       core.SummarizationParseError,
				ErrorMessage: err.Error(),
			}
			continue
		}

		results[idx] = core.SummarizedArticle{
			Article: articles[idx],
			Summary: &summary,
			Status:  core.SummarizationSuccess,
		}
	}
}

// GeminiBackend implements Backend on top of the Gemini client with
// schema-constrained JSON output.
type GeminiBackend struct {
	client     *llm.Client
	maxRetries int
	retryDelay time.Duration
	log        *slog.Logger
}

// NewGeminiBackend creates a Gemini-backed summarizer.
func NewGeminiBackend(client *llm.Client) *GeminiBackend {
	return &GeminiBackend{
		client:     client,
		maxRetries: 2,
		retryDelay: 2 * time.Second,
		log:        logger.Get(),
	}
}

// SummarizeChunk sends one chunk to Gemini and decodes the structured
// response. Rate-limited calls are retried with a short backoff before
// giving up.
func (g *GeminiBackend) SummarizeChunk(ctx context.Context, articles []core.Article) ([]core.Summary, error) {
	prompt := BuildBatchPrompt(articles)
	schema := BatchSummarySchema()

	var raw string
	var err error
	for attempt := 0; ; attempt++ {
		raw, err = g.client.GenerateJSON(ctx, prompt, schema)
		if err == nil || attempt >= g.maxRetries || !llm.IsRateLimited(err) {
			break
		}
		g.log.Warn("Summarizer rate limited, retrying", "attempt", attempt+1)
		select {
		case <-time.After(g.retryDelay * time.Duration(attempt+1)):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}

	var summaries []core.Summary
	if err := json.Unmarshal([]byte(raw), &summaries); err != nil {
		return nil, &ParseError{Err: err}
	}
	return summaries, nil
}

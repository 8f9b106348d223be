package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"hnherald/internal/core"
)

// fakeBackend returns canned summaries or errors per call, recording
// chunk sizes as it goes.
type fakeBackend struct {
	calls      int
	chunkSizes []int
	fail       func(call int) error
	short      bool // return one fewer summary than requested
}

func (f *fakeBackend) SummarizeChunk(ctx context.Context, articles []core.Article) ([]core.Summary, error) {
	call := f.calls
	f.calls++
	f.chunkSizes = append(f.chunkSizes, len(articles))

	if f.fail != nil {
		if err := f.fail(call); err != nil {
			return nil, err
		}
	}

	n := len(articles)
	if f.short {
		n--
	}
	summaries := make([]core.Summary, n)
	for i := 0; i < n; i++ {
		summaries[i] = core.Summary{
			Summary:   fmt.Sprintf("Summary for story %d with enough length to validate.", articles[i].StoryID),
			KeyPoints: []string{"point"},
			Tags:      []string{"go"},
		}
	}
	return summaries, nil
}

func contentArticle(id int) core.Article {
	return core.Article{StoryID: id, Status: core.ExtractionSuccess, Content: "body text"}
}

func TestSummarizeBatchChunksBySize(t *testing.T) {
	backend := &fakeBackend{}
	svc := NewService(backend, 5)

	articles := make([]core.Article, 12)
	for i := range articles {
		articles[i] = contentArticle(i + 1)
	}

	results := svc.SummarizeBatch(context.Background(), articles)
	if len(results) != 12 {
		t.Fatalf("Expected 12 results, got %d", len(results))
	}
	if backend.calls != 3 {
		t.Errorf("Expected 3 chunks for 12 articles at size 5, got %d", backend.calls)
	}
	for i, size := range []int{5, 5, 2} {
		if backend.chunkSizes[i] != size {
			t.Errorf("Expected chunk %d size %d, got %d", i, size, backend.chunkSizes[i])
		}
	}
	for i, r := range results {
		if r.Status != core.SummarizationSuccess {
			t.Errorf("Expected result %d success, got %s", i, r.Status)
		}
		if !strings.Contains(r.Summary.Summary, fmt.Sprintf("story %d", i+1)) {
			t.Errorf("Expected result %d mapped to input %d, got %q", i, i+1, r.Summary.Summary)
		}
	}
}

func TestSummarizeBatchSkipsNoContent(t *testing.T) {
	backend := &fakeBackend{}
	svc := NewService(backend, 5)

	articles := []core.Article{
		contentArticle(1),
		{StoryID: 2, Status: core.ExtractionFailed}, // nothing to summarize
		contentArticle(3),
	}

	results := svc.SummarizeBatch(context.Background(), articles)
	if len(results) != 3 {
		t.Fatalf("Expected 3 results, got %d", len(results))
	}
	if results[1].Status != core.SummarizationNoContent {
		t.Errorf("Expected no_content for the empty article, got %s", results[1].Status)
	}
	if backend.chunkSizes[0] != 2 {
		t.Errorf("Expected only 2 articles sent to the backend, got %d", backend.chunkSizes[0])
	}
	if results[0].Status != core.SummarizationSuccess || results[2].Status != core.SummarizationSuccess {
		t.Error("Expected content-bearing articles to be summarized")
	}
}

func TestSummarizeBatchChunkFailureIsContained(t *testing.T) {
	backend := &fakeBackend{
		fail: func(call int) error {
			if call == 0 {
				return errors.New("backend unavailable")
			}
			return nil
		},
	}
	svc := NewService(backend, 3)

	articles := make([]core.Article, 6)
	for i := range articles {
		articles[i] = contentArticle(i + 1)
	}

	results := svc.SummarizeBatch(context.Background(), articles)

	// First chunk of 3 fails, second chunk of 3 succeeds.
	for i := 0; i < 3; i++ {
		if results[i].Status != core.SummarizationAPIError {
			t.Errorf("Expected result %d api_error, got %s", i, results[i].Status)
		}
		if results[i].ErrorMessage == "" {
			t.Errorf("Expected result %d to carry the error message", i)
		}
	}
	for i := 3; i < 6; i++ {
		if results[i].Status != core.SummarizationSuccess {
			t.Errorf("Expected result %d success, got %s", i, results[i].Status)
		}
	}
}

func TestSummarizeBatchParseErrorStatus(t *testing.T) {
	backend := &fakeBackend{
		fail: func(call int) error {
			return &ParseError{Err: errors.New("unexpected token")}
		},
	}
	svc := NewService(backend, 5)

	results := svc.SummarizeBatch(context.Background(), []core.Article{contentArticle(1)})
	if results[0].Status != core.SummarizationParseError {
		t.Errorf("Expected parse_error for an undecodable response, got %s", results[0].Status)
	}
}

func TestSummarizeBatchShortResponseTailIsParseError(t *testing.T) {
	backend := &fakeBackend{short: true}
	svc := NewService(backend, 5)

	articles := []core.Article{contentArticle(1), contentArticle(2), contentArticle(3)}
	results := svc.SummarizeBatch(context.Background(), articles)

	if results[0].Status != core.SummarizationSuccess || results[1].Status != core.SummarizationSuccess {
		t.Error("Expected mapped articles to succeed")
	}
	if results[2].Status != core.SummarizationParseError {
		t.Fatalf("Expected unmapped tail to be parse_error, got %s", results[2].Status)
	}
	if results[2].ErrorMessage != "missing summary in batch response" {
		t.Errorf("Expected missing-summary message, got %q", results[2].ErrorMessage)
	}
}

func TestSummarizeBatchInvalidSummaryIsParseError(t *testing.T) {
	backend := &invalidSummaryBackend{}
	svc := NewService(backend, 5)

	results := svc.SummarizeBatch(context.Background(), []core.Article{contentArticle(1)})
	if results[0].Status != core.SummarizationParseError {
		t.Errorf("Expected parse_error for a summary failing validation, got %s", results[0].Status)
	}
}

type invalidSummaryBackend struct{}

func (b *invalidSummaryBackend) SummarizeChunk(ctx context.Context, articles []core.Article) ([]core.Summary, error) {
	out := make([]core.Summary, len(articles))
	for i := range out {
		out[i] = core.Summary{Summary: "too short"}
	}
	return out, nil
}

func TestSummarizeBatchEmptyInput(t *testing.T) {
	svc := NewService(&fakeBackend{}, 5)
	if got := svc.SummarizeBatch(context.Background(), nil); got != nil {
		t.Errorf("Expected nil for empty input, got %v", got)
	}
}

func TestNewServiceDefaultsBatchSize(t *testing.T) {
	svc := NewService(&fakeBackend{}, 0)
	if svc.batchSize != DefaultBatchSize {
		t.Errorf("Expected default batch size %d, got %d", DefaultBatchSize, svc.batchSize)
	}
}

package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"hnherald/internal/core"
	"hnherald/internal/logger"
)

const (
	initialBackoff = 1 * time.Second
	maxBackoff     = 10 * time.Second

	// maxBodySize caps how much of a response we read while extracting.
	maxBodySize = 5 << 20
)

// Options configures a Loader.
type Options struct {
	Timeout          time.Duration
	MaxRetries       int
	MaxConcurrent    int
	MaxContentLength int
	UserAgent        string
}

// DefaultOptions returns sensible defaults
func DefaultOptions() Options {
	return Options{
		Timeout:          15 * time.Second,
		MaxRetries:       3,
		MaxConcurrent:    10,
		MaxContentLength: 8000,
		UserAgent:        "hnherald/1.0",
	}
}

// Loader extracts article content from story URLs. Every failure path
// produces a tagged core.Article instead of an error: extraction can
// degrade but it never aborts a batch.
type Loader struct {
	httpClient       *http.Client
	maxRetries       int
	maxContentLength int
	userAgent        string
	sem              chan struct{}
	log              *slog.Logger
}

// NewLoader creates a new article loader.
func NewLoader(opts Options) *Loader {
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 3
	}
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 10
	}
	if opts.MaxContentLength <= 0 {
		opts.MaxContentLength = 8000
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "hnherald/1.0"
	}
	return &Loader{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("stopped after 5 redirects")
				}
				return nil
			},
		},
		maxRetries:       opts.MaxRetries,
		maxContentLength: opts.MaxContentLength,
		userAgent:        opts.UserAgent,
		sem:              make(chan struct{}, opts.MaxConcurrent),
		log:              logger.Get(),
	}
}

// ExtractArticle extracts content for one story. It never returns an
// error: unusable URLs, fetch failures, and empty pages all come back as
// articles tagged with the matching ExtractionStatus.
func (l *Loader) ExtractArticle(ctx context.Context, story core.Story) core.Article {
	article := core.Article{
		StoryID:    story.ID,
		Title:      story.Title,
		URL:        story.URL,
		HNURL:      story.HNURL(),
		HNScore:    story.Score,
		HNComments: story.Descendants,
		Author:     story.By,
		Domain:     ExtractDomain(story.URL),
		HNText:     story.Text,
	}

	// Ask HN and job posts have no external URL; their own text body is
	// all the content there is.
	if story.URL == "" {
		article.Status = core.ExtractionNoURL
		article.WordCount = len(strings.Fields(story.Text))
		return article
	}

	if skip, reason := ShouldSkipURL(story.URL); skip {
		l.log.Debug("Skipping story URL", "story_id", story.ID, "reason", reason)
		article.Status = core.ExtractionSkipped
		article.ErrorMessage = reason
		return article
	}

	content, fetchErr := l.fetchContent(ctx, story.URL)
	if fetchErr != "" {
		l.log.Debug("Fetch failed", "story_id", story.ID, "error", fetchErr)
		article.Status = core.ExtractionFailed
		article.ErrorMessage = fetchErr
		return article
	}

	if content == "" {
		article.Status = core.ExtractionEmpty
		article.ErrorMessage = "No content could be extracted"
		return article
	}

	article.Status = core.ExtractionSuccess
	article.Content = content
	article.WordCount = len(strings.Fields(content))
	l.log.Debug("Extracted article", "story_id", story.ID, "words", article.WordCount)
	return article
}

// ExtractArticles extracts all stories concurrently, bounded by the
// loader's semaphore. The result always has exactly one article per input
// story, in input order; a panic inside any branch becomes a failed
// article rather than taking down the batch.
func (l *Loader) ExtractArticles(ctx context.Context, stories []core.Story) []core.Article {
	if len(stories) == 0 {
		return nil
	}

	articles := make([]core.Article, len(stories))
	var wg sync.WaitGroup
	for i, story := range stories {
		wg.Add(1)
		go func(i int, story core.Story) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					l.log.Error("Extraction panicked", "story_id", story.ID, "panic", fmt.Sprintf("%v", r))
					articles[i] = failedArticle(story, fmt.Sprintf("extraction panic: %v", r))
				}
			}()
			articles[i] = l.ExtractArticle(ctx, story)
		}(i, story)
	}
	wg.Wait()

	counts := map[core.ExtractionStatus]int{}
	for _, a := range articles {
		counts[a.Status]++
	}
	l.log.Info("Extracted articles",
		"total", len(articles),
		"success", counts[core.ExtractionSuccess],
		"skipped", counts[core.ExtractionSkipped],
		"failed", counts[core.ExtractionFailed],
		"no_url", counts[core.ExtractionNoURL],
		"empty", counts[core.ExtractionEmpty],
	)
	return articles
}

// fetchContent GETs the URL and extracts readable text. The error string
// is non-empty only for fetch-level failures; a loaded page with no
// usable text returns ("", "").
func (l *Loader) fetchContent(ctx context.Context, url string) (content, errMsg string) {
	resp, err := l.doRequest(ctx, url)
	if err != nil {
		return "", err.Error()
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Sprintf("HTTP %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") && !strings.Contains(contentType, "application/xhtml") {
		// Not an error, just nothing to summarize.
		l.log.Debug("Non-HTML content type", "url", url, "content_type", contentType)
		return "", ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Sprintf("failed to read response body: %v", err)
	}

	text := ExtractReadableText(string(body))
	if text == "" {
		return "", ""
	}
	return TruncateContent(text, l.maxContentLength), ""
}

// doRequest performs one rate-limited GET with retries on transport
// errors. Application-level errors (non-2xx) are returned to the caller
// via the response, never retried here.
func (l *Loader) doRequest(ctx context.Context, url string) (*http.Response, error) {
	select {
	case l.sem <- struct{}{}:
		defer func() { <-l.sem }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var lastErr error
	backoff := initialBackoff
	for attempt := 0; attempt < l.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			if backoff *= 2; backoff > maxBackoff {
				backoff = maxBackoff
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", l.userAgent)
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
		req.Header.Set("Accept-Language", "en-US,en;q=0.5")

		resp, err := l.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			continue
		}
		return resp, nil
	}

	return nil, fmt.Errorf("request failed after %d attempts: %w", l.maxRetries, lastErr)
}

func failedArticle(story core.Story, msg string) core.Article {
	return core.Article{
		StoryID:      story.ID,
		Title:        story.Title,
		URL:          story.URL,
		HNURL:        story.HNURL(),
		HNScore:      story.Score,
		HNComments:   story.Descendants,
		Author:       story.By,
		Domain:       ExtractDomain(story.URL),
		HNText:       story.Text,
		Status:       core.ExtractionFailed,
		ErrorMessage: msg,
	}
}

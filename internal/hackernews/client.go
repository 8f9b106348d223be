package hackernews

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"sync"
	"time"

	"hnherald/internal/core"
	"hnherald/internal/logger"
)

const (
	// DefaultBaseURL is the HN Firebase API root.
	DefaultBaseURL = "https://hacker-news.firebaseio.com/v0"

	initialBackoff = 1 * time.Second
	maxBackoff     = 10 * time.Second
)

// APIError is a permanent failure from the HN API (non-2xx response).
// It is never retried.
type APIError struct {
	StatusCode int
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hn api error %d for %s", e.StatusCode, e.URL)
}

// TransientError is a transport-level failure (timeout, connection reset)
// that survived all retry attempts. Callers may retry the whole operation.
type TransientError struct {
	URL string
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("hn request failed after retries for %s: %v", e.URL, e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// Options configures a Client.
type Options struct {
	BaseURL       string
	Timeout       time.Duration
	MaxRetries    int
	MaxConcurrent int
}

// DefaultOptions returns sensible defaults
func DefaultOptions() Options {
	return Options{
		BaseURL:       DefaultBaseURL,
		Timeout:       30 * time.Second,
		MaxRetries:    3,
		MaxConcurrent: 10,
	}
}

// Client fetches stories from the HackerNews Firebase API with retry,
// exponential backoff, and a bounded number of concurrent requests.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	sem        chan struct{}
	log        *slog.Logger
}

// NewClient creates a new HN API client.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxRetries < 1 {
		opts.MaxRetries = 3
	}
	if opts.MaxConcurrent < 1 {
		opts.MaxConcurrent = 10
	}
	return &Client{
		baseURL:    opts.BaseURL,
		httpClient: &http.Client{Timeout: opts.Timeout},
		maxRetries: opts.MaxRetries,
		sem:        make(chan struct{}, opts.MaxConcurrent),
		log:        logger.Get(),
	}
}

// get performs one rate-limited GET with retries on transport errors.
// Non-2xx responses are returned as *APIError without retrying.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	url := c.baseURL + path

	select {
	case c.sem <- struct{}{}:
		defer func() { <-c.sem }()
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	var lastErr error
	backoff := initialBackoff
	for attempt := 0; attempt < c.maxRetries; attempt++ {
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
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			c.log.Debug("Retrying HN request", "url", url, "attempt", attempt+1, "error", err.Error())
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &APIError{StatusCode: resp.StatusCode, URL: url}
		}
		if readErr != nil {
			lastErr = readErr
			continue
		}
		return body, nil
	}

	return nil, &TransientError{URL: url, Err: lastErr}
}

// FetchStoryIDs fetches up to limit story IDs for the given listing type,
// in HN ranking order.
func (c *Client) FetchStoryIDs(ctx context.Context, storyType core.StoryType, limit int) ([]int, error) {
	body, err := c.get(ctx, storyType.Endpoint())
	if err != nil {
		return nil, err
	}

	var ids []int
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, fmt.Errorf("failed to decode story IDs: %w", err)
	}

	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// FetchStory fetches a single story by ID. It returns (nil, nil) for
// deleted, dead, or non-story items so callers can skip them without
// treating the gap as a failure.
func (c *Client) FetchStory(ctx context.Context, id int) (*core.Story, error) {
	body, err := c.get(ctx, fmt.Sprintf("/item/%d.json", id))
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			c.log.Warn("Story not found", "story_id", id)
			return nil, nil
		}
		return nil, err
	}

	// The API returns literal null for deleted items.
	if string(body) == "null" {
		c.log.Warn("Story returned null, likely deleted", "story_id", id)
		return nil, nil
	}

	var story core.Story
	if err := json.Unmarshal(body, &story); err != nil {
		c.log.Warn("Failed to parse story", "story_id", id, "error", err.Error())
		return nil, nil
	}

	if story.Dead || story.Deleted {
		c.log.Debug("Skipping dead or deleted story", "story_id", id)
		return nil, nil
	}
	if story.Type != "story" && story.Type != "job" {
		c.log.Debug("Skipping non-story item", "story_id", id, "type", story.Type)
		return nil, nil
	}

	return &story, nil
}

// FetchStories fetches stories of the given type in parallel, drops those
// under minScore, sorts by score descending, and caps the result at limit.
// When a min-score filter is active it over-fetches IDs (2x, capped at 100)
// so filtering still leaves enough stories.
func (c *Client) FetchStories(ctx context.Context, storyType core.StoryType, limit, minScore int) ([]core.Story, error) {
	fetchLimit := limit
	if minScore > 0 {
		fetchLimit = min(limit*2, 100)
	}

	ids, err := c.FetchStoryIDs(ctx, storyType, fetchLimit)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		c.log.Warn("No story IDs found", "type", string(storyType))
		return nil, nil
	}

	// Fetch details in parallel; the semaphore inside get() bounds the
	// actual request concurrency. Results keep positional order.
	results := make([]*core.Story, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i, id int) {
			defer wg.Done()
			story, err := c.FetchStory(ctx, id)
			if err != nil {
				c.log.Warn("Failed to fetch story", "story_id", id, "error", err.Error())
				return
			}
			results[i] = story
		}(i, id)
	}
	wg.Wait()

	stories := make([]core.Story, 0, len(results))
	for _, s := range results {
		if s != nil && s.Score >= minScore {
			stories = append(stories, *s)
		}
	}

	sort.SliceStable(stories, func(i, j int) bool {
		return stories[i].Score > stories[j].Score
	})

	if len(stories) > limit {
		stories = stories[:limit]
	}

	c.log.Info("Fetched stories",
		"type", string(storyType),
		"requested_ids", len(ids),
		"returned", len(stories),
		"min_score", minScore,
	)
	return stories, nil
}

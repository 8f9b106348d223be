package handlers

import (
	"context"
	"fmt"
	"time"

	"hnherald/internal/config"
	"hnherald/internal/core"
	"hnherald/internal/fetch"
	"hnherald/internal/hackernews"
	"hnherald/internal/llm"
	"hnherald/internal/pipeline"
	"hnherald/internal/scoring"
	"hnherald/internal/summarize"
)

// buildPipeline wires the full digest pipeline from configuration. The
// Gemini client is the only component whose construction can fail.
func buildPipeline(ctx context.Context, cfg *config.Config) (*pipeline.Pipeline, error) {
	hnClient := hackernews.NewClient(hackernews.Options{
		BaseURL:       cfg.HackerNews.BaseURL,
		Timeout:       duration(cfg.HackerNews.Timeout),
		MaxRetries:    cfg.HackerNews.MaxRetries,
		MaxConcurrent: cfg.HackerNews.MaxConcurrent,
	})

	loader := fetch.NewLoader(fetch.Options{
		Timeout:          duration(cfg.Fetch.Timeout),
		MaxRetries:       cfg.Fetch.MaxRetries,
		MaxConcurrent:    cfg.Fetch.MaxConcurrent,
		MaxContentLength: cfg.Fetch.MaxContentLength,
		UserAgent:        cfg.Fetch.UserAgent,
	})

	llmClient, err := llm.NewClient(ctx, llm.Options{
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		MaxTokens:   cfg.LLM.MaxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create summarizer backend: %w", err)
	}

	summarizer := summarize.NewService(summarize.NewGeminiBackend(llmClient), cfg.LLM.BatchSize)

	newScorer := func(profile core.UserProfile) (pipeline.Scorer, error) {
		return scoring.NewScorer(profile, scoring.Options{
			RelevanceWeight:  cfg.Scoring.RelevanceWeight,
			PopularityWeight: cfg.Scoring.PopularityWeight,
			MaxHNScore:       cfg.Scoring.MaxHNScore,
		})
	}

	return pipeline.NewPipeline(hnClient, loader, summarizer, newScorer), nil
}

// duration parses a config duration string, leaving defaults to the
// component constructors when the value is empty or malformed.
func duration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0
	}
	return d
}

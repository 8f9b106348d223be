package core

import (
	"fmt"
	"sort"
	"strings"
)

const (
	maxProfileTags  = 50
	maxDigestSize   = 100
	maxFetchCount   = 100
	defaultArticles = 10
	defaultFetch    = 30
)

// UserProfile captures a user's preferences for digest generation.
// Construct via NewUserProfile or call Validate before use: tags are
// normalized to lowercase, deduplicated, and interest/disinterest sets
// must not overlap.
type UserProfile struct {
	InterestTags    []string  `json:"interest_tags"`    // Topics to see more of
	DisinterestTags []string  `json:"disinterest_tags"` // Topics to filter out
	MinScore        float64   `json:"min_score"`        // Minimum final score threshold (0-1)
	MaxArticles     int       `json:"max_articles"`     // Maximum articles in digest (1-100)
	FetchType       StoryType `json:"fetch_type"`       // Which HN listing to fetch
	FetchCount      int       `json:"fetch_count"`      // Stories to fetch from HN (1-100)
}

// NewUserProfile builds a validated profile with defaults applied for
// zero-valued fields.
func NewUserProfile(interests, disinterests []string) (UserProfile, error) {
	p := UserProfile{
		InterestTags:    interests,
		DisinterestTags: disinterests,
		MaxArticles:     defaultArticles,
		FetchType:       StoryTypeTop,
		FetchCount:      defaultFetch,
	}
	if err := p.Validate(); err != nil {
		return UserProfile{}, err
	}
	return p, nil
}

// Validate normalizes tags and checks all range invariants. It mutates
// the profile (tag normalization, default filling) and must be called
// before the profile reaches the pipeline.
func (p *UserProfile) Validate() error {
	p.InterestTags = normalizeTags(p.InterestTags)
	p.DisinterestTags = normalizeTags(p.DisinterestTags)

	if len(p.InterestTags) > maxProfileTags {
		return fmt.Errorf("too many interest tags: %d (max %d)", len(p.InterestTags), maxProfileTags)
	}
	if len(p.DisinterestTags) > maxProfileTags {
		return fmt.Errorf("too many disinterest tags: %d (max %d)", len(p.DisinterestTags), maxProfileTags)
	}

	if overlap := tagOverlap(p.InterestTags, p.DisinterestTags); len(overlap) > 0 {
		return fmt.Errorf("tags cannot be in both interest and disinterest lists: %s", strings.Join(overlap, ", "))
	}

	if p.MinScore < 0 || p.MinScore > 1 {
		return fmt.Errorf("min_score must be in [0, 1], got %g", p.MinScore)
	}

	if p.MaxArticles == 0 {
		p.MaxArticles = defaultArticles
	}
	if p.MaxArticles < 1 || p.MaxArticles > maxDigestSize {
		return fmt.Errorf("max_articles must be in [1, %d], got %d", maxDigestSize, p.MaxArticles)
	}

	if p.FetchType == "" {
		p.FetchType = StoryTypeTop
	}
	if !p.FetchType.Valid() {
		return fmt.Errorf("unknown fetch_type %q", p.FetchType)
	}

	if p.FetchCount == 0 {
		p.FetchCount = defaultFetch
	}
	if p.FetchCount < 1 || p.FetchCount > maxFetchCount {
		return fmt.Errorf("fetch_count must be in [1, %d], got %d", maxFetchCount, p.FetchCount)
	}

	return nil
}

// HasPreferences reports whether the user declared any interest or
// disinterest tags at all.
func (p UserProfile) HasPreferences() bool {
	return len(p.InterestTags) > 0 || len(p.DisinterestTags) > 0
}

// normalizeTags lowercases, trims, and deduplicates tags while keeping
// first-seen order.
func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		norm := strings.ToLower(strings.TrimSpace(tag))
		if norm == "" || seen[norm] {
			continue
		}
		seen[norm] = true
		out = append(out, norm)
	}
	return out
}

// tagOverlap returns the sorted intersection of two normalized tag lists.
func tagOverlap(a, b []string) []string {
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	var overlap []string
	for _, t := range b {
		if set[t] {
			overlap = append(overlap, t)
		}
	}
	sort.Strings(overlap)
	return overlap
}

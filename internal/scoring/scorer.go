package scoring

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"hnherald/internal/core"
	"hnherald/internal/logger"
)

const (
	// DefaultRelevanceWeight and DefaultPopularityWeight blend relevance
	// and popularity into the final score. Empirical tunables.
	DefaultRelevanceWeight  = 0.7
	DefaultPopularityWeight = 0.3

	// DefaultMaxHNScore is the "very popular" ceiling used when a batch
	// is too small for relative normalization.
	DefaultMaxHNScore = 500

	neutralScore            = 0.5
	disinterestPenaltyScore = 0.1
)

// Options configures a Scorer.
type Options struct {
	RelevanceWeight  float64
	PopularityWeight float64
	MaxHNScore       int
}

// DefaultOptions returns the default weights and popularity ceiling.
func DefaultOptions() Options {
	return Options{
		RelevanceWeight:  DefaultRelevanceWeight,
		PopularityWeight: DefaultPopularityWeight,
		MaxHNScore:       DefaultMaxHNScore,
	}
}

// Scorer computes relevance, popularity, and composite scores for
// summarized articles against one user profile. Pure computation: no
// network, no randomness.
type Scorer struct {
	profile          core.UserProfile
	relevanceWeight  float64
	popularityWeight float64
	maxHNScore       int
	log              *slog.Logger
}

// NewScorer creates a scorer for a profile. Weights must be non-negative
// and sum to at most 1.0.
func NewScorer(profile core.UserProfile, opts Options) (*Scorer, error) {
	if opts.RelevanceWeight < 0 || opts.PopularityWeight < 0 {
		return nil, fmt.Errorf("weights must be non-negative")
	}
	if opts.RelevanceWeight+opts.PopularityWeight > 1.0 {
		return nil, fmt.Errorf("sum of weights must not exceed 1.0")
	}
	if opts.MaxHNScore <= 0 {
		opts.MaxHNScore = DefaultMaxHNScore
	}
	return &Scorer{
		profile:          profile,
		relevanceWeight:  opts.RelevanceWeight,
		popularityWeight: opts.PopularityWeight,
		maxHNScore:       opts.MaxHNScore,
		log:              logger.Get(),
	}, nil
}

// CalculateRelevance scores an article's tags against the profile.
// Disinterest matches dominate: any hit forces the penalty score no
// matter how many interests also match.
func (s *Scorer) CalculateRelevance(articleTags []string) core.RelevanceScore {
	if len(articleTags) == 0 {
		return core.RelevanceScore{
			Score:  neutralScore,
			Reason: "No tags to match",
		}
	}

	if !s.profile.HasPreferences() {
		return core.RelevanceScore{
			Score:  neutralScore,
			Reason: "No preferences configured",
		}
	}

	tagSet := make(map[string]bool, len(articleTags))
	for _, tag := range articleTags {
		tagSet[strings.ToLower(tag)] = true
	}

	var matchedInterest, matchedDisinterest []string
	for _, tag := range s.profile.InterestTags {
		if tagSet[tag] {
			matchedInterest = append(matchedInterest, tag)
		}
	}
	for _, tag := range s.profile.DisinterestTags {
		if tagSet[tag] {
			matchedDisinterest = append(matchedDisinterest, tag)
		}
	}

	var score float64
	switch {
	case len(matchedDisinterest) > 0:
		score = disinterestPenaltyScore
	case len(matchedInterest) > 0:
		// Linear from 0.5 toward 1.0 as the share of matched interest
		// tags grows.
		ratio := float64(len(matchedInterest)) / float64(len(s.profile.InterestTags))
		score = neutralScore + ratio*0.5
	default:
		score = neutralScore
	}

	return core.RelevanceScore{
		Score:                  score,
		Reason:                 relevanceReason(matchedInterest, matchedDisinterest),
		MatchedInterestTags:    matchedInterest,
		MatchedDisinterestTags: matchedDisinterest,
	}
}

// NormalizePopularity maps an HN score into [0, 1]. With two or more
// batch scores it min-max normalizes within the batch (0.5 when all
// scores are equal). With no batch context it falls back to an absolute
// scale capped at maxHNScore. The single-element fallback is inherited
// behavior: a lone high-score article normalizes very differently than
// it would inside a 2-article batch.
func (s *Scorer) NormalizePopularity(hnScore int, allScores []int) float64 {
	if len(allScores) > 1 {
		minScore, maxScore := allScores[0], allScores[0]
		for _, v := range allScores[1:] {
			if v < minScore {
				minScore = v
			}
			if v > maxScore {
				maxScore = v
			}
		}
		if maxScore > minScore {
			return float64(hnScore-minScore) / float64(maxScore-minScore)
		}
		return neutralScore
	}

	pop := float64(hnScore) / float64(s.maxHNScore)
	if pop > 1.0 {
		return 1.0
	}
	return pop
}

// ScoreArticle computes the composite score for one article, using the
// whole batch's HN scores for relative popularity normalization.
func (s *Scorer) ScoreArticle(article core.SummarizedArticle, allHNScores []int) core.ScoredArticle {
	relevance := s.CalculateRelevance(article.DisplayTags())
	popularity := s.NormalizePopularity(article.Article.HNScore, allHNScores)
	final := s.relevanceWeight*relevance.Score + s.popularityWeight*popularity

	s.log.Debug("Scored article",
		"story_id", article.Article.StoryID,
		"relevance", relevance.Score,
		"popularity", popularity,
		"final", final,
	)

	return core.ScoredArticle{
		Article:         article,
		Relevance:       relevance,
		PopularityScore: popularity,
		FinalScore:      final,
	}
}

// ScoreArticles scores a batch, optionally drops articles under the
// profile's min score, and returns the rest sorted by final score
// descending. The sort is stable so equal scores keep input order,
// which keeps digests reproducible.
func (s *Scorer) ScoreArticles(articles []core.SummarizedArticle, filterBelowMin bool) []core.ScoredArticle {
	if len(articles) == 0 {
		return nil
	}

	allScores := make([]int, len(articles))
	for i, a := range articles {
		allScores[i] = a.Article.HNScore
	}

	scored := make([]core.ScoredArticle, 0, len(articles))
	for _, a := range articles {
		sa := s.ScoreArticle(a, allScores)
		if filterBelowMin && s.profile.MinScore > 0 && sa.Below(s.profile.MinScore) {
			continue
		}
		scored = append(scored, sa)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].FinalScore > scored[j].FinalScore
	})

	s.log.Info("Scored articles",
		"input", len(articles),
		"kept", len(scored),
		"min_score", s.profile.MinScore,
	)
	return scored
}

func relevanceReason(matchedInterest, matchedDisinterest []string) string {
	if len(matchedDisinterest) > 0 {
		return fmt.Sprintf("Contains avoided topics: %s", strings.Join(matchedDisinterest, ", "))
	}
	if len(matchedInterest) > 0 {
		return fmt.Sprintf("Matches interests: %s", strings.Join(matchedInterest, ", "))
	}
	return "No specific interest match"
}

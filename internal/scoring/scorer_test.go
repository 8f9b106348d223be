package scoring

import (
	"math"
	"strings"
	"testing"

	"hnherald/internal/core"
)

func mustScorer(t *testing.T, interests, disinterests []string, minScore float64) *Scorer {
	t.Helper()
	profile := core.UserProfile{
		InterestTags:    interests,
		DisinterestTags: disinterests,
		MinScore:        minScore,
	}
	if err := profile.Validate(); err != nil {
		t.Fatalf("Expected valid profile, got %v", err)
	}
	scorer, err := NewScorer(profile, DefaultOptions())
	if err != nil {
		t.Fatalf("Expected no error creating scorer, got %v", err)
	}
	return scorer
}

func summarized(storyID, hnScore int, tags ...string) core.SummarizedArticle {
	return core.SummarizedArticle{
		Article: core.Article{StoryID: storyID, HNScore: hnScore, Status: core.ExtractionSuccess, Content: "text"},
		Summary: &core.Summary{Summary: "a summary long enough to pass", KeyPoints: []string{"p"}, Tags: tags},
		Status:  core.SummarizationSuccess,
	}
}

func TestNewScorerValidatesWeights(t *testing.T) {
	profile := core.UserProfile{}
	if _, err := NewScorer(profile, Options{RelevanceWeight: -0.1, PopularityWeight: 0.3}); err == nil {
		t.Error("Expected error for negative weight")
	}
	if _, err := NewScorer(profile, Options{RelevanceWeight: 0.8, PopularityWeight: 0.3}); err == nil {
		t.Error("Expected error for weights summing above 1.0")
	}
}

func TestCalculateRelevanceAllInterestsMatch(t *testing.T) {
	scorer := mustScorer(t, []string{"python", "ai", "rust"}, []string{"crypto"}, 0)

	rel := scorer.CalculateRelevance([]string{"python", "ai", "rust"})
	if rel.Score != 1.0 {
		t.Errorf("Expected relevance 1.0 with all interests matched, got %f", rel.Score)
	}
	for _, tag := range []string{"python", "ai", "rust"} {
		if !strings.Contains(rel.Reason, tag) {
			t.Errorf("Expected reason to mention %s, got %q", tag, rel.Reason)
		}
	}
}

func TestCalculateRelevanceDisinterestDominates(t *testing.T) {
	scorer := mustScorer(t, []string{"python", "ai", "rust"}, []string{"crypto"}, 0)

	rel := scorer.CalculateRelevance([]string{"crypto", "python"})
	if rel.Score != 0.1 {
		t.Errorf("Expected relevance 0.1 when a disinterest matches, got %f", rel.Score)
	}
	if !strings.Contains(rel.Reason, "crypto") {
		t.Errorf("Expected reason to mention crypto, got %q", rel.Reason)
	}
	if !rel.HasInterestMatches() {
		t.Error("Expected interest matches to still be recorded")
	}
}

func TestCalculateRelevanceNeutralCases(t *testing.T) {
	scorer := mustScorer(t, []string{"go"}, nil, 0)

	noTags := scorer.CalculateRelevance(nil)
	if noTags.Score != 0.5 || noTags.Reason != "No tags to match" {
		t.Errorf("Expected neutral score for no tags, got %f %q", noTags.Score, noTags.Reason)
	}

	noMatch := scorer.CalculateRelevance([]string{"cooking"})
	if noMatch.Score != 0.5 || noMatch.Reason != "No specific interest match" {
		t.Errorf("Expected neutral score for no match, got %f %q", noMatch.Score, noMatch.Reason)
	}

	emptyProfile := mustScorer(t, nil, nil, 0)
	noPrefs := emptyProfile.CalculateRelevance([]string{"go"})
	if noPrefs.Score != 0.5 || noPrefs.Reason != "No preferences configured" {
		t.Errorf("Expected neutral score without preferences, got %f %q", noPrefs.Score, noPrefs.Reason)
	}
}

func TestCalculateRelevancePartialMatchScales(t *testing.T) {
	scorer := mustScorer(t, []string{"python", "ai", "rust", "go"}, nil, 0)

	one := scorer.CalculateRelevance([]string{"python"})
	two := scorer.CalculateRelevance([]string{"python", "ai"})

	if one.Score != 0.625 {
		t.Errorf("Expected 0.5 + (1/4)*0.5 = 0.625, got %f", one.Score)
	}
	if two.Score != 0.75 {
		t.Errorf("Expected 0.5 + (2/4)*0.5 = 0.75, got %f", two.Score)
	}
	if two.Score <= one.Score {
		t.Error("Expected relevance to grow with more matched interests")
	}
}

func TestNormalizePopularity(t *testing.T) {
	scorer := mustScorer(t, nil, nil, 0)

	batch := []int{100, 200, 300}
	if got := scorer.NormalizePopularity(200, batch); got != 0.5 {
		t.Errorf("Expected (200-100)/(300-100) = 0.5, got %f", got)
	}
	if got := scorer.NormalizePopularity(100, batch); got != 0.0 {
		t.Errorf("Expected min of batch to normalize to 0, got %f", got)
	}
	if got := scorer.NormalizePopularity(300, batch); got != 1.0 {
		t.Errorf("Expected max of batch to normalize to 1, got %f", got)
	}

	// No batch context falls back to the absolute scale.
	if got := scorer.NormalizePopularity(250, nil); got != 0.5 {
		t.Errorf("Expected 250/500 = 0.5 without batch context, got %f", got)
	}
	if got := scorer.NormalizePopularity(9000, nil); got != 1.0 {
		t.Errorf("Expected absolute scale capped at 1.0, got %f", got)
	}

	// All-equal batch avoids division by zero.
	if got := scorer.NormalizePopularity(150, []int{150, 150}); got != 0.5 {
		t.Errorf("Expected 0.5 for an all-equal batch, got %f", got)
	}
}

func TestScoreArticleCompositeWeights(t *testing.T) {
	scorer := mustScorer(t, []string{"go"}, nil, 0)

	article := summarized(1, 300, "go")
	scored := scorer.ScoreArticle(article, []int{100, 200, 300})

	want := 0.7*1.0 + 0.3*1.0
	if math.Abs(scored.FinalScore-want) > 1e-9 {
		t.Errorf("Expected final score %f, got %f", want, scored.FinalScore)
	}
}

func TestScoreArticlesSortsDescending(t *testing.T) {
	scorer := mustScorer(t, []string{"go"}, nil, 0)

	articles := []core.SummarizedArticle{
		summarized(1, 100, "cooking"),
		summarized(2, 100, "go"),
		summarized(3, 100, "gardening"),
	}

	scored := scorer.ScoreArticles(articles, false)
	if len(scored) != 3 {
		t.Fatalf("Expected 3 scored articles, got %d", len(scored))
	}
	if scored[0].StoryID() != 2 {
		t.Errorf("Expected the interest match to rank first, got story %d", scored[0].StoryID())
	}
	// Equal scores keep input order (stable sort).
	if scored[1].StoryID() != 1 || scored[2].StoryID() != 3 {
		t.Errorf("Expected ties to keep input order, got %d then %d", scored[1].StoryID(), scored[2].StoryID())
	}
}

func TestScoreArticlesFiltersBelowMinScore(t *testing.T) {
	scorer := mustScorer(t, []string{"go"}, []string{"crypto"}, 0.5)

	articles := []core.SummarizedArticle{
		summarized(1, 200, "go"),
		summarized(2, 200, "crypto"),
	}

	scored := scorer.ScoreArticles(articles, true)
	if len(scored) != 1 {
		t.Fatalf("Expected the crypto article to be filtered out, got %d articles", len(scored))
	}
	if scored[0].StoryID() != 1 {
		t.Errorf("Expected story 1 to survive, got %d", scored[0].StoryID())
	}

	// Same batch without filtering keeps both.
	unfiltered := scorer.ScoreArticles(articles, false)
	if len(unfiltered) != 2 {
		t.Errorf("Expected 2 articles without filtering, got %d", len(unfiltered))
	}
}

func TestScoreArticlesEmptyInput(t *testing.T) {
	scorer := mustScorer(t, []string{"go"}, nil, 0)
	if got := scorer.ScoreArticles(nil, true); got != nil {
		t.Errorf("Expected nil for empty input, got %v", got)
	}
}

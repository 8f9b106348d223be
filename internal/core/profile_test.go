package core

import (
	"strings"
	"testing"
)

func TestNewUserProfileDefaults(t *testing.T) {
	p, err := NewUserProfile([]string{"Go", "databases"}, []string{"crypto"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if p.MaxArticles != 10 {
		t.Errorf("Expected MaxArticles default 10, got %d", p.MaxArticles)
	}
	if p.FetchType != StoryTypeTop {
		t.Errorf("Expected FetchType default top, got %s", p.FetchType)
	}
	if p.FetchCount != 30 {
		t.Errorf("Expected FetchCount default 30, got %d", p.FetchCount)
	}
	if p.InterestTags[0] != "go" {
		t.Errorf("Expected interest tags to be lowercased, got %v", p.InterestTags)
	}
}

func TestValidateNormalizesTags(t *testing.T) {
	p := UserProfile{
		InterestTags: []string{"  Go ", "go", "GO", "Rust", ""},
	}
	if err := p.Validate(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := []string{"go", "rust"}
	if len(p.InterestTags) != len(want) {
		t.Fatalf("Expected %d tags after normalization, got %v", len(want), p.InterestTags)
	}
	for i, tag := range want {
		if p.InterestTags[i] != tag {
			t.Errorf("Expected tag %d to be %q, got %q", i, tag, p.InterestTags[i])
		}
	}
}

func TestValidateRejectsOverlapAfterNormalization(t *testing.T) {
	// "Python" and "PYTHON" normalize to the same tag, so the overlap
	// must be caught even though the raw strings differ.
	p := UserProfile{
		InterestTags:    []string{"Python"},
		DisinterestTags: []string{"PYTHON"},
	}
	err := p.Validate()
	if err == nil {
		t.Fatal("Expected overlap error, got nil")
	}
	if !strings.Contains(err.Error(), "python") {
		t.Errorf("Expected error to name the overlapping tag, got %v", err)
	}
}

func TestValidateRanges(t *testing.T) {
	tests := []struct {
		name    string
		profile UserProfile
		wantErr bool
	}{
		{"valid", UserProfile{MinScore: 0.5, MaxArticles: 10, FetchType: StoryTypeTop, FetchCount: 30}, false},
		{"min score too high", UserProfile{MinScore: 1.5}, true},
		{"min score negative", UserProfile{MinScore: -0.1}, true},
		{"max articles too high", UserProfile{MaxArticles: 101}, true},
		{"fetch count too high", UserProfile{FetchCount: 101}, true},
		{"bad fetch type", UserProfile{FetchType: "weird"}, true},
		{"ask fetch type", UserProfile{FetchType: StoryTypeAsk}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if tt.wantErr && err == nil {
				t.Error("Expected validation error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Expected no error, got %v", err)
			}
		})
	}
}

func TestValidateTooManyTags(t *testing.T) {
	tags := make([]string, 51)
	for i := range tags {
		tags[i] = strings.Repeat("x", i+1)
	}
	p := UserProfile{InterestTags: tags}
	if err := p.Validate(); err == nil {
		t.Error("Expected error for more than 50 interest tags, got nil")
	}
}

func TestHasPreferences(t *testing.T) {
	p := UserProfile{}
	if p.HasPreferences() {
		t.Error("Expected empty profile to have no preferences")
	}

	p.DisinterestTags = []string{"crypto"}
	if err := p.Validate(); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !p.HasPreferences() {
		t.Error("Expected profile with disinterests to have preferences")
	}
}

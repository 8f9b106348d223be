package render

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hnherald/internal/core"
)

// RenderMarkdown formats a digest as a markdown document for terminal
// or file consumption.
func RenderMarkdown(digest *core.Digest) string {
	var b strings.Builder

	dateStr := digest.Timestamp.Format("2006-01-02")
	b.WriteString(fmt.Sprintf("# Hacker News Digest - %s\n\n", dateStr))
	b.WriteString(fmt.Sprintf("*%d articles (fetched %d, filtered %d, %d errors, generated in %dms)*\n\n",
		digest.Stats.Final,
		digest.Stats.Fetched,
		digest.Stats.Filtered,
		digest.Stats.Errors,
		digest.Stats.GenerationTimeMS,
	))

	if len(digest.Articles) == 0 {
		b.WriteString("No articles made it into this digest.\n")
		return b.String()
	}

	for i, scored := range digest.Articles {
		article := scored.Article.Article
		b.WriteString(fmt.Sprintf("## %d. %s\n\n", i+1, article.Title))

		b.WriteString(fmt.Sprintf("**Score:** %.2f (relevance %.2f, popularity %.2f) | **HN:** %d points, %d comments\n\n",
			scored.FinalScore,
			scored.Relevance.Score,
			scored.PopularityScore,
			article.HNScore,
			article.HNComments,
		))

		if scored.Article.HasSummary() {
			b.WriteString(scored.Article.Summary.Summary + "\n\n")
			for _, point := range scored.Article.Summary.KeyPoints {
				b.WriteString(fmt.Sprintf("- %s\n", point))
			}
			b.WriteString("\n")
			if tags := scored.Article.DisplayTags(); len(tags) > 0 {
				b.WriteString(fmt.Sprintf("*Tags: %s*\n\n", strings.Join(tags, ", ")))
			}
		}

		if scored.Relevance.Reason != "" {
			b.WriteString(fmt.Sprintf("*Why: %s*\n\n", scored.Relevance.Reason))
		}

		if article.URL != "" {
			b.WriteString(fmt.Sprintf("[Article](%s) | ", article.URL))
		}
		b.WriteString(fmt.Sprintf("[Discussion](%s)\n\n", article.HNURL))
		b.WriteString("---\n\n")
	}

	return b.String()
}

// WriteMarkdownDigest renders the digest and writes it to
// outputDir/digest_YYYY-MM-DD.md, creating the directory if needed.
// Returns the written file path.
func WriteMarkdownDigest(digest *core.Digest, outputDir string) (string, error) {
	if outputDir == "" {
		outputDir = "digests"
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}

	filename := fmt.Sprintf("digest_%s.md", time.Now().UTC().Format("2006-01-02"))
	filePath := filepath.Join(outputDir, filename)

	if err := os.WriteFile(filePath, []byte(RenderMarkdown(digest)), 0644); err != nil {
		return "", fmt.Errorf("failed to write digest file %s: %w", filePath, err)
	}

	return filePath, nil
}

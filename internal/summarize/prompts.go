package summarize

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"hnherald/internal/core"
)

// BatchSummarySchema returns the Gemini response schema for a batch of
// structured article summaries, one object per submitted article, in
// submission order.
func BatchSummarySchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeArray,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"summary": {
					Type:        genai.TypeString,
					Description: "Concise 2-3 sentence summary of the article (20-500 characters)",
				},
				"key_points": {
					Type:        genai.TypeArray,
					Description: "1-5 key takeaways from the article",
					Items:       &genai.Schema{Type: genai.TypeString},
				},
				"tags": {
					Type:        genai.TypeArray,
					Description: "Up to 10 lowercase technology/topic tags (e.g. python, ai, security)",
					Items:       &genai.Schema{Type: genai.TypeString},
				},
			},
			Required: []string{"summary", "key_points"},
		},
	}
}

// BuildBatchPrompt renders the summarization prompt for one chunk of
// articles. Articles are numbered so the model returns results in order.
func BuildBatchPrompt(articles []core.Article) string {
	var b strings.Builder
	b.WriteString("You are a technical content summarizer for HackerNews articles.\n\n")
	b.WriteString(fmt.Sprintf("Summarize each of the %d articles below. For every article produce:\n", len(articles)))
	b.WriteString("1. A concise 2-3 sentence summary capturing the main points\n")
	b.WriteString("2. The key takeaways as short bullet points\n")
	b.WriteString("3. Relevant technology/topic tags (e.g. python, ai, security, devops)\n\n")
	b.WriteString("Return one result per article, in the same order as submitted.\n")

	for i, article := range articles {
		b.WriteString(fmt.Sprintf("\n--- Article %d ---\n", i+1))
		b.WriteString(fmt.Sprintf("Title: %s\n\n", article.Title))
		b.WriteString(article.DisplayContent())
		b.WriteString("\n")
	}

	return b.String()
}

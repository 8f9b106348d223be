package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hnherald/internal/config"
	"hnherald/internal/core"
	"hnherald/internal/render"
)

// NewDigestCmd creates the digest command for one-shot digest generation
func NewDigestCmd() *cobra.Command {
	var (
		interests    []string
		disinterests []string
		minScore     float64
		maxArticles  int
		fetchType    string
		fetchCount   int
		outputDir    string
		toStdout     bool
	)

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Generate a personalized Hacker News digest",
		Long: `Fetch Hacker News stories, extract and summarize their articles, and
rank them against your interests.

Examples:
  # Digest of top stories matching your interests
  hnherald digest --interests go,databases --disinterests crypto

  # Best stories, strict relevance cutoff, printed to the terminal
  hnherald digest --interests rust --fetch-type best --min-score 0.6 --stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			profile := core.UserProfile{
				InterestTags:    interests,
				DisinterestTags: disinterests,
				MinScore:        minScore,
				MaxArticles:     maxArticles,
				FetchType:       core.StoryType(fetchType),
				FetchCount:      fetchCount,
			}
			if err := profile.Validate(); err != nil {
				return err
			}

			p, err := buildPipeline(cmd.Context(), config.Get())
			if err != nil {
				return err
			}

			result, err := p.Generate(cmd.Context(), profile)
			if err != nil {
				return fmt.Errorf("digest generation failed: %w", err)
			}

			if toStdout {
				fmt.Println(render.RenderMarkdown(result.Digest))
			} else {
				path, err := render.WriteMarkdownDigest(result.Digest, outputDir)
				if err != nil {
					return err
				}
				fmt.Printf("Digest written to %s\n", path)
			}

			if len(result.Errors) > 0 {
				fmt.Fprintf(os.Stderr, "%d articles were dropped along the way:\n", len(result.Errors))
				for _, e := range result.Errors {
					fmt.Fprintf(os.Stderr, "  - %s\n", e)
				}
			}

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&interests, "interests", nil, "comma-separated interest tags (e.g. go,databases)")
	cmd.Flags().StringSliceVar(&disinterests, "disinterests", nil, "comma-separated tags to avoid")
	cmd.Flags().Float64Var(&minScore, "min-score", 0, "drop articles with final score below this threshold (0-1)")
	cmd.Flags().IntVar(&maxArticles, "max-articles", 0, "maximum articles in the digest (default 10)")
	cmd.Flags().StringVar(&fetchType, "fetch-type", "", "HN listing to fetch: top, new, best, ask, show, job (default top)")
	cmd.Flags().IntVar(&fetchCount, "fetch-count", 0, "number of stories to fetch (default 30)")
	cmd.Flags().StringVar(&outputDir, "output", "", "output directory for the digest file (default ./digests)")
	cmd.Flags().BoolVar(&toStdout, "stdout", false, "print the digest to stdout instead of writing a file")

	return cmd
}

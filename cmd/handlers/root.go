package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"hnherald/internal/config"
)

var cfgFile string

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "hnherald",
		Short: "hnherald generates personalized Hacker News digests.",
		Long: `hnherald fetches Hacker News stories, extracts article content,
summarizes it with Gemini, and ranks the results against your interest
profile to produce a daily digest.

Run 'hnherald digest' for a one-shot digest, or 'hnherald serve' to
expose digest generation over HTTP.`,
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.hnherald.yaml)")

	rootCmd.AddCommand(NewDigestCmd())
	rootCmd.AddCommand(NewServeCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if _, err := config.Load(cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
}

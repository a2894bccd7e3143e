package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"briefcast/internal/config"
)

var cfgFile string

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "briefcast",
		Short: "Briefcast turns your saved articles into a narrated audio digest.",
		Long: `Briefcast is a scheduled batch tool that builds a personalized audio
digest from the articles saved in your reading library.

Each run fetches the digest definition, retrieves candidate articles,
ranks them against your preference profile, summarizes the best ones,
narrates the summaries to speech files, and persists the completed
digest.`,
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.briefcast.yaml)")

	rootCmd.AddCommand(NewDigestCmd())
	rootCmd.AddCommand(NewDefinitionCmd())

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

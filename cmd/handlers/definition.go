package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"briefcast/internal/config"
	"briefcast/internal/definition"
)

// NewDefinitionCmd creates the definition command for inspecting the
// remote digest definition.
func NewDefinitionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "definition",
		Short: "Fetch and display the remote digest definition",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDefinition(cmd.Context())
		},
	}

	return cmd
}

func runDefinition(ctx context.Context) error {
	cfg := config.Get()

	timeout, err := time.ParseDuration(cfg.Digest.Timeout)
	if err != nil {
		return fmt.Errorf("invalid digest.timeout: %w", err)
	}

	loader := definition.NewLoader(cfg.Digest.DefinitionURL, &http.Client{Timeout: timeout})
	def, err := loader.Load(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Definition: %s\n\n", def.Name)

	fmt.Printf("Preference selectors (%d):\n", len(def.PreferenceSelectors))
	for _, sel := range def.PreferenceSelectors {
		fmt.Printf("  %-40q count=%d  %s\n", sel.Query, sel.Count, sel.Reason)
	}

	fmt.Printf("\nCandidate selectors (%d):\n", len(def.CandidateSelectors))
	for _, sel := range def.CandidateSelectors {
		fmt.Printf("  %-40q count=%d  %s\n", sel.Query, sel.Count, sel.Reason)
	}

	return nil
}

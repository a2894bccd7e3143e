package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"briefcast/internal/config"
	"briefcast/internal/definition"
	"briefcast/internal/digest"
	"briefcast/internal/library"
	"briefcast/internal/llm"
	"briefcast/internal/logger"
	"briefcast/internal/profile"
	"briefcast/internal/rank"
	"briefcast/internal/speech"
	"briefcast/internal/store"
	"briefcast/internal/summarize"
)

// NewDigestCmd creates the digest command that runs the full pipeline
func NewDigestCmd() *cobra.Command {
	var userID string

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Generate a narrated audio digest for a user",
		Long: `Generate a narrated audio digest for one user.

The run is all-or-nothing: every step must succeed for a digest to be
persisted.

Examples:
  # Generate today's digest for a user
  briefcast digest --user alice

  # Run from a cron job with an explicit config file
  briefcast digest --user alice --config /etc/briefcast.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDigest(cmd.Context(), userID)
		},
	}

	cmd.Flags().StringVarP(&userID, "user", "u", "", "User id to generate the digest for")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runDigest(ctx context.Context, userID string) error {
	log := logger.Get()
	cfg := config.Get()

	digestTimeout, err := time.ParseDuration(cfg.Digest.Timeout)
	if err != nil {
		return fmt.Errorf("invalid digest.timeout: %w", err)
	}
	libraryTimeout, err := time.ParseDuration(cfg.Library.Timeout)
	if err != nil {
		return fmt.Errorf("invalid library.timeout: %w", err)
	}

	defLoader := definition.NewLoader(cfg.Digest.DefinitionURL, &http.Client{Timeout: digestTimeout})

	searchClient := library.NewHTTPSearchClient(cfg.Library.Endpoint, cfg.Library.APIKey, &http.Client{Timeout: libraryTimeout})
	retriever := library.NewRetriever(searchClient)

	llmClient, err := llm.NewClient(ctx, cfg.AI.Gemini.APIKey, cfg.AI.Gemini.Model, cfg.AI.Gemini.Temperature)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}

	cache, err := profile.NewRedisCache(cfg.Cache.RedisURL)
	if err != nil {
		return fmt.Errorf("failed to connect to profile cache: %w", err)
	}
	defer func() { _ = cache.Close() }()

	ttsConfig := &speech.Config{
		Provider:  speech.Provider(cfg.TTS.Provider),
		APIKey:    cfg.TTS.OpenAIAPIKey,
		Voice:     cfg.TTS.Voice,
		Speed:     cfg.TTS.Speed,
		OutputDir: cfg.TTS.OutputDirectory,
	}
	if err := speech.ValidateConfig(ttsConfig); err != nil {
		return fmt.Errorf("invalid TTS configuration: %w", err)
	}

	digestStore, err := store.NewStore(cfg.Store.DataDir)
	if err != nil {
		return fmt.Errorf("failed to open digest store: %w", err)
	}
	defer func() { _ = digestStore.Close() }()

	job := digest.NewJob(
		defLoader,
		retriever,
		profile.NewResolver(cache, llmClient, retriever),
		rank.NewRanker(llmClient),
		summarize.NewSummarizer(llmClient),
		speech.NewNarrator(speech.NewTTSClient(ttsConfig)),
		digestStore,
	)

	result, err := job.Run(ctx, userID)
	if err != nil {
		log.Error("Digest run failed", "user_id", userID, "error", err.Error())
		return err
	}

	fmt.Printf("Digest %s created for %s with %d speech files\n", result.ID, userID, len(result.SpeechFiles))
	return nil
}

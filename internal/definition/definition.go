package definition

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Selector is a named query used to retrieve a bounded set of library items.
type Selector struct {
	Query  string `json:"query"`  // Library search query
	Count  int    `json:"count"`  // Maximum results to request
	Reason string `json:"reason"` // Human-readable note on why this selector exists
}

// Prompts bundles the templates driving each LLM interaction. Templates use
// {{name}} placeholders filled by RenderPrompt.
type Prompts struct {
	Profile   string `json:"profile"`   // Builds the user reading profile from preference titles
	Rank      string `json:"rank"`      // Ranks candidates against the profile
	Summarize string `json:"summarize"` // Summarizes one selected item
	Assemble  string `json:"assemble"`  // Assembles the final digest narration
}

// Definition is the declarative configuration for one digest run. It is
// fetched fresh at the start of every run and never cached.
type Definition struct {
	Name                string     `json:"name"`
	PreferenceSelectors []Selector `json:"preference_selectors"`
	CandidateSelectors  []Selector `json:"candidate_selectors"`
	Prompts             Prompts    `json:"prompts"`
	ZeroShotPrompts     Prompts    `json:"zero_shot_prompts"`
}

// Loader fetches digest definitions from a remote URL.
type Loader struct {
	url    string
	client *http.Client
}

// NewLoader creates a definition loader for the given URL. The URL may be
// empty; Load reports the configuration error before any network call.
func NewLoader(url string, client *http.Client) *Loader {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Loader{url: url, client: client}
}

// Load fetches and parses the digest definition. There is no retry and no
// fallback definition: any failure aborts the run.
func (l *Loader) Load(ctx context.Context) (*Definition, error) {
	if l.url == "" {
		return nil, fmt.Errorf("digest definition URL is not configured (set DIGEST_DEFINITION_URL)")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create definition request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch definition from %s: %w", l.url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("definition fetch returned status %d: %s", resp.StatusCode, string(body))
	}

	var def Definition
	if err := json.NewDecoder(resp.Body).Decode(&def); err != nil {
		return nil, fmt.Errorf("failed to parse definition document: %w", err)
	}

	if err := validate(&def); err != nil {
		return nil, fmt.Errorf("invalid definition document: %w", err)
	}

	return &def, nil
}

func validate(def *Definition) error {
	if len(def.CandidateSelectors) == 0 {
		return fmt.Errorf("no candidate selectors")
	}
	if len(def.PreferenceSelectors) == 0 {
		return fmt.Errorf("no preference selectors")
	}
	if def.Prompts.Profile == "" || def.Prompts.Rank == "" || def.Prompts.Summarize == "" {
		return fmt.Errorf("missing prompt templates")
	}
	return nil
}

// RenderPrompt fills {{name}} placeholders in a definition prompt template.
// Unknown placeholders are left untouched so a malformed template surfaces
// in the LLM output rather than silently producing an empty prompt.
func RenderPrompt(template string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{{"+name+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

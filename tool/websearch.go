package tool

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultSearchEndpoint = "https://api.duckduckgo.com/"

// WebSearchOptions configures a WebSearchTool.
type WebSearchOptions struct {
	// Endpoint is the instant-answer API base URL. Overridable for tests.
	Endpoint string

	// MaxResults caps the related results returned per query.
	MaxResults int

	// HTTPClient performs the requests. Defaults to a client with a 10s
	// timeout.
	HTTPClient *http.Client
}

// WebSearchTool queries the DuckDuckGo instant-answer API and returns the
// abstract plus a bounded list of related results.
type WebSearchTool struct {
	endpoint   string
	maxResults int
	client     *http.Client
}

// NewWebSearchTool creates a web search provider.
func NewWebSearchTool(optFns ...func(o *WebSearchOptions)) *WebSearchTool {
	opts := WebSearchOptions{
		Endpoint:   defaultSearchEndpoint,
		MaxResults: 5,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &WebSearchTool{endpoint: opts.Endpoint, maxResults: opts.MaxResults, client: opts.HTTPClient}
}

// Schema implements Provider.
func (t *WebSearchTool) Schema() Schema {
	return Schema{
		Name:        "web_search",
		Description: "Search the web for a query and return a short abstract plus related results.",
		Parameters: Parameters{
			Type: "object",
			Properties: map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search query",
				},
				"max_results": map[string]any{
					"type":        "integer",
					"description": "Maximum number of related results to return",
				},
			},
			Required: []string{"query"},
		},
		Executor: "network",
	}
}

// instantAnswer mirrors the subset of the DuckDuckGo response consumed here.
type instantAnswer struct {
	AbstractText  string `json:"AbstractText"`
	AbstractURL   string `json:"AbstractURL"`
	RelatedTopics []struct {
		Text     string `json:"Text"`
		FirstURL string `json:"FirstURL"`
	} `json:"RelatedTopics"`
}

// Execute implements Provider.
func (t *WebSearchTool) Execute(ctx context.Context, params map[string]any) (any, error) {
	query, _ := params["query"].(string)
	if query == "" {
		return nil, fmt.Errorf("query parameter is required")
	}

	limit := t.maxResults
	// max_results arrives as float64 from JSON tool calls and as int from
	// YAML tool_config defaults.
	switch raw := params["max_results"].(type) {
	case float64:
		if n := int(raw); n > 0 && n < limit {
			limit = n
		}
	case int:
		if raw > 0 && raw < limit {
			limit = raw
		}
	}

	u, err := url.Parse(t.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid search endpoint: %w", err)
	}
	q := u.Query()
	q.Set("q", query)
	q.Set("format", "json")
	q.Set("no_html", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned status %d", resp.StatusCode)
	}

	var answer instantAnswer
	if err := json.NewDecoder(resp.Body).Decode(&answer); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	results := make([]map[string]string, 0, limit)
	for _, topic := range answer.RelatedTopics {
		if topic.Text == "" {
			continue
		}
		results = append(results, map[string]string{"text": topic.Text, "url": topic.FirstURL})
		if len(results) >= limit {
			break
		}
	}

	return map[string]any{
		"query":    query,
		"abstract": answer.AbstractText,
		"source":   answer.AbstractURL,
		"results":  results,
	}, nil
}

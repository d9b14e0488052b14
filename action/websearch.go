package action

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
)

const defaultSearchURL = "https://api.search.brave.com/res/v1/web/search"

// ErrNoSearchKey is returned when no Brave API key is configured.
var ErrNoSearchKey = errors.New("BRAVE_API_KEY not set")

// WebSearch queries the Brave Search API. It expects a "query" argument
// and returns the top results as numbered text.
type WebSearch struct {
	apiKey     string
	baseURL    string
	count      int
	country    string
	lang       string
	httpClient *http.Client
}

type WebSearchOption func(*WebSearch)

// WithSearchAPIKey overrides the key read from BRAVE_API_KEY.
func WithSearchAPIKey(key string) WebSearchOption {
	return func(w *WebSearch) { w.apiKey = key }
}

// WithSearchBaseURL points the tool at a different endpoint, mainly
// for tests.
func WithSearchBaseURL(baseURL string) WebSearchOption {
	return func(w *WebSearch) { w.baseURL = baseURL }
}

// WithSearchCount sets how many results to return, clamped to 1..20.
func WithSearchCount(count int) WebSearchOption {
	return func(w *WebSearch) {
		if count < 1 {
			count = 1
		}
		if count > 20 {
			count = 20
		}
		w.count = count
	}
}

// WithSearchLocale sets the country and language codes for results.
func WithSearchLocale(country, lang string) WebSearchOption {
	return func(w *WebSearch) {
		w.country = country
		w.lang = lang
	}
}

// WithSearchHTTPClient replaces the HTTP client.
func WithSearchHTTPClient(c *http.Client) WebSearchOption {
	return func(w *WebSearch) { w.httpClient = c }
}

// NewWebSearch builds the search tool. The API key comes from the
// BRAVE_API_KEY environment variable unless set through an option.
func NewWebSearch(opts ...WebSearchOption) (*WebSearch, error) {
	w := &WebSearch{
		apiKey:     os.Getenv("BRAVE_API_KEY"),
		baseURL:    defaultSearchURL,
		count:      10,
		httpClient: http.DefaultClient,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.apiKey == "" {
		return nil, ErrNoSearchKey
	}
	return w, nil
}

func (w *WebSearch) Name() string { return "web_search" }

func (w *WebSearch) Description() string {
	return "Search the web for current information. Arguments: {\"query\": string}."
}

type searchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
}

type searchResponse struct {
	Web struct {
		Results []searchResult `json:"results"`
	} `json:"web"`
}

func (w *WebSearch) Call(ctx context.Context, arguments map[string]any) (string, error) {
	query, _ := arguments["query"].(string)
	if query == "" {
		return "", errors.New("web_search: missing query argument")
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("count", strconv.Itoa(w.count))
	if w.country != "" {
		params.Set("country", w.country)
	}
	if w.lang != "" {
		params.Set("search_lang", w.lang)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, w.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("web_search: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Subscription-Token", w.apiKey)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("web_search: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("web_search: unexpected status %d", resp.StatusCode)
	}

	var body searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("web_search: decode response: %w", err)
	}

	if len(body.Web.Results) == 0 {
		return "No results found", nil
	}

	var sb strings.Builder
	for i, r := range body.Web.Results {
		fmt.Fprintf(&sb, "%d. %s\n%s\n%s\n\n", i+1, r.Title, r.URL, r.Description)
	}
	return strings.TrimSpace(sb.String()), nil
}

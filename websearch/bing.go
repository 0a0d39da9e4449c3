package websearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/voiceshop/assistant/common/httpx"
	"github.com/voiceshop/assistant/config"
	"github.com/voiceshop/assistant/schema"
)

const defaultBingEndpoint = "https://api.bing.microsoft.com/v7.0/search"

type bingProvider struct {
	endpoint string
	apiKey   string
	hc       *httpx.Client
	timeout  time.Duration
}

func newBing(cfg config.WebSearchConfig, hc *httpx.Client) *bingProvider {
	ep := cfg.Endpoint
	if ep == "" {
		ep = defaultBingEndpoint
	}
	return &bingProvider{
		endpoint: ep,
		apiKey:   cfg.APIKey,
		hc:       hc,
		timeout:  time.Duration(cfg.TimeoutMs) * time.Millisecond,
	}
}

type bingResponse struct {
	WebPages struct {
		Value []struct {
			Name    string `json:"name"`
			URL     string `json:"url"`
			Snippet string `json:"snippet"`
		} `json:"value"`
	} `json:"webPages"`
}

func (p *bingProvider) Search(ctx context.Context, query string, maxResults int) ([]schema.WebResult, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	u := p.endpoint + "?q=" + url.QueryEscape(query) + "&count=" + strconv.Itoa(maxResults)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", p.apiKey)

	resp, err := p.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: bing: %v", schema.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: bing status %d", schema.ErrServiceUnavailable, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: bing read: %v", schema.ErrServiceUnavailable, err)
	}

	var br bingResponse
	if err := json.Unmarshal(data, &br); err != nil {
		return nil, fmt.Errorf("bing decode: %w", err)
	}

	var out []schema.WebResult
	for _, v := range br.WebPages.Value {
		if len(out) >= maxResults {
			break
		}
		out = append(out, schema.WebResult{Title: v.Name, URL: v.URL, Snippet: v.Snippet})
	}
	return out, nil
}

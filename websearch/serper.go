package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/voiceshop/assistant/common/httpx"
	"github.com/voiceshop/assistant/config"
	"github.com/voiceshop/assistant/schema"
)

const defaultSerperEndpoint = "https://google.serper.dev/search"

type serperProvider struct {
	endpoint string
	apiKey   string
	hc       *httpx.Client
	timeout  time.Duration
}

func newSerper(cfg config.WebSearchConfig, hc *httpx.Client) *serperProvider {
	ep := cfg.Endpoint
	if ep == "" {
		ep = defaultSerperEndpoint
	}
	return &serperProvider{
		endpoint: ep,
		apiKey:   cfg.APIKey,
		hc:       hc,
		timeout:  time.Duration(cfg.TimeoutMs) * time.Millisecond,
	}
}

type serperRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

type serperResponse struct {
	Organic []struct {
		Title   string `json:"title"`
		Link    string `json:"link"`
		Snippet string `json:"snippet"`
	} `json:"organic"`
	Shopping []struct {
		Title  string `json:"title"`
		Link   string `json:"link"`
		Price  string `json:"price"`
		Source string `json:"source"`
	} `json:"shopping"`
}

func (p *serperProvider) Search(ctx context.Context, query string, maxResults int) ([]schema.WebResult, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}
	body, err := json.Marshal(serperRequest{Q: query, Num: maxResults})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.hc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: serper: %v", schema.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: serper status %d", schema.ErrServiceUnavailable, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: serper read: %v", schema.ErrServiceUnavailable, err)
	}

	var sr serperResponse
	if err := json.Unmarshal(data, &sr); err != nil {
		return nil, fmt.Errorf("serper decode: %w", err)
	}

	var out []schema.WebResult
	for _, s := range sr.Shopping {
		if len(out) >= maxResults {
			break
		}
		out = append(out, schema.WebResult{
			Title:   s.Title,
			URL:     s.Link,
			Snippet: s.Source,
			Price:   ExtractPrice(s.Price),
		})
	}
	for _, o := range sr.Organic {
		if len(out) >= maxResults {
			break
		}
		out = append(out, schema.WebResult{
			Title:   o.Title,
			URL:     o.Link,
			Snippet: o.Snippet,
		})
	}
	return out, nil
}

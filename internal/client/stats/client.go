// Package stats is the HTTP client for the external hit-counting collector.
// The collector is best-effort from the platform's point of view: callers are
// expected to swallow errors from RecordHit and to degrade view counts to
// zero when GetStats fails.
package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// TimeLayout is the range format the collector expects on /stats.
const TimeLayout = "2006-01-02 15:04:05"

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(httpClient *http.Client, baseURL string) *Client {
	return &Client{BaseURL: baseURL, HTTP: httpClient}
}

// Hit is a single recorded access to a URI.
type Hit struct {
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

// ViewStats is the collector's per-URI aggregate.
type ViewStats struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

func (c *Client) base() (string, error) {
	base := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if base == "" {
		return "", errors.New("stats base url is empty")
	}
	return base, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

// RecordHit posts a single access record to the collector.
func (c *Client) RecordHit(ctx context.Context, app, uri, ip string, ts time.Time) error {
	base, err := c.base()
	if err != nil {
		return err
	}
	body, _ := json.Marshal(Hit{
		App:       app,
		URI:       uri,
		IP:        ip,
		Timestamp: ts.Format(TimeLayout),
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/hit", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return fmt.Errorf("stats hit http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return nil
}

// GetStats fetches hit counts for the given URIs over [start, end]. When
// unique is true the collector counts distinct client addresses only.
func (c *Client) GetStats(ctx context.Context, start, end time.Time, uris []string, unique bool) ([]ViewStats, error) {
	base, err := c.base()
	if err != nil {
		return nil, err
	}
	params := url.Values{}
	params.Set("start", start.Format(TimeLayout))
	params.Set("end", end.Format(TimeLayout))
	params.Set("unique", strconv.FormatBool(unique))
	for _, uri := range uris {
		params.Add("uris", uri)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/stats?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("stats query http %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	var out []ViewStats
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"

	"github.com/sanosuguru/go-event-listing/internal/domain/view"
)

// TimeLayout is the timestamp format the stats server reads and writes
const TimeLayout = "2006-01-02 15:04:05"

type endpointHit struct {
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

type viewStats struct {
	App  string `json:"app"`
	URI  string `json:"uri"`
	Hits int64  `json:"hits"`
}

// Client talks to the external stats server
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// RecordHit posts the hit to /hit
func (c *Client) RecordHit(ctx context.Context, hit view.Hit) error {
	body, err := json.Marshal(endpointHit{
		App:       hit.App,
		URI:       hit.Path,
		IP:        hit.IP,
		Timestamp: hit.Timestamp.Format(TimeLayout),
	})
	if err != nil {
		return fmt.Errorf("encode hit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/hit", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build hit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return fmt.Errorf("record hit: %w", err)
	}
	resp.Body.Close()
	return nil
}

// UniqueHits asks /stats for unique visitors of path and sums the rows.
func (c *Client) UniqueHits(ctx context.Context, path string, from, to time.Time) (int64, error) {
	q := url.Values{}
	q.Set("start", from.Format(TimeLayout))
	q.Set("end", to.Format(TimeLayout))
	q.Add("uris", path)
	q.Set("unique", "true")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats?"+q.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("build stats request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return 0, fmt.Errorf("fetch stats: %w", err)
	}
	defer resp.Body.Close()

	var rows []viewStats
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return 0, fmt.Errorf("decode stats: %w", err)
	}
	var total int64
	for _, r := range rows {
		total += r.Hits
	}
	return total, nil
}

// do sends req with the trace context attached and fails on non-2xx.
func (c *Client) do(req *http.Request) (*http.Response, error) {
	otel.GetTextMapPropagator().Inject(req.Context(), propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, fmt.Errorf("stats server returned %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	return resp, nil
}

var _ view.Counter = (*Client)(nil)

// Package ner provides an EntitySource backed by a named-entity recognition
// sidecar reached over HTTP. The sidecar loads the NLP model once and serves
// a stateless /entities endpoint, so one client is safe for concurrent use
// across pipeline runs.
package ner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/xranano/AI-audio-pipeline/internal/redact"
	"github.com/xranano/AI-audio-pipeline/pkg/logger"
)

// Client calls the NER sidecar's /entities endpoint.
type Client struct {
	url        string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewClient creates a NER client pointing at the given base URL
// (e.g. "http://localhost:8001").
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		url: baseURL + "/entities",
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log.Named("ner-client"),
	}
}

var _ redact.EntitySource = (*Client)(nil)

type entitiesRequest struct {
	Text string `json:"text"`
}

type entitiesResponse struct {
	Entities []entitySpan `json:"entities"`
}

type entitySpan struct {
	Label string `json:"label"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// Detect sends text to the sidecar and returns the PERSON and DATE entity
// spans; all other entity labels are discarded. Offsets in the returned
// spans index into the exact string passed in. Any transport failure,
// non-200 status, or span with offsets outside the input is returned as an
// error: the caller must not fall back to a partially redacted result.
func (c *Client) Detect(ctx context.Context, text string) ([]redact.Span, error) {
	body, err := json.Marshal(entitiesRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal entity request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create entity request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("entity model unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("entity model returned status %d", resp.StatusCode)
	}

	var result entitiesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode entity response: %w", err)
	}

	var spans []redact.Span
	for _, ent := range result.Entities {
		var category redact.Category
		switch ent.Label {
		case "PERSON":
			category = redact.CategoryPerson
		case "DATE":
			category = redact.CategoryDate
		default:
			continue
		}
		if ent.Start < 0 || ent.End > len(text) || ent.Start >= ent.End {
			return nil, fmt.Errorf("entity model returned invalid span [%d,%d) for label %s", ent.Start, ent.End, ent.Label)
		}
		spans = append(spans, redact.Span{
			Category:     category,
			OriginalText: text[ent.Start:ent.End],
			StartOffset:  ent.Start,
			EndOffset:    ent.End,
			Source:       redact.SourceEntity,
		})
	}

	c.logger.Debug("entity detection complete",
		logger.Int("entities_returned", len(result.Entities)),
		logger.Int("entities_retained", len(spans)))

	return spans, nil
}

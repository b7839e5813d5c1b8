package analytics

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

	"hashlife_backend/platform/config"
)

// GA4Collector delivers tracked events to Google Analytics via the
// Measurement Protocol.
type GA4Collector struct {
	endpoint      string
	measurementID string
	apiSecret     string
	http          *http.Client
}

type ga4Event struct {
	Name   string         `json:"name"`
	Params map[string]any `json:"params,omitempty"`
}

type ga4Request struct {
	ClientID string     `json:"client_id"`
	Events   []ga4Event `json:"events"`
}

// NewGA4Collector returns nil when GA4 is not configured, which the emitter
// treats as an absent collector.
func NewGA4Collector(cfg config.AnalyticsConfig) *GA4Collector {
	if !cfg.IsGA4Enabled() {
		return nil
	}

	return &GA4Collector{
		endpoint:      strings.TrimRight(cfg.GetGA4Endpoint(), "/"),
		measurementID: cfg.GetGA4MeasurementID(),
		apiSecret:     cfg.GetGA4APISecret(),
		http:          &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *GA4Collector) Name() string {
	return "ga4"
}

func (c *GA4Collector) Collect(ctx context.Context, ev TrackedEvent) error {
	payload := ga4Request{
		ClientID: ev.SessionID,
		Events: []ga4Event{{
			Name:   ev.Name,
			Params: ev.Params,
		}},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal ga4 payload: %w", err)
	}

	query := url.Values{}
	query.Set("measurement_id", c.measurementID)
	query.Set("api_secret", c.apiSecret)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+"?"+query.Encode(), bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("ga4 request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("ga4 returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	return nil
}

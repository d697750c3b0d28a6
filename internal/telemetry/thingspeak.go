package telemetry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	pkgerrors "github.com/chemwatch/chemwatch/pkg/errors"
)

const DefaultBaseURL = "https://api.thingspeak.com"

// Client reads the latest value of a single channel field from a
// ThingSpeak-style provider. Read-only, one field per call.
type Client struct {
	baseURL string
	channel string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, channel, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		channel: channel,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// LastFieldValue fetches /channels/{ch}/fields/{n}/last.json and parses
// the numeric reading. Any non-2xx status or non-numeric payload is a
// telemetry error for this field only.
func (c *Client) LastFieldValue(ctx context.Context, field int) (float64, error) {
	url := fmt.Sprintf("%s/channels/%s/fields/%d/last.json?api_key=%s", c.baseURL, c.channel, field, c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, pkgerrors.NewTelemetryError(field, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, pkgerrors.NewTelemetryError(field, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return 0, pkgerrors.NewTelemetryError(field, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	payload := map[string]any{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, pkgerrors.NewTelemetryError(field, err)
	}

	raw, ok := payload[fmt.Sprintf("field%d", field)]
	if !ok {
		return 0, pkgerrors.NewTelemetryError(field, fmt.Errorf("field%d missing in payload", field))
	}

	switch v := raw.(type) {
	case string:
		value, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, pkgerrors.NewTelemetryError(field, err)
		}
		return value, nil
	case float64:
		return v, nil
	default:
		return 0, pkgerrors.NewTelemetryError(field, fmt.Errorf("field%d is not numeric", field))
	}
}

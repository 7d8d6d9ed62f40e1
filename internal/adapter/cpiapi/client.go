package cpiapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/cpisim/cpisim-backend/internal/domain"
)

const calculatePath = "/api/calculate-cpi"

// resultRecord is the wire form of one simulated point. The date key
// arrives as a record filename.
type resultRecord struct {
	Filename            string             `json:"filename"`
	CPI                 float64            `json:"cpi"`
	ActiveRedistributed map[string]float64 `json:"activeRedistributed,omitempty"`
}

type calculateResponse struct {
	Results []resultRecord `json:"results"`
}

type errorResponse struct {
	Message string `json:"message"`
}

// Client implements domain.CPICalculator against the external CPI
// computation service. Timeouts are the injected http.Client's
// responsibility.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Client instance
func NewClient(baseURL string, httpClient *http.Client, logger *zap.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient, logger: logger}
}

// Calculate posts the raw percentage map and returns the simulated
// records. A non-success response surfaces the server-provided message
// when the body carries one, otherwise a generic error.
func (c *Client) Calculate(ctx context.Context, percentages domain.Distribution) ([]domain.RawRecord, error) {
	payload := make(map[string]string, len(percentages))
	for council, value := range percentages {
		payload[string(council)] = value.StringFixed(2)
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding percentages: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+calculatePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling CPI service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, c.statusError(resp)
	}

	var decoded calculateResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decoding CPI response: %w", err)
	}

	records := make([]domain.RawRecord, 0, len(decoded.Results))
	for _, res := range decoded.Results {
		records = append(records, domain.RawRecord{
			DateKey:     res.Filename,
			Value:       res.CPI,
			Attribution: toAttribution(res.ActiveRedistributed),
		})
	}

	c.logger.Debug("CPI calculation succeeded", zap.Int("records", len(records)))
	return records, nil
}

// statusError extracts the server-provided message, falling back to a
// generic error naming the status code.
func (c *Client) statusError(resp *http.Response) error {
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err == nil {
		var decoded errorResponse
		if json.Unmarshal(body, &decoded) == nil && decoded.Message != "" {
			return fmt.Errorf("CPI service: %s", decoded.Message)
		}
	}
	return fmt.Errorf("CPI service returned status %d", resp.StatusCode)
}

// toAttribution keeps only known councils; unknown labels from the
// service are dropped.
func toAttribution(raw map[string]float64) map[domain.Council]float64 {
	if len(raw) == 0 {
		return nil
	}
	attribution := make(map[domain.Council]float64, len(raw))
	for label, value := range raw {
		c := domain.Council(label)
		if c.Valid() {
			attribution[c] = value
		}
	}
	if len(attribution) == 0 {
		return nil
	}
	return attribution
}

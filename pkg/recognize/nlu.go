package recognize

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/aretw0/wicker/pkg/domain"
	"github.com/mitchellh/mapstructure"
)

// NLUClient calls a hosted intent/entity recognizer over HTTP (the LUIS v1
// wire shape: GET <endpoint>&q=<utterance> returning intents ranked by
// score and typed entities). The endpoint URL carries the application ID
// and subscription key, as published by the service.
type NLUClient struct {
	endpoint  string
	client    *http.Client
	threshold float64
}

// NLUOption configures the client.
type NLUOption func(*NLUClient)

// WithHTTPClient replaces the default HTTP client (10s timeout).
func WithHTTPClient(c *http.Client) NLUOption {
	return func(n *NLUClient) {
		n.client = c
	}
}

// WithScoreThreshold drops intents scored below the threshold. Default 0:
// the service's own ranking is trusted and ties are left to rule order.
func WithScoreThreshold(threshold float64) NLUOption {
	return func(n *NLUClient) {
		n.threshold = threshold
	}
}

// NewNLUClient creates a client for the given published endpoint URL.
func NewNLUClient(endpoint string, opts ...NLUOption) *NLUClient {
	n := &NLUClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// nluResponse is the service's wire shape. Entities arrive as loosely typed
// maps; mapstructure lifts them into domain values.
type nluResponse struct {
	Query    string           `json:"query"`
	Intents  []nluIntent      `json:"intents"`
	Entities []map[string]any `json:"entities"`
}

type nluIntent struct {
	Intent string  `json:"intent"`
	Score  float64 `json:"score"`
}

type nluEntity struct {
	Entity     string         `mapstructure:"entity"`
	Type       string         `mapstructure:"type"`
	Score      float64        `mapstructure:"score"`
	Resolution map[string]any `mapstructure:"resolution"`
}

// Recognize queries the hosted service. Every intent passing the score
// threshold is returned in service ranking order, each carrying all
// extracted entities.
func (n *NLUClient) Recognize(ctx context.Context, utterance string) ([]domain.Intent, error) {
	u := n.endpoint + "&q=" + url.QueryEscape(utterance)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build recognizer request: %w", err)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("recognizer request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recognizer returned status %d", resp.StatusCode)
	}

	var body nluResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode recognizer response: %w", err)
	}

	entities := make([]domain.Entity, 0, len(body.Entities))
	for _, raw := range body.Entities {
		var ent nluEntity
		if err := mapstructure.Decode(raw, &ent); err != nil {
			return nil, fmt.Errorf("failed to decode entity: %w", err)
		}
		entities = append(entities, domain.Entity{
			Type:       ent.Type,
			Value:      ent.Entity,
			Score:      ent.Score,
			Resolution: ent.Resolution,
		})
	}

	var intents []domain.Intent
	for _, it := range body.Intents {
		if it.Intent == "" || it.Score < n.threshold {
			continue
		}
		intents = append(intents, domain.Intent{
			Name:     it.Intent,
			Score:    it.Score,
			Entities: entities,
		})
	}
	return intents, nil
}

package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/furniflow/backend/internal/infrastructure/config"
)

const systemPrompt = `You match rows parsed from a supplier spreadsheet against a warehouse item catalogue.
You receive the spreadsheet rows and the catalogue items.
Return ONLY a JSON object (no markdown, no commentary) with this exact structure:
{
  "matches": [
    {
      "row_index": <zero-based index of the spreadsheet row>,
      "item_id": "<id of the matched catalogue item, or empty string if no match>",
      "confidence": <number between 0.0 and 1.0>
    }
  ]
}

Rules:
- Emit one entry per spreadsheet row.
- Match on article codes first, then on names. Account for unit and packaging differences.
- An empty item_id with confidence 0 means the catalogue does not carry the row's item.
- confidence: 0.9-1.0 certain, 0.7-0.89 probable, below 0.7 a guess.`

// SheetRow is one parsed spreadsheet row presented to the model
type SheetRow struct {
	Index int    `json:"index"`
	SKU   string `json:"sku,omitempty"`
	Name  string `json:"name"`
	Unit  string `json:"unit,omitempty"`
}

// CatalogItem is one warehouse item presented to the model
type CatalogItem struct {
	ID   string `json:"id"`
	SKU  string `json:"sku,omitempty"`
	Name string `json:"name"`
	Unit string `json:"unit,omitempty"`
}

// ProposedMatch is one model verdict for a spreadsheet row
type ProposedMatch struct {
	RowIndex   int     `json:"row_index"`
	ItemID     string  `json:"item_id"`
	Confidence float64 `json:"confidence"`
}

// Client calls an OpenAI-compatible chat completions endpoint to match
// spreadsheet rows against the warehouse catalogue.
type Client struct {
	cfg        config.AIConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a new Client
func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

// Enabled reports whether the client is configured to make calls
func (c *Client) Enabled() bool {
	return c.cfg.Enabled && c.cfg.APIKey != ""
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float32         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    any    `json:"code"`
	} `json:"error"`
}

type matchPayload struct {
	Matches []ProposedMatch `json:"matches"`
}

// ProposeMatches asks the model to match every spreadsheet row against
// the catalogue. Transient failures are retried up to MaxAttempts.
func (c *Client) ProposeMatches(ctx context.Context, rows []SheetRow, catalog []CatalogItem) ([]ProposedMatch, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ai client is not configured")
	}

	userPayload, err := json.Marshal(map[string]any{
		"rows":    rows,
		"catalog": catalog,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode matching input: %w", err)
	}

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		matches, err := c.complete(ctx, string(userPayload))
		if err == nil {
			return matches, nil
		}
		lastErr = err
		c.logger.Warn("ai matching attempt failed",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		if ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(time.Duration(attempt) * time.Second):
		}
	}
	return nil, lastErr
}

func (c *Client) complete(ctx context.Context, userContent string) ([]ProposedMatch, error) {
	reqBody := chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userContent},
		},
		Temperature:    0.1,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("chat completions request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read model response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("chat completions returned status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode model response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("model error: %s", parsed.Error.Message)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("model returned no choices")
	}

	content := stripCodeFence(parsed.Choices[0].Message.Content)

	var payload matchPayload
	if err := json.Unmarshal([]byte(content), &payload); err != nil {
		return nil, fmt.Errorf("model returned invalid JSON: %w", err)
	}
	return payload.Matches, nil
}

// stripCodeFence removes a wrapping ```json fence some models still emit
// despite JSON mode.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"nexus-market/internal/domain"
)

var (
	ErrAssistantUnavailable = errors.New("failed to connect to AI assistant")
	ErrEmptyQuery           = errors.New("query is empty")
)

const (
	systemInstruction = "You are 'NexusAssistant', a helpful AI shopping guide for NexusMarket. Recommend specific products from the list provided if they match. Be concise, friendly, and professional."
	temperature       = 0.7

	// FallbackAdvice is returned when the model answers with no text.
	FallbackAdvice = "I am sorry, I could not process that request."
)

type part struct {
	Text string `json:"text"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type generateRequest struct {
	SystemInstruction content          `json:"systemInstruction"`
	Contents          []content        `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	Temperature float64 `json:"temperature"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// AssistantClient asks a Gemini model for shopping advice over the catalog.
type AssistantClient struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewAssistantClient(baseURL, apiKey, model string, timeout time.Duration) *AssistantClient {
	return &AssistantClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ProductContext flattens the catalog into one line per product.
func ProductContext(products []domain.Product) string {
	lines := make([]string, 0, len(products))
	for _, p := range products {
		price := strconv.FormatFloat(p.Price, 'f', -1, 64)
		lines = append(lines, fmt.Sprintf("%s (%s, $%s): %s", p.Title, p.Category, price, p.Description))
	}
	return strings.Join(lines, "\n")
}

func (c *AssistantClient) Advise(ctx context.Context, query string, products []domain.Product) (string, error) {
	if strings.TrimSpace(query) == "" {
		return "", ErrEmptyQuery
	}

	body, err := json.Marshal(generateRequest{
		SystemInstruction: content{Parts: []part{{Text: systemInstruction}}},
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: fmt.Sprintf("User Question: %s\n\nContext of available items:\n%s", query, ProductContext(products))}},
		}},
		GenerationConfig: generationConfig{Temperature: temperature},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAssistantUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: assistant returned status %d", ErrAssistantUnavailable, resp.StatusCode)
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: %w", ErrAssistantUnavailable, err)
	}

	var sb strings.Builder
	for _, cand := range out.Candidates {
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
		if sb.Len() > 0 {
			break
		}
	}
	if sb.Len() == 0 {
		return FallbackAdvice, nil
	}
	return sb.String(), nil
}

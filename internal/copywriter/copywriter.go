// Package copywriter drafts marketing copy for a recipe through the Gemini
// generateContent endpoint. The response is treated as opaque text; pricing
// and the stores never depend on this package.
package copywriter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

const systemInstruction = "Você é um assistente especialista em marketing para confeitaria artesanal. " +
	"Use tom doce, acolhedor e muitos emojis. Responda em Português do Brasil."

// Kind selects what sort of copy to draft.
type Kind string

const (
	// KindCaption drafts an Instagram caption for the recipe.
	KindCaption Kind = "caption"
	// KindSalesTips drafts quick ideas to sell more of it today.
	KindSalesTips Kind = "sales"
	// KindGourmetNames drafts upscale alternative names.
	KindGourmetNames Kind = "names"
)

// Request carries the three inputs the generator receives from the core:
// the recipe name, the ingredient-name list and the already-formatted price.
type Request struct {
	Kind            Kind
	RecipeName      string
	IngredientNames []string
	FormattedPrice  string
}

// ── Wire types ───────────────────────────────────────────────────

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type payload struct {
	Contents          []content `json:"contents"`
	SystemInstruction content   `json:"systemInstruction"`
}

type apiResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// ── Client ───────────────────────────────────────────────────────

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(u string) ClientOption {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPTimeout sets the HTTP client timeout.
func WithHTTPTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.http.Timeout = d }
}

// Client talks to the Gemini generateContent endpoint.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

// NewClient creates a Gemini client for the given model.
func NewClient(apiKey, model string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Enabled reports whether the client has an API key to call with.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Generate sends the request and returns the drafted copy.
func (c *Client) Generate(ctx context.Context, req Request) (string, error) {
	body := payload{
		Contents:          []content{{Parts: []part{{Text: userPrompt(req)}}}},
		SystemInstruction: content{Parts: []part{{Text: systemInstruction}}},
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("copywriter: marshal payload: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("copywriter: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("copywriter: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("copywriter: read response: %w", err)
	}

	var result apiResponse
	if resp.StatusCode != http.StatusOK {
		if json.Unmarshal(respBody, &result) == nil && result.Error != nil && result.Error.Message != "" {
			return "", fmt.Errorf("copywriter: API %s: %s", resp.Status, result.Error.Message)
		}
		return "", fmt.Errorf("copywriter: API %s", resp.Status)
	}

	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("copywriter: unmarshal response: %w", err)
	}

	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("copywriter: empty response (no candidates)")
	}

	return result.Candidates[0].Content.Parts[0].Text, nil
}

func userPrompt(req Request) string {
	switch req.Kind {
	case KindSalesTips:
		return fmt.Sprintf("Me dê 3 ideias criativas e rápidas para vender mais %q ainda hoje.", req.RecipeName)
	case KindGourmetNames:
		return fmt.Sprintf("O nome atual é %q. Crie 5 nomes 'Gourmet' e sofisticados para valorizar esse doce.", req.RecipeName)
	default:
		return fmt.Sprintf(
			"Crie uma legenda curta e irresistível para Instagram vendendo %q. Ingredientes: %s. Preço: %s. Foque no sabor e na exclusividade.",
			req.RecipeName,
			strings.Join(req.IngredientNames, ", "),
			req.FormattedPrice,
		)
	}
}

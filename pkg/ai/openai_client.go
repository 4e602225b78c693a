package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"eaadss/pkg/assessment/types"
)

type openAI struct {
	endpoint string
	key      string
	model    string
	httpc    *http.Client
}

// NewOpenAI talks to any OpenAI compatible /v1/chat/completions endpoint.
func NewOpenAI(endpoint, key, model string) Client {
	return &openAI{endpoint: endpoint, key: key, model: model, httpc: &http.Client{Timeout: 25 * time.Second}}
}

func (c *openAI) Summarize(ctx context.Context, r *types.Report, kbCtx string) string {
	content, err := c.chat(ctx, renderSummaryPrompt(r, kbCtx))
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("[ai] summary failed, using fallback")
		return FallbackSummary(r)
	}
	return content
}

func (c *openAI) chat(ctx context.Context, prompt string) (string, error) {
	reqBody := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": "You are an extension agronomist for the Everglades Agricultural Area. Write concise, actionable Markdown for growers on organic (muck) soils."},
			{"role": "user", "content": prompt},
		},
		"temperature": 0.2,
	}
	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(c.endpoint, "/")+"/v1/chat/completions", bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	if c.key != "" {
		req.Header.Set("Authorization", "Bearer "+c.key)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("chat completions: status %d", resp.StatusCode)
	}

	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("chat completions: no choices")
	}
	content := strings.TrimSpace(out.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("chat completions: empty content")
	}
	return content, nil
}

func renderSummaryPrompt(r *types.Report, kbCtx string) string {
	practices := make([]string, 0, len(r.Practices))
	for _, p := range r.Practices {
		practices = append(practices, p.Title+": "+p.Detail)
	}
	return fmt.Sprintf(`Summarize this field's management protocol in at most 8 Markdown bullet lines.
- Tie advice to the soil diagnostics and the carbon figures.
- Use KB NOTES for context but do not copy long passages.
- Prefer concrete actions over general advice.

LOCATION: %s
SOIL: SOM %.1f%% (%s), pH %.1f (%s), depth %d cm (%s)
DIAGNOSIS: %s
CROP: %s on %d ha
CARBON: %.2f t CO2/yr credits, %.2f cars per ha, %.2f t CO2/yr released
PRACTICES:
%s

KB NOTES:
%s
`, r.Location,
		r.SOMPct, r.Diagnosis.OrganicMatter.Label, r.PH, r.Diagnosis.PH.Label, r.DepthCM, r.Diagnosis.Depth.Label,
		r.Diagnosis.Message, r.Crop, r.FarmSizeHa,
		r.CarbonCredits, r.CarsPerHa, r.CO2Released,
		strings.Join(practices, "\n"), kbCtx)
}

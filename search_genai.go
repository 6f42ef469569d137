package statement

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/genai"
)

// llmSearchModel is the default model behind NewLLMSearch.
const llmSearchModel = "gemini-2.5-flash"

// LLMSearch implements SecuritySearchProvider on a generative model. It is
// the fallback for statements carrying only a free-form instrument name
// that no structured search endpoint resolves.
type LLMSearch struct {
	ModelName string
	client    *genai.Client
}

// NewLLMSearch returns a provider using the ambient model credentials.
func NewLLMSearch(ctx context.Context) (*LLMSearch, error) {
	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("error initializing the model client: %w", err)
	}
	return &LLMSearch{ModelName: llmSearchModel, client: client}, nil
}

// Search asks the model to identify the instrument and returns its
// candidates, most plausible first.
func (p *LLMSearch) Search(ctx context.Context, query string) ([]SecurityCandidate, error) {
	config := &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"isin":     {Type: genai.TypeString, Description: "ISIN of the instrument, empty if unknown."},
					"ticker":   {Type: genai.TypeString, Description: "Ticker symbol, empty if unknown."},
					"name":     {Type: genai.TypeString, Description: "Official instrument name."},
					"currency": {Type: genai.TypeString, Description: "ISO 4217 quotation currency."},
				},
				Required: []string{"name", "currency"},
			},
		},
	}

	chat, err := p.client.Chats.Create(ctx, p.ModelName, config, nil)
	if err != nil {
		return nil, fmt.Errorf("error starting the search chat: %w", err)
	}

	prompt := fmt.Sprintf("Identify the financial instrument matching %q. Return its known candidates, most plausible first.", query)
	resp, err := chat.Send(ctx, &genai.Part{Text: prompt})
	if err != nil {
		return nil, fmt.Errorf("error searching %q: %w", query, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no response searching %q", query)
	}

	var results []struct {
		ISIN     string `json:"isin"`
		Ticker   string `json:"ticker"`
		Name     string `json:"name"`
		Currency string `json:"currency"`
	}
	text := resp.Candidates[0].Content.Parts[0].Text
	if err := json.Unmarshal([]byte(text), &results); err != nil {
		return nil, fmt.Errorf("unreadable search response for %q: %w", query, err)
	}

	var candidates []SecurityCandidate
	for _, r := range results {
		candidates = append(candidates, SecurityCandidate{
			ID:       SecurityID{ISIN: r.ISIN, Ticker: r.Ticker},
			Name:     r.Name,
			Currency: r.Currency,
		})
	}
	return candidates, nil
}

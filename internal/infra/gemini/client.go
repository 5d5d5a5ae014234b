package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"home-command/internal/application"
	"home-command/internal/domain"
	"home-command/internal/infra"
)

type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	model      string
}

func NewClient(apiKey, model string) *Client {
	return NewClientWithURL(apiKey, model, "https://generativelanguage.googleapis.com/v1beta")
}

func NewClientWithURL(apiKey, model, baseURL string) *Client {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &Client{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    baseURL,
		model:      model,
	}
}

type part struct {
	Text         string        `json:"text,omitempty"`
	FunctionCall *functionCall `json:"functionCall,omitempty"`
}

type functionCall struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
	Role  string `json:"role,omitempty"`
}

type functionDeclaration struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type toolsBlock struct {
	FunctionDeclarations []functionDeclaration `json:"functionDeclarations"`
}

type request struct {
	Contents       []content    `json:"contents"`
	SystemInstruct *content     `json:"systemInstruction,omitempty"`
	Tools          []toolsBlock `json:"tools,omitempty"`
}

type response struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error,omitempty"`
}

// Call sends the turn's prompt through Gemini's function-calling API.
func (c *Client) Call(ctx context.Context, systemPrompt string, history []domain.ChatMessage, userMessage string, tools []application.ToolSpec) (*application.FunctionResult, error) {
	contents := make([]content, 0, len(history)+1)
	for _, h := range history {
		role := h.Role
		if role == "assistant" {
			role = "model" // Gemini's name for the assistant role
		}
		if role != "user" && role != "model" {
			continue
		}
		contents = append(contents, content{Role: role, Parts: []part{{Text: h.Content}}})
	}
	contents = append(contents, content{Role: "user", Parts: []part{{Text: userMessage}}})

	reqBody := request{
		Contents:       contents,
		SystemInstruct: &content{Parts: []part{{Text: systemPrompt}}},
		Tools:          []toolsBlock{{FunctionDeclarations: translateTools(tools)}},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)

	var result response
	retryErr := infra.WithRetry(ctx, infra.DefaultRetryConfig(), func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			respBody, _ := io.ReadAll(resp.Body)
			if infra.IsRetryableHTTPStatus(resp.StatusCode) {
				return fmt.Errorf("gemini API error %d: %s (retryable)", resp.StatusCode, string(respBody))
			}
			return fmt.Errorf("gemini API error %d: %s", resp.StatusCode, string(respBody))
		}

		if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
		return nil
	})
	if retryErr != nil {
		return nil, retryErr
	}

	if result.Error != nil {
		return nil, fmt.Errorf("gemini error %d: %s", result.Error.Code, result.Error.Message)
	}
	if len(result.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from gemini")
	}

	var texts []string
	out := &application.FunctionResult{}
	for _, p := range result.Candidates[0].Content.Parts {
		if p.FunctionCall != nil {
			out.ToolCalls = append(out.ToolCalls, domain.ToolCall{
				Name:      p.FunctionCall.Name,
				Arguments: p.FunctionCall.Args,
			})
			continue
		}
		if t := strings.TrimSpace(p.Text); t != "" {
			texts = append(texts, t)
		}
	}
	out.Text = strings.Join(texts, "\n")

	return out, nil
}

func translateTools(specs []application.ToolSpec) []functionDeclaration {
	decls := make([]functionDeclaration, 0, len(specs))
	for _, s := range specs {
		decls = append(decls, functionDeclaration{
			Name:        s.Name,
			Description: s.Description,
			Parameters:  s.Schema,
		})
	}
	return decls
}

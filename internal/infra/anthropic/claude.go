package anthropic

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

const apiVersion = "2023-06-01"

type ClaudeClient struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	model      string
}

func NewClaudeClient(apiKey, model string) *ClaudeClient {
	return NewClaudeClientWithURL(apiKey, model, "https://api.anthropic.com/v1")
}

func NewClaudeClientWithURL(apiKey, model, baseURL string) *ClaudeClient {
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	return &ClaudeClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 60 * time.Second},
		baseURL:    baseURL,
		model:      model,
	}
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type tool struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	InputSchema map[string]any `json:"input_schema"`
}

type request struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system"`
	Messages  []message `json:"messages"`
	Tools     []tool    `json:"tools,omitempty"`
}

type contentBlock struct {
	Type  string          `json:"type"`
	Text  string          `json:"text,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`
}

type response struct {
	Content    []contentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
}

// Call sends the turn's prompt and tool schema to the Messages API and
// translates tool_use content blocks into tool calls.
func (c *ClaudeClient) Call(ctx context.Context, systemPrompt string, history []domain.ChatMessage, userMessage string, tools []application.ToolSpec) (*application.FunctionResult, error) {
	messages := make([]message, 0, len(history)+1)
	for _, h := range history {
		if h.Role != "user" && h.Role != "assistant" {
			continue
		}
		messages = append(messages, message{Role: h.Role, Content: h.Content})
	}
	messages = append(messages, message{Role: "user", Content: userMessage})

	reqBody := request{
		Model:     c.model,
		MaxTokens: 1024,
		System:    systemPrompt,
		Messages:  messages,
		Tools:     translateTools(tools),
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	var result response
	retryErr := infra.WithRetry(ctx, infra.DefaultRetryConfig(), func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(bodyBytes))
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("x-api-key", c.apiKey)
		req.Header.Set("anthropic-version", apiVersion)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("sending request: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			respBody, _ := io.ReadAll(resp.Body)
			if infra.IsRetryableHTTPStatus(resp.StatusCode) {
				return fmt.Errorf("claude API error %d: %s (retryable)", resp.StatusCode, string(respBody))
			}
			return fmt.Errorf("claude API error %d: %s", resp.StatusCode, string(respBody))
		}

		if err = json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}

		return nil
	})
	if retryErr != nil {
		return nil, retryErr
	}

	var texts []string
	out := &application.FunctionResult{}
	for _, block := range result.Content {
		switch block.Type {
		case "text":
			texts = append(texts, strings.TrimSpace(block.Text))
		case "tool_use":
			out.ToolCalls = append(out.ToolCalls, domain.ToolCall{
				Name:      block.Name,
				Arguments: block.Input,
			})
		}
	}
	out.Text = strings.Join(texts, "\n")

	return out, nil
}

func translateTools(specs []application.ToolSpec) []tool {
	tools := make([]tool, 0, len(specs))
	for _, s := range specs {
		tools = append(tools, tool{
			Name:        s.Name,
			Description: s.Description,
			InputSchema: s.Schema,
		})
	}
	return tools
}

package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/AlexLin625/cyber-tarot/internal/domain"
	"github.com/AlexLin625/cyber-tarot/internal/ports"
)

// Client implements ports.ChatClient against the forwarding relay: one fixed
// endpoint taking {"messages": [...]} and answering in the OpenAI chat
// completion shape. The relay picks the model; the client sends nothing but
// the message list.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	logger     *slog.Logger
}

// NewClient builds a relay client. apiKey may be empty; the public relay
// worker does not require one.
func NewClient(httpClient *http.Client, endpoint, apiKey string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		endpoint:   strings.TrimRight(endpoint, "/"),
		apiKey:     apiKey,
		logger:     logger,
	}
}

type chatRequest struct {
	Messages []ports.Message `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (c *Client) Complete(ctx context.Context, messages []ports.Message) (string, error) {
	content, err := c.call(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrRelayCall, err)
	}
	return content, nil
}

func (c *Client) call(ctx context.Context, messages []ports.Message) (string, error) {
	start := time.Now()
	defer func() {
		c.logger.DebugContext(ctx, "relay call",
			"messages", len(messages),
			"latency_ms", time.Since(start).Milliseconds(),
		)
	}()

	body, err := json.Marshal(chatRequest{Messages: messages})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("relay status %d: %s", resp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return chatResp.Choices[0].Message.Content, nil
}

package services

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrLLMUnavailable is returned before any output was produced.
var ErrLLMUnavailable = errors.New("llm unavailable")

const anthropicVersion = "2023-06-01"

type LLMMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type LLMRequest struct {
	System   string
	Messages []LLMMessage
}

// LLMStreamer starts a completion. Errors before the first byte are returned directly;
// later failures arrive on the error channel after the text channel closes.
type LLMStreamer interface {
	Stream(ctx context.Context, req LLMRequest) (<-chan string, <-chan error, error)
}

// AnthropicClient talks to the Messages API with server-sent events.
type AnthropicClient struct {
	apiKey     string
	baseURL    string
	model      string
	maxTokens  int
	timeout    time.Duration
	httpClient *http.Client
	log        *zap.Logger
}

func NewAnthropicClient(apiKey, baseURL, model string, maxTokens int, timeout time.Duration, log *zap.Logger) *AnthropicClient {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &AnthropicClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		maxTokens:  maxTokens,
		timeout:    timeout,
		httpClient: &http.Client{},
		log:        log,
	}
}

type anthropicRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system,omitempty"`
	Messages  []LLMMessage `json:"messages"`
	Stream    bool         `json:"stream"`
}

type anthropicEvent struct {
	Type  string `json:"type"`
	Delta *struct {
		Type string `json:"type"`
		Text string `json:"text,omitempty"`
	} `json:"delta,omitempty"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *AnthropicClient) Stream(ctx context.Context, in LLMRequest) (<-chan string, <-chan error, error) {
	if c.apiKey == "" {
		return nil, nil, fmt.Errorf("%w: api key not configured", ErrLLMUnavailable)
	}

	body, err := json.Marshal(anthropicRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    in.System,
		Messages:  in.Messages,
		Stream:    true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		cancel()
		return nil, nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("%w: %v", ErrLLMUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		resp.Body.Close()
		cancel()
		c.log.Warn("llm request rejected", zap.Int("status", resp.StatusCode), zap.String("body", string(msg)))
		return nil, nil, fmt.Errorf("%w: upstream returned %d", ErrLLMUnavailable, resp.StatusCode)
	}

	textCh := make(chan string, 64)
	errCh := make(chan error, 1)

	go func() {
		defer cancel()
		defer resp.Body.Close()
		defer close(errCh)
		defer close(textCh)

		start := time.Now()
		if err := c.relay(ctx, resp.Body, textCh); err != nil {
			c.log.Warn("llm stream failed", zap.Duration("elapsed", time.Since(start)), zap.Error(err))
			errCh <- err
			return
		}
		c.log.Debug("llm stream completed", zap.Duration("elapsed", time.Since(start)))
	}()

	return textCh, errCh, nil
}

// relay forwards content_block_delta text from an SSE body until message_stop or EOF.
func (c *AnthropicClient) relay(ctx context.Context, body io.Reader, out chan<- string) error {
	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "" {
			continue
		}

		var evt anthropicEvent
		if err := json.Unmarshal([]byte(data), &evt); err != nil {
			continue
		}
		if evt.Error != nil {
			return fmt.Errorf("upstream error: %s", evt.Error.Message)
		}
		switch evt.Type {
		case "content_block_delta":
			if evt.Delta == nil || evt.Delta.Text == "" {
				continue
			}
			select {
			case out <- evt.Delta.Text:
			case <-ctx.Done():
				return ctx.Err()
			}
		case "message_stop":
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return ctx.Err()
}

// Package llm calls OpenAI-compatible chat completion APIs, trying each
// configured provider in order until one answers.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/municipal-backend/internal/config"
)

var ErrNoProvider = errors.New("no LLM provider configured")

type Provider struct {
	Name   string
	URL    string
	APIKey string
	Model  string
}

type Completion struct {
	Text     string
	Model    string
	Provider string
}

type Client struct {
	providers   []Provider
	http        *http.Client
	maxTokens   int
	temperature float64
}

// New keeps only the providers that have an API key.
func New(timeout time.Duration, providers ...Provider) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	c := &Client{
		http:        &http.Client{Timeout: timeout},
		maxTokens:   500,
		temperature: 0.7,
	}
	for _, p := range providers {
		if p.APIKey != "" {
			c.providers = append(c.providers, p)
		}
	}
	return c
}

// FromConfig builds the OpenAI -> DeepSeek -> GLM chain.
func FromConfig(cfg *config.Config) *Client {
	return New(cfg.AITimeout,
		Provider{Name: "openai", URL: cfg.OpenAIAPIURL, APIKey: cfg.OpenAIAPIKey, Model: cfg.OpenAIModel},
		Provider{Name: "deepseek", URL: cfg.DeepSeekAPIURL, APIKey: cfg.DeepSeekAPIKey, Model: cfg.DeepSeekModel},
		Provider{Name: "glm", URL: cfg.GLMAPIURL, APIKey: cfg.GLMAPIKey, Model: cfg.GLMModel},
	)
}

// Configured reports whether at least one provider can be called.
func (c *Client) Configured() bool {
	return len(c.providers) > 0
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Complete returns the first successful completion of the chain.
func (c *Client) Complete(ctx context.Context, system, user string) (*Completion, error) {
	if !c.Configured() {
		return nil, ErrNoProvider
	}

	var errs []error
	for _, p := range c.providers {
		text, err := c.call(ctx, p, system, user)
		if err == nil {
			return &Completion{Text: text, Model: p.Model, Provider: p.Name}, nil
		}
		slog.Warn("LLM provider failed", "provider", p.Name, "error", err)
		errs = append(errs, fmt.Errorf("%s: %w", p.Name, err))
		if ctx.Err() != nil {
			break
		}
	}
	return nil, fmt.Errorf("all LLM providers failed: %w", errors.Join(errs...))
}

func (c *Client) call(ctx context.Context, p Provider, system, user string) (string, error) {
	reqBody, err := json.Marshal(chatRequest{
		Model: p.Model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(reqBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}
	if len(out.Choices) == 0 {
		return "", errors.New("empty response from API")
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("empty completion")
	}
	return text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

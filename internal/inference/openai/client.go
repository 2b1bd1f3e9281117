package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/backlog-cli/bckl/internal/inference"
)

type Client struct {
	httpClient   *resty.Client
	model        string
	systemPrompt string
	cache        *inference.Cache
	retryConfig  inference.RetryConfig
}

// NewClient builds a chat completions client. The cache is owned by the
// caller and shared across calls for the lifetime of the process.
func NewClient(apiKey, model, systemPrompt string, cache *inference.Cache, retryConfig inference.RetryConfig) *Client {
	client := resty.New()
	client.SetBaseURL("https://api.openai.com/v1")
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient:   client,
		model:        model,
		systemPrompt: systemPrompt,
		cache:        cache,
		retryConfig:  retryConfig,
	}
}

func (client Client) Close() error {
	return client.httpClient.Close()
}

// GetModel returns the model name configured for this client
func (client Client) GetModel() string {
	return client.model
}

type ChatCompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	Temperature float32   `json:"temperature,omitempty"`
}

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Object  string   `json:"object"`
	Created int64    `json:"created"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

type Choice struct {
	Index        int           `json:"index"`
	Message      ChoiceMessage `json:"message"`
	FinishReason string        `json:"finish_reason"`
}

type ChoiceMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ExtractEntry implements the inference.Client interface. It turns one
// normalized dictation line into a validated backlog entry, reusing a cached
// result when the same line was already extracted with the same model.
func (client *Client) ExtractEntry(
	ctx context.Context,
	params inference.ExtractEntryRequest,
) (inference.BacklogEntry, error) {
	normalized := inference.NormalizeDictation(params.Dictation)
	if normalized == "" {
		return inference.BacklogEntry{}, inference.ErrEmptyInput
	}

	model := client.resolveModel(params.Model)
	if entry, ok := client.cache.Get(model, normalized); ok {
		slog.Default().Debug("reusing cached extraction",
			"model", model,
			"prompt", normalized)
		return entry, nil
	}

	entry, err := client.completeEntry(ctx, model, normalized)
	if err != nil {
		return inference.BacklogEntry{}, fmt.Errorf("completeEntry > %w", err)
	}

	client.cache.Put(model, normalized, entry)
	return entry, nil
}

// ReviseEntry implements the inference.Client interface. It asks the backend
// for a complete replacement of the entry per the instruction; the caller
// keeps its current entry when an error is returned.
func (client *Client) ReviseEntry(
	ctx context.Context,
	params inference.ReviseEntryRequest,
) (inference.BacklogEntry, error) {
	instruction := strings.TrimSpace(params.Instruction)
	if instruction == "" {
		return inference.BacklogEntry{}, inference.ErrEmptyInput
	}

	userContent, err := buildRevisionContent(params.Entry, instruction)
	if err != nil {
		return inference.BacklogEntry{}, fmt.Errorf("buildRevisionContent > %w", err)
	}

	entry, err := client.completeEntry(ctx, client.resolveModel(params.Model), userContent)
	if err != nil {
		return inference.BacklogEntry{}, fmt.Errorf("completeEntry > %w", err)
	}
	return entry, nil
}

func (client *Client) resolveModel(override string) string {
	if override != "" {
		return override
	}
	return client.model
}

func buildRevisionContent(entry inference.BacklogEntry, instruction string) (string, error) {
	entryJSON, err := json.Marshal(entry)
	if err != nil {
		return "", fmt.Errorf("json.Marshal > %w", err)
	}

	return fmt.Sprintf(`Revise this backlog entry according to the instruction below.
Keep every field the instruction does not mention. Respond with ONLY the complete updated JSON object in the same schema.

Current entry:
%s

Instruction: %s`, entryJSON, instruction), nil
}

// chatCompletion performs the transport leg of one completion: it posts the
// request and retries transport failures with exponential back-off. Parsing
// of the returned content is the caller's concern.
func (client *Client) chatCompletion(ctx context.Context, model, userContent string) (string, error) {
	var content string
	if err := retry.Do(
		func() error {
			response, err := client.postChatCompletion(ctx, model, userContent)
			if err != nil {
				if !isRetryableError(err) {
					return retry.Unrecoverable(err)
				}
				return err
			}
			content = response
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(uint(client.retryConfig.MaxRetries)+1),
		retry.Delay(client.retryConfig.InitialBackoff),
		retry.MaxDelay(client.retryConfig.MaxBackoff),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	); err != nil {
		return "", err
	}
	return content, nil
}

func (client *Client) postChatCompletion(ctx context.Context, model, userContent string) (string, error) {
	requestBody := ChatCompletionRequest{
		Model:       model,
		Temperature: 0.3,
		Messages: []Message{
			{Role: RoleSystem, Content: client.systemPrompt},
			{Role: RoleUser, Content: userContent},
		},
	}

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetBody(requestBody).
		SetResult(&ChatCompletionResponse{}).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("httpClient.Post > %w", err)
	}
	if response.IsError() {
		return "", fmt.Errorf("response error %d: %s", response.StatusCode(), response.String())
	}

	responseBody := response.Result().(*ChatCompletionResponse)
	if responseBody == nil || len(responseBody.Choices) == 0 {
		return "", fmt.Errorf("empty response body or choices: %s", response.String())
	}

	slog.Default().Debug("openai response content",
		"request", requestBody,
		"response", responseBody,
	)

	// An empty content string is not an error here: the parse loop treats it
	// as a reply without JSON and retries immediately.
	return responseBody.Choices[0].Message.Content, nil
}

package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/shopmind/backend/internal/domain"
)

// DefaultBaseURL targets Gemini's OpenAI-compatible endpoint; any provider
// speaking the same protocol works by overriding the base URL.
const DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta/openai/"

// historyWindow caps how many recent turns are handed to the model
const historyWindow = 10

const understandingSystemPrompt = `You are a shopping assistant for an online beauty store.
Given the user's message and the recent conversation, respond with ONLY a JSON object:
{"ai_understanding": "one sentence restating what the user wants",
 "advice": "friendly, concrete guidance for the user",
 "search_keywords": "short space-separated product search terms, or an empty string if the user is not looking for a product"}
Do not wrap the JSON in markdown or add any other text.`

const suggestQuestionPrompt = `Generate a single, concise question (15-30 words) to display as a premade question for a beauty chatbot. The question should encourage users to explore skincare, makeup, product recommendations, beauty advice, or order tracking. Avoid suggesting specific products unless requesting recommendations.
Return the response in JSON format: {"question": "..."}`

// Config holds configuration for the understanding client
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	MaxTokens   int
	Timeout     time.Duration
}

// Client implements domain.Understander over any OpenAI-compatible chat API
type Client struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewClient creates a new understanding client
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	clientConfig.BaseURL = baseURL
	clientConfig.HTTPClient = &http.Client{Timeout: timeout}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}

	temperature := cfg.Temperature
	if temperature <= 0 {
		temperature = 0.7
	}

	return &Client{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		temperature: temperature,
		maxTokens:   maxTokens,
	}
}

// Understand interprets one user query in the context of the recent history
// and returns the structured understanding payload.
func (c *Client) Understand(ctx context.Context, query string, history []domain.ChatTurn) (*domain.Understanding, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: understandingSystemPrompt},
	}
	messages = append(messages, convertHistory(history)...)
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: query,
	})

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		Messages:    messages,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnderstandingFailed, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", domain.ErrUnderstandingFailed)
	}

	understanding, err := parseUnderstanding(resp.Choices[0].Message.Content)
	if err != nil {
		log.Printf("[LLM] Unparseable understanding payload: %v", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrUnderstandingFailed, err)
	}

	return understanding, nil
}

// SuggestQuestion generates one premade question for an idle chat window
func (c *Client) SuggestQuestion(ctx context.Context) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		MaxTokens:   50,
		Temperature: 0.9,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: suggestQuestionPrompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnderstandingFailed, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: empty completion", domain.ErrUnderstandingFailed)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)

	var parsed struct {
		Question string `json:"question"`
	}
	if err := json.Unmarshal([]byte(extractJSON(content)), &parsed); err == nil && parsed.Question != "" {
		return parsed.Question, nil
	}
	// Some models ignore the JSON instruction and answer with the bare question
	return content, nil
}

// convertHistory maps the rolling chat history to completion messages:
// bot/model turns become assistant messages, empty turns are dropped, and
// only the most recent window is kept.
func convertHistory(history []domain.ChatTurn) []openai.ChatCompletionMessage {
	if len(history) > historyWindow {
		history = history[len(history)-historyWindow:]
	}

	messages := make([]openai.ChatCompletionMessage, 0, len(history))
	for _, turn := range history {
		text := strings.TrimSpace(turn.Text)
		if text == "" {
			continue
		}

		role := openai.ChatMessageRoleUser
		if turn.Role == "bot" || turn.Role == "model" {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: text})
	}
	return messages
}

// parseUnderstanding decodes the model's JSON payload, tolerating markdown
// fences and surrounding prose
func parseUnderstanding(content string) (*domain.Understanding, error) {
	var u domain.Understanding
	if err := json.Unmarshal([]byte(extractJSON(content)), &u); err != nil {
		return nil, fmt.Errorf("invalid understanding JSON: %v", err)
	}
	if u.AIUnderstanding == "" && u.Advice == "" {
		return nil, fmt.Errorf("understanding JSON carried no content")
	}
	return &u, nil
}

// extractJSON returns the outermost JSON object embedded in the content,
// stripping code fences and any text the model wrapped around it
func extractJSON(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		return content[start : end+1]
	}
	return content
}

package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
	"toolrank/internal/apperrors"
)

// LLMService calls an OpenAI-compatible chat completions endpoint to
// draft taglines and summaries for submissions that arrive without one.
type LLMService struct {
	BaseURL string
	Token   string
	Model   string
	client  *http.Client
}

var llmService *LLMService

func GetLLMService() *LLMService {
	if llmService == nil {
		llmService = &LLMService{
			BaseURL: os.Getenv("LLM_BASE_URL"),
			Token:   os.Getenv("LLM_TOKEN"),
			Model:   os.Getenv("LLM_MODEL"),
			client:  &http.Client{Timeout: 30 * time.Second},
		}
	}
	return llmService
}

func (s *LLMService) Enabled() bool {
	return s.BaseURL != "" && s.Token != ""
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateTagline produces a one-line pitch for a tool from its name and
// description.
func (s *LLMService) GenerateTagline(name, description string) (string, error) {
	prompt := fmt.Sprintf(
		"Write a single-sentence tagline (max 120 characters, no quotes) for a software tool called %q. Description: %s",
		name, description)
	return s.complete(prompt)
}

func (s *LLMService) complete(prompt string) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("llm: %w: service not configured", apperrors.ErrUpstream)
	}

	reqBody := ChatRequest{
		Model: s.Model,
		Messages: []ChatMessage{
			{Role: "user", Content: prompt},
		},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", strings.TrimRight(s.BaseURL, "/")+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.Token)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("llm: %w: %v", apperrors.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("llm: %w: status %d", apperrors.ErrUpstream, resp.StatusCode)
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("llm: %w: %v", apperrors.ErrUpstream, err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("llm: %w: empty response", apperrors.ErrUpstream)
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

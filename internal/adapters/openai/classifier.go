package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/mikey/email-categorizer/internal/core"
	"github.com/mikey/email-categorizer/internal/utils"
)

// Classifier is an implementation of the core.Classifier interface using
// the OpenAI chat completion API
type Classifier struct {
	client        *openai.Client
	modelName     string
	maxTokens     int
	temperature   float32
	topP          float32
	maxBodySize   int
	logger        *zap.Logger
	textProcessor *utils.TextProcessor
	promptFormat  string
}

// categoryResponse is the constrained JSON response requested from the model
type categoryResponse struct {
	Category   string  `json:"category"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

// NewClassifier creates a new OpenAI classifier
func NewClassifier(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *Classifier {
	return &Classifier{
		client:        openai.NewClient(apiKey),
		modelName:     modelName,
		maxTokens:     maxTokens,
		temperature:   temperature,
		topP:          topP,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
		promptFormat: `Categorize the following email into exactly one of four categories: DELETE, JOB, READ, or IMPORTANT.

Classification rules, checked in order:
1. JOB: job openings and alerts (LinkedIn, Glassdoor, Indeed, ZipRecruiter), recruiter outreach, interview scheduling, application status updates.
2. IMPORTANT: OTPs and verification codes (never delete these), personal emails from real people, subjects containing "urgent", "action required" or "due", bills, invoices or payments that are due, meeting invitations, calendar updates, travel tickets.
3. DELETE: promotional emails from brands (sale, discount, offers), spam or junk, surveys and feedback requests, generic stock or crypto promotions.
4. READ: everything else - transaction notifications, automated app notifications that are not OTPs, standard newsletters, delivery updates. If unsure, default to READ.

Respond with a JSON object containing:
- category: string, exactly one of "DELETE", "JOB", "READ", "IMPORTANT"
- confidence: number between 0 and 1
- reasoning: string (short explanation of which rule matched)

Email:
Subject: %s
Body:
%s

Respond only with the JSON object and nothing else.`,
	}
}

// Name identifies the strategy
func (c *Classifier) Name() string {
	return "openai"
}

// Classify asks the chat completion API to categorize the email and
// validates the returned label against the closed enumeration
func (c *Classifier) Classify(ctx context.Context, email *core.NormalizedEmail) (*core.CategoryResult, error) {
	body := c.textProcessor.ProcessText(email.Body, c.maxBodySize)
	prompt := fmt.Sprintf(c.promptFormat, email.Subject, body)

	req := openai.ChatCompletionRequest{
		Model: c.modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an email triage assistant. Respond only with JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
		TopP:        c.topP,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat completion with OpenAI: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty response from OpenAI")
	}

	responseText := resp.Choices[0].Message.Content

	var parsed categoryResponse
	if err := json.Unmarshal([]byte(responseText), &parsed); err != nil {
		jsonStr, ok := utils.ExtractJSONObject(responseText)
		if !ok {
			return nil, fmt.Errorf("no JSON object in LLM response")
		}
		if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
			return nil, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
		}
	}

	category, ok := core.ParseCategory(parsed.Category)
	if !ok {
		return nil, fmt.Errorf("openai returned label outside the enumeration: %q", parsed.Category)
	}

	return &core.CategoryResult{
		Category:      category,
		Confidence:    parsed.Confidence,
		Reasoning:     parsed.Reasoning,
		ModelUsed:     c.modelName,
		CategorizedAt: time.Now(),
	}, nil
}

package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"

	"github.com/mikey/email-categorizer/internal/core"
	"github.com/mikey/email-categorizer/internal/utils"
)

// Classifier is an implementation of the core.Classifier interface using
// Google Gemini
type Classifier struct {
	client        *genai.Client
	model         *genai.GenerativeModel
	modelName     string
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

// NewClassifier creates a new Gemini classifier
func NewClassifier(
	apiKey string,
	modelName string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) (*Classifier, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.SetTemperature(temperature)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))
	model.ResponseMIMEType = "application/json"

	return &Classifier{
		client:        client,
		model:         model,
		modelName:     modelName,
		maxBodySize:   maxBodySize,
		logger:        logger,
		textProcessor: textProcessor,
		promptFormat:  categorizationPrompt,
	}, nil
}

// Close closes the Gemini client
func (c *Classifier) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Name identifies the strategy
func (c *Classifier) Name() string {
	return "gemini"
}

// Classify asks Gemini to categorize the email and validates the returned
// label against the closed enumeration
func (c *Classifier) Classify(ctx context.Context, email *core.NormalizedEmail) (*core.CategoryResult, error) {
	body := c.textProcessor.ProcessText(email.Body, c.maxBodySize)
	prompt := fmt.Sprintf(c.promptFormat, email.Subject, body)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content with Gemini: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("empty response from Gemini")
	}

	responseText := fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0])

	parsed, err := parseCategoryResponse(responseText)
	if err != nil {
		return nil, err
	}

	category, ok := core.ParseCategory(parsed.Category)
	if !ok {
		return nil, fmt.Errorf("gemini returned label outside the enumeration: %q", parsed.Category)
	}

	return &core.CategoryResult{
		Category:      category,
		Confidence:    parsed.Confidence,
		Reasoning:     parsed.Reasoning,
		ModelUsed:     c.modelName,
		CategorizedAt: time.Now(),
	}, nil
}

// parseCategoryResponse decodes the model's JSON reply, tolerating prose or
// markdown fencing around the object
func parseCategoryResponse(text string) (*categoryResponse, error) {
	var parsed categoryResponse
	if err := json.Unmarshal([]byte(text), &parsed); err == nil {
		return &parsed, nil
	}

	jsonStr, ok := utils.ExtractJSONObject(text)
	if !ok {
		return nil, fmt.Errorf("no JSON object in LLM response")
	}
	if err := json.Unmarshal([]byte(jsonStr), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse LLM response as JSON: %w", err)
	}

	return &parsed, nil
}

package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"

	"github.com/mikey/email-categorizer/internal/core"
	"github.com/mikey/email-categorizer/internal/utils"
)

// Classifier is an implementation of the core.Classifier interface using
// Amazon Bedrock
type Classifier struct {
	client        *bedrockruntime.Client
	modelID       string
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

// NewClassifier creates a new Bedrock classifier
func NewClassifier(
	client *bedrockruntime.Client,
	modelID string,
	maxTokens int,
	temperature float32,
	topP float32,
	maxBodySize int,
	logger *zap.Logger,
	textProcessor *utils.TextProcessor,
) *Classifier {
	return &Classifier{
		client:        client,
		modelID:       modelID,
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
	return "bedrock"
}

// Classify invokes the configured Bedrock model and validates the returned
// label against the closed enumeration
func (c *Classifier) Classify(ctx context.Context, email *core.NormalizedEmail) (*core.CategoryResult, error) {
	body := c.textProcessor.ProcessText(email.Body, c.maxBodySize)
	prompt := fmt.Sprintf(c.promptFormat, email.Subject, body)

	payload, err := c.buildPayload(prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.modelID,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	responseText, err := c.extractResponseText(resp.Body)
	if err != nil {
		return nil, err
	}

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
		return nil, fmt.Errorf("bedrock returned label outside the enumeration: %q", parsed.Category)
	}

	return &core.CategoryResult{
		Category:      category,
		Confidence:    parsed.Confidence,
		Reasoning:     parsed.Reasoning,
		ModelUsed:     c.modelID,
		CategorizedAt: time.Now(),
	}, nil
}

// buildPayload shapes the request body for the model family in use
func (c *Classifier) buildPayload(prompt string) ([]byte, error) {
	switch {
	case c.isAnthropicModel():
		return json.Marshal(map[string]interface{}{
			"prompt":               prompt,
			"max_tokens_to_sample": c.maxTokens,
			"temperature":          c.temperature,
			"top_p":                c.topP,
		})
	case c.isAmazonTitanModel():
		return json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": c.maxTokens,
				"temperature":   c.temperature,
				"topP":          c.topP,
			},
		})
	default:
		return json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  c.maxTokens,
			"temperature": c.temperature,
			"top_p":       c.topP,
		})
	}
}

// extractResponseText pulls the generated text out of the model-family
// specific response envelope
func (c *Classifier) extractResponseText(respBody []byte) (string, error) {
	if c.isAnthropicModel() {
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(respBody, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		return claudeResp.Completion, nil
	}

	if c.isAmazonTitanModel() {
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(respBody, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", fmt.Errorf("empty response from Titan model")
		}
		return titanResp.Results[0].OutputText, nil
	}

	var genericResp struct {
		Output   string `json:"output"`
		Text     string `json:"text"`
		Response string `json:"response"`
	}
	if err := json.Unmarshal(respBody, &genericResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
	}
	switch {
	case genericResp.Output != "":
		return genericResp.Output, nil
	case genericResp.Text != "":
		return genericResp.Text, nil
	case genericResp.Response != "":
		return genericResp.Response, nil
	}
	return string(respBody), nil
}

func (c *Classifier) isAnthropicModel() bool {
	return strings.HasPrefix(c.modelID, "anthropic.claude")
}

func (c *Classifier) isAmazonTitanModel() bool {
	return strings.HasPrefix(c.modelID, "amazon.titan")
}

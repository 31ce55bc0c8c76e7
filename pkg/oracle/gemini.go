package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Verdict is the structured judgment returned by the vision model. It is
// reported back to the caller exactly as received, independent of what the
// settlement step does with it.
type Verdict struct {
	Verified        bool   `json:"verified"`
	ConfidenceScore int    `json:"confidence_score"`
	Reasoning       string `json:"reasoning"`

	Raw json.RawMessage `json:"-"`
}

const verificationPromptTemplate = `You are an expert civil engineer and strict auditor. Your job is to verify construction milestones from video footage. You must be skeptical.

Milestone Description: %s

Task: Analyze the video frames. Does the visual evidence CONCLUSIVELY prove this milestone is complete?

Return ONLY a JSON object:
{
"verified": boolean,
"confidence_score": integer (0-100),
"reasoning": "string (max 1 sentence explaining why)"
}`

const generationPromptTemplate = `You are a construction project manager. Generate 4-6 specific, measurable milestones for this project:

Project: %s
Budget: $%.2f

Return ONLY a JSON array of milestone descriptions:
["milestone 1", "milestone 2", "milestone 3"]

Each milestone should be:
- Specific and measurable
- Verifiable through video evidence
- Logical construction sequence`

// Client wraps the Gemini generative vision model
type Client struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewClient creates a new Gemini client
func NewClient(ctx context.Context, apiKey, modelName string) (*Client, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"

	return &Client{client: client, model: model}, nil
}

// VerifyEvidence judges the referenced video against the milestone criteria
// and returns the model's structured verdict.
func (c *Client) VerifyEvidence(ctx context.Context, videoURL, criteria string) (*Verdict, error) {
	prompt := fmt.Sprintf(verificationPromptTemplate, criteria)

	resp, err := c.model.GenerateContent(ctx,
		genai.Text(prompt),
		genai.FileData{MIMEType: "video/mp4", URI: videoURL},
	)
	if err != nil {
		return nil, fmt.Errorf("gemini call failed: %w", err)
	}

	text, err := firstText(resp)
	if err != nil {
		return nil, err
	}

	raw := stripFences(text)
	var verdict Verdict
	if err := json.Unmarshal([]byte(raw), &verdict); err != nil {
		return nil, fmt.Errorf("failed to parse verdict: %w", err)
	}
	verdict.Raw = json.RawMessage(raw)

	return &verdict, nil
}

// GenerateMilestones produces milestone descriptions for a project
// description and budget. Satisfies projects.MilestoneGenerator.
func (c *Client) GenerateMilestones(ctx context.Context, description string, budgetCents int64) ([]string, error) {
	prompt := fmt.Sprintf(generationPromptTemplate, description, float64(budgetCents)/100)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini call failed: %w", err)
	}

	text, err := firstText(resp)
	if err != nil {
		return nil, err
	}

	var milestones []string
	if err := json.Unmarshal([]byte(stripFences(text)), &milestones); err != nil {
		return nil, fmt.Errorf("failed to parse milestone list: %w", err)
	}

	return milestones, nil
}

// Close releases the underlying connection
func (c *Client) Close() error {
	return c.client.Close()
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				return string(text), nil
			}
		}
	}
	return "", errors.New("gemini response contained no text")
}

// stripFences removes a markdown code fence the model sometimes wraps JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}

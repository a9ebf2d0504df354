package api

import (
	"github.com/quocvuong92/gemini-chat/internal/conversation"
)

// Part is a single piece of content. Only text parts are used.
type Part struct {
	Text string `json:"text"`
}

// Content is one role-tagged message in the request or response
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// SafetySetting overrides the blocking threshold for one harm category
type SafetySetting struct {
	Category  string `json:"category"`
	Threshold string `json:"threshold"`
}

// Harm categories the safety override covers
const (
	HarmCategoryHarassment       = "HARM_CATEGORY_HARASSMENT"
	HarmCategoryHateSpeech       = "HARM_CATEGORY_HATE_SPEECH"
	HarmCategoryDangerousContent = "HARM_CATEGORY_DANGEROUS_CONTENT"
	HarmCategorySexuallyExplicit = "HARM_CATEGORY_SEXUALLY_EXPLICIT"

	ThresholdBlockNone = "BLOCK_NONE"
)

// GenerateContentRequest is the generateContent request body
type GenerateContentRequest struct {
	Contents       []Content       `json:"contents"`
	SafetySettings []SafetySetting `json:"safetySettings,omitempty"`
}

// NewRequest builds a request from the full conversation history. With
// disableSafety set, every category is overridden to BLOCK_NONE.
func NewRequest(turns []conversation.Turn, disableSafety bool) *GenerateContentRequest {
	req := &GenerateContentRequest{
		Contents: make([]Content, 0, len(turns)),
	}
	for _, t := range turns {
		req.Contents = append(req.Contents, Content{
			Role:  string(t.Role()),
			Parts: []Part{{Text: t.Text()}},
		})
	}
	if disableSafety {
		req.SafetySettings = BlockNoneSafetySettings()
	}
	return req
}

// BlockNoneSafetySettings returns the four category overrides used when
// safety filtering is disabled
func BlockNoneSafetySettings() []SafetySetting {
	return []SafetySetting{
		{Category: HarmCategoryHarassment, Threshold: ThresholdBlockNone},
		{Category: HarmCategoryHateSpeech, Threshold: ThresholdBlockNone},
		{Category: HarmCategoryDangerousContent, Threshold: ThresholdBlockNone},
		{Category: HarmCategorySexuallyExplicit, Threshold: ThresholdBlockNone},
	}
}

// Candidate is one generated answer
type Candidate struct {
	Content      *Content `json:"content,omitempty"`
	FinishReason string   `json:"finishReason,omitempty"`
	Index        int      `json:"index"`
}

// PromptFeedback reports why a prompt was rejected before generation
type PromptFeedback struct {
	BlockReason string `json:"blockReason,omitempty"`
}

// ErrorDetail is the error object Gemini embeds in failed responses
type ErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Status  string `json:"status"`
}

// UsageMetadata represents token usage statistics
type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// GenerateContentResponse is the parsed generateContent response body.
// StatusCode is the HTTP status it arrived with and is not part of the JSON.
type GenerateContentResponse struct {
	Candidates     []Candidate     `json:"candidates,omitempty"`
	PromptFeedback *PromptFeedback `json:"promptFeedback,omitempty"`
	Error          *ErrorDetail    `json:"error,omitempty"`
	UsageMetadata  *UsageMetadata  `json:"usageMetadata,omitempty"`

	StatusCode int `json:"-"`
}

// Finish and block reasons that mean the answer was withheld for a
// reason other than the safety categories
var otherBlockReasons = map[string]bool{
	"OTHER":              true,
	"BLOCKLIST":          true,
	"PROHIBITED_CONTENT": true,
	"SPII":               true,
}

const reasonSafety = "SAFETY"

// Text interprets the response and returns the reply text. The checks run
// in a fixed order: an error field, then a safety block, then any other
// block, then the first part of the first candidate.
func (r *GenerateContentResponse) Text() (string, error) {
	if r.Error != nil {
		return "", &APIError{
			StatusCode: r.StatusCode,
			Code:       r.Error.Code,
			Status:     r.Error.Status,
			Message:    r.Error.Message,
		}
	}

	blockReason := ""
	if r.PromptFeedback != nil {
		blockReason = r.PromptFeedback.BlockReason
	}
	finishReason := ""
	if len(r.Candidates) > 0 {
		finishReason = r.Candidates[0].FinishReason
	}

	if blockReason == reasonSafety || finishReason == reasonSafety {
		return "", &BlockedError{Kind: BlockSafety}
	}
	if blockReason != "" || otherBlockReasons[finishReason] {
		return "", &BlockedError{Kind: BlockOther}
	}

	if len(r.Candidates) == 0 {
		return "", ErrEmptyResponse
	}
	content := r.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	return content.Parts[0].Text, nil
}

// GetUsageMap returns usage statistics as a map, or nil when absent
func (r *GenerateContentResponse) GetUsageMap() map[string]int {
	if r.UsageMetadata == nil {
		return nil
	}
	return map[string]int{
		"input_tokens":  r.UsageMetadata.PromptTokenCount,
		"output_tokens": r.UsageMetadata.CandidatesTokenCount,
		"total_tokens":  r.UsageMetadata.TotalTokenCount,
	}
}

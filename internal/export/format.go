package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/quocvuong92/gemini-chat/internal/conversation"
)

// ErrNothingToSave is returned when the conversation has no complete exchange
var ErrNothingToSave = errors.New("no messages to save")

// Markdown section headings
const (
	promptHeading   = "# Prompt:\n\n"
	responseHeading = "# Response from Gemini:\n\n"
)

// Exporter converts conversation turns into a document
type Exporter interface {
	// Export renders the turns. Callers guarantee at least two turns.
	Export(turns []conversation.Turn) ([]byte, error)

	// TitleSource returns the prompt the file name is derived from
	TitleSource(turns []conversation.Turn) string

	// FileExtension returns the extension without the dot
	FileExtension() string
}

// Document is a rendered export ready to be written
type Document struct {
	Name    string
	Content []byte
}

// Render runs the exporter and names the result
func Render(e Exporter, turns []conversation.Turn, now time.Time) (*Document, error) {
	if len(turns) < 2 {
		return nil, ErrNothingToSave
	}
	content, err := e.Export(turns)
	if err != nil {
		return nil, err
	}
	return &Document{
		Name:    FileName(e.TitleSource(turns), e.FileExtension(), now),
		Content: content,
	}, nil
}

// =============================================================================
// MARKDOWN
// =============================================================================

// LastExchangeExporter saves the most recent prompt and its response
type LastExchangeExporter struct{}

// NewLastExchangeExporter creates a new last-exchange exporter
func NewLastExchangeExporter() *LastExchangeExporter {
	return &LastExchangeExporter{}
}

// Export writes the last two turns as prompt and response sections
func (e *LastExchangeExporter) Export(turns []conversation.Turn) ([]byte, error) {
	n := len(turns)
	var sb strings.Builder
	sb.WriteString(promptHeading)
	sb.WriteString(turns[n-2].Text())
	sb.WriteString("\n\n")
	sb.WriteString(responseHeading)
	sb.WriteString(turns[n-1].Text())
	return []byte(sb.String()), nil
}

// TitleSource returns the prompt of the last exchange
func (e *LastExchangeExporter) TitleSource(turns []conversation.Turn) string {
	return turns[len(turns)-2].Text()
}

// FileExtension returns the file extension for Markdown
func (e *LastExchangeExporter) FileExtension() string {
	return "md"
}

// TranscriptExporter saves the whole conversation as alternating sections
type TranscriptExporter struct{}

// NewTranscriptExporter creates a new transcript exporter
func NewTranscriptExporter() *TranscriptExporter {
	return &TranscriptExporter{}
}

// Export writes every turn under a heading for its role
func (e *TranscriptExporter) Export(turns []conversation.Turn) ([]byte, error) {
	var sb strings.Builder
	for _, t := range turns {
		if t.Role() == conversation.RoleUser {
			sb.WriteString(promptHeading)
		} else {
			sb.WriteString(responseHeading)
		}
		sb.WriteString(t.Text())
		sb.WriteString("\n\n")
	}
	return []byte(sb.String()), nil
}

// TitleSource returns the first prompt
func (e *TranscriptExporter) TitleSource(turns []conversation.Turn) string {
	return turns[0].Text()
}

// FileExtension returns the file extension for Markdown
func (e *TranscriptExporter) FileExtension() string {
	return "md"
}

// =============================================================================
// JSON
// =============================================================================

// Record is one turn in a JSON export
type Record struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// JSONExporter saves the whole conversation as an array of records
type JSONExporter struct{}

// NewJSONExporter creates a new JSON exporter
func NewJSONExporter() *JSONExporter {
	return &JSONExporter{}
}

// Export converts the turns to a compact JSON array in conversation order.
// Markup in the text is written as is, not HTML-escaped.
func (e *JSONExporter) Export(turns []conversation.Turn) ([]byte, error) {
	records := make([]Record, 0, len(turns))
	for _, t := range turns {
		records = append(records, Record{Role: string(t.Role()), Text: t.Text()})
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// TitleSource returns the first prompt
func (e *JSONExporter) TitleSource(turns []conversation.Turn) string {
	return turns[0].Text()
}

// FileExtension returns the file extension for JSON
func (e *JSONExporter) FileExtension() string {
	return "json"
}

package export

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/quocvuong92/gemini-chat/internal/conversation"
)

func buildConversation(t *testing.T, texts ...string) *conversation.Conversation {
	t.Helper()
	conv := conversation.New()
	for i, text := range texts {
		role := conversation.RoleUser
		if i%2 == 1 {
			role = conversation.RoleModel
		}
		if err := conv.Append(role, text); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}
	return conv
}

func TestRender_NeedsCompleteExchange(t *testing.T) {
	exporters := []Exporter{NewLastExchangeExporter(), NewTranscriptExporter(), NewJSONExporter()}

	for _, turns := range [][]conversation.Turn{nil, buildConversation(t, "only prompt").Turns()} {
		for _, e := range exporters {
			if _, err := Render(e, turns, fixedTime); !errors.Is(err, ErrNothingToSave) {
				t.Errorf("Render(%T, %d turns) error = %v, want ErrNothingToSave", e, len(turns), err)
			}
		}
	}
}

func TestLastExchangeExporter(t *testing.T) {
	conv := buildConversation(t, "first question", "first answer", "second question", "second answer")

	doc, err := Render(NewLastExchangeExporter(), conv.Turns(), fixedTime)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := "# Prompt:\n\nsecond question\n\n# Response from Gemini:\n\nsecond answer"
	if string(doc.Content) != want {
		t.Errorf("content = %q, want %q", doc.Content, want)
	}
	if doc.Name != "second question [20240305_070809].md" {
		t.Errorf("Name = %q", doc.Name)
	}
}

func TestTranscriptExporter(t *testing.T) {
	conv := buildConversation(t, "q1", "a1", "q2", "a2")

	doc, err := Render(NewTranscriptExporter(), conv.Turns(), fixedTime)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := "# Prompt:\n\nq1\n\n" +
		"# Response from Gemini:\n\na1\n\n" +
		"# Prompt:\n\nq2\n\n" +
		"# Response from Gemini:\n\na2\n\n"
	if string(doc.Content) != want {
		t.Errorf("content = %q, want %q", doc.Content, want)
	}
	if doc.Name != "q1 [20240305_070809].md" {
		t.Errorf("Name = %q, want it derived from the first prompt", doc.Name)
	}
}

func TestJSONExporter_RoundTrip(t *testing.T) {
	conv := buildConversation(t,
		"Explain quantum computing in simple terms",
		"Quantum computers use **qubits**.",
		"And \"entanglement\"?\nBe brief.",
		"",
	)

	doc, err := Render(NewJSONExporter(), conv.Turns(), fixedTime)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if doc.Name != "Explain quantum computing in simple [20240305_070809].json" {
		t.Errorf("Name = %q", doc.Name)
	}

	var records []Record
	if err := json.Unmarshal(doc.Content, &records); err != nil {
		t.Fatalf("saved JSON does not parse: %v", err)
	}

	turns := conv.Turns()
	if len(records) != len(turns) {
		t.Fatalf("len(records) = %d, want %d", len(records), len(turns))
	}
	for i, r := range records {
		if r.Role != string(turns[i].Role()) || r.Text != turns[i].Text() {
			t.Errorf("record %d = %+v, want {%s %q}", i, r, turns[i].Role(), turns[i].Text())
		}
	}
}

func TestJSONExporter_KeepsMarkup(t *testing.T) {
	conv := buildConversation(t, "what is <div> & co", "an <b>element</b>")

	content, err := NewJSONExporter().Export(conv.Turns())
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	want := `[{"role":"user","text":"what is <div> & co"},{"role":"model","text":"an <b>element</b>"}]`
	if string(content) != want {
		t.Errorf("Export() = %s, want %s", content, want)
	}
}

func TestRender_UsesLocalTime(t *testing.T) {
	conv := buildConversation(t, "q", "a")
	utc := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

	doc, err := Render(NewJSONExporter(), conv.Turns(), utc)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := "q [" + utc.Local().Format("20060102_150405") + "].json"
	if doc.Name != want {
		t.Errorf("Name = %q, want %q", doc.Name, want)
	}
}

// Package export turns a conversation into saved documents.
//
// # Exporters
//
//   - LastExchangeExporter: the most recent prompt and response as markdown
//   - TranscriptExporter: every turn as alternating markdown sections
//   - JSONExporter: an ordered array of {role, text} records
//
// # Usage
//
//	doc, err := export.Render(export.NewJSONExporter(), conv.Turns(), time.Now())
//	if err != nil {
//	    // fewer than two turns
//	}
//	writer := export.NewWriter(dir, create, printer)
//	writer.Save(doc.Name, doc.Content)
//
// File names are derived from a prompt: sanitized, cut to 35 characters and
// suffixed with " [YYYYMMDD_HHMMSS].ext" in local time.
package export

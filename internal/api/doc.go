// Package api provides the client for the Gemini generateContent endpoint.
//
// # Architecture
//
//   - client.go: Client interface and factory function (NewClient)
//   - gemini.go: HTTP implementation with optional proxy, timeout and debug logging
//   - types.go: request/response wire types and response interpretation
//   - errors.go: APIError, BlockedError, TransportError and ErrEmptyResponse
//
// # Usage
//
//	client, err := api.NewClient(cfg, logger)
//	if err != nil {
//	    // handle error
//	}
//	resp, err := client.GenerateContent(ctx, api.NewRequest(conv.Turns(), cfg.DisableSafety))
//	if err != nil {
//	    // transport failure
//	}
//	text, err := resp.Text()
//
// Text applies a fixed priority: an error field in the body wins, then a
// SAFETY block, then any other block reason, then the first part of the
// first candidate. A body with none of these yields ErrEmptyResponse.
//
// # Interface Design
//
// The Client interface allows the chat session to be tested against a
// mock without network access.
package api

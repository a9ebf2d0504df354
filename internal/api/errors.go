package api

import (
	"errors"
	"fmt"
)

// RegionNotSupportedMessage is the error message Gemini returns for
// requests from unsupported locations
const RegionNotSupportedMessage = "User location is not supported for the API use."

// ErrEmptyResponse is returned when a response carries neither an error
// nor a usable candidate
var ErrEmptyResponse = errors.New("empty response from Gemini")

// APIError represents an error reported in the response body
type APIError struct {
	StatusCode int
	Code       int
	Status     string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("Gemini API error: status %d", e.StatusCode)
	}
	return e.Message
}

// BlockKind distinguishes safety blocks from other moderation blocks
type BlockKind int

const (
	// BlockSafety means a harm category threshold was exceeded
	BlockSafety BlockKind = iota
	// BlockOther means the answer was withheld for any other reason
	BlockOther
)

const (
	safetyBlockedMessage = "Response was blocked by Gemini due to safety reasons. " +
		"This can be disabled in the config file (set safety_settings to false or run with --no-safety)."
	otherBlockedMessage = "Despite disabling safety settings, your prompt still got blocked. " +
		"Unfortunately, these settings do not fully disable all censorship and your request most likely " +
		"contained something sensitive or illegal which caused the chatbot to block the response."
)

// BlockedError is returned when Gemini declined to answer
type BlockedError struct {
	Kind BlockKind
}

func (e *BlockedError) Error() string {
	if e.Kind == BlockSafety {
		return safetyBlockedMessage
	}
	return otherBlockedMessage
}

// TransportError wraps a failure to complete the HTTP exchange or to
// read a JSON body from it
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsRegionNotSupported reports whether err is the API error returned for
// unsupported user locations
func IsRegionNotSupported(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message == RegionNotSupportedMessage
	}
	return false
}

package export

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/quocvuong92/gemini-chat/internal/constants"
)

// maxFileNameBytes is the common file name limit on Linux, macOS and Windows
const maxFileNameBytes = 255

// fallbackTitle is used when a prompt sanitizes to nothing
const fallbackTitle = "conversation"

var (
	illegalChars         = regexp.MustCompile(`[/?<>\\:*|"]`)
	controlChars         = regexp.MustCompile(`[\x00-\x1f\x{80}-\x{9f}]`)
	reservedNames        = regexp.MustCompile(`^\.+$`)
	windowsReservedNames = regexp.MustCompile(`(?i)^(con|prn|aux|nul|com[0-9]|lpt[0-9])(\..*)?$`)
	windowsTrailingChars = regexp.MustCompile(`[. ]+$`)
)

// Sanitize makes s safe to use as a file name on any common platform.
// Illegal and control characters are removed rather than replaced. Names
// that are reserved become empty, and the result is capped at 255 bytes.
func Sanitize(s string) string {
	s = illegalChars.ReplaceAllString(s, "")
	s = controlChars.ReplaceAllString(s, "")
	s = reservedNames.ReplaceAllString(s, "")
	s = windowsReservedNames.ReplaceAllString(s, "")
	s = windowsTrailingChars.ReplaceAllString(s, "")
	return truncateBytes(s, maxFileNameBytes)
}

// truncateBytes cuts s to at most n bytes without splitting a rune
func truncateBytes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	s = s[:n]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s
}

// excerpt returns the first n runes of s
func excerpt(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// FileName builds a file name from a prompt: the sanitized prompt cut to
// 35 characters, a local timestamp and the extension (without the dot).
func FileName(prompt, ext string, now time.Time) string {
	title := excerpt(Sanitize(strings.TrimSpace(prompt)), constants.FileNameExcerptLength)
	if strings.TrimSpace(title) == "" {
		title = fallbackTitle
	}
	stamp := now.Local().Format(constants.FileNameTimestampLayout)
	return Sanitize(title + " [" + stamp + "]." + ext)
}

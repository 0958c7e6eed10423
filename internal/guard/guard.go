package guard

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Patterns that suggest prompt injection attempts. The list is intentionally
// not exhaustive; false negatives are accepted.
var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)ignore\s+(all\s+)?(previous|prior|above)`),
	regexp.MustCompile(`(?i)disregard\s+(all\s+)?(previous|prior|above)`),
	regexp.MustCompile(`(?i)forget\s+(all\s+)?(previous|prior|above)`),
	regexp.MustCompile(`(?i)system\s*prompt`),
	regexp.MustCompile(`(?i)you\s+are\s+now`),
	regexp.MustCompile(`(?i)act\s+as\s+(if\s+you\s+are|a)`),
	regexp.MustCompile(`(?i)pretend\s+(to\s+be|you\s+are)`),
	regexp.MustCompile(`(?i)new\s+instructions`),
	regexp.MustCompile(`(?i)override\s+(instructions|rules)`),
	regexp.MustCompile(`(?i)<\s*system\s*>`),
	regexp.MustCompile(`(?i)\[\s*system\s*\]`),
}

const emptyResponseFallback = "I couldn't generate a response. Please try again."

// Result of input validation.
type Result struct {
	Valid   bool
	Message string
}

func invalid(message string) Result {
	return Result{Valid: false, Message: message}
}

// Validate checks user input for safety and length constraints before it is
// forwarded to the model.
func Validate(message string, maxChars int) Result {
	message = strings.TrimSpace(message)
	if message == "" {
		return invalid("Message cannot be empty.")
	}

	// The limit is in characters, not bytes.
	if utf8.RuneCountInString(message) > maxChars {
		return invalid(fmt.Sprintf("Message too long. Please keep it under %d characters.", maxChars))
	}

	for _, pattern := range injectionPatterns {
		if pattern.MatchString(message) {
			return invalid("I can only answer questions about Ben's professional background.")
		}
	}

	// Excessive repetition of a single word suggests token stuffing.
	words := strings.Fields(strings.ToLower(message))
	if len(words) > 5 {
		counts := make(map[string]int, len(words))
		maxRepetition := 0
		for _, word := range words {
			counts[word]++
			if counts[word] > maxRepetition {
				maxRepetition = counts[word]
			}
		}
		if float64(maxRepetition) > float64(len(words))*0.5 {
			return invalid("Please ask a clear question about Ben's experience.")
		}
	}

	return Result{Valid: true}
}

// SanitizeOutput truncates over-long model output at a word boundary and
// substitutes a fallback message for empty output.
func SanitizeOutput(response string, maxChars int) string {
	if response == "" {
		return emptyResponseFallback
	}

	if runes := []rune(response); len(runes) > maxChars {
		cut := string(runes[:maxChars])
		if idx := strings.LastIndex(cut, " "); idx > 0 {
			cut = cut[:idx]
		}
		response = cut + "..."
	}

	return strings.TrimSpace(response)
}

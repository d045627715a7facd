package text_test

import (
	"testing"

	"github.com/book-expert/voiceover/internal/text"
	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	normalizer := text.NewNormalizer()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "plain text untouched",
			input:    "Welcome to QuickCall.",
			expected: "Welcome to QuickCall.",
		},
		{
			name:     "whitespace runs collapse",
			input:    "Hello   world\n\nsecond  line",
			expected: "Hello world second line",
		},
		{
			name:     "em dash becomes spaced hyphen",
			input:    "pause—then continue",
			expected: "pause - then continue",
		},
		{
			name:     "unicode ellipsis expands",
			input:    "wait…",
			expected: "wait...",
		},
		{
			name:     "control characters dropped",
			input:    "beep\x07boop",
			expected: "beep boop",
		},
		{
			name:     "surrounding whitespace trimmed",
			input:    "  padded  ",
			expected: "padded",
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, testCase.expected, normalizer.Normalize(testCase.input))
		})
	}
}

package llm

import (
	"testing"
)

func TestCleanJSONBlock_MarkdownCodeBlock(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "json code block",
			input:    "```json\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "generic code block",
			input:    "```\n{\"key\": \"value\"}\n```",
			expected: `{"key": "value"}`,
		},
		{
			name:     "code block with language",
			input:    "```javascript\n[{\"id\": \"1\"}]\n```",
			expected: `[{"id": "1"}]`,
		},
		{
			name:     "plain JSON",
			input:    `{"key": "value"}`,
			expected: `{"key": "value"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestCleanJSONBlock_SurroundingText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "preamble before array",
			input:    "Here are the careers:\n[{\"title\": \"Data Engineer\"}]",
			expected: `[{"title": "Data Engineer"}]`,
		},
		{
			name:     "trailing text",
			input:    "{\"score\": 80}\n\nLet me know if you need anything else!",
			expected: `{"score": 80}`,
		},
		{
			name:     "braces inside strings",
			input:    `Result: {"template": "Hello {name}]!"}`,
			expected: `{"template": "Hello {name}]!"}`,
		},
		{
			name:     "escaped quotes",
			input:    "Result: {\"message\": \"He said \\\"hi\\\"\"}",
			expected: `{"message": "He said \"hi\""}`,
		},
		{
			name:     "no JSON at all",
			input:    "I'm experiencing technical difficulties. Please try again later.",
			expected: "I'm experiencing technical difficulties. Please try again later.",
		},
		{
			name:     "unbalanced",
			input:    `{"score": 80`,
			expected: `{"score": 80`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanJSONBlock(tt.input)
			if result != tt.expected {
				t.Errorf("CleanJSONBlock() = %q, want %q", result, tt.expected)
			}
		})
	}
}

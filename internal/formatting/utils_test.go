package formatting

import (
	"testing"
)

func TestPrettyJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    interface{}
		expected string
	}{
		{
			name:     "item list",
			input:    NewItemList([]string{"a", "b"}),
			expected: "{\n  \"items\": [\n    \"a\",\n    \"b\"\n  ],\n  \"count\": 2\n}",
		},
		{
			name:     "string",
			input:    "hello world",
			expected: "\"hello world\"",
		},
		{
			name:     "nil",
			input:    nil,
			expected: "null",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := PrettyJSON(tt.input)
			if result != tt.expected {
				t.Errorf("PrettyJSON() = %q, want %q", result, tt.expected)
			}
		})
	}
}

func TestPrettyJSONWithInvalidData(t *testing.T) {
	ch := make(chan int)
	result := PrettyJSON(ch)

	if len(result) < 5 {
		t.Errorf("PrettyJSON() fallback should provide meaningful output, got %q", result)
	}
}

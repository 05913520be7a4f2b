package sanitize

import (
	"testing"
)

func TestHasMarkup(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{name: "script tag", input: `Hello <script>alert('xss')</script> World`, expected: true},
		{name: "inline event handler", input: `<div onclick="alert('xss')">Click me</div>`, expected: true},
		{name: "iframe injection", input: `Safe text <iframe src="evil.com"></iframe> more text`, expected: true},
		{name: "unknown tag", input: `Bring a <laptop> and snacks`, expected: true},
		{name: "comment", input: `before <!-- hidden --> after`, expected: true},
		{name: "character reference", input: `Tom &amp; Jerry`, expected: true},
		{name: "plain text", input: `Just plain text`, expected: false},
		{name: "ampersand", input: `Tom & Jerry`, expected: false},
		{name: "comparison", input: `1 < 2 and 3 > 2`, expected: false},
		{name: "quotes", input: `O'Brien says "oi"`, expected: false},
		{name: "accents", input: `Reunião de condomínio`, expected: false},
		{name: "browser newlines", input: "linha 1\r\nlinha 2\n", expected: false},
		{name: "empty", input: ``, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasMarkup(tt.input); got != tt.expected {
				t.Errorf("HasMarkup(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

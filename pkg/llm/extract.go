package llm

import (
	"fmt"
	"strings"
)

// ExtractJSON pulls the first balanced JSON object or array out of a
// model response. Responses routinely arrive wrapped in prose or a
// fenced code block; the fence markers are stripped first, then the
// first balanced {...} or [...] span is returned. String literals are
// respected so braces inside quoted text do not break the balance.
func ExtractJSON(s string) (string, error) {
	if i := strings.Index(s, "```json"); i >= 0 {
		s = s[i+len("```json"):]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	} else if i := strings.Index(s, "```"); i >= 0 {
		s = s[i+len("```"):]
		if j := strings.Index(s, "```"); j >= 0 {
			s = s[:j]
		}
	}

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return "", fmt.Errorf("no JSON object or array in response")
	}

	open := s[start]
	var close byte = '}'
	if open == '[' {
		close = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return s[start : i+1], nil
			}
		}
	}

	return "", fmt.Errorf("unbalanced JSON in response")
}

package content

import (
	"bytes"
	"fmt"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// ParseResult holds the split parts of a content document.
type ParseResult struct {
	// Frontmatter is the raw YAML block between the leading --- delimiters,
	// nil when the document has none.
	Frontmatter []byte
	// Body is the Markdown body after the frontmatter.
	Body string
}

// Parse splits raw document bytes into frontmatter and body.
func Parse(data []byte) *ParseResult {
	fm, body := splitFrontmatter(data)
	return &ParseResult{Frontmatter: fm, Body: body}
}

// DecodeMeta unmarshals the frontmatter block into target. A document with
// no frontmatter decodes to the zero value without error.
func (p *ParseResult) DecodeMeta(target any) error {
	if p.Frontmatter == nil {
		return nil
	}
	if err := yaml.Unmarshal(p.Frontmatter, target); err != nil {
		return fmt.Errorf("content: decode frontmatter: %w", err)
	}
	return nil
}

// splitFrontmatter separates YAML frontmatter (between leading --- delimiters)
// from the Markdown body. If no frontmatter is found the entire content is body.
func splitFrontmatter(data []byte) ([]byte, string) {
	const delim = "---"
	trimmed := bytes.TrimLeft(data, "\n\r")

	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return nil, string(data)
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		// No closing delimiter, treat everything as body.
		return nil, string(data)
	}

	yamlBlock := rest[:idx]
	afterDelim := rest[idx+1+len(delim):]
	body := strings.TrimLeft(string(afterDelim), "\n\r")
	return yamlBlock, body
}

// readingMinutes estimates reading time for body at ~200 words per minute,
// never returning less than 1 for non-empty text.
func readingMinutes(body string) int {
	words := 0
	inWord := false
	for _, r := range body {
		if unicode.IsSpace(r) {
			inWord = false
			continue
		}
		if !inWord {
			words++
			inWord = true
		}
	}
	if words == 0 {
		return 0
	}
	minutes := (words + 199) / 200
	return minutes
}

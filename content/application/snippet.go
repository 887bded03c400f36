package application

import (
	"strings"

	"github.com/dfryer1193/inkwell/content/domain"
)

const defaultSnippetLength = 200

// SnippetRenderer reduces a markdown segment to its first paragraph of plain
// text, truncated at a word boundary. It is the `text` excerpt renderer for
// callers that want a teaser rather than rendered HTML.
type SnippetRenderer struct {
	maxLength int
}

var _ domain.SegmentRenderer = SnippetRenderer{}

func NewSnippetRenderer(maxLength int) SnippetRenderer {
	if maxLength <= 0 {
		maxLength = defaultSnippetLength
	}
	return SnippetRenderer{maxLength: maxLength}
}

func (r SnippetRenderer) Render(segment string) (string, error) {
	return extractSnippet(segment, r.maxLength), nil
}

func extractSnippet(markdown string, maxLength int) string {
	lines := strings.Split(markdown, "\n")
	var paragraphLines []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Skip headings before we find content
		if strings.HasPrefix(trimmed, "#") {
			if len(paragraphLines) > 0 {
				break
			}
			continue
		}

		// Empty line handling
		if trimmed == "" {
			if len(paragraphLines) > 0 {
				break // End of first paragraph
			}
			continue
		}

		// Stop at code blocks, horizontal rules, lists, tables
		if strings.HasPrefix(trimmed, "```") ||
			strings.HasPrefix(trimmed, "---") ||
			strings.HasPrefix(trimmed, "***") ||
			strings.HasPrefix(trimmed, "- ") ||
			strings.HasPrefix(trimmed, "* ") ||
			strings.HasPrefix(trimmed, "+ ") ||
			strings.HasPrefix(trimmed, "|") {
			if len(paragraphLines) > 0 {
				break
			}
			continue
		}

		// Collect paragraph content
		paragraphLines = append(paragraphLines, trimmed)
	}

	if len(paragraphLines) == 0 {
		return ""
	}

	snippet := strings.Join(paragraphLines, " ")

	// Truncate if too long
	if len(snippet) > maxLength {
		snippet = snippet[:maxLength]
		if lastSpace := strings.LastIndexAny(snippet, " \t"); lastSpace > 0 {
			snippet = snippet[:lastSpace]
		}
		snippet += "..."
	}

	return snippet
}

package application

import (
	"fmt"
	"strings"

	"github.com/dfryer1193/inkwell/content/domain"
)

// segmentCount is the fixed shape of a source document: metadata front
// matter, excerpt, body, in that order.
const segmentCount = 3

// Split divides raw document text on every literal occurrence of delimiter
// and trims each resulting segment. It is a pure function: a document
// containing N-1 delimiter occurrences always yields N segments.
func Split(raw, delimiter string) []string {
	segments := strings.Split(raw, delimiter)
	for i, s := range segments {
		segments[i] = strings.TrimSpace(s)
	}
	return segments
}

// SplitDocument splits raw text and enforces the three-segment document
// shape. A document with any other number of segments fails with a
// structural error; extra delimiters are rejected rather than silently
// truncated so that a stray delimiter inside a body surfaces at compile
// time instead of publishing a truncated post.
func SplitDocument(raw, delimiter string) ([]string, error) {
	segments := Split(raw, delimiter)
	if len(segments) != segmentCount {
		return nil, fmt.Errorf("%w: expected %d segments, got %d",
			domain.ErrInvalidFormat, segmentCount, len(segments))
	}
	return segments, nil
}

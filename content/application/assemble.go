package application

import (
	"fmt"

	"github.com/dfryer1193/inkwell/content/domain"
)

// Assemble builds a Post from a key and the three trimmed segments of its
// source document. Assembly is all-or-nothing: the first parser failure is
// returned and no partial Post is ever produced. The metadata parser runs
// first; excerpt and body only run once metadata has succeeded.
func Assemble(key string, segments []string, parsers domain.ParserSet) (*domain.Post, error) {
	if len(segments) != segmentCount {
		return nil, fmt.Errorf("%w: expected %d segments, got %d",
			domain.ErrInvalidFormat, segmentCount, len(segments))
	}

	meta, err := parsers.Metadata.Parse(segments[0])
	if err != nil {
		return nil, err
	}

	excerpt, err := parsers.Excerpt.Render(segments[1])
	if err != nil {
		return nil, fmt.Errorf("failed to render excerpt: %w", err)
	}

	body, err := parsers.Body.Render(segments[2])
	if err != nil {
		return nil, fmt.Errorf("failed to render body: %w", err)
	}

	return &domain.Post{
		Key:      key,
		Title:    meta.Title,
		DateTime: meta.DateTime,
		Draft:    meta.Draft,
		Tags:     meta.Tags,
		Excerpt:  excerpt,
		Body:     body,
		Extra:    meta.Extra,
	}, nil
}

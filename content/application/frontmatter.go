package application

import (
	"fmt"
	"time"

	"github.com/dfryer1193/inkwell/content/domain"
	"gopkg.in/yaml.v3"
)

// datetimeLayouts are the accepted forms for string-valued datetimes. Bare
// YAML timestamps arrive as time.Time already and skip these.
var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// YAMLMetadataParser parses a front-matter segment as a YAML mapping. It
// requires title and datetime; draft defaults to false and tags to empty.
// Unrecognized fields are preserved in Metadata.Extra rather than rejected,
// so themes can carry their own front-matter fields through compilation.
type YAMLMetadataParser struct{}

var _ domain.MetadataParser = YAMLMetadataParser{}

func NewYAMLMetadataParser() YAMLMetadataParser {
	return YAMLMetadataParser{}
}

func (YAMLMetadataParser) Parse(segment string) (domain.Metadata, error) {
	fields := make(map[string]any)
	if err := yaml.Unmarshal([]byte(segment), &fields); err != nil {
		return domain.Metadata{}, fmt.Errorf("invalid front matter: %w", err)
	}

	meta := domain.Metadata{
		Tags:  []string{},
		Extra: make(map[string]any),
	}

	for key, value := range fields {
		switch key {
		case "title":
			meta.Title = fmt.Sprint(value)
		case "datetime", "date":
			dt, err := parseDateTime(value)
			if err != nil {
				return domain.Metadata{}, err
			}
			meta.DateTime = dt
		case "draft":
			draft, ok := value.(bool)
			if !ok {
				return domain.Metadata{}, fmt.Errorf("draft must be a boolean, got %T", value)
			}
			meta.Draft = draft
		case "tags":
			tags, err := parseTags(value)
			if err != nil {
				return domain.Metadata{}, err
			}
			meta.Tags = tags
		default:
			meta.Extra[key] = value
		}
	}

	if meta.Title == "" {
		return domain.Metadata{}, domain.ErrMissingTitle
	}
	if meta.DateTime.IsZero() {
		return domain.Metadata{}, domain.ErrMissingDateTime
	}

	return meta, nil
}

func parseDateTime(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		for _, layout := range datetimeLayouts {
			if dt, err := time.Parse(layout, v); err == nil {
				return dt, nil
			}
		}
		return time.Time{}, fmt.Errorf("unparseable datetime %q", v)
	default:
		return time.Time{}, fmt.Errorf("unparseable datetime %v (%T)", value, value)
	}
}

func parseTags(value any) ([]string, error) {
	switch v := value.(type) {
	case []any:
		tags := make([]string, 0, len(v))
		for _, item := range v {
			tags = append(tags, fmt.Sprint(item))
		}
		return tags, nil
	case string:
		return []string{v}, nil
	default:
		return nil, fmt.Errorf("tags must be a sequence, got %T", value)
	}
}

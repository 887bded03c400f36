package application

import (
	"fmt"

	"github.com/dfryer1193/inkwell/content/domain"
)

// ParserSpec names a built-in parser implementation plus its options. Specs
// come from configuration and are resolved exactly once, when the compiler
// is constructed; compilation itself never consults the registry.
type ParserSpec struct {
	Name    string
	Options map[string]any
}

// Built-in parser names.
const (
	ParserYAML     = "yaml"
	ParserMarkdown = "markdown"
	ParserText     = "text"
	ParserRaw      = "raw"
)

// ResolveParsers builds the parser set for a repository from three specs.
// Empty names select the defaults: yaml front matter for metadata and a
// markdown renderer for both the excerpt and body roles.
func ResolveParsers(metadata, excerpt, body ParserSpec) (domain.ParserSet, error) {
	metadataParser, err := resolveMetadata(metadata)
	if err != nil {
		return domain.ParserSet{}, fmt.Errorf("metadata parser: %w", err)
	}

	excerptRenderer, err := resolveRenderer(excerpt)
	if err != nil {
		return domain.ParserSet{}, fmt.Errorf("excerpt parser: %w", err)
	}

	bodyRenderer, err := resolveRenderer(body)
	if err != nil {
		return domain.ParserSet{}, fmt.Errorf("body parser: %w", err)
	}

	return domain.ParserSet{
		Metadata: metadataParser,
		Excerpt:  excerptRenderer,
		Body:     bodyRenderer,
	}, nil
}

func resolveMetadata(spec ParserSpec) (domain.MetadataParser, error) {
	switch spec.Name {
	case "", ParserYAML:
		return NewYAMLMetadataParser(), nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownParser, spec.Name)
	}
}

func resolveRenderer(spec ParserSpec) (domain.SegmentRenderer, error) {
	switch spec.Name {
	case "", ParserMarkdown:
		return NewMarkdownRenderer(markdownOptions(spec.Options)), nil
	case ParserText:
		return NewSnippetRenderer(optInt(spec.Options, "maxLength")), nil
	case ParserRaw:
		return RawRenderer{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownParser, spec.Name)
	}
}

func markdownOptions(opts map[string]any) MarkdownOptions {
	return MarkdownOptions{
		BaseURL:   optString(opts, "baseURL"),
		HardWraps: optBool(opts, "hardWraps"),
		XHTML:     optBool(opts, "xhtml"),
		Unsafe:    optBool(opts, "unsafe"),
	}
}

func optString(opts map[string]any, key string) string {
	if v, ok := opts[key].(string); ok {
		return v
	}
	return ""
}

func optBool(opts map[string]any, key string) bool {
	if v, ok := opts[key].(bool); ok {
		return v
	}
	return false
}

func optInt(opts map[string]any, key string) int {
	if v, ok := opts[key].(int); ok {
		return v
	}
	return 0
}

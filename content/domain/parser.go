package domain

import "time"

// Metadata is the parsed front-matter segment of a document. Title and
// DateTime are mandatory; everything else defaults when absent.
type Metadata struct {
	Title    string
	DateTime time.Time
	Draft    bool
	Tags     []string
	Extra    map[string]any
}

// MetadataParser parses the first segment of a document into Metadata.
// Implementations must be pure functions of their input: no shared mutable
// state and no I/O, so a single parser instance can serve every compilation
// task concurrently.
type MetadataParser interface {
	Parse(segment string) (Metadata, error)
}

// SegmentRenderer renders the excerpt or body segment of a document into its
// final representation. The same purity requirements as MetadataParser apply.
type SegmentRenderer interface {
	Render(segment string) (string, error)
}

// ParserSet is the resolved trio of parsers a repository compiles with. The
// set is fixed at construction time; there is no per-file dispatch.
type ParserSet struct {
	Metadata MetadataParser
	Excerpt  SegmentRenderer
	Body     SegmentRenderer
}

package domain

import (
	"time"
)

// Post is a single compiled document. A post is built from one source file:
// the file's basename (without extension) becomes the key, and the file's
// three segments become the metadata fields, the excerpt, and the body.
// Posts are immutable once compiled; a rebuild produces a new set.
type Post struct {
	Key      string    `json:"key"`
	Title    string    `json:"title"`
	DateTime time.Time `json:"datetime"`
	Draft    bool      `json:"draft"`
	Tags     []string  `json:"tags"`
	Excerpt  string    `json:"excerpt"`
	Body     string    `json:"body"`

	// Extra holds front-matter fields outside the base schema, preserved
	// verbatim for templates and parser-specific consumers.
	Extra map[string]any `json:"extra,omitempty"`
}

// CompileOutcome is the result of compiling one source file. Exactly one of
// Post or Err is set.
type CompileOutcome struct {
	Path string
	Key  string
	Post *Post
	Err  error
}

// CompileError pairs a source path with the reason its compilation failed.
// Errors are diagnostic only; they are collected alongside the snapshot and
// never block the build.
type CompileError struct {
	Path   string
	Reason string
}

func (e CompileError) String() string {
	return e.Path + ": " + e.Reason
}

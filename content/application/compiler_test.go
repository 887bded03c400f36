package application

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture %s: %v", name, err)
	}
}

func newTestCompiler(t *testing.T, cfg CompilerConfig) *Compiler {
	t.Helper()
	cfg.LogLevel = zerolog.Disabled
	c, err := NewCompiler(cfg)
	if err != nil {
		t.Fatalf("NewCompiler() failed: %v", err)
	}
	return c
}

func TestCompileValidAndInvalidFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.src", "title: A\ndatetime: 2020-01-01\n---\nExcerpt A\n---\nBody A")
	writeFile(t, dir, "b.src", "only\n---\ntwo segments")

	compiler := newTestCompiler(t, CompilerConfig{Root: dir, Pattern: "*.src"})
	repo, errs, err := compiler.Compile()
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}

	if repo.Len() != 1 {
		t.Fatalf("snapshot has %d posts, want 1", repo.Len())
	}

	post, err := repo.Get("a")
	if err != nil {
		t.Fatalf("Get(a) failed: %v", err)
	}
	if post.Title != "A" {
		t.Errorf("Title = %q, want %q", post.Title, "A")
	}
	want := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	if !post.DateTime.Equal(want) {
		t.Errorf("DateTime = %v, want %v", post.DateTime, want)
	}
	if post.Draft {
		t.Error("Draft = true, want false")
	}
	if !strings.Contains(post.Excerpt, "Excerpt A") {
		t.Errorf("Excerpt = %q, want it to contain %q", post.Excerpt, "Excerpt A")
	}
	if !strings.Contains(post.Body, "Body A") {
		t.Errorf("Body = %q, want it to contain %q", post.Body, "Body A")
	}

	if len(errs) != 1 {
		t.Fatalf("error list has %d entries, want 1", len(errs))
	}
	if filepath.Base(errs[0].Path) != "b.src" {
		t.Errorf("error path = %q, want b.src", errs[0].Path)
	}
	if !strings.Contains(errs[0].Reason, "invalid format") {
		t.Errorf("error reason = %q, want a structural error", errs[0].Reason)
	}
}

func TestCompileCounts(t *testing.T) {
	const valid, invalid = 7, 4

	dir := t.TempDir()
	for i := 0; i < valid; i++ {
		writeFile(t, dir, fmt.Sprintf("good-%02d.md", i),
			fmt.Sprintf("title: Post %d\ndatetime: 2021-01-%02d\n---\nexcerpt\n---\nbody", i, i+1))
	}
	for i := 0; i < invalid; i++ {
		writeFile(t, dir, fmt.Sprintf("bad-%02d.md", i), "no delimiters at all")
	}

	tests := []struct {
		name    string
		workers int
	}{
		{name: "Unbounded fan-out", workers: 0},
		{name: "Bounded worker pool", workers: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			compiler := newTestCompiler(t, CompilerConfig{Root: dir, Workers: tt.workers})
			repo, errs, err := compiler.Compile()
			if err != nil {
				t.Fatalf("Compile() failed: %v", err)
			}
			if repo.Len() != valid {
				t.Errorf("snapshot has %d posts, want %d", repo.Len(), valid)
			}
			if len(errs) != invalid {
				t.Errorf("error list has %d entries, want %d", len(errs), invalid)
			}
		})
	}
}

func TestCompileErrorIsolation(t *testing.T) {
	// A parse failure in one file must not affect its siblings.
	dir := t.TempDir()
	writeFile(t, dir, "ok.md", "title: OK\ndatetime: 2020-01-01\n---\ne\n---\nb")
	writeFile(t, dir, "missing-meta.md", "author: nobody\n---\ne\n---\nb")

	compiler := newTestCompiler(t, CompilerConfig{Root: dir})
	repo, errs, err := compiler.Compile()
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}
	if _, err := repo.Get("ok"); err != nil {
		t.Errorf("Get(ok) failed: %v", err)
	}
	if len(errs) != 1 {
		t.Fatalf("error list has %d entries, want 1", len(errs))
	}
	if !strings.Contains(errs[0].Reason, "title") {
		t.Errorf("error reason = %q, want missing-title parse error", errs[0].Reason)
	}
}

func TestCompilePatternFiltering(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "post.md", "title: P\ndatetime: 2020-01-01\n---\ne\n---\nb")
	writeFile(t, dir, "notes.txt", "not a post")

	compiler := newTestCompiler(t, CompilerConfig{Root: dir, Pattern: "*.md"})
	repo, errs, err := compiler.Compile()
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}
	if repo.Len() != 1 {
		t.Errorf("snapshot has %d posts, want 1", repo.Len())
	}
	if len(errs) != 0 {
		t.Errorf("error list has %d entries, want 0", len(errs))
	}
}

func TestCompileWalksSubdirectories(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "2020")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("failed to create subdirectory: %v", err)
	}
	writeFile(t, sub, "nested.md", "title: Nested\ndatetime: 2020-01-01\n---\ne\n---\nb")

	compiler := newTestCompiler(t, CompilerConfig{Root: dir})
	repo, _, err := compiler.Compile()
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}
	if _, err := repo.Get("nested"); err != nil {
		t.Errorf("Get(nested) failed: %v", err)
	}
}

func TestCompileDuplicateKeyLastWins(t *testing.T) {
	dir := t.TempDir()
	for _, sub := range []string{"one", "two"} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0755); err != nil {
			t.Fatalf("failed to create subdirectory: %v", err)
		}
	}
	writeFile(t, filepath.Join(dir, "one"), "dup.md", "title: First\ndatetime: 2020-01-01\n---\ne\n---\nb")
	writeFile(t, filepath.Join(dir, "two"), "dup.md", "title: Second\ndatetime: 2020-01-01\n---\ne\n---\nb")

	compiler := newTestCompiler(t, CompilerConfig{Root: dir})
	repo, _, err := compiler.Compile()
	if err != nil {
		t.Fatalf("Compile() failed: %v", err)
	}
	if repo.Len() != 1 {
		t.Fatalf("snapshot has %d posts, want 1", repo.Len())
	}
	// WalkDir visits lexically, so two/dup.md folds after one/dup.md.
	post, err := repo.Get("dup")
	if err != nil {
		t.Fatalf("Get(dup) failed: %v", err)
	}
	if post.Title != "Second" {
		t.Errorf("Title = %q, want the later file to win", post.Title)
	}
}

func TestCompileInvalidPattern(t *testing.T) {
	compiler := newTestCompiler(t, CompilerConfig{Root: t.TempDir(), Pattern: "["})
	if _, _, err := compiler.Compile(); err == nil {
		t.Error("Compile() succeeded with a malformed glob, want discovery error")
	}
}

func TestCompileMissingRoot(t *testing.T) {
	compiler := newTestCompiler(t, CompilerConfig{Root: filepath.Join(t.TempDir(), "does-not-exist")})
	if _, _, err := compiler.Compile(); err == nil {
		t.Error("Compile() succeeded on a missing root, want discovery error")
	}
}

func TestLoadCompilesOnce(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "once.md", "title: Once\ndatetime: 2020-01-01\n---\ne\n---\nb")

	compiler := newTestCompiler(t, CompilerConfig{Root: dir})
	first, _, err := compiler.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// A file added after the first Load must not appear: the snapshot is
	// compiled once and frozen.
	writeFile(t, dir, "late.md", "title: Late\ndatetime: 2020-01-02\n---\ne\n---\nb")

	second, _, err := compiler.Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if first != second {
		t.Error("Load() returned a different snapshot on the second call")
	}
	if second.Len() != 1 {
		t.Errorf("snapshot grew to %d posts after Load, want frozen at 1", second.Len())
	}
}

func TestNewCompilerDefaults(t *testing.T) {
	compiler := newTestCompiler(t, CompilerConfig{Root: t.TempDir()})
	if compiler.cfg.Pattern != DefaultPattern {
		t.Errorf("Pattern = %q, want %q", compiler.cfg.Pattern, DefaultPattern)
	}
	if compiler.cfg.Delimiter != DefaultDelimiter {
		t.Errorf("Delimiter = %q, want %q", compiler.cfg.Delimiter, DefaultDelimiter)
	}
	if compiler.cfg.Parsers.Metadata == nil || compiler.cfg.Parsers.Excerpt == nil || compiler.cfg.Parsers.Body == nil {
		t.Error("default parsers were not resolved")
	}
}

func TestNewCompilerRequiresRoot(t *testing.T) {
	if _, err := NewCompiler(CompilerConfig{}); err == nil {
		t.Error("NewCompiler() succeeded without a root, want error")
	}
}

package application

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dfryer1193/inkwell/content/domain"
	"github.com/dfryer1193/inkwell/content/persistence"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultPattern   = "*.md"
	DefaultDelimiter = "\n---\n"
)

// CompilerConfig is the full configuration for one compilation pass.
type CompilerConfig struct {
	// Root is the content directory to compile. Required.
	Root string
	// Pattern is a glob matched against file basenames (default *.md).
	Pattern string
	// Delimiter is the literal text separating the three segments of a
	// document (default "\n---\n").
	Delimiter string
	// LogLevel is the severity for per-file failure logging.
	// zerolog.Disabled turns failure logging off entirely.
	LogLevel zerolog.Level
	// Workers caps concurrent per-file compilations. Zero means one task
	// per file with no cap.
	Workers int
	// Parsers is the resolved parser set. Zero value selects the defaults.
	Parsers domain.ParserSet
}

// Compiler runs the compilation pipeline: discover source files under the
// root, compile each independently, and fold the outcomes into an immutable
// repository plus a diagnostics list. A Compiler is safe for concurrent use;
// Load guarantees the pass runs at most once.
type Compiler struct {
	cfg CompilerConfig

	once    sync.Once
	repo    *persistence.Repository
	errs    []domain.CompileError
	loadErr error
}

// NewCompiler validates the configuration, fills in defaults, and returns a
// Compiler ready to run.
func NewCompiler(cfg CompilerConfig) (*Compiler, error) {
	if cfg.Root == "" {
		return nil, fmt.Errorf("compiler config: root directory is required")
	}
	if cfg.Pattern == "" {
		cfg.Pattern = DefaultPattern
	}
	if cfg.Delimiter == "" {
		cfg.Delimiter = DefaultDelimiter
	}
	if cfg.Parsers.Metadata == nil || cfg.Parsers.Excerpt == nil || cfg.Parsers.Body == nil {
		defaults, err := ResolveParsers(ParserSpec{}, ParserSpec{}, ParserSpec{})
		if err != nil {
			return nil, err
		}
		if cfg.Parsers.Metadata == nil {
			cfg.Parsers.Metadata = defaults.Metadata
		}
		if cfg.Parsers.Excerpt == nil {
			cfg.Parsers.Excerpt = defaults.Excerpt
		}
		if cfg.Parsers.Body == nil {
			cfg.Parsers.Body = defaults.Body
		}
	}
	return &Compiler{cfg: cfg}, nil
}

// Compile runs one full compilation pass. Every discovered file is compiled
// independently and concurrently; a failing file never aborts its siblings
// or the pass. The returned repository contains one post per successful
// file, and the error list one entry per failed file. Only discovery itself
// can fail the pass as a whole.
func (c *Compiler) Compile() (*persistence.Repository, []domain.CompileError, error) {
	paths, err := discoverFiles(c.cfg.Root, c.cfg.Pattern)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to discover source files: %w", err)
	}

	// Fan out one task per file. Each task writes only its own slot of the
	// outcomes slice, so the fan-out phase needs no locking; Wait is the
	// join barrier.
	outcomes := make([]domain.CompileOutcome, len(paths))
	var g errgroup.Group
	if c.cfg.Workers > 0 {
		g.SetLimit(c.cfg.Workers)
	}
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			outcomes[i] = c.compileFile(path)
			return nil
		})
	}
	_ = g.Wait() // tasks report failures as outcomes, never as errors

	repo, compileErrs := c.fold(outcomes)
	return repo, compileErrs, nil
}

// Load runs the compilation pass at most once and returns the same finished
// snapshot to every caller. The first caller compiles; concurrent callers
// block until it finishes.
func (c *Compiler) Load() (*persistence.Repository, []domain.CompileError, error) {
	c.once.Do(func() {
		c.repo, c.errs, c.loadErr = c.Compile()
	})
	return c.repo, c.errs, c.loadErr
}

// compileFile reads, splits, and assembles a single source file. All state
// is file-local.
func (c *Compiler) compileFile(path string) domain.CompileOutcome {
	key := deriveKey(path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.CompileOutcome{Path: path, Key: key, Err: fmt.Errorf("failed to read file: %w", err)}
	}

	segments, err := SplitDocument(string(raw), c.cfg.Delimiter)
	if err != nil {
		return domain.CompileOutcome{Path: path, Key: key, Err: err}
	}

	post, err := Assemble(key, segments, c.cfg.Parsers)
	if err != nil {
		return domain.CompileOutcome{Path: path, Key: key, Err: err}
	}

	return domain.CompileOutcome{Path: path, Key: key, Post: post}
}

// fold builds the snapshot map and error list from the collected outcomes.
// It runs single-threaded after the join barrier, so the result is
// deterministic for a fixed outcome order.
func (c *Compiler) fold(outcomes []domain.CompileOutcome) (*persistence.Repository, []domain.CompileError) {
	posts := make(map[string]*domain.Post, len(outcomes))
	var errs []domain.CompileError

	for _, outcome := range outcomes {
		if outcome.Err != nil {
			errs = append(errs, domain.CompileError{Path: outcome.Path, Reason: outcome.Err.Error()})
			if c.cfg.LogLevel != zerolog.Disabled {
				log.WithLevel(c.cfg.LogLevel).
					Str("path", outcome.Path).
					Str("reason", outcome.Err.Error()).
					Msg("Failed to compile post")
			}
			continue
		}

		// Last insertion wins on collision. Duplicate keys mean duplicate
		// basenames under the root, which is worth a warning even though
		// the pass continues.
		if _, exists := posts[outcome.Key]; exists && c.cfg.LogLevel != zerolog.Disabled {
			log.Warn().
				Str("key", outcome.Key).
				Str("path", outcome.Path).
				Msg("Duplicate post key, keeping the later file")
		}
		posts[outcome.Key] = outcome.Post
	}

	return persistence.NewRepository(posts), errs
}

// discoverFiles walks root and returns the full paths of all regular files
// whose basename matches the glob pattern.
func discoverFiles(root, pattern string) ([]string, error) {
	// Surface a bad pattern immediately instead of once per file.
	if _, err := filepath.Match(pattern, "probe"); err != nil {
		return nil, fmt.Errorf("invalid file pattern %q: %w", pattern, err)
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		matched, err := filepath.Match(pattern, d.Name())
		if err != nil {
			return err
		}
		if matched {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return paths, nil
}

// deriveKey derives a post's key from its source file basename, minus the
// extension. "content/hello-world.md" -> "hello-world".
func deriveKey(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

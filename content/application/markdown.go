package application

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/dfryer1193/inkwell/content/domain"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// MarkdownOptions controls the goldmark renderer built for a parser role.
type MarkdownOptions struct {
	// BaseURL, when set, rewrites relative links and image sources to
	// absolute URLs under this domain.
	BaseURL string
	// HardWraps renders single newlines as <br>.
	HardWraps bool
	// XHTML emits XHTML-style void elements.
	XHTML bool
	// Unsafe passes raw HTML in the source through to the output.
	Unsafe bool
}

type relativeLinkTransformer struct {
	domain string
}

func (t *relativeLinkTransformer) Transform(node *ast.Document, reader text.Reader, pc parser.Context) {
	ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		link, linkOk := n.(*ast.Link)
		img, imgOk := n.(*ast.Image)
		if !linkOk && !imgOk {
			return ast.WalkContinue, nil
		}

		dest := ""
		if linkOk {
			dest = string(link.Destination)
		} else if imgOk {
			dest = string(img.Destination)
		}

		if isRelativeLink(dest) {
			destFile := path.Base(dest)
			if imgOk {
				img.Destination = []byte(t.domain + "/images/" + destFile)
			} else if linkOk {
				// Strip .md and .html extensions from links
				destFile = strings.TrimSuffix(destFile, ".md")
				destFile = strings.TrimSuffix(destFile, ".html")
				link.Destination = []byte(t.domain + "/" + destFile)
			}
		}

		return ast.WalkContinue, nil
	})
}

func isRelativeLink(dest string) bool {
	// Absolute path check
	if strings.HasPrefix(dest, "/") {
		if strings.HasPrefix(dest, "//") {
			return false
		}
		return true
	}

	if strings.HasPrefix(dest, "./") || strings.HasPrefix(dest, "../") {
		return true
	}

	if strings.Contains(dest, ":") {
		return false
	}

	return true
}

// MarkdownRenderer renders a markdown segment to HTML. It is the default
// renderer for both the excerpt and body roles.
type MarkdownRenderer struct {
	renderer goldmark.Markdown
}

var _ domain.SegmentRenderer = (*MarkdownRenderer)(nil)

func NewMarkdownRenderer(opts MarkdownOptions) *MarkdownRenderer {
	parserOptions := []parser.Option{
		parser.WithAutoHeadingID(),
	}
	if opts.BaseURL != "" {
		parserOptions = append(parserOptions, parser.WithASTTransformers(
			util.Prioritized(&relativeLinkTransformer{domain: strings.TrimSuffix(opts.BaseURL, "/")}, 100),
		))
	}

	var rendererOptions []goldmark.Option
	if opts.HardWraps {
		rendererOptions = append(rendererOptions, goldmark.WithRendererOptions(html.WithHardWraps()))
	}
	if opts.XHTML {
		rendererOptions = append(rendererOptions, goldmark.WithRendererOptions(html.WithXHTML()))
	}
	if opts.Unsafe {
		rendererOptions = append(rendererOptions, goldmark.WithRendererOptions(html.WithUnsafe()))
	}

	options := []goldmark.Option{
		goldmark.WithExtensions(
			extension.GFM,
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
		),
		goldmark.WithParserOptions(parserOptions...),
	}
	options = append(options, rendererOptions...)

	return &MarkdownRenderer{
		renderer: goldmark.New(options...),
	}
}

func (r *MarkdownRenderer) Render(segment string) (string, error) {
	var buf bytes.Buffer
	if err := r.renderer.Convert([]byte(segment), &buf); err != nil {
		return "", fmt.Errorf("failed to convert markdown to HTML: %w", err)
	}
	return buf.String(), nil
}

// RawRenderer passes a segment through untouched. Useful when the source is
// already the desired representation.
type RawRenderer struct{}

var _ domain.SegmentRenderer = RawRenderer{}

func (RawRenderer) Render(segment string) (string, error) {
	return segment, nil
}

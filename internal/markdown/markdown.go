// Package markdown converts lesson pages to HTML. It is a goldmark pipeline
// with one extension of our own: `!!! quiz` admonitions become interactive
// quiz widgets, with authoring mistakes collected per conversion so the
// builder can report them by page and question index.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	gmhtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/studypress/studypress/internal/quiz"
)

// Pipeline is a reusable, stateless Markdown converter. Per-conversion state
// (widget ids, collected quiz issues) lives in a parser.Context, so one
// Pipeline can serve every page of a build.
type Pipeline struct {
	md goldmark.Markdown
}

func New() *Pipeline {
	return &Pipeline{md: goldmark.New(
		goldmark.WithExtensions(extension.GFM, Admonitions),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)}
}

// Convert renders one page body to HTML and returns the quiz issues found in
// it. Issues are authoring errors, not conversion failures: the page still
// renders, with defective questions failing closed inside their widget.
func (p *Pipeline) Convert(source []byte) ([]byte, []QuizIssue, error) {
	var buf bytes.Buffer
	pc := parser.NewContext()
	if err := p.md.Convert(source, &buf, parser.WithContext(pc)); err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), QuizIssues(pc), nil
}

// ExtractQuizzes parses a page without rendering it and returns its quiz
// blocks in document order, plus any authoring issues. Used by the terminal
// quiz runner.
func (p *Pipeline) ExtractQuizzes(source []byte) ([]quiz.QuizBlock, []QuizIssue, error) {
	pc := parser.NewContext()
	root := p.md.Parser().Parse(text.NewReader(source), parser.WithContext(pc))

	var blocks []quiz.QuizBlock
	err := ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if a, ok := n.(*Admonition); ok && a.Quiz != nil {
			blocks = append(blocks, *a.Quiz)
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return blocks, QuizIssues(pc), nil
}

// Admonitions is the goldmark extender for `!!! flavor "Title"` blocks.
var Admonitions = &admonitionExtender{}

type admonitionExtender struct{}

func (e *admonitionExtender) Extend(m goldmark.Markdown) {
	inner := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
	)
	m.Parser().AddOptions(parser.WithBlockParsers(
		util.Prioritized(&admonitionParser{}, 799),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(newAdmonitionRenderer(inner), 500),
	))
}

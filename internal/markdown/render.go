package markdown

import (
	"bytes"
	"fmt"
	"html"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/util"

	"github.com/studypress/studypress/internal/widget"
)

// admonitionRenderer renders quiz admonitions as interactive widgets and
// every other flavor as a plain callout div.
type admonitionRenderer struct {
	// inner renders callout bodies. It has no admonition support, so a
	// callout nested in a callout degrades to literal text.
	inner goldmark.Markdown
}

func newAdmonitionRenderer(inner goldmark.Markdown) renderer.NodeRenderer {
	return &admonitionRenderer{inner: inner}
}

func (r *admonitionRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindAdmonition, r.renderAdmonition)
}

func (r *admonitionRenderer) renderAdmonition(w util.BufWriter, source []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Admonition)

	if n.Flavor == "quiz" && n.Quiz != nil {
		if err := widget.RenderHTML(w, *n.Quiz, n.WidgetID); err != nil {
			return ast.WalkStop, err
		}
		return ast.WalkContinue, nil
	}

	fmt.Fprintf(w, "<div class=\"sp-admonition sp-admonition-%s\">\n", html.EscapeString(n.Flavor))
	if n.Title != "" {
		fmt.Fprintf(w, "<p class=\"sp-admonition-title\">%s</p>\n", html.EscapeString(n.Title))
	}
	var body bytes.Buffer
	if err := r.inner.Convert([]byte(n.BodyText(source)), &body); err != nil {
		return ast.WalkStop, err
	}
	if _, err := w.Write(body.Bytes()); err != nil {
		return ast.WalkStop, err
	}
	if _, err := w.WriteString("</div>\n"); err != nil {
		return ast.WalkStop, err
	}
	return ast.WalkContinue, nil
}

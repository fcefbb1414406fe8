// Package site builds the static textbook: it walks the content tree,
// converts each lesson page, wraps it in the layout, writes the result
// through a Store, and reports every quiz authoring error with the page it
// came from.
package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/studypress/studypress/internal/config"
	"github.com/studypress/studypress/internal/markdown"
)

//go:embed assets
var assetFS embed.FS

// PageIssue is one quiz authoring error located on one page.
type PageIssue struct {
	Page  string // content-relative path, e.g. chapter-1/quiz.md
	Issue markdown.QuizIssue
}

func (p PageIssue) String() string {
	return fmt.Sprintf("%s: %s", p.Page, p.Issue)
}

// Result summarizes one build. Issues being non-empty is not a build failure
// by itself; strict mode turns them into one at the CLI layer.
type Result struct {
	Pages   int
	Skipped int // drafts
	Issues  []PageIssue
}

type Builder struct {
	cfg      config.Config
	pipeline *markdown.Pipeline
	store    Store
	layout   *template.Template
}

func NewBuilder(cfg config.Config, store Store) (*Builder, error) {
	layout, err := template.New("layout").Parse(layoutTemplate)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return &Builder{
		cfg:      cfg,
		pipeline: markdown.New(),
		store:    store,
		layout:   layout,
	}, nil
}

// Build renders every markdown page under the content dir and copies the
// widget assets. It keeps going past quiz authoring errors so one run
// reports all of them.
func (b *Builder) Build() (Result, error) {
	var res Result

	err := filepath.WalkDir(b.cfg.ContentDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(p), ".md") {
			return nil
		}
		rel, err := filepath.Rel(b.cfg.ContentDir, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		source, err := os.ReadFile(p)
		if err != nil {
			return fmt.Errorf("read %s: %w", rel, err)
		}
		issues, skipped, err := b.buildPage(rel, source)
		if err != nil {
			return fmt.Errorf("build %s: %w", rel, err)
		}
		if skipped {
			res.Skipped++
			return nil
		}
		res.Pages++
		for _, is := range issues {
			res.Issues = append(res.Issues, PageIssue{Page: rel, Issue: is})
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	if err := b.copyAssets(); err != nil {
		return Result{}, err
	}
	return res, nil
}

func (b *Builder) buildPage(rel string, source []byte) ([]markdown.QuizIssue, bool, error) {
	meta, body, err := markdown.SplitFrontmatter(source)
	if err != nil {
		return nil, false, err
	}
	if meta.Draft {
		return nil, true, nil
	}

	html, issues, err := b.pipeline.Convert(body)
	if err != nil {
		return nil, false, err
	}

	title := meta.Title
	if title == "" {
		title = pageTitleFromPath(rel)
	}

	var out bytes.Buffer
	err = b.layout.Execute(&out, map[string]any{
		"Site":  b.cfg.Title,
		"Title": title,
		"Body":  template.HTML(html),
	})
	if err != nil {
		return nil, false, err
	}

	if _, err := b.store.Put(outputKey(rel), &out); err != nil {
		return nil, false, err
	}
	return issues, false, nil
}

func (b *Builder) copyAssets() error {
	return fs.WalkDir(assetFS, "assets", func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := assetFS.ReadFile(p)
		if err != nil {
			return err
		}
		_, err = b.store.Put(p, bytes.NewReader(data))
		return err
	})
}

// outputKey maps a source path to its pretty URL: chapter-1/lesson.md becomes
// chapter-1/lesson/index.html, index pages stay where they are.
func outputKey(rel string) string {
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	if path.Base(rel) == "index" {
		return rel + ".html"
	}
	return path.Join(rel, "index.html")
}

func pageTitleFromPath(rel string) string {
	base := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	if base == "index" {
		if dir := path.Base(path.Dir(rel)); dir != "." && dir != "/" {
			base = dir
		}
	}
	base = strings.ReplaceAll(base, "-", " ")
	base = strings.ReplaceAll(base, "_", " ")
	if base == "" {
		return "Untitled"
	}
	return strings.ToUpper(base[:1]) + base[1:]
}

const layoutTemplate = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} · {{.Site}}</title>
<link rel="stylesheet" href="/assets/studypress.css">
<link rel="stylesheet" href="/assets/quiz.css">
</head>
<body>
<main class="sp-page">
{{.Body}}</main>
<script src="/assets/quiz.js" defer></script>
</body>
</html>
`

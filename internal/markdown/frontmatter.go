package markdown

import (
	"bytes"
	"fmt"

	"github.com/adrg/frontmatter"
)

// Meta is the YAML frontmatter of a lesson page. Pages without frontmatter
// get zero values: untitled, published, unordered.
type Meta struct {
	Title  string `yaml:"title"`
	Weight int    `yaml:"weight"`
	Draft  bool   `yaml:"draft"`
}

// SplitFrontmatter separates the frontmatter from the page body. A page with
// no frontmatter block comes back untouched.
func SplitFrontmatter(source []byte) (Meta, []byte, error) {
	var meta Meta
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return Meta{}, nil, fmt.Errorf("parse frontmatter: %w", err)
	}
	return meta, body, nil
}

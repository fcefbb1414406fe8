package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/studypress/studypress/internal/quiz"
)

// KindAdmonition identifies `!!! kind "Title"` blocks in the AST.
var KindAdmonition = ast.NewNodeKind("Admonition")

// Admonition is a callout block. Quiz-flavored admonitions additionally carry
// the parsed QuizBlock; their raw body is consumed by the quiz parser instead
// of the markdown inline parser.
type Admonition struct {
	ast.BaseBlock
	Flavor string
	Title  string

	// Set during parse for Flavor == "quiz".
	Quiz     *quiz.QuizBlock
	WidgetID string
}

func (n *Admonition) Kind() ast.NodeKind { return KindAdmonition }

func (n *Admonition) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{"Flavor": n.Flavor, "Title": n.Title}, nil)
}

// IsRaw keeps goldmark from running inline parsing over the captured body.
func (n *Admonition) IsRaw() bool { return true }

// BodyText reassembles the dedented admonition body from the source.
func (n *Admonition) BodyText(source []byte) string {
	var sb strings.Builder
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		sb.Write(seg.Value(source))
	}
	return sb.String()
}

// QuizIssue ties one parse error to the widget it came from, so builds can
// report page + widget + question index.
type QuizIssue struct {
	Widget string
	Title  string
	Err    quiz.ParseError
}

func (i QuizIssue) String() string {
	name := i.Widget
	if i.Title != "" {
		name = fmt.Sprintf("%s (%q)", i.Widget, i.Title)
	}
	return fmt.Sprintf("%s: %s", name, i.Err.Error())
}

var (
	quizIssuesKey = parser.NewContextKey()
	quizCountKey  = parser.NewContextKey()
)

// QuizIssues returns the quiz parse errors collected during one conversion.
func QuizIssues(pc parser.Context) []QuizIssue {
	if v := pc.Get(quizIssuesKey); v != nil {
		return v.([]QuizIssue)
	}
	return nil
}

func nextWidgetID(pc parser.Context) string {
	n := 0
	if v := pc.Get(quizCountKey); v != nil {
		n = v.(int)
	}
	n++
	pc.Set(quizCountKey, n)
	return fmt.Sprintf("quiz-%d", n)
}

// admonitionParser claims `!!!` blocks and captures their indented body
// verbatim, the way the indented-code-block parser does.
type admonitionParser struct{}

func (p *admonitionParser) Trigger() []byte { return []byte{'!'} }

func (p *admonitionParser) Open(parent ast.Node, reader text.Reader, pc parser.Context) (ast.Node, parser.State) {
	line, segment := reader.PeekLine()
	pos := pc.BlockOffset()
	if pos < 0 || !bytes.HasPrefix(line[pos:], []byte("!!!")) {
		return nil, parser.NoChildren
	}
	flavor, title, ok := parseAdmonitionHeader(string(line[pos:]))
	if !ok {
		return nil, parser.NoChildren
	}
	node := &Admonition{Flavor: flavor, Title: title}
	reader.Advance(segment.Len() - pos - 1)
	return node, parser.NoChildren
}

func (p *admonitionParser) Continue(node ast.Node, reader text.Reader, pc parser.Context) parser.State {
	line, segment := reader.PeekLine()
	if util.IsBlank(line) {
		node.Lines().Append(segment.TrimLeftSpaceWidth(4, reader.Source()))
		return parser.Continue | parser.NoChildren
	}
	pos, padding := util.IndentPosition(line, reader.LineOffset(), 4)
	if pos < 0 {
		return parser.Close
	}
	reader.AdvanceAndSetPadding(pos, padding)
	_, segment = reader.PeekLine()
	node.Lines().Append(segment)
	reader.Advance(segment.Len() - 1)
	return parser.Continue | parser.NoChildren
}

func (p *admonitionParser) Close(node ast.Node, reader text.Reader, pc parser.Context) {
	n := node.(*Admonition)
	if n.Flavor != "quiz" {
		return
	}
	n.WidgetID = nextWidgetID(pc)
	block, errs := quiz.Parse(n.Title, n.BodyText(reader.Source()))
	n.Quiz = &block
	if len(errs) == 0 {
		return
	}
	issues := QuizIssues(pc)
	for _, e := range errs {
		issues = append(issues, QuizIssue{Widget: n.WidgetID, Title: n.Title, Err: e})
	}
	pc.Set(quizIssuesKey, issues)
}

func (p *admonitionParser) CanInterruptParagraph() bool { return false }

func (p *admonitionParser) CanAcceptIndentedLine() bool { return false }

// parseAdmonitionHeader splits `!!! flavor "Optional Title"`.
func parseAdmonitionHeader(s string) (flavor, title string, ok bool) {
	s = strings.TrimPrefix(s, "!!!")
	s = strings.TrimRight(s, "\r\n")
	s = strings.TrimSpace(s)
	if s == "" {
		return "", "", false
	}
	flavor = s
	if i := strings.IndexAny(s, " \t"); i >= 0 {
		flavor, s = s[:i], strings.TrimSpace(s[i+1:])
	} else {
		s = ""
	}
	for _, r := range flavor {
		if !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '-' || r == '_') {
			return "", "", false
		}
	}
	if s != "" {
		if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
			return "", "", false
		}
		title = s[1 : len(s)-1]
	}
	return flavor, title, true
}

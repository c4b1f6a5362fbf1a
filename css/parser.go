package css

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Parser parses CSS stylesheets into lossless node tree.
type Parser struct {
	log *zap.Logger
}

// NewParser creates a new CSS parser.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log.Named("css-parser")}
}

type token struct {
	tt   css.TokenType
	data string
	line int
}

// Parse parses CSS text into a Stylesheet. Serializing result gives back
// original text. The optional source parameter identifies what's being
// parsed (for debug logging).
func (p *Parser) Parse(data []byte, source ...string) (*Stylesheet, error) {
	if len(source) > 0 && source[0] != "" {
		p.log.Debug("Parsing CSS", zap.String("source", source[0]), zap.Int("bytes", len(data)))
	}

	toks, err := tokenize(data)
	if err != nil {
		return nil, fmt.Errorf("unable to tokenize stylesheet: %w", err)
	}

	c := &cursor{toks: toks}
	sheet := &Stylesheet{}
	sheet.Nodes, sheet.After, _ = c.nodes(nil)

	p.log.Debug("Parsed CSS", zap.Int("tokens", len(toks)), zap.Int("nodes", len(sheet.Nodes)))
	return sheet, nil
}

// tokenize splits input into lexer tokens keeping everything, including
// whitespace and comments, and remembers source line for each token.
func tokenize(data []byte) ([]token, error) {
	l := css.NewLexer(parse.NewInput(bytes.NewReader(data)))

	var toks []token
	line := 1
	for {
		tt, text := l.Next()
		if tt == css.ErrorToken {
			if err := l.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			return toks, nil
		}
		s := string(text)
		toks = append(toks, token{tt: tt, data: s, line: line})
		line += strings.Count(s, "\n")
	}
}

type cursor struct {
	toks []token
	pos  int
}

func (c *cursor) peek() *token {
	if c.pos >= len(c.toks) {
		return nil
	}
	return &c.toks[c.pos]
}

func (c *cursor) whitespace() string {
	var sb strings.Builder
	for t := c.peek(); t != nil && t.tt == css.WhitespaceToken; t = c.peek() {
		sb.WriteString(t.data)
		c.pos++
	}
	return sb.String()
}

func (c *cursor) text(from, to int) string {
	var sb strings.Builder
	for i := from; i < to; i++ {
		sb.WriteString(c.toks[i].data)
	}
	return sb.String()
}

// significant is like text, but skips comments.
func (c *cursor) significant(from, to int) string {
	var sb strings.Builder
	for i := from; i < to; i++ {
		if c.toks[i].tt != css.CommentToken {
			sb.WriteString(c.toks[i].data)
		}
	}
	return sb.String()
}

// nodes reads sibling nodes until closing brace of the parent block or end
// of input. It returns nodes, whitespace before the closing brace and
// whether the brace was found.
func (c *cursor) nodes(parent *Node) ([]*Node, string, bool) {
	var nodes []*Node
	for {
		ws := c.whitespace()
		t := c.peek()
		if t == nil {
			return nodes, ws, false
		}

		switch t.tt {
		case css.RightBraceToken:
			c.pos++
			if parent != nil {
				return nodes, ws, true
			}
			// unbalanced brace on top level, keep it as is
			nodes = append(nodes, &Node{Type: NodeDecl, Line: t.line, Before: ws, Raw: t.data})
		case css.CommentToken:
			c.pos++
			nodes = append(nodes, &Node{
				Type:   NodeComment,
				Line:   t.line,
				Before: ws,
				Raw:    t.data,
				Text:   commentText(t.data),
				parent: parent,
			})
		default:
			nodes = append(nodes, c.node(parent, ws))
		}
	}
}

// node reads rule, at-rule or declaration starting at current position.
func (c *cursor) node(parent *Node, ws string) *Node {
	start := c.toks[c.pos]
	n := &Node{Line: start.line, Before: ws, parent: parent}
	at := start.tt == css.AtKeywordToken

	from := c.pos
	end := c.prelude()
	// last significant token of the prelude
	last := end
	for last > from && c.toks[last-1].tt == css.WhitespaceToken {
		last--
	}

	var terminator css.TokenType = css.ErrorToken
	if end < len(c.toks) {
		terminator = c.toks[end].tt
	}

	switch terminator {
	case css.LeftBraceToken:
		prelude := c.text(from, last)
		if at {
			n.Type = NodeAtRule
			n.Selector = start.data
			n.Params = strings.TrimPrefix(prelude, start.data)
		} else {
			n.Type = NodeRule
			// comments and whitespace closing the selector go to Between
			for last > from && (c.toks[last-1].tt == css.WhitespaceToken || c.toks[last-1].tt == css.CommentToken) {
				last--
			}
			n.rawSelector = c.text(from, last)
			n.Selector = c.significant(from, last)
			n.parsedSelector = n.Selector
		}
		n.Between = c.text(last, end)
		n.block = true
		c.pos = end + 1
		n.Nodes, n.After, n.closed = c.nodes(n)
	case css.SemicolonToken:
		n.Type = NodeDecl
		if at {
			n.Type = NodeAtRule
			n.Selector = start.data
		}
		n.Raw = c.text(from, end+1)
		c.pos = end + 1
	default:
		// closing brace or end of input, trailing whitespace belongs to the
		// enclosing block
		n.Type = NodeDecl
		if at {
			n.Type = NodeAtRule
			n.Selector = start.data
		}
		n.Raw = c.text(from, last)
		c.pos = last
	}
	return n
}

// prelude finds position of the token which terminates current node: opening
// brace, semicolon or closing brace outside of any parentheses and brackets.
// Returns len(toks) if input ends first.
func (c *cursor) prelude() int {
	depth := 0
	for i := c.pos; i < len(c.toks); i++ {
		switch c.toks[i].tt {
		case css.LeftParenthesisToken, css.FunctionToken, css.LeftBracketToken:
			depth++
		case css.RightParenthesisToken, css.RightBracketToken:
			if depth > 0 {
				depth--
			}
		case css.LeftBraceToken, css.SemicolonToken, css.RightBraceToken:
			if depth == 0 {
				return i
			}
		}
	}
	return len(c.toks)
}

func commentText(raw string) string {
	s := strings.TrimPrefix(raw, "/*")
	s = strings.TrimSuffix(s, "*/")
	return strings.TrimSpace(s)
}

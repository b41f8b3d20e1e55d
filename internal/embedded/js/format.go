// Package js beautifies script text. tree-sitter validates the syntax;
// the beautifier itself preserves the author's line structure and only
// normalizes indentation, tracking strings, comments and template
// literals so braces inside them do not count.
package js

import (
	"fmt"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
)

var jsLang = sitter.NewLanguage(tree_sitter_javascript.Language())

// parserPool is a pool of reusable JS parsers.
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(jsLang); err != nil {
			panic(fmt.Sprintf("failed to set JS language: %v", err))
		}
		return parser
	},
}

// Format validates source and re-indents it with one indentUnit per
// brace/bracket/paren nesting level. A syntax error is fatal and reported
// with its line number.
func Format(source, indentUnit string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", nil
	}
	if err := validate(source); err != nil {
		return "", err
	}
	return reindent(source, indentUnit), nil
}

func validate(source string) error {
	parser := parserPool.Get().(*sitter.Parser)
	parser.Reset()
	defer parserPool.Put(parser)

	tree := parser.Parse([]byte(source), nil)
	if tree == nil {
		return fmt.Errorf("failed to parse script")
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}
	if bad := firstErrorNode(root); bad != nil {
		return fmt.Errorf("script syntax error at line %d", bad.StartPosition().Row+1)
	}
	return fmt.Errorf("script syntax error")
}

func firstErrorNode(n *sitter.Node) *sitter.Node {
	if n.Kind() == "ERROR" || n.IsMissing() {
		return n
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if bad := firstErrorNode(n.Child(i)); bad != nil {
			return bad
		}
	}
	return nil
}

// context is one entry of the lexical nesting stack: either plain code or
// the inside of a template literal.
type context struct {
	template bool
	braces   int // open braces of a ${...} substitution context
}

type reindenter struct {
	depth          int
	stack          []context
	inBlockComment bool
}

func reindent(source, unit string) string {
	r := &reindenter{stack: []context{{}}}

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = append(out, r.line(line, unit))
	}
	return strings.Join(out, "\n")
}

func (r *reindenter) line(line, unit string) string {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return ""
	}

	// Template literal bodies keep their exact text; indentation inside
	// them is content, not layout.
	if r.current().template {
		r.scan(trimmed)
		return line
	}
	if r.inBlockComment {
		r.scan(trimmed)
		return strings.Repeat(unit, r.depth) + trimmed
	}

	lead := 0
	for lead < len(trimmed) && strings.ContainsRune(")]}", rune(trimmed[lead])) {
		lead++
	}
	level := max(r.depth-lead, 0)

	r.scan(trimmed)
	return strings.Repeat(unit, level) + trimmed
}

// scan advances the lexical state over one line of text.
func (r *reindenter) scan(s string) {
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]

		if r.inBlockComment {
			if c == '*' && i+1 < len(s) && s[i+1] == '/' {
				r.inBlockComment = false
				i++
			}
			continue
		}
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		if r.current().template {
			switch {
			case c == '\\':
				i++
			case c == '`':
				r.pop()
			case c == '$' && i+1 < len(s) && s[i+1] == '{':
				r.push(context{})
				i++
			}
			continue
		}

		switch c {
		case '\'', '"':
			quote = c
		case '`':
			r.push(context{template: true})
		case '/':
			if i+1 < len(s) {
				switch s[i+1] {
				case '/':
					return // line comment
				case '*':
					r.inBlockComment = true
					i++
				}
			}
		case '(', '[':
			r.depth++
		case ')', ']':
			r.depth = max(r.depth-1, 0)
		case '{':
			r.depth++
			if len(r.stack) > 1 {
				r.top().braces++
			}
		case '}':
			if len(r.stack) > 1 {
				if r.top().braces == 0 {
					// Closes a ${...} substitution, back into the
					// template literal. The substitution never opened a
					// level, so depth stays put.
					r.pop()
					break
				}
				r.top().braces--
			}
			r.depth = max(r.depth-1, 0)
		}
	}
}

func (r *reindenter) current() context { return r.stack[len(r.stack)-1] }
func (r *reindenter) top() *context    { return &r.stack[len(r.stack)-1] }
func (r *reindenter) push(c context)   { r.stack = append(r.stack, c) }
func (r *reindenter) pop() {
	if len(r.stack) > 1 {
		r.stack = r.stack[:len(r.stack)-1]
	}
}

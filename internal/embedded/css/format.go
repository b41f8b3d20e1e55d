// Package css pretty-prints style-sheet text. It parses with tree-sitter
// and reprints the tree, so the input must be syntactically valid CSS; the
// caller is expected to have shielded any non-CSS syntax beforehand.
package css

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/mazznoer/csscolorparser"
	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_css "github.com/tree-sitter/tree-sitter-css/bindings/go"
)

var cssLang = sitter.NewLanguage(tree_sitter_css.Language())

// parserPool is a pool of reusable CSS parsers.
var parserPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(cssLang); err != nil {
			panic(fmt.Sprintf("failed to set CSS language: %v", err))
		}
		return parser
	},
}

// Format reprints source with one indentUnit per nesting level. A parse
// error is fatal and reported with its line number.
func Format(source, indentUnit string) (string, error) {
	if strings.TrimSpace(source) == "" {
		return "", nil
	}

	parser := parserPool.Get().(*sitter.Parser)
	parser.Reset()
	defer parserPool.Put(parser)

	src := []byte(source)
	tree := parser.Parse(src, nil)
	if tree == nil {
		return "", fmt.Errorf("failed to parse style sheet")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return "", syntaxError(root)
	}

	var b strings.Builder
	for i := uint(0); i < root.NamedChildCount(); i++ {
		printStatement(root.NamedChild(i), src, 0, indentUnit, &b)
	}
	return strings.TrimRight(b.String(), "\n") + "\n", nil
}

// printStatement renders one statement node. Anything carrying a block
// (rule sets, at-rules, keyframe blocks) recurses one level deeper;
// declarations and blockless statements render on a single line.
func printStatement(n *sitter.Node, src []byte, depth int, unit string, b *strings.Builder) {
	ind := strings.Repeat(unit, depth)

	switch n.Kind() {
	case "comment":
		b.WriteString(ind + text(n, src) + "\n")
		return
	case "declaration":
		b.WriteString(ind + printDeclaration(n, src) + "\n")
		return
	}

	if block := blockChild(n); block != nil {
		prelude := strings.TrimSpace(collapseWhitespace(string(src[n.StartByte():block.StartByte()])))
		b.WriteString(ind + prelude + " {\n")
		for i := uint(0); i < block.NamedChildCount(); i++ {
			printStatement(block.NamedChild(i), src, depth+1, unit, b)
		}
		b.WriteString(ind + "}\n")
		return
	}

	// Blockless statements such as @import or @charset keep their text,
	// collapsed onto one line.
	b.WriteString(ind + strings.TrimSpace(collapseWhitespace(text(n, src))) + "\n")
}

func printDeclaration(n *sitter.Node, src []byte) string {
	var property string
	valueStart := n.StartByte()
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		switch child.Kind() {
		case "property_name":
			property = text(child, src)
		case ":":
			valueStart = child.EndByte()
		}
	}
	if property == "" {
		return strings.TrimSpace(collapseWhitespace(text(n, src)))
	}

	value := string(src[valueStart:n.EndByte()])
	value = strings.TrimRight(strings.TrimSpace(value), ";")
	value = strings.TrimSpace(collapseWhitespace(value))
	return property + ": " + normalizeHexColors(value) + ";"
}

func blockChild(n *sitter.Node) *sitter.Node {
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if kind := child.Kind(); kind == "block" || kind == "keyframe_block_list" {
			return child
		}
	}
	return nil
}

func syntaxError(root *sitter.Node) error {
	if bad := firstErrorNode(root); bad != nil {
		row := bad.StartPosition().Row
		return fmt.Errorf("style sheet syntax error at line %d", row+1)
	}
	return fmt.Errorf("style sheet syntax error")
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

func text(n *sitter.Node, src []byte) string {
	return string(src[n.StartByte():n.EndByte()])
}

var whitespaceRunRe = regexp.MustCompile(`\s+`)

func collapseWhitespace(s string) string {
	return whitespaceRunRe.ReplaceAllString(s, " ")
}

var hexColorRe = regexp.MustCompile(`#[0-9A-Fa-f]+\b`)

// normalizeHexColors lowercases hex color literals that parse as colors.
// Anything csscolorparser rejects is left untouched.
func normalizeHexColors(s string) string {
	return hexColorRe.ReplaceAllStringFunc(s, func(m string) string {
		if _, err := csscolorparser.Parse(m); err != nil {
			return m
		}
		return strings.ToLower(m)
	})
}

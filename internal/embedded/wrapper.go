package embedded

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_html "github.com/tree-sitter/tree-sitter-html/bindings/go"
)

// wrapper is the decomposed shape of a <script> or <style> span: the start
// tag verbatim (attributes untouched), the inner content, and the end tag.
type wrapper struct {
	startTag string
	content  string
	endTag   string
	empty    bool
}

var htmlLang = sitter.NewLanguage(tree_sitter_html.Language())

// wrapperPool is a pool of reusable HTML parsers for wrapper decomposition.
var wrapperPool = sync.Pool{
	New: func() any {
		parser := sitter.NewParser()
		if err := parser.SetLanguage(htmlLang); err != nil {
			panic(fmt.Sprintf("failed to set HTML language: %v", err))
		}
		return parser
	},
}

func acquireWrapperParser() *sitter.Parser {
	p := wrapperPool.Get().(*sitter.Parser)
	p.Reset()
	return p
}

func releaseWrapperParser(p *sitter.Parser) {
	if p != nil {
		wrapperPool.Put(p)
	}
}

var selfClosingRe = regexp.MustCompile(`(?is)^<(script|style)\b[^>]*/>\s*$`)

// parseWrapper splits a raw element span into start tag, content and end
// tag using the HTML grammar. A span that does not decompose into the
// expected shape is a structural error.
func parseWrapper(raw, tag string) (*wrapper, error) {
	parser := acquireWrapperParser()
	defer releaseWrapperParser(parser)

	tree := parser.Parse([]byte(raw), nil)
	if tree == nil {
		return nil, &StructuralError{Tag: tag, Reason: "unparseable element span"}
	}
	defer tree.Close()

	element := findKind(tree.RootNode(), tag+"_element")
	if element == nil {
		return nil, &StructuralError{Tag: tag, Reason: fmt.Sprintf("expected a <%s>...</%s> wrapper", tag, tag)}
	}

	var startTag, content, endTag *sitter.Node
	for i := uint(0); i < element.ChildCount(); i++ {
		child := element.Child(i)
		switch child.Kind() {
		case "start_tag":
			startTag = child
		case "raw_text":
			content = child
		case "end_tag":
			endTag = child
		}
	}
	if startTag == nil || endTag == nil {
		return nil, &StructuralError{Tag: tag, Reason: "missing start or end tag"}
	}

	w := &wrapper{
		startTag: raw[startTag.StartByte():startTag.EndByte()],
		endTag:   raw[endTag.StartByte():endTag.EndByte()],
	}
	if content != nil {
		w.content = raw[content.StartByte():content.EndByte()]
	}
	w.empty = strings.TrimSpace(w.content) == ""
	return w, nil
}

func findKind(n *sitter.Node, kind string) *sitter.Node {
	if n == nil {
		return nil
	}
	if n.Kind() == kind {
		return n
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		if found := findKind(n.Child(i), kind); found != nil {
			return found
		}
	}
	return nil
}

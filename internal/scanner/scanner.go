// Package scanner tokenizes raw template text into the flat node stream
// defined by the ast package. Opening and closing tags come out as sibling
// nodes; the printer reconstructs nesting through its indentation counter.
package scanner

import (
	"strings"

	"bladefmt.dev/bladefmt/internal/ast"
	"bladefmt.dev/bladefmt/internal/tags"
)

// Scan tokenizes source. The scanner is total: malformed input degrades to
// text or to spans running to end of input, never to a failure.
func Scan(source string) *ast.Document {
	s := &scanner{src: source}
	s.run()
	return &ast.Document{
		Span:     ast.Span{Start: 0, End: len(source)},
		Children: s.nodes,
	}
}

type scanner struct {
	src       string
	pos       int
	textStart int // -1 when no text run is open
	nodes     []ast.Node
}

func (s *scanner) run() {
	s.textStart = -1
	for s.pos < len(s.src) {
		switch c := s.src[s.pos]; {
		case c == '\r' && s.lookingAt("\r\n"):
			s.flushText(s.pos)
			s.emit(&ast.LineBreak{Span: s.span(s.pos, s.pos+2), Value: "\n"})
			s.pos += 2
		case c == '\n':
			s.flushText(s.pos)
			s.emit(&ast.LineBreak{Span: s.span(s.pos, s.pos+1), Value: "\n"})
			s.pos++
		case c == '<':
			if !s.scanAngle() {
				s.text()
			}
		case c == '{' && s.lookingAt("{{"):
			s.flushText(s.pos)
			s.scanMustache()
		case c == '@':
			if !s.scanAt() {
				s.text()
			}
		default:
			s.text()
		}
	}
	s.flushText(s.pos)
}

// text extends the current text run by one byte.
func (s *scanner) text() {
	if s.textStart < 0 {
		s.textStart = s.pos
	}
	s.pos++
}

// flushText closes the open text run, dropping whitespace-only segments
// (source indentation is layout, not content).
func (s *scanner) flushText(end int) {
	if s.textStart < 0 || end <= s.textStart {
		return
	}
	value := s.src[s.textStart:end]
	if strings.TrimSpace(value) != "" {
		s.emit(&ast.Text{Span: s.span(s.textStart, end), Value: value})
	}
	s.textStart = -1
}

func (s *scanner) emit(n ast.Node) { s.nodes = append(s.nodes, n) }

func (s *scanner) span(start, end int) ast.Span { return ast.Span{Start: start, End: end} }

func (s *scanner) lookingAt(prefix string) bool {
	return strings.HasPrefix(s.src[s.pos:], prefix)
}

func (s *scanner) lookingAtFold(prefix string) bool {
	if s.pos+len(prefix) > len(s.src) {
		return false
	}
	return strings.EqualFold(s.src[s.pos:s.pos+len(prefix)], prefix)
}

// until returns the end offset just past the first occurrence of marker,
// or end of input when the marker never appears.
func (s *scanner) until(from int, marker string) int {
	if idx := strings.Index(s.src[from:], marker); idx >= 0 {
		return from + idx + len(marker)
	}
	return len(s.src)
}

func (s *scanner) scanMustache() {
	start := s.pos
	switch {
	case s.lookingAt("{{--"):
		end := s.until(start+4, "--}}")
		s.emit(&ast.TemplateComment{Span: s.span(start, end), Value: s.src[start:end]})
		s.pos = end
	case s.lookingAt("{{{"):
		end := s.until(start+3, "}}}")
		s.emit(&ast.SafeMustache{Span: s.span(start, end), Value: s.src[start:end]})
		s.pos = end
	default:
		end := s.until(start+2, "}}")
		s.emit(&ast.Mustache{Span: s.span(start, end), Value: s.src[start:end]})
		s.pos = end
	}
}

/// scanAt handles '@': an escaped mustache, a directive, or plain text.
// A '@' glued to a preceding word (user@example.com) stays text.
func (s *scanner) scanAt() bool {
	if s.lookingAt("@{{") {
		s.flushText(s.pos)
		start := s.pos
		end := s.until(start+3, "}}")
		s.emit(&ast.EscapedMustache{Span: s.span(start, end), Value: s.src[start:end]})
		s.pos = end
		return true
	}

	if s.pos > 0 && isWordByte(s.src[s.pos-1]) {
		return false
	}
	name, nameEnd := readWord(s.src, s.pos+1)
	if name == "" {
		return false
	}

	if end, ok := s.rawBlockEnd(name, nameEnd); ok {
		s.flushText(s.pos)
		start := s.pos
		s.emit(&ast.RawBlock{Span: s.span(start, end), Value: s.src[start:end]})
		s.pos = end
		return true
	}

	s.flushText(s.pos)
	start := s.pos
	end := skipParens(s.src, nameEnd)
	s.emit(&ast.Directive{Span: s.span(start, end), Value: s.src[start:end]})
	s.pos = end
	return true
}

// rawBlockEnd reports the end of a raw @verbatim or argument-less @php
// span, whose body is literal output and must survive byte for byte.
// Returns ok=false when the keyword is not a raw-block opener or the
// closer never appears; an unclosed opener degrades to a plain directive.
func (s *scanner) rawBlockEnd(name string, nameEnd int) (int, bool) {
	var closer string
	switch name {
	case "verbatim":
		closer = "@endverbatim"
	case "php":
		// @php(...) is the single-line form.
		if skipParens(s.src, nameEnd) != nameEnd {
			return 0, false
		}
		closer = "@endphp"
	default:
		return 0, false
	}
	idx := strings.Index(s.src[nameEnd:], closer)
	if idx < 0 {
		return 0, false
	}
	return nameEnd + idx + len(closer), true
}

// scanAngle handles '<'. Returns false when the byte is plain text.
func (s *scanner) scanAngle() bool {
	switch {
	case s.lookingAt("<!--[if") || s.lookingAt("<!--<!["):
		s.flushText(s.pos)
		start := s.pos
		end := s.until(start, "<![endif]-->")
		if end == len(s.src) && !strings.HasSuffix(s.src[start:end], "<![endif]-->") {
			end = s.until(start, "-->")
		}
		s.emit(&ast.ConditionalComment{Span: s.span(start, end), Value: s.src[start:end]})
		s.pos = end
	case s.lookingAt("<!--"):
		s.flushText(s.pos)
		start := s.pos
		end := s.until(start+4, "-->")
		s.emit(&ast.HTMLComment{Span: s.span(start, end), Value: s.src[start:end]})
		s.pos = end
	case s.lookingAt("<![CDATA["):
		s.flushText(s.pos)
		start := s.pos
		end := s.until(start+9, "]]>")
		s.emit(&ast.CDATA{Span: s.span(start, end), Value: s.src[start:end]})
		s.pos = end
	case s.lookingAt("<!"):
		s.flushText(s.pos)
		start := s.pos
		end := s.until(start+2, ">")
		s.emit(&ast.Doctype{Span: s.span(start, end), Value: s.src[start:end]})
		s.pos = end
	case s.lookingAt("<?"):
		s.flushText(s.pos)
		start := s.pos
		end := s.until(start+2, "?>")
		s.emit(&ast.ProcessingInstruction{Span: s.span(start, end), Value: s.src[start:end]})
		s.pos = end
	case s.lookingAt("</"):
		name, _ := readName(s.src, s.pos+2)
		if name == "" {
			return false
		}
		s.flushText(s.pos)
		start := s.pos
		end := s.until(start+2, ">")
		s.emit(&ast.ClosingTag{Span: s.span(start, end), Name: name})
		s.pos = end
	case s.rawElementAt("<script"):
		s.scanRawElement("script")
	case s.rawElementAt("<style"):
		s.scanRawElement("style")
	default:
		name, _ := readName(s.src, s.pos+1)
		if name == "" {
			return false
		}
		s.flushText(s.pos)
		s.scanTag(name)
	}
	return true
}

// rawElementAt reports whether pos starts a <script or <style tag with a
// proper name boundary.
func (s *scanner) rawElementAt(prefix string) bool {
	if !s.lookingAtFold(prefix) {
		return false
	}
	after := s.pos + len(prefix)
	if after >= len(s.src) {
		return true
	}
	switch s.src[after] {
	case ' ', '\t', '\n', '\r', '>', '/':
		return true
	}
	return false
}

// scanRawElement captures an entire <script>/<style> span, end tag
// included, as one opaque node.
func (s *scanner) scanRawElement(tag string) {
	s.flushText(s.pos)
	start := s.pos

	// A self-closing form has no raw content to skip over.
	tagEnd := s.until(start, ">")
	if strings.HasSuffix(strings.TrimRight(s.src[start:tagEnd], " \t"), "/>") {
		s.emitRawElement(tag, start, tagEnd)
		return
	}

	closer := "</" + tag
	idx := indexFold(s.src, tagEnd, closer)
	if idx < 0 {
		s.emitRawElement(tag, start, len(s.src))
		return
	}
	end := s.until(idx, ">")
	s.emitRawElement(tag, start, end)
}

func (s *scanner) emitRawElement(tag string, start, end int) {
	value := s.src[start:end]
	if tag == "script" {
		s.emit(&ast.ScriptElement{Span: s.span(start, end), Value: value})
	} else {
		s.emit(&ast.StyleElement{Span: s.span(start, end), Value: value})
	}
	s.pos = end
}

// scanTag reads an opening or void tag, splitting its internals into
// attributes, mustache props, directive props and comment props.
func (s *scanner) scanTag(name string) {
	start := s.pos
	_, s.pos = readName(s.src, s.pos+1)

	var (
		attrs      []ast.Attribute
		rawProps   []string
		props      []string
		directives []string
		comments   []string
	)
	selfClosed := false

	for s.pos < len(s.src) {
		s.skipSpace()
		if s.pos >= len(s.src) {
			break
		}
		c := s.src[s.pos]
		if c == '>' {
			s.pos++
			break
		}
		if c == '/' && s.pos+1 < len(s.src) && s.src[s.pos+1] == '>' {
			selfClosed = true
			s.pos += 2
			break
		}
		switch {
		case s.lookingAt("{{--"):
			end := s.until(s.pos+4, "--}}")
			comments = append(comments, s.src[s.pos:end])
			s.pos = end
		case s.lookingAt("{{{"):
			end := s.until(s.pos+3, "}}}")
			rawProps = append(rawProps, s.src[s.pos:end])
			s.pos = end
		case s.lookingAt("@{{"):
			end := s.until(s.pos+3, "}}")
			props = append(props, s.src[s.pos:end])
			s.pos = end
		case s.lookingAt("{{"):
			end := s.until(s.pos+2, "}}")
			props = append(props, s.src[s.pos:end])
			s.pos = end
		case c == '@':
			attrName, nameEnd := readAttrName(s.src, s.pos+1)
			if attrName == "" {
				s.pos++
				continue
			}
			// Alpine-style @event="..." bindings are attributes, not
			// directives.
			if nameEnd < len(s.src) && s.src[nameEnd] == '=' {
				attrs = append(attrs, s.scanAttribute("@"+attrName, nameEnd))
				continue
			}
			end := skipParens(s.src, nameEnd)
			directives = append(directives, s.src[s.pos:end])
			s.pos = end
		default:
			attrName, nameEnd := readAttrName(s.src, s.pos)
			if attrName == "" {
				s.pos++
				continue
			}
			if nameEnd < len(s.src) && s.src[nameEnd] == '=' {
				attrs = append(attrs, s.scanAttribute(attrName, nameEnd))
				continue
			}
			attrs = append(attrs, ast.Attribute{Span: s.span(s.pos, nameEnd), Name: attrName})
			s.pos = nameEnd
		}
	}

	span := s.span(start, s.pos)
	if selfClosed || tags.IsVoid(name) {
		s.emit(&ast.VoidTag{Span: span, Name: name, Attributes: attrs, RawProps: rawProps, Props: props, Directives: directives, Comments: comments})
		return
	}
	s.emit(&ast.OpeningTag{Span: span, Name: name, Attributes: attrs, RawProps: rawProps, Props: props, Directives: directives, Comments: comments})
}

// scanAttribute reads the ="value" part of an attribute, eq pointing at
// the '='. Values keep their raw text; the printer never reformats them.
func (s *scanner) scanAttribute(name string, eq int) ast.Attribute {
	start := s.pos
	pos := eq + 1
	if pos < len(s.src) && (s.src[pos] == '"' || s.src[pos] == '\'') {
		quote := s.src[pos]
		end := strings.IndexByte(s.src[pos+1:], quote)
		if end < 0 {
			value := s.src[pos+1:]
			s.pos = len(s.src)
			return ast.Attribute{Span: s.span(start, s.pos), Name: name, Value: value, HasValue: true}
		}
		value := s.src[pos+1 : pos+1+end]
		s.pos = pos + 1 + end + 1
		return ast.Attribute{Span: s.span(start, s.pos), Name: name, Value: value, HasValue: true}
	}

	end := pos
	for end < len(s.src) && !isSpaceByte(s.src[end]) && s.src[end] != '>' {
		end++
	}
	value := s.src[pos:end]
	s.pos = end
	return ast.Attribute{Span: s.span(start, s.pos), Name: name, Value: value, HasValue: true}
}

func (s *scanner) skipSpace() {
	for s.pos < len(s.src) && isSpaceByte(s.src[s.pos]) {
		s.pos++
	}
}

func isSpaceByte(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// readWord reads an ASCII directive keyword.
func readWord(src string, pos int) (string, int) {
	end := pos
	for end < len(src) && isWordByte(src[end]) {
		end++
	}
	return src[pos:end], end
}

// readName reads a tag name: a letter followed by name characters.
func readName(src string, pos int) (string, int) {
	if pos >= len(src) {
		return "", pos
	}
	c := src[pos]
	if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z') {
		return "", pos
	}
	end := pos + 1
	for end < len(src) {
		c := src[end]
		if isWordByte(c) || c == '-' || c == ':' || c == '_' || c == '.' {
			end++
			continue
		}
		break
	}
	return src[pos:end], end
}

// readAttrName reads an attribute name, which admits a wider character set
// than tag names (x-data, :class, data-foo.bar).
func readAttrName(src string, pos int) (string, int) {
	end := pos
	for end < len(src) {
		c := src[end]
		if isWordByte(c) || c == '-' || c == ':' || c == '_' || c == '.' || c == '#' {
			end++
			continue
		}
		break
	}
	return src[pos:end], end
}

// skipParens advances past an optional balanced parenthesized argument
// list, keeping an integer nesting depth and skipping string literals.
func skipParens(src string, pos int) int {
	probe := pos
	for probe < len(src) && (src[probe] == ' ' || src[probe] == '\t') {
		probe++
	}
	if probe >= len(src) || src[probe] != '(' {
		return pos
	}

	depth := 0
	var quote byte
	for i := probe; i < len(src); i++ {
		c := src[i]
		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"':
			quote = c
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return pos
}

// indexFold finds the first case-insensitive occurrence of needle in src
// at or after from.
func indexFold(src string, from int, needle string) int {
	idx := strings.Index(strings.ToLower(src[from:]), strings.ToLower(needle))
	if idx < 0 {
		return -1
	}
	return from + idx
}

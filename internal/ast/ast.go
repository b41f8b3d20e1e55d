// Package ast defines the node model for Blade-style templates.
//
// The scanner produces a flat stream of sibling nodes: opening and closing
// tags are separate nodes, and nesting is reconstructed by the printer's
// indentation counter. Every node records the byte range it was scanned
// from; offsets are diagnostic only and never influence output.
package ast

// Node is the sealed interface implemented by every template node.
type Node interface {
	// Offsets returns the start and end byte offsets of the node in the
	// original source.
	Offsets() (start, end int)

	node()
}

// Span is the source byte range embedded in every node.
type Span struct {
	Start int
	End   int
}

// Offsets implements Node.
func (s Span) Offsets() (int, int) { return s.Start, s.End }

func (Span) node() {}

// Document is the root node. It only ever appears at the top of a tree.
type Document struct {
	Span
	Children []Node
}

// Text is a run of literal text. It may span multiple lines.
type Text struct {
	Span
	Value string
}

// LineBreak is a single literal line break, kept distinct from Text so the
// printer can cap blank-line runs.
type LineBreak struct {
	Span
	Value string
}

// Attribute is a markup attribute: a name with an optional value.
type Attribute struct {
	Span
	Name     string
	Value    string
	HasValue bool
}

// OpeningTag is a markup tag that expects a matching ClosingTag later in
// the stream. The prop groups preserve source order within each group.
type OpeningTag struct {
	Span
	Name       string
	Attributes []Attribute
	RawProps   []string // {{{ ... }}} props
	Props      []string // {{ ... }} props
	Directives []string // @name(...) props
	Comments   []string // {{-- ... --}} props
}

// VoidTag is a childless tag with no closing counterpart. It renders with a
// self-closing marker.
type VoidTag struct {
	Span
	Name       string
	Attributes []Attribute
	RawProps   []string
	Props      []string
	Directives []string
	Comments   []string
}

// ClosingTag closes a previously opened tag.
type ClosingTag struct {
	Span
	Name string
}

// Directive is a control-block tag: a raw textual directive such as
// @if ($cond), @foreach (...), @endif or @include('view'). The printer
// treats the body as opaque except for indentation.
type Directive struct {
	Span
	Value string
}

// RawBlock is a paired raw-output span, @verbatim ... @endverbatim or
// argument-less @php ... @endphp, captured whole. The body is literal
// output and is never reformatted.
type RawBlock struct {
	Span
	Value string
}

// Mustache is a plain interpolation: {{ expr }}.
type Mustache struct {
	Span
	Value string
}

// EscapedMustache is an interpolation escaped for literal output:
// @{{ expr }}.
type EscapedMustache struct {
	Span
	Value string
}

// SafeMustache is a raw interpolation: {{{ expr }}}.
type SafeMustache struct {
	Span
	Value string
}

// TemplateComment is a template-engine comment: {{-- ... --}}.
type TemplateComment struct {
	Span
	Value string
}

// HTMLComment is a markup comment: <!-- ... -->.
type HTMLComment struct {
	Span
	Value string
}

// ConditionalComment is a downlevel conditional comment:
// <!--[if ...]> ... <![endif]-->.
type ConditionalComment struct {
	Span
	Value string
}

// CDATA is a <![CDATA[ ... ]]> section.
type CDATA struct {
	Span
	Value string
}

// Doctype is a <!DOCTYPE ...> declaration.
type Doctype struct {
	Span
	Value string
}

// ProcessingInstruction is a <? ... ?> instruction.
type ProcessingInstruction struct {
	Span
	Value string
}

// ScriptElement holds an entire <script ...>...</script> span as one
// opaque string, attributes included.
type ScriptElement struct {
	Span
	Value string
}

// StyleElement holds an entire <style ...>...</style> span as one opaque
// string, attributes included.
type StyleElement struct {
	Span
	Value string
}

// Package printer renders a scanned template node stream as canonical,
// whitespace-normalized text. One Printer serves exactly one Print call;
// all state (the indentation counter, the output accumulator) is scoped to
// the value, so independent documents can be formatted concurrently.
package printer

import (
	"strings"

	"bladefmt.dev/bladefmt/internal/ast"
	"bladefmt.dev/bladefmt/internal/config"
	"bladefmt.dev/bladefmt/internal/embedded"
	"bladefmt.dev/bladefmt/internal/log"
	"bladefmt.dev/bladefmt/internal/tags"
)

// Reprint re-formats an extracted template fragment at the given absolute
// indentation level. It is wired by the public Format entry point; the
// indirection keeps this package free of a dependency on the scanner.
type Reprint func(fragment string, level int) (string, error)

// Printer walks the node stream and accumulates output.
type Printer struct {
	opts config.Options
	unit string
	in   *Indenter

	// Reprint handles directive blocks extracted from embedded script
	// and style content. A nil Reprint restores such blocks verbatim.
	Reprint Reprint
}

// New returns a Printer for one format call.
func New(opts config.Options) *Printer {
	unit := opts.IndentUnit()
	return &Printer{
		opts: opts,
		unit: unit,
		in:   NewIndenter(unit),
	}
}

// Print renders a whole document, starting from indentation level zero.
func (p *Printer) Print(doc *ast.Document) (string, error) {
	return p.PrintAt(doc, 0)
}

// PrintAt renders a document starting from the given indentation level. It
// is used when directive blocks extracted from embedded content are re-run
// through the printer at the depth of their placement.
func (p *Printer) PrintAt(doc *ast.Document, level int) (string, error) {
	p.in.Reset(level)
	return p.printNodes(doc.Children)
}

func (p *Printer) printNodes(children []ast.Node) (string, error) {
	kids := capLineBreakRuns(children)

	var b strings.Builder
	for i, n := range kids {
		var prev, next ast.Node
		if i > 0 {
			prev = kids[i-1]
		}
		if i+1 < len(kids) {
			next = kids[i+1]
		}
		s, err := p.printNode(n, prev, next)
		if err != nil {
			return "", err
		}
		b.WriteString(s)
	}
	return b.String(), nil
}

func (p *Printer) printNode(n ast.Node, prev, next ast.Node) (string, error) {
	switch v := n.(type) {
	case *ast.Text:
		return p.printText(v, prev, next), nil
	case *ast.LineBreak:
		return printLineBreak(v, prev), nil
	case *ast.Mustache:
		return p.printMustache(AddMustacheSpacing(v.Value), prev, next), nil
	case *ast.EscapedMustache:
		return p.printMustache(AddMustacheSpacing(v.Value), prev, next), nil
	case *ast.SafeMustache:
		return p.printMustache(AddSafeMustacheSpacing(v.Value), prev, next), nil
	case *ast.OpeningTag:
		return p.printTag(v.Name, tagItems(v.Attributes, v.RawProps, v.Props, v.Directives, v.Comments), false, prev, next), nil
	case *ast.VoidTag:
		return p.printTag(v.Name, tagItems(v.Attributes, v.RawProps, v.Props, v.Directives, v.Comments), true, prev, next), nil
	case *ast.ClosingTag:
		return p.printClosingTag(v, prev, next), nil
	case *ast.Directive:
		return p.printDirective(v, next), nil
	case *ast.RawBlock:
		return p.printRawBlock(v, next), nil
	case *ast.TemplateComment:
		ind := p.in.Indent(NoOverride, KeepLevel)
		return ind + NormalizeComment(v.Value, ind) + "\n", nil
	case *ast.HTMLComment:
		return p.printPassthrough(v.Value, true), nil
	case *ast.ConditionalComment:
		return p.printPassthrough(v.Value, true), nil
	case *ast.CDATA:
		return p.printPassthrough(v.Value, true), nil
	case *ast.Doctype:
		return p.printPassthrough(v.Value, true), nil
	case *ast.ProcessingInstruction:
		return p.printPassthrough(v.Value, false), nil
	case *ast.ScriptElement:
		return p.printEmbedded(v.Value, embedded.FormatScript)
	case *ast.StyleElement:
		return p.printEmbedded(v.Value, embedded.FormatStyle)
	default:
		// Permissive by contract: an unrecognized node renders as
		// nothing rather than aborting the document.
		log.Warn("skipping unknown node type %T", n)
		return "", nil
	}
}

// capLineBreakRuns limits runs of consecutive LineBreak siblings to two.
func capLineBreakRuns(children []ast.Node) []ast.Node {
	out := make([]ast.Node, 0, len(children))
	run := 0
	for _, n := range children {
		if _, ok := n.(*ast.LineBreak); ok {
			run++
			if run > 2 {
				continue
			}
		} else {
			run = 0
		}
		out = append(out, n)
	}
	return out
}

// isInlineContent reports whether n joins the surrounding text run: text,
// interpolations, and inline-classified tag boundaries.
func isInlineContent(n ast.Node) bool {
	switch v := n.(type) {
	case *ast.Text, *ast.Mustache, *ast.EscapedMustache, *ast.SafeMustache:
		return true
	case *ast.OpeningTag:
		return tags.IsInline(v.Name)
	case *ast.ClosingTag:
		return tags.IsInline(v.Name)
	case *ast.VoidTag:
		return tags.IsInline(v.Name)
	default:
		return false
	}
}

func (p *Printer) printText(t *ast.Text, prev, next ast.Node) string {
	hadTrailingSpace := strings.TrimRight(t.Value, " \t") != t.Value

	var parts []string
	for _, line := range strings.Split(t.Value, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			parts = append(parts, line)
		}
	}
	if len(parts) == 0 {
		return ""
	}

	ind := p.in.Indent(NoOverride, KeepLevel)
	out := strings.Join(parts, "\n"+ind)
	if !isInlineContent(prev) {
		out = ind + out
	}

	switch {
	case !isInlineContent(next):
		out += "\n"
	case hadTrailingSpace && !endsWithTerminal(out):
		out += " "
	}
	return out
}

// printLineBreak passes the literal break through only when it follows
// another break (preserving one blank line) or a directive or raw block
// (which defer their own trailing newline to the break). Structural breaks
// elsewhere are already supplied by the preceding node and are dropped.
func printLineBreak(lb *ast.LineBreak, prev ast.Node) string {
	switch prev.(type) {
	case *ast.LineBreak, *ast.Directive, *ast.RawBlock:
		return lb.Value
	default:
		return ""
	}
}

func (p *Printer) printMustache(value string, prev, next ast.Node) string {
	out := value
	if !isInlineContent(prev) {
		out = p.in.Indent(NoOverride, KeepLevel) + out
	}

	switch {
	case !isInlineContent(next):
		out += "\n"
	case startsWithTightPunctuation(next):
		// Glued: ".", "," and friends read as part of the expression's
		// sentence.
	default:
		out += " "
	}
	return out
}

func (p *Printer) printPassthrough(value string, withIndent bool) string {
	if !withIndent {
		return strings.TrimSpace(value) + "\n"
	}
	ind := p.in.Indent(NoOverride, KeepLevel)
	lines := strings.Split(value, "\n")
	for i := range lines {
		lines[i] = ind + strings.TrimSpace(lines[i])
	}
	return strings.Join(lines, "\n") + "\n"
}

func (p *Printer) printDirective(d *ast.Directive, next ast.Node) string {
	var ind string
	switch tags.ClassifyDirective(d.Value) {
	case tags.DirectiveEnd:
		ind = p.in.Indent(max(p.in.Level()-1, 0), DecreaseLevel)
	case tags.DirectiveMid:
		ind = p.in.Indent(max(p.in.Level()-1, 0), KeepLevel)
	case tags.DirectiveOpen:
		ind = p.in.Indent(NoOverride, IncreaseLevel)
	default:
		ind = p.in.Indent(NoOverride, KeepLevel)
	}

	out := ind + rebaseDirective(d.Value, ind)
	if _, ok := next.(*ast.LineBreak); !ok {
		out += "\n"
	}
	return out
}

// printRawBlock indents the opener line only. The body is literal output,
// so every line after the first keeps its exact text.
func (p *Printer) printRawBlock(rb *ast.RawBlock, next ast.Node) string {
	out := p.in.Indent(NoOverride, KeepLevel) + rb.Value
	if _, ok := next.(*ast.LineBreak); !ok {
		out += "\n"
	}
	return out
}

// rebaseDirective re-indents a multi-line directive body: inner lines lose
// the common leading whitespace they carried in the source and gain the
// target indent instead.
func rebaseDirective(value, ind string) string {
	lines := strings.Split(value, "\n")
	if len(lines) == 1 {
		return strings.TrimSpace(value)
	}
	base := commonIndent(lines[1:])
	lines[0] = strings.TrimRight(lines[0], " \t")
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = ind + strings.TrimPrefix(lines[i], base)
	}
	return strings.Join(lines, "\n")
}

// commonIndent returns the longest whitespace prefix shared by all
// non-blank lines.
func commonIndent(lines []string) string {
	base := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lead := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		if first {
			base = lead
			first = false
			continue
		}
		for !strings.HasPrefix(lead, base) {
			base = base[:len(base)-1]
		}
	}
	return base
}

func (p *Printer) printTag(name string, items []string, void bool, prev, next ast.Node) string {
	var ind string
	if void {
		ind = p.in.Indent(NoOverride, KeepLevel)
	} else {
		ind = p.in.Indent(NoOverride, IncreaseLevel)
	}

	closer := ">"
	if void {
		closer = "/>"
	}

	single := "<" + name
	if len(items) > 0 {
		single += " " + strings.Join(items, " ")
	}
	if void {
		single += " />"
	} else {
		single += ">"
	}

	inline := tags.IsInline(name)
	lead := ind
	if inline && isInlineContent(prev) {
		lead = ""
	}
	trail := "\n"
	if inline && isInlineContent(next) {
		trail = ""
	}

	explode := len(items) > 0 &&
		(p.opts.SingleAttributePerLine || len(ind)+len(single) > p.opts.PrintWidth)
	if !explode {
		return lead + single + trail
	}

	var b strings.Builder
	b.WriteString(lead)
	b.WriteString("<" + name + "\n")
	for _, item := range items {
		b.WriteString(ind + p.unit + item + "\n")
	}
	b.WriteString(ind + closer + trail)
	return b.String()
}

// tagItems renders the prop groups of a tag in their fixed order:
// attributes, raw interpolations, interpolations, directives, comments.
func tagItems(attrs []ast.Attribute, rawProps, props, directives, comments []string) []string {
	var items []string
	for _, a := range attrs {
		items = append(items, renderAttribute(a))
	}
	for _, rp := range rawProps {
		items = append(items, AddSafeMustacheSpacing(rp))
	}
	for _, m := range props {
		items = append(items, AddMustacheSpacing(m))
	}
	for _, d := range directives {
		items = append(items, strings.TrimSpace(d))
	}
	for _, c := range comments {
		items = append(items, NormalizeComment(c, ""))
	}
	return items
}

func renderAttribute(a ast.Attribute) string {
	if !a.HasValue {
		return a.Name
	}
	if strings.Contains(a.Value, `"`) {
		return a.Name + "='" + a.Value + "'"
	}
	return a.Name + `="` + a.Value + `"`
}

func (p *Printer) printClosingTag(t *ast.ClosingTag, prev, next ast.Node) string {
	ind := p.in.Indent(max(p.in.Level()-1, 0), DecreaseLevel)

	lead := ind
	if tags.IsInline(t.Name) {
		lead = ""
		switch prev.(type) {
		case *ast.LineBreak, *ast.Directive:
			// The run was broken; indentation comes back on.
			lead = ind
		}
	}

	trail := "\n"
	if tags.IsInline(t.Name) && isInlineContent(next) {
		trail = ""
	}
	return lead + "</" + t.Name + ">" + trail
}

func (p *Printer) printEmbedded(raw string, format embedded.FormatFunc) (string, error) {
	ind := p.in.Indent(NoOverride, KeepLevel)
	contentInd := ind + p.unit

	var reprint embedded.Reprinter
	if p.Reprint != nil {
		// Blocks extracted from the content render two levels inside the
		// tag: one for the content itself, one for nesting under the
		// construct that held the placeholder.
		level := p.in.Level() + 2
		fn := p.Reprint
		reprint = func(fragment string) (string, error) {
			return fn(fragment, level)
		}
	}

	out, err := format(raw, embedded.Placement{
		TagIndent:     ind,
		ContentIndent: contentInd,
		IndentUnit:    p.unit,
	}, reprint)
	if err != nil {
		return "", err
	}
	return out + "\n", nil
}

func endsWithTerminal(s string) bool {
	if s == "" {
		return false
	}
	return strings.ContainsRune(".!?", rune(s[len(s)-1]))
}

// startsWithTightPunctuation reports whether the next sibling is a text run
// beginning with punctuation that should stay glued to the interpolation.
func startsWithTightPunctuation(next ast.Node) bool {
	t, ok := next.(*ast.Text)
	if !ok || t.Value == "" {
		return false
	}
	return strings.ContainsRune(".,;:!?)", rune(t.Value[0]))
}

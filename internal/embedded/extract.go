package embedded

import (
	"fmt"
	"regexp"
	"strings"

	"bladefmt.dev/bladefmt/internal/tags"
)

// Placeholder substitution shields template syntax from the foreign
// formatters. Extraction runs in a fixed order: raw mustaches, mustaches,
// directive blocks, single-line directives. Each extracted span becomes a
// positional placeholder; mustache placeholders are legal foreign-language
// identifiers and directive placeholders are wrapped as comments so the
// foreign formatter keeps them inert and in place.

type category int

const (
	catRawMustache category = iota
	catMustache
	catBlock
	catDirective
)

// extraction is one recorded substitution. Restoration replays the record
// list by index; it never re-scans the formatted text for original spans.
type extraction struct {
	cat         category
	placeholder string
	text        string
}

var (
	rawMustacheSpanRe = regexp.MustCompile(`\{\{\{[\s\S]*?\}\}\}`)
	mustacheSpanRe    = regexp.MustCompile(`\{\{[\s\S]*?\}\}`)
)

// extractTemplateSyntax replaces all template syntax in src with
// placeholders and returns the substituted text plus the extraction
// records in substitution order.
func extractTemplateSyntax(src string) (string, []extraction) {
	var recs []extraction
	n := 0

	src = rawMustacheSpanRe.ReplaceAllStringFunc(src, func(m string) string {
		ph := fmt.Sprintf("__BLADE_RAW_%d__", n)
		recs = append(recs, extraction{catRawMustache, ph, m})
		n++
		return ph
	})

	src = mustacheSpanRe.ReplaceAllStringFunc(src, func(m string) string {
		ph := fmt.Sprintf("__BLADE_MUSTACHE_%d__", n)
		recs = append(recs, extraction{catMustache, ph, m})
		n++
		return ph
	})

	src = extractBlocks(src, &n, &recs)
	src = extractDirectives(src, &n, &recs)
	return src, recs
}

// extractBlocks pulls out multi-line directive blocks, from an opening
// @keyword to its balanced @endkeyword. Nested blocks of the same keyword
// are tracked with a depth counter, and argument lists are skipped with a
// paren-depth scan so a ")" inside arguments cannot end the block early.
func extractBlocks(src string, n *int, recs *[]extraction) string {
	var b strings.Builder
	i := 0
	for i < len(src) {
		if src[i] != '@' {
			b.WriteByte(src[i])
			i++
			continue
		}
		name, nameEnd := wordAfter(src, i+1)
		if name == "" || !tags.IsBlockKeyword(name) {
			b.WriteByte(src[i])
			i++
			continue
		}
		end, ok := findBlockEnd(src, nameEnd, name)
		if !ok {
			b.WriteByte(src[i])
			i++
			continue
		}
		ph := fmt.Sprintf("/*__BLADE_BLOCK_%d__*/", *n)
		*recs = append(*recs, extraction{catBlock, ph, src[i:end]})
		*n++
		b.WriteString(ph)
		i = end
	}
	return b.String()
}

// findBlockEnd scans from just after the opener keyword to the end of the
// balanced @end marker. Returns ok=false when the block never closes.
func findBlockEnd(src string, pos int, name string) (int, bool) {
	pos = skipArguments(src, pos)
	depth := 1
	for pos < len(src) {
		if src[pos] != '@' {
			pos++
			continue
		}
		word, wordEnd := wordAfter(src, pos+1)
		switch {
		case strings.EqualFold(word, "end"+name):
			depth--
			if depth == 0 {
				return wordEnd, true
			}
			pos = wordEnd
		case strings.EqualFold(word, name):
			depth++
			pos = skipArguments(src, wordEnd)
		default:
			pos = wordEnd
		}
	}
	return 0, false
}

// extractDirectives pulls out single-line directives: an allow-listed
// keyword with an optional balanced argument list.
func extractDirectives(src string, n *int, recs *[]extraction) string {
	var b strings.Builder
	i := 0
	for i < len(src) {
		if src[i] != '@' {
			b.WriteByte(src[i])
			i++
			continue
		}
		name, nameEnd := wordAfter(src, i+1)
		if _, ok := tags.Flat[strings.ToLower(name)]; !ok {
			b.WriteByte(src[i])
			i++
			continue
		}
		end := skipArguments(src, nameEnd)
		ph := fmt.Sprintf("/*__BLADE_DIRECTIVE_%d__*/", *n)
		*recs = append(*recs, extraction{catDirective, ph, src[i:end]})
		*n++
		b.WriteString(ph)
		i = end
	}
	return b.String()
}

// wordAfter reads an ASCII keyword starting at pos. Returns the empty
// string when pos does not start a word.
func wordAfter(src string, pos int) (string, int) {
	end := pos
	for end < len(src) {
		c := src[end]
		if c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' {
			end++
			continue
		}
		break
	}
	return src[pos:end], end
}

// skipArguments advances past an optional balanced parenthesized argument
// list following a directive keyword. The scan keeps an integer nesting
// depth and is quote-aware, so parens inside string literals do not count.
func skipArguments(src string, pos int) int {
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

// restore replays the extraction records over the formatted text, in
// reverse substitution order: a mustache extracted from inside a directive
// block leaves its placeholder in the block's recorded text, so the block
// must be reprinted back into the output before that mustache's turn comes.
// Mustaches and single-line directives come back verbatim; directive
// blocks are re-run through the printer at the placement depth.
func restore(formatted string, recs []extraction, reprint Reprinter) (string, error) {
	for i := len(recs) - 1; i >= 0; i-- {
		rec := recs[i]
		switch rec.cat {
		case catBlock:
			if reprint == nil {
				formatted = strings.Replace(formatted, rec.placeholder, rec.text, 1)
				continue
			}
			printed, err := reprint(rec.text)
			if err != nil {
				return "", err
			}
			formatted = spliceBlock(formatted, rec.placeholder, strings.TrimRight(printed, "\n"))
		default:
			formatted = strings.Replace(formatted, rec.placeholder, rec.text, 1)
		}
	}
	return formatted, nil
}

// spliceBlock replaces the whole line holding a block placeholder with the
// reprinted block, which carries its own absolute indentation.
func spliceBlock(formatted, placeholder, printed string) string {
	re := regexp.MustCompile(`(?m)^[ \t]*` + regexp.QuoteMeta(placeholder) + `[ \t]*$`)
	if loc := re.FindStringIndex(formatted); loc != nil {
		return formatted[:loc[0]] + printed + formatted[loc[1]:]
	}
	return strings.Replace(formatted, placeholder, printed, 1)
}

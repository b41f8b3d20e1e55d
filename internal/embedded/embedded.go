// Package embedded reformats <style> and <script> elements whose bodies
// may contain template syntax the style-sheet and script formatters cannot
// parse. Template spans are shielded behind placeholders, the foreign
// formatter runs over the substituted text, and the spans are restored by
// recorded position afterward.
package embedded

import (
	"strings"

	"bladefmt.dev/bladefmt/internal/embedded/css"
	"bladefmt.dev/bladefmt/internal/embedded/js"
)

// Placement carries the indentation context of the element being
// reformatted.
type Placement struct {
	// TagIndent is the indent of the <script>/<style> tag itself.
	TagIndent string
	// ContentIndent is the indent applied to every content line, one
	// level deeper than the tag.
	ContentIndent string
	// IndentUnit is one level's worth of indentation.
	IndentUnit string
}

// Reprinter re-formats an extracted directive block through the template
// printer. A nil Reprinter restores blocks verbatim.
type Reprinter func(fragment string) (string, error)

// FormatFunc is the shape shared by FormatScript and FormatStyle.
type FormatFunc func(raw string, pl Placement, reprint Reprinter) (string, error)

// FormatStyle reformats a whole <style>...</style> span.
func FormatStyle(raw string, pl Placement, reprint Reprinter) (string, error) {
	return formatElement(raw, "style", "css", css.Format, pl, reprint)
}

// FormatScript reformats a whole <script>...</script> span.
func FormatScript(raw string, pl Placement, reprint Reprinter) (string, error) {
	return formatElement(raw, "script", "js", js.Format, pl, reprint)
}

func formatElement(raw, tag, lang string, format func(src, indentUnit string) (string, error), pl Placement, reprint Reprinter) (string, error) {
	if selfClosingRe.MatchString(raw) {
		return pl.TagIndent + strings.TrimSpace(raw), nil
	}

	w, err := parseWrapper(raw, tag)
	if err != nil {
		return "", err
	}
	if w.empty {
		return pl.TagIndent + w.startTag + w.endTag, nil
	}

	substituted, recs := extractTemplateSyntax(w.content)

	formatted, err := format(substituted, pl.IndentUnit)
	if err != nil {
		return "", &FormatterError{Lang: lang, Err: err}
	}

	formatted = indentLines(formatted, pl.ContentIndent)

	restored, err := restore(formatted, recs, reprint)
	if err != nil {
		return "", err
	}

	return pl.TagIndent + w.startTag + "\n" + restored + "\n" + pl.TagIndent + w.endTag, nil
}

// indentLines prefixes every non-blank line of s with ind. Blank lines
// stay empty rather than carrying trailing whitespace.
func indentLines(s, ind string) string {
	lines := strings.Split(strings.Trim(s, "\n"), "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = ind + line
	}
	return strings.Join(lines, "\n")
}

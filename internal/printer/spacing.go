package printer

import (
	"fmt"
	"regexp"
	"strings"
)

// Spacing normalization for mustache interpolations and template comments.
// All three rules are pure and idempotent: applying them to their own
// output is a no-op.

var (
	mustacheRe     = regexp.MustCompile(`\{\{\s*(.*?)\s*\}\}`)
	safeMustacheRe = regexp.MustCompile(`\{\{\{\s*(.*?)\s*\}\}\}`)
	commentRe      = regexp.MustCompile(`\{\{--\s*([\s\S]*?)\s*--\}\}`)
)

// AddMustacheSpacing rewrites every {{ ... }} span in s to carry exactly
// one space inside each delimiter. Triple-delimiter spans co-occurring in s
// are shielded behind opaque placeholders first and restored verbatim, so
// {{{a}}} survives untouched.
func AddMustacheSpacing(s string) string {
	var shielded []string
	s = safeMustacheRe.ReplaceAllStringFunc(s, func(m string) string {
		shielded = append(shielded, m)
		return fmt.Sprintf("\x00safe%d\x00", len(shielded)-1)
	})

	s = mustacheRe.ReplaceAllString(s, "{{ $1 }}")

	for i, original := range shielded {
		s = strings.Replace(s, fmt.Sprintf("\x00safe%d\x00", i), original, 1)
	}
	return s
}

// AddSafeMustacheSpacing rewrites every {{{ ... }}} span in s to carry
// exactly one space inside each delimiter.
func AddSafeMustacheSpacing(s string) string {
	return safeMustacheRe.ReplaceAllString(s, "{{{ $1 }}}")
}

// NormalizeComment rewrites a {{-- ... --}} comment to carry one space
// inside each delimiter. Inner lines of a multi-line body lose their
// original leading whitespace and are rebased onto indent.
func NormalizeComment(raw, indent string) string {
	m := commentRe.FindStringSubmatch(raw)
	if m == nil {
		return raw
	}
	body := m[1]
	if !strings.Contains(body, "\n") {
		if body == "" {
			return "{{-- --}}"
		}
		return "{{-- " + body + " --}}"
	}

	lines := strings.Split(body, "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = indent + strings.TrimLeft(lines[i], " \t")
	}
	return "{{-- " + strings.Join(lines, "\n") + " --}}"
}

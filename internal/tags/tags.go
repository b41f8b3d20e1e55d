// Package tags classifies markup tag names and template directives. The
// tables are data on purpose: dialect growth should be a table edit, not a
// logic change.
package tags

import "strings"

// inlineTags are tag names rendered as part of a text run: they do not
// force line breaks against adjacent text or interpolations.
var inlineTags = map[string]struct{}{
	"a":        {},
	"abbr":     {},
	"acronym":  {},
	"b":        {},
	"bdi":      {},
	"bdo":      {},
	"big":      {},
	"br":       {},
	"button":   {},
	"cite":     {},
	"code":     {},
	"dfn":      {},
	"em":       {},
	"i":        {},
	"img":      {},
	"input":    {},
	"kbd":      {},
	"label":    {},
	"map":      {},
	"mark":     {},
	"object":   {},
	"output":   {},
	"q":        {},
	"samp":     {},
	"select":   {},
	"small":    {},
	"span":     {},
	"strong":   {},
	"sub":      {},
	"sup":      {},
	"textarea": {},
	"time":     {},
	"tt":       {},
	"u":        {},
	"var":      {},
	"wbr":      {},
}

// voidTags never receive a closing tag and self-terminate with "/>".
var voidTags = map[string]struct{}{
	"area":   {},
	"base":   {},
	"br":     {},
	"col":    {},
	"embed":  {},
	"hr":     {},
	"img":    {},
	"input":  {},
	"link":   {},
	"meta":   {},
	"param":  {},
	"source": {},
	"track":  {},
	"wbr":    {},
}

// IsInline reports whether name is classified inline. Unknown names are
// block-level.
func IsInline(name string) bool {
	_, ok := inlineTags[strings.ToLower(name)]
	return ok
}

// IsVoid reports whether name never takes a closing tag.
func IsVoid(name string) bool {
	_, ok := voidTags[strings.ToLower(name)]
	return ok
}

// Flat holds directive keywords that never change the indentation level:
// single-line include forms plus value-producing and side-effect
// directives. End markers of these keywords are derived flat in
// ClassifyDirective, so only openers are listed.
var Flat = map[string]struct{}{
	"php":             {},
	"verbatim":        {},
	"include":         {},
	"includeif":       {},
	"includewhen":     {},
	"includeunless":   {},
	"includefirst":    {},
	"each":            {},
	"inject":          {},
	"props":           {},
	"use":             {},
	"dump":            {},
	"dd":              {},
	"debug":           {},
	"json":            {},
	"method":          {},
	"csrf":            {},
	"error":           {},
	"vite":            {},
	"livewire":        {},
	"livewirestyles":  {},
	"livewirescripts": {},
	"stack":           {},
	"yield":           {},
	"parent":          {},
	"continue":        {},
	"break":           {},
	"selected":        {},
	"checked":         {},
	"disabled":        {},
	"required":        {},
	"readonly":        {},
}

// midpoints render at the enclosing block's level without a net change.
var midpoints = map[string]struct{}{
	"else":    {},
	"elseif":  {},
	"empty":   {},
	"default": {},
}

// blockNoArg holds keywords that open a block despite carrying no
// argument list.
var blockNoArg = map[string]struct{}{
	"auth":       {},
	"guest":      {},
	"once":       {},
	"production": {},
}

// DirectiveKind is the indentation effect of a directive.
type DirectiveKind int

const (
	// DirectiveFlat causes no level change.
	DirectiveFlat DirectiveKind = iota
	// DirectiveOpen increments the level for subsequent siblings.
	DirectiveOpen
	// DirectiveMid renders one level out without a net change.
	DirectiveMid
	// DirectiveEnd decrements the level and renders at the decremented
	// level.
	DirectiveEnd
)

// DirectiveName extracts the lowercase keyword from a raw directive body
// such as "@includeWhen($c, 'partial')".
func DirectiveName(raw string) string {
	body := strings.TrimPrefix(strings.TrimSpace(raw), "@")
	end := 0
	for end < len(body) && isWordByte(body[end]) {
		end++
	}
	return strings.ToLower(body[:end])
}

// ClassifyDirective decides the indentation effect of a raw directive body.
func ClassifyDirective(raw string) DirectiveKind {
	name := DirectiveName(raw)
	if _, ok := Flat[name]; ok {
		return DirectiveFlat
	}
	if _, ok := midpoints[name]; ok {
		return DirectiveMid
	}
	if opener, ok := strings.CutPrefix(name, "end"); ok {
		// An end marker whose opener never indented must not dedent, or
		// the counter goes unbalanced.
		if _, flat := Flat[opener]; flat {
			return DirectiveFlat
		}
		return DirectiveEnd
	}
	if _, ok := blockNoArg[name]; ok {
		return DirectiveOpen
	}
	// Any other directive with no argument list opens nothing.
	if !strings.Contains(raw, "(") {
		return DirectiveFlat
	}
	return DirectiveOpen
}

// IsBlockKeyword reports whether name opens a block that must be matched by
// an end marker when it appears inside embedded script or style content.
func IsBlockKeyword(name string) bool {
	name = strings.ToLower(name)
	if _, ok := Flat[name]; ok {
		return false
	}
	if _, ok := midpoints[name]; ok {
		return false
	}
	return !strings.HasPrefix(name, "end")
}

func isWordByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// Package bladefmt formats Blade-style HTML templates: markup, mustache
// interpolations, directives, and embedded style and script blocks.
package bladefmt

import (
	"bladefmt.dev/bladefmt/internal/config"
	"bladefmt.dev/bladefmt/internal/printer"
	"bladefmt.dev/bladefmt/internal/scanner"
)

// Options is the formatter configuration.
type Options = config.Options

// DefaultOptions returns the default formatter configuration: spaces,
// tab width 4, print width 80.
func DefaultOptions() Options { return config.Default() }

// Format renders source as canonical, whitespace-normalized template text.
// Formatting either completes for the whole document or fails; partial
// output is never returned.
func Format(source string, opts Options) (string, error) {
	return formatAt(source, opts, 0)
}

// formatAt formats source starting at the given indentation level. The
// printer calls back into it for directive blocks extracted from embedded
// script and style content, so nested template fragments share one code
// path with whole documents.
func formatAt(source string, opts Options, level int) (string, error) {
	p := printer.New(opts)
	p.Reprint = func(fragment string, lvl int) (string, error) {
		return formatAt(fragment, opts, lvl)
	}
	return p.PrintAt(scanner.Scan(source), level)
}

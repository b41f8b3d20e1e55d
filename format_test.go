package bladefmt_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bladefmt.dev/bladefmt"
)

func format(t *testing.T, source string) string {
	t.Helper()
	got, err := bladefmt.Format(source, bladefmt.DefaultOptions())
	require.NoError(t, err)
	return got
}

func TestFormatFullTemplate(t *testing.T) {
	source := strings.Join([]string{
		"<!DOCTYPE html>",
		"<html>",
		"<head>",
		"<title>{{ $title }}</title>",
		"</head>",
		"<body>",
		"@if ($user)",
		"<p>Hello {{ $name }}!</p>",
		"@endif",
		"</body>",
		"</html>",
		"",
	}, "\n")

	want := strings.Join([]string{
		"<!DOCTYPE html>",
		"<html>",
		"    <head>",
		"        <title>",
		"            {{ $title }}",
		"        </title>",
		"    </head>",
		"    <body>",
		"        @if ($user)",
		"            <p>",
		"                Hello {{ $name }}!",
		"            </p>",
		"        @endif",
		"    </body>",
		"</html>",
		"",
	}, "\n")

	assert.Equal(t, want, format(t, source))
}

func TestFormatIdempotent(t *testing.T) {
	sources := []string{
		"<div>\n<p>Hi {{ $who }}.</p>\n</div>\n",
		"@foreach ($items as $item)\n<li>{{ $item }}</li>\n@endforeach\n",
		"{{-- header --}}\n<section>\ntext\n</section>\n",
	}
	for _, src := range sources {
		once := format(t, src)
		assert.Equal(t, once, format(t, once), "formatting must be a fixed point for %q", src)
	}
}

func TestFormatGluedInterpolation(t *testing.T) {
	assert.Equal(t, "Hello{{ name }}\n", format(t, "Hello{{name}}\n"))
	assert.Equal(t, "Hello {{ name }}!\n", format(t, "Hello   {{ name }}!\n"))
}

func TestFormatCapsBlankLines(t *testing.T) {
	assert.Equal(t, "a\n\nb\n", format(t, "a\n\n\n\n\nb\n"))
}

func TestFormatTabIndentation(t *testing.T) {
	opts := bladefmt.DefaultOptions()
	opts.UseTabs = true
	opts.TabWidth = 1
	got, err := bladefmt.Format("<div>\ninner\n</div>\n", opts)
	require.NoError(t, err)
	assert.Equal(t, "<div>\n\tinner\n</div>\n", got)
}

func TestFormatVerbatimBody(t *testing.T) {
	source := "<div>\n@verbatim\n<p>{{x}}</p>\n@endverbatim\n</div>\n"
	want := "<div>\n    @verbatim\n<p>{{x}}</p>\n@endverbatim\n</div>\n"

	got := format(t, source)
	assert.Equal(t, want, got, "the body between @verbatim and @endverbatim is literal output")
	assert.Equal(t, got, format(t, got))
}

func TestFormatErrorBlockKeepsLevel(t *testing.T) {
	source := "<div>\n@error('email')\n<span>bad</span>\n@enderror\n<p>after</p>\n</div>\n"
	want := strings.Join([]string{
		"<div>",
		"    @error('email')",
		"    <span>bad</span>",
		"    @enderror",
		"    <p>",
		"        after",
		"    </p>",
		"</div>",
		"",
	}, "\n")
	assert.Equal(t, want, format(t, source))
}

func TestFormatEmbeddedScript(t *testing.T) {
	t.Run("statements re-indented", func(t *testing.T) {
		got := format(t, "<script>\nif (a) {\nb();\n}\n</script>\n")
		assert.Equal(t, "<script>\n    if (a) {\n        b();\n    }\n</script>\n", got)
	})

	t.Run("directive block reprinted two levels inside the tag", func(t *testing.T) {
		got := format(t, "<script>\n@if ($dark)\nenableDark();\n@endif\n</script>\n")
		assert.Equal(t, "<script>\n        @if ($dark)\n            enableDark();\n        @endif\n</script>\n", got)
	})

	t.Run("nested element placement", func(t *testing.T) {
		got := format(t, "<div>\n<script>\ngo();\n</script>\n</div>\n")
		assert.Equal(t, "<div>\n    <script>\n        go();\n    </script>\n</div>\n", got)
	})

	t.Run("mustache preserved verbatim", func(t *testing.T) {
		got := format(t, "<script>\nlet n = {{ $n }};\n</script>\n")
		assert.Equal(t, "<script>\n    let n = {{ $n }};\n</script>\n", got)
	})
}

func TestFormatEmbeddedStyle(t *testing.T) {
	got := format(t, "<style>\nbody{margin:0;color:#FFF;}\n</style>\n")
	assert.Equal(t, "<style>\n    body {\n        margin: 0;\n        color: #fff;\n    }\n</style>\n", got)
}

func TestFormatEmbeddedErrorsAbortDocument(t *testing.T) {
	_, err := bladefmt.Format("<style>\nbody {\n</style>\n", bladefmt.DefaultOptions())
	assert.Error(t, err, "a malformed style sheet fails the whole document")
}

package embedded

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractMustaches(t *testing.T) {
	src := "a {{{ $raw }}} b {{ $x }} c"
	out, recs := extractTemplateSyntax(src)

	assert.Equal(t, "a __BLADE_RAW_0__ b __BLADE_MUSTACHE_1__ c", out)
	require.Len(t, recs, 2)
	assert.Equal(t, catRawMustache, recs[0].cat)
	assert.Equal(t, "{{{ $raw }}}", recs[0].text)
	assert.Equal(t, catMustache, recs[1].cat)
	assert.Equal(t, "{{ $x }}", recs[1].text)
}

func TestExtractBlocks(t *testing.T) {
	t.Run("whole block becomes one record", func(t *testing.T) {
		src := "before\n@if ($dark)\ncolor: black;\n@endif\nafter"
		out, recs := extractTemplateSyntax(src)

		assert.Equal(t, "before\n/*__BLADE_BLOCK_0__*/\nafter", out)
		require.Len(t, recs, 1)
		assert.Equal(t, catBlock, recs[0].cat)
		assert.Equal(t, "@if ($dark)\ncolor: black;\n@endif", recs[0].text)
	})

	t.Run("nested same-name blocks stay one record", func(t *testing.T) {
		src := "@if ($a)\n@if ($b)\nx\n@endif\n@endif"
		out, recs := extractTemplateSyntax(src)

		assert.Equal(t, "/*__BLADE_BLOCK_0__*/", out)
		require.Len(t, recs, 1)
		assert.Equal(t, src, recs[0].text)
	})

	t.Run("paren inside quoted argument does not end the block", func(t *testing.T) {
		src := "@if (str_contains($s, ')'))\nx\n@endif"
		_, recs := extractTemplateSyntax(src)
		require.Len(t, recs, 1)
		assert.Equal(t, src, recs[0].text)
	})

	t.Run("css at-rules are not blocks", func(t *testing.T) {
		src := "@media (min-width: 600px) {\nbody { margin: 0; }\n}"
		out, recs := extractTemplateSyntax(src)
		assert.Equal(t, src, out, "unmatched openers stay in place")
		assert.Empty(t, recs)
	})
}

func TestExtractDirectives(t *testing.T) {
	src := "@include('partials.head')\nbody { margin: 0; }"
	out, recs := extractTemplateSyntax(src)

	assert.Equal(t, "/*__BLADE_DIRECTIVE_0__*/\nbody { margin: 0; }", out)
	require.Len(t, recs, 1)
	assert.Equal(t, catDirective, recs[0].cat)
	assert.Equal(t, "@include('partials.head')", recs[0].text)
}

func TestRestoreVerbatim(t *testing.T) {
	src := "let a = {{ $x }};\n@if ($debug)\nconsole.log(a);\n@endif"
	out, recs := extractTemplateSyntax(src)

	restored, err := restore(out, recs, nil)
	require.NoError(t, err)
	assert.Equal(t, src, restored, "nil reprinter restores every span verbatim")
}

func TestRestoreReprintsBlocks(t *testing.T) {
	src := "@if ($debug)\nconsole.log(1);\n@endif"
	out, recs := extractTemplateSyntax(src)
	require.Len(t, recs, 1)

	formatted := "    " + out // the foreign formatter indented the placeholder line

	restored, err := restore(formatted, recs, func(fragment string) (string, error) {
		assert.Equal(t, src, fragment)
		return "@if ($debug)\n    console.log(1);\n@endif\n", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "@if ($debug)\n    console.log(1);\n@endif", restored,
		"the reprinted block replaces the whole placeholder line")
}

func TestRestoreMustacheInsideBlock(t *testing.T) {
	src := "@if ($debug)\nconsole.log({{ $x }});\n@endif"
	out, recs := extractTemplateSyntax(src)
	require.Len(t, recs, 2)

	restored, err := restore(out, recs, func(fragment string) (string, error) {
		assert.NotContains(t, fragment, "{{", "the block is reprinted while still shielded")
		return fragment, nil
	})
	require.NoError(t, err)
	assert.Contains(t, restored, "{{ $x }}", "the inner mustache is restored after the block")
}

func TestSpliceBlockFallsBackToInlineReplace(t *testing.T) {
	got := spliceBlock("a /*__BLADE_BLOCK_0__*/ b", "/*__BLADE_BLOCK_0__*/", "X")
	assert.Equal(t, "a X b", got)
}

func TestIndentLines(t *testing.T) {
	got := indentLines("a {\n\n    b: c;\n}\n", "  ")
	assert.Equal(t, "  a {\n\n      b: c;\n  }", got)
	assert.False(t, strings.Contains(got, "\n  \n"), "blank lines stay empty")
}

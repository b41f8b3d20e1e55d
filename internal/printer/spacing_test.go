package printer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddMustacheSpacing(t *testing.T) {
	t.Run("inserts one space inside each delimiter", func(t *testing.T) {
		assert.Equal(t, "{{ x }}", AddMustacheSpacing("{{x}}"))
		assert.Equal(t, "{{ $user->name }}", AddMustacheSpacing("{{$user->name}}"))
	})

	t.Run("collapses extra interior whitespace", func(t *testing.T) {
		assert.Equal(t, "{{ x }}", AddMustacheSpacing("{{   x   }}"))
	})

	t.Run("idempotent", func(t *testing.T) {
		once := AddMustacheSpacing("{{x}}")
		assert.Equal(t, once, AddMustacheSpacing(once))
	})

	t.Run("leaves triple-delimiter spans untouched", func(t *testing.T) {
		assert.Equal(t, "{{{a}}}", AddMustacheSpacing("{{{a}}}"))
		assert.Equal(t, "{{ x }} {{{a}}}", AddMustacheSpacing("{{x}} {{{a}}}"))
	})

	t.Run("handles escaped mustaches", func(t *testing.T) {
		assert.Equal(t, "@{{ x }}", AddMustacheSpacing("@{{x}}"))
	})

	t.Run("multiple spans in one string", func(t *testing.T) {
		assert.Equal(t, "{{ a }} and {{ b }}", AddMustacheSpacing("{{a}} and {{b}}"))
	})
}

func TestAddSafeMustacheSpacing(t *testing.T) {
	assert.Equal(t, "{{{ x }}}", AddSafeMustacheSpacing("{{{x}}}"))
	assert.Equal(t, "{{{ x }}}", AddSafeMustacheSpacing("{{{ x }}}"), "idempotent")
}

func TestNormalizeComment(t *testing.T) {
	t.Run("single line", func(t *testing.T) {
		assert.Equal(t, "{{-- note --}}", NormalizeComment("{{--note--}}", ""))
		assert.Equal(t, "{{-- note --}}", NormalizeComment("{{-- note --}}", ""), "idempotent")
	})

	t.Run("empty body", func(t *testing.T) {
		assert.Equal(t, "{{-- --}}", NormalizeComment("{{----}}", ""))
	})

	t.Run("multi-line body rebased onto the target indent", func(t *testing.T) {
		in := "{{-- first\n      second\n   third --}}"
		want := "{{-- first\n  second\n  third --}}"
		assert.Equal(t, want, NormalizeComment(in, "  "))
	})

	t.Run("not a comment passes through", func(t *testing.T) {
		assert.Equal(t, "plain", NormalizeComment("plain", ""))
	})
}

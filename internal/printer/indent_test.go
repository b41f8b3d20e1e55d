package printer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIndenter(t *testing.T) {
	t.Run("returns the pre-adjustment level", func(t *testing.T) {
		in := NewIndenter("    ")
		assert.Equal(t, "", in.Indent(NoOverride, IncreaseLevel), "opening a block prints at the outer level")
		assert.Equal(t, 1, in.Level())
		assert.Equal(t, "    ", in.Indent(NoOverride, KeepLevel))
		assert.Equal(t, 1, in.Level())
	})

	t.Run("override wins over the counter", func(t *testing.T) {
		in := NewIndenter("  ")
		in.Reset(3)
		assert.Equal(t, "    ", in.Indent(2, DecreaseLevel))
		assert.Equal(t, 2, in.Level())
	})

	t.Run("override clamps to zero", func(t *testing.T) {
		in := NewIndenter("  ")
		assert.Equal(t, "", in.Indent(0, DecreaseLevel))
		assert.Equal(t, 0, in.Level(), "counter never goes negative")
	})

	t.Run("tabs", func(t *testing.T) {
		in := NewIndenter("\t")
		in.Reset(2)
		assert.Equal(t, "\t\t", in.Indent(NoOverride, KeepLevel))
	})

	t.Run("state is scoped per indenter", func(t *testing.T) {
		a := NewIndenter("  ")
		b := NewIndenter("  ")
		a.Indent(NoOverride, IncreaseLevel)
		assert.Equal(t, 1, a.Level())
		assert.Equal(t, 0, b.Level(), "independent invocations must not share state")
	})
}

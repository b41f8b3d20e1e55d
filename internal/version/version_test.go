package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestString_Stamped(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "v1.2.3"
	assert.Equal(t, "v1.2.3", String())
}

func TestString_Unstamped(t *testing.T) {
	orig := Version
	defer func() { Version = orig }()

	Version = "dev"
	got := String()
	assert.NotEmpty(t, got)
	assert.False(t, strings.HasPrefix(got, "(devel)"), "build-info fallback should never surface (devel)")
}

package color

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

var hexColorRe = regexp.MustCompile(`^#[0-9A-F]{6}$`)

func TestForPerson(t *testing.T) {
	t.Run("returns a hex color", func(t *testing.T) {
		assert.Regexp(t, hexColorRe, ForPerson("per-V1StGXR8Z5jdHi6BmyT"))
	})

	t.Run("is deterministic", func(t *testing.T) {
		assert.Equal(t, ForPerson("per-abc123"), ForPerson("per-abc123"))
	})

	t.Run("different IDs usually differ", func(t *testing.T) {
		assert.NotEqual(t, ForPerson("per-abc123"), ForPerson("per-xyz789"))
	})

	t.Run("empty ID still yields a valid color", func(t *testing.T) {
		assert.Regexp(t, hexColorRe, ForPerson(""))
	})
}

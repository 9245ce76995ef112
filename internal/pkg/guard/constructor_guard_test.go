package guard_test

import (
	"errors"
	"testing"

	"fastship/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errLabelIsNotConstructed = errors.New("label must be created via newLabel")

type label struct {
	text  string
	guard guard.ConstructorGuard
}

func newLabel(text string) label {
	return label{text: text, guard: guard.NewConstructorGuard()}
}

func (l label) Validate() error {
	return l.guard.Validate(errLabelIsNotConstructed)
}

func TestConstructorGuard(t *testing.T) {
	t.Run("should accept a constructed value", func(t *testing.T) {
		require.NoError(t, newLabel("fragile").Validate())
	})

	t.Run("should reject a zero value with the given error", func(t *testing.T) {
		var l label

		assert.ErrorIs(t, l.Validate(), errLabelIsNotConstructed)
	})

	t.Run("should fall back to the default error", func(t *testing.T) {
		var g guard.ConstructorGuard

		assert.ErrorIs(t, g.Validate(nil), guard.ErrDefaultConstructorGuard)
		assert.NoError(t, guard.NewConstructorGuard().Validate(nil))
	})

	t.Run("should survive copies", func(t *testing.T) {
		l := newLabel("cold chain")
		copied := l

		assert.NoError(t, copied.Validate())
	})
}

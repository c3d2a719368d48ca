package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/compozy/scriptctx/engine/core"
)

func TestDeepCopy(t *testing.T) {
	t.Run("Should copy nested maps and slices", func(t *testing.T) {
		src := map[string]any{
			"retry": map[string]any{"attempt": 1},
			"tags":  []any{"a", "b"},
		}
		dst, err := core.DeepCopy(src)
		require.NoError(t, err)
		src["retry"].(map[string]any)["attempt"] = 2
		src["tags"].([]any)[0] = "z"
		assert.Equal(t, 1, dst["retry"].(map[string]any)["attempt"])
		assert.Equal(t, "a", dst["tags"].([]any)[0])
	})

	t.Run("Should keep nil maps nil", func(t *testing.T) {
		assert.Nil(t, core.CopyMap(nil))
	})

	t.Run("Should copy structs", func(t *testing.T) {
		type item struct {
			Names []string
		}
		src := item{Names: []string{"a"}}
		dst, err := core.DeepCopy(src)
		require.NoError(t, err)
		src.Names[0] = "b"
		assert.Equal(t, []string{"a"}, dst.Names)
	})
}

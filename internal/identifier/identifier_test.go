package identifier_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsg-ground/datastore-stressor/internal/identifier"
)

func TestNew(t *testing.T) {
	t.Run("Length", func(t *testing.T) {
		tag, err := identifier.New()
		require.NoError(t, err, "failed to mint tag")
		assert.Len(t, tag, len(identifier.Prefix)+identifier.TagLength, "wrong tag length")
	})

	t.Run("Prefix", func(t *testing.T) {
		tag, err := identifier.New()
		require.NoError(t, err, "failed to mint tag")
		assert.True(t, strings.HasPrefix(tag, identifier.Prefix), "missing prefix")
	})

	t.Run("Alphabet", func(t *testing.T) {
		const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

		for range 100 {
			tag, err := identifier.New()
			require.NoError(t, err, "failed to mint tag")

			suffix := strings.TrimPrefix(tag, identifier.Prefix)
			for _, c := range suffix {
				assert.Contains(t, alphanumeric, string(c), "character outside alphabet")
			}
		}
	})
}

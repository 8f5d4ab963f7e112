package hash_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsg-ground/datastore-stressor/internal/hash"
)

func TestHash(t *testing.T) {
	t.Run("ReaderMatchesBuffer", func(t *testing.T) {
		data := []byte("some payload")

		fromReader, err := hash.Reader(context.Background(), bytes.NewReader(data))
		require.NoError(t, err, "failed to hash reader")

		assert.Equal(t, hash.Buffer(data), fromReader, "digests must agree")
	})

	t.Run("EmptyBuffer", func(t *testing.T) {
		assert.Equal(t,
			"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
			hash.Buffer(nil),
			"wrong empty digest",
		)
	})
}

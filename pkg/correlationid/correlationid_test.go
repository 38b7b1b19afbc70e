package correlationid_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tuanvumaihuynh/pos-station/pkg/correlationid"
)

func TestCorrelationID(t *testing.T) {
	t.Run("Should generate a valid uuid", func(t *testing.T) {
		_, err := uuid.Parse(correlationid.New())
		require.NoError(t, err)
	})

	t.Run("Should round trip through context", func(t *testing.T) {
		ctx := correlationid.NewContext(context.Background(), "abc")

		id, ok := correlationid.FromContext(ctx)
		assert.True(t, ok)
		assert.Equal(t, "abc", id)
	})

	t.Run("Should report missing id", func(t *testing.T) {
		_, ok := correlationid.FromContext(context.Background())
		assert.False(t, ok)

		_, ok = correlationid.FromContext(correlationid.NewContext(context.Background(), ""))
		assert.False(t, ok)
	})
}

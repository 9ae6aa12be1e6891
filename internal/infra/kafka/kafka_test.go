package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRecipeEvent(t *testing.T) {
	event := RecipeEvent{
		Type:       RecipeUpdated,
		RecipeID:   42,
		AuthorID:   7,
		OccurredAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	payload, err := json.Marshal(event)
	require.NoError(t, err)

	got, err := DecodeRecipeEvent(payload)
	require.NoError(t, err)
	assert.Equal(t, event, *got)
	assert.Equal(t, []byte("recipe-42"), got.Key())
}

func TestDecodeRecipeEvent_Rejects(t *testing.T) {
	for name, payload := range map[string]string{
		"not json":     `{`,
		"missing id":   `{"type":"recipe.created"}`,
		"missing type": `{"recipe_id":3}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeRecipeEvent([]byte(payload))
			assert.Error(t, err)
		})
	}
}

func TestPublishWithoutProducer(t *testing.T) {
	err := NewRecipeEventPublisher("recipe-events").Publish(context.Background(), &RecipeEvent{Type: RecipeCreated, RecipeID: 1})
	assert.ErrorIs(t, err, errProducerNotInitialized)
}

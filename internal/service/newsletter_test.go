package service

import (
	"context"
	"testing"

	"marketplace-backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribe_IsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.newsletters.Subscribe(ctx, "Reader@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, "reader@example.com", first.Email)

	second, err := f.newsletters.Subscribe(ctx, "reader@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.EqualValues(t, 1, countRows(t, f.db, &model.NewsletterSubscriber{}))

	subscribers, err := f.newsletters.GetSubscribers(ctx)
	require.NoError(t, err)
	require.Len(t, subscribers, 1)
}

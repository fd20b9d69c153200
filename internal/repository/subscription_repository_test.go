package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/qa-forum/internal/model"
)

func TestSubscriptionToggle(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	subscribed, err := repo.Toggle(ctx, model.EntityKindQuestion, "q1", "u1")
	require.NoError(t, err)
	assert.True(t, subscribed)

	subs, err := repo.ListSubscribers(ctx, model.EntityKindQuestion, "q1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, subs)

	// 在订 → 退订
	subscribed, err = repo.Toggle(ctx, model.EntityKindQuestion, "q1", "u1")
	require.NoError(t, err)
	assert.False(t, subscribed)

	subs, err = repo.ListSubscribers(ctx, model.EntityKindQuestion, "q1")
	require.NoError(t, err)
	assert.Empty(t, subs)
}

func TestSubscriptionAdd_Idempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, model.EntityKindTag, "t1", "u1"))
	require.NoError(t, repo.Add(ctx, model.EntityKindTag, "t1", "u1"))

	subs, err := repo.ListSubscribers(ctx, model.EntityKindTag, "t1")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1"}, subs)
}

func TestSubscription_KindScoped(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSubscriptionRepository(db)
	ctx := context.Background()

	// 同一 id 在 question 与 tag 两个命名空间互不影响
	require.NoError(t, repo.Add(ctx, model.EntityKindQuestion, "x", "u1"))
	subs, err := repo.ListSubscribers(ctx, model.EntityKindTag, "x")
	require.NoError(t, err)
	assert.Empty(t, subs)

	ok, err := repo.Exists(ctx, model.EntityKindQuestion, "x", "u1")
	require.NoError(t, err)
	assert.True(t, ok)
}

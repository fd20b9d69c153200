package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserCreate_HashesPassword(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u, err := repo.Create(ctx, "alice", "alice@example.com", "secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", u.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.Password), []byte("secret")))
}

func TestUserGetByIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	a, err := repo.Create(ctx, "alice", "alice@example.com", "p")
	require.NoError(t, err)
	b, err := repo.Create(ctx, "bob", "bob@example.com", "p")
	require.NoError(t, err)

	got, err := repo.GetByIDs(ctx, []string{a.ID, b.ID, "missing"})
	require.NoError(t, err)
	// 缺失的 id 不在映射里，由调用方决定是否视为完整性错误
	assert.Len(t, got, 2)
	assert.Equal(t, "alice", got[a.ID].Username)
	assert.Equal(t, "bob", got[b.ID].Username)
}

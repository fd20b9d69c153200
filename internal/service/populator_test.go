package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/qa-forum/internal/model"
)

func TestPopulator_FullTree(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := f.postService()
	author := f.mustUser(t, "author")
	answerer := f.mustUser(t, "answerer")
	q := f.mustQuestion(t, author.ID, "Full tree", "golang", "gorm")
	ans, err := svc.PostAnswer(ctx, q.ID, answerer.ID, "an answer")
	require.NoError(t, err)
	_, err = svc.PostComment(ctx, model.PostKindAnswer, ans.ID, author.ID, "on answer")
	require.NoError(t, err)
	_, err = svc.PostComment(ctx, model.PostKindQuestion, q.ID, answerer.ID, "on question")
	require.NoError(t, err)
	_, err = f.voteEngine().Apply(ctx, model.PostKindQuestion, q.ID, answerer.ID, "up")
	require.NoError(t, err)

	snap, err := f.populator.Question(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "author", snap.Author.Username)
	require.Len(t, snap.Tags, 2)
	require.Len(t, snap.Answers, 1)
	assert.Equal(t, "answerer", snap.Answers[0].Author.Username)
	require.Len(t, snap.Answers[0].Comments, 1)
	assert.Equal(t, "author", snap.Answers[0].Comments[0].Author.Username)
	require.Len(t, snap.Comments, 1)
	assert.Equal(t, "on question", snap.Comments[0].Body)
	assert.Equal(t, []string{answerer.ID}, snap.UpVoters)
	assert.Contains(t, snap.Subscribers, author.ID)
	assert.Equal(t, 1, snap.AnswerCount())
}

func TestPopulator_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.populator.Question(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.populator.Answer(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.populator.Tag(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.populator.User(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPopulator_MissingAuthorIsIntegrityError(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.mustUser(t, "author")
	ghost := f.mustUser(t, "ghost")
	q := f.mustQuestion(t, author.ID, "Integrity")
	_, err := f.postService().PostAnswer(ctx, q.ID, ghost.ID, "soon orphaned")
	require.NoError(t, err)

	// 回答的作者记录消失：是结构性错误，不是空字段
	require.NoError(t, f.db.Delete(&model.User{}, "id = ?", ghost.ID).Error)
	_, err = f.populator.Question(ctx, q.ID)
	assert.ErrorIs(t, err, ErrDataIntegrity)
}

func TestPopulator_UserProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.mustUser(t, "alice")
	b := f.mustUser(t, "bob")
	q := f.mustQuestion(t, a.ID, "Profile")
	require.NoError(t, f.subRepo.Add(ctx, model.EntityKindQuestion, q.ID, b.ID))
	_, err := f.postService().PostAnswer(ctx, q.ID, a.ID, "x")
	require.NoError(t, err)

	profile, err := f.populator.User(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "bob", profile.Username)
	require.Len(t, profile.Inbox, 1)
	assert.Equal(t, int64(1), profile.UnreadCount)
}

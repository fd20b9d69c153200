package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/qa-forum/internal/model"
)

func TestVoteEngine_UpThenDown(t *testing.T) {
	// U 先赞后踩：终态 up=[], down=[U]，两次返回都是当时的真实状态
	f := newFixture(t)
	ctx := context.Background()
	engine := f.voteEngine()
	author := f.mustUser(t, "author")
	voter := f.mustUser(t, "voter")
	q := f.mustQuestion(t, author.ID, "Vote flow")
	ans, err := f.postService().PostAnswer(ctx, q.ID, author.ID, "x")
	require.NoError(t, err)

	res, err := engine.Apply(ctx, model.PostKindAnswer, ans.ID, voter.ID, "up")
	require.NoError(t, err)
	assert.Equal(t, []string{voter.ID}, res.UpVoters)
	assert.Empty(t, res.DownVoters)

	res, err = engine.Apply(ctx, model.PostKindAnswer, ans.ID, voter.ID, "down")
	require.NoError(t, err)
	assert.Empty(t, res.UpVoters)
	assert.Equal(t, []string{voter.ID}, res.DownVoters)
}

func TestVoteEngine_SameDirectionRetracts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	engine := f.voteEngine()
	author := f.mustUser(t, "author")
	q := f.mustQuestion(t, author.ID, "Retract")

	_, err := engine.Apply(ctx, model.PostKindQuestion, q.ID, author.ID, "up")
	require.NoError(t, err)
	res, err := engine.Apply(ctx, model.PostKindQuestion, q.ID, author.ID, "up")
	require.NoError(t, err)
	assert.Empty(t, res.UpVoters)
	assert.Empty(t, res.DownVoters)
}

func TestVoteEngine_CommentOwnership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	engine := f.voteEngine()
	author := f.mustUser(t, "author")
	q := f.mustQuestion(t, author.ID, "Comment votes")
	ans, err := f.postService().PostAnswer(ctx, q.ID, author.ID, "x")
	require.NoError(t, err)
	c, err := f.postService().PostComment(ctx, model.PostKindAnswer, ans.ID, author.ID, "y")
	require.NoError(t, err)

	res, err := engine.Apply(ctx, model.PostKindComment, c.ID, author.ID, "down")
	require.NoError(t, err)
	assert.Equal(t, model.PostKindComment, res.Ref.Kind)
	assert.Equal(t, []string{author.ID}, res.DownVoters)
}

func TestVoteEngine_Errors(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	engine := f.voteEngine()

	_, err := engine.Apply(ctx, model.PostKindAnswer, "missing", "u1", "up")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = engine.Apply(ctx, model.PostKindAnswer, "a1", "u1", "sideways")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = engine.Apply(ctx, model.PostKind("page"), "a1", "u1", "up")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

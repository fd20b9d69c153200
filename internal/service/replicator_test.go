package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewRecorder_RecordsAsync(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.mustUser(t, "author")
	viewer := f.mustUser(t, "viewer")
	q := f.mustQuestion(t, author.ID, "Views")

	rec := NewViewRecorder(f.viewRepo, f.populator, f.hub, nil, 16)
	stop := rec.Start(1)
	defer func() { _ = stop(ctx) }()

	rec.Enqueue(q.ID, viewer.ID)
	rec.Enqueue(q.ID, viewer.ID) // 重复浏览不重复计数

	require.Eventually(t, func() bool {
		viewers, err := f.viewRepo.ListViewers(ctx, q.ID)
		return err == nil && len(viewers) == 1
	}, 2*time.Second, 20*time.Millisecond)

	viewers, err := f.viewRepo.ListViewers(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{viewer.ID}, viewers)

	snap, err := f.populator.Question(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{viewer.ID}, snap.Viewers)
}

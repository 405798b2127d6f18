package peer

import (
	"context"
	"errors"
	"innervoice/app/client/docstore"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	store, err := docstore.Open(filepath.Join(t.TempDir(), "peer.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Shutdown() })

	return NewService(store)
}

func TestListSeedsBoard(t *testing.T) {
	s := newTestService(t)

	posts, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, posts, 2)

	assert.Equal(t, seedPosts[1], posts[0].Content)
	assert.Equal(t, seedPosts[0], posts[1].Content)
	assert.Equal(t, "Anonymous", posts[0].Author)
}

func TestPostNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := newTestService(t)

	post, err := s.Post(ctx, "Exams are close, sending strength to everyone")
	require.NoError(t, err)
	assert.NotEmpty(t, post.ID)

	posts, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, post.ID, posts[0].ID)
}

func TestPostValidation(t *testing.T) {
	s := newTestService(t)

	_, err := s.Post(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyPost)

	_, err = s.Post(context.Background(), strings.Repeat("a", maxPostLength+1))
	assert.ErrorIs(t, err, ErrPostTooLong)
}

type flakyDocs struct {
	Documents

	failures int
}

func (d *flakyDocs) List(ctx context.Context, collection, owner string) ([]docstore.Document, error) {
	if d.failures > 0 {
		d.failures--
		return nil, errors.New("database is locked")
	}

	return d.Documents.List(ctx, collection, owner)
}

func TestSeedRetriesAfterFailure(t *testing.T) {
	store, err := docstore.Open(filepath.Join(t.TempDir(), "peer.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Shutdown() })

	s := NewService(&flakyDocs{Documents: store, failures: 1})

	_, err = s.List(context.Background())
	require.Error(t, err)

	posts, err := s.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, posts, 2)
}

package mood

import (
	"context"
	"innervoice/app/client/docstore"
	"innervoice/app/service/sentiment"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	store, err := docstore.Open(filepath.Join(t.TempDir(), "mood.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Shutdown() })

	return NewService(store)
}

func record(t *testing.T, s *Service, session string, score int, msg string) Entry {
	t.Helper()

	entry, err := s.Record(context.Background(), session, sentiment.Result{
		Score: score,
		Label: sentiment.LabelFor(score),
	}, msg)
	require.NoError(t, err)

	return entry
}

func TestRecordAndListMostRecentFirst(t *testing.T) {
	s := newTestService(t)

	first := record(t, s, "s1", 3, "I scored 92%")
	record(t, s, "s2", -1, "other session")
	last := record(t, s, "s1", -4, "I feel hopeless")

	entries, err := s.List(context.Background(), "s1")
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, last.ID, entries[0].ID)
	assert.Equal(t, first.ID, entries[1].ID)
	assert.Equal(t, sentiment.Concerning, entries[0].Label)
	assert.Equal(t, "I scored 92%", entries[1].Message)
}

func TestDashboardAveragesLastSeven(t *testing.T) {
	s := newTestService(t)

	record(t, s, "s1", -5, "oldest, outside the window")
	for i := 0; i < 7; i++ {
		record(t, s, "s1", 1, "fine")
	}

	d, err := s.Dashboard(context.Background(), "s1")
	require.NoError(t, err)

	assert.Equal(t, 8, d.Count)
	assert.InDelta(t, 1.0, d.Average, 0.0001)
	assert.Equal(t, "Happy", d.AverageFor.Label)
	require.NotNil(t, d.Recent)
	assert.Equal(t, "fine", d.Recent.Message)
	assert.Len(t, d.Strategies, 2)
}

func TestDashboardEmpty(t *testing.T) {
	d := BuildDashboard(nil)

	assert.Zero(t, d.Count)
	assert.Zero(t, d.Average)
	assert.Equal(t, "Neutral", d.AverageFor.Label)
	assert.Nil(t, d.Recent)
}

func TestFaceFor(t *testing.T) {
	assert.Equal(t, "Very Happy", FaceFor(2.5).Label)
	assert.Equal(t, "Happy", FaceFor(2).Label)
	assert.Equal(t, "Neutral", FaceFor(0).Label)
	assert.Equal(t, "Sad", FaceFor(-2.9).Label)
	assert.Equal(t, "Very Sad", FaceFor(-3).Label)
}

func TestRecordUsesClock(t *testing.T) {
	s := newTestService(t)
	fixed := time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	entry := record(t, s, "s1", 0, "ok")
	assert.Equal(t, fixed, entry.Timestamp)

	entries, err := s.List(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, fixed.Equal(entries[0].Timestamp))
}

package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStoreLastWriteWins(t *testing.T) {
	s := NewStore()
	s.Set(Identity, "anxious")
	s.Set(Goal, "doctor")
	s.Set(Identity, "calm")

	assert.Equal(t, []Fact{
		{Category: Identity, Value: "calm"},
		{Category: Goal, Value: "doctor"},
	}, s.Snapshot())
}

func TestStoreFormat(t *testing.T) {
	s := NewStore()
	assert.Equal(t, "None yet.", s.Format())

	s.Set(AcademicScore, "92%")
	s.Set(Struggle, "failure")

	assert.Equal(t, "- Academic Score: 92%\n- Struggle: failure", s.Format())
}

func TestStoreClearThenSet(t *testing.T) {
	s := NewStore()
	s.Set(Identity, "tired")
	s.Set(Goal, "engineer")
	s.Clear()

	_, ok := s.Get(Identity)
	assert.False(t, ok)

	s.Set(Goal, "artist")
	assert.Equal(t, []Fact{{Category: Goal, Value: "artist"}}, s.Snapshot())
}

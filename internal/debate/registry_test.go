package debate

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1996Rosy/server-app/internal/domain"
)

func TestRegistry_IdsSeededFromLastPersisted(t *testing.T) {
	r := NewRegistry(41)
	events := &captureBroadcaster{}

	s := r.Create("Budget", "", "alice", events)
	assert.Equal(t, int64(42), s.ID())

	s2 := r.Create("Transport", "", "alice", events)
	assert.Equal(t, int64(43), s2.ID())
}

func TestRegistry_IdsStartAtOneWithoutHistory(t *testing.T) {
	r := NewRegistry(0)
	s := r.Create("Budget", "", "alice", &captureBroadcaster{})
	assert.Equal(t, int64(1), s.ID())
}

func TestRegistry_LookupMissReturnsNotFound(t *testing.T) {
	r := NewRegistry(0)

	s, err := r.Lookup(7)
	assert.Nil(t, s)
	assert.ErrorIs(t, err, domain.ErrDebateNotFound)
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	r := NewRegistry(0)
	events := &captureBroadcaster{}

	s := NewSession(r.NextID(), "Budget", "city budget", "alice", events)
	r.Register(s)

	got, err := r.Lookup(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.Equal(t, 1, r.Count())
}

func TestRegistry_LookupMissLeavesOtherSessionsIntact(t *testing.T) {
	r := NewRegistry(0)
	s := r.Create("Budget", "", "alice", &captureBroadcaster{})

	_, err := r.Lookup(99)
	assert.ErrorIs(t, err, domain.ErrDebateNotFound)

	got, err := r.Lookup(s.ID())
	require.NoError(t, err)
	assert.Same(t, s, got)
}

func TestRegistry_ConcurrentCreatesAllocateUniqueIds(t *testing.T) {
	r := NewRegistry(0)
	events := &captureBroadcaster{}

	const creators = 64
	ids := make(chan int64, creators)

	var wg sync.WaitGroup
	for i := 0; i < creators; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids <- r.Create("Debate", "", "alice", events).ID()
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "id %d allocated twice", id)
		seen[id] = true
	}
	assert.Len(t, seen, creators)
	assert.Equal(t, creators, r.Count())
}

func TestSequence_MonotonicAndIndependent(t *testing.T) {
	a := NewSequence(0)
	b := NewSequence(10)

	assert.Equal(t, int64(1), a.Next())
	assert.Equal(t, int64(2), a.Next())
	assert.Equal(t, int64(11), b.Next())
	assert.Equal(t, int64(2), a.Current())
}

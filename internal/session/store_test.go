package session

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(time.Hour)
	t.Cleanup(store.Close)
	return store
}

func TestHistoryUnknownSessionIsEmpty(t *testing.T) {
	store := newTestStore(t)
	assert.Empty(t, store.History("nope"))
	assert.Equal(t, 0, store.Len("nope"))
}

func TestAppendTurnPreservesOrder(t *testing.T) {
	store := newTestStore(t)

	store.AppendTurn("s1", "hello", "hi there")
	store.AppendTurn("s1", "what next", "more answers")

	history := store.History("s1")
	require.Len(t, history, 4)
	assert.Equal(t, Message{Role: RoleUser, Content: "hello"}, history[0])
	assert.Equal(t, Message{Role: RoleModel, Content: "hi there"}, history[1])
	assert.Equal(t, Message{Role: RoleUser, Content: "what next"}, history[2])
	assert.Equal(t, Message{Role: RoleModel, Content: "more answers"}, history[3])
}

func TestSessionsAreIndependent(t *testing.T) {
	store := newTestStore(t)

	store.AppendTurn("a", "question a", "answer a")
	store.AppendTurn("b", "question b", "answer b")
	store.Clear("a")

	assert.Empty(t, store.History("a"))
	require.Len(t, store.History("b"), 2)
	assert.Equal(t, "question b", store.History("b")[0].Content)
}

func TestTrimKeepsMostRecentTurns(t *testing.T) {
	store := newTestStore(t)
	const maxTurns = 3

	for i := 0; i < 10; i++ {
		store.AppendTurn("s1", fmt.Sprintf("q%d", i), fmt.Sprintf("a%d", i))
		store.Trim("s1", maxTurns)
		assert.LessOrEqual(t, store.Len("s1"), 2*maxTurns)
	}

	history := store.History("s1")
	require.Len(t, history, 2*maxTurns)
	// The retained entries are exactly the most recent ones, in order.
	assert.Equal(t, "q7", history[0].Content)
	assert.Equal(t, "a7", history[1].Content)
	assert.Equal(t, "q9", history[4].Content)
	assert.Equal(t, "a9", history[5].Content)
}

func TestTrimBelowLimitIsNoop(t *testing.T) {
	store := newTestStore(t)
	store.AppendTurn("s1", "q", "a")
	store.Trim("s1", 10)
	assert.Equal(t, 2, store.Len("s1"))
	store.Trim("missing", 10)
}

func TestClearIsIdempotent(t *testing.T) {
	store := newTestStore(t)

	store.AppendTurn("s1", "q", "a")
	store.Clear("s1")
	store.Clear("s1")

	assert.Empty(t, store.History("s1"))
}

func TestHistoryReturnsCopy(t *testing.T) {
	store := newTestStore(t)
	store.AppendTurn("s1", "q", "a")

	history := store.History("s1")
	history[0].Content = "mutated"

	assert.Equal(t, "q", store.History("s1")[0].Content)
}

func TestIdleSessionsExpire(t *testing.T) {
	store := NewStore(10 * time.Millisecond)
	defer store.Close()

	store.AppendTurn("s1", "q", "a")

	// Reads touch the entry, so poll at an interval longer than the TTL.
	assert.Eventually(t, func() bool {
		return store.Len("s1") == 0
	}, time.Second, 50*time.Millisecond)
}

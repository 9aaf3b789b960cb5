package session

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithRecentBot_LeavesOriginalUntouched(t *testing.T) {
	orig := State{APIKey: "k", RecentBotIDs: []string{"a", "b"}}

	next := orig.WithRecentBot("c")

	assert.Equal(t, []string{"a", "b"}, orig.RecentBotIDs)
	assert.Equal(t, []string{"c", "a", "b"}, next.RecentBotIDs)
	assert.Equal(t, "k", next.APIKey)
}

func TestWithRecentBot_MovesExistingToFront(t *testing.T) {
	s := State{RecentBotIDs: []string{"a", "b", "c"}}

	assert.Equal(t, []string{"b", "a", "c"}, s.WithRecentBot("b").RecentBotIDs)
}

func TestWithRecentBot_Caps(t *testing.T) {
	var s State
	for i := 0; i < MaxRecentBots+5; i++ {
		s = s.WithRecentBot(fmt.Sprintf("bot-%d", i))
	}

	require.Len(t, s.RecentBotIDs, MaxRecentBots)
	assert.Equal(t, "bot-14", s.RecentBotIDs[0])
	assert.Equal(t, "bot-5", s.RecentBotIDs[MaxRecentBots-1])
}

func TestWithRecentBot_EmptyIDIgnored(t *testing.T) {
	s := State{RecentBotIDs: []string{"a"}}
	assert.Equal(t, []string{"a"}, s.WithRecentBot("").RecentBotIDs)
}

func TestLastBot(t *testing.T) {
	_, ok := State{}.LastBot()
	assert.False(t, ok)

	id, ok := State{}.WithRecentBot("x").LastBot()
	assert.True(t, ok)
	assert.Equal(t, "x", id)
}

func TestWithAPIKey(t *testing.T) {
	orig := State{RecentBotIDs: []string{"a"}}
	next := orig.WithAPIKey("secret")

	assert.Empty(t, orig.APIKey)
	assert.Equal(t, "secret", next.APIKey)
	assert.Equal(t, orig.RecentBotIDs, next.RecentBotIDs)
}

func TestContext(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, State{}, FromContext(ctx))
	assert.Empty(t, IDFromContext(ctx))

	ctx = NewContext(ctx, State{APIKey: "k"})
	ctx = WithID(ctx, "sess-1")

	assert.Equal(t, "k", FromContext(ctx).APIKey)
	assert.Equal(t, "sess-1", IDFromContext(ctx))
}

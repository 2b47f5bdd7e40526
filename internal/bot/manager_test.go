package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geonotes/internal/flow"
)

// A pending session can expire between the router's check and the locked
// read. The manager then answers with the unknown-text reply rather than
// dropping the message silently.
func TestManagerRepliesWhenSessionExpired(t *testing.T) {
	f := newFixture()
	m := f.bot.Manager()

	err := m.dispatch(context.Background(), f.rec, testUser, flow.Message{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, []string{textUnknown}, f.rec.texts)
}

func TestManagerFeedsPendingSession(t *testing.T) {
	f := newFixture()
	m := f.bot.Manager()
	f.bot.engine.Start(testUser, flow.Session{Kind: flow.ResetAll})

	err := m.dispatch(context.Background(), f.rec, testUser, flow.Message{Text: resetPhrase})
	require.NoError(t, err)
	assert.Empty(t, f.rec.texts, "a handled message gets the step's reply only")
	assert.Equal(t, textResetDone, f.rec.lastFinal())
}

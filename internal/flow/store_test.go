package flow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreLastPromptWins(t *testing.T) {
	s := NewStore(0)

	s.Put(7, Session{Kind: AddPlace})
	s.Put(7, Session{Kind: ResetAll})

	sess, ok := s.Get(7)
	require.True(t, ok)
	assert.Equal(t, ResetAll, sess.Kind)
	assert.Equal(t, 1, s.Len())
}

func TestStoreClear(t *testing.T) {
	s := NewStore(0)

	s.Put(7, Session{Kind: AddPlace})
	s.Clear(7)

	_, ok := s.Get(7)
	assert.False(t, ok)
	assert.Zero(t, s.Len())

	// Clearing an absent entry is a no-op.
	s.Clear(7)
}

func TestStoreTTLExpiry(t *testing.T) {
	now := time.Unix(1000, 0)
	s := NewStore(30 * time.Minute)
	s.now = func() time.Time { return now }

	s.Put(7, Session{Kind: AddPlace, Step: 2})

	now = now.Add(29 * time.Minute)
	_, ok := s.Get(7)
	assert.True(t, ok)

	now = now.Add(2 * time.Minute)
	_, ok = s.Get(7)
	assert.False(t, ok)
	assert.Zero(t, s.Len(), "expired entry must be dropped")
}

func TestStoreZeroTTLNeverExpires(t *testing.T) {
	now := time.Unix(1000, 0)
	s := NewStore(0)
	s.now = func() time.Time { return now }

	s.Put(7, Session{Kind: AddPlace})

	now = now.Add(1000 * time.Hour)
	_, ok := s.Get(7)
	assert.True(t, ok)
}

func TestStoreIsolatesUsers(t *testing.T) {
	s := NewStore(0)

	s.Put(1, Session{Kind: AddPlace})
	s.Put(2, Session{Kind: ResetAll})
	s.Clear(1)

	_, ok := s.Get(1)
	assert.False(t, ok)
	sess, ok := s.Get(2)
	require.True(t, ok)
	assert.Equal(t, ResetAll, sess.Kind)
}

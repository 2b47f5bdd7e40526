package flow

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopResponder struct{}

func (nopResponder) Text(string) error              { return nil }
func (nopResponder) Prompt(string, ...string) error { return nil }
func (nopResponder) Final(string) error             { return nil }
func (nopResponder) Photo([]byte) error             { return nil }
func (nopResponder) Location(float64, float64) error { return nil }

const testKind Kind = "two_step"

// twoStepEngine collects a word on step 0 and confirms on step 1.
func twoStepEngine(saved *[]string) *Engine {
	e := NewEngine(NewStore(0))
	e.Register(testKind,
		func(_ context.Context, _ Responder, _ int64, msg Message, sess Session) Outcome {
			if msg.Text == "" {
				return Reject()
			}
			return Advance(Session{Kind: sess.Kind, Step: sess.Step + 1, Ctx: msg.Text})
		},
		func(_ context.Context, _ Responder, _ int64, msg Message, sess Session) Outcome {
			switch msg.Text {
			case "yes":
				word, _ := sess.Ctx.(string)
				*saved = append(*saved, word)
				return Complete()
			case "no":
				return Cancel()
			default:
				return Reject()
			}
		},
	)
	return e
}

func TestEngineNoSession(t *testing.T) {
	e := twoStepEngine(&[]string{})

	handled, err := e.Handle(context.Background(), nopResponder{}, 7, Message{Text: "hi"})
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestEngineCompletesWorkflow(t *testing.T) {
	var saved []string
	e := twoStepEngine(&saved)
	e.Start(7, Session{Kind: testKind})
	assert.True(t, e.InProgress(7))

	for _, text := range []string{"hello", "yes"} {
		handled, err := e.Handle(context.Background(), nopResponder{}, 7, Message{Text: text})
		require.NoError(t, err)
		require.True(t, handled)
	}

	assert.Equal(t, []string{"hello"}, saved)
	assert.False(t, e.InProgress(7))
}

func TestEngineRejectKeepsStep(t *testing.T) {
	var saved []string
	e := twoStepEngine(&saved)
	e.Start(7, Session{Kind: testKind})

	// Empty input is rejected; the step stays pending for a retry.
	handled, err := e.Handle(context.Background(), nopResponder{}, 7, Message{})
	require.NoError(t, err)
	require.True(t, handled)
	assert.True(t, e.InProgress(7))

	sess, ok := e.Store().Get(7)
	require.True(t, ok)
	assert.Equal(t, 0, sess.Step)
}

func TestEngineCancelClearsSession(t *testing.T) {
	var saved []string
	e := twoStepEngine(&saved)
	e.Start(7, Session{Kind: testKind})

	_, err := e.Handle(context.Background(), nopResponder{}, 7, Message{Text: "hello"})
	require.NoError(t, err)
	_, err = e.Handle(context.Background(), nopResponder{}, 7, Message{Text: "no"})
	require.NoError(t, err)

	assert.Empty(t, saved)
	assert.False(t, e.InProgress(7))
}

func TestEngineStartReplacesPending(t *testing.T) {
	var saved []string
	e := twoStepEngine(&saved)

	e.Start(7, Session{Kind: testKind, Step: 1, Ctx: "stale"})
	e.Start(7, Session{Kind: testKind})

	sess, ok := e.Store().Get(7)
	require.True(t, ok)
	assert.Equal(t, 0, sess.Step)
	assert.Nil(t, sess.Ctx)
}

func TestEngineUnregisteredStep(t *testing.T) {
	e := NewEngine(NewStore(0))
	e.Start(7, Session{Kind: "unknown", Step: 3})

	handled, err := e.Handle(context.Background(), nopResponder{}, 7, Message{Text: "hi"})
	assert.True(t, handled)
	assert.Error(t, err)
	assert.False(t, e.InProgress(7), "broken session must not stay pending")
}

// One user's messages run through the engine strictly one at a time, so a
// step handler never observes another invocation for the same user in flight.
func TestEngineSerializesPerUser(t *testing.T) {
	var inFlight, overlapped atomic.Bool
	e := NewEngine(NewStore(0))
	e.Register("slow",
		func(context.Context, Responder, int64, Message, Session) Outcome {
			if !inFlight.CompareAndSwap(false, true) {
				overlapped.Store(true)
			}
			time.Sleep(time.Millisecond)
			inFlight.Store(false)
			return Reject()
		},
	)
	e.Start(7, Session{Kind: "slow"})

	var wg sync.WaitGroup
	for g := 0; g < 4; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 10; i++ {
				handled, err := e.Handle(context.Background(), nopResponder{}, 7, Message{Text: "x"})
				assert.NoError(t, err)
				assert.True(t, handled)
			}
		}()
	}
	wg.Wait()

	assert.False(t, overlapped.Load(), "two step handlers ran concurrently for one user")
	assert.True(t, e.InProgress(7))
}

func TestEngineAbandon(t *testing.T) {
	var saved []string
	e := twoStepEngine(&saved)
	e.Start(7, Session{Kind: testKind})

	e.Abandon(7)
	assert.False(t, e.InProgress(7))
}

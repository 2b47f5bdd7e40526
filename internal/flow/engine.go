package flow

import (
	"context"
	"fmt"

	"geonotes/core/logger"
	"geonotes/core/metrics"
	"log/slog"
)

// Engine dispatches inbound messages to the handler registered for the
// user's pending (kind, step) and applies the resulting outcome.
type Engine struct {
	store    *Store
	handlers map[Kind][]Handler
}

// NewEngine creates an Engine over the given session store.
func NewEngine(store *Store) *Engine {
	return &Engine{
		store:    store,
		handlers: make(map[Kind][]Handler),
	}
}

// Register installs the ordered step handlers for a workflow. Registration
// happens once during wiring, before any message is handled.
func (e *Engine) Register(kind Kind, steps ...Handler) {
	e.handlers[kind] = steps
}

// Store exposes the underlying session store for diagnostics.
func (e *Engine) Store() *Store {
	return e.store
}

// Start registers the first step of a workflow for the user. Any pending
// session is overwritten.
func (e *Engine) Start(userID int64, sess Session) {
	unlock := e.store.LockUser(userID)
	defer unlock()
	e.store.Put(userID, sess)
}

// InProgress reports whether the user has a pending conversation.
func (e *Engine) InProgress(userID int64) bool {
	_, ok := e.store.Get(userID)
	return ok
}

// Abandon clears the user's pending conversation without a reply.
func (e *Engine) Abandon(userID int64) {
	unlock := e.store.LockUser(userID)
	defer unlock()
	e.store.Clear(userID)
}

// Handle routes msg to the pending step for the user. It returns false when
// no session is pending (the caller should treat the message as top-level).
// The user's messages are processed strictly one at a time: the session is
// resolved, handled, and transitioned under the per-user lock.
func (e *Engine) Handle(ctx context.Context, r Responder, userID int64, msg Message) (bool, error) {
	unlock := e.store.LockUser(userID)
	defer unlock()

	sess, ok := e.store.Get(userID)
	if !ok {
		return false, nil
	}

	steps := e.handlers[sess.Kind]
	if sess.Step < 0 || sess.Step >= len(steps) {
		// A session pointing at an unregistered step cannot make progress.
		e.store.Clear(userID)
		return true, fmt.Errorf("flow: no handler for %s step %d", sess.Kind, sess.Step)
	}

	out := steps[sess.Step](ctx, r, userID, msg, sess)

	switch out.kind {
	case outcomeAdvance:
		e.store.Put(userID, out.next)
	case outcomeReject:
		// Same step stays pending for a retry.
	default:
		e.store.Clear(userID)
	}

	metrics.FlowOutcomes.WithLabelValues(string(sess.Kind), out.String()).Inc()
	logger.Debug(ctx, "flow", "step.handled",
		slog.Int64("user_id", userID),
		slog.String("workflow", string(sess.Kind)),
		slog.Int("step", sess.Step),
		slog.String("outcome", out.String()),
	)
	return true, nil
}

// Package flow implements the multi-step conversation engine: a per-user
// session holding (workflow kind, step index, typed context), a handler
// table keyed by kind and step, and the outcome semantics that drive
// session transitions.
package flow

import "context"

// Kind names a multi-step workflow.
type Kind string

const (
	AddPlace      Kind = "add_place"
	ChangeSetting Kind = "change_setting"
	ResetAll      Kind = "reset_all"
	SearchPlace   Kind = "search_place"
	DeletePlace   Kind = "delete_place"
	AddFriend     Kind = "add_friend"
	DeleteFriend  Kind = "delete_friend"
)

// Session is the pending state of one user's conversation. Ctx carries the
// typed payload a workflow threads between steps (a *domain.PlaceDraft, a
// *Selection, ...); handlers assert the concrete type they registered.
type Session struct {
	Kind Kind
	Step int
	Ctx  any
}

// Coords is a reported geoposition.
type Coords struct {
	Lat float64
	Lon float64
}

// Contact is a shared contact with a resolvable numeric identity.
// UserID is zero when the transport could not resolve one.
type Contact struct {
	UserID int64
	Name   string
}

// Message is a normalized inbound update. Exactly one payload field is
// expected to be meaningful; steps validate the shape they need.
type Message struct {
	Text     string
	Photo    []byte
	Location *Coords
	Contact  *Contact
}

// Responder delivers replies for the current user. Prompt attaches
// quick-reply suggestions for the next expected input; Final removes them.
type Responder interface {
	Text(msg string) error
	Prompt(msg string, suggestions ...string) error
	Final(msg string) error
	Photo(photo []byte) error
	Location(lat, lon float64) error
}

// Handler processes one step's input and decides the session transition.
type Handler func(ctx context.Context, r Responder, userID int64, msg Message, sess Session) Outcome

type outcomeKind int

const (
	outcomeAdvance outcomeKind = iota
	outcomeComplete
	outcomeCancel
	outcomeReject
	outcomeFail
)

// Outcome is the result of running a step handler. Advance replaces the
// session with the next step, Complete/Cancel/Fail clear it, and Reject
// leaves the same step pending so the user may retry.
type Outcome struct {
	kind outcomeKind
	next Session
}

// Advance moves the conversation to the next step.
func Advance(next Session) Outcome { return Outcome{kind: outcomeAdvance, next: next} }

// Complete ends the conversation successfully.
func Complete() Outcome { return Outcome{kind: outcomeComplete} }

// Cancel ends the conversation without applying its effect.
func Cancel() Outcome { return Outcome{kind: outcomeCancel} }

// Reject keeps the current step pending after invalid input.
func Reject() Outcome { return Outcome{kind: outcomeReject} }

// Fail ends the conversation after an unrecoverable error; resuming into an
// unknown storage state is unsafe, so the session is discarded.
func Fail() Outcome { return Outcome{kind: outcomeFail} }

func (o Outcome) String() string {
	switch o.kind {
	case outcomeAdvance:
		return "advance"
	case outcomeComplete:
		return "ok"
	case outcomeCancel:
		return "cancelled"
	case outcomeReject:
		return "rejected"
	default:
		return "fail"
	}
}

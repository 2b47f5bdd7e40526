package bot

import (
	"context"
	"errors"

	"geonotes/internal/domain"
	"geonotes/internal/flow"
)

// Single-step workflows resolving a reply against a selection snapshot:
// search, delete place, delete friend, plus the full-reset confirmation.

func selectionFrom(sess flow.Session) *flow.Selection {
	sel, ok := sess.Ctx.(*flow.Selection)
	if !ok {
		return nil
	}
	return sel
}

func (b *Bot) searchChoose(ctx context.Context, r flow.Responder, _ int64, msg flow.Message, sess flow.Session) flow.Outcome {
	if msg.Text == labelCancel {
		_ = r.Final(textCancelled)
		return flow.Cancel()
	}
	sel := selectionFrom(sess)
	if sel == nil {
		_ = r.Final(textTryLater)
		return flow.Fail()
	}

	row, err := sel.Resolve(msg.Text)
	if err != nil {
		_ = r.Prompt(textAskWhichPlace, append(sel.Labels(), labelCancel)...)
		return flow.Reject()
	}

	// The snapshot may outlive the place; a stale id resolves to not-found.
	place, err := b.places.Get(ctx, row.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		_ = r.Final(textPlaceGone)
		return flow.Complete()
	case err != nil:
		_ = r.Final(textTryLater)
		return flow.Fail()
	}

	if err := r.Final(place.Title); err != nil {
		return flow.Fail()
	}
	if len(place.Photo) > 0 {
		_ = r.Photo(place.Photo)
	}
	if place.HasLocation() {
		_ = r.Location(*place.Latitude, *place.Longitude)
	}
	return flow.Complete()
}

func (b *Bot) deleteChoose(ctx context.Context, r flow.Responder, userID int64, msg flow.Message, sess flow.Session) flow.Outcome {
	if msg.Text == labelCancel {
		_ = r.Final(textCancelled)
		return flow.Cancel()
	}
	sel := selectionFrom(sess)
	if sel == nil {
		_ = r.Final(textTryLater)
		return flow.Fail()
	}

	row, err := sel.Resolve(msg.Text)
	if err != nil {
		_ = r.Prompt(textAskWhichPlace, append(sel.Labels(), labelCancel)...)
		return flow.Reject()
	}

	switch err := b.places.Remove(ctx, userID, row.ID); {
	case errors.Is(err, domain.ErrNotFound):
		_ = r.Final(textPlaceGone)
		return flow.Complete()
	case err != nil:
		_ = r.Final(textTryLater)
		return flow.Fail()
	}
	_ = r.Final(textPlaceDeleted)
	return flow.Complete()
}

func (b *Bot) friendChoose(ctx context.Context, r flow.Responder, userID int64, msg flow.Message, sess flow.Session) flow.Outcome {
	if msg.Text == labelCancel {
		_ = r.Final(textCancelled)
		return flow.Cancel()
	}
	sel := selectionFrom(sess)
	if sel == nil {
		_ = r.Final(textTryLater)
		return flow.Fail()
	}

	row, err := sel.Resolve(msg.Text)
	if err != nil {
		_ = r.Prompt(textAskWhichFriend, append(sel.Labels(), labelCancel)...)
		return flow.Reject()
	}

	switch err := b.friends.Remove(ctx, userID, row.ID); {
	case errors.Is(err, domain.ErrNotFound):
		_ = r.Final(textFriendGone)
		return flow.Complete()
	case err != nil:
		_ = r.Final(textTryLater)
		return flow.Fail()
	}
	_ = r.Final(textFriendRemoved)
	return flow.Complete()
}

// resetConfirm requires the confirmation phrase typed exactly; anything else
// aborts without touching data.
func (b *Bot) resetConfirm(ctx context.Context, r flow.Responder, userID int64, msg flow.Message, _ flow.Session) flow.Outcome {
	if msg.Text != resetPhrase {
		_ = r.Final(textResetCancelled)
		return flow.Cancel()
	}
	if err := b.settings.Reset(ctx, userID); err != nil {
		_ = r.Final(textTryLater)
		return flow.Fail()
	}
	_ = r.Final(textResetDone)
	return flow.Complete()
}

func (b *Bot) friendContact(ctx context.Context, r flow.Responder, userID int64, msg flow.Message, sess flow.Session) flow.Outcome {
	if msg.Text == labelCancel {
		_ = r.Final(textCancelled)
		return flow.Cancel()
	}
	if msg.Contact == nil {
		_ = r.Prompt(textWantContact, labelCancel)
		return flow.Reject()
	}
	if msg.Contact.UserID == 0 {
		// A contact without a resolvable account id cannot be linked; let the
		// user pick another contact or cancel.
		_ = r.Prompt(textContactNoID, labelCancel)
		return flow.Reject()
	}

	userName, _ := sess.Ctx.(string)
	err := b.friends.Add(ctx, userID, userName, msg.Contact.UserID, msg.Contact.Name)
	switch {
	case errors.Is(err, domain.ErrAlreadyFriend):
		_ = r.Final(textAlreadyFriend)
		return flow.Complete()
	case err != nil:
		_ = r.Final(textTryLater)
		return flow.Fail()
	}
	_ = r.Final(textFriendAdded)
	return flow.Complete()
}

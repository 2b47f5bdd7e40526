package bot

import (
	"context"

	"geonotes/internal/domain"
	"geonotes/internal/flow"
)

// The add-place workflow threads a *domain.PlaceDraft through four steps:
// title, optional photo, optional geoposition, and a final confirmation.

func draftFrom(sess flow.Session) *domain.PlaceDraft {
	draft, ok := sess.Ctx.(*domain.PlaceDraft)
	if !ok {
		return &domain.PlaceDraft{}
	}
	return draft
}

func (b *Bot) addPlaceTitle(_ context.Context, r flow.Responder, _ int64, msg flow.Message, sess flow.Session) flow.Outcome {
	if msg.Text == labelCancel {
		_ = r.Final(textCancelled)
		return flow.Cancel()
	}
	if msg.Text == "" {
		_ = r.Prompt(textAskTitle)
		return flow.Reject()
	}

	draft := draftFrom(sess)
	draft.Title = msg.Text
	_ = r.Prompt(textAskPhoto, labelSkip, labelCancel)
	return flow.Advance(flow.Session{Kind: sess.Kind, Step: sess.Step + 1, Ctx: draft})
}

func (b *Bot) addPlacePhoto(_ context.Context, r flow.Responder, _ int64, msg flow.Message, sess flow.Session) flow.Outcome {
	draft := draftFrom(sess)

	switch {
	case msg.Text == labelCancel:
		_ = r.Final(textCancelled)
		return flow.Cancel()
	case len(msg.Photo) > 0:
		draft.Photo = msg.Photo
	case msg.Text == labelSkip:
		// no photo for this place
	default:
		_ = r.Prompt(textWantPhotoOrSkip, labelSkip, labelCancel)
		return flow.Reject()
	}

	_ = r.Prompt(textAskLocation, labelSkip, labelCancel)
	return flow.Advance(flow.Session{Kind: sess.Kind, Step: sess.Step + 1, Ctx: draft})
}

func (b *Bot) addPlaceLocation(_ context.Context, r flow.Responder, _ int64, msg flow.Message, sess flow.Session) flow.Outcome {
	draft := draftFrom(sess)

	switch {
	case msg.Text == labelCancel:
		_ = r.Final(textCancelled)
		return flow.Cancel()
	case msg.Location != nil:
		lat, lon := msg.Location.Lat, msg.Location.Lon
		draft.Latitude = &lat
		draft.Longitude = &lon
	case msg.Text == labelSkip:
		// no geoposition for this place
	default:
		_ = r.Prompt(textWantLocationOrSkip, labelSkip, labelCancel)
		return flow.Reject()
	}

	_ = r.Prompt(textAskConfirm, labelYes, labelNo)
	return flow.Advance(flow.Session{Kind: sess.Kind, Step: sess.Step + 1, Ctx: draft})
}

func (b *Bot) addPlaceConfirm(ctx context.Context, r flow.Responder, _ int64, msg flow.Message, sess flow.Session) flow.Outcome {
	switch msg.Text {
	case labelYes:
		if _, err := b.places.Save(ctx, *draftFrom(sess)); err != nil {
			_ = r.Final(textTryLater)
			return flow.Fail()
		}
		_ = r.Final(textPlaceSaved)
		return flow.Complete()
	case labelNo, labelCancel:
		_ = r.Final(textPlaceNotSaved)
		return flow.Cancel()
	default:
		_ = r.Prompt(textWantYesOrNo, labelYes, labelNo)
		return flow.Reject()
	}
}

package bot

import (
	"context"
	"strconv"

	"geonotes/internal/flow"
)

// The change-setting workflow is two steps: pick one of the three settings,
// then supply its new value. The session context carries the sender's display
// name alongside the picked setting; the name seeds the user row when the
// value is stored for a user who was never registered.
type settingDraft struct {
	userName string
	setting  string
}

func draftSetting(sess flow.Session) *settingDraft {
	if d, ok := sess.Ctx.(*settingDraft); ok && d != nil {
		return d
	}
	return &settingDraft{}
}

func (b *Bot) settingChoose(_ context.Context, r flow.Responder, _ int64, msg flow.Message, sess flow.Session) flow.Outcome {
	draft := draftSetting(sess)
	draft.setting = msg.Text
	next := flow.Session{Kind: sess.Kind, Step: sess.Step + 1, Ctx: draft}

	switch msg.Text {
	case settingListSize:
		_ = r.Prompt(textAskListSize)
		return flow.Advance(next)
	case settingRadius:
		_ = r.Prompt(textAskRadius)
		return flow.Advance(next)
	case settingFriends:
		_ = r.Prompt(textAskFriends, labelEnable, labelDisable)
		return flow.Advance(next)
	case labelCancel:
		_ = r.Final(textCancelled)
		return flow.Cancel()
	default:
		_ = r.Prompt(textAskWhichSetting, settingListSize, settingRadius, settingFriends, labelCancel)
		return flow.Reject()
	}
}

func (b *Bot) settingValue(ctx context.Context, r flow.Responder, userID int64, msg flow.Message, sess flow.Session) flow.Outcome {
	if msg.Text == labelCancel {
		_ = r.Final(textCancelled)
		return flow.Cancel()
	}

	draft := draftSetting(sess)

	var err error
	switch draft.setting {
	case settingListSize:
		n, convErr := strconv.Atoi(msg.Text)
		if convErr != nil || n <= 0 {
			_ = r.Prompt(textBadNumber)
			return flow.Reject()
		}
		err = b.settings.SetListSize(ctx, userID, draft.userName, n)
	case settingRadius:
		radius, convErr := strconv.ParseFloat(msg.Text, 64)
		if convErr != nil || radius <= 0 {
			_ = r.Prompt(textBadNumber)
			return flow.Reject()
		}
		err = b.settings.SetRadius(ctx, userID, draft.userName, radius)
	case settingFriends:
		switch msg.Text {
		case labelEnable:
			err = b.settings.SetFriendPlacesVisible(ctx, userID, draft.userName, true)
		case labelDisable:
			err = b.settings.SetFriendPlacesVisible(ctx, userID, draft.userName, false)
		default:
			_ = r.Prompt(textAskFriends, labelEnable, labelDisable)
			return flow.Reject()
		}
	default:
		_ = r.Final(textTryLater)
		return flow.Fail()
	}

	if err != nil {
		_ = r.Final(textTryLater)
		return flow.Fail()
	}
	_ = r.Final(textSettingSaved)
	return flow.Complete()
}

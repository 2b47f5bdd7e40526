package bot

import (
	"geonotes/core/telegram/helpers"
	"geonotes/core/telegram/keyboard"
	"geonotes/internal/flow"

	tele "gopkg.in/telebot.v4"
)

// suggestionsPerRow keeps quick-reply keyboards compact; selection labels
// carry titles and stay readable two to a row.
const suggestionsPerRow = 2

// teleResponder delivers flow replies through the shared send helpers, so
// conversation steps stay free of transport types.
type teleResponder struct {
	c tele.Context
}

func respond(c tele.Context) flow.Responder {
	return teleResponder{c: c}
}

func (r teleResponder) Text(msg string) error {
	return helpers.SendText(r.c, msg)
}

func (r teleResponder) Prompt(msg string, suggestions ...string) error {
	if len(suggestions) == 0 {
		return helpers.SendKeyboard(r.c, msg, keyboard.ForceReply())
	}
	return helpers.SendKeyboard(r.c, msg, keyboard.OneTime(suggestions, suggestionsPerRow))
}

func (r teleResponder) Final(msg string) error {
	return helpers.SendKeyboard(r.c, msg, keyboard.Remove())
}

func (r teleResponder) Photo(photo []byte) error {
	return helpers.SendPhoto(r.c, photo)
}

func (r teleResponder) Location(lat, lon float64) error {
	return helpers.SendLocation(r.c, lat, lon)
}

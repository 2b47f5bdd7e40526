package bot

import (
	"fmt"
	"time"

	"geonotes/core/buildinfo"
	"geonotes/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// handleStats reports runtime counters. Registered admin-only and hidden
// from the command menu.
func (b *Bot) handleStats(c tele.Context) error {
	uptime := time.Since(b.startedAt).Round(time.Second)

	var sendErrors uint64
	if b.sendErrors != nil {
		sendErrors = b.sendErrors()
	}

	text := fmt.Sprintf("version: %s\nuptime: %s\nactive sessions: %d\nsend errors: %d",
		buildinfo.Version,
		uptime,
		b.engine.Store().Len(),
		sendErrors,
	)
	return helpers.SendText(c, text)
}

package router

import (
	"time"

	tg "geonotes/core/telegram"
	"geonotes/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// FSM defines the minimal interface for the conversation flow manager.
type FSM interface {
	InProgress(userID int64) bool
	ManagerHandler(c tele.Context) error
}

// MessageOptions controls routing of non-command updates.
type MessageOptions struct {
	// Location handles a location report arriving outside any conversation.
	Location tele.HandlerFunc
	// UnknownText handles text that matches neither a pending conversation
	// step nor a registered command.
	UnknownText tele.HandlerFunc
}

// MessageRoutes builds handlers for text, photo, location, and contact
// updates. For plain text a pending conversation step wins; commands bound
// to their own endpoints bypass OnText entirely, and the workflow they start
// replaces any pending session (last-prompt-wins).
func MessageRoutes(fsmMgr FSM, reg *tg.Registry, opts MessageOptions) []tg.Route {
	textHandler := func(c tele.Context) error {
		start := time.Now()
		text := c.Text()

		if fsmMgr != nil && fsmMgr.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "flow", start, "", "", func() error {
				return fsmMgr.ManagerHandler(c)
			})
		}

		if reg != nil {
			if key, cmd, ok := reg.LookupCommand(text); ok && cmd.Handler != nil {
				name := normalizeHandlerName(key)
				return handleWithSummary(c, name, start, "", "", func() error {
					return cmd.Handler(c)
				})
			}
		}

		if reg != nil {
			if fb := reg.TextFallback(); fb != nil {
				return handleWithSummary(c, "fallback", start, "", "", func() error {
					return fb(c)
				})
			}
		}

		if opts.UnknownText != nil {
			return handleWithSummary(c, "unknown_text", start, "", "", func() error {
				return opts.UnknownText(c)
			})
		}

		logHandlerSummary(c, "unknown_text", start, "skip", "ok", nil)
		return nil
	}

	// Photo and contact payloads only make sense inside a conversation step.
	attachmentHandler := func(name string) tele.HandlerFunc {
		return func(c tele.Context) error {
			start := time.Now()
			if fsmMgr != nil && fsmMgr.InProgress(c.Sender().ID) {
				return handleWithSummary(c, "flow_"+name, start, "", "", func() error {
					return fsmMgr.ManagerHandler(c)
				})
			}
			logHandlerSummary(c, "unexpected_"+name, start, "skip", "ok", nil)
			return nil
		}
	}

	locationHandler := func(c tele.Context) error {
		start := time.Now()
		if fsmMgr != nil && fsmMgr.InProgress(c.Sender().ID) {
			return handleWithSummary(c, "flow_location", start, "", "", func() error {
				return fsmMgr.ManagerHandler(c)
			})
		}
		if opts.Location != nil {
			return handleWithSummary(c, "nearby", start, "", "", func() error {
				return opts.Location(c)
			})
		}
		logHandlerSummary(c, "unexpected_location", start, "skip", "ok", nil)
		return nil
	}

	wrap := func(h tele.HandlerFunc) tele.HandlerFunc {
		return middleware.RecoverMiddleware(middleware.LoggerMiddleware(h))
	}

	return []tg.Route{
		{Endpoint: tele.OnText, Handler: wrap(textHandler)},
		{Endpoint: tele.OnPhoto, Handler: wrap(attachmentHandler("photo"))},
		{Endpoint: tele.OnContact, Handler: wrap(attachmentHandler("contact"))},
		{Endpoint: tele.OnLocation, Handler: wrap(locationHandler)},
	}
}

package bot

import (
	"context"
	"fmt"
	"io"
	"strings"

	"geonotes/core/telegram/helpers"
	"geonotes/internal/flow"

	tele "gopkg.in/telebot.v4"
)

// maxPhotoBytes caps downloaded place photos; Telegram's largest photo
// rendition fits well under this.
const maxPhotoBytes = 10 << 20

// Manager adapts the conversation engine to the message router: it
// normalizes telebot updates into flow messages and feeds pending sessions.
type Manager struct {
	engine *flow.Engine
}

func NewManager(engine *flow.Engine) *Manager {
	return &Manager{engine: engine}
}

// InProgress reports whether the user has a pending conversation step.
func (m *Manager) InProgress(userID int64) bool {
	return m.engine.InProgress(userID)
}

// ManagerHandler routes an update into the user's pending conversation.
func (m *Manager) ManagerHandler(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	msg, err := normalizeMessage(c)
	if err != nil {
		_ = respond(c).Text(textTryLater)
		return err
	}
	return m.dispatch(ctx, respond(c), c.Sender().ID, msg)
}

// dispatch feeds the pending session. The session can expire between the
// router's pending check and the locked read inside Handle; an unhandled
// message still gets a reply instead of being dropped.
func (m *Manager) dispatch(ctx context.Context, r flow.Responder, userID int64, msg flow.Message) error {
	handled, err := m.engine.Handle(ctx, r, userID, msg)
	if err != nil {
		return err
	}
	if !handled {
		return r.Text(textUnknown)
	}
	return nil
}

// normalizeMessage extracts the one payload a conversation step can consume.
// Photos are fetched eagerly so steps receive bytes, not file handles.
func normalizeMessage(c tele.Context) (flow.Message, error) {
	m := c.Message()
	if m == nil {
		return flow.Message{}, nil
	}

	msg := flow.Message{Text: strings.TrimSpace(m.Text)}

	if m.Photo != nil {
		data, err := downloadPhoto(c, m.Photo)
		if err != nil {
			return flow.Message{}, fmt.Errorf("download photo: %w", err)
		}
		msg.Photo = data
	}

	if m.Location != nil {
		msg.Location = &flow.Coords{
			Lat: float64(m.Location.Lat),
			Lon: float64(m.Location.Lng),
		}
	}

	if m.Contact != nil {
		name := strings.TrimSpace(m.Contact.FirstName + " " + m.Contact.LastName)
		msg.Contact = &flow.Contact{
			UserID: m.Contact.UserID,
			Name:   name,
		}
	}

	return msg, nil
}

func downloadPhoto(c tele.Context, photo *tele.Photo) ([]byte, error) {
	rc, err := c.Bot().File(&photo.File)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	data, err := io.ReadAll(io.LimitReader(rc, maxPhotoBytes))
	if err != nil {
		return nil, err
	}
	return data, nil
}

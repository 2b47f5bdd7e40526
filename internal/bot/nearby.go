package bot

import (
	"fmt"

	"geonotes/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// HandleNearby answers a location shared outside any conversation with the
// saved places inside the user's search radius, each with its distance.
func (b *Bot) HandleNearby(c tele.Context) error {
	loc := c.Message().Location
	if loc == nil {
		return nil
	}

	ctx := helpers.BuildContext(c)
	userID := c.Sender().ID

	settings, found, err := b.settings.Get(ctx, userID)
	if err != nil {
		return helpers.SendText(c, textTryLater)
	}
	if !found {
		return helpers.SendText(c, textNoPlaces)
	}

	matches, err := b.places.Nearby(ctx, userID,
		float64(loc.Lat), float64(loc.Lng),
		settings.Radius, settings.FriendPlacesVisible)
	if err != nil {
		return helpers.SendText(c, textTryLater)
	}
	if len(matches) == 0 {
		return helpers.SendText(c, textNothingNearby)
	}

	for _, m := range matches {
		header := fmt.Sprintf("%s\nDistance: %.2f meters", m.Place.Title, m.Distance)
		if err := helpers.SendText(c, header); err != nil {
			return err
		}
		if len(m.Place.Photo) > 0 {
			if err := helpers.SendPhoto(c, m.Place.Photo); err != nil {
				return err
			}
		}
		if m.Place.HasLocation() {
			if err := helpers.SendLocation(c, *m.Place.Latitude, *m.Place.Longitude); err != nil {
				return err
			}
		}
	}
	return nil
}

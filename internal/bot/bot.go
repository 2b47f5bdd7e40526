// Package bot wires the Telegram surface: command handlers, conversation
// steps and the proximity reply, all speaking through the core send helpers.
package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tg "geonotes/core/telegram"
	"geonotes/core/telegram/commands"
	"geonotes/core/telegram/helpers"
	"geonotes/internal/domain"
	"geonotes/internal/flow"
	"geonotes/internal/geo"

	tele "gopkg.in/telebot.v4"
)

// PlacesService covers the place use-cases the handlers need.
type PlacesService interface {
	Save(ctx context.Context, draft domain.PlaceDraft) (int64, error)
	Recent(ctx context.Context, userID int64, limit int) ([]domain.Place, error)
	Refs(ctx context.Context, userID int64, includeFriends bool) ([]domain.PlaceRef, error)
	Get(ctx context.Context, id int64) (domain.Place, error)
	Remove(ctx context.Context, userID, id int64) error
	Nearby(ctx context.Context, userID int64, lat, lon, radius float64, includeFriends bool) ([]geo.Match, error)
}

// FriendsService covers the friend-graph use-cases.
type FriendsService interface {
	Add(ctx context.Context, userID int64, userName string, friendID int64, friendName string) error
	List(ctx context.Context, userID int64) ([]domain.Friend, error)
	Remove(ctx context.Context, userID, friendID int64) error
}

// SettingsService covers per-user preferences and account lifecycle.
type SettingsService interface {
	Register(ctx context.Context, userID int64, name string) error
	Get(ctx context.Context, userID int64) (domain.UserSettings, bool, error)
	SetListSize(ctx context.Context, userID int64, userName string, size int) error
	SetRadius(ctx context.Context, userID int64, userName string, radius float64) error
	SetFriendPlacesVisible(ctx context.Context, userID int64, userName string, visible bool) error
	Reset(ctx context.Context, userID int64) error
}

// Bot holds the handler dependencies and registers the full surface.
type Bot struct {
	engine   *flow.Engine
	places   PlacesService
	friends  FriendsService
	settings SettingsService

	startedAt  time.Time
	sendErrors func() uint64
}

func New(engine *flow.Engine, places PlacesService, friends FriendsService, settings SettingsService) *Bot {
	b := &Bot{
		engine:    engine,
		places:    places,
		friends:   friends,
		settings:  settings,
		startedAt: time.Now(),
	}
	b.registerFlows()
	return b
}

func (b *Bot) registerFlows() {
	b.engine.Register(flow.AddPlace, b.addPlaceTitle, b.addPlacePhoto, b.addPlaceLocation, b.addPlaceConfirm)
	b.engine.Register(flow.ChangeSetting, b.settingChoose, b.settingValue)
	b.engine.Register(flow.ResetAll, b.resetConfirm)
	b.engine.Register(flow.SearchPlace, b.searchChoose)
	b.engine.Register(flow.DeletePlace, b.deleteChoose)
	b.engine.Register(flow.AddFriend, b.friendContact)
	b.engine.Register(flow.DeleteFriend, b.friendChoose)
}

// Manager exposes the router adapter for the conversation engine.
func (b *Bot) Manager() *Manager {
	return NewManager(b.engine)
}

// SetSendErrorCounter wires the outbound dispatcher's error counter into /stats.
func (b *Bot) SetSendErrorCounter(fn func() uint64) {
	b.sendErrors = fn
}

// RegisterCommands fills the registry with the bot's command surface.
func (b *Bot) RegisterCommands(reg *tg.Registry) {
	reg.RegisterCommand("/start", commands.Command{Handler: b.handleStart, Description: "Start the bot"})
	reg.RegisterCommand("/help", commands.Command{Handler: b.handleHelp, Description: "Show help"})
	reg.RegisterCommand("/add", commands.Command{Handler: b.handleAdd, Description: "Save a new place"})
	reg.RegisterCommand("/list", commands.Command{Handler: b.handleList, Description: "Show your latest places"})
	reg.RegisterCommand("/search", commands.Command{Handler: b.handleSearch, Description: "Find a saved place"})
	reg.RegisterCommand("/delete", commands.Command{Handler: b.handleDelete, Description: "Delete one of your places"})
	reg.RegisterCommand("/add_friend", commands.Command{Handler: b.handleAddFriend, Description: "Share your places with a friend"})
	reg.RegisterCommand("/delete_friend", commands.Command{Handler: b.handleDeleteFriend, Description: "Stop sharing with a friend"})
	reg.RegisterCommand("/settings", commands.Command{Handler: b.handleSettings, Description: "Change your settings"})
	reg.RegisterCommand("/reset_all", commands.Command{Handler: b.handleResetAll, Description: "Erase all your data"})
	reg.RegisterCommand("/stats", commands.Command{Handler: b.handleStats, Description: "Runtime counters", AdminOnly: true, Hidden: true})
	reg.SetTextFallback(func(c tele.Context) error {
		return helpers.SendText(c, textUnknown)
	})
}

func senderName(c tele.Context) string {
	u := c.Sender()
	if u == nil {
		return ""
	}
	if u.Username != "" {
		return u.Username
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// HandleDenied answers an admin-only command invoked by anyone else.
func (b *Bot) HandleDenied(c tele.Context) error {
	return helpers.SendText(c, textDenied)
}

func (b *Bot) handleStart(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	if err := b.settings.Register(ctx, c.Sender().ID, senderName(c)); err != nil {
		return helpers.SendText(c, textTryLater)
	}
	return helpers.SendText(c, textStart)
}

func (b *Bot) handleHelp(c tele.Context) error {
	return helpers.SendText(c, textHelp)
}

func (b *Bot) handleAdd(c tele.Context) error {
	b.engine.Start(c.Sender().ID, flow.Session{
		Kind: flow.AddPlace,
		Ctx: &domain.PlaceDraft{
			UserID:   c.Sender().ID,
			UserName: senderName(c),
		},
	})
	return respond(c).Prompt(textAskTitle)
}

func (b *Bot) handleList(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	userID := c.Sender().ID

	settings, found, err := b.settings.Get(ctx, userID)
	if err != nil {
		return helpers.SendText(c, textTryLater)
	}
	if !found {
		return helpers.SendText(c, textNoPlaces)
	}

	limit := settings.ListSize
	if payload := strings.TrimSpace(c.Message().Payload); payload != "" {
		n, err := strconv.Atoi(payload)
		if err != nil || n <= 0 {
			return helpers.SendText(c, textBadNumber)
		}
		limit = n
	}

	places, err := b.places.Recent(ctx, userID, limit)
	if err != nil {
		return helpers.SendText(c, textTryLater)
	}
	if len(places) == 0 {
		return helpers.SendText(c, textNoPlaces)
	}
	for _, p := range places {
		if err := sendPlace(c, p); err != nil {
			return err
		}
	}
	return nil
}

func (b *Bot) handleSearch(c tele.Context) error {
	return b.startSelection(c, flow.SearchPlace, true)
}

func (b *Bot) handleDelete(c tele.Context) error {
	return b.startSelection(c, flow.DeletePlace, false)
}

// startSelection snapshots the choosable places and opens a one-step
// conversation over them. Search respects friend visibility; delete only
// ever offers the user's own places.
func (b *Bot) startSelection(c tele.Context, kind flow.Kind, respectVisibility bool) error {
	ctx := helpers.BuildContext(c)
	userID := c.Sender().ID

	includeFriends := false
	if respectVisibility {
		settings, _, err := b.settings.Get(ctx, userID)
		if err != nil {
			return helpers.SendText(c, textTryLater)
		}
		includeFriends = settings.FriendPlacesVisible
	}

	refs, err := b.places.Refs(ctx, userID, includeFriends)
	if err != nil {
		return helpers.SendText(c, textTryLater)
	}
	if len(refs) == 0 {
		return helpers.SendText(c, textNoPlaces)
	}

	items := make([]flow.Item, len(refs))
	for i, ref := range refs {
		items[i] = flow.Item{ID: ref.ID, Title: ref.Title}
	}
	sel := flow.NewSelection(items)

	b.engine.Start(userID, flow.Session{Kind: kind, Ctx: sel})
	return respond(c).Prompt(textAskWhichPlace, append(sel.Labels(), labelCancel)...)
}

func (b *Bot) handleAddFriend(c tele.Context) error {
	b.engine.Start(c.Sender().ID, flow.Session{Kind: flow.AddFriend, Ctx: senderName(c)})
	return respond(c).Prompt(textAskContact, labelCancel)
}

func (b *Bot) handleDeleteFriend(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	userID := c.Sender().ID

	friends, err := b.friends.List(ctx, userID)
	if err != nil {
		return helpers.SendText(c, textTryLater)
	}
	if len(friends) == 0 {
		return helpers.SendText(c, textNoFriends)
	}

	items := make([]flow.Item, len(friends))
	for i, f := range friends {
		items[i] = flow.Item{ID: f.ID, Title: f.Name}
	}
	sel := flow.NewSelection(items)

	b.engine.Start(userID, flow.Session{Kind: flow.DeleteFriend, Ctx: sel})
	return respond(c).Prompt(textAskWhichFriend, append(sel.Labels(), labelCancel)...)
}

func (b *Bot) handleSettings(c tele.Context) error {
	ctx := helpers.BuildContext(c)
	userID := c.Sender().ID

	if err := b.settings.Register(ctx, userID, senderName(c)); err != nil {
		return helpers.SendText(c, textTryLater)
	}
	settings, _, err := b.settings.Get(ctx, userID)
	if err != nil {
		return helpers.SendText(c, textTryLater)
	}

	friendState := labelDisable
	if settings.FriendPlacesVisible {
		friendState = labelEnable
	}
	current := fmt.Sprintf("%s: %d\n%s: %.0f m\n%s: %s",
		settingListSize, settings.ListSize,
		settingRadius, settings.Radius,
		settingFriends, friendState,
	)
	if err := helpers.SendText(c, current); err != nil {
		return err
	}

	b.engine.Start(userID, flow.Session{
		Kind: flow.ChangeSetting,
		Ctx:  &settingDraft{userName: senderName(c)},
	})
	return respond(c).Prompt(textAskWhichSetting,
		settingListSize, settingRadius, settingFriends, labelCancel)
}

func (b *Bot) handleResetAll(c tele.Context) error {
	b.engine.Start(c.Sender().ID, flow.Session{Kind: flow.ResetAll})
	return respond(c).Prompt(textResetConfirm, resetPhrase, labelCancel)
}

// sendPlace renders one saved place: title, then the optional photo and pin.
func sendPlace(c tele.Context, p domain.Place) error {
	if err := helpers.SendText(c, p.Title); err != nil {
		return err
	}
	if len(p.Photo) > 0 {
		if err := helpers.SendPhoto(c, p.Photo); err != nil {
			return err
		}
	}
	if p.HasLocation() {
		if err := helpers.SendLocation(c, *p.Latitude, *p.Longitude); err != nil {
			return err
		}
	}
	return nil
}

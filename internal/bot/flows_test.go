package bot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geonotes/internal/domain"
	"geonotes/internal/flow"
	"geonotes/internal/geo"
)

type recorder struct {
	texts   []string
	prompts []string
	finals  []string
}

func (r *recorder) Text(msg string) error              { r.texts = append(r.texts, msg); return nil }
func (r *recorder) Prompt(msg string, _ ...string) error { r.prompts = append(r.prompts, msg); return nil }
func (r *recorder) Final(msg string) error             { r.finals = append(r.finals, msg); return nil }
func (r *recorder) Photo([]byte) error                 { return nil }
func (r *recorder) Location(float64, float64) error    { return nil }

func (r *recorder) lastFinal() string {
	if len(r.finals) == 0 {
		return ""
	}
	return r.finals[len(r.finals)-1]
}

type stubPlaces struct {
	saved   []domain.PlaceDraft
	byID    map[int64]domain.Place
	removed []int64
}

func (s *stubPlaces) Save(_ context.Context, draft domain.PlaceDraft) (int64, error) {
	s.saved = append(s.saved, draft)
	return int64(len(s.saved)), nil
}

func (s *stubPlaces) Recent(context.Context, int64, int) ([]domain.Place, error) { return nil, nil }

func (s *stubPlaces) Refs(context.Context, int64, bool) ([]domain.PlaceRef, error) {
	return nil, nil
}

func (s *stubPlaces) Get(_ context.Context, id int64) (domain.Place, error) {
	p, ok := s.byID[id]
	if !ok {
		return domain.Place{}, domain.ErrNotFound
	}
	return p, nil
}

func (s *stubPlaces) Remove(_ context.Context, _ int64, id int64) error {
	if _, ok := s.byID[id]; !ok {
		return domain.ErrNotFound
	}
	s.removed = append(s.removed, id)
	return nil
}

func (s *stubPlaces) Nearby(context.Context, int64, float64, float64, float64, bool) ([]geo.Match, error) {
	return nil, nil
}

type stubFriends struct {
	addErr  error
	added   []int64
	removed []int64
	friends []domain.Friend
}

func (s *stubFriends) Add(_ context.Context, _ int64, _ string, friendID int64, _ string) error {
	if s.addErr != nil {
		return s.addErr
	}
	s.added = append(s.added, friendID)
	return nil
}

func (s *stubFriends) List(context.Context, int64) ([]domain.Friend, error) {
	return s.friends, nil
}

func (s *stubFriends) Remove(_ context.Context, _ int64, friendID int64) error {
	s.removed = append(s.removed, friendID)
	return nil
}

type stubSettings struct {
	listSize int
	radius   float64
	visible  *bool
	userName string
	reset    bool
}

func (s *stubSettings) Register(context.Context, int64, string) error { return nil }

func (s *stubSettings) Get(_ context.Context, userID int64) (domain.UserSettings, bool, error) {
	return domain.UserSettings{UserID: userID, ListSize: 10, Radius: 500}, true, nil
}

func (s *stubSettings) SetListSize(_ context.Context, _ int64, userName string, size int) error {
	s.userName = userName
	s.listSize = size
	return nil
}

func (s *stubSettings) SetRadius(_ context.Context, _ int64, userName string, radius float64) error {
	s.userName = userName
	s.radius = radius
	return nil
}

func (s *stubSettings) SetFriendPlacesVisible(_ context.Context, _ int64, userName string, visible bool) error {
	s.userName = userName
	s.visible = &visible
	return nil
}

func (s *stubSettings) Reset(context.Context, int64) error {
	s.reset = true
	return nil
}

type fixture struct {
	bot      *Bot
	places   *stubPlaces
	friends  *stubFriends
	settings *stubSettings
	rec      *recorder
}

func newFixture() *fixture {
	places := &stubPlaces{byID: map[int64]domain.Place{}}
	friends := &stubFriends{}
	settings := &stubSettings{}
	engine := flow.NewEngine(flow.NewStore(0))
	return &fixture{
		bot:      New(engine, places, friends, settings),
		places:   places,
		friends:  friends,
		settings: settings,
		rec:      &recorder{},
	}
}

const testUser int64 = 7

func (f *fixture) send(t *testing.T, msg flow.Message) {
	t.Helper()
	handled, err := f.bot.engine.Handle(context.Background(), f.rec, testUser, msg)
	require.NoError(t, err)
	require.True(t, handled)
}

func (f *fixture) sendText(t *testing.T, text string) {
	t.Helper()
	f.send(t, flow.Message{Text: text})
}

func TestAddPlaceFlowSaves(t *testing.T) {
	f := newFixture()
	f.bot.engine.Start(testUser, flow.Session{
		Kind: flow.AddPlace,
		Ctx:  &domain.PlaceDraft{UserID: testUser, UserName: "alice"},
	})

	f.sendText(t, "Cafe X")
	f.send(t, flow.Message{Photo: []byte{0xff, 0xd8}})
	f.send(t, flow.Message{Location: &flow.Coords{Lat: 52.52, Lon: 13.405}})
	f.sendText(t, labelYes)

	require.Len(t, f.places.saved, 1)
	draft := f.places.saved[0]
	assert.Equal(t, "Cafe X", draft.Title)
	assert.Equal(t, []byte{0xff, 0xd8}, draft.Photo)
	require.NotNil(t, draft.Latitude)
	assert.Equal(t, 52.52, *draft.Latitude)
	assert.Equal(t, textPlaceSaved, f.rec.lastFinal())
	assert.False(t, f.bot.engine.InProgress(testUser))
}

func TestAddPlaceFlowSkipsOptionalSteps(t *testing.T) {
	f := newFixture()
	f.bot.engine.Start(testUser, flow.Session{
		Kind: flow.AddPlace,
		Ctx:  &domain.PlaceDraft{UserID: testUser},
	})

	f.sendText(t, "Bare place")
	f.sendText(t, labelSkip)
	f.sendText(t, labelSkip)
	f.sendText(t, labelYes)

	require.Len(t, f.places.saved, 1)
	draft := f.places.saved[0]
	assert.Empty(t, draft.Photo)
	assert.Nil(t, draft.Latitude)
}

func TestAddPlaceFlowDiscardedOnNo(t *testing.T) {
	f := newFixture()
	f.bot.engine.Start(testUser, flow.Session{
		Kind: flow.AddPlace,
		Ctx:  &domain.PlaceDraft{UserID: testUser},
	})

	f.sendText(t, "Cafe X")
	f.sendText(t, labelSkip)
	f.sendText(t, labelSkip)
	f.sendText(t, labelNo)

	assert.Empty(t, f.places.saved)
	assert.Equal(t, textPlaceNotSaved, f.rec.lastFinal())
	assert.False(t, f.bot.engine.InProgress(testUser))
}

func TestAddPlacePhotoStepRejectsPlainText(t *testing.T) {
	f := newFixture()
	f.bot.engine.Start(testUser, flow.Session{
		Kind: flow.AddPlace,
		Ctx:  &domain.PlaceDraft{UserID: testUser},
	})

	f.sendText(t, "Cafe X")
	f.sendText(t, "not a photo")

	sess, ok := f.bot.engine.Store().Get(testUser)
	require.True(t, ok)
	assert.Equal(t, 1, sess.Step, "invalid input keeps the photo step pending")
}

func TestAddPlaceCancelMidway(t *testing.T) {
	f := newFixture()
	f.bot.engine.Start(testUser, flow.Session{
		Kind: flow.AddPlace,
		Ctx:  &domain.PlaceDraft{UserID: testUser},
	})

	f.sendText(t, "Cafe X")
	f.sendText(t, labelCancel)

	assert.Empty(t, f.places.saved)
	assert.False(t, f.bot.engine.InProgress(testUser))
}

func TestSettingFlowRadius(t *testing.T) {
	f := newFixture()
	f.bot.engine.Start(testUser, flow.Session{
		Kind: flow.ChangeSetting,
		Ctx:  &settingDraft{userName: "alice"},
	})

	f.sendText(t, settingRadius)

	f.sendText(t, "-5")
	assert.Zero(t, f.settings.radius, "negative radius must not be stored")
	assert.True(t, f.bot.engine.InProgress(testUser))

	f.sendText(t, "750")
	assert.Equal(t, 750.0, f.settings.radius)
	assert.Equal(t, "alice", f.settings.userName, "the sender's name, not the setting label, reaches storage")
	assert.Equal(t, textSettingSaved, f.rec.lastFinal())
}

func TestSettingFlowRejectsBadNumber(t *testing.T) {
	f := newFixture()
	f.bot.engine.Start(testUser, flow.Session{Kind: flow.ChangeSetting})

	f.sendText(t, settingListSize)
	f.sendText(t, "-5")

	assert.Zero(t, f.settings.listSize)
	assert.True(t, f.bot.engine.InProgress(testUser), "bad value keeps the step pending")

	f.sendText(t, "25")
	assert.Equal(t, 25, f.settings.listSize)
	assert.False(t, f.bot.engine.InProgress(testUser))
}

func TestSettingFlowFriendToggle(t *testing.T) {
	f := newFixture()
	f.bot.engine.Start(testUser, flow.Session{Kind: flow.ChangeSetting})

	f.sendText(t, settingFriends)
	f.sendText(t, labelEnable)

	require.NotNil(t, f.settings.visible)
	assert.True(t, *f.settings.visible)
}

func TestResetFlowRequiresExactPhrase(t *testing.T) {
	f := newFixture()
	f.bot.engine.Start(testUser, flow.Session{Kind: flow.ResetAll})

	f.sendText(t, "delete")

	assert.False(t, f.settings.reset, "wrong case must not confirm a wipe")
	assert.Equal(t, textResetCancelled, f.rec.lastFinal())
	assert.False(t, f.bot.engine.InProgress(testUser))
}

func TestResetFlowConfirmed(t *testing.T) {
	f := newFixture()
	f.bot.engine.Start(testUser, flow.Session{Kind: flow.ResetAll})

	f.sendText(t, resetPhrase)

	assert.True(t, f.settings.reset)
	assert.Equal(t, textResetDone, f.rec.lastFinal())
}

func TestSearchFlowStaleSelection(t *testing.T) {
	f := newFixture()
	sel := flow.NewSelection([]flow.Item{{ID: 99, Title: "Gone place"}})
	f.bot.engine.Start(testUser, flow.Session{Kind: flow.SearchPlace, Ctx: sel})

	f.sendText(t, "1")

	assert.Equal(t, textPlaceGone, f.rec.lastFinal())
	assert.False(t, f.bot.engine.InProgress(testUser))
}

func TestSearchFlowFindsPlace(t *testing.T) {
	f := newFixture()
	f.places.byID[11] = domain.Place{ID: 11, Title: "Cafe X"}
	sel := flow.NewSelection([]flow.Item{{ID: 11, Title: "Cafe X"}})
	f.bot.engine.Start(testUser, flow.Session{Kind: flow.SearchPlace, Ctx: sel})

	f.sendText(t, "1 Cafe X")

	assert.Equal(t, "Cafe X", f.rec.lastFinal())
}

func TestDeleteFlowRemovesPlace(t *testing.T) {
	f := newFixture()
	f.places.byID[11] = domain.Place{ID: 11, Title: "Cafe X"}
	sel := flow.NewSelection([]flow.Item{{ID: 11, Title: "Cafe X"}})
	f.bot.engine.Start(testUser, flow.Session{Kind: flow.DeletePlace, Ctx: sel})

	f.sendText(t, "1")

	assert.Equal(t, []int64{11}, f.places.removed)
	assert.Equal(t, textPlaceDeleted, f.rec.lastFinal())
}

func TestDeleteFlowRejectsBadOrdinal(t *testing.T) {
	f := newFixture()
	sel := flow.NewSelection([]flow.Item{{ID: 11, Title: "Cafe X"}})
	f.bot.engine.Start(testUser, flow.Session{Kind: flow.DeletePlace, Ctx: sel})

	f.sendText(t, "5")

	assert.Empty(t, f.places.removed)
	assert.True(t, f.bot.engine.InProgress(testUser))
}

func TestAddFriendFlow(t *testing.T) {
	f := newFixture()
	f.bot.engine.Start(testUser, flow.Session{Kind: flow.AddFriend, Ctx: "alice"})

	f.send(t, flow.Message{Contact: &flow.Contact{UserID: 42, Name: "Bob"}})

	assert.Equal(t, []int64{42}, f.friends.added)
	assert.Equal(t, textFriendAdded, f.rec.lastFinal())
}

func TestAddFriendFlowDuplicate(t *testing.T) {
	f := newFixture()
	f.friends.addErr = domain.ErrAlreadyFriend
	f.bot.engine.Start(testUser, flow.Session{Kind: flow.AddFriend, Ctx: "alice"})

	f.send(t, flow.Message{Contact: &flow.Contact{UserID: 42, Name: "Bob"}})

	assert.Equal(t, textAlreadyFriend, f.rec.lastFinal())
	assert.False(t, f.bot.engine.InProgress(testUser))
}

func TestAddFriendFlowNeedsContact(t *testing.T) {
	f := newFixture()
	f.bot.engine.Start(testUser, flow.Session{Kind: flow.AddFriend, Ctx: "alice"})

	f.sendText(t, "Bob")
	assert.True(t, f.bot.engine.InProgress(testUser))

	// A contact without a resolvable account id keeps the step pending.
	f.send(t, flow.Message{Contact: &flow.Contact{UserID: 0, Name: "No account"}})
	assert.Empty(t, f.friends.added)
	assert.True(t, f.bot.engine.InProgress(testUser))

	f.sendText(t, labelCancel)
	assert.False(t, f.bot.engine.InProgress(testUser))
}

func TestDeleteFriendFlow(t *testing.T) {
	f := newFixture()
	sel := flow.NewSelection([]flow.Item{{ID: 42, Title: "Bob"}})
	f.bot.engine.Start(testUser, flow.Session{Kind: flow.DeleteFriend, Ctx: sel})

	f.sendText(t, "1 Bob")

	assert.Equal(t, []int64{42}, f.friends.removed)
	assert.Equal(t, textFriendRemoved, f.rec.lastFinal())
}

package bot

import (
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardian-bot/model"
	"guardian-bot/utils/database"
)

type fakeGateway struct {
	mu       sync.Mutex
	locked   []string
	unlocked []string
	messages map[string][]string // channelID -> contents
	dms      map[string][]string // userID -> contents
	timeouts []string
	guilds   []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		messages: make(map[string][]string),
		dms:      make(map[string][]string),
	}
}

func (f *fakeGateway) TimeoutMember(guildID, userID string, until time.Time, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.timeouts = append(f.timeouts, guildID+"/"+userID)
	return nil
}

func (f *fakeGateway) DeleteMessage(channelID, messageID string) error { return nil }

func (f *fakeGateway) SendMessage(channelID, content string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages[channelID] = append(f.messages[channelID], content)
	return "msg-id", nil
}

func (f *fakeGateway) SendEmbed(channelID string, embed *discordgo.MessageEmbed) error { return nil }

func (f *fakeGateway) SendDM(userID, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dms[userID] = append(f.dms[userID], content)
	return nil
}

func (f *fakeGateway) LockChannelSends(guildID, channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.locked = append(f.locked, channelID)
	return nil
}

func (f *fakeGateway) UnlockChannelSends(guildID, channelID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.unlocked = append(f.unlocked, channelID)
	return nil
}

func (f *fakeGateway) TextChannels(guildID string) ([]string, error) { return nil, nil }

func (f *fakeGateway) SharedGuilds(userID string) []string { return f.guilds }

func (f *fakeGateway) AddRole(guildID, userID, roleID string) error    { return nil }
func (f *fakeGateway) RemoveRole(guildID, userID, roleID string) error { return nil }

func newTestBot(t *testing.T) (*Bot, *fakeGateway) {
	t.Helper()
	db, err := database.InitStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &model.Config{BotToken: "test-token", GuildSettings: make(map[string]model.GuildSettings)}
	b, err := New(cfg, db)
	require.NoError(t, err)

	gw := newFakeGateway()
	b.Gateway = gw
	return b, gw
}

func TestLockChannelCreatesRecordAndPendingUnlock(t *testing.T) {
	assert := assert.New(t)
	b, gw := newTestBot(t)

	require.NoError(t, b.LockChannel("g1", "c1", "mod1", time.Hour))
	assert.Equal([]string{"c1"}, gw.locked)

	lc, err := database.GetLockedChannel(b.DB, "c1")
	assert.NoError(err)
	assert.Equal("mod1", lc.LockedBy)

	a, err := database.GetPendingUnlock(b.DB, "c1")
	assert.NoError(err)
	assert.Equal(model.ActionChannelUnlock, a.Kind)

	// Re-locking replaces the pending unlock instead of violating the
	// one-pending-unlock-per-channel invariant.
	require.NoError(t, b.LockChannel("g1", "c1", "mod2", 2*time.Hour))
	replacement, err := database.GetPendingUnlock(b.DB, "c1")
	assert.NoError(err)
	assert.NotEqual(a.ID, replacement.ID)
}

func TestUnlockChannelRetiresRecordAndAction(t *testing.T) {
	assert := assert.New(t)
	b, gw := newTestBot(t)

	require.NoError(t, b.LockChannel("g1", "c1", "mod1", time.Hour))
	a, err := database.GetPendingUnlock(b.DB, "c1")
	require.NoError(t, err)

	require.NoError(t, b.UnlockChannel("g1", "c1"))
	assert.Equal([]string{"c1"}, gw.unlocked)

	_, err = database.GetLockedChannel(b.DB, "c1")
	assert.Equal(model.ErrNotFound, err)

	got, err := database.GetScheduledAction(b.DB, a.ID)
	assert.NoError(err)
	assert.Equal(model.StatusCancelled, got.Status)

	// Unlocking twice is a no-op, not an error.
	assert.NoError(b.UnlockChannel("g1", "c1"))
}

func TestDispatchChannelUnlockFiresSideEffects(t *testing.T) {
	assert := assert.New(t)
	b, gw := newTestBot(t)

	require.NoError(t, b.LockChannel("g1", "c1", "mod1", time.Hour))

	err := b.dispatchChannelUnlock(model.ScheduledAction{
		ID: "a1", GuildID: "g1", Kind: model.ActionChannelUnlock, ChannelID: "c1",
	})
	assert.NoError(err)
	assert.Equal([]string{"c1"}, gw.unlocked)
	assert.Contains(gw.messages["c1"], "🔓 Channel has been automatically unlocked.")

	_, err = database.GetLockedChannel(b.DB, "c1")
	assert.Equal(model.ErrNotFound, err)
}

func TestDispatchReminderSendsDM(t *testing.T) {
	assert := assert.New(t)
	b, gw := newTestBot(t)

	err := b.dispatchReminder(model.ScheduledAction{
		ID: "a1", Kind: model.ActionReminder, UserID: "u1", Message: "stretch",
	})
	assert.NoError(err)
	require.Len(t, gw.dms["u1"], 1)
	assert.Equal("⏰ **Reminder:** stretch", gw.dms["u1"][0])
}

func TestDispatchAnnouncementPostsMessage(t *testing.T) {
	assert := assert.New(t)
	b, gw := newTestBot(t)

	err := b.dispatchAnnouncement(model.ScheduledAction{
		ID: "a1", Kind: model.ActionAnnouncement, ChannelID: "c9", Message: "meeting at noon",
	})
	assert.NoError(err)
	assert.Equal([]string{"meeting at noon"}, gw.messages["c9"])
}

package handlers

import (
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/model"
)

// Timeout for interactive flows. On expiry the flow is abandoned with no
// partial state committed.
const promptTimeout = 60 * time.Second

type promptKey struct {
	channelID string
	userID    string
}

var (
	promptMutex   sync.Mutex
	promptWaiters = make(map[promptKey]chan *discordgo.Message)
)

// awaitReply blocks until the user sends another message in the channel, or
// the timeout elapses. Only one waiter per (channel, user) can be armed; a
// second prompt for the same pair replaces the first.
func awaitReply(channelID, userID string, timeout time.Duration) (*discordgo.Message, error) {
	key := promptKey{channelID: channelID, userID: userID}
	ch := make(chan *discordgo.Message, 1)

	promptMutex.Lock()
	promptWaiters[key] = ch
	promptMutex.Unlock()

	defer func() {
		promptMutex.Lock()
		if promptWaiters[key] == ch {
			delete(promptWaiters, key)
		}
		promptMutex.Unlock()
	}()

	select {
	case msg := <-ch:
		return msg, nil
	case <-time.After(timeout):
		return nil, model.NewValidationError("no response received")
	}
}

// offerToPrompt hands a message to a waiting interactive flow. Returns true
// when the message was consumed as a prompt reply and must not be processed
// as a command or run through detectors twice.
func offerToPrompt(m *discordgo.MessageCreate) bool {
	key := promptKey{channelID: m.ChannelID, userID: m.Author.ID}

	promptMutex.Lock()
	ch, ok := promptWaiters[key]
	if ok {
		delete(promptWaiters, key)
	}
	promptMutex.Unlock()

	if !ok {
		return false
	}
	ch <- m.Message
	return true
}

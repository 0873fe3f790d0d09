package handlers

import (
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guardian-bot/model"
)

func TestAwaitReplyReceivesMatchingMessage(t *testing.T) {
	assert := assert.New(t)

	done := make(chan struct{})
	var got *discordgo.Message
	var err error
	go func() {
		defer close(done)
		got, err = awaitReply("c1", "u1", time.Second)
	}()

	// Wait for the waiter to arm before offering.
	require.Eventually(t, func() bool {
		promptMutex.Lock()
		defer promptMutex.Unlock()
		_, ok := promptWaiters[promptKey{channelID: "c1", userID: "u1"}]
		return ok
	}, time.Second, time.Millisecond)

	// A reply from someone else in the channel is not consumed.
	other := &discordgo.MessageCreate{Message: &discordgo.Message{
		ChannelID: "c1", Author: &discordgo.User{ID: "u2"}, Content: "not me",
	}}
	assert.False(offerToPrompt(other))

	answer := &discordgo.MessageCreate{Message: &discordgo.Message{
		ChannelID: "c1", Author: &discordgo.User{ID: "u1"}, Content: "the answer",
	}}
	assert.True(offerToPrompt(answer))

	<-done
	assert.NoError(err)
	require.NotNil(t, got)
	assert.Equal("the answer", got.Content)
}

func TestAwaitReplyTimesOutCleanly(t *testing.T) {
	assert := assert.New(t)

	_, err := awaitReply("c2", "u1", 10*time.Millisecond)
	assert.Error(err)
	assert.True(model.IsValidation(err))

	// The waiter was removed on expiry; a late reply is not consumed.
	late := &discordgo.MessageCreate{Message: &discordgo.Message{
		ChannelID: "c2", Author: &discordgo.User{ID: "u1"}, Content: "too late",
	}}
	assert.False(offerToPrompt(late))
}

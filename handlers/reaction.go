package handlers

import (
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"guardian-bot/bot"
	"guardian-bot/model"
	"guardian-bot/utils/database"
)

// HandleReactionAdd grants the role bound to the emoji, if any.
func HandleReactionAdd(b *bot.Bot, r *discordgo.MessageReactionAdd) {
	if r.Member != nil && r.Member.User != nil && r.Member.User.Bot {
		return
	}
	rr, err := database.GetReactionRole(b.DB, r.MessageID, r.Emoji.Name)
	if err == model.ErrNotFound {
		return
	}
	if err != nil {
		log.Printf("Reaction role lookup failed for message %s: %v", r.MessageID, err)
		return
	}
	if err := b.Gateway.AddRole(rr.GuildID, r.UserID, rr.RoleID); err != nil {
		log.Printf("Failed to assign reaction role: %v", err)
	}
}

// HandleReactionRemove revokes the role bound to the emoji, if any.
func HandleReactionRemove(b *bot.Bot, r *discordgo.MessageReactionRemove) {
	rr, err := database.GetReactionRole(b.DB, r.MessageID, r.Emoji.Name)
	if err == model.ErrNotFound {
		return
	}
	if err != nil {
		log.Printf("Reaction role lookup failed for message %s: %v", r.MessageID, err)
		return
	}
	if err := b.Gateway.RemoveRole(rr.GuildID, r.UserID, rr.RoleID); err != nil {
		log.Printf("Failed to remove reaction role: %v", err)
	}
}

// HandleMessageDelete drops any reaction role bindings on a deleted message
// so stale rows don't accumulate.
func HandleMessageDelete(b *bot.Bot, d *discordgo.MessageDelete) {
	if err := database.DeleteReactionRolesForMessage(b.DB, d.ID); err != nil {
		log.Printf("Failed to clean up reaction roles for deleted message %s: %v", d.ID, err)
	}
}

// HandleReactionRole binds an emoji on a message to a role:
// !reactionrole <messageID> <emoji> <@role|roleID>
func HandleReactionRole(b *bot.Bot, m *discordgo.MessageCreate, args []string) {
	if !memberHasPermission(b.Session, m.ChannelID, m.Author.ID, discordgo.PermissionManageRoles) {
		reply(b, m, "You don't have permission to manage reaction roles.")
		return
	}
	if len(args) < 3 {
		reply(b, m, "Usage: reactionrole <messageID> <emoji> <@role>")
		return
	}
	roleID := parseRoleRef(args[2])
	if roleID == "" {
		reply(b, m, "Could not parse the role reference.")
		return
	}

	err := database.AddReactionRole(b.DB, model.ReactionRole{
		MessageID: args[0],
		GuildID:   m.GuildID,
		Emoji:     args[1],
		RoleID:    roleID,
	})
	if err != nil {
		log.Printf("Failed to store reaction role: %v", err)
		reply(b, m, "Failed to store the reaction role.")
		return
	}
	reply(b, m, fmt.Sprintf("Reacting with %s on message %s now grants <@&%s>.", args[1], args[0], roleID))
}

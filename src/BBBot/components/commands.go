package components

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/daoforge/bounty-board/src/shared/bounty"
	"github.com/daoforge/bounty-board/src/shared/data"
	"github.com/daoforge/bounty-board/src/shared/types"
)

const commandCooldown = 30 * time.Second

type Config struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Poster         *Poster
	ReviewerRoleID string
	GuildID        string
}

// Handler processes the bounty lifecycle commands: !claim, !submit and
// !review. Each one drives a status transition on behalf of the Discord
// user who typed it.
type Handler struct {
	config Config
}

func NewHandler(config Config) *Handler {
	return &Handler{config: config}
}

func (h *Handler) HandleMessage(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author.ID == s.State.User.ID {
		return
	}

	command, id, rest := splitCommand(m.Content)
	if command == "" {
		return
	}

	log.Printf("%s command received from %s in channel %s", command, m.Author.Username, m.ChannelID)

	// Rate limit check
	limited, err := data.MarkCommandUse(context.Background(), h.config.Redis, m.Author.ID, commandCooldown)
	if err != nil {
		log.Printf("Rate limit check: %v", err)
	}
	if limited {
		s.ChannelMessageSend(m.ChannelID, "Please wait a moment before using another command.")
		return
	}

	if id == "" {
		s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("Usage: %s <bounty id>", command))
		return
	}

	var b types.Bounty
	if err := h.config.DB.First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			s.ChannelMessageSend(m.ChannelID, "No bounty found with that id.")
		} else {
			log.Printf("Load bounty %s: %v", id, err)
			s.ChannelMessageSend(m.ChannelID, "Failed to process command. Please try again.")
		}
		return
	}

	actor := types.DiscordIdentity{
		DiscordHandle: m.Author.Username,
		DiscordID:     m.Author.ID,
	}

	switch command {
	case "!claim":
		err = h.claim(&b, actor)
	case "!submit":
		err = h.submit(&b, actor, rest)
	case "!review":
		if !h.hasRole(s, m.GuildID, m.Author.ID, h.config.ReviewerRoleID) {
			s.ChannelMessageSend(m.ChannelID, "You don't have permission to review bounties.")
			return
		}
		err = h.review(&b, actor)
	}

	if err != nil {
		s.ChannelMessageSend(m.ChannelID, err.Error())
		return
	}

	if err := h.config.DB.Save(&b).Error; err != nil {
		log.Printf("Save bounty %s: %v", b.ID, err)
		s.ChannelMessageSend(m.ChannelID, "Failed to process command. Please try again.")
		return
	}

	if err := h.config.Poster.PostOrUpdate(&b); err != nil {
		log.Printf("Update bounty message %s: %v", b.ID, err)
	}

	s.ChannelMessageSendEmbed(m.ChannelID, h.buildResponseEmbed(command, &b, m.Author.Username))
}

func (h *Handler) claim(b *types.Bounty, actor types.DiscordIdentity) error {
	if err := bounty.Transition(b, bounty.StatusClaimed, actor, bounty.ClientBot, time.Now().UTC()); err != nil {
		return fmt.Errorf("This bounty is %s and cannot be claimed.", b.Status)
	}
	return nil
}

func (h *Handler) submit(b *types.Bounty, actor types.DiscordIdentity, notes string) error {
	if b.ClaimedBy == nil || b.ClaimedBy.DiscordID != actor.DiscordID {
		return errors.New("Only the user who claimed a bounty can submit it.")
	}
	if err := bounty.Transition(b, bounty.StatusSubmitted, actor, bounty.ClientBot, time.Now().UTC()); err != nil {
		return fmt.Errorf("This bounty is %s and cannot be submitted.", b.Status)
	}
	// a leading link becomes the submission URL, the rest is notes
	if url, remainder, ok := leadingURL(notes); ok {
		b.SubmissionURL = url
		notes = remainder
	}
	if notes != "" {
		b.SubmissionNotes = notes
	}
	return nil
}

func leadingURL(s string) (url, rest string, ok bool) {
	first, remainder, _ := strings.Cut(s, " ")
	if strings.HasPrefix(first, "http://") || strings.HasPrefix(first, "https://") {
		return first, strings.TrimSpace(remainder), true
	}
	return "", s, false
}

func (h *Handler) review(b *types.Bounty, actor types.DiscordIdentity) error {
	if err := bounty.Transition(b, bounty.StatusReviewed, actor, bounty.ClientBot, time.Now().UTC()); err != nil {
		return fmt.Errorf("This bounty is %s and cannot be reviewed.", b.Status)
	}
	return nil
}

func (h *Handler) hasRole(s *discordgo.Session, guildID, userID, roleID string) bool {
	if roleID == "" {
		return false
	}
	member, err := s.GuildMember(guildID, userID)
	if err != nil {
		return false
	}
	for _, role := range member.Roles {
		if role == roleID {
			return true
		}
	}
	return false
}

func (h *Handler) buildResponseEmbed(command string, b *types.Bounty, username string) *discordgo.MessageEmbed {
	verbs := map[string]string{
		"!claim":  "claimed",
		"!submit": "submitted",
		"!review": "reviewed",
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Bounty %s", titleCase(verbs[command])),
		Description: fmt.Sprintf("**%s** has been %s.", b.Title, verbs[command]),
		Color:       statusColors[b.Status],
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("By %s", username),
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// splitCommand picks apart "!submit <id> optional notes". The command is
// empty when the message is not one of ours.
func splitCommand(content string) (command, id, rest string) {
	parts := strings.SplitN(strings.TrimSpace(content), " ", 3)
	switch parts[0] {
	case "!claim", "!submit", "!review":
	default:
		return "", "", ""
	}
	command = parts[0]
	if len(parts) > 1 {
		id = parts[1]
	}
	if len(parts) > 2 {
		rest = parts[2]
	}
	return command, id, rest
}

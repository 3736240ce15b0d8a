package components

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/daoforge/bounty-board/src/shared/bounty"
	"github.com/daoforge/bounty-board/src/shared/data"
	"github.com/daoforge/bounty-board/src/shared/types"
)

// Poster mirrors bounty records into Discord messages: one message per
// bounty in the owning customer's bounty channel, edited in place as the
// record changes.
type Poster struct {
	DB      *gorm.DB
	Rdb     *redis.Client
	Session *discordgo.Session
}

// Run consumes the activity stream until ctx is cancelled. Events are
// best-effort; the reconcile job catches anything missed here.
func (p *Poster) Run(ctx context.Context) {
	log.Println("Starting bounty activity consumer")
	lastID := "$"

	for {
		if ctx.Err() != nil {
			log.Println("Stopping bounty activity consumer")
			return
		}

		streams, err := data.ReadActivities(ctx, p.Rdb, lastID, 5*time.Second)
		if err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) {
				continue
			}
			log.Printf("Read activity stream: %v", err)
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range streams {
			for _, msg := range stream.Messages {
				lastID = msg.ID
				p.handleEvent(msg.Values)
			}
		}
	}
}

func (p *Poster) handleEvent(values map[string]interface{}) {
	id, _ := values["id"].(string)
	activity, _ := values["activity"].(string)
	if id == "" || activity == "" {
		return
	}

	if activity == bounty.ActivityDelete {
		// the record is gone; the event carries what we need
		customerID, _ := values["customerId"].(string)
		messageID, _ := values["discordMessageId"].(string)
		p.removeMessage(customerID, messageID)
		return
	}

	var b types.Bounty
	if err := p.DB.First(&b, "id = ?", id).Error; err != nil {
		log.Printf("Activity %s for unknown bounty %s: %v", activity, id, err)
		return
	}

	// drafts stay off the board until published
	if b.Status == bounty.StatusDraft {
		return
	}

	if err := p.PostOrUpdate(&b); err != nil {
		log.Printf("Post bounty %s: %v", b.ID, err)
	}
}

// PostOrUpdate sends the bounty's embed, or edits the existing message when
// one was posted before. A first post writes the message id back to the
// record so the frontend can deep-link to it.
func (p *Poster) PostOrUpdate(b *types.Bounty) error {
	channelID := p.channelFor(b.CustomerID)
	if channelID == "" {
		return fmt.Errorf("no bounty channel configured for customer %s", b.CustomerID)
	}

	embed := buildEmbed(b)

	if b.DiscordMessageID == "" {
		msg, err := p.Session.ChannelMessageSendEmbed(channelID, embed)
		if err != nil {
			return err
		}
		b.DiscordMessageID = msg.ID
		bounty.RecordActivity(b, bounty.ActivityPost, bounty.ClientBot, time.Now().UTC())
		return p.DB.Save(b).Error
	}

	_, err := p.Session.ChannelMessageEditEmbed(channelID, b.DiscordMessageID, embed)
	return err
}

func (p *Poster) removeMessage(customerID, messageID string) {
	if messageID == "" {
		return
	}
	channelID := p.channelFor(customerID)
	if channelID == "" {
		return
	}
	if err := p.Session.ChannelMessageDelete(channelID, messageID); err != nil {
		log.Printf("Delete message %s: %v", messageID, err)
	}
}

func (p *Poster) channelFor(customerID string) string {
	var customer types.Customer
	if err := p.DB.First(&customer, "customer_id = ?", customerID).Error; err == nil && customer.BountyChannelID != "" {
		return customer.BountyChannelID
	}
	return data.GetSetting("bounty_channel_id")
}

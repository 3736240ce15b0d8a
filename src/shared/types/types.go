package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DiscordIdentity identifies the human actor behind a mutation.
type DiscordIdentity struct {
	DiscordHandle string `gorm:"size:64" json:"discordHandle"`
	DiscordID     string `gorm:"size:64" json:"discordId"`
}

// Reward is a decimal amount stored as integer + power-of-ten scale so no
// binary floating point rounding reaches the persisted value.
type Reward struct {
	Amount             float64 `json:"amount"`
	AmountWithoutScale int64   `json:"amountWithoutScale"`
	Scale              int32   `json:"scale"`
	Currency           string  `gorm:"size:16" json:"currency"`
}

// StatusEvent is one entry in a bounty's status history.
type StatusEvent struct {
	Status     string    `json:"status"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// ActivityEvent records a mutation-causing action and the client it came from.
type ActivityEvent struct {
	Activity   string    `json:"activity"`
	ModifiedAt time.Time `json:"modifiedAt"`
	Client     string    `json:"client"`
}

// Bounty is the sole persisted entity of the board. History columns are
// append-only; the edit key is never serialized into a response body.
type Bounty struct {
	ID               string           `gorm:"primaryKey;size:36" json:"_id"`
	CustomerID       string           `gorm:"index;size:64;not null" json:"customerId"`
	Title            string           `gorm:"size:255;not null" json:"title"`
	Description      string           `gorm:"type:text;not null" json:"description"`
	Criteria         string           `gorm:"type:text;not null" json:"criteria"`
	Status           string           `gorm:"index;size:16;not null" json:"status"`
	Reward           Reward           `gorm:"embedded;embeddedPrefix:reward_" json:"reward"`
	StatusHistory    []StatusEvent    `gorm:"serializer:json" json:"statusHistory"`
	ActivityHistory  []ActivityEvent  `gorm:"serializer:json" json:"activityHistory"`
	CreatedBy        DiscordIdentity  `gorm:"embedded;embeddedPrefix:created_by_" json:"createdBy"`
	ClaimedBy        *DiscordIdentity `gorm:"serializer:json" json:"claimedBy,omitempty"`
	SubmittedBy      *DiscordIdentity `gorm:"serializer:json" json:"submittedBy,omitempty"`
	ReviewedBy       *DiscordIdentity `gorm:"serializer:json" json:"reviewedBy,omitempty"`
	SubmissionNotes  string           `gorm:"type:text" json:"submissionNotes,omitempty"`
	SubmissionURL    string           `gorm:"size:512" json:"submissionUrl,omitempty"`
	EditKey          string           `gorm:"size:64;not null" json:"-"`
	DueAt            time.Time        `json:"dueAt"`
	CreatedAt        time.Time        `json:"createdAt"`
	ClaimedAt        *time.Time       `json:"claimedAt,omitempty"`
	SubmittedAt      *time.Time       `json:"submittedAt,omitempty"`
	ReviewedAt       *time.Time       `json:"reviewedAt,omitempty"`
	DiscordMessageID string           `gorm:"size:64" json:"discordMessageId"`
}

func (b *Bounty) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// Customer is a community the board serves; bounties are posted into its
// Discord channel.
type Customer struct {
	ID              string `gorm:"primaryKey;size:36" json:"_id"`
	CustomerID      string `gorm:"uniqueIndex;size:64;not null" json:"customerId"`
	Name            string `gorm:"size:128" json:"name"`
	BountyChannelID string `gorm:"size:64" json:"bountyChannel"`
	GuildID         string `gorm:"size:64" json:"guildId"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Settings
type Setting struct {
	ID    uint8  `gorm:"primaryKey"`
	Name  string `gorm:"size:32;not null"`
	Value string `gorm:"size:256;not null"`
}

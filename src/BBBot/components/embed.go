package components

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/shopspring/decimal"

	"github.com/daoforge/bounty-board/src/shared/bounty"
	"github.com/daoforge/bounty-board/src/shared/types"
)

var statusColors = map[string]int{
	bounty.StatusOpen:      0x2ecc71,
	bounty.StatusClaimed:   0xf1c40f,
	bounty.StatusSubmitted: 0x3498db,
	bounty.StatusReviewed:  0x95a5a6,
}

// FormatReward renders the integer+scale pair exactly, e.g. 10050/2 -> "100.50 BANK".
func FormatReward(r types.Reward) string {
	return decimal.New(r.AmountWithoutScale, -r.Scale).StringFixed(r.Scale) + " " + r.Currency
}

func buildEmbed(b *types.Bounty) *discordgo.MessageEmbed {
	fields := []*discordgo.MessageEmbedField{
		{Name: "Reward", Value: FormatReward(b.Reward), Inline: true},
		{Name: "Status", Value: titleCase(b.Status), Inline: true},
		{Name: "Due", Value: b.DueAt.Format("2 Jan 2006"), Inline: true},
		{Name: "Done Criteria", Value: b.Criteria},
		{Name: "Requested By", Value: "@" + b.CreatedBy.DiscordHandle, Inline: true},
	}
	if b.ClaimedBy != nil {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Claimed By", Value: "@" + b.ClaimedBy.DiscordHandle, Inline: true,
		})
	}
	if b.SubmissionURL != "" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Submission", Value: b.SubmissionURL,
		})
	}

	embed := &discordgo.MessageEmbed{
		Title:       b.Title,
		Description: b.Description,
		Color:       statusColors[b.Status],
		Fields:      fields,
		Footer:      &discordgo.MessageEmbedFooter{Text: "ID: " + b.ID},
	}
	if b.Status == bounty.StatusOpen {
		embed.Footer.Text = fmt.Sprintf("Claim with !claim %s", b.ID)
	}
	return embed
}

// statuses are lowercase ASCII words
func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

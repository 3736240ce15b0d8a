package components

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daoforge/bounty-board/src/shared/bounty"
	"github.com/daoforge/bounty-board/src/shared/types"
)

func TestFormatReward(t *testing.T) {
	cases := []struct {
		name   string
		reward types.Reward
		want   string
	}{
		{"two decimals", types.Reward{AmountWithoutScale: 10050, Scale: 2, Currency: "BANK"}, "100.50 BANK"},
		{"integer", types.Reward{AmountWithoutScale: 1000, Scale: 0, Currency: "BANK"}, "1000 BANK"},
		{"trailing zero kept", types.Reward{AmountWithoutScale: 5000, Scale: 1, Currency: "ETH"}, "500.0 ETH"},
		{"sub one", types.Reward{AmountWithoutScale: 5, Scale: 2, Currency: "BANK"}, "0.05 BANK"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FormatReward(tc.reward))
		})
	}
}

func testEmbedBounty() *types.Bounty {
	return &types.Bounty{
		ID:          "b1f1c1d1-0000-0000-0000-000000000001",
		Title:       "Write docs",
		Description: "Document the API",
		Criteria:    "Merged PR",
		Status:      bounty.StatusOpen,
		Reward:      types.Reward{AmountWithoutScale: 10050, Scale: 2, Currency: "BANK"},
		CreatedBy:   types.DiscordIdentity{DiscordHandle: "alice", DiscordID: "1"},
		DueAt:       time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuildEmbedOpen(t *testing.T) {
	b := testEmbedBounty()
	embed := buildEmbed(b)

	assert.Equal(t, "Write docs", embed.Title)
	assert.Equal(t, "Document the API", embed.Description)
	assert.Equal(t, statusColors[bounty.StatusOpen], embed.Color)
	assert.Contains(t, embed.Footer.Text, "!claim "+b.ID)

	require.GreaterOrEqual(t, len(embed.Fields), 5)
	assert.Equal(t, "100.50 BANK", embed.Fields[0].Value)
	assert.Equal(t, "Open", embed.Fields[1].Value)
	assert.Equal(t, "1 Oct 2026", embed.Fields[2].Value)
	assert.Equal(t, "@alice", embed.Fields[4].Value)
}

func TestBuildEmbedClaimed(t *testing.T) {
	b := testEmbedBounty()
	b.Status = bounty.StatusClaimed
	b.ClaimedBy = &types.DiscordIdentity{DiscordHandle: "bob", DiscordID: "2"}

	embed := buildEmbed(b)

	assert.Equal(t, "ID: "+b.ID, embed.Footer.Text)
	var claimed string
	for _, f := range embed.Fields {
		if f.Name == "Claimed By" {
			claimed = f.Value
		}
	}
	assert.Equal(t, "@bob", claimed)
}

func TestBuildEmbedSubmission(t *testing.T) {
	b := testEmbedBounty()
	b.Status = bounty.StatusSubmitted
	b.SubmissionURL = "https://github.com/daoforge/docs/pull/7"

	embed := buildEmbed(b)

	var submission string
	for _, f := range embed.Fields {
		if f.Name == "Submission" {
			submission = f.Value
		}
	}
	assert.Equal(t, b.SubmissionURL, submission)
}

package components

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/daoforge/bounty-board/src/shared/bounty"
	"github.com/daoforge/bounty-board/src/shared/types"
)

func TestSplitCommand(t *testing.T) {
	cases := []struct {
		name    string
		content string
		command string
		id      string
		rest    string
	}{
		{"claim", "!claim abc-123", "!claim", "abc-123", ""},
		{"submit with notes", "!submit abc-123 done, see PR", "!submit", "abc-123", "done, see PR"},
		{"review", "!review abc-123", "!review", "abc-123", ""},
		{"missing id", "!claim", "!claim", "", ""},
		{"not a command", "hello there", "", "", ""},
		{"unknown command", "!frobnicate abc", "", "", ""},
		{"leading whitespace", "  !claim abc-123", "!claim", "abc-123", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			command, id, rest := splitCommand(tc.content)
			assert.Equal(t, tc.command, command)
			assert.Equal(t, tc.id, id)
			assert.Equal(t, tc.rest, rest)
		})
	}
}

func openBounty() *types.Bounty {
	now := time.Now().UTC()
	return &types.Bounty{
		ID:        "b1f1c1d1-0000-0000-0000-000000000001",
		Title:     "Write docs",
		Status:    bounty.StatusOpen,
		CreatedBy: types.DiscordIdentity{DiscordHandle: "alice", DiscordID: "1"},
		StatusHistory: []types.StatusEvent{
			{Status: bounty.StatusDraft, ModifiedAt: now},
			{Status: bounty.StatusOpen, ModifiedAt: now},
		},
	}
}

func TestClaimCommand(t *testing.T) {
	h := NewHandler(Config{})
	b := openBounty()
	bob := types.DiscordIdentity{DiscordHandle: "bob", DiscordID: "2"}

	require.NoError(t, h.claim(b, bob))
	assert.Equal(t, bounty.StatusClaimed, b.Status)
	require.NotNil(t, b.ClaimedBy)
	assert.Equal(t, "bob", b.ClaimedBy.DiscordHandle)

	// a claimed bounty cannot be claimed again
	err := h.claim(b, types.DiscordIdentity{DiscordHandle: "eve", DiscordID: "3"})
	require.Error(t, err)
	assert.Equal(t, "bob", b.ClaimedBy.DiscordHandle)
}

func TestSubmitCommandOnlyByClaimant(t *testing.T) {
	h := NewHandler(Config{})
	b := openBounty()
	bob := types.DiscordIdentity{DiscordHandle: "bob", DiscordID: "2"}
	require.NoError(t, h.claim(b, bob))

	err := h.submit(b, types.DiscordIdentity{DiscordHandle: "eve", DiscordID: "3"}, "")
	require.Error(t, err)
	assert.Equal(t, bounty.StatusClaimed, b.Status)

	require.NoError(t, h.submit(b, bob, "shipped in PR 7"))
	assert.Equal(t, bounty.StatusSubmitted, b.Status)
	assert.Equal(t, "shipped in PR 7", b.SubmissionNotes)
	require.NotNil(t, b.SubmittedBy)
	assert.Equal(t, "bob", b.SubmittedBy.DiscordHandle)
}

func TestSubmitCommandLeadingURL(t *testing.T) {
	h := NewHandler(Config{})
	b := openBounty()
	bob := types.DiscordIdentity{DiscordHandle: "bob", DiscordID: "2"}
	require.NoError(t, h.claim(b, bob))

	require.NoError(t, h.submit(b, bob, "https://github.com/daoforge/docs/pull/7 final draft"))
	assert.Equal(t, "https://github.com/daoforge/docs/pull/7", b.SubmissionURL)
	assert.Equal(t, "final draft", b.SubmissionNotes)
}

func TestReviewCommand(t *testing.T) {
	h := NewHandler(Config{})
	b := openBounty()
	bob := types.DiscordIdentity{DiscordHandle: "bob", DiscordID: "2"}
	carol := types.DiscordIdentity{DiscordHandle: "carol", DiscordID: "4"}

	// cannot review before submission
	require.Error(t, h.review(b, carol))

	require.NoError(t, h.claim(b, bob))
	require.NoError(t, h.submit(b, bob, ""))
	require.NoError(t, h.review(b, carol))

	assert.Equal(t, bounty.StatusReviewed, b.Status)
	require.NotNil(t, b.ReviewedBy)
	assert.Equal(t, "carol", b.ReviewedBy.DiscordHandle)
}

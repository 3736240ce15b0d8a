package bounty

import (
	"testing"
	"time"

	"github.com/daoforge/bounty-board/src/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func draftBounty() *types.Bounty {
	now := time.Now().UTC()
	return &types.Bounty{
		ID:            "b-1",
		Title:         "Design a logo",
		Status:        StatusDraft,
		StatusHistory: []types.StatusEvent{{Status: StatusDraft, ModifiedAt: now}},
		ActivityHistory: []types.ActivityEvent{
			{Activity: ActivityCreate, ModifiedAt: now, Client: ClientBoard},
		},
	}
}

func TestTransitionFullLifecycle(t *testing.T) {
	b := draftBounty()
	actor := types.DiscordIdentity{DiscordHandle: "worker#1234", DiscordID: "111"}
	reviewer := types.DiscordIdentity{DiscordHandle: "lead#0001", DiscordID: "222"}
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, Transition(b, StatusOpen, actor, ClientBoard, now))
	assert.Equal(t, StatusOpen, b.Status)
	assert.Nil(t, b.ClaimedBy)

	require.NoError(t, Transition(b, StatusClaimed, actor, ClientBot, now.Add(time.Hour)))
	require.NotNil(t, b.ClaimedBy)
	assert.Equal(t, "111", b.ClaimedBy.DiscordID)
	require.NotNil(t, b.ClaimedAt)
	assert.Equal(t, now.Add(time.Hour), *b.ClaimedAt)

	require.NoError(t, Transition(b, StatusSubmitted, actor, ClientBot, now.Add(2*time.Hour)))
	require.NotNil(t, b.SubmittedBy)
	require.NotNil(t, b.SubmittedAt)

	require.NoError(t, Transition(b, StatusReviewed, reviewer, ClientBot, now.Add(3*time.Hour)))
	require.NotNil(t, b.ReviewedBy)
	assert.Equal(t, "222", b.ReviewedBy.DiscordID)

	// one status entry per transition, on top of the seeded draft entry
	require.Len(t, b.StatusHistory, 5)
	want := []string{StatusDraft, StatusOpen, StatusClaimed, StatusSubmitted, StatusReviewed}
	for i, ev := range b.StatusHistory {
		assert.Equal(t, want[i], ev.Status)
	}

	// one activity per transition, on top of the seeded create entry
	require.Len(t, b.ActivityHistory, 5)
	assert.Equal(t, ActivityPublish, b.ActivityHistory[1].Activity)
	assert.Equal(t, ActivityClaim, b.ActivityHistory[2].Activity)
	assert.Equal(t, ActivitySubmit, b.ActivityHistory[3].Activity)
	assert.Equal(t, ActivityReview, b.ActivityHistory[4].Activity)
}

func TestTransitionRejectsIllegalMoves(t *testing.T) {
	actor := types.DiscordIdentity{DiscordHandle: "worker#1234", DiscordID: "111"}
	now := time.Now().UTC()

	cases := []struct {
		from, to string
	}{
		{StatusDraft, StatusClaimed},
		{StatusDraft, StatusReviewed},
		{StatusOpen, StatusSubmitted},
		{StatusOpen, StatusDraft},
		{StatusClaimed, StatusOpen},
		{StatusClaimed, StatusReviewed},
		{StatusReviewed, StatusOpen},
		{StatusReviewed, StatusReviewed},
	}
	for _, tc := range cases {
		b := draftBounty()
		b.Status = tc.from
		err := Transition(b, tc.to, actor, ClientBot, now)
		assert.ErrorIs(t, err, ErrInvalidTransition, "%s -> %s", tc.from, tc.to)
		// a rejected transition must leave the record untouched
		assert.Len(t, b.StatusHistory, 1, "%s -> %s", tc.from, tc.to)
		assert.Len(t, b.ActivityHistory, 1, "%s -> %s", tc.from, tc.to)
	}
}

func TestTransitionRejectsUnknownStatus(t *testing.T) {
	b := draftBounty()
	err := Transition(b, "archived", types.DiscordIdentity{}, ClientBoard, time.Now())
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestValidStatus(t *testing.T) {
	for _, s := range []string{StatusDraft, StatusOpen, StatusClaimed, StatusSubmitted, StatusReviewed} {
		assert.True(t, ValidStatus(s), s)
	}
	assert.False(t, ValidStatus("archived"))
	assert.False(t, ValidStatus(""))
	assert.False(t, ValidStatus("Open"))
}

func TestRecordActivityAppends(t *testing.T) {
	b := draftBounty()
	now := time.Now().UTC()
	RecordActivity(b, ActivityUpdate, ClientBoard, now)
	RecordActivity(b, ActivityPost, ClientBot, now.Add(time.Minute))

	require.Len(t, b.ActivityHistory, 3)
	assert.Equal(t, ActivityUpdate, b.ActivityHistory[1].Activity)
	assert.Equal(t, ClientBoard, b.ActivityHistory[1].Client)
	assert.Equal(t, ActivityPost, b.ActivityHistory[2].Activity)
	assert.Equal(t, ClientBot, b.ActivityHistory[2].Client)
}

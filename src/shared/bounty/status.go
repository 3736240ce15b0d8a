package bounty

import (
	"errors"
	"time"

	"github.com/daoforge/bounty-board/src/shared/types"
)

// Status values
const (
	StatusDraft     = "draft"
	StatusOpen      = "open"
	StatusClaimed   = "claimed"
	StatusSubmitted = "submitted"
	StatusReviewed  = "reviewed"
)

// Activity values recorded in a bounty's activity history
const (
	ActivityCreate  = "create"
	ActivityUpdate  = "update"
	ActivityPublish = "publish"
	ActivityClaim   = "claim"
	ActivitySubmit  = "submit"
	ActivityReview  = "review"
	ActivityDelete  = "delete"
	ActivityPost    = "post"
)

// Clients that can cause mutations
const (
	ClientBoard = "bountyboard"
	ClientBot   = "bountybot"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// next legal status per current status; reviewed is terminal
var transitions = map[string]string{
	StatusDraft:     StatusOpen,
	StatusOpen:      StatusClaimed,
	StatusClaimed:   StatusSubmitted,
	StatusSubmitted: StatusReviewed,
}

// activity recorded when a bounty enters the given status
var transitionActivity = map[string]string{
	StatusOpen:      ActivityPublish,
	StatusClaimed:   ActivityClaim,
	StatusSubmitted: ActivitySubmit,
	StatusReviewed:  ActivityReview,
}

// ValidStatus reports whether s is one of the enumerated status values.
func ValidStatus(s string) bool {
	if s == StatusDraft {
		return true
	}
	_, ok := transitionActivity[s]
	return ok
}

// CanTransition reports whether cur -> next is a legal transition.
func CanTransition(cur, next string) bool {
	return transitions[cur] == next
}

// Transition moves b to next, appending one entry to each history. The
// claimed/submitted/reviewed timestamps and identities are set exactly once,
// by the transition that defines them. History entries are never removed or
// reordered.
func Transition(b *types.Bounty, next string, actor types.DiscordIdentity, client string, now time.Time) error {
	if !CanTransition(b.Status, next) {
		return ErrInvalidTransition
	}

	b.Status = next
	b.StatusHistory = append(b.StatusHistory, types.StatusEvent{Status: next, ModifiedAt: now})
	b.ActivityHistory = append(b.ActivityHistory, types.ActivityEvent{
		Activity:   transitionActivity[next],
		ModifiedAt: now,
		Client:     client,
	})

	switch next {
	case StatusClaimed:
		if b.ClaimedBy == nil {
			who := actor
			b.ClaimedBy = &who
			t := now
			b.ClaimedAt = &t
		}
	case StatusSubmitted:
		if b.SubmittedBy == nil {
			who := actor
			b.SubmittedBy = &who
			t := now
			b.SubmittedAt = &t
		}
	case StatusReviewed:
		if b.ReviewedBy == nil {
			who := actor
			b.ReviewedBy = &who
			t := now
			b.ReviewedAt = &t
		}
	}

	return nil
}

// RecordActivity appends a non-transition action (create, update, delete,
// post) to the activity history.
func RecordActivity(b *types.Bounty, activity, client string, now time.Time) {
	b.ActivityHistory = append(b.ActivityHistory, types.ActivityEvent{
		Activity:   activity,
		ModifiedAt: now,
		Client:     client,
	})
}

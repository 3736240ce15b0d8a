package data

import (
	"context"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// StreamActivity carries bounty activity events from the API to the bot.
const StreamActivity = "bountyboard.activity"

const commandPrefix = "command:"

func MustRedis(url string) *redis.Client {
	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	return redis.NewClient(opt)
}

// PublishActivity appends one bounty activity event to the stream. Events
// are advisory; the bot's reconcile job repairs anything that gets lost.
func PublishActivity(ctx context.Context, rdb *redis.Client, payload map[string]any) error {
	_, err := rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: StreamActivity,
		Values: payload,
	}).Result()
	return err
}

// ReadActivities blocks for up to block waiting for events past lastID.
func ReadActivities(ctx context.Context, rdb *redis.Client, lastID string, block time.Duration) ([]redis.XStream, error) {
	return rdb.XRead(ctx, &redis.XReadArgs{
		Streams: []string{StreamActivity, lastID},
		Block:   block,
		Count:   32,
	}).Result()
}

// MarkCommandUse records a command use for rate limiting and reports
// whether the user was already inside the cooldown window.
func MarkCommandUse(ctx context.Context, rdb *redis.Client, userID string, cooldown time.Duration) (bool, error) {
	ok, err := rdb.SetNX(ctx, commandPrefix+userID, time.Now().Unix(), cooldown).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}

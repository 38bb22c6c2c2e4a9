package redis

import (
	"context"
	"encoding/json"

	"github.com/go-redis/redis/v8"

	"github.com/hitalo07/bootcamp-gostack-meetapp/meetup"
)

// MeetupCache keeps meetups as JSON values in a redis hash so point
// lookups can skip the database.
type MeetupCache struct {
	redisClient *redis.Client
	storageKey  string
}

func NewMeetupCache(client *redis.Client) *MeetupCache {
	return &MeetupCache{
		redisClient: client,
		storageKey:  "meetups",
	}
}

func (c *MeetupCache) Get(ctx context.Context, id string) (*meetup.Meetup, error) {
	val, err := c.redisClient.HGet(ctx, c.storageKey, id).Result()

	if err == redis.Nil {
		return nil, meetup.ErrNotFound
	} else if err != nil {
		return nil, err
	}

	var m *meetup.Meetup
	if err := json.Unmarshal([]byte(val), &m); err != nil {
		return nil, err
	}

	return m, nil
}

func (c *MeetupCache) Set(ctx context.Context, m *meetup.Meetup) error {
	jsonVal, err := json.Marshal(m)
	if err != nil {
		return err
	}

	return c.redisClient.HSet(ctx, c.storageKey, m.ID, string(jsonVal)).Err()
}

func (c *MeetupCache) Remove(ctx context.Context, id string) error {
	return c.redisClient.HDel(ctx, c.storageKey, id).Err()
}

package cache

import (
	"context"
	"time"
	"workbook_coach_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

// GenerationLock stops two diagnosis generations for the same record
// from running at once across instances.
type GenerationLock interface {
	// Acquire returns a release func when the lock was taken, or ok=false when it is held.
	Acquire(ctx context.Context, key string) (release func(), ok bool, err error)
}

type generationLock struct {
	client *redis.Client
	ttl    time.Duration
}

func NewGenerationLock(client *redis.Client, ttl time.Duration) GenerationLock {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &generationLock{client: client, ttl: ttl}
}

// releaseScript deletes the key only if it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

func (l *generationLock) Acquire(ctx context.Context, key string) (func(), bool, error) {
	k := util.GenerationLockPrefix + key
	token := uuid.New().String()

	ok, err := l.client.SetNX(ctx, k, token, l.ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return nil, false, nil
	}
	release := func() {
		releaseScript.Run(context.Background(), l.client, []string{k}, token)
	}
	return release, true, nil
}

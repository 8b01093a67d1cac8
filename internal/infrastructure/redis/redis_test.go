package redis

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/sanosuguru/go-event-listing/internal/config"
)

// newTestClient connects to a local Redis on DB 15 and skips the test when
// none is running.
func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	client := NewClient(&config.RedisConfig{Host: "localhost", Port: "6379", DB: 15})
	if err := Ping(context.Background(), client); err != nil {
		client.Close()
		t.Skip("Redis not available")
	}
	t.Cleanup(func() {
		client.FlushDB(context.Background())
		client.Close()
	})
	return client
}

package publisher

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisPublisher(t *testing.T) {
	ctx := context.Background()

	client := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   0,
	})
	defer client.Close()

	// Test if Redis is available
	if _, err := client.Ping(ctx).Result(); err != nil {
		t.Skip("Redis is not available, skipping test")
	}

	const stream = "test_scrape_summary"
	client.Del(ctx, stream)

	publisher := NewRedisPublisher("localhost:6379", 0, stream, 10)
	defer publisher.Close()

	summary := RunSummary{
		Source:  "tiki",
		Total:   5,
		Success: 4,
		Failed:  1,
		Skipped: 0,
		Status:  "PARTIAL_SUCCESS",
	}
	assert.NoError(t, publisher.PublishSummary(ctx, summary))

	messages, err := client.XRange(ctx, stream, "-", "+").Result()
	assert.NoError(t, err)
	assert.Len(t, messages, 1)

	encoded, ok := messages[0].Values["b64_summary"].(string)
	assert.True(t, ok)

	payload, err := base64.StdEncoding.DecodeString(encoded)
	assert.NoError(t, err)

	var got RunSummary
	assert.NoError(t, json.Unmarshal(payload, &got))
	assert.Equal(t, summary, got)

	client.Del(ctx, stream)
}

package publisher

import (
	"context"
	"encoding/base64"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"thongtinduan/pricescraper/logger"
)

// RedisPublisher implements Publisher using a Redis stream
type RedisPublisher struct {
	client          *redis.Client
	stream          string
	streamMaxLength int
	log             *logger.Logger
}

var _ Publisher = (*RedisPublisher)(nil)

// NewRedisPublisher creates a new Redis publisher
func NewRedisPublisher(addr string, db int, stream string, streamMaxLength int) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	return &RedisPublisher{
		client:          client,
		stream:          stream,
		streamMaxLength: streamMaxLength,
		log:             logger.ForPublisher(),
	}
}

// PublishSummary publishes the run summary to the stream, trimming it to the
// configured maximum length. The payload is base64-encoded JSON.
func (p *RedisPublisher) PublishSummary(ctx context.Context, summary RunSummary) error {
	payload, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	encoded := base64.StdEncoding.EncodeToString(payload)

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: int64(p.streamMaxLength),
		Approx: true,
		Values: map[string]interface{}{
			"b64_summary": encoded,
		},
	}).Err()
	if err != nil {
		return err
	}

	p.log.Debug().Str("stream", p.stream).Str("status", summary.Status).Msg("Published run summary")
	return nil
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

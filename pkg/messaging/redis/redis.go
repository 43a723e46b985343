package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwalitptl/triage-api/pkg/logger"
	"github.com/jwalitptl/triage-api/pkg/messaging"
)

// receiveErrorBackoff throttles the receive loop when the connection is
// broken, so a persistent error does not spin the goroutine.
const receiveErrorBackoff = time.Second

type RedisBroker struct {
	client *redis.Client
	logger *logger.Logger
}

func NewRedisBroker(url string, log *logger.Logger) (messaging.Broker, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisBroker{client: client, logger: log}, nil
}

func (b *RedisBroker) Publish(ctx context.Context, channel string, message interface{}) error {
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}
	return b.client.Publish(ctx, channel, payload).Err()
}

// messageReceiver is the slice of *redis.PubSub the receive loop needs.
type messageReceiver interface {
	ReceiveMessage(ctx context.Context) (*redis.Message, error)
	Close() error
}

func (b *RedisBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	pubsub := b.client.Subscribe(ctx, channel)
	msgChan := make(chan []byte, 100)

	go b.pump(ctx, pubsub, msgChan, receiveErrorBackoff)

	return msgChan, nil
}

// pump forwards messages from the receiver to out until ctx is cancelled.
// Receive errors are logged and waited out with backoff rather than retried
// immediately.
func (b *RedisBroker) pump(ctx context.Context, pubsub messageReceiver, out chan<- []byte, backoff time.Duration) {
	defer func() {
		pubsub.Close()
		close(out)
	}()

	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			b.logger.Error(err, "failed to receive message, backing off")
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			continue
		}

		select {
		case <-ctx.Done():
			return
		case out <- []byte(msg.Payload):
		}
	}
}

func (b *RedisBroker) Close() error {
	return b.client.Close()
}

package worker

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/triage-api/internal/model"
	"github.com/jwalitptl/triage-api/pkg/logger"
	"github.com/jwalitptl/triage-api/pkg/messaging"
)

// fakeOutboxRepo mirrors the store's publishability rule: PENDING rows plus
// RETRY rows whose retry_at has passed.
type fakeOutboxRepo struct {
	events map[uuid.UUID]*model.OutboxEvent
	now    time.Time
}

func newFakeOutboxRepo() *fakeOutboxRepo {
	return &fakeOutboxRepo{
		events: make(map[uuid.UUID]*model.OutboxEvent),
		now:    time.Now(),
	}
}

func (r *fakeOutboxRepo) Create(_ context.Context, event *model.OutboxEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	event.Status = string(model.OutboxStatusPending)
	r.events[event.ID] = event
	return nil
}

func (r *fakeOutboxRepo) GetPending(_ context.Context, limit int) ([]*model.OutboxEvent, error) {
	var out []*model.OutboxEvent
	for _, e := range r.events {
		if len(out) >= limit {
			break
		}
		switch model.OutboxStatus(e.Status) {
		case model.OutboxStatusPending:
			out = append(out, e)
		case model.OutboxStatusRetry:
			if e.RetryAt != nil && !e.RetryAt.After(r.now) {
				out = append(out, e)
			}
		}
	}
	return out, nil
}

func (r *fakeOutboxRepo) MarkProcessed(_ context.Context, id uuid.UUID) error {
	r.events[id].Status = string(model.OutboxStatusProcessed)
	return nil
}

func (r *fakeOutboxRepo) MarkFailed(_ context.Context, event *model.OutboxEvent, errMsg string) error {
	event.RegisterFailure(errMsg, r.now)
	return nil
}

type flakyBroker struct {
	failures  int
	published []string
}

func (b *flakyBroker) Publish(_ context.Context, _ string, message interface{}) error {
	if b.failures > 0 {
		b.failures--
		return fmt.Errorf("broker down")
	}
	msg := message.(messaging.Message)
	b.published = append(b.published, msg.Type)
	return nil
}

func (b *flakyBroker) Subscribe(context.Context, string) (<-chan []byte, error) { return nil, nil }
func (b *flakyBroker) Close() error                                             { return nil }

func newTestProcessor(repo *fakeOutboxRepo, broker messaging.Broker) *OutboxProcessor {
	return NewOutboxProcessor(repo, broker, OutboxProcessorConfig{BatchSize: 10}, logger.NewLogger(nil), nil)
}

func TestFailedPublishIsRetriedOnceDelayPasses(t *testing.T) {
	repo := newFakeOutboxRepo()
	broker := &flakyBroker{failures: 1}
	p := newTestProcessor(repo, broker)
	ctx := context.Background()

	event := &model.OutboxEvent{EventType: model.EventSubmissionCreated, Payload: []byte(`{}`)}
	require.NoError(t, repo.Create(ctx, event))

	// First pass: the broker is down, the event is scheduled for retry.
	p.processBatch(ctx)
	assert.Equal(t, string(model.OutboxStatusRetry), event.Status)
	assert.Equal(t, 1, event.RetryCount)
	require.NotNil(t, event.RetryAt)
	assert.Empty(t, broker.published)

	// The retry delay has not passed yet: the row is not publishable.
	p.processBatch(ctx)
	assert.Empty(t, broker.published)

	// Once the delay passes, the event is picked up and delivered.
	repo.now = repo.now.Add(model.PublishRetryDelay + time.Second)
	p.processBatch(ctx)
	assert.Equal(t, string(model.OutboxStatusProcessed), event.Status)
	assert.Equal(t, []string{model.EventSubmissionCreated}, broker.published)
}

func TestEventParksAsFailedAfterAttemptCap(t *testing.T) {
	repo := newFakeOutboxRepo()
	broker := &flakyBroker{failures: model.MaxPublishAttempts + 10}
	p := newTestProcessor(repo, broker)
	ctx := context.Background()

	event := &model.OutboxEvent{EventType: model.EventQueueReordered, Payload: []byte(`{}`)}
	require.NoError(t, repo.Create(ctx, event))

	for i := 0; i < model.MaxPublishAttempts; i++ {
		p.processBatch(ctx)
		repo.now = repo.now.Add(model.PublishRetryDelay + time.Second)
	}

	assert.Equal(t, string(model.OutboxStatusFailed), event.Status)
	assert.Equal(t, model.MaxPublishAttempts, event.RetryCount)
	assert.Nil(t, event.RetryAt)

	// FAILED is terminal: no further delivery attempts.
	p.processBatch(ctx)
	assert.Equal(t, model.MaxPublishAttempts, event.RetryCount)
	assert.Empty(t, broker.published)
}

func TestProcessedEventsAreNotRepublished(t *testing.T) {
	repo := newFakeOutboxRepo()
	broker := &flakyBroker{}
	p := newTestProcessor(repo, broker)
	ctx := context.Background()

	event := &model.OutboxEvent{EventType: model.EventNurseDecision, Payload: []byte(`{}`)}
	require.NoError(t, repo.Create(ctx, event))

	p.processBatch(ctx)
	p.processBatch(ctx)

	assert.Len(t, broker.published, 1)
}

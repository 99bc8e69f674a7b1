package main

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	gcppubsub "cloud.google.com/go/pubsub/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"gorm.io/gorm"

	"github.com/angelmondragon/foodorder-backend/pkg/config"
	"github.com/angelmondragon/foodorder-backend/pkg/db/models"
	"github.com/angelmondragon/foodorder-backend/pkg/enums"
	"github.com/angelmondragon/foodorder-backend/pkg/logger"
	"github.com/angelmondragon/foodorder-backend/pkg/outbox"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestProcessBatchContinuesAfterTransientFailure(t *testing.T) {
	repo := &fakeRepo{events: []models.OutboxEvent{
		newEvent(t, "event-one", 0),
		newEvent(t, "event-two", 0),
	}}
	pub := &fakePublisher{results: []publishResult{
		fakePublishResult{err: errors.New("transient")},
		fakePublishResult{},
	}}
	svc := newTestService(t, repo, pub, nil)

	processed, err := svc.processBatch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, processed)

	require.Len(t, repo.failed, 1)
	assert.Equal(t, repo.events[0].ID, repo.failed[0].id)
	assert.True(t, repo.failed[0].next.After(fixedNow))
	require.Len(t, repo.published, 1)
	assert.Equal(t, repo.events[1].ID, repo.published[0])
	assert.Empty(t, repo.terminal)
}

func TestProcessBatchSetsMessageAttributes(t *testing.T) {
	event := newEvent(t, "event-attrs", 0)
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	pub := &fakePublisher{results: []publishResult{fakePublishResult{}}}
	svc := newTestService(t, repo, pub, nil)

	_, err := svc.processBatch(context.Background())
	require.NoError(t, err)

	require.Len(t, pub.messages, 1)
	attrs := pub.messages[0].Attributes
	assert.Equal(t, "event-attrs", attrs["event_id"])
	assert.Equal(t, string(enums.EventOrderPlaced), attrs["event_type"])
	assert.Equal(t, string(enums.AggregateOrder), attrs["aggregate_type"])
	assert.Equal(t, event.AggregateID.String(), attrs["aggregate_id"])
	assert.Equal(t, "publisher-test", attrs["publisher_id"])
	assert.JSONEq(t, string(event.Payload), string(pub.messages[0].Data))
}

func TestProcessBatchTerminalOnPermanentError(t *testing.T) {
	repo := &fakeRepo{events: []models.OutboxEvent{newEvent(t, "event-perm", 0)}}
	pub := &fakePublisher{results: []publishResult{
		fakePublishResult{err: status.Error(codes.PermissionDenied, "denied")},
	}}
	svc := newTestService(t, repo, pub, nil)

	_, err := svc.processBatch(context.Background())
	require.NoError(t, err)
	require.Len(t, repo.terminal, 1)
	assert.Equal(t, 10, repo.terminal[0].attempts)
	assert.Empty(t, repo.failed)
}

func TestProcessBatchTerminalAtMaxAttempts(t *testing.T) {
	repo := &fakeRepo{events: []models.OutboxEvent{newEvent(t, "event-max", 2)}}
	pub := &fakePublisher{results: []publishResult{fakePublishResult{err: errors.New("boom")}}}
	svc := newTestService(t, repo, pub, &config.OutboxConfig{MaxAttempts: 3})

	_, err := svc.processBatch(context.Background())
	require.NoError(t, err)
	require.Len(t, repo.terminal, 1)
	assert.Equal(t, 3, repo.terminal[0].attempts)
	assert.Empty(t, repo.failed)
}

func TestProcessBatchUndecodablePayloadIsTerminal(t *testing.T) {
	event := newEvent(t, "ignored", 0)
	event.Payload = json.RawMessage(`"not an envelope"`)
	repo := &fakeRepo{events: []models.OutboxEvent{event}}
	pub := &fakePublisher{}
	svc := newTestService(t, repo, pub, nil)

	_, err := svc.processBatch(context.Background())
	require.NoError(t, err)
	assert.Len(t, repo.terminal, 1)
	assert.Empty(t, pub.messages)
}

func TestProcessBatchPropagatesFetchError(t *testing.T) {
	repo := &fakeRepo{fetchErr: errors.New("db down")}
	svc := newTestService(t, repo, &fakePublisher{}, nil)

	_, err := svc.processBatch(context.Background())
	assert.EqualError(t, err, "db down")
}

func TestRunStopsOnCancel(t *testing.T) {
	repo := &fakeRepo{}
	svc := newTestService(t, repo, &fakePublisher{}, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := svc.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRunFailsWhenBrokerUnreachable(t *testing.T) {
	svc := newTestService(t, &fakeRepo{}, &fakePublisher{}, nil)
	svc.ping = func(context.Context) error { return errors.New("unreachable") }

	err := svc.Run(context.Background())
	assert.ErrorContains(t, err, "pubsub ping failed")
}

func TestIsPermanent(t *testing.T) {
	assert.True(t, isPermanent(status.Error(codes.NotFound, "topic")))
	assert.False(t, isPermanent(status.Error(codes.Unavailable, "later")))
	assert.False(t, isPermanent(errors.New("plain")))
}

func TestNextLoopBackoff(t *testing.T) {
	assert.Equal(t, time.Second, nextLoopBackoff(500*time.Millisecond, 500*time.Millisecond, 10*time.Second))
	assert.Equal(t, 10*time.Second, nextLoopBackoff(8*time.Second, time.Second, 10*time.Second))
	assert.Equal(t, time.Second, nextLoopBackoff(0, 500*time.Millisecond, 10*time.Second))
}

func newTestService(t *testing.T, repo outboxRepository, pub publisher, outboxOverride *config.OutboxConfig) *Service {
	t.Helper()
	cfg := &config.Config{Outbox: config.OutboxConfig{
		BatchSize:      10,
		PollIntervalMS: 5,
		MaxAttempts:    10,
		BaseBackoff:    time.Second,
		MaxBackoff:     time.Minute,
	}}
	if outboxOverride != nil {
		cfg.Outbox.MaxAttempts = outboxOverride.MaxAttempts
	}
	svc, err := NewService(ServiceParams{
		Config:     cfg,
		Logger:     logger.Nop(),
		DB:         fakeDB{},
		Repository: repo,
		Publisher:  pub,
		Topic:      "order-events",
		WorkerID:   "publisher-test",
		Now:        func() time.Time { return fixedNow },
	})
	require.NoError(t, err)
	return svc
}

func newEvent(t *testing.T, eventID string, attempts int) models.OutboxEvent {
	t.Helper()
	payload, err := json.Marshal(outbox.PayloadEnvelope{
		Version:    1,
		EventID:    eventID,
		OccurredAt: fixedNow,
		Data:       json.RawMessage(`{"orderId":"ORD-1"}`),
	})
	require.NoError(t, err)
	return models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventOrderPlaced,
		AggregateType: enums.AggregateOrder,
		AggregateID:   uuid.New(),
		Payload:       payload,
		CreatedAt:     fixedNow,
		AttemptCount:  attempts,
	}
}

type failedMark struct {
	id   uuid.UUID
	next time.Time
}

type terminalMark struct {
	id       uuid.UUID
	attempts int
}

type fakeRepo struct {
	events    []models.OutboxEvent
	fetchErr  error
	fetched   bool
	published []uuid.UUID
	failed    []failedMark
	terminal  []terminalMark
}

func (f *fakeRepo) FetchDueTx(_ *gorm.DB, _ int, _ int, _ time.Time) ([]models.OutboxEvent, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	if f.fetched {
		return nil, nil
	}
	f.fetched = true
	return f.events, nil
}

func (f *fakeRepo) MarkPublishedTx(_ *gorm.DB, id uuid.UUID, _ time.Time) error {
	f.published = append(f.published, id)
	return nil
}

func (f *fakeRepo) MarkFailedTx(_ *gorm.DB, id uuid.UUID, _ error, next time.Time) error {
	f.failed = append(f.failed, failedMark{id: id, next: next})
	return nil
}

func (f *fakeRepo) MarkTerminalTx(_ *gorm.DB, id uuid.UUID, _ error, attempts int) error {
	f.terminal = append(f.terminal, terminalMark{id: id, attempts: attempts})
	return nil
}

func (f *fakeRepo) CountPending(context.Context) (int64, error) {
	return int64(len(f.events)), nil
}

type fakeDB struct{}

func (fakeDB) Ping(context.Context) error { return nil }

func (fakeDB) WithTx(_ context.Context, fn func(*gorm.DB) error) error {
	return fn(nil)
}

type fakePublisher struct {
	results  []publishResult
	messages []*gcppubsub.Message
}

func (f *fakePublisher) Publish(_ context.Context, msg *gcppubsub.Message) publishResult {
	f.messages = append(f.messages, msg)
	if len(f.results) == 0 {
		return fakePublishResult{}
	}
	res := f.results[0]
	f.results = f.results[1:]
	return res
}

type fakePublishResult struct {
	err error
}

func (f fakePublishResult) Get(context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "server-id", nil
}

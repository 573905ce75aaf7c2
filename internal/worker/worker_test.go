package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"storefront/internal/broker"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRefresher struct {
	calls int
	err   error
}

func (r *countingRefresher) Refresh(context.Context) error {
	r.calls++
	return r.err
}

type fakeLocker struct {
	held     bool
	err      error
	released int
}

func (l *fakeLocker) AcquireRefreshLock(context.Context, time.Duration) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	if l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

func (l *fakeLocker) ReleaseRefreshLock(context.Context) error {
	l.held = false
	l.released++
	return nil
}

type scriptedSource struct {
	messages []kafka.Message
	closed   bool
}

func (s *scriptedSource) StartConsuming(ctx context.Context, handler broker.MessageHandler) error {
	for _, msg := range s.messages {
		if err := handler(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

func (s *scriptedSource) Close() error {
	s.closed = true
	return nil
}

var productsUpdated = kafka.Message{Value: []byte(`{"event_id":"e1","event_type":"PRODUCTS_UPDATED","product_ids":["1","2"]}`)}

func TestCatalogWorker_RefreshesOnProductsUpdated(t *testing.T) {
	refresher := &countingRefresher{}
	locker := &fakeLocker{}
	source := &scriptedSource{messages: []kafka.Message{
		productsUpdated,
		{Value: []byte(`{"event_type":"CART_CLEARED"}`)},
		productsUpdated,
	}}
	w := NewCatalogWorker(source, refresher, locker)

	require.NoError(t, w.Start(context.Background()))
	assert.Equal(t, 2, refresher.calls)
	assert.Equal(t, 2, locker.released)
	assert.False(t, locker.held)

	require.NoError(t, w.Stop())
	assert.True(t, source.closed)
}

func TestCatalogWorker_SkipsWhenLockHeld(t *testing.T) {
	refresher := &countingRefresher{}
	w := NewCatalogWorker(&scriptedSource{}, refresher, &fakeLocker{held: true})

	require.NoError(t, w.HandleMessage(context.Background(), productsUpdated))
	assert.Equal(t, 0, refresher.calls)
}

func TestCatalogWorker_LockErrorStillRefreshes(t *testing.T) {
	refresher := &countingRefresher{}
	w := NewCatalogWorker(&scriptedSource{}, refresher, &fakeLocker{err: errors.New("redis down")})

	require.NoError(t, w.HandleMessage(context.Background(), productsUpdated))
	assert.Equal(t, 1, refresher.calls)
}

func TestCatalogWorker_RefreshErrorIsReturned(t *testing.T) {
	w := NewCatalogWorker(&scriptedSource{}, &countingRefresher{err: errors.New("upstream down")}, nil)

	assert.Error(t, w.HandleMessage(context.Background(), productsUpdated))
}

package redis

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rescuenet/rescuenet-api/pkg/messaging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBroker(t *testing.T) *RedisBroker {
	t.Helper()
	mr := miniredis.RunT(t)
	b, err := NewRedisBroker(Config{URL: "redis://" + mr.Addr()}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestPublishSubscribeRoundTrip(t *testing.T) {
	b := newTestBroker(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ch, err := b.Subscribe(ctx, messaging.NotificationsChannel)
	require.NoError(t, err)

	msg := messaging.Message{ID: "evt-1", Type: "report_status", Payload: json.RawMessage(`{"user_id":4}`)}
	require.NoError(t, b.Publish(ctx, messaging.NotificationsChannel, msg))

	select {
	case raw := <-ch:
		var got messaging.Message
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, "evt-1", got.ID)
		assert.Equal(t, "report_status", got.Type)
		assert.JSONEq(t, `{"user_id":4}`, string(got.Payload))
	case <-ctx.Done():
		t.Fatal("timed out waiting for message")
	}
}

func TestSubscriptionClosesOnCancel(t *testing.T) {
	b := newTestBroker(t)
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := b.Subscribe(ctx, "test")
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(5 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}

func TestConsumeDispatchesDecodedMessages(t *testing.T) {
	b := newTestBroker(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var (
		mu  sync.Mutex
		got []string
	)
	done := make(chan struct{})
	logger := zerolog.Nop()

	go func() {
		defer close(done)
		_ = messaging.Consume(ctx, b, "events", func(_ context.Context, msg messaging.Message) error {
			mu.Lock()
			got = append(got, msg.Type)
			n := len(got)
			mu.Unlock()
			if n == 2 {
				cancel()
			}
			return nil
		}, &logger)
	}()

	require.Eventually(t, func() bool {
		n, err := b.client.PubSubNumSub(ctx, "events").Result()
		return err == nil && n["events"] == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, b.client.Publish(ctx, "events", "not json").Err())
	require.NoError(t, b.Publish(ctx, "events", messaging.Message{Type: "aid_status"}))
	require.NoError(t, b.Publish(ctx, "events", messaging.Message{Type: "weather_alert"}))

	<-done
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"aid_status", "weather_alert"}, got)
}

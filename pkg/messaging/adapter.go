package messaging

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
)

// Handler processes one decoded message.
type Handler func(ctx context.Context, msg Message) error

// Consume subscribes to channel and feeds decoded messages to handler until
// ctx is cancelled or the subscription closes. Handler errors are logged and
// do not stop consumption.
func Consume(ctx context.Context, broker Broker, channel string, handler Handler, logger *zerolog.Logger) error {
	msgChan, err := broker.Subscribe(ctx, channel)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case raw, ok := <-msgChan:
			if !ok {
				return nil
			}
			var msg Message
			if err := json.Unmarshal(raw, &msg); err != nil {
				logger.Warn().Err(err).Str("channel", channel).Msg("Dropping undecodable message")
				continue
			}
			if err := handler(ctx, msg); err != nil {
				logger.Error().Err(err).
					Str("message_id", msg.ID).
					Str("type", msg.Type).
					Msg("Failed to handle message")
			}
		}
	}
}

package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedReader struct {
	messages []kafka.Message
	err      error
}

func (r *scriptedReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.messages) == 0 {
		return kafka.Message{}, r.err
	}
	msg := r.messages[0]
	r.messages = r.messages[1:]
	return msg, nil
}

func (r *scriptedReader) Close() error { return nil }

func TestConsumer_Consume_DecodesEvents(t *testing.T) {
	payload, err := json.Marshal(BookingEvent{
		Type:      "booking_created",
		BookingID: "bk-1",
		UserEmail: "user@example.com",
	})
	require.NoError(t, err)

	consumer := &Consumer{reader: &scriptedReader{
		messages: []kafka.Message{{Value: payload}},
		err:      io.EOF,
	}}

	var events []BookingEvent
	err = consumer.Consume(context.Background(), func(ctx context.Context, event BookingEvent) error {
		events = append(events, event)
		return nil
	})

	assert.ErrorIs(t, err, io.EOF)
	require.Len(t, events, 1)
	assert.Equal(t, "booking_created", events[0].Type)
	assert.Equal(t, "bk-1", events[0].BookingID)
	assert.Equal(t, "user@example.com", events[0].UserEmail)
}

func TestConsumer_Consume_SkipsMalformedPayloads(t *testing.T) {
	payload, err := json.Marshal(BookingEvent{Type: "booking_cancelled", BookingID: "bk-2"})
	require.NoError(t, err)

	consumer := &Consumer{reader: &scriptedReader{
		messages: []kafka.Message{
			{Value: []byte("not json")},
			{Value: payload},
		},
		err: io.EOF,
	}}

	var events []BookingEvent
	err = consumer.Consume(context.Background(), func(ctx context.Context, event BookingEvent) error {
		events = append(events, event)
		return nil
	})

	// The bad message is dropped, the one behind it still arrives.
	assert.ErrorIs(t, err, io.EOF)
	require.Len(t, events, 1)
	assert.Equal(t, "bk-2", events[0].BookingID)
}

func TestConsumer_Consume_HandlerFailureStopsLoop(t *testing.T) {
	payload, err := json.Marshal(BookingEvent{BookingID: "bk-1"})
	require.NoError(t, err)

	handlerErr := errors.New("smtp down")
	consumer := &Consumer{reader: &scriptedReader{
		messages: []kafka.Message{{Value: payload}, {Value: payload}},
		err:      io.EOF,
	}}

	calls := 0
	err = consumer.Consume(context.Background(), func(ctx context.Context, event BookingEvent) error {
		calls++
		return handlerErr
	})

	assert.ErrorIs(t, err, handlerErr)
	assert.Equal(t, 1, calls)
}

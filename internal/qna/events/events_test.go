package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"qna/pkg/requestcontext"
)

type fakeProducer struct {
	records []*kgo.Record
	err     error
	closed  bool
	// hang makes ProduceSync wait for ctx like an unreachable broker.
	hang bool
}

func (f *fakeProducer) ProduceSync(ctx context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	err := f.err
	if f.hang {
		<-ctx.Done()
		err = ctx.Err()
	}
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		f.records = append(f.records, r)
		results = append(results, kgo.ProduceResult{Record: r, Err: err})
	}
	return results
}

func (f *fakeProducer) Close() { f.closed = true }

func testContext() context.Context {
	ctx := context.Background()
	ctx = requestcontext.WithIdentity(ctx, requestcontext.Identity{UserID: "alice", Role: requestcontext.RoleUser})
	ctx = requestcontext.WithRequestID(ctx, "req-1")
	return requestcontext.WithTime(ctx, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
}

func TestNewStampsContext(t *testing.T) {
	event := New(testContext(), AnswerCreated, 7, 11)

	assert.Equal(t, AnswerCreated, event.Type)
	assert.Equal(t, int64(7), event.QuestionID)
	assert.Equal(t, int64(11), event.AnswerID)
	assert.Equal(t, "alice", event.ActorID)
	assert.Equal(t, "req-1", event.RequestID)
	assert.Equal(t, time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC), event.OccurredAt)
	assert.NotEqual(t, [16]byte{}, [16]byte(event.ID))
	assert.Equal(t, "7", event.Key())
}

func TestKafkaPublisher(t *testing.T) {
	t.Run("produces a keyed JSON record", func(t *testing.T) {
		producer := &fakeProducer{}
		publisher := NewKafkaPublisherWithProducer(producer, "qna.lifecycle")

		event := New(testContext(), QuestionCreated, 42, 0)
		require.NoError(t, publisher.Publish(context.Background(), event))

		require.Len(t, producer.records, 1)
		record := producer.records[0]
		assert.Equal(t, "qna.lifecycle", record.Topic)
		assert.Equal(t, []byte("42"), record.Key)

		var decoded Event
		require.NoError(t, json.Unmarshal(record.Value, &decoded))
		assert.Equal(t, event.ID, decoded.ID)
		assert.Equal(t, QuestionCreated, decoded.Type)
	})

	t.Run("surfaces broker errors", func(t *testing.T) {
		errBroker := errors.New("broker down")
		publisher := NewKafkaPublisherWithProducer(&fakeProducer{err: errBroker}, "qna.lifecycle")

		err := publisher.Publish(context.Background(), New(testContext(), QuestionDeleted, 1, 0))
		require.ErrorIs(t, err, errBroker)
	})

	t.Run("gives up when the context ends", func(t *testing.T) {
		publisher := NewKafkaPublisherWithProducer(&fakeProducer{hang: true}, "qna.lifecycle")
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		err := publisher.Publish(ctx, New(testContext(), QuestionCreated, 1, 0))
		require.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("close releases the client", func(t *testing.T) {
		producer := &fakeProducer{}
		NewKafkaPublisherWithProducer(producer, "t").Close()
		assert.True(t, producer.closed)
	})
}

func TestLogPublisher(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	require.NoError(t, NewLogPublisher(logger).Publish(context.Background(), New(testContext(), QuestionUpdated, 3, 0)))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "question.updated", line["msg"])
	assert.Equal(t, "event", line["log_type"])
	assert.Equal(t, "alice", line["actor_id"])
}

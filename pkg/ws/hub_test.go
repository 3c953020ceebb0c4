package ws

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(topics ...string) *client {
	return &client{
		id:     uuid.New().String(),
		topics: topics,
		send:   make(chan []byte, 4),
	}
}

func TestPublishReachesTopicMembers(t *testing.T) {
	hub := NewHub(zap.NewNop())

	doctor := newTestClient("doctor_abc")
	reception := newTestClient(TopicReceptionists)
	hub.register(doctor)
	hub.register(reception)

	err := hub.Publish(context.Background(), Event{
		Type:      "ipd.admitted",
		Topic:     TopicReceptionists,
		Timestamp: time.Now(),
		Data:      json.RawMessage(`{"bed_number":"12"}`),
	})
	require.NoError(t, err)

	select {
	case raw := <-reception.send:
		var got Event
		require.NoError(t, json.Unmarshal(raw, &got))
		assert.Equal(t, "ipd.admitted", got.Type)
	default:
		t.Fatal("reception client received nothing")
	}

	assert.Empty(t, doctor.send, "event must not leak to other topics")
}

func TestJoinAndLeave(t *testing.T) {
	hub := NewHub(zap.NewNop())

	c := newTestClient()
	hub.register(c)
	assert.Equal(t, 0, hub.TopicCount(TopicReceptionists))

	hub.dispatch(c, clientMessage{Action: "join", Topics: []string{TopicReceptionists, "doctor_1"}})
	assert.Equal(t, 1, hub.TopicCount(TopicReceptionists))
	assert.Equal(t, 1, hub.TopicCount("doctor_1"))

	hub.dispatch(c, clientMessage{Action: "leave", Topics: []string{"doctor_1"}})
	assert.Equal(t, 0, hub.TopicCount("doctor_1"))
	assert.Equal(t, 1, hub.TopicCount(TopicReceptionists))
}

func TestUnregisterRemovesMemberships(t *testing.T) {
	hub := NewHub(zap.NewNop())

	c := newTestClient(TopicReceptionists)
	hub.register(c)
	require.Equal(t, 1, hub.ClientCount())

	hub.unregister(c)
	assert.Equal(t, 0, hub.ClientCount())
	assert.Equal(t, 0, hub.TopicCount(TopicReceptionists))

	// Double unregister must not panic on the closed send channel.
	hub.unregister(c)
}

func TestPublishSkipsSlowConsumer(t *testing.T) {
	hub := NewHub(zap.NewNop())

	slow := &client{id: "slow", topics: []string{TopicReceptionists}, send: make(chan []byte)}
	hub.register(slow)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = hub.Publish(context.Background(), Event{Topic: TopicReceptionists, Timestamp: time.Now()})
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full client buffer")
	}
}

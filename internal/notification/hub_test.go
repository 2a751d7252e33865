package notification

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestHub_BroadcastReachesOnlyTargetUser(t *testing.T) {
	hub := NewHub()
	alice, bob := uuid.New(), uuid.New()
	a1 := hub.Register(alice)
	a2 := hub.Register(alice)
	b := hub.Register(bob)

	assert.Equal(t, 2, hub.Broadcast(alice, []byte("hi")))
	assert.Equal(t, "hi", string(<-a1.Send))
	assert.Equal(t, "hi", string(<-a2.Send))
	assert.Len(t, b.Send, 0)
}

func TestHub_UnregisterClosesChannel(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()
	c := hub.Register(userID)

	hub.Unregister(c)
	_, open := <-c.Send
	assert.False(t, open)
	assert.Zero(t, hub.Connected(userID))
	assert.Zero(t, hub.Broadcast(userID, []byte("x")))

	// second unregister is a no-op
	hub.Unregister(c)
}

func TestHub_FullBacklogIsSkipped(t *testing.T) {
	hub := NewHub()
	userID := uuid.New()
	c := hub.Register(userID)

	for i := 0; i < clientBuffer; i++ {
		assert.Equal(t, 1, hub.Broadcast(userID, []byte("m")))
	}
	assert.Zero(t, hub.Broadcast(userID, []byte("overflow")))
	assert.Len(t, c.Send, clientBuffer)
}

func TestKafkaPublisher_NilWithoutBrokers(t *testing.T) {
	p := NewKafkaPublisher(nil, "ekyc.notifications", 0)
	assert.Nil(t, p)
	assert.NoError(t, p.Publish(context.Background(), nil))
	assert.NoError(t, p.Close())
}

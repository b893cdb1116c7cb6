package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeConn records written events and can fail on demand
type fakeConn struct {
	events   []ChangeEvent
	writeErr error
	closed   int
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.events = append(f.events, v.(ChangeEvent))
	return nil
}

func (f *fakeConn) Close() error {
	f.closed++
	return nil
}

func TestBroadcastReachesCollectionSubscribers(t *testing.T) {
	hub := NewHub()
	postsConn := &fakeConn{}
	pollsConn := &fakeConn{}
	hub.Subscribe(1, postsConn, []string{"posts"})
	hub.Subscribe(2, pollsConn, []string{"polls"})

	hub.Broadcast(ChangeEvent{Collection: "posts", Action: "insert", RecordID: "abc"})

	require.Len(t, postsConn.events, 1)
	assert.Equal(t, "insert", postsConn.events[0].Action)
	assert.Empty(t, pollsConn.events)
}

func TestBroadcastNoFilterCoversAllCollections(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}
	hub.Subscribe(1, conn, nil)

	hub.Broadcast(ChangeEvent{Collection: "posts", Action: "insert"})
	hub.Broadcast(ChangeEvent{Collection: "messages", Action: "insert"})

	assert.Len(t, conn.events, 2)
}

func TestBroadcastTargetsLimitDelivery(t *testing.T) {
	hub := NewHub()
	alice := &fakeConn{}
	bob := &fakeConn{}
	carol := &fakeConn{}
	hub.Subscribe(1, alice, []string{"messages"})
	hub.Subscribe(2, bob, []string{"messages"})
	hub.Subscribe(3, carol, []string{"messages"})

	// A chat event addresses only the two participants
	hub.Broadcast(ChangeEvent{Collection: "messages", Action: "insert", Targets: []uint{1, 2}})

	assert.Len(t, alice.events, 1)
	assert.Len(t, bob.events, 1)
	assert.Empty(t, carol.events)
}

func TestUnsubscribeStopsDeliveryAndClosesOnce(t *testing.T) {
	hub := NewHub()
	conn := &fakeConn{}
	sub := hub.Subscribe(1, conn, []string{"posts"})

	hub.Unsubscribe(sub)
	hub.Unsubscribe(sub) // second call is a no-op
	hub.Broadcast(ChangeEvent{Collection: "posts", Action: "insert"})

	assert.Empty(t, conn.events)
	assert.Equal(t, 1, conn.closed)
}

func TestBroadcastDropsFailingSubscriber(t *testing.T) {
	hub := NewHub()
	healthy := &fakeConn{}
	broken := &fakeConn{writeErr: errors.New("broken pipe")}
	hub.Subscribe(1, healthy, []string{"posts"})
	hub.Subscribe(2, broken, []string{"posts"})

	hub.Broadcast(ChangeEvent{Collection: "posts", Action: "insert"})

	// The healthy subscriber still received the event
	assert.Len(t, healthy.events, 1)
	assert.Equal(t, 1, broken.closed)

	// The broken one is gone; later events only reach the healthy conn
	hub.Broadcast(ChangeEvent{Collection: "posts", Action: "update"})
	assert.Len(t, healthy.events, 2)
	assert.Equal(t, 1, broken.closed)
}
